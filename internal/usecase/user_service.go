package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/lessonmap/internal/core"
)

// UserService coordinates the user use cases needed by admin tooling.
type UserService struct {
	repo core.UserRepository
	now  func() time.Time
}

// NewUserService constructs a user service backed by the provided repository.
func NewUserService(repo core.UserRepository) *UserService {
	return &UserService{repo: repo, now: time.Now}
}

var _ core.UserService = (*UserService)(nil)

// RegisterUser creates a user without lessons.
func (s *UserService) RegisterUser(ctx context.Context, params core.RegisterUserParams) (*core.User, error) {
	name := strings.TrimSpace(params.Name)
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", core.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", core.ErrValidation)
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, core.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Image:     params.Image,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// GetUser fetches a user by id without expanding lessons.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*core.User, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: user id required", core.ErrValidation)
	}
	return s.repo.Get(ctx, id, core.UserQueryOptions{})
}
