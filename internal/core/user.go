package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// User owns lessons. LessonIDs holds non-owning back-references to them.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Image     string
	LessonIDs []uuid.UUID
	Lessons   []Lesson
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasLesson reports whether the lesson is referenced by the user.
func (u *User) HasLesson(id uuid.UUID) bool {
	return lo.Contains(u.LessonIDs, id)
}

// AddLesson records a reference to the lesson, keeping the set unique.
func (u *User) AddLesson(id uuid.UUID) {
	if u.HasLesson(id) {
		return
	}
	u.LessonIDs = append(u.LessonIDs, id)
}

// RemoveLesson drops the reference to the lesson if present.
func (u *User) RemoveLesson(id uuid.UUID) {
	u.LessonIDs = lo.Without(u.LessonIDs, id)
}

// UserQueryOptions customise how a user is loaded.
type UserQueryOptions struct {
	// IncludeLessons expands LessonIDs into Lessons.
	IncludeLessons bool
	// ForUpdate locks the row for the surrounding transaction where the store supports it.
	ForUpdate bool
}

// RegisterUserParams holds the input for creating a user.
type RegisterUserParams struct {
	Name  string
	Email string
	Image string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user User) (*User, error)
	Get(ctx context.Context, id uuid.UUID, opts UserQueryOptions) (*User, error)
	Update(ctx context.Context, user User) (*User, error)
}

// UserService exposes the user use cases needed by the admin tooling.
type UserService interface {
	RegisterUser(ctx context.Context, params RegisterUserParams) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
}
