package transport

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eslsoft/lessonmap/internal/core"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, key []byte, userID string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return signed
}

type stubLessonService struct {
	getFn    func(ctx context.Context, id uuid.UUID) (*core.Lesson, error)
	listFn   func(ctx context.Context, userID uuid.UUID) ([]core.Lesson, error)
	createFn func(ctx context.Context, requesterID uuid.UUID, draft core.LessonDraft) (*core.Lesson, error)
	updateFn func(ctx context.Context, params core.UpdateLessonParams) (*core.Lesson, error)
	deleteFn func(ctx context.Context, requesterID, id uuid.UUID) error
}

func (s *stubLessonService) GetLesson(ctx context.Context, id uuid.UUID) (*core.Lesson, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, core.ErrNotFound
}

func (s *stubLessonService) ListUserLessons(ctx context.Context, userID uuid.UUID) ([]core.Lesson, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID)
	}
	return nil, core.ErrNotFound
}

func (s *stubLessonService) CreateLesson(ctx context.Context, requesterID uuid.UUID, draft core.LessonDraft) (*core.Lesson, error) {
	if s.createFn != nil {
		return s.createFn(ctx, requesterID, draft)
	}
	return nil, core.ErrCreateFailed
}

func (s *stubLessonService) UpdateLesson(ctx context.Context, params core.UpdateLessonParams) (*core.Lesson, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, params)
	}
	return nil, core.ErrNotFound
}

func (s *stubLessonService) DeleteLesson(ctx context.Context, requesterID, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, requesterID, id)
	}
	return nil
}
