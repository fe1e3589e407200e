package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/eslsoft/lessonmap/internal/core"
)

type stubLessonRepo struct {
	createFn         func(ctx context.Context, lesson core.Lesson) (*core.Lesson, error)
	getFn            func(ctx context.Context, id uuid.UUID) (*core.Lesson, error)
	getWithCreatorFn func(ctx context.Context, id uuid.UUID) (*core.Lesson, *core.User, error)
	listByIDsFn      func(ctx context.Context, ids []uuid.UUID) ([]core.Lesson, error)
	updateFn         func(ctx context.Context, lesson core.Lesson) (*core.Lesson, error)
	deleteFn         func(ctx context.Context, id uuid.UUID) error
}

func (s *stubLessonRepo) Create(ctx context.Context, lesson core.Lesson) (*core.Lesson, error) {
	if s.createFn != nil {
		return s.createFn(ctx, lesson)
	}
	return &lesson, nil
}

func (s *stubLessonRepo) Get(ctx context.Context, id uuid.UUID) (*core.Lesson, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, core.ErrNotFound
}

func (s *stubLessonRepo) GetWithCreator(ctx context.Context, id uuid.UUID) (*core.Lesson, *core.User, error) {
	if s.getWithCreatorFn != nil {
		return s.getWithCreatorFn(ctx, id)
	}
	return nil, nil, core.ErrNotFound
}

func (s *stubLessonRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]core.Lesson, error) {
	if s.listByIDsFn != nil {
		return s.listByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (s *stubLessonRepo) Update(ctx context.Context, lesson core.Lesson) (*core.Lesson, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, lesson)
	}
	return &lesson, nil
}

func (s *stubLessonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

type stubUserRepo struct {
	createFn func(ctx context.Context, user core.User) (*core.User, error)
	getFn    func(ctx context.Context, id uuid.UUID, opts core.UserQueryOptions) (*core.User, error)
	updateFn func(ctx context.Context, user core.User) (*core.User, error)
}

func (s *stubUserRepo) Create(ctx context.Context, user core.User) (*core.User, error) {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	return &user, nil
}

func (s *stubUserRepo) Get(ctx context.Context, id uuid.UUID, opts core.UserQueryOptions) (*core.User, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id, opts)
	}
	return nil, core.ErrNotFound
}

func (s *stubUserRepo) Update(ctx context.Context, user core.User) (*core.User, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, user)
	}
	return &user, nil
}

// stubScope runs fn inline and counts invocations.
type stubScope struct {
	calls int
}

func (s *stubScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	s.calls++
	return fn(ctx)
}

type stubCoordinator struct {
	createFn func(ctx context.Context, user core.User, draft core.LessonDraft) (*core.Lesson, error)
	deleteFn func(ctx context.Context, lessonID, requesterID uuid.UUID) error
}

func (s *stubCoordinator) CreateLessonFor(ctx context.Context, user core.User, draft core.LessonDraft) (*core.Lesson, error) {
	if s.createFn != nil {
		return s.createFn(ctx, user, draft)
	}
	return nil, nil
}

func (s *stubCoordinator) DeleteLesson(ctx context.Context, lessonID, requesterID uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, lessonID, requesterID)
	}
	return nil
}

type stubGeocoder struct {
	location core.Location
	err      error
	calls    int
}

func (s *stubGeocoder) Resolve(ctx context.Context, address string) (core.Location, error) {
	s.calls++
	return s.location, s.err
}
