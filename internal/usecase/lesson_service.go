package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lessonmap/internal/core"
)

// LessonService coordinates lesson use cases and aggregates domain logic.
type LessonService struct {
	lessons     core.LessonRepository
	users       core.UserRepository
	coordinator core.LessonCoordinator
	geocoder    core.Geocoder
	log         logrus.FieldLogger
	now         func() time.Time
}

// NewLessonService constructs a lesson service.
func NewLessonService(
	lessons core.LessonRepository,
	users core.UserRepository,
	coordinator core.LessonCoordinator,
	geocoder core.Geocoder,
	log logrus.FieldLogger,
) *LessonService {
	return &LessonService{
		lessons:     lessons,
		users:       users,
		coordinator: coordinator,
		geocoder:    geocoder,
		log:         log,
		now:         time.Now,
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *LessonService) WithClock(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

var _ core.LessonService = (*LessonService)(nil)

// GetLesson fetches a lesson by its identifier.
func (s *LessonService) GetLesson(ctx context.Context, id uuid.UUID) (*core.Lesson, error) {
	return s.lessons.Get(ctx, id)
}

// ListUserLessons returns every lesson owned by the user.
// A user without lessons is reported as not found.
func (s *LessonService) ListUserLessons(ctx context.Context, userID uuid.UUID) ([]core.Lesson, error) {
	user, err := s.users.Get(ctx, userID, core.UserQueryOptions{IncludeLessons: true})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NewPublicError(core.ErrNotFound, "could not find lessons for the provided user id")
		}
		return nil, err
	}

	if len(user.Lessons) == 0 {
		return nil, core.NewPublicError(core.ErrNotFound, "could not find lessons for the provided user id")
	}
	return user.Lessons, nil
}

// CreateLesson geocodes the draft's address and stores the lesson for the requester.
func (s *LessonService) CreateLesson(ctx context.Context, requesterID uuid.UUID, draft core.LessonDraft) (*core.Lesson, error) {
	location, err := s.geocoder.Resolve(ctx, draft.Address)
	if err != nil {
		s.log.WithError(err).WithField("user_id", requesterID).Warn("geocoding lesson address failed")
		return nil, core.ErrGeocode
	}
	draft.Location = location

	user, err := s.users.Get(ctx, requesterID, core.UserQueryOptions{})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NewPublicError(core.ErrNotFound, "could not find user for provided id")
		}
		s.log.WithError(err).WithField("user_id", requesterID).Error("resolving lesson creator failed")
		return nil, core.ErrCreateFailed
	}

	return s.coordinator.CreateLessonFor(ctx, *user, draft)
}

// UpdateLesson changes the title and description of a lesson owned by the requester.
func (s *LessonService) UpdateLesson(ctx context.Context, params core.UpdateLessonParams) (*core.Lesson, error) {
	lesson, err := s.lessons.Get(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	if lesson.CreatorID != params.RequesterID {
		return nil, core.NewPublicError(core.ErrUnauthorized, "you are not allowed to edit this lesson")
	}

	lesson.Title = params.Title
	lesson.Description = params.Description
	lesson.UpdatedAt = s.now().UTC()

	return s.lessons.Update(ctx, *lesson)
}

// DeleteLesson removes a lesson owned by the requester.
func (s *LessonService) DeleteLesson(ctx context.Context, requesterID, id uuid.UUID) error {
	return s.coordinator.DeleteLesson(ctx, id, requesterID)
}
