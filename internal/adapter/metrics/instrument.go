package metrics

import (
	"context"

	"github.com/google/uuid"

	"github.com/eslsoft/lessonmap/internal/core"
)

type coordinator struct {
	next    core.LessonCoordinator
	metrics *Registry
}

// InstrumentCoordinator counts the outcome of every transactional lesson write.
func (r *Registry) InstrumentCoordinator(next core.LessonCoordinator) core.LessonCoordinator {
	return &coordinator{next: next, metrics: r}
}

func (c *coordinator) CreateLessonFor(ctx context.Context, user core.User, draft core.LessonDraft) (*core.Lesson, error) {
	lesson, err := c.next.CreateLessonFor(ctx, user, draft)
	c.metrics.lessonWrites.WithLabelValues("create", outcome(err)).Inc()
	return lesson, err
}

func (c *coordinator) DeleteLesson(ctx context.Context, lessonID, requesterID uuid.UUID) error {
	err := c.next.DeleteLesson(ctx, lessonID, requesterID)
	c.metrics.lessonWrites.WithLabelValues("delete", outcome(err)).Inc()
	return err
}

type imageStore struct {
	next    core.ImageStore
	metrics *Registry
}

// InstrumentImages counts image store calls.
func (r *Registry) InstrumentImages(next core.ImageStore) core.ImageStore {
	return &imageStore{next: next, metrics: r}
}

func (s *imageStore) Save(ctx context.Context, upload core.ImageUpload) (string, error) {
	ref, err := s.next.Save(ctx, upload)
	s.metrics.imageOps.WithLabelValues("save", outcome(err)).Inc()
	return ref, err
}

func (s *imageStore) Release(ctx context.Context, ref string) error {
	err := s.next.Release(ctx, ref)
	s.metrics.imageOps.WithLabelValues("release", outcome(err)).Inc()
	return err
}
