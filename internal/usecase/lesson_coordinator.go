package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lessonmap/internal/core"
)

const imageReleaseTimeout = 30 * time.Second

// LessonCoordinator keeps lessons and their owners' back-references consistent.
// It is the only component that writes both tables.
type LessonCoordinator struct {
	lessons core.LessonRepository
	users   core.UserRepository
	tx      core.TransactionScope
	images  core.ImageStore
	log     logrus.FieldLogger
	now     func() time.Time
	newID   func() uuid.UUID

	releases sync.WaitGroup
}

// NewLessonCoordinator constructs a coordinator over the provided stores.
func NewLessonCoordinator(
	lessons core.LessonRepository,
	users core.UserRepository,
	tx core.TransactionScope,
	images core.ImageStore,
	log logrus.FieldLogger,
) *LessonCoordinator {
	return &LessonCoordinator{
		lessons: lessons,
		users:   users,
		tx:      tx,
		images:  images,
		log:     log,
		now:     time.Now,
		newID:   uuid.New,
	}
}

// WithClock allows tests to override the clock used by the coordinator.
func (c *LessonCoordinator) WithClock(fn func() time.Time) {
	if fn != nil {
		c.now = fn
	}
}

var _ core.LessonCoordinator = (*LessonCoordinator)(nil)

// CreateLessonFor stores a new lesson and links it to its owner in one transaction.
func (c *LessonCoordinator) CreateLessonFor(ctx context.Context, user core.User, draft core.LessonDraft) (*core.Lesson, error) {
	now := c.now().UTC()
	lesson := core.Lesson{
		ID:          c.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Address:     draft.Address,
		Location:    draft.Location,
		Image:       draft.Image,
		CreatorID:   user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := core.ExecuteWithResult(ctx, c.tx, func(ctx context.Context) (*core.Lesson, error) {
		created, err := c.lessons.Create(ctx, lesson)
		if err != nil {
			return nil, fmt.Errorf("persisting lesson: %w", err)
		}

		owner, err := c.users.Get(ctx, user.ID, core.UserQueryOptions{ForUpdate: true})
		if err != nil {
			return nil, fmt.Errorf("loading owner: %w", err)
		}
		owner.AddLesson(created.ID)
		owner.UpdatedAt = now

		if _, err := c.users.Update(ctx, *owner); err != nil {
			return nil, fmt.Errorf("persisting owner: %w", err)
		}
		return created, nil
	})
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"user_id":   user.ID,
			"lesson_id": lesson.ID,
		}).Error("create lesson transaction failed")
		return nil, core.ErrCreateFailed
	}

	return created, nil
}

// DeleteLesson removes a lesson owned by requesterID and unlinks it from its owner.
// The lesson image is released after the transaction commits.
func (c *LessonCoordinator) DeleteLesson(ctx context.Context, lessonID, requesterID uuid.UUID) error {
	lesson, owner, err := c.lessons.GetWithCreator(ctx, lessonID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NewPublicError(core.ErrNotFound, "could not find lesson for this id")
		}
		return err
	}

	if owner.ID != requesterID {
		return core.NewPublicError(core.ErrUnauthorized, "you are not allowed to delete this lesson")
	}

	image := lesson.Image
	gone := false

	err = c.tx.Execute(ctx, func(ctx context.Context) error {
		if err := c.lessons.Delete(ctx, lesson.ID); err != nil {
			gone = errors.Is(err, core.ErrNotFound)
			return fmt.Errorf("removing lesson: %w", err)
		}

		current, err := c.users.Get(ctx, owner.ID, core.UserQueryOptions{ForUpdate: true})
		if err != nil {
			return fmt.Errorf("loading owner: %w", err)
		}
		current.RemoveLesson(lesson.ID)
		current.UpdatedAt = c.now().UTC()

		if _, err := c.users.Update(ctx, *current); err != nil {
			return fmt.Errorf("persisting owner: %w", err)
		}
		return nil
	})
	if gone {
		return core.NewPublicError(core.ErrNotFound, "could not find lesson for this id")
	}
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"user_id":   owner.ID,
			"lesson_id": lesson.ID,
		}).Error("delete lesson transaction failed")
		return core.ErrDeleteFailed
	}

	c.releaseImage(ctx, lesson.ID, image)
	return nil
}

// Wait blocks until scheduled image releases have finished.
func (c *LessonCoordinator) Wait() {
	c.releases.Wait()
}

func (c *LessonCoordinator) releaseImage(ctx context.Context, lessonID uuid.UUID, ref string) {
	if ref == "" || c.images == nil {
		return
	}

	c.releases.Add(1)
	go func() {
		defer c.releases.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), imageReleaseTimeout)
		defer cancel()

		if err := c.images.Release(ctx, ref); err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"lesson_id": lessonID,
				"image":     ref,
			}).Warn("failed to release lesson image")
		}
	}()
}
