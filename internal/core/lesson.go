package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Location is a geocoded coordinate pair.
type Location struct {
	Lat float64
	Lng float64
}

// Lesson represents a lesson offered by a user at a physical address.
type Lesson struct {
	ID          uuid.UUID
	Title       string
	Description string
	Address     string
	Location    Location
	Image       string
	CreatorID   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LessonDraft holds the already validated input for a new lesson.
type LessonDraft struct {
	Title       string
	Description string
	Address     string
	Location    Location
	Image       string
}

// UpdateLessonParams holds the input required to update an existing lesson.
type UpdateLessonParams struct {
	RequesterID uuid.UUID
	ID          uuid.UUID
	Title       string
	Description string
}

// LessonRepository defines the persistence operations required by the lesson domain.
type LessonRepository interface {
	Create(ctx context.Context, lesson Lesson) (*Lesson, error)
	Get(ctx context.Context, id uuid.UUID) (*Lesson, error)
	GetWithCreator(ctx context.Context, id uuid.UUID) (*Lesson, *User, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]Lesson, error)
	Update(ctx context.Context, lesson Lesson) (*Lesson, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LessonCoordinator performs the writes that span both lessons and users.
type LessonCoordinator interface {
	CreateLessonFor(ctx context.Context, user User, draft LessonDraft) (*Lesson, error)
	DeleteLesson(ctx context.Context, lessonID, requesterID uuid.UUID) error
}

// LessonService exposes the lesson use cases to the transport layer.
type LessonService interface {
	GetLesson(ctx context.Context, id uuid.UUID) (*Lesson, error)
	ListUserLessons(ctx context.Context, userID uuid.UUID) ([]Lesson, error)
	CreateLesson(ctx context.Context, requesterID uuid.UUID, draft LessonDraft) (*Lesson, error)
	UpdateLesson(ctx context.Context, params UpdateLessonParams) (*Lesson, error)
	DeleteLesson(ctx context.Context, requesterID, id uuid.UUID) error
}
