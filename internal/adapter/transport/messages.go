package transport

import (
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/lessonmap/internal/core"
)

// LocationMessage is the wire form of core.Location.
type LocationMessage struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LessonMessage is the wire form of core.Lesson shared by REST and RPC.
type LessonMessage struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Address     string          `json:"address"`
	Location    LocationMessage `json:"location"`
	Image       string          `json:"image"`
	Creator     string          `json:"creator"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// LessonResponse wraps a single lesson.
type LessonResponse struct {
	Lesson *LessonMessage `json:"lesson"`
}

// LessonsResponse wraps a list of lessons.
type LessonsResponse struct {
	Lessons []LessonMessage `json:"lessons"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

func toLessonMessage(lesson *core.Lesson) *LessonMessage {
	if lesson == nil {
		return nil
	}
	return &LessonMessage{
		ID:          lesson.ID.String(),
		Title:       lesson.Title,
		Description: lesson.Description,
		Address:     lesson.Address,
		Location:    LocationMessage{Lat: lesson.Location.Lat, Lng: lesson.Location.Lng},
		Image:       lesson.Image,
		Creator:     lesson.CreatorID.String(),
		CreatedAt:   lesson.CreatedAt,
		UpdatedAt:   lesson.UpdatedAt,
	}
}

func toLessonMessages(lessons []core.Lesson) []LessonMessage {
	return lo.Map(lessons, func(lesson core.Lesson, _ int) LessonMessage {
		return *toLessonMessage(&lesson)
	})
}
