package transport

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lessonmap/internal/core"
)

// LessonServiceName is the fully-qualified name of the lesson RPC service.
const LessonServiceName = "lesson.v1.LessonService"

// Procedure paths of the lesson service.
const (
	GetLessonProcedure       = "/" + LessonServiceName + "/GetLesson"
	ListUserLessonsProcedure = "/" + LessonServiceName + "/ListUserLessons"
	CreateLessonProcedure    = "/" + LessonServiceName + "/CreateLesson"
	UpdateLessonProcedure    = "/" + LessonServiceName + "/UpdateLesson"
	DeleteLessonProcedure    = "/" + LessonServiceName + "/DeleteLesson"
)

// GetLessonRequest selects one lesson by id.
type GetLessonRequest struct {
	ID string `json:"id"`
}

// ListUserLessonsRequest selects the lessons created by a user.
type ListUserLessonsRequest struct {
	UserID string `json:"userId"`
}

// ImagePayload is an inline image. Data is base64 encoded on the wire.
type ImagePayload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

// CreateLessonRequest carries a new lesson with its inline image.
type CreateLessonRequest struct {
	LessonInput
	Image ImagePayload `json:"image"`
}

// Validate checks the text fields and the image type. The size limit is
// enforced by the handler.
func (r *CreateLessonRequest) Validate() error {
	if err := r.LessonInput.Validate(); err != nil {
		return err
	}
	return validateImage(r.Image.ContentType, int64(len(r.Image.Data)), 0)
}

// UpdateLessonRequest replaces the title and description of a lesson.
type UpdateLessonRequest struct {
	ID string `json:"id"`
	LessonPatch
}

// DeleteLessonRequest selects the lesson to remove.
type DeleteLessonRequest struct {
	ID string `json:"id"`
}

// LessonHandler serves the lesson operations over Connect.
type LessonHandler struct {
	service       core.LessonService
	images        core.ImageStore
	log           logrus.FieldLogger
	maxImageBytes int64
}

// NewLessonHandler builds a new Connect lesson handler.
func NewLessonHandler(service core.LessonService, images core.ImageStore, log logrus.FieldLogger, maxImageBytes int64) *LessonHandler {
	return &LessonHandler{service: service, images: images, log: log, maxImageBytes: maxImageBytes}
}

// NewLessonServiceHandler mounts every lesson procedure and returns the path
// prefix to register the handler under.
func NewLessonServiceHandler(h *LessonHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetLessonProcedure, connect.NewUnaryHandler(GetLessonProcedure, h.GetLesson, opts...))
	mux.Handle(ListUserLessonsProcedure, connect.NewUnaryHandler(ListUserLessonsProcedure, h.ListUserLessons, opts...))
	mux.Handle(CreateLessonProcedure, connect.NewUnaryHandler(CreateLessonProcedure, h.CreateLesson, opts...))
	mux.Handle(UpdateLessonProcedure, connect.NewUnaryHandler(UpdateLessonProcedure, h.UpdateLesson, opts...))
	mux.Handle(DeleteLessonProcedure, connect.NewUnaryHandler(DeleteLessonProcedure, h.DeleteLesson, opts...))
	return "/" + LessonServiceName + "/", mux
}

// PublicProcedures lists the procedures served without credentials.
func PublicProcedures() []string {
	return []string{GetLessonProcedure, ListUserLessonsProcedure}
}

// GetLesson returns a single lesson.
func (h *LessonHandler) GetLesson(ctx context.Context, req *connect.Request[GetLessonRequest]) (*connect.Response[LessonResponse], error) {
	id, err := parseID(req.Msg.ID)
	if err != nil {
		return nil, err
	}

	lesson, err := h.service.GetLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&LessonResponse{Lesson: toLessonMessage(lesson)}), nil
}

// ListUserLessons returns the lessons created by a user.
func (h *LessonHandler) ListUserLessons(ctx context.Context, req *connect.Request[ListUserLessonsRequest]) (*connect.Response[LessonsResponse], error) {
	id, err := parseID(req.Msg.UserID)
	if err != nil {
		return nil, err
	}

	lessons, err := h.service.ListUserLessons(ctx, id)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&LessonsResponse{Lessons: toLessonMessages(lessons)}), nil
}

// CreateLesson stores the image and creates a lesson for the caller.
// The image is released again when the lesson cannot be created.
func (h *LessonHandler) CreateLesson(ctx context.Context, req *connect.Request[CreateLessonRequest]) (*connect.Response[LessonResponse], error) {
	requesterID, err := requester(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	if err := validateImage(msg.Image.ContentType, int64(len(msg.Image.Data)), h.maxImageBytes); err != nil {
		return nil, err
	}

	ref, err := h.images.Save(ctx, core.ImageUpload{
		Filename:    msg.Image.Filename,
		ContentType: msg.Image.ContentType,
		Size:        int64(len(msg.Image.Data)),
		Body:        bytes.NewReader(msg.Image.Data),
	})
	if err != nil {
		return nil, err
	}

	lesson, err := h.service.CreateLesson(ctx, requesterID, core.LessonDraft{
		Title:       msg.Title,
		Description: msg.Description,
		Address:     msg.Address,
		Image:       ref,
	})
	if err != nil {
		if releaseErr := h.images.Release(context.WithoutCancel(ctx), ref); releaseErr != nil {
			h.log.WithError(releaseErr).WithField("image", ref).Warn("failed to release uploaded image")
		}
		return nil, err
	}

	res := connect.NewResponse(&LessonResponse{Lesson: toLessonMessage(lesson)})
	return res, nil
}

// UpdateLesson edits a lesson owned by the caller.
func (h *LessonHandler) UpdateLesson(ctx context.Context, req *connect.Request[UpdateLessonRequest]) (*connect.Response[LessonResponse], error) {
	requesterID, err := requester(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(req.Msg.ID)
	if err != nil {
		return nil, err
	}

	lesson, err := h.service.UpdateLesson(ctx, core.UpdateLessonParams{
		RequesterID: requesterID,
		ID:          id,
		Title:       req.Msg.Title,
		Description: req.Msg.Description,
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&LessonResponse{Lesson: toLessonMessage(lesson)}), nil
}

// DeleteLesson removes a lesson owned by the caller.
func (h *LessonHandler) DeleteLesson(ctx context.Context, req *connect.Request[DeleteLessonRequest]) (*connect.Response[MessageResponse], error) {
	requesterID, err := requester(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(req.Msg.ID)
	if err != nil {
		return nil, err
	}

	if err := h.service.DeleteLesson(ctx, requesterID, id); err != nil {
		return nil, err
	}
	return connect.NewResponse(&MessageResponse{Message: "Deleted lesson."}), nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id %q", core.ErrValidation, raw)
	}
	return id, nil
}
