package transport

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lessonmap/internal/core"
)

// multipartOverhead leaves room for the text fields and part headers of a create request.
const multipartOverhead = 1 << 20

// LessonRESTHandler serves the lesson JSON API.
type LessonRESTHandler struct {
	service       core.LessonService
	images        core.ImageStore
	log           logrus.FieldLogger
	maxImageBytes int64
}

// NewLessonRESTHandler builds the REST lesson handler.
func NewLessonRESTHandler(service core.LessonService, images core.ImageStore, log logrus.FieldLogger, maxImageBytes int64) *LessonRESTHandler {
	return &LessonRESTHandler{
		service:       service,
		images:        images,
		log:           log,
		maxImageBytes: maxImageBytes,
	}
}

// Routes returns the lesson routes. Writes require a bearer token.
func (h *LessonRESTHandler) Routes(auth *Authenticator) chi.Router {
	r := chi.NewRouter()
	r.Get("/user/{uid}", h.listUserLessons)
	r.Get("/{lid}", h.getLesson)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Post("/", h.createLesson)
		r.Patch("/{lid}", h.updateLesson)
		r.Delete("/{lid}", h.deleteLesson)
	})
	return r
}

func (h *LessonRESTHandler) getLesson(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "lid"))
	if err != nil {
		writeMessage(w, r, http.StatusNotFound, msgLessonNotFound)
		return
	}

	lesson, err := h.service.GetLesson(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err, "Something went wrong, could not find a lesson.")
		return
	}

	render.JSON(w, r, LessonResponse{Lesson: toLessonMessage(lesson)})
}

func (h *LessonRESTHandler) listUserLessons(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uid"))
	if err != nil {
		writeMessage(w, r, http.StatusNotFound, msgUserLessonsMissing)
		return
	}

	lessons, err := h.service.ListUserLessons(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err, "Fetching lessons failed, please try again later.")
		return
	}

	render.JSON(w, r, LessonsResponse{Lessons: toLessonMessages(lessons)})
}

func (h *LessonRESTHandler) createLesson(w http.ResponseWriter, r *http.Request) {
	const failed = "Creating lesson failed, please try again."

	requesterID, err := requester(r.Context())
	if err != nil {
		writeError(w, r, h.log, err, failed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxImageBytes); err != nil {
		writeError(w, r, h.log, fmt.Errorf("%w: %v", core.ErrValidation, err), failed)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	input := LessonInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Address:     r.FormValue("address"),
	}
	if err := input.Validate(); err != nil {
		writeError(w, r, h.log, err, failed)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, h.log, fmt.Errorf("%w: image is required", core.ErrValidation), failed)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := validateImage(contentType, header.Size, h.maxImageBytes); err != nil {
		writeError(w, r, h.log, err, failed)
		return
	}

	ref, err := h.images.Save(r.Context(), core.ImageUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		writeError(w, r, h.log, err, failed)
		return
	}

	lesson, err := h.service.CreateLesson(r.Context(), requesterID, core.LessonDraft{
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		Image:       ref,
	})
	if err != nil {
		h.discardImage(r.Context(), ref)
		writeError(w, r, h.log, err, failed)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, LessonResponse{Lesson: toLessonMessage(lesson)})
}

func (h *LessonRESTHandler) updateLesson(w http.ResponseWriter, r *http.Request) {
	const failed = "Something went wrong, could not update lesson."

	requesterID, err := requester(r.Context())
	if err != nil {
		writeError(w, r, h.log, err, failed)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "lid"))
	if err != nil {
		writeMessage(w, r, http.StatusNotFound, msgLessonNotFound)
		return
	}

	var input LessonPatch
	if err := render.DecodeJSON(r.Body, &input); err != nil {
		writeError(w, r, h.log, fmt.Errorf("%w: %v", core.ErrValidation, err), failed)
		return
	}
	if err := input.Validate(); err != nil {
		writeError(w, r, h.log, err, failed)
		return
	}

	lesson, err := h.service.UpdateLesson(r.Context(), core.UpdateLessonParams{
		RequesterID: requesterID,
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
	})
	if err != nil {
		writeError(w, r, h.log, err, failed)
		return
	}

	render.JSON(w, r, LessonResponse{Lesson: toLessonMessage(lesson)})
}

func (h *LessonRESTHandler) deleteLesson(w http.ResponseWriter, r *http.Request) {
	const failed = "Something went wrong, could not delete lesson."

	requesterID, err := requester(r.Context())
	if err != nil {
		writeError(w, r, h.log, err, failed)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "lid"))
	if err != nil {
		writeMessage(w, r, http.StatusNotFound, "Could not find lesson for this id.")
		return
	}

	if err := h.service.DeleteLesson(r.Context(), requesterID, id); err != nil {
		writeError(w, r, h.log, err, failed)
		return
	}

	render.JSON(w, r, MessageResponse{Message: "Deleted lesson."})
}

func (h *LessonRESTHandler) discardImage(ctx context.Context, ref string) {
	if err := h.images.Release(context.WithoutCancel(ctx), ref); err != nil {
		h.log.WithError(err).WithField("image", ref).Warn("failed to release uploaded image")
	}
}
