package transport

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lessonmap/internal/core"
)

const (
	msgInvalidInput       = "Invalid inputs passed, please check your data."
	msgAuthFailed         = "Authentication failed!"
	msgGeocodeFailed      = "Could not find location for the specified address."
	msgLessonNotFound     = "Could not find lesson for the provided id."
	msgNotAllowed         = "You are not allowed to perform this action."
	msgUserLessonsMissing = "Could not find lessons for the provided user id."
	msgRouteNotFound      = "Could not find this route."
)

// ErrorResponse is the body of every REST error.
type ErrorResponse struct {
	Message string `json:"message"`
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUnauthorized), errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrGeocode):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage renders err for API clients. Server errors fall back to the
// operation's fixed message so that store details never leak.
func publicMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return sentence(detail(err, core.ErrNotFound), msgLessonNotFound)
	case errors.Is(err, core.ErrUnauthorized):
		return sentence(detail(err, core.ErrUnauthorized), msgNotAllowed)
	case errors.Is(err, core.ErrUnauthenticated):
		return msgAuthFailed
	case errors.Is(err, core.ErrValidation):
		return msgInvalidInput
	case errors.Is(err, core.ErrGeocode):
		return msgGeocodeFailed
	default:
		return fallback
	}
}

// detail returns the client message carried by a core.PublicError of the given kind.
func detail(err, kind error) string {
	var public *core.PublicError
	if errors.As(err, &public) && errors.Is(public.Kind, kind) {
		return public.Message
	}
	return ""
}

func sentence(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	s = string(r)
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Message: message})
}

func writeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error, fallback string) {
	status := httpStatus(err)
	entry := log.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	writeMessage(w, r, status, publicMessage(err, fallback))
}

// NotFound answers requests for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, r, http.StatusNotFound, msgRouteNotFound)
}
