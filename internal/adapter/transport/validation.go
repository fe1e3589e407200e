package transport

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/eslsoft/lessonmap/internal/adapter/media"
	"github.com/eslsoft/lessonmap/internal/core"
)

const minDescriptionLength = 5

// Validatable is implemented by request messages that check their own input.
type Validatable interface {
	Validate() error
}

// LessonInput carries the text fields of a new lesson.
type LessonInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Address     string `json:"address"`
}

// Validate checks the text fields and requires an address.
func (in LessonInput) Validate() error {
	if err := validateText(in.Title, in.Description); err != nil {
		return err
	}
	if strings.TrimSpace(in.Address) == "" {
		return fmt.Errorf("%w: address is required", core.ErrValidation)
	}
	return nil
}

// LessonPatch carries the editable fields of an existing lesson.
type LessonPatch struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Validate checks the new title and description.
func (in LessonPatch) Validate() error {
	return validateText(in.Title, in.Description)
}

func validateText(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", core.ErrValidation)
	}
	if utf8.RuneCountInString(description) < minDescriptionLength {
		return fmt.Errorf("%w: description must have at least %d characters", core.ErrValidation, minDescriptionLength)
	}
	return nil
}

// validateImage checks an uploaded image. A non-positive limit disables the size check.
func validateImage(contentType string, size, limit int64) error {
	if _, ok := media.ExtensionFor(contentType); !ok {
		return fmt.Errorf("%w: invalid mime type %q", core.ErrValidation, contentType)
	}
	if size <= 0 {
		return fmt.Errorf("%w: image is required", core.ErrValidation)
	}
	if limit > 0 && size > limit {
		return fmt.Errorf("%w: image exceeds %d bytes", core.ErrValidation, limit)
	}
	return nil
}
