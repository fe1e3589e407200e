// Package media holds the rules shared by the lesson image stores.
package media

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/eslsoft/lessonmap/internal/core"
)

// DefaultMaxImageBytes is the upload limit applied when none is configured.
const DefaultMaxImageBytes = 500_000

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// ExtensionFor returns the file extension for an accepted image MIME type.
func ExtensionFor(contentType string) (string, bool) {
	ext, ok := extensions[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

// ObjectName generates a unique, sortable file name for an image of the given type.
func ObjectName(contentType string) (string, error) {
	ext, ok := ExtensionFor(contentType)
	if !ok {
		return "", fmt.Errorf("%w: invalid mime type %q", core.ErrValidation, contentType)
	}
	return fmt.Sprintf("%s.%s", strings.ToLower(ulid.Make().String()), ext), nil
}
