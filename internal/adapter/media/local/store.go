package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lessonmap/internal/adapter/media"
	"github.com/eslsoft/lessonmap/internal/core"
)

// RefPrefix starts every reference handed out by Store. The HTTP server serves
// the store directory under "/" + RefPrefix.
const RefPrefix = "uploads/images/"

// Store keeps lesson images on the local filesystem.
// References are "uploads/images/<name>" whatever the directory is.
type Store struct {
	dir string
	log logrus.FieldLogger
}

// NewStore creates the upload directory if needed and returns a store rooted there.
func NewStore(dir string, log logrus.FieldLogger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Store{dir: filepath.Clean(dir), log: log}, nil
}

var _ core.ImageStore = (*Store)(nil)

// Dir returns the directory holding the images.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the upload to a new file and returns its reference.
func (s *Store) Save(ctx context.Context, upload core.ImageUpload) (string, error) {
	name, err := media.ObjectName(upload.ContentType)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, name)
	log := s.log.WithFields(logrus.Fields{"file_path": path, "original_name": upload.Filename})

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		log.WithError(err).Error("Failed to create image file")
		return "", err
	}

	if _, err := io.Copy(f, upload.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		log.WithError(err).Error("Failed to write image file")
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}

	log.Debug("Image stored")
	return RefPrefix + name, nil
}

// Release deletes the image behind ref. Only files directly inside the store directory are touched.
func (s *Store) Release(ctx context.Context, ref string) error {
	name, ok := strings.CutPrefix(ref, RefPrefix)
	if !ok || name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("image %q is not stored in %s", ref, s.dir)
	}

	path := filepath.Join(s.dir, name)
	if err := os.Remove(path); err != nil {
		return err
	}
	s.log.WithField("file_path", path).Debug("Image released")
	return nil
}
