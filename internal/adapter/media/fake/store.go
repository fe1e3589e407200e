package fake

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/eslsoft/lessonmap/internal/adapter/media"
	"github.com/eslsoft/lessonmap/internal/core"
)

// Store offers an in-memory image store that records every call.
type Store struct {
	base string

	mu       sync.Mutex
	objects  map[string][]byte
	released []string

	// SaveErr, when set, is returned by Save.
	SaveErr error
	// ReleaseErr, when set, is returned by Release.
	ReleaseErr error
}

// NewStore constructs a fake image store whose references start with base.
func NewStore(base string) *Store {
	return &Store{
		base:    normalizeBase(base, "fake://images"),
		objects: make(map[string][]byte),
	}
}

var _ core.ImageStore = (*Store)(nil)

// Save buffers the upload in memory.
func (s *Store) Save(ctx context.Context, upload core.ImageUpload) (string, error) {
	_ = ctx

	if s.SaveErr != nil {
		return "", s.SaveErr
	}
	name, err := media.ObjectName(upload.ContentType)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(upload.Body)
	if err != nil {
		return "", err
	}

	ref := fmt.Sprintf("%s/%s", s.base, name)
	s.mu.Lock()
	s.objects[ref] = data
	s.mu.Unlock()
	return ref, nil
}

// Release forgets the image and records the reference.
func (s *Store) Release(ctx context.Context, ref string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	s.released = append(s.released, ref)
	if s.ReleaseErr != nil {
		return s.ReleaseErr
	}
	delete(s.objects, ref)
	return nil
}

// Put registers an image directly, as if it had been saved earlier.
func (s *Store) Put(ref string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[ref] = data
}

// Has reports whether an image is currently stored under ref.
func (s *Store) Has(ref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[ref]
	return ok
}

// Released returns the references passed to Release, in call order.
func (s *Store) Released() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.released...)
}

func normalizeBase(base, fallback string) string {
	if base == "" {
		return fallback
	}
	return strings.TrimSuffix(base, "/")
}
