package core

import (
	"context"
	"io"
)

// Geocoder resolves a postal address to coordinates.
// Failures wrap ErrGeocode.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (Location, error)
}

// ImageUpload is an image accepted by the transport layer.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStore keeps lesson images and hands out opaque references to them.
type ImageStore interface {
	Save(ctx context.Context, upload ImageUpload) (string, error)
	Release(ctx context.Context, ref string) error
}
