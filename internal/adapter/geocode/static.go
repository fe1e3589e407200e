package geocode

import (
	"context"
	"fmt"
	"strings"

	"github.com/eslsoft/lessonmap/internal/core"
)

// Static answers every non-empty address with the same location.
// It is used when no geocoding API key is configured.
type Static struct {
	Location core.Location
}

// NewStatic returns a geocoder that always resolves to loc.
func NewStatic(loc core.Location) *Static {
	return &Static{Location: loc}
}

var _ core.Geocoder = (*Static)(nil)

// Resolve returns the fixed location for any non-empty address.
func (s *Static) Resolve(ctx context.Context, address string) (core.Location, error) {
	if strings.TrimSpace(address) == "" {
		return core.Location{}, fmt.Errorf("%w: empty address", core.ErrGeocode)
	}
	return s.Location, nil
}
