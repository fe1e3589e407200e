// Package geocode resolves street addresses into coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/eslsoft/lessonmap/internal/core"
)

const defaultEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// Google resolves addresses with the Google Geocoding API.
// Upstream failures are logged with the API key redacted and reported as a
// bare core.ErrGeocode.
type Google struct {
	apiKey   string
	endpoint string
	client   *http.Client
	log      logrus.FieldLogger
}

// Option customises the Google geocoder.
type Option func(*Google)

// WithEndpoint points the client at a different API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(g *Google) {
		if endpoint != "" {
			g.endpoint = endpoint
		}
	}
}

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Google) {
		if client != nil {
			g.client = client
		}
	}
}

// WithLogger sets the logger receiving upstream failure details.
func WithLogger(log logrus.FieldLogger) Option {
	return func(g *Google) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGoogle constructs a geocoder using the given API key.
func NewGoogle(apiKey string, opts ...Option) *Google {
	g := &Google{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ core.Geocoder = (*Google)(nil)

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve returns the coordinates of the first match for address.
func (g *Google) Resolve(ctx context.Context, address string) (core.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return core.Location{}, fmt.Errorf("%w: empty address", core.ErrGeocode)
	}

	query := url.Values{}
	query.Set("address", address)
	query.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return core.Location{}, g.fail(g.redact(err), "building geocoding request failed")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return core.Location{}, g.fail(g.redact(err), "geocoding request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.Location{}, g.fail(fmt.Errorf("geocoding api returned %s", resp.Status), "geocoding request rejected")
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return core.Location{}, g.fail(err, "decoding geocoding response failed")
	}

	if body.Status != "OK" || len(body.Results) == 0 {
		g.log.WithFields(logrus.Fields{
			"status":        body.Status,
			"error_message": body.ErrorMessage,
		}).Debug("address not resolved")
		return core.Location{}, core.ErrGeocode
	}

	loc := body.Results[0].Geometry.Location
	return core.Location{Lat: loc.Lat, Lng: loc.Lng}, nil
}

func (g *Google) fail(cause error, msg string) error {
	g.log.WithError(cause).Warn(msg)
	return core.ErrGeocode
}

// redact replaces the request URL in transport errors with the bare endpoint.
func (g *Google) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = g.endpoint
	}
	return err
}
