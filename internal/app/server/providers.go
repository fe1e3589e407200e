package server

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lessonmap/internal/adapter/geocode"
	"github.com/eslsoft/lessonmap/internal/adapter/media/local"
	"github.com/eslsoft/lessonmap/internal/adapter/media/s3"
	"github.com/eslsoft/lessonmap/internal/adapter/metrics"
	"github.com/eslsoft/lessonmap/internal/adapter/transport"
	"github.com/eslsoft/lessonmap/internal/config"
	"github.com/eslsoft/lessonmap/internal/core"
	"github.com/eslsoft/lessonmap/internal/usecase"
)

// NewConfig loads the runtime configuration for dependency injection.
func NewConfig() (config.Config, error) {
	return config.LoadServer()
}

// NewLogger builds the process logger from the configured level and format.
func NewLogger(cfg config.Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}

// NewGeocoder returns the Google geocoder, or a static one when no API key is set.
func NewGeocoder(cfg config.Config, log logrus.FieldLogger) core.Geocoder {
	if cfg.GoogleAPIKey == "" {
		log.Warn("GOOGLE_API_KEY not set, every address resolves to 0,0")
		return geocode.NewStatic(core.Location{})
	}
	return geocode.NewGoogle(cfg.GoogleAPIKey, geocode.WithLogger(log))
}

// NewImageStore selects S3 when a bucket is configured and the local upload
// directory otherwise.
func NewImageStore(cfg config.Config, log logrus.FieldLogger, reg *metrics.Registry) (core.ImageStore, error) {
	var store core.ImageStore
	if cfg.S3Bucket != "" {
		s3Store, err := s3.New(context.Background(), cfg.S3Bucket)
		if err != nil {
			return nil, err
		}
		log.WithField("bucket", cfg.S3Bucket).Info("storing images in S3")
		store = s3Store
	} else {
		localStore, err := local.NewStore(cfg.UploadDir, log)
		if err != nil {
			return nil, err
		}
		log.WithField("dir", localStore.Dir()).Info("storing images on disk")
		store = localStore
	}
	return reg.InstrumentImages(store), nil
}

// NewAuthenticator builds the bearer token verifier.
func NewAuthenticator(cfg config.Config) *transport.Authenticator {
	return transport.NewAuthenticator([]byte(cfg.JWTKey))
}

// NewInstrumentedCoordinator exposes the coordinator to the service with write metrics.
func NewInstrumentedCoordinator(reg *metrics.Registry, coordinator *usecase.LessonCoordinator) core.LessonCoordinator {
	return reg.InstrumentCoordinator(coordinator)
}

// NewLessonRESTHandler builds the REST handler with the configured upload limit.
func NewLessonRESTHandler(cfg config.Config, service core.LessonService, images core.ImageStore, log logrus.FieldLogger) *transport.LessonRESTHandler {
	return transport.NewLessonRESTHandler(service, images, log, cfg.MaxImageBytes)
}

// NewLessonConnectHandler builds the RPC handler with the configured upload limit.
func NewLessonConnectHandler(cfg config.Config, service core.LessonService, images core.ImageStore, log logrus.FieldLogger) *transport.LessonHandler {
	return transport.NewLessonHandler(service, images, log, cfg.MaxImageBytes)
}
