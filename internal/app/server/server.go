package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/eslsoft/lessonmap/internal/config"
	"github.com/eslsoft/lessonmap/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg         config.Config
	log         logrus.FieldLogger
	httpServer  *http.Server
	drv         *entsql.Driver
	coordinator *usecase.LessonCoordinator
}

// NewServer constructs a Server from the provided dependencies.
func NewServer(cfg config.Config, log logrus.FieldLogger, handler http.Handler, drv *entsql.Driver, coordinator *usecase.LessonCoordinator) *Server {
	return &Server{
		cfg: cfg,
		log: log,
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		drv:         drv,
		coordinator: coordinator,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is cancelled or an error occurs.
// Pending image releases are drained and the database is closed before it returns.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.WithField("addr", s.cfg.HTTPAddress).Info("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	s.coordinator.Wait()
	if closeErr := s.drv.Close(); closeErr != nil {
		s.log.WithError(closeErr).Error("closing database")
		err = errors.Join(err, closeErr)
	}
	return err
}
