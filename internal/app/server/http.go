package server

import (
	"net/http"
	"path/filepath"

	"connectrpc.com/connect"
	"connectrpc.com/otelconnect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lessonmap/internal/adapter/media/local"
	"github.com/eslsoft/lessonmap/internal/adapter/metrics"
	"github.com/eslsoft/lessonmap/internal/adapter/transport"
	"github.com/eslsoft/lessonmap/internal/config"
)

// uploadsPrefix is where locally stored images are served.
const uploadsPrefix = "/" + local.RefPrefix

// NewHTTPHandler wires the REST and Connect handlers into a router ready for serving.
func NewHTTPHandler(
	cfg config.Config,
	log logrus.FieldLogger,
	reg *metrics.Registry,
	auth *transport.Authenticator,
	rest *transport.LessonRESTHandler,
	rpc *transport.LessonHandler,
) (http.Handler, error) {
	tracing, err := otelconnect.NewInterceptor()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(transport.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(reg.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization", "Connect-Protocol-Version"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.NotFound(transport.NotFound)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", reg.Handler())

	if cfg.S3Bucket == "" {
		dir := http.Dir(filepath.Clean(cfg.UploadDir))
		r.Handle(uploadsPrefix+"*", http.StripPrefix(uploadsPrefix, http.FileServer(dir)))
	}

	r.Mount("/api/lessons", rest.Routes(auth))

	path, svc := transport.NewLessonServiceHandler(rpc, connect.WithInterceptors(
		tracing,
		transport.NewErrorInterceptor(),
		transport.NewAuthInterceptor(auth, transport.PublicProcedures()...),
		transport.NewValidationInterceptor(),
	))
	r.Handle(path+"*", svc)

	return r, nil
}
