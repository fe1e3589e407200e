//go:build wireinject

package server

import (
	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lessonmap/internal/adapter/db"
	"github.com/eslsoft/lessonmap/internal/adapter/metrics"
	"github.com/eslsoft/lessonmap/internal/core"
	"github.com/eslsoft/lessonmap/internal/usecase"
)

// InitializeServer sets up the full HTTP server with all dependencies wired.
func InitializeServer() (*Server, error) {
	wire.Build(
		NewConfig,
		NewLogger,
		wire.Bind(new(logrus.FieldLogger), new(*logrus.Logger)),
		NewDriver,
		metrics.NewRegistry,
		wire.Bind(new(core.LessonRepository), new(*db.LessonRepository)),
		db.NewLessonRepository,
		wire.Bind(new(core.UserRepository), new(*db.UserRepository)),
		db.NewUserRepository,
		wire.Bind(new(core.TransactionScope), new(*db.TxScope)),
		db.NewTxScope,
		NewImageStore,
		NewGeocoder,
		usecase.NewLessonCoordinator,
		NewInstrumentedCoordinator,
		wire.Bind(new(core.LessonService), new(*usecase.LessonService)),
		usecase.NewLessonService,
		NewAuthenticator,
		NewLessonRESTHandler,
		NewLessonConnectHandler,
		NewHTTPHandler,
		NewServer,
	)
	return nil, nil
}
