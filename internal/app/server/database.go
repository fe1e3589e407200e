package server

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/lessonmap/internal/adapter/db"
	"github.com/eslsoft/lessonmap/internal/config"
)

// NewDriver opens the configured database and runs migrations.
func NewDriver(cfg config.Config) (*entsql.Driver, error) {
	drv, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(context.Background(), drv); err != nil {
		_ = drv.Close()
		return nil, err
	}

	return drv, nil
}
