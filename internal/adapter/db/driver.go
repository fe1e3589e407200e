package db

import (
	"context"
	stdsql "database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DriverSQLite selects the pure-Go SQLite driver.
const DriverSQLite = "sqlite"

// Open establishes an Ent SQL driver for the named database.
// PostgreSQL is served by lib/pq, SQLite by modernc.org/sqlite.
func Open(driverName, dsn string) (*entsql.Driver, error) {
	switch driverName {
	case dialect.Postgres:
		return entsql.Open(dialect.Postgres, dsn)
	case DriverSQLite, dialect.SQLite:
		db, err := stdsql.Open(DriverSQLite, dsn)
		if err != nil {
			return nil, err
		}
		return entsql.OpenDB(dialect.SQLite, db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driverName)
	}
}

// Migrate creates or upgrades the users and lessons tables.
func Migrate(ctx context.Context, drv dialect.Driver) error {
	migrate, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("preparing migration: %w", err)
	}
	if err := migrate.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("running migration: %w", err)
	}
	return nil
}
