package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

var dialects = map[string]goose.Dialect{
	"sqlite": goose.DialectSQLite3,
	"pgx":    goose.DialectPostgres,
}

// newProvider builds a goose provider over the embedded migrations.
func newProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	dialect, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("no migration dialect for driver %q", driver)
	}

	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations: %w", err)
	}

	return goose.NewProvider(dialect, db, migrations)
}

// RunMigrations applies every pending migration. Applying none is not an error.
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	provider, err := newProvider(db, driver)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		slog.Debug("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	slog.Info("migrations completed", "version", version, "applied", len(results))
	return nil
}

// SchemaVersion reports the current migration version, used by the health check.
func SchemaVersion(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	provider, err := newProvider(db, driver)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}
