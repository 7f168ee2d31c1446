package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Init opens the database for driver ("sqlite" or "pgx") and verifies the connection.
func Init(driver, connection string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		path := strings.SplitN(connection, "?", 2)[0]
		err := os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		connection = withSQLitePragma(connection, "busy_timeout(5000)")
	}

	db, err := sqlx.Open(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connected", "driver", driver)
	return db, nil
}

func Close(db *sqlx.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}

func withSQLitePragma(connection, pragma string) string {
	if strings.Contains(connection, pragma) {
		return connection
	}
	sep := "?"
	if strings.Contains(connection, "?") {
		sep = "&"
	}
	return connection + sep + "_pragma=" + pragma
}
