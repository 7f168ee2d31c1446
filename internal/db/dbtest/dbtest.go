// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/portfolio/internal/db"
)

// Open returns a migrated SQLite database in a temp dir, closed on cleanup.
// A file is used rather than :memory: so every pooled connection sees the same data.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Init("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	err = db.RunMigrations(context.Background(), conn.DB, "sqlite")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return conn
}

// CreateUser inserts a bare user row and returns its id.
func CreateUser(t testing.TB, conn *sqlx.DB, email string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := conn.Exec(`INSERT INTO users (id, email, created_at) VALUES ($1, $2, $3)`, id, email, time.Now().UTC())
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return id
}
