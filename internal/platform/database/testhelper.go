package database

import (
	"path/filepath"
	"testing"

	"metricly/internal/platform/config"
)

// NewTestDB returns a migrated sqlite database in a per-test temp dir. It is
// closed when the test finishes.
func NewTestDB(t testing.TB) *DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		URL:            "sqlite://" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000",
		MaxConnections: 4,
	}
	if err := Migrate(cfg, "up"); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
