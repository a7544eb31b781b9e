package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"metricly/internal/platform/config"
)

//go:embed migrations/sqlite3/*.sql migrations/postgres/*.sql
var migrationFS embed.FS

// Migrate applies the embedded migrations for the dialect of cfg.URL in the
// given direction ("up" or "down"). It opens and closes its own connection.
// Being already at the target version is not an error.
func Migrate(cfg config.DatabaseConfig, direction string) error {
	if direction != "up" && direction != "down" {
		return fmt.Errorf("direction must be up or down, got %q", direction)
	}

	db, err := Open(config.DatabaseConfig{URL: cfg.URL, MaxConnections: 1})
	if err != nil {
		return fmt.Errorf("migrate: open: %w", err)
	}

	var driver migratedb.Driver
	switch db.Dialect {
	case Postgres:
		driver, err = pgxmigrate.WithInstance(db.DB, &pgxmigrate.Config{})
	default:
		driver, err = sqlitemigrate.WithInstance(db.DB, &sqlitemigrate.Config{})
	}
	if err != nil {
		db.Close()
		return fmt.Errorf("migrate: driver: %w", err)
	}

	source, err := iofs.New(migrationFS, "migrations/"+string(db.Dialect))
	if err != nil {
		db.Close()
		return fmt.Errorf("migrate: source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(db.Dialect), driver)
	if err != nil {
		db.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	// Closes the driver, which closes db.
	defer m.Close()

	if direction == "up" {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
