// Package database opens the PostgreSQL pool, applies the embedded schema
// migrations and seeds the default settings catalog.
package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/db"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Connect opens the pool and verifies the server answers.
func Connect(cfg db.Config) (*db.DB, error) {
	debug.Info("Connecting to database %s on %s:%d", cfg.DBName, cfg.Host, cfg.Port)
	return db.New(cfg)
}

func newMigrator(sqlDB *sql.DB) (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// RunMigrations applies every pending up migration.
func RunMigrations(sqlDB *sql.DB) error {
	m, err := newMigrator(sqlDB)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logVersion(m)
	return nil
}

// RollbackMigrations reverts the given number of migrations.
func RollbackMigrations(sqlDB *sql.DB, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("rollback steps must be positive, got %d", steps)
	}
	m, err := newMigrator(sqlDB)
	if err != nil {
		return err
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	logVersion(m)
	return nil
}

func logVersion(m *migrate.Migrate) {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		debug.Info("Database has no migrations applied")
	case err != nil:
		debug.Warning("Could not read migration version: %v", err)
	case dirty:
		debug.Warning("Database schema is at version %d and marked dirty", version)
	default:
		debug.Info("Database schema is at version %d", version)
	}
}
