package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io"
	"log"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

// MigrationManager applies the embedded schema migrations for the SQLite
// backend.
type MigrationManager struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMigrationManager(db *sql.DB, logger zerolog.Logger) *MigrationManager {
	return &MigrationManager{db: db, logger: logger}
}

func (m *MigrationManager) Initialize() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

func (m *MigrationManager) Up() error {
	if err := goose.Up(m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	m.logger.Debug().Msg("database migrations completed")
	return nil
}

func (m *MigrationManager) Down() error {
	if err := goose.Down(m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	m.logger.Info().Msg("database migration rolled back")
	return nil
}

// Status prints the applied/pending state of every migration to w.
func (m *MigrationManager) Status(w io.Writer) error {
	goose.SetLogger(log.New(w, "", 0))
	defer goose.SetLogger(goose.NopLogger())

	if err := goose.Status(m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	return nil
}

func (m *MigrationManager) Version() (int64, error) {
	version, err := goose.GetDBVersion(m.db)
	if err != nil {
		return 0, fmt.Errorf("failed to get database version: %w", err)
	}
	return version, nil
}

func (m *MigrationManager) Reset() error {
	if err := goose.Reset(m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	m.logger.Info().Msg("database reset completed")
	return nil
}
