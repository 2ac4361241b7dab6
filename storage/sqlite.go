package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

var ErrNotInitialized = errors.New("sqlite storage is not initialized")

// SQLiteStorage keeps the catalog in a movies table. Rows are returned in
// insertion order, and an upsert keeps the original row.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
	logger zerolog.Logger
}

func NewSQLiteStorage(dbPath string, opts ...Option) *SQLiteStorage {
	o := buildOptions(opts)
	return &SQLiteStorage{
		dbPath: dbPath,
		logger: o.logger,
	}
}

// Initialize opens the database and brings the schema up to date.
func (s *SQLiteStorage) Initialize() error {
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.RunMigrations(); err != nil {
		db.Close()
		s.db = nil
		return err
	}

	s.logger.Debug().Str("path", s.dbPath).Msg("sqlite catalog initialized")
	return nil
}

func (s *SQLiteStorage) Exists(title string) (bool, error) {
	if s.db == nil {
		return false, ErrNotInitialized
	}
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM movies WHERE title = ?)`, title).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if movie exists: %w", err)
	}
	return exists, nil
}

func (s *SQLiteStorage) List() (*Catalog, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}
	rows, err := s.db.Query(`SELECT title, year, rating, poster FROM movies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	c := NewCatalog()
	for rows.Next() {
		var m Movie
		if err := rows.Scan(&m.Title, &m.Year, &m.Rating, &m.Poster); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		c.Put(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read movies: %w", err)
	}
	return c, nil
}

func (s *SQLiteStorage) Add(movie Movie) error {
	exists, err := s.Exists(movie.Title)
	if err != nil {
		return err
	}

	if exists {
		_, err = s.db.Exec(`
		UPDATE movies
		SET year = ?, rating = ?, poster = ?, updated_at = CURRENT_TIMESTAMP
		WHERE title = ?
		`, movie.Year, movie.Rating, movie.Poster, movie.Title)
		if err != nil {
			return fmt.Errorf("failed to update movie: %w", err)
		}
		return nil
	}

	_, err = s.db.Exec(`
	INSERT INTO movies (title, year, rating, poster, created_at, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, movie.Title, movie.Year, movie.Rating, movie.Poster)
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Delete(title string) error {
	if s.db == nil {
		return ErrNotInitialized
	}
	if _, err := s.db.Exec(`DELETE FROM movies WHERE title = ?`, title); err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Update(title string, year int, rating float64) error {
	if s.db == nil {
		return ErrNotInitialized
	}
	_, err := s.db.Exec(`
	UPDATE movies
	SET year = ?, rating = ?, updated_at = CURRENT_TIMESTAMP
	WHERE title = ?
	`, year, rating, title)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// GetDB returns the open handle, opening it without migrating if needed.
func (s *SQLiteStorage) GetDB() (*sql.DB, error) {
	if s.db == nil {
		db, err := sql.Open("sqlite3", s.dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		s.db = db
	}
	return s.db, nil
}

func (s *SQLiteStorage) GetMigrationManager() *MigrationManager {
	return NewMigrationManager(s.db, s.logger)
}

func (s *SQLiteStorage) GetDatabaseVersion() (int64, error) {
	mm := s.GetMigrationManager()
	if err := mm.Initialize(); err != nil {
		return 0, err
	}
	return mm.Version()
}

func (s *SQLiteStorage) RunMigrations() error {
	mm := s.GetMigrationManager()
	if err := mm.Initialize(); err != nil {
		return err
	}
	return mm.Up()
}

func (s *SQLiteStorage) RollbackMigration() error {
	mm := s.GetMigrationManager()
	if err := mm.Initialize(); err != nil {
		return err
	}
	return mm.Down()
}

func (s *SQLiteStorage) ResetDatabase() error {
	mm := s.GetMigrationManager()
	if err := mm.Initialize(); err != nil {
		return err
	}
	return mm.Reset()
}
