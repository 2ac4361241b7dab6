package storage

import (
	"fmt"
	"io"
)

// Backend names accepted by New.
const (
	BackendJSON   = "json"
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config selects a backend and the file it is bound to.
type Config struct {
	Backend string
	Path    string
}

// Validate checks that the backend is known and a path is set.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendJSON, BackendCSV, BackendSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	if c.Path == "" {
		return ErrEmptyPath
	}
	return nil
}

// New builds the backend named by cfg. The returned closer releases any
// resources the backend holds; it is a no-op for the flat-file backends.
func New(cfg Config, opts ...Option) (StorageInterface, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch cfg.Backend {
	case BackendJSON:
		return NewJSONStorage(cfg.Path, opts...), nopCloser{}, nil
	case BackendCSV:
		return NewCSVStorage(cfg.Path, opts...), nopCloser{}, nil
	default:
		s := NewSQLiteStorage(cfg.Path, opts...)
		if err := s.Initialize(); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		return s, s, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
