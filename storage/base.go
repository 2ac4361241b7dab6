package storage

import (
	"errors"
	"math"

	"github.com/rs/zerolog"
)

// Movie is one catalog record. Title is the catalog key.
type Movie struct {
	Title  string  `json:"title"`
	Year   int     `json:"year"`
	Rating float64 `json:"rating"`
	Poster string  `json:"poster"`
}

// StorageInterface is the capability set every catalog backend provides.
// Each call reloads the whole catalog from the backing store; mutations
// rewrite it in full.
type StorageInterface interface {
	// Exists reports whether title is a key in the catalog (exact match).
	Exists(title string) (bool, error)

	// List returns the full catalog. A missing or empty backing file is an
	// empty catalog, not an error.
	List() (*Catalog, error)

	// Add upserts movie under movie.Title.
	Add(movie Movie) error

	// Delete removes title. Deleting an absent title is a no-op.
	Delete(title string) error

	// Update overwrites year and rating of title, leaving the poster as is.
	// Updating an absent title is a no-op.
	Update(title string, year int, rating float64) error
}

var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrEmptyPath      = errors.New("storage path must not be empty")
)

type options struct {
	logger zerolog.Logger
}

// Option configures a backend at construction time.
type Option func(*options)

// WithLogger routes load diagnostics to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// finite reports whether a rating can be stored and compared.
func finite(r float64) bool {
	return !math.IsNaN(r) && !math.IsInf(r, 0)
}
