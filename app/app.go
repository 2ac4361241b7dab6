// Package app implements the catalog commands. Each command takes already
// parsed arguments, talks to the storage backend, and writes user-facing text
// to the configured writer. Input acquisition lives in the CLI.
package app

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"moviedb/metadata"
	"moviedb/scheduler"
	"moviedb/storage"
	"moviedb/website"
)

var (
	ErrLookupUnavailable  = errors.New("movie lookup is not configured; set OMDB_API_KEY")
	ErrWebsiteUnavailable = errors.New("website generation is not configured")
)

// MovieApp runs catalog commands against one storage backend.
type MovieApp struct {
	storage    storage.StorageInterface
	fetcher    metadata.Fetcher
	generator  *website.Generator
	siteOutput string
	notifier   scheduler.WebsiteNotifier
	out        io.Writer
	rng        *rand.Rand
	logger     zerolog.Logger
}

type Option func(*MovieApp)

// WithFetcher enables AddMovie.
func WithFetcher(f metadata.Fetcher) Option {
	return func(a *MovieApp) { a.fetcher = f }
}

// WithWebsite enables GenerateWebsite, writing pages to outputPath.
func WithWebsite(g *website.Generator, outputPath string) Option {
	return func(a *MovieApp) {
		a.generator = g
		a.siteOutput = outputPath
	}
}

// WithNotifier mails every page GenerateWebsite produces.
func WithNotifier(n scheduler.WebsiteNotifier) Option {
	return func(a *MovieApp) { a.notifier = n }
}

func WithRand(rng *rand.Rand) Option {
	return func(a *MovieApp) { a.rng = rng }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(a *MovieApp) { a.logger = logger }
}

func New(store storage.StorageInterface, out io.Writer, opts ...Option) *MovieApp {
	a := &MovieApp{
		storage: store,
		out:     out,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return a
}

func (a *MovieApp) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *MovieApp) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *MovieApp) load() (*storage.Catalog, error) {
	c, err := a.storage.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}
	return c, nil
}
