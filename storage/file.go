package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// flatFile implements StorageInterface over a single file. The concrete
// backends supply the codec; every call goes back to disk.
type flatFile struct {
	path   string
	logger zerolog.Logger
	decode func(data []byte) *Catalog
	encode func(c *Catalog) ([]byte, error)
}

// Path returns the backing file path.
func (f *flatFile) Path() string {
	return f.path
}

func (f *flatFile) Exists(title string) (bool, error) {
	return f.load().Has(title), nil
}

func (f *flatFile) List() (*Catalog, error) {
	return f.load(), nil
}

func (f *flatFile) Add(movie Movie) error {
	c := f.load()
	c.Put(movie)
	return f.save(c)
}

func (f *flatFile) Delete(title string) error {
	c := f.load()
	if !c.Remove(title) {
		return nil
	}
	return f.save(c)
}

func (f *flatFile) Update(title string, year int, rating float64) error {
	c := f.load()
	m, ok := c.Get(title)
	if !ok {
		return nil
	}
	m.Year = year
	m.Rating = rating
	c.Put(m)
	return f.save(c)
}

func (f *flatFile) load() *Catalog {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.logger.Debug().Str("path", f.path).Msg("catalog file not found, starting empty")
		} else {
			f.logger.Warn().Err(err).Str("path", f.path).Msg("catalog file unreadable, starting empty")
		}
		return NewCatalog()
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return NewCatalog()
	}
	return f.decode(data)
}

func (f *flatFile) save(c *Catalog) error {
	data, err := f.encode(c)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := WriteFileAtomic(f.path, data); err != nil {
		return fmt.Errorf("failed to save catalog to %s: %w", f.path, err)
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partially written file. Missing
// parent directories are created.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}
