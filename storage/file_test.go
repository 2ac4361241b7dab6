package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileBackend interface {
	StorageInterface
	Path() string
}

var fileBackends = []struct {
	name string
	new  func(path string) fileBackend
	file string
}{
	{"json", func(p string) fileBackend { return NewJSONStorage(p) }, "data.json"},
	{"csv", func(p string) fileBackend { return NewCSVStorage(p) }, "data.csv"},
}

func forEachFileBackend(t *testing.T, fn func(t *testing.T, s fileBackend)) {
	for _, b := range fileBackends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, b.new(filepath.Join(t.TempDir(), b.file)))
		})
	}
}

func sampleMovies() []Movie {
	return []Movie{
		{Title: "The Shawshank Redemption", Year: 1994, Rating: 9.3, Poster: "https://img/shawshank.jpg"},
		{Title: "Amélie", Year: 2001, Rating: 8.3, Poster: ""},
		{Title: `Crouching Tiger, "Hidden" Dragon`, Year: 2000, Rating: 7.9, Poster: "https://img/ct.jpg"},
		{Title: "Inception", Year: 2010, Rating: 8.8, Poster: "https://img/inception.jpg"},
	}
}

func TestFileStorageMissingFileIsEmpty(t *testing.T) {
	forEachFileBackend(t, func(t *testing.T, s fileBackend) {
		c, err := s.List()
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())

		exists, err := s.Exists("anything")
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = os.Stat(s.Path())
		assert.True(t, os.IsNotExist(err), "reading must not create the file")
	})
}

func TestFileStorageEmptyFileIsEmpty(t *testing.T) {
	forEachFileBackend(t, func(t *testing.T, s fileBackend) {
		require.NoError(t, os.WriteFile(s.Path(), []byte("  \n"), 0o644))
		c, err := s.List()
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
	})
}

func TestFileStorageRoundTrip(t *testing.T) {
	forEachFileBackend(t, func(t *testing.T, s fileBackend) {
		for _, m := range sampleMovies() {
			require.NoError(t, s.Add(m))
		}

		c, err := s.List()
		require.NoError(t, err)
		assert.Equal(t, sampleMovies(), c.Movies())

		before, err := os.ReadFile(s.Path())
		require.NoError(t, err)

		// Rewriting the loaded catalog reproduces the same file.
		last := sampleMovies()[3]
		require.NoError(t, s.Add(last))
		after, err := os.ReadFile(s.Path())
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})
}

func TestFileStorageUpsert(t *testing.T) {
	forEachFileBackend(t, func(t *testing.T, s fileBackend) {
		require.NoError(t, s.Add(Movie{Title: "Heat", Year: 1995, Rating: 8.3, Poster: "a.jpg"}))
		require.NoError(t, s.Add(Movie{Title: "Alien", Year: 1979, Rating: 8.5}))
		require.NoError(t, s.Add(Movie{Title: "Heat", Year: 1996, Rating: 8.0, Poster: "b.jpg"}))

		c, err := s.List()
		require.NoError(t, err)
		assert.Equal(t, []string{"Heat", "Alien"}, c.Titles())
		m, _ := c.Get("Heat")
		assert.Equal(t, Movie{Title: "Heat", Year: 1996, Rating: 8.0, Poster: "b.jpg"}, m)
	})
}

func TestFileStorageUpdateKeepsPoster(t *testing.T) {
	forEachFileBackend(t, func(t *testing.T, s fileBackend) {
		require.NoError(t, s.Add(Movie{Title: "Heat", Year: 1995, Rating: 8.3, Poster: "heat.jpg"}))
		require.NoError(t, s.Update("Heat", 1996, 7.5))

		c, err := s.List()
		require.NoError(t, err)
		m, _ := c.Get("Heat")
		assert.Equal(t, Movie{Title: "Heat", Year: 1996, Rating: 7.5, Poster: "heat.jpg"}, m)
	})
}

func TestFileStorageDeleteIsIdempotent(t *testing.T) {
	forEachFileBackend(t, func(t *testing.T, s fileBackend) {
		for _, m := range sampleMovies() {
			require.NoError(t, s.Add(m))
		}

		require.NoError(t, s.Delete("Amélie"))
		once, err := os.ReadFile(s.Path())
		require.NoError(t, err)

		require.NoError(t, s.Delete("Amélie"))
		twice, err := os.ReadFile(s.Path())
		require.NoError(t, err)

		assert.Equal(t, once, twice)
		exists, err := s.Exists("Amélie")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestFileStorageAbsentTitleLeavesFileUntouched(t *testing.T) {
	forEachFileBackend(t, func(t *testing.T, s fileBackend) {
		require.NoError(t, s.Add(Movie{Title: "Heat", Year: 1995, Rating: 8.3}))
		before, err := os.ReadFile(s.Path())
		require.NoError(t, err)
		info, err := os.Stat(s.Path())
		require.NoError(t, err)

		require.NoError(t, s.Update("Ronin", 1998, 7.2))
		require.NoError(t, s.Delete("Ronin"))

		after, err := os.ReadFile(s.Path())
		require.NoError(t, err)
		assert.Equal(t, before, after)

		infoAfter, err := os.Stat(s.Path())
		require.NoError(t, err)
		assert.True(t, os.SameFile(info, infoAfter), "file must not be replaced")
	})
}

func TestFileStorageAbsentTitleOnMissingFile(t *testing.T) {
	forEachFileBackend(t, func(t *testing.T, s fileBackend) {
		require.NoError(t, s.Delete("Ronin"))
		require.NoError(t, s.Update("Ronin", 1998, 7.2))

		_, err := os.Stat(s.Path())
		assert.True(t, os.IsNotExist(err))
	})
}

func TestFileStorageCreatesParentDirectory(t *testing.T) {
	for _, b := range fileBackends {
		t.Run(b.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "dir", b.file)
			s := b.new(path)
			require.NoError(t, s.Add(Movie{Title: "Heat", Year: 1995, Rating: 8.3}))
			_, err := os.Stat(path)
			assert.NoError(t, err)
		})
	}
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("one")))
	require.NoError(t, WriteFileAtomic(path, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
