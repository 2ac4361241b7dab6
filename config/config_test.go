package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviedb/storage"
)

// chdir moves into an empty directory so no stray moviedb.yaml is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, storage.Config{Backend: storage.BackendJSON, Path: "data/data.json"}, cfg.Storage)
	assert.Equal(t, DefaultSiteOutput, cfg.Site.OutputPath)
	assert.Equal(t, DefaultSiteSchedule, cfg.Site.Schedule)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.False(t, cfg.Email.Enabled())
}

func TestLoadDefaultPathFollowsBackend(t *testing.T) {
	chdir(t)
	t.Setenv("STORAGE_BACKEND", "CSV")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, storage.Config{Backend: storage.BackendCSV, Path: "data/data.csv"}, cfg.Storage)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t)
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("STORAGE_FILE", "/tmp/catalog.db")
	t.Setenv("OMDB_API_KEY", "abc123")
	t.Setenv("OMDB_TIMEOUT", "3s")
	t.Setenv("OMDB_USER_AGENT", "moviedb-test/1.0")
	t.Setenv("EMAIL_SMTP_HOST", "smtp.example.com")
	t.Setenv("EMAIL_SMTP_PORT", "2525")
	t.Setenv("EMAIL_RECIPIENT", "me@example.com")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, storage.Config{Backend: storage.BackendSQLite, Path: "/tmp/catalog.db"}, cfg.Storage)
	assert.Equal(t, "abc123", cfg.OMDb.APIKey)
	assert.Equal(t, 3*time.Second, cfg.OMDb.Timeout)
	assert.Equal(t, "moviedb-test/1.0", cfg.OMDb.UserAgent)
	assert.Equal(t, 2525, cfg.Email.SMTPPort)
	assert.True(t, cfg.Email.Enabled())
}

func TestLoadConfigFile(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: csv
  file: movies.csv
site:
  output: public/index.html
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, storage.Config{Backend: storage.BackendCSV, Path: "movies.csv"}, cfg.Storage)
	assert.Equal(t, "public/index.html", cfg.Site.OutputPath)
}

func TestLoadDefaultConfigFileInWorkingDir(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moviedb.yaml"), []byte("storage:\n  backend: csv\n"), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, storage.BackendCSV, cfg.Storage.Backend)
}

func TestLoadMissingNamedConfigFile(t *testing.T) {
	dir := chdir(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	chdir(t)
	t.Setenv("STORAGE_BACKEND", "csv")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend", "", "")
	flags.String("data-file", "", "")
	require.NoError(t, flags.Parse([]string{"--backend", "json", "--data-file", "mine.json"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, storage.Config{Backend: storage.BackendJSON, Path: "mine.json"}, cfg.Storage)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	chdir(t)
	t.Setenv("STORAGE_BACKEND", "xml")

	_, err := Load("", nil)
	assert.ErrorIs(t, err, storage.ErrUnknownBackend)
}
