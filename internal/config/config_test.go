package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err, "config file should be created on first launch")

	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "pending", cfg.DefaultFilter)
	assert.Equal(t, filepath.Join(dir, "nested", DefaultDBName), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "nested", DefaultLogName), cfg.Log.Path)
}

func TestLoadOrCreate_ReadsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := `
db_path = "/var/tmp/tasks.db"
backend = "bolt"
default_filter = "all"

[summary]
enabled = true
model = "gemini-test"
timeout = "30s"

[keys]
quit = "x"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/tmp/tasks.db", cfg.DBPath)
	assert.Equal(t, BackendBolt, cfg.Backend)
	assert.Equal(t, "all", cfg.DefaultFilter)
	assert.True(t, cfg.Summary.Enabled)
	assert.Equal(t, "gemini-test", cfg.Summary.Model)
	assert.Equal(t, 30*time.Second, cfg.Summary.RequestTimeout())
	assert.Equal(t, "x", cfg.Keys.Quit)
	// untouched keys keep their defaults
	assert.Equal(t, "a", cfg.Keys.Add)
}

func TestLoadOrCreate_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("db_path = ["), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestResolveConfigPath_Env(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.toml")
	assert.Equal(t, "/tmp/custom.toml", ResolveConfigPath())
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)

	require.NoError(t, LoadEnv(path), "missing .env is not an error")

	t.Setenv("AGENDU_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("AGENDU_TEST_KEY"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AGENDU_TEST_KEY=secret\n"), 0o600))
	require.NoError(t, LoadEnv(path))

	cfg := defaultConfig()
	cfg.Summary.APIKeyEnv = "AGENDU_TEST_KEY"
	assert.Equal(t, "secret", cfg.APIKey())
}
