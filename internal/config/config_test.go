package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
storage_path: "/var/lib/students/roster.yaml"
persistence:
  format: "yaml"
  strict_load: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "/var/lib/students/roster.yaml", cfg.StoragePath)
	assert.Equal(t, FormatYAML, cfg.Format)
	assert.True(t, cfg.StrictLoad)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "env: dev\nstorage_path: students.db\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatSQLite, cfg.Format)
	assert.False(t, cfg.StrictLoad)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "env: dev\nstorage_path: students.db\n")
	t.Setenv("STORAGE_PATH", "/tmp/other.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.StoragePath)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing required", func(t *testing.T) {
		_, err := Load(writeConfig(t, "env: dev\n"))
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Load(writeConfig(t, "env: dev\nstorage_path: x\npersistence:\n  format: csv\n"))
		assert.ErrorContains(t, err, "csv")
	})
}
