package model

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath(), cfg.Database.DSN)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestSaveThenLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := DefaultAppConfig()
	want.Database.Driver = "postgres"
	want.Database.DSN = "postgres://todo@localhost/todo?sslmode=disable"
	want.Session.TTL = 30 * time.Minute
	want.Log.File = "/tmp/todo.log"

	require.NoError(t, SaveConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("TODO_DATABASE_DRIVER", "mysql")
	t.Setenv("TODO_DATABASE_DSN", "todo:pw@tcp(localhost:3306)/todo")
	t.Setenv("TODO_SESSION_TTL", "2h")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "todo:pw@tcp(localhost:3306)/todo", cfg.Database.DSN)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestValidate(t *testing.T) {
	cfg := DefaultAppConfig()
	require.NoError(t, cfg.Validate())

	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = DefaultAppConfig()
	cfg.Session.TTL = 0
	assert.Error(t, cfg.Validate())
}
