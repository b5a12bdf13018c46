package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "main", cfg.User.ID)
	assert.Equal(t, "user", cfg.User.Role)
	assert.Equal(t, 3, cfg.Engine.DailyMin)
	assert.Equal(t, 5, cfg.Engine.DailyMax)
	assert.Equal(t, "warn", cfg.App.LogLevel)
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prodigy.yaml")
	cfg := Default()
	cfg.User.ID = "alice"
	cfg.Engine.Timezone = "Europe/Berlin"
	cfg.Engine.DailyMax = 4
	require.NoError(t, WriteFile(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.User.ID)
	assert.Equal(t, 4, got.Engine.DailyMax)

	loc, err := got.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prodigy.yaml")
	require.NoError(t, WriteFile(path, Default()))
	t.Setenv("PRODIGY_USER_ROLE", "admin")
	t.Setenv("PRODIGY_ENGINE_DAILY_MIN", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.User.Role)
	assert.Equal(t, 2, cfg.Engine.DailyMin)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.User.Role = "root"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Engine.DailyMin, cfg.Engine.DailyMax = 4, 2
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Engine.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}
