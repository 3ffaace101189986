package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "timecore.db", cfg.DBPath)
	assert.Equal(t, "ZH", cfg.Canton)
	assert.Equal(t, 8.5, cfg.DailyHours)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timecore.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = 9090
db_path = "/var/lib/timecore.db"
canton = "GE"
daily_hours = 8.0
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/var/lib/timecore.db", cfg.DBPath)
	assert.Equal(t, "GE", cfg.Canton)
	assert.Equal(t, 8.0, cfg.DailyHours)
	// Unset keys keep their defaults.
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timecore.toml")
	require.NoError(t, os.WriteFile(path, []byte(`port = 9090`), 0o644))

	t.Setenv("TIMECORE_PORT", "7070")
	t.Setenv("TIMECORE_CANTON", "TI")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "TI", cfg.Canton)
}

func TestLoad_BadValues(t *testing.T) {
	t.Setenv("TIMECORE_PORT", "eighty")
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDefaultDailyHours(t *testing.T) {
	cfg := Config{DailyHours: 8.5}
	assert.Equal(t, "8.5", cfg.DefaultDailyHours().String())
}
