package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/fervag/x708ctl/internal/config"
	"codeberg.org/fervag/x708ctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetArgs(t *testing.T, args ...string) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"x708ctl"}, args...)
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "x708ctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	resetArgs(t)

	configPath := writeConfigFile(t, `
interval = 5.0
min_voltage = 3.2
ncurses = true
quiet = false
watch = true
log_level = "debug"
telemetry = true
database = "/path/to/telemetry.db"
`)
	t.Setenv("X708CTL_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.InDelta(t, 5.0, cfg.Interval, 1e-9, "Expected Interval 5.0")
	assert.InDelta(t, 3.2, cfg.MinVoltage, 1e-9, "Expected MinVoltage 3.2")
	assert.True(t, cfg.Ncurses, "Expected Ncurses true")
	assert.False(t, cfg.Quiet, "Expected Quiet false")
	assert.True(t, cfg.Watch, "Expected Watch true")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.True(t, cfg.Telemetry, "Expected Telemetry true")
	assert.Equal(t, "/path/to/telemetry.db", cfg.TelemetryDB, "Expected TelemetryDB /path/to/telemetry.db")
}

func TestLoadDefaults(t *testing.T) {
	resetArgs(t)
	t.Setenv("X708CTL_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.InDelta(t, config.DefaultInterval, cfg.Interval, 1e-9, "Expected default Interval 2.0")
	assert.InDelta(t, config.DefaultMinVoltage, cfg.MinVoltage, 1e-9, "Expected default MinVoltage 3.5")
	assert.False(t, cfg.Ncurses, "Expected default Ncurses false")
	assert.False(t, cfg.Quiet, "Expected default Quiet false")
	assert.False(t, cfg.Watch, "Expected default Watch false")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
	assert.False(t, cfg.Telemetry, "Expected default Telemetry false")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	resetArgs(t)

	configPath := writeConfigFile(t, `
This is not a valid TOML file
`)
	t.Setenv("X708CTL_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidInterval(t *testing.T) {
	resetArgs(t)

	configPath := writeConfigFile(t, `
interval = -1.0
`)
	t.Setenv("X708CTL_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}

func TestInvalidMinVoltage(t *testing.T) {
	resetArgs(t)

	configPath := writeConfigFile(t, `
min_voltage = 0.0
`)
	t.Setenv("X708CTL_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidMinVoltage))
}

func TestInvalidLogLevel(t *testing.T) {
	resetArgs(t)

	configPath := writeConfigFile(t, `
log_level = "noisy"
`)
	t.Setenv("X708CTL_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestFlagsOverrideFile(t *testing.T) {
	resetArgs(t, "--interval", "0.5", "--min-voltage", "3.0", "-w")

	configPath := writeConfigFile(t, `
interval = 5.0
min_voltage = 3.8
`)
	t.Setenv("X708CTL_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.5, cfg.Interval, 1e-9, "Expected flag Interval to win")
	assert.InDelta(t, 3.0, cfg.MinVoltage, 1e-9, "Expected flag MinVoltage to win")
	assert.True(t, cfg.Watch, "Expected Watch set by shorthand flag")
}
