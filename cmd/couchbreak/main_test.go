package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/couchbreak/internal/config"
)

func TestLoadConfigAppliesFlagOverrides(t *testing.T) {
	f := flags{
		configPath:    filepath.Join(t.TempDir(), "missing.toml"),
		logLevel:      "debug",
		logFormat:     "json",
		metricsListen: "127.0.0.1:9100",
	}

	cfg, err := loadConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Listen)
}

func TestLoadConfigRejectsBadFlag(t *testing.T) {
	f := flags{
		configPath: filepath.Join(t.TempDir(), "missing.toml"),
		logLevel:   "loud",
	}
	_, err := loadConfig(f)
	assert.Error(t, err)
}

func TestWriteConfigRoundTrips(t *testing.T) {
	f := flags{
		configPath: filepath.Join(t.TempDir(), "couchbreak", "config.toml"),
		logLevel:   "warn",
	}
	cfg, err := loadConfig(f)
	require.NoError(t, err)

	path, err := writeConfig(f, cfg)
	require.NoError(t, err)
	assert.Equal(t, f.configPath, path)

	loaded, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", loaded.Log.Level)
	assert.Equal(t, cfg.Primary, loaded.Primary)
}
