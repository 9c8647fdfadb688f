package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Primary.Seekable)
	assert.False(t, cfg.Interstitial.Seekable)
	assert.Equal(t, "Commercial", cfg.BreakSignal)
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
break_signal = "Break"

[log]
level = "debug"

[primary]
url = "https://example.com/main.mpd"
enable_4k = true

[[primary.cues]]
at_ms = 90000
signal = "Break"

[[primary.cues]]
at_ms = 30000
signal = "Break"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Break", cfg.BreakSignal)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "https://example.com/main.mpd", cfg.Primary.URL)
	assert.True(t, cfg.Primary.Enable4K)
	assert.Equal(t, []Cue{
		{At: 30 * time.Second, Signal: "Break"},
		{At: 90 * time.Second, Signal: "Break"},
	}, cfg.Primary.CueList())
	// untouched sections keep their defaults
	assert.Equal(t, DefaultConfig().Interstitial, cfg.Interstitial)
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[interstitial]
url = ""

[[primary.cues]]
at_ms = -5
signal = "Commercial"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSessionMayUseItemIDInsteadOfURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Primary.URL = ""
	cfg.Primary.ItemID = "abc123"
	assert.NoError(t, cfg.Validate())
}

func TestCueListKeepsOrderOfEqualTimes(t *testing.T) {
	s := SessionConfig{Cues: []CueConfig{
		{AtMS: 1000, Signal: "b"},
		{AtMS: 500, Signal: "a"},
		{AtMS: 1000, Signal: "c"},
	}}
	got := s.CueList()
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Signal, got[1].Signal, got[2].Signal})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.Metrics.Listen = "127.0.0.1:9100"

	require.NoError(t, cfg.Save(path))
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
