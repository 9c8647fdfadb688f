package config

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

type Config struct {
	Server       ServerConfig   `toml:"server"`
	Playback     PlaybackConfig `toml:"playback"`
	UI           UIConfig       `toml:"ui"`
	Keybinds     KeybindConfig  `toml:"keybinds"`
	Log          LogConfig      `toml:"log"`
	Metrics      MetricsConfig  `toml:"metrics"`
	Primary      SessionConfig  `toml:"primary"`
	Interstitial SessionConfig  `toml:"interstitial"`
	// BreakSignal is the cue signal that starts a commercial break.
	BreakSignal string `toml:"break_signal" validate:"required"`
}

// ServerConfig points at a Jellyfin server used to resolve item_id streams.
type ServerConfig struct {
	URL    string `toml:"url" validate:"omitempty,url"`
	Token  string `toml:"token"`
	UserID string `toml:"user_id"`
}

type PlaybackConfig struct {
	HWAccel       string `toml:"hwdec"`
	AudioLanguage string `toml:"audio_language"`
	Volume        int    `toml:"volume" validate:"gte=0,lte=150"`
	// Embed renders video inside the app window instead of mpv's own.
	Embed bool `toml:"embed"`
}

type UIConfig struct {
	Fullscreen bool `toml:"fullscreen"`
	Width      int  `toml:"width" validate:"gt=0"`
	Height     int  `toml:"height" validate:"gt=0"`
}

type KeybindConfig struct {
	Play        string `toml:"play"`
	Pause       string `toml:"pause"`
	PlayPause   string `toml:"play_pause"`
	Stop        string `toml:"stop"`
	FastForward string `toml:"fast_forward"`
	Rewind      string `toml:"rewind"`
	Fullscreen  string `toml:"fullscreen"`
	Quit        string `toml:"quit"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `toml:"format" validate:"omitempty,oneof=text json"`
}

type MetricsConfig struct {
	// Listen is the address of the metrics endpoint; empty disables it.
	Listen string `toml:"listen" validate:"omitempty,hostname_port"`
}

// SessionConfig describes one playback session.
type SessionConfig struct {
	URL      string      `toml:"url" validate:"required_without=ItemID,omitempty,url"`
	ItemID   string      `toml:"item_id"`
	Seekable bool        `toml:"seekable"`
	Enable4K bool        `toml:"enable_4k"`
	Rect     RectConfig  `toml:"rect"`
	Cues     []CueConfig `toml:"cues" validate:"dive"`
}

// RectConfig is the video area in 1920x1080 authoring units.
type RectConfig struct {
	X      float64 `toml:"x" validate:"gte=0"`
	Y      float64 `toml:"y" validate:"gte=0"`
	Width  float64 `toml:"width" validate:"gt=0"`
	Height float64 `toml:"height" validate:"gt=0"`
}

type CueConfig struct {
	AtMS   int64  `toml:"at_ms" validate:"gte=0"`
	Signal string `toml:"signal" validate:"required"`
}

// Cue is a validated, time-typed cue.
type Cue struct {
	At     time.Duration
	Signal string
}

// CueList returns the cues ordered by time. Cues sharing a time keep file order.
func (s SessionConfig) CueList() []Cue {
	cues := lo.Map(s.Cues, func(c CueConfig, _ int) Cue {
		return Cue{At: time.Duration(c.AtMS) * time.Millisecond, Signal: c.Signal}
	})
	slices.SortStableFunc(cues, func(a, b Cue) int {
		return cmp.Compare(a.At, b.At)
	})
	return cues
}

func DefaultConfig() *Config {
	windowed := RectConfig{X: 240, Y: 135, Width: 1440, Height: 810}
	return &Config{
		Playback: PlaybackConfig{
			HWAccel:       "auto-safe",
			AudioLanguage: "eng",
			Volume:        100,
		},
		UI: UIConfig{
			Fullscreen: false,
			Width:      1920,
			Height:     1080,
		},
		Keybinds: KeybindConfig{
			Play:        "P",
			Pause:       "U",
			PlayPause:   "Space",
			Stop:        "S",
			FastForward: "Right",
			Rewind:      "Left",
			Fullscreen:  "F",
			Quit:        "Q",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Primary: SessionConfig{
			URL:      "https://storage.googleapis.com/shaka-demo-assets/sintel-trickplay/dash.mpd",
			Seekable: true,
			Rect:     windowed,
			Cues: []CueConfig{
				{AtMS: 300000, Signal: "Commercial"},
				{AtMS: 600000, Signal: "Commercial"},
			},
		},
		Interstitial: SessionConfig{
			URL:  "http://developer.samsung.com/onlinedocs/tv/Preview/1.mp4",
			Rect: windowed,
		},
		BreakSignal: "Commercial",
	}
}

// Validate checks the configuration with struct tags.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "couchbreak"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config from the default path, falling back to defaults
// when no file exists.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path over the defaults. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
