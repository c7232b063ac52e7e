// Package config loads algoanim settings from YAML with environment
// overrides. Precedence, lowest first: defaults, file, ALGOANIM_* variables,
// then command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/algoanim/internal/easing"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Canvas     CanvasConfig     `yaml:"canvas"`
	Playback   PlaybackConfig   `yaml:"playback"`
	Storyboard StoryboardConfig `yaml:"storyboard"`
	Logging    LoggingConfig    `yaml:"logging"`
	ShowStats  bool             `yaml:"show_stats"`

	// BuildVersion is stamped by the binary, never read from the file.
	BuildVersion string `yaml:"-"`
}

type CanvasConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"`
	FontPath   string `yaml:"font_path"`
}

type PlaybackConfig struct {
	FPS             int           `yaml:"fps"`
	Speed           float64       `yaml:"speed"`
	InterSceneDelay time.Duration `yaml:"inter_scene_delay"`
	Autoplay        bool          `yaml:"autoplay"`
	Easing          string        `yaml:"easing"` // quad, cubic or linear; shapes move and scale
}

type StoryboardConfig struct {
	Samples   int `yaml:"samples"`
	Columns   int `yaml:"columns"`
	TileWidth int `yaml:"tile_width"`
	Workers   int `yaml:"workers"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:      600,
			Height:     400,
			Background: "#0f172a",
		},
		Playback: PlaybackConfig{
			FPS:             60,
			Speed:           1,
			InterSceneDelay: 500 * time.Millisecond,
			Autoplay:        true,
			Easing:          "quad",
		},
		Storyboard: StoryboardConfig{
			Samples:   3,
			Columns:   3,
			TileWidth: 300,
			Workers:   runtime.NumCPU(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads path over the defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides reads ALGOANIM_SECTION_KEY variables.
func applyEnvOverrides(cfg *Config) error {
	var errs []string
	intVar := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s=%q is not an integer", name, v))
				return
			}
			*dst = n
		}
	}
	strVar := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	// Canvas
	intVar("ALGOANIM_CANVAS_WIDTH", &cfg.Canvas.Width)
	intVar("ALGOANIM_CANVAS_HEIGHT", &cfg.Canvas.Height)
	strVar("ALGOANIM_CANVAS_BACKGROUND", &cfg.Canvas.Background)
	strVar("ALGOANIM_CANVAS_FONT_PATH", &cfg.Canvas.FontPath)

	// Playback
	intVar("ALGOANIM_PLAYBACK_FPS", &cfg.Playback.FPS)
	if v := os.Getenv("ALGOANIM_PLAYBACK_SPEED"); v != "" {
		s, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("ALGOANIM_PLAYBACK_SPEED=%q is not a number", v))
		} else {
			cfg.Playback.Speed = s
		}
	}
	if v := os.Getenv("ALGOANIM_PLAYBACK_INTER_SCENE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("ALGOANIM_PLAYBACK_INTER_SCENE_DELAY=%q is not a duration", v))
		} else {
			cfg.Playback.InterSceneDelay = d
		}
	}

	strVar("ALGOANIM_PLAYBACK_EASING", &cfg.Playback.Easing)

	// Storyboard
	intVar("ALGOANIM_STORYBOARD_WORKERS", &cfg.Storyboard.Workers)

	// Logging
	strVar("ALGOANIM_LOG_LEVEL", &cfg.Logging.Level)
	strVar("ALGOANIM_LOG_FORMAT", &cfg.Logging.Format)

	if v := os.Getenv("ALGOANIM_SHOW_STATS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("ALGOANIM_SHOW_STATS=%q is not a boolean", v))
		} else {
			cfg.ShowStats = b
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: environment: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []string

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, "canvas.width and canvas.height must be positive")
	}
	if !validHex(c.Canvas.Background) {
		errs = append(errs, fmt.Sprintf("canvas.background %q is not a #rgb or #rrggbb color", c.Canvas.Background))
	}

	if c.Playback.FPS < 1 || c.Playback.FPS > 240 {
		errs = append(errs, "playback.fps must be between 1 and 240")
	}
	if c.Playback.Speed <= 0 {
		errs = append(errs, "playback.speed must be positive")
	}
	if c.Playback.InterSceneDelay < 0 {
		errs = append(errs, "playback.inter_scene_delay must not be negative")
	}
	if _, err := easing.ByName(c.Playback.Easing); err != nil {
		errs = append(errs, "playback.easing: "+err.Error())
	}

	if c.Storyboard.Samples < 1 {
		errs = append(errs, "storyboard.samples must be at least 1")
	}
	if c.Storyboard.Columns < 1 {
		errs = append(errs, "storyboard.columns must be at least 1")
	}
	if c.Storyboard.TileWidth < 16 {
		errs = append(errs, "storyboard.tile_width must be at least 16")
	}
	if c.Storyboard.Workers < 1 {
		errs = append(errs, "storyboard.workers must be at least 1")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, "logging.format must be text or json")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

func validHex(s string) bool {
	h, ok := strings.CutPrefix(s, "#")
	if !ok || (len(h) != 3 && len(h) != 6) {
		return false
	}
	_, err := strconv.ParseUint(h, 16, 32)
	return err == nil
}
