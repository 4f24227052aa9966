package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/chemscene/internal/driver"
	"github.com/san-kum/chemscene/internal/reaction"
)

const (
	DefaultStorePath = "reactions.json"
	DefaultRate      = 0.1
	DefaultFPS       = 30
	DefaultTheme     = "lab"
	DefaultWidth     = 80
	DefaultHeight    = 24
	DefaultLogLevel  = "info"
)

// Store drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Animation AnimationConfig `yaml:"animation"`
	Render    RenderConfig    `yaml:"render"`
	Reaction  string          `yaml:"reaction"`
	View      string          `yaml:"view"`
	LogLevel  string          `yaml:"log_level"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type AnimationConfig struct {
	Rate float64 `yaml:"rate"`
	Loop bool    `yaml:"loop"`
	FPS  int     `yaml:"fps"`
}

type RenderConfig struct {
	Theme  string `yaml:"theme"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: DriverFile,
			Path:   DefaultStorePath,
		},
		Animation: AnimationConfig{
			Rate: DefaultRate,
			FPS:  DefaultFPS,
		},
		Render: RenderConfig{
			Theme:  DefaultTheme,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Reaction: "copper-carbonate",
		View:     "macro",
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverFile, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver != DriverMemory && c.Store.Path == "" {
		return fmt.Errorf("store path is required for driver %q", c.Store.Driver)
	}
	if math.IsNaN(c.Animation.Rate) || math.IsInf(c.Animation.Rate, 0) || c.Animation.Rate < 0 {
		return fmt.Errorf("animation rate must be finite and non-negative, got %v", c.Animation.Rate)
	}
	if c.Animation.FPS <= 0 {
		return fmt.Errorf("animation fps must be positive, got %d", c.Animation.FPS)
	}
	if _, err := c.ViewLevel(); err != nil {
		return err
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ViewLevel parses the configured starting view.
func (c *Config) ViewLevel() (reaction.ViewLevel, error) {
	if c.View == "" {
		return reaction.Macro, nil
	}
	return reaction.ParseViewLevel(c.View)
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Driver returns the playback settings for the animation driver.
func (c *Config) Driver() driver.Config {
	fps := c.Animation.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return driver.Config{
		Rate:          c.Animation.Rate,
		Loop:          c.Animation.Loop,
		FrameInterval: time.Second / time.Duration(fps),
	}
}
