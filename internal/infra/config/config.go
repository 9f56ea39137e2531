// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig            `yaml:"server"`
	Playback PlaybackConfig          `yaml:"playback"`
	Fixtures FixturesConfig          `yaml:"fixtures"`
	Search   SearchConfig            `yaml:"search"`
	Toasts   ToastsConfig            `yaml:"toasts"`
	Filters  map[string]FilterConfig `yaml:"filters"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Addr  string      `yaml:"addr" default:":8080"`
	Hooks HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// PlaybackConfig represents the simulated playback source configuration.
type PlaybackConfig struct {
	MetadataDelayMs    int `yaml:"metadata_delay_ms" default:"150" validate:"gte=0,lte=10000"`
	ProgressIntervalMs int `yaml:"progress_interval_ms" default:"500" validate:"gte=50,lte=5000"`
}

// FixturesConfig represents the synthetic data source configuration.
type FixturesConfig struct {
	Path        string  `yaml:"path" default:"config/fixtures.yaml"`
	MinDelayMs  int     `yaml:"min_delay_ms" default:"100" validate:"gte=0"`
	MaxDelayMs  int     `yaml:"max_delay_ms" default:"600" validate:"gte=0"`
	FailureRate float64 `yaml:"failure_rate" default:"0" validate:"gte=0,lte=1"`
}

// SearchConfig represents search configuration.
type SearchConfig struct {
	DebounceMs int `yaml:"debounce_ms" default:"300" validate:"gte=0,lte=5000"`
}

// ToastsConfig represents toast notification configuration.
type ToastsConfig struct {
	TTLMs int `yaml:"ttl_ms" default:"5000" validate:"gte=100,lte=60000"`
}

// FilterConfig represents a search filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("VOXBOARD_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("VOXBOARD_FIXTURES"); v != "" {
		c.Fixtures.Path = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if c.Fixtures.MaxDelayMs < c.Fixtures.MinDelayMs {
		return errors.Newf("fixtures max_delay_ms (%d) must not be less than min_delay_ms (%d)",
			c.Fixtures.MaxDelayMs, c.Fixtures.MinDelayMs)
	}

	return nil
}

// IsFilterEnabled checks if a search filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// MetadataDelay returns the simulated metadata resolution delay.
func (c *Config) MetadataDelay() time.Duration {
	return time.Duration(c.Playback.MetadataDelayMs) * time.Millisecond
}

// ProgressInterval returns the playback progress tick interval.
func (c *Config) ProgressInterval() time.Duration {
	return time.Duration(c.Playback.ProgressIntervalMs) * time.Millisecond
}

// Debounce returns the search debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMs) * time.Millisecond
}

// ToastTTL returns the toast auto-dismiss lifetime.
func (c *Config) ToastTTL() time.Duration {
	return time.Duration(c.Toasts.TTLMs) * time.Millisecond
}

// FixtureDelays returns the simulated fixture read latency bounds.
func (c *Config) FixtureDelays() (min, max time.Duration) {
	return time.Duration(c.Fixtures.MinDelayMs) * time.Millisecond,
		time.Duration(c.Fixtures.MaxDelayMs) * time.Millisecond
}
