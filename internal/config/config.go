// Package config provides configuration types, defaults, and validation for
// gutterblame.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/zjrosen/gutterblame/internal/blame"
	"github.com/zjrosen/gutterblame/internal/color"
	"github.com/zjrosen/gutterblame/internal/label"
	"github.com/zjrosen/gutterblame/internal/log"
	"github.com/zjrosen/gutterblame/internal/tracing"
)

// ProjectConfigPath is checked before the user config directory.
const ProjectConfigPath = ".gutterblame/config.yaml"

// Config holds all configuration options for gutterblame.
type Config struct {
	Blame   BlameConfig    `mapstructure:"blame"`
	Label   LabelConfig    `mapstructure:"label"`
	Color   ColorConfig    `mapstructure:"color"`
	Cache   CacheConfig    `mapstructure:"cache"`
	Log     LogConfig      `mapstructure:"log"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// BlameConfig selects how git blame output is requested and parsed.
type BlameConfig struct {
	Format   string        `mapstructure:"format"`   // "porcelain" (default) or "incremental"
	Debounce time.Duration `mapstructure:"debounce"` // watch mode refresh debounce
}

type LabelConfig struct {
	MaxWidth   int    `mapstructure:"max_width"`
	DateLayout string `mapstructure:"date_layout"`
	// Timezone is an IANA name; empty uses the local zone.
	Timezone string `mapstructure:"timezone"`
}

// ColorConfig controls per-commit gutter colors.
type ColorConfig struct {
	Mode              string  `mapstructure:"mode"` // "golden" (default) or "plain"
	Saturation        float64 `mapstructure:"saturation"`
	DecayHalfLifeDays float64 `mapstructure:"decay_half_life_days"`
	SaturationFloor   float64 `mapstructure:"saturation_floor"`
}

// CacheConfig controls the per-commit change-list cache.
type CacheConfig struct {
	TTL      time.Duration `mapstructure:"ttl"`
	Disabled bool          `mapstructure:"disabled"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	traces := tracing.DefaultConfig()
	traces.FilePath = DefaultTracesFilePath()

	return Config{
		Blame: BlameConfig{
			Format:   blame.FormatPorcelain.String(),
			Debounce: 300 * time.Millisecond,
		},
		Label: LabelConfig{
			MaxWidth:   label.DefaultMaxWidth,
			DateLayout: label.DefaultDateLayout,
		},
		Color: ColorConfig{
			Mode:            color.ModeGolden.String(),
			Saturation:      0.65,
			SaturationFloor: 0.15,
		},
		Cache: CacheConfig{
			TTL: 30 * time.Minute,
		},
		Log: LogConfig{
			Level: "debug",
			File:  "debug.log",
		},
		Tracing: traces,
	}
}

// SetDefaults registers every default with v so unset keys unmarshal to
// Defaults().
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("blame.format", d.Blame.Format)
	v.SetDefault("blame.debounce", d.Blame.Debounce)
	v.SetDefault("label.max_width", d.Label.MaxWidth)
	v.SetDefault("label.date_layout", d.Label.DateLayout)
	v.SetDefault("label.timezone", d.Label.Timezone)
	v.SetDefault("color.mode", d.Color.Mode)
	v.SetDefault("color.saturation", d.Color.Saturation)
	v.SetDefault("color.decay_half_life_days", d.Color.DecayHalfLifeDays)
	v.SetDefault("color.saturation_floor", d.Color.SaturationFloor)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.disabled", d.Cache.Disabled)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultTracesFilePath returns ~/.config/gutterblame/traces/traces.jsonl,
// or "" if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gutterblame", "traces", "traces.jsonl")
}

// UserConfigDir returns ~/.config/gutterblame, or "" if the home directory
// is unavailable.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gutterblame")
}

// Validate checks every section and returns the first problem found.
func (c Config) Validate() error {
	if _, ok := blame.ParseFormat(c.Blame.Format); !ok {
		return fmt.Errorf("blame.format must be \"porcelain\" or \"incremental\", got %q", c.Blame.Format)
	}
	if c.Blame.Debounce < 0 {
		return fmt.Errorf("blame.debounce must not be negative, got %s", c.Blame.Debounce)
	}
	if c.Label.MaxWidth < 2 {
		return fmt.Errorf("label.max_width must be at least 2, got %d", c.Label.MaxWidth)
	}
	if c.Label.DateLayout == "" {
		return fmt.Errorf("label.date_layout must not be empty")
	}
	if _, err := c.Label.Location(); err != nil {
		return err
	}
	if _, ok := color.ParseMode(c.Color.Mode); !ok {
		return fmt.Errorf("color.mode must be \"golden\" or \"plain\", got %q", c.Color.Mode)
	}
	if c.Color.Saturation <= 0 || c.Color.Saturation > 1 {
		return fmt.Errorf("color.saturation must be within (0, 1], got %v", c.Color.Saturation)
	}
	if c.Color.SaturationFloor < 0 || c.Color.SaturationFloor > c.Color.Saturation {
		return fmt.Errorf("color.saturation_floor must be within [0, color.saturation], got %v", c.Color.SaturationFloor)
	}
	if c.Color.DecayHalfLifeDays < 0 {
		return fmt.Errorf("color.decay_half_life_days must not be negative, got %v", c.Color.DecayHalfLifeDays)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if _, ok := log.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("log.level must be debug, info, warn, or error, got %q", c.Log.Level)
	}
	return c.Tracing.Validate()
}

// Location resolves Timezone.
func (l LabelConfig) Location() (*time.Location, error) {
	if l.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("label.timezone: %w", err)
	}
	return loc, nil
}

// BlameFormat returns the parsed blame format. Call after Validate.
func (c Config) BlameFormat() blame.Format {
	f, _ := blame.ParseFormat(c.Blame.Format)
	return f
}

// ColorMode returns the parsed color mode. Call after Validate.
func (c Config) ColorMode() color.Mode {
	m, _ := color.ParseMode(c.Color.Mode)
	return m
}

// DefaultConfigTemplate returns the default config as YAML with comments.
func DefaultConfigTemplate() string {
	return `# gutterblame configuration

blame:
  # How git blame output is requested: "porcelain" (--line-porcelain)
  # or "incremental" (--incremental)
  format: porcelain
  # Quiet period before watch mode refreshes after HEAD or index moves
  debounce: 300ms

label:
  max_width: 25            # gutter column cap in display columns
  date_layout: 2006/01/02  # Go time layout for the commit date
  # timezone: UTC          # IANA zone for dates (default: local)

color:
  mode: golden             # "golden" spreads hues by the golden angle, "plain" uses the raw hash
  saturation: 0.65
  # Halve saturation toward saturation_floor every N days of commit age (0 disables)
  decay_half_life_days: 0
  saturation_floor: 0.15

cache:
  ttl: 30m                 # change lists per commit
  disabled: false

log:
  level: debug             # minimum level written when --debug is set
  file: debug.log

# tracing:
#   enabled: true
#   exporter: file         # none, file, stdout, otlp
#   file_path: ~/.config/gutterblame/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at configPath with the default
// template, creating the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
