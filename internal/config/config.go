// Package config provides configuration types and defaults for sonichealing.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sonichealing/internal/core/model"
	"sonichealing/internal/platform"

	"github.com/spf13/viper"
)

// AppName names the per-user config directory.
const AppName = "sonichealing"

// EnvPrefix prefixes environment overrides, e.g. SONIC_SESSION_DEFAULT_MINUTES.
const EnvPrefix = "SONIC"

// ErrInvalidConfig indicates a config value outside its accepted range.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration options.
type Config struct {
	LogLevel    string        `mapstructure:"log_level"`
	CatalogPath string        `mapstructure:"catalog_path"`
	Session     SessionConfig `mapstructure:"session"`
	Breath      BreathConfig  `mapstructure:"breath"`
	Audio       AudioConfig   `mapstructure:"audio"`
	Notify      NotifyConfig  `mapstructure:"notify"`
}

// SessionConfig holds countdown options.
type SessionConfig struct {
	DefaultMinutes int           `mapstructure:"default_minutes"`
	MinMinutes     int           `mapstructure:"min_minutes"`
	MaxMinutes     int           `mapstructure:"max_minutes"`
	TickInterval   time.Duration `mapstructure:"tick_interval"`
}

// BreathConfig holds breathing cycle options.
type BreathConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	StartActive bool          `mapstructure:"start_active"`
}

// AudioConfig holds output device options.
type AudioConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	SampleRate int           `mapstructure:"sample_rate"`
	Buffer     time.Duration `mapstructure:"buffer"`
	AssetsDir  string        `mapstructure:"assets_dir"`
}

// NotifyConfig holds desktop notification options.
type NotifyConfig struct {
	OnComplete bool   `mapstructure:"on_complete"`
	Title      string `mapstructure:"title"`
	Message    string `mapstructure:"message"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Session: SessionConfig{
			DefaultMinutes: 10,
			MinMinutes:     1,
			MaxMinutes:     60,
			TickInterval:   time.Second,
		},
		Breath: BreathConfig{
			Interval:    4 * time.Second,
			StartActive: true,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Buffer:     100 * time.Millisecond,
		},
		Notify: NotifyConfig{
			OnComplete: true,
			Title:      "Session complete",
			Message:    "Take a moment before you return.",
		},
	}
}

// DefaultDir returns the per-user directory for config.yaml and catalog.yaml.
func DefaultDir() (string, error) {
	return platform.ConfigDir(AppName)
}

// Load reads config from path, or from the per-user directory when path is empty.
// A missing file in the per-user directory is not an error. Environment variables
// with the SONIC_ prefix override file values.
func Load(path string) (Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("config loaded", "path", used)
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults := Defaults()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("catalog_path", defaults.CatalogPath)
	v.SetDefault("session.default_minutes", defaults.Session.DefaultMinutes)
	v.SetDefault("session.min_minutes", defaults.Session.MinMinutes)
	v.SetDefault("session.max_minutes", defaults.Session.MaxMinutes)
	v.SetDefault("session.tick_interval", defaults.Session.TickInterval)
	v.SetDefault("breath.interval", defaults.Breath.Interval)
	v.SetDefault("breath.start_active", defaults.Breath.StartActive)
	v.SetDefault("audio.enabled", defaults.Audio.Enabled)
	v.SetDefault("audio.sample_rate", defaults.Audio.SampleRate)
	v.SetDefault("audio.buffer", defaults.Audio.Buffer)
	v.SetDefault("audio.assets_dir", defaults.Audio.AssetsDir)
	v.SetDefault("notify.on_complete", defaults.Notify.OnComplete)
	v.SetDefault("notify.title", defaults.Notify.Title)
	v.SetDefault("notify.message", defaults.Notify.Message)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Validate checks the config for values the core would reject.
func (c Config) Validate() error {
	session := c.Session
	switch {
	case session.MinMinutes < 1:
		return fmt.Errorf("%w: session.min_minutes must be at least 1", ErrInvalidConfig)
	case session.MaxMinutes < session.MinMinutes:
		return fmt.Errorf("%w: session.max_minutes %d below min_minutes %d", ErrInvalidConfig, session.MaxMinutes, session.MinMinutes)
	case session.DefaultMinutes < session.MinMinutes || session.DefaultMinutes > session.MaxMinutes:
		return fmt.Errorf("%w: session.default_minutes %d not in [%d, %d]", ErrInvalidConfig,
			session.DefaultMinutes, session.MinMinutes, session.MaxMinutes)
	case session.TickInterval <= 0:
		return fmt.Errorf("%w: session.tick_interval must be positive", ErrInvalidConfig)
	case c.Breath.Interval <= 0:
		return fmt.Errorf("%w: breath.interval must be positive", ErrInvalidConfig)
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: audio.sample_rate must be positive", ErrInvalidConfig)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, name)
	}
	return level, nil
}

// SessionModel converts session options to the timer's config.
func (c Config) SessionModel() model.SessionConfig {
	return model.SessionConfig{
		DefaultMinutes: c.Session.DefaultMinutes,
		MinMinutes:     c.Session.MinMinutes,
		MaxMinutes:     c.Session.MaxMinutes,
		TickInterval:   c.Session.TickInterval,
	}
}

// BreathModel converts breathing options to the cycle's config.
func (c Config) BreathModel() model.BreathConfig {
	return model.BreathConfig{
		Interval:    c.Breath.Interval,
		StartActive: c.Breath.StartActive,
	}
}

// AudioModel converts audio options to the engine's config.
func (c Config) AudioModel() model.AudioConfig {
	return model.AudioConfig{
		Enabled:    c.Audio.Enabled,
		SampleRate: c.Audio.SampleRate,
		Buffer:     c.Audio.Buffer,
		AssetsDir:  c.Audio.AssetsDir,
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Sonic Healing configuration

# Log level: debug, info, warn, error
log_level: info

# Asset catalog (tracks, tones, chime, backdrops).
# Defaults to catalog.yaml next to this file, then the built-in catalog.
# catalog_path: /path/to/catalog.yaml

session:
  default_minutes: 10   # Preset length of a meditation session
  min_minutes: 1
  max_minutes: 60
  tick_interval: 1s

breath:
  interval: 4s          # Length of each inhale / hold / exhale phase
  start_active: true

audio:
  enabled: true
  sample_rate: 44100
  buffer: 100ms
  # Directory that relative asset paths in the catalog resolve against.
  # assets_dir: /path/to/sounds

notify:
  on_complete: true     # Desktop notification when a session ends naturally
  title: Session complete
  message: Take a moment before you return.

# Every key can be overridden from the environment, e.g.
#   SONIC_SESSION_DEFAULT_MINUTES=20
#   SONIC_AUDIO_ENABLED=false
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
