package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 10, cfg.Session.DefaultMinutes)
	require.Equal(t, 4*time.Second, cfg.Breath.Interval)
	require.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
session:
  default_minutes: 5
breath:
  interval: 2s
  start_active: false
audio:
  enabled: false
  assets_dir: /srv/sounds
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	require.Equal(t, 5, cfg.Session.DefaultMinutes)
	require.Equal(t, 60, cfg.Session.MaxMinutes, "unset keys keep defaults")
	require.Equal(t, time.Second, cfg.Session.TickInterval)
	require.Equal(t, 2*time.Second, cfg.Breath.Interval)
	require.False(t, cfg.Breath.StartActive)
	require.False(t, cfg.Audio.Enabled)
	require.Equal(t, "/srv/sounds", cfg.AudioModel().AssetsDir)
	require.True(t, cfg.Notify.OnComplete)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := writeConfig(t, "session:\n  default_minutes: 5\n")
	t.Setenv("SONIC_SESSION_DEFAULT_MINUTES", "20")
	t.Setenv("SONIC_AUDIO_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 20, cfg.Session.DefaultMinutes)
	require.False(t, cfg.Audio.Enabled)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_MissingUserFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("AppData", filepath.Join(home, "AppData"))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"default above max": "session:\n  default_minutes: 90\n",
		"zero min":          "session:\n  min_minutes: 0\n",
		"max below min":     "session:\n  min_minutes: 5\n  max_minutes: 3\n  default_minutes: 5\n",
		"zero breath":       "breath:\n  interval: 0s\n",
		"zero sample rate":  "audio:\n  sample_rate: 0\n",
		"bad log level":     "log_level: loud\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestModels_CarryValues(t *testing.T) {
	cfg := Defaults()
	cfg.Session.DefaultMinutes = 25

	session := cfg.SessionModel()
	require.Equal(t, 25, session.DefaultMinutes)
	require.Equal(t, 1, session.MinMinutes)
	require.Equal(t, 60, session.MaxMinutes)
	require.Equal(t, time.Second, session.TickInterval)

	breath := cfg.BreathModel()
	require.Equal(t, 4*time.Second, breath.Interval)
	require.True(t, breath.StartActive)

	audio := cfg.AudioModel()
	require.True(t, audio.Enabled)
	require.Equal(t, 44100, audio.SampleRate)
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	path := writeConfig(t, DefaultConfigTemplate())

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	var fromTemplate Config
	require.NoError(t, v.Unmarshal(&fromTemplate))
	require.Equal(t, Defaults(), fromTemplate)
}

func TestWriteDefaultConfig_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}
