package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/splash/internal/splash"
	"github.com/jmylchreest/splash/internal/style"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "auto", cfg.Backend)
	assert.Equal(t, "BR", cfg.Splash.Placement)
	assert.Equal(t, "Calibri, 12, normal", cfg.Splash.Font)
	assert.Equal(t, "#00538F", cfg.Splash.Background)
	assert.Equal(t, "white", cfg.Splash.Foreground)
	assert.False(t, cfg.Progress.Enabled)
	assert.Equal(t, float64(100), cfg.Progress.Max)
	assert.Equal(t, "default", cfg.Theme.Name)
	assert.Equal(t, DefaultBusName, cfg.DBus.Name)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/splash.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "splash.toml")

	content := `
backend = "term"

[splash]
placement = "x=100,y=444"
font = "Calibri, 25, bold"
background = "139, 0, 0"
close_button = true
title = "Starting"
close_after = "5s"

[progress]
enabled = true
max = 5
mode = "indeterminate"

[audio]
enabled = true
volume = 50

[audio.sounds]
show = "~/sounds/show.wav"

[dbus]
enabled = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "term", cfg.Backend)
	assert.Equal(t, "x=100,y=444", cfg.Splash.Placement)
	assert.True(t, cfg.Splash.CloseButton)
	assert.Equal(t, 5*time.Second, cfg.Splash.CloseAfter.Duration())
	assert.True(t, cfg.Progress.Enabled)
	assert.Equal(t, float64(5), cfg.Progress.Max)
	assert.Equal(t, 50, cfg.Audio.Volume)
	assert.True(t, cfg.DBus.Enabled)
	assert.Equal(t, DefaultBusName, cfg.DBus.Name)
	assert.Equal(t, "white", cfg.Splash.Foreground)
}

func TestLoadConfig_MillisecondDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "splash.toml")
	require.NoError(t, os.WriteFile(path, []byte("[splash]\nclose_after = \"1500\"\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Splash.CloseAfter.Duration())
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "splash.toml")
	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "splash.toml")
	require.NoError(t, os.WriteFile(path, []byte("[splash]\nclose_after = \"soon\"\n"), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "invalid duration")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"backend", func(c *Config) { c.Backend = "qt" }, "invalid backend"},
		{"progress max", func(c *Config) { c.Progress.Max = 0 }, "progress max"},
		{"progress mode", func(c *Config) { c.Progress.Mode = "spinny" }, "invalid progress mode"},
		{"color scheme", func(c *Config) { c.Theme.ColorScheme = "purple" }, "invalid color_scheme"},
		{"volume", func(c *Config) { c.Audio.Volume = 101 }, "volume"},
		{"dbus name", func(c *Config) { c.DBus.Enabled = true; c.DBus.Name = "" }, "dbus name"},
		{"close after", func(c *Config) { c.Splash.CloseAfter = Duration(-time.Second) }, "close_after"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "splash.toml")

	cfg := DefaultConfig()
	cfg.Splash.Placement = "TL"
	cfg.Splash.CloseAfter = Duration(3 * time.Second)

	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "TL", loaded.Splash.Placement)
	assert.Equal(t, 3*time.Second, loaded.Splash.CloseAfter.Duration())
}

func TestBuild(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Splash.Placement = "x=100,y=444"
	cfg.Splash.Font = "Calibri, 25, bold"
	cfg.Splash.Background = "139,0,0"
	cfg.Splash.CloseAfter = Duration(2 * time.Second)
	cfg.Progress.Enabled = true
	cfg.Progress.Max = 5

	sc := cfg.Build("Loading", nil)

	assert.Equal(t, "Loading", sc.Message)
	x, y, ok := sc.Placement.Point()
	require.True(t, ok)
	assert.Equal(t, 100, x)
	assert.Equal(t, 444, y)
	assert.Equal(t, style.Font{Family: "Calibri", Size: 25, Weight: "bold"}, sc.Font)
	assert.Equal(t, style.FromRGB(139, 0, 0), sc.Background)
	assert.Equal(t, 2*time.Second, sc.CloseAfter)
	require.NotNil(t, sc.Progress)
	assert.Equal(t, float64(5), sc.Progress.Max)
	assert.Equal(t, splash.ModeDeterminate, sc.Progress.Mode)
}

func TestBuild_NoProgress(t *testing.T) {
	sc := DefaultConfig().Build("x", nil)
	assert.Nil(t, sc.Progress)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/splash/splash.toml", ConfigPath())
	assert.Equal(t, "/custom/config/splash/themes", ThemesDir())
	assert.Equal(t, "/custom/config/splash/scenarios", ScenariosDir())
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, ConfigPath(), "splash/splash.toml")
}

func TestSoundPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Audio.Sounds.Show = "~/a.wav"
	cfg.Audio.Sounds.Close = "/abs/b.ogg"

	assert.Equal(t, filepath.Join(home, "a.wav"), cfg.SoundPath("show"))
	assert.Equal(t, "/abs/b.ogg", cfg.SoundPath("close"))
	assert.Empty(t, cfg.SoundPath("other"))
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"250", 250 * time.Millisecond, false},
		{" 2s ", 2 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"0", 0, false},
		{"-1s", 0, true},
		{"-5", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}
}

func TestStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	assert.Equal(t, "/custom/state/splash", StateDir())
	assert.Equal(t, "/custom/state/splash/splash.log", LogPath())

	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/.local/state/splash", StateDir())
}
