// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/splash/internal/placement"
	"github.com/jmylchreest/splash/internal/splash"
	"github.com/jmylchreest/splash/internal/style"
)

// Backend selects the toolkit a splash is rendered with.
type Backend string

const (
	BackendAuto Backend = "auto"
	BackendGTK  Backend = "gtk"
	BackendTerm Backend = "term"
)

// ValidBackends returns all valid backend values.
func ValidBackends() []Backend {
	return []Backend{BackendAuto, BackendGTK, BackendTerm}
}

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}

// DefaultBusName is the well-known D-Bus name of the control service.
const DefaultBusName = "io.github.jmylchreest.Splash"

// Config is the splash configuration.
// Loaded from ~/.config/splash/splash.toml
type Config struct {
	Backend  string         `toml:"backend"` // "auto", "gtk" or "term"
	Splash   SplashConfig   `toml:"splash"`
	Progress ProgressConfig `toml:"progress"`
	Theme    ThemeConfig    `toml:"theme"`
	Audio    AudioConfig    `toml:"audio"`
	DBus     DBusConfig     `toml:"dbus"`
}

// SplashConfig holds the defaults applied to every splash.
type SplashConfig struct {
	Placement   string   `toml:"placement"`  // "BR", "x=100,y=444", ...
	Font        string   `toml:"font"`       // "family, size, weight"
	Background  string   `toml:"background"` // name, hex or "r,g,b"
	Foreground  string   `toml:"foreground"`
	CloseButton bool     `toml:"close_button"`
	Title       string   `toml:"title"`
	CloseAfter  Duration `toml:"close_after"` // 0 = stay until closed
	BlockParent bool     `toml:"block_parent"`
}

// ProgressConfig controls the optional progress bar.
type ProgressConfig struct {
	Enabled bool    `toml:"enabled"`
	Max     float64 `toml:"max"`
	Mode    string  `toml:"mode"` // "determinate" or "indeterminate"
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name        string `toml:"name"`         // Theme name without .css extension
	ColorScheme string `toml:"color_scheme"` // "system", "light", or "dark"
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled"`
	Volume  int         `toml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds"`
}

// SoundConfig contains sound file paths per lifecycle event.
type SoundConfig struct {
	Show  string `toml:"show"`
	Close string `toml:"close"`
}

// DBusConfig controls the session bus control service.
type DBusConfig struct {
	Enabled bool   `toml:"enabled"`
	Name    string `toml:"name"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Backend: string(BackendAuto),
		Splash: SplashConfig{
			Placement:  string(placement.DefaultAnchor),
			Font:       style.DefaultFont.String(),
			Background: style.DefaultBackground,
			Foreground: style.DefaultForeground,
		},
		Progress: ProgressConfig{
			Max:  splash.DefaultProgressMax,
			Mode: string(splash.ModeDeterminate),
		},
		Theme: ThemeConfig{
			Name:        "default",
			ColorScheme: string(ColorSchemeSystem),
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
		},
		DBus: DBusConfig{
			Enabled: false,
			Name:    DefaultBusName,
		},
	}
}

// ConfigDir returns the splash configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "splash")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "splash.toml")
}

// ThemesDir returns the directory searched for user themes.
func ThemesDir() string {
	return filepath.Join(ConfigDir(), "themes")
}

// ScenariosDir returns the directory searched for user scenarios.
func ScenariosDir() string {
	return filepath.Join(ConfigDir(), "scenarios")
}

// StateDir returns the directory for runtime state such as logs.
// Uses XDG_STATE_HOME if set, otherwise ~/.local/state.
func StateDir() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "splash")
}

// LogPath returns the log file used while a splash draws on the terminal.
func LogPath() string {
	return filepath.Join(StateDir(), "splash.log")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid. Placement, font and colors
// are not checked here: bad values fall back to defaults with a warning
// when a splash is built.
func (c *Config) Validate() error {
	validBackend := false
	for _, b := range ValidBackends() {
		if c.Backend == string(b) {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid backend %q, must be one of: %v", c.Backend, ValidBackends())
	}

	if c.Splash.CloseAfter < 0 {
		return fmt.Errorf("close_after must not be negative, got %s", c.Splash.CloseAfter.Duration())
	}

	if c.Progress.Max <= 0 {
		return fmt.Errorf("progress max must be positive, got %v", c.Progress.Max)
	}
	switch splash.ProgressMode(c.Progress.Mode) {
	case splash.ModeDeterminate, splash.ModeIndeterminate:
	default:
		return fmt.Errorf("invalid progress mode %q", c.Progress.Mode)
	}

	validScheme := false
	for _, s := range ValidColorSchemes() {
		if c.Theme.ColorScheme == string(s) {
			validScheme = true
			break
		}
	}
	if !validScheme {
		return fmt.Errorf("invalid color_scheme %q, must be one of: %v", c.Theme.ColorScheme, ValidColorSchemes())
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	if c.DBus.Enabled && c.DBus.Name == "" {
		return errors.New("dbus name must not be empty when dbus is enabled")
	}

	return nil
}

// Build converts the settings into a splash configuration for message.
// Soft failures in placement and font are logged and defaulted here.
func (c *Config) Build(message string, logger *slog.Logger) splash.Config {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := splash.Config{
		Message:     message,
		CloseAfter:  c.Splash.CloseAfter.Duration(),
		Placement:   placement.Parse(c.Splash.Placement, logger),
		Font:        style.ParseFont(c.Splash.Font, logger),
		Background:  style.ParseColor(c.Splash.Background),
		Foreground:  style.ParseColor(c.Splash.Foreground),
		CloseButton: c.Splash.CloseButton,
		Title:       c.Splash.Title,
		BlockParent: c.Splash.BlockParent,
	}
	if c.Progress.Enabled {
		cfg.Progress = &splash.ProgressSpec{
			Max:  c.Progress.Max,
			Mode: splash.ParseProgressMode(c.Progress.Mode),
		}
	}
	return cfg
}

// SoundPath returns the sound file configured for event ("show" or "close").
// Expands ~ to home directory.
func (c *Config) SoundPath(event string) string {
	var path string
	switch event {
	case "show":
		path = c.Audio.Sounds.Show
	case "close":
		path = c.Audio.Sounds.Close
	}
	return expandPath(path)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
