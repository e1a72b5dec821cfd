// Package scenario loads and plays timed splash scripts written in YAML.
package scenario

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/splash/internal/config"
	"github.com/jmylchreest/splash/internal/feed"
	"github.com/jmylchreest/splash/internal/splash"
)

//go:embed scenarios/*.yaml
var embedded embed.FS

// ErrNotFound is returned when no scenario has the requested name.
var ErrNotFound = errors.New("scenario not found")

// Scenario is a sequence of splashes shown one after the other.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Splashes    []Entry `yaml:"splashes"`
}

// Entry is one splash in a scenario. Empty fields inherit the configuration.
type Entry struct {
	// Delay is the pause before this splash, counted from the previous close.
	Delay       config.Duration `yaml:"delay"`
	Message     string          `yaml:"message"`
	Title       string          `yaml:"title"`
	Placement   string          `yaml:"placement"`
	Font        string          `yaml:"font"`
	Background  string          `yaml:"background"`
	Foreground  string          `yaml:"foreground"`
	CloseButton *bool           `yaml:"close_button"`
	CloseAfter  config.Duration `yaml:"close_after"`
	BlockParent *bool           `yaml:"block_parent"`
	Progress    *Progress       `yaml:"progress"`
	Steps       []Step          `yaml:"steps"`
}

// Progress enables a progress bar for an entry.
type Progress struct {
	Max  float64 `yaml:"max"`
	Mode string  `yaml:"mode"`
}

// Step runs one feed command a fixed time after the splash is shown.
type Step struct {
	At config.Duration `yaml:"at"`
	Do string          `yaml:"do"`

	cmd feed.Command
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(sc.Splashes) == 0 {
		return nil, fmt.Errorf("scenario %q has no splashes", sc.Name)
	}
	for i := range sc.Splashes {
		e := &sc.Splashes[i]
		if e.Message == "" {
			return nil, fmt.Errorf("splash %d: message is required", i+1)
		}
		if e.Delay < 0 || e.CloseAfter < 0 {
			return nil, fmt.Errorf("splash %d: durations must not be negative", i+1)
		}
		for j := range e.Steps {
			step := &e.Steps[j]
			cmd, ok, err := feed.ParseLine(step.Do)
			if err != nil {
				return nil, fmt.Errorf("splash %d step %d: %w", i+1, j+1, err)
			}
			if !ok {
				return nil, fmt.Errorf("splash %d step %d: empty command", i+1, j+1)
			}
			step.cmd = cmd
		}
	}
	return &sc, nil
}

// LoadFile reads a scenario from path.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Load resolves name as a file path, then in dir, then among the bundled scenarios.
func Load(name, dir string) (*Scenario, error) {
	if strings.ContainsRune(name, os.PathSeparator) || filepath.Ext(name) != "" {
		return LoadFile(name)
	}
	if dir != "" {
		path := filepath.Join(dir, name+".yaml")
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	data, err := embedded.ReadFile("scenarios/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = name
	}
	return sc, nil
}

// List returns the bundled scenario names followed by those in dir.
func List(dir string) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(entries []fs.DirEntry) {
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".yaml")
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	if entries, err := fs.ReadDir(embedded, "scenarios"); err == nil {
		add(entries)
	}
	if dir != "" {
		if entries, err := os.ReadDir(dir); err == nil {
			add(entries)
		}
	}
	return names
}

// Build converts the entry into a splash configuration on top of base.
func (e Entry) Build(base *config.Config, logger *slog.Logger) splash.Config {
	cfg := *base
	s := &cfg.Splash
	if e.Title != "" {
		s.Title = e.Title
	}
	if e.Placement != "" {
		s.Placement = e.Placement
	}
	if e.Font != "" {
		s.Font = e.Font
	}
	if e.Background != "" {
		s.Background = e.Background
	}
	if e.Foreground != "" {
		s.Foreground = e.Foreground
	}
	if e.CloseButton != nil {
		s.CloseButton = *e.CloseButton
	}
	if e.CloseAfter > 0 {
		s.CloseAfter = e.CloseAfter
	}
	if e.BlockParent != nil {
		s.BlockParent = *e.BlockParent
	}
	if p := e.Progress; p != nil {
		cfg.Progress.Enabled = true
		if p.Max > 0 {
			cfg.Progress.Max = p.Max
		}
		if p.Mode != "" {
			cfg.Progress.Mode = p.Mode
		}
	}
	return cfg.Build(e.Message, logger)
}
