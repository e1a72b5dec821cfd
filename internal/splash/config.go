package splash

import (
	"strings"
	"time"

	"github.com/jmylchreest/splash/internal/placement"
	"github.com/jmylchreest/splash/internal/style"
)

// ProgressMode selects how the progress bar behaves.
type ProgressMode string

const (
	ModeDeterminate   ProgressMode = "determinate"
	ModeIndeterminate ProgressMode = "indeterminate"
)

// DefaultProgressMax is used when a progress spec leaves Max unset.
const DefaultProgressMax = 100

// ParseProgressMode reads a mode name, defaulting to determinate.
func ParseProgressMode(s string) ProgressMode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeIndeterminate)) {
		return ModeIndeterminate
	}
	return ModeDeterminate
}

// ProgressSpec configures the optional progress bar.
type ProgressSpec struct {
	Max  float64
	Mode ProgressMode
}

// Config describes a splash before it is shown.
type Config struct {
	Message     string
	CloseAfter  time.Duration
	Placement   placement.Spec
	Font        style.Font
	Background  style.Color
	Foreground  style.Color
	CloseButton bool
	Title       string
	Progress    *ProgressSpec
	// BlockParent disables input to Parent while the splash is shown.
	BlockParent bool
	// Parent attaches the splash to an existing window.
	Parent Window
}

// withDefaults fills zero-valued fields.
func (c Config) withDefaults() Config {
	if c.Font == (style.Font{}) {
		c.Font = style.DefaultFont
	}
	if c.Background.IsZero() {
		c.Background = style.Named(style.DefaultBackground)
	}
	if c.Foreground.IsZero() {
		c.Foreground = style.Named(style.DefaultForeground)
	}
	if c.CloseAfter < 0 {
		c.CloseAfter = 0
	}
	if c.Progress != nil {
		p := *c.Progress
		if p.Max <= 0 {
			p.Max = DefaultProgressMax
		}
		if p.Mode == "" {
			p.Mode = ModeDeterminate
		}
		c.Progress = &p
	}
	return c
}

// wrapWidth returns the message wrap width in pixels for a font size.
func wrapWidth(fontSize, screenWidth int) int {
	wrap := max(240, min(700, fontSize*22))
	if screenWidth > 0 {
		wrap = min(wrap, screenWidth*60/100)
	}
	return wrap
}
