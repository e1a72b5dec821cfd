// Package notice shows short-lived splashes about the application itself,
// such as a reloaded or broken configuration file. Repeats of the same
// notice are rate limited.
package notice

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/splash/internal/placement"
	"github.com/jmylchreest/splash/internal/splash"
	"github.com/jmylchreest/splash/internal/style"
)

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// DefaultMinInterval is the shortest time between two notices with the same key.
const DefaultMinInterval = 5 * time.Second

// Notifier shows notices on a toolkit.
type Notifier struct {
	mu          sync.Mutex
	tk          splash.Toolkit
	logger      *slog.Logger
	last        map[string]time.Time
	minInterval time.Duration
	enabled     bool
	now         func() time.Time
}

// New creates an enabled notifier.
func New(tk splash.Toolkit, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		tk:          tk,
		logger:      logger,
		last:        make(map[string]time.Time),
		minInterval: DefaultMinInterval,
		enabled:     true,
		now:         time.Now,
	}
}

// SetEnabled turns notices on or off.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval changes the rate limit per key.
func (n *Notifier) SetMinInterval(d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = d
}

// allow reports whether a notice for key may be shown now and records it.
func (n *Notifier) allow(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.enabled {
		return false
	}
	now := n.now()
	if last, ok := n.last[key]; ok && now.Sub(last) < n.minInterval {
		return false
	}
	n.last[key] = now
	return true
}

// Notify shows message unless a notice with the same key was shown
// recently. It may be called from any goroutine.
func (n *Notifier) Notify(key, message string, level Level) {
	if !n.allow(key) {
		n.logger.Debug("notice rate limited", "key", key)
		return
	}
	cfg := configFor(message, level)
	n.tk.Post(func() {
		s, err := splash.New(n.tk, cfg, n.logger)
		if err == nil {
			err = s.Show()
		}
		if err != nil {
			n.logger.Warn("failed to show notice", "key", key, "error", err)
		}
	})
}

// configFor builds the splash for a notice. Errors stay up longer and can
// be dismissed.
func configFor(message string, level Level) splash.Config {
	cfg := splash.Config{
		Message:    message,
		Placement:  placement.Named(string(placement.AnchorTopRight), nil),
		Font:       style.Font{Family: style.DefaultFont.Family, Size: 11, Weight: style.DefaultFont.Weight},
		CloseAfter: 3 * time.Second,
	}
	switch level {
	case LevelWarning:
		cfg.Background = style.Named("#B36200")
		cfg.CloseAfter = 5 * time.Second
	case LevelError:
		cfg.Background = style.Named("#8B0000")
		cfg.CloseAfter = 8 * time.Second
		cfg.CloseButton = true
	}
	return cfg
}

// ConfigReloaded reports a successful configuration reload.
func (n *Notifier) ConfigReloaded() {
	n.Notify("config-reloaded", "Configuration reloaded", LevelInfo)
}

// ConfigError reports a configuration file that failed to load.
func (n *Notifier) ConfigError(err error) {
	n.Notify("config-error", "Configuration error\n"+err.Error(), LevelError)
}
