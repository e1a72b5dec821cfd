package config

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
)

// DefaultPollInterval is how often the config file is checked for changes.
const DefaultPollInterval = time.Second

// Watcher polls a config file and reports each valid new version.
// An invalid edit is reported through the error callback and the last
// good configuration stays current.
type Watcher struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	path     string
	interval time.Duration
	current  *Config
	modTime  time.Time

	onReload func(cfg *Config)
	onError  func(err error)

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher for path. An empty path watches ConfigPath().
func NewWatcher(path string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = ConfigPath()
	}
	return &Watcher{logger: logger, path: path, interval: DefaultPollInterval}
}

// SetPollInterval changes the polling interval. It applies on the next Start.
func (w *Watcher) SetPollInterval(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.interval = d
}

// SetReloadCallback is called with every successfully reloaded config.
func (w *Watcher) SetReloadCallback(fn func(cfg *Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = fn
}

// SetErrorCallback is called when a changed file fails to load.
func (w *Watcher) SetErrorCallback(fn func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

// Current returns the last valid configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Start polls until ctx is done or Stop is called. initial is the
// configuration already in use.
func (w *Watcher) Start(ctx context.Context, initial *Config) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	w.current = initial
	if info, err := os.Stat(w.path); err == nil {
		w.modTime = info.ModTime()
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.loop(ctx, w.interval, w.done)
	w.logger.Debug("config watcher started", "path", w.path, "interval", w.interval)
}

// Stop ends polling and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel = nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	w.logger.Debug("config watcher stopped")
}

func (w *Watcher) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watcher) check() {
	info, err := os.Stat(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Debug("failed to stat config file", "path", w.path, "error", err)
		}
		return
	}

	w.mu.Lock()
	if !info.ModTime().After(w.modTime) {
		w.mu.Unlock()
		return
	}
	w.modTime = info.ModTime()
	onReload, onError := w.onReload, w.onError
	w.mu.Unlock()

	cfg, err := LoadConfig(w.path)
	if err != nil {
		w.logger.Warn("config file changed but failed to load", "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}

	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()
	w.logger.Info("config reloaded", "path", w.path)
	if onReload != nil {
		onReload(cfg)
	}
}
