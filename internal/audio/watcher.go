package audio

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
)

// DefaultPollInterval is how often watched sound files are checked.
const DefaultPollInterval = 2 * time.Second

// Watcher polls sound files and drops them from the player cache when
// they change, so an edited chime is picked up on the next splash.
type Watcher struct {
	mu       sync.Mutex
	logger   *slog.Logger
	player   *Player
	modTimes map[string]time.Time
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher invalidating player's cache.
func NewWatcher(player *Player, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger:   logger,
		player:   player,
		modTimes: make(map[string]time.Time),
		interval: DefaultPollInterval,
	}
}

// SetPollInterval changes the polling interval. It applies on the next Start.
func (w *Watcher) SetPollInterval(d time.Duration) {
	w.mu.Lock()
	w.interval = d
	w.mu.Unlock()
}

// Watch adds path to the watch list.
func (w *Watcher) Watch(path string) {
	if path == "" {
		return
	}
	var mod time.Time
	if info, err := os.Stat(path); err == nil {
		mod = info.ModTime()
	}
	w.mu.Lock()
	w.modTimes[path] = mod
	w.mu.Unlock()
}

// Start polls until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.loop(ctx, w.interval, w.done)
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
}

// IsRunning reports whether the watcher is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancel != nil
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
	w.mu.Lock()
	var changed []string
	for path, last := range w.modTimes {
		info, err := os.Stat(path)
		if err != nil || !info.ModTime().After(last) {
			continue
		}
		w.modTimes[path] = info.ModTime()
		changed = append(changed, path)
	}
	w.mu.Unlock()

	for _, path := range changed {
		w.logger.Debug("sound file changed, invalidating cache", "path", path)
		w.player.Invalidate(path)
	}
}
