package theme

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a user theme file and reports its new CSS after edits.
type Watcher struct {
	mu       sync.Mutex
	logger   *slog.Logger
	theme    *Theme
	watcher  *fsnotify.Watcher
	onChange func(css string)
	done     chan struct{}
	running  bool
}

// NewWatcher creates a watcher for theme.
func NewWatcher(theme *Theme, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger: logger,
		theme:  theme,
		done:   make(chan struct{}),
	}
}

// SetChangeCallback sets the callback to invoke when the theme changes.
// It runs on the watcher goroutine.
func (w *Watcher) SetChangeCallback(callback func(css string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// Start begins watching. Bundled themes are never watched.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if w.theme.IsBundled {
		w.logger.Debug("not watching bundled theme", "name", w.theme.Name)
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory containing the file (more reliable for editors
	// that replace the file on save)
	if err := fw.Add(filepath.Dir(w.theme.Path)); err != nil {
		fw.Close()
		return err
	}

	w.watcher = fw
	w.running = true
	go w.watch()

	w.logger.Debug("theme watcher started", "path", w.theme.Path)
	return nil
}

// Stop stops watching and waits for the watch goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.watcher.Close()
	w.mu.Unlock()

	<-w.done
	w.logger.Debug("theme watcher stopped")
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watch() {
	defer close(w.done)
	dir := filepath.Dir(w.theme.Path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Any CSS in the theme directory may be an @import of ours
			if filepath.Ext(event.Name) != ".css" || filepath.Dir(event.Name) != dir {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()

	changed, err := w.theme.ForceReload()
	if err != nil {
		w.logger.Debug("failed to reload theme", "path", w.theme.Path, "error", err)
		return
	}
	if changed && callback != nil {
		w.logger.Info("theme file changed, reloading", "path", w.theme.Path)
		callback(w.theme.CSS)
	}
}
