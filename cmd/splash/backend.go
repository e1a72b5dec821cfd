package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmylchreest/splash/internal/config"
	"github.com/jmylchreest/splash/internal/gtkui"
	"github.com/jmylchreest/splash/internal/splash"
	"github.com/jmylchreest/splash/internal/termui"
	"github.com/jmylchreest/splash/internal/theme"
)

// toolkit is a standalone toolkit plus whatever must be stopped with it.
type toolkit struct {
	splash.Toolkit
	backend config.Backend
	stop    func()
}

// hasDisplay reports whether a graphical session looks available.
func hasDisplay() bool {
	return os.Getenv("WAYLAND_DISPLAY") != "" || os.Getenv("DISPLAY") != ""
}

// openToolkit creates the toolkit for backend. auto prefers GTK when a
// display is available and falls back to the terminal. keepStdin reserves
// standard input for the caller.
func openToolkit(backend config.Backend, keepStdin bool) (*toolkit, error) {
	if backend == "" {
		backend = config.Backend(cfg.Backend)
	}

	switch backend {
	case config.BackendTerm:
		return openTerm(keepStdin), nil
	case config.BackendGTK:
		return openGTK()
	case config.BackendAuto:
		if !hasDisplay() {
			return openTerm(keepStdin), nil
		}
		tk, err := openGTK()
		if err != nil {
			logger.Warn("GTK unavailable, using terminal", "error", err)
			return openTerm(keepStdin), nil
		}
		return tk, nil
	}
	return nil, fmt.Errorf("unknown backend %q (valid: %v)", backend, config.ValidBackends())
}

func openGTK() (*toolkit, error) {
	th := theme.Load(cfg.Theme.Name, config.ThemesDir(), logger)
	tk, err := gtkui.NewStandalone(th, logger)
	if err != nil {
		return nil, err
	}

	stop := func() {}
	if w, err := tk.WatchTheme(th); err != nil {
		logger.Debug("theme hot reload disabled", "error", err)
	} else {
		stop = w.Stop
	}
	logger.Debug("using GTK backend", "theme", th.Name, "layer_shell", tk.LayerShell())
	return &toolkit{Toolkit: tk, backend: config.BackendGTK, stop: stop}, nil
}

func openTerm(keepStdin bool) *toolkit {
	restore := logToFile(config.LogPath())
	tk := termui.New(termui.Options{Output: os.Stderr, KeepStdin: keepStdin, Mouse: true}, logger)
	logger.Debug("using terminal backend", "keep_stdin", keepStdin)
	return &toolkit{Toolkit: tk, backend: config.BackendTerm, stop: restore}
}

// logToFile sends logs to path while the terminal is drawn on, so they do
// not land inside the alternate screen. Without a usable file logs are
// discarded. The returned func restores the previous logger.
func logToFile(path string) func() {
	prev := logger
	level := logLevel()

	var handler slog.Handler
	var f *os.File
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err == nil {
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
	if err != nil {
		handler = slog.NewTextHandler(io.Discard, nil)
	} else {
		handler = slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	}
	setLogger(slog.New(handler))
	if err != nil {
		prev.Warn("terminal backend logs discarded", "path", path, "error", err)
	}

	return func() {
		setLogger(prev)
		if f != nil {
			_ = f.Close()
		}
	}
}
