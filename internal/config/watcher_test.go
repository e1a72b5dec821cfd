package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestWatcher_Check(t *testing.T) {
	path := filepath.Join(t.TempDir(), "splash.toml")
	base := time.Now().Add(-time.Hour)
	touch(t, path, "[splash]\nplacement = \"TL\"\n", base)

	w := NewWatcher(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	var reloaded []*Config
	var errs []error
	w.SetReloadCallback(func(cfg *Config) { reloaded = append(reloaded, cfg) })
	w.SetErrorCallback(func(err error) { errs = append(errs, err) })

	initial := DefaultConfig()
	w.Start(t.Context(), initial)
	w.Stop()
	assert.Same(t, initial, w.Current())

	w.check()
	assert.Empty(t, reloaded, "unchanged file is not reloaded")

	touch(t, path, "[splash]\nplacement = \"C\"\n", base.Add(time.Minute))
	w.check()
	require.Len(t, reloaded, 1)
	assert.Equal(t, "C", reloaded[0].Splash.Placement)
	assert.Same(t, reloaded[0], w.Current())

	touch(t, path, "[audio]\nvolume = 400\n", base.Add(2*time.Minute))
	w.check()
	require.Len(t, errs, 1)
	assert.Len(t, reloaded, 1)
	assert.Equal(t, "C", w.Current().Splash.Placement, "last good config stays current")
}

func TestWatcher_MissingFile(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "none.toml"), nil)
	called := false
	w.SetReloadCallback(func(*Config) { called = true })
	w.check()
	assert.False(t, called)
}

func TestWatcher_StartStop(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "splash.toml"), nil)
	w.SetPollInterval(5 * time.Millisecond)
	w.Start(t.Context(), DefaultConfig())
	w.Start(t.Context(), DefaultConfig())
	time.Sleep(20 * time.Millisecond)
	w.Stop()
	w.Stop()
}
