package theme

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsEdits(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "live.css")
	require.NoError(t, os.WriteFile(path, []byte(`.splash-window { color: red; }`), 0644))

	th, err := NewTheme("live", path)
	require.NoError(t, err)

	var mu sync.Mutex
	var got string
	w := NewWatcher(th, nil)
	w.SetChangeCallback(func(css string) {
		mu.Lock()
		got = css
		mu.Unlock()
	})
	require.NoError(t, w.Start())
	defer w.Stop()
	assert.True(t, w.IsRunning())

	require.NoError(t, os.WriteFile(path, []byte(`.splash-window { color: blue; }`), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return strings.Contains(got, "color: blue")
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_BundledIsNotWatched(t *testing.T) {
	w := NewWatcher(Load("default", "", nil), nil)
	require.NoError(t, w.Start())
	assert.False(t, w.IsRunning())
	w.Stop()
}
