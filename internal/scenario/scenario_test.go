package scenario

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/splash/internal/config"
	"github.com/jmylchreest/splash/internal/feed"
	"github.com/jmylchreest/splash/internal/placement"
	"github.com/jmylchreest/splash/internal/splash"
	"github.com/jmylchreest/splash/internal/style"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBundledScenarios(t *testing.T) {
	names := List("")
	assert.ElementsMatch(t, []string{"blocking", "demo", "determinate", "indeterminate", "sequence"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			sc, err := Load(name, "")
			require.NoError(t, err)
			assert.Equal(t, name, sc.Name)
			assert.NotEmpty(t, sc.Description)
		})
	}
}

func TestSequenceSharesSteps(t *testing.T) {
	sc, err := Load("sequence", "")
	require.NoError(t, err)
	require.Len(t, sc.Splashes, 12)

	for _, e := range sc.Splashes {
		require.Len(t, e.Steps, 5)
		assert.Equal(t, feed.KindClose, e.Steps[4].cmd.Kind)
		assert.Equal(t, time.Second, e.Steps[4].cmd.Delay)
	}
	assert.Equal(t, "x=100,y=2000", sc.Splashes[11].Placement)
	assert.Equal(t, 500*time.Millisecond, sc.Splashes[1].Delay.Duration())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no splashes", "name: empty\n"},
		{"missing message", "splashes:\n  - title: x\n"},
		{"bad step", "splashes:\n  - message: hi\n    steps:\n      - { at: 1s, do: step fast }\n"},
		{"empty step", "splashes:\n  - message: hi\n    steps:\n      - { at: 1s, do: '' }\n"},
		{"bad duration", "splashes:\n  - message: hi\n    delay: soon\n"},
		{"not yaml", "splashes: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadResolution(t *testing.T) {
	dir := t.TempDir()
	user := "description: mine\nsplashes:\n  - message: custom demo\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.yaml"), []byte(user), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte(user), 0o644))

	t.Run("user directory overrides bundled", func(t *testing.T) {
		sc, err := Load("demo", dir)
		require.NoError(t, err)
		assert.Equal(t, "custom demo", sc.Splashes[0].Message)
		assert.Equal(t, "demo", sc.Name)
	})

	t.Run("path", func(t *testing.T) {
		sc, err := Load(filepath.Join(dir, "extra.yaml"), "")
		require.NoError(t, err)
		assert.Equal(t, "extra", sc.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := Load("nope", dir)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list merges", func(t *testing.T) {
		names := List(dir)
		assert.Contains(t, names, "extra")
		count := 0
		for _, n := range names {
			if n == "demo" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

func TestEntryBuild(t *testing.T) {
	base := config.DefaultConfig()
	base.Splash.Title = "Base title"
	closeButton, block := true, true

	e := Entry{
		BlockParent: &block,
		Message:     "hello",
		Placement:   "TL",
		Font:        "Mono, 20, bold",
		Background:  "red",
		CloseButton: &closeButton,
		CloseAfter:  config.Duration(2 * time.Second),
		Progress:    &Progress{Max: 5},
	}
	cfg := e.Build(base, quietLogger())

	assert.Equal(t, "hello", cfg.Message)
	assert.Equal(t, "Base title", cfg.Title)
	anchor, ok := cfg.Placement.Anchor()
	require.True(t, ok)
	assert.Equal(t, placement.AnchorTopLeft, anchor)
	assert.Equal(t, style.Font{Family: "Mono", Size: 20, Weight: style.WeightBold}, cfg.Font)
	assert.Equal(t, style.Named("red"), cfg.Background)
	assert.True(t, cfg.CloseButton)
	assert.True(t, cfg.BlockParent)
	assert.Equal(t, 2*time.Second, cfg.CloseAfter)
	require.NotNil(t, cfg.Progress)
	assert.Equal(t, 5.0, cfg.Progress.Max)
	assert.Equal(t, splash.ModeDeterminate, cfg.Progress.Mode)

	// base is not modified
	assert.False(t, base.Progress.Enabled)
	assert.Equal(t, "BR", base.Splash.Placement)
}

func TestRunDemo(t *testing.T) {
	sc, err := Load("demo", "")
	require.NoError(t, err)

	tk := &fakeToolkit{}
	var shown []*splash.Splash
	p := NewPlayer(tk, config.DefaultConfig(), quietLogger())
	p.SetOnShown(func(s *splash.Splash) { shown = append(shown, s) })

	require.NoError(t, p.Run(context.Background(), sc))

	require.Len(t, shown, 1)
	assert.Equal(t, splash.StateClosed, shown[0].State())
	assert.Equal(t, 3500*time.Millisecond, tk.now)
	assert.Equal(t, []string{
		"color #00538F",
		"message Initializing modules...",
		"color #8B0000",
		"message Loading resources...",
		"message Almost ready...",
		"destroy",
	}, tk.log)
}

func TestRunDeterminate(t *testing.T) {
	sc, err := Load("determinate", "")
	require.NoError(t, err)

	tk := &fakeToolkit{}
	p := NewPlayer(tk, nil, quietLogger())
	require.NoError(t, p.Run(context.Background(), sc))

	require.Len(t, tk.windows, 1)
	w := tk.windows[0]
	assert.InDelta(t, 5-splash.ProgressEpsilon, w.progress.value, 1e-9)
	assert.Equal(t, "Step 5 of 5", w.message.text)
	assert.Equal(t, 7*time.Second, tk.now)
	assert.True(t, w.destroyed)
}

func TestRunIndeterminateAutoCloses(t *testing.T) {
	sc, err := Load("indeterminate", "")
	require.NoError(t, err)

	tk := &fakeToolkit{}
	require.NoError(t, NewPlayer(tk, nil, quietLogger()).Run(context.Background(), sc))

	require.Len(t, tk.windows, 1)
	assert.True(t, tk.windows[0].destroyed)
	assert.Equal(t, 3*time.Second, tk.now)
	// CR on a 1920x1080 screen with the progress floor of 150
	assert.Equal(t, placement.Geometry{Width: 300, Height: 150, X: 1610, Y: 465}, tk.windows[0].placement)
}

func TestRunSequenceInOrder(t *testing.T) {
	sc, err := Parse([]byte(`
splashes:
  - message: one
    close_after: 1s
  - message: two
    delay: 10ms
    placement: TL
    close_after: 1s
`))
	require.NoError(t, err)

	tk := &fakeToolkit{}
	require.NoError(t, NewPlayer(tk, nil, quietLogger()).Run(context.Background(), sc))

	require.Len(t, tk.windows, 2)
	assert.True(t, tk.windows[0].destroyed)
	assert.True(t, tk.windows[1].destroyed)
	assert.Equal(t, 10, tk.windows[1].placement.X)
}

func TestRunCanceled(t *testing.T) {
	sc, err := Load("demo", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tk := &fakeToolkit{}
	err = NewPlayer(tk, nil, quietLogger()).Run(ctx, sc)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, tk.windows)
}
