package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/splash/internal/style"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) UpdateMessage(text string, appendText bool) error {
	r.add("message %q append=%v", text, appendText)
	return nil
}

func (r *recorder) UpdateColor(c style.Color) error {
	r.add("color %s", c)
	return nil
}

func (r *recorder) StepProgress(amount float64) error {
	r.add("step %g", amount)
	return nil
}

func (r *recorder) SetProgress(value float64) error {
	r.add("progress %g", value)
	return nil
}

func (r *recorder) CloseAfter(delay time.Duration) {
	r.add("close %s", delay)
}

// inline runs posted functions immediately.
type inline struct{}

func (inline) Post(fn func()) { fn() }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"# Loading", Command{Kind: KindMessage, Text: "Loading"}},
		{"+ step two", Command{Kind: KindAppend, Text: "\nstep two"}},
		{"42", Command{Kind: KindProgress, Value: 42}},
		{"12.5%", Command{Kind: KindProgress, Value: 12.5}},
		{"step", Command{Kind: KindStep, Value: 1}},
		{"STEP 2.5", Command{Kind: KindStep, Value: 2.5}},
		{"color red", Command{Kind: KindColor, Color: style.Named("red")}},
		{"color 255,0,0", Command{Kind: KindColor, Color: style.FromRGB(255, 0, 0)}},
		{"close", Command{Kind: KindClose}},
		{"close 2s", Command{Kind: KindClose, Delay: 2 * time.Second}},
		{"close 1500", Command{Kind: KindClose, Delay: 1500 * time.Millisecond}},
		{"Copying files...", Command{Kind: KindMessage, Text: "Copying files..."}},
		{"  padded  \r\n", Command{Kind: KindMessage, Text: "padded"}},
		{"NaN", Command{Kind: KindMessage, Text: "NaN"}},
		{"inf", Command{Kind: KindMessage, Text: "inf"}},
		{"-Infinity%", Command{Kind: KindMessage, Text: "-Infinity%"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLineSkipsBlank(t *testing.T) {
	_, ok, err := ParseLine("   ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseLineErrors(t *testing.T) {
	for _, line := range []string{"step fast", "step NaN", "step -inf", "color", "close soon"} {
		t.Run(line, func(t *testing.T) {
			_, ok, err := ParseLine(line)
			assert.Error(t, err)
			assert.False(t, ok)
		})
	}
}

func TestReaderRun(t *testing.T) {
	rec := &recorder{}
	r := NewReader(rec, inline{}, quietLogger())

	input := "# Starting\n10\nbogus step\nstep fast\n+ done\nclose\n"
	require.NoError(t, r.Run(context.Background(), strings.NewReader(input)))

	assert.Equal(t, []string{
		`message "Starting" append=false`,
		"progress 10",
		`message "bogus step" append=false`,
		`message "\ndone" append=true`,
		"close 0s",
	}, rec.Calls())
}

func TestReaderRunCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	r := NewReader(&recorder{}, inline{}, quietLogger())

	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx, pr) }()
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestFollower(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.feed")
	require.NoError(t, os.WriteFile(path, []byte("# first\n"), 0o644))

	rec := &recorder{}
	f, err := NewFollower(path, NewReader(rec, inline{}, quietLogger()), quietLogger())
	require.NoError(t, err)
	require.NoError(t, f.Start())
	defer f.Stop()

	assert.Equal(t, []string{`message "first" append=false`}, rec.Calls())

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = file.WriteString("50\nstep")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	assert.Eventually(t, func() bool {
		return len(rec.Calls()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	// the partial line completes on the next write
	file, err = os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = file.WriteString(" 5\n")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	assert.Eventually(t, func() bool {
		return len(rec.Calls()) == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "step 5", rec.Calls()[2])
}

func TestFollowerTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.feed")
	require.NoError(t, os.WriteFile(path, []byte("# a long first message\n"), 0o644))

	rec := &recorder{}
	f, err := NewFollower(path, NewReader(rec, inline{}, quietLogger()), quietLogger())
	require.NoError(t, err)
	require.NoError(t, f.Start())
	defer f.Stop()

	require.NoError(t, os.WriteFile(path, []byte("# b\n"), 0o644))

	assert.Eventually(t, func() bool {
		calls := rec.Calls()
		return len(calls) >= 2 && calls[len(calls)-1] == `message "b" append=false`
	}, 2*time.Second, 10*time.Millisecond)
}
