// Package termui renders splash windows inside a terminal with BubbleTea.
// Geometry stays in virtual pixels, one cell being CellWidth x CellHeight,
// so placement rules behave the same as on a desktop.
package termui

import (
	"io"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jmylchreest/splash/internal/placement"
	"github.com/jmylchreest/splash/internal/splash"
	"github.com/jmylchreest/splash/internal/style"
)

// Virtual pixel size of one terminal cell.
const (
	CellWidth  = 8
	CellHeight = 16
)

const (
	defaultCols = 80
	defaultRows = 24
)

// Options configures the terminal toolkit.
type Options struct {
	Input  io.Reader
	Output io.Writer
	// KeepStdin leaves standard input to the caller. Input is ignored and
	// keys are read from the controlling terminal, or not at all when there
	// is none.
	KeepStdin bool
	// Mouse enables hover and click on the close button.
	Mouse bool
	// ProgramOptions are passed through to tea.NewProgram, used by tests.
	ProgramOptions []tea.ProgramOption
}

// Toolkit implements splash.Toolkit in a terminal.
type Toolkit struct {
	opts   Options
	logger *slog.Logger
	model  *model

	mu      sync.Mutex
	program *tea.Program
	pending []func()
	woken   bool
}

// New creates a terminal toolkit.
func New(opts Options, logger *slog.Logger) *Toolkit {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil && !opts.KeepStdin {
		opts.Input = os.Stdin
	}
	tk := &Toolkit{opts: opts, logger: logger}
	tk.model = newModel(tk)
	return tk
}

// DefaultRoot returns the live window that owns the program, if any.
func (tk *Toolkit) DefaultRoot() (splash.Window, bool) {
	if w := tk.model.root(); w != nil {
		return w, true
	}
	return nil, false
}

// NewTopLevel creates a window that runs the BubbleTea program.
func (tk *Toolkit) NewTopLevel() (splash.TopLevel, error) {
	w := tk.model.add(true)
	tk.mu.Lock()
	if tk.program == nil {
		tk.program = tea.NewProgram(tk.model, tk.programOptions()...)
	}
	tk.mu.Unlock()
	return w, nil
}

// NewChild creates a window stacked above parent.
func (tk *Toolkit) NewChild(parent splash.Window) (splash.Window, error) {
	w := tk.model.add(false)
	if p, ok := parent.(*window); ok {
		w.parent = p
	}
	return w, nil
}

// Colors returns the SVG color table.
func (tk *Toolkit) Colors() style.ColorTable {
	return style.StandardColors
}

// Post queues fn for the program goroutine. Order is preserved.
func (tk *Toolkit) Post(fn func()) {
	tk.mu.Lock()
	tk.pending = append(tk.pending, fn)
	p := tk.program
	wake := p != nil && !tk.woken
	if wake {
		tk.woken = true
	}
	tk.mu.Unlock()

	if wake {
		// Send blocks until the loop reads it, which deadlocks when called
		// from inside Update.
		go p.Send(drainMsg{})
	}
}

// drain takes every queued function.
func (tk *Toolkit) drain() []func() {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	fns := tk.pending
	tk.pending = nil
	tk.woken = false
	return fns
}

func (tk *Toolkit) send(msg tea.Msg) {
	tk.mu.Lock()
	p := tk.program
	tk.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (tk *Toolkit) programOptions() []tea.ProgramOption {
	opts := []tea.ProgramOption{
		tk.inputOption(),
		tea.WithOutput(tk.opts.Output),
		tea.WithAltScreen(),
	}
	if tk.opts.Mouse {
		opts = append(opts, tea.WithMouseAllMotion())
	}
	return append(opts, tk.opts.ProgramOptions...)
}

// hasTTY reports whether a controlling terminal can be opened.
var hasTTY = func() bool {
	f, err := os.Open("/dev/tty")
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

func (tk *Toolkit) inputOption() tea.ProgramOption {
	if !tk.opts.KeepStdin {
		return tea.WithInput(tk.opts.Input)
	}
	if hasTTY() {
		return tea.WithInputTTY()
	}
	tk.logger.Debug("no controlling terminal, keyboard input disabled")
	return tea.WithInput(nil)
}

// run blocks on the program. It returns at once when already quit.
func (tk *Toolkit) run() {
	tk.mu.Lock()
	p := tk.program
	tk.mu.Unlock()
	if p == nil || tk.model.quitting {
		return
	}
	if _, err := p.Run(); err != nil {
		tk.logger.Error("terminal program failed", "error", err)
	}
	tk.mu.Lock()
	tk.program = nil
	tk.mu.Unlock()
}

// screenSize returns the terminal size in virtual pixels.
func (tk *Toolkit) screenSize() placement.Size {
	cols, rows := tk.model.cols, tk.model.rows
	if cols == 0 || rows == 0 {
		cols, rows = terminalSize(tk.opts.Output)
	}
	return placement.Size{Width: cols * CellWidth, Height: rows * CellHeight}
}

func terminalSize(out io.Writer) (cols, rows int) {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if c, r, err := term.GetSize(int(f.Fd())); err == nil && c > 0 && r > 0 {
			return c, r
		}
	}
	return defaultCols, defaultRows
}

// cells converts virtual pixels to whole cells.
func cells(px, cell int) int {
	if px <= 0 {
		return 0
	}
	return (px + cell - 1) / cell
}
