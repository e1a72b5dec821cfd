// Package splash implements a non-blocking splash screen overlay.
//
// A Splash is created Unshown, becomes Shown with Show and ends Closed after
// Close. Every method except IsShown, State and ID must run on the toolkit's
// UI thread; other goroutines go through Toolkit.Post.
package splash

import (
	"crypto/rand"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/splash/internal/placement"
	"github.com/jmylchreest/splash/internal/style"
)

// State is the lifecycle state of a splash.
type State int32

const (
	StateUnshown State = iota
	StateShown
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnshown:
		return "unshown"
	case StateShown:
		return "shown"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// ProgressEpsilon keeps a full progress bar visibly short of complete.
const ProgressEpsilon = 0.001

// Close button line widths.
const (
	closeLineWidth      = 2
	closeLineWidthHover = 3
	hoverLighten        = 0.3
)

// Callback is called on lifecycle transitions.
type Callback func(s *Splash)

// Splash is one splash screen window and its lifecycle.
type Splash struct {
	tk     Toolkit
	cfg    Config
	logger *slog.Logger
	id     ulid.ULID
	state  atomic.Int32

	onShown  Callback
	onClosed Callback

	win      Window
	top      TopLevel // set when this splash owns the event loop
	queue    Window   // active dispatch queue, chosen in Show
	attached bool
	blocking bool

	title     Label
	message   Label
	progress  ProgressBar
	closeBtn  CloseButton
	bg        *colorVar
	fg        string
	autoClose Timer
	geometry  placement.Geometry
	shownAt   time.Time
}

// New validates cfg and returns an unshown splash.
func New(tk Toolkit, cfg Config, logger *slog.Logger) (*Splash, error) {
	if cfg.Message == "" {
		return nil, ErrEmptyMessage
	}
	if logger == nil {
		logger = slog.Default()
	}

	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, err
	}

	return &Splash{
		tk:     tk,
		cfg:    cfg.withDefaults(),
		logger: logger.With("splash", id.String()),
		id:     id,
	}, nil
}

// SetOnShown sets the callback run after the window is shown.
func (s *Splash) SetOnShown(cb Callback) {
	s.onShown = cb
}

// SetOnClosed sets the callback run after teardown.
func (s *Splash) SetOnClosed(cb Callback) {
	s.onClosed = cb
}

// ID returns the unique splash identifier.
func (s *Splash) ID() string {
	return s.id.String()
}

// State returns the current lifecycle state. Safe from any goroutine.
func (s *Splash) State() State {
	return State(s.state.Load())
}

// IsShown reports whether the splash is currently displayed.
func (s *Splash) IsShown() bool {
	return s.State() == StateShown
}

// Config returns the effective configuration.
func (s *Splash) Config() Config {
	return s.cfg
}

// Message returns the current message text.
func (s *Splash) Message() string {
	if s.message == nil {
		return s.cfg.Message
	}
	return s.message.Text()
}

// Progress returns the progress value and maximum. ok is false without a progress bar.
func (s *Splash) Progress() (value, maximum float64, ok bool) {
	if s.progress == nil {
		return 0, 0, false
	}
	return s.progress.Value(), s.progress.Max(), true
}

// Background returns the current background color.
func (s *Splash) Background() string {
	if s.bg == nil {
		return ""
	}
	return s.bg.Get()
}

// Geometry returns the last resolved window geometry.
func (s *Splash) Geometry() placement.Geometry {
	return s.geometry
}

// ShownAt returns when the splash was shown.
func (s *Splash) ShownAt() time.Time {
	return s.shownAt
}

// Show creates and displays the window. Showing twice logs a warning and does nothing.
func (s *Splash) Show() error {
	switch s.State() {
	case StateShown:
		s.logger.Warn("splash already shown")
		return nil
	case StateClosed:
		return &StateError{Op: "show", State: StateClosed}
	}

	if err := s.createWindow(); err != nil {
		s.logger.Error("failed to create splash", "error", err)
		return err
	}

	s.shownAt = time.Now()
	s.state.Store(int32(StateShown))
	s.logger.Debug("splash shown", "geometry", s.geometry.String(), "attached", s.attached)

	if s.onShown != nil {
		s.onShown(s)
	}
	return nil
}

// ShowAndWait shows the splash and, when it owns the event loop, blocks
// until it is closed. Otherwise it returns right after showing.
func (s *Splash) ShowAndWait() error {
	if err := s.Show(); err != nil {
		return err
	}
	if s.top != nil && s.IsShown() {
		s.top.Run()
	}
	return nil
}

// Do shows the splash, runs fn and always closes it afterwards.
func (s *Splash) Do(fn func(*Splash) error) error {
	if err := s.Show(); err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func (s *Splash) createWindow() error {
	switch {
	case s.cfg.Parent != nil:
		win, err := s.tk.NewChild(s.cfg.Parent)
		if err != nil {
			return &ToolkitError{Message: "create child window", Cause: err}
		}
		s.win, s.queue, s.attached = win, s.cfg.Parent, true
	default:
		if root, ok := s.tk.DefaultRoot(); ok {
			win, err := s.tk.NewChild(root)
			if err != nil {
				return &ToolkitError{Message: "create child window", Cause: err}
			}
			s.win = win
		} else {
			top, err := s.tk.NewTopLevel()
			if err != nil {
				return &ToolkitError{Message: "create top-level window", Cause: err}
			}
			s.win, s.top = top, top
		}
		s.queue = s.win
	}

	if err := s.build(); err != nil {
		s.softly("destroy window", s.win.Destroy())
		return err
	}
	return nil
}

// build lays out title, message, progress bar and close button in that order.
func (s *Splash) build() error {
	s.softly("set overlay", s.win.SetOverlay())

	colors := s.tk.Colors()
	s.fg = style.NormalizeColor(colors, s.cfg.Foreground, style.DefaultForeground, s.logger)
	s.bg = newColorVar(style.NormalizeColor(colors, s.cfg.Background, style.DefaultBackground, s.logger), s.logger)
	bg := s.bg.Get()
	font := s.cfg.Font

	var err error
	if s.cfg.Title != "" {
		if s.title, err = s.win.AddTitle(s.cfg.Title, font, s.fg, bg); err != nil {
			return &ToolkitError{Message: "create title", Cause: err}
		}
		s.bg.Subscribe(s.title)
	}

	wrap := wrapWidth(font.Size, s.win.ScreenSize().Width)
	if s.message, err = s.win.AddMessage(s.cfg.Message, font, s.fg, bg, wrap); err != nil {
		return &ToolkitError{Message: "create message", Cause: err}
	}
	s.bg.Subscribe(s.message)

	if p := s.cfg.Progress; p != nil {
		indeterminate := p.Mode == ModeIndeterminate
		if s.progress, err = s.win.AddProgress(p.Max, indeterminate); err != nil {
			return &ToolkitError{Message: "create progress bar", Cause: err}
		}
		if indeterminate {
			s.softly("start progress", s.progress.Start())
		}
	}

	if s.cfg.CloseButton {
		if s.closeBtn, err = s.win.AddCloseButton(s.fg, bg, s.Close, s.hover); err != nil {
			return &ToolkitError{Message: "create close button", Cause: err}
		}
		s.bg.Subscribe(s.closeBtn)
	}

	s.bg.Subscribe(s.win)
	s.bg.Set(bg)
	s.resize()

	if s.cfg.BlockParent {
		s.blockParent()
	}
	s.win.OnDeleteRequest(s.Close)
	s.softly("present", s.win.Present())

	if s.cfg.CloseAfter > 0 {
		s.autoClose = s.queue.After(s.cfg.CloseAfter, s.Close)
	}
	return nil
}

func (s *Splash) blockParent() {
	parent := s.cfg.Parent
	if parent == nil {
		s.logger.Warn("block parent requested without a parent window")
		return
	}
	s.blocking = true
	s.softly("set transient", s.win.SetTransientFor(parent))
	s.softly("raise", s.win.Raise())
	s.softly("disable parent input", parent.SetInputEnabled(false))
	if err := s.win.GrabGlobal(); err != nil {
		s.logger.Debug("global grab unavailable, trying local", "error", err)
		s.softly("local grab", s.win.GrabLocal())
	}
}

// resize re-measures the content and re-applies placement.
func (s *Splash) resize() {
	floor := placement.MinSize(s.title != nil, s.progress != nil)
	g := s.cfg.Placement.Resolve(s.win.RequestedSize(), s.win.ScreenSize(), floor, s.logger)
	if err := s.win.SetGeometry(g); err != nil {
		s.logger.Warn("failed to set geometry", "geometry", g.String(), "error", err)
		return
	}
	s.geometry = g
}

func (s *Splash) hover(inside bool) {
	if s.closeBtn == nil || s.closeBtn.Destroyed() || !s.IsShown() {
		return
	}
	bg, width := s.bg.Get(), closeLineWidth
	if inside {
		bg, width = style.Lighten(s.tk.Colors(), bg, hoverLighten), closeLineWidthHover
	}
	s.softly("close button background", s.closeBtn.SetBackground(bg))
	s.softly("close button line width", s.closeBtn.SetLineWidth(width))
}

// checkShown returns a StateError unless the splash is shown.
func (s *Splash) checkShown(op string) error {
	if st := s.State(); st != StateShown {
		return &StateError{Op: op, State: st}
	}
	return nil
}

// dispatch applies fn now in standalone mode, or queues it on the parent
// when attached. Queued work is dropped if the splash closed in between.
func (s *Splash) dispatch(op string, fn func()) {
	if !s.attached {
		fn()
		return
	}
	s.queue.After(0, func() {
		if !s.IsShown() {
			s.logger.Debug("dropping queued update, splash closed", "op", op)
			return
		}
		fn()
	})
}

// Schedule runs fn on the active dispatch queue after delay.
func (s *Splash) Schedule(delay time.Duration, fn func()) (Timer, error) {
	if err := s.checkShown("schedule"); err != nil {
		return nil, err
	}
	return s.queue.After(delay, fn), nil
}

// UpdateMessage replaces the message, or appends to it, and re-places the window.
func (s *Splash) UpdateMessage(text string, appendText bool) error {
	if err := s.checkShown("update message"); err != nil {
		return err
	}
	s.dispatch("update message", func() {
		if s.message.Destroyed() {
			s.logger.Warn("message label destroyed, skipping update")
			return
		}
		next := text
		if appendText {
			next = s.message.Text() + text
		}
		if err := s.message.SetText(next); err != nil {
			s.logger.Warn("error updating message", "error", err)
			return
		}
		s.resize()
	})
	return nil
}

// UpdateColor changes the background of the window and every element on it.
// An invalid color keeps the current one.
func (s *Splash) UpdateColor(c style.Color) error {
	if err := s.checkShown("update color"); err != nil {
		return err
	}
	color := style.NormalizeColor(s.tk.Colors(), c, s.bg.Get(), s.logger)
	s.dispatch("update color", func() {
		s.bg.Set(color)
	})
	return nil
}

// StepProgress advances the progress bar by amount. The result stays in
// [0, max-ProgressEpsilon]; non-finite amounts are ignored.
func (s *Splash) StepProgress(amount float64) error {
	if err := s.checkShown("step progress"); err != nil {
		return err
	}
	if s.progress == nil {
		s.logger.Warn("no progress bar configured")
		return nil
	}
	if !finite(amount) {
		s.logger.Warn("ignoring non-finite progress step", "amount", amount)
		return nil
	}
	maximum := s.progress.Max()
	next := s.progress.Value() + amount
	if next >= maximum {
		next = maximum - ProgressEpsilon
	}
	next = max(0, next)
	s.softly("step progress", s.progress.SetValue(next))
	return nil
}

// SetProgress sets the progress value, clamped to [0, max-ProgressEpsilon].
// Non-finite values are ignored.
func (s *Splash) SetProgress(value float64) error {
	if err := s.checkShown("set progress"); err != nil {
		return err
	}
	if s.progress == nil {
		s.logger.Warn("no progress bar configured")
		return nil
	}
	if !finite(value) {
		s.logger.Warn("ignoring non-finite progress value", "value", value)
		return nil
	}
	value = max(0, min(value, s.progress.Max()-ProgressEpsilon))
	s.softly("set progress", s.progress.SetValue(value))
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Close tears the splash down now. It does nothing unless the splash is shown.
func (s *Splash) Close() {
	s.CloseAfter(0)
}

// CloseAfter tears the splash down after delay on the active dispatch queue.
func (s *Splash) CloseAfter(delay time.Duration) {
	if !s.IsShown() {
		return
	}
	if delay > 0 {
		s.queue.After(delay, s.teardown)
		return
	}
	s.teardown()
}

// teardown runs each step independently; a failing step never stops the next.
func (s *Splash) teardown() {
	if !s.state.CompareAndSwap(int32(StateShown), int32(StateClosed)) {
		return
	}
	s.logger.Debug("closing splash")

	if s.autoClose != nil {
		s.autoClose.Cancel()
		s.autoClose = nil
	}
	if s.progress != nil {
		s.softly("stop progress", s.progress.Stop())
	}
	if s.blocking {
		s.softly("enable parent input", s.cfg.Parent.SetInputEnabled(true))
		s.softly("restore parent", s.cfg.Parent.Restore())
	}
	if s.top != nil {
		s.top.Quit()
	}
	s.softly("destroy window", s.win.Destroy())

	if s.onClosed != nil {
		s.onClosed(s)
	}
}

// softly logs a toolkit error that must not interrupt the caller.
func (s *Splash) softly(step string, err error) {
	if err != nil {
		s.logger.Warn("splash toolkit step failed", "step", step, "error", err)
	}
}
