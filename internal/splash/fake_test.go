package splash

import (
	"errors"
	"sort"
	"time"

	"github.com/jmylchreest/splash/internal/placement"
	"github.com/jmylchreest/splash/internal/style"
)

// fakeClock is a manual timer queue shared by every fake window.
type fakeClock struct {
	now   time.Duration
	seq   int
	tasks []*fakeTimer
}

type fakeTimer struct {
	clock     *fakeClock
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
	owner     *fakeWindow
}

func (t *fakeTimer) Cancel() { t.cancelled = true }

func (c *fakeClock) after(owner *fakeWindow, d time.Duration, fn func()) *fakeTimer {
	c.seq++
	t := &fakeTimer{clock: c, at: c.now + d, seq: c.seq, fn: fn, owner: owner}
	c.tasks = append(c.tasks, t)
	return t
}

// Advance runs every due task in time order. Tasks owned by destroyed
// windows are dropped, like a real toolkit.
func (c *fakeClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		sort.SliceStable(c.tasks, func(i, j int) bool {
			if c.tasks[i].at == c.tasks[j].at {
				return c.tasks[i].seq < c.tasks[j].seq
			}
			return c.tasks[i].at < c.tasks[j].at
		})
		if len(c.tasks) == 0 || c.tasks[0].at > target {
			break
		}
		t := c.tasks[0]
		c.tasks = c.tasks[1:]
		c.now = t.at
		if t.cancelled || t.owner.destroyed {
			continue
		}
		t.fn()
	}
	c.now = target
}

// Flush runs everything due now.
func (c *fakeClock) Flush() { c.Advance(0) }

type fakeToolkit struct {
	clock   *fakeClock
	root    *fakeWindow
	screen  placement.Size
	windows []*fakeWindow
	failNew bool
	posted  int
	// denyGlobalGrab makes every GrabGlobal fail.
	denyGlobalGrab bool
}

func newFakeToolkit() *fakeToolkit {
	return &fakeToolkit{clock: &fakeClock{}, screen: placement.Size{Width: 1920, Height: 1080}}
}

func (tk *fakeToolkit) newWindow(parent *fakeWindow) *fakeWindow {
	w := &fakeWindow{tk: tk, parent: parent, inputEnabled: true, natural: placement.Size{Width: 300, Height: 80}}
	tk.windows = append(tk.windows, w)
	return w
}

func (tk *fakeToolkit) DefaultRoot() (Window, bool) {
	if tk.root == nil {
		return nil, false
	}
	return tk.root, true
}

func (tk *fakeToolkit) NewTopLevel() (TopLevel, error) {
	if tk.failNew {
		return nil, errors.New("no display")
	}
	return tk.newWindow(nil), nil
}

func (tk *fakeToolkit) NewChild(parent Window) (Window, error) {
	if tk.failNew {
		return nil, errors.New("no display")
	}
	return tk.newWindow(parent.(*fakeWindow)), nil
}

func (tk *fakeToolkit) Colors() style.ColorTable { return style.StandardColors }

func (tk *fakeToolkit) Post(fn func()) {
	tk.posted++
	fn()
}

type fakeWindow struct {
	tk     *fakeToolkit
	parent *fakeWindow

	overlay      bool
	background   string
	geometry     placement.Geometry
	natural      placement.Size
	transient    Window
	raised       bool
	inputEnabled bool
	restored     bool
	presented    bool
	grab         string
	failDestroy  bool
	onDelete     func()
	destroyed    bool
	destroyCount int

	running   bool
	quitCount int

	title    *fakeLabel
	message  *fakeLabel
	progress *fakeProgress
	closeBtn *fakeCloseButton
}

func (w *fakeWindow) After(d time.Duration, fn func()) Timer {
	return w.tk.clock.after(w, d, fn)
}

func (w *fakeWindow) SetOverlay() error { w.overlay = true; return nil }

func (w *fakeWindow) AddTitle(text string, font style.Font, fg, bg string) (Label, error) {
	w.title = &fakeLabel{text: text, font: font, fg: fg, bg: bg, win: w}
	return w.title, nil
}

func (w *fakeWindow) AddMessage(text string, font style.Font, fg, bg string, wrap int) (Label, error) {
	w.message = &fakeLabel{text: text, font: font, fg: fg, bg: bg, wrap: wrap, win: w}
	return w.message, nil
}

func (w *fakeWindow) AddProgress(max float64, indeterminate bool) (ProgressBar, error) {
	w.progress = &fakeProgress{max: max, indeterminate: indeterminate}
	return w.progress, nil
}

func (w *fakeWindow) AddCloseButton(fg, bg string, onClick func(), onHover func(bool)) (CloseButton, error) {
	w.closeBtn = &fakeCloseButton{bg: bg, lineWidth: 2, onClick: onClick, onHover: onHover, win: w}
	return w.closeBtn, nil
}

func (w *fakeWindow) SetBackground(color string) error { w.background = color; return nil }

// RequestedSize grows with the message length to exercise re-placement.
func (w *fakeWindow) RequestedSize() placement.Size {
	s := w.natural
	if w.message != nil {
		s.Width = max(s.Width, len(w.message.text)*8)
	}
	return s
}

func (w *fakeWindow) ScreenSize() placement.Size { return w.tk.screen }

func (w *fakeWindow) SetGeometry(g placement.Geometry) error { w.geometry = g; return nil }

func (w *fakeWindow) SetTransientFor(parent Window) error { w.transient = parent; return nil }
func (w *fakeWindow) Raise() error                        { w.raised = true; return nil }
func (w *fakeWindow) SetInputEnabled(enabled bool) error  { w.inputEnabled = enabled; return nil }

func (w *fakeWindow) GrabGlobal() error {
	if w.tk.denyGlobalGrab {
		return errors.New("global grab not permitted")
	}
	w.grab = "global"
	return nil
}

func (w *fakeWindow) GrabLocal() error { w.grab = "local"; return nil }

func (w *fakeWindow) OnDeleteRequest(fn func()) { w.onDelete = fn }
func (w *fakeWindow) Restore() error            { w.restored = true; return nil }
func (w *fakeWindow) Present() error            { w.presented = true; return nil }

func (w *fakeWindow) Destroy() error {
	w.destroyCount++
	if w.failDestroy {
		return errors.New("destroy failed")
	}
	w.destroyed = true
	return nil
}

func (w *fakeWindow) Destroyed() bool { return w.destroyed }

func (w *fakeWindow) Run()  { w.running = true }
func (w *fakeWindow) Quit() { w.running = false; w.quitCount++ }

type fakeLabel struct {
	text string
	font style.Font
	fg   string
	bg   string
	wrap int
	win  *fakeWindow
}

func (l *fakeLabel) Text() string                 { return l.text }
func (l *fakeLabel) SetText(text string) error    { l.text = text; return nil }
func (l *fakeLabel) SetBackground(c string) error { l.bg = c; return nil }
func (l *fakeLabel) Destroyed() bool              { return l.win.destroyed }

type fakeProgress struct {
	value         float64
	max           float64
	indeterminate bool
	running       bool
	stopped       bool
	history       []float64
}

func (p *fakeProgress) Value() float64 { return p.value }
func (p *fakeProgress) SetValue(v float64) error {
	p.value = v
	p.history = append(p.history, v)
	return nil
}
func (p *fakeProgress) Max() float64 { return p.max }
func (p *fakeProgress) Start() error { p.running = true; return nil }
func (p *fakeProgress) Stop() error  { p.running = false; p.stopped = true; return nil }

type fakeCloseButton struct {
	bg        string
	lineWidth int
	onClick   func()
	onHover   func(bool)
	win       *fakeWindow
}

func (b *fakeCloseButton) SetBackground(c string) error { b.bg = c; return nil }
func (b *fakeCloseButton) SetLineWidth(w int) error     { b.lineWidth = w; return nil }
func (b *fakeCloseButton) Destroyed() bool              { return b.win.destroyed }
