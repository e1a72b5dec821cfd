package scenario

import (
	"sort"
	"time"

	"github.com/jmylchreest/splash/internal/placement"
	"github.com/jmylchreest/splash/internal/splash"
	"github.com/jmylchreest/splash/internal/style"
)

// fakeToolkit runs timers from a manual queue. Run on a top-level drains
// the queue in time order until Quit, standing in for an event loop.
type fakeToolkit struct {
	now     time.Duration
	seq     int
	tasks   []*fakeTimer
	windows []*fakeWindow
	log     []string
}

type fakeTimer struct {
	at       time.Duration
	seq      int
	fn       func()
	canceled bool
	owner    *fakeWindow
}

func (t *fakeTimer) Cancel() { t.canceled = true }

func (tk *fakeToolkit) after(owner *fakeWindow, d time.Duration, fn func()) *fakeTimer {
	tk.seq++
	t := &fakeTimer{at: tk.now + d, seq: tk.seq, fn: fn, owner: owner}
	tk.tasks = append(tk.tasks, t)
	return t
}

// step runs the next task. It returns false when the queue is empty.
func (tk *fakeToolkit) step() bool {
	sort.SliceStable(tk.tasks, func(i, j int) bool {
		if tk.tasks[i].at == tk.tasks[j].at {
			return tk.tasks[i].seq < tk.tasks[j].seq
		}
		return tk.tasks[i].at < tk.tasks[j].at
	})
	if len(tk.tasks) == 0 {
		return false
	}
	t := tk.tasks[0]
	tk.tasks = tk.tasks[1:]
	tk.now = t.at
	if !t.canceled && (t.owner == nil || !t.owner.destroyed) {
		t.fn()
	}
	return true
}

func (tk *fakeToolkit) DefaultRoot() (splash.Window, bool) { return nil, false }

func (tk *fakeToolkit) NewTopLevel() (splash.TopLevel, error) {
	w := &fakeWindow{tk: tk}
	tk.windows = append(tk.windows, w)
	return w, nil
}

func (tk *fakeToolkit) NewChild(parent splash.Window) (splash.Window, error) {
	return tk.NewTopLevel()
}

func (tk *fakeToolkit) Colors() style.ColorTable { return style.StandardColors }

func (tk *fakeToolkit) Post(fn func()) { tk.after(nil, 0, fn) }

type fakeWindow struct {
	tk        *fakeToolkit
	message   *fakeLabel
	progress  *fakeProgress
	bg        string
	placement placement.Geometry
	destroyed bool
	quit      bool
}

func (w *fakeWindow) After(d time.Duration, fn func()) splash.Timer { return w.tk.after(w, d, fn) }
func (w *fakeWindow) SetOverlay() error                             { return nil }

func (w *fakeWindow) AddTitle(text string, font style.Font, fg, bg string) (splash.Label, error) {
	return &fakeLabel{w: w, text: text}, nil
}

func (w *fakeWindow) AddMessage(text string, font style.Font, fg, bg string, wrap int) (splash.Label, error) {
	w.message = &fakeLabel{w: w, text: text}
	return w.message, nil
}

func (w *fakeWindow) AddProgress(max float64, indeterminate bool) (splash.ProgressBar, error) {
	w.progress = &fakeProgress{max: max}
	return w.progress, nil
}

func (w *fakeWindow) AddCloseButton(fg, bg string, onClick func(), onHover func(bool)) (splash.CloseButton, error) {
	return &fakeCloseButton{w: w}, nil
}

func (w *fakeWindow) SetBackground(color string) error {
	if w.bg != color {
		w.tk.log = append(w.tk.log, "color "+color)
	}
	w.bg = color
	return nil
}

func (w *fakeWindow) RequestedSize() placement.Size { return placement.Size{Width: 300, Height: 80} }
func (w *fakeWindow) ScreenSize() placement.Size    { return placement.Size{Width: 1920, Height: 1080} }

func (w *fakeWindow) SetGeometry(g placement.Geometry) error {
	w.placement = g
	return nil
}

func (w *fakeWindow) SetTransientFor(splash.Window) error { return nil }
func (w *fakeWindow) Raise() error                        { return nil }
func (w *fakeWindow) SetInputEnabled(bool) error          { return nil }
func (w *fakeWindow) GrabGlobal() error                   { return nil }
func (w *fakeWindow) GrabLocal() error                    { return nil }
func (w *fakeWindow) OnDeleteRequest(func())              {}
func (w *fakeWindow) Restore() error                      { return nil }
func (w *fakeWindow) Present() error                      { return nil }

func (w *fakeWindow) Destroy() error {
	w.destroyed = true
	w.tk.log = append(w.tk.log, "destroy")
	return nil
}

func (w *fakeWindow) Destroyed() bool { return w.destroyed }

func (w *fakeWindow) Run() {
	w.quit = false
	for !w.quit && w.tk.step() {
	}
}

func (w *fakeWindow) Quit() { w.quit = true }

type fakeLabel struct {
	w    *fakeWindow
	text string
}

func (l *fakeLabel) Text() string { return l.text }

func (l *fakeLabel) SetText(text string) error {
	l.text = text
	l.w.tk.log = append(l.w.tk.log, "message "+text)
	return nil
}

func (l *fakeLabel) SetBackground(string) error { return nil }
func (l *fakeLabel) Destroyed() bool            { return l.w.destroyed }

type fakeProgress struct {
	value, max float64
}

func (p *fakeProgress) Value() float64 { return p.value }
func (p *fakeProgress) Max() float64   { return p.max }
func (p *fakeProgress) Start() error   { return nil }
func (p *fakeProgress) Stop() error    { return nil }

func (p *fakeProgress) SetValue(v float64) error {
	p.value = v
	return nil
}

type fakeCloseButton struct{ w *fakeWindow }

func (b *fakeCloseButton) SetBackground(string) error { return nil }
func (b *fakeCloseButton) SetLineWidth(int) error     { return nil }
func (b *fakeCloseButton) Destroyed() bool            { return b.w.destroyed }
