package termui

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/jmylchreest/splash/internal/placement"
	"github.com/jmylchreest/splash/internal/splash"
	"github.com/jmylchreest/splash/internal/style"
)

// ErrGrabUnsupported is returned by GrabGlobal; a terminal has no global input.
var ErrGrabUnsupported = errors.New("global grab not supported in a terminal")

const pulseInterval = 100 * time.Millisecond

type window struct {
	tk     *Toolkit
	id     int
	top    bool
	parent *window

	title    *label
	message  *label
	progress *progressBar
	closeBtn *closeButton

	font     style.Font
	fg       string
	bg       string
	wrapCols int

	geometry     placement.Geometry
	placed       bool
	presented    bool
	overlay      bool
	inputEnabled bool
	modal        bool
	destroyed    bool
	onDelete     func()
}

func (w *window) After(d time.Duration, fn func()) splash.Timer {
	t := &timer{}
	run := func() {
		if t.canceled.Load() || w.destroyed {
			return
		}
		fn()
	}
	if d <= 0 {
		w.tk.Post(run)
		return t
	}
	t.t = time.AfterFunc(d, func() { w.tk.Post(run) })
	return t
}

func (w *window) SetOverlay() error {
	w.overlay = true
	return nil
}

func (w *window) AddTitle(text string, font style.Font, fg, bg string) (splash.Label, error) {
	w.title = &label{w: w, text: text}
	w.restyle(font, fg, bg)
	return w.title, nil
}

func (w *window) AddMessage(text string, font style.Font, fg, bg string, wrapWidth int) (splash.Label, error) {
	w.message = &label{w: w, text: text}
	w.wrapCols = max(10, wrapWidth/CellWidth)
	w.restyle(font, fg, bg)
	return w.message, nil
}

func (w *window) AddProgress(maximum float64, indeterminate bool) (splash.ProgressBar, error) {
	w.progress = &progressBar{
		w:             w,
		max:           maximum,
		indeterminate: indeterminate,
		bar:           progress.New(progress.WithoutPercentage()),
	}
	return w.progress, nil
}

func (w *window) AddCloseButton(fg, bg string, onClick func(), onHover func(inside bool)) (splash.CloseButton, error) {
	w.closeBtn = &closeButton{w: w, bg: bg, width: 2, onClick: onClick, onHover: onHover}
	return w.closeBtn, nil
}

func (w *window) restyle(font style.Font, fg, bg string) {
	w.font, w.fg, w.bg = font, fg, bg
}

func (w *window) SetBackground(color string) error {
	w.bg = color
	return nil
}

func (w *window) RequestedSize() placement.Size {
	cols, rows := w.tk.model.measure(w)
	return placement.Size{Width: cols * CellWidth, Height: rows * CellHeight}
}

func (w *window) ScreenSize() placement.Size {
	return w.tk.screenSize()
}

func (w *window) SetGeometry(g placement.Geometry) error {
	w.geometry = g
	w.placed = true
	return nil
}

func (w *window) SetTransientFor(parent splash.Window) error {
	if p, ok := parent.(*window); ok {
		w.parent = p
	}
	return nil
}

// Raise moves the window to the top of the stack.
func (w *window) Raise() error {
	w.tk.model.raise(w)
	return nil
}

func (w *window) SetInputEnabled(enabled bool) error {
	w.inputEnabled = enabled
	return nil
}

func (w *window) GrabGlobal() error {
	return ErrGrabUnsupported
}

func (w *window) GrabLocal() error {
	w.modal = true
	return nil
}

func (w *window) OnDeleteRequest(fn func()) {
	w.onDelete = fn
}

func (w *window) Restore() error {
	return nil
}

func (w *window) Present() error {
	w.presented = true
	return nil
}

func (w *window) Destroy() error {
	if w.destroyed {
		return nil
	}
	w.destroyed = true
	if w.progress != nil {
		_ = w.progress.Stop()
	}
	w.tk.model.remove(w)
	return nil
}

func (w *window) Destroyed() bool {
	return w.destroyed
}

func (w *window) Run() {
	w.tk.run()
}

func (w *window) Quit() {
	w.tk.model.quitting = true
}

// requestClose runs the delete handler, or destroys the window without one.
func (w *window) requestClose() {
	if w.onDelete != nil {
		w.onDelete()
		return
	}
	_ = w.Destroy()
}

type timer struct {
	t        *time.Timer
	canceled atomic.Bool
}

func (t *timer) Cancel() {
	t.canceled.Store(true)
	if t.t != nil {
		t.t.Stop()
	}
}

type label struct {
	w    *window
	text string
}

func (l *label) Text() string { return l.text }

func (l *label) SetText(text string) error {
	l.text = text
	return nil
}

func (l *label) SetBackground(color string) error {
	return l.w.SetBackground(color)
}

func (l *label) Destroyed() bool { return l.w.destroyed }

type progressBar struct {
	w             *window
	bar           progress.Model
	max           float64
	value         float64
	indeterminate bool
	pos           int
	done          chan struct{}
}

func (p *progressBar) Value() float64 { return p.value }
func (p *progressBar) Max() float64   { return p.max }

func (p *progressBar) SetValue(v float64) error {
	p.value = max(0, min(v, p.max))
	return nil
}

// Start animates an indeterminate bar.
func (p *progressBar) Start() error {
	if !p.indeterminate || p.done != nil {
		return nil
	}
	done := make(chan struct{})
	p.done = done
	go func() {
		ticker := time.NewTicker(pulseInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p.w.tk.send(pulseMsg{})
			}
		}
	}()
	return nil
}

func (p *progressBar) Stop() error {
	if p.done != nil {
		close(p.done)
		p.done = nil
	}
	return nil
}

func (p *progressBar) fraction() float64 {
	if p.max <= 0 {
		return 0
	}
	return p.value / p.max
}

type closeButton struct {
	w       *window
	bg      string
	width   int
	hovered bool
	onClick func()
	onHover func(inside bool)
}

func (b *closeButton) SetBackground(color string) error {
	b.bg = color
	return nil
}

func (b *closeButton) SetLineWidth(width int) error {
	b.width = width
	return nil
}

func (b *closeButton) Destroyed() bool { return b.w.destroyed }

func (b *closeButton) hover(inside bool) {
	if inside == b.hovered {
		return
	}
	b.hovered = inside
	if b.onHover != nil {
		b.onHover(inside)
	}
}
