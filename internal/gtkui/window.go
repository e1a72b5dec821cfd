package gtkui

import (
	"errors"
	"fmt"
	"time"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/splash/internal/placement"
	"github.com/jmylchreest/splash/internal/splash"
	"github.com/jmylchreest/splash/internal/style"
	"github.com/jmylchreest/splash/internal/theme"
)

// ErrGrabUnsupported is returned by GrabGlobal when the compositor cannot
// hand out exclusive keyboard focus.
var ErrGrabUnsupported = errors.New("global grab not supported")

// namespace identifies splash surfaces to the compositor.
const namespace = "splash"

type window struct {
	tk     *Toolkit
	win    *gtk.Window
	box    *gtk.Box
	header *gtk.Box
	css    *gtk.CSSProvider
	class  string

	font style.Font
	fg   string
	bg   string

	layered   bool
	foreign   bool
	destroyed bool
}

func (w *window) After(d time.Duration, fn func()) splash.Timer {
	t := &timer{}
	run := func() bool {
		t.fired = true
		if !w.destroyed {
			fn()
		}
		return false
	}
	if d <= 0 {
		t.handle = glib.IdleAdd(run)
	} else {
		t.handle = glib.TimeoutAdd(uint(d/time.Millisecond), run)
	}
	return t
}

func (w *window) SetOverlay() error {
	w.win.SetDecorated(false)
	w.win.SetResizable(false)
	if !w.tk.layerShell {
		return nil
	}

	layershell.InitForWindow(w.win)
	layershell.SetLayer(w.win, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(w.win, 0)
	layershell.SetKeyboardMode(w.win, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(w.win, namespace)
	w.layered = true
	return nil
}

func (w *window) AddTitle(text string, font style.Font, fg, bg string) (splash.Label, error) {
	if w.foreign {
		return nil, fmt.Errorf("cannot add a title to a host window")
	}
	lbl := gtk.NewLabel(text)
	lbl.AddCSSClass("splash-title")
	lbl.SetXAlign(0)
	lbl.SetHExpand(true)
	w.header.Prepend(lbl)
	w.restyle(font, fg, bg)
	return &label{w: w, lbl: lbl}, nil
}

func (w *window) AddMessage(text string, font style.Font, fg, bg string, wrapWidth int) (splash.Label, error) {
	if w.foreign {
		return nil, fmt.Errorf("cannot add a message to a host window")
	}
	lbl := gtk.NewLabel(text)
	lbl.AddCSSClass("splash-message")
	lbl.SetWrap(true)
	lbl.SetMaxWidthChars(wrapChars(wrapWidth, font.Size))
	lbl.SetXAlign(0)
	lbl.SetVExpand(true)
	w.box.Append(lbl)
	w.restyle(font, fg, bg)
	return &label{w: w, lbl: lbl}, nil
}

func (w *window) AddProgress(max float64, indeterminate bool) (splash.ProgressBar, error) {
	if w.foreign {
		return nil, fmt.Errorf("cannot add progress to a host window")
	}
	bar := gtk.NewProgressBar()
	bar.AddCSSClass("splash-progress")
	bar.SetFraction(0)
	w.box.Append(bar)
	return &progress{bar: bar, max: max, indeterminate: indeterminate}, nil
}

func (w *window) AddCloseButton(fg, bg string, onClick func(), onHover func(inside bool)) (splash.CloseButton, error) {
	if w.foreign {
		return nil, fmt.Errorf("cannot add a close button to a host window")
	}
	btn := newCloseButton(w, fg, bg)

	click := gtk.NewGestureClick()
	click.SetButton(1)
	click.ConnectReleased(func(nPress int, x, y float64) {
		if onClick != nil {
			onClick()
		}
	})
	btn.area.AddController(click)

	motion := gtk.NewEventControllerMotion()
	motion.ConnectEnter(func(x, y float64) {
		if onHover != nil {
			onHover(true)
		}
	})
	motion.ConnectLeave(func() {
		if onHover != nil {
			onHover(false)
		}
	})
	btn.area.AddController(motion)

	w.header.Append(btn.area)
	return btn, nil
}

func (w *window) SetBackground(color string) error {
	if w.foreign {
		return nil
	}
	w.bg = color
	w.reloadCSS()
	return nil
}

func (w *window) restyle(font style.Font, fg, bg string) {
	w.font = font
	w.fg = fg
	w.bg = bg
	w.reloadCSS()
}

func (w *window) reloadCSS() {
	w.css.LoadFromString(theme.Stylesheet(w.class, w.font, w.fg, w.bg))
}

func (w *window) RequestedSize() placement.Size {
	if w.box == nil {
		return placement.Size{}
	}
	_, width, _, _ := w.box.Measure(gtk.OrientationHorizontal, -1)
	_, height, _, _ := w.box.Measure(gtk.OrientationVertical, width)
	return placement.Size{Width: width, Height: height}
}

func (w *window) ScreenSize() placement.Size {
	return w.tk.screenSize()
}

func (w *window) SetGeometry(g placement.Geometry) error {
	w.win.SetDefaultSize(g.Width, g.Height)
	w.win.SetSizeRequest(g.Width, g.Height)
	if !w.layered {
		w.tk.logger.Debug("compositor cannot place windows, position left to the window manager", "geometry", g.String())
		return nil
	}

	layershell.SetAnchor(w.win, layershell.LayerShellEdgeTop, true)
	layershell.SetAnchor(w.win, layershell.LayerShellEdgeLeft, true)
	layershell.SetAnchor(w.win, layershell.LayerShellEdgeBottom, false)
	layershell.SetAnchor(w.win, layershell.LayerShellEdgeRight, false)
	layershell.SetMargin(w.win, layershell.LayerShellEdgeTop, g.Y)
	layershell.SetMargin(w.win, layershell.LayerShellEdgeLeft, g.X)
	if monitor := primaryMonitor(w.tk.display); monitor != nil {
		layershell.SetMonitor(w.win, monitor)
	}
	return nil
}

func (w *window) SetTransientFor(parent splash.Window) error {
	p, ok := parent.(*window)
	if !ok {
		return fmt.Errorf("parent is not a GTK window: %T", parent)
	}
	w.win.SetTransientFor(p.win)
	return nil
}

func (w *window) Raise() error {
	w.win.Present()
	return nil
}

func (w *window) SetInputEnabled(enabled bool) error {
	w.win.SetSensitive(enabled)
	return nil
}

func (w *window) GrabGlobal() error {
	if !w.layered {
		return ErrGrabUnsupported
	}
	layershell.SetKeyboardMode(w.win, layershell.LayerShellKeyboardModeExclusive)
	return nil
}

func (w *window) GrabLocal() error {
	w.win.SetModal(true)
	return nil
}

func (w *window) OnDeleteRequest(fn func()) {
	w.win.ConnectCloseRequest(func() bool {
		fn()
		return true
	})
}

func (w *window) Restore() error {
	w.win.Unminimize()
	return nil
}

func (w *window) Present() error {
	w.win.Present()
	return nil
}

func (w *window) Destroy() error {
	if w.destroyed {
		return nil
	}
	w.destroyed = true
	w.win.Destroy()
	return nil
}

func (w *window) Destroyed() bool {
	return w.destroyed
}

// Run blocks on the standalone main loop. Hosted toolkits return at once
// since the application owns the loop.
func (w *window) Run() {
	if w.tk.loop == nil {
		return
	}
	w.tk.loop.Run()
}

func (w *window) Quit() {
	if w.tk.loop != nil && w.tk.loop.IsRunning() {
		w.tk.loop.Quit()
	}
}

// wrapChars converts a wrap width in pixels to a character count for a
// font of size points at 96 dpi, assuming an average glyph of 0.55em.
func wrapChars(px, size int) int {
	if size <= 0 {
		size = style.DefaultFont.Size
	}
	glyph := float64(size) * 96 / 72 * 0.55
	chars := int(float64(px) / glyph)
	if chars < 10 {
		return 10
	}
	return chars
}
