// Package gtkui renders splash windows with GTK4. On Wayland compositors
// that support wlr-layer-shell, windows are placed on the overlay layer at
// exact coordinates; elsewhere the window manager decides the position.
package gtkui

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"unsafe"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	coreglib "github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/splash/internal/placement"
	"github.com/jmylchreest/splash/internal/splash"
	"github.com/jmylchreest/splash/internal/style"
	"github.com/jmylchreest/splash/internal/theme"
)

// fallbackScreen is used when no monitor can be queried.
var fallbackScreen = placement.Size{Width: 1920, Height: 1080}

var windowSeq atomic.Uint64

// Toolkit implements splash.Toolkit on GTK4.
type Toolkit struct {
	app        *gtk.Application
	logger     *slog.Logger
	display    *gdk.Display
	provider   *gtk.CSSProvider
	loop       *glib.MainLoop
	layerShell bool
	hosts      hostCache[uintptr, *window]
}

// New creates a toolkit hosted by app. Windows join the application and the
// application's active window is the default root. Must be called from the
// activate handler.
func New(app *gtk.Application, th *theme.Theme, logger *slog.Logger) *Toolkit {
	if logger == nil {
		logger = slog.Default()
	}
	tk := &Toolkit{
		app:        app,
		logger:     logger,
		display:    gdk.DisplayGetDefault(),
		provider:   gtk.NewCSSProvider(),
		layerShell: layershell.IsSupported(),
	}
	tk.applyTheme(th)
	return tk
}

// NewStandalone initializes GTK and creates a toolkit that runs its own
// main loop. The caller must stay on the OS thread it was called from.
func NewStandalone(th *theme.Theme, logger *slog.Logger) (*Toolkit, error) {
	gtk.Init()
	if gdk.DisplayGetDefault() == nil {
		return nil, fmt.Errorf("no display available")
	}
	tk := New(nil, th, logger)
	tk.loop = glib.NewMainLoop(nil, false)
	return tk, nil
}

func (tk *Toolkit) applyTheme(th *theme.Theme) {
	if tk.display == nil {
		tk.logger.Warn("no display available, cannot apply theme")
		return
	}
	if th != nil {
		tk.provider.LoadFromString(th.CSS)
		tk.logger.Debug("applied theme to display", "name", th.Name)
	}
	gtk.StyleContextAddProviderForDisplay(tk.display, tk.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
}

// SetThemeCSS replaces the display-wide theme, used for hot reload.
func (tk *Toolkit) SetThemeCSS(css string) {
	tk.provider.LoadFromString(css)
}

// WatchTheme reapplies th whenever its file changes on disk. The returned
// watcher must be stopped by the caller.
func (tk *Toolkit) WatchTheme(th *theme.Theme) (*theme.Watcher, error) {
	w := theme.NewWatcher(th, tk.logger)
	w.SetChangeCallback(func(css string) {
		glib.IdleAdd(func() { tk.SetThemeCSS(css) })
	})
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

// LayerShell reports whether windows can be placed at absolute coordinates.
func (tk *Toolkit) LayerShell() bool {
	return tk.layerShell
}

// DefaultRoot returns the application's active window, if any.
func (tk *Toolkit) DefaultRoot() (splash.Window, bool) {
	if tk.app == nil {
		return nil, false
	}
	active := tk.app.ActiveWindow()
	if active == nil {
		return nil, false
	}
	return tk.Wrap(active), true
}

// Wrap adapts an existing GTK window so it can parent a splash. Wrapping
// the same native window again returns the same value; gotk4 hands out a
// fresh Go wrapper on every lookup, so the cache is keyed by the GObject.
func (tk *Toolkit) Wrap(win *gtk.Window) splash.Window {
	key := win.Native()
	w, created := tk.hosts.get(key, func() *window {
		return &window{tk: tk, win: win, foreign: true}
	})
	if created {
		win.ConnectDestroy(func() {
			w.destroyed = true
			tk.hosts.drop(key)
		})
	}
	return w
}

// NewTopLevel creates a splash window that owns the main loop.
func (tk *Toolkit) NewTopLevel() (splash.TopLevel, error) {
	return tk.newWindow(nil), nil
}

// NewChild creates a splash window tied to parent.
func (tk *Toolkit) NewChild(parent splash.Window) (splash.Window, error) {
	p, ok := parent.(*window)
	if !ok {
		return nil, fmt.Errorf("parent is not a GTK window: %T", parent)
	}
	return tk.newWindow(p), nil
}

// Colors returns the GTK color table.
func (tk *Toolkit) Colors() style.ColorTable {
	return gdkColors{}
}

// Post runs fn on the GTK main thread.
func (tk *Toolkit) Post(fn func()) {
	glib.IdleAdd(fn)
}

func (tk *Toolkit) newWindow(parent *window) *window {
	w := &window{
		tk:    tk,
		win:   gtk.NewWindow(),
		class: fmt.Sprintf("splash-%d", windowSeq.Add(1)),
		css:   gtk.NewCSSProvider(),
		font:  style.DefaultFont,
		fg:    style.DefaultForeground,
		bg:    style.DefaultBackground,
	}
	if tk.app != nil {
		w.win.SetApplication(tk.app)
	}
	if parent != nil {
		w.win.SetTransientFor(parent.win)
		w.win.SetDestroyWithParent(true)
	}

	w.box = gtk.NewBox(gtk.OrientationVertical, 0)
	w.box.AddCSSClass("splash-content")
	w.header = gtk.NewBox(gtk.OrientationHorizontal, 0)
	w.box.Append(w.header)
	w.win.SetChild(w.box)
	w.win.AddCSSClass("splash-window")
	w.win.AddCSSClass(w.class)

	if tk.display != nil {
		gtk.StyleContextAddProviderForDisplay(tk.display, w.css, gtk.STYLE_PROVIDER_PRIORITY_USER)
	}
	w.win.ConnectDestroy(func() {
		w.destroyed = true
		if tk.display != nil {
			gtk.StyleContextRemoveProviderForDisplay(tk.display, w.css)
		}
	})
	return w
}

// screenSize returns the size of the first monitor.
func (tk *Toolkit) screenSize() placement.Size {
	if tk.display == nil {
		return fallbackScreen
	}
	monitor := primaryMonitor(tk.display)
	if monitor == nil {
		return fallbackScreen
	}
	rect := monitor.Geometry()
	if rect == nil || rect.Width() <= 0 || rect.Height() <= 0 {
		return fallbackScreen
	}
	return placement.Size{Width: rect.Width(), Height: rect.Height()}
}

// primaryMonitor returns the first monitor; GTK4 has no primary monitor concept.
func primaryMonitor(display *gdk.Display) *gdk.Monitor {
	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return nil
	}
	return wrapMonitor(monitors.Item(0))
}

// wrapMonitor wraps a list item as a gdk.Monitor.
// gotk4 does not export its own wrapper for list model items.
func wrapMonitor(obj *coreglib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*coreglib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// gdkColors resolves colors with gdk_rgba_parse.
type gdkColors struct{}

func (gdkColors) Lookup(spec string) (style.RGB, bool) {
	rgba := gdk.NewRGBA(0, 0, 0, 0)
	if !rgba.Parse(spec) {
		return style.RGB{}, false
	}
	return style.RGB{R: toByte(rgba.Red()), G: toByte(rgba.Green()), B: toByte(rgba.Blue())}, true
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
