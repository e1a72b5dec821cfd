package splash

import (
	"time"

	"github.com/jmylchreest/splash/internal/placement"
	"github.com/jmylchreest/splash/internal/style"
)

// Toolkit is the GUI layer a splash is built on. All methods except Post
// must be called on the toolkit's UI thread.
type Toolkit interface {
	// DefaultRoot returns the application's existing top-level window, if any.
	// A standalone splash attaches to it instead of starting a second loop.
	DefaultRoot() (Window, bool)
	// NewTopLevel creates a window that owns its own event loop.
	NewTopLevel() (TopLevel, error)
	// NewChild creates a window whose lifetime is bounded by parent.
	NewChild(parent Window) (Window, error)
	// Colors is the toolkit's authoritative color table.
	Colors() style.ColorTable
	// Post runs fn on the UI thread. Safe from any goroutine.
	Post(fn func())
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	Cancel()
}

// Window is a toolkit window able to host splash content.
type Window interface {
	// After schedules fn on this window's callback queue.
	After(d time.Duration, fn func()) Timer

	// SetOverlay makes the window borderless and keeps it above others.
	SetOverlay() error
	AddTitle(text string, font style.Font, fg, bg string) (Label, error)
	AddMessage(text string, font style.Font, fg, bg string, wrapWidth int) (Label, error)
	AddProgress(max float64, indeterminate bool) (ProgressBar, error)
	AddCloseButton(fg, bg string, onClick func(), onHover func(inside bool)) (CloseButton, error)
	SetBackground(color string) error

	// RequestedSize is the natural size of the current content.
	RequestedSize() placement.Size
	ScreenSize() placement.Size
	SetGeometry(g placement.Geometry) error

	SetTransientFor(parent Window) error
	Raise() error
	SetInputEnabled(enabled bool) error
	GrabGlobal() error
	GrabLocal() error
	// OnDeleteRequest replaces the default close-box behavior.
	OnDeleteRequest(fn func())
	// Restore un-minimizes the window.
	Restore() error
	Present() error
	Destroy() error
	Destroyed() bool
}

// TopLevel is a window that owns the event loop.
type TopLevel interface {
	Window
	// Run blocks dispatching events until Quit is called.
	Run()
	Quit()
}

// Label is a text widget.
type Label interface {
	Text() string
	SetText(text string) error
	SetBackground(color string) error
	Destroyed() bool
}

// ProgressBar is a determinate or pulsing progress widget.
type ProgressBar interface {
	Value() float64
	SetValue(v float64) error
	Max() float64
	Start() error
	Stop() error
}

// CloseButton is the drawn cross in the top right corner.
type CloseButton interface {
	SetBackground(color string) error
	SetLineWidth(width int) error
	Destroyed() bool
}
