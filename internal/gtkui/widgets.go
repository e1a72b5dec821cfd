package gtkui

import (
	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

const (
	closeButtonSize = 20
	pulseInterval   = 100 // ms
)

type timer struct {
	handle   glib.SourceHandle
	fired    bool
	canceled bool
}

func (t *timer) Cancel() {
	if t.fired || t.canceled {
		return
	}
	t.canceled = true
	glib.SourceRemove(t.handle)
}

type label struct {
	w   *window
	lbl *gtk.Label
}

func (l *label) Text() string {
	return l.lbl.Text()
}

func (l *label) SetText(text string) error {
	l.lbl.SetText(text)
	return nil
}

// SetBackground recolors the whole window; labels share its stylesheet.
func (l *label) SetBackground(color string) error {
	return l.w.SetBackground(color)
}

func (l *label) Destroyed() bool {
	return l.w.destroyed
}

type progress struct {
	bar           *gtk.ProgressBar
	max           float64
	value         float64
	indeterminate bool
	pulse         glib.SourceHandle
	pulsing       bool
}

func (p *progress) Value() float64 { return p.value }
func (p *progress) Max() float64   { return p.max }

func (p *progress) SetValue(v float64) error {
	if v < 0 {
		v = 0
	}
	if v > p.max {
		v = p.max
	}
	p.value = v
	if p.max > 0 && !p.pulsing {
		p.bar.SetFraction(v / p.max)
	}
	return nil
}

func (p *progress) Start() error {
	if !p.indeterminate || p.pulsing {
		return nil
	}
	p.pulsing = true
	p.bar.SetPulseStep(0.05)
	p.pulse = glib.TimeoutAdd(pulseInterval, func() bool {
		if !p.pulsing {
			return false
		}
		p.bar.Pulse()
		return true
	})
	return nil
}

func (p *progress) Stop() error {
	if !p.pulsing {
		return nil
	}
	p.pulsing = false
	glib.SourceRemove(p.pulse)
	return nil
}

// closeButton is a cross drawn with cairo so its background can follow the
// hover color independently of the theme.
type closeButton struct {
	w     *window
	area  *gtk.DrawingArea
	fg    string
	bg    string
	width int
}

func newCloseButton(w *window, fg, bg string) *closeButton {
	b := &closeButton{
		w:     w,
		area:  gtk.NewDrawingArea(),
		fg:    fg,
		bg:    bg,
		width: 2,
	}
	b.area.AddCSSClass("splash-close")
	b.area.SetContentWidth(closeButtonSize)
	b.area.SetContentHeight(closeButtonSize)
	b.area.SetHAlign(gtk.AlignEnd)
	b.area.SetVAlign(gtk.AlignStart)
	b.area.SetDrawFunc(b.draw)
	return b
}

func (b *closeButton) draw(_ *gtk.DrawingArea, cr *cairo.Context, width, height int) {
	if r, g, bl, ok := parseRGB(b.bg); ok {
		cr.SetSourceRGB(r, g, bl)
		cr.Paint()
	}
	if r, g, bl, ok := parseRGB(b.fg); ok {
		cr.SetSourceRGB(r, g, bl)
	}
	inset := float64(width) / 4
	cr.SetLineWidth(float64(b.width))
	cr.MoveTo(inset, inset)
	cr.LineTo(float64(width)-inset, float64(height)-inset)
	cr.MoveTo(float64(width)-inset, inset)
	cr.LineTo(inset, float64(height)-inset)
	cr.Stroke()
}

func (b *closeButton) SetBackground(color string) error {
	b.bg = color
	b.area.QueueDraw()
	return nil
}

func (b *closeButton) SetLineWidth(width int) error {
	b.width = width
	b.area.QueueDraw()
	return nil
}

func (b *closeButton) Destroyed() bool {
	return b.w.destroyed
}

func parseRGB(spec string) (r, g, b float64, ok bool) {
	rgba := gdk.NewRGBA(0, 0, 0, 0)
	if !rgba.Parse(spec) {
		return 0, 0, 0, false
	}
	return float64(rgba.Red()), float64(rgba.Green()), float64(rgba.Blue()), true
}
