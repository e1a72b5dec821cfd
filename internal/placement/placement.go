// Package placement resolves where a splash window goes on screen.
// It turns a named screen anchor or an explicit point into absolute
// window geometry that stays inside the screen bounds.
package placement

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Anchor is one of the nine screen-relative placement tags.
type Anchor string

const (
	AnchorBottomRight  Anchor = "BR"
	AnchorBottomLeft   Anchor = "BL"
	AnchorBottomCenter Anchor = "BC"
	AnchorTopRight     Anchor = "TR"
	AnchorTopLeft      Anchor = "TL"
	AnchorTopCenter    Anchor = "TC"
	AnchorCenter       Anchor = "C"
	AnchorCenterLeft   Anchor = "CL"
	AnchorCenterRight  Anchor = "CR"
)

// DefaultAnchor is used whenever a placement cannot be understood.
const DefaultAnchor = AnchorBottomRight

// Default coordinates for an explicit point with missing fields.
const (
	DefaultX = 100
	DefaultY = 100
)

// Edge margins used by the anchor formulas and the bottom clamp.
const (
	EdgeMargin   = 10
	BottomMargin = 50
	// BottomChrome is kept free at the bottom edge for taskbars and docks.
	BottomChrome = 40
)

// Minimum window sizes.
const (
	MinWidth          = 200
	MinHeight         = 100
	MinHeightTitle    = 120
	MinHeightProgress = 150
)

// ValidAnchors returns all anchors in display order.
func ValidAnchors() []Anchor {
	return []Anchor{
		AnchorBottomRight, AnchorBottomCenter, AnchorBottomLeft,
		AnchorCenterLeft, AnchorCenterRight, AnchorCenter,
		AnchorTopLeft, AnchorTopCenter, AnchorTopRight,
	}
}

// anchorFuncs maps each anchor to its position formula.
var anchorFuncs = map[Anchor]func(w, h, sw, sh int) (int, int){
	AnchorBottomRight:  func(w, h, sw, sh int) (int, int) { return sw - w - EdgeMargin, sh - h - BottomMargin },
	AnchorBottomLeft:   func(w, h, sw, sh int) (int, int) { return EdgeMargin, sh - h - BottomMargin },
	AnchorBottomCenter: func(w, h, sw, sh int) (int, int) { return (sw - w) / 2, sh - h - BottomMargin },
	AnchorTopRight:     func(w, h, sw, sh int) (int, int) { return sw - w - EdgeMargin, EdgeMargin },
	AnchorTopLeft:      func(w, h, sw, sh int) (int, int) { return EdgeMargin, EdgeMargin },
	AnchorTopCenter:    func(w, h, sw, sh int) (int, int) { return (sw - w) / 2, EdgeMargin },
	AnchorCenter:       func(w, h, sw, sh int) (int, int) { return (sw - w) / 2, (sh - h) / 2 },
	AnchorCenterLeft:   func(w, h, sw, sh int) (int, int) { return EdgeMargin, (sh - h) / 2 },
	AnchorCenterRight:  func(w, h, sw, sh int) (int, int) { return sw - w - EdgeMargin, (sh - h) / 2 },
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int
	Height int
}

// Geometry is a resolved window rectangle.
type Geometry struct {
	Width  int
	Height int
	X      int
	Y      int
}

// String formats the geometry as WxH+X+Y.
func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", g.Width, g.Height, g.X, g.Y)
}

// Spec is an immutable placement request: a named anchor or an explicit point.
// The zero value places at DefaultAnchor.
type Spec struct {
	anchor   Anchor
	x, y     int
	explicit bool
}

// Named returns a spec for the given anchor tag. Tags are case-insensitive.
// Unknown tags fall back to DefaultAnchor with a warning.
func Named(tag string, logger *slog.Logger) Spec {
	if logger == nil {
		logger = slog.Default()
	}
	a := Anchor(strings.ToUpper(strings.TrimSpace(tag)))
	if _, ok := anchorFuncs[a]; !ok {
		logger.Warn("invalid placement, defaulting", "placement", tag, "default", DefaultAnchor)
		a = DefaultAnchor
	}
	return Spec{anchor: a}
}

// At returns a spec for an explicit top-left point.
func At(x, y int) Spec {
	return Spec{x: x, y: y, explicit: true}
}

// Parse reads a placement from text. Accepted forms are an anchor tag ("BR"),
// "x=100,y=444", "100,444", or a single "x=100"/"y=20" where the missing
// coordinate defaults to 100.
func Parse(s string, logger *slog.Logger) Spec {
	if logger == nil {
		logger = slog.Default()
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{anchor: DefaultAnchor}
	}
	if !strings.ContainsAny(s, ",=0123456789") {
		return Named(s, logger)
	}

	x, y := DefaultX, DefaultY
	parts := strings.Split(s, ",")
	if len(parts) > 2 {
		logger.Warn("invalid placement, defaulting", "placement", s, "default", DefaultAnchor)
		return Spec{anchor: DefaultAnchor}
	}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		key := ""
		if k, v, ok := strings.Cut(part, "="); ok {
			key = strings.ToLower(strings.TrimSpace(k))
			part = strings.TrimSpace(v)
		} else if i == 0 {
			key = "x"
		} else {
			key = "y"
		}

		n, err := strconv.Atoi(part)
		if err != nil || (key != "x" && key != "y") {
			logger.Warn("invalid placement, defaulting", "placement", s, "default", DefaultAnchor)
			return Spec{anchor: DefaultAnchor}
		}
		if key == "x" {
			x = n
		} else {
			y = n
		}
	}
	return At(x, y)
}

// Anchor returns the named anchor and true, or "" and false for explicit points.
func (s Spec) Anchor() (Anchor, bool) {
	if s.explicit {
		return "", false
	}
	if s.anchor == "" {
		return DefaultAnchor, true
	}
	return s.anchor, true
}

// Point returns the explicit point and true, or zeroes and false for anchors.
func (s Spec) Point() (int, int, bool) {
	return s.x, s.y, s.explicit
}

// String returns the spec in the form accepted by Parse.
func (s Spec) String() string {
	if s.explicit {
		return fmt.Sprintf("x=%d,y=%d", s.x, s.y)
	}
	a, _ := s.Anchor()
	return string(a)
}

// MinSize returns the minimum window size for the given content.
func MinSize(hasTitle, hasProgress bool) Size {
	minHeight := MinHeight
	if hasTitle {
		minHeight = max(minHeight, MinHeightTitle)
	}
	if hasProgress {
		minHeight = max(minHeight, MinHeightProgress)
	}
	return Size{Width: MinWidth, Height: minHeight}
}

// Resolve computes the absolute geometry for a window of the requested size.
// The floor size is applied first, then the placement, then the clamp that
// keeps the window on screen with room for bottom chrome.
func (s Spec) Resolve(requested, screen, floor Size, logger *slog.Logger) Geometry {
	if logger == nil {
		logger = slog.Default()
	}

	w := max(requested.Width, floor.Width)
	h := max(requested.Height, floor.Height)
	sw, sh := screen.Width, screen.Height

	var x, y int
	if s.explicit {
		x, y = s.x, s.y
	} else {
		a, _ := s.Anchor()
		x, y = anchorFuncs[a](w, h, sw, sh)
	}

	if x+w > sw {
		x = sw - w
		logger.Warn("too far right, moving inside screen", "x", x, "width", w, "screen_width", sw)
	}
	if y+h+BottomChrome > sh {
		y = sh - h - BottomChrome
		logger.Warn("too far down, moving inside screen", "y", y, "height", h, "screen_height", sh)
	}
	if x < 0 {
		logger.Warn("too far left, moving inside screen", "x", x)
		x = 0
	}
	if y < 0 {
		logger.Warn("too far up, moving inside screen", "y", y)
		y = 0
	}

	return Geometry{Width: w, Height: h, X: x, Y: y}
}
