package style

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Default splash colors.
const (
	DefaultBackground = "#00538F"
	DefaultForeground = "white"
)

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// Hex renders the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ColorTable resolves color names and hex strings. Each toolkit backend
// supplies its own table, which is the authority on what is valid.
type ColorTable interface {
	Lookup(spec string) (RGB, bool)
}

// Color is either a textual color (name or hex) or an integer RGB triple.
// The zero value is unset.
type Color struct {
	name    string
	r, g, b int
	isRGB   bool
}

// Named returns a textual color such as "white" or "#00538F".
func Named(name string) Color {
	return Color{name: strings.TrimSpace(name)}
}

// FromRGB returns a color from integer components. Out of range components
// are rejected at normalization time, not here.
func FromRGB(r, g, b int) Color {
	return Color{r: r, g: g, b: b, isRGB: true}
}

// ParseColor reads a color name, a hex string, or an RGB triple written as
// "r,g,b" or "rgb(r,g,b)". Malformed triples are kept as text so that
// NormalizeColor reports them.
func ParseColor(s string) Color {
	s = strings.TrimSpace(s)
	inner := s
	if strings.HasPrefix(strings.ToLower(s), "rgb(") && strings.HasSuffix(s, ")") {
		inner = s[4 : len(s)-1]
	}
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return Named(s)
	}
	var rgb [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Named(s)
		}
		rgb[i] = n
	}
	return FromRGB(rgb[0], rgb[1], rgb[2])
}

// IsZero reports whether the color is unset.
func (c Color) IsZero() bool {
	return !c.isRGB && c.name == ""
}

// String returns the textual form of the color.
func (c Color) String() string {
	if c.isRGB {
		return fmt.Sprintf("rgb(%d,%d,%d)", c.r, c.g, c.b)
	}
	return c.name
}

// NormalizeColor validates c against table and returns the toolkit-ready form.
// Textual colors are returned unchanged when the table knows them, RGB
// triples become #rrggbb. Anything else yields fallback and a warning.
func NormalizeColor(table ColorTable, c Color, fallback string, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}
	if c.isRGB {
		if !inByte(c.r) || !inByte(c.g) || !inByte(c.b) {
			logger.Warn("invalid color, using fallback", "color", c.String(), "fallback", fallback)
			return fallback
		}
		return RGB{uint8(c.r), uint8(c.g), uint8(c.b)}.Hex()
	}
	if c.name == "" {
		logger.Warn("empty color, using fallback", "fallback", fallback)
		return fallback
	}
	if _, ok := table.Lookup(c.name); !ok {
		logger.Warn("invalid color, using fallback", "color", c.name, "fallback", fallback)
		return fallback
	}
	return c.name
}

// Lighten moves each channel towards white by factor (0..1). The color is
// returned unchanged when the table cannot resolve it.
func Lighten(table ColorTable, color string, factor float64) string {
	rgb, ok := table.Lookup(color)
	if !ok {
		return color
	}
	factor = math.Max(0, math.Min(1, factor))
	lift := func(v uint8) uint8 {
		return uint8(math.Min(255, float64(v)+(255-float64(v))*factor))
	}
	return RGB{lift(rgb.R), lift(rgb.G), lift(rgb.B)}.Hex()
}

func inByte(v int) bool {
	return v >= 0 && v <= 255
}
