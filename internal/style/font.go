// Package style parses the font and color values a splash is configured with.
package style

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Font weights understood by the toolkits.
const (
	WeightNormal = "normal"
	WeightBold   = "bold"
)

// Font describes the message font.
type Font struct {
	Family string
	Size   int
	Weight string
}

// DefaultFont is used when no font is configured or the configured one cannot be parsed.
var DefaultFont = Font{Family: "Calibri", Size: 12, Weight: WeightNormal}

// String renders the font in the form accepted by ParseFont.
func (f Font) String() string {
	return fmt.Sprintf("%s, %d, %s", f.Family, f.Size, f.Weight)
}

// Bold reports whether the weight asks for a bold face.
func (f Font) Bold() bool {
	return strings.EqualFold(f.Weight, WeightBold)
}

// ParseFont reads "family[, size[, weight]]". A missing size is 12 and a
// missing weight is normal. If the size is not a positive integer the whole
// DefaultFont is returned and a warning is logged.
func ParseFont(spec string, logger *slog.Logger) Font {
	if logger == nil {
		logger = slog.Default()
	}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return DefaultFont
	}

	parts := strings.Split(spec, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	font := Font{Family: parts[0], Size: DefaultFont.Size, Weight: WeightNormal}
	if font.Family == "" {
		font.Family = DefaultFont.Family
	}
	if len(parts) > 1 {
		size, err := strconv.Atoi(parts[1])
		if err != nil || size <= 0 {
			logger.Warn("invalid font, using default", "font", spec, "default", DefaultFont.String())
			return DefaultFont
		}
		font.Size = size
	}
	if len(parts) > 2 && parts[2] != "" {
		font.Weight = strings.ToLower(parts[2])
	}
	return font
}
