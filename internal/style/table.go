package style

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// StandardColors resolves SVG/X11 color names and #rgb/#rrggbb hex strings.
// It backs toolkits that have no color table of their own.
var StandardColors ColorTable = standardTable{}

type standardTable struct{}

func (standardTable) Lookup(spec string) (RGB, bool) {
	spec = strings.TrimSpace(spec)
	if strings.HasPrefix(spec, "#") {
		c, err := colorful.Hex(spec)
		if err != nil {
			return RGB{}, false
		}
		r, g, b := c.RGB255()
		return RGB{r, g, b}, true
	}
	key := strings.ToLower(strings.ReplaceAll(spec, " ", ""))
	c, ok := colornames.Map[key]
	if !ok {
		return RGB{}, false
	}
	return RGB{c.R, c.G, c.B}, true
}
