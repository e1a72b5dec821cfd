package theme

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/splash/internal/style"
)

// Stylesheet renders the CSS for one splash window. Every selector is
// scoped to class so several splashes can share a display.
func Stylesheet(class string, font style.Font, fg, bg string) string {
	weight := "normal"
	if font.Bold() {
		weight = "bold"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "window.%s {\n  background-color: %s;\n  color: %s;\n}\n", class, bg, fg)
	fmt.Fprintf(&b, ".%s label {\n  font-family: %q;\n  font-size: %dpt;\n  font-weight: %s;\n  color: %s;\n  background-color: %s;\n}\n",
		class, font.Family, font.Size, weight, fg, bg)
	fmt.Fprintf(&b, ".%s .splash-close {\n  background-color: %s;\n  color: %s;\n}\n", class, bg, fg)
	return b.String()
}
