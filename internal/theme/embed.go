package theme

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed themes/*.css
var bundledFS embed.FS

// DefaultThemeName is the name of the built-in default theme.
const DefaultThemeName = "default"

// BundledThemes lists the embedded theme names.
var BundledThemes = []string{"default", "flat", "rounded"}

func readBundled(file string) (string, bool) {
	data, err := bundledFS.ReadFile(path.Join("themes", file))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// BundledCSS returns the raw CSS of a bundled theme. Its @import rules are
// left in place; Load resolves them.
func BundledCSS(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	return readBundled(name + ".css")
}

// BundledPartial returns a bundled partial. "base", "_base" and
// "_base.css" all name the same file.
func BundledPartial(name string) (string, bool) {
	name = "_" + strings.TrimPrefix(strings.TrimSuffix(name, ".css"), "_") + ".css"
	return readBundled(name)
}

// BundledNames lists the embedded themes, without partials.
func BundledNames() []string {
	entries, err := fs.ReadDir(bundledFS, "themes")
	if err != nil {
		return BundledThemes
	}
	var names []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".css")
		if ok && !e.IsDir() && !strings.HasPrefix(name, "_") {
			names = append(names, name)
		}
	}
	return names
}

// HasBundled reports whether name is an embedded theme or partial.
func HasBundled(name string) bool {
	_, ok := BundledCSS(name)
	return ok
}
