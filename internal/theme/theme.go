package theme

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a resolved CSS theme.
type Theme struct {
	Name      string    // Theme name (without .css extension)
	Path      string    // Full path to the CSS file (empty when bundled)
	CSS       string    // The CSS content with imports inlined
	ModTime   time.Time // Last modification time
	IsBundled bool
}

// NewTheme loads a theme from a CSS file, inlining @import statements.
func NewTheme(name, path string) (*Theme, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	css, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &Theme{
		Name:    name,
		Path:    path,
		CSS:     ProcessImports(string(css), filepath.Dir(path), nil),
		ModTime: info.ModTime(),
	}, nil
}

// newBundledTheme returns an embedded theme with its imports inlined.
func newBundledTheme(name string) (*Theme, bool) {
	css, found := BundledCSS(name)
	if !found {
		return nil, false
	}
	return &Theme{
		Name:      name,
		CSS:       ProcessImports(css, "", nil),
		IsBundled: true,
	}, true
}

// Load resolves a theme by name.
// Theme resolution order:
//  1. User themes directory (themesDir)
//  2. Embedded/bundled themes
//  3. The bundled default theme
//
// This allows users to override bundled themes by placing a file with the
// same name in their themes directory.
func Load(name, themesDir string, logger *slog.Logger) *Theme {
	if logger == nil {
		logger = slog.Default()
	}
	if name == "" {
		name = DefaultThemeName
	}

	if themesDir != "" {
		path := filepath.Join(themesDir, name+".css")
		if _, err := os.Stat(path); err == nil {
			t, err := NewTheme(name, path)
			if err == nil {
				logger.Debug("loaded user theme", "name", name, "path", path)
				return t
			}
			logger.Warn("failed to load user theme, trying bundled", "theme", name, "error", err)
		}
	}

	if t, ok := newBundledTheme(name); ok {
		logger.Debug("loaded bundled theme", "name", name)
		return t
	}

	logger.Warn("theme not found, using default", "theme", name)
	t, _ := newBundledTheme(DefaultThemeName)
	return t
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir, then against the bundled
// partials and themes. The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}

		importPath := submatch[1]
		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		importedCSS, err := os.ReadFile(fullPath)
		if err != nil || baseDir == "" {
			baseName := filepath.Base(importPath)
			if strings.HasPrefix(baseName, "_") {
				if embeddedCSS, found := BundledPartial(baseName); found {
					return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
				}
			}
			if embeddedCSS, found := BundledCSS(strings.TrimSuffix(baseName, ".css")); found {
				return "/* imported (embedded): " + importPath + " */\n" + ProcessImports(embeddedCSS, "", seen)
			}
			if err == nil {
				err = os.ErrNotExist
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		return "/* imported: " + importPath + " */\n" + ProcessImports(string(importedCSS), filepath.Dir(fullPath), seen)
	})
}

// Reload re-reads a user theme from disk if the file is newer.
// Returns true if the content changed.
func (t *Theme) Reload() (bool, error) {
	if t.IsBundled {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}
	if !info.ModTime().After(t.ModTime) {
		return false, nil
	}
	return t.ForceReload()
}

// ForceReload re-reads a user theme regardless of its modification time,
// picking up edits to imported partials.
func (t *Theme) ForceReload() (bool, error) {
	if t.IsBundled {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}
	css, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	oldCSS := t.CSS
	t.CSS = ProcessImports(string(css), filepath.Dir(t.Path), nil)
	t.ModTime = info.ModTime()

	return oldCSS != t.CSS, nil
}

// ThemeInfo provides basic theme information for listing.
type ThemeInfo struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool
	// Overrides is set when a user theme shadows a bundled one.
	Overrides bool
}

// ListAvailableThemes lists bundled themes followed by user themes in themesDir.
func ListAvailableThemes(themesDir string) ([]ThemeInfo, error) {
	index := make(map[string]int)
	var themes []ThemeInfo

	for _, name := range BundledNames() {
		index[name] = len(themes)
		themes = append(themes, ThemeInfo{
			Name:      name,
			IsDefault: name == DefaultThemeName,
			IsBundled: true,
		})
	}

	if themesDir == "" {
		return themes, nil
	}

	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || filepath.Ext(name) != ".css" {
			continue
		}
		themeName := strings.TrimSuffix(name, ".css")
		path := filepath.Join(themesDir, name)
		if i, ok := index[themeName]; ok {
			themes[i].Path = path
			themes[i].Overrides = true
			continue
		}
		index[themeName] = len(themes)
		themes = append(themes, ThemeInfo{Name: themeName, Path: path})
	}

	return themes, nil
}
