package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledCSS_Default(t *testing.T) {
	css, found := BundledCSS("default")
	require.True(t, found, "default theme should be found")
	assert.Contains(t, css, `@import "_base.css"`)
	assert.Contains(t, css, ".splash-progress")
}

func TestBundledCSS_NotFound(t *testing.T) {
	css, found := BundledCSS("nonexistent")
	assert.False(t, found)
	assert.Empty(t, css)
}

func TestBundledNames(t *testing.T) {
	themes := BundledNames()
	assert.ElementsMatch(t, BundledThemes, themes)
}

func TestBundledNames_ExcludesPartials(t *testing.T) {
	for _, name := range BundledNames() {
		assert.False(t, strings.HasPrefix(name, "_"),
			"theme list should not include partials, found: %s", name)
	}
}

func TestHasBundled(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"default", true},
		{"flat", true},
		{"rounded", true},
		{"_base", true},
		{"nonexistent", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasBundled(tt.name))
		})
	}
}

func TestBundledPartial(t *testing.T) {
	for _, name := range []string{"_base.css", "base", "_base"} {
		css, found := BundledPartial(name)
		require.True(t, found, name)
		assert.Contains(t, css, ".splash-message")
	}

	_, found := BundledPartial("_nonexistent.css")
	assert.False(t, found)
}

func TestBundledThemes_HaveRequiredClasses(t *testing.T) {
	requiredClasses := []string{
		".splash-window",
		".splash-title",
		".splash-message",
		".splash-progress",
		".splash-close",
	}

	for _, themeName := range BundledThemes {
		t.Run(themeName, func(t *testing.T) {
			th, ok := newBundledTheme(themeName)
			require.True(t, ok)

			for _, class := range requiredClasses {
				assert.Contains(t, th.CSS, class, "theme %s should contain %s", themeName, class)
			}
		})
	}
}

func TestBundledThemes_ValidCSS(t *testing.T) {
	for _, themeName := range BundledThemes {
		t.Run(themeName, func(t *testing.T) {
			th, ok := newBundledTheme(themeName)
			require.True(t, ok)

			assert.Equal(t, strings.Count(th.CSS, "{"), strings.Count(th.CSS, "}"),
				"theme %s should have balanced braces", themeName)
			assert.NotContains(t, th.CSS, "import failed")
		})
	}
}
