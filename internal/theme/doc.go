// Package theme handles the CSS that styles splash windows. It bundles a set
// of themes, loads user themes from ~/.config/splash/themes/ with @import
// support, watches them for edits, and renders the per-window stylesheet that
// carries each splash's own font and colors.
package theme
