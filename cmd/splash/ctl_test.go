package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/splash/internal/dbus"
)

func TestFormatStatus(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	t.Run("with progress", func(t *testing.T) {
		out := formatStatus(dbus.Status{
			ID:          "01J0000000000000000000000",
			State:       "shown",
			Message:     "Loading\nplease wait",
			Background:  "#00538F",
			Geometry:    "300x150+1610+465",
			HasProgress: true,
			Progress:    25,
			Max:         200,
			ShownAt:     now.Add(-3 * time.Minute),
		}, now)

		assert.Contains(t, out, "State:      shown\n")
		assert.Contains(t, out, "Shown:      3 minutes ago\n")
		assert.Contains(t, out, "Progress:   25 / 200 (12.5%)\n")
		assert.Contains(t, out, "  Loading\n  please wait\n")
	})

	t.Run("unshown", func(t *testing.T) {
		out := formatStatus(dbus.Status{ID: "x", State: "unshown", Message: "hi"}, now)
		assert.NotContains(t, out, "Shown:")
		assert.NotContains(t, out, "Progress:")
	})
}
