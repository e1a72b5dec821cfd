package gtkui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToByte(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 128},
		{1, 255},
		{1.5, 255},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toByte(tt.in), "toByte(%v)", tt.in)
	}
}

func TestWrapChars(t *testing.T) {
	t.Run("scales with font size", func(t *testing.T) {
		assert.Greater(t, wrapChars(400, 10), wrapChars(400, 20))
	})
	t.Run("has a floor", func(t *testing.T) {
		assert.Equal(t, 10, wrapChars(20, 40))
	})
	t.Run("zero size uses default font", func(t *testing.T) {
		assert.Equal(t, wrapChars(400, 12), wrapChars(400, 0))
	})
}

func TestHostCache(t *testing.T) {
	var c hostCache[int, *int]
	calls := 0
	create := func() *int {
		calls++
		v := calls
		return &v
	}

	first, created := c.get(1, create)
	assert.True(t, created)
	again, created := c.get(1, create)
	assert.False(t, created)
	assert.Same(t, first, again)
	assert.Equal(t, 1, calls)

	_, created = c.get(2, create)
	assert.True(t, created)
	assert.Equal(t, 2, c.len())

	c.drop(1)
	assert.Equal(t, 1, c.len())
	fresh, created := c.get(1, create)
	assert.True(t, created)
	assert.NotSame(t, first, fresh)
}

func TestTimerCancelAfterFire(t *testing.T) {
	tm := &timer{fired: true}
	tm.Cancel()
	assert.False(t, tm.canceled)

	tm = &timer{canceled: true}
	tm.Cancel()
	assert.True(t, tm.canceled)
}
