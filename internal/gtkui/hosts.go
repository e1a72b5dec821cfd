package gtkui

// hostCache keeps one wrapper per foreign window so repeated lookups share a
// single destroy handler.
type hostCache[K comparable, V any] struct {
	m map[K]V
}

// get returns the wrapper for key, calling create when there is none. The
// second result reports whether create ran.
func (c *hostCache[K, V]) get(key K, create func() V) (V, bool) {
	if v, ok := c.m[key]; ok {
		return v, false
	}
	if c.m == nil {
		c.m = make(map[K]V)
	}
	v := create()
	c.m[key] = v
	return v, true
}

func (c *hostCache[K, V]) drop(key K) {
	delete(c.m, key)
}

func (c *hostCache[K, V]) len() int {
	return len(c.m)
}
