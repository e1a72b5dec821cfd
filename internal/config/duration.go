package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration reads either an integer number of milliseconds or a Go
// duration string ("2s", "1m30s"). Zero disables whatever it configures.
type Duration time.Duration

// UnmarshalText rejects negative values.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))

	var v time.Duration
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		v = time.Duration(ms) * time.Millisecond
	} else if v, err = time.ParseDuration(s); err != nil {
		return fmt.Errorf("invalid duration %q: use milliseconds or a value like 500ms, 2s, 1m: %w", s, err)
	}
	if v < 0 {
		return fmt.Errorf("invalid duration %q: must not be negative", s)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns d as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
