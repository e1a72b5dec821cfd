package dbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/splash/internal/splash"
)

// D-Bus error names returned by the control service.
const (
	ErrorNotShown = "io.github.jmylchreest.Splash.Error.NotShown"
	ErrorClosed   = "io.github.jmylchreest.Splash.Error.Closed"
	ErrorTimeout  = "io.github.jmylchreest.Splash.Error.Timeout"
	ErrorFailed   = "io.github.jmylchreest.Splash.Error.Failed"
)

// ErrTimeout is returned when the UI thread does not answer in time.
var ErrTimeout = errors.New("timed out waiting for the splash")

// Status is a snapshot of a splash.
type Status struct {
	ID          string
	State       string
	Message     string
	Background  string
	Geometry    string
	HasProgress bool
	Progress    float64
	Max         float64
	ShownAt     time.Time
}

// StatusOf reads the status of s. It must run on the UI thread.
func StatusOf(s *splash.Splash) Status {
	st := Status{
		ID:         s.ID(),
		State:      s.State().String(),
		Message:    s.Message(),
		Background: s.Background(),
		Geometry:   s.Geometry().String(),
		ShownAt:    s.ShownAt(),
	}
	st.Progress, st.Max, st.HasProgress = s.Progress()
	return st
}

// Variants encodes the status as an a{sv} dictionary.
func (s Status) Variants() map[string]dbus.Variant {
	m := map[string]dbus.Variant{
		"id":         dbus.MakeVariant(s.ID),
		"state":      dbus.MakeVariant(s.State),
		"message":    dbus.MakeVariant(s.Message),
		"background": dbus.MakeVariant(s.Background),
		"geometry":   dbus.MakeVariant(s.Geometry),
	}
	if !s.ShownAt.IsZero() {
		m["shown-at"] = dbus.MakeVariant(s.ShownAt.UnixMilli())
	}
	if s.HasProgress {
		m["progress"] = dbus.MakeVariant(s.Progress)
		m["max"] = dbus.MakeVariant(s.Max)
	}
	return m
}

// StatusFromVariants decodes an a{sv} status dictionary.
// Missing keys leave their fields empty.
func StatusFromVariants(m map[string]dbus.Variant) (Status, error) {
	var s Status
	var err error
	str := func(key string) string {
		v, ok := m[key]
		if !ok {
			return ""
		}
		val, ok := v.Value().(string)
		if !ok && err == nil {
			err = fmt.Errorf("status field %q: expected string, got %s", key, v.Signature())
		}
		return val
	}

	s.ID = str("id")
	s.State = str("state")
	s.Message = str("message")
	s.Background = str("background")
	s.Geometry = str("geometry")

	if v, ok := m["shown-at"]; ok {
		ms, ok := v.Value().(int64)
		if !ok {
			return s, fmt.Errorf("status field %q: expected int64, got %s", "shown-at", v.Signature())
		}
		s.ShownAt = time.UnixMilli(ms)
	}
	if v, ok := m["progress"]; ok {
		s.HasProgress = true
		if s.Progress, ok = v.Value().(float64); !ok {
			return s, fmt.Errorf("status field %q: expected double, got %s", "progress", v.Signature())
		}
	}
	if v, ok := m["max"]; ok {
		if s.Max, ok = v.Value().(float64); !ok {
			return s, fmt.Errorf("status field %q: expected double, got %s", "max", v.Signature())
		}
	}
	return s, err
}

// toDBusError maps controller errors to named D-Bus errors.
func toDBusError(err error) *dbus.Error {
	if err == nil {
		return nil
	}
	name := ErrorFailed
	switch {
	case errors.Is(err, splash.ErrClosed):
		name = ErrorClosed
	case errors.Is(err, splash.ErrNotShown):
		name = ErrorNotShown
	case errors.Is(err, ErrTimeout):
		name = ErrorTimeout
	}
	return dbus.NewError(name, []interface{}{err.Error()})
}

// fromDBusError maps named D-Bus errors back to package errors.
func fromDBusError(err error) error {
	var dbusErr dbus.Error
	if !errors.As(err, &dbusErr) {
		var ptr *dbus.Error
		if !errors.As(err, &ptr) {
			return err
		}
		dbusErr = *ptr
	}
	switch dbusErr.Name {
	case ErrorClosed:
		return fmt.Errorf("%w: %s", splash.ErrClosed, dbusErr.Error())
	case ErrorNotShown:
		return fmt.Errorf("%w: %s", splash.ErrNotShown, dbusErr.Error())
	case ErrorTimeout:
		return ErrTimeout
	}
	return err
}
