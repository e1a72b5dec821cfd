package splash

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMessage is returned by New when the message is empty.
	ErrEmptyMessage = errors.New("splash message must not be empty")
	// ErrNotShown matches operations attempted before Show.
	ErrNotShown = errors.New("splash not shown")
	// ErrClosed matches operations attempted after Close.
	ErrClosed = errors.New("splash closed")
)

// StateError reports an operation that is invalid in the current state.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: splash is %s", e.Op, e.State)
}

// Is matches ErrNotShown and ErrClosed.
func (e *StateError) Is(target error) bool {
	switch target {
	case ErrNotShown:
		return e.State == StateUnshown
	case ErrClosed:
		return e.State == StateClosed
	}
	return false
}

// ToolkitError wraps a failure reported by the toolkit while building the window.
type ToolkitError struct {
	Message string
	Cause   error
}

func (e *ToolkitError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ToolkitError) Unwrap() error {
	return e.Cause
}
