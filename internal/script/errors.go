package script

import (
	"errors"
	"fmt"
)

// Script errors.
var (
	// ErrClosed is returned when using a closed runtime.
	ErrClosed = errors.New("script: runtime is closed")

	// ErrNotTable indicates the script did not return a declaration table.
	ErrNotTable = errors.New("script: script must return a table")
)

// LoadError reports a failure to load or evaluate a script.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("script: load %s: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// HandlerError reports a Lua error raised by a handler.
type HandlerError struct {
	EventType string
	Key       string
	Err       error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("script: handler %s/%s: %v", e.EventType, e.Key, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
