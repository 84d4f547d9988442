// Package app wires configuration, the element tree, delegation dispatchers,
// the Lua runtime and the terminal into a running application.
package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoElements indicates an empty layout.
	ErrNoElements = errors.New("layout has no elements")

	// ErrUnknownAction indicates a binding naming an action that does not exist.
	ErrUnknownAction = errors.New("unknown action")
)

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// DeliveryError reports an event whose delivery was aborted by a handler
// panic.
type DeliveryError struct {
	EventType string
	Target    string
	Value     any
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s to #%s: %v", e.EventType, e.Target, e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *DeliveryError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
