package delegate

import "errors"

// Delegation errors.
var (
	// ErrMalformedBinding indicates a declared binding has no handler function.
	ErrMalformedBinding = errors.New("delegate: malformed binding")

	// ErrInvalidEventType indicates an empty event type was declared.
	ErrInvalidEventType = errors.New("delegate: invalid event type")

	// ErrInvalidKey indicates an empty element key was declared.
	ErrInvalidKey = errors.New("delegate: invalid element key")

	// ErrNilRoot indicates the dispatcher was given no root to observe.
	ErrNilRoot = errors.New("delegate: nil root")

	// ErrNilResolver indicates a root identifier was given without a resolver.
	ErrNilResolver = errors.New("delegate: nil resolver")
)

// BindingError describes a declaration that could not be normalized.
type BindingError struct {
	// EventType is the event the binding was declared under.
	EventType string

	// Key is the element id or class name of the binding.
	Key string

	// Err is the underlying error.
	Err error
}

func (e *BindingError) Error() string {
	return "binding " + e.Key + " on " + e.EventType + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *BindingError) Unwrap() error {
	return e.Err
}

// RootError describes a failure to resolve the root by identifier.
type RootError struct {
	ID  string
	Err error
}

func (e *RootError) Error() string {
	return "resolve root " + e.ID + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *RootError) Unwrap() error {
	return e.Err
}
