package element

import "errors"

// Element tree errors.
var (
	// ErrNotFound indicates no element has the requested id.
	ErrNotFound = errors.New("element: not found")

	// ErrHierarchy indicates an append that would create a cycle.
	ErrHierarchy = errors.New("element: invalid hierarchy")
)
