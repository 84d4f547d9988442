package delegate

import "errors"

// Registry maps event types to their ordered bindings.
// It is immutable once built.
type Registry struct {
	types    []string
	bindings map[string][]Binding
}

// NewRegistry normalizes decl, binding every handler to state. All malformed
// bindings are reported together; no registry is returned if any exist.
func NewRegistry[S any](state S, decl *Declaration[S]) (*Registry, error) {
	r := &Registry{bindings: make(map[string][]Binding)}
	if decl == nil {
		return r, nil
	}

	var errs []error
	for _, ev := range decl.events {
		if ev.eventType == "" {
			errs = append(errs, ErrInvalidEventType)
			continue
		}

		bindings := make([]Binding, 0, len(ev.entries))
		for _, entry := range ev.entries {
			b, err := normalize(state, entry.key, entry.spec)
			if err != nil {
				errs = append(errs, &BindingError{EventType: ev.eventType, Key: entry.key, Err: err})
				continue
			}
			bindings = append(bindings, b)
		}

		r.types = append(r.types, ev.eventType)
		r.bindings[ev.eventType] = bindings
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// Lookup returns a copy of the bindings for eventType in declaration order.
func (r *Registry) Lookup(eventType string) []Binding {
	bindings := r.bindings[eventType]
	result := make([]Binding, len(bindings))
	copy(result, bindings)
	return result
}

// Has reports whether eventType was declared.
func (r *Registry) Has(eventType string) bool {
	_, ok := r.bindings[eventType]
	return ok
}

// Types returns the declared event types in declaration order.
func (r *Registry) Types() []string {
	types := make([]string, len(r.types))
	copy(types, r.types)
	return types
}

// Len returns the number of declared event types.
func (r *Registry) Len() int {
	return len(r.types)
}

// Count returns the number of bindings for eventType.
func (r *Registry) Count(eventType string) int {
	return len(r.bindings[eventType])
}

// Total returns the number of bindings across all event types.
func (r *Registry) Total() int {
	n := 0
	for _, bindings := range r.bindings {
		n += len(bindings)
	}
	return n
}

// lookup returns the internal slice; callers must not modify it.
func (r *Registry) lookup(eventType string) []Binding {
	return r.bindings[eventType]
}
