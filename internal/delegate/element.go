package delegate

// Element is the part of an element the matchers inspect.
type Element interface {
	// ID returns the element's id, or "" if it has none.
	ID() string

	// HasClass reports whether name is in the element's class list.
	HasClass(name string) bool
}

// Event is what the event source hands to a root listener.
type Event interface {
	// Type returns the event type, e.g. "click".
	Type() string

	// Target returns the innermost element the event originated on.
	Target() Element

	// StopPropagation halts further bubbling of the event.
	StopPropagation()
}

// Listener receives bubbled events from a root.
type Listener func(Event)

// Root is an element that can be observed for bubbled events.
type Root interface {
	// Observe attaches l for events of the given type.
	Observe(eventType string, l Listener)
}

// Resolver looks up a root by identifier.
type Resolver interface {
	Resolve(id string) (Root, error)
}
