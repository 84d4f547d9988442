package delegate

// HandlerFunc handles a delegated event. state is the dispatcher's shared
// execution context.
type HandlerFunc[S any] func(state S, e Event)

// BindingSpec is the author-supplied form of a binding before normalization.
// Build one with Shorthand or Verbose.
type BindingSpec[S any] struct {
	// Func is the handler. A nil Func is rejected when the registry is built.
	Func HandlerFunc[S]

	// Type selects the matcher: "id" matches by element id, anything else
	// matches by class.
	Type string

	// Stop requests that bubbling halt after the handler runs.
	Stop bool
}

// Shorthand declares a class-matched binding that never stops propagation.
func Shorthand[S any](fn HandlerFunc[S]) BindingSpec[S] {
	return BindingSpec[S]{Func: fn}
}

// Verbose declares a binding with an explicit matcher type and stop flag.
func Verbose[S any](fn HandlerFunc[S], typ string, stop bool) BindingSpec[S] {
	return BindingSpec[S]{Func: fn, Type: typ, Stop: stop}
}

type declEntry[S any] struct {
	key  string
	spec BindingSpec[S]
}

type declEvent[S any] struct {
	eventType string
	entries   []declEntry[S]
}

// Declaration is the ordered, declarative input of a Registry:
// event type -> element key -> BindingSpec. Both levels keep the order in
// which they were first added.
type Declaration[S any] struct {
	events []*declEvent[S]
	index  map[string]int
}

// NewDeclaration creates an empty declaration.
func NewDeclaration[S any]() *Declaration[S] {
	return &Declaration[S]{index: make(map[string]int)}
}

// Declare makes sure eventType is part of the declaration, even without
// bindings. A declared event type is still subscribed on the root.
func (d *Declaration[S]) Declare(eventType string) *Declaration[S] {
	d.event(eventType)
	return d
}

// Add declares spec for key under eventType. Adding a key that already exists
// for the event replaces its spec but keeps its original position.
func (d *Declaration[S]) Add(eventType, key string, spec BindingSpec[S]) *Declaration[S] {
	ev := d.event(eventType)
	for i := range ev.entries {
		if ev.entries[i].key == key {
			ev.entries[i].spec = spec
			return d
		}
	}
	ev.entries = append(ev.entries, declEntry[S]{key: key, spec: spec})
	return d
}

// Types returns the declared event types in declaration order.
func (d *Declaration[S]) Types() []string {
	types := make([]string, len(d.events))
	for i, ev := range d.events {
		types[i] = ev.eventType
	}
	return types
}

// Len returns the total number of declared bindings.
func (d *Declaration[S]) Len() int {
	n := 0
	for _, ev := range d.events {
		n += len(ev.entries)
	}
	return n
}

func (d *Declaration[S]) event(eventType string) *declEvent[S] {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[eventType]; ok {
		return d.events[i]
	}
	ev := &declEvent[S]{eventType: eventType}
	d.index[eventType] = len(d.events)
	d.events = append(d.events, ev)
	return ev
}
