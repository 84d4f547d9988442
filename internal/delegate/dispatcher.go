package delegate

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Phase is the subscription state of a Dispatcher.
type Phase uint8

const (
	// PhaseUnsubscribed is the state before construction completes.
	PhaseUnsubscribed Phase = iota

	// PhaseSubscribed is terminal: one root listener exists per event type.
	PhaseSubscribed
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseSubscribed {
		return "subscribed"
	}
	return "unsubscribed"
}

// Result describes one dispatch.
type Result struct {
	// EventType is the event type the root listener was subscribed for.
	EventType string

	// Evaluated is the number of bindings whose matcher was checked.
	Evaluated int

	// Matched is the number of handlers invoked.
	Matched int

	// StopRequested is true if any matching binding asked to stop bubbling.
	StopRequested bool

	// Duration is the time spent in Dispatch.
	Duration time.Duration
}

// Stats holds cumulative dispatch counters.
type Stats struct {
	Dispatched uint64
	Matched    uint64
	Stopped    uint64
}

// Dispatcher subscribes to a root once per declared event type and routes
// bubbled events to matching bindings. S is the type of the shared execution
// context every handler receives.
type Dispatcher[S any] struct {
	root     Root
	state    S
	registry *Registry
	phase    Phase

	logger    logrus.FieldLogger
	observers []Observer

	stats Stats
}

// New builds the registry from decl, binding each handler to state, and
// subscribes to root. Malformed declarations fail here, before any listener
// is attached.
func New[S any](root Root, state S, decl *Declaration[S], opts ...Option) (*Dispatcher[S], error) {
	if root == nil {
		return nil, ErrNilRoot
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	registry, err := NewRegistry(state, decl)
	if err != nil {
		return nil, err
	}

	d := &Dispatcher[S]{
		root:      root,
		state:     state,
		registry:  registry,
		logger:    o.logger,
		observers: o.observers,
	}
	d.subscribe()
	return d, nil
}

// NewFromID resolves the root by identifier and then behaves like New.
func NewFromID[S any](resolver Resolver, id string, state S, decl *Declaration[S], opts ...Option) (*Dispatcher[S], error) {
	if resolver == nil {
		return nil, ErrNilResolver
	}
	root, err := resolver.Resolve(id)
	if err != nil {
		return nil, &RootError{ID: id, Err: err}
	}
	return New(root, state, decl, opts...)
}

// NewWithContext is New with a fresh *Context as the shared state.
func NewWithContext(root Root, decl *Declaration[*Context], opts ...Option) (*Dispatcher[*Context], error) {
	return New(root, NewContext(), decl, opts...)
}

// subscribe attaches exactly one listener per event type.
func (d *Dispatcher[S]) subscribe() {
	for _, eventType := range d.registry.types {
		d.root.Observe(eventType, func(e Event) {
			d.Dispatch(eventType, e)
		})
		d.logger.WithFields(logrus.Fields{
			"event":    eventType,
			"bindings": d.registry.Count(eventType),
		}).Debug("subscribed root listener")
	}
	d.phase = PhaseSubscribed
}

// Dispatch evaluates the bindings for eventType against e's target, in
// declaration order. Every matching handler runs; a matching binding with Stop
// set stops propagation right after its handler returns, and evaluation
// continues with the next binding. Handler panics are not recovered.
func (d *Dispatcher[S]) Dispatch(eventType string, e Event) Result {
	start := time.Now()
	r := Result{EventType: eventType}

	bindings := d.registry.lookup(eventType)
	if len(bindings) > 0 {
		target := e.Target()
		for _, b := range bindings {
			r.Evaluated++
			if !b.Matcher.Match(target) {
				continue
			}

			r.Matched++
			b.Invoke(e)
			if b.Stop {
				e.StopPropagation()
				r.StopRequested = true
			}

			for _, obs := range d.observers {
				obs.OnMatch(eventType, b)
			}
		}
	}

	r.Duration = time.Since(start)

	d.stats.Dispatched++
	d.stats.Matched += uint64(r.Matched)
	if r.StopRequested {
		d.stats.Stopped++
	}
	for _, obs := range d.observers {
		obs.OnDispatch(r)
	}

	if r.Matched > 0 {
		d.logger.WithFields(logrus.Fields{
			"event":   eventType,
			"matched": r.Matched,
			"stop":    r.StopRequested,
		}).Trace("dispatched")
	}
	return r
}

// Context returns the shared execution context.
func (d *Dispatcher[S]) Context() S {
	return d.state
}

// Registry returns the dispatcher's registry.
func (d *Dispatcher[S]) Registry() *Registry {
	return d.registry
}

// Root returns the observed root.
func (d *Dispatcher[S]) Root() Root {
	return d.root
}

// Phase returns the subscription state.
func (d *Dispatcher[S]) Phase() Phase {
	return d.phase
}

// Stats returns cumulative counters.
func (d *Dispatcher[S]) Stats() Stats {
	return d.stats
}
