// Package delegate implements event delegation: one listener per event type
// is attached to a stable root element and bubbled events are routed to
// handlers by matching the element the event originated on.
//
// # Architecture
//
//	external event source ──► root listener (one per event type)
//	                                   │
//	                                   ▼
//	                     Dispatcher.Dispatch(type, event)
//	                                   │
//	                     Registry.Lookup(type) ─► ordered []Binding
//	                                   │
//	            for each binding whose Matcher matches event.Target():
//	                  handler(event); if Stop { event.StopPropagation() }
//
// # Declarations
//
// Bindings are declared per event type and element key. A key is an element
// id or a class name depending on the binding's matcher:
//
//	decl := delegate.NewDeclaration[*delegate.Context]().
//	    Add("click", "designIMG", delegate.Verbose(loadPhotoDetails, "class", true)).
//	    Add("click", "finishCheckbox", delegate.Verbose(finish, "id", false)).
//	    Add("mouseover", "linkedPhoto", delegate.Shorthand(highlight)).
//	    Declare("keydown")
//
// Shorthand bindings always match by class and never stop propagation.
// Verbose bindings match by id only when the type is exactly "id"; every
// other value, including the empty string, matches by class.
//
// # Shared Context
//
// Every handler receives the dispatcher's single state value. The value is
// bound into each handler once, when the registry is built, and is shared by
// every handler of that dispatcher for its whole lifetime. Handlers registered
// for different event types can therefore exchange state:
//
//	count := func(c *delegate.Context, _ delegate.Event) { c.Incr("count") }
//	show := func(c *delegate.Context, _ delegate.Event) { fmt.Println(c.Int("count")) }
//
// # Multi-match and Stop
//
// All matching bindings fire, in declaration order. A binding with Stop set
// asks the event source to stop bubbling above the root right after its
// handler returns; later bindings in the same dispatch still run. This is a
// known quirk kept for compatibility with existing declarations.
//
// # Concurrency
//
// Dispatch is synchronous and single threaded. Handlers run to completion in
// order before Dispatch returns. Neither the Dispatcher nor Context is safe for
// concurrent or re-entrant use.
package delegate
