package element

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/delegator/internal/delegate"
)

// Common event types produced by the terminal event source.
const (
	TypeClick     = "click"
	TypeMouseDown = "mousedown"
	TypeMouseUp   = "mouseup"
	TypeMouseMove = "mousemove"
	TypeMouseOver = "mouseover"
	TypeMouseOut  = "mouseout"
	TypeWheel     = "wheel"
	TypeKeyDown   = "keydown"
)

// Event is an element event delivered in the bubble phase.
type Event struct {
	id      uuid.UUID
	typ     string
	target  *Element
	current *Element
	stopped bool

	// X and Y are the cell the event happened at, for pointer events.
	X, Y int

	// Button names the pointer button, e.g. "left" or "wheel-up".
	Button string

	// Key names the key for keyboard events, e.g. "Enter" or "Rune".
	Key string

	// Rune is the character for printable key events.
	Rune rune

	// Modifiers names held modifiers, e.g. "ctrl+shift".
	Modifiers string

	// Time is when the event was created.
	Time time.Time
}

// NewEvent creates an event of typ targeted at target.
func NewEvent(typ string, target *Element) *Event {
	return &Event{
		id:     uuid.New(),
		typ:    typ,
		target: target,
		Time:   time.Now(),
	}
}

// ID returns the unique id of the event.
func (e *Event) ID() uuid.UUID {
	return e.id
}

// Type returns the event type.
func (e *Event) Type() string {
	return e.typ
}

// Target returns the originating element, or nil.
func (e *Event) Target() delegate.Element {
	if e.target == nil {
		return nil
	}
	return e.target
}

// Element returns the originating element as *Element.
func (e *Event) Element() *Element {
	return e.target
}

// CurrentTarget returns the element whose listeners are running, or nil
// outside of delivery.
func (e *Event) CurrentTarget() *Element {
	return e.current
}

// StopPropagation halts bubbling once the current element's listeners ran.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool {
	return e.stopped
}
