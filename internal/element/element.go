package element

import (
	"slices"
	"strings"

	"github.com/dshills/delegator/internal/delegate"
)

// Element is a node of the element tree.
//
// Element is not safe for concurrent use; the tree is owned by the goroutine
// that delivers events.
type Element struct {
	id      string
	classes []string
	label   string
	bounds  Rect

	parent   *Element
	children []*Element

	listeners map[string][]delegate.Listener
}

// New creates a detached element.
func New(id string, classes ...string) *Element {
	el := &Element{id: id}
	for _, c := range classes {
		el.AddClass(c)
	}
	return el
}

// ID returns the element id.
func (el *Element) ID() string {
	return el.id
}

// Classes returns a copy of the class list.
func (el *Element) Classes() []string {
	return slices.Clone(el.classes)
}

// HasClass reports whether name is in the class list.
func (el *Element) HasClass(name string) bool {
	return slices.Contains(el.classes, name)
}

// AddClass adds name to the class list. Returns false if it was present.
func (el *Element) AddClass(name string) bool {
	if name == "" || el.HasClass(name) {
		return false
	}
	el.classes = append(el.classes, name)
	return true
}

// RemoveClass removes name from the class list. Returns false if it was absent.
func (el *Element) RemoveClass(name string) bool {
	i := slices.Index(el.classes, name)
	if i < 0 {
		return false
	}
	el.classes = slices.Delete(el.classes, i, i+1)
	return true
}

// ToggleClass flips name and reports whether it is now present.
func (el *Element) ToggleClass(name string) bool {
	if el.RemoveClass(name) {
		return false
	}
	return el.AddClass(name)
}

// Label returns the display text.
func (el *Element) Label() string {
	return el.label
}

// SetLabel sets the display text.
func (el *Element) SetLabel(label string) {
	el.label = label
}

// Bounds returns the screen region of the element.
func (el *Element) Bounds() Rect {
	return el.bounds
}

// SetBounds sets the screen region of the element.
func (el *Element) SetBounds(r Rect) {
	el.bounds = r
}

// Contains reports whether the cell (x, y) is inside the element's bounds.
func (el *Element) Contains(x, y int) bool {
	return el.bounds.Contains(x, y)
}

// Parent returns the parent element, or nil for a root.
func (el *Element) Parent() *Element {
	return el.parent
}

// Children returns a copy of the child list in paint order.
func (el *Element) Children() []*Element {
	return slices.Clone(el.children)
}

// AppendChild attaches child as the last child, detaching it from any previous
// parent. Appending an element to itself or to one of its descendants fails.
func (el *Element) AppendChild(child *Element) error {
	for n := el; n != nil; n = n.parent {
		if n == child {
			return ErrHierarchy
		}
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = el
	el.children = append(el.children, child)
	return nil
}

// RemoveChild detaches child. Returns false if child is not a direct child.
func (el *Element) RemoveChild(child *Element) bool {
	i := slices.Index(el.children, child)
	if i < 0 {
		return false
	}
	el.children = slices.Delete(el.children, i, i+1)
	child.parent = nil
	return true
}

// Observe attaches l for bubbled events of eventType.
func (el *Element) Observe(eventType string, l delegate.Listener) {
	if el.listeners == nil {
		el.listeners = make(map[string][]delegate.Listener)
	}
	el.listeners[eventType] = append(el.listeners[eventType], l)
}

// ListenerCount returns the number of listeners for eventType.
func (el *Element) ListenerCount(eventType string) int {
	return len(el.listeners[eventType])
}

// DispatchEvent delivers e with el as its target. See Dispatch.
func (el *Element) DispatchEvent(e *Event) bool {
	e.target = el
	return Dispatch(e)
}

// String returns a selector-like description, e.g. "#save.button.primary".
func (el *Element) String() string {
	var b strings.Builder
	if el.id != "" {
		b.WriteString("#")
		b.WriteString(el.id)
	}
	for _, c := range el.classes {
		b.WriteString(".")
		b.WriteString(c)
	}
	if b.Len() == 0 {
		return "<element>"
	}
	return b.String()
}
