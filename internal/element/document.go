package element

import (
	"fmt"

	"github.com/dshills/delegator/internal/delegate"
)

// Document owns an element tree.
type Document struct {
	root *Element
}

// NewDocument creates a document rooted at root.
func NewDocument(root *Element) *Document {
	return &Document{root: root}
}

// Root returns the document root.
func (d *Document) Root() *Element {
	return d.root
}

// Walk visits elements depth first in paint order. Returning false from fn
// skips the element's children.
func (d *Document) Walk(fn func(el *Element, depth int) bool) {
	if d.root != nil {
		walk(d.root, 0, fn)
	}
}

func walk(el *Element, depth int, fn func(*Element, int) bool) {
	if !fn(el, depth) {
		return
	}
	for _, child := range el.children {
		walk(child, depth+1, fn)
	}
}

// GetElementByID returns the first element in document order with id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	var found *Element
	d.Walk(func(el *Element, _ int) bool {
		if found != nil {
			return false
		}
		if el.id == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// Resolve implements delegate.Resolver.
func (d *Document) Resolve(id string) (delegate.Root, error) {
	el := d.GetElementByID(id)
	if el == nil {
		return nil, fmt.Errorf("%w: #%s", ErrNotFound, id)
	}
	return el, nil
}

// HitTest returns the innermost element whose bounds contain (x, y). Later
// siblings are painted over earlier ones and win. Returns nil if the point
// is outside every element.
func (d *Document) HitTest(x, y int) *Element {
	if d.root == nil {
		return nil
	}
	return hitTest(d.root, x, y)
}

func hitTest(el *Element, x, y int) *Element {
	for i := len(el.children) - 1; i >= 0; i-- {
		if hit := hitTest(el.children[i], x, y); hit != nil {
			return hit
		}
	}
	if el.Contains(x, y) {
		return el
	}
	return nil
}

// Dispatch delivers e to its target. See the package-level Dispatch.
func (d *Document) Dispatch(e *Event) bool {
	return Dispatch(e)
}

// Dispatch delivers e in the bubble phase: listeners on the target run first,
// then those of each ancestor up to the root. All listeners of the current
// element run; if one of them stopped propagation, no ancestor is visited.
// Returns false if propagation was stopped.
func Dispatch(e *Event) bool {
	defer func() { e.current = nil }()

	for node := e.target; node != nil; node = node.parent {
		e.current = node
		listeners := node.listeners[e.typ]
		if len(listeners) > 0 {
			snapshot := make([]delegate.Listener, len(listeners))
			copy(snapshot, listeners)
			for _, l := range snapshot {
				l(e)
			}
		}
		if e.stopped {
			break
		}
	}
	return !e.stopped
}
