package app

import (
	"errors"
	"fmt"

	"github.com/dshills/delegator/internal/config"
	"github.com/dshills/delegator/internal/delegate"
	"github.com/dshills/delegator/internal/element"
)

// BuildDocument creates the element tree described by elements. Children are
// attached in declaration order, which is also their paint order.
func BuildDocument(elements []config.ElementConfig) (*element.Document, error) {
	if len(elements) == 0 {
		return nil, ErrNoElements
	}

	byID := make(map[string]*element.Element, len(elements))
	var root *element.Element
	for _, ec := range elements {
		el := element.New(ec.ID, ec.Classes...)
		el.SetLabel(ec.Label)
		el.SetBounds(element.NewRect(ec.X, ec.Y, ec.Width, ec.Height))
		byID[ec.ID] = el
		if ec.Parent == "" && root == nil {
			root = el
		}
	}
	if root == nil {
		return nil, errors.New("layout has no root element")
	}

	for _, ec := range elements {
		if ec.Parent == "" {
			continue
		}
		parent, ok := byID[ec.Parent]
		if !ok {
			return nil, fmt.Errorf("element %q: %w: parent %q", ec.ID, element.ErrNotFound, ec.Parent)
		}
		if err := parent.AppendChild(byID[ec.ID]); err != nil {
			return nil, fmt.Errorf("element %q: %w", ec.ID, err)
		}
	}
	return element.NewDocument(root), nil
}

// bindingsDeclaration turns configured bindings into a declaration over the
// default context. A later binding with the same event and key replaces an
// earlier one in place.
func bindingsDeclaration(bindings []config.BindingConfig, acts *actions) (*delegate.Declaration[*delegate.Context], error) {
	decl := delegate.NewDeclaration[*delegate.Context]()
	var errs []error
	for _, b := range bindings {
		fn, err := acts.handler(b.Action, b.Arg)
		if err != nil {
			errs = append(errs, &delegate.BindingError{EventType: b.Event, Key: b.Key, Err: err})
			continue
		}
		decl.Add(b.Event, b.Key, delegate.Verbose(fn, b.Type, b.Stop))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return decl, nil
}
