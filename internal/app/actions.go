package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dshills/delegator/internal/delegate"
	"github.com/dshills/delegator/internal/element"
	"github.com/dshills/delegator/internal/term"
)

// Shared context keys written by the built-in actions.
const (
	KeyStatus   = "status"
	KeySelected = "selected"

	keySelectedElement = "selected.element"
)

// actionFactory builds a handler from a binding's arg.
type actionFactory func(arg string) delegate.HandlerFunc[*delegate.Context]

// actions is the table of built-in actions available to configuration
// bindings.
type actions struct {
	logger logrus.FieldLogger
	table  map[string]actionFactory
}

func newActions(logger logrus.FieldLogger) *actions {
	a := &actions{logger: logger}
	a.table = map[string]actionFactory{
		"select":  a.selectAction,
		"count":   a.countAction,
		"hover":   a.classAction(term.ClassHover, true),
		"unhover": a.classAction(term.ClassHover, false),
		"log":     a.logAction,
		"status":  a.statusAction,
	}
	return a
}

// Names returns the action names in sorted order.
func (a *actions) Names() []string {
	names := make([]string, 0, len(a.table))
	for name := range a.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *actions) handler(name, arg string) (delegate.HandlerFunc[*delegate.Context], error) {
	factory, ok := a.table[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownAction, name, strings.Join(a.Names(), ", "))
	}
	return factory(arg), nil
}

func targetElement(e delegate.Event) *element.Element {
	el, _ := e.Target().(*element.Element)
	return el
}

func targetID(e delegate.Event) string {
	if t := e.Target(); t != nil {
		return t.ID()
	}
	return ""
}

// selectAction moves the selected class to the target.
func (a *actions) selectAction(string) delegate.HandlerFunc[*delegate.Context] {
	return func(ctx *delegate.Context, e delegate.Event) {
		el := targetElement(e)
		if el == nil {
			return
		}
		if prev, ok := ctx.Get(keySelectedElement); ok {
			if prevEl, ok := prev.(*element.Element); ok && prevEl != el {
				prevEl.RemoveClass(term.ClassSelected)
			}
		}
		el.AddClass(term.ClassSelected)
		ctx.Set(keySelectedElement, el)
		ctx.Set(KeySelected, el.ID())
		ctx.Set(KeyStatus, "selected "+el.ID())
	}
}

// countAction increments the counter named by arg, or "count".
func (a *actions) countAction(arg string) delegate.HandlerFunc[*delegate.Context] {
	name := arg
	if name == "" {
		name = "count"
	}
	return func(ctx *delegate.Context, _ delegate.Event) {
		n := ctx.Incr(name)
		ctx.Set(KeyStatus, fmt.Sprintf("%s: %d", name, n))
	}
}

func (a *actions) classAction(class string, add bool) actionFactory {
	return func(string) delegate.HandlerFunc[*delegate.Context] {
		return func(_ *delegate.Context, e delegate.Event) {
			el := targetElement(e)
			if el == nil {
				return
			}
			if add {
				el.AddClass(class)
			} else {
				el.RemoveClass(class)
			}
		}
	}
}

// logAction logs the event with arg as the message.
func (a *actions) logAction(arg string) delegate.HandlerFunc[*delegate.Context] {
	msg := arg
	if msg == "" {
		msg = "event"
	}
	return func(_ *delegate.Context, e delegate.Event) {
		fields := logrus.Fields{
			"event":  e.Type(),
			"target": targetID(e),
		}
		if ev, ok := e.(*element.Event); ok && ev.Key != "" {
			fields["key"] = ev.Key
			if ev.Rune != 0 {
				fields["rune"] = string(ev.Rune)
			}
		}
		a.logger.WithFields(fields).Info(msg)
	}
}

// statusAction sets the status line to arg, or describes the event.
func (a *actions) statusAction(arg string) delegate.HandlerFunc[*delegate.Context] {
	return func(ctx *delegate.Context, e delegate.Event) {
		if arg != "" {
			ctx.Set(KeyStatus, arg)
			return
		}
		ctx.Set(KeyStatus, e.Type()+" on #"+targetID(e))
	}
}
