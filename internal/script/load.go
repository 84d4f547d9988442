package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/delegator/internal/delegate"
)

// verboseFields are the non-function fields of a verbose binding table.
type verboseFields struct {
	Type string `mapstructure:"type"`
	Stop bool   `mapstructure:"stop"`
}

// LoadFile runs the script at path and decodes the table it returns.
func (r *Runtime) LoadFile(path string) (*delegate.Declaration[*Runtime], error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Name: path, Err: err}
	}
	return r.LoadString(path, string(src))
}

// LoadString runs src and decodes the table it returns.
//
// Structural problems (non-string keys, an event mapped to something other
// than a table, verbose fields of the wrong type) fail here. A binding with a
// missing or non-function handler is kept in the declaration so that
// dispatcher construction reports it as a malformed binding.
func (r *Runtime) LoadString(name, src string) (*delegate.Declaration[*Runtime], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	fn, err := r.L.Load(strings.NewReader(src), name)
	if err != nil {
		return nil, &LoadError{Name: name, Err: err}
	}

	if r.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.L.SetContext(ctx)
		defer r.L.RemoveContext()
	}

	r.L.Push(fn)
	if err := r.L.PCall(0, 1, nil); err != nil {
		return nil, &LoadError{Name: name, Err: err}
	}
	ret := r.L.Get(-1)
	r.L.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, &LoadError{Name: name, Err: ErrNotTable}
	}

	decl, err := r.decode(tbl)
	if err != nil {
		return nil, &LoadError{Name: name, Err: err}
	}
	return decl, nil
}

func (r *Runtime) decode(tbl *lua.LTable) (*delegate.Declaration[*Runtime], error) {
	decl := delegate.NewDeclaration[*Runtime]()
	var errs []error

	_ = forEachOrdered(tbl, func(k, v lua.LValue) error {
		eventType, ok := k.(lua.LString)
		if !ok || eventType == "" {
			errs = append(errs, &delegate.BindingError{EventType: k.String(), Err: delegate.ErrInvalidEventType})
			return nil
		}
		bindings, ok := v.(*lua.LTable)
		if !ok {
			errs = append(errs, &delegate.BindingError{
				EventType: string(eventType),
				Err:       fmt.Errorf("%w: got %s, want table", delegate.ErrMalformedBinding, v.Type()),
			})
			return nil
		}

		decl.Declare(string(eventType))
		return forEachOrdered(bindings, func(bk, bv lua.LValue) error {
			key, ok := bk.(lua.LString)
			if !ok {
				errs = append(errs, &delegate.BindingError{
					EventType: string(eventType),
					Key:       bk.String(),
					Err:       delegate.ErrInvalidKey,
				})
				return nil
			}
			spec, err := r.bindingSpec(string(eventType), string(key), bv)
			if err != nil {
				errs = append(errs, &delegate.BindingError{EventType: string(eventType), Key: string(key), Err: err})
				return nil
			}
			decl.Add(string(eventType), string(key), spec)
			return nil
		})
	})

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return decl, nil
}

func (r *Runtime) bindingSpec(eventType, key string, v lua.LValue) (delegate.BindingSpec[*Runtime], error) {
	switch val := v.(type) {
	case *lua.LFunction:
		return delegate.Shorthand(handler(eventType, key, val)), nil

	case *lua.LTable:
		var fields verboseFields
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &fields,
		})
		if err != nil {
			return delegate.BindingSpec[*Runtime]{}, err
		}
		if err := dec.Decode(ToGo(val)); err != nil {
			return delegate.BindingSpec[*Runtime]{}, fmt.Errorf("%w: %v", delegate.ErrMalformedBinding, err)
		}

		var fn delegate.HandlerFunc[*Runtime]
		if lf, ok := val.RawGetString("func").(*lua.LFunction); ok {
			fn = handler(eventType, key, lf)
		}
		return delegate.Verbose(fn, fields.Type, fields.Stop), nil

	default:
		return delegate.Shorthand[*Runtime](nil), nil
	}
}

// handler wraps a Lua function as a delegation handler. Lua errors panic
// with *HandlerError.
func handler(eventType, key string, fn *lua.LFunction) delegate.HandlerFunc[*Runtime] {
	return func(rt *Runtime, e delegate.Event) {
		err := rt.call(fn, func(L *lua.LState) lua.LValue {
			return eventTable(L, e)
		})
		if err != nil {
			rt.logger.WithFields(logrus.Fields{
				"event": eventType,
				"key":   key,
			}).WithError(err).Error("lua handler failed")
			panic(&HandlerError{EventType: eventType, Key: key, Err: err})
		}
	}
}
