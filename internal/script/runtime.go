package script

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single handler call.
const DefaultTimeout = 2 * time.Second

// Runtime is a sandboxed Lua state holding the shared self table.
type Runtime struct {
	L *lua.LState

	mu      sync.Mutex
	self    *lua.LTable
	logger  logrus.FieldLogger
	timeout time.Duration
	closed  bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger receiving print output and handler diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTimeout bounds each handler call. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// New creates a sandboxed runtime.
func New(opts ...Option) *Runtime {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Runtime{
		logger:  discard,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	installSandbox(r.L, r.logger)
	r.self = r.L.NewTable()
	return r
}

// Get returns a field of the shared context converted to a Go value.
func (r *Runtime) Get(key string) any {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	return ToGo(r.self.RawGetString(key))
}

// Set stores a Go value in the shared context.
func (r *Runtime) Set(key string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.self.RawSetString(key, ToLua(r.L, v))
}

// Snapshot returns the shared context as a Go map.
func (r *Runtime) Snapshot() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]any)
	if r.closed {
		return out
	}
	_ = forEachOrdered(r.self, func(k, v lua.LValue) error {
		if ks, ok := k.(lua.LString); ok {
			out[string(ks)] = ToGo(v)
		}
		return nil
	})
	return out
}

// Close releases the Lua state. Safe to call twice.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.L.Close()
	r.closed = true
}

// call invokes fn(self, arg) under the runtime lock and timeout.
func (r *Runtime) call(fn *lua.LFunction, arg func(L *lua.LState) lua.LValue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	if r.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.L.SetContext(ctx)
		defer r.L.RemoveContext()
	}

	return r.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, r.self, arg(r.L))
}
