package delegate

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Observer is notified about dispatch activity. Observers run synchronously
// inside Dispatch and must not dispatch events themselves.
type Observer interface {
	// OnMatch is called after a matching binding's handler returned and, for
	// a stopping binding, after propagation was stopped.
	OnMatch(eventType string, b Binding)

	// OnDispatch is called once per dispatch, after all bindings ran.
	OnDispatch(r Result)
}

// Option configures a Dispatcher.
type Option func(*options)

type options struct {
	logger    logrus.FieldLogger
	observers []Observer
}

// WithLogger sets the logger used for subscription and dispatch tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver adds an observer. Observers are called in the order added.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

func defaultOptions() options {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return options{logger: l}
}
