package delegate

// Binding is one normalized row of a Registry.
type Binding struct {
	Matcher Matcher
	Stop    bool

	handler func(Event)
}

// Invoke calls the bound handler.
func (b Binding) Invoke(e Event) {
	b.handler(e)
}

func (b Binding) String() string {
	if b.Stop {
		return b.Matcher.String() + " (stop)"
	}
	return b.Matcher.String()
}

// normalize turns a spec into a Binding, fixing state as the handler's context.
func normalize[S any](state S, key string, spec BindingSpec[S]) (Binding, error) {
	if key == "" {
		return Binding{}, ErrInvalidKey
	}
	if spec.Func == nil {
		return Binding{}, ErrMalformedBinding
	}

	fn := spec.Func
	return Binding{
		Matcher: Matcher{Kind: MatchKindFor(spec.Type), Key: key},
		Stop:    spec.Stop,
		handler: func(e Event) { fn(state, e) },
	}, nil
}
