package delegate_test

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/dshills/delegator/internal/delegate"
)

func TestNewSubscribesOncePerEventType(t *testing.T) {
	noop := func(*delegate.Context, delegate.Event) {}
	decl := delegate.NewDeclaration[*delegate.Context]().
		Add("click", "a", delegate.Shorthand(noop)).
		Add("click", "b", delegate.Shorthand(noop)).
		Add("mouseover", "a", delegate.Shorthand(noop)).
		Declare("keydown")

	root := newFakeRoot()
	d, err := delegate.NewWithContext(root, decl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !slices.Equal(root.order, []string{"click", "mouseover", "keydown"}) {
		t.Errorf("Observe order = %v", root.order)
	}
	for typ, ls := range root.listeners {
		if len(ls) != 1 {
			t.Errorf("%s: %d listeners, want 1", typ, len(ls))
		}
	}
	if d.Phase() != delegate.PhaseSubscribed {
		t.Errorf("Phase() = %v, want subscribed", d.Phase())
	}
	if d.Root() != delegate.Root(root) {
		t.Error("Root() should return the observed root")
	}
}

func TestNewMalformedFailsBeforeSubscribing(t *testing.T) {
	noop := func(*delegate.Context, delegate.Event) {}
	decl := delegate.NewDeclaration[*delegate.Context]().
		Add("click", "ok", delegate.Shorthand(noop)).
		Add("click", "broken", delegate.BindingSpec[*delegate.Context]{Type: "id"})

	root := newFakeRoot()
	d, err := delegate.NewWithContext(root, decl)
	if !errors.Is(err, delegate.ErrMalformedBinding) {
		t.Fatalf("expected ErrMalformedBinding, got %v", err)
	}
	if d != nil {
		t.Error("expected nil dispatcher")
	}
	if len(root.order) != 0 {
		t.Errorf("no listener may be attached on error, got %v", root.order)
	}
}

func TestNewNilRoot(t *testing.T) {
	_, err := delegate.NewWithContext(nil, delegate.NewDeclaration[*delegate.Context]())
	if !errors.Is(err, delegate.ErrNilRoot) {
		t.Errorf("expected ErrNilRoot, got %v", err)
	}
}

func TestNewFromID(t *testing.T) {
	root := newFakeRoot()
	resolver := fakeResolver{"slider": root}
	decl := delegate.NewDeclaration[*delegate.Context]().Declare("click")

	d, err := delegate.NewFromID(resolver, "slider", delegate.NewContext(), decl)
	if err != nil {
		t.Fatalf("NewFromID: %v", err)
	}
	if d.Root() != delegate.Root(root) {
		t.Error("expected resolved root")
	}

	_, err = delegate.NewFromID(resolver, "missing", delegate.NewContext(), decl)
	var re *delegate.RootError
	if !errors.As(err, &re) || re.ID != "missing" {
		t.Errorf("expected RootError for missing, got %v", err)
	}

	_, err = delegate.NewFromID[*delegate.Context](nil, "slider", delegate.NewContext(), decl)
	if !errors.Is(err, delegate.ErrNilResolver) {
		t.Errorf("expected ErrNilResolver, got %v", err)
	}
}

func TestDispatchFiresAllMatchesInOrder(t *testing.T) {
	var trace []string
	decl := delegate.NewDeclaration[*delegate.Context]().
		Add("click", "row", delegate.Shorthand(tracer(&trace, "row"))).
		Add("click", "item7", delegate.Verbose(tracer(&trace, "item7"), "id", false)).
		Add("click", "other", delegate.Shorthand(tracer(&trace, "other"))).
		Add("click", "selected", delegate.Verbose(tracer(&trace, "selected"), "class", false)).
		Add("click", "item", delegate.Verbose(tracer(&trace, "item-id"), "id", false))

	root := newFakeRoot()
	d, err := delegate.NewWithContext(root, decl)
	if err != nil {
		t.Fatal(err)
	}

	target := &fakeElement{id: "item7", classes: []string{"row", "selected"}}
	r := d.Dispatch("click", &fakeEvent{typ: "click", target: target})

	if !slices.Equal(trace, []string{"row", "item7", "selected"}) {
		t.Errorf("trace = %v", trace)
	}
	if r.Evaluated != 5 || r.Matched != 3 || r.StopRequested {
		t.Errorf("Result = %+v", r)
	}
}

func TestDispatchKOfN(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for k := 0; k <= n; k++ {
			t.Run(fmt.Sprintf("n%d_k%d", n, k), func(t *testing.T) {
				calls := make([]int, n)
				decl := delegate.NewDeclaration[*delegate.Context]()
				classes := []string{}
				for i := 0; i < n; i++ {
					key := fmt.Sprintf("c%d", i)
					decl.Add("click", key, delegate.Shorthand(func(*delegate.Context, delegate.Event) {
						calls[i]++
					}))
					if i < k {
						classes = append(classes, key)
					}
				}

				root := newFakeRoot()
				if _, err := delegate.NewWithContext(root, decl); err != nil {
					t.Fatal(err)
				}
				root.fire(&fakeEvent{typ: "click", target: &fakeElement{classes: classes}})

				for i, c := range calls {
					want := 0
					if i < k {
						want = 1
					}
					if c != want {
						t.Errorf("handler %d called %d times, want %d", i, c, want)
					}
				}
			})
		}
	}
}

func TestDispatchNoMatchIsNoop(t *testing.T) {
	var trace []string
	decl := delegate.NewDeclaration[*delegate.Context]().
		Add("click", "a", delegate.Verbose(tracer(&trace, "a"), "", true))

	root := newFakeRoot()
	d, err := delegate.NewWithContext(root, decl)
	if err != nil {
		t.Fatal(err)
	}

	e := &fakeEvent{typ: "click", target: &fakeElement{id: "a"}}
	r := d.Dispatch("click", e)
	if len(trace) != 0 || e.stops != 0 || r.Matched != 0 {
		t.Errorf("expected no-op, trace=%v stops=%d result=%+v", trace, e.stops, r)
	}

	r = d.Dispatch("scroll", e)
	if r.Evaluated != 0 {
		t.Errorf("undeclared event should evaluate nothing, got %+v", r)
	}
}

func TestDispatchStopIsPerBinding(t *testing.T) {
	var trace []string
	decl := delegate.NewDeclaration[*delegate.Context]().
		Add("click", "one", delegate.Verbose(tracer(&trace, "h1"), "class", false)).
		Add("click", "two", delegate.Verbose(tracer(&trace, "h2"), "class", true))

	root := newFakeRoot()
	if _, err := delegate.NewWithContext(root, decl); err != nil {
		t.Fatal(err)
	}

	e := &fakeEvent{typ: "click", target: &fakeElement{classes: []string{"one", "two"}}, trace: &trace}
	root.fire(e)

	if !slices.Equal(trace, []string{"h1", "h2", "stop"}) {
		t.Errorf("trace = %v, want [h1 h2 stop]", trace)
	}
	if e.stops != 1 {
		t.Errorf("StopPropagation called %d times, want 1", e.stops)
	}
}

func TestDispatchStopDoesNotSuppressLaterBindings(t *testing.T) {
	var trace []string
	decl := delegate.NewDeclaration[*delegate.Context]().
		Add("click", "one", delegate.Verbose(tracer(&trace, "h1"), "class", true)).
		Add("click", "two", delegate.Verbose(tracer(&trace, "h2"), "class", false)).
		Add("click", "three", delegate.Verbose(tracer(&trace, "h3"), "class", true))

	root := newFakeRoot()
	d, err := delegate.NewWithContext(root, decl)
	if err != nil {
		t.Fatal(err)
	}

	e := &fakeEvent{typ: "click", target: &fakeElement{classes: []string{"one", "two", "three"}}, trace: &trace}
	r := d.Dispatch("click", e)

	if !slices.Equal(trace, []string{"h1", "stop", "h2", "h3", "stop"}) {
		t.Errorf("trace = %v", trace)
	}
	if !r.StopRequested || r.Matched != 3 {
		t.Errorf("Result = %+v", r)
	}
	if s := d.Stats(); s.Dispatched != 1 || s.Matched != 3 || s.Stopped != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestDispatchSpecExample(t *testing.T) {
	var trace []string
	decl := delegate.NewDeclaration[*delegate.Context]().
		Add("click", "itemA", delegate.Verbose(tracer(&trace, "h1"), "id", false)).
		Add("click", "group", delegate.Verbose(tracer(&trace, "h2"), "class", true))

	root := newFakeRoot()
	if _, err := delegate.NewWithContext(root, decl); err != nil {
		t.Fatal(err)
	}

	e := &fakeEvent{typ: "click", target: &fakeElement{id: "itemA", classes: []string{"group"}}, trace: &trace}
	root.fire(e)

	if !slices.Equal(trace, []string{"h1", "h2", "stop"}) {
		t.Errorf("trace = %v", trace)
	}
}

func TestShorthandAndVerboseEquivalent(t *testing.T) {
	targets := []*fakeElement{
		{id: "x"},
		{classes: []string{"x"}},
		{id: "x", classes: []string{"x", "y"}},
		{classes: []string{"y"}},
	}

	run := func(spec delegate.BindingSpec[*delegate.Context]) []int {
		var calls, stops []int
		count := 0
		spec.Func = func(*delegate.Context, delegate.Event) { count++ }
		root := newFakeRoot()
		if _, err := delegate.NewWithContext(root, delegate.NewDeclaration[*delegate.Context]().Add("click", "x", spec)); err != nil {
			t.Fatal(err)
		}
		for _, target := range targets {
			e := &fakeEvent{typ: "click", target: target}
			root.fire(e)
			stops = append(stops, e.stops)
		}
		calls = append(calls, count)
		return append(calls, stops...)
	}

	short := run(delegate.Shorthand[*delegate.Context](nil))
	verbose := run(delegate.Verbose[*delegate.Context](nil, "class", false))
	untyped := run(delegate.Verbose[*delegate.Context](nil, "", false))

	if !slices.Equal(short, verbose) || !slices.Equal(short, untyped) {
		t.Errorf("shorthand %v, verbose %v, untyped %v", short, verbose, untyped)
	}
}

func TestSharedContextAcrossEventTypes(t *testing.T) {
	var seen int
	decl := delegate.NewDeclaration[*delegate.Context]().
		Add("click", "btn", delegate.Shorthand(func(c *delegate.Context, _ delegate.Event) {
			c.Set("count", 1)
		})).
		Add("mouseover", "panel", delegate.Verbose(func(c *delegate.Context, _ delegate.Event) {
			seen = c.Int("count")
		}, "id", false))

	root := newFakeRoot()
	d, err := delegate.NewWithContext(root, decl)
	if err != nil {
		t.Fatal(err)
	}

	root.fire(&fakeEvent{typ: "click", target: &fakeElement{classes: []string{"btn"}}})
	root.fire(&fakeEvent{typ: "mouseover", target: &fakeElement{id: "panel"}})

	if seen != 1 {
		t.Errorf("mouseover handler saw count=%d, want 1", seen)
	}
	if d.Context().Int("count") != 1 {
		t.Error("Context() should expose the shared state")
	}
}

type counterState struct {
	clicks int
	last   string
}

func TestDispatcherCustomState(t *testing.T) {
	state := &counterState{}
	decl := delegate.NewDeclaration[*counterState]().
		Add("click", "btn", delegate.Shorthand(func(s *counterState, e delegate.Event) {
			s.clicks++
			s.last = e.Target().ID()
		}))

	root := newFakeRoot()
	d, err := delegate.New(root, state, decl)
	if err != nil {
		t.Fatal(err)
	}

	root.fire(&fakeEvent{typ: "click", target: &fakeElement{id: "a", classes: []string{"btn"}}})
	root.fire(&fakeEvent{typ: "click", target: &fakeElement{id: "b", classes: []string{"btn"}}})

	if d.Context() != state || state.clicks != 2 || state.last != "b" {
		t.Errorf("state = %+v", state)
	}
}

func TestHandlerPanicPropagates(t *testing.T) {
	var trace []string
	decl := delegate.NewDeclaration[*delegate.Context]().
		Add("click", "a", delegate.Shorthand(func(*delegate.Context, delegate.Event) {
			panic("boom")
		})).
		Add("click", "a2", delegate.Shorthand(tracer(&trace, "later")))

	root := newFakeRoot()
	if _, err := delegate.NewWithContext(root, decl); err != nil {
		t.Fatal(err)
	}

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("recovered %v, want boom", r)
			}
		}()
		root.fire(&fakeEvent{typ: "click", target: &fakeElement{classes: []string{"a", "a2"}}})
	}()

	if len(trace) != 0 {
		t.Errorf("later binding must not run after a panic, trace = %v", trace)
	}
}

type recordingObserver struct {
	matches []string
	results []delegate.Result
}

func (o *recordingObserver) OnMatch(eventType string, b delegate.Binding) {
	o.matches = append(o.matches, eventType+" "+b.String())
}

func (o *recordingObserver) OnDispatch(r delegate.Result) {
	o.results = append(o.results, r)
}

func TestObserver(t *testing.T) {
	noop := func(*delegate.Context, delegate.Event) {}
	decl := delegate.NewDeclaration[*delegate.Context]().
		Add("click", "a", delegate.Verbose(noop, "id", true)).
		Add("click", "b", delegate.Shorthand(noop))

	obs := &recordingObserver{}
	root := newFakeRoot()
	if _, err := delegate.NewWithContext(root, decl, delegate.WithObserver(obs), delegate.WithLogger(nil)); err != nil {
		t.Fatal(err)
	}

	root.fire(&fakeEvent{typ: "click", target: &fakeElement{id: "a", classes: []string{"b"}}})
	root.fire(&fakeEvent{typ: "click", target: &fakeElement{id: "z"}})

	if !slices.Equal(obs.matches, []string{"click #a (stop)", "click .b"}) {
		t.Errorf("matches = %v", obs.matches)
	}
	if len(obs.results) != 2 || obs.results[0].Matched != 2 || obs.results[1].Matched != 0 {
		t.Errorf("results = %+v", obs.results)
	}
}

type tracingObserver struct {
	trace *[]string
}

func (o tracingObserver) OnMatch(_ string, b delegate.Binding) {
	*o.trace = append(*o.trace, "observe "+b.Matcher.Key)
}

func (o tracingObserver) OnDispatch(delegate.Result) {}

func TestObserverRunsAfterStop(t *testing.T) {
	var trace []string
	decl := delegate.NewDeclaration[*delegate.Context]().
		Add("click", "one", delegate.Verbose(tracer(&trace, "h1"), "class", true)).
		Add("click", "two", delegate.Shorthand(tracer(&trace, "h2")))

	root := newFakeRoot()
	if _, err := delegate.NewWithContext(root, decl, delegate.WithObserver(tracingObserver{&trace})); err != nil {
		t.Fatal(err)
	}

	root.fire(&fakeEvent{typ: "click", target: &fakeElement{classes: []string{"one", "two"}}, trace: &trace})

	want := []string{"h1", "stop", "observe one", "h2", "observe two"}
	if !slices.Equal(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
}

type panickingObserver struct{}

func (panickingObserver) OnMatch(string, delegate.Binding) { panic("observer failed") }
func (panickingObserver) OnDispatch(delegate.Result)       {}

func TestPanickingObserverKeepsStop(t *testing.T) {
	noop := func(*delegate.Context, delegate.Event) {}
	decl := delegate.NewDeclaration[*delegate.Context]().
		Add("click", "a", delegate.Verbose(noop, "id", true))

	root := newFakeRoot()
	if _, err := delegate.NewWithContext(root, decl, delegate.WithObserver(panickingObserver{})); err != nil {
		t.Fatal(err)
	}

	e := &fakeEvent{typ: "click", target: &fakeElement{id: "a"}}
	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected observer panic to propagate")
			}
		}()
		root.fire(e)
	}()

	if e.stops != 1 {
		t.Errorf("StopPropagation called %d times, want 1", e.stops)
	}
}

func TestPhaseString(t *testing.T) {
	if delegate.PhaseUnsubscribed.String() != "unsubscribed" || delegate.PhaseSubscribed.String() != "subscribed" {
		t.Error("unexpected phase names")
	}
}
