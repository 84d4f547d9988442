package script

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/delegator/internal/delegate"
	"github.com/dshills/delegator/internal/element"
)

// page builds body > list > (a.item, b.item#b, save#save.button).
func page(t *testing.T) (body, list *element.Element, els map[string]*element.Element) {
	t.Helper()
	body = element.New("body")
	list = element.New("list")
	els = map[string]*element.Element{
		"a":    element.New("a", "item"),
		"b":    element.New("b", "item", "special"),
		"save": element.New("save", "button"),
	}
	if err := body.AppendChild(list); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"a", "b", "save"} {
		if err := list.AppendChild(els[id]); err != nil {
			t.Fatal(err)
		}
	}
	return body, list, els
}

func mustLoad(t *testing.T, rt *Runtime, src string) *delegate.Declaration[*Runtime] {
	t.Helper()
	decl, err := rt.LoadString("test.lua", src)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}
	return decl
}

func TestLoadPreservesOrder(t *testing.T) {
	rt := New()
	defer rt.Close()

	decl := mustLoad(t, rt, `
		local f = function(self, e) end
		return {
			mouseover = { zeta = f, alpha = f, mid = f },
			click = { item = f },
			keydown = { item = f },
		}`)

	types := decl.Types()
	want := []string{"mouseover", "click", "keydown"}
	if len(types) != len(want) {
		t.Fatalf("Types() = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("Types()[%d] = %s, want %s", i, types[i], want[i])
		}
	}

	reg, err := delegate.NewRegistry(rt, decl)
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	for _, b := range reg.Lookup("mouseover") {
		keys = append(keys, b.Matcher.Key)
	}
	if len(keys) != 3 || keys[0] != "zeta" || keys[1] != "alpha" || keys[2] != "mid" {
		t.Errorf("mouseover keys = %v, want [zeta alpha mid]", keys)
	}
}

func TestLuaHandlersShareSelf(t *testing.T) {
	_, list, els := page(t)
	rt := New()
	defer rt.Close()

	decl := mustLoad(t, rt, `
		return {
			click = {
				item = function(self, e)
					self.count = (self.count or 0) + 1
					self.last = e.target.id
				end,
			},
			keydown = {
				item = function(self, e)
					self.seen_count = self.count
					self.key = e.key
				end,
			},
		}`)

	if _, err := delegate.New(list, rt, decl); err != nil {
		t.Fatal(err)
	}

	els["a"].DispatchEvent(element.NewEvent(element.TypeClick, nil))
	els["b"].DispatchEvent(element.NewEvent(element.TypeClick, nil))
	els["save"].DispatchEvent(element.NewEvent(element.TypeClick, nil))

	key := element.NewEvent(element.TypeKeyDown, nil)
	key.Key = "Enter"
	els["a"].DispatchEvent(key)

	if got := rt.Get("count"); got != int64(2) {
		t.Errorf("count = %v, want 2", got)
	}
	if got := rt.Get("last"); got != "b" {
		t.Errorf("last = %v, want b", got)
	}
	if got := rt.Get("seen_count"); got != int64(2) {
		t.Errorf("seen_count = %v, want 2", got)
	}
	if got := rt.Get("key"); got != "Enter" {
		t.Errorf("key = %v, want Enter", got)
	}
}

func TestVerboseBinding(t *testing.T) {
	body, list, els := page(t)
	rt := New()
	defer rt.Close()

	decl := mustLoad(t, rt, `
		return {
			click = {
				save = { func = function(self, e) self.saved = true end, type = "id", stop = true },
				special = { func = function(self, e) self.special = true end },
				button = function(self, e) self.by_class = true end,
			},
		}`)

	d, err := delegate.New(list, rt, decl)
	if err != nil {
		t.Fatal(err)
	}
	bubbled := false
	body.Observe(element.TypeClick, func(delegate.Event) { bubbled = true })

	e := element.NewEvent(element.TypeClick, nil)
	els["save"].DispatchEvent(e)

	if rt.Get("saved") != true {
		t.Error("id-matched verbose handler did not run")
	}
	if rt.Get("by_class") != true {
		t.Error("class binding after a stopping binding should still run")
	}
	if !e.Stopped() || bubbled {
		t.Error("stop = true should halt bubbling past the root")
	}

	els["b"].DispatchEvent(element.NewEvent(element.TypeClick, nil))
	if rt.Get("special") != true {
		t.Error("verbose binding without type should match by class")
	}

	bs := d.Registry().Lookup(element.TypeClick)
	if bs[0].Matcher != delegate.ByID("save") || !bs[0].Stop {
		t.Errorf("binding 0 = %v", bs[0])
	}
	if bs[1].Matcher != delegate.ByClass("special") || bs[1].Stop {
		t.Errorf("binding 1 = %v", bs[1])
	}
}

func TestLuaStopAndEventFields(t *testing.T) {
	body, list, els := page(t)
	rt := New()
	defer rt.Close()

	decl := mustLoad(t, rt, `
		return {
			mousedown = {
				item = function(self, e)
					self.type = e.type
					self.x = e.x
					self.button = e.button
					self.classes = table.concat(e.target.classes, ",")
					e.stop()
				end,
			},
		}`)
	if _, err := delegate.New(list, rt, decl); err != nil {
		t.Fatal(err)
	}
	bubbled := false
	body.Observe(element.TypeMouseDown, func(delegate.Event) { bubbled = true })

	e := element.NewEvent(element.TypeMouseDown, nil)
	e.X, e.Y = 4, 2
	e.Button = "left"
	els["b"].DispatchEvent(e)

	if bubbled {
		t.Error("e.stop() should halt bubbling")
	}
	snap := rt.Snapshot()
	if snap["type"] != "mousedown" || snap["x"] != int64(4) || snap["button"] != "left" {
		t.Errorf("snapshot = %v", snap)
	}
	if snap["classes"] != "item,special" {
		t.Errorf("classes = %v, want item,special", snap["classes"])
	}
}

func TestMalformedBindingFailsConstruction(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"verbose without func", `return { click = { a = { type = "id" } } }`},
		{"func not a function", `return { click = { a = { func = "nope" } } }`},
		{"scalar binding", `return { click = { a = 42 } }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, list, _ := page(t)
			rt := New()
			defer rt.Close()

			decl := mustLoad(t, rt, tt.src)
			_, err := delegate.New(list, rt, decl)
			if !errors.Is(err, delegate.ErrMalformedBinding) {
				t.Fatalf("err = %v, want ErrMalformedBinding", err)
			}
			if list.ListenerCount(element.TypeClick) != 0 {
				t.Error("malformed declaration should not subscribe")
			}
		})
	}
}

func TestVerboseStopCoercion(t *testing.T) {
	tests := []struct {
		stop    string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"false", false, false},
		{"nil", false, false},
		{"1", true, false},
		{"0", false, false},
		{"0.5", true, false},
		{`"true"`, true, false},
		{`"1"`, true, false},
		{`"false"`, false, false},
		{`""`, false, false},
		{`"yes"`, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.stop, func(t *testing.T) {
			rt := New()
			defer rt.Close()

			decl, err := rt.LoadString("stop.lua",
				`return { click = { a = { func = function() end, stop = `+tt.stop+` } } }`)
			if tt.wantErr {
				if !errors.Is(err, delegate.ErrMalformedBinding) {
					t.Fatalf("err = %v, want ErrMalformedBinding", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			reg, err := delegate.NewRegistry(rt, decl)
			if err != nil {
				t.Fatal(err)
			}
			if got := reg.Lookup(element.TypeClick)[0].Stop; got != tt.want {
				t.Errorf("Stop = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"not a table", `return 1`, ErrNotTable},
		{"nothing returned", `local x = 1`, ErrNotTable},
		{"event not a table", `return { click = true }`, delegate.ErrMalformedBinding},
		{"bad verbose field", `return { click = { a = { func = function() end, stop = {} } } }`, delegate.ErrMalformedBinding},
		{"numeric key", `return { click = { [1] = function() end } }`, delegate.ErrInvalidKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := New()
			defer rt.Close()

			_, err := rt.LoadString("bad.lua", tt.src)
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("err = %v, want *LoadError", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	rt := New()
	defer rt.Close()
	if _, err := rt.LoadString("syntax.lua", `return {`); err == nil {
		t.Error("syntax error should fail")
	}
	if _, err := rt.LoadFile("does-not-exist.lua"); err == nil {
		t.Error("missing file should fail")
	}
}

func TestHandlerErrorPanics(t *testing.T) {
	_, list, els := page(t)
	rt := New()
	defer rt.Close()

	decl := mustLoad(t, rt, `return { click = { item = function(self, e) error("boom") end } }`)
	if _, err := delegate.New(list, rt, decl); err != nil {
		t.Fatal(err)
	}

	defer func() {
		r := recover()
		herr, ok := r.(*HandlerError)
		if !ok {
			t.Fatalf("recovered %v, want *HandlerError", r)
		}
		if herr.EventType != element.TypeClick || herr.Key != "item" {
			t.Errorf("HandlerError = %+v", herr)
		}
	}()
	els["a"].DispatchEvent(element.NewEvent(element.TypeClick, nil))
	t.Fatal("expected panic")
}

func TestHandlerTimeout(t *testing.T) {
	_, list, els := page(t)
	rt := New(WithTimeout(50 * time.Millisecond))
	defer rt.Close()

	decl := mustLoad(t, rt, `return { click = { item = function(self, e) while true do end end } }`)
	if _, err := delegate.New(list, rt, decl); err != nil {
		t.Fatal(err)
	}

	panicked := func() (p bool) {
		defer func() { p = recover() != nil }()
		els["a"].DispatchEvent(element.NewEvent(element.TypeClick, nil))
		return false
	}()
	if !panicked {
		t.Error("runaway handler should be interrupted")
	}
}

func TestSandbox(t *testing.T) {
	rt := New()
	defer rt.Close()

	_, err := rt.LoadString("probe.lua", `
		for _, name in ipairs({"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug"}) do
			if _G[name] ~= nil then error("exposed: " .. name) end
		end
		assert(string.upper("x") == "X")
		assert(math.max(1, 2) == 2)
		assert(table.concat({"a", "b"}) == "ab")
		return {}
	`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestPrintGoesToLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	rt := New(WithLogger(logger))
	defer rt.Close()

	mustLoad(t, rt, `print("hello", 42) return {}`)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no log entry")
	}
	if entry.Message != "hello\t42" || entry.Level != logrus.InfoLevel {
		t.Errorf("entry = %q at %v", entry.Message, entry.Level)
	}
	if entry.Data["source"] != "lua" {
		t.Errorf("source = %v, want lua", entry.Data["source"])
	}
}

func TestGetSet(t *testing.T) {
	rt := New()
	defer rt.Close()

	rt.Set("name", "x")
	rt.Set("n", 3)
	rt.Set("tags", []string{"a", "b"})

	if rt.Get("name") != "x" || rt.Get("n") != int64(3) {
		t.Errorf("Get = %v %v", rt.Get("name"), rt.Get("n"))
	}
	tags, ok := rt.Get("tags").([]any)
	if !ok || len(tags) != 2 || tags[1] != "b" {
		t.Errorf("tags = %v", rt.Get("tags"))
	}

	rt.Close()
	rt.Close()
	if rt.Get("name") != nil {
		t.Error("Get after Close should return nil")
	}
	if _, err := rt.LoadString("x", "return {}"); !errors.Is(err, ErrClosed) {
		t.Errorf("LoadString after Close err = %v, want ErrClosed", err)
	}
}

func TestToGo(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(`
		seq = {1, 2, 3}
		rec = {a = 1.5, b = "x"}
		cyc = {}
		cyc.self = cyc
	`); err != nil {
		t.Fatal(err)
	}

	seq, ok := ToGo(L.GetGlobal("seq")).([]any)
	if !ok || len(seq) != 3 || seq[2] != int64(3) {
		t.Errorf("seq = %v", seq)
	}
	rec, ok := ToGo(L.GetGlobal("rec")).(map[string]any)
	if !ok || rec["a"] != 1.5 || rec["b"] != "x" {
		t.Errorf("rec = %v", rec)
	}
	cyc, ok := ToGo(L.GetGlobal("cyc")).(map[string]any)
	if !ok || cyc["self"] != nil {
		t.Errorf("cyc = %v", cyc)
	}
	if ToGo(lua.LNil) != nil {
		t.Error("nil should convert to nil")
	}
}
