package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/delegator/internal/delegate"
	"github.com/dshills/delegator/internal/element"
)

// forEachOrdered visits t in iteration order: the array part first, then the
// hash part in insertion order. LTable.ForEach does not preserve insertion
// order for string keys.
func forEachOrdered(t *lua.LTable, fn func(k, v lua.LValue) error) error {
	k, v := t.Next(lua.LNil)
	for k != lua.LNil {
		if err := fn(k, v); err != nil {
			return err
		}
		k, v = t.Next(k)
	}
	return nil
}

// ToGo converts a Lua value to a Go value. Integral numbers become int64,
// sequences become []any, other tables map[string]any. Functions convert
// to nil.
func ToGo(lv lua.LValue) any {
	return toGo(lv, make(map[*lua.LTable]bool))
}

func toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	count := 0
	_ = forEachOrdered(t, func(_, _ lua.LValue) error {
		count++
		return nil
	})

	if n := t.MaxN(); n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	_ = forEachOrdered(t, func(k, v lua.LValue) error {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		m[key] = toGo(v, visited)
		return nil
	})
	return m
}

// ToLua converts a Go value to a Lua value. Unknown types are formatted with
// fmt.Sprint.
func ToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case uint:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		t := L.NewTable()
		for i, s := range val {
			t.RawSetInt(i+1, lua.LString(s))
		}
		return t
	case []any:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, ToLua(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range val {
			t.RawSetString(k, ToLua(L, item))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

// eventTable exposes e to Lua.
func eventTable(L *lua.LState, e delegate.Event) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("type", lua.LString(e.Type()))

	if target := e.Target(); target != nil {
		tt := L.NewTable()
		tt.RawSetString("id", lua.LString(target.ID()))
		if el, ok := target.(interface{ Classes() []string }); ok {
			tt.RawSetString("classes", ToLua(L, el.Classes()))
		}
		if el, ok := target.(interface{ Label() string }); ok {
			tt.RawSetString("label", lua.LString(el.Label()))
		}
		t.RawSetString("target", tt)
	}

	if ev, ok := e.(*element.Event); ok {
		t.RawSetString("x", lua.LNumber(ev.X))
		t.RawSetString("y", lua.LNumber(ev.Y))
		t.RawSetString("button", lua.LString(ev.Button))
		t.RawSetString("key", lua.LString(ev.Key))
		if ev.Rune != 0 {
			t.RawSetString("rune", lua.LString(string(ev.Rune)))
		}
		t.RawSetString("modifiers", lua.LString(ev.Modifiers))
	}

	t.RawSetString("stop", L.NewFunction(func(L *lua.LState) int {
		e.StopPropagation()
		return 0
	}))
	return t
}
