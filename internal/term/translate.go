package term

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/delegator/internal/element"
)

const (
	pressMask = tcell.Button1 | tcell.Button2 | tcell.Button3
	wheelMask = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight
)

// Translator converts tcell events into element events.
//
// It is stateful: it remembers the button state and pressed element to
// synthesize click, the hovered element to synthesize mouseover/mouseout,
// and the focused element that receives keydown.
type Translator struct {
	doc *element.Document

	buttons tcell.ButtonMask
	pressed *element.Element
	hover   *element.Element
	focus   *element.Element
}

// NewTranslator creates a translator over doc. Focus starts at the root.
func NewTranslator(doc *element.Document) *Translator {
	return &Translator{doc: doc, focus: doc.Root()}
}

// Focus returns the element receiving key events.
func (t *Translator) Focus() *element.Element {
	return t.focus
}

// SetFocus moves keyboard focus. A nil element resets focus to the root.
func (t *Translator) SetFocus(el *element.Element) {
	if el == nil {
		el = t.doc.Root()
	}
	t.focus = el
}

// Hover returns the element under the pointer, or nil.
func (t *Translator) Hover() *element.Element {
	return t.hover
}

// Translate returns the element events for ev in delivery order. Events that
// have no element to target are dropped.
func (t *Translator) Translate(ev tcell.Event) []*element.Event {
	switch e := ev.(type) {
	case *tcell.EventMouse:
		return t.mouse(e)
	case *tcell.EventKey:
		return t.key(e)
	default:
		return nil
	}
}

func (t *Translator) mouse(e *tcell.EventMouse) []*element.Event {
	x, y := e.Position()
	target := t.doc.HitTest(x, y)
	mods := modNames(e.Modifiers())
	buttons := e.Buttons()

	var out []*element.Event
	emit := func(typ string, el *element.Element, button string) {
		if el == nil {
			return
		}
		ev := element.NewEvent(typ, el)
		ev.X, ev.Y = x, y
		ev.Button = button
		ev.Modifiers = mods
		out = append(out, ev)
	}

	if target != t.hover {
		emit(element.TypeMouseOut, t.hover, "")
		emit(element.TypeMouseOver, target, "")
		t.hover = target
	}

	if buttons&wheelMask != 0 {
		emit(element.TypeWheel, target, buttonName(buttons&wheelMask))
		return out
	}

	pressed := buttons & pressMask
	switch {
	case pressed != 0 && t.buttons == 0:
		emit(element.TypeMouseDown, target, buttonName(pressed))
		t.pressed = target
		if target != nil {
			t.focus = target
		}
	case pressed == 0 && t.buttons != 0:
		button := buttonName(t.buttons)
		emit(element.TypeMouseUp, target, button)
		if target != nil && target == t.pressed {
			emit(element.TypeClick, target, button)
		}
		t.pressed = nil
	default:
		emit(element.TypeMouseMove, target, buttonName(pressed))
	}
	t.buttons = pressed
	return out
}

func (t *Translator) key(e *tcell.EventKey) []*element.Event {
	if t.focus == nil {
		return nil
	}
	ev := element.NewEvent(element.TypeKeyDown, t.focus)
	ev.Key = keyName(e.Key())
	if e.Key() == tcell.KeyRune {
		ev.Rune = e.Rune()
	}
	ev.Modifiers = modNames(e.Modifiers())
	return []*element.Event{ev}
}

func keyName(k tcell.Key) string {
	if k == tcell.KeyRune {
		return "Rune"
	}
	if name, ok := tcell.KeyNames[k]; ok {
		return name
	}
	return "Unknown"
}

func modNames(m tcell.ModMask) string {
	var parts []string
	if m&tcell.ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if m&tcell.ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if m&tcell.ModMeta != 0 {
		parts = append(parts, "meta")
	}
	if m&tcell.ModShift != 0 {
		parts = append(parts, "shift")
	}
	return strings.Join(parts, "+")
}

func buttonName(b tcell.ButtonMask) string {
	switch {
	case b&tcell.Button1 != 0:
		return "left"
	case b&tcell.Button2 != 0:
		return "middle"
	case b&tcell.Button3 != 0:
		return "right"
	case b&tcell.WheelUp != 0:
		return "wheel-up"
	case b&tcell.WheelDown != 0:
		return "wheel-down"
	case b&tcell.WheelLeft != 0:
		return "wheel-left"
	case b&tcell.WheelRight != 0:
		return "wheel-right"
	default:
		return ""
	}
}
