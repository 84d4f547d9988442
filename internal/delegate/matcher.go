package delegate

// MatchKind selects how a Matcher compares an element.
type MatchKind uint8

const (
	// MatchClass matches elements carrying the key in their class list.
	MatchClass MatchKind = iota

	// MatchID matches elements whose id equals the key.
	MatchID
)

// String returns the declaration name of the kind.
func (k MatchKind) String() string {
	if k == MatchID {
		return "id"
	}
	return "class"
}

// MatchKindFor maps a declared binding type to a MatchKind.
// Only the exact string "id" selects MatchID; anything else selects MatchClass.
func MatchKindFor(typ string) MatchKind {
	if typ == "id" {
		return MatchID
	}
	return MatchClass
}

// Matcher identifies which originating elements a binding applies to.
type Matcher struct {
	Kind MatchKind
	Key  string
}

// ByID returns a matcher comparing the element id exactly.
func ByID(id string) Matcher {
	return Matcher{Kind: MatchID, Key: id}
}

// ByClass returns a matcher testing class membership.
func ByClass(name string) Matcher {
	return Matcher{Kind: MatchClass, Key: name}
}

// Match reports whether el satisfies the matcher. A nil element never matches.
func (m Matcher) Match(el Element) bool {
	if el == nil {
		return false
	}
	switch m.Kind {
	case MatchID:
		return el.ID() == m.Key
	default:
		return el.HasClass(m.Key)
	}
}

// String returns a selector-like form: "#id" or ".class".
func (m Matcher) String() string {
	if m.Kind == MatchID {
		return "#" + m.Key
	}
	return "." + m.Key
}
