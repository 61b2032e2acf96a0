// Package rst implements the shift-reduce transition-based RST discourse
// parser: the state machine, action-validity predicate, action application,
// feature extractor, beam search driver, and training oracle described by
// the project's discourse-parsing specification.
package rst

import "fmt"

// ActionType distinguishes the three moves the parser can make.
type ActionType int

const (
	// Shift moves the EDU at the front of the queue onto the stack.
	Shift ActionType = iota

	// Unary pops the top of the stack and pushes a single-child node
	// labelled with the action's label.
	Unary

	// Binary pops the top two stack items and pushes a two-child node
	// labelled with the action's label, with the head percolated from the
	// nucleus child.
	Binary
)

// Code returns the one-letter action-type code used in the canonical
// "<type>:<label>" action-label strings classifiers are trained on.
func (t ActionType) Code() string {
	switch t {
	case Shift:
		return "S"
	case Unary:
		return "U"
	case Binary:
		return "B"
	default:
		return "?"
	}
}

func (t ActionType) String() string {
	switch t {
	case Shift:
		return "Shift"
	case Unary:
		return "Unary"
	case Binary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// Action is one parser move: a type and the RST (or "text"/"ROOT") label it
// operates with. The initial sentinel previous-action is Shift("text").
type Action struct {
	Type  ActionType
	Label string
}

// String renders the canonical "<type>:<label>" form classifiers are
// trained and scored on, e.g. "B:ROOT", "U:nucleus:span", "S:text".
func (a Action) String() string {
	return fmt.Sprintf("%s:%s", a.Type.Code(), a.Label)
}

// Equal reports whether a and o represent the same action.
func (a Action) Equal(o Action) bool {
	return a.Type == o.Type && a.Label == o.Label
}

// ParseActionLabel parses a canonical "<type>:<label>" action-label string
// as produced by a classifier's label list into an Action.
func ParseActionLabel(s string) (Action, error) {
	if len(s) < 2 || s[1] != ':' {
		return Action{}, fmt.Errorf("rst: malformed action label %q", s)
	}
	var typ ActionType
	switch s[0] {
	case 'S':
		typ = Shift
	case 'U':
		typ = Unary
	case 'B':
		typ = Binary
	default:
		return Action{}, fmt.Errorf("rst: unknown action type in label %q", s)
	}
	return Action{Type: typ, Label: s[2:]}, nil
}
