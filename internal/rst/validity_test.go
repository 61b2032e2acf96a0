package rst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test_IsValid_RejectsUnaryOnSatellite covers seed scenario 3: a unary
// reduce is never valid when the stack top is already a satellite,
// regardless of the label requested.
func Test_IsValid_RejectsUnaryOnSatellite(t *testing.T) {
	doc := newTestDoc([]string{"a", "b"})
	s := NewInitialState(doc)

	s, err := Apply(Action{Type: Shift}, s)
	assert.NoError(t, err)
	s, err = Apply(Action{Type: Unary, Label: "satellite:attribution"}, s)
	assert.NoError(t, err)

	for _, label := range []string{"nucleus:span", "satellite:elaboration", "ROOT", "elaboration"} {
		act := Action{Type: Unary, Label: label}
		assert.Falsef(t, IsValid(act, s), "unary %q should be invalid on a satellite top", label)
	}
}

// Test_IsValid_RejectsPrematureRoot covers seed scenario 4: a ROOT binary
// reduce is never valid while more than two items remain across the stack
// and queue combined.
func Test_IsValid_RejectsPrematureRoot(t *testing.T) {
	doc := newTestDoc([]string{"a", "b", "c"})
	s := NewInitialState(doc)

	s, err := Apply(Action{Type: Shift}, s)
	assert.NoError(t, err)
	s, err = Apply(Action{Type: Shift}, s)
	assert.NoError(t, err)

	// stack has 2 items, queue has 1: total 3, still > 2.
	assert.Equal(t, 2, len(s.Stack))
	assert.Equal(t, 1, len(s.Queue))
	assert.False(t, IsValid(Action{Type: Binary, Label: "ROOT"}, s))
}

// Test_IsValid_Idempotence checks that validity depends only on the
// pre-state: re-checking the same action against the same state value
// always agrees with itself (the state value used to decide is never
// mutated by IsValid).
func Test_IsValid_Idempotence(t *testing.T) {
	doc := newTestDoc([]string{"a", "b"})
	s := NewInitialState(doc)

	act := Action{Type: Shift}
	first := IsValid(act, s)
	second := IsValid(act, s)
	assert.Equal(t, first, second)
	assert.True(t, first)
}
