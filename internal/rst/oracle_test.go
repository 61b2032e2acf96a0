package rst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmelodious/discourse-parsing/internal/rst/rsterr"
)

// Test_Oracle_SingleEDU covers seed scenario 1 as it applies to replay: a
// single-EDU document needs no gold actions and Replay is a no-op.
func Test_Oracle_SingleEDU(t *testing.T) {
	doc := newTestDoc([]string{"a"})
	o := NewOracle()

	var emitted int
	err := o.Replay(nil, doc, func(label string, feats *FeatureSet) error {
		emitted++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, emitted)
}

// Test_Oracle_ReplayFaithfulness covers seed scenario 2 and the oracle
// replay faithfulness property: a valid gold sequence ending in B:ROOT
// applies every action without rejection, emits one pair per action, and
// ends in a complete ROOT tree (Replay reports ErrExhaustedGoldActions
// otherwise).
func Test_Oracle_ReplayFaithfulness(t *testing.T) {
	doc := newTestDoc([]string{"a", "b"})
	gold := []Action{
		{Type: Shift},
		{Type: Shift},
		{Type: Unary, Label: "nucleus:span"},
		{Type: Binary, Label: "ROOT"},
	}

	o := NewOracle()
	var pairs []string
	err := o.Replay(gold, doc, func(label string, feats *FeatureSet) error {
		pairs = append(pairs, label)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"S:text", "S:text", "U:nucleus:span", "B:ROOT"}, pairs)
}

// Test_Oracle_RejectsInvalidGoldAction checks that an invalid action in the
// gold sequence is reported as ErrInvalidGoldAction rather than applied.
func Test_Oracle_RejectsInvalidGoldAction(t *testing.T) {
	doc := newTestDoc([]string{"a", "b", "c"})
	gold := []Action{
		{Type: Shift},
		{Type: Shift},
		// stack+queue = 3 here, so a ROOT binary is premature.
		{Type: Binary, Label: "ROOT"},
	}

	o := NewOracle()
	err := o.Replay(gold, doc, func(label string, feats *FeatureSet) error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, rsterr.ErrInvalidGoldAction)
}

// Test_Oracle_RejectsExhaustedGoldActions checks that running out of gold
// actions before reaching a terminal state is reported as
// ErrExhaustedGoldActions.
func Test_Oracle_RejectsExhaustedGoldActions(t *testing.T) {
	doc := newTestDoc([]string{"a", "b"})
	gold := []Action{
		{Type: Shift},
	}

	o := NewOracle()
	err := o.Replay(gold, doc, func(label string, feats *FeatureSet) error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, rsterr.ErrExhaustedGoldActions)
}

// Test_Oracle_SuppressesDuplicateConsecutiveUnary checks that a Unary action
// identical to the immediately preceding action is applied but not emitted.
func Test_Oracle_SuppressesDuplicateConsecutiveUnary(t *testing.T) {
	doc := newTestDoc([]string{"a", "b"})
	gold := []Action{
		{Type: Shift},
		{Type: Unary, Label: "nucleus:span"},
		{Type: Unary, Label: "nucleus:span"},
		{Type: Shift},
		{Type: Binary, Label: "ROOT"},
	}

	o := NewOracle()
	var pairs []string
	err := o.Replay(gold, doc, func(label string, feats *FeatureSet) error {
		pairs = append(pairs, label)
		return nil
	})
	require.NoError(t, err)
	// The second, duplicate-consecutive U:nucleus:span is applied (and so
	// advances the derivation) but not emitted as a training pair.
	assert.Equal(t, []string{"S:text", "U:nucleus:span", "S:text", "B:ROOT"}, pairs)
}
