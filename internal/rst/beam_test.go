package rst

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_Beam_SingleEDU covers seed scenario 1: a single-EDU document skips
// the search entirely and is wrapped directly under ROOT with score 0.
func Test_Beam_SingleEDU(t *testing.T) {
	doc := newTestDoc([]string{"a"})
	b := NewBeam(NewStubClassifier(nil, 0), Config{MaxActs: 1, MaxStates: 1, NBest: 1})

	trees, err := b.Parse(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, trees, 1)
	assert.Equal(t, "(ROOT (text 0))", trees[0].Tree.String())
	assert.Zero(t, trees[0].Score)
}

// Test_Beam_Fallback covers seed scenario 6: when every candidate action is
// filtered out as invalid, the search pool empties without ever completing
// a derivation and the driver emits the flat left-to-right fallback tree.
func Test_Beam_Fallback(t *testing.T) {
	doc := newTestDoc([]string{"a", "b"})
	// Offering only a Unary action means the very first state (empty
	// stack) has no valid candidate at all, so the pool empties
	// immediately.
	clf := NewStubClassifier([]string{"U:nucleus:span"}, -1.0)
	b := NewBeam(clf, Config{MaxActs: 4, MaxStates: 4, NBest: 1})

	trees, err := b.Parse(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, trees, 1)
	assert.Equal(t, "(ROOT (text 0) (text 1))", trees[0].Tree.String())
	assert.Zero(t, trees[0].Score)
}

// Test_Beam_Determinism covers seed scenario 5: given a fixed-score
// classifier, repeated runs over the same document return identical,
// descending-by-score n-best lists.
func Test_Beam_Determinism(t *testing.T) {
	doc := newTestDoc([]string{"a", "b", "c"})

	clf := NewStubClassifier([]string{
		"S:text",
		"U:nucleus:span",
		"U:satellite:elaboration",
		"B:elaboration",
		"B:ROOT",
	}, -5.0)
	clf.Scores["S:text"] = -0.2
	clf.Scores["U:nucleus:span"] = -0.4
	clf.Scores["U:satellite:elaboration"] = -0.6
	clf.Scores["B:elaboration"] = -0.3
	clf.Scores["B:ROOT"] = -0.1

	cfg := Config{MaxActs: 3, MaxStates: 8, NBest: 3, ScoresAreLogProbabilities: true}

	run := func() []ScoredTree {
		b := NewBeam(clf, cfg)
		trees, err := b.Parse(context.Background(), doc)
		require.NoError(t, err)
		return trees
	}

	first := run()
	second := run()

	require.NotEmpty(t, first)
	require.LessOrEqual(t, len(first), cfg.NBest)
	assert.Equal(t, len(first), len(second))

	for i := range first {
		assert.Equal(t, first[i].Score, second[i].Score, "run %d score must be deterministic", i)
		assert.Equal(t, first[i].Tree.String(), second[i].Tree.String(), "run %d tree must be deterministic", i)
	}

	for i := 1; i < len(first); i++ {
		assert.LessOrEqual(t, first[i].Score, first[i-1].Score, "n-best list must be sorted by descending score")
	}
}
