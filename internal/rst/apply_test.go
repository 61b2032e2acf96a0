package rst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_Apply_SpanMonotonicity checks that, across a short derivation, stack
// items carry strictly increasing non-overlapping EDU spans that, together
// with the remaining queue, tile the whole document with no gaps.
func Test_Apply_SpanMonotonicity(t *testing.T) {
	doc := newTestDoc([]string{"a", "b", "c"})
	s := NewInitialState(doc)

	s, err := Apply(Action{Type: Shift}, s)
	require.NoError(t, err)
	s, err = Apply(Action{Type: Shift}, s)
	require.NoError(t, err)

	assertTiling(t, s, 3)

	s, err = Apply(Action{Type: Unary, Label: "nucleus:span"}, s)
	require.NoError(t, err)
	assertTiling(t, s, 3)

	s, err = Apply(Action{Type: Binary, Label: "elaboration"}, s)
	require.NoError(t, err)
	assertTiling(t, s, 3)
}

// assertTiling checks that s.Stack's spans are strictly increasing and
// non-overlapping and that, combined with s.Queue (whose items are always
// singleton EDU spans in document order), the union covers [0, n-1] exactly.
func assertTiling(t *testing.T, s *State, n int) {
	t.Helper()

	var covered []bool = make([]bool, n)
	prevEnd := -1
	for _, it := range s.Stack {
		require.NotNil(t, it.StartIdx)
		require.NotNil(t, it.EndIdx)
		assert.Greater(t, *it.StartIdx, prevEnd, "stack spans must strictly increase")
		assert.LessOrEqual(t, *it.StartIdx, *it.EndIdx)
		for i := *it.StartIdx; i <= *it.EndIdx; i++ {
			assert.False(t, covered[i], "EDU %d covered by more than one stack item", i)
			covered[i] = true
		}
		prevEnd = *it.EndIdx
	}
	for _, it := range s.Queue {
		require.NotNil(t, it.StartIdx)
		for i := *it.StartIdx; i <= *it.EndIdx; i++ {
			assert.False(t, covered[i], "EDU %d covered by both stack and queue", i)
			covered[i] = true
		}
	}
	for i := 0; i < n; i++ {
		assert.True(t, covered[i], "EDU %d not covered by stack or queue", i)
	}
}

// Test_Apply_HeadWellDefinedness checks that a binary reduce's resulting
// item head equals the head of exactly the nucleus child.
func Test_Apply_HeadWellDefinedness(t *testing.T) {
	doc := newTestDoc([]string{"a", "b"})
	s := NewInitialState(doc)

	s, err := Apply(Action{Type: Shift}, s)
	require.NoError(t, err)
	s, err = Apply(Action{Type: Shift}, s)
	require.NoError(t, err)

	// Promote the right child to a nucleus so the subsequent binary has a
	// well-defined head to percolate.
	rightBeforeUnary := s.Stack[len(s.Stack)-1]
	s, err = Apply(Action{Type: Unary, Label: "nucleus:span"}, s)
	require.NoError(t, err)
	nucleusChild := s.Stack[len(s.Stack)-1]

	s, err = Apply(Action{Type: Binary, Label: "elaboration"}, s)
	require.NoError(t, err)
	require.Len(t, s.Stack, 1)

	combined := s.Stack[0]
	assert.Equal(t, nucleusChild.Head, combined.Head)
	assert.Equal(t, rightBeforeUnary.Head, combined.Head, "unary preserves head across the promotion")
}
