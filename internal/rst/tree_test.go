package rst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test_Collapse_RoundTrip covers the collapse round-trip property: building
// a tree with "*"-marked intermediate (partial binarization) nodes and
// collapsing it yields a tree with no "*" labels and the same in-order
// EDU-leaf sequence.
func Test_Collapse_RoundTrip(t *testing.T) {
	leaf0 := NewLeaf(0)
	leaf1 := NewLeaf(1)
	leaf2 := NewLeaf(2)

	partial := &OutputNode{Label: "nucleus:elaboration*", Children: []*OutputNode{leaf0, leaf1}}
	root := &OutputNode{Label: "ROOT", Children: []*OutputNode{partial, leaf2}}

	collapsed := Collapse(root)

	assert.Equal(t, []int{0, 1, 2}, collapsed.LeafEDUIndices())
	assert.Equal(t, []int{0, 1, 2}, root.LeafEDUIndices(), "collapse must not mutate its input")

	var walk func(n *OutputNode)
	walk = func(n *OutputNode) {
		assert.NotContains(t, n.Label, "*")
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(collapsed)

	// The partial node's two children are spliced directly under ROOT.
	assert.Len(t, collapsed.Children, 3)
}

// Test_Collapse_NestedPartials checks that collapsing works when a partial
// node's own child is also partial.
func Test_Collapse_NestedPartials(t *testing.T) {
	leaf0, leaf1, leaf2 := NewLeaf(0), NewLeaf(1), NewLeaf(2)

	innerPartial := &OutputNode{Label: "satellite:elaboration*", Children: []*OutputNode{leaf0, leaf1}}
	outerPartial := &OutputNode{Label: "nucleus:span*", Children: []*OutputNode{innerPartial, leaf2}}
	root := &OutputNode{Label: "ROOT", Children: []*OutputNode{outerPartial}}

	collapsed := Collapse(root)
	assert.Equal(t, []int{0, 1, 2}, collapsed.LeafEDUIndices())
	assert.Len(t, collapsed.Children, 3)
}

func Test_OutputNode_String(t *testing.T) {
	root := &OutputNode{
		Label: "ROOT",
		Children: []*OutputNode{
			{Label: "nucleus:span", Children: []*OutputNode{NewLeaf(0)}},
			{Label: "satellite:elaboration", Children: []*OutputNode{NewLeaf(1)}},
		},
	}
	assert.Equal(t, "(ROOT (nucleus:span (text 0)) (satellite:elaboration (text 1)))", root.String())
}

func Test_TableString(t *testing.T) {
	trees := []ScoredTree{
		{Tree: &OutputNode{Label: "ROOT", Children: []*OutputNode{NewLeaf(0)}}, Score: -1.5},
	}
	out := TableString(trees)
	assert.Contains(t, out, "score")
	assert.Contains(t, out, "ROOT")
}
