package rst

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"
)

// ScoredTree pairs a completed output tree with the cumulative log-score of
// the derivation that produced it, the shape both Beam.Parse and the HTTP
// API return results in.
type ScoredTree struct {
	Tree  *OutputNode
	Score float64
}

// Collapse returns a copy of root with every partial (binarization) node
// removed: a node whose Label ends with "*" is replaced in place by its own
// Children, so its parent inherits them directly. Leaf nodes are returned
// unchanged. root itself is assumed not to be partial — every valid
// derivation closes its partial nodes before reaching ROOT (see
// validity.go's satellite-exhaustion and two-partials checks).
func Collapse(root *OutputNode) *OutputNode {
	if root == nil {
		return nil
	}
	if len(root.Children) == 0 {
		return &OutputNode{Label: root.Label, EDUIndex: root.EDUIndex}
	}

	children := make([]*OutputNode, 0, len(root.Children))
	for _, c := range root.Children {
		collapsed := Collapse(c)
		if strings.HasSuffix(collapsed.Label, "*") {
			children = append(children, collapsed.Children...)
		} else {
			children = append(children, collapsed)
		}
	}
	return &OutputNode{Label: root.Label, Children: children}
}

// String renders n as a bracketed discourse tree, e.g.
// "(ROOT (nucleus:span (text 0) (satellite:elaboration (text 1))))".
func (n *OutputNode) String() string {
	if n == nil {
		return "()"
	}
	if n.EDUIndex != nil {
		return fmt.Sprintf("(text %d)", *n.EDUIndex)
	}
	var sb strings.Builder
	sb.WriteRune('(')
	sb.WriteString(n.Label)
	for _, c := range n.Children {
		sb.WriteRune(' ')
		sb.WriteString(c.String())
	}
	sb.WriteRune(')')
	return sb.String()
}

// LeafEDUIndices returns the EDU index of every leaf under n, in left-to-
// right (in-order) traversal order. Used by tests to check that Collapse
// preserves document order.
func (n *OutputNode) LeafEDUIndices() []int {
	if n == nil {
		return nil
	}
	if n.EDUIndex != nil {
		return []int{*n.EDUIndex}
	}
	var out []int
	for _, c := range n.Children {
		out = append(out, c.LeafEDUIndices()...)
	}
	return out
}

// TableString renders a list of scored derivations as an n-best debug table.
func TableString(trees []ScoredTree) string {
	data := [][]string{{"#", "score", "tree"}}
	for i, t := range trees {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(t.Score, 'f', 4, 64),
			t.Tree.String(),
		})
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 100, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
