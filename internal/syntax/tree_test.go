package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildSentence builds "(S (NP (DT the) (NN dog)) (VP (VBD barked)))" with
// the VP as the head child of S and the VBD as the head child of the VP, NN
// as the head child of NP — i.e. "barked" percolates up as the sentence head
// and "dog" as the NP's head.
func buildSentence() (root, np, vp, dt, nn, vbd *Node) {
	dt = NewPreterminal("DT", "the")
	nn = NewPreterminal("NN", "dog")
	np = NewInternal("NP", 1, dt, nn)

	vbd = NewPreterminal("VBD", "barked")
	vp = NewInternal("VP", 0, vbd)

	root = NewInternal("S", 1, np, vp)
	return
}

func Test_HeadWordAndPos(t *testing.T) {
	root, np, vp, _, nn, vbd := buildSentence()

	assert := assert.New(t)
	assert.Equal("barked", root.HeadWord())
	assert.Equal("VBD", root.HeadPos())
	assert.Equal("dog", np.HeadWord())
	assert.Equal("NN", np.HeadPos())
	assert.Equal("barked", vp.HeadWord())
	assert.Equal("dog", nn.HeadWord(), "a preterminal's head word is its own terminal")
	assert.Equal("barked", vbd.HeadWord())
}

func Test_TreePosition(t *testing.T) {
	root, np, vp, dt, nn, vbd := buildSentence()

	assert := assert.New(t)
	assert.Nil(root.TreePosition())
	assert.Equal([]int{0}, np.TreePosition())
	assert.Equal([]int{1}, vp.TreePosition())
	assert.Equal([]int{0, 0}, dt.TreePosition())
	assert.Equal([]int{0, 1}, nn.TreePosition())
	assert.Equal([]int{1, 0}, vbd.TreePosition())
}

func Test_FindMaximalHeadNode(t *testing.T) {
	root, np, vp, _, nn, vbd := buildSentence()

	assert := assert.New(t)

	// nn is the head child of np, but np is not the head child of root
	// (vp is), so nn's maximal head node is np itself.
	assert.Same(np, nn.FindMaximalHeadNode())

	// vbd is the head child of vp, and vp is the head child of root, so
	// vbd's maximal head node climbs all the way to the root.
	assert.Same(root, vbd.FindMaximalHeadNode())
	assert.Same(root, vp.FindMaximalHeadNode())
}

func Test_Preterminals(t *testing.T) {
	root, _, _, dt, nn, vbd := buildSentence()

	got := root.Preterminals()
	assert.Equal(t, []*Node{dt, nn, vbd}, got)
}

func Test_String(t *testing.T) {
	root, _, _, _, _, _ := buildSentence()
	assert.Equal(t, "(S (NP (DT the) (NN dog)) (VP (VBD barked)))", root.String())
}

func Test_IsPreterminal(t *testing.T) {
	root, np, _, dt, _, _ := buildSentence()

	assert := assert.New(t)
	assert.True(dt.IsPreterminal())
	assert.False(np.IsPreterminal())
	assert.False(root.IsPreterminal())
	assert.True(dt.Children[0].IsTerminal())
}
