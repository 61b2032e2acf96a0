package rst

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mmelodious/discourse-parsing/internal/document"
	"github.com/mmelodious/discourse-parsing/internal/syntax"
	"github.com/mmelodious/discourse-parsing/internal/util"
)

// FeatureSet is the sparse, duplicate-permitting bag of feature tokens
// extracted at one parser state. A classifier consumes it as element ->
// occurrence-count pairs.
type FeatureSet = util.CountSet[string]

// hasLetter matches a preterminal label that contains at least one Latin
// letter, used to tell a real word apart from pure punctuation.
var hasLetter = regexp.MustCompile(`[A-Za-z]`)

// topEntry is the shape ExtractFeatures needs from a stack/queue slot,
// including the TOP sentinel substituted in when the real slot doesn't
// exist.
type topEntry struct {
	nt       string
	head     []string
	hpos     []string
	headIdx  *int
	startIdx *int
	tree     *OutputNode
}

func sentinelEntry() topEntry {
	return topEntry{nt: "TOP", head: []string{leftwallWord}, hpos: []string{leftwallPOS}}
}

func entryFromItem(it *Item) topEntry {
	return topEntry{nt: it.NT, head: it.Head, hpos: it.HPos, headIdx: it.HeadIdx, startIdx: it.StartIdx, tree: it.Tree}
}

// ExtractFeatures computes the feature bag for parser state s given the
// surrounding document context ctx. It never mutates s.
func ExtractFeatures(s *State, ctx *document.Context) *FeatureSet {
	feats := util.NewCountSet[string]()

	s0, s1, s2 := sentinelEntry(), sentinelEntry(), sentinelEntry()
	n := len(s.Stack)
	if n > 0 {
		s0 = entryFromItem(s.Stack[n-1])
	}
	if n > 1 {
		s1 = entryFromItem(s.Stack[n-2])
	}
	if n > 2 {
		s2 = entryFromItem(s.Stack[n-3])
	}

	q0w, q0p := []string{rightwallWord}, []string{rightwallPOS}
	var q0 *Item
	if len(s.Queue) > 0 {
		q0 = s.Queue[0]
		q0w, q0p = q0.Head, q0.HPos
	}

	type labeledIdx struct {
		label string
		idx   int
	}
	var idxTuples []labeledIdx
	if q0 != nil && q0.HeadIdx != nil {
		idxTuples = append(idxTuples, labeledIdx{"Q0", *q0.HeadIdx})
	}
	if s0.headIdx != nil {
		idxTuples = append(idxTuples, labeledIdx{"S0", *s0.headIdx})
	}
	if s1.headIdx != nil {
		idxTuples = append(idxTuples, labeledIdx{"S1", *s1.headIdx})
	}
	if s2.headIdx != nil {
		idxTuples = append(idxTuples, labeledIdx{"S2", *s2.headIdx})
	}

	// previous action feature
	feats.Add(fmt.Sprintf("PREV:%s:%s", s.PrevAction.Type.Code(), s.PrevAction.Label))

	// stack nonterminal symbol features
	feats.Add("S0nt:" + s0.nt)
	addChildNTFeats(feats, "S0childnt:", s0.tree)
	feats.Add("S1nt:" + s1.nt)
	addChildNTFeats(feats, "S1childnt:", s1.tree)
	feats.Add("S2nt:" + s2.nt)
	addChildNTFeats(feats, "S2childnt:", s2.tree)

	feats.Add(fmt.Sprintf("S0nt:%s^S1nt:%s", s0.nt, s1.nt))
	feats.Add(fmt.Sprintf("S1nt:%s^S2nt:%s", s1.nt, s2.nt))
	feats.Add(fmt.Sprintf("S0nt:%s^S2nt:%s", s0.nt, s2.nt))
	feats.Add(fmt.Sprintf("S0nt:%s^S1nt:%s^S2nt:%s", s0.nt, s1.nt, s2.nt))

	// word and POS features for the heads of S0, S1, Q0
	addWordAndPOSFeats(feats, "S0", s0.head, s0.hpos)
	addWordAndPOSFeats(feats, "S1", s1.head, s1.hpos)
	addWordAndPOSFeats(feats, "Q0", q0w, q0p)

	// EDU head distance features
	for i := 0; i < len(idxTuples); i++ {
		for j := i + 1; j < len(idxTuples); j++ {
			dist := idxTuples[i].idx - idxTuples[j].idx
			if dist < 0 {
				dist = -dist
			}
			for k := 1; k <= 4; k++ {
				if dist > k {
					feats.Add(fmt.Sprintf("edu_dist_%s%s>%d", idxTuples[i].label, idxTuples[j].label, k))
				}
			}
		}
	}

	// same-sentence features
	for i := 0; i < len(idxTuples); i++ {
		for j := i + 1; j < len(idxTuples); j++ {
			if ctx.SameSentence(idxTuples[i].idx, idxTuples[j].idx) {
				feats.Add(fmt.Sprintf("same_sentence_%s%s", idxTuples[i].label, idxTuples[j].label))
			}
		}
	}

	// EDU head syntactic features, for S0, S1, and Q0 only
	headNodeS0 := findEDUHeadNode(s0, ctx)
	headNodeS1 := findEDUHeadNode(s1, ctx)
	headNodeS2 := findEDUHeadNode(s2, ctx)
	var headNodeQ0 *syntax.Node
	if q0 != nil {
		headNodeQ0 = findEDUHeadNode(entryFromItem(q0), ctx)
	}
	addHeadNodeFeats(feats, "S0", headNodeS0)
	addHeadNodeFeats(feats, "S1", headNodeS1)
	addHeadNodeFeats(feats, "Q0", headNodeQ0)

	// syntactic dominance features between pairs of stack/queue head nodes
	type labeledNode struct {
		label string
		node  *syntax.Node
	}
	nodeTuples := []labeledNode{
		{"Q0", headNodeQ0}, {"S0", headNodeS0}, {"S1", headNodeS1}, {"S2", headNodeS2},
	}
	for i := 0; i < len(nodeTuples); i++ {
		for j := i + 1; j < len(nodeTuples); j++ {
			a, b := nodeTuples[i], nodeTuples[j]
			if syntacticallyDominates(a.node, b.node) {
				feats.Add(fmt.Sprintf("syn_dominates_%s%s", a.label, b.label))
			}
			if syntacticallyDominates(b.node, a.node) {
				feats.Add(fmt.Sprintf("syn_dominates_%s%s", b.label, a.label))
			}
		}
	}

	// paragraph-start features
	if s0.startIdx != nil && ctx.StartsParagraph[*s0.startIdx] {
		feats.Add("s0_starts_paragraph")
	}
	if s1.startIdx != nil && ctx.StartsParagraph[*s1.startIdx] {
		feats.Add("s1_starts_paragraph")
	}
	if s2.startIdx != nil && ctx.StartsParagraph[*s2.startIdx] {
		feats.Add("s2_starts_paragraph")
	}
	if q0 != nil && q0.StartIdx != nil && ctx.StartsParagraph[*q0.StartIdx] {
		feats.Add("q0_starts_paragraph")
	}

	return feats
}

// addChildNTFeats emits one feature per direct child of tree's nonterminal
// label, unless tree is nil or a leaf "text" node.
func addChildNTFeats(feats *FeatureSet, prefix string, tree *OutputNode) {
	if tree == nil || tree.Label == "text" {
		return
	}
	for _, c := range tree.Children {
		feats.Add(prefix + c.Label)
	}
}

// addWordAndPOSFeats adds word and POS features for the head EDU of a
// subtree. The prefix indicates where the tokens are from (S0, S1, Q0).
func addWordAndPOSFeats(feats *FeatureSet, prefix string, words, tags []string) {
	if (len(tags) == 1 && tags[0] == leftwallPOS) || (len(tags) == 1 && tags[0] == rightwallPOS) {
		return
	}
	if len(words) == 0 {
		return
	}

	second := ""
	if len(words) > 1 {
		second = words[1]
	}
	secondPos := ""
	if len(tags) > 1 {
		secondPos = tags[1]
	}

	feats.Add(fmt.Sprintf("%sw:%s:::0", prefix, words[0]))
	feats.Add(fmt.Sprintf("%sp:%s:::0", prefix, tags[0]))
	feats.Add(fmt.Sprintf("%sw:%s:::-1", prefix, words[len(words)-1]))
	feats.Add(fmt.Sprintf("%sp:%s:::-1", prefix, tags[len(tags)-1]))
	feats.Add(fmt.Sprintf("%sw:%s:::1", prefix, second))
	feats.Add(fmt.Sprintf("%sp:%s:::1", prefix, secondPos))

	for _, w := range words {
		feats.Add(fmt.Sprintf("%sw:%s", prefix, w))
	}
	for _, p := range tags {
		feats.Add(fmt.Sprintf("%sp:%s", prefix, p))
	}
}

func addHeadNodeFeats(feats *FeatureSet, prefix string, node *syntax.Node) {
	if node == nil {
		return
	}
	feats.Add(fmt.Sprintf("%sheadnt:%s", prefix, node.Label))
	feats.Add(fmt.Sprintf("%sheadw:%s", prefix, strings.ToLower(node.HeadWord())))
	feats.Add(fmt.Sprintf("%sheadp:%s", prefix, node.HeadPos()))
}

// findEDUHeadNode finds the EDU head node: the node whose percolated head
// is the token with the highest occurrence as a lexical head (Soricut &
// Marcu, 2003, Sec 4.1), approximated here as the shallowest maximal head
// node among an EDU's non-punctuation preterminals, breaking ties by
// picking the leftmost.
//
// Returns nil for the leftwall/rightwall sentinel entries, and for an EDU
// whose tokens are all punctuation.
func findEDUHeadNode(e topEntry, ctx *document.Context) *syntax.Node {
	if e.headIdx == nil {
		return nil
	}
	headIdx := *e.headIdx
	si := ctx.StartIndices[headIdx]
	tree := ctx.SyntaxTreeFor(headIdx)
	if tree == nil {
		return nil
	}

	startTok := si.TokenIndex
	endTok := startTok + len(e.head)

	all := tree.Preterminals()
	if startTok < 0 || startTok > len(all) {
		return nil
	}
	if endTok > len(all) {
		endTok = len(all)
	}
	preterminals := all[startTok:endTok]

	var filtered []*syntax.Node
	for _, pt := range preterminals {
		if hasLetter.MatchString(pt.Label) {
			filtered = append(filtered, pt)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	var best *syntax.Node
	bestDepth := -1
	for _, pt := range filtered {
		maximal := pt.FindMaximalHeadNode()
		depth := maximal.Depth()
		if best == nil || depth < bestDepth {
			best = maximal
			bestDepth = depth
		}
	}
	return best
}

// syntacticallyDominates reports whether node1 and node2 belong to the same
// tree and node1 is a strict ancestor of node2.
func syntacticallyDominates(node1, node2 *syntax.Node) bool {
	if node1 == nil || node2 == nil {
		return false
	}
	if node1.Root() != node2.Root() {
		return false
	}
	tp1 := node1.TreePosition()
	tp2 := node2.TreePosition()
	if len(tp1) >= len(tp2) {
		return false
	}
	for i := range tp1 {
		if tp1[i] != tp2[i] {
			return false
		}
	}
	return true
}
