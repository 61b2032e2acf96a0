package rst

import (
	"fmt"

	"github.com/mmelodious/discourse-parsing/internal/rst/rsterr"
)

// Apply returns the state that results from applying act to s. The caller
// must have already confirmed IsValid(act, s); Apply does not re-check
// validity itself except for the head-selection invariant a Binary reduce
// depends on, which IsValid is supposed to guarantee can never fail.
//
// Apply never mutates s: it builds new Stack/Queue slices, reusing the
// *Item and *OutputNode values s's neighbors in the beam may still hold
// references to.
func Apply(act Action, s *State) (*State, error) {
	switch act.Type {
	case Shift:
		return applyShift(s), nil
	case Unary:
		return applyUnary(act, s)
	case Binary:
		return applyBinary(act, s)
	default:
		return nil, rsterr.New(fmt.Sprintf("unknown action type %v", act.Type))
	}
}

func applyShift(s *State) *State {
	stack := s.cloneStack()
	queue := s.cloneQueue()

	item := queue[0]
	queue = queue[1:]
	stack = append(stack, item)

	return &State{
		Stack:      stack,
		Queue:      queue,
		PrevAction: Action{Type: Shift, Label: "text"},
		UnaryCount: 0,
		Score:      s.Score,
		Steps:      s.Steps + 1,
	}
}

func applyUnary(act Action, s *State) (*State, error) {
	if len(s.Stack) == 0 {
		return nil, rsterr.New("unary reduce on empty stack", rsterr.ErrInvalidReduce)
	}
	stack := s.cloneStack()
	c := stack[len(stack)-1]
	stack = stack[:len(stack)-1]

	node := &OutputNode{Label: act.Label, Children: []*OutputNode{c.Tree}}
	item := &Item{
		NT:       act.Label,
		Tree:     node,
		Head:     c.Head,
		HPos:     c.HPos,
		HeadIdx:  c.HeadIdx,
		StartIdx: c.StartIdx,
		EndIdx:   c.EndIdx,
	}
	stack = append(stack, item)

	return &State{
		Stack:      stack,
		Queue:      s.cloneQueue(),
		PrevAction: act,
		UnaryCount: s.UnaryCount + 1,
		Score:      s.Score,
		Steps:      s.Steps + 1,
	}, nil
}

func applyBinary(act Action, s *State) (*State, error) {
	if len(s.Stack) < 2 {
		return nil, rsterr.New("binary reduce with fewer than two stack items", rsterr.ErrInvalidReduce)
	}
	stack := s.cloneStack()
	rc := stack[len(stack)-1]
	lc := stack[len(stack)-2]
	stack = stack[:len(stack)-2]

	node := &OutputNode{Label: act.Label, Children: []*OutputNode{lc.Tree, rc.Tree}}

	leftIsNucleus := isNucleusLabel(lc.NT) || act.Label == "ROOT"
	rightIsNucleus := isRightNucleusLabel(rc.NT)

	var head, hpos []string
	var headIdx *int
	switch {
	case leftIsNucleus:
		head, hpos, headIdx = lc.Head, lc.HPos, lc.HeadIdx
	case rightIsNucleus:
		head, hpos, headIdx = rc.Head, rc.HPos, rc.HeadIdx
	default:
		return nil, rsterr.New(
			fmt.Sprintf("act = %s, lc.nt = %s, rc.nt = %s", act, lc.NT, rc.NT),
			rsterr.ErrInvalidReduce,
		)
	}

	item := &Item{
		NT:       act.Label,
		Tree:     node,
		Head:     head,
		HPos:     hpos,
		HeadIdx:  headIdx,
		StartIdx: lc.StartIdx,
		EndIdx:   rc.EndIdx,
	}
	stack = append(stack, item)

	return &State{
		Stack:      stack,
		Queue:      s.cloneQueue(),
		PrevAction: act,
		UnaryCount: 0,
		Score:      s.Score,
		Steps:      s.Steps + 1,
	}, nil
}
