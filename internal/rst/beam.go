package rst

import (
	"container/heap"
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/mmelodious/discourse-parsing/internal/document"
	"github.com/mmelodious/discourse-parsing/internal/rst/rsterr"
)

// Config bounds a Beam's search: how many action candidates it keeps per
// expanded state (MaxActs), how many live states it keeps across the whole
// pool (MaxStates), and how many complete derivations it collects before
// stopping (NBest).
type Config struct {
	// MaxActs is the per-state action fan-out: after filtering to valid
	// actions, only the MaxActs highest-scoring survive.
	MaxActs int

	// MaxStates is the beam width: the pool is trimmed to its MaxStates
	// highest-scoring live states before every pop.
	MaxStates int

	// NBest is how many complete (ROOT-terminated) derivations to collect
	// before the search stops.
	NBest int

	// ScoresAreLogProbabilities, when false (the default), tells Beam that
	// Classifier.Score returns raw probabilities that must be log-converted
	// before being added to a state's cumulative Score. When true, the
	// classifier already returns additive log-scores.
	ScoresAreLogProbabilities bool
}

// pqItem is one entry of the beam's priority queue: a live search state plus
// its insertion sequence number, used only to break exact score ties in
// insertion order so that repeated runs over identical input are
// deterministic.
type pqItem struct {
	state *State
	seq   int
}

// statePriorityQueue is a container/heap max-heap ordered by (Score desc,
// seq asc).
type statePriorityQueue []*pqItem

func (pq statePriorityQueue) Len() int { return len(pq) }

func (pq statePriorityQueue) Less(i, j int) bool {
	if pq[i].state.Score != pq[j].state.Score {
		return pq[i].state.Score > pq[j].state.Score
	}
	return pq[i].seq < pq[j].seq
}

func (pq statePriorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *statePriorityQueue) Push(x any) {
	*pq = append(*pq, x.(*pqItem))
}

func (pq *statePriorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// trim discards every item below the MaxStates highest-scoring ones. A full
// sort is acceptable here: MaxStates is expected to stay small (a handful to
// a few dozen live states).
func trim(pq *statePriorityQueue, maxStates int) {
	if maxStates <= 0 || pq.Len() <= maxStates {
		return
	}
	items := make([]*pqItem, len(*pq))
	copy(items, *pq)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].state.Score != items[j].state.Score {
			return items[i].state.Score > items[j].state.Score
		}
		return items[i].seq < items[j].seq
	})
	items = items[:maxStates]
	*pq = statePriorityQueue(items)
	heap.Init(pq)
}

// Beam is the beam search driver: it expands live parser states under a
// Classifier's guidance until it has collected Config.NBest complete
// derivations or the pool empties.
type Beam struct {
	Classifier Classifier
	Config     Config

	traceFn func(string)
}

// NewBeam creates a Beam over the given classifier and search bounds.
func NewBeam(clf Classifier, cfg Config) *Beam {
	return &Beam{Classifier: clf, Config: cfg}
}

// SetTrace registers fn to receive a line of text at every state pop, action
// scoring pass, and fallback. A nil fn (the default) disables tracing
// entirely and Beam never builds the format strings.
func (b *Beam) SetTrace(fn func(string)) {
	b.traceFn = fn
}

func (b *Beam) trace(format string, args ...interface{}) {
	if b.traceFn == nil {
		return
	}
	b.traceFn(fmt.Sprintf(format, args...))
}

// Parse runs the beam search over doc and returns up to Config.NBest
// complete derivations, most probable first. It honours ctx cancellation
// between state pops: whatever derivations have been collected (or, absent
// any, the fallback flat tree) are returned once ctx is done.
func (b *Beam) Parse(ctx context.Context, doc *document.Context) ([]ScoredTree, error) {
	if doc.NumEDUs() == 0 {
		return nil, fmt.Errorf("rst: cannot parse a document with no EDUs")
	}
	if doc.NumEDUs() == 1 {
		// Degenerate input: a single EDU needs no search, just a ROOT
		// wrapper over it.
		root := &OutputNode{Label: "ROOT", Children: []*OutputNode{NewLeaf(0)}}
		return []ScoredTree{{Tree: root, Score: 0}}, nil
	}

	maxStates := b.Config.MaxStates
	if maxStates <= 0 {
		maxStates = 1
	}
	maxActs := b.Config.MaxActs
	if maxActs <= 0 {
		maxActs = 1
	}
	nBest := b.Config.NBest
	if nBest <= 0 {
		nBest = 1
	}

	pq := &statePriorityQueue{}
	heap.Init(pq)
	seq := 0
	push := func(s *State) {
		heap.Push(pq, &pqItem{state: s, seq: seq})
		seq++
	}
	push(NewInitialState(doc))

	var complete []ScoredTree

	for pq.Len() > 0 {
		select {
		case <-ctx.Done():
			b.trace("cancelled with %d complete derivations collected", len(complete))
			return finish(complete, doc, nBest), nil
		default:
		}

		trim(pq, maxStates)
		cur := heap.Pop(pq).(*pqItem).state
		b.trace("pop: |stack|=%d |queue|=%d score=%.4f", len(cur.Stack), len(cur.Queue), cur.Score)

		if cur.IsTerminal() {
			complete = append(complete, ScoredTree{Tree: Collapse(cur.Tree()), Score: cur.Score})
			b.trace("collected complete derivation %d/%d, score=%.4f", len(complete), nBest, cur.Score)
			if len(complete) >= nBest {
				break
			}
			continue
		}

		feats := ExtractFeatures(cur, doc)
		candidates, err := scoredActions(b.Classifier, feats, b.Config.ScoresAreLogProbabilities, math.Log)
		if err != nil {
			return nil, err
		}

		var valid []ScoredAction
		for _, c := range candidates {
			if IsValid(c.Action, cur) {
				valid = append(valid, c)
			}
		}
		sort.SliceStable(valid, func(i, j int) bool { return valid[i].Score > valid[j].Score })
		nValid := len(valid)
		if len(valid) > maxActs {
			valid = valid[:maxActs]
		}
		b.trace("state has %d valid actions, keeping top %d", nValid, len(valid))

		for _, c := range valid {
			next, err := Apply(c.Action, cur)
			if err != nil {
				return nil, err
			}
			next.Score = cur.Score + c.Score
			push(next)
		}
	}

	if len(complete) == 0 {
		b.trace("%s; emitting fallback flat tree", rsterr.ErrNoCompleteParse)
	}
	return finish(complete, doc, nBest), nil
}

// finish sorts whatever derivations were collected and truncates to nBest,
// falling back to the flat tree when no derivation ever completed.
func finish(complete []ScoredTree, doc *document.Context, nBest int) []ScoredTree {
	if len(complete) == 0 {
		return []ScoredTree{fallbackTree(doc)}
	}
	sort.SliceStable(complete, func(i, j int) bool { return complete[i].Score > complete[j].Score })
	if len(complete) > nBest {
		complete = complete[:nBest]
	}
	return complete
}

// fallbackTree builds the flat derivation emitted when the beam empties
// without ever completing a ROOT-rooted tree (rsterr.ErrNoCompleteParse):
// a ROOT directly over every EDU, left to right, score 0.
func fallbackTree(doc *document.Context) ScoredTree {
	n := doc.NumEDUs()
	children := make([]*OutputNode, n)
	for i := 0; i < n; i++ {
		children[i] = NewLeaf(i)
	}
	return ScoredTree{Tree: &OutputNode{Label: "ROOT", Children: children}, Score: 0}
}
