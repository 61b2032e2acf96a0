package rst

import (
	"fmt"

	"github.com/mmelodious/discourse-parsing/internal/document"
	"github.com/mmelodious/discourse-parsing/internal/rst/rsterr"
)

// EmitFunc receives one training pair produced by Oracle.Replay: the
// canonical "<type>:<label>" action string and the feature set extracted at
// the state the action was taken from.
type EmitFunc func(label string, feats *FeatureSet) error

// Oracle replays a supplied gold action sequence against a document,
// generating (action, features) training pairs for a classifier, rather
// than searching. It is single-state and greedy: there is never more than
// one live state, since the gold sequence fully determines every move.
type Oracle struct {
	traceFn func(string)
}

// NewOracle creates an Oracle.
func NewOracle() *Oracle {
	return &Oracle{}
}

// SetTrace registers fn to receive a line of text before each gold action is
// applied, mirroring Beam.SetTrace.
func (o *Oracle) SetTrace(fn func(string)) {
	o.traceFn = fn
}

func (o *Oracle) trace(format string, args ...interface{}) {
	if o.traceFn == nil {
		return
	}
	o.traceFn(fmt.Sprintf(format, args...))
}

// Replay walks gold, a complete gold-standard action sequence for doc,
// calling emit with (action-label, features) immediately before applying
// each action — except that a Unary action identical to the state's
// previous action is applied without emission, to avoid generating
// redundant duplicate training examples for repeated unary chains.
//
// Replay returns rsterr.ErrInvalidGoldAction (wrapped with the offending
// action and state) if gold contains an action that fails IsValid at the
// state it would be applied to, and rsterr.ErrExhaustedGoldActions if gold
// runs out before the derivation reaches a single ROOT-labelled tree.
func (o *Oracle) Replay(gold []Action, doc *document.Context, emit EmitFunc) error {
	if doc.NumEDUs() == 1 {
		// Degenerate input never needs an action sequence: there is nothing
		// to emit pairs for.
		return nil
	}

	state := NewInitialState(doc)
	for i, act := range gold {
		if act.Type == Shift {
			// Shift actions always carry the literal label "text".
			act.Label = "text"
		}
		if !IsValid(act, state) {
			return rsterr.New(
				fmt.Sprintf("gold action %d (%s) invalid at |stack|=%d |queue|=%d", i, act, len(state.Stack), len(state.Queue)),
				rsterr.ErrInvalidGoldAction,
			)
		}

		suppress := act.Type == Unary && act.Equal(state.PrevAction)
		if !suppress {
			feats := ExtractFeatures(state, doc)
			o.trace("emit %s", act)
			if err := emit(act.String(), feats); err != nil {
				return err
			}
		} else {
			o.trace("suppress duplicate consecutive unary %s", act)
		}

		next, err := Apply(act, state)
		if err != nil {
			return err
		}
		state = next
	}

	if !state.IsTerminal() {
		return rsterr.New(
			fmt.Sprintf("gold sequence exhausted with |stack|=%d |queue|=%d remaining", len(state.Stack), len(state.Queue)),
			rsterr.ErrExhaustedGoldActions,
		)
	}
	return nil
}
