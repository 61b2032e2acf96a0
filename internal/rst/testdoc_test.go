package rst

import "github.com/mmelodious/discourse-parsing/internal/document"

// newTestDoc builds a minimal n-EDU document context: each EDU is a single
// word/tag pair, all in one sentence, with no syntax trees. Sufficient for
// exercising the action/state/validity/beam/oracle machinery, which only
// consults syntax trees through the guarded SyntaxTreeFor accessor.
func newTestDoc(words []string) *document.Context {
	edus := make([]document.EDU, len(words))
	starts := make([]document.StartIndex, len(words))
	paragraphStarts := make([]bool, len(words))
	for i, w := range words {
		edus[i] = document.EDU{Words: []string{w}, Tags: []string{"NN"}}
		starts[i] = document.StartIndex{SentenceIndex: 0, TokenIndex: i, EDUIndex: i}
		paragraphStarts[i] = i == 0
	}
	return &document.Context{
		EDUs:            edus,
		StartIndices:    starts,
		StartsParagraph: paragraphStarts,
	}
}
