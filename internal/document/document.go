// Package document holds the read-only, pre-segmented document context the
// parser consumes: elementary discourse units (EDUs) and the sentence-level
// syntax trees they came from. Producing this context — EDU segmentation and
// constituent parsing — is an external collaborator; this package only
// models its shape.
package document

import (
	"strings"

	"github.com/mmelodious/discourse-parsing/internal/syntax"
)

// EDU is an elementary discourse unit: the minimal span of text that
// participates in a discourse relation, as a list of (word, POS tag) pairs.
type EDU struct {
	// Words is the EDU's tokens in their original casing, as they appeared
	// in the source text.
	Words []string

	// Tags is the POS tag aligned with each entry of Words.
	Tags []string
}

// LowerWords returns a copy of e.Words, lowercased. The feature extractor and
// the parser's internal head-tracking both work on lowercased tokens.
func (e EDU) LowerWords() []string {
	out := make([]string, len(e.Words))
	for i, w := range e.Words {
		out[i] = strings.ToLower(w)
	}
	return out
}

// StartIndex locates where an EDU begins within the document's sentences:
// which sentence it's in, which token of that sentence it starts at, and its
// own position in the document's EDU sequence.
type StartIndex struct {
	SentenceIndex int
	TokenIndex    int
	EDUIndex      int
}

// Context is the read-only document context held constant across a single
// parse: every EDU, where each one starts, which ones start a paragraph, and
// the headed syntax tree of each sentence they were segmented from.
type Context struct {
	// EDUs is the ordered sequence of elementary discourse units.
	EDUs []EDU

	// StartIndices has one entry per EDU in EDUs, giving its sentence,
	// in-sentence token offset, and own index. EDUs never cross sentence
	// boundaries.
	StartIndices []StartIndex

	// StartsParagraph has one entry per EDU in EDUs: whether that EDU begins
	// a paragraph.
	StartsParagraph []bool

	// SyntaxTrees holds one headed, parented constituent tree per sentence,
	// in document order.
	SyntaxTrees []*syntax.Node
}

// NumEDUs returns the number of EDUs in the document.
func (c *Context) NumEDUs() int {
	return len(c.EDUs)
}

// SyntaxTreeFor returns the sentence-level syntax tree that EDU eduIdx was
// segmented from.
func (c *Context) SyntaxTreeFor(eduIdx int) *syntax.Node {
	si := c.StartIndices[eduIdx]
	if si.SentenceIndex < 0 || si.SentenceIndex >= len(c.SyntaxTrees) {
		return nil
	}
	return c.SyntaxTrees[si.SentenceIndex]
}

// SameSentence returns whether EDUs a and b were segmented from the same
// sentence.
func (c *Context) SameSentence(a, b int) bool {
	return c.StartIndices[a].SentenceIndex == c.StartIndices[b].SentenceIndex
}
