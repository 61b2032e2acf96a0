// Package docio decodes the JSON wire representation of a document
// descriptor into a document.Context the parser can consume. It is the one
// place that shape is defined, shared by internal/httpapi and
// cmd/rstparse-console.
package docio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mmelodious/discourse-parsing/internal/document"
	"github.com/mmelodious/discourse-parsing/internal/syntax"
)

// DocumentJSON is the wire shape of a document descriptor.
type DocumentJSON struct {
	EDUs            []EDUJSON         `json:"edus"`
	StartIndices    []StartIndexJSON  `json:"edu_start_indices"`
	StartsParagraph []bool            `json:"edu_starts_paragraph"`
	SyntaxTrees     []*SyntaxNodeJSON `json:"syntax_trees"`
}

// EDUJSON is one elementary discourse unit: parallel word/tag lists.
type EDUJSON struct {
	Words []string `json:"words"`
	Tags  []string `json:"tags"`
}

// StartIndexJSON locates an EDU within the document's sentences.
type StartIndexJSON struct {
	SentenceIndex int `json:"sentence_index"`
	TokenIndex    int `json:"token_index"`
	EDUIndex      int `json:"edu_index"`
}

// SyntaxNodeJSON is the wire shape of a headed syntax tree node. A terminal
// has Word set and no Children; every other node has Children and
// HeadChild indexing which one the percolated head came from.
type SyntaxNodeJSON struct {
	Label     string            `json:"label,omitempty"`
	Word      string            `json:"word,omitempty"`
	HeadChild int               `json:"head_child"`
	Children  []*SyntaxNodeJSON `json:"children,omitempty"`
}

func buildNode(r *SyntaxNodeJSON) *syntax.Node {
	if r == nil {
		return nil
	}
	if len(r.Children) == 0 {
		return &syntax.Node{Word: r.Word, HeadChild: -1}
	}
	children := make([]*syntax.Node, len(r.Children))
	for i, c := range r.Children {
		children[i] = buildNode(c)
	}
	return syntax.NewInternal(r.Label, r.HeadChild, children...)
}

// ToContext converts d into a document.Context, validating that each EDU's
// word and tag lists are the same length.
func (d DocumentJSON) ToContext() (*document.Context, error) {
	edus := make([]document.EDU, len(d.EDUs))
	for i, e := range d.EDUs {
		if len(e.Words) != len(e.Tags) {
			return nil, fmt.Errorf("docio: edu %d has %d words but %d tags", i, len(e.Words), len(e.Tags))
		}
		edus[i] = document.EDU{Words: e.Words, Tags: e.Tags}
	}

	starts := make([]document.StartIndex, len(d.StartIndices))
	for i, s := range d.StartIndices {
		starts[i] = document.StartIndex{SentenceIndex: s.SentenceIndex, TokenIndex: s.TokenIndex, EDUIndex: s.EDUIndex}
	}

	trees := make([]*syntax.Node, len(d.SyntaxTrees))
	for i, t := range d.SyntaxTrees {
		trees[i] = buildNode(t)
	}

	return &document.Context{
		EDUs:            edus,
		StartIndices:    starts,
		StartsParagraph: d.StartsParagraph,
		SyntaxTrees:     trees,
	}, nil
}

// Decode reads a DocumentJSON from r and converts it to a document.Context.
func Decode(r io.Reader) (*document.Context, error) {
	var doc DocumentJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("docio: decode: %w", err)
	}
	return doc.ToContext()
}

// Load reads and decodes the document descriptor at path.
func Load(path string) (*document.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("docio: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
