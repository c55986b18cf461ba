package merge

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/lexcodex/treemend/match"
	"github.com/lexcodex/treemend/render"
	"github.com/lexcodex/treemend/tree"
)

// ErrMissingTree is returned when one of the three input trees is absent.
// Merging against a missing version is undefined, so the merge is refused
// instead of substituting an empty tree.
var ErrMissingTree = errors.New("merge requires baseline, modified, and patched trees")

// Result is the outcome of one successful merge.
type Result struct {
	Tree     *tree.Tree `json:"-"`
	Text     string     `json:"text"`
	Stats    Stats      `json:"stats"`
	Warnings []Warning  `json:"warnings,omitempty"`
}

// Merger orchestrates a structural three-way merge. The oracle and renderer
// are injected so alternative matching algorithms or output formats can be
// substituted without touching merge logic. A Merger holds no per-merge
// state and is safe for concurrent use.
type Merger struct {
	Oracle   match.Oracle
	Renderer render.Renderer
	Logger   *log.Logger
}

// NewMerger wires the default oracle and renderer.
func NewMerger() *Merger {
	return &Merger{
		Oracle:   match.NewGreedyMatcher(),
		Renderer: render.NewTextRenderer(),
	}
}

// Merge reconciles the three trees and renders the result. It either
// returns a complete Result or an error; a failed merge never yields a
// partially merged tree.
func (m *Merger) Merge(baseline, modified, patched *tree.Tree) (*Result, error) {
	if baseline == nil || baseline.Root == nil || modified == nil || modified.Root == nil || patched == nil || patched.Root == nil {
		return nil, ErrMissingTree
	}

	s := newSession()
	buildTriples(m.Oracle, baseline, modified, patched, s)
	mergedRoot := buildMerged(baseline.Root, s)
	mergedTree := tree.NewTree(mergedRoot, baseline.Path, baseline.Language)
	insertNew(m.Oracle, modified, patched, mergedTree, s)

	text, err := m.Renderer.Render(mergedTree)
	if err != nil {
		return nil, fmt.Errorf("render merged tree: %w", err)
	}

	for _, w := range s.warnings {
		m.logger().Printf("merge warning [%s] %s: %s", w.Code, w.Node, w.Message)
	}
	return &Result{
		Tree:     mergedTree,
		Text:     text,
		Stats:    s.stats,
		Warnings: s.warnings,
	}, nil
}

// MergeSources parses three source texts with the given parser and merges
// them. Any parse failure, including blank input, aborts the merge.
func (m *Merger) MergeSources(parser tree.Parser, path, baseline, modified, patched string) (*Result, error) {
	baseTree, err := parser.Parse(baseline, path)
	if err != nil {
		return nil, fmt.Errorf("parse baseline: %w", err)
	}
	modTree, err := parser.Parse(modified, path)
	if err != nil {
		return nil, fmt.Errorf("parse modified: %w", err)
	}
	patTree, err := parser.Parse(patched, path)
	if err != nil {
		return nil, fmt.Errorf("parse patched: %w", err)
	}
	return m.Merge(baseTree, modTree, patTree)
}

func (m *Merger) logger() *log.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return log.New(io.Discard, "", 0)
}
