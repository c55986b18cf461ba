// Package render materializes syntax trees back into source text.
package render

import (
	"errors"
	"strings"

	"github.com/lexcodex/treemend/tree"
)

// ErrNilTree is returned when there is nothing to render.
var ErrNilTree = errors.New("nil tree")

// Renderer turns a tree back into source text. The merge engine consumes it
// once per merge and passes through whatever text comes back.
type Renderer interface {
	Render(t *tree.Tree) (string, error)
}

// TextRenderer emits the tree's leaf text in pre-order, one line per
// emitted node. It works for every parser in this module because parsers
// store exact source slices on leaves and structural headers (signatures,
// headings) carry their own text. The output is re-parseable but not
// gofmt-faithful; callers that care run their own formatter.
type TextRenderer struct {
	// Separator joins emitted chunks; defaults to a single newline.
	Separator string
}

// NewTextRenderer creates a renderer with default settings.
func NewTextRenderer() *TextRenderer { return &TextRenderer{} }

// Render walks the tree and concatenates node text.
func (r *TextRenderer) Render(t *tree.Tree) (string, error) {
	if t == nil || t.Root == nil {
		return "", ErrNilTree
	}
	sep := r.Separator
	if sep == "" {
		sep = "\n"
	}
	chunks := make([]string, 0, 16)
	t.Root.Walk(func(n *tree.Node) bool {
		if n.IsLeaf() || n.Text != "" {
			chunks = append(chunks, n.Text)
		}
		return true
	})
	return strings.Join(chunks, sep), nil
}
