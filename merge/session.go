// Package merge reconciles three divergent syntax trees — a shared baseline,
// a locally modified version, and a patched version — into one merged tree.
package merge

import (
	"fmt"

	"github.com/lexcodex/treemend/tree"
)

// WarningCode classifies merge observations that callers should see.
type WarningCode string

const (
	// WarnUnanchored marks a new node whose entire ancestor chain is also
	// new, leaving no merged-tree anchor to attach it under. The node is
	// dropped from the output and reported here instead of being guessed
	// onto the root.
	WarnUnanchored WarningCode = "unanchored_insertion"
	// WarnDivergence marks a node where modified and patched both changed
	// the same baseline content in different ways. The baseline content is
	// kept; neither edit survives at that node.
	WarnDivergence WarningCode = "divergent_edit"
)

// Warning describes one non-fatal merge observation.
type Warning struct {
	Code    WarningCode `json:"code"`
	Node    string      `json:"node"`
	Message string      `json:"message"`
}

func warningFor(code WarningCode, n *tree.Node, message string) Warning {
	return Warning{Code: code, Node: describe(n), Message: message}
}

func describe(n *tree.Node) string {
	if n == nil {
		return "<nil>"
	}
	if n.Label != "" {
		return fmt.Sprintf("%s %q", n.Kind, n.Label)
	}
	if n.Text != "" {
		text := n.Text
		if len(text) > 40 {
			text = text[:40] + "…"
		}
		return fmt.Sprintf("%s %q", n.Kind, text)
	}
	return string(n.Kind)
}

// Stats counts what a merge did.
type Stats struct {
	NodesMerged      int `json:"nodes_merged"`
	NodesDropped     int `json:"nodes_dropped"`
	NodesInserted    int `json:"nodes_inserted"`
	Deduplicated     int `json:"deduplicated"`
	BaselineDefaults int `json:"baseline_defaults"`
}

// session holds every piece of mutable state for one merge invocation:
// the triple map, the two reverse correspondence maps, the baseline-to-merged
// map, plus warnings and counters. A fresh session per invocation keeps
// concurrent merges fully independent.
type session struct {
	triples        map[*tree.Node]*Triple
	modifiedToBase map[*tree.Node]*tree.Node
	patchedToBase  map[*tree.Node]*tree.Node
	baseToMerged   map[*tree.Node]*tree.Node
	warnings       []Warning
	stats          Stats
}

func newSession() *session {
	return &session{
		triples:        make(map[*tree.Node]*Triple),
		modifiedToBase: make(map[*tree.Node]*tree.Node),
		patchedToBase:  make(map[*tree.Node]*tree.Node),
		baseToMerged:   make(map[*tree.Node]*tree.Node),
	}
}

func (s *session) warn(code WarningCode, n *tree.Node, message string) {
	s.warnings = append(s.warnings, warningFor(code, n, message))
}
