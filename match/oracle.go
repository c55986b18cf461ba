// Package match establishes node correspondences between two syntax trees.
package match

import "github.com/lexcodex/treemend/tree"

// Correspondence is a partial, injective node-to-node mapping from a source
// tree into a target tree. A source node maps to at most one target node and
// no target node is claimed twice.
type Correspondence map[*tree.Node]*tree.Node

// Lookup returns the counterpart for n, if any.
func (c Correspondence) Lookup(n *tree.Node) (*tree.Node, bool) {
	counterpart, ok := c[n]
	return counterpart, ok
}

// Oracle computes a correspondence between two trees. Implementations must
// be deterministic for identical inputs and safe for concurrent use; the
// merge engine holds no other expectations about the matching heuristic.
type Oracle interface {
	Match(a, b *tree.Tree) Correspondence
}
