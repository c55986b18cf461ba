package merge

import (
	"github.com/lexcodex/treemend/match"
	"github.com/lexcodex/treemend/tree"
)

// insertNew splices nodes that exist only in the modified or patched tree
// into the merged tree. The oracle runs twice more — (modified, merged) and
// (patched, merged) — to find what the merged tree is still missing; only
// the top-most unmatched nodes are considered, since re-inserting a subtree
// whose ancestor is already being inserted would duplicate it. Nodes added
// identically on both sides are inserted once (the modified copy wins).
// Each survivor is deep-copied and appended under the merged counterpart of
// its nearest baseline-matched ancestor. A node with no such ancestor has
// nowhere safe to go: it is dropped and surfaced as a warning rather than
// guessed onto the root.
func insertNew(oracle match.Oracle, modified, patched, merged *tree.Tree, s *session) {
	modifiedNew := topMostUnmatched(modified, oracle.Match(modified, merged))
	patchedNew := topMostUnmatched(patched, oracle.Match(patched, merged))

	// Cross-deduplication: a patched addition identical to a modified one
	// is the same change made twice.
	surviving := patchedNew[:0:0]
	for _, candidate := range patchedNew {
		duplicate := false
		for _, other := range modifiedNew {
			if tree.Identical(candidate, other) {
				duplicate = true
				s.stats.Deduplicated++
				break
			}
		}
		if !duplicate {
			surviving = append(surviving, candidate)
		}
	}

	for _, node := range modifiedNew {
		s.insertUnder(node, s.modifiedToBase)
	}
	for _, node := range surviving {
		s.insertUnder(node, s.patchedToBase)
	}
}

// topMostUnmatched returns, in traversal order, the unmatched nodes whose
// parent is matched or absent.
func topMostUnmatched(t *tree.Tree, corr match.Correspondence) []*tree.Node {
	if t == nil || t.Root == nil {
		return nil
	}
	var result []*tree.Node
	t.Root.Walk(func(n *tree.Node) bool {
		if _, matched := corr.Lookup(n); matched {
			return true
		}
		if n.Parent == nil {
			result = append(result, n)
			return true
		}
		if _, parentMatched := corr.Lookup(n.Parent); parentMatched {
			result = append(result, n)
		}
		return true
	})
	return result
}

// insertUnder resolves the merged-tree anchor for a new node by climbing
// its origin-tree ancestry until an ancestor known to baseline appears,
// then appends a deep copy under that ancestor's merged counterpart.
func (s *session) insertUnder(node *tree.Node, toBase map[*tree.Node]*tree.Node) {
	for ancestor := node.Parent; ancestor != nil; ancestor = ancestor.Parent {
		base, known := toBase[ancestor]
		if !known {
			continue
		}
		anchor, alive := s.baseToMerged[base]
		if !alive {
			break
		}
		anchor.AddChild(node.Clone())
		s.stats.NodesInserted++
		return
	}
	s.warn(WarnUnanchored, node, "new node has no baseline-matched ancestor; dropped from merge output")
}
