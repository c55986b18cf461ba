package merge

import (
	"github.com/lexcodex/treemend/match"
	"github.com/lexcodex/treemend/tree"
)

// Triple pairs a baseline node with its counterparts in the modified and
// patched trees. Base is always set; the other two may be nil when the node
// was deleted on that side.
type Triple struct {
	Base     *tree.Node
	Modified *tree.Node
	Patched  *tree.Node
}

// buildTriples invokes the oracle once per derived tree and walks the
// baseline in pre-order, producing a triple for every baseline node that
// survives in at least one derived tree (the root always gets one). The two
// reverse correspondence maps are filled in the same pass. A non-root
// baseline node with no counterpart on either side is deleted everywhere:
// no triple, so the merged-tree builder drops it.
func buildTriples(oracle match.Oracle, baseline, modified, patched *tree.Tree, s *session) {
	toModified := oracle.Match(baseline, modified)
	toPatched := oracle.Match(baseline, patched)

	baseline.Root.Walk(func(base *tree.Node) bool {
		modCounterpart, hasModified := toModified.Lookup(base)
		patCounterpart, hasPatched := toPatched.Lookup(base)
		if hasModified {
			s.modifiedToBase[modCounterpart] = base
		}
		if hasPatched {
			s.patchedToBase[patCounterpart] = base
		}
		if base != baseline.Root && !hasModified && !hasPatched {
			s.stats.NodesDropped++
			return true
		}
		s.triples[base] = &Triple{Base: base, Modified: modCounterpart, Patched: patCounterpart}
		return true
	})
}
