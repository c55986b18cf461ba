package merge

import "github.com/lexcodex/treemend/tree"

// decide picks which version's content represents a baseline position in
// the merged tree. It is a content-selection heuristic, not a content
// merge: divergent leaf edits are not blended, and structural additions are
// handled later by the insertion pass. The returned node is always a deep
// copy, never an instance shared with an input tree.
//
// Precedence:
//  1. neither side changed        -> baseline
//  2. only patched changed        -> patched (baseline if patched deleted it)
//  3. only modified changed       -> modified (baseline if modified deleted it)
//  4. both made the same change   -> modified
//  5. genuine divergence          -> baseline, and a divergence warning
func decide(t *Triple, s *session) *tree.Node {
	base, modified, patched := t.Base, t.Modified, t.Patched

	modSame := tree.Identical(modified, base)
	patSame := tree.Identical(patched, base)

	switch {
	case modSame && patSame:
		return base.Clone()
	case modSame:
		if patched != nil {
			return patched.Clone()
		}
		return base.Clone()
	case patSame:
		if modified != nil {
			return modified.Clone()
		}
		return base.Clone()
	case modified != nil && tree.Identical(modified, patched):
		return modified.Clone()
	default:
		s.stats.BaselineDefaults++
		// Structural divergence higher up is resolved by the insertion
		// pass; only a divergent leaf actually discards edits, so only
		// leaves warrant a warning.
		if base.IsLeaf() {
			s.warn(WarnDivergence, base, "both sides changed this node differently; baseline content kept")
		}
		return base.Clone()
	}
}
