package merge

import "github.com/lexcodex/treemend/tree"

// buildMerged reconstructs the merged tree by walking the baseline. Each
// baseline node contributes the content chosen by decide; the chosen node's
// inherited children are cleared before baseline's children are merged into
// it in baseline order, so final ordering always follows the baseline's
// positional intent regardless of which version the content came from.
func buildMerged(base *tree.Node, s *session) *tree.Node {
	triple, ok := s.triples[base]
	if !ok {
		// Only reachable for the root when triple construction was
		// bypassed; the root otherwise always has a triple.
		triple = &Triple{Base: base}
	}
	chosen := decide(triple, s)
	chosen.Children = nil
	chosen.Parent = nil
	s.baseToMerged[base] = chosen
	s.stats.NodesMerged++

	for index, child := range base.Children {
		if _, alive := s.triples[child]; !alive {
			continue
		}
		mergedChild := buildMerged(child, s)
		position := index
		if position > len(chosen.Children) {
			position = len(chosen.Children)
		}
		chosen.InsertChild(position, mergedChild)
	}
	return chosen
}
