package match

import "github.com/lexcodex/treemend/tree"

// GreedyMatcher is the default oracle: top-down, two-phase child alignment.
// Identical subtrees are paired first via a longest-common-subsequence over
// subtree fingerprints, then leftover children are paired in order when
// their kind and label are compatible. Stateless and deterministic.
type GreedyMatcher struct{}

// NewGreedyMatcher creates a matcher.
func NewGreedyMatcher() *GreedyMatcher { return &GreedyMatcher{} }

// Match computes a correspondence from a's nodes to b's nodes. Roots of
// different kinds yield an empty correspondence (everything diverged).
func (m *GreedyMatcher) Match(a, b *tree.Tree) Correspondence {
	corr := make(Correspondence)
	if a == nil || b == nil || a.Root == nil || b.Root == nil {
		return corr
	}
	if a.Root.Kind != b.Root.Kind {
		return corr
	}
	m.matchPair(a.Root, b.Root, corr)
	return corr
}

func (m *GreedyMatcher) matchPair(a, b *tree.Node, corr Correspondence) {
	corr[a] = b
	m.alignChildren(a.Children, b.Children, corr)
}

// mapSubtree pairs two structurally identical subtrees node for node.
func (m *GreedyMatcher) mapSubtree(a, b *tree.Node, corr Correspondence) {
	corr[a] = b
	for i := range a.Children {
		m.mapSubtree(a.Children[i], b.Children[i], corr)
	}
}

func (m *GreedyMatcher) alignChildren(as, bs []*tree.Node, corr Correspondence) {
	usedA := make([]bool, len(as))
	usedB := make([]bool, len(bs))

	afp := make([]string, len(as))
	for i, n := range as {
		afp[i] = tree.Fingerprint(n)
	}
	bfp := make([]string, len(bs))
	for i, n := range bs {
		bfp[i] = tree.Fingerprint(n)
	}

	for _, pair := range lcsPairs(afp, bfp) {
		usedA[pair[0]] = true
		usedB[pair[1]] = true
		m.mapSubtree(as[pair[0]], bs[pair[1]], corr)
	}

	// Pair the leftovers in order, never crossing an earlier pairing.
	next := 0
	for i, a := range as {
		if usedA[i] {
			continue
		}
		for j := next; j < len(bs); j++ {
			if usedB[j] {
				continue
			}
			if compatible(a, bs[j]) {
				usedB[j] = true
				next = j + 1
				m.matchPair(a, bs[j], corr)
				break
			}
		}
	}
}

// compatible reports whether two nodes may correspond despite content
// differences: same kind, and labels equal or at least one side unlabeled.
func compatible(a, b *tree.Node) bool {
	if a.Kind != b.Kind {
		return false
	}
	return a.Label == b.Label || a.Label == "" || b.Label == ""
}

// lcsPairs returns index pairs of a longest common subsequence of x and y.
// Classic dynamic program; ties resolve toward the earlier x index so the
// result is deterministic.
func lcsPairs(x, y []string) [][2]int {
	n, m := len(x), len(y)
	if n == 0 || m == 0 {
		return nil
	}
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if x[i] == y[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}
	pairs := make([][2]int, 0, dp[0][0])
	for i, j := 0, 0; i < n && j < m; {
		switch {
		case x[i] == y[j]:
			pairs = append(pairs, [2]int{i, j})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
	return pairs
}
