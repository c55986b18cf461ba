package match

import (
	"testing"

	"github.com/lexcodex/treemend/tree"
)

func parseGo(t *testing.T, source string) *tree.Tree {
	t.Helper()
	parsed, err := tree.NewGoParser().Parse(source, "sample.go")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return parsed
}

func TestMatchIdenticalTrees(t *testing.T) {
	source := `package sample

func Add(a, b int) int {
	return a + b
}`
	left := parseGo(t, source)
	right := parseGo(t, source)
	corr := NewGreedyMatcher().Match(left, right)
	if len(corr) != left.Root.Size() {
		t.Fatalf("expected every node matched, got %d of %d", len(corr), left.Root.Size())
	}
	if counterpart, ok := corr.Lookup(left.Root); !ok || counterpart != right.Root {
		t.Fatalf("roots should correspond")
	}
}

func TestMatchSurvivesLeafEdit(t *testing.T) {
	left := parseGo(t, `package sample

func Add(a, b int) int {
	return a + b
}`)
	right := parseGo(t, `package sample

func Add(a, b int) int {
	return x + b
}`)
	corr := NewGreedyMatcher().Match(left, right)
	var leftStmt *tree.Node
	left.Root.Walk(func(n *tree.Node) bool {
		if n.Kind == tree.KindStatement {
			leftStmt = n
		}
		return true
	})
	counterpart, ok := corr.Lookup(leftStmt)
	if !ok {
		t.Fatalf("edited statement should still correspond")
	}
	if counterpart.Text != "return x + b" {
		t.Fatalf("statement matched the wrong node: %q", counterpart.Text)
	}
}

func TestMatchIsInjective(t *testing.T) {
	left := parseGo(t, `package sample

func A() {}

func B() {}`)
	right := parseGo(t, `package sample

func B() {}`)
	corr := NewGreedyMatcher().Match(left, right)
	seen := make(map[*tree.Node]bool)
	for _, target := range corr {
		if seen[target] {
			t.Fatalf("target node claimed twice")
		}
		seen[target] = true
	}
}

func TestMatchRootKindMismatch(t *testing.T) {
	left := parseGo(t, "package sample")
	doc, err := tree.NewMarkdownParser().Parse("# Title\n", "doc.md")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if corr := NewGreedyMatcher().Match(left, doc); len(corr) != 0 {
		t.Fatalf("mismatched roots must yield an empty correspondence, got %d", len(corr))
	}
}

func TestMatchDeterministic(t *testing.T) {
	left := parseGo(t, `package sample

func A() {
	x := 1
	y := 2
}`)
	right := parseGo(t, `package sample

func A() {
	y := 2
	x := 1
}`)
	first := NewGreedyMatcher().Match(left, right)
	second := NewGreedyMatcher().Match(left, right)
	if len(first) != len(second) {
		t.Fatalf("repeated runs disagree: %d vs %d", len(first), len(second))
	}
	for src, dst := range first {
		if second[src] != dst {
			t.Fatalf("repeated runs disagree on a node")
		}
	}
}
