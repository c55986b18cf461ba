package tree

import (
	"errors"
	"strings"
	"testing"
)

func TestCloneIsDeep(t *testing.T) {
	parent := NewNode(KindBody, "fn", "")
	parent.AddChild(NewNode(KindStatement, "", "return a + b"))
	clone := parent.Clone()
	if clone.Parent != nil {
		t.Fatalf("clone should detach from parent")
	}
	if !Identical(parent, clone) {
		t.Fatalf("clone should be structurally identical")
	}
	clone.Children[0].Text = "return x + b"
	if parent.Children[0].Text != "return a + b" {
		t.Fatalf("mutating the clone leaked into the original")
	}
	if clone.Children[0].Parent != clone {
		t.Fatalf("clone children should point at the clone")
	}
}

func TestIdentical(t *testing.T) {
	a := NewNode(KindStatement, "", "x := 1")
	b := NewNode(KindStatement, "", "x := 1")
	if !Identical(a, b) {
		t.Fatalf("equal leaves should be identical")
	}
	b.Text = "x := 2"
	if Identical(a, b) {
		t.Fatalf("different text should not be identical")
	}
	if !Identical(nil, nil) {
		t.Fatalf("two nil nodes are identical")
	}
	if Identical(a, nil) {
		t.Fatalf("nil vs non-nil is never identical")
	}
}

func TestInsertChildClamps(t *testing.T) {
	parent := NewNode(KindBody, "", "")
	parent.AddChild(NewNode(KindStatement, "", "a"))
	parent.AddChild(NewNode(KindStatement, "", "c"))
	parent.InsertChild(1, NewNode(KindStatement, "", "b"))
	parent.InsertChild(99, NewNode(KindStatement, "", "d"))
	parent.InsertChild(-5, NewNode(KindStatement, "", "z"))
	got := make([]string, 0, len(parent.Children))
	for _, child := range parent.Children {
		got = append(got, child.Text)
	}
	want := "z,a,b,c,d"
	if strings.Join(got, ",") != want {
		t.Fatalf("unexpected child order %v, want %s", got, want)
	}
	for _, child := range parent.Children {
		if child.Parent != parent {
			t.Fatalf("child %q lost its parent pointer", child.Text)
		}
	}
}

func TestWalkPreOrder(t *testing.T) {
	root := NewNode(KindFile, "main", "")
	fn := NewNode(KindFunction, "main", "")
	fn.AddChild(NewNode(KindStatement, "", "s1"))
	root.AddChild(fn)
	root.AddChild(NewNode(KindImport, "fmt", ""))
	var kinds []Kind
	root.Walk(func(n *Node) bool {
		kinds = append(kinds, n.Kind)
		return true
	})
	want := []Kind{KindFile, KindFunction, KindStatement, KindImport}
	if len(kinds) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("pre-order mismatch at %d: %s != %s", i, kinds[i], want[i])
		}
	}
}

func TestFingerprintMatchesIdentity(t *testing.T) {
	a := NewNode(KindBody, "", "")
	a.AddChild(NewNode(KindStatement, "", "return 1"))
	b := a.Clone()
	if Fingerprint(a) != Fingerprint(b) {
		t.Fatalf("identical subtrees must share a fingerprint")
	}
	b.Children[0].Text = "return 2"
	if Fingerprint(a) == Fingerprint(b) {
		t.Fatalf("different subtrees must not collide")
	}
}

func TestGoParserTreeShape(t *testing.T) {
	source := `package sample

import "fmt"

func Hello(name string) string {
	return fmt.Sprintf("hi %s", name)
}`
	parsed, err := NewGoParser().Parse(source, "sample.go")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	root := parsed.Root
	if root.Kind != KindFile || root.Label != "sample" {
		t.Fatalf("unexpected root: %#v", root)
	}
	if len(root.Children) != 3 {
		t.Fatalf("expected package, import, function children, got %d", len(root.Children))
	}
	fn := root.Children[2]
	if fn.Kind != KindFunction || fn.Label != "Hello" {
		t.Fatalf("unexpected function node: %#v", fn)
	}
	body := fn.Children[1]
	if body.Kind != KindBody || len(body.Children) != 1 {
		t.Fatalf("unexpected body: %#v", body)
	}
	if body.Children[0].Text != `return fmt.Sprintf("hi %s", name)` {
		t.Fatalf("statement leaf lost its source text: %q", body.Children[0].Text)
	}
}

func TestGoParserBlankSource(t *testing.T) {
	if _, err := NewGoParser().Parse("  \n\t", "blank.go"); !errors.Is(err, ErrBlankSource) {
		t.Fatalf("expected ErrBlankSource, got %v", err)
	}
}

func TestMarkdownParserNesting(t *testing.T) {
	content := "# Title\n\nIntro text.\n\n## Section\n\n```go\nfmt.Println(\"hi\")\n```\n"
	parsed, err := NewMarkdownParser().Parse(content, "doc.md")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	root := parsed.Root
	if root.Kind != KindDocument || len(root.Children) != 1 {
		t.Fatalf("expected a single top-level heading, got %#v", root)
	}
	title := root.Children[0]
	if title.Kind != KindHeading || title.Label != "Title" {
		t.Fatalf("unexpected heading: %#v", title)
	}
	if len(title.Children) != 2 {
		t.Fatalf("expected paragraph and subsection under title, got %d", len(title.Children))
	}
	sub := title.Children[1]
	if sub.Label != "Section" || len(sub.Children) != 1 || sub.Children[0].Kind != KindCodeBlock {
		t.Fatalf("unexpected subsection: %#v", sub)
	}
}

func TestLineParser(t *testing.T) {
	parsed, err := NewLineParser().Parse("one\ntwo\nthree\n", "notes.txt")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(parsed.Root.Children) != 3 {
		t.Fatalf("expected 3 line leaves, got %d", len(parsed.Root.Children))
	}
}

func TestLanguageDetector(t *testing.T) {
	detector := NewLanguageDetector()
	if lang := detector.Detect("main.go"); lang != "go" {
		t.Fatalf("expected go, got %s", lang)
	}
	if lang := detector.Detect("README.md"); lang != "markdown" {
		t.Fatalf("expected markdown, got %s", lang)
	}
	if lang := detector.Detect("script.py"); lang != "text" {
		t.Fatalf("expected text fallback, got %s", lang)
	}
}

func TestParserRegistry(t *testing.T) {
	registry := DefaultRegistry()
	if _, ok := registry.GetParser("go"); !ok {
		t.Fatal("expected go parser to be registered")
	}
	if langs := registry.SupportedLanguages(); len(langs) != 3 {
		t.Fatalf("unexpected supported languages: %v", langs)
	}
}
