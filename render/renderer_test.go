package render

import (
	"strings"
	"testing"

	"github.com/lexcodex/treemend/tree"
)

func TestRenderNilTree(t *testing.T) {
	if _, err := NewTextRenderer().Render(nil); err == nil {
		t.Fatal("expected an error for a nil tree")
	}
}

func TestRenderGoRoundTrip(t *testing.T) {
	source := `package sample

import "fmt"

func Hello(name string) string {
	return fmt.Sprintf("hi %s", name)
}`
	parsed, err := tree.NewGoParser().Parse(source, "sample.go")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	text, err := NewTextRenderer().Render(parsed)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(text, "package sample") || !strings.Contains(text, "return fmt.Sprintf") {
		t.Fatalf("render lost content:\n%s", text)
	}
	reparsed, err := tree.NewGoParser().Parse(text, "sample.go")
	if err != nil {
		t.Fatalf("rendered output is not parseable: %v\n%s", err, text)
	}
	if !tree.Identical(parsed.Root, reparsed.Root) {
		t.Fatalf("render/parse round trip changed the tree:\n%s", text)
	}
}

func TestRenderMarkdown(t *testing.T) {
	content := "# Title\n\nBody text.\n"
	parsed, err := tree.NewMarkdownParser().Parse(content, "doc.md")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	text, err := NewTextRenderer().Render(parsed)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(text, "# Title") || !strings.Contains(text, "Body text.") {
		t.Fatalf("render lost content:\n%s", text)
	}
}
