package tree

import (
	"path/filepath"
	"regexp"
	"strings"
)

// MarkdownParser builds a document tree out of headings, paragraphs, and
// fenced code blocks. Heading levels drive the nesting.
type MarkdownParser struct {
	heading *regexp.Regexp
	fence   *regexp.Regexp
}

// NewMarkdownParser creates a parser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		heading: regexp.MustCompile(`^(#{1,6})\s+(.+)$`),
		fence:   regexp.MustCompile("^```([a-zA-Z0-9_]*)\\s*$"),
	}
}

func (mp *MarkdownParser) Language() string { return "markdown" }

// Parse converts markdown into a hierarchical tree.
func (mp *MarkdownParser) Parse(content string, filePath string) (*Tree, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrBlankSource
	}
	lines := strings.Split(content, "\n")
	root := NewNode(KindDocument, filepath.Base(filePath), "")

	// Stack of open sections; index 0 is the document root (level 0).
	type section struct {
		node  *Node
		level int
	}
	stack := []section{{node: root}}
	top := func() *Node { return stack[len(stack)-1].node }

	var paragraph []string
	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		text := strings.Join(paragraph, "\n")
		top().AddChild(NewNode(KindParagraph, "", text))
		paragraph = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if match := mp.heading.FindStringSubmatch(line); match != nil {
			flush()
			level := len(match[1])
			for len(stack) > 1 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
			node := NewNode(KindHeading, strings.TrimSpace(match[2]), line)
			top().AddChild(node)
			stack = append(stack, section{node: node, level: level})
			continue
		}
		if match := mp.fence.FindStringSubmatch(line); match != nil {
			flush()
			block := []string{line}
			for i++; i < len(lines); i++ {
				block = append(block, lines[i])
				if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
					break
				}
			}
			top().AddChild(NewNode(KindCodeBlock, match[1], strings.Join(block, "\n")))
			continue
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		paragraph = append(paragraph, line)
	}
	flush()
	return NewTree(root, filePath, "markdown"), nil
}

// LineParser is the fallback for languages without a structural parser: one
// leaf per line, paragraph-style grouping skipped so a one-line edit stays a
// one-leaf change.
type LineParser struct{}

// NewLineParser creates a parser.
func NewLineParser() *LineParser { return &LineParser{} }

func (lp *LineParser) Language() string { return "text" }

// Parse splits the content into one leaf node per line.
func (lp *LineParser) Parse(content string, filePath string) (*Tree, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrBlankSource
	}
	root := NewNode(KindDocument, filepath.Base(filePath), "")
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		root.AddChild(NewNode(KindStatement, "", line))
	}
	return NewTree(root, filePath, "text"), nil
}
