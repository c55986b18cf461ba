package tree

import "errors"

// ErrBlankSource is returned when a parser is handed empty input. Merging
// against a missing version is undefined, so blank text never yields a tree.
var ErrBlankSource = errors.New("blank source text")

// Parser converts file contents into a syntax tree.
type Parser interface {
	Parse(content string, filePath string) (*Tree, error)
	Language() string
}

// ParserRegistry keeps parser implementations keyed by language.
type ParserRegistry struct {
	parsers map[string]Parser
}

// NewParserRegistry constructs a registry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{parsers: make(map[string]Parser)}
}

// DefaultRegistry returns a registry with every built-in parser installed.
func DefaultRegistry() *ParserRegistry {
	registry := NewParserRegistry()
	registry.Register(NewGoParser())
	registry.Register(NewMarkdownParser())
	registry.Register(NewLineParser())
	return registry
}

// Register adds a parser keyed by its Language.
func (pr *ParserRegistry) Register(parser Parser) {
	if parser == nil {
		return
	}
	pr.parsers[parser.Language()] = parser
}

// GetParser retrieves a parser by language identifier.
func (pr *ParserRegistry) GetParser(language string) (Parser, bool) {
	parser, ok := pr.parsers[language]
	return parser, ok
}

// SupportedLanguages returns all registered languages.
func (pr *ParserRegistry) SupportedLanguages() []string {
	langs := make([]string, 0, len(pr.parsers))
	for lang := range pr.parsers {
		langs = append(langs, lang)
	}
	return langs
}
