package tree

import (
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// GoParser builds syntax trees using go/parser.
type GoParser struct{}

// NewGoParser returns a ready-to-use Go parser.
func NewGoParser() *GoParser { return &GoParser{} }

func (gp *GoParser) Language() string { return "go" }

// Parse converts Go source code into a tree. Declarations become structural
// nodes; statements inside function bodies become leaves carrying their
// exact source text, so a leaf edit in the source shows up as a single leaf
// content change in the tree.
func (gp *GoParser) Parse(content string, filePath string) (*Tree, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrBlankSource
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, content, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	slice := func(from, to token.Pos) string {
		start := fset.Position(from).Offset
		end := fset.Position(to).Offset
		if start < 0 || end > len(content) || start > end {
			return ""
		}
		return content[start:end]
	}

	root := NewNode(KindFile, file.Name.Name, "")
	root.AddChild(NewNode(KindPackage, file.Name.Name, slice(file.Package, file.Name.End())))

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *goast.FuncDecl:
			root.AddChild(gp.buildFunctionNode(d, slice))
		case *goast.GenDecl:
			for _, node := range gp.buildGenDeclNodes(d, slice) {
				root.AddChild(node)
			}
		}
	}
	return NewTree(root, filePath, "go"), nil
}

func (gp *GoParser) buildFunctionNode(decl *goast.FuncDecl, slice func(token.Pos, token.Pos) string) *Node {
	kind := KindFunction
	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		kind = KindMethod
	}
	fn := NewNode(kind, decl.Name.Name, "")

	start := decl.Pos()
	if decl.Doc != nil {
		start = decl.Doc.Pos()
	}
	if decl.Body == nil {
		fn.AddChild(NewNode(KindSignature, decl.Name.Name, slice(start, decl.End())))
		return fn
	}

	fn.AddChild(NewNode(KindSignature, decl.Name.Name, slice(start, decl.Body.Lbrace+1)))
	body := NewNode(KindBody, decl.Name.Name, "")
	for _, stmt := range decl.Body.List {
		body.AddChild(NewNode(KindStatement, "", slice(stmt.Pos(), stmt.End())))
	}
	fn.AddChild(body)
	fn.AddChild(NewNode(KindToken, "", "}"))
	return fn
}

func (gp *GoParser) buildGenDeclNodes(decl *goast.GenDecl, slice func(token.Pos, token.Pos) string) []*Node {
	switch decl.Tok {
	case token.IMPORT:
		nodes := make([]*Node, 0, len(decl.Specs))
		for _, spec := range decl.Specs {
			imp, ok := spec.(*goast.ImportSpec)
			if !ok {
				continue
			}
			path := strings.Trim(imp.Path.Value, "\"")
			text := "import " + slice(imp.Pos(), imp.End())
			nodes = append(nodes, NewNode(KindImport, path, text))
		}
		return nodes
	case token.TYPE:
		kind, label := KindType, gp.declLabel(decl)
		return []*Node{gp.declNode(decl, kind, label, slice)}
	case token.CONST:
		return []*Node{gp.declNode(decl, KindConstant, gp.declLabel(decl), slice)}
	default:
		return []*Node{gp.declNode(decl, KindVariable, gp.declLabel(decl), slice)}
	}
}

func (gp *GoParser) declNode(decl *goast.GenDecl, kind Kind, label string, slice func(token.Pos, token.Pos) string) *Node {
	start := decl.Pos()
	if decl.Doc != nil {
		start = decl.Doc.Pos()
	}
	return NewNode(kind, label, slice(start, decl.End()))
}

func (gp *GoParser) declLabel(decl *goast.GenDecl) string {
	names := make([]string, 0, len(decl.Specs))
	for _, spec := range decl.Specs {
		switch typed := spec.(type) {
		case *goast.TypeSpec:
			names = append(names, typed.Name.Name)
		case *goast.ValueSpec:
			for _, name := range typed.Names {
				names = append(names, name.Name)
			}
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("%s", decl.Tok)
	}
	return strings.Join(names, ",")
}
