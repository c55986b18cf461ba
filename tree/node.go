package tree

// Kind tags a node with its syntactic role.
type Kind string

const (
	KindFile      Kind = "file"
	KindPackage   Kind = "package"
	KindImport    Kind = "import"
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindSignature Kind = "signature"
	KindBody      Kind = "body"
	KindStatement Kind = "statement"
	KindType      Kind = "type"
	KindVariable  Kind = "variable"
	KindConstant  Kind = "constant"
	KindComment   Kind = "comment"

	KindDocument  Kind = "document"
	KindSection   Kind = "section"
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindCodeBlock Kind = "code_block"

	KindToken Kind = "token"
)

// Node is an ordered, labeled syntax-tree node. Label carries an
// identifier-like name (function name, heading title), Text carries the
// literal source slice for leaf-ish nodes. Children order is source order
// and is semantically meaningful.
type Node struct {
	Kind     Kind    `json:"kind"`
	Label    string  `json:"label,omitempty"`
	Text     string  `json:"text,omitempty"`
	Parent   *Node   `json:"-"`
	Children []*Node `json:"children,omitempty"`
}

// NewNode constructs a detached node.
func NewNode(kind Kind, label, text string) *Node {
	return &Node{Kind: kind, Label: label, Text: text}
}

// AddChild appends child and takes ownership of it.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// InsertChild places child at index, clamped to the valid range. An index
// past the end appends.
func (n *Node) InsertChild(index int, child *Node) {
	if child == nil {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(n.Children) {
		n.AddChild(child)
		return
	}
	child.Parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[index+1:], n.Children[index:])
	n.Children[index] = child
}

// Detach removes the node from its parent's children, if any.
func (n *Node) Detach() {
	if n.Parent == nil {
		return
	}
	siblings := n.Parent.Children
	for i, sibling := range siblings {
		if sibling == n {
			n.Parent.Children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.Parent = nil
}

// IsLeaf reports whether the node owns no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Clone deep-copies the subtree rooted at n. The copy is detached: its
// Parent is nil and it shares no node instances with the original, so it can
// be spliced into another tree without aliasing.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := &Node{Kind: n.Kind, Label: n.Label, Text: n.Text}
	if len(n.Children) > 0 {
		clone.Children = make([]*Node, 0, len(n.Children))
		for _, child := range n.Children {
			childClone := child.Clone()
			childClone.Parent = clone
			clone.Children = append(clone.Children, childClone)
		}
	}
	return clone
}

// Identical reports structural identity: same shape, kinds, labels, and
// text, compared recursively. Two nil nodes are identical; a nil and a
// non-nil node are not.
func Identical(a, b *Node) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.Label != b.Label || a.Text != b.Text {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Identical(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Walk visits the subtree in pre-order. Returning false from visit stops
// descent into the current node's children but not the walk overall.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// Size counts the nodes in the subtree.
func (n *Node) Size() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Tree wraps a root node with its origin metadata.
type Tree struct {
	Root     *Node
	Path     string
	Language string
}

// NewTree builds a tree around root.
func NewTree(root *Node, path, language string) *Tree {
	return &Tree{Root: root, Path: path, Language: language}
}
