// Package doctree models the nested document tree a case's files are served
// as, and flattens it into renderable rows under an expansion state.
package doctree

// Node is the capability surface the flattener needs from a tree entry. It
// is deliberately small so the row machinery can be reused for hierarchies
// other than case documents.
type Node interface {
	Label() string
	HasChildren() bool
	LeafCount() int
	ChildNodes() []Node
	Leaves() []Node
}

// RootPath is the identity of the tree root in an Expansion.
const RootPath = "/"

// Expansion is the set of directory paths currently open. A path's identity
// is the concatenation of its ancestor names; paths that no longer exist
// after a tree refresh are simply inert.
type Expansion map[string]bool

// NewExpansion returns an expansion state with the root open.
func NewExpansion() Expansion {
	return Expansion{RootPath: true}
}

// IsExpanded reports whether a directory path is open.
func (e Expansion) IsExpanded(path string) bool { return e[path] }

// Expand marks a directory path open.
func (e Expansion) Expand(path string) { e[path] = true }

// Toggle flips a directory path between open and closed.
func (e Expansion) Toggle(path string) {
	if e[path] {
		delete(e, path)
	} else {
		e[path] = true
	}
}

// Join appends a child name to a directory path.
func Join(parent, name string) string {
	if parent == RootPath {
		return RootPath + name
	}
	return parent + "/" + name
}

// Row is one visual line of the flattened tree: a directory with its leaf
// count badge, or a single file.
type Row struct {
	Node     Node
	Path     string
	Depth    int
	Dir      bool
	Count    int
	Expanded bool
}

// File returns the file record behind a file row, or nil for directories.
func (r Row) File() *FileRecord {
	f, _ := r.Node.(*FileRecord)
	return f
}

// Flatten walks the tree depth-first pre-order and produces the visible
// rows. A directory row always appears; its child directories (in backend
// order) and then its files (also backend order) appear only while the
// directory is expanded. Files have no collapsed state of their own.
func Flatten(root Node, exp Expansion) []Row {
	var rows []Row
	flattenInto(&rows, root, RootPath, 0, exp)
	return rows
}

func flattenInto(rows *[]Row, n Node, path string, depth int, exp Expansion) {
	expanded := exp.IsExpanded(path)
	*rows = append(*rows, Row{
		Node:     n,
		Path:     path,
		Depth:    depth,
		Dir:      true,
		Count:    n.LeafCount(),
		Expanded: expanded,
	})
	if !expanded {
		return
	}
	for _, child := range n.ChildNodes() {
		flattenInto(rows, child, Join(path, child.Label()), depth+1, exp)
	}
	for _, leaf := range n.Leaves() {
		*rows = append(*rows, Row{
			Node:  leaf,
			Path:  Join(path, leaf.Label()),
			Depth: depth + 1,
		})
	}
}

// ExpandAll opens every directory reachable from root.
func ExpandAll(root Node, exp Expansion) {
	expandAll(root, RootPath, exp)
}

func expandAll(n Node, path string, exp Expansion) {
	exp.Expand(path)
	for _, child := range n.ChildNodes() {
		expandAll(child, Join(path, child.Label()), exp)
	}
}
