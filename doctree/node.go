package doctree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Node types as emitted by the backend.
const (
	TypeFile      = "file"
	TypeDirectory = "directory"
)

// FileRecord is a single stored document. Immutable once fetched.
type FileRecord struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// TreeNode is one entry of the nested document tree returned by the backend.
// A node is either a directory (carries Children and Files) or a file, which
// is terminal. Child directories keep the order in which the backend emitted
// them; Files keep backend order as well and are never re-sorted.
type TreeNode struct {
	Name     string
	Type     string
	Children []*TreeNode
	Files    []FileRecord
}

// IsDir reports whether the node is a directory.
func (n *TreeNode) IsDir() bool {
	return n.Type != TypeFile
}

// UnmarshalJSON decodes a tree node. The backend sends "children" as a JSON
// object keyed by directory name; a plain map would lose the document order,
// so the object is walked token by token and children are appended in the
// order they appear on the wire.
func (n *TreeNode) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("tree node: %w", err)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("tree node: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tree node: unexpected token %v", keyTok)
		}

		switch key {
		case "name":
			if err := dec.Decode(&n.Name); err != nil {
				return fmt.Errorf("tree node name: %w", err)
			}
		case "type":
			if err := dec.Decode(&n.Type); err != nil {
				return fmt.Errorf("tree node type: %w", err)
			}
		case "files":
			if err := dec.Decode(&n.Files); err != nil {
				return fmt.Errorf("tree node files: %w", err)
			}
		case "children":
			if err := n.decodeChildren(dec); err != nil {
				return err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return fmt.Errorf("tree node %q: %w", key, err)
			}
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("tree node: %w", err)
	}
	if n.Type == "" {
		n.Type = TypeDirectory
	}
	return nil
}

func (n *TreeNode) decodeChildren(dec *json.Decoder) error {
	// "children": null means the same as an absent key.
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("tree children: %w", err)
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("tree children: expected object, got %v", tok)
	}

	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("tree children: %w", err)
		}
		name, ok := nameTok.(string)
		if !ok {
			return fmt.Errorf("tree children: unexpected token %v", nameTok)
		}

		child := &TreeNode{}
		if err := dec.Decode(child); err != nil {
			return fmt.Errorf("tree child %q: %w", name, err)
		}
		if child.Name == "" {
			child.Name = name
		}
		n.Children = append(n.Children, child)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("tree children: %w", err)
	}
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// Label implements Node.
func (n *TreeNode) Label() string { return n.Name }

// HasChildren implements Node.
func (n *TreeNode) HasChildren() bool {
	return len(n.Children) > 0 || len(n.Files) > 0
}

// LeafCount returns the number of file records reachable from this node:
// the node's own files plus the counts of every child directory.
func (n *TreeNode) LeafCount() int {
	total := len(n.Files)
	for _, c := range n.Children {
		if c.IsDir() {
			total += c.LeafCount()
		}
	}
	return total
}

// ChildNodes implements Node.
func (n *TreeNode) ChildNodes() []Node {
	out := make([]Node, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c)
	}
	return out
}

// Leaves implements Node.
func (n *TreeNode) Leaves() []Node {
	out := make([]Node, 0, len(n.Files))
	for i := range n.Files {
		out = append(out, &n.Files[i])
	}
	return out
}

// FileRecord also satisfies Node so file rows flow through the same flattener.

func (f *FileRecord) Label() string      { return f.Name }
func (f *FileRecord) HasChildren() bool  { return false }
func (f *FileRecord) LeafCount() int     { return 1 }
func (f *FileRecord) ChildNodes() []Node { return nil }
func (f *FileRecord) Leaves() []Node     { return nil }
