package doctree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTreeJSON = `{
	"name": "",
	"type": "directory",
	"children": {
		"income": {
			"type": "directory",
			"files": [
				{"key": "f-3", "name": "payslip-jan.pdf", "size": 1024, "lastModified": "2026-01-05T09:00:00Z"}
			]
		},
		"bank": {
			"type": "directory",
			"children": {
				"statements": {
					"type": "directory",
					"files": [
						{"key": "f-1", "name": "jan.pdf", "size": 2048, "lastModified": "2026-02-01T10:00:00Z"},
						{"key": "f-2", "name": "feb.pdf", "size": 4096, "lastModified": "2026-03-01T10:00:00Z"}
					]
				}
			}
		},
		"advice": {
			"type": "directory"
		}
	},
	"files": [
		{"key": "f-0", "name": "intake-form.pdf", "size": 512, "lastModified": "2026-01-01T08:00:00Z"}
	]
}`

func TestTreeNodeUnmarshalKeepsChildOrder(t *testing.T) {
	var root TreeNode
	require.NoError(t, json.Unmarshal([]byte(sampleTreeJSON), &root))

	// "income" precedes "bank" precedes "advice" on the wire even though
	// that is not alphabetical; the order must survive decoding.
	require.Len(t, root.Children, 3)
	assert.Equal(t, "income", root.Children[0].Name)
	assert.Equal(t, "bank", root.Children[1].Name)
	assert.Equal(t, "advice", root.Children[2].Name)
}

func TestTreeNodeUnmarshalFiles(t *testing.T) {
	var root TreeNode
	require.NoError(t, json.Unmarshal([]byte(sampleTreeJSON), &root))

	require.Len(t, root.Files, 1)
	assert.Equal(t, "f-0", root.Files[0].Key)
	assert.Equal(t, int64(512), root.Files[0].Size)

	statements := root.Children[1].Children[0]
	assert.Equal(t, "statements", statements.Name)
	require.Len(t, statements.Files, 2)
	assert.Equal(t, "jan.pdf", statements.Files[0].Name)
	assert.Equal(t, "feb.pdf", statements.Files[1].Name)
}

func TestTreeNodeUnmarshalDefaults(t *testing.T) {
	var node TreeNode
	require.NoError(t, json.Unmarshal([]byte(`{"children": {"a": {}}}`), &node))

	// Absent type means directory, and child names fall back to their key.
	assert.True(t, node.IsDir())
	require.Len(t, node.Children, 1)
	assert.Equal(t, "a", node.Children[0].Name)
	assert.True(t, node.Children[0].IsDir())
}

func TestTreeNodeUnmarshalNullChildren(t *testing.T) {
	var node TreeNode
	require.NoError(t, json.Unmarshal([]byte(`{"name": "x", "type": "directory", "children": null}`), &node))
	assert.Empty(t, node.Children)
}

func TestTreeNodeUnmarshalSkipsUnknownFields(t *testing.T) {
	var node TreeNode
	err := json.Unmarshal([]byte(`{"name": "x", "ocrStatus": {"pending": true}, "type": "directory"}`), &node)
	require.NoError(t, err)
	assert.Equal(t, "x", node.Name)
}

func TestTreeNodeUnmarshalRejectsNonObject(t *testing.T) {
	var node TreeNode
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &node))

	var bad TreeNode
	assert.Error(t, json.Unmarshal([]byte(`{"children": [1]}`), &bad))
}

func TestFileNodeIsTerminal(t *testing.T) {
	f := &FileRecord{Key: "k", Name: "doc.pdf"}
	assert.False(t, f.HasChildren())
	assert.Nil(t, f.ChildNodes())
	assert.Nil(t, f.Leaves())
	assert.Equal(t, 1, f.LeafCount())
}

func TestLeafCount(t *testing.T) {
	var root TreeNode
	require.NoError(t, json.Unmarshal([]byte(sampleTreeJSON), &root))

	assert.Equal(t, 4, root.LeafCount())
	assert.Equal(t, 1, root.Children[0].LeafCount()) // income
	assert.Equal(t, 2, root.Children[1].LeafCount()) // bank -> statements
	assert.Equal(t, 0, root.Children[2].LeafCount()) // advice, empty
}
