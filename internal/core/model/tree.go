package model

import (
	"encoding/json"

	"github.com/agenthands/jsonstudio/internal/core/value"
)

type TreeNode struct {
	ID         string      `json:"id"`
	Key        string      `json:"key"`
	Value      value.Value `json:"value"`
	Type       value.Type  `json:"type"`
	Depth      int         `json:"depth"`
	Path       string      `json:"path"` // dot/bracket address, unique within one tree
	IsExpanded bool        `json:"isExpanded"`
	Children   []*TreeNode `json:"children,omitempty"`
}

// HasChildren reports whether the node is a container. Empty containers have
// children, just zero of them.
func (n *TreeNode) HasChildren() bool {
	return n.Type == value.TypeObject || n.Type == value.TypeArray
}

// MarshalJSON emits "children" for every container, including empty ones,
// and never for scalars.
func (n *TreeNode) MarshalJSON() ([]byte, error) {
	type plain TreeNode
	out := struct {
		*plain
		Children *[]*TreeNode `json:"children,omitempty"`
	}{plain: (*plain)(n)}

	if n.HasChildren() {
		children := n.Children
		if children == nil {
			children = []*TreeNode{}
		}
		out.Children = &children
	}
	return json.Marshal(out)
}
