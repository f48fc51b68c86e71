// Package tree converts decoded JSON into path-labeled display nodes.
package tree

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/agenthands/jsonstudio/internal/core/model"
	"github.com/agenthands/jsonstudio/internal/core/value"
)

const (
	RootKey  = "root"
	RootPath = "root"

	// expandedDepth is the first depth rendered collapsed.
	expandedDepth = 2
)

type Builder struct {
	NewID func() string
}

func New() *Builder {
	return &Builder{NewID: uuid.NewString}
}

// BuildTree builds the tree for v rooted at "root".
func BuildTree(v value.Value) *model.TreeNode {
	return New().Build(v, RootKey, 0, RootPath)
}

type frame struct {
	node *model.TreeNode
	val  value.Value
}

// Build returns the node for v and all of its descendants. Nodes are built
// with an explicit work stack, so nesting depth is limited only by memory.
func (b *Builder) Build(v value.Value, key string, depth int, path string) *model.TreeNode {
	newID := b.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	mk := func(v value.Value, key string, depth int, path string) *model.TreeNode {
		return &model.TreeNode{
			ID:         newID(),
			Key:        key,
			Value:      v,
			Type:       value.Classify(v),
			Depth:      depth,
			Path:       path,
			IsExpanded: depth < expandedDepth,
		}
	}

	root := mk(v, key, depth, path)
	stack := []frame{{node: root, val: v}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.node

		switch n.Type {
		case value.TypeObject:
			obj := f.val.(*value.Object)
			n.Children = make([]*model.TreeNode, 0, obj.Len())
			obj.Each(func(k string, child value.Value) bool {
				c := mk(child, k, n.Depth+1, n.Path+"."+k)
				n.Children = append(n.Children, c)
				stack = append(stack, frame{node: c, val: child})
				return true
			})
		case value.TypeArray:
			arr := f.val.(value.Array)
			n.Children = make([]*model.TreeNode, 0, len(arr))
			for i, child := range arr {
				idx := "[" + strconv.Itoa(i) + "]"
				c := mk(child, idx, n.Depth+1, n.Path+idx)
				n.Children = append(n.Children, c)
				stack = append(stack, frame{node: c, val: child})
			}
		}
	}
	return root
}

// Walk visits n and its descendants depth-first in document order until fn
// returns false.
func Walk(n *model.TreeNode, fn func(*model.TreeNode) bool) {
	if n == nil {
		return
	}
	stack := []*model.TreeNode{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			return
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}
