package query

import (
	"strconv"
	"unicode/utf16"

	"github.com/agenthands/jsonstudio/internal/core/value"
)

// Select returns every value the path matches in document order.
func (p *Path) Select(root value.Value) []value.Value {
	ev := &evaluator{root: root}
	ev.walk(root, p.selectors)
	return ev.out
}

// Evaluate returns the path's result: nil when nothing matches, the bare
// value for a single match of a path without multi-value selectors, and an
// array of all matches otherwise.
func (p *Path) Evaluate(root value.Value) value.Value {
	matches := p.Select(root)
	switch {
	case len(matches) == 0:
		return nil
	case len(matches) == 1 && !p.multi:
		return matches[0]
	}
	return value.Array(matches)
}

type evaluator struct {
	root value.Value
	out  []value.Value
}

func (ev *evaluator) walk(node value.Value, sels []selector) {
	if len(sels) == 0 {
		ev.out = append(ev.out, node)
		return
	}
	ev.apply(node, sels[0], sels[1:])
}

func (ev *evaluator) apply(node value.Value, sel selector, rest []selector) {
	switch sel.kind {
	case selChild:
		if v, ok := member(node, sel.name); ok {
			ev.walk(v, rest)
		}
	case selIndex:
		if v, ok := index(node, sel.index); ok {
			ev.walk(v, rest)
		}
	case selWildcard:
		eachChild(node, func(v value.Value) {
			ev.walk(v, rest)
		})
	case selRecursive:
		ev.descend(node, rest)
	case selSlice:
		arr, ok := node.(value.Array)
		if !ok {
			return
		}
		start, end := sliceBounds(len(arr), sel.start, sel.end)
		for i := start; i < end; i += sel.step {
			ev.walk(arr[i], rest)
		}
	case selUnion:
		for _, part := range sel.union {
			ev.apply(node, part, rest)
		}
	case selFilter:
		eachChild(node, func(v value.Value) {
			res, ok := sel.filter.eval(&env{current: v, root: ev.root})
			if ok && value.Truthy(res) {
				ev.walk(v, rest)
			}
		})
	}
}

// descend applies rest to node and then to every container below it.
func (ev *evaluator) descend(node value.Value, rest []selector) {
	ev.walk(node, rest)
	eachChild(node, func(v value.Value) {
		if value.IsContainer(v) {
			ev.descend(v, rest)
		}
	})
}

func eachChild(node value.Value, fn func(value.Value)) {
	switch x := node.(type) {
	case value.Array:
		for _, v := range x {
			fn(v)
		}
	case *value.Object:
		x.Each(func(_ string, v value.Value) bool {
			fn(v)
			return true
		})
	}
}

// member looks up name the way a JavaScript property access would: object
// fields, array elements by decimal index, and "length" of arrays and
// strings.
func member(node value.Value, name string) (value.Value, bool) {
	switch x := node.(type) {
	case *value.Object:
		return x.Get(name)
	case value.Array:
		if name == "length" {
			return value.Int(len(x)), true
		}
		if n, err := strconv.Atoi(name); err == nil && n >= 0 && strconv.Itoa(n) == name {
			return index(x, n)
		}
	case value.String:
		if name == "length" {
			return value.Int(len(utf16.Encode([]rune(string(x))))), true
		}
	}
	return nil, false
}

// index selects an array element; negative indexes count from the end.
func index(node value.Value, i int) (value.Value, bool) {
	switch x := node.(type) {
	case value.Array:
		if i < 0 {
			i += len(x)
		}
		if i < 0 || i >= len(x) {
			return nil, false
		}
		return x[i], true
	case *value.Object:
		return x.Get(strconv.Itoa(i))
	}
	return nil, false
}

func sliceBounds(n int, start, end *int) (int, int) {
	clamp := func(i int) int {
		if i < 0 {
			i += n
		}
		return min(max(i, 0), n)
	}
	s, e := 0, n
	if start != nil {
		s = clamp(*start)
	}
	if end != nil {
		e = clamp(*end)
	}
	return s, e
}
