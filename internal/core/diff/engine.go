// Package diff computes jsondiffpatch-style structural deltas between decoded
// JSON values, with array move detection and identity-keyed object matching.
package diff

import (
	"strings"

	"github.com/agenthands/jsonstudio/internal/core/model"
	"github.com/agenthands/jsonstudio/internal/core/value"
)

type Engine struct {
	hash        HashFunc
	detectMoves bool
}

type Option func(*Engine)

// WithObjectHash replaces the identity rule used to pair array elements.
func WithObjectHash(h HashFunc) Option {
	return func(e *Engine) {
		if h != nil {
			e.hash = h
		}
	}
}

// WithMoveDetection toggles reporting of reordered array elements as moves
// instead of a removal plus an addition.
func WithMoveDetection(enabled bool) Option {
	return func(e *Engine) {
		e.detectMoves = enabled
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		hash:        DefaultObjectHash,
		detectMoves: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Diff returns the delta that turns left into right, or nil when they are
// equal under the engine's identity rule.
func (e *Engine) Diff(left, right value.Value) *model.Delta {
	lt, rt := value.Classify(left), value.Classify(right)
	if lt != rt {
		return model.Modified(left, right)
	}

	switch lt {
	case value.TypeObject:
		return e.diffObjects(left.(*value.Object), right.(*value.Object))
	case value.TypeArray:
		return e.diffArrays(left.(value.Array), right.(value.Array))
	}

	if value.Equal(left, right) {
		return nil
	}
	return model.Modified(left, right)
}

func (e *Engine) diffObjects(left, right *value.Object) *model.Delta {
	d := &model.Delta{Kind: model.DeltaObject}

	left.Each(func(k string, lv value.Value) bool {
		rv, ok := right.Get(k)
		if !ok {
			d.Children = append(d.Children, model.DeltaEntry{Key: k, Delta: model.Deleted(lv)})
			return true
		}
		if child := e.Diff(lv, rv); child != nil {
			d.Children = append(d.Children, model.DeltaEntry{Key: k, Delta: child})
		}
		return true
	})

	right.Each(func(k string, rv value.Value) bool {
		if !left.Has(k) {
			d.Children = append(d.Children, model.DeltaEntry{Key: k, Delta: model.Added(rv)})
		}
		return true
	})

	if len(d.Children) == 0 {
		return nil
	}
	return d
}

// ComputeDiff parses both texts and diffs them. Blank text counts as {}.
// Parse failures are reported in Error with every other field zeroed.
func (e *Engine) ComputeDiff(leftText, rightText string) model.DiffResult {
	left, err := value.ParseOrEmpty(strings.TrimSpace(leftText))
	if err != nil {
		return model.DiffResult{Error: err.Error()}
	}
	right, err := value.ParseOrEmpty(strings.TrimSpace(rightText))
	if err != nil {
		return model.DiffResult{Error: err.Error()}
	}

	delta := e.Diff(left, right)
	return model.DiffResult{
		HasDiff:     delta != nil,
		Delta:       delta,
		LeftParsed:  left,
		RightParsed: right,
	}
}
