// Package core ties the panel algorithms together behind a single Studio
// value that works on raw editor text.
package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agenthands/jsonstudio/internal/core/diff"
	"github.com/agenthands/jsonstudio/internal/core/model"
	"github.com/agenthands/jsonstudio/internal/core/query"
	"github.com/agenthands/jsonstudio/internal/core/table"
	"github.com/agenthands/jsonstudio/internal/core/transform"
	"github.com/agenthands/jsonstudio/internal/core/tree"
	"github.com/agenthands/jsonstudio/internal/core/value"
)

type Studio struct {
	Differ        *diff.Engine
	UUIDGenerator func() string
}

func NewStudio(opts ...diff.Option) *Studio {
	return &Studio{
		Differ:        diff.New(opts...),
		UUIDGenerator: uuid.NewString,
	}
}

// Diff compares two documents. Blank text counts as {}.
func (s *Studio) Diff(leftText, rightText string) model.DiffResult {
	return s.Differ.ComputeDiff(leftText, rightText)
}

func (s *Studio) Tree(text string) (*model.TreeNode, error) {
	v, err := parse(text)
	if err != nil {
		return nil, err
	}
	b := &tree.Builder{NewID: s.UUIDGenerator}
	return b.Build(v, tree.RootKey, 0, tree.RootPath), nil
}

// Table returns nil data without error when the document has nothing to
// tabulate.
func (s *Studio) Table(text string) (*model.TableData, error) {
	v, err := parse(text)
	if err != nil {
		return nil, err
	}
	return table.TransformToTable(v), nil
}

func (s *Studio) Transform(ctx context.Context, text string, format model.Format) model.TransformResult {
	v, err := parse(text)
	if err != nil {
		return model.TransformResult{Format: format, Error: err.Error()}
	}
	return transform.TransformJSON(ctx, v, format)
}

func (s *Studio) Query(text, path string) model.QueryResult {
	v, err := parse(text)
	if err != nil {
		return model.QueryResult{Error: err.Error()}
	}
	return query.ExecuteQuery(v, path)
}

func (s *Studio) Format(text string, indent int) (string, error) {
	out, ok := value.Format(text, indent)
	if !ok {
		_, err := parse(text)
		return "", err
	}
	return out, nil
}

func (s *Studio) Minify(text string) (string, error) {
	out, ok := value.Minify(text)
	if !ok {
		_, err := parse(text)
		return "", err
	}
	return out, nil
}

func (s *Studio) Validate(text string) model.Validation {
	res := model.Validation{Valid: value.IsValid(text), Size: value.Size(text)}
	if !res.Valid {
		_, err := value.Parse(text)
		if err != nil {
			res.Error = err.Error()
		}
	}
	return res
}

func parse(text string) (value.Value, error) {
	v, err := value.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return v, nil
}
