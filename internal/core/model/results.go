package model

import "github.com/agenthands/jsonstudio/internal/core/value"

// Format is a conversion target.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// TransformResult carries either converted content or an error, never both.
type TransformResult struct {
	Content string `json:"content"`
	Format  Format `json:"format"`
	Error   string `json:"error,omitempty"`
}

type QueryResult struct {
	Data  value.Value `json:"data"`
	Error string      `json:"error,omitempty"`
}

// Validation reports whether a text is well-formed JSON and its UTF-8 size.
type Validation struct {
	Valid bool   `json:"valid"`
	Size  int    `json:"size"`
	Error string `json:"error,omitempty"`
}
