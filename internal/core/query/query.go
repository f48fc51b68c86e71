// Package query evaluates JSONPath expressions against decoded JSON.
//
// Supported syntax covers the root "$" (optional), dot and bracket members,
// indexes (negative from the end), wildcards, recursive descent "..",
// slices, unions and filters "[?(...)]". Filters use a JavaScript-like
// expression language over "@" (the candidate) and "$" (the document root)
// with comparisons, "=~ /regex/flags", "&&", "||" and "!".
package query

import (
	"strings"

	"github.com/agenthands/jsonstudio/internal/core/model"
	"github.com/agenthands/jsonstudio/internal/core/value"
)

// ExecuteQuery evaluates path against v. A blank path returns v unchanged,
// no match yields null data, and a malformed path yields an error message.
func ExecuteQuery(v value.Value, path string) model.QueryResult {
	if strings.TrimSpace(path) == "" {
		return model.QueryResult{Data: v}
	}

	p, err := Compile(path)
	if err != nil {
		return model.QueryResult{Error: err.Error()}
	}
	return model.QueryResult{Data: p.Evaluate(v)}
}
