package transform

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/agenthands/jsonstudio/internal/core/value"
)

// ToCSV renders a list of objects as CSV. A non-array input is treated as a
// one-row list. Nested objects flatten into dotted column names; arrays are
// written as JSON text. A literal "a.b" key next to a nested {"a":{"b":..}}
// names the same column and is rejected.
func ToCSV(v value.Value) (string, error) {
	items, ok := v.(value.Array)
	if !ok {
		items = value.Array{v}
	}

	var columns []string
	seen := map[string]bool{}
	rows := make([]map[string]string, 0, len(items))

	for i, item := range items {
		obj, ok := item.(*value.Object)
		if !ok || obj == nil {
			return "", shapeError(fmt.Sprintf("item %d is a %s, expected an object", i, value.Classify(item)))
		}

		row := map[string]string{}
		var clash string
		flatten(obj, "", func(col, cell string) {
			if _, dup := row[col]; dup && clash == "" {
				clash = col
			}
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
			row[col] = cell
		})
		if clash != "" {
			return "", shapeError(fmt.Sprintf("item %d has more than one field flattening to %q", i, clash))
		}
		rows = append(rows, row)
	}

	if len(columns) == 0 {
		return "", shapeError("no fields found")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func flatten(obj *value.Object, prefix string, emit func(col, cell string)) {
	obj.Each(func(k string, item value.Value) bool {
		col := prefix + k
		if nested, ok := item.(*value.Object); ok && nested.Len() > 0 {
			flatten(nested, col+".", emit)
			return true
		}
		emit(col, cell(item))
		return true
	})
}

func cell(v value.Value) string {
	switch x := v.(type) {
	case value.String:
		return string(x)
	case value.Number:
		return string(x)
	case value.Bool:
		if x {
			return "true"
		}
		return "false"
	case value.Array, *value.Object:
		return string(value.Marshal(v))
	}
	return "null"
}
