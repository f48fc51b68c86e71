// Package table flattens decoded JSON into row/column sections.
package table

import (
	"unicode"
	"unicode/utf8"

	"github.com/agenthands/jsonstudio/internal/core/model"
	"github.com/agenthands/jsonstudio/internal/core/value"
)

const (
	RootID      = "root"
	RootTitle   = "Root"
	ValueColumn = "Value"
	propPrefix  = "prop-"
)

// TransformToTable builds every tabulable section of v. It returns nil for
// scalar input and when no section has any columns.
func TransformToTable(v value.Value) *model.TableData {
	if !value.IsContainer(v) {
		return nil
	}

	data := &model.TableData{}
	if s := createSection(RootID, RootTitle, asRows(v)); s != nil && len(s.Rows) > 0 {
		data.Sections = append(data.Sections, *s)
	}

	if obj, ok := v.(*value.Object); ok {
		obj.Each(func(key string, prop value.Value) bool {
			if s := createSection(propPrefix+key, Title(key), asRows(prop)); s != nil {
				data.Sections = append(data.Sections, *s)
			}
			return true
		})
	}

	if len(data.Sections) == 0 {
		return nil
	}
	return data
}

// asRows treats v as a list of rows: arrays contribute their items, anything
// else is a single row.
func asRows(v value.Value) []value.Value {
	if arr, ok := v.(value.Array); ok {
		return arr
	}
	return []value.Value{v}
}

func createSection(id, title string, items []value.Value) *model.TableSection {
	section := &model.TableSection{
		ID:      id,
		Title:   title,
		Columns: []string{},
		Rows:    make([]*value.Object, 0, len(items)),
	}
	seen := map[string]bool{}
	addColumn := func(c string) {
		if !seen[c] {
			seen[c] = true
			section.Columns = append(section.Columns, c)
		}
	}

	for _, item := range items {
		if obj, ok := item.(*value.Object); ok && obj != nil {
			for _, k := range obj.Keys() {
				addColumn(k)
			}
			section.Rows = append(section.Rows, obj)
			continue
		}

		row := value.NewObject()
		row.Set(ValueColumn, item)
		addColumn(ValueColumn)
		section.Rows = append(section.Rows, row)
	}

	if len(section.Columns) == 0 {
		return nil
	}
	return section
}

// Title upper-cases the first letter of key.
func Title(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}
