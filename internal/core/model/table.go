package model

import "github.com/agenthands/jsonstudio/internal/core/value"

// TableSection is one flattened view of a JSON collection. Every row's keys
// are a subset of Columns; missing cells are simply absent.
type TableSection struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Columns []string        `json:"columns"`
	Rows    []*value.Object `json:"rows"`
}

type TableData struct {
	Sections []TableSection `json:"sections"`
}

// Section returns the section with the given id, or nil.
func (d *TableData) Section(id string) *TableSection {
	if d == nil {
		return nil
	}
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}
