package model

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/agenthands/jsonstudio/internal/core/value"
)

// DeltaKind identifies one jsondiffpatch operation.
type DeltaKind int

const (
	DeltaAdded    DeltaKind = iota // [new]
	DeltaModified                  // [old, new]
	DeltaDeleted                   // [old, 0, 0]
	DeltaMoved                     // [old, newIndex, 3]
	DeltaObject                    // nested object changes
	DeltaArray                     // nested array changes, "_t": "a"
)

// Wire markers in the third slot of a leaf.
const (
	markerDeleted = 0
	markerMoved   = 3
)

// ArrayMarker is the "_t" value jsondiffpatch stores on array deltas.
const ArrayMarker = "a"

// Delta is a structural change tree between two JSON values.
type Delta struct {
	Kind     DeltaKind
	Old      value.Value
	New      value.Value
	To       int // destination index for DeltaMoved
	Children []DeltaEntry
}

// DeltaEntry is a keyed child of an object or array delta. Array children use
// the right-hand index ("3") or, for removals and moves, the left-hand index
// with an underscore prefix ("_3").
type DeltaEntry struct {
	Key   string
	Delta *Delta
}

func Added(v value.Value) *Delta          { return &Delta{Kind: DeltaAdded, New: v} }
func Modified(old, nu value.Value) *Delta { return &Delta{Kind: DeltaModified, Old: old, New: nu} }
func Deleted(v value.Value) *Delta        { return &Delta{Kind: DeltaDeleted, Old: v} }

func (d *Delta) IsLeaf() bool {
	return d.Kind != DeltaObject && d.Kind != DeltaArray
}

// Child returns the entry stored under key, or nil.
func (d *Delta) Child(key string) *Delta {
	if d == nil {
		return nil
	}
	for _, e := range d.Children {
		if e.Key == key {
			return e.Delta
		}
	}
	return nil
}

// SortArrayEntries orders array children the way JavaScript enumerates the
// delta object: integer keys ascending, then "_N" keys ascending.
func (d *Delta) SortArrayEntries() {
	sort.SliceStable(d.Children, func(i, j int) bool {
		ki, kj := d.Children[i].Key, d.Children[j].Key
		ui, uj := strings.HasPrefix(ki, "_"), strings.HasPrefix(kj, "_")
		if ui != uj {
			return !ui
		}
		ni, _ := strconv.Atoi(strings.TrimPrefix(ki, "_"))
		nj, _ := strconv.Atoi(strings.TrimPrefix(kj, "_"))
		return ni < nj
	})
}

// MarshalJSON renders the jsondiffpatch delta format.
func (d *Delta) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	d.write(&buf)
	return buf.Bytes(), nil
}

func (d *Delta) write(buf *bytes.Buffer) {
	switch d.Kind {
	case DeltaAdded:
		buf.WriteByte('[')
		buf.Write(value.Marshal(d.New))
		buf.WriteByte(']')
	case DeltaModified:
		buf.WriteByte('[')
		buf.Write(value.Marshal(d.Old))
		buf.WriteByte(',')
		buf.Write(value.Marshal(d.New))
		buf.WriteByte(']')
	case DeltaDeleted:
		buf.WriteByte('[')
		buf.Write(value.Marshal(d.Old))
		buf.WriteString(",0," + strconv.Itoa(markerDeleted) + "]")
	case DeltaMoved:
		buf.WriteByte('[')
		buf.Write(value.Marshal(d.Old))
		buf.WriteString("," + strconv.Itoa(d.To) + "," + strconv.Itoa(markerMoved) + "]")
	case DeltaObject:
		buf.WriteByte('{')
		for i, e := range d.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeKey(buf, e.Key)
			e.Delta.write(buf)
		}
		buf.WriteByte('}')
	case DeltaArray:
		buf.WriteByte('{')
		wroteMarker := false
		first := true
		for _, e := range d.Children {
			if !wroteMarker && strings.HasPrefix(e.Key, "_") {
				if !first {
					buf.WriteByte(',')
				}
				buf.WriteString(`"_t":"` + ArrayMarker + `"`)
				wroteMarker, first = true, false
			}
			if !first {
				buf.WriteByte(',')
			}
			writeKey(buf, e.Key)
			e.Delta.write(buf)
			first = false
		}
		if !wroteMarker {
			if !first {
				buf.WriteByte(',')
			}
			buf.WriteString(`"_t":"` + ArrayMarker + `"`)
		}
		buf.WriteByte('}')
	}
}

func writeKey(buf *bytes.Buffer, key string) {
	buf.Write(value.Marshal(value.String(key)))
	buf.WriteByte(':')
}

// DiffResult is the outcome of comparing two JSON texts.
type DiffResult struct {
	HasDiff     bool        `json:"hasDiff"`
	Delta       *Delta      `json:"delta"`
	LeftParsed  value.Value `json:"leftParsed"`
	RightParsed value.Value `json:"rightParsed"`
	Error       string      `json:"error,omitempty"`
}

var _ json.Marshaler = (*Delta)(nil)
