package diff

import (
	"math"
	"strconv"

	"github.com/agenthands/jsonstudio/internal/core/value"
)

// HashFunc returns the identity of an array element. Elements match when
// their hashes are equal; ok=false means the element never matches by hash.
type HashFunc func(v value.Value) (hash string, ok bool)

// DefaultObjectHash identifies objects by a truthy "id" field, then a truthy
// "_id" field, and otherwise by their compact JSON text.
func DefaultObjectHash(v value.Value) (string, bool) {
	if obj, ok := v.(*value.Object); ok && obj != nil {
		for _, field := range []string{"id", "_id"} {
			if id, ok := obj.Get(field); ok && value.Truthy(id) {
				return displayString(id), true
			}
		}
	}
	return string(value.Marshal(v)), true
}

// PositionHash never pairs containers by content, so only identical scalars
// line up. Useful for callers that want plain index-by-index array diffs.
func PositionHash(value.Value) (string, bool) {
	return "", false
}

// displayString renders an identity field the way String() would in
// JavaScript, so 7 and "7" name the same element.
func displayString(v value.Value) string {
	switch x := v.(type) {
	case value.String:
		return string(x)
	case value.Number:
		return jsNumber(x.Float64())
	case value.Bool:
		return strconv.FormatBool(bool(x))
	}
	return string(value.Marshal(v))
}

func jsNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'e', -1, 64)
}
