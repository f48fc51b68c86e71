package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// SyntaxError reports JSON text that could not be decoded.
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid JSON at offset %d: %s", e.Offset, e.Msg)
}

// Parse decodes JSON text, preserving object key order.
func Parse(text string) (Value, error) {
	if !gjson.Valid(text) {
		return nil, describeSyntaxError(text)
	}
	return fromResult(gjson.Parse(text)), nil
}

// ParseOrEmpty is Parse with blank input treated as an empty object.
func ParseOrEmpty(text string) (Value, error) {
	if strings.TrimSpace(text) == "" {
		return NewObject(), nil
	}
	return Parse(text)
}

// MustParse is Parse that panics on error. Only meant for fixtures.
func MustParse(text string) Value {
	v, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("value.MustParse: %v", err))
	}
	return v
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null{}
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(r.Raw)
	case gjson.String:
		return String(r.Str)
	}

	if r.IsArray() {
		arr := Array{}
		r.ForEach(func(_, item gjson.Result) bool {
			arr = append(arr, fromResult(item))
			return true
		})
		return arr
	}

	obj := NewObject()
	r.ForEach(func(key, item gjson.Result) bool {
		obj.Set(key.Str, fromResult(item))
		return true
	})
	return obj
}

// describeSyntaxError asks encoding/json for a positioned diagnostic, since
// gjson only answers valid or not.
func describeSyntaxError(text string) error {
	var discard any
	err := json.Unmarshal([]byte(text), &discard)

	var se *json.SyntaxError
	if errors.As(err, &se) {
		if truncatedAt(text, se) {
			return &SyntaxError{Offset: se.Offset, Msg: "unexpected end of JSON input"}
		}
		return &SyntaxError{Offset: se.Offset, Msg: se.Error()}
	}
	if err != nil {
		return &SyntaxError{Msg: err.Error()}
	}
	return &SyntaxError{Msg: "malformed JSON"}
}

// truncatedAt reports whether se is encoding/json's end-of-input check, which
// feeds the scanner a synthetic space and names it in the message.
func truncatedAt(text string, se *json.SyntaxError) bool {
	if se.Offset != int64(len(text)) || !strings.HasPrefix(se.Error(), "invalid character ' '") {
		return false
	}
	return len(text) == 0 || text[len(text)-1] != ' '
}
