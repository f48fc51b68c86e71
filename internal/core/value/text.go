package value

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// IsValid reports whether text is a single well-formed JSON document.
func IsValid(text string) bool {
	return gjson.Valid(text)
}

// Format re-indents JSON text with indent spaces per level, keeping key order
// and literals untouched. ok is false when text is not valid JSON. An indent
// of zero or less yields the minified form.
func Format(text string, indent int) (string, bool) {
	if !gjson.Valid(text) {
		return "", false
	}
	if indent <= 0 {
		return Minify(text)
	}

	// Width 0 keeps every array element on its own line.
	out := pretty.PrettyOptions([]byte(text), &pretty.Options{
		Indent: strings.Repeat(" ", indent),
	})
	return strings.TrimRight(string(out), "\n"), true
}

// Minify strips insignificant whitespace from JSON text.
func Minify(text string) (string, bool) {
	if !gjson.Valid(text) {
		return "", false
	}
	return string(pretty.Ugly([]byte(text))), true
}

// Size returns the UTF-8 byte length of text.
func Size(text string) int {
	return len(text)
}
