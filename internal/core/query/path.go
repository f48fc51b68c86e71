package query

import (
	"strconv"
	"strings"
)

type selectorKind int

const (
	selChild     selectorKind = iota // .name or ['name']
	selIndex                         // [n]
	selWildcard                      // .* or [*]
	selRecursive                     // ..
	selSlice                         // [start:end:step]
	selUnion                         // [a,'b',0]
	selFilter                        // [?(expr)]
)

type selector struct {
	kind   selectorKind
	name   string
	index  int
	start  *int
	end    *int
	step   int
	union  []selector
	filter expr
}

// Path is a compiled JSONPath expression.
type Path struct {
	raw       string
	selectors []selector
	// multi is set when the path contains a selector that can yield several
	// values, in which case results are always returned as an array.
	multi bool
}

func (p *Path) String() string { return p.raw }

// Compile parses expr. A path that does not start with "$" is taken as
// relative to the root, so "store.book" and "$.store.book" are the same.
func Compile(expr string) (*Path, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return nil, pathError(0, "empty path")
	}
	if s[0] != '$' {
		if s[0] == '[' || s[0] == '.' {
			s = "$" + s
		} else {
			s = "$." + s
		}
	}

	p := &parser{src: s, pos: 1}
	sels, err := p.parse()
	if err != nil {
		return nil, err
	}

	path := &Path{raw: expr, selectors: sels}
	for _, sel := range sels {
		if sel.kind != selChild && sel.kind != selIndex {
			path.multi = true
		}
	}
	return path, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(expr string) *Path {
	p, err := Compile(expr)
	if err != nil {
		panic("query.MustCompile: " + err.Error())
	}
	return p
}

type parser struct {
	src string
	pos int
}

func (p *parser) parse() ([]selector, error) {
	var sels []selector
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '.':
			if strings.HasPrefix(p.src[p.pos:], "..") {
				p.pos += 2
				sels = append(sels, selector{kind: selRecursive})
				if p.pos < len(p.src) && p.src[p.pos] != '[' && p.src[p.pos] != '.' {
					sels = append(sels, p.readName())
				}
				continue
			}
			p.pos++
			if p.pos >= len(p.src) || p.src[p.pos] == '.' || p.src[p.pos] == '[' {
				return nil, pathError(p.pos, "expected a name after '.'")
			}
			sels = append(sels, p.readName())
		case '[':
			sel, err := p.readBracket()
			if err != nil {
				return nil, err
			}
			sels = append(sels, sel)
		default:
			return nil, pathError(p.pos, "unexpected character %q", p.src[p.pos])
		}
	}
	return sels, nil
}

// readName reads a dot-notation member name up to the next '.' or '['.
func (p *parser) readName() selector {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '.' && p.src[p.pos] != '[' {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "*" {
		return selector{kind: selWildcard}
	}
	return selector{kind: selChild, name: name}
}

func (p *parser) readBracket() (selector, error) {
	open := p.pos
	end, err := matchingBracket(p.src, open)
	if err != nil {
		return selector{}, err
	}
	inner := p.src[open+1 : end]
	p.pos = end + 1

	trimmed := strings.TrimSpace(inner)
	if strings.HasPrefix(trimmed, "?") {
		offset := open + 1 + strings.Index(inner, "?") + 1
		f, err := parseFilter(trimmed[1:], offset)
		if err != nil {
			return selector{}, err
		}
		return selector{kind: selFilter, filter: f}, nil
	}
	if strings.HasPrefix(trimmed, "(") {
		return selector{}, pathError(open, "script expressions are not supported")
	}

	parts, err := splitUnion(inner, open+1)
	if err != nil {
		return selector{}, err
	}
	if len(parts) > 1 {
		union := make([]selector, 0, len(parts))
		for _, part := range parts {
			sel, err := parseMember(part.text, part.pos, false)
			if err != nil {
				return selector{}, err
			}
			union = append(union, sel)
		}
		return selector{kind: selUnion, union: union}, nil
	}
	return parseMember(parts[0].text, parts[0].pos, true)
}

type part struct {
	text string
	pos  int
}

// splitUnion splits on commas that are not inside quotes.
func splitUnion(s string, base int) ([]part, error) {
	var parts []part
	start := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			parts = append(parts, part{text: s[start:i], pos: base + start})
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, pathError(base+start, "unterminated string")
	}
	return append(parts, part{text: s[start:], pos: base + start}), nil
}

// parseMember parses one bracket member: a quoted name, an index, a slice, a
// wildcard or a bare name. Slices are only valid outside unions.
func parseMember(text string, pos int, allowSlice bool) (selector, error) {
	t := strings.TrimSpace(text)
	switch {
	case t == "":
		return selector{}, pathError(pos, "empty selector")
	case t == "*":
		return selector{kind: selWildcard}, nil
	case t[0] == '\'' || t[0] == '"':
		name, err := unquote(t, pos)
		if err != nil {
			return selector{}, err
		}
		return selector{kind: selChild, name: name}, nil
	case strings.Contains(t, ":"):
		if !allowSlice {
			return selector{}, pathError(pos, "slices are not allowed in a union")
		}
		return parseSlice(t, pos)
	}
	if n, err := strconv.Atoi(t); err == nil {
		return selector{kind: selIndex, index: n}, nil
	}
	return selector{kind: selChild, name: t}, nil
}

func parseSlice(t string, pos int) (selector, error) {
	fields := strings.Split(t, ":")
	if len(fields) > 3 {
		return selector{}, pathError(pos, "invalid slice %q", t)
	}
	sel := selector{kind: selSlice, step: 1}
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return selector{}, pathError(pos, "invalid slice component %q", f)
		}
		switch i {
		case 0:
			sel.start = &n
		case 1:
			sel.end = &n
		case 2:
			if n <= 0 {
				return selector{}, pathError(pos, "slice step must be a positive integer")
			}
			sel.step = n
		}
	}
	return sel, nil
}

// unquote decodes a single- or double-quoted name with backslash escapes.
func unquote(t string, pos int) (string, error) {
	q := t[0]
	if len(t) < 2 || t[len(t)-1] != q {
		return "", pathError(pos, "unterminated string")
	}
	body := t[1 : len(t)-1]
	if !strings.Contains(body, `\`) {
		return body, nil
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(body[i])
			}
			continue
		}
		b.WriteByte(body[i])
	}
	return b.String(), nil
}

// matchingBracket returns the index of the ']' closing the '[' at open,
// skipping quoted strings, regex literals after "=~" and nested brackets.
func matchingBracket(s string, open int) (int, error) {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '/':
			if !strings.HasSuffix(strings.TrimRight(s[open:i], " \t"), "=~") {
				continue
			}
			end := regexEnd(s, i)
			if end < 0 {
				return 0, pathError(i, "unterminated regex")
			}
			i = end
		case '[', '(':
			depth++
		case ']', ')':
			depth--
			if depth == 0 {
				if c != ']' {
					return 0, pathError(i, "unbalanced parentheses")
				}
				return i, nil
			}
			if depth < 0 {
				return 0, pathError(i, "unbalanced brackets")
			}
		}
	}
	return 0, pathError(open, "unclosed '['")
}

// regexEnd returns the index of the '/' closing the regex literal opened at
// start, or -1. Escapes and character classes may contain '/', ')' and ']'.
// A ']' straight after "[" or "[^" is a literal, as in RE2.
func regexEnd(s string, start int) int {
	classStart := -1
	for i := start + 1; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			i++
		case classStart >= 0:
			first := classStart + 1
			if s[first] == '^' {
				first++
			}
			if c == ']' && i > first {
				classStart = -1
			}
		case c == '[':
			classStart = i
		case c == '/':
			return i
		}
	}
	return -1
}
