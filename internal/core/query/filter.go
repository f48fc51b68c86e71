package query

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/agenthands/jsonstudio/internal/core/value"
)

// expr is a compiled filter expression. eval returns the expression's value
// and whether it is defined; a path that matches nothing is undefined.
type expr interface {
	eval(env *env) (value.Value, bool)
}

// env holds the bindings for "@" and "$" while testing one candidate.
type env struct {
	current value.Value
	root    value.Value
}

type literal struct{ v value.Value }

type undefinedLit struct{}

type pathOperand struct {
	fromRoot bool
	steps    []selector // selChild or selIndex only
}

type notExpr struct{ x expr }

type logicalExpr struct {
	and  bool
	l, r expr
}

type compareExpr struct {
	op   string
	l, r expr
}

type matchExpr struct {
	x  expr
	re *regexp.Regexp
}

func (l literal) eval(*env) (value.Value, bool) { return l.v, true }

func (undefinedLit) eval(*env) (value.Value, bool) { return nil, false }

func (p pathOperand) eval(e *env) (value.Value, bool) {
	cur := e.current
	if p.fromRoot {
		cur = e.root
	}
	for _, s := range p.steps {
		var ok bool
		if s.kind == selIndex {
			cur, ok = index(cur, s.index)
		} else {
			cur, ok = member(cur, s.name)
		}
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func (n notExpr) eval(e *env) (value.Value, bool) {
	v, ok := n.x.eval(e)
	return value.Bool(!(ok && value.Truthy(v))), true
}

// eval follows JavaScript: && and || yield one of their operands.
func (l logicalExpr) eval(e *env) (value.Value, bool) {
	v, ok := l.l.eval(e)
	truthy := ok && value.Truthy(v)
	if l.and != truthy {
		return v, ok
	}
	return l.r.eval(e)
}

func (c compareExpr) eval(e *env) (value.Value, bool) {
	lv, lok := c.l.eval(e)
	rv, rok := c.r.eval(e)
	return value.Bool(compare(c.op, lv, lok, rv, rok)), true
}

func (m matchExpr) eval(e *env) (value.Value, bool) {
	v, ok := m.x.eval(e)
	s, isStr := v.(value.String)
	return value.Bool(ok && isStr && m.re.MatchString(string(s))), true
}

func compare(op string, l value.Value, lok bool, r value.Value, rok bool) bool {
	switch op {
	case "===":
		return strictEqual(l, lok, r, rok)
	case "!==":
		return !strictEqual(l, lok, r, rok)
	case "==":
		return looseEqual(l, lok, r, rok)
	case "!=":
		return !looseEqual(l, lok, r, rok)
	}

	if ls, ok := l.(value.String); ok && lok {
		if rs, ok := r.(value.String); ok && rok {
			switch op {
			case "<":
				return ls < rs
			case "<=":
				return ls <= rs
			case ">":
				return ls > rs
			case ">=":
				return ls >= rs
			}
		}
	}

	lf, rf := toNumber(l, lok), toNumber(r, rok)
	switch op {
	case "<":
		return lf < rf
	case "<=":
		return lf <= rf
	case ">":
		return lf > rf
	case ">=":
		return lf >= rf
	}
	return false
}

func strictEqual(l value.Value, lok bool, r value.Value, rok bool) bool {
	if !lok || !rok {
		return lok == rok
	}
	return value.Equal(l, r)
}

func looseEqual(l value.Value, lok bool, r value.Value, rok bool) bool {
	lnull := !lok || value.Classify(l) == value.TypeNull
	rnull := !rok || value.Classify(r) == value.TypeNull
	if lnull || rnull {
		return lnull && rnull
	}

	lt, rt := value.Classify(l), value.Classify(r)
	if lt == rt {
		return value.Equal(l, r)
	}
	if value.IsContainer(l) || value.IsContainer(r) {
		return false
	}
	return toNumber(l, true) == toNumber(r, true)
}

// toNumber applies JavaScript's Number() conversion to a scalar.
func toNumber(v value.Value, ok bool) float64 {
	if !ok {
		return math.NaN()
	}
	switch x := v.(type) {
	case value.Number:
		return x.Float64()
	case value.Bool:
		if x {
			return 1
		}
		return 0
	case value.String:
		s := strings.TrimSpace(string(x))
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case value.Null:
		return 0
	}
	if v == nil {
		return 0
	}
	return math.NaN()
}

// filterParser is a recursive-descent parser over the filter text:
//
//	or   := and { "||" and }
//	and  := cmp { "&&" cmp }
//	cmp  := unary [ op unary | "=~" regex ]
//	unary:= "!" unary | primary
//	primary := "(" or ")" | literal | path
type filterParser struct {
	src  string
	pos  int
	base int
}

func parseFilter(src string, base int) (expr, error) {
	p := &filterParser{src: src, base: base}
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errorf("empty filter")
	}
	x, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return x, nil
}

func (p *filterParser) errorf(format string, args ...any) error {
	return filterError(p.base+p.pos, format, args...)
}

func (p *filterParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *filterParser) consume(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *filterParser) parseOr() (expr, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.consume("||") {
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l = logicalExpr{and: false, l: l, r: r}
	}
	return l, nil
}

func (p *filterParser) parseAnd() (expr, error) {
	l, err := p.parseCompare()
	if err != nil {
		return nil, err
	}
	for p.consume("&&") {
		r, err := p.parseCompare()
		if err != nil {
			return nil, err
		}
		l = logicalExpr{and: true, l: l, r: r}
	}
	return l, nil
}

// Longer operators first so "===" is not read as "==".
var compareOps = []string{"===", "!==", "==", "!=", "<=", ">=", "<", ">"}

func (p *filterParser) parseCompare() (expr, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.consume("=~") {
		re, err := p.parseRegex()
		if err != nil {
			return nil, err
		}
		return matchExpr{x: l, re: re}, nil
	}
	for _, op := range compareOps {
		if p.consume(op) {
			r, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return compareExpr{op: op, l: l, r: r}, nil
		}
	}
	return l, nil
}

func (p *filterParser) parseUnary() (expr, error) {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '!' && !strings.HasPrefix(p.src[p.pos:], "!=") {
		p.pos++
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notExpr{x: x}, nil
	}
	return p.parsePrimary()
}

func (p *filterParser) parsePrimary() (expr, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of filter")
	}

	c := p.src[p.pos]
	switch {
	case c == '(':
		p.pos++
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.consume(")") {
			return nil, p.errorf("expected ')'")
		}
		return x, nil
	case c == '@' || c == '$':
		return p.parsePath()
	case c == '\'' || c == '"':
		s, err := p.readString()
		if err != nil {
			return nil, err
		}
		return literal{v: value.String(s)}, nil
	case c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	}

	word := p.readWord()
	switch word {
	case "true":
		return literal{v: value.Bool(true)}, nil
	case "false":
		return literal{v: value.Bool(false)}, nil
	case "null":
		return literal{v: value.Null{}}, nil
	case "undefined":
		return undefinedLit{}, nil
	case "":
		return nil, p.errorf("unexpected %q", string(c))
	}
	return nil, p.errorf("unknown identifier %q", word)
}

func (p *filterParser) readWord() string {
	start := p.pos
	for p.pos < len(p.src) && (isIdentByte(p.src[p.pos])) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (p *filterParser) parseNumber() (expr, error) {
	start := p.pos
	if p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' ||
			((c == '+' || c == '-') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E')) {
			p.pos++
			continue
		}
		break
	}
	text := p.src[start:p.pos]
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		p.pos = start
		return nil, p.errorf("invalid number %q", text)
	}
	return literal{v: value.Number(text)}, nil
}

func (p *filterParser) readString() (string, error) {
	start := p.pos
	q := p.src[p.pos]
	p.pos++
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
			continue
		case q:
			p.pos++
			return unquote(p.src[start:p.pos], p.base+start)
		}
		p.pos++
	}
	p.pos = start
	return "", p.errorf("unterminated string")
}

// parsePath reads "@" or "$" followed by dot and bracket member steps.
func (p *filterParser) parsePath() (expr, error) {
	op := pathOperand{fromRoot: p.src[p.pos] == '$'}
	p.pos++
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '.':
			p.pos++
			name := p.readWord()
			if name == "" {
				return nil, p.errorf("expected a name after '.'")
			}
			op.steps = append(op.steps, selector{kind: selChild, name: name})
		case '[':
			end, err := matchingBracket(p.src, p.pos)
			if err != nil {
				return nil, p.errorf("unclosed '['")
			}
			sel, err := parseMember(p.src[p.pos+1:end], p.base+p.pos+1, false)
			if err != nil {
				return nil, err
			}
			if sel.kind != selChild && sel.kind != selIndex {
				return nil, p.errorf("only names and indexes are allowed in filter paths")
			}
			op.steps = append(op.steps, sel)
			p.pos = end + 1
		default:
			return op, nil
		}
	}
	return op, nil
}

// parseRegex reads a /pattern/flags literal. Flags i, m and s map onto Go
// regexp flags; g, u and y have no effect on a single match test.
func (p *filterParser) parseRegex() (*regexp.Regexp, error) {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '/' {
		return nil, p.errorf("expected a /regex/ after '=~'")
	}
	start := p.pos
	end := regexEnd(p.src, start)
	if end < 0 {
		return nil, p.errorf("unterminated regex")
	}
	// "\/" is how a JavaScript literal spells a slash; RE2 wants it bare.
	pattern := strings.ReplaceAll(p.src[start+1:end], `\/`, "/")
	p.pos = end + 1

	var flags string
	for p.pos < len(p.src) && strings.IndexByte("gimsuy", p.src[p.pos]) >= 0 {
		if c := p.src[p.pos]; c == 'i' || c == 'm' || c == 's' {
			if !strings.ContainsRune(flags, rune(c)) {
				flags += string(c)
			}
		}
		p.pos++
	}

	src := pattern
	if flags != "" {
		src = "(?" + flags + ")" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, filterError(p.base+start, "invalid regex: %v", err)
	}
	return re, nil
}
