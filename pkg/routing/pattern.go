package routing

import (
	"fmt"
	"regexp"
	"strings"
)

// Anchor records which ends of the input a pattern is bound to.
type Anchor uint8

const (
	AnchorNone  Anchor = 0
	AnchorStart Anchor = 1
	AnchorEnd   Anchor = 2
	AnchorBoth         = AnchorStart | AnchorEnd
)

// metaChars are the characters that keep a fragment out of the reverse
// template and out of synthesised defaults.
const metaChars = `.\+*?[^]$(){}=!<>|:`

// Variable is a named capture declared by a pattern.
type Variable struct {
	Name    string
	Default Default
}

// Pattern is a compiled route pattern.
// It is immutable and safe for concurrent use.
type Pattern struct {
	expr     *regexp.Regexp
	source   string
	reverse  string
	vars     []Variable
	captures []capture
	anchor   Anchor
}

// capture maps a regexp submatch index to the variable it fills.
type capture struct {
	name  string
	index int
}

// Compile translates the route pattern syntax into a regular expression,
// a reverse template and a list of variables.
//
// Literal text is matched verbatim. Parenthesised groups carry regular
// expressions; "(name:expr)" captures into name, "(pre{name:expr}post)"
// also records literal text rendered around the value. A "?" after a
// group makes it optional. A leading "^" or trailing "$" anchors the
// pattern.
func Compile(pattern string) (*Pattern, error) {
	c := compiler{source: pattern, seen: make(map[string]bool)}
	p, err := c.compile()
	if err != nil {
		return nil, &Error{Op: "compile", Pattern: pattern, Detail: err.Error(), Err: ErrPatternSyntax}
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// Source returns the pattern text as given to Compile.
func (p *Pattern) Source() string { return p.source }

// Expr returns the generated regular expression.
func (p *Pattern) Expr() string { return p.expr.String() }

// Reverse returns the reverse template with "(:name:)" placeholders.
func (p *Pattern) Reverse() string { return p.reverse }

// Anchor returns the anchoring flags.
func (p *Pattern) Anchor() Anchor { return p.anchor }

// Variables returns the named variables in declaration order.
func (p *Pattern) Variables() []Variable {
	out := make([]Variable, len(p.vars))
	copy(out, p.vars)
	return out
}

// Names returns the variable names in declaration order.
func (p *Pattern) Names() []string {
	out := make([]string, len(p.vars))
	for i, v := range p.vars {
		out[i] = v.Name
	}
	return out
}

// Defaults returns the synthesised defaults that have at least one non-empty part.
func (p *Pattern) Defaults() map[string]Default {
	out := make(map[string]Default)
	for _, v := range p.vars {
		if !v.Default.IsZero() {
			out[v.Name] = v.Default
		}
	}
	return out
}

// Match reports whether subject matches and returns the captured values
// of participating variables.
func (p *Pattern) Match(subject string) (map[string]string, bool) {
	m, ok := p.match(subject)
	if !ok {
		return nil, false
	}
	return m.values, true
}

type match struct {
	values map[string]string
	start  int
	end    int
}

func (p *Pattern) match(subject string) (match, bool) {
	idx := p.expr.FindStringSubmatchIndex(subject)
	if idx == nil {
		return match{}, false
	}
	m := match{start: idx[0], end: idx[1], values: make(map[string]string)}
	for _, c := range p.captures {
		if idx[2*c.index] < 0 {
			continue
		}
		m.values[c.name] = subject[idx[2*c.index]:idx[2*c.index+1]]
	}
	return m, true
}

type compileState int

const (
	stateLiteral compileState = iota
	stateGroup
	stateAfterGroup
)

type compiler struct {
	seen     map[string]bool
	source   string
	vars     []Variable
	captures []string
	expr     strings.Builder
	reverse  strings.Builder
}

func (c *compiler) compile() (*Pattern, error) {
	str := c.source
	var anchor Anchor
	if strings.HasPrefix(str, "^") {
		anchor |= AnchorStart
		str = str[1:]
	}
	if strings.HasSuffix(str, "$") {
		anchor |= AnchorEnd
		str = str[:len(str)-1]
	}

	var (
		state    = stateLiteral
		tmp      strings.Builder
		prefix   string
		name     string
		inner    string
		escaped  bool
		braced   bool
		depth    int
		braces   int
		groupPos int
	)

	for i := 0; i < len(str); i++ {
		ch := str[i]

		if escaped {
			switch state {
			case stateGroup:
				tmp.WriteByte('\\')
			case stateAfterGroup:
				state = stateLiteral
			}
			tmp.WriteByte(ch)
			escaped = false
			continue
		}

		if ch == '\\' && i+1 < len(str) {
			next := str[i+1]
			switch {
			case next == '\\',
				state == stateLiteral && next == '(',
				state == stateGroup && strings.IndexByte("(){}", next) >= 0:
				escaped = true
				continue
			case state == stateAfterGroup && next == '?':
				state = stateLiteral
				continue
			}
		}

		switch state {
		case stateAfterGroup:
			state = stateLiteral
			if ch == '?' {
				c.expr.WriteByte('?')
				continue
			}
			i--

		case stateLiteral:
			if ch != '(' {
				tmp.WriteByte(ch)
				continue
			}
			c.literal(tmp.String())
			tmp.Reset()
			state = stateGroup
			prefix, name, inner, braced = "", "", "", false
			depth, braces = 1, 0
			groupPos = i

		case stateGroup:
			switch {
			case ch == '{' && braces > 0:
				braces++
				tmp.WriteByte(ch)
			case ch == '{' && !braced && startsWithName(str[i+1:]):
				braces = 1
				braced = true
				prefix = tmp.String()
				tmp.Reset()
			case ch == '}' && braces > 0:
				braces--
				if braces > 0 {
					tmp.WriteByte(ch)
					continue
				}
				name, inner = splitName(tmp.String())
				tmp.Reset()
			case ch == '(':
				depth++
				tmp.WriteByte(ch)
			case ch == ')':
				depth--
				if depth > 0 {
					tmp.WriteByte(ch)
					continue
				}
				if braces != 0 {
					return nil, fmt.Errorf("unbalanced braces in group at offset %d", groupPos)
				}
				if braced {
					c.group(prefix, name, inner, tmp.String())
				} else {
					n, in := splitName(tmp.String())
					c.group("", n, in, "")
				}
				tmp.Reset()
				state = stateAfterGroup
			default:
				tmp.WriteByte(ch)
			}
		}
	}

	if state == stateGroup {
		return nil, fmt.Errorf("unbalanced parentheses in group at offset %d", groupPos)
	}
	if state == stateLiteral {
		c.literal(tmp.String())
	}

	expr := c.expr.String()
	if anchor&AnchorStart != 0 {
		expr = "^" + expr
	}
	if anchor&AnchorEnd != 0 {
		expr += "$"
	}
	rx, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	captures := make([]capture, len(c.captures))
	for i, n := range c.captures {
		captures[i] = capture{name: n, index: rx.SubexpIndex(fmt.Sprintf("pv%d", i))}
	}

	return &Pattern{
		source:   c.source,
		expr:     rx,
		reverse:  c.reverse.String(),
		anchor:   anchor,
		vars:     c.vars,
		captures: captures,
	}, nil
}

func (c *compiler) literal(text string) {
	if text == "" {
		return
	}
	c.expr.WriteString(regexp.QuoteMeta(text))
	c.reverse.WriteString(text)
}

func (c *compiler) group(prefix, name, inner, suffix string) {
	if name == "" {
		rx := prefix + inner + suffix
		if !strings.ContainsAny(rx, metaChars) {
			c.reverse.WriteString(rx)
		}
		c.expr.WriteString("(" + rx + ")")
		return
	}

	slot := len(c.captures)
	c.captures = append(c.captures, name)
	fmt.Fprintf(&c.expr, "(%s(?P<pv%d>%s)%s)", prefix, slot, inner, suffix)
	c.reverse.WriteString("(:" + name + ":)")

	if c.seen[name] {
		return
	}
	c.seen[name] = true
	c.vars = append(c.vars, Variable{
		Name: name,
		Default: Default{
			Prefix: plain(prefix),
			Value:  plain(inner),
			Suffix: plain(suffix),
		},
	})
}

// plain returns s unless it contains a regexp metacharacter.
func plain(s string) string {
	if strings.ContainsAny(s, metaChars) {
		return ""
	}
	return s
}

func isNameChar(ch byte) bool {
	return ch == '_' || ch == '-' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// nameLength returns the length of a leading "name:" declaration, without the colon.
func nameLength(s string) int {
	n := 0
	for n < len(s) && isNameChar(s[n]) {
		n++
	}
	if n == 0 || n >= len(s) || s[n] != ':' {
		return 0
	}
	return n
}

func startsWithName(s string) bool {
	return nameLength(s) > 0
}

// splitName separates an optional "name:" declaration from the expression.
func splitName(s string) (string, string) {
	n := nameLength(s)
	if n == 0 {
		return "", s
	}
	return s[:n], s[n+1:]
}
