package css

import (
	"fmt"
	"strings"
)

// Selector compilation: a selector string is split into compounds joined by
// combinators, each compound into its simple selectors. Splitting respects
// bracket and quote nesting so combinator characters inside attribute tests
// (e.g. [data-op=">"]) are not treated as combinators.

// CompileError describes a malformed selector. A compile error rejects the
// single rule or configuration entry carrying the selector, never the whole
// document.
type CompileError struct {
	Selector string
	Reason   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid selector %q: %s", e.Selector, e.Reason)
}

func compileErr(sel, reason string) error {
	return &CompileError{Selector: sel, Reason: reason}
}

// Compile parses a single selector string (no comma groups) into a Selector.
func Compile(selector string) (Selector, error) {
	raw := selector
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return Selector{}, compileErr(raw, "empty selector")
	}

	tokens, err := splitSelector(selector)
	if err != nil {
		return Selector{}, err
	}

	sel := Selector{Raw: raw}
	expectCompound := true
	for _, tok := range tokens {
		if tok.combinator != 0 {
			if expectCompound {
				return Selector{}, compileErr(raw, "combinator without preceding compound")
			}
			sel.Parts[len(sel.Parts)-1].Combinator = tok.combinator
			expectCompound = true
			continue
		}
		if !expectCompound {
			// Two compounds back to back means an implicit descendant
			// combinator was already recorded by the splitter; reaching
			// here is a splitter bug, not an input error.
			sel.Parts[len(sel.Parts)-1].Combinator = Descendant
		}
		compound, err := parseCompound(tok.text, raw)
		if err != nil {
			return Selector{}, err
		}
		sel.Parts = append(sel.Parts, Part{Compound: compound})
		expectCompound = false
	}
	if expectCompound {
		return Selector{}, compileErr(raw, "dangling combinator")
	}
	return sel, nil
}

// selToken is either a compound selector string or a combinator.
type selToken struct {
	text       string
	combinator Combinator
}

// splitSelector cuts the selector into compound strings and combinators.
// Whitespace between compounds becomes a descendant combinator unless an
// explicit >, + or ~ follows.
func splitSelector(s string) ([]selToken, error) {
	var (
		tokens  []selToken
		start   = -1 // start of current compound, -1 when between tokens
		sawGap  bool
		depth   int  // [] nesting
		parens  int  // () nesting inside pseudo arguments
		quote   byte // active quote character or 0
	)

	flush := func(end int) {
		if start >= 0 {
			if sawGap && len(tokens) > 0 && tokens[len(tokens)-1].combinator == 0 {
				tokens = append(tokens, selToken{combinator: Descendant})
			}
			tokens = append(tokens, selToken{text: s[start:end]})
			start = -1
			sawGap = false
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"':
			if depth == 0 && parens == 0 {
				return nil, compileErr(s, "quote outside attribute selector")
			}
			quote = c
		case c == '[':
			depth++
			if start < 0 {
				start = i
			}
		case c == ']':
			depth--
			if depth < 0 {
				return nil, compileErr(s, "unbalanced ']'")
			}
		case c == '(':
			parens++
		case c == ')':
			parens--
			if parens < 0 {
				return nil, compileErr(s, "unbalanced ')'")
			}
		case depth > 0 || parens > 0:
			// Inside brackets everything belongs to the compound.
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush(i)
			if len(tokens) > 0 {
				sawGap = true
			}
		case c == '>' || c == '+' || c == '~':
			flush(i)
			sawGap = false
			tokens = append(tokens, selToken{combinator: Combinator(c)})
		default:
			if start < 0 {
				start = i
			}
		}
	}

	if quote != 0 {
		return nil, compileErr(s, "unterminated quote")
	}
	if depth != 0 {
		return nil, compileErr(s, "unterminated attribute selector")
	}
	if parens != 0 {
		return nil, compileErr(s, "unterminated parenthesis")
	}
	flush(len(s))
	return tokens, nil
}

// parseCompound parses one compound selector segment: an optional type name
// followed by any number of #id, .class, [attr] and pseudo simple selectors
// in the order written.
func parseCompound(s, raw string) (Compound, error) {
	var c Compound
	i := 0
	n := len(s)

	// Optional leading type name or universal selector.
	if i < n && s[i] != '#' && s[i] != '.' && s[i] != '[' && s[i] != ':' {
		start := i
		for i < n && s[i] != '#' && s[i] != '.' && s[i] != '[' && s[i] != ':' {
			i++
		}
		c.Type = s[start:i]
	}

	readName := func() string {
		start := i
		for i < n && s[i] != '#' && s[i] != '.' && s[i] != '[' && s[i] != ':' {
			i++
		}
		return s[start:i]
	}

	for i < n {
		switch s[i] {
		case '#':
			i++
			id := readName()
			if id == "" {
				return c, compileErr(raw, "empty id selector")
			}
			c.IDs = append(c.IDs, id)
		case '.':
			i++
			class := readName()
			if class == "" {
				return c, compileErr(raw, "empty class selector")
			}
			c.Classes = append(c.Classes, class)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, compileErr(raw, "unterminated attribute selector")
			}
			test, err := parseAttrTest(s[i+1:i+end], raw)
			if err != nil {
				return c, err
			}
			c.Attrs = append(c.Attrs, test)
			i += end + 1
		case ':':
			// Pseudo-class or pseudo-element; recorded verbatim, never
			// matches.
			start := i
			i++
			if i < n && s[i] == ':' {
				i++
			}
			for i < n && s[i] != '#' && s[i] != '.' && s[i] != '[' && s[i] != ':' && s[i] != '(' {
				i++
			}
			if i < n && s[i] == '(' {
				depth := 1
				i++
				for i < n && depth > 0 {
					switch s[i] {
					case '(':
						depth++
					case ')':
						depth--
					}
					i++
				}
			}
			if s[start:i] == ":" || s[start:i] == "::" {
				return c, compileErr(raw, "empty pseudo selector")
			}
			c.Pseudos = append(c.Pseudos, s[start:i])
		default:
			return c, compileErr(raw, fmt.Sprintf("unexpected character %q", s[i]))
		}
	}

	if c.Type == "" && len(c.IDs) == 0 && len(c.Classes) == 0 && len(c.Attrs) == 0 && len(c.Pseudos) == 0 {
		return c, compileErr(raw, "empty compound selector")
	}
	return c, nil
}

// parseAttrTest parses the inside of an [attr...] test. Values may be bare
// or quoted with single or double quotes; quotes are stripped. A trailing
// unquoted "i" flag requests case-insensitive comparison, "s" the default
// case-sensitive one.
func parseAttrTest(s, raw string) (AttrTest, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AttrTest{}, compileErr(raw, "empty attribute selector")
	}

	// The operator's '=' is always the first '=' in the test: quotes can
	// only appear in the value, which follows the operator.
	idx := strings.IndexByte(s, '=')
	if idx < 0 {
		if strings.ContainsAny(s, " \t\"'") {
			return AttrTest{}, compileErr(raw, "malformed attribute selector")
		}
		return AttrTest{Name: s, Op: OpExists}, nil
	}

	op := OpEquals
	nameEnd := idx
	if idx > 0 {
		switch s[idx-1] {
		case '~':
			op, nameEnd = OpIncludes, idx-1
		case '|':
			op, nameEnd = OpDashMatch, idx-1
		case '^':
			op, nameEnd = OpPrefix, idx-1
		case '$':
			op, nameEnd = OpSuffix, idx-1
		case '*':
			op, nameEnd = OpSubstring, idx-1
		}
	}

	name := strings.TrimSpace(s[:nameEnd])
	if name == "" {
		return AttrTest{}, compileErr(raw, "attribute selector without name")
	}
	value := strings.TrimSpace(s[idx+1:])
	test := AttrTest{Name: name, Op: op}

	switch {
	case len(value) >= 2 && (value[0] == '"' || value[0] == '\''):
		q := value[0]
		end := strings.IndexByte(value[1:], q)
		if end < 0 {
			return AttrTest{}, compileErr(raw, "unterminated quote in attribute value")
		}
		test.Value = value[1 : 1+end]
		value = strings.TrimSpace(value[end+2:])
	default:
		// Bare value, possibly followed by a case flag.
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return AttrTest{}, compileErr(raw, "attribute operator without value")
		}
		test.Value = fields[0]
		value = strings.Join(fields[1:], " ")
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
	case "i":
		test.CaseInsensitive = true
	case "s":
	default:
		return AttrTest{}, compileErr(raw, "unexpected trailing content in attribute selector")
	}
	return test, nil
}
