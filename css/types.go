package css

import "strings"

// AttrOp is the comparison operator of an attribute test.
type AttrOp int

const (
	OpExists    AttrOp = iota // [attr]
	OpEquals                  // [attr=v]
	OpIncludes                // [attr~=v], whitespace-token match
	OpDashMatch               // [attr|=v]
	OpPrefix                  // [attr^=v]
	OpSuffix                  // [attr$=v]
	OpSubstring               // [attr*=v]
)

// String returns the CSS spelling of the operator.
func (op AttrOp) String() string {
	switch op {
	case OpEquals:
		return "="
	case OpIncludes:
		return "~="
	case OpDashMatch:
		return "|="
	case OpPrefix:
		return "^="
	case OpSuffix:
		return "$="
	case OpSubstring:
		return "*="
	default:
		return ""
	}
}

// AttrTest is a single attribute selector: name, operator and operand.
// CaseInsensitive reflects the "i" flag ([attr=v i]); comparisons are then
// done ASCII case-folded.
type AttrTest struct {
	Name            string
	Op              AttrOp
	Value           string
	CaseInsensitive bool
}

// Compound is a set of simple selectors that must all match one element:
// an optional type name plus any number of id, class and attribute tests.
// Pseudo-classes and pseudo-elements are recorded but never match, so a
// compound with a non-empty Pseudos list matches nothing.
type Compound struct {
	Type    string // element name, or "*"/"" for any
	IDs     []string
	Classes []string
	Attrs   []AttrTest
	Pseudos []string
}

// Combinator relates a compound to the compound on its right.
type Combinator byte

const (
	Descendant        Combinator = ' '
	Child             Combinator = '>'
	NextSibling       Combinator = '+'
	SubsequentSibling Combinator = '~'
)

// Part is one compound of a complex selector together with the combinator
// joining it to the next compound on its right. The combinator of the
// rightmost (subject) part is unused.
type Part struct {
	Compound   Compound
	Combinator Combinator
}

// Selector is a compiled complex selector. Parts are ordered left to right;
// the last part is the subject tested against the candidate element.
type Selector struct {
	Raw   string
	Parts []Part
}

// Subject returns the rightmost compound of the selector.
func (s Selector) Subject() *Compound {
	if len(s.Parts) == 0 {
		return &Compound{}
	}
	return &s.Parts[len(s.Parts)-1].Compound
}

// NeverMatches reports whether the selector can match no element at all,
// which is the case when any compound carries a pseudo-class or
// pseudo-element.
func (s Selector) NeverMatches() bool {
	for _, p := range s.Parts {
		if len(p.Compound.Pseudos) > 0 {
			return true
		}
	}
	return false
}

// Declaration is a single property:value pair. Declaration lists preserve
// source order.
type Declaration struct {
	Property string
	Value    string
}

// Rule is a compiled stylesheet rule: one selector (grouped selectors are
// split before compilation) plus its ordered declarations. Specificity is
// computed once at compile time and immutable afterwards.
type Rule struct {
	Selector     Selector
	SelectorText string // selector as written, after comma-splitting
	Declarations []Declaration
	Specificity  Specificity
}

// Stylesheet is a parsed <style> payload: rules in source order plus
// warnings for constructs that were skipped.
type Stylesheet struct {
	Rules    []Rule
	Warnings []string
}

// WriteDeclarations serializes an ordered declaration list in the compact
// "prop:value;prop:value" form used for style attributes.
func WriteDeclarations(decls []Declaration) string {
	var sb strings.Builder
	for i, d := range decls {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(d.Property)
		sb.WriteByte(':')
		sb.WriteString(d.Value)
	}
	return sb.String()
}
