package match

import (
	"strings"

	"svgc/css"
	"svgc/svg"
)

// Matches reports whether the compiled selector matches el within ctx.
// Evaluation is right-to-left: the subject compound is tested against el,
// then each combinator walks to ancestors or preceding siblings. A
// combinator that walks off the tree (parent of the root, sibling of a
// first child) simply fails, it is never an error.
func Matches(sel css.Selector, el *svg.Element, ctx *Context) bool {
	if el == nil || len(sel.Parts) == 0 {
		return false
	}
	return matchParts(sel.Parts, el, ctx)
}

// matchParts tests parts[len-1] against el and recurses leftward per the
// combinator joining the last two parts.
func matchParts(parts []css.Part, el *svg.Element, ctx *Context) bool {
	last := len(parts) - 1
	if !matchCompound(&parts[last].Compound, el) {
		return false
	}
	if last == 0 {
		return true
	}

	rest := parts[:last]
	switch parts[last-1].Combinator {
	case css.Child:
		parent := ctx.Parent(el)
		return parent != nil && matchParts(rest, parent, ctx)

	case css.Descendant:
		for parent := ctx.Parent(el); parent != nil; parent = ctx.Parent(parent) {
			if matchParts(rest, parent, ctx) {
				return true
			}
		}
		return false

	case css.NextSibling:
		prev := ctx.PrevSiblingElement(el)
		return prev != nil && matchParts(rest, prev, ctx)

	case css.SubsequentSibling:
		for _, prev := range ctx.PrevSiblingElements(el) {
			if matchParts(rest, prev, ctx) {
				return true
			}
		}
		return false

	default:
		return false
	}
}

// matchCompound tests every simple selector of a compound against one
// element. Pseudo-classes and pseudo-elements are treated as always false.
func matchCompound(c *css.Compound, el *svg.Element) bool {
	if len(c.Pseudos) > 0 {
		return false
	}
	if c.Type != "" && c.Type != "*" && c.Type != el.Name {
		return false
	}
	if len(c.IDs) > 0 {
		id, ok := el.Attr("id")
		if !ok {
			return false
		}
		for _, want := range c.IDs {
			if id != want {
				return false
			}
		}
	}
	if len(c.Classes) > 0 {
		classes := strings.Fields(el.AttrValue("class", ""))
		for _, want := range c.Classes {
			if !containsToken(classes, want) {
				return false
			}
		}
	}
	for i := range c.Attrs {
		if !matchAttr(&c.Attrs[i], el) {
			return false
		}
	}
	return true
}

// matchAttr evaluates one attribute test against the element's exact
// attribute value.
func matchAttr(t *css.AttrTest, el *svg.Element) bool {
	value, ok := el.Attr(t.Name)
	if !ok {
		return false
	}
	operand := t.Value
	if t.CaseInsensitive {
		value = strings.ToLower(value)
		operand = strings.ToLower(operand)
	}

	switch t.Op {
	case css.OpExists:
		return true
	case css.OpEquals:
		return value == operand
	case css.OpIncludes:
		return containsToken(strings.Fields(value), operand)
	case css.OpDashMatch:
		return value == operand || strings.HasPrefix(value, operand+"-")
	case css.OpPrefix:
		return operand != "" && strings.HasPrefix(value, operand)
	case css.OpSuffix:
		return operand != "" && strings.HasSuffix(value, operand)
	case css.OpSubstring:
		return operand != "" && strings.Contains(value, operand)
	default:
		return false
	}
}

func containsToken(tokens []string, want string) bool {
	for _, tok := range tokens {
		if tok == want {
			return true
		}
	}
	return false
}

// FindAll walks the tree once and collects every element the selector
// matches, in document order. The returned context is the one the elements
// were matched under; callers that mutate the tree afterwards must not
// reuse it.
func FindAll(sel css.Selector, root *svg.Element) ([]*svg.Element, *Context) {
	ctx := NewContext(root)
	if sel.NeverMatches() {
		return nil, ctx
	}
	var found []*svg.Element
	svg.Walk(root, func(el *svg.Element) bool {
		if Matches(sel, el, ctx) {
			found = append(found, el)
		}
		return true
	})
	return found, ctx
}

// Count returns the number of elements the selector matches. Used to
// enforce apply-only-if-single-match policies.
func Count(sel css.Selector, root *svg.Element) int {
	found, _ := FindAll(sel, root)
	return len(found)
}
