package css

import "fmt"

// Specificity is the CSS precedence score of a selector with the convention
// [id count, class/attribute count, type count]. Compared lexicographically,
// higher wins. Two rules with equal specificity keep their source order when
// sorted with a stable sort, which is the cascade tie-break.
type Specificity [3]int

// Less reports whether s has strictly lower precedence than other.
func (s Specificity) Less(other Specificity) bool {
	for i := range s {
		if s[i] != other[i] {
			return s[i] < other[i]
		}
	}
	return false
}

// Add sums two specificities component-wise.
func (s Specificity) Add(other Specificity) Specificity {
	for i, v := range other {
		s[i] += v
	}
	return s
}

// String renders the score as "(a,b,c)".
func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s[0], s[1], s[2])
}

// Specificity computes the precedence score of the selector, walking every
// compound, not just the subject. Ids count toward the first component,
// classes, attribute tests and pseudo-classes toward the second, type names
// (except the universal selector) toward the third. The result is pure and
// independent of the order simple selectors were written in.
func (s Selector) Specificity() Specificity {
	var spec Specificity
	for _, p := range s.Parts {
		c := p.Compound
		spec[0] += len(c.IDs)
		spec[1] += len(c.Classes) + len(c.Attrs)
		if c.Type != "" && c.Type != "*" {
			spec[2]++
		}
		for _, pseudo := range c.Pseudos {
			if len(pseudo) > 1 && pseudo[1] == ':' {
				spec[2]++ // pseudo-element
			} else {
				spec[1]++ // pseudo-class
			}
		}
	}
	return spec
}
