// Package match answers which elements of an SVG tree a compiled CSS
// selector matches. The tree itself stores no parent or sibling pointers,
// so matching runs against a transient navigation context built by a single
// top-down traversal immediately before each matching pass.
package match

import "svgc/svg"

// Context records, for every element reachable from a root, its parent and
// its index among the parent's element children. A context is ephemeral:
// the tree may be mutated between passes, so it must never be reused across
// passes or cached on the tree.
type Context struct {
	root     *svg.Element
	parent   map[*svg.Element]*svg.Element
	index    map[*svg.Element]int
	children map[*svg.Element][]*svg.Element
}

// NewContext builds a navigation context for the tree rooted at root.
func NewContext(root *svg.Element) *Context {
	ctx := &Context{
		root:     root,
		parent:   make(map[*svg.Element]*svg.Element),
		index:    make(map[*svg.Element]int),
		children: make(map[*svg.Element][]*svg.Element),
	}
	if root == nil {
		return ctx
	}
	ctx.index[root] = 0
	svg.Walk(root, func(el *svg.Element) bool {
		siblings := el.ChildElements()
		ctx.children[el] = siblings
		for i, child := range siblings {
			ctx.parent[child] = el
			ctx.index[child] = i
		}
		return true
	})
	return ctx
}

// Parent returns the parent element, or nil for the root and for elements
// outside the traversed tree.
func (c *Context) Parent(el *svg.Element) *svg.Element {
	return c.parent[el]
}

// IsRoot reports whether el is the root of the traversed tree.
func (c *Context) IsRoot(el *svg.Element) bool {
	return el == c.root
}

// PrevSiblingElement returns the element sibling immediately preceding el,
// or nil when el is the first element child or has no parent.
func (c *Context) PrevSiblingElement(el *svg.Element) *svg.Element {
	parent, ok := c.parent[el]
	if !ok {
		return nil
	}
	idx := c.index[el]
	if idx == 0 {
		return nil
	}
	return c.children[parent][idx-1]
}

// PrevSiblingElements returns all element siblings preceding el in document
// order. The slice aliases the context's internal state and must not be
// mutated.
func (c *Context) PrevSiblingElements(el *svg.Element) []*svg.Element {
	parent, ok := c.parent[el]
	if !ok {
		return nil
	}
	return c.children[parent][:c.index[el]]
}

// NextSiblingElement returns the element sibling immediately following el,
// or nil when el is the last element child or has no parent.
func (c *Context) NextSiblingElement(el *svg.Element) *svg.Element {
	parent, ok := c.parent[el]
	if !ok {
		return nil
	}
	siblings := c.children[parent]
	idx := c.index[el]
	if idx+1 >= len(siblings) {
		return nil
	}
	return siblings[idx+1]
}
