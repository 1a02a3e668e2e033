package svg

import "strings"

// Document tree for SVG processing.
// The tree is a strict hierarchy: every node is owned by its parent and no
// node keeps a back-reference to its parent or siblings. Anything that needs
// upward or sideways navigation builds a transient context over the tree
// (see the match package).

// Node is a single node of the document tree. The set of implementations is
// closed: Element, Text, CData, Comment, ProcInst and Directive.
type Node interface {
	node()
}

// Attr is a single element attribute. Attribute order is preserved by
// Element, it matters for serialization but never for matching.
type Attr struct {
	Name  string
	Value string
}

// Element is an XML element with ordered attributes and ordered children.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

// Text is character data between elements.
type Text struct {
	Data string
}

// CData is a CDATA section.
type CData struct {
	Data string
}

// Comment is an XML comment.
type Comment struct {
	Data string
}

// ProcInst is a processing instruction such as <?xml-stylesheet ...?>.
type ProcInst struct {
	Target string
	Inst   string
}

// Directive is a document type declaration or any other <!...> directive.
type Directive struct {
	Data string
}

func (*Element) node()   {}
func (*Text) node()      {}
func (*CData) node()     {}
func (*Comment) node()   {}
func (*ProcInst) node()  {}
func (*Directive) node() {}

// Document holds all top-level nodes of a parsed SVG file, including
// prolog nodes that precede the root element.
type Document struct {
	Nodes []Node
}

// Root returns the first top-level element, normally <svg>. Nil when the
// document has no element at all.
func (d *Document) Root() *Element {
	for _, n := range d.Nodes {
		if el, ok := n.(*Element); ok {
			return el
		}
	}
	return nil
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the value of the named attribute or def when absent.
func (e *Element) AttrValue(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr updates the named attribute in place, or appends it at the end
// when it is not present yet. Attribute names stay unique per element.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes the named attribute. Removing an absent attribute is
// a no-op.
func (e *Element) RemoveAttr(name string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return
		}
	}
}

// ChildElements returns the element children in document order.
func (e *Element) ChildElements() []*Element {
	var els []*Element
	for _, n := range e.Children {
		if el, ok := n.(*Element); ok {
			els = append(els, el)
		}
	}
	return els
}

// TextContent returns the concatenated character data directly under this
// element (child Text and CData nodes, not descendants).
func (e *Element) TextContent() string {
	var b strings.Builder
	for _, n := range e.Children {
		switch t := n.(type) {
		case *Text:
			b.WriteString(t.Data)
		case *CData:
			b.WriteString(t.Data)
		}
	}
	return b.String()
}

// RemoveChild deletes the given child node by identity.
func (e *Element) RemoveChild(n Node) {
	for i := range e.Children {
		if e.Children[i] == n {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			return
		}
	}
}

// Walk visits root and every descendant element in document order. The walk
// descends into an element only when fn returns true for it.
func Walk(root *Element, fn func(*Element) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, n := range root.Children {
		if el, ok := n.(*Element); ok {
			Walk(el, fn)
		}
	}
}
