package transform

import (
	"sort"
	"strings"

	"github.com/maruel/natural"

	"svgc/svg"
)

// The simple passes: independent tree rewrites that need no selector
// matching.

// RemoveComments deletes every comment node in the document, including
// comments outside the root element.
type RemoveComments struct{}

func NewRemoveComments() *RemoveComments { return &RemoveComments{} }

func (*RemoveComments) Name() string { return "remove_comments" }

func (*RemoveComments) Apply(doc *svg.Document) error {
	doc.Nodes = filterNodes(doc.Nodes, func(n svg.Node) bool {
		_, isComment := n.(*svg.Comment)
		return !isComment
	})
	if root := doc.Root(); root != nil {
		svg.Walk(root, func(el *svg.Element) bool {
			el.Children = filterNodes(el.Children, func(n svg.Node) bool {
				_, isComment := n.(*svg.Comment)
				return !isComment
			})
			return true
		})
	}
	return nil
}

// RemoveDoctype deletes doctype and other <!...> directives from the
// document prolog.
type RemoveDoctype struct{}

func NewRemoveDoctype() *RemoveDoctype { return &RemoveDoctype{} }

func (*RemoveDoctype) Name() string { return "remove_doctype" }

func (*RemoveDoctype) Apply(doc *svg.Document) error {
	doc.Nodes = filterNodes(doc.Nodes, func(n svg.Node) bool {
		_, isDirective := n.(*svg.Directive)
		return !isDirective
	})
	return nil
}

// RemoveMetadata deletes <metadata> elements anywhere in the tree.
type RemoveMetadata struct{}

func NewRemoveMetadata() *RemoveMetadata { return &RemoveMetadata{} }

func (*RemoveMetadata) Name() string { return "remove_metadata" }

func (*RemoveMetadata) Apply(doc *svg.Document) error {
	root := doc.Root()
	if root == nil {
		return nil
	}
	svg.Walk(root, func(el *svg.Element) bool {
		el.Children = filterNodes(el.Children, func(n svg.Node) bool {
			child, isElement := n.(*svg.Element)
			return !isElement || child.Name != "metadata"
		})
		return true
	})
	return nil
}

// RemoveEmptyAttributes drops attributes whose value is empty or only
// whitespace.
type RemoveEmptyAttributes struct{}

func NewRemoveEmptyAttributes() *RemoveEmptyAttributes { return &RemoveEmptyAttributes{} }

func (*RemoveEmptyAttributes) Name() string { return "remove_empty_attributes" }

func (*RemoveEmptyAttributes) Apply(doc *svg.Document) error {
	root := doc.Root()
	if root == nil {
		return nil
	}
	svg.Walk(root, func(el *svg.Element) bool {
		kept := el.Attrs[:0]
		for _, a := range el.Attrs {
			if strings.TrimSpace(a.Value) != "" {
				kept = append(kept, a)
			}
		}
		el.Attrs = kept
		return true
	})
	return nil
}

// SortAttributes orders every element's attributes deterministically:
// namespace declarations first, then everything else in natural order
// (numeric fragments compare numerically, so "x2" sorts before "x10").
type SortAttributes struct{}

func NewSortAttributes() *SortAttributes { return &SortAttributes{} }

func (*SortAttributes) Name() string { return "sort_attributes" }

func (*SortAttributes) Apply(doc *svg.Document) error {
	root := doc.Root()
	if root == nil {
		return nil
	}
	svg.Walk(root, func(el *svg.Element) bool {
		sort.SliceStable(el.Attrs, func(i, j int) bool {
			a, b := el.Attrs[i].Name, el.Attrs[j].Name
			an, bn := isNamespaceDecl(a), isNamespaceDecl(b)
			if an != bn {
				return an
			}
			return natural.Less(a, b)
		})
		return true
	})
	return nil
}

func isNamespaceDecl(name string) bool {
	return name == "xmlns" || strings.HasPrefix(name, "xmlns:")
}

func filterNodes(nodes []svg.Node, keep func(svg.Node) bool) []svg.Node {
	kept := nodes[:0]
	for _, n := range nodes {
		if keep(n) {
			kept = append(kept, n)
		}
	}
	return kept
}
