package svg

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Parse reads SVG markup from r and converts it into an owned document tree.
// Parsing is permissive: real-world SVG files are often produced by tools
// that are sloppy about encodings, so any charset declared by the XML prolog
// is honored via the charset reader.
func Parse(r io.Reader) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}

	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read SVG: %w", err)
	}
	return fromEtree(doc)
}

// ParseString is a convenience wrapper around Parse.
func ParseString(data string) (*Document, error) {
	return Parse(strings.NewReader(data))
}

// fromEtree converts an etree document into the owned tree. No etree types
// escape this package.
func fromEtree(doc *etree.Document) (*Document, error) {
	result := &Document{}
	for _, tok := range doc.Child {
		if n := fromEtreeToken(tok); n != nil {
			result.Nodes = append(result.Nodes, n)
		}
	}
	if result.Root() == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	return result, nil
}

func fromEtreeToken(tok etree.Token) Node {
	switch t := tok.(type) {
	case *etree.Element:
		el := &Element{Name: t.FullTag()}
		for _, a := range t.Attr {
			// Later duplicates lose; attribute names stay unique.
			if !el.HasAttr(a.FullKey()) {
				el.Attrs = append(el.Attrs, Attr{Name: a.FullKey(), Value: a.Value})
			}
		}
		for _, child := range t.Child {
			if n := fromEtreeToken(child); n != nil {
				el.Children = append(el.Children, n)
			}
		}
		return el
	case *etree.CharData:
		if t.IsCData() {
			return &CData{Data: t.Data}
		}
		return &Text{Data: t.Data}
	case *etree.Comment:
		return &Comment{Data: t.Data}
	case *etree.ProcInst:
		return &ProcInst{Target: t.Target, Inst: t.Inst}
	case *etree.Directive:
		return &Directive{Data: t.Data}
	default:
		return nil
	}
}
