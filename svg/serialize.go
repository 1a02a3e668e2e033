package svg

import (
	"io"
	"strings"

	"github.com/beevik/etree"
)

// WriteTo serializes the document back into SVG markup, implementing
// io.WriterTo. Serialization goes through etree with canonical settings so
// text and attribute values are escaped consistently with the parser.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return toEtree(d).WriteTo(w)
}

// String returns the serialized markup of the document.
func (d *Document) String() string {
	var sb strings.Builder
	d.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func toEtree(d *Document) *etree.Document {
	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	for _, n := range d.Nodes {
		doc.AddChild(toEtreeToken(n))
	}
	return doc
}

func toEtreeToken(n Node) etree.Token {
	switch t := n.(type) {
	case *Element:
		el := etree.NewElement(t.Name)
		for _, a := range t.Attrs {
			el.CreateAttr(a.Name, a.Value)
		}
		for _, child := range t.Children {
			el.AddChild(toEtreeToken(child))
		}
		return el
	case *Text:
		return etree.NewText(t.Data)
	case *CData:
		return etree.NewCData(t.Data)
	case *Comment:
		return etree.NewComment(t.Data)
	case *ProcInst:
		return etree.NewProcInst(t.Target, t.Inst)
	case *Directive:
		return etree.NewDirective(t.Data)
	}
	return nil
}
