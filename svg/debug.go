package svg

import (
	"svgc/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// Dump returns a readable tree of the document structure: one line per
// node, attributes inline, character data quoted with escaped control
// sequences. It exists solely for manual inspection during debugging.
func (d *Document) Dump() string {
	if d == nil {
		return "<nil document>"
	}
	tw := treeWriter{debug.NewTreeWriter()}
	tw.Line(0, "document")
	for _, n := range d.Nodes {
		tw.node(1, n)
	}
	return tw.String()
}

func (tw treeWriter) node(depth int, n Node) {
	switch t := n.(type) {
	case *Element:
		pairs := make([][2]string, 0, len(t.Attrs))
		for _, a := range t.Attrs {
			pairs = append(pairs, [2]string{a.Name, a.Value})
		}
		tw.AttrLine(depth, "<"+t.Name+">", pairs...)
		for _, child := range t.Children {
			tw.node(depth+1, child)
		}
	case *Text:
		tw.TextBlock(depth, "text", t.Data)
	case *CData:
		tw.TextBlock(depth, "cdata", t.Data)
	case *Comment:
		tw.TextBlock(depth, "comment", t.Data)
	case *ProcInst:
		tw.TextBlock(depth, "procinst "+t.Target, t.Inst)
	case *Directive:
		tw.TextBlock(depth, "directive", t.Data)
	}
}
