// Package debug provides the indented tree writer used by the structure
// dump facilities.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	for i := 0; i < depth; i++ {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	for i := 0; i < depth; i++ {
		tw.w.WriteString("  ")
	}
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// AttrLine writes a node label followed by name="value" pairs on one line.
// Values are escaped the same way as text blocks.
func (tw TreeWriter) AttrLine(depth int, label string, pairs ...[2]string) {
	for i := 0; i < depth; i++ {
		tw.w.WriteString("  ")
	}
	tw.w.WriteString(label)
	for _, p := range pairs {
		tw.w.WriteByte(' ')
		tw.w.WriteString(p[0])
		tw.w.WriteByte('=')
		tw.w.WriteString(strconv.Quote(p[1]))
	}
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
