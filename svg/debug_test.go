package svg

import (
	"strings"
	"testing"
)

func TestDump(t *testing.T) {
	doc, err := ParseString(`<?xml version="1.0"?><!-- note --><svg width="10"><g><rect fill="red"/></g><text>hi</text></svg>`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	out := doc.Dump()
	for _, want := range []string{
		"document\n",
		`  procinst xml: "version=\"1.0\""`,
		`  comment: " note "`,
		`  <svg> width="10"`,
		"    <g>\n",
		`      <rect> fill="red"`,
		"    <text>\n",
		`      text: "hi"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestDumpNil(t *testing.T) {
	var d *Document
	if got := d.Dump(); got != "<nil document>" {
		t.Errorf("nil dump = %q", got)
	}
}
