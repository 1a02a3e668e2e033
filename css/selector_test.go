package css

import (
	"reflect"
	"testing"
)

func TestCompileCompounds(t *testing.T) {
	tests := []struct {
		name string
		sel  string
		want Selector
	}{
		{
			name: "type only",
			sel:  "rect",
			want: Selector{Raw: "rect", Parts: []Part{
				{Compound: Compound{Type: "rect"}},
			}},
		},
		{
			name: "universal",
			sel:  "*",
			want: Selector{Raw: "*", Parts: []Part{
				{Compound: Compound{Type: "*"}},
			}},
		},
		{
			name: "class only",
			sel:  ".a",
			want: Selector{Raw: ".a", Parts: []Part{
				{Compound: Compound{Classes: []string{"a"}}},
			}},
		},
		{
			name: "id only",
			sel:  "#logo",
			want: Selector{Raw: "#logo", Parts: []Part{
				{Compound: Compound{IDs: []string{"logo"}}},
			}},
		},
		{
			name: "full compound",
			sel:  "rect.a.b#x[fill]",
			want: Selector{Raw: "rect.a.b#x[fill]", Parts: []Part{
				{Compound: Compound{
					Type:    "rect",
					IDs:     []string{"x"},
					Classes: []string{"a", "b"},
					Attrs:   []AttrTest{{Name: "fill", Op: OpExists}},
				}},
			}},
		},
		{
			name: "pseudo class recorded",
			sel:  "a:hover",
			want: Selector{Raw: "a:hover", Parts: []Part{
				{Compound: Compound{Type: "a", Pseudos: []string{":hover"}}},
			}},
		},
		{
			name: "pseudo element recorded",
			sel:  "p::first-line",
			want: Selector{Raw: "p::first-line", Parts: []Part{
				{Compound: Compound{Type: "p", Pseudos: []string{"::first-line"}}},
			}},
		},
		{
			name: "functional pseudo",
			sel:  "g:nth-child(2n+1)",
			want: Selector{Raw: "g:nth-child(2n+1)", Parts: []Part{
				{Compound: Compound{Type: "g", Pseudos: []string{":nth-child(2n+1)"}}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.sel)
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tt.sel, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Compile(%q) = %+v, want %+v", tt.sel, got, tt.want)
			}
		})
	}
}

func TestCompileCombinators(t *testing.T) {
	tests := []struct {
		name  string
		sel   string
		types []string
		combs []Combinator // combinator after each part except the last
	}{
		{"descendant", "svg rect", []string{"svg", "rect"}, []Combinator{Descendant}},
		{"child", "g > rect", []string{"g", "rect"}, []Combinator{Child}},
		{"child no spaces", "g>rect", []string{"g", "rect"}, []Combinator{Child}},
		{"next sibling", "rect + circle", []string{"rect", "circle"}, []Combinator{NextSibling}},
		{"subsequent sibling", "rect ~ circle", []string{"rect", "circle"}, []Combinator{SubsequentSibling}},
		{"mixed chain", "svg g > rect + text", []string{"svg", "g", "rect", "text"}, []Combinator{Descendant, Child, NextSibling}},
		{"extra whitespace", "  svg \t rect  ", []string{"svg", "rect"}, []Combinator{Descendant}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.sel)
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tt.sel, err)
			}
			if len(got.Parts) != len(tt.types) {
				t.Fatalf("got %d parts, want %d", len(got.Parts), len(tt.types))
			}
			for i, typ := range tt.types {
				if got.Parts[i].Compound.Type != typ {
					t.Errorf("part %d type = %q, want %q", i, got.Parts[i].Compound.Type, typ)
				}
			}
			for i, comb := range tt.combs {
				if got.Parts[i].Combinator != comb {
					t.Errorf("combinator after part %d = %q, want %q", i, got.Parts[i].Combinator, comb)
				}
			}
		})
	}
}

func TestCompileAttrTests(t *testing.T) {
	tests := []struct {
		name string
		sel  string
		want AttrTest
	}{
		{"exists", "[href]", AttrTest{Name: "href", Op: OpExists}},
		{"equals bare", "[fill=red]", AttrTest{Name: "fill", Op: OpEquals, Value: "red"}},
		{"equals single quoted", "[fill='#00ff00']", AttrTest{Name: "fill", Op: OpEquals, Value: "#00ff00"}},
		{"equals double quoted", `[fill="red"]`, AttrTest{Name: "fill", Op: OpEquals, Value: "red"}},
		{"includes", "[class~=big]", AttrTest{Name: "class", Op: OpIncludes, Value: "big"}},
		{"dash match", "[lang|=en]", AttrTest{Name: "lang", Op: OpDashMatch, Value: "en"}},
		{"prefix", "[href^=http]", AttrTest{Name: "href", Op: OpPrefix, Value: "http"}},
		{"suffix", "[href$=.png]", AttrTest{Name: "href", Op: OpSuffix, Value: ".png"}},
		{"substring", "[href*=example]", AttrTest{Name: "href", Op: OpSubstring, Value: "example"}},
		{"case flag", "[fill=RED i]", AttrTest{Name: "fill", Op: OpEquals, Value: "RED", CaseInsensitive: true}},
		{"sensitive flag", "[fill=red s]", AttrTest{Name: "fill", Op: OpEquals, Value: "red"}},
		{"spaces around operator", "[ fill = red ]", AttrTest{Name: "fill", Op: OpEquals, Value: "red"}},
		{"operator text inside quoted value", `[data-x="a~=b"]`, AttrTest{Name: "data-x", Op: OpEquals, Value: "a~=b"}},
		{"combinator inside quoted value", `[data-op=">"]`, AttrTest{Name: "data-op", Op: OpEquals, Value: ">"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.sel)
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tt.sel, err)
			}
			if len(got.Parts) != 1 || len(got.Parts[0].Compound.Attrs) != 1 {
				t.Fatalf("expected single compound with one attr test, got %+v", got)
			}
			if test := got.Parts[0].Compound.Attrs[0]; test != tt.want {
				t.Errorf("attr test = %+v, want %+v", test, tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		sel  string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"lone combinator", ">"},
		{"dangling combinator", "div >"},
		{"leading combinator", "> div"},
		{"double combinator", "div > > p"},
		{"empty class", "div."},
		{"empty id", "div#"},
		{"empty pseudo", "div:"},
		{"unterminated attr", "[href"},
		{"unbalanced close", "href]"},
		{"unterminated quote", `[fill="red]`},
		{"attr without name", "[=red]"},
		{"attr operator without value", "[fill=]"},
		{"trailing junk after value", "[fill=red junk]"},
		{"quote outside attr", `div"x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.sel); err == nil {
				t.Errorf("Compile(%q) succeeded, want error", tt.sel)
			}
		})
	}
}

func TestNeverMatches(t *testing.T) {
	tests := []struct {
		sel  string
		want bool
	}{
		{"rect", false},
		{".a > #b", false},
		{"a:hover", true},
		{"div p::before", true},
		{"li:nth-child(2) span", true},
	}

	for _, tt := range tests {
		sel, err := Compile(tt.sel)
		if err != nil {
			t.Fatalf("Compile(%q) failed: %v", tt.sel, err)
		}
		if got := sel.NeverMatches(); got != tt.want {
			t.Errorf("NeverMatches(%q) = %v, want %v", tt.sel, got, tt.want)
		}
	}
}
