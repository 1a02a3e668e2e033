package transform

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"svgc/config"
	"svgc/svg"
)

func defaultInlineConfig() config.InlineStylesConfig {
	return config.InlineStylesConfig{
		Enable:                 true,
		OnlyMatchedOnce:        true,
		RemoveMatchedSelectors: true,
		ProcessMediaQueries:    true,
	}
}

func applyInline(t *testing.T, cfg config.InlineStylesConfig, input string) *svg.Document {
	t.Helper()
	doc := mustParse(t, input)
	if err := NewInlineStyles(cfg, zaptest.NewLogger(t)).Apply(doc); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	return doc
}

func TestInlineStylesSingleMatch(t *testing.T) {
	doc := applyInline(t, defaultInlineConfig(),
		`<svg><style>.a{fill:red}</style><rect class="a" width="10" height="10"/></svg>`)

	out := doc.String()
	if !strings.Contains(out, `fill="red"`) {
		t.Errorf("fill not inlined: %s", out)
	}
	if strings.Contains(out, "<style") {
		t.Errorf("emptied style element survived: %s", out)
	}
	if strings.Contains(out, "class=") {
		t.Errorf("selector hook class survived: %s", out)
	}
}

func TestInlineStylesMultipleMatchesSkipped(t *testing.T) {
	input := `<svg><style>.a{fill:red}</style><rect class="a" width="10"/><circle class="a" r="5"/></svg>`
	doc := applyInline(t, defaultInlineConfig(), input)

	out := doc.String()
	if strings.Contains(out, `fill="red"`) {
		t.Errorf("rule inlined despite multiple matches: %s", out)
	}
	if !strings.Contains(out, "<style") || !strings.Contains(out, ".a{fill:red}") {
		t.Errorf("rule should stay in stylesheet: %s", out)
	}
	if strings.Count(out, "class=") != 2 {
		t.Errorf("class hooks should survive: %s", out)
	}
}

func TestInlineStylesMultipleMatchesAllowed(t *testing.T) {
	cfg := defaultInlineConfig()
	cfg.OnlyMatchedOnce = false
	doc := applyInline(t, cfg,
		`<svg><style>.a{fill:red}</style><rect class="a" width="10"/><circle class="a" r="5"/></svg>`)

	out := doc.String()
	if strings.Count(out, `fill="red"`) != 2 {
		t.Errorf("rule should apply to both elements: %s", out)
	}
	if strings.Contains(out, "<style") {
		t.Errorf("emptied style element survived: %s", out)
	}
}

func TestInlineStylesZeroMatches(t *testing.T) {
	input := `<svg><style>.missing{fill:red}</style><rect width="10"/></svg>`
	doc := applyInline(t, defaultInlineConfig(), input)

	out := doc.String()
	if strings.Contains(out, `fill=`) {
		t.Errorf("unmatched rule applied: %s", out)
	}
	if !strings.Contains(out, ".missing{fill:red}") {
		t.Errorf("unmatched rule should stay in stylesheet: %s", out)
	}
}

func TestInlineStylesSpecificityOrder(t *testing.T) {
	doc := applyInline(t, defaultInlineConfig(),
		`<svg><style>rect.a{fill:blue}.a{fill:red}</style><rect class="a" width="10"/></svg>`)

	rect := doc.Root().ChildElements()[0]
	// rect.a (0,1,1) beats .a (0,1,0) regardless of source order.
	if got := rect.AttrValue("fill", ""); got != "blue" {
		t.Errorf("fill = %q, want blue from the more specific rule", got)
	}
}

func TestInlineStylesSourceOrderTieBreak(t *testing.T) {
	doc := applyInline(t, defaultInlineConfig(),
		`<svg><style>.a{fill:red}.b{fill:blue}</style><rect class="a b" width="10"/></svg>`)

	rect := doc.Root().ChildElements()[0]
	// Equal specificity: the later rule wins.
	if got := rect.AttrValue("fill", ""); got != "blue" {
		t.Errorf("fill = %q, want blue from the later rule", got)
	}
}

func TestInlineStylesLiteralStyleWins(t *testing.T) {
	doc := applyInline(t, defaultInlineConfig(),
		`<svg><style>.a{fill:red;stroke:black}</style><rect class="a" style="fill:blue" width="10"/></svg>`)

	rect := doc.Root().ChildElements()[0]
	if rect.HasAttr("fill") {
		t.Errorf("stylesheet fill overrode the literal style attribute: %v", rect.Attrs)
	}
	if got := rect.AttrValue("style", ""); got != "fill:blue" {
		t.Errorf("style attribute = %q, want untouched fill:blue", got)
	}
	if got := rect.AttrValue("stroke", ""); got != "black" {
		t.Errorf("stroke = %q, properties absent from the style attribute still inline", got)
	}
}

func TestInlineStylesNonPresentationPropertyKeepsRule(t *testing.T) {
	input := `<svg><style>.a{fill:red;behavior:url(x)}</style><rect class="a" width="10"/></svg>`
	doc := applyInline(t, defaultInlineConfig(), input)

	out := doc.String()
	if strings.Contains(out, `fill="red"`) {
		t.Errorf("rule with non-presentation property was inlined: %s", out)
	}
	if !strings.Contains(out, "behavior") {
		t.Errorf("rule dropped from stylesheet: %s", out)
	}
	if !strings.Contains(out, `class="a"`) {
		t.Errorf("hook class removed while rule remains: %s", out)
	}
}

func TestInlineStylesPartialSheetRewrite(t *testing.T) {
	doc := applyInline(t, defaultInlineConfig(),
		`<svg><style>.a{fill:red}.b{stroke:blue}</style><rect class="a" width="10"/></svg>`)

	out := doc.String()
	if !strings.Contains(out, `fill="red"`) {
		t.Errorf("matched rule not inlined: %s", out)
	}
	if strings.Contains(out, ".a{") {
		t.Errorf("applied rule survived in stylesheet: %s", out)
	}
	if !strings.Contains(out, ".b{stroke:blue}") {
		t.Errorf("unmatched rule dropped: %s", out)
	}
}

func TestInlineStylesIDHookPruned(t *testing.T) {
	doc := applyInline(t, defaultInlineConfig(),
		`<svg><style>#mark{fill:red}</style><rect id="mark" width="10"/></svg>`)

	rect := doc.Root().ChildElements()[0]
	if got := rect.AttrValue("fill", ""); got != "red" {
		t.Errorf("fill = %q, want red", got)
	}
	if rect.HasAttr("id") {
		t.Errorf("id hook survived: %v", rect.Attrs)
	}
}

func TestInlineStylesHookKeptWhileReferenced(t *testing.T) {
	// .a is also the subject of a rule that stays in the sheet, so the
	// class token survives.
	doc := applyInline(t, defaultInlineConfig(),
		`<svg><style>.a{fill:red}.a{behavior:x}</style><rect class="a" width="10"/></svg>`)

	rect := doc.Root().ChildElements()[0]
	if got := rect.AttrValue("fill", ""); got != "red" {
		t.Errorf("fill = %q, want red", got)
	}
	if got := rect.AttrValue("class", ""); got != "a" {
		t.Errorf("class = %q, want hook kept for remaining rule", got)
	}
}

func TestInlineStylesClassTokenPrunedSelectively(t *testing.T) {
	doc := applyInline(t, defaultInlineConfig(),
		`<svg><style>.a{fill:red}</style><rect class="a keep" width="10"/></svg>`)

	rect := doc.Root().ChildElements()[0]
	if got := rect.AttrValue("class", ""); got != "keep" {
		t.Errorf("class = %q, want only the unrelated token", got)
	}
}

func TestInlineStylesPseudoClassNeverApplies(t *testing.T) {
	input := `<svg><style>.a:hover{fill:red}</style><rect class="a" width="10"/></svg>`
	doc := applyInline(t, defaultInlineConfig(), input)

	out := doc.String()
	if strings.Contains(out, `fill="red"`) {
		t.Errorf("pseudo-class rule applied: %s", out)
	}
	if !strings.Contains(out, ":hover") {
		t.Errorf("pseudo-class rule dropped: %s", out)
	}
}

func TestInlineStylesWarningSheetNotRewritten(t *testing.T) {
	// The @font-face block is skipped with a warning; the sheet is applied
	// but never rewritten or deleted, so no content is silently lost.
	input := `<svg><style>@font-face{font-family:F;src:url(x.woff)}.a{fill:red}</style><rect class="a" width="10"/></svg>`
	doc := applyInline(t, defaultInlineConfig(), input)

	out := doc.String()
	if !strings.Contains(out, `fill="red"`) {
		t.Errorf("rule not inlined: %s", out)
	}
	if !strings.Contains(out, "@font-face") {
		t.Errorf("unparsed sheet content dropped: %s", out)
	}
	if !strings.Contains(out, `class="a"`) {
		t.Errorf("hook pruned although its rule stays in the sheet: %s", out)
	}
}

func TestInlineStylesSkipsForeignStyleElements(t *testing.T) {
	tests := []struct {
		name  string
		style string
	}{
		{"non-css type", `<style type="text/plain">.a{fill:red}</style>`},
		{"print media", `<style media="print">.a{fill:red}</style>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := applyInline(t, defaultInlineConfig(),
				`<svg>`+tt.style+`<rect class="a" width="10"/></svg>`)
			out := doc.String()
			if strings.Contains(out, `fill="red"`) {
				t.Errorf("foreign style element processed: %s", out)
			}
			if !strings.Contains(out, ".a{fill:red}") {
				t.Errorf("foreign style element rewritten: %s", out)
			}
		})
	}
}

func TestInlineStylesCDataContent(t *testing.T) {
	doc := applyInline(t, defaultInlineConfig(),
		`<svg><style><![CDATA[.a{fill:red}]]></style><rect class="a" width="10"/></svg>`)

	out := doc.String()
	if !strings.Contains(out, `fill="red"`) {
		t.Errorf("CDATA stylesheet not processed: %s", out)
	}
	if strings.Contains(out, "<style") {
		t.Errorf("emptied style element survived: %s", out)
	}
}

func TestInlineStylesMediaQueryInsideSheet(t *testing.T) {
	doc := applyInline(t, defaultInlineConfig(),
		`<svg><style>@media screen{.a{fill:red}}</style><rect class="a" width="10"/></svg>`)

	out := doc.String()
	if !strings.Contains(out, `fill="red"`) {
		t.Errorf("rule inside @media screen not inlined: %s", out)
	}
	if strings.Contains(out, "<style") {
		t.Errorf("emptied style element survived: %s", out)
	}
}

func TestInlineStylesKeepMatchedSelectors(t *testing.T) {
	cfg := defaultInlineConfig()
	cfg.RemoveMatchedSelectors = false
	doc := applyInline(t, cfg,
		`<svg><style>.a{fill:red}</style><rect class="a" width="10"/></svg>`)

	out := doc.String()
	if !strings.Contains(out, `fill="red"`) {
		t.Errorf("rule not inlined: %s", out)
	}
	if !strings.Contains(out, ".a{fill:red}") || !strings.Contains(out, `class="a"`) {
		t.Errorf("cleanup ran although disabled: %s", out)
	}
}

func TestInlineStylesNoStyleElements(t *testing.T) {
	input := `<svg><rect width="10"/></svg>`
	doc := applyInline(t, defaultInlineConfig(), input)
	if !strings.Contains(doc.String(), `width="10"`) {
		t.Error("document without stylesheets damaged")
	}
}
