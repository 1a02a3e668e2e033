package transform

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"svgc/config"
	"svgc/css"
	"svgc/match"
	"svgc/svg"
)

// InlineStyles moves <style> rules onto the elements they select, expressed
// as presentation attributes, then cleans up what the move made redundant:
// applied selectors, class/id hooks nobody else references, and emptied
// <style> elements.
type InlineStyles struct {
	cfg    config.InlineStylesConfig
	log    *zap.Logger
	parser *css.Parser
}

// NewInlineStyles creates the pass from its configuration.
func NewInlineStyles(cfg config.InlineStylesConfig, log *zap.Logger) *InlineStyles {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("inline-styles")
	return &InlineStyles{cfg: cfg, log: log, parser: css.NewParser(log)}
}

func (p *InlineStyles) Name() string { return "inline_styles" }

// styleSheet is one <style> element with its parsed rules. A sheet is
// rewritable only when parsing was lossless (no skipped constructs); a
// sheet that produced warnings is left untouched by cleanup so no content
// is silently dropped.
type styleSheet struct {
	el         *svg.Element
	rules      []*sheetRule
	rewritable bool
}

type sheetRule struct {
	rule    css.Rule
	sheet   *styleSheet
	applied bool
	removed bool
	matched []*svg.Element
}

// Apply runs the inlining pass over the document.
func (p *InlineStyles) Apply(doc *svg.Document) error {
	root := doc.Root()
	if root == nil {
		return nil
	}

	sheets := p.collectStylesheets(root)
	if len(sheets) == 0 {
		return nil
	}

	var rules []*sheetRule
	for _, sh := range sheets {
		rules = append(rules, sh.rules...)
	}

	// Ascending specificity, stable: a later rule of equal or higher
	// specificity overwrites earlier values, which models cascade
	// precedence with plain last-write-wins application.
	order := make([]*sheetRule, len(rules))
	copy(order, rules)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].rule.Specificity.Less(order[j].rule.Specificity)
	})

	inlineProps := make(map[*svg.Element]map[string]bool)

	for _, r := range order {
		if r.rule.Selector.NeverMatches() {
			// Pseudo-classes and pseudo-elements never match; the
			// process_pseudo_classes option is accepted but cannot change
			// that.
			continue
		}
		if !p.inlinable(r.rule.Declarations) {
			p.log.Debug("Rule has non-presentation properties, keeping in stylesheet",
				zap.String("selector", r.rule.SelectorText))
			continue
		}

		matched, _ := match.FindAll(r.rule.Selector, root)
		if len(matched) == 0 {
			continue
		}
		if p.cfg.OnlyMatchedOnce && len(matched) != 1 {
			p.log.Debug("Selector matches more than one element, skipping",
				zap.String("selector", r.rule.SelectorText), zap.Int("matches", len(matched)))
			continue
		}

		for _, el := range matched {
			literal := p.literalStyleProps(el, inlineProps)
			for _, d := range r.rule.Declarations {
				if literal[d.Property] {
					// A pre-existing literal style attribute has the last
					// word; stylesheet rules never overwrite it.
					continue
				}
				el.SetAttr(d.Property, d.Value)
			}
		}

		r.applied = true
		r.matched = matched
		p.log.Debug("Inlined rule",
			zap.String("selector", r.rule.SelectorText),
			zap.String("specificity", r.rule.Specificity.String()),
			zap.Int("elements", len(matched)))
	}

	if p.cfg.RemoveMatchedSelectors {
		p.cleanup(root, sheets, rules)
	}
	return nil
}

// collectStylesheets finds every CSS <style> element under root and parses
// its text content into rules.
func (p *InlineStyles) collectStylesheets(root *svg.Element) []*styleSheet {
	var sheets []*styleSheet
	svg.Walk(root, func(el *svg.Element) bool {
		if el.Name != "style" {
			return true
		}
		if typ := el.AttrValue("type", ""); typ != "" && typ != "text/css" {
			p.log.Debug("Skipping non-CSS style element", zap.String("type", typ))
			return true
		}
		if media := el.AttrValue("media", ""); media != "" &&
			!strings.EqualFold(media, "all") && !strings.EqualFold(media, "screen") {
			p.log.Debug("Skipping style element with media query", zap.String("media", media))
			return true
		}

		parsed := p.parser.Parse([]byte(el.TextContent()), "style element")
		sh := &styleSheet{el: el, rewritable: len(parsed.Warnings) == 0}
		for i := range parsed.Rules {
			sh.rules = append(sh.rules, &sheetRule{rule: parsed.Rules[i], sheet: sh})
		}
		sheets = append(sheets, sh)
		return true
	})
	return sheets
}

// inlinable reports whether every declaration of a rule is an SVG
// presentation property. Rules carrying anything else stay in the
// stylesheet untouched.
func (p *InlineStyles) inlinable(decls []css.Declaration) bool {
	if len(decls) == 0 {
		return false
	}
	for _, d := range decls {
		if !presentationProps[d.Property] {
			return false
		}
	}
	return true
}

// literalStyleProps returns the property set of the element's original
// style attribute, memoized per element for the duration of the pass.
func (p *InlineStyles) literalStyleProps(el *svg.Element, memo map[*svg.Element]map[string]bool) map[string]bool {
	if props, ok := memo[el]; ok {
		return props
	}
	props := make(map[string]bool)
	if style, ok := el.Attr("style"); ok {
		for _, d := range p.parser.ParseDeclarations(style) {
			props[d.Property] = true
		}
	}
	memo[el] = props
	return props
}

// cleanup removes applied selectors from their source stylesheets, prunes
// class tokens and id attributes that served only as hooks for applied
// rules, rewrites surviving stylesheet text, and deletes <style> elements
// left with no content.
func (p *InlineStyles) cleanup(root *svg.Element, sheets []*styleSheet, rules []*sheetRule) {
	for _, r := range rules {
		if r.applied && r.sheet.rewritable {
			r.removed = true
		}
	}

	// Tokens still referenced by any rule that stays in a stylesheet.
	// Reference scanning beyond the rule list (href/url targets) is the
	// job of a separate pass.
	remainingClasses := make(map[string]bool)
	remainingIDs := make(map[string]bool)
	for _, r := range rules {
		if r.removed {
			continue
		}
		for _, part := range r.rule.Selector.Parts {
			for _, class := range part.Compound.Classes {
				remainingClasses[class] = true
			}
			for _, id := range part.Compound.IDs {
				remainingIDs[id] = true
			}
		}
	}

	for _, r := range rules {
		if !r.removed {
			continue
		}
		subject := r.rule.Selector.Subject()
		for _, el := range r.matched {
			for _, class := range subject.Classes {
				if !remainingClasses[class] {
					removeClassToken(el, class)
				}
			}
			for _, id := range subject.IDs {
				if !remainingIDs[id] && el.AttrValue("id", "") == id {
					el.RemoveAttr("id")
				}
			}
		}
	}

	ctx := match.NewContext(root)
	for _, sh := range sheets {
		if !sh.rewritable {
			continue
		}
		var surviving []*sheetRule
		for _, r := range sh.rules {
			if !r.removed {
				surviving = append(surviving, r)
			}
		}
		if len(surviving) == 0 {
			if parent := ctx.Parent(sh.el); parent != nil {
				parent.RemoveChild(sh.el)
				p.log.Debug("Removed emptied style element")
			}
			continue
		}
		if len(surviving) != len(sh.rules) {
			sh.el.Children = []svg.Node{&svg.Text{Data: writeRules(surviving)}}
		}
	}
}

// removeClassToken deletes one whitespace-separated token from the class
// attribute, dropping the attribute entirely when it becomes empty.
func removeClassToken(el *svg.Element, token string) {
	value, ok := el.Attr("class")
	if !ok {
		return
	}
	var kept []string
	for _, t := range strings.Fields(value) {
		if t != token {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		el.RemoveAttr("class")
		return
	}
	el.SetAttr("class", strings.Join(kept, " "))
}

// writeRules serializes surviving rules back into compact stylesheet text.
func writeRules(rules []*sheetRule) string {
	var sb strings.Builder
	for _, r := range rules {
		sb.WriteString(r.rule.SelectorText)
		sb.WriteByte('{')
		sb.WriteString(css.WriteDeclarations(r.rule.Declarations))
		sb.WriteByte('}')
	}
	return sb.String()
}
