package css

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser turns <style> payloads into compiled rules. Selector compilation
// errors never fail the whole sheet: the offending rule is skipped and a
// warning recorded, all other rules continue to apply.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new stylesheet parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses stylesheet text into compiled rules in source order.
// The optional source parameter identifies what's being parsed (for debug
// logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing stylesheet", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	// Selectors of a comma-separated group surface as QualifiedRuleGrammar
	// events before the final BeginRulesetGrammar; collect them until the
	// ruleset body starts.
	var pending []string

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if parser.Err() != nil && parser.Err().Error() != "EOF" {
				p.log.Debug("Stylesheet parse error", zap.Error(parser.Err()))
			}
			return sheet

		case css.BeginAtRuleGrammar:
			atRule := string(data)
			if atRule == "@media" {
				query := rawTokenText(parser.Values())
				if mediaQueryAlwaysApplies(query) {
					// Generic media blocks contribute their rules directly.
					p.parseRulesetBlock(parser, sheet)
				} else {
					sheet.Warnings = append(sheet.Warnings, "skipped @media block: "+query)
					p.log.Debug("Skipping @media block", zap.String("query", query))
					p.skipBlock(parser)
				}
				continue
			}
			sheet.Warnings = append(sheet.Warnings, "skipped at-rule: "+atRule)
			p.log.Debug("Skipping at-rule", zap.String("rule", atRule))
			p.skipBlock(parser)

		case css.AtRuleGrammar:
			sheet.Warnings = append(sheet.Warnings, "skipped at-rule: "+string(data))

		case css.QualifiedRuleGrammar:
			pending = append(pending, splitSelectorGroup(string(data)+rawSelectorText(parser.Values()))...)

		case css.BeginRulesetGrammar:
			selectors := append(pending, splitSelectorGroup(string(data)+rawSelectorText(parser.Values()))...)
			pending = nil
			decls := p.parseDeclarations(parser)
			p.appendRules(sheet, selectors, decls)
		}
	}
}

// ParseDeclarations parses the payload of a style attribute into an ordered
// declaration list.
func (p *Parser) ParseDeclarations(style string) []Declaration {
	input := parse.NewInput(strings.NewReader(style))
	parser := css.NewParser(input, true)

	var decls []Declaration
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return decls
		case css.DeclarationGrammar:
			decls = appendDeclaration(decls, string(data), rawTokenText(parser.Values()))
		}
	}
}

// appendRules compiles each selector of a grouped ruleset into its own Rule
// sharing the declaration list.
func (p *Parser) appendRules(sheet *Stylesheet, selectors []string, decls []Declaration) {
	if len(decls) == 0 {
		return
	}
	for _, selText := range selectors {
		sel, err := Compile(selText)
		if err != nil {
			sheet.Warnings = append(sheet.Warnings, err.Error())
			p.log.Debug("Skipping rule with invalid selector", zap.String("selector", selText), zap.Error(err))
			continue
		}
		declsCopy := make([]Declaration, len(decls))
		copy(declsCopy, decls)
		sheet.Rules = append(sheet.Rules, Rule{
			Selector:     sel,
			SelectorText: selText,
			Declarations: declsCopy,
			Specificity:  sel.Specificity(),
		})
	}
}

// parseRulesetBlock consumes rulesets until the end of the enclosing block,
// appending their rules to the sheet. Used for @media blocks that always
// apply.
func (p *Parser) parseRulesetBlock(parser *css.Parser, sheet *Stylesheet) {
	var pending []string
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return
		case css.QualifiedRuleGrammar:
			pending = append(pending, splitSelectorGroup(string(data)+rawSelectorText(parser.Values()))...)
		case css.BeginRulesetGrammar:
			selectors := append(pending, splitSelectorGroup(string(data)+rawSelectorText(parser.Values()))...)
			pending = nil
			decls := p.parseDeclarations(parser)
			p.appendRules(sheet, selectors, decls)
		}
	}
}

// parseDeclarations collects property declarations until the end of the
// ruleset, preserving source order. A property repeated within one ruleset
// keeps its last value.
func (p *Parser) parseDeclarations(parser *css.Parser) []Declaration {
	var decls []Declaration
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls
		case css.DeclarationGrammar:
			decls = appendDeclaration(decls, string(data), rawTokenText(parser.Values()))
		case css.CustomPropertyGrammar:
			// CSS custom properties are out of scope.
			continue
		}
	}
}

func appendDeclaration(decls []Declaration, property, value string) []Declaration {
	property = strings.TrimSpace(property)
	value = strings.TrimSpace(value)
	if property == "" || value == "" {
		return decls
	}
	for i := range decls {
		if decls[i].Property == property {
			decls[i].Value = value
			return decls
		}
	}
	return append(decls, Declaration{Property: property, Value: value})
}

// skipBlock skips tokens until the matching end of an at-rule block.
func (p *Parser) skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// rawTokenText reconstructs the raw text of a token run, collapsing
// whitespace runs to single spaces.
func rawTokenText(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 && parts[len(parts)-1] != " " {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// rawSelectorText reconstructs selector text from tokens. Unlike
// rawTokenText it keeps whitespace, which is significant as the descendant
// combinator.
func rawSelectorText(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	return sb.String()
}

// splitSelectorGroup splits a grouped selector on commas that sit outside
// brackets and quotes.
func splitSelectorGroup(group string) []string {
	var (
		selectors []string
		start     int
		depth     int
		quote     byte
	)
	for i := 0; i < len(group); i++ {
		c := group[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ',':
			if depth == 0 {
				if s := strings.TrimSpace(group[start:i]); s != "" {
					selectors = append(selectors, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(group[start:]); s != "" {
		selectors = append(selectors, s)
	}
	return selectors
}

// mediaQueryAlwaysApplies reports whether a media query is one of the
// generic queries that always match for a static SVG document.
func mediaQueryAlwaysApplies(query string) bool {
	switch strings.ToLower(strings.TrimSpace(query)) {
	case "", "all", "screen":
		return true
	default:
		return false
	}
}
