package transform

import (
	"fmt"

	"go.uber.org/zap"

	"svgc/config"
	"svgc/css"
	"svgc/match"
	"svgc/svg"
)

// RemoveAttributes strips a configured attribute set from every element a
// selector hits. Entries apply independently and in configured order, so a
// later entry sees attributes already removed by an earlier one.
type RemoveAttributes struct {
	log     *zap.Logger
	entries []removeAttrsEntry
}

type removeAttrsEntry struct {
	selector   css.Selector
	attributes []string
}

// NewRemoveAttributes validates the configuration and compiles its
// selectors. A missing selector or empty attribute list is a hard setup
// failure surfaced before any document is touched. A selector that fails
// to compile rejects only its own entry; the remaining entries stay
// active.
func NewRemoveAttributes(cfg config.RemoveAttributesConfig, log *zap.Logger) (*RemoveAttributes, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("remove-attributes")

	p := &RemoveAttributes{log: log}
	for i, entry := range cfg.Entries {
		if entry.Selector == "" {
			return nil, fmt.Errorf("%w: remove_attributes entry %d has no selector", ErrInvalidConfiguration, i)
		}
		if len(entry.Attributes) == 0 {
			return nil, fmt.Errorf("%w: remove_attributes entry %d has no attributes", ErrInvalidConfiguration, i)
		}
		sel, err := css.Compile(entry.Selector)
		if err != nil {
			log.Warn("Rejecting remove_attributes entry with invalid selector",
				zap.Int("entry", i), zap.String("selector", entry.Selector), zap.Error(err))
			continue
		}
		p.entries = append(p.entries, removeAttrsEntry{selector: sel, attributes: entry.Attributes})
	}
	return p, nil
}

func (p *RemoveAttributes) Name() string { return "remove_attributes" }

// Apply removes the configured attributes from every matched element.
// Removing an attribute the element does not carry is a silent no-op.
func (p *RemoveAttributes) Apply(doc *svg.Document) error {
	root := doc.Root()
	if root == nil {
		return nil
	}
	for _, entry := range p.entries {
		matched, _ := match.FindAll(entry.selector, root)
		for _, el := range matched {
			for _, attr := range entry.attributes {
				el.RemoveAttr(attr)
			}
		}
		p.log.Debug("Removed attributes by selector",
			zap.String("selector", entry.selector.Raw),
			zap.Strings("attributes", entry.attributes),
			zap.Int("elements", len(matched)))
	}
	return nil
}
