// Package transform implements the optimization passes that rewrite an SVG
// document tree in place. Each pass is an independent Plugin; the Pipeline
// runs them in configured order over a tree it exclusively owns.
package transform

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"svgc/config"
	"svgc/svg"
)

// ErrInvalidConfiguration marks plugin setup failures. Configuration errors
// surface before any tree mutation begins so a misconfigured plugin never
// leaves a document partially rewritten.
var ErrInvalidConfiguration = errors.New("invalid plugin configuration")

// Plugin is a single tree-transformation pass.
type Plugin interface {
	Name() string
	Apply(doc *svg.Document) error
}

// Pipeline runs a configured sequence of plugins over one document at a
// time. Plugins share no mutable state; the only shared state is read-only
// configuration and static tables.
type Pipeline struct {
	plugins []Plugin
	log     *zap.Logger
}

// NewPipeline builds the plugin sequence from configuration. All plugin
// configuration is validated here, before any document is touched.
func NewPipeline(cfg *config.PipelineConfig, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("pipeline")

	var plugins []Plugin
	if cfg.RemoveComments.Enable {
		plugins = append(plugins, NewRemoveComments())
	}
	if cfg.RemoveDoctype.Enable {
		plugins = append(plugins, NewRemoveDoctype())
	}
	if cfg.RemoveMetadata.Enable {
		plugins = append(plugins, NewRemoveMetadata())
	}
	if cfg.InlineStyles.Enable {
		plugins = append(plugins, NewInlineStyles(cfg.InlineStyles, log))
	}
	if cfg.RemoveAttributes.Enable {
		ra, err := NewRemoveAttributes(cfg.RemoveAttributes, log)
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, ra)
	}
	if cfg.RemoveEmptyAttributes.Enable {
		plugins = append(plugins, NewRemoveEmptyAttributes())
	}
	if cfg.SortAttributes.Enable {
		plugins = append(plugins, NewSortAttributes())
	}

	return &Pipeline{plugins: plugins, log: log}, nil
}

// Plugins returns the names of the passes in execution order.
func (p *Pipeline) Plugins() []string {
	names := make([]string, 0, len(p.plugins))
	for _, pl := range p.plugins {
		names = append(names, pl.Name())
	}
	return names
}

// Run applies every pass in order. A failing pass does not stop the ones
// after it; failures are aggregated and returned together.
func (p *Pipeline) Run(doc *svg.Document) error {
	var result error
	for _, plugin := range p.plugins {
		p.log.Debug("Running pass", zap.String("plugin", plugin.Name()))
		if err := plugin.Apply(doc); err != nil {
			result = multierr.Append(result, fmt.Errorf("%s: %w", plugin.Name(), err))
		}
	}
	return result
}
