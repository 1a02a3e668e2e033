package config

import (
	"bytes"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

type (
	// SimplePluginConfig is shared by passes that have no options beyond
	// being on or off.
	SimplePluginConfig struct {
		Enable bool `yaml:"enable"`
	}

	// InlineStylesConfig controls the style-inlining pass.
	InlineStylesConfig struct {
		Enable                 bool `yaml:"enable"`
		OnlyMatchedOnce        bool `yaml:"only_matched_once"`
		RemoveMatchedSelectors bool `yaml:"remove_matched_selectors"`
		ProcessMediaQueries    bool `yaml:"process_media_queries"`
		ProcessPseudoClasses   bool `yaml:"process_pseudo_classes"`
	}

	// RemoveAttributesEntry is one selector with the attributes to strip
	// from every element it matches.
	RemoveAttributesEntry struct {
		Selector   string   `yaml:"selector"`
		Attributes []string `yaml:"attributes"`
	}

	// RemoveAttributesConfig controls the removal-by-selector pass.
	RemoveAttributesConfig struct {
		Enable  bool                    `yaml:"enable"`
		Entries []RemoveAttributesEntry `yaml:"entries"`
	}

	// PipelineConfig lists every optimization pass with its options.
	PipelineConfig struct {
		RemoveComments        SimplePluginConfig     `yaml:"remove_comments"`
		RemoveDoctype         SimplePluginConfig     `yaml:"remove_doctype"`
		RemoveMetadata        SimplePluginConfig     `yaml:"remove_metadata"`
		InlineStyles          InlineStylesConfig     `yaml:"inline_styles"`
		RemoveAttributes      RemoveAttributesConfig `yaml:"remove_attributes"`
		RemoveEmptyAttributes SimplePluginConfig     `yaml:"remove_empty_attributes"`
		SortAttributes        SimplePluginConfig     `yaml:"sort_attributes"`
	}

	// Configuration is the full program configuration.
	Configuration struct {
		Logging  LoggingConfig  `yaml:"logging"`
		Pipeline PipelineConfig `yaml:"pipeline"`
	}
)

// Default returns the configuration used when no file is provided: every
// safe pass enabled, removal-by-selector off until explicitly configured.
func Default() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{
			ConsoleLogger: LoggerConfig{Level: "normal"},
			FileLogger:    LoggerConfig{Level: "none", Mode: "overwrite"},
		},
		Pipeline: PipelineConfig{
			RemoveComments: SimplePluginConfig{Enable: true},
			RemoveDoctype:  SimplePluginConfig{Enable: true},
			RemoveMetadata: SimplePluginConfig{Enable: true},
			InlineStyles: InlineStylesConfig{
				Enable:                 true,
				OnlyMatchedOnce:        true,
				RemoveMatchedSelectors: true,
				ProcessMediaQueries:    true,
			},
			RemoveEmptyAttributes: SimplePluginConfig{Enable: true},
			SortAttributes:        SimplePluginConfig{Enable: true},
		},
	}
}

// LoadConfiguration reads configuration from a YAML file, layered over the
// defaults. An empty path returns the defaults as-is.
func LoadConfiguration(path string) (*Configuration, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("unable to parse configuration %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Configuration) validate() error {
	for _, lc := range []LoggerConfig{cfg.Logging.ConsoleLogger, cfg.Logging.FileLogger} {
		switch lc.Level {
		case "", "none", "normal", "debug":
		default:
			return fmt.Errorf("unknown log level %q", lc.Level)
		}
		switch lc.Mode {
		case "", "append", "overwrite":
		default:
			return fmt.Errorf("unknown log mode %q", lc.Mode)
		}
	}
	if cfg.Logging.FileLogger.Level != "" && cfg.Logging.FileLogger.Level != "none" &&
		cfg.Logging.FileLogger.Destination == "" {
		return fmt.Errorf("file logging enabled without destination")
	}
	return nil
}
