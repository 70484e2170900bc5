// Package config defines the runtime-tunable options named in spec §6
// ("Configuration") and loads them the way the teacher loads its own
// declarative fixtures: gopkg.in/yaml.v3 for a file, flag for CLI
// overrides (cmd/barn/main.go's flat flag.String/flag.Int/flag.Bool
// style, promoted here from cmd/barn's inspection flags to the actual
// VM construction options).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors spec §6's "Recognised options at VM construction"
// exactly: StepBudget, AncestorDepthLimit, StringChunkItemDelimiter,
// ChannelCount, BaseURL.
type Config struct {
	StepBudget               int    `yaml:"stepBudget"`
	AncestorDepthLimit       int    `yaml:"ancestorDepthLimit"`
	StringChunkItemDelimiter string `yaml:"stringChunkItemDelimiter"`
	ChannelCount             int    `yaml:"channelCount"`
	BaseURL                  string `yaml:"baseUrl"`
}

// Defaults returns the values spec §6 and §4.2 name explicitly
// (stepBudget 500_000, ancestorDepthLimit 16, stringChunkItemDelimiter
// ','). ChannelCount is left zero, meaning "derived from
// directorVersion unless overridden" (spec §6) — callers only apply it
// over the container's own derivation when non-zero.
func Defaults() *Config {
	return &Config{
		StepBudget:               500_000,
		AncestorDepthLimit:       16,
		StringChunkItemDelimiter: ",",
	}
}

// LoadFile reads a YAML config file and overlays it on Defaults(). A
// zero/absent field in the file leaves the default in place, matching
// the teacher's conformance loader's tolerance for partial fixtures
// (gopkg.in/yaml.v3, barn/conformance/loader.go).
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.StepBudget == 0 {
		cfg.StepBudget = 500_000
	}
	if cfg.AncestorDepthLimit == 0 {
		cfg.AncestorDepthLimit = 16
	}
	if cfg.StringChunkItemDelimiter == "" {
		cfg.StringChunkItemDelimiter = ","
	}
	return cfg, nil
}

// Delimiter returns the configured item delimiter as a byte (spec §6:
// "stringChunkItemDelimiter: char"): ',' when the setting is empty,
// otherwise the setting's first byte; any further bytes are ignored.
func (c *Config) Delimiter() byte {
	if len(c.StringChunkItemDelimiter) == 0 {
		return ','
	}
	return c.StringChunkItemDelimiter[0]
}
