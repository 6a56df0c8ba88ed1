package config

import (
	"github.com/dshills/bigfile/internal/feature"
	"github.com/dshills/bigfile/internal/probe"
	"github.com/dshills/bigfile/internal/rule"
)

// Config is the loaded rule configuration.
type Config struct {
	// UnitBytes is the size-unit used for thresholds, in bytes.
	// Zero means the default unit (1 MiB).
	UnitBytes int64 `toml:"unit_bytes" yaml:"unit_bytes"`

	// Rules is the ordered rule list. It replaces the default set
	// entirely; an empty list disables detection.
	Rules []RuleConfig `toml:"rules" yaml:"rules"`
}

// RuleConfig is one configured rule.
type RuleConfig struct {
	// Threshold is the minimum document size in size-units.
	Threshold uint64 `toml:"threshold" yaml:"threshold"`

	// Patterns are path globs the rule applies to.
	Patterns []string `toml:"patterns" yaml:"patterns"`

	// Features are the feature names to disable, in order.
	Features []string `toml:"features" yaml:"features"`
}

// Default returns the configuration used when no file is present: a single
// rule that disables the whole built-in feature set for any document of at
// least two size-units.
func Default() Config {
	return Config{
		UnitBytes: probe.DefaultUnit,
		Rules: []RuleConfig{
			{
				Threshold: 2,
				Patterns:  []string{"*"},
				Features:  feature.BuiltinNames(),
			},
		},
	}
}

// Unit returns the configured size-unit, falling back to the default.
func (c Config) Unit() int64 {
	if c.UnitBytes > 0 {
		return c.UnitBytes
	}
	return probe.DefaultUnit
}

// RuleSet converts the configuration into the immutable rule set the
// registrar consumes.
func (c Config) RuleSet() rule.Set {
	rules := make([]rule.Rule, len(c.Rules))
	for i, rc := range c.Rules {
		rules[i] = rule.Rule{
			Threshold: rc.Threshold,
			Patterns:  rc.Patterns,
			Features:  rc.Features,
		}
	}
	return rule.NewSet(rules...)
}
