// Package config loads the engine's run configuration: which script/
// component files to check, the canonical-ABI flattening caps (validated
// here but not consulted by internal/canon), whether the script command
// stops at the first failing target, and the report output format.
//
// Grounded on the teacher's internal/eval_harness spec-loading idiom: a
// YAML file read via gopkg.in/yaml.v3, unmarshaled into a plain struct,
// then validated for required fields before use.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level run configuration (spec.md §4.10 "Top-level
// driver" takes a list of targets to check; everything else here tunes
// behavior the spec leaves open).
type Config struct {
	// Targets lists the script/component files to check, in order.
	Targets []string `yaml:"targets"`

	// MaxFlatParams/MaxFlatResults are the canonical-ABI flattening caps.
	// Validate accepts only values in (0, 16] and (0, 1]. The flattening
	// in internal/canon does not read them; it always uses its own
	// MaxFlatParams=16/MaxFlatResults=1.
	MaxFlatParams  int `yaml:"max_flat_params"`
	MaxFlatResults int `yaml:"max_flat_results"`

	// StrictAssertions makes the script command stop at the first target
	// whose script reports a failure, instead of going on to the remaining
	// targets. Within one script, the runner always stops at the first
	// failing statement.
	StrictAssertions bool `yaml:"strict_assertions"`

	// OutputFormat selects the CLI's report rendering: "text" (colorized,
	// human-facing) or "json" (one Report per line, machine-facing).
	OutputFormat string `yaml:"output_format"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		MaxFlatParams:    16,
		MaxFlatResults:   1,
		StrictAssertions: false,
		OutputFormat:     "text",
	}
}

// Load reads and validates a run configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("no targets configured")
	}
	if c.MaxFlatParams <= 0 || c.MaxFlatParams > 16 {
		return fmt.Errorf("max_flat_params must be in (0, 16], got %d", c.MaxFlatParams)
	}
	if c.MaxFlatResults <= 0 || c.MaxFlatResults > 1 {
		return fmt.Errorf("max_flat_results must be in (0, 1], got %d", c.MaxFlatResults)
	}
	switch c.OutputFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unrecognized output_format: %q", c.OutputFormat)
	}
	return nil
}
