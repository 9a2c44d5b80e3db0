package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/waclang/waccheck/internal/ir"
)

// LoadComponent reads a single-component fixture: a YAML document whose
// top level is a ComponentWire (spec.md §6, "one component definition per
// run").
func LoadComponent(path string) (*ir.Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	var wire ComponentWire
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("fixture: parse %s: %w", path, err)
	}
	comp, err := wire.ToIR()
	if err != nil {
		return nil, fmt.Errorf("fixture: %s: %w", path, err)
	}
	return comp, nil
}

// LoadScript reads a script fixture (spec.md §8): a YAML document whose
// top level is a ScriptWire.
func LoadScript(path string) (*ir.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	var wire ScriptWire
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("fixture: parse %s: %w", path, err)
	}
	script, err := wire.ToIR()
	if err != nil {
		return nil, fmt.Errorf("fixture: %s: %w", path, err)
	}
	return script, nil
}
