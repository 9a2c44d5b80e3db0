package fixture

import (
	"fmt"

	"github.com/waclang/waccheck/internal/ir"
)

// StatementWire is a tagged union over ir.Statement (spec.md §4.10, §8
// "Script-level surface").
type StatementWire struct {
	Kind string `yaml:"kind"`

	// component
	Region    RegionWire     `yaml:"region,omitempty"`
	Component *ComponentWire `yaml:"component,omitempty"`

	// assert_malformed
	Description  string `yaml:"description,omitempty"`
	ParseError   *string `yaml:"parse_error,omitempty"`
	ExpectPrefix string `yaml:"expect_prefix,omitempty"`
}

func (s StatementWire) ToIR() (ir.Statement, error) {
	reg := s.Region.ToIR()
	switch s.Kind {
	case "component":
		if s.Component == nil {
			return nil, fmt.Errorf("fixture: component statement missing component")
		}
		comp, err := s.Component.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.ComponentStmt{Reg: reg, Component: comp}, nil
	case "assert_malformed":
		return ir.AssertMalformedStmt{
			Reg:          reg,
			Description:  s.Description,
			ParseError:   s.ParseError,
			ExpectPrefix: s.ExpectPrefix,
		}, nil
	case "assert_invalid":
		if s.Component == nil {
			return nil, fmt.Errorf("fixture: assert_invalid statement missing component")
		}
		comp, err := s.Component.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.AssertInvalidStmt{Reg: reg, Component: comp, ExpectPrefix: s.ExpectPrefix}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown statement kind %q", s.Kind)
	}
}

// ScriptWire mirrors ir.Script.
type ScriptWire struct {
	Statements []StatementWire `yaml:"statements"`
}

func (s ScriptWire) ToIR() (*ir.Script, error) {
	out := make([]ir.Statement, len(s.Statements))
	for i, st := range s.Statements {
		v, err := st.ToIR()
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		out[i] = v
	}
	return &ir.Script{Statements: out}, nil
}
