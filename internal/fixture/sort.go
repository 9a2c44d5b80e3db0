package fixture

import (
	"fmt"

	"github.com/waclang/waccheck/internal/ir"
)

var coreSortKinds = map[string]ir.CoreSort{
	"func": ir.CoreSortFunc, "table": ir.CoreSortTable, "memory": ir.CoreSortMemory,
	"global": ir.CoreSortGlobal, "type": ir.CoreSortType, "module": ir.CoreSortModule,
	"instance": ir.CoreSortInstance,
}

func coreSortFromWire(s string) (ir.CoreSort, error) {
	k, ok := coreSortKinds[s]
	if !ok {
		return 0, fmt.Errorf("fixture: unknown core sort %q", s)
	}
	return k, nil
}

// SortWire mirrors ir.Sort: a component-level sort, or "core" plus a
// nested core sort (spec.md §3 "Sorts").
type SortWire struct {
	Kind string `yaml:"kind"`
	Core string `yaml:"core,omitempty"`
}

func (s SortWire) ToIR() (ir.Sort, error) {
	switch s.Kind {
	case "func":
		return ir.Sort{Kind: ir.SortFunc}, nil
	case "value":
		return ir.Sort{Kind: ir.SortValue}, nil
	case "type":
		return ir.Sort{Kind: ir.SortType}, nil
	case "component":
		return ir.Sort{Kind: ir.SortComponent}, nil
	case "instance":
		return ir.Sort{Kind: ir.SortInstance}, nil
	case "core":
		cs, err := coreSortFromWire(s.Core)
		if err != nil {
			return ir.Sort{}, err
		}
		return ir.Sort{Kind: ir.SortCore, Core: cs}, nil
	default:
		return ir.Sort{}, fmt.Errorf("fixture: unknown sort kind %q", s.Kind)
	}
}

// ExternNameWire mirrors ir.ExternName.
type ExternNameWire struct {
	Kind string `yaml:"kind,omitempty"`
	Text string `yaml:"text"`
}

func (n ExternNameWire) ToIR() (ir.ExternName, error) {
	switch n.Kind {
	case "", "plain":
		return ir.ExternName{Kind: ir.NamePlain, Text: n.Text}, nil
	case "interface":
		return ir.ExternName{Kind: ir.NameInterface, Text: n.Text}, nil
	default:
		return ir.ExternName{}, fmt.Errorf("fixture: unknown extern name kind %q", n.Kind)
	}
}
