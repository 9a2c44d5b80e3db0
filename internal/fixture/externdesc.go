package fixture

import (
	"fmt"

	"github.com/waclang/waccheck/internal/ir"
)

// ExternDescWire mirrors ir.ExternDescExpr: the "what it is" half of an
// import/export/instantiate-arg declaration (spec.md §3).
type ExternDescWire struct {
	Kind      string              `yaml:"kind"`
	CoreModule *CoreModuleTypeWire `yaml:"core_module,omitempty"`
	Func      *FuncTypeWire       `yaml:"func,omitempty"`
	Value     *TypeExprWire       `yaml:"value,omitempty"`
	TypeBound *TypeBoundWire      `yaml:"type_bound,omitempty"`
	Instance  *InstanceTypeWire   `yaml:"instance,omitempty"`
	Component *ComponentTypeWire  `yaml:"component,omitempty"`
}

func (d ExternDescWire) ToIR() (ir.ExternDescExpr, error) {
	switch d.Kind {
	case "core_module":
		if d.CoreModule == nil {
			return ir.ExternDescExpr{}, fmt.Errorf("fixture: extern desc kind core_module missing core_module")
		}
		mt, err := d.CoreModule.ToIR()
		if err != nil {
			return ir.ExternDescExpr{}, err
		}
		return ir.ExternDescExpr{Kind: ir.DescCoreModule, CoreModule: &mt}, nil
	case "func":
		if d.Func == nil {
			return ir.ExternDescExpr{}, fmt.Errorf("fixture: extern desc kind func missing func")
		}
		ft, err := d.Func.ToIR()
		if err != nil {
			return ir.ExternDescExpr{}, err
		}
		return ir.ExternDescExpr{Kind: ir.DescFunc, Func: &ft}, nil
	case "value":
		v, err := d.Value.ToIR()
		if err != nil {
			return ir.ExternDescExpr{}, err
		}
		return ir.ExternDescExpr{Kind: ir.DescValue, Value: v}, nil
	case "type":
		if d.TypeBound == nil {
			return ir.ExternDescExpr{}, fmt.Errorf("fixture: extern desc kind type missing type_bound")
		}
		b, err := d.TypeBound.ToIR()
		if err != nil {
			return ir.ExternDescExpr{}, err
		}
		return ir.ExternDescExpr{Kind: ir.DescType, TypeBound: b}, nil
	case "instance":
		if d.Instance == nil {
			return ir.ExternDescExpr{}, fmt.Errorf("fixture: extern desc kind instance missing instance")
		}
		it, err := d.Instance.ToIR()
		if err != nil {
			return ir.ExternDescExpr{}, err
		}
		return ir.ExternDescExpr{Kind: ir.DescInstance, Instance: &it}, nil
	case "component":
		if d.Component == nil {
			return ir.ExternDescExpr{}, fmt.Errorf("fixture: extern desc kind component missing component")
		}
		ct, err := d.Component.ToIR()
		if err != nil {
			return ir.ExternDescExpr{}, err
		}
		return ir.ExternDescExpr{Kind: ir.DescComponent, Component: &ct}, nil
	default:
		return ir.ExternDescExpr{}, fmt.Errorf("fixture: unknown extern desc kind %q", d.Kind)
	}
}

// TypeLevelDeclWire mirrors ir.TypeLevelDecl (spec.md §4.3): one entry in
// a component-type or instance-type body.
type TypeLevelDeclWire struct {
	Kind   string          `yaml:"kind"`
	Region RegionWire      `yaml:"region,omitempty"`
	Name   *ExternNameWire `yaml:"name,omitempty"`
	Desc   *ExternDescWire `yaml:"desc,omitempty"`
	Bound  *TypeBoundWire  `yaml:"bound,omitempty"`
	Depth  int             `yaml:"depth,omitempty"`
	Idx    int             `yaml:"idx,omitempty"`
	Sort   *SortWire       `yaml:"sort,omitempty"`
}

func (d TypeLevelDeclWire) ToIR() (ir.TypeLevelDecl, error) {
	reg := d.Region.ToIR()
	switch d.Kind {
	case "import":
		name, err := d.Name.ToIR()
		if err != nil {
			return nil, err
		}
		desc, err := d.Desc.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.ImportDecl{Node: ir.Node{Reg: reg}, Name: name, Desc: desc}, nil
	case "export":
		name, err := d.Name.ToIR()
		if err != nil {
			return nil, err
		}
		desc, err := d.Desc.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.ExportDecl{Node: ir.Node{Reg: reg}, Name: name, Desc: desc}, nil
	case "local_type":
		if d.Bound == nil {
			return nil, fmt.Errorf("fixture: local_type decl missing bound")
		}
		b, err := d.Bound.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.LocalTypeDecl{Node: ir.Node{Reg: reg}, Bound: b}, nil
	case "outer_alias":
		if d.Sort == nil {
			return nil, fmt.Errorf("fixture: outer_alias decl missing sort")
		}
		s, err := d.Sort.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.OuterAliasDecl{Node: ir.Node{Reg: reg}, Depth: d.Depth, Idx: d.Idx, Sort: s}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown type-level decl kind %q", d.Kind)
	}
}

func typeLevelDeclsToIR(ds []TypeLevelDeclWire) ([]ir.TypeLevelDecl, error) {
	out := make([]ir.TypeLevelDecl, len(ds))
	for i, d := range ds {
		v, err := d.ToIR()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type ComponentTypeWire struct {
	Region RegionWire          `yaml:"region,omitempty"`
	Decls  []TypeLevelDeclWire `yaml:"decls,omitempty"`
}

func (c ComponentTypeWire) ToIR() (ir.ComponentTypeExpr, error) {
	decls, err := typeLevelDeclsToIR(c.Decls)
	if err != nil {
		return ir.ComponentTypeExpr{}, err
	}
	return ir.ComponentTypeExpr{Reg: c.Region.ToIR(), Decls: decls}, nil
}

type InstanceTypeWire struct {
	Region RegionWire          `yaml:"region,omitempty"`
	Decls  []TypeLevelDeclWire `yaml:"decls,omitempty"`
}

func (c InstanceTypeWire) ToIR() (ir.InstanceTypeExpr, error) {
	decls, err := typeLevelDeclsToIR(c.Decls)
	if err != nil {
		return ir.InstanceTypeExpr{}, err
	}
	return ir.InstanceTypeExpr{Reg: c.Region.ToIR(), Decls: decls}, nil
}
