package fixture

import (
	"fmt"

	"github.com/waclang/waccheck/internal/ir"
)

type InstantiateArgWire struct {
	Name string   `yaml:"name"`
	Sort SortWire `yaml:"sort"`
	Idx  int      `yaml:"idx"`
}

func (a InstantiateArgWire) ToIR() (ir.InstantiateArg, error) {
	s, err := a.Sort.ToIR()
	if err != nil {
		return ir.InstantiateArg{}, err
	}
	return ir.InstantiateArg{Name: a.Name, Sort: s, Idx: a.Idx}, nil
}

func instantiateArgsToIR(as []InstantiateArgWire) ([]ir.InstantiateArg, error) {
	out := make([]ir.InstantiateArg, len(as))
	for i, a := range as {
		v, err := a.ToIR()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type InlineExportWire struct {
	Name string   `yaml:"name"`
	Sort SortWire `yaml:"sort"`
	Idx  int      `yaml:"idx"`
}

func (e InlineExportWire) ToIR() (ir.InlineExport, error) {
	s, err := e.Sort.ToIR()
	if err != nil {
		return ir.InlineExport{}, err
	}
	return ir.InlineExport{Name: e.Name, Sort: s, Idx: e.Idx}, nil
}

func inlineExportsToIR(es []InlineExportWire) ([]ir.InlineExport, error) {
	out := make([]ir.InlineExport, len(es))
	for i, e := range es {
		v, err := e.ToIR()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type CanonOptsWire struct {
	StringEncoding string `yaml:"string_encoding,omitempty"`
	Memory         *int   `yaml:"memory,omitempty"`
	Realloc        *int   `yaml:"realloc,omitempty"`
	PostReturn     *int   `yaml:"post_return,omitempty"`
}

func (o CanonOptsWire) ToIR() ir.CanonOpts {
	enc := o.StringEncoding
	if enc == "" {
		enc = "utf8"
	}
	return ir.CanonOpts{
		StringEncoding: enc,
		Memory:         o.Memory,
		Realloc:        o.Realloc,
		PostReturn:     o.PostReturn,
	}
}

type SortedIdxWire struct {
	Sort SortWire `yaml:"sort"`
	Idx  int      `yaml:"idx"`
}

func (s SortedIdxWire) ToIR() (ir.SortedIdx, error) {
	sort, err := s.Sort.ToIR()
	if err != nil {
		return ir.SortedIdx{}, err
	}
	return ir.SortedIdx{Sort: sort, Idx: s.Idx}, nil
}

// DefWire is a tagged union over every ir.Def variant (spec.md §4). Only
// the fields relevant to Kind are populated by a given fixture; the rest
// read as Go zero values and are ignored by ToIR.
type DefWire struct {
	Kind   string     `yaml:"kind"`
	Region RegionWire `yaml:"region,omitempty"`

	// core_module
	ModuleType *CoreModuleTypeWire `yaml:"module_type,omitempty"`

	// core_instantiate_module, instantiate_component
	ModuleIdx    *int                 `yaml:"module_idx,omitempty"`
	ComponentIdx *int                 `yaml:"component_idx,omitempty"`
	Args         []InstantiateArgWire `yaml:"args,omitempty"`

	// core_instantiate_inline, instantiate_inline
	Exports []InlineExportWire `yaml:"exports,omitempty"`

	// core_type
	CoreDesc *CoreExternDescWire `yaml:"core_desc,omitempty"`

	// component
	Body *ComponentWire `yaml:"body,omitempty"`

	// alias_export, alias_core_export
	InstanceIdx *int     `yaml:"instance_idx,omitempty"`
	ExportName  string   `yaml:"export_name,omitempty"`
	Sort        *SortWire `yaml:"sort,omitempty"`
	CoreSort    string   `yaml:"core_sort,omitempty"`

	// alias_outer
	Depth int `yaml:"depth,omitempty"`
	Idx   int `yaml:"idx,omitempty"`

	// type
	TypeDesc   *ExternDescWire `yaml:"type_desc,omitempty"`
	IsResource bool            `yaml:"is_resource,omitempty"`
	Dtor       *int            `yaml:"dtor,omitempty"`

	// canon_lift, canon_lower
	CoreFuncIdx *int          `yaml:"core_func_idx,omitempty"`
	FuncIdx     *int          `yaml:"func_idx,omitempty"`
	FuncType    *FuncTypeWire `yaml:"func_type,omitempty"`
	Opts        CanonOptsWire `yaml:"opts,omitempty"`

	// resource_new, resource_rep
	ResourceIdx *int `yaml:"resource_idx,omitempty"`
	// resource_drop
	HandleTypeIdx *int `yaml:"handle_type_idx,omitempty"`

	// start
	StartFuncIdx *int  `yaml:"start_func_idx,omitempty"`
	ValueArgs    []int `yaml:"value_args,omitempty"`
	ResultCount  int   `yaml:"result_count,omitempty"`

	// import
	Name *ExternNameWire `yaml:"name,omitempty"`
	Desc *ExternDescWire `yaml:"desc,omitempty"`

	// export
	Ref        *SortedIdxWire  `yaml:"ref,omitempty"`
	Ascription *ExternDescWire `yaml:"ascription,omitempty"`
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func (d DefWire) ToIR() (ir.Def, error) {
	reg := d.Region.ToIR()
	n := ir.Node{Reg: reg}
	switch d.Kind {
	case "core_module":
		if d.ModuleType == nil {
			return nil, fmt.Errorf("fixture: core_module def missing module_type")
		}
		mt, err := d.ModuleType.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.CoreModuleDef{Node: n, ModuleType: mt}, nil

	case "core_instantiate_module":
		args, err := instantiateArgsToIR(d.Args)
		if err != nil {
			return nil, err
		}
		return ir.CoreInstantiateModuleDef{Node: n, ModuleIdx: intOr(d.ModuleIdx, 0), Args: args}, nil

	case "core_instantiate_inline":
		exps, err := inlineExportsToIR(d.Exports)
		if err != nil {
			return nil, err
		}
		return ir.CoreInstantiateInlineDef{Node: n, Exports: exps}, nil

	case "core_type":
		if d.CoreDesc == nil {
			return nil, fmt.Errorf("fixture: core_type def missing core_desc")
		}
		desc, err := d.CoreDesc.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.CoreTypeDef{Node: n, Desc: desc}, nil

	case "component":
		if d.Body == nil {
			return nil, fmt.Errorf("fixture: component def missing body")
		}
		body, err := d.Body.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.ComponentDef{Node: n, Body: body}, nil

	case "instantiate_component":
		args, err := instantiateArgsToIR(d.Args)
		if err != nil {
			return nil, err
		}
		return ir.InstantiateComponentDef{Node: n, ComponentIdx: intOr(d.ComponentIdx, 0), Args: args}, nil

	case "instantiate_inline":
		exps, err := inlineExportsToIR(d.Exports)
		if err != nil {
			return nil, err
		}
		return ir.InstantiateInlineDef{Node: n, Exports: exps}, nil

	case "alias_export":
		if d.Sort == nil {
			return nil, fmt.Errorf("fixture: alias_export def missing sort")
		}
		s, err := d.Sort.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.AliasExportDef{Node: n, InstanceIdx: intOr(d.InstanceIdx, 0), ExportName: d.ExportName, Sort: s}, nil

	case "alias_core_export":
		cs, err := coreSortFromWire(d.CoreSort)
		if err != nil {
			return nil, err
		}
		return ir.AliasCoreExportDef{Node: n, InstanceIdx: intOr(d.InstanceIdx, 0), ExportName: d.ExportName, Sort: cs}, nil

	case "alias_outer":
		if d.Sort == nil {
			return nil, fmt.Errorf("fixture: alias_outer def missing sort")
		}
		s, err := d.Sort.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.AliasOuterDef{Node: n, Depth: d.Depth, Idx: d.Idx, Sort: s}, nil

	case "type":
		if d.TypeDesc == nil {
			return nil, fmt.Errorf("fixture: type def missing type_desc")
		}
		desc, err := d.TypeDesc.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.TypeDef{Node: n, Desc: desc, IsResource: d.IsResource, Dtor: d.Dtor}, nil

	case "canon_lift":
		if d.FuncType == nil {
			return nil, fmt.Errorf("fixture: canon_lift def missing func_type")
		}
		ft, err := d.FuncType.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.CanonLiftDef{Node: n, CoreFuncIdx: intOr(d.CoreFuncIdx, 0), FuncType: ft, Opts: d.Opts.ToIR()}, nil

	case "canon_lower":
		return ir.CanonLowerDef{Node: n, FuncIdx: intOr(d.FuncIdx, 0), Opts: d.Opts.ToIR()}, nil

	case "resource_new":
		return ir.ResourceNewDef{Node: n, ResourceIdx: intOr(d.ResourceIdx, 0)}, nil

	case "resource_drop":
		return ir.ResourceDropDef{Node: n, HandleTypeIdx: intOr(d.HandleTypeIdx, 0)}, nil

	case "resource_rep":
		return ir.ResourceRepDef{Node: n, ResourceIdx: intOr(d.ResourceIdx, 0)}, nil

	case "start":
		return ir.StartDef{Node: n, FuncIdx: intOr(d.StartFuncIdx, 0), ValueArgs: d.ValueArgs, ResultCount: d.ResultCount}, nil

	case "import":
		if d.Name == nil || d.Desc == nil {
			return nil, fmt.Errorf("fixture: import def missing name/desc")
		}
		name, err := d.Name.ToIR()
		if err != nil {
			return nil, err
		}
		desc, err := d.Desc.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.ImportDef{Node: n, Name: name, Desc: desc}, nil

	case "export":
		if d.Name == nil || d.Ref == nil {
			return nil, fmt.Errorf("fixture: export def missing name/ref")
		}
		name, err := d.Name.ToIR()
		if err != nil {
			return nil, err
		}
		ref, err := d.Ref.ToIR()
		if err != nil {
			return nil, err
		}
		out := ir.ExportDef{Node: n, Name: name, Ref: ref}
		if d.Ascription != nil {
			asc, err := d.Ascription.ToIR()
			if err != nil {
				return nil, err
			}
			out.Ascription = &asc
		}
		return out, nil

	default:
		return nil, fmt.Errorf("fixture: unknown def kind %q", d.Kind)
	}
}

// ComponentWire mirrors ir.Component.
type ComponentWire struct {
	Region RegionWire `yaml:"region,omitempty"`
	Defs   []DefWire  `yaml:"defs,omitempty"`
}

func (c ComponentWire) ToIR() (*ir.Component, error) {
	defs := make([]ir.Def, len(c.Defs))
	for i, d := range c.Defs {
		v, err := d.ToIR()
		if err != nil {
			return nil, fmt.Errorf("def %d: %w", i, err)
		}
		defs[i] = v
	}
	return &ir.Component{Reg: c.Region.ToIR(), Defs: defs}, nil
}
