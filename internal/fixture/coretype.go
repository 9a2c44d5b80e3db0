package fixture

import (
	"fmt"

	"github.com/waclang/waccheck/internal/ir"
)

var coreValTypes = map[string]ir.CoreValType{
	"i32": ir.CoreI32, "i64": ir.CoreI64, "f32": ir.CoreF32, "f64": ir.CoreF64,
}

func coreValTypesFromWire(names []string) ([]ir.CoreValType, error) {
	out := make([]ir.CoreValType, len(names))
	for i, n := range names {
		v, ok := coreValTypes[n]
		if !ok {
			return nil, fmt.Errorf("fixture: unknown core val type %q", n)
		}
		out[i] = v
	}
	return out, nil
}

type CoreFuncTypeWire struct {
	Params  []string `yaml:"params,omitempty"`
	Results []string `yaml:"results,omitempty"`
}

func (f CoreFuncTypeWire) ToIR() (ir.CoreFuncTypeExpr, error) {
	params, err := coreValTypesFromWire(f.Params)
	if err != nil {
		return ir.CoreFuncTypeExpr{}, err
	}
	results, err := coreValTypesFromWire(f.Results)
	if err != nil {
		return ir.CoreFuncTypeExpr{}, err
	}
	return ir.CoreFuncTypeExpr{Params: params, Results: results}, nil
}

// CoreExternDescWire mirrors ir.CoreExternDescExpr: table/memory/global
// limits are carried as an opaque string, never interpreted (spec.md §4.4
// treats them as a trusted core-Wasm oracle's business).
type CoreExternDescWire struct {
	Kind     string              `yaml:"kind"`
	Func     *CoreFuncTypeWire   `yaml:"func,omitempty"`
	Opaque   string              `yaml:"opaque,omitempty"`
	Module   *CoreModuleTypeWire `yaml:"module,omitempty"`
	Instance *CoreInstanceTypeWire `yaml:"instance,omitempty"`
}

func (d CoreExternDescWire) ToIR() (ir.CoreExternDescExpr, error) {
	kind, err := coreSortFromWire(d.Kind)
	if err != nil {
		return ir.CoreExternDescExpr{}, err
	}
	out := ir.CoreExternDescExpr{Kind: kind, Opaque: d.Opaque}
	switch kind {
	case ir.CoreSortFunc:
		if d.Func == nil {
			return ir.CoreExternDescExpr{}, fmt.Errorf("fixture: core extern desc kind func missing func")
		}
		ft, err := d.Func.ToIR()
		if err != nil {
			return ir.CoreExternDescExpr{}, err
		}
		out.Func = &ft
	case ir.CoreSortModule:
		if d.Module == nil {
			return ir.CoreExternDescExpr{}, fmt.Errorf("fixture: core extern desc kind module missing module")
		}
		mt, err := d.Module.ToIR()
		if err != nil {
			return ir.CoreExternDescExpr{}, err
		}
		out.Module = &mt
	case ir.CoreSortInstance:
		if d.Instance == nil {
			return ir.CoreExternDescExpr{}, fmt.Errorf("fixture: core extern desc kind instance missing instance")
		}
		it, err := d.Instance.ToIR()
		if err != nil {
			return ir.CoreExternDescExpr{}, err
		}
		out.Instance = &it
	}
	return out, nil
}

type CoreImportDeclWire struct {
	Module string             `yaml:"module"`
	Name   string             `yaml:"name"`
	Desc   CoreExternDescWire `yaml:"desc"`
}

func (d CoreImportDeclWire) ToIR() (ir.CoreImportDeclExpr, error) {
	desc, err := d.Desc.ToIR()
	if err != nil {
		return ir.CoreImportDeclExpr{}, err
	}
	return ir.CoreImportDeclExpr{Module: d.Module, Name: d.Name, Desc: desc}, nil
}

type CoreExportDeclWire struct {
	Name string             `yaml:"name"`
	Desc CoreExternDescWire `yaml:"desc"`
}

func (d CoreExportDeclWire) ToIR() (ir.CoreExportDeclExpr, error) {
	desc, err := d.Desc.ToIR()
	if err != nil {
		return ir.CoreExportDeclExpr{}, err
	}
	return ir.CoreExportDeclExpr{Name: d.Name, Desc: desc}, nil
}

type CoreModuleTypeWire struct {
	Imports  []CoreImportDeclWire `yaml:"imports,omitempty"`
	Instance CoreInstanceTypeWire `yaml:"instance"`
}

func (m CoreModuleTypeWire) ToIR() (ir.CoreModuleTypeExpr, error) {
	imports := make([]ir.CoreImportDeclExpr, len(m.Imports))
	for i, imp := range m.Imports {
		v, err := imp.ToIR()
		if err != nil {
			return ir.CoreModuleTypeExpr{}, err
		}
		imports[i] = v
	}
	inst, err := m.Instance.ToIR()
	if err != nil {
		return ir.CoreModuleTypeExpr{}, err
	}
	return ir.CoreModuleTypeExpr{Imports: imports, Instance: inst}, nil
}

type CoreInstanceTypeWire struct {
	Exports []CoreExportDeclWire `yaml:"exports,omitempty"`
}

func (i CoreInstanceTypeWire) ToIR() (ir.CoreInstanceTypeExpr, error) {
	exports := make([]ir.CoreExportDeclExpr, len(i.Exports))
	for idx, e := range i.Exports {
		v, err := e.ToIR()
		if err != nil {
			return ir.CoreInstanceTypeExpr{}, err
		}
		exports[idx] = v
	}
	return ir.CoreInstanceTypeExpr{Exports: exports}, nil
}
