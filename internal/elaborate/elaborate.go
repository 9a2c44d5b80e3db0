// Package elaborate converts resolved surface type expressions (internal/ir)
// into the internal definition-type algebra (internal/types), per spec.md
// §4.3. It is grounded on the teacher codebase's internal/elaborate
// idiom — an Elaborator struct threading a monotonic fresh-variable
// counter through a recursive descent — generalized from ANF expression
// desugaring to type-header elaboration: opening `sub resource`/`eq`
// binders into a growing local frame as each import/export/local-type
// declaration is walked in order.
package elaborate

import (
	"fmt"

	"github.com/waclang/waccheck/internal/ctx"
	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/ir"
	"github.com/waclang/waccheck/internal/names"
	"github.com/waclang/waccheck/internal/rtid"
	"github.com/waclang/waccheck/internal/types"
)

// Elaborator holds the resource-identity minter shared across an entire
// top-level component check, so nested `(resource (rep i32))` declarations
// still mint globally distinct identities (spec.md P5).
type Elaborator struct {
	RMinter *rtid.Minter
}

func New(m *rtid.Minter) *Elaborator { return &Elaborator{RMinter: m} }

// frame accumulates one component/instance type header's bound variables
// as its declaration list is walked in source order (spec.md §4.3): each
// type-kind decl appends to both Bounds (the header being built) and
// Locals (what a later LocalRef addresses).
type frame struct {
	base   int // absolute index frame.Bounds[0] occupies in the telescope (0 for ct_uvars, len(ct_uvars) for it_evars)
	Bounds []types.Bound
	Locals []types.DT
}

func (f *frame) declareBound(b types.Bound) types.DT {
	f.Bounds = append(f.Bounds, b)
	dv := types.DVar{Var: types.TypeVar{Kind: types.VarBound, Bound: f.base + len(f.Bounds) - 1}}
	f.Locals = append(f.Locals, dv)
	return dv
}

func (f *frame) declareAlias(dt types.DT) { f.Locals = append(f.Locals, dt) }

// ElaborateComponentType elaborates a surface component type (spec.md
// §4.3): opens each import's `sub resource`/`eq` binding as a fresh bound
// variable in ct_uvars, then computes the result instance type, whose
// own `sub resource` exports extend the same telescope as fresh it_evars.
func (e *Elaborator) ElaborateComponentType(cte *ir.ComponentTypeExpr, outer *ctx.Context) (*types.ComponentType, *errors.Report) {
	imp := &frame{base: 0}
	var imports []types.ExternDecl
	var exports []types.ExternDecl
	exp := (*frame)(nil)

	for _, decl := range cte.Decls {
		switch d := decl.(type) {
		case ir.ImportDecl:
			if exp != nil {
				return nil, errors.New(errors.WF001, errors.CategoryInvalid, decl.Region(),
					"import declared after an export in the same component type")
			}
			desc, rep := e.elaborateExternDesc(d.Desc, imp, outer)
			if rep != nil {
				return nil, rep
			}
			if d.Desc.Kind == ir.DescType {
				imp.declareBound(desc.TypeBound)
			}
			imports = append(imports, types.ExternDecl{Name: elaborateName(d.Name), Desc: desc})
		case ir.ExportDecl:
			if exp == nil {
				exp = &frame{base: len(imp.Bounds), Locals: append([]types.DT{}, imp.Locals...)}
			}
			desc, rep := e.elaborateExternDesc(d.Desc, exp, outer)
			if rep != nil {
				return nil, rep
			}
			if d.Desc.Kind == ir.DescType {
				exp.declareBound(desc.TypeBound)
			}
			exports = append(exports, types.ExternDecl{Name: elaborateName(d.Name), Desc: desc})
		case ir.LocalTypeDecl:
			active := imp
			if exp != nil {
				active = exp
			}
			b, rep := e.elaborateBound(d.Bound, active, outer)
			if rep != nil {
				return nil, rep
			}
			active.declareBound(b)
		case ir.OuterAliasDecl:
			active := imp
			if exp != nil {
				active = exp
			}
			dt, rep := resolveOuterType(outer, d.Depth, d.Idx, decl.Region())
			if rep != nil {
				return nil, rep
			}
			active.declareAlias(dt)
		default:
			return nil, errors.New(errors.WF001, errors.CategoryInvalid, decl.Region(), "unrecognized type-level declaration")
		}
	}
	if exp == nil {
		exp = &frame{base: len(imp.Bounds)}
	}
	return &types.ComponentType{
		Uvars:   imp.Bounds,
		Imports: imports,
		Instance: types.InstanceType{
			Evars:   exp.Bounds,
			Exports: exports,
		},
	}, nil
}

// ElaborateInstanceType elaborates a surface instance type: like a
// component type's export phase alone, with no imports (spec.md §4.3
// "Instance-type elaboration is analogous but lacks uvars").
func (e *Elaborator) ElaborateInstanceType(ite *ir.InstanceTypeExpr, outer *ctx.Context) (*types.InstanceType, *errors.Report) {
	f := &frame{base: 0}
	var exports []types.ExternDecl
	for _, decl := range ite.Decls {
		switch d := decl.(type) {
		case ir.ExportDecl:
			desc, rep := e.elaborateExternDesc(d.Desc, f, outer)
			if rep != nil {
				return nil, rep
			}
			if d.Desc.Kind == ir.DescType {
				f.declareBound(desc.TypeBound)
			}
			exports = append(exports, types.ExternDecl{Name: elaborateName(d.Name), Desc: desc})
		case ir.LocalTypeDecl:
			b, rep := e.elaborateBound(d.Bound, f, outer)
			if rep != nil {
				return nil, rep
			}
			f.declareBound(b)
		case ir.OuterAliasDecl:
			dt, rep := resolveOuterType(outer, d.Depth, d.Idx, decl.Region())
			if rep != nil {
				return nil, rep
			}
			f.declareAlias(dt)
		default:
			return nil, errors.New(errors.WF001, errors.CategoryInvalid, decl.Region(), "import not permitted in an instance type")
		}
	}
	return &types.InstanceType{Evars: f.Bounds, Exports: exports}, nil
}

func (e *Elaborator) elaborateBound(b ir.TypeBound, f *frame, outer *ctx.Context) (types.Bound, *errors.Report) {
	switch tb := b.(type) {
	case ir.BoundSubResource:
		return types.BoundSubResource{}, nil
	case ir.BoundEq:
		dt, rep := e.elaborateTypeExpr(tb.Type, f.Locals, outer)
		if rep != nil {
			return nil, rep
		}
		return types.BoundEq{Type: dt}, nil
	default:
		return nil, errors.New(errors.WF001, errors.CategoryInvalid, ir.Region{}, "unrecognized type bound")
	}
}

func (e *Elaborator) elaborateExternDesc(d ir.ExternDescExpr, f *frame, outer *ctx.Context) (types.ExternDesc, *errors.Report) {
	switch d.Kind {
	case ir.DescCoreModule:
		return types.ExternDesc{Kind: types.DescCoreModule, CoreModule: d.CoreModule}, nil
	case ir.DescFunc:
		fn, rep := e.elaborateFuncType(d.Func, f.Locals, outer)
		if rep != nil {
			return types.ExternDesc{}, rep
		}
		return types.ExternDesc{Kind: types.DescFunc, Func: fn}, nil
	case ir.DescValue:
		v, rep := e.elaborateTypeExpr(d.Value, f.Locals, outer)
		if rep != nil {
			return types.ExternDesc{}, rep
		}
		return types.ExternDesc{Kind: types.DescValue, Value: v}, nil
	case ir.DescType:
		b, rep := e.elaborateBound(d.TypeBound, f, outer)
		if rep != nil {
			return types.ExternDesc{}, rep
		}
		return types.ExternDesc{Kind: types.DescType, TypeBound: b}, nil
	case ir.DescInstance:
		it, rep := e.ElaborateInstanceType(d.Instance, outer)
		if rep != nil {
			return types.ExternDesc{}, rep
		}
		return types.ExternDesc{Kind: types.DescInstance, Instance: it}, nil
	case ir.DescComponent:
		ct, rep := e.ElaborateComponentType(d.Component, outer)
		if rep != nil {
			return types.ExternDesc{}, rep
		}
		return types.ExternDesc{Kind: types.DescComponent, Component: ct}, nil
	default:
		return types.ExternDesc{}, errors.New(errors.WF001, errors.CategoryInvalid, ir.Region{}, "unrecognized extern descriptor")
	}
}

func (e *Elaborator) elaborateFuncType(f *ir.FuncTypeExpr, locals []types.DT, outer *ctx.Context) (*types.DFunc, *errors.Report) {
	params, rep := e.elaborateParamList(f.Params, locals, outer)
	if rep != nil {
		return nil, rep
	}
	result, rep := e.elaborateParamList(f.Result, locals, outer)
	if rep != nil {
		return nil, rep
	}
	return &types.DFunc{Params: params, Result: result}, nil
}

func (e *Elaborator) elaborateParamList(p ir.ParamList, locals []types.DT, outer *ctx.Context) (types.ParamList, *errors.Report) {
	if p.Unnamed != nil {
		dt, rep := e.elaborateTypeExpr(p.Unnamed, locals, outer)
		if rep != nil {
			return types.ParamList{}, rep
		}
		return types.ParamList{Unnamed: dt}, nil
	}
	out := make([]types.Field, len(p.Named))
	for i, nt := range p.Named {
		dt, rep := e.elaborateTypeExpr(nt.Type, locals, outer)
		if rep != nil {
			return types.ParamList{}, rep
		}
		out[i] = types.Field{Name: nt.Name, Type: dt}
	}
	return types.ParamList{Named: out}, nil
}

// elaborateTypeExpr converts a resolved surface type expression into the
// internal algebra. locals resolves LocalRef; OuterRef walks outer's
// parent chain (spec.md §4.8).
func (e *Elaborator) elaborateTypeExpr(te ir.TypeExpr, locals []types.DT, outer *ctx.Context) (types.DT, *errors.Report) {
	switch t := te.(type) {
	case ir.TPrim:
		return types.VPrim{Kind: types.PrimKind(t.Kind)}, nil
	case ir.TRecord:
		fields := make([]types.Field, len(t.Fields))
		for i, nt := range t.Fields {
			dt, rep := e.elaborateTypeExpr(nt.Type, locals, outer)
			if rep != nil {
				return nil, rep
			}
			fields[i] = types.Field{Name: nt.Name, Type: dt}
		}
		return types.VRecord{Fields: fields}, nil
	case ir.TVariant:
		cases := make([]types.Case, len(t.Cases))
		for i, c := range t.Cases {
			var payload types.DT
			if c.Payload != nil {
				dt, rep := e.elaborateTypeExpr(c.Payload, locals, outer)
				if rep != nil {
					return nil, rep
				}
				payload = dt
			}
			cases[i] = types.Case{Name: c.Name, Payload: payload, Refines: c.Refines}
		}
		return types.VVariant{Cases: cases}, nil
	case ir.TList:
		elem, rep := e.elaborateTypeExpr(t.Elem, locals, outer)
		if rep != nil {
			return nil, rep
		}
		return types.VList{Elem: elem}, nil
	case ir.TTuple:
		elems := make([]types.DT, len(t.Elems))
		for i, te := range t.Elems {
			dt, rep := e.elaborateTypeExpr(te, locals, outer)
			if rep != nil {
				return nil, rep
			}
			elems[i] = dt
		}
		return types.VTuple{Elems: elems}, nil
	case ir.TFlags:
		return types.VFlags{Names: t.Names}, nil
	case ir.TEnum:
		return types.VEnum{Tags: t.Tags}, nil
	case ir.TUnion:
		arms := make([]types.DT, len(t.Arms))
		for i, a := range t.Arms {
			dt, rep := e.elaborateTypeExpr(a, locals, outer)
			if rep != nil {
				return nil, rep
			}
			arms[i] = dt
		}
		return types.VUnion{Arms: arms}, nil
	case ir.TOption:
		elem, rep := e.elaborateTypeExpr(t.Elem, locals, outer)
		if rep != nil {
			return nil, rep
		}
		return types.VOption{Elem: elem}, nil
	case ir.TExpected:
		var ok, errT types.DT
		if t.Ok != nil {
			dt, rep := e.elaborateTypeExpr(t.Ok, locals, outer)
			if rep != nil {
				return nil, rep
			}
			ok = dt
		}
		if t.Err != nil {
			dt, rep := e.elaborateTypeExpr(t.Err, locals, outer)
			if rep != nil {
				return nil, rep
			}
			errT = dt
		}
		return types.VExpected{Ok: ok, Err: errT}, nil
	case ir.TOwn:
		r, rep := e.elaborateTypeExpr(t.Resource, locals, outer)
		if rep != nil {
			return nil, rep
		}
		return types.VOwn{Resource: r}, nil
	case ir.TBorrow:
		r, rep := e.elaborateTypeExpr(t.Resource, locals, outer)
		if rep != nil {
			return nil, rep
		}
		return types.VBorrow{Resource: r}, nil
	case ir.LocalRef:
		if t.Idx < 0 || t.Idx >= len(locals) {
			return nil, errors.New(errors.WF001, errors.CategoryInvalid, t.Region(),
				fmt.Sprintf("local type reference %d out of range", t.Idx))
		}
		return locals[t.Idx], nil
	case ir.OuterRef:
		return resolveOuterType(outer, t.Depth, t.Idx, t.Region())
	default:
		return nil, errors.New(errors.WF001, errors.CategoryInvalid, te.Region(), "unrecognized type expression")
	}
}

// resolveOuterType implements `alias outer` for type references (spec.md
// §4.8): it must resolve to a concrete local type definition, never to a
// type variable itself (CX001, S2).
func resolveOuterType(outer *ctx.Context, depth, idx int, region ir.Region) (types.DT, *errors.Report) {
	anc := outer.OuterAncestor(depth)
	if anc == nil {
		return nil, errors.New(errors.CX001, errors.CategoryInvalid, region,
			"outer alias depth exceeds the enclosing component nesting")
	}
	if idx < 0 || idx >= len(anc.Types) {
		return nil, errors.New(errors.CX001, errors.CategoryInvalid, region,
			"Outer alias may not refer to type variable")
	}
	slot := anc.Types[idx]
	if _, isVar := slot.Bound.(types.BoundSubResource); isVar {
		// A bare `sub resource` local-type slot with no concrete backing is
		// exactly a type variable's placeholder — aliasing it directly
		// would leak a binder across a header boundary.
		return nil, errors.New(errors.CX001, errors.CategoryInvalid, region,
			"Outer alias may not refer to type variable")
	}
	eq, ok := slot.Bound.(types.BoundEq)
	if !ok {
		return nil, errors.New(errors.CX001, errors.CategoryInvalid, region,
			"Outer alias may not refer to type variable")
	}
	return eq.Type, nil
}

// ElaborateTypeExpr, ElaborateFuncType, ElaborateExternDesc and
// ElaborateBound are the top-level driver's entry points into the same
// recursive conversion a component/instance type header uses internally
// (exported here since internal/driver elaborates one definition at a
// time against its own growing `locals` list, outside of any single
// ComponentTypeExpr/InstanceTypeExpr header).
func (e *Elaborator) ElaborateTypeExpr(te ir.TypeExpr, locals []types.DT, outer *ctx.Context) (types.DT, *errors.Report) {
	return e.elaborateTypeExpr(te, locals, outer)
}

func (e *Elaborator) ElaborateFuncType(f *ir.FuncTypeExpr, locals []types.DT, outer *ctx.Context) (*types.DFunc, *errors.Report) {
	return e.elaborateFuncType(f, locals, outer)
}

func (e *Elaborator) ElaborateExternDesc(d ir.ExternDescExpr, locals []types.DT, outer *ctx.Context) (types.ExternDesc, *errors.Report) {
	return e.elaborateExternDesc(d, &frame{Locals: locals}, outer)
}

func (e *Elaborator) ElaborateBound(b ir.TypeBound, locals []types.DT, outer *ctx.Context) (types.Bound, *errors.Report) {
	return e.elaborateBound(b, &frame{Locals: locals}, outer)
}

func elaborateName(n ir.ExternName) types.ExternName {
	return types.ExternName{Interface: n.Kind == ir.NameInterface, Text: n.Text}
}

// ValidateName checks a surface name against the naming rules (spec.md
// §6) before it is used to build an ExternName; callers that elaborate a
// top-level import/export decl call this ahead of elaborateName.
func ValidateName(raw string) (types.ExternName, *errors.Report) {
	kind, ok := names.Classify(raw)
	if !ok {
		return types.ExternName{}, errors.New(errors.WF004, errors.CategoryInvalid, ir.Region{},
			fmt.Sprintf("name %q is not well-formed", raw))
	}
	return types.ExternName{Interface: kind == names.KindInterface, Text: raw}, nil
}
