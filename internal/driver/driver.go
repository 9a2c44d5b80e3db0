// Package driver implements the top-level per-definition walk (spec.md
// §4.10 "Top-level driver"): folding a component's definitions into a
// growing ctx.Context in source order, dispatching each definition kind
// to the package that owns its semantics (elaborate, instantiate, canon),
// and producing the component's own inferred ComponentType plus, for the
// script-level surface, the assert_invalid/assert_malformed matching
// spec.md §8 describes.
//
// Grounded on the teacher's internal/pipeline driver: a single "process
// definitions in order, threading an accumulating environment, dispatch
// by node kind" loop over a module's top-level forms.
package driver

import (
	"fmt"
	"strings"

	"github.com/waclang/waccheck/internal/canon"
	"github.com/waclang/waccheck/internal/ctx"
	"github.com/waclang/waccheck/internal/elaborate"
	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/instantiate"
	"github.com/waclang/waccheck/internal/ir"
	"github.com/waclang/waccheck/internal/rtid"
	"github.com/waclang/waccheck/internal/types"
)

// Checker processes components; one Checker (and its rtid.Minter) is
// shared by an entire script run so that nested components mint globally
// distinct resource identities (spec.md P5).
type Checker struct {
	Elab *elaborate.Elaborator
}

func NewChecker() *Checker {
	return &Checker{Elab: elaborate.New(rtid.NewMinter())}
}

// localsFromTypes builds the LocalRef-addressable list an ir.TypeExpr
// inside this component's own definitions resolves against: cur.Types
// and cur.Uvars are kept index-aligned (see addImportedTypeUvar below),
// so each index resolves either to a recorded `eq` witness or to a DVar
// referencing the uvar of the same index.
func localsFromTypes(cur *ctx.Context) []types.DT {
	out := make([]types.DT, len(cur.Types))
	for i, slot := range cur.Types {
		if eq, ok := slot.Bound.(types.BoundEq); ok {
			out[i] = eq.Type
			continue
		}
		out[i] = types.DVar{Var: types.TypeVar{Kind: types.VarUvar, Depth: cur.Depth, ID: i}}
	}
	return out
}

// addImportedTypeUvar registers a `type`-kind import: a fresh uvar and a
// type-slot at the same index, so later definitions can address it
// uniformly as "type sort, idx" regardless of whether that slot turns
// out to carry a concrete eq-witness or stays abstract.
func addImportedTypeUvar(cur *ctx.Context, b types.Bound) (*ctx.Context, types.DVar) {
	cur, idx := cur.AddType(b)
	cur, dv := cur.AddUvar(b)
	if dv.Var.ID != idx {
		// AddType/AddUvar are kept index-aligned by construction (both are
		// only ever grown together here); a mismatch means a caller path
		// added to one list without the other.
		panic("type/uvar index misalignment")
	}
	return cur, dv
}

// addLocalResourceType mints a fresh resource identity and registers it
// as a concrete `eq`-bound Types slot, so a later SortedIdx{SortType, idx}
// resolves to its DResourceType value the same way any other locally
// defined type would.
func addLocalResourceType(cur *ctx.Context, minter *rtid.Minter, dtor *int, region ir.Region) (*ctx.Context, types.DResourceType) {
	id := minter.Mint(region)
	rt := types.DResourceType{ID: id, Dtor: dtor}
	cur, _ = cur.AddResourceType(id, dtor)
	cur, _ = cur.AddType(types.BoundEq{Type: rt})
	return cur, rt
}

// CheckComponent walks comp.Defs in source order (spec.md §5), starting
// from outer (nil for a top-level component), and returns the inferred
// ComponentType, or the first Report raised. Once every definition has
// been processed it runs cur.CheckLinearity itself, then checks the
// resulting ComponentType with types.WellFormed in export position.
func (ch *Checker) CheckComponent(comp *ir.Component, outer *ctx.Context) (*types.ComponentType, *errors.Report) {
	cur := ctx.Root()
	if outer != nil {
		cur = outer.Child()
	}

	var imports []types.ExternDecl
	var exports []types.ExternDecl
	var uvarBounds []types.Bound
	importedUvarIDs := map[int]bool{}

	for _, def := range comp.Defs {
		var rep *errors.Report
		switch d := def.(type) {
		case ir.CoreModuleDef:
			cur, _ = cur.AddCoreModule(&d.ModuleType)

		case ir.CoreInstantiateModuleDef:
			if d.ModuleIdx < 0 || d.ModuleIdx >= len(cur.Core.Modules) {
				rep = errors.New(errors.IN004, errors.CategoryInvalid, d.Region(), "core module index out of range")
				break
			}
			mt := cur.Core.Modules[d.ModuleIdx]
			cur, _ = cur.AddCoreInstance(&mt.Instance)

		case ir.CoreInstantiateInlineDef:
			inst := types.CoreInstanceType{}
			for _, exp := range d.Exports {
				if exp.Sort.Kind != ir.SortCore {
					rep = errors.New(errors.IN004, errors.CategoryInvalid, d.Region(),
						"core inline-export target must be a core sort")
					break
				}
				desc, r := coreSortedDesc(cur, exp.Sort.Core, exp.Idx, d.Region())
				if r != nil {
					rep = r
					break
				}
				inst.Exports = append(inst.Exports, types.CoreExportDecl{Name: exp.Name, Desc: desc})
			}
			if rep == nil {
				cur, _ = cur.AddCoreInstance(&inst)
			}

		case ir.CoreTypeDef:
			cur, _ = cur.AddCoreType(d.Desc)

		case ir.ComponentDef:
			nested, r := ch.CheckComponent(d.Body, cur)
			if r != nil {
				rep = r
				break
			}
			cur, _ = cur.AddComponent(nested)

		case ir.InstantiateComponentDef:
			if d.ComponentIdx < 0 || d.ComponentIdx >= len(cur.Components) {
				rep = errors.New(errors.IN004, errors.CategoryInvalid, d.Region(), "component index out of range")
				break
			}
			callee := cur.Components[d.ComponentIdx]
			args := make([]instantiate.Arg, len(d.Args))
			for i, a := range d.Args {
				args[i] = toInstantiateArg(a)
			}
			res, r := instantiate.Instantiate(callee, args, cur, d.Region())
			if r != nil {
				rep = r
				break
			}
			cur, _ = res.Ctx.AddInstance(res.Instance)

		case ir.InstantiateInlineDef:
			inst := &types.InstanceType{}
			next := cur
			for _, exp := range d.Exports {
				desc, r := sortedExternDesc(next, exp.Sort, exp.Idx, d.Region())
				if r != nil {
					rep = r
					break
				}
				inst.Exports = append(inst.Exports, types.ExternDecl{Name: types.ExternName{Text: exp.Name}, Desc: desc})
				next, r = markConsumed(next, exp.Sort, exp.Idx, d.Region())
				if r != nil {
					rep = r
					break
				}
			}
			if rep == nil {
				cur, _ = next.AddInstance(inst)
			}

		case ir.AliasExportDef:
			if d.InstanceIdx < 0 || d.InstanceIdx >= len(cur.Instances) {
				rep = errors.New(errors.IN004, errors.CategoryInvalid, d.Region(), "alias export instance index out of range")
				break
			}
			slot := cur.Instances[d.InstanceIdx]
			idx := indexOfExport(slot.Type.Exports, d.ExportName)
			if idx < 0 {
				rep = errors.New(errors.IN004, errors.CategoryInvalid, d.Region(),
					fmt.Sprintf("instance has no export named %q", d.ExportName))
				break
			}
			cur, rep = addAliasedDesc(cur, slot.Type.Exports[idx].Desc)

		case ir.AliasCoreExportDef:
			if d.InstanceIdx < 0 || d.InstanceIdx >= len(cur.Core.Instances) {
				rep = errors.New(errors.IN004, errors.CategoryInvalid, d.Region(), "alias core export instance index out of range")
				break
			}
			inst := cur.Core.Instances[d.InstanceIdx]
			idx := -1
			for i, e := range inst.Exports {
				if e.Name == d.ExportName {
					idx = i
					break
				}
			}
			if idx < 0 {
				rep = errors.New(errors.IN004, errors.CategoryInvalid, d.Region(),
					fmt.Sprintf("core instance has no export named %q", d.ExportName))
				break
			}
			cur, rep = addAliasedCoreDesc(cur, inst.Exports[idx].Desc)

		case ir.AliasOuterDef:
			cur, rep = aliasOuter(cur, d)

		case ir.TypeDef:
			if d.IsResource {
				cur, _ = addLocalResourceType(cur, ch.Elab.RMinter, d.Dtor, d.Region())
				break
			}
			locals := localsFromTypes(cur)
			desc, r := ch.Elab.ElaborateExternDesc(d.Desc, locals, outer)
			if r != nil {
				rep = r
				break
			}
			if desc.Kind != types.DescType {
				rep = errors.New(errors.WF001, errors.CategoryInvalid, d.Region(), "type definition must describe a type")
				break
			}
			cur, _ = cur.AddType(desc.TypeBound)

		case ir.CanonLiftDef:
			if d.CoreFuncIdx < 0 || d.CoreFuncIdx >= len(cur.Core.Funcs) {
				rep = errors.New(errors.CA001, errors.CategoryInvalid, d.Region(), "canon lift core func index out of range")
				break
			}
			locals := localsFromTypes(cur)
			fn, r := ch.Elab.ElaborateFuncType(&d.FuncType, locals, outer)
			if r != nil {
				rep = r
				break
			}
			checked, r := canon.LiftFunc(cur.Core.Funcs[d.CoreFuncIdx], fn, d.Opts, d.Region())
			if r != nil {
				rep = r
				break
			}
			cur, _ = cur.AddFunc(checked)

		case ir.CanonLowerDef:
			if d.FuncIdx < 0 || d.FuncIdx >= len(cur.Funcs) {
				rep = errors.New(errors.CA001, errors.CategoryInvalid, d.Region(), "canon lower func index out of range")
				break
			}
			cf, r := canon.LowerFunc(cur.Funcs[d.FuncIdx], d.Opts, d.Region())
			if r != nil {
				rep = r
				break
			}
			cur, _ = cur.AddCoreFunc(cf)

		case ir.ResourceNewDef:
			rt, r := resourceTypeAt(cur, d.ResourceIdx, d.Region())
			if r != nil {
				rep = r
				break
			}
			cf, r := canon.NewResource(rt, d.Region())
			if r != nil {
				rep = r
				break
			}
			cur, _ = cur.AddCoreFunc(cf)

		case ir.ResourceDropDef:
			if d.HandleTypeIdx < 0 || d.HandleTypeIdx >= len(cur.Types) {
				rep = errors.New(errors.CA002, errors.CategoryInvalid, d.Region(), "resource.drop type index out of range")
				break
			}
			handle := localsFromTypes(cur)[d.HandleTypeIdx]
			cf, r := canon.DropResource(handle, d.Region())
			if r != nil {
				rep = r
				break
			}
			cur, _ = cur.AddCoreFunc(cf)

		case ir.ResourceRepDef:
			rt, r := resourceTypeAt(cur, d.ResourceIdx, d.Region())
			if r != nil {
				rep = r
				break
			}
			cf, r := canon.RepResource(rt, d.Region())
			if r != nil {
				rep = r
				break
			}
			cur, _ = cur.AddCoreFunc(cf)

		case ir.StartDef:
			cur, rep = checkStart(cur, d)

		case ir.ImportDef:
			locals := localsFromTypes(cur)
			desc, r := ch.Elab.ElaborateExternDesc(d.Desc, locals, outer)
			if r != nil {
				rep = r
				break
			}
			name, r := elaborate.ValidateName(d.Name.Text)
			if r != nil {
				rep = r
				break
			}
			if desc.Kind == types.DescType {
				var dv types.DVar
				cur, dv = addImportedTypeUvar(cur, desc.TypeBound)
				importedUvarIDs[dv.Var.ID] = true
				uvarBounds = append(uvarBounds, desc.TypeBound)
			} else {
				cur, rep = addAliasedDesc(cur, desc)
			}
			if rep == nil {
				imports = append(imports, types.ExternDecl{Name: name, Desc: desc})
			}

		case ir.ExportDef:
			desc, r := sortedExternDesc(cur, d.Ref.Sort, d.Ref.Idx, d.Region())
			if r != nil {
				rep = r
				break
			}
			if d.Ascription != nil {
				locals := localsFromTypes(cur)
				want, r := ch.Elab.ElaborateExternDesc(*d.Ascription, locals, outer)
				if r != nil {
					rep = r
					break
				}
				if rep = externDescSubtypeCheck(desc, want, cur.Resolver(), d.Region()); rep != nil {
					break
				}
				desc = want
			}
			for _, id := range types.FreeUvars(externDescAsDT(desc)) {
				if !importedUvarIDs[id] {
					rep = errors.New(errors.CX002, errors.CategoryInvalid, d.Region(),
						"Component type may not refer to non-imported uvar")
					break
				}
			}
			if rep != nil {
				break
			}
			name, r := elaborate.ValidateName(d.Name.Text)
			if r != nil {
				rep = r
				break
			}
			exports = append(exports, types.ExternDecl{Name: name, Desc: desc})
			next, r := markConsumed(cur, d.Ref.Sort, d.Ref.Idx, d.Region())
			if r != nil {
				rep = r
				break
			}
			cur = next

		default:
			rep = errors.New(errors.WF001, errors.CategoryInvalid, def.Region(), "unrecognized definition")
		}
		if rep != nil {
			return nil, rep
		}
	}

	if rep := cur.CheckLinearity(comp.Reg); rep != nil {
		return nil, rep
	}

	result := &types.ComponentType{
		Uvars:    uvarBounds,
		Imports:  imports,
		Instance: types.InstanceType{Exports: exports},
	}
	if rep := types.WellFormed(result, types.PosExport, comp.Reg); rep != nil {
		return nil, rep
	}
	return result, nil
}

func toInstantiateArg(a ir.InstantiateArg) instantiate.Arg {
	arg := instantiate.Arg{Name: a.Name, Sort: a.Sort}
	switch a.Sort.Kind {
	case ir.SortFunc:
		arg.FuncIdx = a.Idx
	case ir.SortValue:
		arg.ValueIdx = a.Idx
	case ir.SortType:
		arg.TypeIdx = a.Idx
	case ir.SortComponent:
		arg.ComponentIdx = a.Idx
	case ir.SortInstance:
		arg.InstanceIdx = a.Idx
	}
	return arg
}

func indexOfExport(decls []types.ExternDecl, name string) int {
	for i, d := range decls {
		if d.Name.Text == name {
			return i
		}
	}
	return -1
}

func resourceTypeAt(cur *ctx.Context, idx int, region ir.Region) (types.DT, *errors.Report) {
	if idx < 0 || idx >= len(cur.Types) {
		return nil, errors.New(errors.CA002, errors.CategoryInvalid, region, "resource type index out of range")
	}
	return localsFromTypes(cur)[idx], nil
}

// sortedExternDesc looks a definition up by (sort, idx) the way every
// SortedIdx-addressed Def does (instantiate-arg, inline-export,
// export-def, alias-export): it is the shared projection from "a sort
// and an index" to "that definition's extern descriptor".
func sortedExternDesc(cur *ctx.Context, sort ir.Sort, idx int, region ir.Region) (types.ExternDesc, *errors.Report) {
	switch sort.Kind {
	case ir.SortFunc:
		if idx < 0 || idx >= len(cur.Funcs) {
			return types.ExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region, "func index out of range")
		}
		return types.ExternDesc{Kind: types.DescFunc, Func: cur.Funcs[idx]}, nil
	case ir.SortValue:
		if idx < 0 || idx >= len(cur.Values) {
			return types.ExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region, "value index out of range")
		}
		if !cur.Values[idx].Live {
			return types.ExternDesc{}, errors.New(errors.LV003, errors.CategoryInvalid, region, "value is already dead")
		}
		return types.ExternDesc{Kind: types.DescValue, Value: cur.Values[idx].Type}, nil
	case ir.SortType:
		if idx < 0 || idx >= len(cur.Types) {
			return types.ExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region, "type index out of range")
		}
		return types.ExternDesc{Kind: types.DescType, TypeBound: cur.Types[idx].Bound}, nil
	case ir.SortComponent:
		if idx < 0 || idx >= len(cur.Components) {
			return types.ExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region, "component index out of range")
		}
		return types.ExternDesc{Kind: types.DescComponent, Component: cur.Components[idx]}, nil
	case ir.SortInstance:
		if idx < 0 || idx >= len(cur.Instances) {
			return types.ExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region, "instance index out of range")
		}
		return types.ExternDesc{Kind: types.DescInstance, Instance: cur.Instances[idx].Type}, nil
	default:
		return types.ExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region,
			fmt.Sprintf("sort %s cannot be referenced by a sorted index", sort))
	}
}

func coreSortedDesc(cur *ctx.Context, sort ir.CoreSort, idx int, region ir.Region) (types.CoreExternDesc, *errors.Report) {
	switch sort {
	case ir.CoreSortFunc:
		if idx < 0 || idx >= len(cur.Core.Funcs) {
			return types.CoreExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region, "core func index out of range")
		}
		return types.CoreExternDesc{Kind: ir.CoreSortFunc, Func: cur.Core.Funcs[idx]}, nil
	case ir.CoreSortModule:
		if idx < 0 || idx >= len(cur.Core.Modules) {
			return types.CoreExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region, "core module index out of range")
		}
		return types.CoreExternDesc{Kind: ir.CoreSortModule, Module: cur.Core.Modules[idx]}, nil
	case ir.CoreSortInstance:
		if idx < 0 || idx >= len(cur.Core.Instances) {
			return types.CoreExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region, "core instance index out of range")
		}
		return types.CoreExternDesc{Kind: ir.CoreSortInstance, Instance: cur.Core.Instances[idx]}, nil
	default:
		// Table/Memory/Global: this engine has no local registry for them
		// beyond what AddCoreType records; treat as opaque-equal.
		return types.CoreExternDesc{Kind: sort}, nil
	}
}

// markConsumed marks a value/instance-export dead when it is placed in an
// inline-export or an export-def (spec.md §3 "consumed ... when placed
// in an inline-export of an instance"); other sorts are not linear.
func markConsumed(cur *ctx.Context, sort ir.Sort, idx int, region ir.Region) (*ctx.Context, *errors.Report) {
	switch sort.Kind {
	case ir.SortValue:
		return cur.MarkValueDead(idx, region)
	case ir.SortInstance:
		return cur.MarkAllInstanceExportsDead(idx, region)
	default:
		return cur, nil
	}
}

func addAliasedDesc(cur *ctx.Context, desc types.ExternDesc) (*ctx.Context, *errors.Report) {
	switch desc.Kind {
	case types.DescFunc:
		cur, _ = cur.AddFunc(desc.Func)
	case types.DescValue:
		cur, _ = cur.AddValue(desc.Value)
	case types.DescType:
		cur, _ = cur.AddType(desc.TypeBound)
	case types.DescInstance:
		cur, _ = cur.AddInstance(desc.Instance)
	case types.DescComponent:
		cur, _ = cur.AddComponent(desc.Component)
	case types.DescCoreModule:
		cur, _ = cur.AddCoreModule(desc.CoreModule)
	}
	return cur, nil
}

func addAliasedCoreDesc(cur *ctx.Context, desc types.CoreExternDesc) (*ctx.Context, *errors.Report) {
	switch desc.Kind {
	case ir.CoreSortFunc:
		cur, _ = cur.AddCoreFunc(desc.Func)
	case ir.CoreSortModule:
		cur, _ = cur.AddCoreModule(desc.Module)
	case ir.CoreSortInstance:
		cur, _ = cur.AddCoreInstance(desc.Instance)
	case ir.CoreSortType:
		cur, _ = cur.AddCoreType(desc)
	}
	return cur, nil
}

func aliasOuter(cur *ctx.Context, d ir.AliasOuterDef) (*ctx.Context, *errors.Report) {
	anc := cur.OuterAncestor(d.Depth)
	if anc == nil {
		return cur, errors.New(errors.CX001, errors.CategoryInvalid, d.Region(),
			"outer alias depth exceeds the enclosing component nesting")
	}
	switch d.Sort.Kind {
	case ir.SortType:
		if d.Idx < 0 || d.Idx >= len(anc.Types) {
			return cur, errors.New(errors.CX001, errors.CategoryInvalid, d.Region(),
				"Outer alias may not refer to type variable")
		}
		slot := anc.Types[d.Idx]
		if _, isVar := slot.Bound.(types.BoundSubResource); isVar {
			return cur, errors.New(errors.CX001, errors.CategoryInvalid, d.Region(),
				"Outer alias may not refer to type variable")
		}
		cur, _ = cur.AddType(slot.Bound)
		return cur, nil
	case ir.SortFunc:
		if d.Idx < 0 || d.Idx >= len(anc.Funcs) {
			return cur, errors.New(errors.IN004, errors.CategoryInvalid, d.Region(), "outer alias func index out of range")
		}
		cur, _ = cur.AddFunc(anc.Funcs[d.Idx])
		return cur, nil
	case ir.SortComponent:
		if d.Idx < 0 || d.Idx >= len(anc.Components) {
			return cur, errors.New(errors.IN004, errors.CategoryInvalid, d.Region(), "outer alias component index out of range")
		}
		cur, _ = cur.AddComponent(anc.Components[d.Idx])
		return cur, nil
	case ir.SortInstance:
		if d.Idx < 0 || d.Idx >= len(anc.Instances) {
			return cur, errors.New(errors.IN004, errors.CategoryInvalid, d.Region(), "outer alias instance index out of range")
		}
		cur, _ = cur.AddInstance(anc.Instances[d.Idx].Type)
		return cur, nil
	default:
		return cur, errors.New(errors.IN004, errors.CategoryInvalid, d.Region(),
			fmt.Sprintf("sort %s is not a valid outer-alias target", d.Sort))
	}
}

// checkStart validates the start function's arity/argument types against
// its declared value args, marking each consumed (spec.md §4.7).
func checkStart(cur *ctx.Context, d ir.StartDef) (*ctx.Context, *errors.Report) {
	if d.FuncIdx < 0 || d.FuncIdx >= len(cur.Funcs) {
		return cur, errors.New(errors.SF001, errors.CategoryInvalid, d.Region(), "start func index out of range")
	}
	fn := cur.Funcs[d.FuncIdx]
	params := fn.Params.Named
	if fn.Params.Unnamed != nil {
		params = []types.Field{{Type: fn.Params.Unnamed}}
	}
	if len(params) != len(d.ValueArgs) {
		return cur, errors.New(errors.SF001, errors.CategoryInvalid, d.Region(),
			fmt.Sprintf("start function expects %d args, got %d", len(params), len(d.ValueArgs)))
	}
	results := fn.Result.Named
	if fn.Result.Unnamed != nil {
		results = []types.Field{{Type: fn.Result.Unnamed}}
	}
	if len(results) != d.ResultCount {
		return cur, errors.New(errors.SF001, errors.CategoryInvalid, d.Region(),
			fmt.Sprintf("start function produces %d results, declaration expects %d", len(results), d.ResultCount))
	}
	next := cur
	for i, vi := range d.ValueArgs {
		if vi < 0 || vi >= len(next.Values) {
			return cur, errors.New(errors.SF001, errors.CategoryInvalid, d.Region(), "start value arg index out of range")
		}
		if rep := types.Subtype(next.Values[vi].Type, params[i].Type, next.Resolver(), d.Region()); rep != nil {
			return cur, rep
		}
		var rep *errors.Report
		next, rep = next.MarkValueDead(vi, d.Region())
		if rep != nil {
			return cur, rep
		}
	}
	return next, nil
}

func externDescAsDT(d types.ExternDesc) types.DT {
	switch d.Kind {
	case types.DescValue:
		return d.Value
	case types.DescFunc:
		return *d.Func
	case types.DescType:
		if eq, ok := d.TypeBound.(types.BoundEq); ok {
			return eq.Type
		}
		return nil
	default:
		return nil
	}
}

func externDescSubtypeCheck(have, want types.ExternDesc, resolve types.Resolver, region ir.Region) *errors.Report {
	if have.Kind != want.Kind {
		return errors.New(errors.ST004, errors.CategoryInvalid, region, "export ascription kind mismatch")
	}
	switch want.Kind {
	case types.DescFunc:
		return types.Subtype(*have.Func, *want.Func, resolve, region)
	case types.DescValue:
		return types.Subtype(have.Value, want.Value, resolve, region)
	case types.DescInstance:
		return types.Subtype(have.Instance, want.Instance, resolve, region)
	case types.DescComponent:
		return types.Subtype(have.Component, want.Component, resolve, region)
	default:
		return nil
	}
}

// RunScript implements the assertion runner (spec.md §4.10, §8): each
// ComponentStmt is checked and its errors propagated; each
// AssertInvalidStmt/AssertMalformedStmt's observed outcome is matched
// against ExpectPrefix by literal string-prefix comparison (spec.md §7
// "stable message prefixes").
func (ch *Checker) RunScript(script *ir.Script) *errors.Report {
	for _, stmt := range script.Statements {
		switch s := stmt.(type) {
		case ir.ComponentStmt:
			if _, rep := ch.CheckComponent(s.Component, nil); rep != nil {
				return rep
			}
		case ir.AssertInvalidStmt:
			_, rep := ch.CheckComponent(s.Component, nil)
			if rep == nil {
				return errors.New(errors.AS002, errors.CategoryAssertion, s.Reg,
					"assert_invalid target unexpectedly validated")
			}
			if !strings.HasPrefix(rep.Message, s.ExpectPrefix) {
				return errors.New(errors.AS001, errors.CategoryAssertion, s.Reg,
					fmt.Sprintf("observed error %q did not begin with expected prefix %q", rep.Message, s.ExpectPrefix))
			}
		case ir.AssertMalformedStmt:
			if s.ParseError == nil {
				return errors.New(errors.AS003, errors.CategoryAssertion, s.Reg,
					"assert_malformed target unexpectedly parsed")
			}
			if !strings.HasPrefix(*s.ParseError, s.ExpectPrefix) {
				return errors.New(errors.AS001, errors.CategoryAssertion, s.Reg,
					fmt.Sprintf("observed parse error %q did not begin with expected prefix %q", *s.ParseError, s.ExpectPrefix))
			}
		}
	}
	return nil
}
