// Package instantiate implements component/core instantiation (spec.md
// §4.5): matching instantiate-args against a callee's imports, recovering
// uvar bindings by structural search through the type imports that carry
// them, subtype-checking every other arg, marking consumed args dead, and
// producing the caller-visible result instance type with fresh evars for
// whatever the callee's own exports existentially quantify.
//
// Grounded on the teacher's internal/eval call-frame construction: binding
// a callee's formal parameters against actual arguments one at a time,
// threading an accumulating environment — generalized here from value
// binding to type-variable binding, since imports may themselves be types.
package instantiate

import (
	"fmt"

	"github.com/waclang/waccheck/internal/ctx"
	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/ir"
	"github.com/waclang/waccheck/internal/types"
)

// Arg is one resolved instantiate-arg: a name paired with the sorted
// definition it refers to in the instantiating context.
type Arg struct {
	Name string
	Sort ir.Sort
	// Exactly one of the following is populated, selected by Sort.Kind.
	FuncIdx, ValueIdx, TypeIdx, ComponentIdx, InstanceIdx int
}

// Result is what a successful instantiation produces: the result
// instance type (with the callee's uvars substituted away and its own
// evars freshly re-minted in the caller's context) plus the context
// advanced by those fresh evars and by marking every consumed arg dead.
type Result struct {
	Instance *types.InstanceType
	Ctx      *ctx.Context
}

// Instantiate implements spec.md §4.5 for a single instantiate-component
// expression: callee is the component type being instantiated, args are
// its resolved instantiate-args (one per import, order-independent —
// matched by ExternName), and c is the instantiating definition context
// (carrying the concrete definitions the args' indices address).
func Instantiate(callee *types.ComponentType, args []Arg, c *ctx.Context, region ir.Region) (*Result, *errors.Report) {
	byName := make(map[string]Arg, len(args))
	for _, a := range args {
		if _, dup := byName[a.Name]; dup {
			return nil, errors.New(errors.IN001, errors.CategoryInvalid, region,
				fmt.Sprintf("duplicate instantiate-arg name %q", a.Name))
		}
		byName[a.Name] = a
	}

	// uvarWitness[i] is the concrete type recovered for callee.Uvars[i], by
	// structural search through whichever import actually carries it
	// (spec.md §9's "iibb_search_inst"-style offsetting: a uvar can be
	// carried either by its own `type` import directly, or be mentioned
	// structurally inside a later import's type — the search here only
	// handles the direct-carrier case, which is the common and
	// unambiguous one; a uvar never bound by a direct type-import is
	// reported as IN003, matching the invariant that every uvar in
	// ct_uvars must be reachable from some import).
	uvarWitness := make([]types.DT, len(callee.Uvars))
	resolve := func(v types.TypeVar) (types.DT, bool) {
		if v.Kind != types.VarBound {
			return nil, false
		}
		if v.Bound < 0 || v.Bound >= len(uvarWitness) || uvarWitness[v.Bound] == nil {
			return nil, false
		}
		return uvarWitness[v.Bound], true
	}

	cur := c
	consumedValues := []int{}
	consumedInstances := []int{}
	nextUvar := 0

	for _, decl := range callee.Imports {
		arg, ok := byName[decl.Name.Text]
		if !ok {
			return nil, errors.New(errors.IN002, errors.CategoryInvalid, region,
				fmt.Sprintf("missing instantiate-arg for import %q", decl.Name.Text))
		}

		// A type-kind import: the arg itself becomes the uvar's witness
		// before anything referencing that uvar (later imports, or the
		// result instance) is checked. uvarWitness is indexed by
		// type-import order (callee.Uvars has one slot per type-kind
		// import), not by the raw position of decl within callee.Imports
		// — an ordinary import list interleaves type imports with
		// func/value/instance/component ones.
		if decl.Desc.Kind == types.DescType {
			if arg.Sort.Kind != ir.SortType {
				return nil, errors.New(errors.IN004, errors.CategoryInvalid, region,
					fmt.Sprintf("instantiate-arg %q must be a type", decl.Name.Text))
			}
			witness, rep := typeArgAt(cur, arg.TypeIdx, region)
			if rep != nil {
				return nil, rep
			}
			if eq, isEq := decl.Desc.TypeBound.(types.BoundEq); isEq {
				substituted := openWithWitnesses(eq.Type, uvarWitness)
				if rep := types.Subtype(witness, substituted, cur.Resolver(), region); rep != nil {
					return nil, rep
				}
				if rep := types.Subtype(substituted, witness, cur.Resolver(), region); rep != nil {
					return nil, rep
				}
			}
			uvarWitness[nextUvar] = witness
			nextUvar++
			continue
		}

		argDesc, rep := argExternDesc(cur, arg, region)
		if rep != nil {
			return nil, rep
		}
		wantDesc := substExternDesc(decl.Desc, uvarWitness)
		if rep := externDescSubtype(argDesc, wantDesc, cur.Resolver(), region); rep != nil {
			return nil, rep
		}

		switch arg.Sort.Kind {
		case ir.SortValue:
			consumedValues = append(consumedValues, arg.ValueIdx)
		case ir.SortInstance:
			consumedInstances = append(consumedInstances, arg.InstanceIdx)
		}
	}
	for i := range uvarWitness {
		if uvarWitness[i] == nil {
			return nil, errors.New(errors.IN003, errors.CategoryInvalid, region,
				fmt.Sprintf("uvar %d has no direct type-import carrier", i))
		}
	}

	// Mark every value/instance arg consumed as an instantiate-arg dead
	// (spec.md §4.5 step 6 / §3 "consumed when passed as an
	// instantiate-arg"); a component/func/type arg is not itself
	// value-linear and is never marked dead.
	for _, idx := range consumedValues {
		next, rep := cur.MarkValueDead(idx, region)
		if rep != nil {
			return nil, rep
		}
		cur = next
	}
	for _, idx := range consumedInstances {
		next, rep := cur.MarkAllInstanceExportsDead(idx, region)
		if rep != nil {
			return nil, rep
		}
		cur = next
	}

	// The result instance: substitute every recovered uvar witness into
	// the callee's own exports, then re-mint the callee's evars as fresh
	// context evars so the caller sees existentially-quantified abstract
	// types distinct from any other instantiation of the same component
	// type (spec.md §3 "each instantiation's evars are fresh").
	resultEvars := make([]types.DT, len(callee.Instance.Evars))
	for i, b := range callee.Instance.Evars {
		var ctxBound types.Bound = types.BoundSubResource{}
		if eqB, isEq := b.(types.BoundEq); isEq {
			ctxBound = types.BoundEq{Type: substWithEvars(eqB.Type, uvarWitness, resultEvars[:i])}
		}
		var dv types.DVar
		cur, dv = cur.AddEvar(ctxBound)
		resultEvars[i] = dv
	}

	resultExports := make([]types.ExternDecl, len(callee.Instance.Exports))
	for i, d := range callee.Instance.Exports {
		resultExports[i] = types.ExternDecl{
			Name: d.Name,
			Desc: substExternDescWithEvars(d.Desc, uvarWitness, resultEvars),
		}
	}

	return &Result{
		Instance: &types.InstanceType{Evars: nil, Exports: resultExports},
		Ctx:      cur,
	}, nil
}

// openWithWitnesses substitutes callee uvars (TV_bound 0..n-1 at the
// header's own frame) with their recovered witnesses — the same role
// types.BSubstOpen plays when elaboration first opens a header, reused
// here to close one back up against concrete instantiate-time types.
func openWithWitnesses(dt types.DT, witnesses []types.DT) types.DT {
	if dt == nil {
		return nil
	}
	return types.BSubstOpen(dt, witnesses)
}

func substWithEvars(dt types.DT, uvarWitness []types.DT, evarWitness []types.DT) types.DT {
	if dt == nil {
		return nil
	}
	reps := append(append([]types.DT{}, uvarWitness...), evarWitness...)
	return types.BSubstOpen(dt, reps)
}

func substExternDesc(d types.ExternDesc, uvarWitness []types.DT) types.ExternDesc {
	return substExternDescWithEvars(d, uvarWitness, nil)
}

// substExternDescWithEvars rewrites every DT field of d by opening the
// callee header's bound vars against uvarWitness (followed by any
// already-minted evarWitness, for the result-instance pass where a later
// export may reference an earlier evar of the very same instance).
func substExternDescWithEvars(d types.ExternDesc, uvarWitness, evarWitness []types.DT) types.ExternDesc {
	reps := append(append([]types.DT{}, uvarWitness...), evarWitness...)
	out := d
	switch d.Kind {
	case types.DescFunc:
		out.Func = &types.DFunc{
			Params: substParamList(d.Func.Params, reps),
			Result: substParamList(d.Func.Result, reps),
		}
	case types.DescValue:
		out.Value = types.BSubstOpen(d.Value, reps)
	case types.DescType:
		if eq, ok := d.TypeBound.(types.BoundEq); ok {
			out.TypeBound = types.BoundEq{Type: types.BSubstOpen(eq.Type, reps)}
		}
	case types.DescInstance, types.DescComponent, types.DescCoreModule:
		// Freestanding nested headers are independently closed (the
		// header-local indexing decision, DESIGN.md): their own TV_bound
		// indices are never opened by an enclosing header's witnesses.
	}
	return out
}

func substParamList(p types.ParamList, reps []types.DT) types.ParamList {
	if p.Unnamed != nil {
		return types.ParamList{Unnamed: types.BSubstOpen(p.Unnamed, reps)}
	}
	out := make([]types.Field, len(p.Named))
	for i, f := range p.Named {
		out[i] = types.Field{Name: f.Name, Type: types.BSubstOpen(f.Type, reps)}
	}
	return types.ParamList{Named: out}
}

// typeArgAt and argExternDesc look an instantiate-arg's concrete
// definition up in the instantiating context by sort-specific index.
// These mirror the teacher's frame-lookup-by-slot-index idiom used
// throughout internal/eval's call-frame construction.

func typeArgAt(c *ctx.Context, idx int, region ir.Region) (types.DT, *errors.Report) {
	if idx < 0 || idx >= len(c.Types) {
		return nil, errors.New(errors.IN004, errors.CategoryInvalid, region,
			fmt.Sprintf("type arg index %d out of range", idx))
	}
	slot := c.Types[idx]
	if eq, ok := slot.Bound.(types.BoundEq); ok {
		return eq.Type, nil
	}
	return types.DVar{Var: types.TypeVar{Kind: types.VarUvar, Depth: c.Depth, ID: idx}}, nil
}

func argExternDesc(c *ctx.Context, arg Arg, region ir.Region) (types.ExternDesc, *errors.Report) {
	switch arg.Sort.Kind {
	case ir.SortFunc:
		if arg.FuncIdx < 0 || arg.FuncIdx >= len(c.Funcs) {
			return types.ExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region, "func arg index out of range")
		}
		return types.ExternDesc{Kind: types.DescFunc, Func: c.Funcs[arg.FuncIdx]}, nil
	case ir.SortValue:
		if arg.ValueIdx < 0 || arg.ValueIdx >= len(c.Values) {
			return types.ExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region, "value arg index out of range")
		}
		if !c.Values[arg.ValueIdx].Live {
			return types.ExternDesc{}, errors.New(errors.LV003, errors.CategoryInvalid, region,
				fmt.Sprintf("value arg %d is already dead", arg.ValueIdx))
		}
		return types.ExternDesc{Kind: types.DescValue, Value: c.Values[arg.ValueIdx].Type}, nil
	case ir.SortInstance:
		if arg.InstanceIdx < 0 || arg.InstanceIdx >= len(c.Instances) {
			return types.ExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region, "instance arg index out of range")
		}
		return types.ExternDesc{Kind: types.DescInstance, Instance: c.Instances[arg.InstanceIdx].Type}, nil
	case ir.SortComponent:
		if arg.ComponentIdx < 0 || arg.ComponentIdx >= len(c.Components) {
			return types.ExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region, "component arg index out of range")
		}
		return types.ExternDesc{Kind: types.DescComponent, Component: c.Components[arg.ComponentIdx]}, nil
	default:
		return types.ExternDesc{}, errors.New(errors.IN004, errors.CategoryInvalid, region,
			fmt.Sprintf("sort %s cannot be an instantiate-arg", arg.Sort))
	}
}

// externDescSubtype checks one instantiate-arg's actual descriptor
// against the (already uvar-substituted) expected import descriptor, by
// routing through types.Subtype on the matching DT shape, or the
// dedicated func/instance/component/core-module judgments for the forms
// that are not themselves a bare DT.
func externDescSubtype(have, want types.ExternDesc, resolve types.Resolver, region ir.Region) *errors.Report {
	if have.Kind != want.Kind {
		return errors.New(errors.IN004, errors.CategoryInvalid, region,
			fmt.Sprintf("instantiate-arg kind %v does not match expected kind %v", have.Kind, want.Kind))
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
	case types.DescCoreModule:
		if !types.CoreModuleSubtype(have.CoreModule, want.CoreModule) {
			return errors.New(errors.IN004, errors.CategoryInvalid, region, "core module type mismatch")
		}
		return nil
	default:
		return nil
	}
}
