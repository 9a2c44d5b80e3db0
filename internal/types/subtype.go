package types

import (
	"fmt"

	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/ir"
)

// Resolver looks up the concrete type an `eq`-bound type variable stands
// for, if one is known (a uvar's BoundEq recorded in the definition
// context, or an evar whose witness has been discovered). Subtype uses it
// to see through type aliases that the pure structural comparison alone
// would otherwise reject.
type Resolver func(TypeVar) (DT, bool)

var noResolve Resolver = func(TypeVar) (DT, bool) { return nil, false }

// Subtype implements the structural, coinductive-at-binders subtyping
// judgment (spec.md §4.4): sub <: sup. A nil report means the check
// succeeded. resolve may be nil, in which case no type variable is
// expanded through its `eq` bound.
func Subtype(sub, sup DT, resolve Resolver, region ir.Region) *errors.Report {
	if resolve == nil {
		resolve = noResolve
	}
	return subtype(sub, sup, resolve, region)
}

func mismatch(code string, region ir.Region, sub, sup DT) *errors.Report {
	return errors.New(code, errors.CategoryInvalid, region,
		fmt.Sprintf("%s is not a subtype of %s", sub, sup))
}

func subtype(sub, sup DT, resolve Resolver, region ir.Region) *errors.Report {
	// A bare variable on either side may stand for a concrete type via its
	// `eq` bound; try expanding before falling through to a structural
	// mismatch so aliased exports/imports still line up.
	if sv, ok := sub.(DVar); ok {
		if sup2, ok := sup.(DVar); ok && varsEqual(sv.Var, sup2.Var) {
			return nil
		}
		if expanded, ok := resolve(sv.Var); ok {
			return subtype(expanded, sup, resolve, region)
		}
	}
	if spv, ok := sup.(DVar); ok {
		if expanded, ok := resolve(spv.Var); ok {
			return subtype(sub, expanded, resolve, region)
		}
	}

	switch s := sub.(type) {
	case VPrim:
		p, ok := sup.(VPrim)
		if !ok || p.Kind != s.Kind {
			return mismatch(errors.ST001, region, sub, sup)
		}
		return nil
	case VRecord:
		p, ok := sup.(VRecord)
		if !ok {
			return mismatch(errors.ST001, region, sub, sup)
		}
		have := make(map[string]DT, len(s.Fields))
		for _, f := range s.Fields {
			have[f.Name] = f.Type
		}
		for _, want := range p.Fields {
			got, ok := have[want.Name]
			if !ok {
				return errors.New(errors.ST001, errors.CategoryInvalid, region,
					fmt.Sprintf("record is missing field %q", want.Name))
			}
			if rep := subtype(got, want.Type, resolve, region); rep != nil {
				return rep
			}
		}
		return nil
	case VVariant:
		p, ok := sup.(VVariant)
		if !ok {
			return mismatch(errors.ST001, region, sub, sup)
		}
		want := make(map[string]DT, len(p.Cases))
		for _, c := range p.Cases {
			want[c.Name] = c.Payload
		}
		for _, c := range s.Cases {
			wp, ok := want[c.Name]
			if !ok {
				return errors.New(errors.ST001, errors.CategoryInvalid, region,
					fmt.Sprintf("variant case %q is not present in the expected type", c.Name))
			}
			if c.Payload == nil && wp == nil {
				continue
			}
			if c.Payload == nil || wp == nil {
				return errors.New(errors.ST001, errors.CategoryInvalid, region,
					fmt.Sprintf("variant case %q payload arity mismatch", c.Name))
			}
			if rep := subtype(c.Payload, wp, resolve, region); rep != nil {
				return rep
			}
		}
		return nil
	case VList:
		p, ok := sup.(VList)
		if !ok {
			return mismatch(errors.ST001, region, sub, sup)
		}
		return subtype(s.Elem, p.Elem, resolve, region)
	case VTuple:
		p, ok := sup.(VTuple)
		if !ok || len(p.Elems) != len(s.Elems) {
			return mismatch(errors.ST001, region, sub, sup)
		}
		for i := range s.Elems {
			if rep := subtype(s.Elems[i], p.Elems[i], resolve, region); rep != nil {
				return rep
			}
		}
		return nil
	case VFlags:
		p, ok := sup.(VFlags)
		if !ok || !sameStrings(s.Names, p.Names) {
			return mismatch(errors.ST001, region, sub, sup)
		}
		return nil
	case VEnum:
		p, ok := sup.(VEnum)
		if !ok || !sameStrings(s.Tags, p.Tags) {
			return mismatch(errors.ST001, region, sub, sup)
		}
		return nil
	case VUnion:
		p, ok := sup.(VUnion)
		if !ok || len(p.Arms) != len(s.Arms) {
			return mismatch(errors.ST001, region, sub, sup)
		}
		for i := range s.Arms {
			if rep := subtype(s.Arms[i], p.Arms[i], resolve, region); rep != nil {
				return rep
			}
		}
		return nil
	case VOption:
		p, ok := sup.(VOption)
		if !ok {
			return mismatch(errors.ST001, region, sub, sup)
		}
		return subtype(s.Elem, p.Elem, resolve, region)
	case VExpected:
		p, ok := sup.(VExpected)
		if !ok {
			return mismatch(errors.ST001, region, sub, sup)
		}
		if s.Ok != nil && p.Ok != nil {
			if rep := subtype(s.Ok, p.Ok, resolve, region); rep != nil {
				return rep
			}
		} else if (s.Ok == nil) != (p.Ok == nil) {
			return mismatch(errors.ST001, region, sub, sup)
		}
		if s.Err != nil && p.Err != nil {
			if rep := subtype(s.Err, p.Err, resolve, region); rep != nil {
				return rep
			}
		} else if (s.Err == nil) != (p.Err == nil) {
			return mismatch(errors.ST001, region, sub, sup)
		}
		return nil
	case VOwn:
		p, ok := sup.(VOwn)
		if !ok || !resourceEqual(s.Resource, p.Resource) {
			return errors.New(errors.ST006, errors.CategoryInvalid, region,
				"own handle does not reference the same resource type")
		}
		return nil
	case VBorrow:
		p, ok := sup.(VBorrow)
		if !ok || !resourceEqual(s.Resource, p.Resource) {
			return errors.New(errors.ST006, errors.CategoryInvalid, region,
				"borrow handle does not reference the same resource type")
		}
		return nil
	case DResourceType:
		p, ok := sup.(DResourceType)
		if !ok || p.ID != s.ID {
			return errors.New(errors.ST006, errors.CategoryInvalid, region,
				"resource type identity mismatch")
		}
		return nil
	case DVar:
		p, ok := sup.(DVar)
		if !ok || !varsEqual(s.Var, p.Var) {
			// Stable message prefix (spec.md §7): "Type variable u0.<i> is
			// not u0.<j>" — tooling and the assertion runner match on it.
			return errors.New(errors.ST005, errors.CategoryInvalid, region,
				fmt.Sprintf("Type variable %s is not %s", s.Var, describeVar(sup)))
		}
		return nil
	case DFunc:
		p, ok := sup.(DFunc)
		if !ok {
			return mismatch(errors.ST002, region, sub, sup)
		}
		if rep := paramListSubtype(p.Params, s.Params, resolve, region); rep != nil {
			return rep
		}
		return paramListSubtype(s.Result, p.Result, resolve, region)
	case *InstanceType:
		p, ok := sup.(*InstanceType)
		if !ok {
			return mismatch(errors.ST003, region, sub, sup)
		}
		return externDeclsSubtype(s.Exports, p.Exports, resolve, region, errors.ST003)
	case *ComponentType:
		p, ok := sup.(*ComponentType)
		if !ok {
			return mismatch(errors.ST004, region, sub, sup)
		}
		if rep := externDeclsSubtype(p.Imports, s.Imports, resolve, region, errors.ST004); rep != nil {
			return rep
		}
		return subtype(&s.Instance, &p.Instance, resolve, region)
	default:
		return mismatch(errors.ST001, region, sub, sup)
	}
}

func describeVar(dt DT) string {
	if v, ok := dt.(DVar); ok {
		return v.Var.String()
	}
	return dt.String()
}

func varsEqual(a, b TypeVar) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == VarBound {
		return a.Bound == b.Bound
	}
	return a.ID == b.ID
}

// resourceEqual decides whether two resource-type DTs (the referent of an
// own/borrow) name the same resource: identical generative identity, or
// the identical type variable (spec.md P5, §3).
func resourceEqual(a, b DT) bool {
	switch av := a.(type) {
	case DResourceType:
		bv, ok := b.(DResourceType)
		return ok && av.ID == bv.ID
	case DVar:
		bv, ok := b.(DVar)
		return ok && varsEqual(av.Var, bv.Var)
	default:
		return false
	}
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			return false
		}
	}
	return true
}

func paramListSubtype(sub, sup ParamList, resolve Resolver, region ir.Region) *errors.Report {
	if sub.Unnamed != nil || sup.Unnamed != nil {
		if sub.Unnamed == nil || sup.Unnamed == nil {
			return errors.New(errors.ST002, errors.CategoryInvalid, region,
				"unnamed/named parameter list shape mismatch")
		}
		return subtype(sub.Unnamed, sup.Unnamed, resolve, region)
	}
	have := make(map[string]DT, len(sub.Named))
	for _, f := range sub.Named {
		have[f.Name] = f.Type
	}
	for _, want := range sup.Named {
		got, ok := have[want.Name]
		if !ok {
			return errors.New(errors.ST002, errors.CategoryInvalid, region,
				fmt.Sprintf("parameter list is missing %q", want.Name))
		}
		if rep := subtype(got, want.Type, resolve, region); rep != nil {
			return rep
		}
	}
	return nil
}

// boundSubtype decides whether a type-import/export's bound sub is at
// least as permissive as sup's (spec.md §3 "Bounds"): a concrete `eq`
// bound may only be matched by an equal concrete bound, while `sub
// resource` accepts any bound; whether sub's bound is resource-kinded is
// not checked here.
func boundSubtype(sub, sup Bound, resolve Resolver, region ir.Region) *errors.Report {
	switch supB := sup.(type) {
	case BoundSubResource:
		return nil
	case BoundEq:
		subB, ok := sub.(BoundEq)
		if !ok {
			return errors.New(errors.ST001, errors.CategoryInvalid, region,
				"abstract bound cannot satisfy a concrete `eq` bound")
		}
		if rep := subtype(subB.Type, supB.Type, resolve, region); rep != nil {
			return rep
		}
		return subtype(supB.Type, subB.Type, resolve, region)
	default:
		return nil
	}
}

func externDeclsSubtype(sub, sup []ExternDecl, resolve Resolver, region ir.Region, code string) *errors.Report {
	have := make(map[string]ExternDesc, len(sub))
	for _, d := range sub {
		have[d.Name.Text] = d.Desc
	}
	for _, want := range sup {
		got, ok := have[want.Name.Text]
		if !ok {
			return errors.New(code, errors.CategoryInvalid, region,
				fmt.Sprintf("missing required export/import %q", want.Name.Text))
		}
		if rep := externDescSubtype(got, want.Desc, resolve, region); rep != nil {
			return rep
		}
	}
	return nil
}

func externDescSubtype(sub, sup ExternDesc, resolve Resolver, region ir.Region) *errors.Report {
	if sub.Kind != sup.Kind {
		return errors.New(errors.ST004, errors.CategoryInvalid, region, "extern decl kind mismatch")
	}
	switch sub.Kind {
	case DescCoreModule:
		if !CoreModuleSubtype(sub.CoreModule, sup.CoreModule) {
			return errors.New(errors.ST004, errors.CategoryInvalid, region, "core module type mismatch")
		}
		return nil
	case DescFunc:
		return subtype(*sub.Func, *sup.Func, resolve, region)
	case DescValue:
		return subtype(sub.Value, sup.Value, resolve, region)
	case DescType:
		return boundSubtype(sub.TypeBound, sup.TypeBound, resolve, region)
	case DescInstance:
		return subtype(sub.Instance, sup.Instance, resolve, region)
	case DescComponent:
		return subtype(sub.Component, sup.Component, resolve, region)
	default:
		return nil
	}
}
