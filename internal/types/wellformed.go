package types

import (
	"fmt"

	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/ir"
	"github.com/waclang/waccheck/internal/names"
)

// wf is the structural well-formedness traversal (spec.md §4.1). depth is
// the number of bound-variable slots currently in scope (I1). Each
// ComponentType/InstanceType is a self-contained binder frame: a TV_bound
// index inside its own Imports/Instance/Exports addresses only that
// header's own Uvars/Evars, reset to 0 at the header boundary. A reference
// to an enclosing header's bound variable is never spelled as a raw
// TV_bound; it must go through an explicit outer alias (spec.md §4.8),
// which elaboration resolves to a concrete uvar before it ever reaches
// this package.
func wf(dt DT, pos Position, depth int, region ir.Region) *errors.Report {
	switch t := dt.(type) {
	case VPrim:
		return nil
	case VRecord:
		seen := make(map[string]bool, len(t.Fields))
		for _, f := range t.Fields {
			if !names.IsKebabCase(f.Name) {
				return errors.New(errors.WF004, errors.CategoryInvalid, region,
					fmt.Sprintf("record field name %q is not kebab-case", f.Name))
			}
			if seen[f.Name] {
				return errors.New(errors.WF003, errors.CategoryInvalid, region,
					fmt.Sprintf("duplicate record field name %q", f.Name))
			}
			seen[f.Name] = true
			if rep := wf(f.Type, pos, depth, region); rep != nil {
				return rep
			}
		}
		return nil
	case VVariant:
		seen := make(map[string]bool, len(t.Cases))
		idx := make(map[string]int, len(t.Cases))
		for i, c := range t.Cases {
			if !names.IsKebabCase(c.Name) {
				return errors.New(errors.WF004, errors.CategoryInvalid, region,
					fmt.Sprintf("variant case name %q is not kebab-case", c.Name))
			}
			if seen[c.Name] {
				return errors.New(errors.WF003, errors.CategoryInvalid, region,
					fmt.Sprintf("duplicate variant case name %q", c.Name))
			}
			seen[c.Name] = true
			idx[c.Name] = i
			if c.Refines != "" {
				j, ok := idx[c.Refines]
				if !ok || j >= i {
					return errors.New(errors.WF005, errors.CategoryInvalid, region,
						fmt.Sprintf("variant case %q refines %q, which is not a preceding case", c.Name, c.Refines))
				}
			}
			if c.Payload != nil {
				if rep := wf(c.Payload, pos, depth, region); rep != nil {
					return rep
				}
			}
		}
		return nil
	case VList:
		return wf(t.Elem, pos, depth, region)
	case VTuple:
		for _, e := range t.Elems {
			if rep := wf(e, pos, depth, region); rep != nil {
				return rep
			}
		}
		return nil
	case VFlags:
		seen := make(map[string]bool, len(t.Names))
		for _, n := range t.Names {
			if !names.IsKebabCase(n) {
				return errors.New(errors.WF004, errors.CategoryInvalid, region,
					fmt.Sprintf("flags name %q is not kebab-case", n))
			}
			if seen[n] {
				return errors.New(errors.WF003, errors.CategoryInvalid, region,
					fmt.Sprintf("duplicate flags name %q", n))
			}
			seen[n] = true
		}
		return nil
	case VEnum:
		seen := make(map[string]bool, len(t.Tags))
		for _, n := range t.Tags {
			if !names.IsKebabCase(n) {
				// Stable message prefix (spec.md S6): "enum tag name
				// `NevEr` is not in kebab case".
				return errors.New(errors.WF004, errors.CategoryInvalid, region,
					fmt.Sprintf("enum tag name `%s` is not in kebab case", n))
			}
			if seen[n] {
				return errors.New(errors.WF003, errors.CategoryInvalid, region,
					fmt.Sprintf("duplicate enum tag %q", n))
			}
			seen[n] = true
		}
		return nil
	case VUnion:
		for _, a := range t.Arms {
			if rep := wf(a, pos, depth, region); rep != nil {
				return rep
			}
		}
		return nil
	case VOption:
		return wf(t.Elem, pos, depth, region)
	case VExpected:
		if t.Ok != nil {
			if rep := wf(t.Ok, pos, depth, region); rep != nil {
				return rep
			}
		}
		if t.Err != nil {
			if rep := wf(t.Err, pos, depth, region); rep != nil {
				return rep
			}
		}
		return nil
	case VOwn:
		return wfResourceRef(t.Resource, pos, depth, region)
	case VBorrow:
		return wfResourceRef(t.Resource, pos, depth, region)
	case DVar:
		if t.Var.Kind == VarBound && t.Var.Bound >= depth {
			return errors.New(errors.WF001, errors.CategoryInvalid, region,
				fmt.Sprintf("bound variable %s referenced outside its binder", t.Var))
		}
		return nil
	case DResourceType:
		if pos == PosExport {
			// Stable message prefix (spec.md §4.9, S1): "Cannot export type
			// containing bare resource type".
			return errors.New(errors.WF002, errors.CategoryInvalid, region,
				"Cannot export type containing bare resource type")
		}
		return nil
	case DFunc:
		return wfFunc(&t, depth, region)
	case *InstanceType:
		return wfInstanceBody(t, 0, region)
	case *ComponentType:
		return wfComponentAt(t, region)
	default:
		return errors.New(errors.WF001, errors.CategoryInvalid, region,
			fmt.Sprintf("unrecognized type form %T", dt))
	}
}

// wfResourceRef checks the referent of own/borrow: a resource-bounded type
// variable or a local resource identity (spec.md §3 "own t / borrow t where
// t is a resource type").
func wfResourceRef(resource DT, pos Position, depth int, region ir.Region) *errors.Report {
	switch r := resource.(type) {
	case DVar:
		return wf(r, pos, depth, region)
	case DResourceType:
		// own/borrow of a locally-declared resource is always fine, even
		// in export position: WF002 guards a *bare* resource type export,
		// not a handle to one.
		return nil
	default:
		return errors.New(errors.WF006, errors.CategoryInvalid, region,
			"own/borrow referent is not a resource-bounded variable or local resource")
	}
}

func wfParamList(p ParamList, depth int, region ir.Region) *errors.Report {
	if p.Unnamed != nil {
		return wf(p.Unnamed, PosParam, depth, region)
	}
	seen := make(map[string]bool, len(p.Named))
	for _, f := range p.Named {
		if !names.IsKebabCase(f.Name) {
			return errors.New(errors.WF004, errors.CategoryInvalid, region,
				fmt.Sprintf("param/result name %q is not kebab-case", f.Name))
		}
		if seen[f.Name] {
			return errors.New(errors.WF003, errors.CategoryInvalid, region,
				fmt.Sprintf("duplicate param/result name %q", f.Name))
		}
		seen[f.Name] = true
		if rep := wf(f.Type, PosParam, depth, region); rep != nil {
			return rep
		}
	}
	return nil
}

func wfFunc(f *DFunc, depth int, region ir.Region) *errors.Report {
	if rep := wfParamList(f.Params, depth, region); rep != nil {
		return rep
	}
	return wfParamList(f.Result, depth, region)
}

func wfBound(b Bound, pos Position, depth int, region ir.Region) *errors.Report {
	if eq, ok := b.(BoundEq); ok {
		return wf(eq.Type, pos, depth, region)
	}
	return nil
}

func wfExternDecl(d ExternDecl, pos Position, depth int, region ir.Region) *errors.Report {
	switch d.Desc.Kind {
	case DescFunc:
		return wfFunc(d.Desc.Func, depth, region)
	case DescValue:
		return wf(d.Desc.Value, pos, depth, region)
	case DescType:
		return wfBound(d.Desc.TypeBound, pos, depth, region)
	case DescInstance:
		// A nested instance type reached through an extern desc is its own
		// freestanding, independently closed header: reset to base 0
		// regardless of how deeply this extern desc happens to sit.
		return wfInstanceBody(d.Desc.Instance, 0, region)
	case DescComponent:
		return wfComponentAt(d.Desc.Component, region)
	default:
		return nil // DescCoreModule: core types carry no component-level variables
	}
}

func wfDeclNames(decls []ExternDecl, region ir.Region) *errors.Report {
	raw := make([]string, len(decls))
	for i, d := range decls {
		raw[i] = d.Name.Text
	}
	if dup, found := names.CheckUnique(raw); found {
		return errors.New(errors.WF003, errors.CategoryInvalid, region,
			fmt.Sprintf("duplicate extern name %q", dup))
	}
	return nil
}

// wfInstanceBody checks an InstanceType's own Evars/Exports. baseDepth is
// 0 for a freestanding instance type (reached as a bare DT, or nested
// inside another header via an extern desc — its own header, a fresh
// frame). When it *is* the intrinsic ct_instance of an enclosing
// ComponentType, baseDepth is that component's len(Uvars): ct_uvars and
// it_evars form one continuous telescope (spec.md §9 "Instance-type
// exports that reference their own instance's evars use indices internal
// to the instance header" — here extended to also see the owning
// component's uvars, since ct_instance is not reached through an extern
// desc but is a direct structural field of ct).
func wfInstanceBody(it *InstanceType, baseDepth int, region ir.Region) *errors.Report {
	inner := baseDepth + len(it.Evars)
	for _, b := range it.Evars {
		if rep := wfBound(b, PosParam, inner, region); rep != nil {
			return rep
		}
	}
	if rep := wfDeclNames(it.Exports, region); rep != nil {
		return rep
	}
	for _, e := range it.Exports {
		if rep := wfExternDecl(e, PosExport, inner, region); rep != nil {
			return rep
		}
	}
	return nil
}

// wfComponentAt checks a ComponentType's own Uvars/Imports/Instance as one
// continuous telescope; it is always the entry point for a ComponentType,
// whether freestanding or reached through an extern desc, since a
// component type's Uvars are themselves always a fresh local frame (only
// its own intrinsic Instance continues the same frame, never a sibling
// extern desc's nested header).
func wfComponentAt(ct *ComponentType, region ir.Region) *errors.Report {
	local := len(ct.Uvars)
	for _, b := range ct.Uvars {
		if rep := wfBound(b, PosParam, local, region); rep != nil {
			return rep
		}
	}
	if rep := wfDeclNames(ct.Imports, region); rep != nil {
		return rep
	}
	for _, im := range ct.Imports {
		if rep := wfExternDecl(im, PosParam, local, region); rep != nil {
			return rep
		}
	}
	return wfInstanceBody(&ct.Instance, local, region)
}

// WellFormed checks dt at the top level (no ambient bound variables in
// scope, spec.md §4.1).
func WellFormed(dt DT, pos Position, region ir.Region) *errors.Report {
	return wf(dt, pos, 0, region)
}
