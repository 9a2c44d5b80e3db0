package types

// Substitution (spec.md §4.2). Bound-variable indices are local to their
// own header: a TV_bound inside a ComponentType's Imports/Instance or an
// InstanceType's Exports addresses only that header's own Uvars/Evars,
// reset to 0 at each header boundary (see wellformed.go). Opening a
// binder (bsubst) therefore substitutes exactly one header's body and
// must NOT descend into any ComponentType/InstanceType nested inside it
// as an extern-desc value: that nested header's own index 0 means
// something else entirely. Free-variable substitution (ftsubst) has no
// such restriction, since uvar/evar references are not header-scoped and
// may legitimately appear at any nesting depth. Their IDs are slot
// indices into the owning context's Uvars/Evars list, and ftsubst matches
// on the ID alone, not on Depth.
type varMap struct {
	f            func(TypeVar) (DT, bool)
	crossHeaders bool
}

// subst walks dt applying vm.f to every DVar it is allowed to reach.
// entered marks whether the traversal has already passed through the one
// header whose binders are being opened; once entered is true and
// crossHeaders is false, a further ComponentType/InstanceType is returned
// unchanged rather than traversed.
func subst(dt DT, vm varMap, entered bool) DT {
	switch t := dt.(type) {
	case VPrim:
		return t
	case VRecord:
		out := make([]Field, len(t.Fields))
		for i, field := range t.Fields {
			out[i] = Field{Name: field.Name, Type: subst(field.Type, vm, entered)}
		}
		return VRecord{Fields: out}
	case VVariant:
		out := make([]Case, len(t.Cases))
		for i, c := range t.Cases {
			var payload DT
			if c.Payload != nil {
				payload = subst(c.Payload, vm, entered)
			}
			out[i] = Case{Name: c.Name, Payload: payload, Refines: c.Refines}
		}
		return VVariant{Cases: out}
	case VList:
		return VList{Elem: subst(t.Elem, vm, entered)}
	case VTuple:
		out := make([]DT, len(t.Elems))
		for i, e := range t.Elems {
			out[i] = subst(e, vm, entered)
		}
		return VTuple{Elems: out}
	case VFlags:
		return t
	case VEnum:
		return t
	case VUnion:
		out := make([]DT, len(t.Arms))
		for i, a := range t.Arms {
			out[i] = subst(a, vm, entered)
		}
		return VUnion{Arms: out}
	case VOption:
		return VOption{Elem: subst(t.Elem, vm, entered)}
	case VExpected:
		out := VExpected{}
		if t.Ok != nil {
			out.Ok = subst(t.Ok, vm, entered)
		}
		if t.Err != nil {
			out.Err = subst(t.Err, vm, entered)
		}
		return out
	case VOwn:
		return VOwn{Resource: subst(t.Resource, vm, entered)}
	case VBorrow:
		return VBorrow{Resource: subst(t.Resource, vm, entered)}
	case DVar:
		if repl, ok := vm.f(t.Var); ok {
			return repl
		}
		return t
	case DResourceType:
		return t
	case DFunc:
		return DFunc{Params: substParamList(t.Params, vm, entered), Result: substParamList(t.Result, vm, entered)}
	case *InstanceType:
		if entered && !vm.crossHeaders {
			return t
		}
		return substInstance(t, vm)
	case *ComponentType:
		if entered && !vm.crossHeaders {
			return t
		}
		return substComponent(t, vm)
	default:
		return dt
	}
}

func substParamList(p ParamList, vm varMap, entered bool) ParamList {
	if p.Unnamed != nil {
		return ParamList{Unnamed: subst(p.Unnamed, vm, entered)}
	}
	out := make([]Field, len(p.Named))
	for i, field := range p.Named {
		out[i] = Field{Name: field.Name, Type: subst(field.Type, vm, entered)}
	}
	return ParamList{Named: out}
}

func substBound(b Bound, vm varMap, entered bool) Bound {
	if eq, ok := b.(BoundEq); ok {
		return BoundEq{Type: subst(eq.Type, vm, entered)}
	}
	return b
}

// substExternDesc/substDecls always run with entered=true: they are only
// ever reached from inside substInstance/substComponent, i.e. already past
// the one header boundary this substitution is allowed to cross.
func substExternDesc(d ExternDesc, vm varMap) ExternDesc {
	out := d
	switch d.Kind {
	case DescFunc:
		fn := subst(*d.Func, vm, true).(DFunc)
		out.Func = &fn
	case DescValue:
		out.Value = subst(d.Value, vm, true)
	case DescType:
		out.TypeBound = substBound(d.TypeBound, vm, true)
	case DescInstance:
		out.Instance = subst(d.Instance, vm, true).(*InstanceType)
	case DescComponent:
		out.Component = subst(d.Component, vm, true).(*ComponentType)
	}
	return out
}

func substDecls(decls []ExternDecl, vm varMap) []ExternDecl {
	out := make([]ExternDecl, len(decls))
	for i, d := range decls {
		out[i] = ExternDecl{Name: d.Name, Desc: substExternDesc(d.Desc, vm)}
	}
	return out
}

func substInstance(it *InstanceType, vm varMap) *InstanceType {
	evars := make([]Bound, len(it.Evars))
	for i, b := range it.Evars {
		evars[i] = substBound(b, vm, true)
	}
	return &InstanceType{Evars: evars, Exports: substDecls(it.Exports, vm)}
}

func substComponent(ct *ComponentType, vm varMap) *ComponentType {
	uvars := make([]Bound, len(ct.Uvars))
	for i, b := range ct.Uvars {
		uvars[i] = substBound(b, vm, true)
	}
	inst := substInstance(&ct.Instance, vm)
	return &ComponentType{Uvars: uvars, Imports: substDecls(ct.Imports, vm), Instance: *inst}
}

// BSubstOpen replaces TV_bound index i, for i in [0, len(reps)), with
// reps[i], within dt's own header body only (spec.md §4.2 "bsubst"): it is
// how a binder is opened into the context, whether with fresh uvars/evars
// or with concrete instantiation arguments. It never rewrites a bound
// variable belonging to a header nested inside dt.
func BSubstOpen(dt DT, reps []DT) DT {
	vm := varMap{crossHeaders: false, f: func(v TypeVar) (DT, bool) {
		if v.Kind != VarBound || v.Bound < 0 || v.Bound >= len(reps) {
			return nil, false
		}
		return reps[v.Bound], true
	}}
	return subst(dt, vm, false)
}

// FTSubstUvar replaces every DVar referencing uvar id with replacement,
// at any nesting depth (spec.md §4.5: recovering a uvar's binding during
// instantiation inference).
func FTSubstUvar(dt DT, id int, replacement DT) DT {
	vm := varMap{crossHeaders: true, f: func(v TypeVar) (DT, bool) {
		if v.Kind == VarUvar && v.ID == id {
			return replacement, true
		}
		return nil, false
	}}
	return subst(dt, vm, false)
}

// FTSubstEvar replaces every DVar referencing evar id with replacement, at
// any nesting depth (resolving its witness once §4.5/§4.6 discover one).
func FTSubstEvar(dt DT, id int, replacement DT) DT {
	vm := varMap{crossHeaders: true, f: func(v TypeVar) (DT, bool) {
		if v.Kind == VarEvar && v.ID == id {
			return replacement, true
		}
		return nil, false
	}}
	return subst(dt, vm, false)
}

// FreeUvars collects the distinct uvar IDs dt mentions, in first-occurrence
// order, at any nesting depth.
func FreeUvars(dt DT) []int {
	var out []int
	seen := make(map[int]bool)
	var walk func(DT)
	walk = func(d DT) {
		switch t := d.(type) {
		case DVar:
			if t.Var.Kind == VarUvar && !seen[t.Var.ID] {
				seen[t.Var.ID] = true
				out = append(out, t.Var.ID)
			}
		case VRecord:
			for _, f := range t.Fields {
				walk(f.Type)
			}
		case VVariant:
			for _, c := range t.Cases {
				if c.Payload != nil {
					walk(c.Payload)
				}
			}
		case VList:
			walk(t.Elem)
		case VTuple:
			for _, e := range t.Elems {
				walk(e)
			}
		case VUnion:
			for _, a := range t.Arms {
				walk(a)
			}
		case VOption:
			walk(t.Elem)
		case VExpected:
			if t.Ok != nil {
				walk(t.Ok)
			}
			if t.Err != nil {
				walk(t.Err)
			}
		case VOwn:
			walk(t.Resource)
		case VBorrow:
			walk(t.Resource)
		case DFunc:
			walkParamList(t.Params, walk)
			walkParamList(t.Result, walk)
		case *InstanceType:
			for _, e := range t.Exports {
				walkDesc(e.Desc, walk)
			}
		case *ComponentType:
			for _, im := range t.Imports {
				walkDesc(im.Desc, walk)
			}
			for _, e := range t.Instance.Exports {
				walkDesc(e.Desc, walk)
			}
		}
	}
	walk(dt)
	return out
}

func walkParamList(p ParamList, walk func(DT)) {
	if p.Unnamed != nil {
		walk(p.Unnamed)
		return
	}
	for _, f := range p.Named {
		walk(f.Type)
	}
}

func walkDesc(d ExternDesc, walk func(DT)) {
	switch d.Kind {
	case DescFunc:
		walkParamList(d.Func.Params, walk)
		walkParamList(d.Func.Result, walk)
	case DescValue:
		walk(d.Value)
	case DescType:
		if eq, ok := d.TypeBound.(BoundEq); ok {
			walk(eq.Type)
		}
	case DescInstance:
		for _, e := range d.Instance.Exports {
			walkDesc(e.Desc, walk)
		}
	case DescComponent:
		for _, im := range d.Component.Imports {
			walkDesc(im.Desc, walk)
		}
		for _, e := range d.Component.Instance.Exports {
			walkDesc(e.Desc, walk)
		}
	}
}
