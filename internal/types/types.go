// Package types implements the Component Model's definition-type algebra
// (spec.md §3 "Data model", §4.1 "Type model & well-formedness"): value
// types, function types, instance/component types, resource types, and the
// three populations of type variable, plus their well-formedness,
// substitution and subtyping operations (§4.2, §4.4).
package types

import (
	"fmt"

	"github.com/waclang/waccheck/internal/rtid"
)

// DT is the sum of every definition-type form spec.md §3 names: a value
// type, a function type, a component type, an instance type, a resource
// type, or a type-variable reference.
type DT interface {
	isDT()
	String() string
}

// PrimKind mirrors ir.PrimKind one-for-one; kept as a distinct type so the
// elaborated type algebra never imports the pre-elaboration IR package.
type PrimKind int

const (
	PrimBool PrimKind = iota
	PrimS8
	PrimU8
	PrimS16
	PrimU16
	PrimS32
	PrimU32
	PrimS64
	PrimU64
	PrimF32
	PrimF64
	PrimChar
	PrimString
)

func (k PrimKind) String() string {
	names := [...]string{"bool", "s8", "u8", "s16", "u16", "s32", "u32", "s64", "u64", "f32", "f64", "char", "string"}
	if int(k) < len(names) {
		return names[k]
	}
	return "prim?"
}

type VPrim struct{ Kind PrimKind }

func (VPrim) isDT()            {}
func (v VPrim) String() string { return v.Kind.String() }

type Field struct {
	Name string
	Type DT
}

type VRecord struct{ Fields []Field }

func (VRecord) isDT() {}
func (v VRecord) String() string {
	s := "record {"
	for i, f := range v.Fields {
		if i > 0 {
			s += ", "
		}
		s += f.Name + ": " + f.Type.String()
	}
	return s + "}"
}

type Case struct {
	Name    string
	Payload DT // nil if this case has no payload
	Refines string
}

type VVariant struct{ Cases []Case }

func (VVariant) isDT() {}
func (v VVariant) String() string {
	s := "variant {"
	for i, c := range v.Cases {
		if i > 0 {
			s += ", "
		}
		s += c.Name
		if c.Payload != nil {
			s += "(" + c.Payload.String() + ")"
		}
	}
	return s + "}"
}

type VList struct{ Elem DT }

func (VList) isDT()            {}
func (v VList) String() string { return "list<" + v.Elem.String() + ">" }

type VTuple struct{ Elems []DT }

func (VTuple) isDT() {}
func (v VTuple) String() string {
	s := "tuple<"
	for i, e := range v.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ">"
}

type VFlags struct{ Names []string }

func (VFlags) isDT()            {}
func (v VFlags) String() string { return fmt.Sprintf("flags(%d)", len(v.Names)) }

type VEnum struct{ Tags []string }

func (VEnum) isDT()            {}
func (v VEnum) String() string { return fmt.Sprintf("enum(%d)", len(v.Tags)) }

type VUnion struct{ Arms []DT }

func (VUnion) isDT() {}
func (v VUnion) String() string {
	s := "union<"
	for i, a := range v.Arms {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ">"
}

type VOption struct{ Elem DT }

func (VOption) isDT()            {}
func (v VOption) String() string { return "option<" + v.Elem.String() + ">" }

type VExpected struct{ Ok, Err DT } // either may be nil

func (VExpected) isDT() {}
func (v VExpected) String() string {
	ok, err := "_", "_"
	if v.Ok != nil {
		ok = v.Ok.String()
	}
	if v.Err != nil {
		err = v.Err.String()
	}
	return "expected<" + ok + ", " + err + ">"
}

// VOwn/VBorrow reference a resource type: either a DVar bounded by
// `sub resource` (an imported abstract resource) or a DResourceType (a
// locally-minted generative identity).
type VOwn struct{ Resource DT }

func (VOwn) isDT()            {}
func (v VOwn) String() string { return "own<" + v.Resource.String() + ">" }

type VBorrow struct{ Resource DT }

func (VBorrow) isDT()            {}
func (v VBorrow) String() string { return "borrow<" + v.Resource.String() + ">" }

// ---- type variables (spec.md §3 "Type variables") ----

type VarKind int

const (
	VarBound VarKind = iota
	VarUvar
	VarEvar
)

// TypeVar is one of the three variable populations. Bound carries a de
// Bruijn index valid only within the same type's header (I1); Uvar/Evar
// carry a context-nesting Depth plus a slot index k into that context's
// uvars/evars list (spec.md §3: "FTV_evar (depth, k)"; uvars share the
// same (depth, k) shape for display, though the data model only requires
// k), minted fresh whenever a binder is opened into the context (spec.md
// §9 Design Notes: "never pointer-identity comparisons").
type TypeVar struct {
	Kind  VarKind
	Bound int // meaningful iff Kind == VarBound
	Depth int // meaningful iff Kind != VarBound: owning context's nesting depth
	ID    int // meaningful iff Kind != VarBound: uvar/evar slot index
}

func (v TypeVar) String() string {
	switch v.Kind {
	case VarBound:
		return fmt.Sprintf("bound#%d", v.Bound)
	case VarUvar:
		return fmt.Sprintf("u%d.%d", v.Depth, v.ID)
	default:
		return fmt.Sprintf("e%d.%d", v.Depth, v.ID)
	}
}

// DVar is a DT wrapping a type variable reference.
type DVar struct{ Var TypeVar }

func (DVar) isDT()            {}
func (v DVar) String() string { return v.Var.String() }

// Bound is a type variable's bound: either `sub resource` or `eq <DT>`.
type Bound interface{ isBound() }

type BoundSubResource struct{}

func (BoundSubResource) isBound() {}

type BoundEq struct{ Type DT }

func (BoundEq) isBound() {}

// DResourceType is a generative resource identity (spec.md §3, §9
// "Generative"). Two DResourceType values are the same resource type iff
// their ID is equal; IDs are minted by internal/rtid at declaration sites
// and never reused.
type DResourceType struct {
	ID       rtid.ID
	Dtor     *int // core func idx of the destructor, if any
}

func (DResourceType) isDT()            {}
func (v DResourceType) String() string { return "resource#" + string(v.ID) }

// ---- function / instance / component types ----

// ParamList is either the single-unnamed form or the named-list form
// (spec.md §3 "Function types").
type ParamList struct {
	Unnamed DT      // non-nil iff single-unnamed form
	Named   []Field // non-nil iff named-list form
}

func (p ParamList) isEmpty() bool { return p.Unnamed == nil && len(p.Named) == 0 }

type DFunc struct {
	Params ParamList
	Result ParamList
}

func (DFunc) isDT() {}
func (v DFunc) String() string {
	return fmt.Sprintf("func(%v) -> %v", v.Params, v.Result)
}

type ExternDescKind int

const (
	DescCoreModule ExternDescKind = iota
	DescFunc
	DescValue
	DescType
	DescInstance
	DescComponent
)

// ExternDesc is the elaborated "what it is" side of an extern decl
// (spec.md §3).
type ExternDesc struct {
	Kind ExternDescKind

	CoreModule *CoreModuleType
	Func       *DFunc
	Value      DT
	TypeBound  Bound
	Instance   *InstanceType
	Component  *ComponentType
}

// ExternName mirrors ir.ExternName; kept distinct from the IR so the
// elaborated algebra has no import on ir beyond what subtyping needs for
// diagnostics.
type ExternName struct {
	Interface bool
	Text      string
}

type ExternDecl struct {
	Name ExternName
	Desc ExternDesc
}

// InstanceType carries the existentials an instance's exports may mention,
// plus the exports themselves (spec.md §3).
type InstanceType struct {
	Evars   []Bound
	Exports []ExternDecl
}

func (t *InstanceType) isDT()         {}
func (t *InstanceType) String() string { return fmt.Sprintf("instance{%d exports}", len(t.Exports)) }

// ComponentType carries the universal variables a component's imports may
// mention, the imports themselves, and the resulting instance type
// (spec.md §3).
type ComponentType struct {
	Uvars   []Bound
	Imports []ExternDecl
	Instance InstanceType
}

func (t *ComponentType) isDT() {}
func (t *ComponentType) String() string {
	return fmt.Sprintf("component{%d imports, %d exports}", len(t.Imports), len(t.Instance.Exports))
}

// Position parameterizes well-formedness (spec.md §4.1).
type Position int

const (
	PosParam Position = iota
	PosExport
)
