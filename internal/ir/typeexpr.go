package ir

// TypeExpr is a resolved (post variable-resolution) surface type expression,
// the input to elaboration (spec.md §4.3). Variable references inside a
// TypeExpr are either a LocalRef (an index into binders introduced earlier
// in the same type-level declaration list) or an OuterRef (spec.md §4.8
// "alias outer").
type TypeExpr interface {
	isTypeExpr()
	Region() Region
}

type Node struct{ Reg Region }

func (n Node) Region() Region { return n.Reg }

// Primitive value types (spec.md §3).
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

type TPrim struct {
	Node
	Kind PrimKind
}

func (TPrim) isTypeExpr() {}

// NamedType is one (name, type) pair, used by records, named params/results.
type NamedType struct {
	Name string
	Type TypeExpr
}

type TRecord struct {
	Node
	Fields []NamedType
}

func (TRecord) isTypeExpr() {}

// VariantCase is one (name, optional payload, optional refines) case.
type VariantCase struct {
	Name    string
	Payload TypeExpr // nil if this case carries no payload
	Refines string    // name of a preceding case this one refines, "" if none
}

type TVariant struct {
	Node
	Cases []VariantCase
}

func (TVariant) isTypeExpr() {}

type TList struct {
	Node
	Elem TypeExpr
}

func (TList) isTypeExpr() {}

type TTuple struct {
	Node
	Elems []TypeExpr
}

func (TTuple) isTypeExpr() {}

type TFlags struct {
	Node
	Names []string
}

func (TFlags) isTypeExpr() {}

type TEnum struct {
	Node
	Tags []string
}

func (TEnum) isTypeExpr() {}

type TUnion struct {
	Node
	Arms []TypeExpr
}

func (TUnion) isTypeExpr() {}

type TOption struct {
	Node
	Elem TypeExpr
}

func (TOption) isTypeExpr() {}

type TExpected struct {
	Node
	Ok  TypeExpr // nil if omitted
	Err TypeExpr // nil if omitted
}

func (TExpected) isTypeExpr() {}

// TOwn/TBorrow reference a resource type, either a locally defined one
// (LocalRef) or an imported bound resource variable.
type TOwn struct {
	Node
	Resource TypeExpr
}

func (TOwn) isTypeExpr() {}

type TBorrow struct {
	Node
	Resource TypeExpr
}

func (TBorrow) isTypeExpr() {}

// LocalRef is a reference to a type variable bound earlier in the same
// type-level declaration sequence (a de Bruijn-style index local to this
// elaboration), or to a resource/type defined earlier in the same
// component/instance body.
type LocalRef struct {
	Node
	Idx int
}

func (LocalRef) isTypeExpr() {}

// OuterRef is an "alias outer" reference reaching Depth enclosing scopes up
// and indexing Idx into that scope's type list (spec.md §4.8).
type OuterRef struct {
	Node
	Depth int
	Idx   int
}

func (OuterRef) isTypeExpr() {}

// ---- function types ----

// ParamList is either a single unnamed value type or a named, ordered list
// (spec.md §3 "ft_params and ft_result").
type ParamList struct {
	Unnamed TypeExpr    // non-nil iff this list is the unnamed-single form
	Named   []NamedType // non-nil iff this list is the named form
}

type FuncTypeExpr struct {
	Node
	Params ParamList
	Result ParamList
}

func (FuncTypeExpr) isTypeExpr() {}

// ---- type bounds (spec.md §3 "Bounds") ----

type TypeBound interface{ isTypeBound() }

type BoundSubResource struct{}

func (BoundSubResource) isTypeBound() {}

type BoundEq struct{ Type TypeExpr }

func (BoundEq) isTypeBound() {}

// ---- extern descriptors (spec.md §3 "Extern declarations") ----

type ExternDescKind int

const (
	DescCoreModule ExternDescKind = iota
	DescFunc
	DescValue
	DescType
	DescInstance
	DescComponent
)

// ExternDescExpr is the "what it is" side of an extern decl, pre-elaboration.
type ExternDescExpr struct {
	Kind ExternDescKind

	CoreModule *CoreModuleTypeExpr // DescCoreModule
	Func       *FuncTypeExpr       // DescFunc
	Value      TypeExpr            // DescValue
	TypeBound  TypeBound           // DescType
	Instance   *InstanceTypeExpr   // DescInstance
	Component  *ComponentTypeExpr  // DescComponent
}

// ExternNameKind distinguishes a plain kebab-case name from an
// interface-shaped name (spec.md §6).
type ExternNameKind int

const (
	NamePlain ExternNameKind = iota
	NameInterface
)

// ExternName is a named import/export binding's name half.
type ExternName struct {
	Kind ExternNameKind
	Text string // raw text, e.g. "foo-bar" or "wasi:io/poll@0.2.0[method]pollable.block"
}

// ---- type-level declaration lists (component types / instance types) ----

// TypeLevelDecl is one declaration inside a component-type or instance-type
// body (spec.md §4.3): an import (component types only), an export, a local
// type definition that extends the scope for later declarations, or an
// outer alias.
type TypeLevelDecl interface {
	isTypeLevelDecl()
	Region() Region
}

type ImportDecl struct {
	Node
	Name ExternName
	Desc ExternDescExpr
}

func (ImportDecl) isTypeLevelDecl() {}

type ExportDecl struct {
	Node
	Name ExternName
	Desc ExternDescExpr
}

func (ExportDecl) isTypeLevelDecl() {}

// LocalTypeDecl introduces a new slot addressable by LocalRef in subsequent
// declarations of the same list.
type LocalTypeDecl struct {
	Node
	Bound TypeBound
}

func (LocalTypeDecl) isTypeLevelDecl() {}

type OuterAliasDecl struct {
	Node
	Depth int
	Idx   int
	Sort  Sort
}

func (OuterAliasDecl) isTypeLevelDecl() {}

// ComponentTypeExpr is the surface form of a component type: an ordered list
// of imports (and any local type defs/aliases needed to build them), then an
// ordered list of exports (and any local type defs/aliases needed to build
// them). Elaboration (spec.md §4.3) walks Decls in order.
type ComponentTypeExpr struct {
	Reg   Region
	Decls []TypeLevelDecl
}

// InstanceTypeExpr is the surface form of an instance type: like
// ComponentTypeExpr but may not contain ImportDecl.
type InstanceTypeExpr struct {
	Reg   Region
	Decls []TypeLevelDecl
}

// ---- core type vocabulary (delegated to a core-Wasm type oracle) ----

// CoreValType is a core Wasm numeric type, the only vocabulary the
// canonical-ABI flattening rules need (spec.md §4.6).
type CoreValType int

const (
	CoreI32 CoreValType = iota
	CoreI64
	CoreF32
	CoreF64
)

type CoreFuncTypeExpr struct {
	Params  []CoreValType
	Results []CoreValType
}

// CoreExternDescExpr is a core extern descriptor. Table/Memory/Global limits
// are opaque blobs validated by the trusted core-Wasm oracle (spec.md §4.4);
// this engine never inspects their contents, only compares the oracle's
// verdicts.
type CoreExternDescExpr struct {
	Kind     CoreSort
	Func     *CoreFuncTypeExpr
	Opaque   string // Table/Memory/Global: oracle-opaque limits descriptor
	Module   *CoreModuleTypeExpr
	Instance *CoreInstanceTypeExpr
}

type CoreImportDeclExpr struct {
	Module string
	Name   string
	Desc   CoreExternDescExpr
}

type CoreExportDeclExpr struct {
	Name string
	Desc CoreExternDescExpr
}

type CoreModuleTypeExpr struct {
	Imports  []CoreImportDeclExpr
	Instance CoreInstanceTypeExpr
}

type CoreInstanceTypeExpr struct {
	Exports []CoreExportDeclExpr
}
