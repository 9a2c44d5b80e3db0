package ir

// Def is one definition in a component body, processed in source order
// (spec.md §5). Every Def carries the region of its own definition for
// diagnostics; sub-fields carry their own regions where useful.
type Def interface {
	isDef()
	Region() Region
}

// ---- core definitions ----

// CoreModuleDef represents an embedded core Wasm module. Its bytes are out
// of scope (binary decoding is an external collaborator); the IR carries
// only the module type the trusted core-Wasm validator already computed.
type CoreModuleDef struct {
	Node
	ModuleType CoreModuleTypeExpr
}

func (CoreModuleDef) isDef() {}

type InstantiateArg struct {
	Name string
	Sort Sort
	Idx  int
}

type CoreInstantiateModuleDef struct {
	Node
	ModuleIdx int
	Args      []InstantiateArg
}

func (CoreInstantiateModuleDef) isDef() {}

type InlineExport struct {
	Name string
	Sort Sort
	Idx  int
}

type CoreInstantiateInlineDef struct {
	Node
	Exports []InlineExport
}

func (CoreInstantiateInlineDef) isDef() {}

type CoreTypeDef struct {
	Node
	Desc CoreExternDescExpr
}

func (CoreTypeDef) isDef() {}

// ---- component-level instance/component definitions ----

type ComponentDef struct {
	Node
	Body *Component
}

func (ComponentDef) isDef() {}

type InstantiateComponentDef struct {
	Node
	ComponentIdx int
	Args         []InstantiateArg
}

func (InstantiateComponentDef) isDef() {}

type InstantiateInlineDef struct {
	Node
	Exports []InlineExport
}

func (InstantiateInlineDef) isDef() {}

// ---- aliases (spec.md §4.8) ----

type AliasExportDef struct {
	Node
	InstanceIdx int
	ExportName  string
	Sort        Sort
}

func (AliasExportDef) isDef() {}

type AliasCoreExportDef struct {
	Node
	InstanceIdx int
	ExportName  string
	Sort        CoreSort
}

func (AliasCoreExportDef) isDef() {}

type AliasOuterDef struct {
	Node
	Depth int
	Idx   int
	Sort  Sort
}

func (AliasOuterDef) isDef() {}

// ---- type definitions ----

// TypeDef is a `type $t ...` definition. A resource declaration is a
// TypeDef whose Desc is DescType with a TypeBound that is neither an alias
// to an existing type nor an eq-binding but a fresh resource declaration;
// IsResource distinguishes that case (spec.md §3 "Resource types").
type TypeDef struct {
	Node
	Desc       ExternDescExpr
	IsResource bool
	Dtor       *int // core func idx of the destructor, if any
}

func (TypeDef) isDef() {}

// ---- canonical ABI definitions (spec.md §4.6) ----

type CanonOpts struct {
	StringEncoding string // "utf8" | "utf16" | "latin1+utf16", accepted structurally
	Memory         *int   // core memory idx, if present
	Realloc        *int   // core func idx, if present
	PostReturn     *int   // core func idx, if present
}

type CanonLiftDef struct {
	Node
	CoreFuncIdx int
	FuncType    FuncTypeExpr
	Opts        CanonOpts
}

func (CanonLiftDef) isDef() {}

type CanonLowerDef struct {
	Node
	FuncIdx int
	Opts    CanonOpts
}

func (CanonLowerDef) isDef() {}

type ResourceNewDef struct {
	Node
	ResourceIdx int
}

func (ResourceNewDef) isDef() {}

type ResourceDropDef struct {
	Node
	HandleTypeIdx int
}

func (ResourceDropDef) isDef() {}

type ResourceRepDef struct {
	Node
	ResourceIdx int
}

func (ResourceRepDef) isDef() {}

// ---- start (spec.md §4.7) ----

type StartDef struct {
	Node
	FuncIdx     int
	ValueArgs   []int
	ResultCount int
}

func (StartDef) isDef() {}

// ---- imports / exports (spec.md §4.9) ----

type ImportDef struct {
	Node
	Name ExternName
	Desc ExternDescExpr
}

func (ImportDef) isDef() {}

type SortedIdx struct {
	Sort Sort
	Idx  int
}

type ExportDef struct {
	Node
	Name       ExternName
	Ref        SortedIdx
	Ascription *ExternDescExpr // nil if the export is unascribed
}

func (ExportDef) isDef() {}

// Component is a sequence of definitions, the unit the engine checks
// (spec.md §2 "invoked per component definition").
type Component struct {
	Reg  Region
	Defs []Def
}
