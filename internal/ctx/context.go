// Package ctx implements the definition context (spec.md §3 "Context",
// §4.10 "Top-level driver"): the accumulating, immutable-per-step record
// that a component's definitions fold into. It is grounded on the
// teacher's internal/types/env.go TypeEnv idiom — an immutable chain with
// a parent link — generalized from a single flat binding map to the
// Component Model's sort-indexed lists (core and component level) plus
// the uvar/evar/resource-identity bookkeeping spec.md §3 describes.
package ctx

import (
	"github.com/waclang/waccheck/internal/rtid"
	"github.com/waclang/waccheck/internal/types"
)

// ValueSlot is a live/dead-tracked component value (spec.md §3
// "Lifecycle").
type ValueSlot struct {
	Type types.DT
	Live bool
}

// InstanceSlot is an instantiated/aliased instance; liveness is tracked
// per export, not for the instance as a whole (spec.md §3 "Instance-export
// slots").
type InstanceSlot struct {
	Type *types.InstanceType
	Live []bool // parallel to Type.Exports
}

// TypeSlot is a non-resource local type definition (an `eq` alias or an
// abstract `sub resource` placeholder that is not itself a minted
// resource identity — e.g. a locally-declared type bound opened from an
// instance-type header).
type TypeSlot struct {
	Bound types.Bound
}

// RTypeSlot is a minted resource-type identity (spec.md §3 "Resource
// types", I3).
type RTypeSlot struct {
	ID   rtid.ID
	Dtor *int
}

// UvarSlot/EvarSlot register a free variable's bound, and for evars an
// optional discovered witness (spec.md §3 "carry an optional concrete
// witness for post-checking transparency").
type UvarSlot struct{ Bound types.Bound }

type EvarSlot struct {
	Bound   types.Bound
	Witness types.DT // nil until discovered
}

// CoreContext is the core-Wasm sub-context (spec.md §3).
type CoreContext struct {
	Modules   []*types.CoreModuleType
	Instances []*types.CoreInstanceType
	Funcs     []*types.CoreFuncType
	Tables    []string
	Mems      []string
	Globals   []string
	Types     []types.CoreExternDesc
}

// Context is the component-level definition context. It is threaded
// through definition folding by value: every Add* method returns a new
// *Context (sharing unmodified slices' backing arrays where Go's append
// semantics allow, per spec.md §9 "prefer explicit tombstones... contexts
// are threaded pure-functionally so a failed definition leaves the prior
// context intact").
type Context struct {
	Parent *Context
	Depth  int // nesting depth from the root component, used for uvar/evar display

	// ExportsMayReferUvars is the flag spec.md §3 describes: "a flag
	// marking whether type exports beyond the current boundary may refer
	// to uvars". Root and Child always set it to true, and nothing in the
	// engine reads or clears it; CX002 is enforced by internal/driver's
	// check of each export's free uvars against the component's own
	// type imports.
	ExportsMayReferUvars bool

	Core CoreContext

	Components []*types.ComponentType
	Instances  []InstanceSlot
	Funcs      []*types.DFunc
	Values     []ValueSlot
	Types      []TypeSlot
	RTypes     []RTypeSlot
	Uvars      []UvarSlot
	Evars      []EvarSlot
}

// Root returns a fresh empty top-level context.
func Root() *Context {
	return &Context{ExportsMayReferUvars: true}
}

// Child derives a nested context for a child component/instance type,
// linked to its parent for `outer` aliases (spec.md §4.8).
func (c *Context) Child() *Context {
	return &Context{Parent: c, Depth: c.Depth + 1, ExportsMayReferUvars: true}
}

func (c *Context) clone() *Context {
	cp := *c
	return &cp
}

func (c *Context) AddCoreModule(t *types.CoreModuleType) (*Context, int) {
	cp := c.clone()
	cp.Core.Modules = append(append([]*types.CoreModuleType{}, c.Core.Modules...), t)
	return cp, len(cp.Core.Modules) - 1
}

func (c *Context) AddCoreInstance(t *types.CoreInstanceType) (*Context, int) {
	cp := c.clone()
	cp.Core.Instances = append(append([]*types.CoreInstanceType{}, c.Core.Instances...), t)
	return cp, len(cp.Core.Instances) - 1
}

func (c *Context) AddCoreFunc(t *types.CoreFuncType) (*Context, int) {
	cp := c.clone()
	cp.Core.Funcs = append(append([]*types.CoreFuncType{}, c.Core.Funcs...), t)
	return cp, len(cp.Core.Funcs) - 1
}

func (c *Context) AddCoreType(d types.CoreExternDesc) (*Context, int) {
	cp := c.clone()
	cp.Core.Types = append(append([]types.CoreExternDesc{}, c.Core.Types...), d)
	return cp, len(cp.Core.Types) - 1
}

func (c *Context) AddComponent(t *types.ComponentType) (*Context, int) {
	cp := c.clone()
	cp.Components = append(append([]*types.ComponentType{}, c.Components...), t)
	return cp, len(cp.Components) - 1
}

// AddInstance registers a new instance with every export initially live.
func (c *Context) AddInstance(t *types.InstanceType) (*Context, int) {
	cp := c.clone()
	live := make([]bool, len(t.Exports))
	for i := range live {
		live[i] = true
	}
	cp.Instances = append(append([]InstanceSlot{}, c.Instances...), InstanceSlot{Type: t, Live: live})
	return cp, len(cp.Instances) - 1
}

func (c *Context) AddFunc(t *types.DFunc) (*Context, int) {
	cp := c.clone()
	cp.Funcs = append(append([]*types.DFunc{}, c.Funcs...), t)
	return cp, len(cp.Funcs) - 1
}

// AddValue registers a new live value slot.
func (c *Context) AddValue(t types.DT) (*Context, int) {
	cp := c.clone()
	cp.Values = append(append([]ValueSlot{}, c.Values...), ValueSlot{Type: t, Live: true})
	return cp, len(cp.Values) - 1
}

func (c *Context) AddType(b types.Bound) (*Context, int) {
	cp := c.clone()
	cp.Types = append(append([]TypeSlot{}, c.Types...), TypeSlot{Bound: b})
	return cp, len(cp.Types) - 1
}

// AddResourceType mints a fresh resource identity and registers it
// (spec.md §3 "generative": each call yields a distinct rtid.ID, P5).
func (c *Context) AddResourceType(id rtid.ID, dtor *int) (*Context, int) {
	cp := c.clone()
	cp.RTypes = append(append([]RTypeSlot{}, c.RTypes...), RTypeSlot{ID: id, Dtor: dtor})
	return cp, len(cp.RTypes) - 1
}

// AddUvar opens a bound into a fresh universal variable and returns the
// types.DVar referencing it, at c's own nesting Depth.
func (c *Context) AddUvar(b types.Bound) (*Context, types.DVar) {
	cp := c.clone()
	cp.Uvars = append(append([]UvarSlot{}, c.Uvars...), UvarSlot{Bound: b})
	idx := len(cp.Uvars) - 1
	return cp, types.DVar{Var: types.TypeVar{Kind: types.VarUvar, Depth: c.Depth, ID: idx}}
}

// AddEvar opens a bound into a fresh existential variable.
func (c *Context) AddEvar(b types.Bound) (*Context, types.DVar) {
	cp := c.clone()
	cp.Evars = append(append([]EvarSlot{}, c.Evars...), EvarSlot{Bound: b})
	idx := len(cp.Evars) - 1
	return cp, types.DVar{Var: types.TypeVar{Kind: types.VarEvar, Depth: c.Depth, ID: idx}}
}

// ResolveEvarWitness records the concrete type an evar stands for, once
// discovered (spec.md §3 "carry an optional concrete witness").
func (c *Context) ResolveEvarWitness(id int, witness types.DT) *Context {
	cp := c.clone()
	slots := append([]EvarSlot{}, c.Evars...)
	slots[id].Witness = witness
	cp.Evars = slots
	return cp
}

// Resolver builds a types.Resolver that expands a uvar/evar through its
// recorded `eq` bound or discovered witness, walking the parent chain for
// variables minted at an enclosing depth.
func (c *Context) Resolver() types.Resolver {
	return func(v types.TypeVar) (types.DT, bool) {
		owner := c.atDepth(v.Depth)
		if owner == nil {
			return nil, false
		}
		switch v.Kind {
		case types.VarUvar:
			if v.ID < 0 || v.ID >= len(owner.Uvars) {
				return nil, false
			}
			if eq, ok := owner.Uvars[v.ID].Bound.(types.BoundEq); ok {
				return eq.Type, true
			}
			return nil, false
		case types.VarEvar:
			if v.ID < 0 || v.ID >= len(owner.Evars) {
				return nil, false
			}
			if w := owner.Evars[v.ID].Witness; w != nil {
				return w, true
			}
			if eq, ok := owner.Evars[v.ID].Bound.(types.BoundEq); ok {
				return eq.Type, true
			}
			return nil, false
		default:
			return nil, false
		}
	}
}

func (c *Context) atDepth(depth int) *Context {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur.Depth == depth {
			return cur
		}
	}
	return nil
}

// OuterAncestor walks depth ancestors up the parent chain for an
// `alias outer depth idx` reference (spec.md §4.8) and returns that
// ancestor, or nil if the chain is shorter than depth. It does not index
// into the ancestor's lists; callers do that, and raise CX001 when the
// target turns out to be a type variable.
func (c *Context) OuterAncestor(depth int) *Context {
	cur := c
	for i := 0; i < depth && cur != nil; i++ {
		cur = cur.Parent
	}
	return cur
}
