// Package canon implements the canonical-ABI bridge (spec.md §4.6):
// flattening component-level value/function types to core numeric types,
// validating canon.lift/canon.lower against that flattening, and the
// resource.{new,drop,rep} built-ins' signatures.
//
// Grounded on the teacher's internal/codegen lowering pass — a recursive
// descent over a typed tree that emits one flat sequence of machine-level
// slots per structured value, capping and spilling to a pointer once the
// slot budget is exceeded. The Component Model's fixed flattening rules
// are a direct, simpler analogue: this package keeps the same
// "recurse, concatenate, cap-and-spill" shape.
package canon

import (
	"fmt"

	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/ir"
	"github.com/waclang/waccheck/internal/types"
)

// MaxFlatParams/MaxFlatResults are the caps spec.md §4.6 fixes: a function
// whose flattened param/result count exceeds either is flattened instead
// to a single pointer slot.
const (
	MaxFlatParams  = 16
	MaxFlatResults = 1
)

// FlattenValType flattens one value type to a sequence of core numeric
// types per the fixed lowering rules (spec.md §4.6): numeric primitives
// to their obvious core type; char/bool to i32; list/string to (i32,i32);
// record to the concatenation of its fields' flattenings; variant to a
// discriminant (sized by case count) followed by the per-case payload
// merge; own/borrow to i32.
func FlattenValType(dt types.DT) []types.CoreValType {
	switch t := dt.(type) {
	case types.VPrim:
		switch t.Kind {
		case types.PrimS64, types.PrimU64:
			return []types.CoreValType{types.CoreI64}
		case types.PrimF32:
			return []types.CoreValType{types.CoreF32}
		case types.PrimF64:
			return []types.CoreValType{types.CoreF64}
		default:
			// bool, s8/u8/s16/u16/s32/u32, char all flatten to i32.
			return []types.CoreValType{types.CoreI32}
		}
	case types.VList:
		return []types.CoreValType{types.CoreI32, types.CoreI32} // ptr, len
	case types.VRecord:
		var out []types.CoreValType
		for _, f := range t.Fields {
			out = append(out, FlattenValType(f.Type)...)
		}
		return out
	case types.VTuple:
		var out []types.CoreValType
		for _, e := range t.Elems {
			out = append(out, FlattenValType(e)...)
		}
		return out
	case types.VFlags:
		return []types.CoreValType{discriminantType(len(t.Names))}
	case types.VVariant:
		return flattenVariantLikeTypes(discriminantType(len(t.Cases)), caseFields(t.Cases))
	case types.VEnum:
		return []types.CoreValType{discriminantType(len(t.Tags))}
	case types.VUnion:
		cases := make([][]types.DT, len(t.Arms))
		for i, a := range t.Arms {
			cases[i] = []types.DT{a}
		}
		return flattenVariantLikeTypes(discriminantType(len(t.Arms)), cases)
	case types.VOption:
		return flattenVariantLikeTypes(discriminantType(2), [][]types.DT{nil, {t.Elem}})
	case types.VExpected:
		okArm, errArm := []types.DT{}, []types.DT{}
		if t.Ok != nil {
			okArm = []types.DT{t.Ok}
		}
		if t.Err != nil {
			errArm = []types.DT{t.Err}
		}
		return flattenVariantLikeTypes(discriminantType(2), [][]types.DT{okArm, errArm})
	case types.VOwn, types.VBorrow, types.DResourceType, types.DVar:
		return []types.CoreValType{types.CoreI32}
	default:
		return []types.CoreValType{types.CoreI32}
	}
}

// discriminantType sizes a variant/enum/flags discriminant by case count
// (spec.md §4.6 "u8/u16/u32 by case count"): all three widths flatten to
// a core i32 regardless, since core Wasm has no sub-i32 integer type —
// the distinction only matters to the linear-memory encoding, which is
// out of this engine's scope.
func discriminantType(numCases int) types.CoreValType {
	_ = numCases
	return types.CoreI32
}

func caseFields(cases []types.Case) [][]types.DT {
	out := make([][]types.DT, len(cases))
	for i, c := range cases {
		if c.Payload != nil {
			out[i] = []types.DT{c.Payload}
		}
	}
	return out
}

// flattenVariantLikeTypes merges each case's flattened payload slot-wise
// (spec.md §4.6 "i32+f32 -> i32; otherwise widen to i64 on conflict"),
// then prefixes the discriminant.
func flattenVariantLikeTypes(disc types.CoreValType, cases [][]types.DT) []types.CoreValType {
	var merged []types.CoreValType
	for _, payload := range cases {
		var flat []types.CoreValType
		for _, p := range payload {
			flat = append(flat, FlattenValType(p)...)
		}
		for i, ct := range flat {
			if i >= len(merged) {
				merged = append(merged, ct)
				continue
			}
			merged[i] = mergeCoreType(merged[i], ct)
		}
	}
	return append([]types.CoreValType{disc}, merged...)
}

func mergeCoreType(a, b types.CoreValType) types.CoreValType {
	if a == b {
		return a
	}
	// An i32/f32 pair shares a 32-bit slot and merges to i32.
	if (a == types.CoreI32 && b == types.CoreF32) || (a == types.CoreF32 && b == types.CoreI32) {
		return types.CoreI32
	}
	// Every other conflict (i32/i64, f32/f64, any int/float mix involving
	// a 64-bit type) widens to i64, the catch-all bit-pattern slot.
	return types.CoreI64
}

func isInt(c types.CoreValType) bool   { return c == types.CoreI32 || c == types.CoreI64 }
func isFloat(c types.CoreValType) bool { return c == types.CoreF32 || c == types.CoreF64 }

// Direction distinguishes a flattening computed for canon lift (core ->
// component) from one computed for canon lower (component -> core):
// spec.md §4.6 "flatten(f, lift=false)" vs "flatten(f, lift=true)" — the
// overflow-to-pointer rule differs by direction and by params-vs-result.
type Direction int

const (
	Lift Direction = iota
	Lower
)

// FlattenFunc computes a function type's flattened core signature, per
// spec.md §4.6: overflowing params become a single pointer i32;
// overflowing results become a single pointer i32 in params (on lower)
// or in results (on lift).
func FlattenFunc(f *types.DFunc, dir Direction) *types.CoreFuncType {
	params := flattenParamList(f.Params)
	results := flattenParamList(f.Result)

	if len(params) > MaxFlatParams {
		params = []types.CoreValType{types.CoreI32}
	}
	if len(results) > MaxFlatResults {
		switch dir {
		case Lower:
			params = append(params, types.CoreI32)
			results = nil
		case Lift:
			results = []types.CoreValType{types.CoreI32}
		}
	}
	return &types.CoreFuncType{Params: params, Results: results}
}

func flattenParamList(p types.ParamList) []types.CoreValType {
	if p.Unnamed != nil {
		return FlattenValType(p.Unnamed)
	}
	var out []types.CoreValType
	for _, f := range p.Named {
		out = append(out, FlattenValType(f.Type)...)
	}
	return out
}

func coreFuncTypesEqual(a, b *types.CoreFuncType) bool {
	if len(a.Params) != len(b.Params) || len(a.Results) != len(b.Results) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	for i := range a.Results {
		if a.Results[i] != b.Results[i] {
			return false
		}
	}
	return true
}

// Lift validates `canon lift cf as f` (spec.md §4.6): cf's core type must
// match flatten(f, lift=false) — the shape a core function must present
// to be wrapped as the component function f. Returns f on success so the
// caller can register it as a new component function.
func LiftFunc(cf *types.CoreFuncType, f *types.DFunc, opts ir.CanonOpts, region ir.Region) (*types.DFunc, *errors.Report) {
	want := FlattenFunc(f, Lift)
	if !coreFuncTypesEqual(cf, want) {
		return nil, errors.New(errors.CA001, errors.CategoryInvalid, region,
			fmt.Sprintf("canon lift core function shape %v does not match flattened signature %v", cf, want))
	}
	if rep := validateOpts(opts, region); rep != nil {
		return nil, rep
	}
	return f, nil
}

// Lower validates `canon lower f as cf` by computing flatten(f,
// lift=true) and returning the resulting core function type to register.
func LowerFunc(f *types.DFunc, opts ir.CanonOpts, region ir.Region) (*types.CoreFuncType, *errors.Report) {
	if rep := validateOpts(opts, region); rep != nil {
		return nil, rep
	}
	return FlattenFunc(f, Lower), nil
}

// validateOpts accepts canon options structurally (spec.md §4.6
// "accepted structurally; presence/absence rules are out of scope"): the
// only check this engine performs is that a declared string-encoding
// names one of the three forms the Component Model defines.
func validateOpts(opts ir.CanonOpts, region ir.Region) *errors.Report {
	switch opts.StringEncoding {
	case "", "utf8", "utf16", "latin1+utf16":
		return nil
	default:
		return errors.New(errors.CA001, errors.CategoryInvalid, region,
			fmt.Sprintf("unrecognized string encoding %q", opts.StringEncoding))
	}
}

// NewResource validates `resource.new R`: R must be a locally-defined
// resource type (a DResourceType minted in this component, not an
// imported abstract uvar-bounded one). Yields the core function type
// (i32) -> (i32).
func NewResource(r types.DT, region ir.Region) (*types.CoreFuncType, *errors.Report) {
	if _, ok := r.(types.DResourceType); !ok {
		return nil, errors.New(errors.CA002, errors.CategoryInvalid, region,
			"resource.new operand is not a locally-defined resource type")
	}
	return &types.CoreFuncType{Params: []types.CoreValType{types.CoreI32}, Results: []types.CoreValType{types.CoreI32}}, nil
}

// DropResource validates `resource.drop t`: t must be an own or borrow
// handle. Yields (i32) -> ().
func DropResource(t types.DT, region ir.Region) (*types.CoreFuncType, *errors.Report) {
	switch t.(type) {
	case types.VOwn, types.VBorrow:
		return &types.CoreFuncType{Params: []types.CoreValType{types.CoreI32}}, nil
	default:
		return nil, errors.New(errors.CA002, errors.CategoryInvalid, region,
			"resource.drop operand is not an own or borrow handle")
	}
}

// RepResource validates `resource.rep R`: R must be locally defined.
// Yields (i32) -> (i32).
func RepResource(r types.DT, region ir.Region) (*types.CoreFuncType, *errors.Report) {
	if _, ok := r.(types.DResourceType); !ok {
		return nil, errors.New(errors.CA002, errors.CategoryInvalid, region,
			"resource.rep operand is not a locally-defined resource type")
	}
	return &types.CoreFuncType{Params: []types.CoreValType{types.CoreI32}, Results: []types.CoreValType{types.CoreI32}}, nil
}

// OwnBorrowLiftLowerSubtype implements the one context in which `own r`
// may satisfy a `borrow r` position (spec.md §4.4 "permitted when
// subtyping flows into a borrow position (lift/lower only)"): a lowered
// argument of type `own r` may be passed where the core signature expects
// the handle flattening of `borrow r`, since both flatten identically to
// a bare i32 handle and lowering only ever borrows for the duration of
// the call. This is deliberately not part of types.Subtype's generic
// judgment (DESIGN.md) — it would only hold at an actual lowered call's
// argument-checking site, never for a borrow stored or re-exported
// elsewhere.
//
// Not currently called from this engine's own validation paths: §4.6's
// `LiftFunc`/`LowerFunc` only ever compare a declared function type
// against its *flattened core* shape, where own and borrow already
// collapse to the same i32 handle — there is no second component-level
// type for this function to adjudicate between until something in this
// engine checks an actual call argument's type against a callee
// parameter's type at the point of lowering, which requires modeling
// call/invocation and is out of this static elaboration engine's scope
// (DESIGN.md). Kept and tested as the literal rule spec.md §4.4 names,
// ready to be called from that check if invocation modeling is added.
func OwnBorrowLiftLowerSubtype(arg types.DT, want types.DT) bool {
	own, isOwn := arg.(types.VOwn)
	borrow, isBorrow := want.(types.VBorrow)
	if !isOwn || !isBorrow {
		return false
	}
	return resourceRefEqual(own.Resource, borrow.Resource)
}

func resourceRefEqual(a, b types.DT) bool {
	switch av := a.(type) {
	case types.DResourceType:
		bv, ok := b.(types.DResourceType)
		return ok && av.ID == bv.ID
	case types.DVar:
		bv, ok := b.(types.DVar)
		return ok && av.Var.Kind == bv.Var.Kind && av.Var.ID == bv.Var.ID && av.Var.Bound == bv.Var.Bound
	default:
		return false
	}
}
