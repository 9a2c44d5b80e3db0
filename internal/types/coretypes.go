package types

import "github.com/waclang/waccheck/internal/ir"

// The core-Wasm type vocabulary never gains variables or binders during
// elaboration (spec.md §4.6: core types are flat, already fully resolved),
// so the elaborated algebra reuses the IR's core type definitions directly
// rather than re-declaring an identical shadow copy.
type (
	CoreValType       = ir.CoreValType
	CoreFuncType      = ir.CoreFuncTypeExpr
	CoreExternDesc    = ir.CoreExternDescExpr
	CoreImportDecl    = ir.CoreImportDeclExpr
	CoreExportDecl    = ir.CoreExportDeclExpr
	CoreModuleType    = ir.CoreModuleTypeExpr
	CoreInstanceType  = ir.CoreInstanceTypeExpr
	CoreSort          = ir.CoreSort
)

const (
	CoreI32 = ir.CoreI32
	CoreI64 = ir.CoreI64
	CoreF32 = ir.CoreF32
	CoreF64 = ir.CoreF64
)

// coreValTypeSubtype is the trusted core-Wasm oracle stand-in (spec.md §4.4
// "a trusted core-Wasm validator decides core subtyping"): numeric value
// types core-subtype only themselves, which is all §4.6's flattening rules
// ever need compared.
func coreValTypeSubtype(sub, sup CoreValType) bool { return sub == sup }

func coreValTypesSubtype(sub, sup []CoreValType) bool {
	if len(sub) != len(sup) {
		return false
	}
	for i := range sub {
		if !coreValTypeSubtype(sub[i], sup[i]) {
			return false
		}
	}
	return true
}

// CoreFuncSubtype implements core func-type subtyping: params contravariant,
// results covariant, per-index equal arity (the oracle never widens core
// result arity).
func CoreFuncSubtype(sub, sup *CoreFuncType) bool {
	return coreValTypesSubtype(sup.Params, sub.Params) && coreValTypesSubtype(sub.Results, sup.Results)
}

// CoreExternDescSubtype mirrors ExternDescSubtype for the core-Wasm
// vocabulary (core module/instance/func/table/memory/global).
func CoreExternDescSubtype(sub, sup *CoreExternDesc) bool {
	if sub.Kind != sup.Kind {
		return false
	}
	switch sub.Kind {
	case ir.CoreSortFunc:
		return CoreFuncSubtype(sub.Func, sup.Func)
	case ir.CoreSortModule:
		return CoreModuleSubtype(sub.Module, sup.Module)
	case ir.CoreSortInstance:
		return CoreInstanceSubtype(sub.Instance, sup.Instance)
	default:
		// Table/Memory/Global: opaque to this engine, the core-Wasm
		// validator owns their limits comparison. Equal opaque text is
		// the only verdict this engine can render on its own.
		return sub.Opaque == sup.Opaque
	}
}

// CoreInstanceSubtype: sup's exports must each be matched, by name, by a
// sub export whose desc subtypes it (width subtyping, as for component
// instance types).
func CoreInstanceSubtype(sub, sup *CoreInstanceType) bool {
	for _, want := range sup.Exports {
		ok := false
		for _, have := range sub.Exports {
			if have.Name == want.Name && CoreExternDescSubtype(&have.Desc, &want.Desc) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// CoreModuleSubtype: sub may accept a subset of sup's required imports
// (contravariant) and must provide at least sup's exports (covariant).
func CoreModuleSubtype(sub, sup *CoreModuleType) bool {
	for _, need := range sub.Imports {
		ok := false
		for _, have := range sup.Imports {
			if have.Module == need.Module && have.Name == need.Name && CoreExternDescSubtype(&have.Desc, &need.Desc) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return CoreInstanceSubtype(&sub.Instance, &sup.Instance)
}
