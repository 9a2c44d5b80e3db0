package errors

// Error code constants, one per rejection shape spec.md names explicitly.
// Codes are stable identifiers for tests/tooling; the Message text (not the
// code) carries the stable prefixes spec.md §4.4/§8 requires.
const (
	// Well-formedness / elaboration (spec.md §4.1, §4.3)
	WF001 = "WF001" // bound variable referenced outside its binder
	WF002 = "WF002" // bare local resource type in export position
	WF003 = "WF003" // duplicate field/case/param/import/export name
	WF004 = "WF004" // name is not kebab-case
	WF005 = "WF005" // variant `refines` does not point at a preceding compatible case
	WF006 = "WF006" // own/borrow referent is not a resource-bounded variable or local resource

	// Subtyping (spec.md §4.4)
	ST001 = "ST001" // structural subtype mismatch (records/variants/lists/...)
	ST002 = "ST002" // function type mismatch (params/results)
	ST003 = "ST003" // instance type missing a required export
	ST004 = "ST004" // component type import/export mismatch
	ST005 = "ST005" // type-variable mismatch ("Type variable u0.X is not u0.Y")
	ST006 = "ST006" // resource handle identity mismatch

	// Context / aliasing (spec.md §4.8, §4.9)
	CX001 = "CX001" // outer alias may not refer to a type variable
	CX002 = "CX002" // export/component type may not refer to a non-imported uvar
	CX003 = "CX003" // dangling resource identity (invariant I3 violation)

	// Instantiation (spec.md §4.5)
	IN001 = "IN001" // duplicate instantiate-arg / inline-export name
	IN002 = "IN002" // missing import argument
	IN003 = "IN003" // uvar with no carrier import (invariant violation)
	IN004 = "IN004" // bad instantiate-arg/alias/export reference: index out of range, missing export, wrong sort, core module mismatch

	// Canonical ABI (spec.md §4.6)
	CA001 = "CA001" // canon lift/lower core type mismatch against flattening
	CA002 = "CA002" // resource.{new,drop,rep} operand is not a suitable type

	// Start (spec.md §4.7)
	SF001 = "SF001" // start argument count/type mismatch

	// Linearity (spec.md §9)
	LV001 = "LV001" // live value remains at end of component
	LV002 = "LV002" // live instance-export remains at end of component
	LV003 = "LV003" // use of an already-dead value/instance-export

	// Assertion runner (spec.md §4.10)
	AS001 = "AS001" // observed error did not begin with the expected prefix
	AS002 = "AS002" // assert_invalid target unexpectedly validated
	AS003 = "AS003" // assert_malformed target unexpectedly parsed
)
