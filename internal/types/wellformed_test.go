package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/ir"
	"github.com/waclang/waccheck/internal/rtid"
)

func TestWellFormedPrimOK(t *testing.T) {
	rep := WellFormed(VPrim{Kind: PrimS32}, PosExport, ir.Region{})
	assert.Nil(t, rep)
}

func TestWellFormedBoundVariableOutsideBinder(t *testing.T) {
	rep := WellFormed(DVar{Var: TypeVar{Kind: VarBound, Bound: 0}}, PosParam, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.WF001, rep.Code)
}

func TestWellFormedRecordDuplicateField(t *testing.T) {
	rec := VRecord{Fields: []Field{
		{Name: "a", Type: VPrim{Kind: PrimBool}},
		{Name: "a", Type: VPrim{Kind: PrimBool}},
	}}
	rep := WellFormed(rec, PosParam, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.WF003, rep.Code)
}

func TestWellFormedRecordNotKebabCase(t *testing.T) {
	rec := VRecord{Fields: []Field{{Name: "NotKebab", Type: VPrim{Kind: PrimBool}}}}
	rep := WellFormed(rec, PosParam, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.WF004, rep.Code)
}

func TestWellFormedEnumTagNotKebabCase(t *testing.T) {
	// spec.md S6: stable message prefix "enum tag name `NevEr` is not in kebab case".
	en := VEnum{Tags: []string{"NevEr"}}
	rep := WellFormed(en, PosParam, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.WF004, rep.Code)
	assert.Contains(t, rep.Message, "enum tag name `NevEr` is not in kebab case")
}

func TestWellFormedVariantRefinesForward(t *testing.T) {
	v := VVariant{Cases: []Case{
		{Name: "a", Refines: "b"},
		{Name: "b"},
	}}
	rep := WellFormed(v, PosParam, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.WF005, rep.Code)
}

func TestWellFormedOwnOfResourceAlwaysOK(t *testing.T) {
	res := DResourceType{ID: rtid.ID("r0")}
	own := VOwn{Resource: res}
	// own/borrow of a locally-declared resource is fine even in export
	// position: only a *bare* resource type export is rejected.
	assert.Nil(t, WellFormed(own, PosExport, ir.Region{}))
	assert.Nil(t, WellFormed(VBorrow{Resource: res}, PosExport, ir.Region{}))
}

func TestWellFormedBareResourceExportRejected(t *testing.T) {
	res := DResourceType{ID: rtid.ID("r0")}
	rep := WellFormed(res, PosExport, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.WF002, rep.Code)
}

func TestWellFormedBareResourceImportOK(t *testing.T) {
	res := DResourceType{ID: rtid.ID("r0")}
	assert.Nil(t, WellFormed(res, PosParam, ir.Region{}))
}

// TestWellFormedExportedTypeAliasToBareResourceRejected exercises the
// ComponentType path a real `(export "t" (type $t))` of a bare, eq-bound
// local resource takes: wfComponentAt -> wfInstanceBody -> wfExternDecl
// (DescType, PosExport) -> wfBound, whose eq-branch must see PosExport to
// raise WF002 (spec.md §4.9, S1).
func TestWellFormedExportedTypeAliasToBareResourceRejected(t *testing.T) {
	res := DResourceType{ID: rtid.ID("r0")}
	ct := &ComponentType{
		Instance: InstanceType{
			Exports: []ExternDecl{
				{
					Name: ExternName{Text: "t"},
					Desc: ExternDesc{Kind: DescType, TypeBound: BoundEq{Type: res}},
				},
			},
		},
	}
	rep := WellFormed(ct, PosExport, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.WF002, rep.Code)
}

// TestWellFormedImportedTypeAliasToBareResourceOK is the mirror case: the
// same eq-bound bare resource reached through an *import* declaration must
// not trip WF002.
func TestWellFormedImportedTypeAliasToBareResourceOK(t *testing.T) {
	res := DResourceType{ID: rtid.ID("r0")}
	ct := &ComponentType{
		Imports: []ExternDecl{
			{
				Name: ExternName{Text: "t"},
				Desc: ExternDesc{Kind: DescType, TypeBound: BoundEq{Type: res}},
			},
		},
	}
	assert.Nil(t, WellFormed(ct, PosParam, ir.Region{}))
}

func TestWellFormedDuplicateExternName(t *testing.T) {
	ct := &ComponentType{
		Instance: InstanceType{
			Exports: []ExternDecl{
				{Name: ExternName{Text: "dup"}, Desc: ExternDesc{Kind: DescFunc, Func: &DFunc{}}},
				{Name: ExternName{Text: "dup"}, Desc: ExternDesc{Kind: DescFunc, Func: &DFunc{}}},
			},
		},
	}
	rep := WellFormed(ct, PosExport, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.WF003, rep.Code)
}

func TestWellFormedUvarSubResourceDoesNotRecurse(t *testing.T) {
	// A `sub resource` uvar bound carries no Type to check; wfBound must
	// treat it as trivially well-formed regardless of position.
	ct := &ComponentType{Uvars: []Bound{BoundSubResource{}}}
	assert.Nil(t, WellFormed(ct, PosParam, ir.Region{}))
}
