package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/ir"
)

func TestSubtypePrimMatch(t *testing.T) {
	assert.Nil(t, Subtype(VPrim{Kind: PrimS32}, VPrim{Kind: PrimS32}, nil, ir.Region{}))
}

func TestSubtypePrimMismatch(t *testing.T) {
	rep := Subtype(VPrim{Kind: PrimS32}, VPrim{Kind: PrimBool}, nil, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.ST001, rep.Code)
}

func TestSubtypeRecordWidthSubtyping(t *testing.T) {
	sub := VRecord{Fields: []Field{
		{Name: "a", Type: VPrim{Kind: PrimS32}},
		{Name: "extra", Type: VPrim{Kind: PrimBool}},
	}}
	sup := VRecord{Fields: []Field{{Name: "a", Type: VPrim{Kind: PrimS32}}}}
	assert.Nil(t, Subtype(sub, sup, nil, ir.Region{}))
}

func TestSubtypeRecordMissingFieldFails(t *testing.T) {
	sub := VRecord{Fields: []Field{{Name: "a", Type: VPrim{Kind: PrimS32}}}}
	sup := VRecord{Fields: []Field{{Name: "b", Type: VPrim{Kind: PrimS32}}}}
	rep := Subtype(sub, sup, nil, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.ST001, rep.Code)
}

func TestSubtypeVariantCaseSubsetOK(t *testing.T) {
	sub := VVariant{Cases: []Case{{Name: "a"}}}
	sup := VVariant{Cases: []Case{{Name: "a"}, {Name: "b"}}}
	assert.Nil(t, Subtype(sub, sup, nil, ir.Region{}))
}

func TestSubtypeOwnRequiresSameResourceIdentity(t *testing.T) {
	r1 := DResourceType{ID: "r1"}
	r2 := DResourceType{ID: "r2"}
	rep := Subtype(VOwn{Resource: r1}, VOwn{Resource: r2}, nil, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.ST006, rep.Code)

	assert.Nil(t, Subtype(VOwn{Resource: r1}, VOwn{Resource: r1}, nil, ir.Region{}))
}

func TestSubtypeDVarMismatchUsesStablePrefix(t *testing.T) {
	sub := DVar{Var: TypeVar{Kind: VarBound, Bound: 0}}
	sup := DVar{Var: TypeVar{Kind: VarBound, Bound: 1}}
	rep := Subtype(sub, sup, nil, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.ST005, rep.Code)
	assert.Contains(t, rep.Message, "is not")
}

func TestSubtypeDVarExpandsThroughResolver(t *testing.T) {
	prim := VPrim{Kind: PrimF64}
	sub := DVar{Var: TypeVar{Kind: VarUvar, ID: 0}}
	resolve := func(v TypeVar) (DT, bool) {
		if v.Kind == VarUvar && v.ID == 0 {
			return prim, true
		}
		return nil, false
	}
	assert.Nil(t, Subtype(sub, prim, resolve, ir.Region{}))
}

func TestSubtypeFuncParamsContravariantResultCovariant(t *testing.T) {
	// sub needs only part of the params sup is called with (a, not b) and
	// returns every result sup promises (a) — a valid subtype.
	sub := DFunc{
		Params: ParamList{Named: []Field{{Name: "a", Type: VPrim{Kind: PrimS32}}}},
		Result: ParamList{Named: []Field{{Name: "a", Type: VPrim{Kind: PrimS32}}}},
	}
	sup := DFunc{
		Params: ParamList{Named: []Field{
			{Name: "a", Type: VPrim{Kind: PrimS32}},
			{Name: "b", Type: VPrim{Kind: PrimBool}},
		}},
		Result: ParamList{Named: []Field{
			{Name: "a", Type: VPrim{Kind: PrimS32}},
		}},
	}
	assert.Nil(t, Subtype(sub, sup, nil, ir.Region{}))
}

func TestSubtypeInstanceTypeMissingExportFails(t *testing.T) {
	sub := &InstanceType{}
	sup := &InstanceType{Exports: []ExternDecl{
		{Name: ExternName{Text: "needed"}, Desc: ExternDesc{Kind: DescValue, Value: VPrim{Kind: PrimBool}}},
	}}
	rep := Subtype(sub, sup, nil, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.ST003, rep.Code)
}

func TestSubtypeComponentTypeImportsContravariant(t *testing.T) {
	// sub may require fewer imports than sup does.
	sub := &ComponentType{}
	sup := &ComponentType{
		Imports: []ExternDecl{
			{Name: ExternName{Text: "needed"}, Desc: ExternDesc{Kind: DescValue, Value: VPrim{Kind: PrimBool}}},
		},
	}
	assert.Nil(t, Subtype(sub, sup, nil, ir.Region{}))
}

func TestBoundSubtypeSubResourceAcceptsAnything(t *testing.T) {
	rep := boundSubtype(BoundEq{Type: VPrim{Kind: PrimS32}}, BoundSubResource{}, nil, ir.Region{})
	assert.Nil(t, rep)
}

func TestBoundSubtypeEqRequiresExactMatch(t *testing.T) {
	rep := boundSubtype(BoundSubResource{}, BoundEq{Type: VPrim{Kind: PrimS32}}, nil, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.ST001, rep.Code)

	assert.Nil(t, boundSubtype(
		BoundEq{Type: VPrim{Kind: PrimS32}},
		BoundEq{Type: VPrim{Kind: PrimS32}},
		nil, ir.Region{},
	))
}
