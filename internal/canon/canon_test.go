package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/ir"
	"github.com/waclang/waccheck/internal/types"
)

func TestFlattenValTypePrimitives(t *testing.T) {
	assert.Equal(t, []types.CoreValType{types.CoreI32}, FlattenValType(types.VPrim{Kind: types.PrimBool}))
	assert.Equal(t, []types.CoreValType{types.CoreI64}, FlattenValType(types.VPrim{Kind: types.PrimU64}))
	assert.Equal(t, []types.CoreValType{types.CoreF64}, FlattenValType(types.VPrim{Kind: types.PrimF64}))
}

func TestFlattenValTypeListIsPtrLen(t *testing.T) {
	got := FlattenValType(types.VList{Elem: types.VPrim{Kind: types.PrimS32}})
	assert.Equal(t, []types.CoreValType{types.CoreI32, types.CoreI32}, got)
}

func TestFlattenValTypeRecordConcatenatesFields(t *testing.T) {
	rec := types.VRecord{Fields: []types.Field{
		{Name: "a", Type: types.VPrim{Kind: types.PrimS32}},
		{Name: "b", Type: types.VPrim{Kind: types.PrimF64}},
	}}
	got := FlattenValType(rec)
	assert.Equal(t, []types.CoreValType{types.CoreI32, types.CoreF64}, got)
}

func TestFlattenValTypeVariantMergesPayloadSlots(t *testing.T) {
	v := types.VVariant{Cases: []types.Case{
		{Name: "a", Payload: types.VPrim{Kind: types.PrimS32}},
		{Name: "b", Payload: types.VPrim{Kind: types.PrimF32}},
	}}
	// discriminant + one merged slot; an i32/f32 conflict merges to i32.
	got := FlattenValType(v)
	assert.Equal(t, []types.CoreValType{types.CoreI32, types.CoreI32}, got)
}

func TestFlattenValTypeOwnBorrowAreI32Handles(t *testing.T) {
	res := types.DResourceType{ID: "r0"}
	assert.Equal(t, []types.CoreValType{types.CoreI32}, FlattenValType(types.VOwn{Resource: res}))
	assert.Equal(t, []types.CoreValType{types.CoreI32}, FlattenValType(types.VBorrow{Resource: res}))
}

func TestFlattenFuncOverflowingParamsSpillToPointer(t *testing.T) {
	named := make([]types.Field, MaxFlatParams+1)
	for i := range named {
		named[i] = types.Field{Name: "f", Type: types.VPrim{Kind: types.PrimS32}}
	}
	fn := &types.DFunc{Params: types.ParamList{Named: named}}
	cf := FlattenFunc(fn, Lower)
	assert.Equal(t, []types.CoreValType{types.CoreI32}, cf.Params)
}

func TestFlattenFuncOverflowingResultsOnLowerAppendsPointerParam(t *testing.T) {
	named := make([]types.Field, MaxFlatResults+1)
	for i := range named {
		named[i] = types.Field{Name: "f", Type: types.VPrim{Kind: types.PrimS32}}
	}
	fn := &types.DFunc{Result: types.ParamList{Named: named}}
	cf := FlattenFunc(fn, Lower)
	assert.Equal(t, []types.CoreValType{types.CoreI32}, cf.Params)
	assert.Nil(t, cf.Results)
}

func TestLiftFuncMatchingShapeOK(t *testing.T) {
	fn := &types.DFunc{
		Params: types.ParamList{Unnamed: types.VPrim{Kind: types.PrimS32}},
		Result: types.ParamList{Unnamed: types.VPrim{Kind: types.PrimS32}},
	}
	cf := &types.CoreFuncType{Params: []types.CoreValType{types.CoreI32}, Results: []types.CoreValType{types.CoreI32}}
	got, rep := LiftFunc(cf, fn, ir.CanonOpts{}, ir.Region{})
	require.Nil(t, rep)
	assert.Same(t, fn, got)
}

func TestLiftFuncShapeMismatchFails(t *testing.T) {
	fn := &types.DFunc{Result: types.ParamList{Unnamed: types.VPrim{Kind: types.PrimS32}}}
	cf := &types.CoreFuncType{} // wrong: fn expects one i32 result
	_, rep := LiftFunc(cf, fn, ir.CanonOpts{}, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.CA001, rep.Code)
}

func TestValidateOptsRejectsUnknownEncoding(t *testing.T) {
	_, rep := LowerFunc(&types.DFunc{}, ir.CanonOpts{StringEncoding: "ebcdic"}, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.CA001, rep.Code)
}

func TestNewResourceRequiresLocalResourceType(t *testing.T) {
	_, rep := NewResource(types.VPrim{Kind: types.PrimS32}, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.CA002, rep.Code)

	cf, rep := NewResource(types.DResourceType{ID: "r0"}, ir.Region{})
	require.Nil(t, rep)
	assert.Equal(t, []types.CoreValType{types.CoreI32}, cf.Params)
}

func TestDropResourceRequiresHandle(t *testing.T) {
	_, rep := DropResource(types.VPrim{Kind: types.PrimS32}, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.CA002, rep.Code)

	res := types.DResourceType{ID: "r0"}
	cf, rep := DropResource(types.VOwn{Resource: res}, ir.Region{})
	require.Nil(t, rep)
	assert.Empty(t, cf.Results)
}

func TestOwnBorrowLiftLowerSubtypeMatchesSameResource(t *testing.T) {
	res := types.DResourceType{ID: "r0"}
	assert.True(t, OwnBorrowLiftLowerSubtype(types.VOwn{Resource: res}, types.VBorrow{Resource: res}))
}

func TestOwnBorrowLiftLowerSubtypeRejectsDifferentResource(t *testing.T) {
	a := types.DResourceType{ID: "r0"}
	b := types.DResourceType{ID: "r1"}
	assert.False(t, OwnBorrowLiftLowerSubtype(types.VOwn{Resource: a}, types.VBorrow{Resource: b}))
}
