package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBSubstOpenReplacesBoundVariable(t *testing.T) {
	prim := VPrim{Kind: PrimS32}
	body := VList{Elem: DVar{Var: TypeVar{Kind: VarBound, Bound: 0}}}
	got := BSubstOpen(body, []DT{prim})
	assert.Equal(t, VList{Elem: prim}, got)
}

func TestBSubstOpenLeavesNestedHeaderAlone(t *testing.T) {
	prim := VPrim{Kind: PrimBool}
	inner := &InstanceType{
		Exports: []ExternDecl{{Name: ExternName{Text: "x"}, Desc: ExternDesc{
			Kind: DescValue, Value: DVar{Var: TypeVar{Kind: VarBound, Bound: 0}},
		}}},
	}
	got := BSubstOpen(inner, []DT{prim}).(*InstanceType)
	// A nested InstanceType's own TV_bound index 0 means something else
	// entirely; bsubst must not cross into it.
	assert.Equal(t, DVar{Var: TypeVar{Kind: VarBound, Bound: 0}}, got.Exports[0].Desc.Value)
}

func TestBSubstOpenRewritesComponentsOwnInstanceField(t *testing.T) {
	prim := VPrim{Kind: PrimChar}
	ct := &ComponentType{
		Uvars: []Bound{BoundSubResource{}},
		Instance: InstanceType{
			Exports: []ExternDecl{{Name: ExternName{Text: "x"}, Desc: ExternDesc{
				Kind: DescValue, Value: DVar{Var: TypeVar{Kind: VarBound, Bound: 0}},
			}}},
		},
	}
	got := BSubstOpen(ct, []DT{prim}).(*ComponentType)
	assert.Equal(t, prim, got.Instance.Exports[0].Desc.Value)
}

func TestFTSubstUvarReplacesAtAnyDepth(t *testing.T) {
	prim := VPrim{Kind: PrimU32}
	uvarRef := DVar{Var: TypeVar{Kind: VarUvar, ID: 7}}
	nested := &InstanceType{
		Exports: []ExternDecl{{Name: ExternName{Text: "y"}, Desc: ExternDesc{Kind: DescValue, Value: uvarRef}}},
	}
	got := FTSubstUvar(nested, 7, prim).(*InstanceType)
	assert.Equal(t, prim, got.Exports[0].Desc.Value)
}

func TestFTSubstUvarLeavesOtherIDsAlone(t *testing.T) {
	other := DVar{Var: TypeVar{Kind: VarUvar, ID: 2}}
	got := FTSubstUvar(other, 7, VPrim{Kind: PrimBool})
	assert.Equal(t, other, got)
}

func TestFTSubstEvarReplacesWitness(t *testing.T) {
	prim := VPrim{Kind: PrimS64}
	evarRef := DVar{Var: TypeVar{Kind: VarEvar, ID: 3}}
	got := FTSubstEvar(VList{Elem: evarRef}, 3, prim)
	assert.Equal(t, VList{Elem: prim}, got)
}

func TestFreeUvarsCollectsDistinctIDsInOrder(t *testing.T) {
	rec := VRecord{Fields: []Field{
		{Name: "a", Type: DVar{Var: TypeVar{Kind: VarUvar, ID: 1}}},
		{Name: "b", Type: DVar{Var: TypeVar{Kind: VarUvar, ID: 0}}},
		{Name: "c", Type: DVar{Var: TypeVar{Kind: VarUvar, ID: 1}}},
	}}
	got := FreeUvars(rec)
	require.Len(t, got, 2)
	assert.Equal(t, []int{1, 0}, got)
}

func TestFreeUvarsIgnoresBoundAndEvarVariables(t *testing.T) {
	mixed := VTuple{Elems: []DT{
		DVar{Var: TypeVar{Kind: VarBound, Bound: 0}},
		DVar{Var: TypeVar{Kind: VarEvar, ID: 5}},
	}}
	assert.Empty(t, FreeUvars(mixed))
}
