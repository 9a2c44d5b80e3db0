package instantiate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waclang/waccheck/internal/ctx"
	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/ir"
	"github.com/waclang/waccheck/internal/types"
)

func identityCallee() *types.ComponentType {
	bound := types.DVar{Var: types.TypeVar{Kind: types.VarBound, Bound: 0}}
	return &types.ComponentType{
		Uvars: []types.Bound{types.BoundSubResource{}},
		Imports: []types.ExternDecl{
			{Name: types.ExternName{Text: "t"}, Desc: types.ExternDesc{Kind: types.DescType, TypeBound: types.BoundSubResource{}}},
		},
		Instance: types.InstanceType{
			Exports: []types.ExternDecl{
				{Name: types.ExternName{Text: "id"}, Desc: types.ExternDesc{Kind: types.DescFunc, Func: &types.DFunc{
					Params: types.ParamList{Unnamed: bound},
					Result: types.ParamList{Unnamed: bound},
				}}},
			},
		},
	}
}

func TestInstantiateRecoversUvarWitness(t *testing.T) {
	prim := types.VPrim{Kind: types.PrimS32}
	c, typeIdx := ctx.Root().AddType(types.BoundEq{Type: prim})

	res, rep := Instantiate(identityCallee(), []Arg{
		{Name: "t", Sort: ir.Sort{Kind: ir.SortType}, TypeIdx: typeIdx},
	}, c, ir.Region{})
	require.Nil(t, rep)
	require.Len(t, res.Instance.Exports, 1)

	fn := res.Instance.Exports[0].Desc.Func
	assert.Equal(t, prim, fn.Params.Unnamed)
	assert.Equal(t, prim, fn.Result.Unnamed)
}

func TestInstantiateMissingArgFails(t *testing.T) {
	c := ctx.Root()
	_, rep := Instantiate(identityCallee(), nil, c, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.IN002, rep.Code)
}

func TestInstantiateDuplicateArgNameFails(t *testing.T) {
	c, typeIdx := ctx.Root().AddType(types.BoundEq{Type: types.VPrim{Kind: types.PrimBool}})
	args := []Arg{
		{Name: "t", Sort: ir.Sort{Kind: ir.SortType}, TypeIdx: typeIdx},
		{Name: "t", Sort: ir.Sort{Kind: ir.SortType}, TypeIdx: typeIdx},
	}
	_, rep := Instantiate(identityCallee(), args, c, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.IN001, rep.Code)
}

func TestInstantiateUvarWithNoDirectCarrierFails(t *testing.T) {
	callee := &types.ComponentType{
		Uvars:   []types.Bound{types.BoundSubResource{}},
		Imports: nil,
		Instance: types.InstanceType{
			Exports: []types.ExternDecl{
				{Name: types.ExternName{Text: "x"}, Desc: types.ExternDesc{Kind: types.DescValue, Value: types.VPrim{Kind: types.PrimBool}}},
			},
		},
	}
	c := ctx.Root()
	_, rep := Instantiate(callee, nil, c, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.IN003, rep.Code)
}

// TestInstantiateUvarWitnessIndexedByTypeImportOrderNotRawPosition is a
// regression test: callee.Uvars has one slot per type-kind import, but an
// ordinary import list may interleave a non-type import (func, here)
// before a type import. Indexing uvarWitness by the raw position of decl
// within callee.Imports would write past the end of a one-slot uvarWitness
// and panic; it must instead be indexed by the count of type-kind imports
// seen so far.
func TestInstantiateUvarWitnessIndexedByTypeImportOrderNotRawPosition(t *testing.T) {
	bound := types.DVar{Var: types.TypeVar{Kind: types.VarBound, Bound: 0}}
	callee := &types.ComponentType{
		Uvars: []types.Bound{types.BoundSubResource{}},
		Imports: []types.ExternDecl{
			{Name: types.ExternName{Text: "f"}, Desc: types.ExternDesc{Kind: types.DescFunc, Func: &types.DFunc{}}},
			{Name: types.ExternName{Text: "t"}, Desc: types.ExternDesc{Kind: types.DescType, TypeBound: types.BoundSubResource{}}},
		},
		Instance: types.InstanceType{
			Exports: []types.ExternDecl{
				{Name: types.ExternName{Text: "id"}, Desc: types.ExternDesc{Kind: types.DescFunc, Func: &types.DFunc{
					Params: types.ParamList{Unnamed: bound},
					Result: types.ParamList{Unnamed: bound},
				}}},
			},
		},
	}

	prim := types.VPrim{Kind: types.PrimS32}
	c, funcIdx := ctx.Root().AddFunc(&types.DFunc{})
	c, typeIdx := c.AddType(types.BoundEq{Type: prim})

	res, rep := Instantiate(callee, []Arg{
		{Name: "f", Sort: ir.Sort{Kind: ir.SortFunc}, FuncIdx: funcIdx},
		{Name: "t", Sort: ir.Sort{Kind: ir.SortType}, TypeIdx: typeIdx},
	}, c, ir.Region{})
	require.Nil(t, rep)
	require.Len(t, res.Instance.Exports, 1)

	fn := res.Instance.Exports[0].Desc.Func
	assert.Equal(t, prim, fn.Params.Unnamed)
	assert.Equal(t, prim, fn.Result.Unnamed)
}

func TestInstantiateMarksValueArgDead(t *testing.T) {
	callee := &types.ComponentType{
		Imports: []types.ExternDecl{
			{Name: types.ExternName{Text: "v"}, Desc: types.ExternDesc{Kind: types.DescValue, Value: types.VPrim{Kind: types.PrimS32}}},
		},
		Instance: types.InstanceType{},
	}
	c, valIdx := ctx.Root().AddValue(types.VPrim{Kind: types.PrimS32})
	res, rep := Instantiate(callee, []Arg{
		{Name: "v", Sort: ir.Sort{Kind: ir.SortValue}, ValueIdx: valIdx},
	}, c, ir.Region{})
	require.Nil(t, rep)
	assert.False(t, res.Ctx.Values[valIdx].Live)
}
