package ctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waclang/waccheck/internal/types"
)

func TestRootIsEmpty(t *testing.T) {
	c := Root()
	assert.Nil(t, c.Parent)
	assert.Equal(t, 0, c.Depth)
	assert.True(t, c.ExportsMayReferUvars)
}

func TestChildIncrementsDepthAndLinksParent(t *testing.T) {
	root := Root()
	child := root.Child()
	assert.Same(t, root, child.Parent)
	assert.Equal(t, 1, child.Depth)
}

// TestAddLeavesPriorContextIntact verifies the pure-functional threading
// contract: a failed/unused Add* call must never mutate the context it
// was called on (spec.md §9 "a failed definition leaves the prior context
// intact").
func TestAddLeavesPriorContextIntact(t *testing.T) {
	before := Root()
	after, idx := before.AddValue(types.VPrim{Kind: types.PrimBool})
	assert.Equal(t, 0, idx)
	assert.Len(t, before.Values, 0)
	require.Len(t, after.Values, 1)
	assert.True(t, after.Values[0].Live)
}

func TestAddUvarAddressesOwnDepth(t *testing.T) {
	root := Root()
	_, dv := root.AddUvar(types.BoundSubResource{})
	assert.Equal(t, types.VarUvar, dv.Var.Kind)
	assert.Equal(t, 0, dv.Var.Depth)
	assert.Equal(t, 0, dv.Var.ID)

	child := root.Child()
	_, dv2 := child.AddUvar(types.BoundSubResource{})
	assert.Equal(t, 1, dv2.Var.Depth)
}

func TestResolverExpandsEqBoundUvar(t *testing.T) {
	prim := types.VPrim{Kind: types.PrimS32}
	c, dv := Root().AddUvar(types.BoundEq{Type: prim})

	got, ok := c.Resolver()(dv.Var)
	require.True(t, ok)
	assert.Equal(t, prim, got)
}

func TestResolverExpandsEvarWitness(t *testing.T) {
	c, dv := Root().AddEvar(types.BoundSubResource{})
	prim := types.VPrim{Kind: types.PrimBool}
	c = c.ResolveEvarWitness(dv.Var.ID, prim)

	got, ok := c.Resolver()(dv.Var)
	require.True(t, ok)
	assert.Equal(t, prim, got)
}

func TestResolverFailsForUnresolvedSubResourceUvar(t *testing.T) {
	c, dv := Root().AddUvar(types.BoundSubResource{})
	_, ok := c.Resolver()(dv.Var)
	assert.False(t, ok)
}

func TestResolverWalksParentChainByDepth(t *testing.T) {
	prim := types.VPrim{Kind: types.PrimChar}
	root, dv := Root().AddUvar(types.BoundEq{Type: prim})
	child := root.Child()

	got, ok := child.Resolver()(dv.Var)
	require.True(t, ok)
	assert.Equal(t, prim, got)
}

func TestOuterAncestorWalksByDepth(t *testing.T) {
	root := Root()
	mid := root.Child()
	leaf := mid.Child()

	assert.Same(t, mid, leaf.OuterAncestor(1))
	assert.Same(t, root, leaf.OuterAncestor(2))
	assert.Nil(t, root.OuterAncestor(1))
}

func TestAddInstanceMarksAllExportsLive(t *testing.T) {
	it := &types.InstanceType{Exports: []types.ExternDecl{{}, {}}}
	c, idx := Root().AddInstance(it)
	require.Equal(t, 0, idx)
	assert.Equal(t, []bool{true, true}, c.Instances[0].Live)
}
