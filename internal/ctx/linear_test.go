package ctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/ir"
	"github.com/waclang/waccheck/internal/types"
)

func TestMarkValueDeadThenCheckLinearityOK(t *testing.T) {
	c, idx := Root().AddValue(types.VPrim{Kind: types.PrimS32})
	c, rep := c.MarkValueDead(idx, ir.Region{})
	require.Nil(t, rep)
	assert.Nil(t, c.CheckLinearity(ir.Region{}))
}

func TestCheckLinearityRejectsLiveValue(t *testing.T) {
	c, _ := Root().AddValue(types.VPrim{Kind: types.PrimS32})
	rep := c.CheckLinearity(ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.LV001, rep.Code)
}

func TestMarkValueDeadTwiceFails(t *testing.T) {
	c, idx := Root().AddValue(types.VPrim{Kind: types.PrimBool})
	c, rep := c.MarkValueDead(idx, ir.Region{})
	require.Nil(t, rep)
	_, rep = c.MarkValueDead(idx, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.LV003, rep.Code)
}

func TestCheckLinearityRejectsLiveInstanceExport(t *testing.T) {
	it := &types.InstanceType{Exports: []types.ExternDecl{{}}}
	c, _ := Root().AddInstance(it)
	rep := c.CheckLinearity(ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.LV002, rep.Code)
}

func TestMarkAllInstanceExportsDeadThenCheckLinearityOK(t *testing.T) {
	it := &types.InstanceType{Exports: []types.ExternDecl{{}, {}}}
	c, idx := Root().AddInstance(it)
	c, rep := c.MarkAllInstanceExportsDead(idx, ir.Region{})
	require.Nil(t, rep)
	assert.Nil(t, c.CheckLinearity(ir.Region{}))
}

func TestMarkInstanceExportDeadTwiceFails(t *testing.T) {
	it := &types.InstanceType{Exports: []types.ExternDecl{{}}}
	c, idx := Root().AddInstance(it)
	c, rep := c.MarkInstanceExportDead(idx, 0, ir.Region{})
	require.Nil(t, rep)
	_, rep = c.MarkInstanceExportDead(idx, 0, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.LV003, rep.Code)
}
