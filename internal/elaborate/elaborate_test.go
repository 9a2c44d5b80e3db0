package elaborate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waclang/waccheck/internal/ctx"
	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/ir"
	"github.com/waclang/waccheck/internal/rtid"
	"github.com/waclang/waccheck/internal/types"
)

func newElaborator() *Elaborator { return New(rtid.NewMinter()) }

func TestElaborateTypeExprPrim(t *testing.T) {
	e := newElaborator()
	dt, rep := e.ElaborateTypeExpr(ir.TPrim{Kind: ir.PrimS32}, nil, ctx.Root())
	require.Nil(t, rep)
	assert.Equal(t, types.VPrim{Kind: types.PrimS32}, dt)
}

func TestElaborateTypeExprLocalRef(t *testing.T) {
	e := newElaborator()
	locals := []types.DT{types.VPrim{Kind: types.PrimBool}}
	dt, rep := e.ElaborateTypeExpr(ir.LocalRef{Idx: 0}, locals, ctx.Root())
	require.Nil(t, rep)
	assert.Equal(t, locals[0], dt)
}

func TestElaborateTypeExprLocalRefOutOfRange(t *testing.T) {
	e := newElaborator()
	_, rep := e.ElaborateTypeExpr(ir.LocalRef{Idx: 5}, nil, ctx.Root())
	require.NotNil(t, rep)
	assert.Equal(t, errors.WF001, rep.Code)
}

func TestElaborateTypeExprRecordAndList(t *testing.T) {
	e := newElaborator()
	te := ir.TList{Elem: ir.TRecord{Fields: []ir.NamedType{
		{Name: "count", Type: ir.TPrim{Kind: ir.PrimU32}},
	}}}
	dt, rep := e.ElaborateTypeExpr(te, nil, ctx.Root())
	require.Nil(t, rep)
	want := types.VList{Elem: types.VRecord{Fields: []types.Field{
		{Name: "count", Type: types.VPrim{Kind: types.PrimU32}},
	}}}
	assert.Equal(t, want, dt)
}

// TestResolveOuterTypeRejectsTypeVariable is spec.md's S2 scenario: an
// `alias outer` may not refer to a bound-but-abstract type variable, only
// a concrete local type definition (CX001).
func TestResolveOuterTypeRejectsTypeVariable(t *testing.T) {
	parent := ctx.Root()
	parent, _ = parent.AddType(types.BoundSubResource{})
	child := parent.Child()

	_, rep := resolveOuterType(child, 1, 0, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.CX001, rep.Code)
	assert.Contains(t, rep.Message, "Outer alias may not refer to type variable")
}

func TestResolveOuterTypeAcceptsConcreteAlias(t *testing.T) {
	prim := types.VPrim{Kind: types.PrimChar}
	parent := ctx.Root()
	parent, _ = parent.AddType(types.BoundEq{Type: prim})
	child := parent.Child()

	dt, rep := resolveOuterType(child, 1, 0, ir.Region{})
	require.Nil(t, rep)
	assert.Equal(t, prim, dt)
}

func TestResolveOuterTypeDepthExceedsNesting(t *testing.T) {
	root := ctx.Root()
	_, rep := resolveOuterType(root, 1, 0, ir.Region{})
	require.NotNil(t, rep)
	assert.Equal(t, errors.CX001, rep.Code)
}

func TestElaborateComponentTypeExportRefersToImportUvar(t *testing.T) {
	e := newElaborator()
	cte := &ir.ComponentTypeExpr{
		Decls: []ir.TypeLevelDecl{
			ir.ImportDecl{Name: ir.ExternName{Text: "t"}, Desc: ir.ExternDescExpr{
				Kind: ir.DescType, TypeBound: ir.BoundSubResource{},
			}},
			ir.ExportDecl{Name: ir.ExternName{Text: "get"}, Desc: ir.ExternDescExpr{
				Kind: ir.DescFunc,
				Func: &ir.FuncTypeExpr{
					Params: ir.ParamList{Unnamed: ir.LocalRef{Idx: 0}},
					Result: ir.ParamList{Unnamed: ir.LocalRef{Idx: 0}},
				},
			}},
		},
	}
	ct, rep := e.ElaborateComponentType(cte, ctx.Root())
	require.Nil(t, rep)
	require.Len(t, ct.Uvars, 1)
	require.Len(t, ct.Imports, 1)
	require.Len(t, ct.Instance.Exports, 1)

	fn := ct.Instance.Exports[0].Desc.Func
	dv, ok := fn.Params.Unnamed.(types.DVar)
	require.True(t, ok)
	assert.Equal(t, types.VarBound, dv.Var.Kind)
	assert.Equal(t, 0, dv.Var.Bound)
}

// TestElaborateComponentTypeIsDeterministic diffs two independent
// elaborations of the same component type expression: elaboration must
// not depend on map iteration order or any other hidden non-determinism,
// since spec.md §9 requires stable error messages and stable structure
// across repeated runs over identical input.
func TestElaborateComponentTypeIsDeterministic(t *testing.T) {
	cte := &ir.ComponentTypeExpr{
		Decls: []ir.TypeLevelDecl{
			ir.ImportDecl{Name: ir.ExternName{Text: "t"}, Desc: ir.ExternDescExpr{
				Kind: ir.DescType, TypeBound: ir.BoundSubResource{},
			}},
			ir.ExportDecl{Name: ir.ExternName{Text: "get"}, Desc: ir.ExternDescExpr{
				Kind: ir.DescFunc,
				Func: &ir.FuncTypeExpr{
					Params: ir.ParamList{Unnamed: ir.LocalRef{Idx: 0}},
					Result: ir.ParamList{Unnamed: ir.LocalRef{Idx: 0}},
				},
			}},
		},
	}

	first, rep := New(rtid.NewMinter()).ElaborateComponentType(cte, ctx.Root())
	require.Nil(t, rep)
	second, rep := New(rtid.NewMinter()).ElaborateComponentType(cte, ctx.Root())
	require.Nil(t, rep)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("elaboration is non-deterministic (-first +second):\n%s", diff)
	}
}

// TestElaborateComponentTypeImportAfterExportRejected: spec.md §4.3
// requires every import to precede every export in a component type's
// declaration list.
func TestElaborateComponentTypeImportAfterExportRejected(t *testing.T) {
	e := newElaborator()
	cte := &ir.ComponentTypeExpr{
		Decls: []ir.TypeLevelDecl{
			ir.ExportDecl{Name: ir.ExternName{Text: "x"}, Desc: ir.ExternDescExpr{Kind: ir.DescValue, Value: ir.TPrim{Kind: ir.PrimBool}}},
			ir.ImportDecl{Name: ir.ExternName{Text: "y"}, Desc: ir.ExternDescExpr{Kind: ir.DescValue, Value: ir.TPrim{Kind: ir.PrimBool}}},
		},
	}
	_, rep := e.ElaborateComponentType(cte, ctx.Root())
	require.NotNil(t, rep)
	assert.Equal(t, errors.WF001, rep.Code)
}

func TestValidateNamePlainKebabCase(t *testing.T) {
	name, rep := ValidateName("get-answer")
	require.Nil(t, rep)
	assert.Equal(t, "get-answer", name.Text)
	assert.False(t, name.Interface)
}

func TestValidateNameRejectsMalformed(t *testing.T) {
	_, rep := ValidateName("Not Valid!")
	require.NotNil(t, rep)
	assert.Equal(t, errors.WF004, rep.Code)
}
