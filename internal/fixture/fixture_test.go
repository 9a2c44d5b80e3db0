package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waclang/waccheck/internal/ir"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadComponentEmptyExport exercises the simplest non-trivial
// component: one import of a primitive-typed function, re-exported
// unchanged.
func TestLoadComponentEmptyExport(t *testing.T) {
	path := writeFixture(t, `
defs:
  - kind: import
    name: {text: get-answer}
    desc:
      kind: func
      func:
        params: {unnamed: {kind: prim, prim: s32}}
        result: {unnamed: {kind: prim, prim: s32}}
  - kind: export
    name: {text: answer}
    ref: {sort: {kind: func}, idx: 0}
`)

	comp, err := LoadComponent(path)
	require.NoError(t, err)
	require.Len(t, comp.Defs, 2)

	imp, ok := comp.Defs[0].(ir.ImportDef)
	require.True(t, ok)
	assert.Equal(t, "get-answer", imp.Name.Text)
	assert.Equal(t, ir.DescFunc, imp.Desc.Kind)

	exp, ok := comp.Defs[1].(ir.ExportDef)
	require.True(t, ok)
	assert.Equal(t, "answer", exp.Name.Text)
	assert.Equal(t, ir.SortFunc, exp.Ref.Sort.Kind)
	assert.Equal(t, 0, exp.Ref.Idx)
}

// TestLoadComponentResourceType exercises a resource type definition plus
// an export of it (spec.md §3 "Resource types").
func TestLoadComponentResourceType(t *testing.T) {
	path := writeFixture(t, `
defs:
  - kind: type
    is_resource: true
    type_desc: {kind: type, type_bound: {kind: sub_resource}}
  - kind: export
    name: {text: thing}
    ref: {sort: {kind: type}, idx: 0}
`)

	comp, err := LoadComponent(path)
	require.NoError(t, err)
	require.Len(t, comp.Defs, 2)

	td, ok := comp.Defs[0].(ir.TypeDef)
	require.True(t, ok)
	assert.True(t, td.IsResource)
	_, isSub := td.Desc.TypeBound.(ir.BoundSubResource)
	assert.True(t, isSub)
}

// TestLoadComponentUnknownKind verifies a fixture referencing a def/type
// kind outside the known vocabulary surfaces a decode error rather than
// silently producing a zero-value node.
func TestLoadComponentUnknownKind(t *testing.T) {
	path := writeFixture(t, `
defs:
  - kind: not-a-real-def-kind
`)
	_, err := LoadComponent(path)
	assert.Error(t, err)
}

func TestLoadScript(t *testing.T) {
	path := writeFixture(t, "") // placeholder, overwritten below
	require.NoError(t, os.WriteFile(path, []byte(`
statements:
  - kind: assert_invalid
    expect_prefix: "WF004"
    component:
      defs:
        - kind: import
          name: {text: "Bad_Name"}
          desc:
            kind: value
            value: {kind: prim, prim: bool}
  - kind: assert_malformed
    description: "truncated input"
    expect_prefix: "unexpected end of input"
    parse_error: "unexpected end of input at byte 12"
`), 0644))

	script, err := LoadScript(path)
	require.NoError(t, err)
	require.Len(t, script.Statements, 2)

	inv, ok := script.Statements[0].(ir.AssertInvalidStmt)
	require.True(t, ok)
	assert.Equal(t, "WF004", inv.ExpectPrefix)

	mal, ok := script.Statements[1].(ir.AssertMalformedStmt)
	require.True(t, ok)
	require.NotNil(t, mal.ParseError)
	assert.Equal(t, "unexpected end of input at byte 12", *mal.ParseError)
}
