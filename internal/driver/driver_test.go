package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waclang/waccheck/internal/ctx"
	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/fixture"
)

func TestCheckComponentImportExportRoundtrip(t *testing.T) {
	comp, err := fixture.LoadComponent("testdata/roundtrip.yaml")
	require.NoError(t, err)

	ch := NewChecker()
	ct, rep := ch.CheckComponent(comp, ctx.Root())
	require.Nil(t, rep)
	require.Len(t, ct.Instance.Exports, 1)
	assert.Equal(t, "answer", ct.Instance.Exports[0].Name.Text)
}

// TestCheckComponentBareResourceExportRejected is spec.md's S1 scenario: a
// component directly exporting a bare local resource type (no own/borrow
// wrapper) must be rejected with WF002.
func TestCheckComponentBareResourceExportRejected(t *testing.T) {
	comp, err := fixture.LoadComponent("testdata/bare_resource_export.yaml")
	require.NoError(t, err)

	ch := NewChecker()
	_, rep := ch.CheckComponent(comp, ctx.Root())
	require.NotNil(t, rep)
	assert.Equal(t, errors.WF002, rep.Code)
	assert.Contains(t, rep.Message, "Cannot export type containing bare resource type")
}

// TestCheckComponentEnumTagNotKebabCase is spec.md's S6 scenario.
func TestCheckComponentEnumTagNotKebabCase(t *testing.T) {
	comp, err := fixture.LoadComponent("testdata/enum_tag_not_kebab_case.yaml")
	require.NoError(t, err)

	ch := NewChecker()
	_, rep := ch.CheckComponent(comp, ctx.Root())
	require.NotNil(t, rep)
	assert.Equal(t, errors.WF004, rep.Code)
	assert.Contains(t, rep.Message, "enum tag name `NevEr` is not in kebab case")
}

func TestRunScriptAssertions(t *testing.T) {
	script, err := fixture.LoadScript("testdata/script_assertions.yaml")
	require.NoError(t, err)

	ch := NewChecker()
	rep := ch.RunScript(script)
	assert.Nil(t, rep)
}

// TestRunScriptAssertInvalidWrongPrefixFails checks the assertion runner
// itself: an assert_invalid whose expected prefix does not match the
// observed error surfaces AS001, not the underlying WF code.
func TestRunScriptAssertInvalidWrongPrefixFails(t *testing.T) {
	script, err := fixture.LoadScript("testdata/script_wrong_prefix.yaml")
	require.NoError(t, err)

	ch := NewChecker()
	rep := ch.RunScript(script)
	require.NotNil(t, rep)
	assert.Equal(t, errors.AS001, rep.Code)
}
