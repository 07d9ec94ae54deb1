package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

func assignMapping(target types.ID) *Mapping {
	return &Mapping{Operation: OpAssign, Target: NewVariableTarget(target)}
}

func appendMapping(target types.ID) *Mapping {
	return &Mapping{Operation: OpAppend, Target: NewVariableTarget(target)}
}

func TestApplyAssignArrayOntoScalarJoinsWithComma(t *testing.T) {
	v := testVar("summary", IOTypeOutput, VariableStatusPending)

	result, err := Apply(v, assignMapping(v.ID), []any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a,b", result)
}

func TestApplyAssignObjectOntoScalarYieldsJSONText(t *testing.T) {
	v := testVar("summary", IOTypeOutput, VariableStatusPending)

	result, err := Apply(v, assignMapping(v.ID), map[string]any{"k": 1})
	require.NoError(t, err)
	assert.Equal(t, `{"k":1}`, result)
}

func TestApplyAssignScalarOntoScalarPassesThrough(t *testing.T) {
	v := testVar("summary", IOTypeOutput, VariableStatusPending)

	result, err := Apply(v, assignMapping(v.ID), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", result)

	result, err = Apply(v, assignMapping(v.ID), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestApplyAssignOntoArrayWrapsSingleValue(t *testing.T) {
	v := testArrayVar("items", IOTypeOutput)

	result, err := Apply(v, assignMapping(v.ID), map[string]any{"id": 1})
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"id": 1}}, result, "a lone object is wrapped, not spread")
}

func TestApplyAssignArrayOntoArrayReplacesWholesale(t *testing.T) {
	v := testArrayVar("items", IOTypeOutput)
	v.Value = []any{"old"}

	newValue := []any{map[string]any{"id": 1}, map[string]any{"id": 2}}
	result, err := Apply(v, assignMapping(v.ID), newValue)
	require.NoError(t, err)
	assert.Equal(t, newValue, result)
}

func TestApplyAppendScalarJoinsWithTwoNewlines(t *testing.T) {
	v := testVar("log", IOTypeOutput, VariableStatusPending)
	v.Value = "x"

	result, err := Apply(v, appendMapping(v.ID), "y")
	require.NoError(t, err)
	assert.Equal(t, "x\n\ny", result)
}

func TestApplyAppendScalarNilCurrentTreatedAsEmpty(t *testing.T) {
	v := testVar("log", IOTypeOutput, VariableStatusPending)

	result, err := Apply(v, appendMapping(v.ID), "first entry")
	require.NoError(t, err)
	assert.Equal(t, "first entry", result)
}

func TestApplyAppendObjectOntoScalarUsesPlaceholderNotJSON(t *testing.T) {
	v := testVar("log", IOTypeOutput, VariableStatusPending)
	v.Value = "x"

	result, err := Apply(v, appendMapping(v.ID), map[string]any{"k": 1})
	require.NoError(t, err)
	assert.Equal(t, "x\n\n[object]", result)
}

func TestApplyAppendArrayOntoScalarJoinsElements(t *testing.T) {
	v := testVar("log", IOTypeOutput, VariableStatusPending)
	v.Value = "x"

	result, err := Apply(v, appendMapping(v.ID), []any{"a", map[string]any{"k": 1}})
	require.NoError(t, err)
	assert.Equal(t, "x\n\na,[object]", result)
}

func TestApplyAppendScalarOntoNilArrayStartsEmpty(t *testing.T) {
	v := testArrayVar("items", IOTypeOutput)

	result, err := Apply(v, appendMapping(v.ID), "v")
	require.NoError(t, err)
	assert.Equal(t, []any{"v"}, result)
}

func TestApplyAppendArrayOntoArrayAppendsElementwise(t *testing.T) {
	v := testArrayVar("items", IOTypeOutput)
	v.Value = []any{"a"}

	result, err := Apply(v, appendMapping(v.ID), []any{"b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, result)
}

func TestApplyAppendObjectOntoArrayPushesOneElement(t *testing.T) {
	v := testArrayVar("items", IOTypeOutput)
	v.Value = []any{"a"}

	result, err := Apply(v, appendMapping(v.ID), map[string]any{"id": 1})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", map[string]any{"id": 1}}, result)
}

func TestApplyAppendDoesNotMutateCurrentValue(t *testing.T) {
	v := testArrayVar("items", IOTypeOutput)
	current := []any{"a"}
	v.Value = current

	_, err := Apply(v, appendMapping(v.ID), "b")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, current, "the stored value must not be mutated in place")
}

func TestApplyMalformedMappingIsPassThrough(t *testing.T) {
	v := testVar("summary", IOTypeOutput, VariableStatusPending)
	v.Value = "existing"

	cases := []*Mapping{
		nil,
		{Target: NewVariableTarget(v.ID)},                    // no operation
		{Operation: OpAssign},                                // no variable target
		{Operation: OpAppend, Target: MappingTarget{Kind: TargetParameter, Parameter: "p"}},
	}

	for _, m := range cases {
		result, err := Apply(v, m, []any{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, result, "malformed mappings pass the value through unchanged")
	}
}

func TestApplyUnknownOperationIsDetectableFailure(t *testing.T) {
	v := testVar("summary", IOTypeOutput, VariableStatusPending)
	m := &Mapping{Operation: "merge", Target: NewVariableTarget(v.ID)}

	result, err := Apply(v, m, "value")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, types.NewError(types.MAPPING_UNHANDLED_OPERATION, ""))
}

func TestExtractValue(t *testing.T) {
	payload := map[string]any{
		"results": []any{
			map[string]any{"title": "first"},
			map[string]any{"title": "second"},
		},
	}

	value, err := ExtractValue("", payload)
	require.NoError(t, err)
	assert.Equal(t, payload, value, "empty selector passes the payload through")

	value, err = ExtractValue("$.results[0].title", payload)
	require.NoError(t, err)
	assert.Equal(t, "first", value)

	value, err = ExtractValue("$.results[*].title", payload)
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{"first", "second"}, value)

	value, err = ExtractValue("$.missing", payload)
	require.NoError(t, err)
	assert.Nil(t, value)

	_, err = ExtractValue("$[", payload)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.NewError(types.MAPPING_SELECTOR_INVALID, ""))
}
