package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoStepFramework() Framework {
	return Framework{
		ID:   "MINI",
		Name: "Mini",
		Steps: []Step{
			{Name: "first", Ordinal: 0, Fields: []FieldSpec{
				{Name: "a", Shape: ShapeScalarString, Mandatory: true, Question: "What is A?"},
				{Name: "b", Shape: ShapeStringArray, Question: "Anything for B?"},
			}},
			{Name: "last", Ordinal: 1, Fields: []FieldSpec{
				{Name: "c", Shape: ShapeScalarNumber, Mandatory: true, Question: "How much C?"},
			}},
		},
		SkipPolicy: DefaultSkipPolicy(),
	}
}

func TestFramework_StepOrder(t *testing.T) {
	fw := twoStepFramework()

	assert.Equal(t, "first", fw.FirstStep())

	next, ok := fw.NextStep("first")
	require.True(t, ok)
	assert.Equal(t, "last", next)

	_, ok = fw.NextStep("last")
	assert.False(t, ok, "terminal step has no successor")
	assert.True(t, fw.IsTerminal("last"))
	assert.False(t, fw.IsTerminal("first"))

	_, ok = fw.NextStep("missing")
	assert.False(t, ok)
	assert.False(t, fw.HasStep("missing"))
}

func TestStep_MandatoryFieldsAndQuestions(t *testing.T) {
	fw := twoStepFramework()
	step, ok := fw.StepByName("first")
	require.True(t, ok)

	assert.Equal(t, []string{"a"}, step.MandatoryFields())
	assert.Equal(t, []string{"What is A?", "Anything for B?"}, step.Questions())

	f, ok := step.FieldByName("b")
	require.True(t, ok)
	assert.False(t, f.Mandatory)
}

func TestFieldValue_IsEmpty(t *testing.T) {
	assert.True(t, StringValue("  ").IsEmpty())
	assert.True(t, ListValue(nil).IsEmpty())
	assert.True(t, ObjectValue(nil).IsEmpty())
	assert.False(t, NumberValue(0).IsEmpty(), "zero is a real numeric answer")
	assert.False(t, StringValue("x").IsEmpty())
	assert.False(t, ListValue([]string{"x"}).IsEmpty())
}

func TestPayloadRoundTrip(t *testing.T) {
	payload := map[string]FieldValue{
		"current_state": StringValue("overloaded team"),
		"constraints":   ListValue([]string{"no budget", "tight deadline"}),
		"score":         NumberValue(7.5),
		"owner":         ObjectValue(map[string]string{"name": "sam"}),
	}

	raw, err := EncodePayload(payload)
	require.NoError(t, err)

	decoded, err := DecodePayload(raw)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)

	empty, err := DecodePayload("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
