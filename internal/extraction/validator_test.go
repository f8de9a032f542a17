package extraction

import (
	"testing"

	"coachflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func realitySpecs() []domain.FieldSpec {
	return []domain.FieldSpec{
		{Name: "current_state", Shape: domain.ShapeScalarString, Mandatory: true},
		{Name: "constraints", Shape: domain.ShapeStringArray, Mandatory: true},
		{Name: "resources", Shape: domain.ShapeStringArray, Mandatory: true},
		{Name: "risks", Shape: domain.ShapeStringArray, Mandatory: true},
		{Name: "notes", Shape: domain.ShapeScalarString},
	}
}

func TestValidate_PartialCapture(t *testing.T) {
	res := Validate(map[string]any{"current_state": "overloaded team"}, realitySpecs())

	assert.True(t, res.StructurallyValid)
	assert.Equal(t, []string{"current_state"}, res.PresentFields)
	assert.Equal(t, []string{"constraints", "resources", "risks"}, res.MissingMandatory)
	assert.Equal(t, domain.StringValue("overloaded team"), res.Present["current_state"])
}

func TestValidate_FullCapture(t *testing.T) {
	res := Validate(map[string]any{
		"current_state": "overloaded team",
		"constraints":   []any{"no budget"},
		"resources":     []any{"two juniors"},
		"risks":         []any{"attrition"},
	}, realitySpecs())

	assert.True(t, res.StructurallyValid)
	assert.Empty(t, res.MissingMandatory)
	assert.Len(t, res.Present, 4)
}

func TestValidate_NilPayloadNeverThrows(t *testing.T) {
	res := Validate(nil, realitySpecs())

	assert.Empty(t, res.PresentFields)
	assert.False(t, res.StructurallyValid)
	assert.Equal(t, []string{"current_state", "constraints", "resources", "risks"}, res.MissingMandatory)
}

func TestValidate_NonObjectPayloads(t *testing.T) {
	for _, candidate := range []any{"just text", 42.0, []any{"a"}, true} {
		res := Validate(candidate, realitySpecs())
		assert.False(t, res.StructurallyValid)
		assert.Empty(t, res.PresentFields)
	}
}

func TestValidate_NullAndEmptyAreNotPresent(t *testing.T) {
	res := Validate(map[string]any{
		"current_state": nil,
		"constraints":   []any{},
		"resources":     []any{"  "},
		"risks":         "",
	}, realitySpecs())

	assert.Empty(t, res.PresentFields)
	assert.Contains(t, res.MissingMandatory, "current_state")
	assert.Contains(t, res.MissingMandatory, "constraints")
	assert.Contains(t, res.MissingMandatory, "resources")
	// "risks" supplied as a scalar where an array was declared: malformed.
	assert.Contains(t, res.Malformed, "risks")
	assert.False(t, res.StructurallyValid)
}

func TestValidate_MalformedShapes(t *testing.T) {
	res := Validate(map[string]any{
		"current_state": 12.0,             // number where string declared
		"constraints":   "no budget",      // scalar where array declared
		"resources":     []any{"ok", 3.0}, // mixed array
	}, realitySpecs())

	assert.ElementsMatch(t, []string{"current_state", "constraints", "resources"}, res.Malformed)
	assert.False(t, res.StructurallyValid)
	assert.Empty(t, res.PresentFields)
}

func TestValidateRelaxed_CoercesCompatibleShapes(t *testing.T) {
	res := ValidateRelaxed(map[string]any{
		"current_state": 12.0,
		"constraints":   "no budget",
		"resources":     []any{"ok", 3.0},
		"risks":         []any{"attrition"},
	}, realitySpecs())

	assert.True(t, res.StructurallyValid)
	assert.Empty(t, res.MissingMandatory)
	assert.Equal(t, domain.StringValue("12"), res.Present["current_state"])
	assert.Equal(t, domain.ListValue([]string{"no budget"}), res.Present["constraints"])
	assert.Equal(t, domain.ListValue([]string{"ok", "3"}), res.Present["resources"])
}

func TestValidateRelaxed_NumericString(t *testing.T) {
	specs := []domain.FieldSpec{
		{Name: "commitment_level", Shape: domain.ShapeScalarNumber, Mandatory: true},
	}

	strict := Validate(map[string]any{"commitment_level": "8"}, specs)
	assert.Contains(t, strict.Malformed, "commitment_level")

	relaxed := ValidateRelaxed(map[string]any{"commitment_level": "8"}, specs)
	require.Empty(t, relaxed.Malformed)
	assert.Equal(t, domain.NumberValue(8), relaxed.Present["commitment_level"])
}

func TestValidate_ObjectShape(t *testing.T) {
	specs := []domain.FieldSpec{
		{Name: "owner", Shape: domain.ShapeObject, Mandatory: true},
	}

	res := Validate(map[string]any{"owner": map[string]any{"name": "sam", "team": "infra"}}, specs)
	require.True(t, res.StructurallyValid)
	assert.Equal(t, domain.ObjectValue(map[string]string{"name": "sam", "team": "infra"}), res.Present["owner"])

	res = Validate(map[string]any{"owner": map[string]any{"count": 3.0}}, specs)
	assert.Contains(t, res.Malformed, "owner")

	res = ValidateRelaxed(map[string]any{"owner": map[string]any{"count": 3.0, "ok": true}}, specs)
	require.Empty(t, res.Malformed)
	assert.Equal(t, domain.ObjectValue(map[string]string{"count": "3", "ok": "true"}), res.Present["owner"])
}

func TestValidate_UnknownFieldsIgnored(t *testing.T) {
	res := Validate(map[string]any{
		"current_state": "fine",
		"hallucinated":  "extra",
	}, realitySpecs())

	assert.True(t, res.StructurallyValid)
	assert.Equal(t, []string{"current_state"}, res.PresentFields)
	assert.NotContains(t, res.Malformed, "hallucinated")
}

func TestValidate_Deterministic(t *testing.T) {
	payload := map[string]any{
		"current_state": "fine",
		"constraints":   []any{"a", "b"},
	}
	first := Validate(payload, realitySpecs())
	second := Validate(payload, realitySpecs())
	assert.Equal(t, first, second, "validator must be a pure function")
}
