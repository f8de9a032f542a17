// Package extraction validates candidate payloads produced by the LLM
// against a step's field specs. The validator is pure: identical input
// always yields identical output, and it never fails on malformed data;
// every malformation is described in the returned ValidationResult.
package extraction

import (
	"sort"
	"strconv"
	"strings"

	"coachflow/internal/domain"
)

// ValidationResult is the verdict on one candidate payload.
type ValidationResult struct {
	// Present maps field names to their converted values. Only fields that
	// are declared in the specs, non-null, non-empty, and of the expected
	// shape (or coercible in relaxed mode) appear here.
	Present map[string]domain.FieldValue

	// PresentFields lists the keys of Present in spec declaration order.
	PresentFields []string

	// MissingMandatory lists mandatory fields that are absent, null, empty,
	// or malformed, in spec declaration order.
	MissingMandatory []string

	// Malformed lists fields that were supplied with the wrong shape.
	Malformed []string

	// StructurallyValid is false when the candidate is not a JSON object at
	// all or when any declared field is malformed.
	StructurallyValid bool
}

// Validate checks a candidate payload against the step's field specs using
// strict shape rules. The candidate is untrusted: any value, including nil,
// is handled without panicking.
func Validate(candidate any, specs []domain.FieldSpec) ValidationResult {
	return validate(candidate, specs, false)
}

// ValidateRelaxed is Validate with skip-driven relaxation: values of a
// compatible but wrong shape are coerced instead of rejected (a lone string
// becomes a one-element list, a numeric string becomes a number, and so on).
func ValidateRelaxed(candidate any, specs []domain.FieldSpec) ValidationResult {
	return validate(candidate, specs, true)
}

func validate(candidate any, specs []domain.FieldSpec, relaxed bool) ValidationResult {
	res := ValidationResult{
		Present:           map[string]domain.FieldValue{},
		StructurallyValid: true,
	}

	obj, ok := candidate.(map[string]any)
	if !ok || obj == nil {
		// Not an object: nothing captured. Unparseable model output is a
		// structural failure, not an error.
		res.StructurallyValid = false
		for _, spec := range specs {
			if spec.Mandatory {
				res.MissingMandatory = append(res.MissingMandatory, spec.Name)
			}
		}
		return res
	}

	for _, spec := range specs {
		raw, supplied := obj[spec.Name]
		if !supplied || raw == nil {
			// Explicit null counts as not present. The model must not be
			// rewarded for guessing.
			if spec.Mandatory {
				res.MissingMandatory = append(res.MissingMandatory, spec.Name)
			}
			continue
		}

		value, ok := convert(raw, spec.Shape, relaxed)
		if !ok {
			res.Malformed = append(res.Malformed, spec.Name)
			res.StructurallyValid = false
			if spec.Mandatory {
				res.MissingMandatory = append(res.MissingMandatory, spec.Name)
			}
			continue
		}
		if value.IsEmpty() {
			// Empty never satisfies a field; "empty" is not "satisfied".
			if spec.Mandatory {
				res.MissingMandatory = append(res.MissingMandatory, spec.Name)
			}
			continue
		}

		res.Present[spec.Name] = value
		res.PresentFields = append(res.PresentFields, spec.Name)
	}

	// Unknown fields in the candidate are ignored, not rejected.
	return res
}

// convert turns a raw JSON value into a FieldValue of the declared shape.
// Returns false when the value cannot represent the shape.
func convert(raw any, shape domain.FieldShape, relaxed bool) (domain.FieldValue, bool) {
	switch shape {
	case domain.ShapeScalarString:
		if s, ok := raw.(string); ok {
			return domain.StringValue(strings.TrimSpace(s)), true
		}
		if relaxed {
			if n, ok := asNumber(raw); ok {
				return domain.StringValue(strconv.FormatFloat(n, 'f', -1, 64)), true
			}
		}
		return domain.FieldValue{}, false

	case domain.ShapeScalarNumber:
		if n, ok := asNumber(raw); ok {
			return domain.NumberValue(n), true
		}
		if relaxed {
			if s, ok := raw.(string); ok {
				if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
					return domain.NumberValue(n), true
				}
			}
		}
		return domain.FieldValue{}, false

	case domain.ShapeStringArray:
		if items, ok := raw.([]any); ok {
			return convertList(items, relaxed)
		}
		if relaxed {
			if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
				return domain.ListValue([]string{strings.TrimSpace(s)}), true
			}
			if n, ok := asNumber(raw); ok {
				return domain.ListValue([]string{strconv.FormatFloat(n, 'f', -1, 64)}), true
			}
		}
		return domain.FieldValue{}, false

	case domain.ShapeObject:
		m, ok := raw.(map[string]any)
		if !ok {
			return domain.FieldValue{}, false
		}
		out := make(map[string]string, len(m))
		for k, v := range m {
			switch tv := v.(type) {
			case string:
				out[k] = tv
			case nil:
				// Null entries are dropped rather than failing the object.
			default:
				if !relaxed {
					return domain.FieldValue{}, false
				}
				if n, ok := asNumber(v); ok {
					out[k] = strconv.FormatFloat(n, 'f', -1, 64)
				} else if b, ok := v.(bool); ok {
					out[k] = strconv.FormatBool(b)
				} else {
					return domain.FieldValue{}, false
				}
			}
		}
		return domain.ObjectValue(out), true

	default:
		return domain.FieldValue{}, false
	}
}

func convertList(items []any, relaxed bool) (domain.FieldValue, bool) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch tv := item.(type) {
		case string:
			if s := strings.TrimSpace(tv); s != "" {
				out = append(out, s)
			}
		case nil:
			// Null elements are dropped.
		default:
			if !relaxed {
				return domain.FieldValue{}, false
			}
			if n, ok := asNumber(item); ok {
				out = append(out, strconv.FormatFloat(n, 'f', -1, 64))
			} else {
				return domain.FieldValue{}, false
			}
		}
	}
	return domain.ListValue(out), true
}

// asNumber accepts the numeric representations encoding/json may produce.
func asNumber(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// SortedFieldNames returns the keys of a captured payload in a stable order,
// for deterministic prompt assembly and display.
func SortedFieldNames(captured map[string]domain.FieldValue) []string {
	names := make([]string, 0, len(captured))
	for name := range captured {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
