package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FieldKind discriminates the variants of FieldValue.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindNumber FieldKind = "number"
	KindList   FieldKind = "list"
	KindObject FieldKind = "object"
)

// FieldValue is a closed sum type for extracted field values. Candidate
// payloads arrive as untyped JSON; the extraction validator converts them
// into FieldValues so downstream code never handles raw `any`.
type FieldValue struct {
	Kind FieldKind
	Str  string
	Num  float64
	List []string
	Obj  map[string]string
}

func StringValue(s string) FieldValue { return FieldValue{Kind: KindString, Str: s} }

func NumberValue(n float64) FieldValue { return FieldValue{Kind: KindNumber, Num: n} }

func ListValue(items []string) FieldValue { return FieldValue{Kind: KindList, List: items} }

func ObjectValue(m map[string]string) FieldValue { return FieldValue{Kind: KindObject, Obj: m} }

// IsEmpty reports whether the value carries no information. An empty value
// never satisfies a mandatory field.
func (v FieldValue) IsEmpty() bool {
	switch v.Kind {
	case KindString:
		return strings.TrimSpace(v.Str) == ""
	case KindNumber:
		return false
	case KindList:
		return len(v.List) == 0
	case KindObject:
		return len(v.Obj) == 0
	default:
		return true
	}
}

// Display renders the value for terminal output and prompt interpolation.
func (v FieldValue) Display() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindList:
		return strings.Join(v.List, "; ")
	case KindObject:
		keys := make([]string, 0, len(v.Obj))
		for k := range v.Obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+v.Obj[k])
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

// fieldValueJSON is the storage representation of a FieldValue.
type fieldValueJSON struct {
	Kind FieldKind         `json:"kind"`
	Str  string            `json:"str,omitempty"`
	Num  float64           `json:"num,omitempty"`
	List []string          `json:"list,omitempty"`
	Obj  map[string]string `json:"obj,omitempty"`
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldValueJSON{Kind: v.Kind, Str: v.Str, Num: v.Num, List: v.List, Obj: v.Obj})
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw fieldValueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding field value: %w", err)
	}
	switch raw.Kind {
	case KindString, KindNumber, KindList, KindObject:
	default:
		return fmt.Errorf("unknown field value kind %q", raw.Kind)
	}
	*v = FieldValue{Kind: raw.Kind, Str: raw.Str, Num: raw.Num, List: raw.List, Obj: raw.Obj}
	return nil
}

// EncodePayload serializes a captured payload for SQLite storage.
func EncodePayload(payload map[string]FieldValue) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}
	return string(data), nil
}

// DecodePayload deserializes a stored payload. An empty string decodes to an
// empty map so older rows remain readable.
func DecodePayload(raw string) (map[string]FieldValue, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]FieldValue{}, nil
	}
	var payload map[string]FieldValue
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	if payload == nil {
		payload = map[string]FieldValue{}
	}
	return payload, nil
}
