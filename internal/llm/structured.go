package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validator checks a decoded value after JSON extraction. Returns nil if
// valid, or a descriptive error if invalid.
type Validator[T any] func(T) error

// ExtractJSON extracts a JSON object of type T from raw LLM text output.
// Models wrap JSON in markdown fences, prepend prose, emit comments, and
// produce loose numeric literals; all of that is tolerated here so callers
// only ever see a decoded value or ErrInvalidOutput.
func ExtractJSON[T any](raw string, validator Validator[T]) (T, error) {
	var zero T

	block := firstObjectBlock(dropCodeFences(raw))
	if block == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(sanitizeJSON(block)), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}

	return result, nil
}

// ExtractObject extracts a loose JSON object. Used for candidate payloads
// whose keys are only known at runtime (the step's field specs).
func ExtractObject(raw string) (map[string]any, error) {
	return ExtractJSON[map[string]any](raw, nil)
}

// dropCodeFences removes markdown code fence lines (```json ... ```).
func dropCodeFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// firstObjectBlock returns the first balanced { ... } block in the text,
// respecting string literals and escapes.
func firstObjectBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}

// sanitizeJSON repairs the two malformations local models emit most often:
// C-style comments outside string values, and numeric literals with a bare
// leading decimal point (".8", "-.3").
func sanitizeJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)

		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}

		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) {
				if s[i] == '*' && s[i+1] == '/' {
					i++
					break
				}
				i++
			}

		case c == '.' && i+1 < len(s) && isDigit(s[i+1]) && atNumberStart(s, i):
			b.WriteByte('0')
			b.WriteByte(c)

		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// atNumberStart reports whether a '.' at index i begins a numeric literal
// (preceded, ignoring whitespace, by a value boundary or minus sign).
func atNumberStart(s string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch s[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case ':', ',', '[', '{', '-':
			return true
		default:
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
