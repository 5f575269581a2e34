// Package template provides {key} placeholder rendering for node
// configuration strings: LLM prompts, output templates and SQL statements.
package template

import (
	"encoding/json"
	"fmt"
	"strings"
)

// IsScalar reports whether a payload value participates in placeholder
// substitution. Only strings, numbers and booleans are interpolated;
// everything else is left to the caller untouched.
func IsScalar(value any) bool {
	switch value.(type) {
	case string, bool, int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

// Stringify renders a scalar the way it should appear inside a template.
// Integral floats (the usual shape of JSON-decoded numbers) print without
// a trailing ".0".
func Stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}

		return fmt.Sprintf("%v", v)
	case float32:
		return Stringify(float64(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Render replaces every {key} occurrence in tmpl with the stringified value
// of the matching scalar payload field. Placeholders naming absent or
// non-scalar fields are left intact.
func Render(tmpl string, data map[string]any) string {
	result := tmpl

	for key, value := range data {
		if !IsScalar(value) {
			continue
		}

		result = strings.ReplaceAll(result, "{"+key+"}", Stringify(value))
	}

	return result
}

// RenderSQL substitutes {field} placeholders into a SQL statement with
// literal quoting: numbers are inlined verbatim, strings are single-quoted
// with embedded quotes doubled, booleans become TRUE/FALSE, and any other
// value is JSON-serialized then quoted. Placeholders naming absent fields
// are left intact.
func RenderSQL(tmpl string, data map[string]any) (string, error) {
	result := tmpl

	for key, value := range data {
		placeholder := "{" + key + "}"
		if !strings.Contains(result, placeholder) {
			continue
		}

		literal, err := sqlLiteral(value)
		if err != nil {
			return "", fmt.Errorf("failed to render SQL value for %q: %w", key, err)
		}

		result = strings.ReplaceAll(result, placeholder, literal)
	}

	return result, nil
}

func sqlLiteral(value any) (string, error) {
	switch v := value.(type) {
	case int, int32, int64, float32:
		return fmt.Sprintf("%v", v), nil
	case float64:
		return Stringify(v), nil
	case string:
		return quoteSQL(v), nil
	case bool:
		if v {
			return "TRUE", nil
		}

		return "FALSE", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}

		return quoteSQL(string(data)), nil
	}
}

// quoteSQL single-quotes a string literal, doubling embedded quotes.
func quoteSQL(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
