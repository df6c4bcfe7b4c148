// Package template resolves {{path.to.field}} tokens in user-authored step
// configuration against the run's data context.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.\-]+)\s*\}\}`)

// Interpolate replaces every {{path.to.field}} occurrence in the template with
// the stringified value found by walking the dot-separated path through data.
// A token whose path is absent is left verbatim: a missing optional field must
// not abort an otherwise-continuable step.
func Interpolate(templateStr string, data map[string]any) string {
	return tokenPattern.ReplaceAllStringFunc(templateStr, func(token string) string {
		path := tokenPattern.FindStringSubmatch(token)[1]

		value, ok := Lookup(data, path)
		if !ok {
			return token
		}

		return Stringify(value)
	})
}

// Resolve behaves like Interpolate but preserves the resolved value's type
// when the template is exactly one token, so `{{order.total}}` yields the
// numeric total rather than its string form.
func Resolve(templateStr string, data map[string]any) any {
	trimmed := strings.TrimSpace(templateStr)

	match := tokenPattern.FindStringSubmatch(trimmed)
	if match != nil && match[0] == trimmed {
		if value, ok := Lookup(data, match[1]); ok {
			return value
		}

		return trimmed
	}

	return Interpolate(templateStr, data)
}

// InterpolateDocument applies Interpolate to every string leaf of a document,
// recursing through nested documents and lists.
func InterpolateDocument(doc map[string]any, data map[string]any) map[string]any {
	if doc == nil {
		return nil
	}

	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = interpolateValue(v, data)
	}

	return out
}

func interpolateValue(v any, data map[string]any) any {
	switch val := v.(type) {
	case string:
		return Resolve(val, data)
	case map[string]any:
		return InterpolateDocument(val, data)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = interpolateValue(item, data)
		}

		return items
	default:
		return v
	}
}

// Lookup walks a dot-separated path through nested documents. The second
// return value is false when any segment of the path is absent.
func Lookup(data map[string]any, path string) (any, bool) {
	var current any = data

	for _, segment := range strings.Split(path, ".") {
		doc, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = doc[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// SetPath writes value at a dot-separated path, creating intermediate
// documents as needed. Non-document intermediates are replaced.
func SetPath(data map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := data

	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}

		current = next
	}

	current[segments[len(segments)-1]] = value
}

// Stringify renders a resolved value for textual substitution.
func Stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// Render integral floats without the trailing ".0" JSON decoding adds.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}

		return fmt.Sprintf("%g", v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
