// Package analysis implements query pattern mining for MongoDB log
// exports: field projection over command documents, pattern
// normalization and deduplication, and the derived per-collection and
// per-field statistics.
package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Sampling bounds the field value projection: how deep nested command
// documents are walked and how long a sampled string value may be.
type Sampling struct {
	MaxDepth    int
	MaxValueLen int
}

// DefaultSampling returns the standard projection bounds: three levels
// of nesting, fifty characters per value.
func DefaultSampling() Sampling {
	return Sampling{MaxDepth: 3, MaxValueLen: 50}
}

func (s Sampling) withDefaults() Sampling {
	d := DefaultSampling()
	if s.MaxDepth <= 0 {
		s.MaxDepth = d.MaxDepth
	}
	if s.MaxValueLen <= 0 {
		s.MaxValueLen = d.MaxValueLen
	}
	return s
}

// isUserField reports whether a document key names a user field.
// Operator keys ($eq, $in, ...) and the internal identifier are never
// projected.
func isUserField(key string) bool {
	return !strings.HasPrefix(key, "$") && key != "_id"
}

// ExtractFieldNames returns the sorted, deduplicated top-level user
// field names of a decoded document. Non-object values yield nothing.
func ExtractFieldNames(doc interface{}) []string {
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return nil
	}

	fields := make([]string, 0, len(obj))
	for key := range obj {
		if isUserField(key) {
			fields = append(fields, key)
		}
	}
	sort.Strings(fields)
	return fields
}

// ExtractFieldValues maps dotted field paths to one stringified sample
// value each, walking nested documents up to the default depth bound.
func ExtractFieldValues(doc interface{}, prefix string) map[string]string {
	values := make(map[string]string)
	collectFieldValues(doc, prefix, 0, DefaultSampling(), values)
	return values
}

// collectFieldValues recursively projects sample values into out.
// Sibling key collisions across recursion are last-write-wins; the
// recursion contributes nothing at or beyond the depth bound.
func collectFieldValues(doc interface{}, prefix string, depth int, s Sampling, out map[string]string) {
	if depth >= s.MaxDepth {
		return
	}

	obj, ok := doc.(map[string]interface{})
	if !ok {
		return
	}

	for key, value := range obj {
		if !isUserField(key) {
			continue
		}

		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			out[path] = truncateValue(v, s.MaxValueLen)
		case json.Number:
			out[path] = v.String()
		case float64:
			out[path] = strconv.FormatFloat(v, 'g', -1, 64)
		case bool:
			out[path] = strconv.FormatBool(v)
		case []interface{}:
			out[path] = renderArray(v)
		case map[string]interface{}:
			collectFieldValues(v, path, depth+1, s, out)
		}
	}
}

// truncateValue caps a sampled string value, marking truncation with an
// ellipsis. A value of exactly max bytes is kept verbatim; caps too
// small to hold the ellipsis leave the value untouched.
func truncateValue(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// renderArray stringifies an array value: short arrays list their
// elements, long ones collapse to an item count.
func renderArray(arr []interface{}) string {
	if len(arr) > 3 {
		return fmt.Sprintf("[%d items]", len(arr))
	}

	parts := make([]string, 0, len(arr))
	for _, el := range arr {
		parts = append(parts, renderScalar(el))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// renderScalar stringifies one array element. Nested containers fall
// back to their compact JSON text.
func renderScalar(v interface{}) string {
	switch el := v.(type) {
	case string:
		return el
	case json.Number:
		return el.String()
	case float64:
		return strconv.FormatFloat(el, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(el)
	case nil:
		return "null"
	default:
		b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(el)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
