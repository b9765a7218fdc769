package analysis

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestExtractFieldNames(t *testing.T) {
	tests := []struct {
		name     string
		doc      interface{}
		expected []string
	}{
		{
			name: "sorted user fields",
			doc: map[string]interface{}{
				"status": "open", "created": float64(1), "user": "u1",
			},
			expected: []string{"created", "status", "user"},
		},
		{
			name: "operators and _id excluded",
			doc: map[string]interface{}{
				"$and": []interface{}{}, "_id": "x", "total": float64(5),
			},
			expected: []string{"total"},
		},
		{
			name:     "non-object yields nothing",
			doc:      "not a document",
			expected: nil,
		},
		{
			name:     "empty document",
			doc:      map[string]interface{}{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractFieldNames(tt.doc)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractFieldNames = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestExtractFieldValues(t *testing.T) {
	doc := map[string]interface{}{
		"status": "open",
		"qty":    json.Number("3"),
		"ratio":  2.5,
		"active": true,
		"$gt":    "skipped",
		"_id":    "skipped",
		"meta": map[string]interface{}{
			"region": "eu",
		},
		"tags":  []interface{}{"a", "b"},
		"items": []interface{}{"a", "b", "c", "d", "e"},
	}

	got := ExtractFieldValues(doc, "")
	expected := map[string]string{
		"status":      "open",
		"qty":         "3",
		"ratio":       "2.5",
		"active":      "true",
		"meta.region": "eu",
		"tags":        "[a,b]",
		"items":       "[5 items]",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ExtractFieldValues = %v, expected %v", got, expected)
	}
}

func TestExtractFieldValuesDepthBound(t *testing.T) {
	// Values three levels down are kept, four levels are not.
	doc := map[string]interface{}{
		"a": map[string]interface{}{
			"b": map[string]interface{}{
				"c": "reachable",
				"d": map[string]interface{}{
					"e": "too deep",
				},
			},
		},
	}

	got := ExtractFieldValues(doc, "")
	if got["a.b.c"] != "reachable" {
		t.Errorf("expected a.b.c to be sampled, got %v", got)
	}
	if _, ok := got["a.b.d.e"]; ok {
		t.Errorf("value beyond the depth bound should not be sampled: %v", got)
	}
}

func TestTruncateValue(t *testing.T) {
	long := strings.Repeat("x", 60)
	exact := strings.Repeat("y", 50)

	got := truncateValue(long, 50)
	if len(got) != 50 {
		t.Errorf("truncated value has length %d, expected 50", len(got))
	}
	if got != strings.Repeat("x", 47)+"..." {
		t.Errorf("unexpected truncation: %q", got)
	}

	if truncateValue(exact, 50) != exact {
		t.Errorf("value of exactly the limit should be kept verbatim")
	}

	// Caps smaller than the ellipsis keep the value untouched instead
	// of slicing out of range.
	for _, max := range []int{1, 2, 3} {
		if got := truncateValue("abc", max); got != "abc" {
			t.Errorf("truncateValue(abc, %d) = %q, expected abc", max, got)
		}
	}
}

func TestParsePatternSampledTinyValueCap(t *testing.T) {
	fragment := `{"attr": {"ns": "shop.orders",
		"command": {"find": "orders", "filter": {"status": "abc"}}}}`

	p, ok := ParsePatternSampled(fragment, Sampling{MaxValueLen: 2})
	if !ok {
		t.Fatal("expected record to parse")
	}
	if p.FieldValues["status"] != "abc" {
		t.Errorf("FieldValues = %v, expected status kept verbatim", p.FieldValues)
	}
}
