package parser

import (
	"reflect"
	"testing"
)

func TestExtractFragments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single object",
			input:    `{"a":1}`,
			expected: []string{`{"a":1}`},
		},
		{
			name:     "object with surrounding text",
			input:    `2026-01-10T12:00:00 COMMAND {"a":1} conn42`,
			expected: []string{`{"a":1}`},
		},
		{
			name:     "two top-level objects",
			input:    `{"a":1} and {"b":2}`,
			expected: []string{`{"a":1}`, `{"b":2}`},
		},
		{
			name:     "nested braces stay in one fragment",
			input:    `{"filter":{"status":{"$in":["a"]}}}`,
			expected: []string{`{"filter":{"status":{"$in":["a"]}}}`},
		},
		{
			name:     "stray closing brace before object is ignored",
			input:    `} {"a":1}`,
			expected: []string{`{"a":1}`},
		},
		{
			name:     "unterminated candidate is discarded",
			input:    `{"a":1} {"b":`,
			expected: []string{`{"a":1}`},
		},
		{
			name:     "no braces",
			input:    `plain text field`,
			expected: nil,
		},
		{
			name:     "only closing braces",
			input:    `}}}`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractFragments(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractFragments(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestScanFragmentsBalance(t *testing.T) {
	// Every emitted candidate must itself be brace-balanced.
	input := `x {"a":{"b":1}} y {"c":[{"d":2},{"e":3}]} } {`

	ScanFragments(input, func(fragment string) {
		depth := 0
		for i := 0; i < len(fragment); i++ {
			switch fragment[i] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth < 0 {
				t.Fatalf("fragment %q closes more braces than it opens", fragment)
			}
		}
		if depth != 0 {
			t.Errorf("fragment %q is not balanced (depth %d)", fragment, depth)
		}
		if fragment[0] != '{' || fragment[len(fragment)-1] != '}' {
			t.Errorf("fragment %q does not span brace to brace", fragment)
		}
	})
}
