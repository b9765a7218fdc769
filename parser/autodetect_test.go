package parser

import (
	"errors"
	"testing"
)

func TestDetectByContent(t *testing.T) {
	tests := []struct {
		name     string
		sample   string
		expected FieldParser
	}{
		{
			name:     "ndjson goes to line parser",
			sample:   `{"t":{"$date":"2026-01-10"},"attr":{"ns":"shop.orders"}}`,
			expected: &LineParser{},
		},
		{
			name:     "json array goes to line parser",
			sample:   `[{"attr":{}}]`,
			expected: &LineParser{},
		},
		{
			name:     "csv header goes to csv parser",
			sample:   "timestamp,severity,message\n2026-01-10,I,hello\n",
			expected: &CsvParser{},
		},
		{
			name:     "log text with embedded json goes to line parser",
			sample:   "2026-01-10 COMMAND conn42 {\"attr\":{}}\n",
			expected: &LineParser{},
		},
		{
			name:     "plain prose is unknown",
			sample:   "nothing to see here\n",
			expected: nil,
		},
		{
			name:     "empty sample is unknown",
			sample:   "   \n",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectByContent(tt.sample)
			switch tt.expected.(type) {
			case *LineParser:
				if _, ok := got.(*LineParser); !ok {
					t.Errorf("expected LineParser, got %T", got)
				}
			case *CsvParser:
				if _, ok := got.(*CsvParser); !ok {
					t.Errorf("expected CsvParser, got %T", got)
				}
			default:
				if got != nil {
					t.Errorf("expected no parser, got %T", got)
				}
			}
		})
	}
}

func TestDetectByExtensionRejectsMismatch(t *testing.T) {
	_, err := detectByExtension("export.csv", "csv", "{\"not\": \"csv\"")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestIsBinaryContent(t *testing.T) {
	tests := []struct {
		name     string
		sample   string
		expected bool
	}{
		{"text", "timestamp,severity\n", false},
		{"nul byte", "abc\x00def", true},
		{"mostly control chars", "\x01\x02\x03\x04x", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBinaryContent(tt.sample); got != tt.expected {
				t.Errorf("isBinaryContent(%q) = %v, expected %v", tt.sample, got, tt.expected)
			}
		})
	}
}
