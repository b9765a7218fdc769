package parser

import "strings"

// FieldFilters holds the cheap pre-filters applied to raw fields before
// brace scanning. Filtering here avoids JSON work for fields that can
// never match.
type FieldFilters struct {
	// GrepExpr: every substring must be present in the field.
	GrepExpr []string

	// Namespace: at least one namespace substring must be present.
	Namespace []string
}

// FilterStream reads fields from in, applies the filters, and forwards
// matching fields to out. It closes out when in is exhausted.
func FilterStream(in <-chan RawField, out chan<- RawField, filters FieldFilters) {
	defer close(out)

	for f := range in {
		if len(filters.GrepExpr) > 0 && !containsAll(f.Text, filters.GrepExpr) {
			continue
		}
		if len(filters.Namespace) > 0 && !containsAny(f.Text, filters.Namespace) {
			continue
		}
		out <- f
	}
}

func containsAll(s string, patterns []string) bool {
	for _, p := range patterns {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
