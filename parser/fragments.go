package parser

import "strings"

// ScanFragments walks a text field left to right and calls emit for
// every maximal substring that is brace-balanced at top level. The scan
// tracks a nesting depth counter only: a candidate opens when depth
// moves 0->1 and closes when it returns to 0. Stray closing braces at
// top level are ignored, and a candidate still open at the end of the
// field is discarded.
//
// The scanner knows nothing about JSON syntax. Braces inside quoted
// string values split candidates incorrectly; such candidates fail to
// parse downstream and are dropped there.
func ScanFragments(field string, emit func(string)) {
	field = strings.TrimSpace(field)

	depth := 0
	start := -1

	for i := 0; i < len(field); i++ {
		switch field[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				emit(field[start : i+1])
				start = -1
			}
		}
	}
}

// ExtractFragments returns every balanced-brace candidate in the field,
// in scan order.
func ExtractFragments(field string) []string {
	var fragments []string
	ScanFragments(field, func(text string) {
		fragments = append(fragments, text)
	})
	return fragments
}
