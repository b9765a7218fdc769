// Package output renders analysis results as text, JSON or Markdown.
// It is purely presentational: all numbers come from the analysis
// package untouched.
package output

import (
	"fmt"
	"strings"
)

// ANSI styles shared by the text renderers.
const (
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
)

// ReportOptions selects what the renderers show.
type ReportOptions struct {
	// Top limits the number of rows per section (0 means 10).
	Top int

	// Sections lists the sections to render; "all" or empty renders
	// everything. Known names: patterns, collections, distributions.
	Sections []string

	// ConcentrationPct and CardinalityLimit are the flagging
	// thresholds the report annotates with.
	ConcentrationPct float64
	CardinalityLimit int
}

func (o ReportOptions) top() int {
	if o.Top <= 0 {
		return 10
	}
	return o.Top
}

func (o ReportOptions) wants(section string) bool {
	if len(o.Sections) == 0 {
		return true
	}
	for _, s := range o.Sections {
		if s == "all" || s == section {
			return true
		}
	}
	return false
}

// truncateText shortens a string for fixed-width columns.
func truncateText(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// formatMs renders a millisecond value compactly: "870 ms", "2.3 s".
func formatMs(ms float64) string {
	if ms <= 0 {
		return "-"
	}
	if ms >= 1000 {
		return fmt.Sprintf("%.1f s", ms/1000)
	}
	return fmt.Sprintf("%.0f ms", ms)
}

// indexSpec renders field names as a createIndex document body.
func indexSpec(fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": 1")
	}
	return strings.Join(parts, ", ")
}
