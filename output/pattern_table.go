package output

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Deathstalkerraged/mongodb-logdump-parse/analysis"
)

// PatternTableColumn represents a column in the pattern table.
type PatternTableColumn struct {
	// Header is the column header text.
	Header string

	// Width is the column width (0 = auto for the pattern column).
	Width int

	// Alignment is "left" or "right".
	Alignment string

	// ValueFunc extracts the column value from a PatternRow.
	ValueFunc func(row PatternRow) string
}

// PatternRow is one row of the pattern table.
type PatternRow struct {
	Pattern    string
	Collection string
	Operation  string
	Plan       string
	Count      int
	AvgMs      float64
	MaxMs      float64
}

// PrintPatternTable prints the aggregated patterns as a table. On wide
// terminals the full pattern identity is shown; narrow ones fall back
// to collection/operation/plan columns.
func PrintPatternTable(patterns []analysis.PatternCount, limit int) {
	if len(patterns) == 0 {
		return
	}
	if limit > 0 && len(patterns) > limit {
		patterns = patterns[:limit]
	}

	rows := make([]PatternRow, 0, len(patterns))
	for _, pc := range patterns {
		rows = append(rows, PatternRow{
			Pattern:    pc.Pattern.String(),
			Collection: pc.Pattern.Collection,
			Operation:  pc.Pattern.Operation,
			Plan:       pc.Pattern.PlanSummary,
			Count:      pc.Count,
			AvgMs:      pc.Duration.AvgMs(),
			MaxMs:      float64(pc.Duration.MaxMs),
		})
	}

	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		termWidth = 120
	}

	if termWidth >= 120 {
		printWidePatternTable(rows, termWidth)
	} else {
		printCompactPatternTable(rows)
	}
}

func printWidePatternTable(rows []PatternRow, termWidth int) {
	columns := []PatternTableColumn{
		{Header: "Pattern", Width: 0, Alignment: "left",
			ValueFunc: func(r PatternRow) string { return r.Pattern }},
		{Header: "Executed", Width: 9, Alignment: "right",
			ValueFunc: func(r PatternRow) string { return fmt.Sprintf("%d", r.Count) }},
		{Header: "Avg", Width: 9, Alignment: "right",
			ValueFunc: func(r PatternRow) string { return formatMs(r.AvgMs) }},
		{Header: "Max", Width: 9, Alignment: "right",
			ValueFunc: func(r PatternRow) string { return formatMs(r.MaxMs) }},
	}

	patternWidth := termWidth - 3*(9+2)
	if patternWidth < 40 {
		patternWidth = 40
	}

	printTable(rows, columns, patternWidth)
}

func printCompactPatternTable(rows []PatternRow) {
	columns := []PatternTableColumn{
		{Header: "Collection", Width: 18, Alignment: "left",
			ValueFunc: func(r PatternRow) string { return truncateText(r.Collection, 18) }},
		{Header: "Operation", Width: 13, Alignment: "left",
			ValueFunc: func(r PatternRow) string { return r.Operation }},
		{Header: "Plan", Width: 14, Alignment: "left",
			ValueFunc: func(r PatternRow) string { return truncateText(r.Plan, 14) }},
		{Header: "Executed", Width: 9, Alignment: "right",
			ValueFunc: func(r PatternRow) string { return fmt.Sprintf("%d", r.Count) }},
		{Header: "Avg", Width: 9, Alignment: "right",
			ValueFunc: func(r PatternRow) string { return formatMs(r.AvgMs) }},
		{Header: "Max", Width: 9, Alignment: "right",
			ValueFunc: func(r PatternRow) string { return formatMs(r.MaxMs) }},
	}

	printTable(rows, columns, 0)
}

// printTable renders header, separator and rows. autoWidth replaces a
// zero column width (the pattern column on wide terminals).
func printTable(rows []PatternRow, columns []PatternTableColumn, autoWidth int) {
	var headerParts []string
	totalWidth := 0

	for i, col := range columns {
		width := col.Width
		if width == 0 {
			width = autoWidth
		}
		if col.Alignment == "right" {
			headerParts = append(headerParts, fmt.Sprintf("%*s", width, col.Header))
		} else {
			headerParts = append(headerParts, fmt.Sprintf("%-*s", width, col.Header))
		}
		totalWidth += width
		if i < len(columns)-1 {
			totalWidth += 2
		}
	}

	fmt.Print(ansiBold)
	fmt.Println(strings.Join(headerParts, "  "))
	fmt.Print(ansiReset)
	fmt.Println(strings.Repeat("-", totalWidth))

	for _, row := range rows {
		var rowParts []string
		for _, col := range columns {
			width := col.Width
			if width == 0 {
				width = autoWidth
			}
			value := truncateText(col.ValueFunc(row), width)
			if col.Alignment == "right" {
				rowParts = append(rowParts, fmt.Sprintf("%*s", width, value))
			} else {
				rowParts = append(rowParts, fmt.Sprintf("%-*s", width, value))
			}
		}
		fmt.Println(strings.Join(rowParts, "  "))
	}
}
