package output

import (
	"testing"

	"github.com/Deathstalkerraged/mongodb-logdump-parse/analysis"
)

func testResult() *analysis.Result {
	d := int64(120)
	return &analysis.Result{
		Patterns: []analysis.PatternCount{
			{
				Pattern: &analysis.QueryPattern{
					Collection:   "orders",
					Operation:    "find",
					FilterFields: []string{"status"},
					PlanSummary:  "COLLSCAN",
					IndexUsed:    "unknown",
					DurationMs:   &d,
					FieldValues:  map[string]string{"status": "open"},
				},
				Count: 5,
				Duration: analysis.DurationStats{
					Records: 5, TotalMs: 600, MinMs: 100, MaxMs: 140,
				},
			},
		},
		Collections: analysis.CollectionStats{
			"orders": {analysis.TagFilter + "status": 5},
		},
		Distributions: analysis.FieldDistributions{
			"orders:status": {"open": 3, "closed": 2},
		},
		Global: analysis.GlobalStats{Fields: 10, Fragments: 6, Skipped: 1, Records: 5},
	}
}

func TestBuildReport(t *testing.T) {
	report := BuildReport(testResult(), ReportOptions{})

	if report.Summary.QueryRecords != 5 || report.Summary.UniquePatterns != 1 {
		t.Errorf("unexpected summary: %+v", report.Summary)
	}

	if len(report.Patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(report.Patterns))
	}
	p := report.Patterns[0]
	if p.Collection != "orders" || p.Count != 5 {
		t.Errorf("unexpected pattern entry: %+v", p)
	}
	if p.Durations == nil || p.Durations.AvgMs != 120 {
		t.Errorf("expected duration stats with avg 120, got %+v", p.Durations)
	}

	if report.Collections["orders"][analysis.TagFilter+"status"] != 5 {
		t.Errorf("unexpected collections: %v", report.Collections)
	}

	if len(report.Distributions) != 1 {
		t.Fatalf("expected 1 distribution, got %d", len(report.Distributions))
	}
	fd := report.Distributions[0]
	if fd.Field != "orders:status" || fd.Cardinality != 2 || fd.ConcentrationPct != 100 {
		t.Errorf("unexpected distribution: %+v", fd)
	}
	// Values sorted by descending count.
	if fd.Values[0].Value != "open" || fd.Values[0].Count != 3 {
		t.Errorf("unexpected value order: %+v", fd.Values)
	}
}

func TestBuildReportSectionGating(t *testing.T) {
	report := BuildReport(testResult(), ReportOptions{Sections: []string{"patterns"}})

	if len(report.Patterns) != 1 {
		t.Errorf("patterns section should be present")
	}
	if report.Collections != nil {
		t.Errorf("collections section should be gated off: %v", report.Collections)
	}
	if report.Distributions != nil {
		t.Errorf("distributions section should be gated off: %v", report.Distributions)
	}
}

func TestBuildReportOmitsEmptyDurations(t *testing.T) {
	res := testResult()
	res.Patterns[0].Duration = analysis.DurationStats{}

	report := BuildReport(res, ReportOptions{})
	if report.Patterns[0].Durations != nil {
		t.Errorf("patterns without observed durations should omit stats: %+v",
			report.Patterns[0].Durations)
	}
}

func TestFormatMs(t *testing.T) {
	tests := []struct {
		ms       float64
		expected string
	}{
		{0, "-"},
		{870, "870 ms"},
		{2300, "2.3 s"},
	}

	for _, tt := range tests {
		if got := formatMs(tt.ms); got != tt.expected {
			t.Errorf("formatMs(%v) = %q, expected %q", tt.ms, got, tt.expected)
		}
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("abcdefghij", 8); got != "abcde..." {
		t.Errorf("truncateText = %q", got)
	}
	if got := truncateText("short", 8); got != "short" {
		t.Errorf("short text should be untouched: %q", got)
	}
}
