package output

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/Deathstalkerraged/mongodb-logdump-parse/analysis"
)

// JSON structures define the export format. Each structure corresponds
// to a report section:
// - SummaryJSON: run counters (fields, fragments, records, patterns).
// - PatternJSON: one aggregated query pattern with its statistics.
// - FieldDistributionJSON: value distribution of one problematic field.

type ReportJSON struct {
	Summary       SummaryJSON              `json:"summary"`
	Patterns      []PatternJSON            `json:"patterns"`
	Collections   map[string]map[string]int `json:"collections,omitempty"`
	Distributions []FieldDistributionJSON  `json:"distributions,omitempty"`
}

type SummaryJSON struct {
	FieldsScanned    int `json:"fields_scanned"`
	FragmentsFound   int `json:"fragments_found"`
	FragmentsSkipped int `json:"fragments_skipped"`
	QueryRecords     int `json:"query_records"`
	UniquePatterns   int `json:"unique_patterns"`
}

type PatternJSON struct {
	Pattern      string             `json:"pattern"`
	Collection   string             `json:"collection"`
	Operation    string             `json:"operation"`
	FilterFields []string           `json:"filter_fields,omitempty"`
	SortFields   []string           `json:"sort_fields,omitempty"`
	Plan         string             `json:"plan"`
	Index        string             `json:"index"`
	Count        int                `json:"count"`
	DurationMs   *int64             `json:"duration_ms,omitempty"`
	Durations    *DurationStatsJSON `json:"durations,omitempty"`
	FieldValues  map[string]string  `json:"field_values,omitempty"`
}

type DurationStatsJSON struct {
	Records int     `json:"records"`
	MinMs   int64   `json:"min_ms"`
	MaxMs   int64   `json:"max_ms"`
	AvgMs   float64 `json:"avg_ms"`
}

type FieldDistributionJSON struct {
	Field            string           `json:"field"`
	Values           []ValueCountJSON `json:"values"`
	ConcentrationPct float64          `json:"concentration_pct"`
	Cardinality      int              `json:"cardinality"`
}

type ValueCountJSON struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// BuildReport converts the analysis result into the export structure.
func BuildReport(res *analysis.Result, opts ReportOptions) ReportJSON {
	report := ReportJSON{
		Summary: SummaryJSON{
			FieldsScanned:    res.Global.Fields,
			FragmentsFound:   res.Global.Fragments,
			FragmentsSkipped: res.Global.Skipped,
			QueryRecords:     res.Global.Records,
			UniquePatterns:   len(res.Patterns),
		},
	}

	if opts.wants("patterns") {
		for _, pc := range res.Patterns {
			p := PatternJSON{
				Pattern:      pc.Pattern.String(),
				Collection:   pc.Pattern.Collection,
				Operation:    pc.Pattern.Operation,
				FilterFields: pc.Pattern.FilterFields,
				SortFields:   pc.Pattern.SortFields,
				Plan:         pc.Pattern.PlanSummary,
				Index:        pc.Pattern.IndexUsed,
				Count:        pc.Count,
				DurationMs:   pc.Pattern.DurationMs,
				FieldValues:  pc.Pattern.FieldValues,
			}
			if pc.Duration.Records > 0 {
				p.Durations = &DurationStatsJSON{
					Records: pc.Duration.Records,
					MinMs:   pc.Duration.MinMs,
					MaxMs:   pc.Duration.MaxMs,
					AvgMs:   pc.Duration.AvgMs(),
				}
			}
			report.Patterns = append(report.Patterns, p)
		}
	}

	if opts.wants("collections") {
		report.Collections = res.Collections
	}

	if opts.wants("distributions") {
		for _, key := range res.Distributions.Keys() {
			fd := FieldDistributionJSON{
				Field:            key,
				ConcentrationPct: res.Distributions.Concentration(key),
				Cardinality:      res.Distributions.Cardinality(key),
			}
			for _, v := range res.Distributions.TopValues(key) {
				fd.Values = append(fd.Values, ValueCountJSON{Value: v.Name, Count: v.Count})
			}
			report.Distributions = append(report.Distributions, fd)
		}
	}

	return report
}

// ExportJSON prints the analysis result as indented JSON.
func ExportJSON(res *analysis.Result, opts ReportOptions) {
	report := BuildReport(res, opts)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("[ERROR] Failed to marshal JSON report: %v", err)
	}
	fmt.Println(string(data))
}
