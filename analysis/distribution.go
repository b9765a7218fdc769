package analysis

import "sort"

// Thresholds control when a pattern or field is flagged as problematic.
type Thresholds struct {
	// HotPatternCount: patterns seen more often than this feed the
	// value distribution even without a collection scan.
	HotPatternCount int

	// ConcentrationPct: a field whose top 3 values exceed this share
	// of occurrences is flagged as skewed.
	ConcentrationPct float64

	// CardinalityLimit: a field with more distinct sampled values than
	// this is flagged as high-cardinality.
	CardinalityLimit int
}

// DefaultThresholds returns the standard flagging thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{HotPatternCount: 100, ConcentrationPct: 70, CardinalityLimit: 20}
}

func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.HotPatternCount <= 0 {
		t.HotPatternCount = d.HotPatternCount
	}
	if t.ConcentrationPct <= 0 {
		t.ConcentrationPct = d.ConcentrationPct
	}
	if t.CardinalityLimit <= 0 {
		t.CardinalityLimit = d.CardinalityLimit
	}
	return t
}

// FieldDistributions maps "<collection>:<fieldPath>" to sampled value
// to summed record count, for fields of problematic patterns.
type FieldDistributions map[string]map[string]int

// AnalyzeDistributions tabulates per-field value frequencies for every
// pattern that is problematic: a full collection scan, or more frequent
// than the hot-pattern threshold. Per-value counts come from the
// per-record tallies kept during aggregation, so two merged records
// with different filter values contribute their own values.
func AnalyzeDistributions(patterns []PatternCount, t Thresholds) FieldDistributions {
	t = t.withDefaults()
	dist := make(FieldDistributions)

	for _, pc := range patterns {
		if pc.Pattern.PlanSummary != "COLLSCAN" && pc.Count <= t.HotPatternCount {
			continue
		}

		for path, values := range pc.ValueCounts {
			key := pc.Pattern.Collection + ":" + path
			stats := dist[key]
			if stats == nil {
				stats = make(map[string]int)
				dist[key] = stats
			}
			for value, count := range values {
				stats[value] += count
			}
		}
	}

	return dist
}

// Keys returns the field keys in lexicographic order.
func (d FieldDistributions) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TopValues returns the sampled values of one field by descending
// count, value as tiebreaker.
func (d FieldDistributions) TopValues(key string) []EntityCount {
	return SortByCount(d[key])
}

// Concentration returns the percentage of occurrences attributable to
// the top 3 most frequent values of the field, 0 for an empty field.
func (d FieldDistributions) Concentration(key string) float64 {
	values := d.TopValues(key)

	total, top3 := 0, 0
	for i, v := range values {
		total += v.Count
		if i < 3 {
			top3 += v.Count
		}
	}
	if total == 0 {
		return 0
	}
	return float64(top3) / float64(total) * 100
}

// Cardinality returns the number of distinct sampled values observed
// for the field.
func (d FieldDistributions) Cardinality(key string) int {
	return len(d[key])
}
