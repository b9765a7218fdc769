package analysis

import "testing"

func TestAnalyzeDistributionsGate(t *testing.T) {
	patterns := []PatternCount{
		{
			// Collection scan: always feeds the distribution.
			Pattern: &QueryPattern{Collection: "orders", PlanSummary: "COLLSCAN"},
			Count:   5,
			ValueCounts: map[string]map[string]int{
				"status": {"open": 3, "closed": 2},
			},
		},
		{
			// Indexed and rare: stays out.
			Pattern: &QueryPattern{Collection: "users", PlanSummary: "IXSCAN"},
			Count:   5,
			ValueCounts: map[string]map[string]int{
				"email": {"a@b": 5},
			},
		},
		{
			// Indexed but hot: above the pattern count threshold.
			Pattern: &QueryPattern{Collection: "carts", PlanSummary: "IXSCAN"},
			Count:   101,
			ValueCounts: map[string]map[string]int{
				"user": {"u1": 101},
			},
		},
	}

	dist := AnalyzeDistributions(patterns, DefaultThresholds())

	if dist["orders:status"]["open"] != 3 || dist["orders:status"]["closed"] != 2 {
		t.Errorf("orders:status = %v, expected open:3 closed:2", dist["orders:status"])
	}
	if _, ok := dist["users:email"]; ok {
		t.Errorf("rare indexed pattern should not feed the distribution: %v", dist)
	}
	if dist["carts:user"]["u1"] != 101 {
		t.Errorf("hot pattern should feed the distribution: %v", dist)
	}
}

func TestAnalyzeDistributionsMergesAcrossPatterns(t *testing.T) {
	patterns := []PatternCount{
		{
			Pattern: &QueryPattern{Collection: "orders", PlanSummary: "COLLSCAN"},
			Count:   2,
			ValueCounts: map[string]map[string]int{
				"status": {"open": 2},
			},
		},
		{
			Pattern: &QueryPattern{
				Collection:  "orders",
				SortFields:  []string{"created"},
				PlanSummary: "COLLSCAN",
			},
			Count: 1,
			ValueCounts: map[string]map[string]int{
				"status": {"open": 1},
			},
		},
	}

	dist := AnalyzeDistributions(patterns, DefaultThresholds())
	if dist["orders:status"]["open"] != 3 {
		t.Errorf("counts from distinct shapes must merge per field: %v", dist["orders:status"])
	}
}

func TestConcentration(t *testing.T) {
	dist := FieldDistributions{
		"orders:status": {"open": 3, "closed": 2},
		"orders:region": {"a": 5, "b": 4, "c": 3, "d": 2, "e": 1},
	}

	// Only two distinct values: top 3 cover everything.
	if got := dist.Concentration("orders:status"); got != 100 {
		t.Errorf("Concentration(orders:status) = %v, expected 100", got)
	}

	// 5+4+3 of 15 = 80%.
	if got := dist.Concentration("orders:region"); got != 80 {
		t.Errorf("Concentration(orders:region) = %v, expected 80", got)
	}

	if got := dist.Concentration("missing"); got != 0 {
		t.Errorf("Concentration of a missing field = %v, expected 0", got)
	}
}

func TestCardinality(t *testing.T) {
	dist := FieldDistributions{
		"orders:status": {"open": 3, "closed": 2},
	}
	if got := dist.Cardinality("orders:status"); got != 2 {
		t.Errorf("Cardinality = %d, expected 2", got)
	}
	if got := dist.Cardinality("missing"); got != 0 {
		t.Errorf("Cardinality of a missing field = %d, expected 0", got)
	}
}

func TestThresholdsDefaults(t *testing.T) {
	t0 := Thresholds{}.withDefaults()
	if t0 != DefaultThresholds() {
		t.Errorf("zero thresholds should take defaults: %+v", t0)
	}

	custom := Thresholds{HotPatternCount: 5}.withDefaults()
	if custom.HotPatternCount != 5 {
		t.Errorf("explicit threshold overridden: %+v", custom)
	}
	if custom.ConcentrationPct != DefaultThresholds().ConcentrationPct {
		t.Errorf("unset threshold should take default: %+v", custom)
	}
}
