package analysis

import (
	"reflect"
	"testing"
)

func testPatterns() []PatternCount {
	return []PatternCount{
		{
			Pattern: &QueryPattern{
				Collection:   "orders",
				Operation:    "find",
				FilterFields: []string{"status", "user"},
				SortFields:   []string{"created"},
				PlanSummary:  "COLLSCAN",
			},
			Count: 40,
		},
		{
			Pattern: &QueryPattern{
				Collection:   "orders",
				Operation:    "find",
				FilterFields: []string{"status"},
				PlanSummary:  "IXSCAN { status: 1 }",
			},
			Count: 10,
		},
		{
			Pattern: &QueryPattern{
				Collection:  "users",
				Operation:   "other",
				PlanSummary: "unknown",
			},
			Count: 3,
		},
	}
}

func TestAnalyzeCollections(t *testing.T) {
	stats := AnalyzeCollections(testPatterns())

	if got := stats.Collections(); !reflect.DeepEqual(got, []string{"orders", "users"}) {
		t.Fatalf("Collections() = %v", got)
	}

	orders := stats["orders"]
	// Occurrence counts sum per pattern count, not per pattern.
	if orders[TagFilter+"status"] != 50 {
		t.Errorf("filter:status = %d, expected 50", orders[TagFilter+"status"])
	}
	if orders[TagFilter+"user"] != 40 {
		t.Errorf("filter:user = %d, expected 40", orders[TagFilter+"user"])
	}
	if orders[TagSort+"created"] != 40 {
		t.Errorf("sort:created = %d, expected 40", orders[TagSort+"created"])
	}
	if orders[TagOperation+"find"] != 50 {
		t.Errorf("operation:find = %d, expected 50", orders[TagOperation+"find"])
	}
	if orders[TagPlan+"COLLSCAN"] != 40 {
		t.Errorf("plan:COLLSCAN = %d, expected 40", orders[TagPlan+"COLLSCAN"])
	}

	// Unknown plans never become tagged keys.
	users := stats["users"]
	for key := range users {
		if key == TagPlan+"unknown" {
			t.Errorf("unknown plan should not be counted: %v", users)
		}
	}
}

func TestTopKeysOrder(t *testing.T) {
	stats := AnalyzeCollections(testPatterns())

	keys := stats.TopKeys("orders")
	if len(keys) == 0 || keys[0].Name != TagFilter+"status" || keys[0].Count != 50 {
		t.Errorf("expected filter:status first, got %+v", keys)
	}
	for i := 1; i < len(keys); i++ {
		if keys[i].Count > keys[i-1].Count {
			t.Errorf("TopKeys not sorted by descending count: %+v", keys)
		}
	}
}

func TestTopTagged(t *testing.T) {
	stats := AnalyzeCollections(testPatterns())

	filters := stats.TopTagged("orders", TagFilter, 2)
	if !reflect.DeepEqual(filters, []string{"status", "user"}) {
		t.Errorf("TopTagged filters = %v", filters)
	}

	sorts := stats.TopTagged("orders", TagSort, 2)
	if !reflect.DeepEqual(sorts, []string{"created"}) {
		t.Errorf("TopTagged sorts = %v", sorts)
	}

	if got := stats.TopTagged("users", TagSort, 2); got != nil {
		t.Errorf("expected no sort fields for users, got %v", got)
	}
}
