package analysis

import (
	"sort"
	"strings"
)

// Tagged key prefixes used in CollectionStats.
const (
	TagFilter    = "filter:"
	TagSort      = "sort:"
	TagOperation = "operation:"
	TagPlan      = "plan:"
)

// CollectionStats maps collection name to tagged field key to summed
// pattern occurrence count. Tagged keys take the forms filter:<field>,
// sort:<field>, operation:<op> and plan:<summary>.
type CollectionStats map[string]map[string]int

// AnalyzeCollections derives per-collection usage counts from the
// aggregated pattern list. Counts sum pattern occurrence counts, not
// pattern counts: a shape seen 40 times adds 40 to each of its keys.
func AnalyzeCollections(patterns []PatternCount) CollectionStats {
	stats := make(CollectionStats)

	for _, pc := range patterns {
		p := pc.Pattern

		coll := stats[p.Collection]
		if coll == nil {
			coll = make(map[string]int)
			stats[p.Collection] = coll
		}

		for _, field := range p.FilterFields {
			coll[TagFilter+field] += pc.Count
		}
		for _, field := range p.SortFields {
			coll[TagSort+field] += pc.Count
		}
		coll[TagOperation+p.Operation] += pc.Count
		if p.PlanSummary != "" && p.PlanSummary != "unknown" {
			coll[TagPlan+p.PlanSummary] += pc.Count
		}
	}

	return stats
}

// Collections returns the collection names in lexicographic order, so
// reports iterate deterministically.
func (s CollectionStats) Collections() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keys returns the tagged keys of one collection in lexicographic
// order.
func (s CollectionStats) Keys(collection string) []string {
	return sortedKeys(s[collection])
}

// TopKeys returns the tagged keys of one collection by descending
// count, name as tiebreaker.
func (s CollectionStats) TopKeys(collection string) []EntityCount {
	return SortByCount(s[collection])
}

// TopTagged returns up to limit untagged names for one tag prefix,
// ordered by descending count.
func (s CollectionStats) TopTagged(collection, tag string, limit int) []string {
	var names []string
	for _, ec := range s.TopKeys(collection) {
		if !strings.HasPrefix(ec.Name, tag) {
			continue
		}
		names = append(names, strings.TrimPrefix(ec.Name, tag))
		if len(names) == limit {
			break
		}
	}
	return names
}
