package analysis

import "sort"

// EntityCount represents a named entity with its occurrence count.
type EntityCount struct {
	Name  string
	Count int
}

// SortByCount converts a count map to a slice sorted by count
// (descending), with alphabetical ordering as tiebreaker.
func SortByCount(counts map[string]int) []EntityCount {
	items := make([]EntityCount, 0, len(counts))
	for name, count := range counts {
		items = append(items, EntityCount{Name: name, Count: count})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Name < items[j].Name
	})

	return items
}

// sortedKeys returns the keys of a count map in lexicographic order.
func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
