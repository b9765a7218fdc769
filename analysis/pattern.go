package analysis

import (
	"encoding/json"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var fragmentJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// QueryPattern is the normalized, de-valued shape of one query record.
// It is built once per recognized record and never mutated afterwards.
type QueryPattern struct {
	// Collection is the last segment of the dotted namespace
	// ("shop.orders" -> "orders"); empty when the record carried no
	// namespace or the namespace had no dot.
	Collection string

	// Operation is one of "find", "getMore", "listDatabases" or
	// "other"; empty when the record carried no command document.
	Operation string

	// FilterFields and SortFields are sorted, deduplicated user field
	// names from the filter and sort documents.
	FilterFields []string
	SortFields   []string

	// IndexUsed is reserved; nothing populates it from input yet.
	IndexUsed string

	// PlanSummary is the execution plan identifier (COLLSCAN, IXSCAN,
	// ...); "unknown" when absent.
	PlanSummary string

	// DurationMs is the execution time in milliseconds, nil when the
	// record carried none.
	DurationMs *int64

	// FieldValues maps dotted filter field paths to one sampled value
	// each.
	FieldValues map[string]string
}

// String renders the display form of the pattern:
//
//	Collection: orders | Operation: find | Filter fields: [status] | Plan: COLLSCAN
//
// Empty field lists and "unknown" plan/index are omitted.
func (p *QueryPattern) String() string {
	parts := []string{
		"Collection: " + p.Collection,
		"Operation: " + p.Operation,
	}

	if len(p.FilterFields) > 0 {
		parts = append(parts, "Filter fields: ["+strings.Join(p.FilterFields, ", ")+"]")
	}
	if len(p.SortFields) > 0 {
		parts = append(parts, "Sort fields: ["+strings.Join(p.SortFields, ", ")+"]")
	}
	if p.PlanSummary != "" && p.PlanSummary != "unknown" {
		parts = append(parts, "Plan: "+p.PlanSummary)
	}
	if p.IndexUsed != "" && p.IndexUsed != "unknown" {
		parts = append(parts, "Index: "+p.IndexUsed)
	}

	return strings.Join(parts, " | ")
}

// Key returns the canonical deduplication identity of the pattern.
// Duration and sampled values do not participate: records with the same
// shape but different timings or values collapse into one pattern.
func (p *QueryPattern) Key() string {
	return p.String()
}

// ParsePattern normalizes one brace-delimited fragment into a query
// pattern using the default sampling bounds. The second return value is
// false when the fragment is not well-formed JSON, lacks the top-level
// attr object, or yields neither a collection nor an operation.
func ParsePattern(fragment string) (*QueryPattern, bool) {
	return ParsePatternSampled(fragment, DefaultSampling())
}

// ParsePatternSampled is ParsePattern with explicit sampling bounds.
func ParsePatternSampled(fragment string, s Sampling) (*QueryPattern, bool) {
	s = s.withDefaults()

	dec := fragmentJSON.NewDecoder(strings.NewReader(fragment))
	dec.UseNumber()

	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, false
	}

	attr, ok := doc["attr"].(map[string]interface{})
	if !ok {
		return nil, false
	}

	p := &QueryPattern{
		IndexUsed:   "unknown",
		PlanSummary: "unknown",
		FieldValues: make(map[string]string),
	}

	if ns, ok := attr["ns"].(string); ok {
		if dot := strings.LastIndexByte(ns, '.'); dot != -1 {
			p.Collection = ns[dot+1:]
		}
	}

	if plan, ok := attr["planSummary"].(string); ok {
		p.PlanSummary = plan
	}

	if n, ok := attr["durationMillis"].(json.Number); ok {
		if d, err := n.Int64(); err == nil {
			p.DurationMs = &d
		}
	}

	if command, ok := attr["command"].(map[string]interface{}); ok {
		// Operation kind is detected by key presence, not value.
		switch {
		case hasKey(command, "find"):
			p.Operation = "find"
		case hasKey(command, "getMore"):
			p.Operation = "getMore"
		case hasKey(command, "listDatabases"):
			p.Operation = "listDatabases"
		default:
			p.Operation = "other"
		}

		if filter, ok := command["filter"]; ok {
			p.FilterFields = ExtractFieldNames(filter)
			collectFieldValues(filter, "", 0, s, p.FieldValues)
		}
		if sortSpec, ok := command["sort"]; ok {
			p.SortFields = ExtractFieldNames(sortSpec)
		}
	}

	// getMore cursors carry their real shape in the originating
	// command, not in the getMore document itself.
	if p.Operation == "getMore" {
		if orig, ok := attr["originatingCommand"].(map[string]interface{}); ok {
			if filter, ok := orig["filter"]; ok {
				p.FilterFields = ExtractFieldNames(filter)
				collectFieldValues(filter, "", 0, s, p.FieldValues)
			}
			if sortSpec, ok := orig["sort"]; ok {
				p.SortFields = ExtractFieldNames(sortSpec)
			}
		}
	}

	if p.Collection == "" && p.Operation == "" {
		return nil, false
	}

	return p, true
}

func hasKey(obj map[string]interface{}, key string) bool {
	_, ok := obj[key]
	return ok
}
