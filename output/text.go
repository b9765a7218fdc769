package output

import (
	"fmt"

	"github.com/Deathstalkerraged/mongodb-logdump-parse/analysis"
)

// PrintReport renders the full analysis result as a terminal report.
func PrintReport(res *analysis.Result, opts ReportOptions) {
	printRunSummary(res.Global, len(res.Patterns))

	if opts.wants("patterns") {
		printPatternSection(res.Patterns, opts)
	}
	if opts.wants("collections") {
		printCollectionSection(res, opts)
	}
	if opts.wants("distributions") {
		printDistributionSection(res.Distributions, opts)
	}
}

func printRunSummary(g analysis.GlobalStats, uniquePatterns int) {
	fmt.Println(ansiBold + "\nSUMMARY\n" + ansiReset)
	fmt.Printf("  %-25s : %d\n", "Fields scanned", g.Fields)
	fmt.Printf("  %-25s : %d\n", "Fragments found", g.Fragments)
	fmt.Printf("  %-25s : %d\n", "Fragments skipped", g.Skipped)
	fmt.Printf("  %-25s : %d\n", "Query records", g.Records)
	fmt.Printf("  %-25s : %d\n", "Unique patterns", uniquePatterns)
}

func printPatternSection(patterns []analysis.PatternCount, opts ReportOptions) {
	fmt.Println(ansiBold + "\nTOP QUERY PATTERNS\n" + ansiReset)
	PrintPatternTable(patterns, opts.top())

	fmt.Println()
	for i, pc := range patterns {
		if i == opts.top() {
			break
		}
		fmt.Printf("%d. %s (appears %d times)\n", i+1, pc.Pattern, pc.Count)
		if pc.Pattern.PlanSummary == "COLLSCAN" {
			fmt.Println("   ! collection scan - no index supports this shape")
		}
		if len(pc.Pattern.FilterFields) > 3 {
			fmt.Printf("   ! complex filter with %d fields\n", len(pc.Pattern.FilterFields))
		}
	}
}

func printCollectionSection(res *analysis.Result, opts ReportOptions) {
	fmt.Println(ansiBold + "\nCOLLECTIONS\n" + ansiReset)

	stats := res.Collections
	for _, collection := range stats.Collections() {
		name := collection
		if name == "" {
			name = "(no namespace)"
		}
		fmt.Printf("%sCollection: %s%s\n", ansiBold, name, ansiReset)

		keys := stats.TopKeys(collection)
		limit := opts.top()
		if len(keys) < limit {
			limit = len(keys)
		}

		collscans := 0
		for _, ec := range keys[:limit] {
			fmt.Printf("  %-35s : %d\n", ec.Name, ec.Count)
		}
		for _, ec := range keys {
			if ec.Name == analysis.TagPlan+"COLLSCAN" {
				collscans = ec.Count
			}
		}

		topFilters := stats.TopTagged(collection, analysis.TagFilter, 3)
		topSorts := stats.TopTagged(collection, analysis.TagSort, 2)

		if collscans > 0 {
			fmt.Printf("  ! %d collection scans on this collection\n", collscans)
			if len(topFilters) > 0 {
				fmt.Printf("  > add an index on the most filtered fields: [%s]\n",
					indexSpec(topFilters))
			}
			if len(topSorts) > 0 {
				fmt.Printf("  > consider covering the sort fields too: [%s]\n",
					indexSpec(topSorts))
			}
		}

		if compound := compoundIndexFields(topFilters, topSorts); len(compound) > 1 && collection != "" {
			fmt.Printf("  > suggested compound index: db.%s.createIndex({ %s })\n",
				collection, indexSpec(compound))
		}
		fmt.Println()
	}
}

// compoundIndexFields builds a compound index suggestion from the top
// two filter fields followed by the top sort field.
func compoundIndexFields(filters, sorts []string) []string {
	var fields []string
	for i, f := range filters {
		if i == 2 {
			break
		}
		fields = append(fields, f)
	}
	if len(sorts) > 0 {
		fields = append(fields, sorts[0])
	}
	return fields
}

func printDistributionSection(dist analysis.FieldDistributions, opts ReportOptions) {
	if len(dist) == 0 {
		return
	}

	fmt.Println(ansiBold + "\nFIELD VALUE DISTRIBUTIONS (problematic patterns)\n" + ansiReset)

	for _, key := range dist.Keys() {
		fmt.Printf("%sField: %s%s\n", ansiBold, key, ansiReset)

		values := dist.TopValues(key)
		limit := opts.top()
		if len(values) < limit {
			limit = len(values)
		}
		for i, v := range values[:limit] {
			fmt.Printf("  %d. %q -> %d slow queries\n", i+1, v.Name, v.Count)
		}

		concentration := dist.Concentration(key)
		if concentration > opts.ConcentrationPct {
			fmt.Printf("  ! top 3 values cause %.1f%% of slow queries on this field\n", concentration)
			fmt.Println("  > consider partial or specialized indexes for these values")
		}
		if cardinality := dist.Cardinality(key); cardinality > opts.CardinalityLimit {
			fmt.Printf("  ! high cardinality field (%d distinct values) - review selectivity\n", cardinality)
		}
		fmt.Println()
	}
}
