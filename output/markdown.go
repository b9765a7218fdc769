package output

import (
	"fmt"
	"strings"

	"github.com/Deathstalkerraged/mongodb-logdump-parse/analysis"
)

// ExportMarkdown prints the analysis result as a Markdown report
// mirroring the text sections.
func ExportMarkdown(res *analysis.Result, opts ReportOptions) {
	fmt.Println("# MongoDB slow query analysis")
	fmt.Println()
	fmt.Println("## Summary")
	fmt.Println()
	fmt.Printf("- Fields scanned: %d\n", res.Global.Fields)
	fmt.Printf("- Fragments found: %d\n", res.Global.Fragments)
	fmt.Printf("- Fragments skipped: %d\n", res.Global.Skipped)
	fmt.Printf("- Query records: %d\n", res.Global.Records)
	fmt.Printf("- Unique patterns: %d\n", len(res.Patterns))
	fmt.Println()

	if opts.wants("patterns") {
		markdownPatterns(res.Patterns, opts)
	}
	if opts.wants("collections") {
		markdownCollections(res, opts)
	}
	if opts.wants("distributions") {
		markdownDistributions(res.Distributions, opts)
	}
}

func markdownPatterns(patterns []analysis.PatternCount, opts ReportOptions) {
	fmt.Println("## Top query patterns")
	fmt.Println()
	fmt.Println("| # | Pattern | Executed | Avg | Max |")
	fmt.Println("|---|---------|----------|-----|-----|")

	for i, pc := range patterns {
		if i == opts.top() {
			break
		}
		fmt.Printf("| %d | %s | %d | %s | %s |\n",
			i+1,
			markdownEscape(pc.Pattern.String()),
			pc.Count,
			formatMs(pc.Duration.AvgMs()),
			formatMs(float64(pc.Duration.MaxMs)))
	}
	fmt.Println()
}

func markdownCollections(res *analysis.Result, opts ReportOptions) {
	fmt.Println("## Collections")
	fmt.Println()

	stats := res.Collections
	for _, collection := range stats.Collections() {
		name := collection
		if name == "" {
			name = "(no namespace)"
		}
		fmt.Printf("### %s\n\n", markdownEscape(name))
		fmt.Println("| Usage | Count |")
		fmt.Println("|-------|-------|")

		keys := stats.TopKeys(collection)
		limit := opts.top()
		if len(keys) < limit {
			limit = len(keys)
		}
		for _, ec := range keys[:limit] {
			fmt.Printf("| %s | %d |\n", markdownEscape(ec.Name), ec.Count)
		}
		fmt.Println()

		topFilters := stats.TopTagged(collection, analysis.TagFilter, 3)
		topSorts := stats.TopTagged(collection, analysis.TagSort, 2)
		if compound := compoundIndexFields(topFilters, topSorts); len(compound) > 1 && collection != "" {
			fmt.Printf("Suggested compound index: `db.%s.createIndex({ %s })`\n\n",
				collection, indexSpec(compound))
		}
	}
}

func markdownDistributions(dist analysis.FieldDistributions, opts ReportOptions) {
	if len(dist) == 0 {
		return
	}

	fmt.Println("## Field value distributions")
	fmt.Println()

	for _, key := range dist.Keys() {
		fmt.Printf("### %s\n\n", markdownEscape(key))
		fmt.Println("| Value | Count |")
		fmt.Println("|-------|-------|")

		values := dist.TopValues(key)
		limit := opts.top()
		if len(values) < limit {
			limit = len(values)
		}
		for _, v := range values[:limit] {
			fmt.Printf("| %s | %d |\n", markdownEscape(v.Name), v.Count)
		}
		fmt.Println()

		fmt.Printf("Concentration: %.1f%%, cardinality: %d\n\n",
			dist.Concentration(key), dist.Cardinality(key))
	}
}

func markdownEscape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
