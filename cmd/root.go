// Package cmd implements the command-line interface for
// mongodb-logdump-parse. It uses the Cobra library to handle commands,
// flags, and execution.
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// Version information (passed from main)
var (
	version string
	commit  string
	date    string
)

// Flag variables for command-line options.
// These are package-level variables as required by Cobra's flag binding.
var (
	// Result shaping flags
	topFlag         int    // --top: Number of rows per report section
	minDurationFlag int64  // --min-duration: Drop patterns slower bound
	configFlag      string // --config: YAML file with thresholds and sampling bounds

	// Field filtering flags
	grepFilter []string // --grep: Keep fields containing all substrings
	nsFilter   []string // --ns: Keep fields mentioning one of the namespaces

	// Section selection flags (print only specific sections)
	patternsFlag      bool // --patterns: Print only the query pattern section
	collectionsFlag   bool // --collections: Print only the collection section
	distributionsFlag bool // --distributions: Print only the value distribution section

	// Output format flags
	jsonFlag bool // --json: Export results in JSON format
	mdFlag   bool // --md: Export results in Markdown format
)

// rootCmd is the main command for the mongodb-logdump-parse CLI.
var rootCmd = &cobra.Command{
	Use:   "mongodb-logdump-parse [files or dirs]",
	Short: "MongoDB log export query pattern analyzer",
	Long: `mongodb-logdump-parse mines MongoDB log exports for slow query patterns.

It scans exported CSV files or raw log lines for embedded JSON
diagnostic records and reports:
  - Deduplicated query patterns with execution counts and durations
  - Per-collection filter, sort and plan usage with index suggestions
  - Value distributions of fields driving problematic patterns

Specify exported files or directories as arguments, or "-" to read
from standard input.`,
	Run: executeParsing,
}

// Execute runs the root command.
// This is called by main.go to start the CLI application.
func Execute(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// init initializes all command-line flags.
func init() {
	// Result shaping flags
	rootCmd.PersistentFlags().IntVarP(&topFlag, "top", "n", 10,
		"Number of rows to display per report section")
	rootCmd.PersistentFlags().Int64Var(&minDurationFlag, "min-duration", 0,
		"Hide patterns whose slowest observed duration is below N milliseconds")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "",
		"YAML config file with analysis thresholds and sampling bounds")

	// Field filter flags
	rootCmd.PersistentFlags().StringSliceVarP(&grepFilter, "grep", "g", nil,
		"Keep only fields containing this substring. Can be specified multiple times")
	rootCmd.PersistentFlags().StringSliceVarP(&nsFilter, "ns", "m", nil,
		"Keep only fields mentioning one of these namespaces (db.collection)")

	// Section selection flags
	rootCmd.Flags().BoolVar(&patternsFlag, "patterns", false,
		"Print only the query pattern section")
	rootCmd.Flags().BoolVar(&collectionsFlag, "collections", false,
		"Print only the collection usage section")
	rootCmd.Flags().BoolVar(&distributionsFlag, "distributions", false,
		"Print only the field value distribution section")

	// Output format flags
	rootCmd.PersistentFlags().BoolVarP(&jsonFlag, "json", "J", false,
		"Export results in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&mdFlag, "md", "", false,
		"Export results in Markdown format")
}
