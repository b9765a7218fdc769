// Package cmd implements the command-line interface for
// mongodb-logdump-parse.
package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Deathstalkerraged/mongodb-logdump-parse/analysis"
	"github.com/Deathstalkerraged/mongodb-logdump-parse/output"
	"github.com/Deathstalkerraged/mongodb-logdump-parse/parser"

	"github.com/spf13/cobra"
)

// executeParsing is the main execution function for the root command.
// It orchestrates the entire processing pipeline:
//  1. Collect input files (or stdin)
//  2. Load the analysis config
//  3. Parse files in parallel (streaming raw fields)
//  4. Filter fields based on criteria
//  5. Aggregate patterns and output results
func executeParsing(cmd *cobra.Command, args []string) {
	startTime := time.Now()

	cfg := loadAnalysisConfig(configFlag)
	cfg.MinDurationMs = minDurationFlag

	useStdin := len(args) == 1 && args[0] == "-"

	var allFiles []string
	if !useStdin {
		allFiles = collectFiles(args)
		if len(allFiles) == 0 {
			fmt.Println("[INFO] No input files found. Exiting.")
			os.Exit(0)
		}
	}

	// Total input size for throughput reporting
	totalFileSize := calculateTotalFileSize(allFiles)

	// Streaming pipeline: parse -> filter -> aggregate
	rawFields := make(chan parser.RawField, 24576)
	filteredFields := make(chan parser.RawField, 24576)

	if useStdin {
		go parseStdinAsync(rawFields)
	} else {
		go parseFilesAsync(allFiles, rawFields)
	}

	filters := parser.FieldFilters{
		GrepExpr:  grepFilter,
		Namespace: nsFilter,
	}
	go parser.FilterStream(rawFields, filteredFields, filters)

	res, err := analysis.Aggregate(filteredFields, cfg)
	if err != nil {
		if errors.Is(err, analysis.ErrNoPatterns) {
			log.Fatalf("[ERROR] %v", err)
		}
		log.Fatalf("[ERROR] Analysis failed: %v", err)
	}

	processingDuration := time.Since(startTime)
	renderResult(res, cfg, processingDuration, totalFileSize)
}

// parseFilesAsync reads input files in parallel and sends fields to the
// channel. It determines the number of workers from file count and CPU
// cores.
func parseFilesAsync(files []string, out chan<- parser.RawField) {
	defer close(out)

	numWorkers := determineWorkerCount(len(files))

	if numWorkers == 1 {
		// Single file: no need for worker pool
		for _, file := range files {
			if err := parser.ParseFile(file, out); err != nil {
				log.Printf("[ERROR] Failed to parse file %s: %v", file, err)
			}
		}
		return
	}

	// Multiple files: use worker pool
	fileChan := make(chan string, len(files))
	for _, file := range files {
		fileChan <- file
	}
	close(fileChan)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range fileChan {
				if err := parser.ParseFile(file, out); err != nil {
					log.Printf("[ERROR] Failed to parse file %s: %v", file, err)
				}
			}
		}()
	}
	wg.Wait()
}

// parseStdinAsync streams fields from standard input.
func parseStdinAsync(out chan<- parser.RawField) {
	defer close(out)

	if err := parser.ParseStdin(out); err != nil {
		log.Printf("[ERROR] Failed to parse stdin: %v", err)
	}
}

// renderResult outputs the analysis result in the requested format.
func renderResult(res *analysis.Result, cfg analysis.Config, duration time.Duration, totalFileSize int64) {
	t := cfg.Thresholds
	opts := output.ReportOptions{
		Top:              topFlag,
		Sections:         buildSectionList(),
		ConcentrationPct: t.ConcentrationPct,
		CardinalityLimit: t.CardinalityLimit,
	}

	if jsonFlag {
		output.ExportJSON(res, opts)
		return
	}

	if mdFlag {
		output.ExportMarkdown(res, opts)
		return
	}

	// Default: text output
	PrintProcessingSummary(res.Global.Records, duration, totalFileSize)
	output.PrintReport(res, opts)
}

// buildSectionList returns the list of sections to display based on flags.
// If no section flags are set, returns ["all"] to display everything.
func buildSectionList() []string {
	sections := []string{}

	if patternsFlag {
		sections = append(sections, "patterns")
	}
	if collectionsFlag {
		sections = append(sections, "collections")
	}
	if distributionsFlag {
		sections = append(sections, "distributions")
	}

	// If no specific sections selected, show all
	if len(sections) == 0 {
		sections = []string{"all"}
	}

	return sections
}

// calculateTotalFileSize computes the total size of all input files.
func calculateTotalFileSize(files []string) int64 {
	var total int64
	for _, file := range files {
		if fi, err := os.Stat(file); err == nil {
			total += fi.Size()
		}
	}
	return total
}

// PrintProcessingSummary displays a summary line showing processing statistics.
func PrintProcessingSummary(numRecords int, duration time.Duration, fileSize int64) {
	fmt.Printf("mongodb-logdump-parse – %d query records processed in %.2f s (%s)\n",
		numRecords, duration.Seconds(), formatBytes(fileSize))
}

// formatBytes converts a byte count to a human-readable string (KB, MB, GB, etc).
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}

	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(b)/float64(div), "kMGTPE"[exp])
}
