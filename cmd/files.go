// Package cmd implements the command-line interface for
// mongodb-logdump-parse.
package cmd

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// collectFiles gathers all input files from the provided arguments.
// Arguments can be:
//   - Individual files
//   - Glob patterns (e.g., "*.csv")
//   - Directories (scans for supported export files, non-recursive)
func collectFiles(args []string) []string {
	var files []string

	for _, arg := range args {
		// Check if argument is a directory
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			// Scan directory for supported export files
			dirFiles, err := gatherExportFiles(arg)
			if err != nil {
				log.Printf("[WARN] Failed to read directory %s: %v", arg, err)
				continue
			}
			files = append(files, dirFiles...)
			continue
		}

		// Try to expand as glob pattern
		matches, err := filepath.Glob(arg)
		if err != nil {
			log.Printf("[WARN] Invalid pattern %s: %v", arg, err)
			continue
		}

		if len(matches) == 0 {
			log.Printf("[WARN] No files match pattern: %s", arg)
			continue
		}

		files = append(files, matches...)
	}

	return files
}

// gatherExportFiles scans a directory for supported export files (non-recursive).
func gatherExportFiles(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.Readdir(-1)
	if err != nil {
		return nil, err
	}

	var exportFiles []string
	for _, entry := range entries {
		// Skip subdirectories
		if entry.IsDir() {
			continue
		}

		if isSupportedExportFile(entry.Name()) {
			exportFiles = append(exportFiles, filepath.Join(dir, entry.Name()))
		}
	}

	return exportFiles, nil
}

// isSupportedExportFile reports whether the file name looks like a
// supported export format.
// Accepted extensions:
//   - .csv, .log, .json, .txt
//   - the same with .gz, .zst or .zstd appended
//   - .tar, .tar.gz, .tgz, .tar.zst, .tar.zstd, .tzst
//   - .7z
func isSupportedExportFile(name string) bool {
	lower := strings.ToLower(name)
	supported := []string{
		".csv",
		".log",
		".json",
		".txt",
		".csv.gz",
		".log.gz",
		".json.gz",
		".txt.gz",
		".csv.zst",
		".csv.zstd",
		".log.zst",
		".log.zstd",
		".json.zst",
		".json.zstd",
		".txt.zst",
		".txt.zstd",
		".tar",
		".tar.gz",
		".tgz",
		".tar.zst",
		".tar.zstd",
		".tzst",
		".7z",
	}

	for _, ext := range supported {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
