// Package parser provides field sources and fragment extraction for
// MongoDB log exports.
package parser

// RawField is a single raw text field produced by a field source.
// A field is the unit the fragment extractor scans: one CSV cell, one
// line of an NDJSON or plain-text dump, and so on. Fields frequently
// carry free text with one or more embedded JSON diagnostic records.
//
// Example CSV cell from an Elastic "Discover" export:
//
//	Jan 3 10:12:01 slow query {"t":{"$date":"..."},"attr":{"ns":"shop.orders",...}}
type RawField struct {
	// Source identifies where the field came from, usually the file
	// path ("stdin" for standard input, "archive!member" for archive
	// entries).
	Source string

	// Record is the zero-based ordinal of the record (CSV row, line)
	// the field belongs to within its source.
	Record int

	// Text is the raw field content, unmodified.
	Text string
}

// FieldParser is the interface all format-specific field sources
// implement. Parsers read an export file and stream RawField values
// through a channel, so large exports never have to fit in memory.
//
// Implementations:
//   - CsvParser: streams every cell of a flexible CSV export
//   - LineParser: streams every line of .log / NDJSON files
//   - TarParser, SevenZipParser: walk archives and delegate per member
//
// Usage:
//
//	fields := make(chan parser.RawField, 1000)
//	p := &parser.CsvParser{}
//	go func() {
//	    if err := p.Parse("export.csv", fields); err != nil {
//	        log.Printf("[ERROR] %v", err)
//	    }
//	    close(fields)
//	}()
//	for f := range fields {
//	    // process f
//	}
type FieldParser interface {
	// Parse reads an export file and sends raw fields to the output
	// channel, preserving source order. The parser must NOT close the
	// channel; the caller owns its lifecycle.
	//
	// Returns an error if the file cannot be opened or read. Malformed
	// individual records are logged and skipped, never fatal.
	Parse(filename string, out chan<- RawField) error
}
