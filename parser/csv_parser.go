package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
)

// CsvParser streams every cell of a CSV export as a raw field.
// Exports from log search UIs are column-heterogeneous, so the reader
// runs in flexible mode and tolerates ragged rows and loose quoting.
type CsvParser struct{}

// Parse reads a CSV export file and streams each cell, row by row and
// column by column, preserving order.
func (p *CsvParser) Parse(filename string, out chan<- RawField) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer f.Close()

	return p.parseReader(filename, f, out)
}

func (p *CsvParser) parseReader(source string, r io.Reader, out chan<- RawField) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	record := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			log.Printf("[WARN] Skipping malformed CSV record %d in %s: %v", record, source, err)
			record++
			continue
		}

		for _, cell := range row {
			out <- RawField{Source: source, Record: record, Text: cell}
		}
		record++
	}
}
