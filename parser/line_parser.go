package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// LineParser streams each line of a file as one raw field. It covers
// plain-text dumps (.log) and NDJSON exports (.json): in both cases the
// fragment extractor downstream locates the embedded JSON records, so
// line granularity is all the source needs to provide.
type LineParser struct{}

// Parse reads the file line by line and streams each non-empty line.
func (p *LineParser) Parse(filename string, out chan<- RawField) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer f.Close()

	return p.parseReader(filename, f, out)
}

func (p *LineParser) parseReader(source string, r io.Reader, out chan<- RawField) error {
	scanner := bufio.NewScanner(r)
	// Large buffers: single log records can run to megabytes once a
	// command document is inlined.
	buf := make([]byte, 4*1024*1024)
	scanner.Buffer(buf, 100*1024*1024)

	record := 0
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) > 0 {
			out <- RawField{Source: source, Record: record, Text: line}
		}
		record++
	}

	return scanner.Err()
}
