package parser

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
)

// ParseStdin reads from standard input, detects the export format, and
// streams raw fields. It reads a sample to detect the format, then
// parses a combined reader of the sample plus the remaining stdin data.
func ParseStdin(out chan<- RawField) error {
	sample, err := readStdinSample(os.Stdin)
	if err != nil {
		log.Printf("[ERROR] Failed to read sample from stdin: %v", err)
		return fmt.Errorf("stdin: %w", ErrUnknownFormat)
	}

	sampleStr := string(sample)
	if isBinaryContent(sampleStr) {
		log.Printf("[ERROR] stdin appears to contain binary data")
		return fmt.Errorf("stdin: %w", ErrBinaryFile)
	}

	p := detectByContent(sampleStr)
	if p == nil {
		log.Printf("[ERROR] Unable to detect export format from stdin")
		return fmt.Errorf("stdin: %w", ErrUnknownFormat)
	}

	combined := io.MultiReader(bytes.NewReader(sample), os.Stdin)

	switch inner := p.(type) {
	case *CsvParser:
		return inner.parseReader("stdin", combined, out)
	case *LineParser:
		return inner.parseReader("stdin", combined, out)
	default:
		return fmt.Errorf("unsupported parser type: %T", p)
	}
}

// readStdinSample reads up to sampleBufferSize bytes from stdin without
// consuming the rest.
func readStdinSample(r io.Reader) ([]byte, error) {
	buf := make([]byte, sampleBufferSize)
	n, err := io.ReadAtLeast(r, buf, 1)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf[:n], nil
}
