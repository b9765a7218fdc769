package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func collectFields(t *testing.T, p FieldParser, path string) []RawField {
	t.Helper()
	out := make(chan RawField, 64)
	done := make(chan []RawField)

	go func() {
		var fields []RawField
		for f := range out {
			fields = append(fields, f)
		}
		done <- fields
	}()

	if err := p.Parse(path, out); err != nil {
		t.Fatalf("Parse(%s) failed: %v", path, err)
	}
	close(out)
	return <-done
}

func TestCsvParserStreamsEveryCell(t *testing.T) {
	csv := "timestamp,severity,message\n" +
		`2026-01-10,I,"{""attr"":{""ns"":""shop.orders""}}"` + "\n"

	path := writeTempFile(t, "export.csv", csv)
	fields := collectFields(t, &CsvParser{}, path)

	if len(fields) != 6 {
		t.Fatalf("expected 6 cells, got %d", len(fields))
	}
	if fields[5].Text != `{"attr":{"ns":"shop.orders"}}` {
		t.Errorf("quoted JSON cell mangled: %q", fields[5].Text)
	}
	if fields[3].Record != 1 {
		t.Errorf("expected second row cells to carry record 1, got %d", fields[3].Record)
	}
}

func TestCsvParserRaggedRows(t *testing.T) {
	csv := "a,b,c\nx\none,two,three,four\n"

	path := writeTempFile(t, "ragged.csv", csv)
	fields := collectFields(t, &CsvParser{}, path)

	// Flexible mode: 3 + 1 + 4 cells survive.
	if len(fields) != 8 {
		t.Errorf("expected 8 cells from ragged rows, got %d", len(fields))
	}
}

func TestLineParserStreamsNonEmptyLines(t *testing.T) {
	content := `{"attr":{"ns":"shop.orders"}}` + "\n\n" + `plain line` + "\n"

	path := writeTempFile(t, "export.log", content)
	fields := collectFields(t, &LineParser{}, path)

	if len(fields) != 2 {
		t.Fatalf("expected 2 non-empty lines, got %d", len(fields))
	}
	if fields[0].Record != 0 || fields[1].Record != 2 {
		t.Errorf("records should keep physical line numbers, got %d and %d",
			fields[0].Record, fields[1].Record)
	}
}
