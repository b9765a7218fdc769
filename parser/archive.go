package parser

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/bodgit/sevenzip"
)

var errUnsupportedArchiveEntry = errors.New("unsupported archive entry")

// TarParser extracts supported export files from tar, tar.gz and
// tar.zst archives and streams their fields.
type TarParser struct{}

// Parse reads a tar archive and parses any supported export files
// inside it.
func (p *TarParser) Parse(filename string, out chan<- RawField) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open tar archive %s: %w", filename, err)
	}
	defer file.Close()

	var reader io.Reader = file
	var closer io.Closer

	if isGzipArchive(filename) {
		gr, gzipErr := newParallelGzipReader(file)
		if gzipErr != nil {
			return fmt.Errorf("failed to open gzip reader for tar archive %s: %w", filename, gzipErr)
		}
		reader = gr
		closer = gr
	} else if isZstdArchive(filename) {
		zr, zstdErr := newZstdDecoder(file)
		if zstdErr != nil {
			return fmt.Errorf("failed to open zstd reader for tar archive %s: %w", filename, zstdErr)
		}
		reader = zr
		closer = zr
	}

	if closer != nil {
		defer closer.Close()
	}

	tr := tar.NewReader(reader)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading archive %s: %w", filename, err)
		}

		if hdr == nil || hdr.Typeflag != tar.TypeReg || hdr.Size == 0 {
			continue
		}

		entryName := hdr.Name
		entryReader := io.LimitReader(tr, hdr.Size)

		if !isSupportedArchiveEntry(entryName) {
			if _, err := io.Copy(io.Discard, entryReader); err != nil {
				return fmt.Errorf("discarding unsupported entry %s in %s: %w", entryName, filename, err)
			}
			log.Printf("[INFO] Skipping unsupported file %s in archive %s", entryName, filename)
			continue
		}

		source := filename + "!" + entryName
		if err := parseArchiveEntry(entryName, source, entryReader, out); err != nil {
			if errors.Is(err, errUnsupportedArchiveEntry) {
				log.Printf("[WARN] Unsupported export format %s in archive %s", entryName, filename)
			} else {
				log.Printf("[ERROR] Failed to parse %s in archive %s: %v", entryName, filename, err)
			}
		}

		// Ensure the remainder of the entry is consumed.
		if _, err := io.Copy(io.Discard, entryReader); err != nil {
			return fmt.Errorf("draining entry %s in %s: %w", entryName, filename, err)
		}
	}

	return nil
}

// SevenZipParser extracts supported export files from 7z archives, the
// format Atlas support bundles commonly ship in.
type SevenZipParser struct{}

// Parse reads a 7z archive and parses any supported export files
// inside it.
func (p *SevenZipParser) Parse(filename string, out chan<- RawField) error {
	r, err := sevenzip.OpenReader(filename)
	if err != nil {
		return fmt.Errorf("failed to open 7z archive %s: %w", filename, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		if !isSupportedArchiveEntry(f.Name) {
			log.Printf("[INFO] Skipping unsupported file %s in archive %s", f.Name, filename)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			log.Printf("[ERROR] Failed to open %s in archive %s: %v", f.Name, filename, err)
			continue
		}

		source := filename + "!" + f.Name
		if err := parseArchiveEntry(f.Name, source, rc, out); err != nil {
			if errors.Is(err, errUnsupportedArchiveEntry) {
				log.Printf("[WARN] Unsupported export format %s in archive %s", f.Name, filename)
			} else {
				log.Printf("[ERROR] Failed to parse %s in archive %s: %v", f.Name, filename, err)
			}
		}
		rc.Close()
	}

	return nil
}

// isSupportedArchiveEntry reports whether the archive entry should be
// parsed.
func isSupportedArchiveEntry(name string) bool {
	lower := strings.ToLower(name)
	supported := []string{
		".log",
		".csv",
		".json",
		".log.gz",
		".csv.gz",
		".json.gz",
		".log.zst",
		".csv.zst",
		".json.zst",
		".log.zstd",
		".csv.zstd",
		".json.zstd",
	}

	for _, ext := range supported {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// parseArchiveEntry selects the correct parser for an archive entry.
// Nested compressed members are unwrapped recursively.
func parseArchiveEntry(name, source string, r io.Reader, out chan<- RawField) error {
	lower := strings.ToLower(name)

	switch {
	case strings.HasSuffix(lower, ".csv"):
		p := &CsvParser{}
		return p.parseReader(source, r, out)
	case strings.HasSuffix(lower, ".json"), strings.HasSuffix(lower, ".log"):
		p := &LineParser{}
		return p.parseReader(source, r, out)
	case strings.HasSuffix(lower, ".gz"):
		gzReader, err := newParallelGzipReader(r)
		if err != nil {
			return fmt.Errorf("failed to decompress %s: %w", name, err)
		}
		defer gzReader.Close()
		return parseArchiveEntry(name[:len(name)-3], source, gzReader, out)
	case strings.HasSuffix(lower, ".zst"):
		return parseZstdArchiveEntry(name, source, r, ".zst", out)
	case strings.HasSuffix(lower, ".zstd"):
		return parseZstdArchiveEntry(name, source, r, ".zstd", out)
	default:
		return errUnsupportedArchiveEntry
	}
}

func parseZstdArchiveEntry(name, source string, r io.Reader, suffix string, out chan<- RawField) error {
	zr, err := newZstdDecoder(r)
	if err != nil {
		return fmt.Errorf("failed to decompress %s: %w", name, err)
	}
	defer zr.Close()

	return parseArchiveEntry(name[:len(name)-len(suffix)], source, zr, out)
}

// isGzipArchive reports whether the archive is gzip-compressed.
func isGzipArchive(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz")
}

// isZstdArchive reports whether the archive is zstd-compressed.
func isZstdArchive(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".tar.zst") ||
		strings.HasSuffix(lower, ".tar.zstd") ||
		strings.HasSuffix(lower, ".tzst")
}
