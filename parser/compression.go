package parser

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

// ErrCompressionFailed indicates a failure reading compressed content.
var ErrCompressionFailed = errors.New("failed to read compressed file")

// compressionCodec defines how to create a streaming reader for a
// compressed format.
type compressionCodec struct {
	name   string
	opener func(io.Reader) (io.ReadCloser, error)
}

var (
	gzipCodec = compressionCodec{
		name: "gzip",
		opener: func(r io.Reader) (io.ReadCloser, error) {
			return newParallelGzipReader(r)
		},
	}
	zstdCodec = compressionCodec{
		name: "zstd",
		opener: func(r io.Reader) (io.ReadCloser, error) {
			return newZstdDecoder(r)
		},
	}
)

// detectCompressedFile checks whether the file is compressed or an
// archive and returns the appropriate parser. If handled is false the
// caller should continue with normal detection.
func detectCompressedFile(filename string) (FieldParser, bool, error) {
	lowerName := strings.ToLower(filename)

	if strings.HasSuffix(lowerName, ".tar.gz") ||
		strings.HasSuffix(lowerName, ".tgz") ||
		strings.HasSuffix(lowerName, ".tar.zst") ||
		strings.HasSuffix(lowerName, ".tar.zstd") ||
		strings.HasSuffix(lowerName, ".tzst") ||
		strings.HasSuffix(lowerName, ".tar") {
		return &TarParser{}, true, nil
	}

	if strings.HasSuffix(lowerName, ".7z") {
		return &SevenZipParser{}, true, nil
	}

	if strings.HasSuffix(lowerName, ".gz") {
		p, err := detectCompressedParser(filename, strings.TrimSuffix(filename, filepath.Ext(filename)), gzipCodec)
		return p, true, err
	}

	if strings.HasSuffix(lowerName, ".zstd") || strings.HasSuffix(lowerName, ".zst") {
		p, err := detectCompressedParser(filename, strings.TrimSuffix(filename, filepath.Ext(filename)), zstdCodec)
		return p, true, err
	}

	return nil, false, nil
}

// detectCompressedParser picks the inner-format parser for a compressed
// file and wraps it with the codec.
func detectCompressedParser(filename, baseName string, codec compressionCodec) (FieldParser, error) {
	sample, err := readCompressedSample(filename, codec)
	if err != nil {
		log.Printf("[ERROR] Failed to read %s sample from %s: %v", codec.name, filename, err)
		return nil, fmt.Errorf("%w: %v", ErrCompressionFailed, err)
	}

	if isBinaryContent(sample) {
		log.Printf("[ERROR] File %s appears to be binary after %s decompression", filename, codec.name)
		return nil, ErrBinaryFile
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(baseName), "."))
	inner, err := detectByExtension(baseName, ext, sample)
	if err != nil {
		return nil, err
	}

	return wrapCompressedParser(inner, codec), nil
}

// readCompressedSample streams the first portion of the compressed file
// and returns it as text.
func readCompressedSample(filename string, codec compressionCodec) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	cr, err := codec.opener(file)
	if err != nil {
		return "", err
	}
	defer cr.Close()

	buf := make([]byte, sampleBufferSize)
	n, err := cr.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	sample := string(buf[:n])
	if lastNewline := strings.LastIndex(sample, "\n"); lastNewline != -1 {
		return sample[:lastNewline], nil
	}
	return sample, nil
}

// wrapCompressedParser converts an existing parser into a codec-aware
// parser.
func wrapCompressedParser(inner FieldParser, codec compressionCodec) FieldParser {
	switch inner.(type) {
	case *CsvParser:
		p := &CsvParser{}
		return &compressedFieldParser{codec: codec, parse: p.parseReader}
	case *LineParser:
		p := &LineParser{}
		return &compressedFieldParser{codec: codec, parse: p.parseReader}
	default:
		log.Printf("[ERROR] Unsupported parser type for %s compressed files: %T", codec.name, inner)
		return nil
	}
}

type compressedFieldParser struct {
	codec compressionCodec
	parse func(source string, r io.Reader, out chan<- RawField) error
}

func (c *compressedFieldParser) Parse(filename string, out chan<- RawField) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	reader, err := c.codec.opener(file)
	if err != nil {
		return fmt.Errorf("failed to open %s reader for %s: %w", c.codec.name, filename, err)
	}
	defer reader.Close()

	return c.parse(filename, reader, out)
}

// newParallelGzipReader returns a pgzip reader configured for parallel
// decompression.
func newParallelGzipReader(r io.Reader) (*pgzip.Reader, error) {
	threads := runtime.GOMAXPROCS(0)
	if threads < 1 {
		threads = 1
	}
	if threads > 8 {
		threads = 8 // cap to avoid excessive goroutine churn on large hosts
	}

	const blockSize = 1 << 20
	return pgzip.NewReaderN(r, blockSize, threads)
}

type zstdReadCloser struct {
	*zstd.Decoder
}

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// newZstdDecoder returns a zstd decoder configured for streaming
// decompression.
func newZstdDecoder(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &zstdReadCloser{Decoder: dec}, nil
}
