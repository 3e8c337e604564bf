package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	ecgio "github.com/TimelordUK/ecgedit/internal/io"
)

// FileProvider reads a document from a local file.
// Files ending in .gz or .zst are decompressed.
type FileProvider struct {
	path string
}

// NewFileProvider creates a new file provider
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Name returns the file's base name
func (p *FileProvider) Name() string {
	return filepath.Base(p.path)
}

// Path returns the file path
func (p *FileProvider) Path() string {
	return p.path
}

// Fetch maps the file and returns its decompressed contents
func (p *FileProvider) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := ecgio.OpenMapped(p.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := file.Bytes()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.path, err)
	}

	return decompress(p.path, data)
}

// decompress picks a codec from the file extension
func decompress(path string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()

		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return out, nil

	case ".zst":
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()

		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out, nil

	default:
		return data, nil
	}
}
