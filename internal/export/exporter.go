package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/TimelordUK/ecgedit/internal/codec"
	"github.com/TimelordUK/ecgedit/internal/ecg"
	"github.com/TimelordUK/ecgedit/internal/filter"
)

// DefaultFileName is the name every full export is written under
const DefaultFileName = "updated_annotations.json"

// Info describes a written export
type Info struct {
	Path        string
	Bytes       int
	Samples     int
	Annotations int
	Window      *filter.Range // set for window exports
}

// Exporter serializes documents to disk
type Exporter struct {
	dir      string
	fileName string
	indent   bool
	logger   *zap.Logger
}

// Option configures an Exporter
type Option func(*Exporter)

// WithFileName overrides DefaultFileName
func WithFileName(name string) Option {
	return func(e *Exporter) {
		if name != "" {
			e.fileName = name
		}
	}
}

// WithIndent pretty-prints the JSON
func WithIndent(indent bool) Option {
	return func(e *Exporter) { e.indent = indent }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExporter creates an exporter writing into dir
func NewExporter(dir string, opts ...Option) *Exporter {
	e := &Exporter{
		dir:      dir,
		fileName: DefaultFileName,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path returns where WriteFile writes
func (e *Exporter) Path() string {
	return filepath.Join(e.dir, e.fileName)
}

// Encode serializes doc without touching disk
func (e *Exporter) Encode(doc *ecg.Document) ([]byte, error) {
	return codec.Encode(doc, e.indent)
}

// WriteFile exports the whole document
func (e *Exporter) WriteFile(doc *ecg.Document) (*Info, error) {
	info, err := e.write(doc, e.Path())
	if err != nil {
		return nil, err
	}
	return info, nil
}

// WriteWindow exports the part of the document inside r, re-based to start at sample 0
func (e *Exporter) WriteWindow(doc *ecg.Document, r filter.Range) (*Info, error) {
	sub, clamped, err := Window(doc, r)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(e.fileName)
	base := strings.TrimSuffix(e.fileName, ext)
	path := filepath.Join(e.dir, fmt.Sprintf("%s-%d-%d%s", base, clamped.Start, clamped.End, ext))

	info, err := e.write(sub, path)
	if err != nil {
		return nil, err
	}
	info.Window = &clamped
	return info, nil
}

// write encodes doc and atomically replaces path
func (e *Exporter) write(doc *ecg.Document, path string) (*Info, error) {
	data, err := e.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ecgedit-export-*")
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("write export file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("close export file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("chmod export file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("rename export file: %w", err)
	}

	info := &Info{
		Path:        path,
		Bytes:       len(data),
		Samples:     sampleCount(doc),
		Annotations: len(doc.Annotations),
	}
	e.logger.Info("exported",
		zap.String("path", path),
		zap.Int("bytes", info.Bytes),
		zap.Int("annotations", info.Annotations))
	return info, nil
}

// Window cuts a sub-document covering r. Waveform(s) are sliced, annotations
// inside the range are kept and shifted so the window starts at sample 0.
// The symbol set is kept whole.
func Window(doc *ecg.Document, r filter.Range) (*ecg.Document, filter.Range, error) {
	n := sampleCount(doc)
	clamped := r.Clamp(n)
	if clamped.Empty() {
		return nil, clamped, fmt.Errorf("invalid range: %d-%d", r.Start, r.End)
	}

	snapshot := doc.Clone()
	sub := &ecg.Document{
		Variant: snapshot.Variant,
		Symbols: snapshot.Symbols,
	}

	switch snapshot.Variant {
	case ecg.VariantSingle:
		sub.Samples = filter.Window(snapshot.Samples, clamped)
	case ecg.VariantChannels:
		sub.Channels = make(map[string][]float64, len(snapshot.Channels))
		for name, samples := range snapshot.Channels {
			sub.Channels[name] = filter.Window(samples, clamped)
		}
	}

	sub.Annotations = ecg.Annotations{}
	for _, ann := range snapshot.Annotations {
		if clamped.Contains(ann.Sample) {
			sub.Annotations = append(sub.Annotations, ecg.Annotation{
				Sample: ann.Sample - clamped.Start,
				Symbol: ann.Symbol,
			})
		}
	}

	return sub, clamped, nil
}

// sampleCount returns the waveform length; for multi-channel documents the
// shortest channel, so a window is valid on every channel
func sampleCount(doc *ecg.Document) int {
	if doc.Variant == ecg.VariantSingle {
		return len(doc.Samples)
	}
	n := -1
	for _, samples := range doc.Channels {
		if n < 0 || len(samples) < n {
			n = len(samples)
		}
	}
	if n < 0 {
		return 0
	}
	return n
}
