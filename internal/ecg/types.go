package ecg

import (
	"fmt"
	"slices"
	"sort"
)

// Variant identifies which waveform shape a document was loaded from
type Variant int

const (
	// VariantSingle is the "ecg_data" shape: one flat sample sequence
	VariantSingle Variant = iota
	// VariantChannels is the "ecg_data_channels" shape: named sequences
	VariantChannels
)

func (v Variant) String() string {
	switch v {
	case VariantSingle:
		return "single"
	case VariantChannels:
		return "channels"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Annotation marks an event at a waveform sample
type Annotation struct {
	Sample int
	Symbol string
}

// Annotations is the ordered annotation list. Edits replace symbols in place;
// the length never changes once loaded.
type Annotations []Annotation

// Samples returns the parallel sample sequence
func (a Annotations) Samples() []int {
	out := make([]int, len(a))
	for i, ann := range a {
		out[i] = ann.Sample
	}
	return out
}

// Symbols returns the parallel symbol sequence
func (a Annotations) Symbols() []string {
	out := make([]string, len(a))
	for i, ann := range a {
		out[i] = ann.Symbol
	}
	return out
}

// Zip builds annotations from parallel sample/symbol sequences
func Zip(samples []int, symbols []string) (Annotations, error) {
	if len(samples) != len(symbols) {
		return nil, fmt.Errorf("%w: %d samples, %d symbols", ErrLengthMismatch, len(samples), len(symbols))
	}
	out := make(Annotations, len(samples))
	for i := range samples {
		out[i] = Annotation{Sample: samples[i], Symbol: symbols[i]}
	}
	return out, nil
}

// SymbolSet is an order-preserving set of unique symbols
type SymbolSet []string

// NewSymbolSet de-duplicates symbols keeping first occurrence order
func NewSymbolSet(symbols ...string) SymbolSet {
	seen := make(map[string]bool, len(symbols))
	out := make(SymbolSet, 0, len(symbols))
	for _, s := range symbols {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Contains reports whether s is in the set
func (s SymbolSet) Contains(sym string) bool {
	return slices.Contains(s, sym)
}

// Document is a loaded ECG record
type Document struct {
	Variant     Variant
	Samples     []float64            // VariantSingle
	Channels    map[string][]float64 // VariantChannels
	Annotations Annotations
	Symbols     SymbolSet
}

// ChannelNames returns channel names in sorted order.
// Single-channel documents have none.
func (d *Document) ChannelNames() []string {
	if d.Variant != VariantChannels {
		return nil
	}
	names := make([]string, 0, len(d.Channels))
	for name := range d.Channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Waveform resolves the sequence to display. An empty channel selects the
// first channel of a multi-channel document; single-channel documents ignore it.
func (d *Document) Waveform(channel string) ([]float64, error) {
	if d.Variant == VariantSingle {
		return d.Samples, nil
	}

	if channel == "" {
		names := d.ChannelNames()
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: document has no channels", ErrUnknownChannel)
		}
		channel = names[0]
	}

	samples, ok := d.Channels[channel]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
	return samples, nil
}

// Clone returns a deep copy
func (d *Document) Clone() *Document {
	out := &Document{
		Variant:     d.Variant,
		Samples:     slices.Clone(d.Samples),
		Annotations: slices.Clone(d.Annotations),
		Symbols:     slices.Clone(d.Symbols),
	}
	if d.Channels != nil {
		out.Channels = make(map[string][]float64, len(d.Channels))
		for name, samples := range d.Channels {
			out.Channels[name] = slices.Clone(samples)
		}
	}
	return out
}
