package index

import (
	"iter"
	"math"

	"github.com/TimelordUK/ecgedit/internal/ecg"
)

// Point is one annotation aligned with its waveform sample
type Point struct {
	Index    int // position in the annotation list
	Sample   int
	Value    float64 // NaN when the sample is outside the waveform
	Symbol   string
	InBounds bool
}

// Index aligns annotations with waveform values.
// It holds references, not copies: edits to the annotation list show up on the
// next iteration without rebuilding.
type Index struct {
	samples     []float64
	annotations ecg.Annotations
}

// New creates an index over one waveform sequence
func New(samples []float64, annotations ecg.Annotations) *Index {
	return &Index{samples: samples, annotations: annotations}
}

// Len returns the number of points, always the annotation count
func (idx *Index) Len() int {
	return len(idx.annotations)
}

// SampleCount returns the waveform length
func (idx *Index) SampleCount() int {
	return len(idx.samples)
}

// At returns the point for annotation i
func (idx *Index) At(i int) (Point, bool) {
	if i < 0 || i >= len(idx.annotations) {
		return Point{}, false
	}
	return idx.point(i), true
}

// All yields one point per annotation, in annotation order.
// Out-of-bounds samples are yielded with InBounds false, never dropped.
func (idx *Index) All() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for i := range idx.annotations {
			if !yield(idx.point(i)) {
				return
			}
		}
	}
}

func (idx *Index) point(i int) Point {
	ann := idx.annotations[i]
	p := Point{
		Index:  i,
		Sample: ann.Sample,
		Symbol: ann.Symbol,
		Value:  math.NaN(),
	}
	if ann.Sample >= 0 && ann.Sample < len(idx.samples) {
		p.Value = idx.samples[ann.Sample]
		p.InBounds = true
	}
	return p
}
