package filter

import (
	"iter"
	"slices"

	"github.com/TimelordUK/ecgedit/internal/index"
)

// Window returns the samples in r, clamped to the waveform.
// The result shares memory with samples.
func Window(samples []float64, r Range) []float64 {
	c := r.Clamp(len(samples))
	return samples[c.Start:c.End]
}

// Points keeps the points whose symbol is enabled and whose sample lies in the
// selection range clamped to n waveform samples
func Points(points iter.Seq[index.Point], sel Selection, n int) []index.Point {
	r := sel.Range.Clamp(n)
	if r.Empty() {
		return nil
	}

	var out []index.Point
	for p := range points {
		if !sel.IsEnabled(p.Symbol) {
			continue
		}
		if !r.Contains(p.Sample) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Apply re-filters an already materialised point list
func Apply(points []index.Point, sel Selection, n int) []index.Point {
	return Points(slices.Values(points), sel, n)
}
