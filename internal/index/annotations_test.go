package index

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/ecgedit/internal/ecg"
)

func TestAllAlignsValues(t *testing.T) {
	samples := []float64{0, 1, 2, 3, 4, 5}
	anns := ecg.Annotations{{Sample: 1, Symbol: "N"}, {Sample: 4, Symbol: "V"}}

	points := slices.Collect(New(samples, anns).All())
	assert.Equal(t, []Point{
		{Index: 0, Sample: 1, Value: 1, Symbol: "N", InBounds: true},
		{Index: 1, Sample: 4, Value: 4, Symbol: "V", InBounds: true},
	}, points)
}

func TestOutOfBoundsKeptWithoutValue(t *testing.T) {
	samples := []float64{10, 11}
	anns := ecg.Annotations{{Sample: 5, Symbol: "N"}, {Sample: -1, Symbol: "V"}, {Sample: 1, Symbol: "A"}}
	idx := New(samples, anns)

	points := slices.Collect(idx.All())
	require.Len(t, points, idx.Len())

	assert.False(t, points[0].InBounds)
	assert.True(t, math.IsNaN(points[0].Value))
	assert.False(t, points[1].InBounds)
	assert.True(t, points[2].InBounds)
	assert.Equal(t, 11.0, points[2].Value)
}

func TestLenMatchesAnnotationCount(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100} {
		anns := make(ecg.Annotations, n)
		for i := range anns {
			anns[i] = ecg.Annotation{Sample: i * 3, Symbol: "N"}
		}
		idx := New(make([]float64, 50), anns)

		count := 0
		for range idx.All() {
			count++
		}
		assert.Equal(t, n, count)
	}
}

func TestEditsVisibleWithoutRebuild(t *testing.T) {
	anns := ecg.Annotations{{Sample: 0, Symbol: "N"}}
	idx := New([]float64{1}, anns)

	anns[0].Symbol = "V"
	p, ok := idx.At(0)
	require.True(t, ok)
	assert.Equal(t, "V", p.Symbol)

	_, ok = idx.At(1)
	assert.False(t, ok)
}

func TestAllStopsEarly(t *testing.T) {
	anns := ecg.Annotations{{Sample: 0}, {Sample: 1}, {Sample: 2}}
	seen := 0
	for p := range New([]float64{0, 1, 2}, anns).All() {
		seen++
		if p.Index == 1 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}
