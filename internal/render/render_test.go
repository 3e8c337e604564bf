package render

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/ecgedit/internal/config"
	"github.com/TimelordUK/ecgedit/internal/ecg"
	"github.com/TimelordUK/ecgedit/internal/filter"
	"github.com/TimelordUK/ecgedit/internal/index"
	"github.com/TimelordUK/ecgedit/pkg/ecgformat"
)

func TestFormatRow(t *testing.T) {
	clock := ecgformat.NewClock(360)

	row := FormatRow(index.Point{Sample: 540, Value: -0.145, Symbol: "V", InBounds: true}, clock, true)
	assert.Contains(t, row, "540")
	assert.Contains(t, row, "0:01.500")
	assert.Contains(t, row, "-0.145")
	assert.Contains(t, row, "Premature ventricular contraction")

	row = FormatRow(index.Point{Sample: 9999, Value: math.NaN(), Symbol: "", InBounds: false}, clock, false)
	assert.Contains(t, row, "out of range")
	assert.Contains(t, row, `""`)
	assert.Contains(t, row, "(empty)")
	assert.NotContains(t, row, "0:27")
}

func TestRenderersAgreeOnText(t *testing.T) {
	cfg := config.DefaultConfig()
	p := index.Point{Sample: 1, Value: 1, Symbol: "N", InBounds: true}

	plain := NewPlainRenderer(cfg.Display.SamplingRate).Render(p)
	styled := NewClassRenderer(cfg).Render(p)
	assert.Contains(t, styled, strings.TrimSpace(plain))
}

func TestPlot(t *testing.T) {
	rows := Plot([]float64{0, 1, 2, 3}, 4, 4)
	require.Len(t, rows, 4)
	assert.Equal(t, "   •", rows[0])
	assert.Equal(t, "  • ", rows[1])
	assert.Equal(t, " •  ", rows[2])
	assert.Equal(t, "•   ", rows[3])

	// a bucket spanning the full range draws a vertical stroke
	rows = Plot([]float64{0, 3}, 1, 3)
	assert.Equal(t, []string{"│", "│", "│"}, rows)

	flat := Plot([]float64{5, 5, 5}, 3, 5)
	assert.Equal(t, "•••", flat[2])

	assert.Nil(t, Plot([]float64{1}, 0, 3))
	assert.Equal(t, []string{"  ", "  "}, Plot(nil, 2, 2))
}

func TestMarkerColumn(t *testing.T) {
	r := filter.Range{Start: 100, End: 200}
	assert.Equal(t, 0, MarkerColumn(100, r, 50))
	assert.Equal(t, 25, MarkerColumn(150, r, 50))
	assert.Equal(t, 49, MarkerColumn(199, r, 50))
	assert.Equal(t, -1, MarkerColumn(200, r, 50))
	assert.Equal(t, -1, MarkerColumn(99, r, 50))
}

func TestChartRender(t *testing.T) {
	cfg := config.DefaultConfig()
	chart := NewChart(cfg, nil)
	chart.SetSize(40, 4)

	window := []float64{0, 1, 2, 3, 4, 5}
	r := filter.Range{Start: 0, End: 6}
	points := []index.Point{{Sample: 1, Symbol: "N", InBounds: true}, {Sample: 4, Symbol: "V", InBounds: true}}

	out := chart.Render(window, r, points)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, chart.Height())
	assert.Contains(t, lines[0], "5.00")
	assert.Contains(t, lines[3], "0.00")
	assert.Contains(t, lines[4], "N")
	assert.Contains(t, lines[4], "V")
	assert.Less(t, strings.Index(lines[4], "N"), strings.Index(lines[4], "V"))
	assert.Contains(t, lines[5], "0:00.000")

	empty := chart.Render(nil, filter.Range{Start: 10, End: 10}, nil)
	assert.Contains(t, empty, "no samples")
	assert.Len(t, strings.Split(empty, "\n"), chart.Height())
}

func TestLegend(t *testing.T) {
	set := ecg.SymbolSet{"N", "V", ""}
	sel := filter.NewSelection(set, 100).Disable("V")
	counts := Counts(ecg.Annotations{{Sample: 1, Symbol: "N"}, {Sample: 2, Symbol: "N"}, {Sample: 3, Symbol: "V"}})

	assert.Equal(t, map[string]int{"N": 2, "V": 1}, counts)

	legend := Legend(set, sel, counts, nil)
	assert.Contains(t, legend, "1:N 2")
	assert.Contains(t, legend, "2:V 1")
	assert.Contains(t, legend, `3:"" 0`)
}

func TestLegendLargeCounts(t *testing.T) {
	set := ecg.SymbolSet{"N"}
	legend := Legend(set, filter.NewSelection(set, 10), map[string]int{"N": 75011}, nil)
	assert.Contains(t, legend, "75,011")
}

func TestSyntaxRenderer(t *testing.T) {
	r := NewSyntaxRenderer("updated_annotations.json")
	assert.Equal(t, "JSON", r.Lexer())

	lines := r.Lines([]byte("{\n  \"ecg_data\": [1, 2]\n}\n"))
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, strings.Join(lines, "\n"), "ecg_data")

	assert.Nil(t, r.Lines(nil))
	assert.Equal(t, "plaintext", NewSyntaxRenderer("notes.unknownext").Lexer())
}
