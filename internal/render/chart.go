package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/floats"

	"github.com/TimelordUK/ecgedit/internal/config"
	"github.com/TimelordUK/ecgedit/internal/filter"
	"github.com/TimelordUK/ecgedit/internal/index"
	"github.com/TimelordUK/ecgedit/pkg/ecgformat"
)

const (
	labelWidth = 9
	plotDot    = '•'
	plotSpan   = '│'
)

// Chart draws the visible waveform window with annotation markers underneath
type Chart struct {
	width  int
	height int
	clock  ecgformat.Clock

	waveStyle lipgloss.Style
	axisStyle lipgloss.Style
	classes   *ClassRenderer
}

// NewChart creates a chart with config
func NewChart(cfg *config.Config, classes *ClassRenderer) *Chart {
	return &Chart{
		width:     80,
		height:    cfg.Display.ChartHeight,
		clock:     ecgformat.NewClock(cfg.Display.SamplingRate),
		waveStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Waveform)),
		axisStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Axis)),
		classes:   classes,
	}
}

// SetSize updates the chart dimensions; height counts plot rows only
func (c *Chart) SetSize(width, height int) {
	c.width = width
	if height >= 3 {
		c.height = height
	}
}

// Height returns the rendered height: plot rows, marker row and time axis
func (c *Chart) Height() int {
	return c.height + 2
}

// Render draws window, the samples of r, and the markers of points inside r
func (c *Chart) Render(window []float64, r filter.Range, points []index.Point) string {
	cols := c.width - labelWidth
	if cols < 1 {
		cols = 1
	}

	var b strings.Builder
	if len(window) == 0 {
		b.WriteString(c.axisStyle.Render(fmt.Sprintf("%*s no samples in %s", labelWidth, "", r)))
		for i := 1; i < c.Height(); i++ {
			b.WriteString("\n")
		}
		return b.String()
	}

	lo, hi := floats.Min(window), floats.Max(window)
	for i, row := range Plot(window, cols, c.height) {
		label := ""
		switch i {
		case 0:
			label = fmt.Sprintf("%8.2f", hi)
		case c.height - 1:
			label = fmt.Sprintf("%8.2f", lo)
		}
		b.WriteString(c.axisStyle.Render(fmt.Sprintf("%-*s", labelWidth, label)))
		b.WriteString(c.waveStyle.Render(row))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", labelWidth))
	b.WriteString(c.markerRow(r, points, cols))
	b.WriteString("\n")
	b.WriteString(c.axisStyle.Render(c.timeAxis(r, cols)))
	return b.String()
}

// markerRow places each symbol under its sample column
func (c *Chart) markerRow(r filter.Range, points []index.Point, cols int) string {
	cells := make([]string, cols)
	for _, p := range points {
		col := MarkerColumn(p.Sample, r, cols)
		if col < 0 {
			continue
		}
		sym := p.Symbol
		if sym == "" {
			sym = "?"
		}
		mark := string([]rune(sym)[0])
		if c.classes != nil {
			mark = c.classes.Style(p.Symbol).Render(mark)
		}
		cells[col] = mark
	}

	var b strings.Builder
	for _, cell := range cells {
		if cell == "" {
			cell = " "
		}
		b.WriteString(cell)
	}
	return b.String()
}

func (c *Chart) timeAxis(r filter.Range, cols int) string {
	left := c.clock.Format(r.Start)
	right := c.clock.Format(r.End)
	rate, suffix := humanize.ComputeSI(c.clock.Rate())
	mid := fmt.Sprintf("%s  %.0f %sHz", r, rate, suffix)

	gap := cols - len(left) - len(right) - len(mid)
	if gap < 2 {
		return fmt.Sprintf("%*s%s  %s", labelWidth, "", left, right)
	}
	return fmt.Sprintf("%*s%s%*s%s%*s%s", labelWidth, "", left, gap/2, "", mid, gap-gap/2, "", right)
}

// MarkerColumn maps a sample to a plot column, -1 when it lies outside r
func MarkerColumn(sample int, r filter.Range, cols int) int {
	if !r.Contains(sample) || cols <= 0 {
		return -1
	}
	return (sample - r.Start) * cols / r.Len()
}

// Plot rasterises samples into rows of cols runes, top row first.
// Each column covers a bucket of samples and spans the bucket's min to max.
func Plot(samples []float64, cols, rows int) []string {
	if rows < 1 || cols < 1 {
		return nil
	}
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	if len(samples) == 0 {
		return toStrings(grid)
	}

	lo, hi := floats.Min(samples), floats.Max(samples)
	toRow := func(v float64) int {
		if hi == lo {
			return rows / 2
		}
		return int(math.Round((hi - v) / (hi - lo) * float64(rows-1)))
	}

	for col := 0; col < cols; col++ {
		from := col * len(samples) / cols
		to := (col + 1) * len(samples) / cols
		if to <= from {
			// fewer samples than columns
			if from >= len(samples) {
				continue
			}
			to = from + 1
		}
		bucket := samples[from:to]
		top, bottom := toRow(floats.Max(bucket)), toRow(floats.Min(bucket))
		if top == bottom {
			grid[top][col] = plotDot
			continue
		}
		for row := top; row <= bottom; row++ {
			grid[row][col] = plotSpan
		}
	}
	return toStrings(grid)
}

func toStrings(grid [][]rune) []string {
	out := make([]string, len(grid))
	for i, row := range grid {
		out[i] = string(row)
	}
	return out
}
