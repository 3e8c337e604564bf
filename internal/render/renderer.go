package render

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/ecgedit/internal/config"
	"github.com/TimelordUK/ecgedit/internal/index"
	"github.com/TimelordUK/ecgedit/pkg/ecgformat"
)

// Renderer formats one annotation row
type Renderer interface {
	Render(p index.Point) string
}

// ClassRenderer colors rows by the beat class of their symbol
type ClassRenderer struct {
	clock    ecgformat.Clock
	showTime bool
	styles   map[ecgformat.Class]lipgloss.Style
}

// NewClassRenderer creates a renderer with config
func NewClassRenderer(cfg *config.Config) *ClassRenderer {
	c := cfg.Theme.Classes
	styles := map[ecgformat.Class]lipgloss.Style{
		ecgformat.ClassOther:            lipgloss.NewStyle().Foreground(lipgloss.Color(c.Other)),
		ecgformat.ClassNormal:           lipgloss.NewStyle().Foreground(lipgloss.Color(c.Normal)),
		ecgformat.ClassSupraventricular: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Supraventricular)),
		ecgformat.ClassVentricular:      lipgloss.NewStyle().Foreground(lipgloss.Color(c.Ventricular)).Bold(true),
		ecgformat.ClassFusion:           lipgloss.NewStyle().Foreground(lipgloss.Color(c.Fusion)),
		ecgformat.ClassUnclassifiable:   lipgloss.NewStyle().Foreground(lipgloss.Color(c.Unclassifiable)),
	}

	return &ClassRenderer{
		clock:    ecgformat.NewClock(cfg.Display.SamplingRate),
		showTime: cfg.Display.ShowTime,
		styles:   styles,
	}
}

// Style returns the style for a symbol
func (r *ClassRenderer) Style(symbol string) lipgloss.Style {
	return r.styles[ecgformat.ClassOf(symbol)]
}

// Render applies class styling to a row
func (r *ClassRenderer) Render(p index.Point) string {
	return r.Style(p.Symbol).Render(FormatRow(p, r.clock, r.showTime))
}

// PlainRenderer renders without styling
type PlainRenderer struct {
	clock    ecgformat.Clock
	showTime bool
}

// NewPlainRenderer creates a plain renderer. A zero rate hides the time column.
func NewPlainRenderer(rate float64) *PlainRenderer {
	return &PlainRenderer{clock: ecgformat.NewClock(rate), showTime: rate > 0}
}

// Render returns the row text as-is
func (r *PlainRenderer) Render(p index.Point) string {
	return FormatRow(p, r.clock, r.showTime)
}

// FormatRow lays out sample, time, value, symbol and description
func FormatRow(p index.Point, clock ecgformat.Clock, showTime bool) string {
	value := "      out of range"
	if p.InBounds && !math.IsNaN(p.Value) {
		value = fmt.Sprintf("%18.3f", p.Value)
	}

	symbol := p.Symbol
	if symbol == "" {
		symbol = `""`
	}

	if showTime {
		return fmt.Sprintf("%8d  %11s %s  %-3s %s", p.Sample, clock.Format(p.Sample), value, symbol, ecgformat.Describe(p.Symbol))
	}
	return fmt.Sprintf("%8d %s  %-3s %s", p.Sample, value, symbol, ecgformat.Describe(p.Symbol))
}
