package ui

import (
	"strings"

	"go.uber.org/zap"

	"github.com/TimelordUK/ecgedit/internal/config"
	"github.com/TimelordUK/ecgedit/internal/ecg"
	"github.com/TimelordUK/ecgedit/internal/filter"
	"github.com/TimelordUK/ecgedit/internal/render"
	"github.com/TimelordUK/ecgedit/internal/session"
	"github.com/TimelordUK/ecgedit/internal/view"
	"github.com/TimelordUK/ecgedit/pkg/ecgformat"
)

// Pane shows one document: chart, symbol legend and annotation table.
// All document state lives in the session; the pane only lays it out.
type Pane struct {
	session  *session.Session
	viewport *view.Viewport
	chart    *render.Chart
	classes  *render.ClassRenderer
	config   *config.Config

	width  int
	height int

	// Per-symbol counts for the legend, refreshed after loads and edits
	counts map[string]int
}

// NewPane creates an empty pane
func NewPane(cfg *config.Config, logger *zap.Logger) *Pane {
	classes := render.NewClassRenderer(cfg)

	viewport := view.NewViewport(80, 10)
	viewport.SetRenderer(classes)
	viewport.SetSelectedColor(cfg.Theme.Selected)

	return &Pane{
		session: session.New(session.Options{
			Window: cfg.Display.Window,
			Clock:  ecgformat.NewClock(cfg.Display.SamplingRate),
		}, logger),
		viewport: viewport,
		chart:    render.NewChart(cfg, classes),
		classes:  classes,
		config:   cfg,
	}
}

// Session returns the document session
func (p *Pane) Session() *session.Session {
	return p.session
}

// Viewport returns the annotation table
func (p *Pane) Viewport() *view.Viewport {
	return p.viewport
}

// Load replaces the document and resets the table
func (p *Pane) Load(doc *ecg.Document) error {
	if err := p.session.Load(doc); err != nil {
		return err
	}
	p.viewport.SetRows(p.session.Rows())
	p.viewport.SetMarked(-1)
	p.Sync()
	return nil
}

// Unload drops the document so nothing of it is rendered or editable
func (p *Pane) Unload() {
	p.session.Unload()
	p.viewport.SetRows(nil)
	p.viewport.SetMarked(-1)
	p.counts = nil
}

// Sync refreshes derived display state after the session changed
func (p *Pane) Sync() {
	if !p.session.Loaded() {
		return
	}
	p.counts = render.Counts(p.session.Document().Annotations)

	marked := -1
	if st := p.session.EditState(); st.Active() {
		marked = st.Index()
	}
	p.viewport.SetMarked(marked)
	p.viewport.Refresh()
}

// SelectedIndex returns the annotation index on the selected row, -1 if none
func (p *Pane) SelectedIndex() int {
	pt, ok := p.viewport.Selected()
	if !ok {
		return -1
	}
	return pt.Index
}

// Reveal makes annotation i visible: the range is moved to contain its sample,
// its symbol is enabled and the table row is selected.
// It returns false for an annotation past the end of the waveform.
func (p *Pane) Reveal(i int, ann ecg.Annotation) bool {
	if ann.Sample >= p.session.SampleCount() {
		return false
	}
	sel := p.session.Selection()
	if !sel.Range.Contains(ann.Sample) {
		width := max(sel.Range.Len(), 1)
		p.session.SetRange(filter.Range{Start: ann.Sample - width/2, End: ann.Sample - width/2 + width}.Pan(0, p.session.SampleCount()))
	}
	if !sel.IsEnabled(ann.Symbol) {
		p.session.ToggleSymbol(ann.Symbol)
	}
	p.Sync()
	return p.viewport.SelectAnnotation(i)
}

// SetSize lays out chart, legend and table in the given area
func (p *Pane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.chart.SetSize(width, p.config.Display.ChartHeight)

	tableHeight := height - p.chart.Height() - 1
	if tableHeight < 1 {
		tableHeight = 1
	}
	p.viewport.SetSize(width, tableHeight)
}

// Render returns the pane content
func (p *Pane) Render() string {
	if !p.session.Loaded() {
		return ""
	}

	var b strings.Builder
	b.WriteString(p.chart.Render(p.session.VisibleSamples(), p.session.Selection().Range, p.session.VisiblePoints()))
	b.WriteString("\n")
	b.WriteString(render.Legend(p.session.Symbols(), p.session.Selection(), p.counts, p.classes))
	b.WriteString("\n")
	b.WriteString(p.viewport.Render())
	return b.String()
}
