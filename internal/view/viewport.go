package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/ecgedit/internal/filter"
	"github.com/TimelordUK/ecgedit/internal/index"
	"github.com/TimelordUK/ecgedit/internal/render"
)

// Viewport manages the visible portion of the annotation table.
// It knows nothing about documents or edits, only how to page through a filtered View.
type Viewport struct {
	rows     *filter.View
	renderer render.Renderer

	// Dimensions
	width  int
	height int

	// Scroll position and selected row
	scrollOffset int
	cursor       int

	// Styling
	indexStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	markedStyle   lipgloss.Style

	// Annotation index under edit (-1 for none)
	marked int
}

// NewViewport creates a new viewport
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:         width,
		height:        height,
		indexStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		markedStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("167")).Bold(true),
		renderer:      render.NewPlainRenderer(0),
		marked:        -1,
	}
}

// SetSelectedColor sets the color of the selected row marker
func (v *Viewport) SetSelectedColor(color string) {
	v.selectedStyle = v.selectedStyle.Foreground(lipgloss.Color(color))
}

// SetMarked marks an annotation index, e.g. the one under edit (-1 for none)
func (v *Viewport) SetMarked(annotation int) {
	v.marked = annotation
}

// SetRenderer sets the row renderer
func (v *Viewport) SetRenderer(r render.Renderer) {
	v.renderer = r
}

// SetRows sets the filtered rows and resets the scroll position
func (v *Viewport) SetRows(rows *filter.View) {
	v.rows = rows
	v.scrollOffset = 0
	v.cursor = 0
}

// Refresh re-clamps cursor and scroll after the rows changed underneath
func (v *Viewport) Refresh() {
	v.clamp()
}

// SetSize updates viewport dimensions
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clamp()
}

// Height returns the number of table rows shown
func (v *Viewport) Height() int {
	return v.height
}

func (v *Viewport) count() int {
	if v.rows == nil {
		return 0
	}
	return v.rows.Count()
}

// CursorDown moves the selection down by n rows
func (v *Viewport) CursorDown(n int) {
	v.cursor += n
	v.clamp()
}

// CursorUp moves the selection up by n rows
func (v *Viewport) CursorUp(n int) {
	v.cursor -= n
	v.clamp()
}

// PageDown moves by one page
func (v *Viewport) PageDown() {
	v.CursorDown(max(v.height-1, 1))
}

// PageUp moves back by one page
func (v *Viewport) PageUp() {
	v.CursorUp(max(v.height-1, 1))
}

// GotoTop selects the first row
func (v *Viewport) GotoTop() {
	v.cursor = 0
	v.clamp()
}

// GotoBottom selects the last row
func (v *Viewport) GotoBottom() {
	v.cursor = v.count() - 1
	v.clamp()
}

// GotoRow selects a specific row
func (v *Viewport) GotoRow(row int) {
	v.cursor = row
	v.clamp()
}

// SelectAnnotation selects the row showing annotation i.
// Returns false when i is filtered out of the table.
func (v *Viewport) SelectAnnotation(i int) bool {
	if v.rows == nil {
		return false
	}
	row := v.rows.RowFor(i)
	if row < 0 {
		return false
	}
	v.GotoRow(row)
	return true
}

// Cursor returns the selected row
func (v *Viewport) Cursor() int {
	return v.cursor
}

// Selected returns the point on the selected row
func (v *Viewport) Selected() (index.Point, bool) {
	if v.rows == nil {
		return index.Point{}, false
	}
	return v.rows.Row(v.cursor)
}

// clamp keeps the cursor on a row and the cursor inside the scrolled page
func (v *Viewport) clamp() {
	n := v.count()
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}

	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.height > 0 && v.cursor >= v.scrollOffset+v.height {
		v.scrollOffset = v.cursor - v.height + 1
	}

	maxScroll := n - v.height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if v.scrollOffset > maxScroll {
		v.scrollOffset = maxScroll
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// Render returns the viewport content as a string
func (v *Viewport) Render() string {
	var builder strings.Builder
	n := v.count()
	indexWidth := len(fmt.Sprintf("%d", max(n, 1)))

	shown := 0
	for row := v.scrollOffset; row < n && shown < v.height; row++ {
		p, ok := v.rows.Row(row)
		if !ok {
			break
		}
		if shown > 0 {
			builder.WriteString("\n")
		}
		shown++

		// Annotation indices are shown as stored, 0-based
		prefix := fmt.Sprintf("%*d ", indexWidth, p.Index)
		switch {
		case p.Index == v.marked:
			builder.WriteString(v.markedStyle.Render("*" + prefix))
		case row == v.cursor:
			builder.WriteString(v.selectedStyle.Render(">" + prefix))
		default:
			builder.WriteString(v.indexStyle.Render(" " + prefix))
		}

		content := v.renderer.Render(p)
		if row == v.cursor {
			content = v.selectedStyle.Render(content)
		}
		builder.WriteString(content)
	}

	// Pad with empty lines if needed
	for i := shown; i < v.height; i++ {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("~")
	}

	return builder.String()
}

// PercentScrolled returns how far through the table the cursor is
func (v *Viewport) PercentScrolled() float64 {
	n := v.count()
	if n <= 1 {
		return 100
	}
	return float64(v.cursor) / float64(n-1) * 100
}
