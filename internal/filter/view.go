package filter

import (
	"github.com/TimelordUK/ecgedit/internal/index"
)

// View wraps an annotation index and caches the points that pass a selection
type View struct {
	index     *index.Index
	selection Selection

	// Cached filtered points, rebuilt lazily
	rows  []index.Point
	dirty bool
}

// NewView creates a filtered view
func NewView(idx *index.Index, sel Selection) *View {
	return &View{
		index:     idx,
		selection: sel,
		dirty:     true,
	}
}

// SetSelection replaces the selection
func (v *View) SetSelection(sel Selection) {
	v.selection = sel
	v.dirty = true
}

// Selection returns the current selection
func (v *View) Selection() Selection {
	return v.selection
}

// SetIndex replaces the underlying index, e.g. after a channel switch
func (v *View) SetIndex(idx *index.Index) {
	v.index = idx
	v.dirty = true
}

// MarkDirty marks the cache as needing rebuild, e.g. after an edit changed a symbol
func (v *View) MarkDirty() {
	v.dirty = true
}

// rebuild refreshes the cached rows if dirty
func (v *View) rebuild() {
	if !v.dirty {
		return
	}
	v.rows = Points(v.index.All(), v.selection, v.index.SampleCount())
	v.dirty = false
}

// Rows returns the filtered points
func (v *View) Rows() []index.Point {
	v.rebuild()
	return v.rows
}

// Count returns the number of filtered points
func (v *View) Count() int {
	v.rebuild()
	return len(v.rows)
}

// Row returns the filtered point at row
func (v *View) Row(row int) (index.Point, bool) {
	v.rebuild()
	if row < 0 || row >= len(v.rows) {
		return index.Point{}, false
	}
	return v.rows[row], true
}

// AnnotationIndex returns the annotation index shown at row, -1 if none
func (v *View) AnnotationIndex(row int) int {
	p, ok := v.Row(row)
	if !ok {
		return -1
	}
	return p.Index
}

// RowFor returns the row showing annotation i, -1 if it is filtered out
func (v *View) RowFor(annotation int) int {
	v.rebuild()
	for row, p := range v.rows {
		if p.Index == annotation {
			return row
		}
	}
	return -1
}
