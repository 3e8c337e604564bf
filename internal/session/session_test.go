package session

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/ecgedit/internal/codec"
	"github.com/TimelordUK/ecgedit/internal/ecg"
	"github.com/TimelordUK/ecgedit/internal/export"
	"github.com/TimelordUK/ecgedit/internal/filter"
	"github.com/TimelordUK/ecgedit/internal/index"
	"github.com/TimelordUK/ecgedit/pkg/ecgformat"
)

func exampleDocument() *ecg.Document {
	return &ecg.Document{
		Variant:     ecg.VariantSingle,
		Samples:     []float64{0, 1, 2, 3, 4, 5},
		Annotations: ecg.Annotations{{Sample: 1, Symbol: "N"}, {Sample: 4, Symbol: "V"}},
		Symbols:     ecg.SymbolSet{"N", "V"},
	}
}

func loaded(t *testing.T, doc *ecg.Document) *Session {
	t.Helper()
	s := New(Options{Window: 500, Clock: ecgformat.NewClock(360)}, nil)
	require.NoError(t, s.Load(doc))
	return s
}

func TestFilterScenario(t *testing.T) {
	s := loaded(t, exampleDocument())

	// default window is clamped to the waveform
	assert.Equal(t, filter.Range{Start: 0, End: 6}, s.Selection().Range)
	assert.Len(t, s.VisiblePoints(), 2)

	s.SetRange(filter.Range{Start: 0, End: 3})
	s.ToggleSymbol("V")

	assert.Equal(t, []float64{0, 1, 2}, s.VisibleSamples())
	assert.Equal(t, []index.Point{{Index: 0, Sample: 1, Value: 1, Symbol: "N", InBounds: true}}, s.VisiblePoints())
}

func TestGuardedEditScenario(t *testing.T) {
	s := loaded(t, exampleDocument())

	require.NoError(t, s.GuardedEdit(0, "N", "A"))
	assert.Equal(t, []string{"A", "V"}, s.Document().Annotations.Symbols())

	err := s.GuardedEdit(0, "N", "A")
	var stale *ecg.StaleEditError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, "A", stale.Actual)
	assert.Equal(t, []string{"A", "V"}, s.Document().Annotations.Symbols())
	assert.Equal(t, 1, s.Modified())
}

func TestLookupScenario(t *testing.T) {
	s := loaded(t, exampleDocument())

	i, ann, err := s.Lookup(4)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, "V", ann.Symbol)

	_, _, err = s.Lookup(99)
	assert.True(t, ecg.IsNotFound(err))
}

func TestEditSessionFlow(t *testing.T) {
	s := loaded(t, exampleDocument())

	i, err := s.BeginEditAtSample(4)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	state := s.EditState()
	assert.True(t, state.Active())
	assert.Equal(t, "V", state.Expected())

	s.SetProposal("F")
	require.Len(t, s.VisiblePoints(), 2)
	require.NoError(t, s.CommitEdit())
	assert.False(t, s.EditState().Active())

	// F is outside the symbol set, so the cached rows drop it until it is enabled
	points := s.VisiblePoints()
	require.Len(t, points, 1)
	assert.Equal(t, "N", points[0].Symbol)

	s.ToggleSymbol("F")
	points = s.VisiblePoints()
	require.Len(t, points, 2)
	assert.Equal(t, "F", points[1].Symbol)
	assert.Equal(t, 1, points[1].Index)
}

func TestStaleCommitAfterDirectEdit(t *testing.T) {
	s := loaded(t, exampleDocument())

	require.NoError(t, s.BeginEdit(0))
	s.SetProposal("A")

	// another change lands between begin and commit
	require.NoError(t, s.DirectEdit(0, "L"))

	err := s.CommitEdit()
	assert.True(t, ecg.IsStale(err))
	assert.Equal(t, "L", s.Document().Annotations[0].Symbol)
	assert.False(t, s.EditState().Active())

	s.CancelEdit()
	assert.Error(t, s.CommitEdit())
}

func TestEditOutOfRange(t *testing.T) {
	s := loaded(t, exampleDocument())
	assert.ErrorIs(t, s.BeginEdit(2), ecg.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.DirectEdit(-1, "N"), ecg.ErrIndexOutOfRange)

	_, err := s.BeginEditAtSample(3)
	assert.True(t, ecg.IsNotFound(err))
}

func TestPanZoomToggleAt(t *testing.T) {
	doc := exampleDocument()
	doc.Samples = make([]float64, 2000)
	s := New(Options{Window: 100}, nil)
	require.NoError(t, s.Load(doc))

	s.Pan(50)
	assert.Equal(t, filter.Range{Start: 50, End: 150}, s.Selection().Range)
	s.Pan(-500)
	assert.Equal(t, filter.Range{Start: 0, End: 100}, s.Selection().Range)
	s.Zoom(2)
	assert.Equal(t, filter.Range{Start: 0, End: 200}, s.Selection().Range)

	sym, ok := s.ToggleSymbolAt(1)
	require.True(t, ok)
	assert.Equal(t, "V", sym)
	assert.False(t, s.Selection().IsEnabled("V"))

	_, ok = s.ToggleSymbolAt(5)
	assert.False(t, ok)
}

func TestChannels(t *testing.T) {
	doc := &ecg.Document{
		Variant: ecg.VariantChannels,
		Channels: map[string][]float64{
			"V5":   {9, 9, 9},
			"MLII": {0, 1, 2, 3, 4, 5},
		},
		Annotations: ecg.Annotations{{Sample: 1, Symbol: "N"}, {Sample: 4, Symbol: "V"}},
		Symbols:     ecg.SymbolSet{"N", "V"},
	}
	s := loaded(t, doc)

	assert.Equal(t, "MLII", s.Channel())
	assert.Equal(t, 6, s.SampleCount())

	name, err := s.NextChannel()
	require.NoError(t, err)
	assert.Equal(t, "V5", name)
	assert.Equal(t, filter.Range{Start: 0, End: 3}, s.Selection().Range)

	// sample 4 lies beyond V5; the annotation is kept but not displayed
	assert.Len(t, s.VisiblePoints(), 1)
	assert.Equal(t, 2, s.Annotations())

	name, err = s.NextChannel()
	require.NoError(t, err)
	assert.Equal(t, "MLII", name)

	assert.ErrorIs(t, s.SelectChannel("V1"), ecg.ErrUnknownChannel)

	single := loaded(t, exampleDocument())
	_, err = single.NextChannel()
	assert.ErrorIs(t, err, ecg.ErrUnknownChannel)
}

func TestParseRangeOnSession(t *testing.T) {
	doc := exampleDocument()
	doc.Samples = make([]float64, 3600)
	s := loaded(t, doc)

	r, err := s.ParseRange("360-720")
	require.NoError(t, err)
	assert.Equal(t, filter.Range{Start: 360, End: 720}, r)

	r, err = s.ParseRange(".+10-.+20")
	require.NoError(t, err)
	assert.Equal(t, filter.Range{Start: 370, End: 380}, r)
	assert.Equal(t, r, s.Selection().Range)

	_, err = s.ParseRange("abc")
	assert.Error(t, err)
	assert.Equal(t, r, s.Selection().Range)
}

func TestNoDocument(t *testing.T) {
	s := New(Options{}, nil)
	assert.False(t, s.Loaded())
	assert.ErrorIs(t, s.BeginEdit(0), ErrNoDocument)
	assert.ErrorIs(t, s.DirectEdit(0, "N"), ErrNoDocument)
	assert.ErrorIs(t, s.Load(nil), ErrNoDocument)
	_, err := s.Snapshot()
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.Empty(t, s.VisiblePoints())
	assert.Empty(t, s.VisibleSamples())

	// toggles without a document are no-ops
	s.ToggleSymbol("N")
	s.Pan(10)
}

func TestReloadResetsState(t *testing.T) {
	s := loaded(t, exampleDocument())
	require.NoError(t, s.DirectEdit(0, "A"))
	s.ToggleSymbol("N")
	require.NoError(t, s.BeginEdit(1))

	require.NoError(t, s.Load(exampleDocument()))
	assert.Zero(t, s.Modified())
	assert.False(t, s.EditState().Active())
	assert.True(t, s.Selection().IsEnabled("N"))
	assert.Equal(t, "N", s.Document().Annotations[0].Symbol)
}

func TestSnapshotExportRoundTrip(t *testing.T) {
	s := loaded(t, exampleDocument())
	require.NoError(t, s.DirectEdit(1, "A"))

	snap, err := s.Snapshot()
	require.NoError(t, err)

	// the snapshot does not alias live state
	require.NoError(t, s.DirectEdit(1, "F"))
	assert.Equal(t, "A", snap.Annotations[1].Symbol)

	info, err := export.NewExporter(t.TempDir()).WriteFile(snap)
	require.NoError(t, err)

	data, err := os.ReadFile(info.Path)
	require.NoError(t, err)
	back, err := codec.Decode(data)
	require.NoError(t, err)

	reloaded := loaded(t, back)
	assert.Equal(t, snap.Samples, reloaded.Document().Samples)
	assert.Equal(t, snap.Annotations, reloaded.Document().Annotations)
	assert.Equal(t, snap.Symbols, reloaded.Document().Symbols)
}

func TestEditedSessionEncodeDecodeRoundTrip(t *testing.T) {
	s := loaded(t, exampleDocument())

	_, err := s.BeginEditAtSample(1)
	require.NoError(t, err)
	s.SetProposal("A")
	require.NoError(t, s.CommitEdit())
	require.NoError(t, s.GuardedEdit(1, "V", "F"))
	require.Equal(t, 2, s.Modified())

	snap, err := s.Snapshot()
	require.NoError(t, err)
	data, err := export.NewExporter("").Encode(snap)
	require.NoError(t, err)

	back, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, s.Document().Samples, back.Samples)
	assert.Equal(t, []string{"A", "F"}, back.Annotations.Symbols())
	assert.Equal(t, []int{1, 4}, back.Annotations.Samples())
	assert.Equal(t, s.Document().Symbols, back.Symbols)

	// a fresh session over the decoded document starts clean with the edits in place
	reloaded := loaded(t, back)
	assert.Zero(t, reloaded.Modified())
	i, ann, err := reloaded.Lookup(4)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, "F", ann.Symbol)
}

func TestUnloadDropsDocument(t *testing.T) {
	s := loaded(t, exampleDocument())
	require.NoError(t, s.DirectEdit(0, "A"))
	require.NoError(t, s.BeginEdit(1))

	s.Unload()
	assert.False(t, s.Loaded())
	assert.Nil(t, s.Rows())
	assert.Zero(t, s.Modified())
	assert.False(t, s.EditState().Active())
	assert.ErrorIs(t, s.DirectEdit(0, "V"), ErrNoDocument)
	_, err := s.Snapshot()
	assert.ErrorIs(t, err, ErrNoDocument)

	// the session stays usable for the next load
	require.NoError(t, s.Load(exampleDocument()))
	assert.Equal(t, 2, s.Rows().Count())
}
