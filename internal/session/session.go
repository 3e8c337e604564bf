package session

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/TimelordUK/ecgedit/internal/ecg"
	"github.com/TimelordUK/ecgedit/internal/edit"
	"github.com/TimelordUK/ecgedit/internal/filter"
	"github.com/TimelordUK/ecgedit/internal/index"
	"github.com/TimelordUK/ecgedit/pkg/ecgformat"
)

// ErrNoDocument is returned by operations that need a loaded document
var ErrNoDocument = errors.New("no document loaded")

// Options configures a Session
type Options struct {
	Window int             // samples shown after a load
	Clock  ecgformat.Clock // converts times in range expressions
}

// Session owns the loaded document and everything derived from it:
// selected channel, selection, annotation index, edit engine and the edit in progress.
// All mutation goes through its methods.
type Session struct {
	opts   Options
	logger *zap.Logger

	doc     *ecg.Document
	channel string
	samples []float64
	index   *index.Index
	rows    *filter.View
	engine  *edit.Engine
	edit    edit.Session
}

// New creates an empty session
func New(opts Options, logger *zap.Logger) *Session {
	if opts.Window <= 0 {
		opts.Window = 500
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{opts: opts, logger: logger}
}

// Load replaces all state with doc. The session takes ownership of doc.
// The selection is reset to every symbol and the default window; a
// multi-channel document starts on its first channel.
func (s *Session) Load(doc *ecg.Document) error {
	if doc == nil {
		return ErrNoDocument
	}
	samples, err := doc.Waveform("")
	if err != nil {
		return err
	}

	s.doc = doc
	s.channel = ""
	if names := doc.ChannelNames(); len(names) > 0 {
		s.channel = names[0]
	}
	s.samples = samples
	s.index = index.New(samples, doc.Annotations)
	s.engine = edit.NewEngine(doc.Annotations, s.logger)
	s.edit.Cancel()

	sel := filter.NewSelection(doc.Symbols, s.opts.Window)
	sel = sel.WithRange(sel.Range.Clamp(len(samples)))
	s.rows = filter.NewView(s.index, sel)

	s.logger.Info("session loaded",
		zap.Stringer("variant", doc.Variant),
		zap.Int("samples", len(samples)),
		zap.Int("annotations", len(doc.Annotations)),
		zap.Int("symbols", len(doc.Symbols)))
	return nil
}

// Unload drops the document and everything derived from it.
// It is used when a reload fails, so nothing of the old document stays visible.
func (s *Session) Unload() {
	if s.doc == nil {
		return
	}
	s.logger.Info("session unloaded", zap.Int("modified", s.Modified()))
	*s = Session{opts: s.opts, logger: s.logger}
}

// Loaded reports whether a document is present
func (s *Session) Loaded() bool {
	return s.doc != nil
}

// Document returns the live document. Callers must not mutate it; use Snapshot to export.
func (s *Session) Document() *ecg.Document {
	return s.doc
}

// Channel returns the selected channel, empty for single-channel documents
func (s *Session) Channel() string {
	return s.channel
}

// Channels returns the channel names in sorted order
func (s *Session) Channels() []string {
	if s.doc == nil {
		return nil
	}
	return s.doc.ChannelNames()
}

// SelectChannel switches the displayed waveform. The range is re-clamped to the
// new channel's length; annotations and edits are shared by all channels.
func (s *Session) SelectChannel(name string) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	samples, err := s.doc.Waveform(name)
	if err != nil {
		return err
	}
	if s.doc.Variant == ecg.VariantChannels {
		s.channel = name
	}
	s.samples = samples
	s.index = index.New(samples, s.doc.Annotations)
	s.rows.SetIndex(s.index)
	s.SetRange(s.rows.Selection().Range)
	return nil
}

// NextChannel cycles to the next channel and returns its name
func (s *Session) NextChannel() (string, error) {
	names := s.Channels()
	if len(names) == 0 {
		return "", fmt.Errorf("%w: document has a single waveform", ecg.ErrUnknownChannel)
	}
	next := names[0]
	if i := slices.Index(names, s.channel); i >= 0 {
		next = names[(i+1)%len(names)]
	}
	return next, s.SelectChannel(next)
}

// Symbols returns the document's symbol set
func (s *Session) Symbols() ecg.SymbolSet {
	if s.doc == nil {
		return nil
	}
	return s.doc.Symbols
}

// Selection returns the current selection
func (s *Session) Selection() filter.Selection {
	if s.rows == nil {
		return filter.Selection{}
	}
	return s.rows.Selection()
}

func (s *Session) setSelection(sel filter.Selection) {
	if s.rows != nil {
		s.rows.SetSelection(sel)
	}
}

// ToggleSymbol shows or hides sym
func (s *Session) ToggleSymbol(sym string) {
	s.setSelection(s.Selection().Toggle(sym))
}

// ToggleSymbolAt toggles the i-th symbol of the symbol set, 0-based
func (s *Session) ToggleSymbolAt(i int) (string, bool) {
	set := s.Symbols()
	if i < 0 || i >= len(set) {
		return "", false
	}
	s.ToggleSymbol(set[i])
	return set[i], true
}

// EnableAllSymbols shows every symbol of the symbol set
func (s *Session) EnableAllSymbols() {
	s.setSelection(s.Selection().EnableAll(s.Symbols()))
}

// SetRange sets the display range, clamped to the waveform, and returns it
func (s *Session) SetRange(r filter.Range) filter.Range {
	r = r.Clamp(len(s.samples))
	s.setSelection(s.Selection().WithRange(r))
	return r
}

// ParseRange parses expr relative to the current range and applies it
func (s *Session) ParseRange(expr string) (filter.Range, error) {
	if s.doc == nil {
		return filter.Range{}, ErrNoDocument
	}
	r, err := ParseRange(expr, s.Selection().Range.Start, len(s.samples), s.opts.Clock)
	if err != nil {
		return filter.Range{}, err
	}
	return s.SetRange(r), nil
}

// Pan moves the range by delta samples keeping its width
func (s *Session) Pan(delta int) {
	s.setSelection(s.Selection().Shift(delta, len(s.samples)))
}

// Zoom scales the range width around its centre; factor < 1 zooms in
func (s *Session) Zoom(factor float64) {
	s.setSelection(s.Selection().Zoom(factor, len(s.samples)))
}

// SampleCount returns the length of the displayed waveform
func (s *Session) SampleCount() int {
	return len(s.samples)
}

// VisibleSamples returns the waveform samples inside the display range
func (s *Session) VisibleSamples() []float64 {
	return filter.Window(s.samples, s.Selection().Range)
}

// VisiblePoints returns the annotations passing the selection
func (s *Session) VisiblePoints() []index.Point {
	if s.rows == nil {
		return nil
	}
	return s.rows.Rows()
}

// Rows returns the cached filtered view backing the annotation table
func (s *Session) Rows() *filter.View {
	return s.rows
}

// Annotations returns the live annotation count
func (s *Session) Annotations() int {
	if s.engine == nil {
		return 0
	}
	return s.engine.Len()
}

// Modified returns how many edits have been applied since the load
func (s *Session) Modified() int {
	if s.engine == nil {
		return 0
	}
	return s.engine.Count()
}

// BeginEdit starts a guarded edit of annotation i
func (s *Session) BeginEdit(i int) error {
	if s.engine == nil {
		return ErrNoDocument
	}
	return s.edit.Begin(s.engine, i)
}

// BeginEditAtSample starts a guarded edit of the first annotation at sample
func (s *Session) BeginEditAtSample(sample int) (int, error) {
	i, _, err := s.Lookup(sample)
	if err != nil {
		return -1, err
	}
	return i, s.BeginEdit(i)
}

// EditState returns a copy of the edit in progress
func (s *Session) EditState() edit.Session {
	return s.edit
}

// SetProposal sets the symbol the edit will write
func (s *Session) SetProposal(sym string) {
	s.edit.Propose(sym)
}

// CommitEdit applies the edit in progress as a guarded edit.
// On a stale edit the session is cleared and nothing is written.
func (s *Session) CommitEdit() error {
	if s.engine == nil {
		return ErrNoDocument
	}
	if err := s.edit.Commit(s.engine); err != nil {
		return err
	}
	s.rows.MarkDirty()
	return nil
}

// CancelEdit drops the edit in progress
func (s *Session) CancelEdit() {
	s.edit.Cancel()
}

// DirectEdit overwrites annotation i unconditionally
func (s *Session) DirectEdit(i int, sym string) error {
	if s.engine == nil {
		return ErrNoDocument
	}
	if err := s.engine.Direct(i, sym); err != nil {
		return err
	}
	s.rows.MarkDirty()
	return nil
}

// GuardedEdit overwrites annotation i only if it still holds expected
func (s *Session) GuardedEdit(i int, expected, sym string) error {
	if s.engine == nil {
		return ErrNoDocument
	}
	if err := s.engine.Guarded(i, expected, sym); err != nil {
		return err
	}
	s.rows.MarkDirty()
	return nil
}

// Lookup finds the first annotation at sample
func (s *Session) Lookup(sample int) (int, ecg.Annotation, error) {
	if s.engine == nil {
		return -1, ecg.Annotation{}, ErrNoDocument
	}
	return s.engine.LookupBySample(sample)
}

// Snapshot returns a deep copy of the document including all edits
func (s *Session) Snapshot() (*ecg.Document, error) {
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	return s.doc.Clone(), nil
}
