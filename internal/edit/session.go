package edit

import "errors"

// ErrNoEdit is returned when committing without an active edit
var ErrNoEdit = errors.New("no edit in progress")

// Session is the transient state of one guarded edit.
// The expected symbol is captured from live state when the edit begins and
// cannot be changed afterwards; only the proposal is editable.
type Session struct {
	active   bool
	index    int
	sample   int
	expected string
	proposed string
}

// Begin starts editing annotation i, seeding the proposal with its current symbol
func (s *Session) Begin(e *Engine, i int) error {
	sym, err := e.Symbol(i)
	if err != nil {
		return err
	}

	*s = Session{
		active:   true,
		index:    i,
		sample:   e.annotations[i].Sample,
		expected: sym,
		proposed: sym,
	}
	return nil
}

// Active reports whether an edit is in progress
func (s Session) Active() bool {
	return s.active
}

// Index returns the annotation under edit
func (s Session) Index() int {
	return s.index
}

// Sample returns the sample of the annotation under edit
func (s Session) Sample() int {
	return s.sample
}

// Expected returns the symbol the edit is guarded on
func (s Session) Expected() string {
	return s.expected
}

// Proposed returns the new symbol
func (s Session) Proposed() string {
	return s.proposed
}

// Propose sets the new symbol
func (s *Session) Propose(symbol string) {
	if s.active {
		s.proposed = symbol
	}
}

// Commit applies the proposal as a guarded edit. The session is cleared on
// success and on a stale rejection; the caller must begin again from fresh state.
func (s *Session) Commit(e *Engine) error {
	if !s.active {
		return ErrNoEdit
	}

	err := e.Guarded(s.index, s.expected, s.proposed)
	s.Cancel()
	return err
}

// Cancel clears the session
func (s *Session) Cancel() {
	*s = Session{}
}
