package source

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/TimelordUK/ecgedit/internal/codec"
	"github.com/TimelordUK/ecgedit/internal/ecg"
)

// ErrSuperseded is returned by Finish when a newer load has begun since the ticket was issued
var ErrSuperseded = errors.New("load superseded by a newer load")

// ErrNoDocument is returned by Finish when a load reports neither a document nor an error
var ErrNoDocument = errors.New("load finished without a document")

// Ticket identifies one load attempt
type Ticket struct {
	gen    uint64
	source string
}

// Source returns the provider name the ticket was issued for
func (t Ticket) Source() string {
	return t.source
}

// Loader tracks the Loading/Ready/LoadError lifecycle.
// A load that begins after another replaces it: only the newest ticket can finish.
// Loader is not safe for concurrent use; Begin and Finish run on the UI loop,
// only Fetch runs elsewhere.
type Loader struct {
	logger *zap.Logger

	gen    uint64
	state  State
	doc    *ecg.Document
	err    error
	source string
}

// NewLoader creates an idle loader
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger, state: StateIdle}
}

// Begin starts a new load, invalidating any in flight
func (l *Loader) Begin(p Provider) Ticket {
	l.gen++
	l.state = StateLoading
	l.err = nil
	l.source = p.Name()

	l.logger.Debug("load begin", zap.String("source", l.source), zap.Uint64("generation", l.gen))
	return Ticket{gen: l.gen, source: l.source}
}

// Finish records the outcome of a load. Stale tickets are ignored and
// return ErrSuperseded without touching state.
func (l *Loader) Finish(t Ticket, doc *ecg.Document, err error) error {
	if t.gen != l.gen {
		l.logger.Debug("load superseded",
			zap.String("source", t.source),
			zap.Uint64("generation", t.gen),
			zap.Uint64("current", l.gen))
		return ErrSuperseded
	}

	if err == nil && doc == nil {
		err = ErrNoDocument
	}
	if err != nil {
		l.state = StateError
		l.doc = nil
		l.err = err
		l.logger.Warn("load failed", zap.String("source", t.source), zap.Error(err))
		return err
	}

	l.state = StateReady
	l.doc = doc
	l.err = nil
	l.logger.Info("load ready",
		zap.String("source", t.source),
		zap.Stringer("variant", doc.Variant),
		zap.Int("annotations", len(doc.Annotations)))
	return nil
}

// Load runs a whole load synchronously
func (l *Loader) Load(ctx context.Context, p Provider) (*ecg.Document, error) {
	t := l.Begin(p)
	doc, err := Fetch(ctx, p)
	if err := l.Finish(t, doc, err); err != nil {
		return nil, err
	}
	return doc, nil
}

// State returns the current lifecycle state
func (l *Loader) State() State {
	return l.state
}

// Document returns the last successfully loaded document, nil unless Ready
func (l *Loader) Document() *ecg.Document {
	return l.doc
}

// Err returns the last load error, nil unless in LoadError
func (l *Loader) Err() error {
	return l.err
}

// SourceName returns the name of the most recent load's provider
func (l *Loader) SourceName() string {
	return l.source
}

// Fetch reads and decodes a document. Every failure is a *ecg.LoadError.
// It touches no loader state, so it may run off the UI loop.
func Fetch(ctx context.Context, p Provider) (*ecg.Document, error) {
	data, err := p.Fetch(ctx)
	if err != nil {
		return nil, &ecg.LoadError{Source: p.Name(), Err: err}
	}

	doc, err := codec.Decode(data)
	if err != nil {
		return nil, &ecg.LoadError{Source: p.Name(), Err: err}
	}
	return doc, nil
}
