package edit

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/TimelordUK/ecgedit/internal/ecg"
)

// Engine edits annotation symbols in place. It never inserts or removes
// annotations, so the list length is fixed for the engine's lifetime.
type Engine struct {
	annotations ecg.Annotations
	logger      *zap.Logger
	edits       int
}

// NewEngine creates an engine over the given annotations
func NewEngine(annotations ecg.Annotations, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{annotations: annotations, logger: logger}
}

// Len returns the annotation count
func (e *Engine) Len() int {
	return len(e.annotations)
}

// Count returns how many edits have been applied
func (e *Engine) Count() int {
	return e.edits
}

// Symbol returns the live symbol at i
func (e *Engine) Symbol(i int) (string, error) {
	if err := e.check(i); err != nil {
		return "", err
	}
	return e.annotations[i].Symbol, nil
}

// Direct overwrites the symbol at i unconditionally
func (e *Engine) Direct(i int, symbol string) error {
	if err := e.check(i); err != nil {
		return err
	}

	old := e.annotations[i].Symbol
	e.annotations[i].Symbol = symbol
	e.edits++

	e.logger.Info("direct edit",
		zap.Int("index", i),
		zap.Int("sample", e.annotations[i].Sample),
		zap.String("from", old),
		zap.String("to", symbol))
	return nil
}

// Guarded overwrites the symbol at i only if it still equals expected.
// Otherwise it returns *ecg.StaleEditError and changes nothing.
func (e *Engine) Guarded(i int, expected, symbol string) error {
	if err := e.check(i); err != nil {
		return err
	}

	actual := e.annotations[i].Symbol
	if actual != expected {
		e.logger.Warn("stale edit rejected",
			zap.Int("index", i),
			zap.String("expected", expected),
			zap.String("actual", actual))
		return &ecg.StaleEditError{Index: i, Expected: expected, Actual: actual}
	}

	e.annotations[i].Symbol = symbol
	e.edits++

	e.logger.Info("guarded edit",
		zap.Int("index", i),
		zap.Int("sample", e.annotations[i].Sample),
		zap.String("from", actual),
		zap.String("to", symbol))
	return nil
}

// LookupBySample returns the first annotation at sample.
// A missing sample is *ecg.NotFoundError; an empty symbol is a normal result.
func (e *Engine) LookupBySample(sample int) (int, ecg.Annotation, error) {
	for i, ann := range e.annotations {
		if ann.Sample == sample {
			return i, ann, nil
		}
	}
	return -1, ecg.Annotation{}, &ecg.NotFoundError{Sample: sample}
}

func (e *Engine) check(i int) error {
	if i < 0 || i >= len(e.annotations) {
		return fmt.Errorf("%w: %d (have %d)", ecg.ErrIndexOutOfRange, i, len(e.annotations))
	}
	return nil
}
