package ecg

import (
	"errors"
	"fmt"
)

var (
	ErrLengthMismatch  = errors.New("annotation sample/symbol length mismatch")
	ErrUnknownChannel  = errors.New("unknown channel")
	ErrIndexOutOfRange = errors.New("annotation index out of range")
)

// LoadError reports a document that could not be fetched, parsed or validated.
// Nothing from a failed load is displayed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// StaleEditError is returned by a guarded edit when the live symbol no longer
// matches the one the edit was based on
type StaleEditError struct {
	Index    int
	Expected string
	Actual   string
}

func (e *StaleEditError) Error() string {
	return fmt.Sprintf("annotation %d changed: expected %q, found %q", e.Index, e.Expected, e.Actual)
}

// NotFoundError is returned when no annotation sits at the requested sample
type NotFoundError struct {
	Sample int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no annotation at sample %d", e.Sample)
}

// IsStale reports whether err is a StaleEditError
func IsStale(err error) bool {
	var stale *StaleEditError
	return errors.As(err, &stale)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
