// Package errs defines the error kinds shared by the coordinate-translation
// and chain codecs.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every fatal per-document failure wraps one of these so the
// caller can classify it with errors.Is.
var (
	// ErrCoordinateOutOfRange indicates a native coordinate absent from the token index.
	ErrCoordinateOutOfRange = errors.New("coordinate out of range")
	// ErrNoMappingFound indicates a character span covered by no token.
	ErrNoMappingFound = errors.New("no mapping found")
	// ErrDisjointSpan indicates an entity not aligned with a contiguous token run.
	ErrDisjointSpan = errors.New("disjoint span")
	// ErrUnbalancedChain indicates a bracket marker without its counterpart.
	ErrUnbalancedChain = errors.New("unbalanced chain")
	// ErrUnresolvedReference indicates a relation pointing at an entity never emitted.
	ErrUnresolvedReference = errors.New("unresolved reference")
	// ErrInvariantViolation indicates a character map applied to text it was not built from.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrMalformedRecord indicates an input line that cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")
)

// DocError carries the document and stage in which a fatal error happened.
type DocError struct {
	Doc   string // document name (file base name without extension)
	Stage string // conversion stage, e.g. "standoff", "conll"
	Err   error
}

func (e *DocError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s [%s]: %v", e.Doc, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Doc, e.Err)
}

func (e *DocError) Unwrap() error {
	return e.Err
}

// Wrap returns nil when err is nil, otherwise a *DocError.
func Wrap(doc, stage string, err error) error {
	if err == nil {
		return nil
	}
	return &DocError{Doc: doc, Stage: stage, Err: err}
}

// Kind returns the name of the sentinel wrapped by err, or "other".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrCoordinateOutOfRange):
		return "CoordinateOutOfRange"
	case errors.Is(err, ErrNoMappingFound):
		return "NoMappingFound"
	case errors.Is(err, ErrDisjointSpan):
		return "DisjointSpan"
	case errors.Is(err, ErrUnbalancedChain):
		return "UnbalancedChain"
	case errors.Is(err, ErrUnresolvedReference):
		return "UnresolvedReference"
	case errors.Is(err, ErrInvariantViolation):
		return "InvariantViolation"
	case errors.Is(err, ErrMalformedRecord):
		return "MalformedRecord"
	}
	return "other"
}
