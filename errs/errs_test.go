package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap("doc", "conll", nil))
}

func TestDocErrorUnwrap(t *testing.T) {
	inner := fmt.Errorf("line 3 token 9: %w", ErrCoordinateOutOfRange)
	err := Wrap("clinical-12", "standoff", inner)

	assert.True(t, errors.Is(err, ErrCoordinateOutOfRange))
	assert.False(t, errors.Is(err, ErrNoMappingFound))
	assert.Equal(t, "clinical-12 [standoff]: line 3 token 9: coordinate out of range", err.Error())

	var de *DocError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "clinical-12", de.Doc)
}

func TestKind(t *testing.T) {
	cases := map[error]string{
		ErrCoordinateOutOfRange:                 "CoordinateOutOfRange",
		fmt.Errorf("x: %w", ErrNoMappingFound):  "NoMappingFound",
		Wrap("d", "", ErrDisjointSpan):          "DisjointSpan",
		ErrUnbalancedChain:                      "UnbalancedChain",
		ErrUnresolvedReference:                  "UnresolvedReference",
		ErrInvariantViolation:                   "InvariantViolation",
		ErrMalformedRecord:                      "MalformedRecord",
		errors.New("disk full"):                 "other",
	}
	for err, want := range cases {
		assert.Equal(t, want, Kind(err), err.Error())
	}
}
