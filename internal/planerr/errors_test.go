package planerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_MatchesWrappedSentinel(t *testing.T) {
	err := Infeasible("f1", "c1", "no window fits")
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.Equal(t, ErrInfeasible, KindOf(err))
}

func TestKindOf_UnknownErrorReturnsNil(t *testing.T) {
	assert.Nil(t, KindOf(errors.New("some unrelated error")))
}

func TestKindOf_EachConstructor(t *testing.T) {
	scenarios := []struct {
		name string
		err  error
		kind error
	}{
		{"invalid input", InvalidInput("bad"), ErrInvalidInput},
		{"missing weather", MissingWeather("gap"), ErrMissingWeather},
		{"infeasible", Infeasible("f1", "c1", "reason"), ErrInfeasible},
		{"invariant violation", InvariantViolation("broke"), ErrInvariantViolation},
		{"constraint violation", ConstraintViolation("broke"), ErrConstraintViolation},
	}
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			assert.Equal(t, sc.kind, KindOf(sc.err))
		})
	}
}

func TestKindError_Unwrap(t *testing.T) {
	err := InvalidInput("bad window")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "bad window")
}
