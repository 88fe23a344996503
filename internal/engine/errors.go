package engine

import (
	"fmt"

	"github.com/oleamind/cropplanner/internal/planerr"
)

var (
	errInvalidProfile  = planerr.InvalidInput("invalid temperature profile")
	errMissingWeather  = planerr.ErrMissingWeather
	errIncompleteGrowth = fmt.Errorf("growth incomplete within planning window")
)

// isIncomplete reports whether err represents the Incomplete growth
// outcome, a non-fatal signal the caller discards the start date for,
// not a propagated error kind.
func isIncomplete(err error) bool {
	return err == errIncompleteGrowth
}
