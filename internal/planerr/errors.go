// Package planerr defines the closed set of planning error kinds,
// distinguished by intent rather than by Go type hierarchy: callers use
// errors.Is against the sentinels below, and fmt.Errorf("...: %w", ...) to
// attach context the same way database and hashing errors get wrapped
// elsewhere in this codebase.
package planerr

import "errors"

// Sentinel kinds. Wrap with fmt.Errorf("%w: detail", KindX) to add context;
// unwrap with errors.Is.
var (
	// ErrInvalidInput: configuration value out of domain, malformed
	// profile, inconsistent window. Surfaced to the caller; no recovery.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingWeather: weather does not cover the planning window.
	// Surfaced; no recovery.
	ErrMissingWeather = errors.New("missing weather")

	// ErrInfeasible: no candidate satisfies constraints for a (field,
	// crop). Recovered locally — the pair is skipped and counted.
	ErrInfeasible = errors.New("infeasible")

	// ErrMoveRejected: a single move instruction cannot be applied.
	// Recovered locally into AdjustResult.RejectedMoves.
	ErrMoveRejected = errors.New("move rejected")

	// ErrConstraintViolation: re-optimization produced a candidate that
	// violates a constraint. Recovered locally by dropping the candidate.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrInvariantViolation: a solver output violates a plan invariant.
	// Fatal — indicates a solver bug. Always surfaced, never recovered.
	ErrInvariantViolation = errors.New("invariant violation")
)

// Infeasible wraps ErrInfeasible with a reason, for (field, crop) pairs
// silently skipped by the candidate generator or DP solver.
func Infeasible(fieldID, cropID, reason string) error {
	return &kindError{kind: ErrInfeasible, msg: "field " + fieldID + " crop " + cropID + ": " + reason}
}

// InvalidInput wraps ErrInvalidInput with a reason.
func InvalidInput(msg string) error {
	return &kindError{kind: ErrInvalidInput, msg: msg}
}

// MissingWeather wraps ErrMissingWeather with a reason.
func MissingWeather(msg string) error {
	return &kindError{kind: ErrMissingWeather, msg: msg}
}

// InvariantViolation wraps ErrInvariantViolation with enough context to
// reproduce.
func InvariantViolation(msg string) error {
	return &kindError{kind: ErrInvariantViolation, msg: msg}
}

// ConstraintViolation wraps ErrConstraintViolation with a reason.
func ConstraintViolation(msg string) error {
	return &kindError{kind: ErrConstraintViolation, msg: msg}
}

// KindOf returns the sentinel kind wrapped by err, or nil if err does not
// carry one of this package's kinds (e.g. a bare I/O error from a source).
// Callers such as the HTTP handlers use this to map an error onto a status
// code without a long errors.Is chain at each call site.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrInvalidInput, ErrMissingWeather, ErrInfeasible,
		ErrMoveRejected, ErrConstraintViolation, ErrInvariantViolation,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg + ": " + e.kind.Error() }
func (e *kindError) Unwrap() error { return e.kind }

// TimedOut is not an error kind per se — it is a soft signal carried as a
// bool on solver results (models.Plan.TimedOut), not returned as an error
// value. No constructor is needed here; this comment documents why
// ErrTimedOut deliberately does not exist in this set.
