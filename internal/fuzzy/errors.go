package fuzzy

import (
	"errors"
	"fmt"
)

// #region sentinels
var (
	ErrDuplicateTerm        = errors.New("duplicate term")
	ErrUnknownTerm          = errors.New("unknown term")
	ErrMissingInput         = errors.New("missing input")
	ErrOutOfRange           = errors.New("input out of range")
	ErrNoRuleFired          = errors.New("no rule fired")
	ErrInvalidUniverse      = errors.New("invalid universe")
	ErrUnregisteredVariable = errors.New("unregistered variable")
	ErrDuplicateVariable    = errors.New("duplicate variable")
	ErrSealed               = errors.New("variable is sealed")
)

// #endregion sentinels

// #region input-error
// InputError reports a crisp input that was rejected before fuzzification.
// It unwraps to ErrOutOfRange or ErrUnregisteredVariable.
type InputError struct {
	Variable string
	Value    float64
	Bounds   Bounds
	Err      error
}

func (e *InputError) Error() string {
	if errors.Is(e.Err, ErrOutOfRange) {
		return fmt.Sprintf("%s=%g outside [%g, %g]: %v", e.Variable, e.Value, e.Bounds.Min, e.Bounds.Max, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Variable, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// #endregion input-error
