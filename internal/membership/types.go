package membership

import "errors"

// #region errors
// ErrInvalidParameters is returned when breakpoints are not non-decreasing
// or the wrong number of breakpoints is supplied for a shape.
var ErrInvalidParameters = errors.New("invalid membership parameters")

// #endregion errors

// #region kind
// Kind enumerates the supported membership function shapes.
type Kind string

const (
	KindTriangular  Kind = "trimf"
	KindTrapezoidal Kind = "trapmf"
)

// #endregion kind

// #region func
// Func is a closed-form membership function over a scalar universe.
// Build it with NewTriangular or NewTrapezoidal so the breakpoints are validated.
type Func struct {
	Kind   Kind
	Params []float64
}

// #endregion func
