package membership

import (
	"fmt"
	"math"
)

// #region constructors
// NewTriangular returns a triangular function with feet at a and c and peak at b.
func NewTriangular(a, b, c float64) (Func, error) {
	if err := checkOrder(a, b, c); err != nil {
		return Func{}, fmt.Errorf("trimf [%g %g %g]: %w", a, b, c, err)
	}
	return Func{Kind: KindTriangular, Params: []float64{a, b, c}}, nil
}

// NewTrapezoidal returns a trapezoidal function with feet at a and d and a plateau over [b, c].
func NewTrapezoidal(a, b, c, d float64) (Func, error) {
	if err := checkOrder(a, b, c, d); err != nil {
		return Func{}, fmt.Errorf("trapmf [%g %g %g %g]: %w", a, b, c, d, err)
	}
	return Func{Kind: KindTrapezoidal, Params: []float64{a, b, c, d}}, nil
}

// New builds a function from its kind and raw breakpoints.
func New(kind Kind, params []float64) (Func, error) {
	switch kind {
	case KindTriangular:
		if len(params) != 3 {
			return Func{}, fmt.Errorf("trimf needs 3 breakpoints, got %d: %w", len(params), ErrInvalidParameters)
		}
		return NewTriangular(params[0], params[1], params[2])
	case KindTrapezoidal:
		if len(params) != 4 {
			return Func{}, fmt.Errorf("trapmf needs 4 breakpoints, got %d: %w", len(params), ErrInvalidParameters)
		}
		return NewTrapezoidal(params[0], params[1], params[2], params[3])
	default:
		return Func{}, fmt.Errorf("unknown shape %q: %w", kind, ErrInvalidParameters)
	}
}

// #endregion constructors

// #region closed-form
// Triangular evaluates a triangular membership degree at x.
// A degenerate side (a == b or b == c) gives a shoulder that is 1 at b.
func Triangular(x, a, b, c float64) (float64, error) {
	if err := checkOrder(a, b, c); err != nil {
		return 0, err
	}
	return triangular(x, a, b, c), nil
}

// Trapezoidal evaluates a trapezoidal membership degree at x.
func Trapezoidal(x, a, b, c, d float64) (float64, error) {
	if err := checkOrder(a, b, c, d); err != nil {
		return 0, err
	}
	return trapezoidal(x, a, b, c, d), nil
}

func triangular(x, a, b, c float64) float64 {
	switch {
	case x == b:
		return 1
	case a < x && x < b:
		return (x - a) / (b - a)
	case b < x && x < c:
		return (c - x) / (c - b)
	default:
		return 0
	}
}

// trapezoidal follows the same precedence as the sampled form: the right
// shoulder wins when b == c, and anything outside [a, d] is zero.
func trapezoidal(x, a, b, c, d float64) float64 {
	y := 1.0
	if x <= b {
		y = triangular(x, a, b, b)
	}
	if x >= c {
		y = triangular(x, c, c, d)
	}
	if x < a || x > d {
		y = 0
	}
	return y
}

// #endregion closed-form

// #region func-methods
// Eval returns the membership degree of x, always within [0, 1].
func (f Func) Eval(x float64) float64 {
	var y float64
	switch f.Kind {
	case KindTriangular:
		y = triangular(x, f.Params[0], f.Params[1], f.Params[2])
	case KindTrapezoidal:
		y = trapezoidal(x, f.Params[0], f.Params[1], f.Params[2], f.Params[3])
	}
	return clamp01(y)
}

// Sample evaluates f at every point of the universe.
func (f Func) Sample(universe []float64) []float64 {
	out := make([]float64, len(universe))
	for i, x := range universe {
		out[i] = f.Eval(x)
	}
	return out
}

// String renders the function the way rule tables are written.
func (f Func) String() string {
	return fmt.Sprintf("%s%v", f.Kind, f.Params)
}

// #endregion func-methods

// #region helpers
func checkOrder(points ...float64) error {
	for i, p := range points {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("breakpoint %d is %g: %w", i, p, ErrInvalidParameters)
		}
	}
	for i := 1; i < len(points); i++ {
		if points[i-1] > points[i] {
			return fmt.Errorf("breakpoint %d (%g) exceeds breakpoint %d (%g): %w",
				i-1, points[i-1], i, points[i], ErrInvalidParameters)
		}
	}
	return nil
}

func clamp01(y float64) float64 {
	if y < 0 {
		return 0
	}
	if y > 1 {
		return 1
	}
	return y
}

// #endregion helpers
