package fuzzy

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/sustainability-index/internal/membership"
)

// #region role
// Role says whether a variable consumes crisp inputs or produces a crisp output.
type Role int

const (
	Antecedent Role = iota
	Consequent
)

func (r Role) String() string {
	if r == Consequent {
		return "consequent"
	}
	return "antecedent"
}

// #endregion role

// #region bounds
// Bounds is the declared crisp input range of an antecedent.
type Bounds struct {
	Min float64
	Max float64
}

// Contains reports whether x lies in [Min, Max].
func (b Bounds) Contains(x float64) bool {
	return !math.IsNaN(x) && x >= b.Min && x <= b.Max
}

// #endregion bounds

// #region variable
type term struct {
	name    string
	fn      membership.Func
	sampled []float64
}

// Variable is a named linguistic dimension: a universe plus named terms.
// Define every term before handing the variable to NewSystem; the system
// seals it and further DefineTerm calls fail.
type Variable struct {
	name     string
	role     Role
	universe Universe
	bounds   Bounds
	terms    map[string]*term
	order    []string
	sealed   bool
}

// NewAntecedent creates an input variable. Its declared bounds default to
// the universe's first and last samples.
func NewAntecedent(name string, u Universe) *Variable {
	return newVariable(name, Antecedent, u)
}

// NewConsequent creates an output variable.
func NewConsequent(name string, u Universe) *Variable {
	return newVariable(name, Consequent, u)
}

func newVariable(name string, role Role, u Universe) *Variable {
	v := &Variable{
		name:     name,
		role:     role,
		universe: u,
		terms:    make(map[string]*term),
	}
	if u.Len() > 0 {
		v.bounds = Bounds{Min: u.Min(), Max: u.Max()}
	}
	return v
}

// WithBounds overrides the declared input range. Inputs inside the bounds
// but past the last universe sample are clamped onto the universe.
func (v *Variable) WithBounds(min, max float64) *Variable {
	v.bounds = Bounds{Min: min, Max: max}
	return v
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Role returns the variable role.
func (v *Variable) Role() Role { return v.role }

// Bounds returns the declared input range.
func (v *Variable) Bounds() Bounds { return v.bounds }

// Universe returns the discretized domain.
func (v *Variable) Universe() Universe { return v.universe }

// Terms returns term names in definition order.
func (v *Variable) Terms() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// HasTerm reports whether name is registered.
func (v *Variable) HasTerm(name string) bool {
	_, ok := v.terms[name]
	return ok
}

// #endregion variable

// #region define-term
// DefineTerm registers a named membership function on this variable.
func (v *Variable) DefineTerm(name string, fn membership.Func) error {
	if v.sealed {
		return fmt.Errorf("%s.%s: %w", v.name, name, ErrSealed)
	}
	if _, ok := v.terms[name]; ok {
		return fmt.Errorf("%s.%s: %w", v.name, name, ErrDuplicateTerm)
	}
	v.terms[name] = &term{name: name, fn: fn, sampled: fn.Sample(v.universe.samples)}
	v.order = append(v.order, name)
	return nil
}

// Triangular is DefineTerm for a validated triangular function.
func (v *Variable) Triangular(name string, a, b, c float64) error {
	fn, err := membership.NewTriangular(a, b, c)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", v.name, name, err)
	}
	return v.DefineTerm(name, fn)
}

// Trapezoidal is DefineTerm for a validated trapezoidal function.
func (v *Variable) Trapezoidal(name string, a, b, c, d float64) error {
	fn, err := membership.NewTrapezoidal(a, b, c, d)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", v.name, name, err)
	}
	return v.DefineTerm(name, fn)
}

// #endregion define-term

// #region evaluation
// Membership returns the degree of x in the named term. The term is
// evaluated as the piecewise-linear interpolation of its samples on the
// universe, which is what inference uses.
func (v *Variable) Membership(name string, x float64) (float64, error) {
	t, ok := v.terms[name]
	if !ok {
		return 0, fmt.Errorf("%s.%s: %w", v.name, name, ErrUnknownTerm)
	}
	return interp(v.universe.samples, t.sampled, x), nil
}

// Fuzzify maps every registered term to its degree at x.
func (v *Variable) Fuzzify(x float64) map[string]float64 {
	out := make(map[string]float64, len(v.terms))
	for name, t := range v.terms {
		out[name] = interp(v.universe.samples, t.sampled, x)
	}
	return out
}

// UniverseSamples returns the discretized domain used for centroid integration.
func (v *Variable) UniverseSamples() []float64 {
	return v.universe.Samples()
}

// TermSamples returns the named term sampled on the universe.
func (v *Variable) TermSamples(name string) ([]float64, error) {
	t, ok := v.terms[name]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", v.name, name, ErrUnknownTerm)
	}
	out := make([]float64, len(t.sampled))
	copy(out, t.sampled)
	return out, nil
}

// #endregion evaluation
