package fuzzy

import (
	"fmt"
	"math"
)

// #region result
// Result is the full trace of one inference call.
type Result struct {
	Inputs      map[string]float64            // crisp inputs after clamping onto the universe
	Fuzzified   Fuzzified                     // per-antecedent term degrees
	Firing      []float64                     // per-rule firing strength, rule order
	Activations map[string]map[string]float64 // per-consequent term cut levels
	Sets        map[string]FuzzySet           // aggregated output sets
	Outputs     map[string]float64            // crisp centroids
}

// Output returns the crisp value of a consequent.
func (r *Result) Output(name string) (float64, error) {
	v, ok := r.Outputs[name]
	if !ok {
		return 0, fmt.Errorf("output %s: %w", name, ErrUnregisteredVariable)
	}
	return v, nil
}

// #endregion result

// #region simulation
// Simulation holds the crisp inputs of one evaluation. It is cheap to create
// and must not be shared between goroutines.
type Simulation struct {
	sys    *System
	inputs map[string]float64
}

// NewSimulation starts an evaluation with no inputs set.
func (s *System) NewSimulation() *Simulation {
	return &Simulation{sys: s, inputs: make(map[string]float64, len(s.inputs))}
}

// SetInput records the crisp value of an antecedent. Values outside the
// variable's declared bounds are rejected.
func (sim *Simulation) SetInput(name string, x float64) error {
	v, ok := sim.sys.inputs[name]
	if !ok {
		return &InputError{Variable: name, Value: x, Err: ErrUnregisteredVariable}
	}
	if !v.bounds.Contains(x) {
		return &InputError{Variable: name, Value: x, Bounds: v.bounds, Err: ErrOutOfRange}
	}
	sim.inputs[name] = x
	return nil
}

// Compute fuzzifies the inputs, fires every rule, aggregates each targeted
// consequent and defuzzifies it by centroid.
func (sim *Simulation) Compute() (*Result, error) {
	sys := sim.sys
	res := &Result{
		Inputs:      make(map[string]float64, len(sys.required)),
		Fuzzified:   make(Fuzzified, len(sys.required)),
		Firing:      make([]float64, len(sys.rules)),
		Activations: make(map[string]map[string]float64, len(sys.targeted)),
		Sets:        make(map[string]FuzzySet, len(sys.targeted)),
		Outputs:     make(map[string]float64, len(sys.targeted)),
	}

	for _, v := range sys.required {
		x, ok := sim.inputs[v.name]
		if !ok {
			return nil, fmt.Errorf("%s: %s: %w", sys.name, v.name, ErrMissingInput)
		}
		x = v.universe.Clamp(x)
		res.Inputs[v.name] = x
		res.Fuzzified[v.name] = v.Fuzzify(x)
	}

	for _, out := range sys.targeted {
		cuts := make(map[string]float64, len(out.order))
		for _, name := range out.order {
			cuts[name] = 0
		}
		res.Activations[out.name] = cuts
	}
	for i, r := range sys.rules {
		strength, err := r.antecedent.eval(res.Fuzzified)
		if err != nil {
			return nil, fmt.Errorf("%s: rule %d: %w", sys.name, i, err)
		}
		res.Firing[i] = strength
		cuts := res.Activations[r.output.name]
		cuts[r.term] = math.Max(cuts[r.term], strength)
	}

	for _, out := range sys.targeted {
		set := out.Aggregate(res.Activations[out.name])
		crisp, err := Centroid(set)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", sys.name, out.name, err)
		}
		res.Sets[out.name] = set
		res.Outputs[out.name] = crisp
	}
	return res, nil
}

// #endregion simulation
