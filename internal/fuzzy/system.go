package fuzzy

import (
	"fmt"
	"strings"
)

// #region system
// System is an immutable Mamdani control system: registered antecedents,
// consequents and an ordered rule list. It is safe to share across
// goroutines; every evaluation works on its own Simulation.
type System struct {
	name     string
	inputs   map[string]*Variable
	outputs  map[string]*Variable
	required []*Variable // antecedents referenced by at least one rule, first-use order
	targeted []*Variable // consequents referenced by at least one rule, first-use order
	rules    []Rule
}

// NewSystem validates the rule base against the registered variables and
// seals every variable against further term definitions.
func NewSystem(name string, inputs, outputs []*Variable, rules []Rule) (*System, error) {
	s := &System{
		name:    name,
		inputs:  make(map[string]*Variable, len(inputs)),
		outputs: make(map[string]*Variable, len(outputs)),
		rules:   append([]Rule(nil), rules...),
	}

	seen := make(map[string]bool)
	register := func(v *Variable, role Role, into map[string]*Variable) error {
		if v == nil {
			return fmt.Errorf("%s: nil %s: %w", name, role, ErrUnregisteredVariable)
		}
		if seen[v.name] {
			return fmt.Errorf("%s: %s: %w", name, v.name, ErrDuplicateVariable)
		}
		if v.role != role {
			return fmt.Errorf("%s: %s is a %s, registered as %s: %w", name, v.name, v.role, role, ErrUnregisteredVariable)
		}
		if v.universe.Len() == 0 {
			return fmt.Errorf("%s: %s: empty universe: %w", name, v.name, ErrInvalidUniverse)
		}
		seen[v.name] = true
		into[v.name] = v
		return nil
	}
	for _, v := range inputs {
		if err := register(v, Antecedent, s.inputs); err != nil {
			return nil, err
		}
	}
	for _, v := range outputs {
		if err := register(v, Consequent, s.outputs); err != nil {
			return nil, err
		}
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("%s: empty rule base", name)
	}

	required := make(map[string]bool)
	targeted := make(map[string]bool)
	for i, r := range s.rules {
		if r.antecedent == nil {
			return nil, fmt.Errorf("%s: rule %d: missing antecedent", name, i)
		}
		if err := r.antecedent.check(); err != nil {
			return nil, fmt.Errorf("%s: rule %d: %w", name, i, err)
		}
		var leafErr error
		r.antecedent.leaves(func(l Leaf) {
			if leafErr != nil {
				return
			}
			v, ok := s.inputs[l.Var.name]
			if !ok || v != l.Var {
				leafErr = fmt.Errorf("%s: rule %d: antecedent %s: %w", name, i, l.Var.name, ErrUnregisteredVariable)
				return
			}
			if !v.HasTerm(l.Term) {
				leafErr = fmt.Errorf("%s: rule %d: %s.%s: %w", name, i, v.name, l.Term, ErrUnknownTerm)
				return
			}
			if !required[v.name] {
				required[v.name] = true
				s.required = append(s.required, v)
			}
		})
		if leafErr != nil {
			return nil, leafErr
		}

		out, ok := s.outputs[nameOf(r.output)]
		if !ok || out != r.output {
			return nil, fmt.Errorf("%s: rule %d: consequent %s: %w", name, i, nameOf(r.output), ErrUnregisteredVariable)
		}
		if !out.HasTerm(r.term) {
			return nil, fmt.Errorf("%s: rule %d: %s.%s: %w", name, i, out.name, r.term, ErrUnknownTerm)
		}
		if !targeted[out.name] {
			targeted[out.name] = true
			s.targeted = append(s.targeted, out)
		}
	}

	for _, v := range s.inputs {
		v.sealed = true
	}
	for _, v := range s.outputs {
		v.sealed = true
	}
	return s, nil
}

func nameOf(v *Variable) string {
	if v == nil {
		return "<nil>"
	}
	return v.name
}

// Name returns the system name.
func (s *System) Name() string { return s.name }

// Rules returns the rule base in evaluation order.
func (s *System) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Input returns a registered antecedent.
func (s *System) Input(name string) (*Variable, bool) {
	v, ok := s.inputs[name]
	return v, ok
}

// Output returns a registered consequent.
func (s *System) Output(name string) (*Variable, bool) {
	v, ok := s.outputs[name]
	return v, ok
}

// RequiredInputs lists the antecedents a simulation must be given.
func (s *System) RequiredInputs() []string {
	out := make([]string, len(s.required))
	for i, v := range s.required {
		out[i] = v.name
	}
	return out
}

func (s *System) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "system %s (%d rules)\n", s.name, len(s.rules))
	for i, r := range s.rules {
		fmt.Fprintf(&b, "  %2d: %s\n", i, r)
	}
	return b.String()
}

// Evaluate runs one inference on a fresh Simulation.
func (s *System) Evaluate(inputs map[string]float64) (*Result, error) {
	sim := s.NewSimulation()
	for name, x := range inputs {
		if err := sim.SetInput(name, x); err != nil {
			return nil, err
		}
	}
	return sim.Compute()
}

// #endregion system
