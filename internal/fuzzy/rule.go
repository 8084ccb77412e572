package fuzzy

import (
	"fmt"
	"math"
	"strings"
)

// Fuzzified holds per-variable, per-term degrees for one inference call.
type Fuzzified map[string]map[string]float64

// #region expr
// Expr is a node of a rule antecedent: a (variable, term) leaf or an AND/OR
// combination of sub-expressions.
type Expr interface {
	eval(f Fuzzified) (float64, error)
	leaves(visit func(Leaf))
	check() error
	String() string
}

// Leaf references one term of one antecedent variable.
type Leaf struct {
	Var  *Variable
	Term string
}

// Is builds a leaf expression "v is term".
func Is(v *Variable, term string) Leaf {
	return Leaf{Var: v, Term: term}
}

func (l Leaf) eval(f Fuzzified) (float64, error) {
	degrees, ok := f[l.Var.name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", l.Var.name, ErrMissingInput)
	}
	d, ok := degrees[l.Term]
	if !ok {
		return 0, fmt.Errorf("%s.%s: %w", l.Var.name, l.Term, ErrUnknownTerm)
	}
	return d, nil
}

func (l Leaf) leaves(visit func(Leaf)) { visit(l) }

func (l Leaf) check() error {
	if l.Var == nil {
		return fmt.Errorf("leaf %q has no variable: %w", l.Term, ErrUnregisteredVariable)
	}
	return nil
}

func (l Leaf) String() string { return l.Var.name + "[" + l.Term + "]" }

type combinator struct {
	op    string
	terms []Expr
	fold  func(a, b float64) float64
}

// And combines expressions with the minimum t-norm.
func And(exprs ...Expr) Expr {
	return combinator{op: "&", terms: exprs, fold: math.Min}
}

// Or combines expressions with the maximum s-norm.
func Or(exprs ...Expr) Expr {
	return combinator{op: "|", terms: exprs, fold: math.Max}
}

func (c combinator) eval(f Fuzzified) (float64, error) {
	if len(c.terms) == 0 {
		return 0, fmt.Errorf("empty %q expression", c.op)
	}
	acc, err := c.terms[0].eval(f)
	if err != nil {
		return 0, err
	}
	for _, e := range c.terms[1:] {
		d, err := e.eval(f)
		if err != nil {
			return 0, err
		}
		acc = c.fold(acc, d)
	}
	return acc, nil
}

func (c combinator) leaves(visit func(Leaf)) {
	for _, e := range c.terms {
		e.leaves(visit)
	}
}

func (c combinator) check() error {
	if len(c.terms) == 0 {
		return fmt.Errorf("empty %q expression", c.op)
	}
	for _, e := range c.terms {
		if e == nil {
			return fmt.Errorf("nil operand in %q expression", c.op)
		}
		if err := e.check(); err != nil {
			return err
		}
	}
	return nil
}

func (c combinator) String() string {
	parts := make([]string, len(c.terms))
	for i, e := range c.terms {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, " "+c.op+" ") + ")"
}

// Evaluate computes the firing strength of expr against fuzzified inputs.
func Evaluate(expr Expr, f Fuzzified) (float64, error) {
	return expr.eval(f)
}

// #endregion expr

// #region rule
// Rule ties an antecedent expression to a single consequent term.
type Rule struct {
	antecedent Expr
	output     *Variable
	term       string
}

// NewRule builds "IF antecedent THEN output is term".
func NewRule(antecedent Expr, output *Variable, term string) Rule {
	return Rule{antecedent: antecedent, output: output, term: term}
}

// Antecedent returns the rule condition.
func (r Rule) Antecedent() Expr { return r.antecedent }

// Output returns the consequent variable.
func (r Rule) Output() *Variable { return r.output }

// Term returns the consequent term.
func (r Rule) Term() string { return r.term }

func (r Rule) String() string {
	return fmt.Sprintf("IF %s THEN %s[%s]", r.antecedent, r.output.name, r.term)
}

// #endregion rule

// #region implication
// ApplyImplication clips the consequent term at the firing strength over the
// variable's universe (Mamdani minimum implication).
func ApplyImplication(strength float64, v *Variable, term string) ([]float64, error) {
	mf, err := v.TermSamples(term)
	if err != nil {
		return nil, err
	}
	for i, y := range mf {
		mf[i] = math.Min(strength, y)
	}
	return mf, nil
}

// #endregion implication
