package fuzzy

import (
	"errors"
	"math"
	"testing"
)

// fanVars is a two-input fan controller over small integer universes.
type fanVars struct {
	temp, hum, fan *Variable
}

func newFanVars(t *testing.T) fanVars {
	t.Helper()
	v := fanVars{
		temp: NewAntecedent("temp", MustArange(0, 11, 1)),
		hum:  NewAntecedent("hum", MustArange(0, 11, 1)),
		fan:  NewConsequent("fan", MustArange(0, 101, 1)),
	}
	steps := []struct {
		v    *Variable
		name string
		abc  [3]float64
	}{
		{v.temp, "cold", [3]float64{0, 0, 5}},
		{v.temp, "warm", [3]float64{0, 5, 10}},
		{v.temp, "hot", [3]float64{5, 10, 10}},
		{v.hum, "dry", [3]float64{0, 0, 10}},
		{v.hum, "wet", [3]float64{0, 10, 10}},
		{v.fan, "low", [3]float64{0, 0, 50}},
		{v.fan, "high", [3]float64{50, 100, 100}},
	}
	for _, s := range steps {
		if err := s.v.Triangular(s.name, s.abc[0], s.abc[1], s.abc[2]); err != nil {
			t.Fatalf("define %s.%s: %v", s.v.Name(), s.name, err)
		}
	}
	return v
}

func TestArangeMatchesFloatGrid(t *testing.T) {
	cases := []struct {
		start, stop, step float64
		n                 int
		last              float64
	}{
		{0, 101, 1, 101, 100},
		{0, 1.1, 0.1, 11, 1},
		{-1, 1.1, 0.1, 21, 0.9999999999999996},
		{0, 11, 0.5, 22, 10.5},
		{0, 7000, 100, 70, 6900},
		{0, 40, 1, 40, 39},
	}
	for _, c := range cases {
		u, err := Arange(c.start, c.stop, c.step)
		if err != nil {
			t.Fatalf("Arange(%g, %g, %g): %v", c.start, c.stop, c.step, err)
		}
		if u.Len() != c.n {
			t.Errorf("Arange(%g, %g, %g): %d samples, want %d", c.start, c.stop, c.step, u.Len(), c.n)
			continue
		}
		if u.Max() != c.last {
			t.Errorf("Arange(%g, %g, %g): last %v, want %v", c.start, c.stop, c.step, u.Max(), c.last)
		}
	}
}

func TestArangeRejectsBadStep(t *testing.T) {
	for _, step := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := Arange(0, 10, step); !errors.Is(err, ErrInvalidUniverse) {
			t.Errorf("step %g: expected ErrInvalidUniverse, got %v", step, err)
		}
	}
	if _, err := Arange(5, 5, 1); !errors.Is(err, ErrInvalidUniverse) {
		t.Fatalf("empty range: expected ErrInvalidUniverse, got %v", err)
	}
}

func TestInterpBoundaries(t *testing.T) {
	xp := []float64{0, 1, 2}
	fp := []float64{0, 1, 0.5}
	cases := []struct{ x, want float64 }{
		{-0.1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.5, 0.75},
		{2, 0.5},
		{2.1, 0},
	}
	for _, c := range cases {
		if got := interp(xp, fp, c.x); math.Abs(got-c.want) > 1e-15 {
			t.Errorf("interp(%g) = %g, want %g", c.x, got, c.want)
		}
	}
}

func TestDefineTermDuplicate(t *testing.T) {
	v := NewAntecedent("x", MustArange(0, 11, 1))
	if err := v.Triangular("mid", 0, 5, 10); err != nil {
		t.Fatalf("first define: %v", err)
	}
	if err := v.Triangular("mid", 1, 5, 9); !errors.Is(err, ErrDuplicateTerm) {
		t.Fatalf("expected ErrDuplicateTerm, got %v", err)
	}
	if _, err := v.Membership("edge", 3); !errors.Is(err, ErrUnknownTerm) {
		t.Fatalf("expected ErrUnknownTerm, got %v", err)
	}
}

func TestFuzzifyDegreesInUnitInterval(t *testing.T) {
	v := newFanVars(t)
	for _, x := range v.temp.UniverseSamples() {
		for term, d := range v.temp.Fuzzify(x + 0.37) {
			if d < 0 || d > 1 {
				t.Fatalf("temp(%g)[%s] = %g outside [0, 1]", x+0.37, term, d)
			}
		}
	}
	d, err := v.temp.Membership("warm", 2.5)
	if err != nil {
		t.Fatalf("Membership: %v", err)
	}
	if math.Abs(d-0.5) > 1e-12 {
		t.Fatalf("warm(2.5) = %g, want 0.5", d)
	}
}

func TestAndIsMinOrIsMax(t *testing.T) {
	v := newFanVars(t)
	f := Fuzzified{
		"temp": v.temp.Fuzzify(8), // hot 0.6, warm 0.4
		"hum":  v.hum.Fuzzify(3),  // dry 0.7, wet 0.3
	}
	and, err := Evaluate(And(Is(v.temp, "hot"), Is(v.hum, "dry")), f)
	if err != nil {
		t.Fatalf("And: %v", err)
	}
	if math.Abs(and-0.6) > 1e-12 {
		t.Fatalf("AND = %g, want 0.6", and)
	}
	or, err := Evaluate(Or(Is(v.temp, "warm"), Is(v.hum, "wet")), f)
	if err != nil {
		t.Fatalf("Or: %v", err)
	}
	if math.Abs(or-0.4) > 1e-12 {
		t.Fatalf("OR = %g, want 0.4", or)
	}
}

func TestNestedTreesAssociativeAndCommutative(t *testing.T) {
	v := newFanVars(t)
	f := Fuzzified{
		"temp": v.temp.Fuzzify(6.5),
		"hum":  v.hum.Fuzzify(2),
	}
	a, b, c := Is(v.temp, "warm"), Is(v.temp, "hot"), Is(v.hum, "wet")
	pairs := [][2]Expr{
		{And(And(a, b), c), And(a, And(b, c))},
		{And(a, b, c), And(c, b, a)},
		{Or(Or(a, b), c), Or(a, Or(b, c))},
		{Or(a, b, c), Or(c, a, b)},
	}
	for i, p := range pairs {
		x, err := Evaluate(p[0], f)
		if err != nil {
			t.Fatalf("pair %d left: %v", i, err)
		}
		y, err := Evaluate(p[1], f)
		if err != nil {
			t.Fatalf("pair %d right: %v", i, err)
		}
		if x != y {
			t.Errorf("pair %d: %g != %g", i, x, y)
		}
	}
}

func TestEvaluateMissingInput(t *testing.T) {
	v := newFanVars(t)
	f := Fuzzified{"temp": v.temp.Fuzzify(1)}
	if _, err := Evaluate(And(Is(v.temp, "cold"), Is(v.hum, "dry")), f); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
}

func TestApplyImplicationClips(t *testing.T) {
	v := newFanVars(t)
	clipped, err := ApplyImplication(0.3, v.fan, "high")
	if err != nil {
		t.Fatalf("ApplyImplication: %v", err)
	}
	for i, mu := range clipped {
		if mu > 0.3 {
			t.Fatalf("sample %d: %g above strength", i, mu)
		}
	}
	if clipped[100] != 0.3 {
		t.Fatalf("peak sample = %g, want 0.3", clipped[100])
	}
	if _, err := ApplyImplication(0.3, v.fan, "medium"); !errors.Is(err, ErrUnknownTerm) {
		t.Fatalf("expected ErrUnknownTerm, got %v", err)
	}
}

func TestAggregateMatchesImplicationOnSamples(t *testing.T) {
	v := newFanVars(t)
	high, err := ApplyImplication(0.33, v.fan, "high")
	if err != nil {
		t.Fatalf("ApplyImplication high: %v", err)
	}
	low, err := ApplyImplication(0.71, v.fan, "low")
	if err != nil {
		t.Fatalf("ApplyImplication low: %v", err)
	}

	set := v.fan.Aggregate(map[string]float64{"high": 0.33, "low": 0.71})
	if len(set.X) <= 101 {
		t.Fatalf("expected crossing points added to the grid, got %d samples", len(set.X))
	}
	var checked int
	for i, x := range set.X {
		if x != math.Trunc(x) {
			continue
		}
		want := math.Max(high[int(x)], low[int(x)])
		if math.Abs(set.Mu[i]-want) > 1e-12 {
			t.Fatalf("x=%g: aggregate %g, implication %g", x, set.Mu[i], want)
		}
		checked++
	}
	if checked != 101 {
		t.Fatalf("checked %d universe samples, want 101", checked)
	}
}

func TestAggregationIsMaxNotSum(t *testing.T) {
	both := newFanVars(t)
	sysBoth, err := NewSystem("both", []*Variable{both.temp, both.hum}, []*Variable{both.fan}, []Rule{
		NewRule(Is(both.temp, "hot"), both.fan, "high"),
		NewRule(Is(both.hum, "wet"), both.fan, "high"),
	})
	if err != nil {
		t.Fatalf("NewSystem both: %v", err)
	}
	single := newFanVars(t)
	sysSingle, err := NewSystem("single", []*Variable{single.temp}, []*Variable{single.fan}, []Rule{
		NewRule(Is(single.temp, "hot"), single.fan, "high"),
	})
	if err != nil {
		t.Fatalf("NewSystem single: %v", err)
	}

	// hot fires at 0.6, wet at 0.4: the max is 0.6, a sum would be 1.0.
	r1, err := sysBoth.Evaluate(map[string]float64{"temp": 8, "hum": 4})
	if err != nil {
		t.Fatalf("both: %v", err)
	}
	r2, err := sysSingle.Evaluate(map[string]float64{"temp": 8})
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	if got := r1.Activations["fan"]["high"]; math.Abs(got-0.6) > 1e-12 {
		t.Fatalf("activation = %g, want 0.6", got)
	}
	if r1.Outputs["fan"] != r2.Outputs["fan"] {
		t.Fatalf("outputs differ: %g vs %g", r1.Outputs["fan"], r2.Outputs["fan"])
	}
}

func TestCentroidOfTrapezoid(t *testing.T) {
	u := MustArange(0, 101, 1)
	v := NewConsequent("out", u)
	if err := v.Trapezoidal("top", 50, 75, 100, 100); err != nil {
		t.Fatalf("define: %v", err)
	}
	got, err := Centroid(v.Aggregate(map[string]float64{"top": 1}))
	if err != nil {
		t.Fatalf("Centroid: %v", err)
	}
	if math.Abs(got-80.55555555555556) > 1e-9 {
		t.Fatalf("centroid = %.15g, want 80.5555...", got)
	}
}

func TestCentroidClippedTriangleUsesCrossings(t *testing.T) {
	u := MustArange(0, 101, 1)
	v := NewConsequent("out", u)
	if err := v.Triangular("low", 0, 0, 25); err != nil {
		t.Fatalf("define: %v", err)
	}
	set := v.Aggregate(map[string]float64{"low": 0.6})
	// the clip level meets the falling edge at 10
	found := false
	for _, x := range set.X {
		if math.Abs(x-10) < 1e-9 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the crossing point 10 in the refined grid")
	}
	got, err := Centroid(set)
	if err != nil {
		t.Fatalf("Centroid: %v", err)
	}
	if math.Abs(got-9.285714285714286) > 1e-9 {
		t.Fatalf("centroid = %.15g, want 9.2857...", got)
	}
}

func TestCentroidScalingInvariance(t *testing.T) {
	x := MustArange(0, 11, 1).Samples()
	base := []float64{0, 0, 0.2, 0.6, 1, 0.8, 0.6, 0.4, 0.2, 0, 0}
	scaled := func(k float64) FuzzySet {
		mu := make([]float64, len(base))
		for i, m := range base {
			mu[i] = m * k
		}
		return FuzzySet{X: x, Mu: mu}
	}
	want, err := Centroid(scaled(1))
	if err != nil {
		t.Fatalf("Centroid: %v", err)
	}
	for _, k := range []float64{0.5, 0.25, 0.9} {
		got, err := Centroid(scaled(k))
		if err != nil {
			t.Fatalf("Centroid(k=%g): %v", k, err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("k=%g: centroid %g, want %g", k, got, want)
		}
	}
}

func TestCentroidDegenerateSets(t *testing.T) {
	if _, err := Centroid(FuzzySet{X: []float64{0, 1, 2}, Mu: []float64{0, 0, 0}}); !errors.Is(err, ErrNoRuleFired) {
		t.Fatalf("expected ErrNoRuleFired, got %v", err)
	}
	got, err := Centroid(FuzzySet{X: []float64{3}, Mu: []float64{0.5}})
	if err != nil {
		t.Fatalf("single point: %v", err)
	}
	if got != 3 {
		t.Fatalf("single point centroid = %g, want 3", got)
	}
}

func TestComputeNoRuleFired(t *testing.T) {
	v := newFanVars(t)
	sys, err := NewSystem("cold-only", []*Variable{v.temp}, []*Variable{v.fan}, []Rule{
		NewRule(Is(v.temp, "cold"), v.fan, "low"),
	})
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	if _, err := sys.Evaluate(map[string]float64{"temp": 8}); !errors.Is(err, ErrNoRuleFired) {
		t.Fatalf("expected ErrNoRuleFired, got %v", err)
	}
}

func TestComputeMissingInput(t *testing.T) {
	v := newFanVars(t)
	sys, err := NewSystem("fan", []*Variable{v.temp, v.hum}, []*Variable{v.fan}, []Rule{
		NewRule(And(Is(v.temp, "hot"), Is(v.hum, "wet")), v.fan, "high"),
		NewRule(Is(v.temp, "cold"), v.fan, "low"),
	})
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	if _, err := sys.Evaluate(map[string]float64{"temp": 8}); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if got := sys.RequiredInputs(); len(got) != 2 || got[0] != "temp" || got[1] != "hum" {
		t.Fatalf("RequiredInputs = %v", got)
	}
}

func TestSetInputBoundsAndClamp(t *testing.T) {
	fuel := NewAntecedent("fuel", MustArange(0, 40, 1)).WithBounds(0, 40)
	if err := fuel.Trapezoidal("heavy", 20, 28, 40, 40); err != nil {
		t.Fatalf("define: %v", err)
	}
	out := NewConsequent("out", MustArange(0, 101, 1))
	if err := out.Triangular("low", 0, 0, 25); err != nil {
		t.Fatalf("define: %v", err)
	}
	sys, err := NewSystem("fuel", []*Variable{fuel}, []*Variable{out}, []Rule{
		NewRule(Is(fuel, "heavy"), out, "low"),
	})
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}

	for _, x := range []float64{-0.5, 40.01, math.NaN()} {
		err := sys.NewSimulation().SetInput("fuel", x)
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("fuel=%g: expected ErrOutOfRange, got %v", x, err)
		}
		var ie *InputError
		if !errors.As(err, &ie) || ie.Variable != "fuel" {
			t.Errorf("fuel=%g: expected *InputError for fuel, got %v", x, err)
		}
	}
	if err := sys.NewSimulation().SetInput("rain", 1); !errors.Is(err, ErrUnregisteredVariable) {
		t.Fatalf("expected ErrUnregisteredVariable, got %v", err)
	}

	res, err := sys.Evaluate(map[string]float64{"fuel": 40})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Inputs["fuel"] != 39 {
		t.Fatalf("clamped input = %g, want 39", res.Inputs["fuel"])
	}
}

func TestNewSystemValidation(t *testing.T) {
	v := newFanVars(t)
	stray := NewAntecedent("stray", MustArange(0, 11, 1))
	if err := stray.Triangular("any", 0, 5, 10); err != nil {
		t.Fatalf("define: %v", err)
	}

	cases := []struct {
		name    string
		inputs  []*Variable
		outputs []*Variable
		rules   []Rule
		want    error
	}{
		{"unregistered antecedent", []*Variable{v.temp}, []*Variable{v.fan},
			[]Rule{NewRule(Is(stray, "any"), v.fan, "low")}, ErrUnregisteredVariable},
		{"unknown antecedent term", []*Variable{v.temp}, []*Variable{v.fan},
			[]Rule{NewRule(Is(v.temp, "tepid"), v.fan, "low")}, ErrUnknownTerm},
		{"unknown consequent term", []*Variable{v.temp}, []*Variable{v.fan},
			[]Rule{NewRule(Is(v.temp, "hot"), v.fan, "max")}, ErrUnknownTerm},
		{"consequent as input", []*Variable{v.fan}, nil,
			[]Rule{NewRule(Is(v.temp, "hot"), v.fan, "high")}, ErrUnregisteredVariable},
		{"duplicate variable", []*Variable{v.temp, v.temp}, []*Variable{v.fan},
			[]Rule{NewRule(Is(v.temp, "hot"), v.fan, "high")}, ErrDuplicateVariable},
	}
	for _, c := range cases {
		if _, err := NewSystem(c.name, c.inputs, c.outputs, c.rules); !errors.Is(err, c.want) {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, err)
		}
	}
}

func TestSystemSealsVariables(t *testing.T) {
	v := newFanVars(t)
	if _, err := NewSystem("fan", []*Variable{v.temp}, []*Variable{v.fan}, []Rule{
		NewRule(Is(v.temp, "hot"), v.fan, "high"),
	}); err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	if err := v.temp.Triangular("scorching", 9, 10, 10); !errors.Is(err, ErrSealed) {
		t.Fatalf("expected ErrSealed, got %v", err)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	build := func() *System {
		v := newFanVars(t)
		sys, err := NewSystem("fan", []*Variable{v.temp, v.hum}, []*Variable{v.fan}, []Rule{
			NewRule(Or(Is(v.temp, "hot"), Is(v.hum, "wet")), v.fan, "high"),
			NewRule(And(Is(v.temp, "cold"), Is(v.hum, "dry")), v.fan, "low"),
			NewRule(Is(v.temp, "warm"), v.fan, "low"),
		})
		if err != nil {
			t.Fatalf("NewSystem: %v", err)
		}
		return sys
	}
	in := map[string]float64{"temp": 3.3, "hum": 6.1}
	a, err := build().Evaluate(in)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	b, err := build().Evaluate(in)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if a.Outputs["fan"] != b.Outputs["fan"] {
		t.Fatalf("non-deterministic: %v vs %v", a.Outputs["fan"], b.Outputs["fan"])
	}
}
