package pillar

import (
	"fmt"

	"github.com/danielpatrickdp/sustainability-index/internal/fuzzy"
	"github.com/danielpatrickdp/sustainability-index/internal/membership"
)

// Term names shared by the output partitions.
const (
	MuitoBaixo = "muito_baixo"
	Baixo      = "baixo"
	Medio      = "medio"
	Alto       = "alto"
	MuitoAlto  = "muito_alto"
)

// #region term-spec
type termSpec struct {
	name   string
	kind   membership.Kind
	params []float64
}

func tri(name string, a, b, c float64) termSpec {
	return termSpec{name: name, kind: membership.KindTriangular, params: []float64{a, b, c}}
}

func trap(name string, a, b, c, d float64) termSpec {
	return termSpec{name: name, kind: membership.KindTrapezoidal, params: []float64{a, b, c, d}}
}

func define(v *fuzzy.Variable, specs ...termSpec) error {
	for _, s := range specs {
		fn, err := membership.New(s.kind, s.params)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", v.Name(), s.name, err)
		}
		if err := v.DefineTerm(s.name, fn); err != nil {
			return err
		}
	}
	return nil
}

// outputTerms is the partition every index uses.
var outputTerms = []termSpec{
	tri(MuitoBaixo, 0, 0, 25),
	tri(Baixo, 0, 25, 50),
	tri(Medio, 25, 50, 75),
	trap(Alto, 50, 75, 100, 100),
}

func newIndex(name string) (*fuzzy.Variable, error) {
	v := fuzzy.NewConsequent(name, fuzzy.MustArange(0, 101, 1))
	if err := define(v, outputTerms...); err != nil {
		return nil, err
	}
	return v, nil
}

func newScoreInput(name string) (*fuzzy.Variable, error) {
	v := fuzzy.NewAntecedent(name, fuzzy.MustArange(0, 101, 1)).WithBounds(0, 100)
	if err := define(v, outputTerms...); err != nil {
		return nil, err
	}
	return v, nil
}

// #endregion term-spec

// Input names accepted by each pipeline.
const (
	InYearsOfStudy     = "years_of_study"
	InHealthPlan       = "health_plan"
	InProfitSharing    = "profit_sharing"
	InYouthRatio       = "ja"
	InTraining         = "tc"
	InJobQuality       = "jq"
	InDebtLevel        = "dl"
	InFarmValue        = "fv"
	InProfit           = "p"
	InWageIndex        = "wi"
	InRunoff           = "runoff"
	InConservedArea    = "fo"
	InFuelPerArea      = "fuel_per_area"
	InEconomicScore    = "economic"
	InSocialScore      = "social"
	InEnvironmentScore = "environmental"
)

// Output variable names.
const (
	OutSocial         = "indice_social"
	OutEconomic       = "indice_economico"
	OutEnvironmental  = "indice_ambiental"
	OutSustainability = "sustentabilidade"
)

// socialTopTerm is the top term of the social antecedents. It is spelled
// with a space, unlike MuitoAlto.
const socialTopTerm = "Muito alto"

// #region social
func buildSocial() (*fuzzy.System, error) {
	years := fuzzy.NewAntecedent(InYearsOfStudy, fuzzy.MustArange(0, 21, 1))
	health := fuzzy.NewAntecedent(InHealthPlan, fuzzy.MustArange(0, 1.1, 0.1))
	sharing := fuzzy.NewAntecedent(InProfitSharing, fuzzy.MustArange(0, 1.1, 0.1))
	ja := fuzzy.NewAntecedent(InYouthRatio, fuzzy.MustArange(0, 1.1, 0.1))
	tc := fuzzy.NewAntecedent(InTraining, fuzzy.MustArange(0, 21, 1))
	jq := fuzzy.NewAntecedent(InJobQuality, fuzzy.MustArange(0, 21, 1))
	out, err := newIndex(OutSocial)
	if err != nil {
		return nil, err
	}

	yesNo := []termSpec{tri("nao", 0, 0, 0.5), tri("sim", 0.5, 1, 1)}
	fiveLevel := []termSpec{
		tri(MuitoBaixo, 0, 0, 4),
		tri(Baixo, 2, 5, 8),
		tri(Medio, 8, 10, 12),
		tri(Alto, 10, 12, 14),
		trap(socialTopTerm, 12, 16, 20, 20),
	}
	steps := []struct {
		v     *fuzzy.Variable
		specs []termSpec
	}{
		{years, []termSpec{
			tri(MuitoBaixo, 0, 0, 5),
			tri(Baixo, 3, 5, 8),
			tri(Medio, 6, 9, 13),
			tri(Alto, 10, 13, 16),
			trap(socialTopTerm, 13, 16, 20, 20),
		}},
		{health, yesNo},
		{sharing, yesNo},
		{ja, []termSpec{
			tri(MuitoBaixo, 0, 0, 0.2),
			tri(Baixo, 0.1, 0.25, 0.4),
			tri(Medio, 0.3, 0.45, 0.6),
			tri(Alto, 0.5, 0.65, 0.8),
			trap(socialTopTerm, 0.7, 0.85, 1, 1),
		}},
		{tc, fiveLevel},
		{jq, fiveLevel},
	}
	for _, s := range steps {
		if err := define(s.v, s.specs...); err != nil {
			return nil, err
		}
	}

	is := fuzzy.Is
	rules := []fuzzy.Rule{
		// an aging family workforce lowers the index
		fuzzy.NewRule(is(ja, socialTopTerm), out, MuitoBaixo),
		fuzzy.NewRule(is(ja, Alto), out, Baixo),
		fuzzy.NewRule(is(ja, Medio), out, Medio),
		fuzzy.NewRule(is(ja, Baixo), out, Alto),
		fuzzy.NewRule(is(ja, MuitoBaixo), out, Alto),

		fuzzy.NewRule(is(years, Alto), out, Alto),
		fuzzy.NewRule(is(years, Medio), out, Medio),
		fuzzy.NewRule(is(years, Baixo), out, Baixo),
		fuzzy.NewRule(is(years, MuitoBaixo), out, MuitoBaixo),
		fuzzy.NewRule(is(years, socialTopTerm), out, Alto),

		fuzzy.NewRule(is(sharing, "sim"), out, Alto),
		fuzzy.NewRule(is(sharing, "nao"), out, Baixo),

		fuzzy.NewRule(fuzzy.Or(is(jq, Alto), is(jq, socialTopTerm)), out, Alto),
		fuzzy.NewRule(is(jq, Medio), out, Medio),
		fuzzy.NewRule(fuzzy.Or(is(jq, Baixo), is(jq, MuitoBaixo)), out, Baixo),

		fuzzy.NewRule(is(tc, Medio), out, Medio),
		fuzzy.NewRule(fuzzy.Or(is(tc, Alto), is(tc, socialTopTerm)), out, Alto),
		fuzzy.NewRule(fuzzy.Or(is(tc, Baixo), is(tc, MuitoBaixo)), out, Baixo),

		fuzzy.NewRule(is(health, "sim"), out, Alto),
		fuzzy.NewRule(is(health, "nao"), out, Baixo),
	}
	return fuzzy.NewSystem(string(Social),
		[]*fuzzy.Variable{years, health, sharing, ja, tc, jq},
		[]*fuzzy.Variable{out}, rules)
}

// #endregion social

// #region economic
func buildEconomic() (*fuzzy.System, error) {
	fv := fuzzy.NewAntecedent(InFarmValue, fuzzy.MustArange(0, 120, 1)).WithBounds(0, 120)
	wi := fuzzy.NewAntecedent(InWageIndex, fuzzy.MustArange(0, 11, 0.5)).WithBounds(0, 11)
	p := fuzzy.NewAntecedent(InProfit, fuzzy.MustArange(0, 7000, 100)).WithBounds(0, 7000)
	dl := fuzzy.NewAntecedent(InDebtLevel, fuzzy.MustArange(0, 1.1, 0.1)).WithBounds(0, 1.1)
	out, err := newIndex(OutEconomic)
	if err != nil {
		return nil, err
	}

	steps := []struct {
		v     *fuzzy.Variable
		specs []termSpec
	}{
		{fv, []termSpec{
			tri(MuitoBaixo, 0, 1, 2),
			tri(Baixo, 1, 3, 10),
			tri(Medio, 8, 20, 40),
			tri(Alto, 30, 60, 90),
			trap(MuitoAlto, 80, 100, 120, 120),
		}},
		{wi, []termSpec{
			tri(MuitoBaixo, 0, 1, 2),
			tri(Baixo, 1, 2, 4),
			tri(Medio, 3, 4, 6),
			tri(Alto, 5, 7, 9),
			trap(MuitoAlto, 8, 9, 11, 11),
		}},
		{p, []termSpec{
			tri(MuitoBaixo, 0, 100, 1000),
			tri(Baixo, 500, 1500, 2500),
			tri(Medio, 2000, 3500, 5000),
			tri(Alto, 4500, 5500, 6500),
			trap(MuitoAlto, 6000, 6700, 7000, 7000),
		}},
		{dl, []termSpec{
			tri(MuitoBaixo, 0, 0, 0.1),
			tri(Baixo, 0.05, 0.15, 0.3),
			tri(Medio, 0.2, 0.35, 0.5),
			tri(Alto, 0.4, 0.6, 0.8),
			trap(MuitoAlto, 0.7, 0.85, 1, 1),
		}},
	}
	for _, s := range steps {
		if err := define(s.v, s.specs...); err != nil {
			return nil, err
		}
	}

	is := fuzzy.Is
	rules := []fuzzy.Rule{
		// debt works against the index
		fuzzy.NewRule(is(dl, MuitoAlto), out, MuitoBaixo),
		fuzzy.NewRule(is(dl, Alto), out, Baixo),
		fuzzy.NewRule(is(dl, Medio), out, Medio),
		fuzzy.NewRule(is(dl, Baixo), out, Alto),
		fuzzy.NewRule(is(dl, MuitoBaixo), out, Alto),
	}
	for _, v := range []*fuzzy.Variable{wi, p, fv} {
		rules = append(rules,
			fuzzy.NewRule(is(v, MuitoAlto), out, Alto),
			fuzzy.NewRule(is(v, Alto), out, Alto),
			fuzzy.NewRule(is(v, Medio), out, Medio),
			fuzzy.NewRule(is(v, Baixo), out, Baixo),
			fuzzy.NewRule(is(v, MuitoBaixo), out, MuitoBaixo),
		)
	}
	return fuzzy.NewSystem(string(Economic),
		[]*fuzzy.Variable{fv, wi, p, dl},
		[]*fuzzy.Variable{out}, rules)
}

// #endregion economic

// #region environmental
// buildEnvironmental wires the conserved-area rules into a secondary
// economic consequent unless routeConservation is set. The default leaves
// conserved area out of the environmental index, which is how its
// calibration constants were derived.
func buildEnvironmental(routeConservation bool) (*fuzzy.System, error) {
	fo := fuzzy.NewAntecedent(InConservedArea, fuzzy.MustArange(0, 1.1, 0.1)).WithBounds(0, 1.1)
	runoff := fuzzy.NewAntecedent(InRunoff, fuzzy.MustArange(-1, 1.1, 0.1)).WithBounds(-1, 1.1)
	fuel := fuzzy.NewAntecedent(InFuelPerArea, fuzzy.MustArange(0, 40, 1)).WithBounds(0, 40)
	out, err := newIndex(OutEnvironmental)
	if err != nil {
		return nil, err
	}
	outputs := []*fuzzy.Variable{out}
	foTarget := out
	if !routeConservation {
		secondary, err := newIndex(OutEconomic)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, secondary)
		foTarget = secondary
	}

	steps := []struct {
		v     *fuzzy.Variable
		specs []termSpec
	}{
		{runoff, []termSpec{
			tri(MuitoAlto, -1, -1, -0.2),
			tri(Alto, -0.3, -0.1, 0.1),
			tri(Medio, 0, 0.2, 0.4),
			tri(Baixo, 0.3, 0.5, 0.7),
			trap(MuitoBaixo, 0.6, 0.8, 1, 1),
		}},
		{fuel, []termSpec{
			tri(MuitoBaixo, 0, 0, 3),
			tri(Baixo, 1, 4, 8),
			tri(Medio, 6, 10, 15),
			tri(Alto, 12, 18, 25),
			trap(MuitoAlto, 20, 28, 40, 40),
		}},
		{fo, []termSpec{
			tri(MuitoBaixo, 0, 0, 0.1),
			tri(Baixo, 0.05, 0.15, 0.3),
			tri(Medio, 0.2, 0.35, 0.5),
			tri(Alto, 0.4, 0.6, 0.8),
			trap(MuitoAlto, 0.7, 0.85, 1, 1),
		}},
	}
	for _, s := range steps {
		if err := define(s.v, s.specs...); err != nil {
			return nil, err
		}
	}

	is := fuzzy.Is
	rules := []fuzzy.Rule{
		// runoff near balance is best, either extreme is poor
		fuzzy.NewRule(is(runoff, Medio), out, Alto),
		fuzzy.NewRule(fuzzy.Or(is(runoff, Baixo), is(runoff, Alto)), out, Medio),
		fuzzy.NewRule(fuzzy.Or(is(runoff, MuitoBaixo), is(runoff, MuitoAlto)), out, Baixo),

		fuzzy.NewRule(is(fo, Baixo), foTarget, Baixo),
		fuzzy.NewRule(is(fo, MuitoBaixo), foTarget, MuitoBaixo),
		fuzzy.NewRule(is(fo, Alto), foTarget, Alto),
		fuzzy.NewRule(is(fo, MuitoAlto), foTarget, Alto),
		fuzzy.NewRule(is(fo, Medio), foTarget, Medio),

		fuzzy.NewRule(is(fuel, MuitoBaixo), out, Alto),
		fuzzy.NewRule(is(fuel, Baixo), out, Alto),
		fuzzy.NewRule(is(fuel, Medio), out, Medio),
		fuzzy.NewRule(is(fuel, Alto), out, Baixo),
		fuzzy.NewRule(is(fuel, MuitoAlto), out, MuitoBaixo),
	}
	return fuzzy.NewSystem(string(Environmental),
		[]*fuzzy.Variable{fo, runoff, fuel},
		outputs, rules)
}

// #endregion environmental

// #region sustainability
// veryLowRule is the index of the any-pillar-very-low rule.
const veryLowRule = 0

func buildSustainability() (*fuzzy.System, error) {
	var vars [3]*fuzzy.Variable
	for i, name := range []string{InEconomicScore, InSocialScore, InEnvironmentScore} {
		v, err := newScoreInput(name)
		if err != nil {
			return nil, err
		}
		vars[i] = v
	}
	ec, so, am := vars[0], vars[1], vars[2]
	out, err := newIndex(OutSustainability)
	if err != nil {
		return nil, err
	}

	is := fuzzy.Is
	anyOf := func(term string) fuzzy.Expr {
		return fuzzy.Or(is(ec, term), is(so, term), is(am, term))
	}
	atLeastTwo := func(term string) fuzzy.Expr {
		return fuzzy.Or(
			fuzzy.And(is(ec, term), is(so, term)),
			fuzzy.And(is(ec, term), is(am, term)),
			fuzzy.And(is(so, term), is(am, term)),
		)
	}
	rules := []fuzzy.Rule{
		veryLowRule: fuzzy.NewRule(anyOf(MuitoBaixo), out, MuitoBaixo),
		1:           fuzzy.NewRule(anyOf(Baixo), out, Baixo),
		2:           fuzzy.NewRule(atLeastTwo(Medio), out, Medio),
		3:           fuzzy.NewRule(atLeastTwo(Alto), out, Alto),
	}
	return fuzzy.NewSystem(string(Sustainability),
		[]*fuzzy.Variable{ec, so, am},
		[]*fuzzy.Variable{out}, rules)
}

// #endregion sustainability
