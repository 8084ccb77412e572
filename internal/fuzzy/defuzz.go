package fuzzy

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const eps = 2.220446049250313e-16

// #region fuzzy-set
// FuzzySet is a sampled membership curve: Mu[i] is the degree at X[i].
type FuzzySet struct {
	X  []float64
	Mu []float64
}

// Aggregate clips each term at its cut level and combines the clipped terms
// with the maximum s-norm. The universe is refined with every point where a
// term crosses its cut, so the plateau edges of the clipped shapes are exact.
// Terms absent from cuts are treated as not activated. Each clipped term is
// ApplyImplication evaluated on the refined grid.
func (v *Variable) Aggregate(cuts map[string]float64) FuzzySet {
	grid := v.universe.samples
	for _, name := range v.order {
		cut, ok := cuts[name]
		if !ok {
			continue
		}
		grid = union(grid, crossings(v.universe.samples, v.terms[name].sampled, cut))
	}
	mu := make([]float64, len(grid))
	for _, name := range v.order {
		cut, ok := cuts[name]
		if !ok {
			continue
		}
		t := v.terms[name]
		for i, x := range grid {
			mu[i] = math.Max(mu[i], math.Min(cut, interp(v.universe.samples, t.sampled, x)))
		}
	}
	return FuzzySet{X: grid, Mu: mu}
}

// #endregion fuzzy-set

// #region centroid
// Centroid returns the center of area of the piecewise-linear set. Each
// segment between adjacent samples is integrated exactly as a rectangle,
// triangle or trapezoid.
func Centroid(s FuzzySet) (float64, error) {
	if len(s.X) == 0 || len(s.X) != len(s.Mu) || floats.Sum(s.Mu) == 0 {
		return 0, ErrNoRuleFired
	}
	if len(s.X) == 1 {
		return s.X[0] * s.Mu[0] / math.Max(s.Mu[0], eps), nil
	}

	moments := make([]float64, 0, len(s.X)-1)
	areas := make([]float64, 0, len(s.X)-1)
	for i := 1; i < len(s.X); i++ {
		x1, x2 := s.X[i-1], s.X[i]
		y1, y2 := s.Mu[i-1], s.Mu[i]
		if (y1 == 0 && y2 == 0) || x1 == x2 {
			continue
		}
		dx := x2 - x1
		// float64(...) rounds each product so it is never fused into an FMA.
		var moment, area float64
		switch {
		case y1 == y2:
			moment = 0.5 * (x1 + x2)
			area = dx * y1
		case y1 == 0:
			moment = float64(2.0/3.0*dx) + x1
			area = 0.5 * dx * y2
		case y2 == 0:
			moment = float64(1.0/3.0*dx) + x1
			area = 0.5 * dx * y1
		default:
			moment = float64(float64(2.0/3.0*dx)*(y2+float64(0.5*y1)))/(y1+y2) + x1
			area = 0.5 * dx * (y1 + y2)
		}
		moments = append(moments, moment)
		areas = append(areas, area)
	}
	if len(areas) == 0 {
		return 0, ErrNoRuleFired
	}
	return floats.Dot(moments, areas) / math.Max(floats.Sum(areas), eps), nil
}

// #endregion centroid
