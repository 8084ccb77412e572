package fuzzy

import (
	"fmt"
	"math"
	"sort"
)

const maxUniverseSamples = 1 << 20

// #region universe
// Universe is the ordered, discretized domain of a linguistic variable.
type Universe struct {
	samples []float64
}

// Arange builds the half-open universe [start, stop) at the given step.
// Samples are generated as start + i*delta, where delta is the distance
// between the first two samples, so that float universes such as
// Arange(-1, 1.1, 0.1) land on the same points as numpy.arange.
func Arange(start, stop, step float64) (Universe, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return Universe{}, fmt.Errorf("step %g: %w", step, ErrInvalidUniverse)
	}
	span := math.Ceil((stop - start) / step)
	if !(span >= 1) || span > maxUniverseSamples {
		return Universe{}, fmt.Errorf("[%g, %g) step %g yields %g samples: %w", start, stop, step, span, ErrInvalidUniverse)
	}
	n := int(span)
	samples := make([]float64, n)
	samples[0] = start
	if n > 1 {
		samples[1] = start + step
		delta := samples[1] - samples[0]
		// Explicit conversion rounds the product and blocks FMA fusion.
		for i := 2; i < n; i++ {
			samples[i] = start + float64(float64(i)*delta)
		}
	}
	return Universe{samples: samples}, nil
}

// MustArange is Arange for static tables; it panics on a malformed range.
func MustArange(start, stop, step float64) Universe {
	u, err := Arange(start, stop, step)
	if err != nil {
		panic(err)
	}
	return u
}

// Samples returns a copy of the universe points.
func (u Universe) Samples() []float64 {
	out := make([]float64, len(u.samples))
	copy(out, u.samples)
	return out
}

// Len returns the number of samples.
func (u Universe) Len() int { return len(u.samples) }

// Min returns the first sample.
func (u Universe) Min() float64 { return u.samples[0] }

// Max returns the last sample.
func (u Universe) Max() float64 { return u.samples[len(u.samples)-1] }

// Clamp pulls x onto the sampled range.
func (u Universe) Clamp(x float64) float64 {
	return math.Min(math.Max(x, u.Min()), u.Max())
}

// #endregion universe

// #region interpolation
// interp linearly interpolates fp (sampled on xp) at x. Points outside
// [xp[0], xp[n-1]] have zero membership.
func interp(xp, fp []float64, x float64) float64 {
	n := len(xp)
	if n == 0 || x < xp[0] || x > xp[n-1] {
		return 0
	}
	if x == xp[n-1] {
		return fp[n-1]
	}
	j := sort.Search(n, func(i int) bool { return xp[i] > x }) - 1
	if xp[j] == x {
		return fp[j]
	}
	slope := (fp[j+1] - fp[j]) / (xp[j+1] - xp[j])
	return float64(slope*(x-xp[j])) + fp[j]
}

// crossings returns the universe positions where the piecewise-linear mf
// crosses level y. A zero level only reports the grid points bordering the
// support, which are already part of the universe.
func crossings(xp, mf []float64, y float64) []float64 {
	var out []float64
	if y == 0 {
		for i := 0; i+1 < len(mf); i++ {
			if (mf[i] > y) != (mf[i+1] > y) {
				out = append(out, xp[i])
			}
		}
		return out
	}
	for i := 0; i+1 < len(mf); i++ {
		if (mf[i] >= y) != (mf[i+1] >= y) {
			dx := xp[i+1] - xp[i]
			out = append(out, xp[i]+float64(float64((y-mf[i])*dx)/(mf[i+1]-mf[i])))
		}
	}
	return out
}

// union merges two point sets into one sorted, duplicate-free grid.
func union(a, b []float64) []float64 {
	all := make([]float64, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	sort.Float64s(all)
	out := all[:0]
	for i, x := range all {
		if i == 0 || x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// #endregion interpolation
