package pillar

import (
	"math"

	"github.com/danielpatrickdp/sustainability-index/internal/membership"
)

var bandPartition = func() []membership.Func {
	fns := make([]membership.Func, len(outputTerms))
	for i, s := range outputTerms {
		fn, err := membership.New(s.kind, s.params)
		if err != nil {
			panic(err)
		}
		fns[i] = fn
	}
	return fns
}()

// Band names the output term a 0-100 score belongs to most. Ties resolve to
// the lower band; scores outside [0, 100] are classified at the nearest end.
func Band(score float64) string {
	if math.IsNaN(score) {
		return ""
	}
	x := math.Min(math.Max(score, 0), 100)
	best, degree := outputTerms[0].name, -1.0
	for i, fn := range bandPartition {
		if d := fn.Eval(x); d > degree {
			best, degree = outputTerms[i].name, d
		}
	}
	return best
}
