package eval

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
)

// #region eval-harness
// EvalHarness validates that a scorer's calibration fits its rule base.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	if config.SweepSteps < 2 {
		config.SweepSteps = 2
	}
	return &EvalHarness{config: config}
}

// Run scores every pipeline's worst and best corner and expects them near
// 0 and 100. A sweep of each sustainability input with the others held at
// 50 reports whether the index is monotone; that check is informational.
func (h *EvalHarness) Run(scorer *pillar.Scorer) EvalResult {
	var metrics []EvalMetric
	var failReasons []string

	corners := Corners()
	for _, p := range pillar.Pipelines() {
		c := corners[p]
		for _, end := range []struct {
			name   string
			inputs map[string]float64
			want   float64
		}{
			{"floor", c.Worst, 0},
			{"ceiling", c.Best, 100},
		} {
			name := fmt.Sprintf("%s_%s", p, end.name)
			score, err := scorer.Score(p, end.inputs)
			if err != nil {
				metrics = append(metrics, EvalMetric{Name: name})
				failReasons = append(failReasons, fmt.Sprintf("%s: %v", name, err))
				continue
			}
			pass := math.Abs(score.Value-end.want) <= h.config.Tolerance
			metrics = append(metrics, EvalMetric{Name: name, Value: score.Value, Pass: pass})
			if !pass {
				failReasons = append(failReasons, fmt.Sprintf("%s %.4f is more than %g from %g", name, score.Value, h.config.Tolerance, end.want))
			}
		}
	}

	for _, in := range []string{pillar.InEconomicScore, pillar.InSocialScore, pillar.InEnvironmentScore} {
		drop, err := h.largestDrop(scorer, in)
		name := fmt.Sprintf("sustainability_monotone_%s", in)
		if err != nil {
			metrics = append(metrics, EvalMetric{Name: name, Informational: true})
			continue
		}
		metrics = append(metrics, EvalMetric{Name: name, Value: drop, Pass: drop == 0, Informational: true})
	}

	reason := "all checks passed"
	if len(failReasons) > 0 {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}
	return EvalResult{
		Passed:  len(failReasons) == 0,
		Metrics: metrics,
		Reason:  reason,
	}
}

// largestDrop sweeps one sustainability input from 0 to 100 and returns the
// largest decrease between neighbouring points.
func (h *EvalHarness) largestDrop(scorer *pillar.Scorer, input string) (float64, error) {
	inputs := map[string]float64{
		pillar.InEconomicScore:    50,
		pillar.InSocialScore:      50,
		pillar.InEnvironmentScore: 50,
	}
	var drop float64
	prev := math.Inf(-1)
	for i := 0; i < h.config.SweepSteps; i++ {
		inputs[input] = 100 * float64(i) / float64(h.config.SweepSteps-1)
		score, err := scorer.Score(pillar.Sustainability, inputs)
		if err != nil {
			return 0, err
		}
		drop = math.Max(drop, prev-score.Value)
		prev = score.Value
	}
	return drop, nil
}

// #endregion eval-harness

// #region calibrate
// Calibrate returns the raw centroids of a pipeline's worst and best corners,
// the constants that map them onto 0 and 100.
func Calibrate(scorer *pillar.Scorer, p pillar.Pipeline) (pillar.Calibration, error) {
	c, ok := Corners()[p]
	if !ok {
		return pillar.Calibration{}, fmt.Errorf("calibrate: unknown pipeline %q", p)
	}
	worst, err := scorer.Score(p, c.Worst)
	if err != nil {
		return pillar.Calibration{}, fmt.Errorf("calibrate %s floor: %w", p, err)
	}
	best, err := scorer.Score(p, c.Best)
	if err != nil {
		return pillar.Calibration{}, fmt.Errorf("calibrate %s ceiling: %w", p, err)
	}
	return pillar.Calibration{MinRaw: worst.Raw, MaxRaw: best.Raw}, nil
}

// #endregion calibrate
