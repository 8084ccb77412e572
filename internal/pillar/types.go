package pillar

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when a sustainability input is not a 0-100 score.
var ErrInvalidInput = errors.New("invalid pillar score")

// #region pipeline
// Pipeline names one of the four scoring pipelines.
type Pipeline string

const (
	Social         Pipeline = "social"
	Economic       Pipeline = "economic"
	Environmental  Pipeline = "environmental"
	Sustainability Pipeline = "sustainability"
)

// Pipelines lists every pipeline in evaluation order.
func Pipelines() []Pipeline {
	return []Pipeline{Social, Economic, Environmental, Sustainability}
}

// ParsePipeline validates a pipeline name.
func ParsePipeline(s string) (Pipeline, error) {
	for _, p := range Pipelines() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown pipeline %q", s)
}

// #endregion pipeline

// #region calibration
// Calibration maps a raw centroid onto the 0-100 reporting scale. MinRaw
// and MaxRaw are the centroids of the worst and best possible inputs.
type Calibration struct {
	MinRaw float64 `toml:"min_raw" json:"min_raw" yaml:"min_raw"`
	MaxRaw float64 `toml:"max_raw" json:"max_raw" yaml:"max_raw"`
}

// Rescale applies (raw - MinRaw) * 100 / (MaxRaw - MinRaw). The result is
// not clamped.
func (c Calibration) Rescale(raw float64) float64 {
	return (raw - c.MinRaw) * 100 / (c.MaxRaw - c.MinRaw)
}

// Validate rejects a degenerate calibration.
func (c Calibration) Validate() error {
	if math.IsNaN(c.MinRaw) || math.IsNaN(c.MaxRaw) || c.MaxRaw <= c.MinRaw {
		return fmt.Errorf("calibration [%g, %g]: max_raw must exceed min_raw", c.MinRaw, c.MaxRaw)
	}
	return nil
}

// DefaultCalibration returns the constants each pipeline was calibrated with.
func DefaultCalibration(p Pipeline) Calibration {
	switch p {
	case Economic:
		return Calibration{MinRaw: 8.333333333333332, MaxRaw: 80.55555555555556}
	case Sustainability:
		return Calibration{MinRaw: 8.33, MaxRaw: 80.56}
	default:
		return Calibration{MinRaw: 20.83066751972702, MaxRaw: 80.55555555555556}
	}
}

// #endregion calibration

// #region scorer-config
// ScorerConfig holds calibration and behavior switches for a Scorer.
type ScorerConfig struct {
	Social         Calibration
	Economic       Calibration
	Environmental  Calibration
	Sustainability Calibration
	Veto           VetoConfig
	// RouteConservationToEnvironmental sends the conserved-area rules to the
	// environmental index instead of the secondary economic consequent.
	RouteConservationToEnvironmental bool
}

// DefaultScorerConfig returns the calibrated defaults with the veto enabled.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		Social:         DefaultCalibration(Social),
		Economic:       DefaultCalibration(Economic),
		Environmental:  DefaultCalibration(Environmental),
		Sustainability: DefaultCalibration(Sustainability),
		Veto:           DefaultVetoConfig(),
	}
}

// Calibration returns the calibration for one pipeline.
func (c ScorerConfig) Calibration(p Pipeline) Calibration {
	switch p {
	case Social:
		return c.Social
	case Economic:
		return c.Economic
	case Environmental:
		return c.Environmental
	default:
		return c.Sustainability
	}
}

// Validate checks every calibration and the veto threshold.
func (c ScorerConfig) Validate() error {
	for _, p := range Pipelines() {
		if err := c.Calibration(p).Validate(); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return c.Veto.Validate()
}

// #endregion scorer-config

// #region score
// Score is the outcome of one pipeline evaluation.
type Score struct {
	Pipeline Pipeline           `json:"pipeline"`
	Inputs   map[string]float64 `json:"inputs"`  // as supplied by the caller
	Applied  map[string]float64 `json:"applied"` // after clamping onto each universe
	Raw      float64            `json:"raw"`     // centroid on the 0-100 output universe
	Value    float64            `json:"value"`   // calibrated score
	Band     string             `json:"band"`
	Veto     *VetoSignal        `json:"veto,omitempty"` // set when the veto replaced the aggregate
}

// #endregion score
