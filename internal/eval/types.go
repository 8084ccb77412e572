package eval

import "github.com/danielpatrickdp/sustainability-index/internal/pillar"

// #region eval-config
// EvalConfig holds thresholds for scorer validation.
type EvalConfig struct {
	Tolerance  float64 // allowed distance of a corner score from 0 or 100
	SweepSteps int     // points in the monotonicity sweep
}

// DefaultEvalConfig returns the defaults used by the check command.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		Tolerance:  0.05,
		SweepSteps: 11,
	}
}

// #endregion eval-config

// #region corners
// Corner is the worst or best crisp input set of one pipeline.
type Corner struct {
	Worst map[string]float64
	Best  map[string]float64
}

// Corners returns the inputs that should score 0 and 100 per pipeline.
func Corners() map[pillar.Pipeline]Corner {
	return map[pillar.Pipeline]Corner{
		pillar.Social: {
			Worst: map[string]float64{
				pillar.InYearsOfStudy: 0, pillar.InHealthPlan: 0, pillar.InProfitSharing: 0,
				pillar.InYouthRatio: 1, pillar.InTraining: 0, pillar.InJobQuality: 0,
			},
			Best: map[string]float64{
				pillar.InYearsOfStudy: 20, pillar.InHealthPlan: 1, pillar.InProfitSharing: 1,
				pillar.InYouthRatio: 0, pillar.InTraining: 20, pillar.InJobQuality: 20,
			},
		},
		pillar.Economic: {
			Worst: map[string]float64{pillar.InDebtLevel: 1.1, pillar.InFarmValue: 0, pillar.InProfit: 0, pillar.InWageIndex: 0},
			Best:  map[string]float64{pillar.InDebtLevel: 0.15, pillar.InFarmValue: 60, pillar.InProfit: 5500, pillar.InWageIndex: 7},
		},
		pillar.Environmental: {
			Worst: map[string]float64{pillar.InRunoff: -1, pillar.InConservedArea: 0, pillar.InFuelPerArea: 40},
			Best:  map[string]float64{pillar.InRunoff: 0.2, pillar.InConservedArea: 1, pillar.InFuelPerArea: 0},
		},
		pillar.Sustainability: {
			Worst: map[string]float64{pillar.InEconomicScore: 0, pillar.InSocialScore: 0, pillar.InEnvironmentScore: 0},
			Best:  map[string]float64{pillar.InEconomicScore: 100, pillar.InSocialScore: 100, pillar.InEnvironmentScore: 100},
		},
	}
}

// #endregion corners

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Pass          bool    `json:"pass"`
	Informational bool    `json:"informational,omitempty"` // never fails the run
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of a scorer validation.
type EvalResult struct {
	Passed  bool         `json:"passed"`
	Metrics []EvalMetric `json:"metrics"`
	Reason  string       `json:"reason"`
}

// #endregion eval-result
