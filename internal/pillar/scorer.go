package pillar

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/danielpatrickdp/sustainability-index/internal/fuzzy"
)

// #region scorer
// Scorer owns the four compiled pipelines. It is immutable after NewScorer
// and safe for concurrent use.
type Scorer struct {
	config  ScorerConfig
	systems map[Pipeline]*fuzzy.System
	outputs map[Pipeline]string
	veto    *Veto
	logger  *slog.Logger
}

// NewScorer compiles every pipeline. A nil logger discards output.
func NewScorer(config ScorerConfig, logger *slog.Logger) (*Scorer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("scorer config: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Scorer{
		config:  config,
		systems: make(map[Pipeline]*fuzzy.System, 4),
		outputs: map[Pipeline]string{
			Social:         OutSocial,
			Economic:       OutEconomic,
			Environmental:  OutEnvironmental,
			Sustainability: OutSustainability,
		},
		veto:   NewVeto(config.Veto),
		logger: logger,
	}
	builders := map[Pipeline]func() (*fuzzy.System, error){
		Social:   buildSocial,
		Economic: buildEconomic,
		Environmental: func() (*fuzzy.System, error) {
			return buildEnvironmental(config.RouteConservationToEnvironmental)
		},
		Sustainability: buildSustainability,
	}
	for _, p := range Pipelines() {
		sys, err := builders[p]()
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", p, err)
		}
		s.systems[p] = sys
	}
	return s, nil
}

// Config returns the configuration the scorer was built with.
func (s *Scorer) Config() ScorerConfig { return s.config }

// System exposes a compiled pipeline for inspection.
func (s *Scorer) System(p Pipeline) (*fuzzy.System, error) {
	sys, ok := s.systems[p]
	if !ok {
		return nil, fmt.Errorf("unknown pipeline %q", p)
	}
	return sys, nil
}

// #endregion scorer

// #region score
// Score evaluates one pipeline on named inputs.
func (s *Scorer) Score(p Pipeline, inputs map[string]float64) (Score, error) {
	sys, err := s.System(p)
	if err != nil {
		return Score{}, err
	}
	if p == Sustainability {
		for name, x := range inputs {
			if math.IsNaN(x) || x < 0 || x > 100 {
				return Score{}, fmt.Errorf("%s=%g: %w", name, x, ErrInvalidInput)
			}
		}
	}

	res, err := sys.Evaluate(inputs)
	if err != nil {
		s.logger.Debug("score failed", "pipeline", p, "err", err)
		return Score{}, fmt.Errorf("score %s: %w", p, err)
	}
	raw, err := res.Output(s.outputs[p])
	if err != nil {
		return Score{}, fmt.Errorf("score %s: %w", p, err)
	}

	var veto *VetoSignal
	if p == Sustainability {
		out, _ := sys.Output(OutSustainability)
		signal, vetoRaw, err := s.veto.Evaluate(res, out)
		if err != nil {
			return Score{}, fmt.Errorf("score %s: %w", p, err)
		}
		if signal != nil {
			s.logger.Info("sustainability vetoed",
				"pillar", signal.Pillar, "strength", signal.Strength, "soft_raw", raw, "veto_raw", vetoRaw)
			veto, raw = signal, vetoRaw
		}
	}

	supplied := make(map[string]float64, len(res.Inputs))
	for name := range res.Inputs {
		supplied[name] = inputs[name]
	}
	value := s.config.Calibration(p).Rescale(raw)
	score := Score{
		Pipeline: p,
		Inputs:   supplied,
		Applied:  res.Inputs,
		Raw:      raw,
		Value:    value,
		Band:     Band(value),
		Veto:     veto,
	}
	s.logger.Debug("scored", "pipeline", p, "raw", raw, "value", value, "band", score.Band)
	return score, nil
}

// ScoreSocial scores years of study, health plan and profit sharing (0 or 1),
// the youth ratio JA, the training score TC and job quality JQ.
func (s *Scorer) ScoreSocial(years, healthPlan, profitSharing, ja, tc, jq float64) (Score, error) {
	return s.Score(Social, map[string]float64{
		InYearsOfStudy:  years,
		InHealthPlan:    healthPlan,
		InProfitSharing: profitSharing,
		InYouthRatio:    ja,
		InTraining:      tc,
		InJobQuality:    jq,
	})
}

// ScoreEconomic scores debt level DL, farm value growth FV, profit per area P
// and the wage index WI.
func (s *Scorer) ScoreEconomic(dl, fv, p, wi float64) (Score, error) {
	return s.Score(Economic, map[string]float64{
		InDebtLevel: dl,
		InFarmValue: fv,
		InProfit:    p,
		InWageIndex: wi,
	})
}

// ScoreEnvironmental scores water runoff, the conserved-area ratio FO and
// yearly fuel per area.
func (s *Scorer) ScoreEnvironmental(runoff, conservedArea, fuelPerArea float64) (Score, error) {
	return s.Score(Environmental, map[string]float64{
		InRunoff:        runoff,
		InConservedArea: conservedArea,
		InFuelPerArea:   fuelPerArea,
	})
}

// ScoreSustainability aggregates three 0-100 pillar scores.
func (s *Scorer) ScoreSustainability(economic, social, environmental float64) (Score, error) {
	return s.Score(Sustainability, map[string]float64{
		InEconomicScore:    economic,
		InSocialScore:      social,
		InEnvironmentScore: environmental,
	})
}

// #endregion score
