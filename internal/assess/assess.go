package assess

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/sustainability-index/internal/indicators"
	"github.com/danielpatrickdp/sustainability-index/internal/logging"
	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
	"github.com/danielpatrickdp/sustainability-index/internal/reference"
	"github.com/danielpatrickdp/sustainability-index/internal/store"
)

// ErrNoStore is returned by AssessAndSave on an assessor built without a store.
var ErrNoStore = errors.New("assessor has no store")

// StageIndicators names the derivation step in a StageError.
const StageIndicators = "indicators"

// #region types
// Assessment is one farm run through every pipeline.
type Assessment struct {
	ID             string                `json:"id,omitempty"` // set once persisted
	RunID          string                `json:"run_id"`
	FarmID         string                `json:"farm_id"`
	Region         string                `json:"region"`
	Indicators     indicators.Indicators `json:"indicators"`
	Social         pillar.Score          `json:"social"`
	Economic       pillar.Score          `json:"economic"`
	Environmental  pillar.Score          `json:"environmental"`
	Sustainability pillar.Score          `json:"sustainability"`
	CreatedAt      time.Time             `json:"created_at"`
}

// StageError reports which step of an assessment failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("assess %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// #endregion types

// #region assessor
// Assessor turns farm profiles into assessments. The store is optional;
// without it only Assess is usable.
type Assessor struct {
	scorer *pillar.Scorer
	table  reference.Table
	store  *store.Store
	logger *slog.Logger
}

// NewAssessor wires a scorer, a region table and an optional store.
func NewAssessor(scorer *pillar.Scorer, table reference.Table, st *store.Store, logger *slog.Logger) *Assessor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Assessor{scorer: scorer, table: table, store: st, logger: logger}
}

// Scorer returns the underlying scorer.
func (a *Assessor) Scorer() *pillar.Scorer { return a.scorer }

// #endregion assessor

// #region assess
// Assess derives indicators and scores the three pillars and the aggregate.
// Any failure aborts with a *StageError.
func (a *Assessor) Assess(p indicators.FarmProfile) (Assessment, error) {
	out := Assessment{
		RunID:     uuid.New().String(),
		FarmID:    p.FarmID,
		Region:    p.Region,
		CreatedAt: time.Now().UTC(),
	}
	log := a.logger.With("run_id", out.RunID, "farm_id", p.FarmID)

	ind, err := indicators.Derive(p, a.table)
	if err != nil {
		return out, &StageError{Stage: StageIndicators, Err: err}
	}
	out.Indicators = ind
	if len(ind.Clamped) > 0 {
		log.Warn("indicators clamped", "names", ind.Clamped)
	}

	pillars := []struct {
		pipeline pillar.Pipeline
		inputs   map[string]float64
		dst      *pillar.Score
	}{
		{pillar.Social, ind.SocialInputs(), &out.Social},
		{pillar.Economic, ind.EconomicInputs(), &out.Economic},
		{pillar.Environmental, ind.EnvironmentalInputs(), &out.Environmental},
	}
	for _, pl := range pillars {
		score, err := a.scorer.Score(pl.pipeline, pl.inputs)
		if err != nil {
			return out, &StageError{Stage: string(pl.pipeline), Err: err}
		}
		*pl.dst = score
	}

	// Rescaled pillars can land slightly outside 0-100.
	sust, err := a.scorer.ScoreSustainability(
		clampScore(out.Economic.Value),
		clampScore(out.Social.Value),
		clampScore(out.Environmental.Value),
	)
	if err != nil {
		return out, &StageError{Stage: string(pillar.Sustainability), Err: err}
	}
	out.Sustainability = sust

	log.Info("assessed",
		"social", out.Social.Value,
		"economic", out.Economic.Value,
		"environmental", out.Environmental.Value,
		"sustainability", sust.Value,
		"band", sust.Band,
		"vetoed", sust.Veto != nil,
	)
	return out, nil
}

func clampScore(x float64) float64 {
	return math.Min(math.Max(x, 0), 100)
}

// #endregion assess

// #region save
// AssessAndSave runs Assess, then persists a successful assessment together
// with one run_log row per pipeline in a single transaction. A failed
// assessment logs a failed run for the stage that broke and returns its error.
func (a *Assessor) AssessAndSave(p indicators.FarmProfile) (Assessment, error) {
	if a.store == nil {
		return Assessment{}, ErrNoStore
	}
	out, err := a.Assess(p)
	if err != nil {
		stage := StageIndicators
		var se *StageError
		if errors.As(err, &se) {
			stage = se.Stage
		}
		profileJSON, _ := json.Marshal(p)
		if logErr := logging.RecordRun(a.store.DB(), logging.RunEntry{
			RunID:      out.RunID,
			Pipeline:   stage,
			InputsJSON: string(profileJSON),
			Outcome:    logging.OutcomeFailed,
			ErrorKind:  logging.ErrorKind(err),
		}); logErr != nil {
			a.logger.Error("record failed run", "run_id", out.RunID, "err", logErr)
		}
		return out, err
	}

	indJSON, err := json.Marshal(out.Indicators)
	if err != nil {
		return out, fmt.Errorf("encode indicators: %w", err)
	}
	runs := make([]logging.RunEntry, 0, 4)
	for _, s := range []pillar.Score{out.Social, out.Economic, out.Environmental, out.Sustainability} {
		inputsJSON, err := json.Marshal(s.Inputs)
		if err != nil {
			return out, fmt.Errorf("encode %s inputs: %w", s.Pipeline, err)
		}
		value := store.Round2(s.Value)
		runs = append(runs, logging.RunEntry{
			RunID:      out.RunID,
			Pipeline:   string(s.Pipeline),
			InputsJSON: string(inputsJSON),
			Outcome:    logging.OutcomeScored,
			Score:      &value,
			CreatedAt:  out.CreatedAt,
		})
	}
	rec, err := a.store.SaveWithRuns(store.AssessmentRecord{
		FarmID:         out.FarmID,
		Region:         out.Region,
		IndicatorsJSON: string(indJSON),
		Social:         out.Social.Value,
		Economic:       out.Economic.Value,
		Environmental:  out.Environmental.Value,
		Sustainability: out.Sustainability.Value,
		Band:           out.Sustainability.Band,
		Vetoed:         out.Sustainability.Veto != nil,
		CreatedAt:      out.CreatedAt,
	}, runs)
	if err != nil {
		return out, err
	}
	out.ID = rec.ID
	return out, nil
}

// #endregion save
