package replay

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/danielpatrickdp/sustainability-index/internal/logging"
	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
)

// Case outcomes.
const (
	ActionPass = "pass"
	ActionFail = "fail"
)

// #region types
// CaseResult captures the outcome of replaying one fixture case.
type CaseResult struct {
	Name     string        `json:"name"`
	Pipeline string        `json:"pipeline"`
	Action   string        `json:"action"` // "pass" | "fail"
	Reason   string        `json:"reason,omitempty"`
	Score    *pillar.Score `json:"score,omitempty"` // nil when the pipeline errored
	ErrKind  string        `json:"error_kind,omitempty"`
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalCases int `json:"total_cases"`
	Passed     int `json:"passed"`
	Failed     int `json:"failed"`
	Vetoed     int `json:"vetoed"`
}

// #endregion types

// #region replay
// Replay runs every case against a fresh scorer built from the fixture
// config. Only a scorer that cannot be built returns an error; case
// mismatches are reported per result.
func Replay(f *Fixture, logger *slog.Logger) ([]CaseResult, error) {
	scorer, err := pillar.NewScorer(f.Config.ToScorerConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	results := make([]CaseResult, 0, len(f.Cases))
	for _, c := range f.Cases {
		results = append(results, runCase(scorer, c))
	}
	return results, nil
}

func runCase(scorer *pillar.Scorer, c FixtureCase) CaseResult {
	res := CaseResult{Name: c.Name, Pipeline: c.Pipeline, Action: ActionFail}

	p, err := pillar.ParsePipeline(c.Pipeline)
	if err != nil {
		res.Reason = err.Error()
		return res
	}

	score, err := scorer.Score(p, c.Inputs)
	if err != nil {
		res.ErrKind = logging.ErrorKind(err)
		if c.ExpectError == "" {
			res.Reason = err.Error()
		} else if c.ExpectError != res.ErrKind {
			res.Reason = fmt.Sprintf("expected error %s, got %s", c.ExpectError, res.ErrKind)
		} else {
			res.Action = ActionPass
		}
		return res
	}
	res.Score = &score

	if c.ExpectError != "" {
		res.Reason = fmt.Sprintf("expected error %s, got score %g", c.ExpectError, score.Value)
		return res
	}
	if c.ExpectedScore != nil {
		tol := c.Tolerance
		if tol <= 0 {
			tol = DefaultTolerance
		}
		if diff := math.Abs(score.Value - *c.ExpectedScore); !(diff <= tol) {
			res.Reason = fmt.Sprintf("score %g differs from %g by %g (tolerance %g)", score.Value, *c.ExpectedScore, diff, tol)
			return res
		}
	}
	if c.ExpectedBand != "" && c.ExpectedBand != score.Band {
		res.Reason = fmt.Sprintf("band %s, expected %s", score.Band, c.ExpectedBand)
		return res
	}
	if c.ExpectVeto != nil && *c.ExpectVeto != (score.Veto != nil) {
		res.Reason = fmt.Sprintf("veto %t, expected %t", score.Veto != nil, *c.ExpectVeto)
		return res
	}
	res.Action = ActionPass
	return res
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []CaseResult) ReplaySummary {
	s := ReplaySummary{TotalCases: len(results)}
	for _, r := range results {
		switch r.Action {
		case ActionPass:
			s.Passed++
		case ActionFail:
			s.Failed++
		}
		if r.Score != nil && r.Score.Veto != nil {
			s.Vetoed++
		}
	}
	return s
}

// #endregion replay
