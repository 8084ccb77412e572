package replay

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
)

func ptr[T any](v T) *T { return &v }

// helper: a balanced sustainability case scoring 57.69 (medio).
func balancedCase() FixtureCase {
	return FixtureCase{
		Name:     "balanced",
		Pipeline: "sustainability",
		Inputs:   map[string]float64{"economic": 50, "social": 50, "environmental": 50},
	}
}

// 1. Exact score within the default tolerance passes.
func TestReplay_ScorePass(t *testing.T) {
	c := balancedCase()
	c.ExpectedScore = ptr(57.69071023120587)
	results, err := Replay(&Fixture{Cases: []FixtureCase{c}}, nil)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if results[0].Action != ActionPass {
		t.Fatalf("expected pass, got %s (%s)", results[0].Action, results[0].Reason)
	}
	if results[0].Score == nil || results[0].Score.Band != "medio" {
		t.Fatalf("expected medio score attached, got %+v", results[0].Score)
	}
}

// 2. A score outside the tolerance fails with a reason.
func TestReplay_ScoreDrift(t *testing.T) {
	c := balancedCase()
	c.ExpectedScore = ptr(57.0)
	c.Tolerance = 0.5
	results, _ := Replay(&Fixture{Cases: []FixtureCase{c}}, nil)
	if results[0].Action != ActionFail || !strings.Contains(results[0].Reason, "differs") {
		t.Fatalf("expected drift failure, got %+v", results[0])
	}
}

// 3. Band mismatch fails.
func TestReplay_BandMismatch(t *testing.T) {
	c := balancedCase()
	c.ExpectedBand = "alto"
	results, _ := Replay(&Fixture{Cases: []FixtureCase{c}}, nil)
	if results[0].Action != ActionFail || !strings.Contains(results[0].Reason, "band medio") {
		t.Fatalf("expected band failure, got %+v", results[0])
	}
}

// 4. Expected error kinds must match exactly.
func TestReplay_ExpectError(t *testing.T) {
	c := FixtureCase{
		Name:     "range",
		Pipeline: "economic",
		Inputs:   map[string]float64{"dl": 0.35, "fv": 20, "p": 8000, "wi": 4},
	}
	wrong := c
	wrong.ExpectError = "missing_input"
	right := c
	right.ExpectError = "out_of_range"
	unexpected := c
	unexpected.ExpectedBand = "medio"

	results, _ := Replay(&Fixture{Cases: []FixtureCase{wrong, right, unexpected}}, nil)
	if results[0].Action != ActionFail || results[0].ErrKind != "out_of_range" {
		t.Errorf("wrong kind should fail, got %+v", results[0])
	}
	if results[1].Action != ActionPass {
		t.Errorf("matching kind should pass, got %+v", results[1])
	}
	if results[2].Action != ActionFail || results[2].Score != nil {
		t.Errorf("unexpected error should fail without score, got %+v", results[2])
	}
}

// 5. An expected error that does not happen fails.
func TestReplay_MissingExpectedError(t *testing.T) {
	c := balancedCase()
	c.ExpectError = "invalid_input"
	results, _ := Replay(&Fixture{Cases: []FixtureCase{c}}, nil)
	if results[0].Action != ActionFail || !strings.Contains(results[0].Reason, "got score") {
		t.Fatalf("expected failure, got %+v", results[0])
	}
}

// 6. Veto expectations follow the fixture config.
func TestReplay_VetoExpectation(t *testing.T) {
	c := FixtureCase{
		Name:       "weak economy",
		Pipeline:   "sustainability",
		Inputs:     map[string]float64{"economic": 10, "social": 90, "environmental": 90},
		ExpectVeto: ptr(true),
	}
	results, _ := Replay(&Fixture{Cases: []FixtureCase{c}}, nil)
	if results[0].Action != ActionPass {
		t.Fatalf("veto expected with defaults: %s", results[0].Reason)
	}

	off := &Fixture{
		Config: FixtureConfig{Veto: &pillar.VetoConfig{Enabled: false}},
		Cases:  []FixtureCase{c},
	}
	results, _ = Replay(off, nil)
	if results[0].Action != ActionFail {
		t.Fatal("veto must not fire when disabled")
	}
}

// 7. A degenerate calibration stops the replay before any case runs.
func TestReplay_BadConfig(t *testing.T) {
	f := &Fixture{
		Config: FixtureConfig{Social: &pillar.Calibration{MinRaw: 10, MaxRaw: 10}},
		Cases:  []FixtureCase{balancedCase()},
	}
	if _, err := Replay(f, nil); err == nil {
		t.Fatal("expected error for degenerate calibration")
	}
}

// 8. Summarize counts passes, failures and vetoes.
func TestSummarize(t *testing.T) {
	vetoed := &pillar.Score{Veto: &pillar.VetoSignal{Type: pillar.VetoVeryLowPillar}}
	results := []CaseResult{
		{Action: ActionPass, Score: vetoed},
		{Action: ActionPass, Score: &pillar.Score{}},
		{Action: ActionFail},
	}
	s := Summarize(results)
	if s.TotalCases != 3 || s.Passed != 2 || s.Failed != 1 || s.Vetoed != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
}
