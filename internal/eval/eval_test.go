package eval

import (
	"math"
	"strings"
	"testing"

	"github.com/danielpatrickdp/sustainability-index/internal/logging"
	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
)

func makeScorer(t *testing.T, cfg pillar.ScorerConfig) *pillar.Scorer {
	t.Helper()
	s, err := pillar.NewScorer(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	return s
}

func TestEvalPassesOnDefaults(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	result := h.Run(makeScorer(t, pillar.DefaultScorerConfig()))

	if !result.Passed {
		t.Fatalf("expected pass on default calibration, got fail: %s", result.Reason)
	}
	if result.Reason != "all checks passed" {
		t.Fatalf("unexpected reason: %s", result.Reason)
	}
	// 4 pipelines x floor/ceiling + 3 sweeps
	if len(result.Metrics) != 11 {
		t.Fatalf("expected 11 metrics, got %d", len(result.Metrics))
	}
	for _, m := range result.Metrics {
		if !m.Pass {
			t.Fatalf("metric %s failed with %v", m.Name, m.Value)
		}
	}
}

func TestEvalFailsOnSkewedCalibration(t *testing.T) {
	cfg := pillar.DefaultScorerConfig()
	cfg.Economic = pillar.Calibration{MinRaw: 0, MaxRaw: 100}
	h := NewEvalHarness(DefaultEvalConfig())

	result := h.Run(makeScorer(t, cfg))

	if result.Passed {
		t.Fatal("expected fail on skewed economic calibration")
	}
	if !strings.Contains(result.Reason, "economic_floor") {
		t.Fatalf("expected economic_floor in reason, got %s", result.Reason)
	}
}

func TestEvalToleranceTooTight(t *testing.T) {
	// The sustainability calibration is rounded, so its corners sit a few
	// thousandths off 0 and 100.
	config := DefaultEvalConfig()
	config.Tolerance = 1e-9
	h := NewEvalHarness(config)

	result := h.Run(makeScorer(t, pillar.DefaultScorerConfig()))

	if result.Passed {
		t.Fatal("expected fail with zero tolerance")
	}
	for _, m := range result.Metrics {
		if m.Name == "economic_floor" && !m.Pass {
			t.Fatalf("economic floor should be exact, got %v", m.Value)
		}
	}
}

func TestEvalSweepIsInformational(t *testing.T) {
	config := DefaultEvalConfig()
	config.SweepSteps = 0
	h := NewEvalHarness(config)

	result := h.Run(makeScorer(t, pillar.DefaultScorerConfig()))

	if !result.Passed {
		t.Fatalf("expected pass, got fail: %s", result.Reason)
	}
	var sweeps int
	for _, m := range result.Metrics {
		if m.Informational {
			sweeps++
		}
	}
	if sweeps != 3 {
		t.Fatalf("expected 3 informational metrics, got %d", sweeps)
	}
}

func TestCalibrateRecoversDefaults(t *testing.T) {
	s := makeScorer(t, pillar.DefaultScorerConfig())
	for _, p := range []pillar.Pipeline{pillar.Social, pillar.Economic, pillar.Environmental} {
		got, err := Calibrate(s, p)
		if err != nil {
			t.Fatalf("Calibrate(%s): %v", p, err)
		}
		want := pillar.DefaultCalibration(p)
		if math.Abs(got.MinRaw-want.MinRaw) > 1e-9 || math.Abs(got.MaxRaw-want.MaxRaw) > 1e-9 {
			t.Fatalf("Calibrate(%s) = %+v, want %+v", p, got, want)
		}
	}
}

func TestCalibrateUnknownPipeline(t *testing.T) {
	s := makeScorer(t, pillar.DefaultScorerConfig())
	if _, err := Calibrate(s, pillar.Pipeline("water")); err == nil {
		t.Fatal("expected error for unknown pipeline")
	}
}
