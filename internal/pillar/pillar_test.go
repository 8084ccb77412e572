package pillar

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/danielpatrickdp/sustainability-index/internal/fuzzy"
)

const tol = 1e-9

func newTestScorer(t *testing.T, mutate func(*ScorerConfig)) *Scorer {
	t.Helper()
	cfg := DefaultScorerConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewScorer(cfg, nil)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	return s
}

func assertScore(t *testing.T, label string, got Score, raw, value float64) {
	t.Helper()
	if math.Abs(got.Raw-raw) > tol {
		t.Errorf("%s: raw = %.15g, want %.15g", label, got.Raw, raw)
	}
	if math.Abs(got.Value-value) > tol {
		t.Errorf("%s: value = %.15g, want %.15g", label, got.Value, value)
	}
}

func TestSocialWellRunFarm(t *testing.T) {
	s := newTestScorer(t, nil)
	got, err := s.ScoreSocial(13, 1, 1, 0.45, 12, 12)
	if err != nil {
		t.Fatalf("ScoreSocial: %v", err)
	}
	assertScore(t, "social", got, 69.96613620309968, 82.26967065036044)
	if got.Value < 50 || got.Value > 85 {
		t.Fatalf("expected 50..85, got %g", got.Value)
	}
	if got.Band != Alto {
		t.Fatalf("band = %s, want %s", got.Band, Alto)
	}
}

func TestSocialTable(t *testing.T) {
	s := newTestScorer(t, nil)
	cases := []struct {
		in         [6]float64
		raw, value float64
	}{
		{[6]float64{8, 0, 1, 0.25, 5, 10}, 56.94259308628812, 60.4637811039475},
		{[6]float64{16, 0, 0, 0.9, 3, 2}, 53.40314136125655, 54.53752181500872},
		{[6]float64{0, 0, 0, 1, 0, 0}, 20.83066751972702, 0},
		{[6]float64{20, 1, 1, 0, 20, 20}, 80.55555555555556, 100},
	}
	for _, c := range cases {
		got, err := s.ScoreSocial(c.in[0], c.in[1], c.in[2], c.in[3], c.in[4], c.in[5])
		if err != nil {
			t.Fatalf("ScoreSocial%v: %v", c.in, err)
		}
		assertScore(t, "social", got, c.raw, c.value)
	}
}

func TestEconomicTable(t *testing.T) {
	s := newTestScorer(t, nil)
	cases := []struct {
		dl, fv, p, wi float64
		raw, value    float64
	}{
		{0.35, 20, 3500, 4, 50, 57.69230769230769},
		{0.15, 60, 5500, 7, 80.55555555555556, 100},
		{1.1, 0, 0, 0, 8.333333333333332, 0},
		// inside the declared bounds, past the last sample: clamped
		{0, 120, 7000, 11, 80.55555555555556, 100},
	}
	for _, c := range cases {
		got, err := s.ScoreEconomic(c.dl, c.fv, c.p, c.wi)
		if err != nil {
			t.Fatalf("ScoreEconomic(%g, %g, %g, %g): %v", c.dl, c.fv, c.p, c.wi, err)
		}
		assertScore(t, "economic", got, c.raw, c.value)
	}
}

func TestEnvironmentalWorstCase(t *testing.T) {
	s := newTestScorer(t, nil)
	got, err := s.ScoreEnvironmental(-1, 0, 40)
	if err != nil {
		t.Fatalf("ScoreEnvironmental: %v", err)
	}
	assertScore(t, "environmental", got, 20.83066751972702, 0)
	if got.Applied[InFuelPerArea] != 39 {
		t.Fatalf("fuel clamped to %g, want 39", got.Applied[InFuelPerArea])
	}
	if got.Inputs[InFuelPerArea] != 40 {
		t.Fatalf("supplied fuel reported as %g, want 40", got.Inputs[InFuelPerArea])
	}
}

func TestEnvironmentalConservedAreaRouting(t *testing.T) {
	// By default the conserved-area rules feed the secondary economic
	// consequent, so FO does not move the environmental index.
	def := newTestScorer(t, nil)
	a, err := def.ScoreEnvironmental(0.5, 0.3, 39)
	if err != nil {
		t.Fatalf("fo=0.3: %v", err)
	}
	b, err := def.ScoreEnvironmental(0.5, 0.9, 39)
	if err != nil {
		t.Fatalf("fo=0.9: %v", err)
	}
	assertScore(t, "fo=0.3", a, 36.11111111111111, 25.58471701481878)
	if a.Value != b.Value {
		t.Fatalf("FO changed the default score: %g vs %g", a.Value, b.Value)
	}
	sys, _ := def.System(Environmental)
	if _, ok := sys.Output(OutEconomic); !ok {
		t.Fatal("expected secondary economic consequent in the default environmental pipeline")
	}

	routed := newTestScorer(t, func(c *ScorerConfig) { c.RouteConservationToEnvironmental = true })
	c, err := routed.ScoreEnvironmental(0.2, 0, 10)
	if err != nil {
		t.Fatalf("routed: %v", err)
	}
	assertScore(t, "routed", c, 57.95520651541585, 62.15924418881804)
	d, err := def.ScoreEnvironmental(0.2, 0, 10)
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if d.Value == c.Value {
		t.Fatal("routing FO to the environmental index should change the score")
	}
}

func TestSustainabilityTable(t *testing.T) {
	s := newTestScorer(t, nil)
	cases := []struct {
		ec, so, am float64
		raw, value float64
		band       string
	}{
		{50, 50, 50, 50, 57.69071023120587, Medio},
		{80, 80, 20, 58.413978494623656, 69.33957980703815, Alto},
		{0, 0, 0, 8.333333333333332, 0.004614887627484533, MuitoBaixo},
		{100, 100, 100, 80.55555555555556, 99.99384681649668, Alto},
		{30, 90, 90, 58.87533875338753, 69.97831753203313, Alto},
	}
	for _, c := range cases {
		got, err := s.ScoreSustainability(c.ec, c.so, c.am)
		if err != nil {
			t.Fatalf("ScoreSustainability(%g, %g, %g): %v", c.ec, c.so, c.am, err)
		}
		assertScore(t, "sustainability", got, c.raw, c.value)
		if got.Band != c.band {
			t.Errorf("(%g, %g, %g): band %s, want %s", c.ec, c.so, c.am, got.Band, c.band)
		}
	}
}

func TestSustainabilityVeryLowPillarVetoes(t *testing.T) {
	s := newTestScorer(t, nil)
	got, err := s.ScoreSustainability(10, 90, 90)
	if err != nil {
		t.Fatalf("ScoreSustainability: %v", err)
	}
	if got.Veto == nil {
		t.Fatal("expected a veto")
	}
	if got.Veto.Type != VetoVeryLowPillar || got.Veto.Pillar != InEconomicScore {
		t.Fatalf("unexpected veto %+v", got.Veto)
	}
	assertScore(t, "vetoed", got, 9.285714285714286, 1.3231542097664217)
	if got.Band != MuitoBaixo {
		t.Fatalf("band = %s, want %s", got.Band, MuitoBaixo)
	}

	// exactly at the threshold still vetoes
	edge, err := s.ScoreSustainability(12.5, 90, 90)
	if err != nil {
		t.Fatalf("edge: %v", err)
	}
	if edge.Veto == nil {
		t.Fatal("expected a veto at the threshold")
	}
	assertScore(t, "edge", edge, 9.72222222222222, 1.9274847324134285)
}

func TestSustainabilityVetoDisabled(t *testing.T) {
	s := newTestScorer(t, func(c *ScorerConfig) { c.Veto.Enabled = false })
	got, err := s.ScoreSustainability(10, 90, 90)
	if err != nil {
		t.Fatalf("ScoreSustainability: %v", err)
	}
	if got.Veto != nil {
		t.Fatalf("unexpected veto %+v", got.Veto)
	}
	assertScore(t, "soft", got, 59.367816091954026, 70.66013580500349)
}

func TestSustainabilityRejectsInvalidInput(t *testing.T) {
	s := newTestScorer(t, nil)
	bad := [][3]float64{
		{-0.01, 50, 50},
		{50, 100.5, 50},
		{50, 50, math.NaN()},
	}
	for _, in := range bad {
		if _, err := s.ScoreSustainability(in[0], in[1], in[2]); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestPillarRejectsOutOfRange(t *testing.T) {
	s := newTestScorer(t, nil)
	if _, err := s.ScoreEconomic(0.2, 20, 7001, 4); !errors.Is(err, fuzzy.ErrOutOfRange) {
		t.Fatalf("P=7001: expected ErrOutOfRange, got %v", err)
	}
	if _, err := s.ScoreEnvironmental(-1.2, 0.5, 10); !errors.Is(err, fuzzy.ErrOutOfRange) {
		t.Fatalf("runoff=-1.2: expected ErrOutOfRange, got %v", err)
	}
	if _, err := s.ScoreSocial(21, 1, 1, 0.5, 10, 10); !errors.Is(err, fuzzy.ErrOutOfRange) {
		t.Fatalf("years=21: expected ErrOutOfRange, got %v", err)
	}
}

func TestScoreMissingInput(t *testing.T) {
	s := newTestScorer(t, nil)
	_, err := s.Score(Economic, map[string]float64{InDebtLevel: 0.2, InFarmValue: 20})
	if !errors.Is(err, fuzzy.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
}

func TestBand(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, MuitoBaixo},
		{12.4, MuitoBaixo},
		{12.5, MuitoBaixo}, // tie goes low
		{20, Baixo},
		{50, Medio},
		{62.5, Medio},
		{70, Alto},
		{100, Alto},
		{-3, MuitoBaixo},
		{104, Alto},
	}
	for _, c := range cases {
		if got := Band(c.score); got != c.want {
			t.Errorf("Band(%g) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestCalibrationValidate(t *testing.T) {
	if err := (Calibration{MinRaw: 10, MaxRaw: 10}).Validate(); err == nil {
		t.Fatal("expected error for degenerate calibration")
	}
	_, err := NewScorer(ScorerConfig{
		Social:         DefaultCalibration(Social),
		Economic:       Calibration{MinRaw: 80, MaxRaw: 8},
		Environmental:  DefaultCalibration(Environmental),
		Sustainability: DefaultCalibration(Sustainability),
	}, nil)
	if err == nil {
		t.Fatal("expected NewScorer to reject inverted calibration")
	}
}

func TestScorerConcurrentUse(t *testing.T) {
	s := newTestScorer(t, nil)
	want, err := s.ScoreSocial(13, 1, 1, 0.45, 12, 12)
	if err != nil {
		t.Fatalf("ScoreSocial: %v", err)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.ScoreSocial(13, 1, 1, 0.45, 12, 12)
			if err != nil {
				errs <- err
				return
			}
			if got.Value != want.Value {
				errs <- errors.New("concurrent result differs")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
