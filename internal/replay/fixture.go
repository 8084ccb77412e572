package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
	"github.com/danielpatrickdp/sustainability-index/internal/store"
)

// DefaultTolerance applies to cases that expect a score without a tolerance.
const DefaultTolerance = 1e-6

// #region fixture-types

// Fixture is a regression file: scorer settings plus cases to replay.
type Fixture struct {
	Description string        `json:"description" yaml:"description"`
	Config      FixtureConfig `json:"config" yaml:"config"`
	Cases       []FixtureCase `json:"cases" yaml:"cases"`
}

// FixtureConfig overrides scorer defaults. Nil sections keep the default.
type FixtureConfig struct {
	Social                           *pillar.Calibration `json:"social,omitempty" yaml:"social,omitempty"`
	Economic                         *pillar.Calibration `json:"economic,omitempty" yaml:"economic,omitempty"`
	Environmental                    *pillar.Calibration `json:"environmental,omitempty" yaml:"environmental,omitempty"`
	Sustainability                   *pillar.Calibration `json:"sustainability,omitempty" yaml:"sustainability,omitempty"`
	Veto                             *pillar.VetoConfig  `json:"veto,omitempty" yaml:"veto,omitempty"`
	RouteConservationToEnvironmental bool                `json:"route_conservation_to_environmental,omitempty" yaml:"route_conservation_to_environmental,omitempty"`
}

// FixtureCase is one pipeline evaluation and what it should produce. At
// least one of ExpectedScore, ExpectedBand or ExpectError must be set.
type FixtureCase struct {
	Name          string             `json:"name" yaml:"name"`
	Pipeline      string             `json:"pipeline" yaml:"pipeline"`
	Inputs        map[string]float64 `json:"inputs" yaml:"inputs"`
	ExpectedScore *float64           `json:"expected_score,omitempty" yaml:"expected_score,omitempty"`
	Tolerance     float64            `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	ExpectedBand  string             `json:"expected_band,omitempty" yaml:"expected_band,omitempty"`
	ExpectVeto    *bool              `json:"expect_veto,omitempty" yaml:"expect_veto,omitempty"`
	ExpectError   string             `json:"expect_error,omitempty" yaml:"expect_error,omitempty"` // error kind, e.g. out_of_range
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads a JSON or YAML fixture, chosen by extension.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if isJSON(path) {
		err = json.Unmarshal(data, &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, nil
}

// WriteFixture writes f as JSON or YAML, chosen by extension.
func WriteFixture(path string, f *Fixture) error {
	var data []byte
	var err error
	if isJSON(path) {
		data, err = json.MarshalIndent(f, "", "  ")
	} else {
		data, err = yaml.Marshal(f)
	}
	if err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Validate checks that every case names a pipeline and an expectation.
func (f *Fixture) Validate() error {
	for i, c := range f.Cases {
		if _, err := pillar.ParsePipeline(c.Pipeline); err != nil {
			return fmt.Errorf("case %d (%s): %w", i, c.Name, err)
		}
		if c.ExpectedScore == nil && c.ExpectedBand == "" && c.ExpectError == "" {
			return fmt.Errorf("case %d (%s): no expectation", i, c.Name)
		}
	}
	return f.Config.ToScorerConfig().Validate()
}

// ToScorerConfig overlays the fixture overrides onto the defaults.
func (fc FixtureConfig) ToScorerConfig() pillar.ScorerConfig {
	sc := pillar.DefaultScorerConfig()
	if fc.Social != nil {
		sc.Social = *fc.Social
	}
	if fc.Economic != nil {
		sc.Economic = *fc.Economic
	}
	if fc.Environmental != nil {
		sc.Environmental = *fc.Environmental
	}
	if fc.Sustainability != nil {
		sc.Sustainability = *fc.Sustainability
	}
	if fc.Veto != nil {
		sc.Veto = *fc.Veto
	}
	sc.RouteConservationToEnvironmental = fc.RouteConservationToEnvironmental
	return sc
}

// #endregion fixture-loader

// #region export

// FromRuns builds a fixture from scored run_log rows, oldest first. Stored
// scores carry two decimals, so cases get a matching tolerance. Failed rows
// and rows whose inputs cannot be decoded are skipped.
func FromRuns(runs []store.RunRecord, config FixtureConfig) *Fixture {
	f := &Fixture{
		Description: fmt.Sprintf("exported from %d run_log rows", len(runs)),
		Config:      config,
	}
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		if r.Outcome != "scored" || r.Score == nil {
			continue
		}
		if _, err := pillar.ParsePipeline(r.Pipeline); err != nil {
			continue
		}
		var inputs map[string]float64
		if err := json.Unmarshal([]byte(r.InputsJSON), &inputs); err != nil {
			continue
		}
		score := *r.Score
		f.Cases = append(f.Cases, FixtureCase{
			Name:          fmt.Sprintf("%s/%s", r.RunID, r.Pipeline),
			Pipeline:      r.Pipeline,
			Inputs:        inputs,
			ExpectedScore: &score,
			Tolerance:     0.01,
		})
	}
	return f
}

// #endregion export
