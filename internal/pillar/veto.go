package pillar

import (
	"fmt"

	"github.com/danielpatrickdp/sustainability-index/internal/fuzzy"
)

// #region veto-type
// VetoType enumerates hard veto categories.
type VetoType string

const (
	VetoVeryLowPillar VetoType = "very_low_pillar"
)

// #endregion veto-type

// #region veto-signal
// VetoSignal records why the aggregate's soft result was replaced.
type VetoSignal struct {
	Type     VetoType `json:"type"`
	Reason   string   `json:"reason"`
	Pillar   string   `json:"pillar"`   // input with the highest very-low degree
	Strength float64  `json:"strength"` // firing strength of the very-low rule
}

// #endregion veto-signal

// #region veto-config
// VetoConfig holds the hard veto switch and threshold.
type VetoConfig struct {
	Enabled   bool    `toml:"enabled" json:"enabled" yaml:"enabled"`
	Threshold float64 `toml:"threshold" json:"threshold" yaml:"threshold"` // minimum very-low firing strength
}

// DefaultVetoConfig enables the veto at half membership.
func DefaultVetoConfig() VetoConfig {
	return VetoConfig{Enabled: true, Threshold: 0.5}
}

// Validate rejects a threshold outside (0, 1].
func (c VetoConfig) Validate() error {
	if c.Enabled && !(c.Threshold > 0 && c.Threshold <= 1) {
		return fmt.Errorf("veto threshold %g outside (0, 1]", c.Threshold)
	}
	return nil
}

// #endregion veto-config

// #region veto
// Veto enforces "any pillar very low means very low" on the sustainability
// output. Max aggregation alone lets two strong pillars outvote a very weak
// one; the veto defuzzifies from the very-low consequent alone instead.
type Veto struct {
	config VetoConfig
}

// NewVeto creates a veto with the given configuration.
func NewVeto(config VetoConfig) *Veto {
	return &Veto{config: config}
}

// Evaluate inspects a sustainability inference. It returns a nil signal when
// the soft result stands, otherwise the signal and the replacement centroid.
func (v *Veto) Evaluate(res *fuzzy.Result, out *fuzzy.Variable) (*VetoSignal, float64, error) {
	if !v.config.Enabled {
		return nil, 0, nil
	}
	strength := res.Firing[veryLowRule]
	if strength < v.config.Threshold {
		return nil, 0, nil
	}

	pillar, worst := "", -1.0
	for _, name := range []string{InEconomicScore, InSocialScore, InEnvironmentScore} {
		if d := res.Fuzzified[name][MuitoBaixo]; d > worst {
			pillar, worst = name, d
		}
	}

	set := out.Aggregate(map[string]float64{MuitoBaixo: strength})
	raw, err := fuzzy.Centroid(set)
	if err != nil {
		return nil, 0, fmt.Errorf("veto: %w", err)
	}
	return &VetoSignal{
		Type:     VetoVeryLowPillar,
		Reason:   fmt.Sprintf("%s pillar very low (strength %.4f >= %.4f)", pillar, strength, v.config.Threshold),
		Pillar:   pillar,
		Strength: strength,
	}, raw, nil
}

// #endregion veto
