package reference

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownRegion is returned for a region code absent from the table.
var ErrUnknownRegion = errors.New("unknown region")

// #region region
// Region holds the regional constants indicator derivation needs.
type Region struct {
	// Regulation is the mandatory legal reserve as a fraction of total area.
	Regulation float64 `yaml:"regulation" json:"regulation"`
	// Rainfall is the mean annual rainfall in mm.
	Rainfall float64 `yaml:"rainfall" json:"rainfall"`
	// Evapotranspiration is the mean annual evapotranspiration in mm.
	Evapotranspiration float64 `yaml:"evapotranspiration" json:"evapotranspiration"`
}

// Runoff returns (rainfall - evapotranspiration) / rainfall.
func (r Region) Runoff() float64 {
	return (r.Rainfall - r.Evapotranspiration) / r.Rainfall
}

// Validate rejects constants that would make derivation divide by zero.
func (r Region) Validate() error {
	if r.Regulation <= 0 || r.Regulation > 1 {
		return fmt.Errorf("regulation %g outside (0, 1]", r.Regulation)
	}
	if r.Rainfall <= 0 {
		return fmt.Errorf("rainfall %g must be positive", r.Rainfall)
	}
	if r.Evapotranspiration < 0 {
		return fmt.Errorf("evapotranspiration %g must not be negative", r.Evapotranspiration)
	}
	return nil
}

// #endregion region

// #region table
// Table maps an upper-case region code to its constants. It is plain data;
// callers own it and pass it in.
type Table map[string]Region

// Lookup returns the constants for code, case-insensitively.
func (t Table) Lookup(code string) (Region, error) {
	r, ok := t[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Region{}, fmt.Errorf("region %q: %w", code, ErrUnknownRegion)
	}
	return r, nil
}

// Codes returns every region code in sorted order.
func (t Table) Codes() []string {
	codes := make([]string, 0, len(t))
	for c := range t {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Validate checks every region.
func (t Table) Validate() error {
	if len(t) == 0 {
		return errors.New("empty reference table")
	}
	for _, c := range t.Codes() {
		if err := t[c].Validate(); err != nil {
			return fmt.Errorf("region %s: %w", c, err)
		}
	}
	return nil
}

// Load reads a YAML table of the form "SP: {regulation: 0.2, rainfall: ...}".
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference table: %w", err)
	}
	raw := make(Table)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse reference table: %w", err)
	}
	t := make(Table, len(raw))
	for c, r := range raw {
		t[strings.ToUpper(c)] = r
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// #endregion table

// #region default
// Default returns the Brazilian state table: legal reserve of 80% in the
// Amazon, 35% in the Cerrado and 20% elsewhere, with state climate means.
func Default() Table {
	t := make(Table, len(regulation))
	for code, reg := range regulation {
		t[code] = Region{
			Regulation:         reg,
			Rainfall:           rainfall[code],
			Evapotranspiration: evapotranspiration[code],
		}
	}
	return t
}

var regulation = map[string]float64{
	"AM": 0.8, "AC": 0.8, "RO": 0.8, "RR": 0.8, "AP": 0.8, "PA": 0.8,
	"DF": 0.35, "GO": 0.35, "MT": 0.35, "TO": 0.35, "MG": 0.35, "MA": 0.35, "MS": 0.35,
	"RS": 0.2, "RJ": 0.2, "SP": 0.2, "SC": 0.2, "PR": 0.2, "ES": 0.2,
	"BA": 0.2, "SE": 0.2, "AL": 0.2, "PE": 0.2, "PB": 0.2, "RN": 0.2, "CE": 0.2, "PI": 0.2,
}

var rainfall = map[string]float64{
	"AM": 2609, "AC": 2158, "RO": 1950, "RR": 1754, "AP": 2525, "PA": 2252,
	"DF": 1478, "GO": 1511, "MT": 1588, "TO": 1619, "MG": 1226, "MA": 1586, "MS": 1219,
	"RS": 1635, "RJ": 1403, "SP": 1450, "SC": 1921, "PR": 1802, "ES": 1309,
	"BA": 926, "SE": 1068, "AL": 1325, "PE": 930, "PB": 1837, "RN": 1214, "CE": 1123, "PI": 1039,
}

var evapotranspiration = map[string]float64{
	"AM": 2221, "AC": 1958, "RO": 1750, "RR": 1800, "AP": 2182, "PA": 2199,
	"DF": 1304, "GO": 1689, "MT": 2066, "TO": 2138, "MG": 1512, "MA": 2181, "MS": 2000,
	"RS": 1427, "RJ": 1722, "SP": 1427, "SC": 1242, "PR": 1378, "ES": 1756,
	"BA": 1722, "SE": 1804, "AL": 1711, "PE": 1932, "PB": 2022, "RN": 2062, "CE": 1878, "PI": 2668,
}

// #endregion default
