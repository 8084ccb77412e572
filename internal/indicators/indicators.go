package indicators

import (
	"fmt"
	"math"
	"strings"

	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
	"github.com/danielpatrickdp/sustainability-index/internal/reference"
)

// educationYears maps a survey education level to years of schooling.
var educationYears = map[string]float64{
	"sem-escolaridade":       0,
	"fundamental-incompleto": 4,
	"fundamental-completo":   8,
	"medio-incompleto":       10,
	"medio-completo":         12,
	"tecnico-incompleto":     13,
	"tecnico-completo":       14,
	"superior-incompleto":    15,
	"superior-completo":      16,
	"pos-graduacao":          18,
}

// EducationYears returns the years of schooling for a survey level.
func EducationYears(level string) (float64, error) {
	y, ok := educationYears[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return 0, fmt.Errorf("education level %q: %w", level, ErrInvalidProfile)
	}
	return y, nil
}

// #region validate
// Validate checks the fields derivation divides by or looks up.
func (p FarmProfile) Validate() error {
	switch {
	case strings.TrimSpace(p.Region) == "":
		return fmt.Errorf("missing region: %w", ErrInvalidProfile)
	case !(p.TotalArea > 0):
		return fmt.Errorf("total area %g must be positive: %w", p.TotalArea, ErrInvalidProfile)
	case !(p.ProductiveArea > 0):
		return fmt.Errorf("productive area %g must be positive: %w", p.ProductiveArea, ErrInvalidProfile)
	case p.ProductiveArea > p.TotalArea:
		return fmt.Errorf("productive area %g exceeds total area %g: %w", p.ProductiveArea, p.TotalArea, ErrInvalidProfile)
	case !(p.YearsInSystem > 0):
		return fmt.Errorf("years in system %g must be positive: %w", p.YearsInSystem, ErrInvalidProfile)
	case !(p.OldestFamilyAge > 0):
		return fmt.Errorf("oldest family age %g must be positive: %w", p.OldestFamilyAge, ErrInvalidProfile)
	case p.YoungestFamilyAge < 0:
		return fmt.Errorf("youngest family age %g is negative: %w", p.YoungestFamilyAge, ErrInvalidProfile)
	case p.PermanentEmployees < 0 || p.TemporaryEmployees < 0:
		return fmt.Errorf("negative employee count: %w", ErrInvalidProfile)
	case p.OperationalCourses < 0 || p.TechnicalCourses < 0 || p.SpecializationCourses < 0:
		return fmt.Errorf("negative course count: %w", ErrInvalidProfile)
	case p.PropertyValue < 0 || p.FinancingPercent < 0 || p.MonthlyFuel < 0 || p.DecisionMakerSalary < 0:
		return fmt.Errorf("negative value, financing, fuel or salary: %w", ErrInvalidProfile)
	}
	return nil
}

// #endregion validate

// #region derive
// Derive computes every pipeline indicator from a profile and the regional
// reference table.
func Derive(p FarmProfile, table reference.Table) (Indicators, error) {
	if err := p.Validate(); err != nil {
		return Indicators{}, err
	}
	region, err := table.Lookup(p.Region)
	if err != nil {
		return Indicators{}, err
	}
	years, err := EducationYears(p.EducationLevel)
	if err != nil {
		return Indicators{}, err
	}

	var ind Indicators
	clamp := func(name string, x, lo, hi float64) float64 {
		if x < lo || x > hi {
			ind.Clamped = append(ind.Clamped, name)
			return math.Min(math.Max(x, lo), hi)
		}
		return x
	}

	// social
	temp := float64(p.TemporaryEmployees) + 1
	ind.YearsOfStudy = clamp(pillar.InYearsOfStudy, years, 0, 20)
	ind.HealthPlan = boolScore(p.HealthPlan)
	ind.ProfitSharing = boolScore(p.ProfitSharing)
	ind.JA = clamp(pillar.InYouthRatio, p.YoungestFamilyAge/p.OldestFamilyAge, 0, 1)
	ind.TC = clamp(pillar.InTraining, float64(p.OperationalCourses+2*p.TechnicalCourses+3*p.SpecializationCourses), 0, 20)
	ind.JQ = clamp(pillar.InJobQuality, float64(p.PermanentEmployees)/temp/temp, 0, 20)

	// economic
	profit := p.GrossIncome - p.ProductionCost
	salary := p.DecisionMakerSalary
	if salary == 0 {
		salary = profit / 12
	}
	ind.FV = clamp(pillar.InFarmValue, math.Pow(p.PropertyValue/p.ProductiveArea, 1/p.YearsInSystem), 0, 120)
	ind.P = clamp(pillar.InProfit, profit/p.ProductiveArea, 0, 7000)
	ind.DL = clamp(pillar.InDebtLevel, p.FinancingPercent/100, 0, 1.1)
	ind.WI = clamp(pillar.InWageIndex, salary/NationalMeanWage, 0, 11)

	// environmental
	conserved := (p.TotalArea - p.ProductiveArea) / p.TotalArea
	ind.ConservedArea = clamp(pillar.InConservedArea, conserved/region.Regulation, 0, 1.1)
	ind.Runoff = clamp(pillar.InRunoff, region.Runoff(), -1, 1.1)
	ind.FuelPerArea = clamp(pillar.InFuelPerArea, p.MonthlyFuel*12/p.TotalArea, 0, 40)

	return ind, nil
}

func boolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// #endregion derive

// #region inputs
// SocialInputs returns the social pipeline inputs.
func (ind Indicators) SocialInputs() map[string]float64 {
	return map[string]float64{
		pillar.InYearsOfStudy:  ind.YearsOfStudy,
		pillar.InHealthPlan:    ind.HealthPlan,
		pillar.InProfitSharing: ind.ProfitSharing,
		pillar.InYouthRatio:    ind.JA,
		pillar.InTraining:      ind.TC,
		pillar.InJobQuality:    ind.JQ,
	}
}

// EconomicInputs returns the economic pipeline inputs.
func (ind Indicators) EconomicInputs() map[string]float64 {
	return map[string]float64{
		pillar.InDebtLevel: ind.DL,
		pillar.InFarmValue: ind.FV,
		pillar.InProfit:    ind.P,
		pillar.InWageIndex: ind.WI,
	}
}

// EnvironmentalInputs returns the environmental pipeline inputs.
func (ind Indicators) EnvironmentalInputs() map[string]float64 {
	return map[string]float64{
		pillar.InRunoff:        ind.Runoff,
		pillar.InConservedArea: ind.ConservedArea,
		pillar.InFuelPerArea:   ind.FuelPerArea,
	}
}

// #endregion inputs
