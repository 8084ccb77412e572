package indicators

import "errors"

// ErrInvalidProfile is returned when a farm profile cannot be turned into
// indicators.
var ErrInvalidProfile = errors.New("invalid farm profile")

// NationalMeanWage is the monthly mean wage the wage index is measured against.
const NationalMeanWage = 3225.0

// #region profile
// FarmProfile is one farm's survey answers.
type FarmProfile struct {
	FarmID string `yaml:"farm_id" json:"farm_id"`
	Region string `yaml:"region" json:"region"`

	// decision maker and family
	EducationLevel        string  `yaml:"education_level" json:"education_level"`
	YoungestFamilyAge     float64 `yaml:"youngest_family_age" json:"youngest_family_age"`
	OldestFamilyAge       float64 `yaml:"oldest_family_age" json:"oldest_family_age"`
	OperationalCourses    int     `yaml:"operational_courses" json:"operational_courses"`
	TechnicalCourses      int     `yaml:"technical_courses" json:"technical_courses"`
	SpecializationCourses int     `yaml:"specialization_courses" json:"specialization_courses"`

	// workforce
	PermanentEmployees int  `yaml:"permanent_employees" json:"permanent_employees"`
	TemporaryEmployees int  `yaml:"temporary_employees" json:"temporary_employees"`
	HealthPlan         bool `yaml:"health_plan" json:"health_plan"`
	ProfitSharing      bool `yaml:"profit_sharing" json:"profit_sharing"`

	// property, hectares and years
	TotalArea      float64 `yaml:"total_area" json:"total_area"`
	ProductiveArea float64 `yaml:"productive_area" json:"productive_area"`
	YearsInSystem  float64 `yaml:"years_in_system" json:"years_in_system"`

	// finances, currency per year unless noted
	GrossIncome         float64 `yaml:"gross_income" json:"gross_income"`
	ProductionCost      float64 `yaml:"production_cost" json:"production_cost"`
	PropertyValue       float64 `yaml:"property_value" json:"property_value"`
	FinancingPercent    float64 `yaml:"financing_percent" json:"financing_percent"`
	DecisionMakerSalary float64 `yaml:"decision_maker_salary" json:"decision_maker_salary"` // monthly

	// litres per month
	MonthlyFuel float64 `yaml:"monthly_fuel" json:"monthly_fuel"`
}

// #endregion profile

// #region indicators
// Indicators are the crisp pipeline inputs derived from a profile, already
// clamped into each pipeline's declared bounds.
type Indicators struct {
	YearsOfStudy  float64 `json:"years_of_study"`
	HealthPlan    float64 `json:"health_plan"`
	ProfitSharing float64 `json:"profit_sharing"`
	JA            float64 `json:"ja"`
	TC            float64 `json:"tc"`
	JQ            float64 `json:"jq"`

	DL float64 `json:"dl"`
	FV float64 `json:"fv"`
	P  float64 `json:"p"`
	WI float64 `json:"wi"`

	Runoff        float64 `json:"runoff"`
	ConservedArea float64 `json:"fo"`
	FuelPerArea   float64 `json:"fuel_per_area"`

	// Clamped names the indicators that fell outside their bounds.
	Clamped []string `json:"clamped,omitempty"`
}

// #endregion indicators
