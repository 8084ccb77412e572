package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an assessment id has no row.
var ErrNotFound = errors.New("assessment not found")

// #region assessment-record
// AssessmentRecord is one persisted farm assessment. Scores are stored
// rounded to two decimals.
type AssessmentRecord struct {
	ID             string    `json:"id"`
	FarmID         string    `json:"farm_id"`
	Region         string    `json:"region"`
	IndicatorsJSON string    `json:"indicators_json"`
	Social         float64   `json:"social"`
	Economic       float64   `json:"economic"`
	Environmental  float64   `json:"environmental"`
	Sustainability float64   `json:"sustainability"`
	Band           string    `json:"band"`
	Vetoed         bool      `json:"vetoed"`
	CreatedAt      time.Time `json:"created_at"`
}

// #endregion assessment-record

// #region run-record
// RunRecord pairs a run_log row with the assessment it produced, if any.
type RunRecord struct {
	ID           int64     `json:"id"`
	RunID        string    `json:"run_id"`
	Pipeline     string    `json:"pipeline"`
	InputsJSON   string    `json:"inputs_json,omitempty"`
	Outcome      string    `json:"outcome"` // "scored" | "failed"
	ErrorKind    string    `json:"error_kind,omitempty"`
	Score        *float64  `json:"score,omitempty"`
	AssessmentID string    `json:"assessment_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// #endregion run-record
