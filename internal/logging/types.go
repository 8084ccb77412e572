package logging

import "time"

// #region run-entry
// RunEntry is a single row in the run_log table: one pipeline evaluation
// and how it ended.
type RunEntry struct {
	RunID        string
	Pipeline     string
	InputsJSON   string
	Outcome      string // "scored" | "failed"
	ErrorKind    string
	Score        *float64
	AssessmentID string
	CreatedAt    time.Time
}

const (
	OutcomeScored = "scored"
	OutcomeFailed = "failed"
)

// #endregion run-entry

// #region options
// Options configures the process logger.
type Options struct {
	Level  string // debug | info | warn | error
	Format string // text | json
}

// DefaultOptions logs info and above as text.
func DefaultOptions() Options {
	return Options{Level: "info", Format: "text"}
}

// #endregion options
