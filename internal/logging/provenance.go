package logging

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielpatrickdp/sustainability-index/internal/fuzzy"
	"github.com/danielpatrickdp/sustainability-index/internal/indicators"
	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
	"github.com/danielpatrickdp/sustainability-index/internal/reference"
)

// #region record-run
// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// RecordRun writes a provenance entry to the run_log table.
func RecordRun(db Execer, entry RunEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var score any
	if entry.Score != nil {
		score = *entry.Score
	}
	_, err := db.Exec(
		`INSERT INTO run_log (run_id, pipeline, inputs_json, outcome, error_kind, score, assessment_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.Pipeline,
		nullIfEmpty(entry.InputsJSON),
		entry.Outcome,
		nullIfEmpty(entry.ErrorKind),
		score,
		nullIfEmpty(entry.AssessmentID),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// #endregion record-run

// #region error-kind
// ErrorKind names the sentinel behind err for the run log.
func ErrorKind(err error) string {
	kinds := []struct {
		target error
		kind   string
	}{
		{fuzzy.ErrOutOfRange, "out_of_range"},
		{fuzzy.ErrMissingInput, "missing_input"},
		{fuzzy.ErrNoRuleFired, "no_rule_fired"},
		{fuzzy.ErrUnknownTerm, "unknown_term"},
		{fuzzy.ErrUnregisteredVariable, "unregistered_variable"},
		{pillar.ErrInvalidInput, "invalid_input"},
		{indicators.ErrInvalidProfile, "invalid_profile"},
		{reference.ErrUnknownRegion, "unknown_region"},
	}
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.target) {
			return k.kind
		}
	}
	return "internal"
}

// #endregion error-kind

// #region helpers
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
