package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/sustainability-index/internal/logging"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id              TEXT PRIMARY KEY,
	farm_id         TEXT NOT NULL,
	region          TEXT NOT NULL,
	indicators_json TEXT NOT NULL,
	social          REAL NOT NULL,
	economic        REAL NOT NULL,
	environmental   REAL NOT NULL,
	sustainability  REAL NOT NULL,
	band            TEXT NOT NULL,
	vetoed          INTEGER NOT NULL DEFAULT 0,
	created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assessments_farm ON assessments(farm_id, created_at);

CREATE TABLE IF NOT EXISTS run_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	pipeline      TEXT NOT NULL,
	inputs_json   TEXT,
	outcome       TEXT NOT NULL,
	error_kind    TEXT,
	score         REAL,
	assessment_id TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (assessment_id) REFERENCES assessments(id)
);
`

// #endregion schema

// #region store-struct
// Store persists assessments and the scoring run log in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; pragmas below are per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for run_log writes outside a save.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region save
// Save inserts an assessment, assigning an id and timestamp when unset.
// Scores are rounded to two decimals before they are written.
func (s *Store) Save(rec AssessmentRecord) (AssessmentRecord, error) {
	return insertAssessment(s.db, rec)
}

// SaveWithRuns inserts an assessment and its run_log rows in one transaction.
// Every run is linked to the saved assessment; if any insert fails nothing
// is written.
func (s *Store) SaveWithRuns(rec AssessmentRecord, runs []logging.RunEntry) (AssessmentRecord, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return AssessmentRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rec, err = insertAssessment(tx, rec)
	if err != nil {
		return AssessmentRecord{}, err
	}
	for _, run := range runs {
		run.AssessmentID = rec.ID
		if err := logging.RecordRun(tx, run); err != nil {
			return AssessmentRecord{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return AssessmentRecord{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

func insertAssessment(db logging.Execer, rec AssessmentRecord) (AssessmentRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.Social = Round2(rec.Social)
	rec.Economic = Round2(rec.Economic)
	rec.Environmental = Round2(rec.Environmental)
	rec.Sustainability = Round2(rec.Sustainability)

	_, err := db.Exec(
		`INSERT INTO assessments (id, farm_id, region, indicators_json, social, economic, environmental, sustainability, band, vetoed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.FarmID, rec.Region, rec.IndicatorsJSON,
		rec.Social, rec.Economic, rec.Environmental, rec.Sustainability,
		rec.Band, boolInt(rec.Vetoed), rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return AssessmentRecord{}, fmt.Errorf("insert assessment: %w", err)
	}
	return rec, nil
}

// #endregion save

// #region get
const selectAssessment = `SELECT id, farm_id, region, indicators_json, social, economic, environmental, sustainability, band, vetoed, created_at
	FROM assessments`

type scanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row scanner) (AssessmentRecord, error) {
	var rec AssessmentRecord
	var vetoed int
	var createdStr string
	err := row.Scan(&rec.ID, &rec.FarmID, &rec.Region, &rec.IndicatorsJSON,
		&rec.Social, &rec.Economic, &rec.Environmental, &rec.Sustainability,
		&rec.Band, &vetoed, &createdStr)
	if err != nil {
		return AssessmentRecord{}, err
	}
	rec.Vetoed = vetoed != 0
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

// Get retrieves an assessment by id.
func (s *Store) Get(id string) (AssessmentRecord, error) {
	rec, err := scanAssessment(s.db.QueryRow(selectAssessment+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return AssessmentRecord{}, fmt.Errorf("get assessment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return AssessmentRecord{}, fmt.Errorf("get assessment %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get

// #region list
// List returns the most recent assessments.
func (s *Store) List(limit int) ([]AssessmentRecord, error) {
	return s.query(selectAssessment+` ORDER BY created_at DESC LIMIT ?`, limit)
}

// ListByFarm returns the most recent assessments of one farm.
func (s *Store) ListByFarm(farmID string, limit int) ([]AssessmentRecord, error) {
	return s.query(selectAssessment+` WHERE farm_id = ? ORDER BY created_at DESC LIMIT ?`, farmID, limit)
}

func (s *Store) query(q string, args ...any) ([]AssessmentRecord, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var records []AssessmentRecord
	for rows.Next() {
		rec, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list

// #region runs
// ListRuns returns the most recent run_log rows.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, pipeline, inputs_json, outcome, error_kind, score, assessment_id, created_at
		 FROM run_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var inputs, errKind, assessmentID sql.NullString
		var score sql.NullFloat64
		var createdStr string
		if err := rows.Scan(&r.ID, &r.RunID, &r.Pipeline, &inputs, &r.Outcome, &errKind, &score, &assessmentID, &createdStr); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.InputsJSON = inputs.String
		r.ErrorKind = errKind.String
		r.AssessmentID = assessmentID.String
		if score.Valid {
			v := score.Float64
			r.Score = &v
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// #endregion runs

// #region helpers
// Round2 rounds half away from zero to two decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
