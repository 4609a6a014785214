// Package store persists evaluations and human overrides in SQLite.
// The engine itself never touches storage; the server and CLI hand it
// finished values. modernc.org/sqlite keeps the build cgo-free.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/claimgate/internal/model"
)

// Store is a SQLite-backed record of evaluations and overrides.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_journal_mode=WAL&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite serializes writes anyway; keep the pool small.
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS assessments (
	id             TEXT PRIMARY KEY,
	claim_id       TEXT NOT NULL,
	created_at     TEXT NOT NULL,
	recommendation TEXT NOT NULL,
	assign_to      TEXT NOT NULL,
	total_min      INTEGER NOT NULL,
	total_max      INTEGER NOT NULL,
	confidence     REAL NOT NULL,
	fraud_risk     REAL NOT NULL,
	evaluation     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessments_claim ON assessments(claim_id);

CREATE TABLE IF NOT EXISTS overrides (
	id             TEXT PRIMARY KEY,
	assessment_id  TEXT NOT NULL REFERENCES assessments(id),
	created_at     TEXT NOT NULL,
	user_id        TEXT,
	part_index     INTEGER NOT NULL,
	significant    INTEGER NOT NULL,
	before_total_max INTEGER NOT NULL,
	after_total_max  INTEGER NOT NULL,
	evaluation     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_overrides_assessment ON overrides(assessment_id);
`)
	return err
}

// Record is one persisted evaluation.
type Record struct {
	ID        string           `json:"id"`
	ClaimID   string           `json:"claim_id"`
	CreatedAt time.Time        `json:"created_at"`
	Result    model.Evaluation `json:"result"`
}

// OverrideRecord is one persisted human override.
type OverrideRecord struct {
	ID             string           `json:"id"`
	AssessmentID   string           `json:"assessment_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UserID         string           `json:"user_id,omitempty"`
	PartIndex      int              `json:"part_index"`
	Significant    bool             `json:"significant"`
	BeforeTotalMax int64            `json:"before_total_max"`
	AfterTotalMax  int64            `json:"after_total_max"`
	Result         model.Evaluation `json:"result"`
}

// SaveEvaluation persists an evaluation and returns its assessment ID.
func (s *Store) SaveEvaluation(claimID string, ev model.Evaluation) (string, error) {
	id := uuid.NewString()
	blob, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("store: marshal evaluation: %w", err)
	}

	_, err = s.db.Exec(`INSERT INTO assessments
		(id, claim_id, created_at, recommendation, assign_to, total_min, total_max, confidence, fraud_risk, evaluation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, claimID, time.Now().UTC().Format(time.RFC3339Nano),
		string(ev.Assessment.Recommendation.Code), string(ev.Routing.AssignTo),
		ev.Assessment.TotalMin, ev.Assessment.TotalMax,
		ev.Assessment.OverallConfidence, ev.Assessment.FraudRiskScore, string(blob))
	if err != nil {
		return "", fmt.Errorf("store: insert assessment: %w", err)
	}
	return id, nil
}

// GetEvaluation loads one persisted evaluation by assessment ID.
func (s *Store) GetEvaluation(id string) (*Record, error) {
	row := s.db.QueryRow(`SELECT id, claim_id, created_at, evaluation FROM assessments WHERE id = ?`, id)

	var r Record
	var createdAt, blob string
	if err := row.Scan(&r.ID, &r.ClaimID, &createdAt, &blob); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("store: assessment %q not found", id)
		}
		return nil, fmt.Errorf("store: load assessment: %w", err)
	}

	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if err := json.Unmarshal([]byte(blob), &r.Result); err != nil {
		return nil, fmt.Errorf("store: decode evaluation: %w", err)
	}
	return &r, nil
}

// ListRecent returns the most recent evaluations, newest first.
func (s *Store) ListRecent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT id, claim_id, created_at, evaluation
		FROM assessments ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list assessments: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var createdAt, blob string
		if err := rows.Scan(&r.ID, &r.ClaimID, &createdAt, &blob); err != nil {
			return nil, fmt.Errorf("store: scan assessment: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		if err := json.Unmarshal([]byte(blob), &r.Result); err != nil {
			continue
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecordOverride persists a human override against an assessment.
func (s *Store) RecordOverride(assessmentID, userID string, partIndex int, significant bool, before, after model.Evaluation) (string, error) {
	id := uuid.NewString()
	blob, err := json.Marshal(after)
	if err != nil {
		return "", fmt.Errorf("store: marshal override: %w", err)
	}

	sig := 0
	if significant {
		sig = 1
	}

	_, err = s.db.Exec(`INSERT INTO overrides
		(id, assessment_id, created_at, user_id, part_index, significant, before_total_max, after_total_max, evaluation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, assessmentID, time.Now().UTC().Format(time.RFC3339Nano), userID, partIndex, sig,
		before.Assessment.TotalMax, after.Assessment.TotalMax, string(blob))
	if err != nil {
		return "", fmt.Errorf("store: insert override: %w", err)
	}
	return id, nil
}

// ExportTrainingData returns significant overrides: the human corrections
// large enough to feed back into model retraining.
func (s *Store) ExportTrainingData() ([]OverrideRecord, error) {
	rows, err := s.db.Query(`SELECT id, assessment_id, created_at, user_id, part_index,
		significant, before_total_max, after_total_max, evaluation
		FROM overrides WHERE significant = 1 ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("store: export overrides: %w", err)
	}
	defer rows.Close()

	var out []OverrideRecord
	for rows.Next() {
		var o OverrideRecord
		var createdAt, blob string
		var userID sql.NullString
		var sig int
		if err := rows.Scan(&o.ID, &o.AssessmentID, &createdAt, &userID, &o.PartIndex,
			&sig, &o.BeforeTotalMax, &o.AfterTotalMax, &blob); err != nil {
			return nil, fmt.Errorf("store: scan override: %w", err)
		}
		o.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		o.UserID = userID.String
		o.Significant = sig == 1
		if err := json.Unmarshal([]byte(blob), &o.Result); err != nil {
			continue
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
