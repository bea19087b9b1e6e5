package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"econ-data-pipeline/internal/model"
)

// ErrNotFound is returned when a run does not exist
var ErrNotFound = errors.New("run not found")

// Store keeps the history of pipeline runs in SQLite. It never holds the
// collected dataset itself.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	metrics TEXT,
	created_at DATETIME,
	updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS run_errors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	error_message TEXT,
	created_at DATETIME
);
CREATE TABLE IF NOT EXISTS pair_outcomes (
	run_id TEXT NOT NULL,
	country_code TEXT NOT NULL,
	indicator_code TEXT NOT NULL,
	status TEXT NOT NULL,
	records INTEGER NOT NULL,
	error_message TEXT,
	duration_ms INTEGER,
	PRIMARY KEY (run_id, country_code, indicator_code)
);
`

// Open opens (or creates) the database at dbPath and ensures the schema
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; avoids SQLITE_BUSY between the API and a running pipeline
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// StartRun stores a new run
func (s *Store) StartRun(ctx context.Context, run model.RunRecord) error {
	metrics, err := json.Marshal(run.Metrics)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, metrics, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Status, string(metrics), run.CreatedAt, run.UpdatedAt)
	return err
}

// FinishRun updates the run's final status and metrics and records its error
// and per-pair outcomes
func (s *Store) FinishRun(ctx context.Context, run model.RunRecord, outcomes []model.PairOutcome) error {
	metrics, err := json.Marshal(run.Metrics)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE runs SET status = ?, metrics = ?, updated_at = ? WHERE id = ?`,
		run.Status, string(metrics), run.UpdatedAt, run.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if run.Error != "" {
		if _, err := tx.ExecContext(ctx, `INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
			run.ID, run.Error, run.UpdatedAt); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO pair_outcomes
		(run_id, country_code, indicator_code, status, records, error_message, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range outcomes {
		if _, err := stmt.ExecContext(ctx, run.ID, o.CountryCode, o.IndicatorCode, string(o.Status),
			o.Records, o.Error, o.Duration.Milliseconds()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs first
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT r.id, r.status, r.metrics, r.created_at, r.updated_at,
		COALESCE((SELECT error_message FROM run_errors e WHERE e.run_id = r.id ORDER BY e.id DESC LIMIT 1), '')
		FROM runs r ORDER BY r.created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []model.RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches a run and its per-pair outcomes
func (s *Store) GetRun(ctx context.Context, runID string) (model.RunRecord, []model.PairOutcome, error) {
	row := s.db.QueryRowContext(ctx, `SELECT r.id, r.status, r.metrics, r.created_at, r.updated_at,
		COALESCE((SELECT error_message FROM run_errors e WHERE e.run_id = r.id ORDER BY e.id DESC LIMIT 1), '')
		FROM runs r WHERE r.id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RunRecord{}, nil, ErrNotFound
	}
	if err != nil {
		return model.RunRecord{}, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT country_code, indicator_code, status, records, error_message, duration_ms
		FROM pair_outcomes WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return model.RunRecord{}, nil, err
	}
	defer rows.Close()

	outcomes := []model.PairOutcome{}
	for rows.Next() {
		var (
			o          model.PairOutcome
			status     string
			errMsg     sql.NullString
			durationMS int64
		)
		if err := rows.Scan(&o.CountryCode, &o.IndicatorCode, &status, &o.Records, &errMsg, &durationMS); err != nil {
			return model.RunRecord{}, nil, err
		}
		o.Status = model.PairStatus(status)
		o.Error = errMsg.String
		o.Duration = time.Duration(durationMS) * time.Millisecond
		outcomes = append(outcomes, o)
	}
	return run, outcomes, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (model.RunRecord, error) {
	var (
		run     model.RunRecord
		metrics sql.NullString
	)
	if err := row.Scan(&run.ID, &run.Status, &metrics, &run.CreatedAt, &run.UpdatedAt, &run.Error); err != nil {
		return model.RunRecord{}, err
	}
	if metrics.Valid && metrics.String != "" {
		if err := json.Unmarshal([]byte(metrics.String), &run.Metrics); err != nil {
			return model.RunRecord{}, fmt.Errorf("failed to decode metrics: %w", err)
		}
	}
	return run, nil
}
