// Package repository keeps the latest run and its artifacts for re-download.
// The store is session-scoped: it defaults to an in-memory SQLite database
// and each new run overwrites the previous one. Nothing outlives the process.
package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sellerledger/reconciler/internal/domain"
)

// RunStore persists run summaries and artifact bytes.
type RunStore struct {
	db *sql.DB
}

// Open opens (or creates) the store at the given DSN and ensures the schema
// exists. Pass ":memory:" for the default session-scoped store.
func Open(dsn string) (*RunStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// A :memory: DSN opens one database per connection; keep a single
	// connection so every query sees the same store.
	db.SetMaxOpenConns(1)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			month INTEGER NOT NULL,
			year INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			counts_json TEXT NOT NULL,
			warnings_json TEXT NOT NULL,
			pnl_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			run_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			data BLOB NOT NULL,
			PRIMARY KEY (run_id, kind),
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}

	return &RunStore{db: db}, nil
}

// Close releases the underlying database.
func (s *RunStore) Close() error { return s.db.Close() }

// SaveRun stores a run and its artifacts, discarding any previous run. Only
// the most recent run is ever retained; the prior run exists solely for
// re-download convenience and is overwritten here, never merged.
func (s *RunStore) SaveRun(res *domain.RunResult) error {
	counts, err := json.Marshal(res.Counts)
	if err != nil {
		return fmt.Errorf("marshal counts: %w", err)
	}
	warnings, err := json.Marshal(res.Warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}
	pnl, err := json.Marshal(res.PnL)
	if err != nil {
		return fmt.Errorf("marshal pnl: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM artifacts`); err != nil {
		return fmt.Errorf("clear artifacts: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM runs`); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO runs (id, month, year, created_at, counts_json, warnings_json, pnl_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.Month, res.Year, res.CreatedAt, string(counts), string(warnings), string(pnl),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for kind, data := range res.Artifacts {
		if _, err := tx.Exec(
			`INSERT INTO artifacts (run_id, kind, data) VALUES (?, ?, ?)`,
			res.ID, string(kind), data,
		); err != nil {
			return fmt.Errorf("insert artifact %s: %w", kind, err)
		}
	}

	return tx.Commit()
}

// LatestRun returns the retained run summary without artifact bytes, or
// sql.ErrNoRows when no run has completed yet.
func (s *RunStore) LatestRun() (*domain.RunResult, error) {
	row := s.db.QueryRow(
		`SELECT id, month, year, created_at, counts_json, warnings_json, pnl_json
		 FROM runs ORDER BY created_at DESC LIMIT 1`)

	var (
		res       domain.RunResult
		createdAt time.Time
		counts    string
		warnings  string
		pnl       string
	)
	if err := row.Scan(&res.ID, &res.Month, &res.Year, &createdAt, &counts, &warnings, &pnl); err != nil {
		return nil, err
	}
	res.CreatedAt = createdAt

	if err := json.Unmarshal([]byte(counts), &res.Counts); err != nil {
		return nil, fmt.Errorf("unmarshal counts: %w", err)
	}
	if err := json.Unmarshal([]byte(warnings), &res.Warnings); err != nil {
		return nil, fmt.Errorf("unmarshal warnings: %w", err)
	}
	if err := json.Unmarshal([]byte(pnl), &res.PnL); err != nil {
		return nil, fmt.Errorf("unmarshal pnl: %w", err)
	}
	return &res, nil
}

// Artifact returns the stored bytes of one artifact of one run, or
// sql.ErrNoRows when absent.
func (s *RunStore) Artifact(runID string, kind domain.ArtifactKind) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(
		`SELECT data FROM artifacts WHERE run_id = ? AND kind = ?`,
		runID, string(kind),
	).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}
