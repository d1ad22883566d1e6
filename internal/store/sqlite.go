package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stellarlinkco/promptcheck/runner"
	"github.com/stellarlinkco/promptcheck/unit"
)

const defaultListLimit = 50

// ErrRunNotFound reports a run id with no stored summary. Callers match
// with errors.Is.
var ErrRunNotFound = errors.New("store: run not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	insertRunStmt    *sql.Stmt
	insertResultStmt *sql.Stmt
	getRunStmt       *sql.Stmt
	resultsByRunStmt *sql.Stmt
	listRunsStmt     *sql.Stmt
}

// NewSQLiteStore opens or creates a SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := st.prepareStatements(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			total_units INTEGER NOT NULL,
			passed_units INTEGER NOT NULL,
			failed_units INTEGER NOT NULL,
			total_ms REAL NOT NULL,
			avg_ms REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS unit_results (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			group_name TEXT NOT NULL,
			score REAL NOT NULL,
			threshold REAL NOT NULL,
			passed INTEGER NOT NULL,
			error_stage TEXT,
			error_message TEXT,
			payload BLOB NOT NULL,
			PRIMARY KEY(run_id, seq),
			FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_unit_results_run_id ON unit_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}

	ctx := context.Background()
	type stmtSpec struct {
		dst    **sql.Stmt
		query  string
		errFmt string
	}

	specs := []stmtSpec{
		{
			dst: &s.insertRunStmt,
			query: `
				INSERT INTO runs (
					id, created_at, total_units, passed_units, failed_units, total_ms, avg_ms
				) VALUES (?, ?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert run: %w",
		},
		{
			dst: &s.insertResultStmt,
			query: `
				INSERT INTO unit_results (
					run_id, seq, name, group_name, score, threshold, passed,
					error_stage, error_message, payload
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert result: %w",
		},
		{
			dst: &s.getRunStmt,
			query: `
				SELECT id, created_at, total_units, passed_units, failed_units, total_ms, avg_ms
				FROM runs WHERE id = ?
			`,
			errFmt: "store: prepare get run: %w",
		},
		{
			dst: &s.resultsByRunStmt,
			query: `
				SELECT payload FROM unit_results
				WHERE run_id = ?
				ORDER BY seq ASC
			`,
			errFmt: "store: prepare results by run: %w",
		},
		{
			dst: &s.listRunsStmt,
			query: `
				SELECT id, created_at, total_units, passed_units, failed_units, total_ms, avg_ms
				FROM runs
				ORDER BY created_at DESC, id DESC
				LIMIT ?
			`,
			errFmt: "store: prepare list runs: %w",
		},
	}

	for _, spec := range specs {
		stmt, err := s.db.PrepareContext(ctx, spec.query)
		if err != nil {
			return fmt.Errorf(spec.errFmt, err)
		}
		*spec.dst = stmt
	}

	return nil
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	stmts := []*sql.Stmt{
		s.insertRunStmt,
		s.insertResultStmt,
		s.getRunStmt,
		s.resultsByRunStmt,
		s.listRunsStmt,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSummary persists a run summary and all of its unit results in one
// transaction.
func (s *SQLiteStore) SaveSummary(ctx context.Context, id string, createdAt time.Time, sum *runner.Summary) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("store: empty run id")
	}
	if sum == nil {
		return errors.New("store: nil summary")
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	passed, failed := 0, 0
	for i := range sum.Results {
		r := &sum.Results[i]
		if r.Err == nil && r.Passed {
			passed++
		} else {
			failed++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.StmtContext(ctx, s.insertRunStmt).ExecContext(ctx,
		id, createdAt.Unix(), len(sum.Results), passed, failed,
		sum.TimeStats.TotalMs, sum.TimeStats.AvgMs,
	); err != nil {
		return fmt.Errorf("store: insert run %q: %w", id, err)
	}

	for i := range sum.Results {
		r := &sum.Results[i]
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("store: marshal result %q: %w", r.Name, err)
		}

		var stage, message any
		if r.Err != nil {
			stage = string(r.Err.Stage)
			message = r.Err.Message
		}

		if _, err := tx.StmtContext(ctx, s.insertResultStmt).ExecContext(ctx,
			id, i, r.Name, r.Group, r.Score, r.Threshold, r.Passed,
			stage, message, payload,
		); err != nil {
			return fmt.Errorf("store: insert result %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit run %q: %w", id, err)
	}
	return nil
}

// GetRun returns one stored run with its unit results.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("store: empty run id")
	}

	rec, err := scanRun(s.getRunStmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %q: %w", id, ErrRunNotFound)
		}
		return nil, fmt.Errorf("store: get run %q: %w", id, err)
	}

	rows, err := s.resultsByRunStmt.QueryContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store: results for run %q: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("store: scan result: %w", err)
		}
		var r unit.Result
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("store: decode result: %w", err)
		}
		rec.Results = append(rec.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate results: %w", err)
	}

	return rec, nil
}

// ListRuns returns stored runs newest first, without unit results.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.listRunsStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate runs: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dst ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var rec RunRecord
	var createdAt int64
	if err := row.Scan(&rec.ID, &createdAt, &rec.TotalUnits, &rec.PassedUnits,
		&rec.FailedUnits, &rec.TotalMs, &rec.AvgMs); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &rec, nil
}
