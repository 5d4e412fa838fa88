// Package history handles SQLite persistence of local training runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Run is one completed training run recorded on this machine. Metric holds
// the headline score for the run, accuracy for classification and R2 for
// regression.
type Run struct {
	ID          int64
	Dataset     string
	Model       string
	ProblemType string
	Target      string
	Metric      float64
	DurationMs  int64
	CreatedAt   time.Time
}

// Filter narrows ListRuns results. Zero values mean no constraint.
type Filter struct {
	Dataset     string
	ProblemType string
	Since       *time.Time
	Limit       int
}

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			dataset TEXT NOT NULL,
			model TEXT NOT NULL,
			problem_type TEXT NOT NULL,
			target TEXT NOT NULL,
			metric REAL NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_dataset ON runs(dataset);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed training run.
func (s *Store) InsertRun(ctx context.Context, run Run) (int64, error) {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (dataset, model, problem_type, target, metric, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Dataset,
		run.Model,
		run.ProblemType,
		run.Target,
		run.Metric,
		run.DurationMs,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns runs matching the filter, most recent first.
func (s *Store) ListRuns(ctx context.Context, filter Filter) ([]Run, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Dataset != "" {
		clauses = append(clauses, "dataset = ?")
		args = append(args, filter.Dataset)
	}
	if filter.ProblemType != "" {
		clauses = append(clauses, "problem_type = ?")
		args = append(args, filter.ProblemType)
	}
	if filter.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, dataset, model, problem_type, target, metric, duration_ms, created_at
		FROM runs
		WHERE %s
		ORDER BY created_at DESC`, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(&run.ID, &run.Dataset, &run.Model, &run.ProblemType, &run.Target, &run.Metric, &run.DurationMs, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		run.CreatedAt = parsed
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// RecentMetrics returns the headline metric of the most recent runs in
// chronological order, for sparkline display.
func (s *Store) RecentMetrics(ctx context.Context, limit int) ([]float64, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `WITH recent AS (
		SELECT metric, created_at FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	)
	SELECT metric FROM recent ORDER BY created_at ASC`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var metrics []float64
	for rows.Next() {
		var m float64
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return metrics, nil
}
