// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/keytravel/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeFormat is fixed-width UTC, so stored times order correctly as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(value string) (time.Time, error) {
	parsed, err := time.Parse(timeFormat, value)
	if err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

// Store wraps SQLite access for recorded runs.
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
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			layout TEXT NOT NULL,
			strategy TEXT NOT NULL,
			onsite INTEGER NOT NULL,
			source TEXT NOT NULL,
			lines INTEGER NOT NULL,
			chars INTEGER NOT NULL,
			total REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_lines (
			run_id INTEGER NOT NULL,
			line INTEGER NOT NULL,
			chars INTEGER NOT NULL,
			total REAL NOT NULL,
			per_char REAL NOT NULL,
			PRIMARY KEY (run_id, line)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed run and its per-line results.
func (s *Store) InsertRun(ctx context.Context, run model.RunRecord, lines []model.LineResult) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, ended_at, layout, strategy, onsite, source, lines, chars, total)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		formatTime(run.StartedAt),
		formatTime(run.EndedAt),
		run.Layout,
		run.Strategy,
		run.Onsite,
		run.Source,
		run.Lines,
		run.Chars,
		run.Total,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(lines) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO run_lines (run_id, line, chars, total, per_char) VALUES (?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, lr := range lines {
			if _, err = stmt.ExecContext(ctx, id, lr.Line, lr.Chars, lr.Total, lr.PerChar); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns run aggregates filtered by history config, oldest first.
func (s *Store) ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.RunAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Layout != "" {
		clauses = append(clauses, "layout = ?")
		args = append(args, strings.ToLower(cfg.Layout))
	}
	if cfg.Strategy != "" {
		clauses = append(clauses, "strategy = ?")
		args = append(args, cfg.Strategy)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, layout, strategy, onsite, lines, chars, total
		FROM runs
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
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

	var runs []model.RunAggregate
	for rows.Next() {
		var agg model.RunAggregate
		var endedAt string
		if err := rows.Scan(&agg.RunID, &endedAt, &agg.Layout, &agg.Strategy, &agg.Onsite, &agg.Lines, &agg.Chars, &agg.Total); err != nil {
			return nil, err
		}
		parsed, err := parseTime(endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		runs = append(runs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}
	return runs, nil
}

// ListLineResults returns the per-line results of a run in line order.
func (s *Store) ListLineResults(ctx context.Context, runID int64) ([]model.LineResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT line, chars, total, per_char FROM run_lines WHERE run_id = ? ORDER BY line ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LineResult
	for rows.Next() {
		var lr model.LineResult
		if err := rows.Scan(&lr.Line, &lr.Chars, &lr.Total, &lr.PerChar); err != nil {
			return nil, err
		}
		result = append(result, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
