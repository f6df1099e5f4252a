package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned when a run id is not in the history.
var ErrRunNotFound = errors.New("run not found")

// AuditRun is one recorded audit pass. Report holds the JSON rendition
// of the full report.
type AuditRun struct {
	Seq        int64
	RunID      string
	Document   string
	CreatedAt  time.Time
	ReportHash string
	Views      int
	ToFix      int
	Warnings   int
	Errors     int
	Missing    int
	Report     []byte
}

// FixRun is one recorded write pass against an audit run.
type FixRun struct {
	Seq       int64
	RunID     string
	CreatedAt time.Time
	Success   bool
	Fatal     bool
	Applied   int
	Result    []byte
}

// RecordAudit appends an audit run to the history. CreatedAt and Seq are
// assigned by the store.
func (s *Store) RecordAudit(ctx context.Context, run AuditRun) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_runs
		(run_id, document, created_at, report_hash, views, to_fix, warnings, errors, missing, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.RunID, run.Document, s.clock.Now().Format(time.RFC3339Nano), run.ReportHash,
		run.Views, run.ToFix, run.Warnings, run.Errors, run.Missing, string(run.Report),
	)
	if err != nil {
		return 0, fmt.Errorf("write audit run %s: %w", run.RunID, err)
	}
	return res.LastInsertId()
}

// RecordFix appends a write pass for an existing audit run.
func (s *Store) RecordFix(ctx context.Context, run FixRun) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO fix_runs (run_id, created_at, success, fatal, applied, result)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.RunID, s.clock.Now().Format(time.RFC3339Nano),
		boolInt(run.Success), boolInt(run.Fatal), run.Applied, string(run.Result),
	)
	if err != nil {
		return 0, fmt.Errorf("write fix run %s: %w", run.RunID, err)
	}
	return res.LastInsertId()
}

// AuditRuns lists audit runs for a document, newest first. An empty
// document lists every run. limit <= 0 means no limit.
func (s *Store) AuditRuns(ctx context.Context, document string, limit int) ([]AuditRun, error) {
	query := `
		SELECT seq, run_id, document, created_at, report_hash, views, to_fix, warnings, errors, missing, report
		FROM audit_runs`
	var args []any
	if document != "" {
		query += ` WHERE document = ?`
		args = append(args, document)
	}
	query += ` ORDER BY seq DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit runs: %w", err)
	}
	defer rows.Close()

	var out []AuditRun
	for rows.Next() {
		r, err := scanAuditRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AuditRun reads one audit run by id.
func (s *Store) AuditRun(ctx context.Context, runID string) (AuditRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, run_id, document, created_at, report_hash, views, to_fix, warnings, errors, missing, report
		FROM audit_runs WHERE run_id = ?
	`, runID)
	r, err := scanAuditRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return AuditRun{}, fmt.Errorf("audit run %s: %w", runID, ErrRunNotFound)
	}
	return r, err
}

// FixRuns lists the write passes of an audit run in order.
func (s *Store) FixRuns(ctx context.Context, runID string) ([]FixRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, run_id, created_at, success, fatal, applied, result
		FROM fix_runs WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query fix runs: %w", err)
	}
	defer rows.Close()

	var out []FixRun
	for rows.Next() {
		var r FixRun
		var created, result string
		var success, fatal int
		if err := rows.Scan(&r.Seq, &r.RunID, &created, &success, &fatal, &r.Applied, &result); err != nil {
			return nil, fmt.Errorf("scan fix run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("fix run %d: created_at: %w", r.Seq, err)
		}
		r.Success, r.Fatal, r.Result = success == 1, fatal == 1, []byte(result)
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuditRun(row rowScanner) (AuditRun, error) {
	var r AuditRun
	var created, report string
	err := row.Scan(&r.Seq, &r.RunID, &r.Document, &created, &r.ReportHash,
		&r.Views, &r.ToFix, &r.Warnings, &r.Errors, &r.Missing, &report)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AuditRun{}, err
		}
		return AuditRun{}, fmt.Errorf("scan audit run: %w", err)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return AuditRun{}, fmt.Errorf("audit run %s: created_at: %w", r.RunID, err)
	}
	r.Report = []byte(report)
	return r, nil
}
