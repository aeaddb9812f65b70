// Package history is the run index: a small SQLite database recording every
// report-producing invocation so `show` can find the latest run and `publish`
// can upload one without recomputing anything. History is write-once per run;
// it never feeds back into attribution.
package history

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/squadcov/squadcov/pkg/report"
)

const schemaVersion = 1

// Run is one recorded invocation with its aggregate totals.
type Run struct {
	ID              string
	CreatedAt       string
	Source          string // input the coverage came from (xcresult bundle, cover profile)
	SquadsCSV       string
	FullReportPath  string
	ReportPath      string
	FileCount       int
	CoveredLines    int
	ExecutableLines int
	CoveragePct     float64
}

// Store wraps the run-history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

		CREATE TABLE IF NOT EXISTS runs (
			id               TEXT PRIMARY KEY,
			created_at       TEXT NOT NULL,
			source           TEXT NOT NULL DEFAULT '',
			squads_csv       TEXT NOT NULL DEFAULT '',
			full_report_path TEXT NOT NULL DEFAULT '',
			report_path      TEXT NOT NULL DEFAULT '',
			file_count       INTEGER NOT NULL DEFAULT 0,
			covered_lines    INTEGER NOT NULL DEFAULT 0,
			executable_lines INTEGER NOT NULL DEFAULT 0,
			coverage_pct     REAL NOT NULL DEFAULT 0.0
		);

		CREATE TABLE IF NOT EXISTS run_squads (
			run_id           TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position         INTEGER NOT NULL,
			squad            TEXT NOT NULL,
			file_count       INTEGER NOT NULL DEFAULT 0,
			covered_lines    INTEGER NOT NULL DEFAULT 0,
			executable_lines INTEGER NOT NULL DEFAULT 0,
			coverage_pct     REAL NOT NULL DEFAULT 0.0,
			PRIMARY KEY (run_id, position)
		);
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err = s.db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion)
		return err
	}
	return nil
}

// RecordRun stores a completed run and its per-squad summary rows in one
// transaction.
func (s *Store) RecordRun(run Run, summary []report.SummaryRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, created_at, source, squads_csv, full_report_path,
			report_path, file_count, covered_lines, executable_lines, coverage_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.Source, run.SquadsCSV, run.FullReportPath,
		run.ReportPath, run.FileCount, run.CoveredLines, run.ExecutableLines,
		run.CoveragePct)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for i, row := range summary {
		_, err = tx.Exec(`
			INSERT INTO run_squads (run_id, position, squad, file_count,
				covered_lines, executable_lines, coverage_pct)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, row.Squad, row.Count, row.CoveredLines,
			row.ExecutableLines, row.CoveragePct)
		if err != nil {
			return fmt.Errorf("insert summary row for %s: %w", run.ID, err)
		}
	}

	return tx.Commit()
}

// LatestRunID returns the identifier of the most recent recorded run, or
// sql.ErrNoRows when the history is empty.
func (s *Store) LatestRunID() (string, error) {
	var id string
	err := s.db.QueryRow("SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT 1").Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetRun loads one recorded run by identifier.
func (s *Store) GetRun(id string) (Run, error) {
	var run Run
	err := s.db.QueryRow(`
		SELECT id, created_at, source, squads_csv, full_report_path,
			report_path, file_count, covered_lines, executable_lines, coverage_pct
		FROM runs WHERE id = ?`, id).Scan(
		&run.ID, &run.CreatedAt, &run.Source, &run.SquadsCSV,
		&run.FullReportPath, &run.ReportPath, &run.FileCount,
		&run.CoveredLines, &run.ExecutableLines, &run.CoveragePct)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// GetSummary loads the per-squad summary rows of a run, in their stored
// (squad-sorted) order.
func (s *Store) GetSummary(runID string) ([]report.SummaryRow, error) {
	rows, err := s.db.Query(`
		SELECT squad, file_count, covered_lines, executable_lines, coverage_pct
		FROM run_squads WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("load summary for %s: %w", runID, err)
	}
	defer rows.Close()

	var summary []report.SummaryRow
	for rows.Next() {
		var row report.SummaryRow
		if err := rows.Scan(&row.Squad, &row.Count, &row.CoveredLines,
			&row.ExecutableLines, &row.CoveragePct); err != nil {
			return nil, err
		}
		summary = append(summary, row)
	}
	return summary, rows.Err()
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, source, squads_csv, full_report_path,
			report_path, file_count, covered_lines, executable_lines, coverage_pct
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Source,
			&run.SquadsCSV, &run.FullReportPath, &run.ReportPath,
			&run.FileCount, &run.CoveredLines, &run.ExecutableLines,
			&run.CoveragePct); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
