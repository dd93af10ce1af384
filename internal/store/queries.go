package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/blackwell-systems/benchtable/internal/bench"
)

// SaveRun archives results as a new run and returns its id. Rows keep their
// input order.
func (s *Store) SaveRun(results []bench.Result, createdAt time.Time) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (created_at, row_count) VALUES (?, ?)`,
		createdAt.UTC().Format(time.RFC3339),
		len(results),
	)
	if err != nil {
		return 0, wrapQueryErr("insert run", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_rows
		(run_id, position, method, path, precision, recall, fn, fp, tp_call, f1)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		_, err := stmt.Exec(runID, i, r.Method, r.Path,
			r.Precision, r.Recall, r.FN, r.FP, r.TPCall, r.F1)
		if err != nil {
			return 0, fmt.Errorf("failed to insert row %d (%s): %w", i, r.Method, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, row_count
		FROM runs
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, wrapQueryErr("list runs", err)
	}

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	rows.Close()

	// Methods are loaded after the cursor is closed; the pool holds one connection.
	for _, run := range runs {
		methods, err := s.runMethods(run.ID)
		if err != nil {
			return nil, err
		}
		run.Methods = methods
	}

	return runs, nil
}

// GetRun retrieves a run by id.
func (s *Store) GetRun(id int64) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT id, created_at, row_count
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	run.Methods, err = s.runMethods(id)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// LoadResults returns the archived results of a run in their original order.
func (s *Store) LoadResults(id int64) ([]bench.Result, error) {
	if _, err := s.GetRun(id); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT method, path, precision, recall, fn, fp, tp_call, f1
		FROM run_rows
		WHERE run_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, wrapQueryErr(fmt.Sprintf("load rows for run %d", id), err)
	}
	defer rows.Close()

	var results []bench.Result
	for rows.Next() {
		var r bench.Result
		if err := rows.Scan(&r.Method, &r.Path, &r.Precision, &r.Recall,
			&r.FN, &r.FP, &r.TPCall, &r.F1); err != nil {
			return nil, fmt.Errorf("failed to scan row for run %d: %w", id, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows for run %d: %w", id, err)
	}

	return results, nil
}

// DeleteRun removes a run and its rows.
func (s *Store) DeleteRun(id int64) error {
	res, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return wrapQueryErr(fmt.Sprintf("delete run %d", id), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return nil
}

func (s *Store) runMethods(id int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT method FROM run_rows WHERE run_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, wrapQueryErr(fmt.Sprintf("load methods for run %d", id), err)
	}
	defer rows.Close()

	var methods []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("failed to scan method for run %d: %w", id, err)
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var run Run
	var createdAt string
	if err := sc.Scan(&run.ID, &createdAt, &run.RowCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, wrapQueryErr("scan run", err)
	}

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for run %d: %w", run.ID, err)
	}
	run.CreatedAt = t
	return &run, nil
}
