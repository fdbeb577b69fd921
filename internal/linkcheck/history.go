package linkcheck

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/explorer-docs/docaug/internal/db"
)

// History stores link check runs so consecutive runs can be compared.
type History struct {
	db *db.DB
}

// NewHistory returns a History backed by d.
func NewHistory(d *db.DB) *History {
	return &History{db: d}
}

// Last returns the finding lines of the most recent run against baseURL.
// ok is false when there is no earlier run.
func (h *History) Last(ctx context.Context, baseURL string) (lines []string, ok bool, err error) {
	var runID int64
	err = h.db.QueryRowContext(ctx,
		`SELECT id FROM linkcheck_runs WHERE base_url = ? ORDER BY id DESC LIMIT 1`, baseURL,
	).Scan(&runID)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("linkcheck: loading last run: %w", err)
	}

	rows, err := h.db.QueryContext(ctx, `SELECT line FROM linkcheck_findings WHERE run_id = ?`, runID)
	if err != nil {
		return nil, false, fmt.Errorf("linkcheck: loading findings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, false, err
		}
		lines = append(lines, line)
	}
	return lines, true, rows.Err()
}

// Record saves a finished run and returns its id.
func (h *History) Record(ctx context.Context, baseURL string, started, finished time.Time, r *Report) (int64, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("linkcheck: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO linkcheck_runs (base_url, started_at, finished_at, visited) VALUES (?, ?, ?, ?)`,
		baseURL, started.UTC(), finished.UTC(), len(r.Visited),
	)
	if err != nil {
		return 0, fmt.Errorf("linkcheck: inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, f := range r.Findings {
		errText := ""
		if f.Err != nil {
			errText = f.Err.Error()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO linkcheck_findings (run_id, kind, url, page, status, error, line) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, string(f.Kind), f.URL, f.Page, f.Status, errText, f.String(),
		); err != nil {
			return 0, fmt.Errorf("linkcheck: inserting finding: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("linkcheck: commit: %w", err)
	}
	return runID, nil
}

// Diff lists what changed between two runs.
type Diff struct {
	New   []string // Reported now but not last time.
	Fixed []string // Reported last time but not now.
}

// Compare diffs the previous run's finding lines against the current ones.
func Compare(previous []string, current []Finding) Diff {
	prev := make(map[string]bool, len(previous))
	for _, l := range previous {
		prev[l] = true
	}
	cur := make(map[string]bool, len(current))
	var d Diff
	for _, f := range current {
		line := f.String()
		if cur[line] {
			continue
		}
		cur[line] = true
		if !prev[line] {
			d.New = append(d.New, line)
		}
	}
	for l := range prev {
		if !cur[l] {
			d.Fixed = append(d.Fixed, l)
		}
	}
	sort.Strings(d.New)
	sort.Strings(d.Fixed)
	return d
}
