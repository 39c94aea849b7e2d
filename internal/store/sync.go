package store

import (
	"fmt"
	"time"
)

func (s *Store) RecordSyncRun(run SyncRun) (int64, error) {
	if run.At.IsZero() {
		run.At = time.Now()
	}
	res, err := s.db.Exec(
		`INSERT INTO sync_runs (system, direction, success, message, created, updated, skipped, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.System, run.Direction, run.Success, run.Message,
		run.Created, run.Updated, run.Skipped, run.At.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("record sync run: %w", err)
	}
	return res.LastInsertId()
}

// ListSyncRuns returns the newest runs first. A limit of zero lists all.
func (s *Store) ListSyncRuns(limit int) ([]SyncRun, error) {
	q := `SELECT id, system, direction, success, message, created, updated, skipped, at
	      FROM sync_runs ORDER BY at DESC, id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	defer rows.Close()

	var runs []SyncRun
	for rows.Next() {
		var r SyncRun
		var at string
		if err := rows.Scan(&r.ID, &r.System, &r.Direction, &r.Success, &r.Message,
			&r.Created, &r.Updated, &r.Skipped, &at); err != nil {
			return nil, err
		}
		r.At, _ = time.Parse(time.RFC3339, at)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
