package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobmatch-engine/internal/domain"
)

func (d *DB) RecordRun(ctx context.Context, r domain.RunRecord) error {
	platforms, err := json.Marshal(r.Platforms)
	if err != nil {
		return err
	}
	_, err = d.Pool.ExecContext(ctx, `
INSERT OR REPLACE INTO aggregation_runs (run_id, started_at, finished_at, total, unique_jobs, failed, platforms, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		r.RunID,
		r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.FinishedAt.UTC().Format(time.RFC3339Nano),
		r.Total, r.Unique, r.Failed, string(platforms), r.Error,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (d *DB) RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := d.Pool.QueryContext(ctx, `
SELECT run_id, started_at, finished_at, total, unique_jobs, failed, platforms, error
FROM aggregation_runs
ORDER BY started_at DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.RunRecord{}
	for rows.Next() {
		var (
			r                 domain.RunRecord
			started, finished string
			platforms         string
		)
		if err := rows.Scan(&r.RunID, &started, &finished, &r.Total, &r.Unique, &r.Failed, &platforms, &r.Error); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		_ = json.Unmarshal([]byte(platforms), &r.Platforms)
		out = append(out, r)
	}
	return out, rows.Err()
}

// CleanupOldRuns deletes history older than maxAge.
func (d *DB) CleanupOldRuns(ctx context.Context, maxAge time.Duration) (deleted int64, err error) {
	cutoff := time.Now().Add(-maxAge).UTC().Format(time.RFC3339Nano)
	res, err := d.Pool.ExecContext(ctx, `DELETE FROM aggregation_runs WHERE started_at < ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup old runs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
