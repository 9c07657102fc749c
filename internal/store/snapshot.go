package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobmatch-engine/internal/domain"
)

// SaveSnapshot replaces the stored snapshot in one transaction, so readers
// see either the previous run or this one.
func (d *DB) SaveSnapshot(ctx context.Context, s domain.Snapshot) error {
	if len(s.Jobs) != len(s.Matches) {
		return fmt.Errorf("snapshot has %d jobs but %d matches", len(s.Jobs), len(s.Matches))
	}
	platforms, err := json.Marshal(s.Platforms)
	if err != nil {
		return err
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs;`); err != nil {
		return fmt.Errorf("clear jobs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO snapshot (id, run_id, fetched_at, platforms) VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET run_id = excluded.run_id, fetched_at = excluded.fetched_at, platforms = excluded.platforms;`,
		s.RunID, s.FetchedAt.UTC().Format(time.RFC3339Nano), string(platforms)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO jobs (id, position, title, company, platform, posted_at, score, locality, job, match)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, j := range s.Jobs {
		m := s.Matches[i]
		jb, err := json.Marshal(j)
		if err != nil {
			return err
		}
		mb, err := json.Marshal(m)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			j.ID, i, j.Title, j.CompanyName, j.SourcePlatform,
			j.PostedAt.UTC().Format(time.RFC3339), m.MatchScore, string(m.Locality),
			string(jb), string(mb),
		); err != nil {
			return fmt.Errorf("insert job %s: %w", j.ID, err)
		}
	}
	return tx.Commit()
}

// LoadSnapshot returns the stored snapshot in display order, or an empty
// snapshot when no run has been saved.
func (d *DB) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	var (
		s         domain.Snapshot
		fetchedAt string
		platforms string
	)
	err := d.Pool.QueryRowContext(ctx, `SELECT run_id, fetched_at, platforms FROM snapshot WHERE id = 1;`).
		Scan(&s.RunID, &fetchedAt, &platforms)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{Jobs: []domain.JobListing{}, Matches: []domain.JobMatch{}}, nil
	}
	if err != nil {
		return domain.Snapshot{}, err
	}
	s.FetchedAt, _ = time.Parse(time.RFC3339Nano, fetchedAt)
	_ = json.Unmarshal([]byte(platforms), &s.Platforms)

	s.Jobs, s.Matches, err = d.ListJobs(ctx, ListJobsOpts{Sort: "rank", Window: "all"})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return s, nil
}
