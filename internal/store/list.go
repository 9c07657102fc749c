package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobmatch-engine/internal/domain"
)

type ListJobsOpts struct {
	Sort     string // rank | score | date | company | title
	Window   string // 24h | 7d | 30d | all
	Platform string
	Locality string
	Limit    int
	// Now anchors the window; zero means time.Now.
	Now time.Time
}

// ListJobs reads stored listings with their matches. "rank" is the order
// the aggregator produced (locality tier, then score).
func (d *DB) ListJobs(ctx context.Context, opts ListJobsOpts) ([]domain.JobListing, []domain.JobMatch, error) {
	// whitelist sort columns (prevents SQL injection)
	order := map[string]string{
		"rank":    "position ASC",
		"score":   "score DESC, position ASC",
		"date":    "posted_at DESC, position ASC",
		"company": "company COLLATE NOCASE ASC, position ASC",
		"title":   "title COLLATE NOCASE ASC, position ASC",
	}[opts.Sort]
	if order == "" {
		order = "position ASC"
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var (
		where []string
		args  []any
	)
	var window time.Duration
	switch opts.Window {
	case "24h":
		window = 24 * time.Hour
	case "7d":
		window = 7 * 24 * time.Hour
	case "30d":
		window = 30 * 24 * time.Hour
	}
	if window > 0 {
		where = append(where, "posted_at >= ?")
		args = append(args, now.Add(-window).UTC().Format(time.RFC3339))
	}
	if opts.Platform != "" {
		where = append(where, "platform = ?")
		args = append(args, opts.Platform)
	}
	if opts.Locality != "" {
		where = append(where, "locality = ?")
		args = append(args, opts.Locality)
	}

	q := `SELECT job, match FROM jobs`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY ` + order
	if opts.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := d.Pool.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	jobs := []domain.JobListing{}
	matches := []domain.JobMatch{}
	for rows.Next() {
		var jb, mb string
		if err := rows.Scan(&jb, &mb); err != nil {
			return nil, nil, err
		}
		var (
			j domain.JobListing
			m domain.JobMatch
		)
		if err := json.Unmarshal([]byte(jb), &j); err != nil {
			return nil, nil, fmt.Errorf("decode job: %w", err)
		}
		if err := json.Unmarshal([]byte(mb), &m); err != nil {
			return nil, nil, fmt.Errorf("decode match: %w", err)
		}
		jobs = append(jobs, j)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return jobs, matches, nil
}
