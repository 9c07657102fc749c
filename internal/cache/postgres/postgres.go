// Package postgres stores the aggregation snapshot in a single Postgres
// row, as JSONB.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmatch-engine/internal/cache"
	"jobmatch-engine/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobmatch_snapshots (
  key TEXT PRIMARY KEY,
  run_id TEXT NOT NULL,
  payload JSONB NOT NULL,
  expires_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

type Cache struct {
	pool *pgxpool.Pool
	opts cache.Options
	now  func() time.Time
}

// New creates and verifies a pool, then makes sure the table exists.
func New(ctx context.Context, opts cache.Options) (*Cache, error) {
	pool, err := pgxpool.New(ctx, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return &Cache{pool: pool, opts: opts.WithDefaults(), now: time.Now}, nil
}

func (c *Cache) SaveSnapshot(ctx context.Context, s domain.Snapshot) error {
	b, err := cache.Encode(s)
	if err != nil {
		return err
	}
	_, err = c.pool.Exec(ctx, `
INSERT INTO jobmatch_snapshots (key, run_id, payload, expires_at, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (key) DO UPDATE
SET run_id = EXCLUDED.run_id, payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at, updated_at = now()`,
		c.opts.Key, s.RunID, b, c.now().Add(c.opts.TTL))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (c *Cache) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	var b []byte
	err := c.pool.QueryRow(ctx,
		`SELECT payload FROM jobmatch_snapshots WHERE key = $1 AND expires_at > $2`,
		c.opts.Key, c.now()).Scan(&b)
	if errors.Is(err, pgx.ErrNoRows) {
		return cache.Empty(), nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return cache.Decode(b)
}

func (c *Cache) Close() error {
	c.pool.Close()
	return nil
}
