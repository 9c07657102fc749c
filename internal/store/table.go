package store

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 2

// Migrate brings the schema up to date. Version 1 databases held scraped
// jobs in a different shape; they are dropped, since snapshots are rebuilt
// from scratch on every run anyway.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= schemaVersion {
		return tx.Commit()
	}

	if v == 1 {
		for _, t := range []string{"jobs", "logos", "company_domains"} {
			if _, err := tx.Exec(`DROP TABLE IF EXISTS ` + t + `;`); err != nil {
				return err
			}
		}
	}

	stmts := []string{`
CREATE TABLE IF NOT EXISTS snapshot (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  run_id TEXT NOT NULL,
  fetched_at TEXT NOT NULL,
  platforms TEXT NOT NULL DEFAULT '[]'
);`, `
CREATE TABLE IF NOT EXISTS jobs (
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  platform TEXT NOT NULL,
  posted_at TEXT NOT NULL,
  score INTEGER NOT NULL DEFAULT 0,
  locality TEXT NOT NULL DEFAULT 'unknown',
  job TEXT NOT NULL,
  match TEXT NOT NULL
);`, `
CREATE INDEX IF NOT EXISTS idx_jobs_posted_at ON jobs(posted_at);`, `
CREATE INDEX IF NOT EXISTS idx_jobs_platform ON jobs(platform);`, `
CREATE TABLE IF NOT EXISTS aggregation_runs (
  run_id TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  finished_at TEXT NOT NULL,
  total INTEGER NOT NULL,
  unique_jobs INTEGER NOT NULL,
  failed INTEGER NOT NULL,
  platforms TEXT NOT NULL DEFAULT '[]',
  error TEXT NOT NULL DEFAULT ''
);`, `
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON aggregation_runs(started_at);`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}

	if !columnExists(tx, "aggregation_runs", "error") {
		if _, err := tx.Exec(`ALTER TABLE aggregation_runs ADD COLUMN error TEXT NOT NULL DEFAULT '';`); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

func columnExists(q interface {
	QueryRow(query string, args ...any) *sql.Row
}, table, col string) bool {
	query := fmt.Sprintf(`
SELECT 1
FROM pragma_table_info('%s')
WHERE name = ?
LIMIT 1;
`, table)

	var one int
	err := q.QueryRow(query, col).Scan(&one)
	return err == nil
}
