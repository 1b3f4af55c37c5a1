package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const createJobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
	job_id           TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	url              TEXT NOT NULL,
	company_name     TEXT NOT NULL,
	company_location TEXT NOT NULL,
	date_posted      TEXT NOT NULL
);`

// MirrorSQLite copies every record into the jobs table of the SQLite database
// at path. Rows already present are left untouched, matching Merge.
// It returns the number of rows inserted.
func (s *Store) MirrorSQLite(ctx context.Context, path string) (int, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return 0, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer db.Close()

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, createJobsTable); err != nil {
		return 0, fmt.Errorf("create jobs table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO jobs (job_id, title, url, company_name, company_location, date_posted)
VALUES (?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, rec := range s.Records() {
		res, err := stmt.ExecContext(ctx, rec.ID, rec.Title, rec.URL, rec.CompanyName, rec.CompanyLocation, rec.DatePosted)
		if err != nil {
			return 0, fmt.Errorf("insert job %s: %w", rec.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}
