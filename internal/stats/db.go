// Package stats keeps an append-only SQLite log of served event requests.
// Rows hold counts and outcomes only, never message content or users.
package stats

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// Usage is one served event request.
type Usage struct {
	ID        string
	Command   string
	Requested int
	Delivered int
	Outcome   string
	CreatedAt time.Time
}

// Summary aggregates the log.
type Summary struct {
	Requests  int
	Delivered int
	Empty     int
	Errors    int
}

type DB struct {
	*sql.DB
}

func NewDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	d := &DB{db}
	if err := d.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) InitSchema() error {
	if _, err := d.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Record appends u. A zero CreatedAt is set to now.
func (d *DB) Record(ctx context.Context, u Usage) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := d.ExecContext(ctx,
		`INSERT INTO requests (id, command, requested, delivered, outcome, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Command, u.Requested, u.Delivered, u.Outcome, u.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record usage %s: %w", u.ID, err)
	}
	return nil
}

func (d *DB) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	err := d.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(delivered), 0),
			COALESCE(SUM(CASE WHEN outcome = 'empty' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'error' THEN 1 ELSE 0 END), 0)
		FROM requests`).Scan(&s.Requests, &s.Delivered, &s.Empty, &s.Errors)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize usage: %w", err)
	}
	return s, nil
}
