package sink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-contactform/pkg/model"
)

const createSubmissionsTable = `
CREATE TABLE IF NOT EXISTS submissions (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	email        TEXT NOT NULL,
	message      TEXT NOT NULL,
	submitted_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_submitted_at ON submissions (submitted_at);
`

// SQLite persists submissions into a local SQLite database.
type SQLite struct {
	db *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLite opens (or creates) the database at dsn and ensures the schema.
// Use ":memory:" for an ephemeral store.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("sink: sqlite dsn is required")
	}
	if dsn != ":memory:" && !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sink: open sqlite db: %w", err)
	}
	// One connection keeps :memory: databases alive and serialises writes.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sink: ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, createSubmissionsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sink: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Send implements controller.Sink.
func (s *SQLite) Send(ctx context.Context, submission model.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return errors.New("sink: sqlite store is not configured")
	}
	if strings.TrimSpace(submission.ID) == "" {
		return errors.New("sink: submission id is required")
	}
	clean := Sanitize(submission)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, name, email, message, submitted_at) VALUES (?, ?, ?, ?, ?)`,
		clean.ID, clean.State.Name, clean.State.Email, clean.State.Message, toMillis(clean.SubmittedAt),
	)
	if err != nil {
		return fmt.Errorf("sink: insert submission %s: %w", clean.ID, err)
	}
	return nil
}

// List returns up to limit submissions, newest first. A non-positive limit
// returns everything.
func (s *SQLite) List(ctx context.Context, limit int) ([]model.Submission, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sink: sqlite store is not configured")
	}
	query := `SELECT id, name, email, message, submitted_at FROM submissions ORDER BY submitted_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sink: list submissions: %w", err)
	}
	defer rows.Close()

	var out []model.Submission
	for rows.Next() {
		var (
			sub    model.Submission
			millis int64
		)
		if err := rows.Scan(&sub.ID, &sub.State.Name, &sub.State.Email, &sub.State.Message, &millis); err != nil {
			return nil, fmt.Errorf("sink: scan submission: %w", err)
		}
		sub.SubmittedAt = fromMillis(millis)
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sink: iterate submissions: %w", err)
	}
	return out, nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
