// Package history keeps the local list of submitted pull requests.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		package_id TEXT NOT NULL,
		version TEXT NOT NULL,
		pr_url TEXT NOT NULL UNIQUE,
		login TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS submissions_created_at ON submissions (created_at);
`

// timeLayout is fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one submitted pull request.
type Entry struct {
	ID        string
	PackageID string
	Version   string
	PRURL     string
	User      string
	CreatedAt time.Time
}

// Store is a sqlite-backed submission history, listed newest first.
type Store struct {
	db  *sql.DB
	log *clog.Logger
	now func() time.Time
}

// Open opens (creating if needed) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{
		db:  db,
		log: clog.Default().WithPrefix("history"),
		now: time.Now,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Add records a submission. An entry whose PR URL is already known is ignored.
// Returns whether a row was inserted.
func (s *Store) Add(ctx context.Context, e Entry) (bool, error) {
	if e.PRURL == "" {
		return false, fmt.Errorf("history entry for %s %s has no pull request url", e.PackageID, e.Version)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO submissions (id, package_id, version, pr_url, login, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.PackageID, e.Version, e.PRURL, e.User, e.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return false, fmt.Errorf("failed to add history entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to add history entry: %w", err)
	}
	s.log.Debug("History entry added", "url", e.PRURL, "inserted", n > 0)
	return n > 0, nil
}

// Merge adds every entry not already present and returns how many were new.
func (s *Store) Merge(ctx context.Context, entries []Entry) (int, error) {
	added := 0
	for _, e := range entries {
		ok, err := s.Add(ctx, e)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// List returns entries newest first. limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, package_id, version, pr_url, login, created_at FROM submissions ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.PackageID, &e.Version, &e.PRURL, &e.User, &created); err != nil {
			return nil, fmt.Errorf("failed to read history row: %w", err)
		}
		e.CreatedAt, err = time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("failed to parse history timestamp %q: %w", created, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// URLs returns the pull request URLs of the newest limit entries.
func (s *Store) URLs(ctx context.Context, limit int) ([]string, error) {
	entries, err := s.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	urls := make([]string, len(entries))
	for i, e := range entries {
		urls[i] = e.PRURL
	}
	return urls, nil
}

// Clear removes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM submissions`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}
