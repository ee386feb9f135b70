// Package history owns the persistent visit log. Visits are stored in
// a local SQLite database shared by the browser's history command and
// the portal's visit audit endpoints.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = errors.New("history: visit not found")
	ErrNoPath   = errors.New("history: database path is required")
)

// Visit is one recorded page fetch.
type Visit struct {
	ID        string
	URL       string
	Status    int
	Meta      string
	FetchedAt time.Time
}

// Store is a SQLite-backed visit log.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the visit database at path and runs
// migrations. The special path ":memory:" opens a private in-memory
// database for tests.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, ErrNoPath
	}

	connStr := path
	if path != ":memory:" {
		// WAL mode allows concurrent readers alongside the writer.
		connStr += "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_foreign_keys=ON"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	if path == ":memory:" {
		// A wider pool would give each connection its own empty database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: connect: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS visits (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			status INTEGER NOT NULL,
			meta TEXT,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_fetched_at
			ON visits(fetched_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("history: migration failed: %w", err)
		}
	}
	return nil
}

// Record inserts a visit. A missing ID gets a fresh uuid and a zero
// FetchedAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, v *Visit) error {
	if v == nil {
		return errors.New("history: visit cannot be nil")
	}
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.FetchedAt.IsZero() {
		v.FetchedAt = time.Now()
	}

	query := `INSERT INTO visits (id, url, status, meta, fetched_at)
	          VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		v.ID,
		v.URL,
		v.Status,
		v.Meta,
		v.FetchedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("history: record visit: %w", err)
	}
	return nil
}

// Recent returns up to n visits, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Visit, error) {
	query := `SELECT id, url, status, meta, fetched_at
	          FROM visits
	          ORDER BY fetched_at DESC, rowid DESC
	          LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("history: list visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		v, err := scanVisit(rows.Scan)
		if err != nil {
			return nil, err
		}
		visits = append(visits, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate visits: %w", err)
	}
	return visits, nil
}

// Get returns the visit with the given id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Visit, error) {
	query := `SELECT id, url, status, meta, fetched_at
	          FROM visits WHERE id = ?`

	v, err := scanVisit(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// Purge deletes every visit and reports how many rows were removed.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visits`)
	if err != nil {
		return 0, fmt.Errorf("history: purge visits: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("history: purge visits: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanVisit(scan func(...any) error) (*Visit, error) {
	var v Visit
	var fetchedAt string

	if err := scan(&v.ID, &v.URL, &v.Status, &v.Meta, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("history: scan visit: %w", err)
	}
	v.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
	return &v, nil
}
