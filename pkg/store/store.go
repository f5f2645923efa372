// Package store persists the material table and a history of compile runs
// in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/chazu/swarf/pkg/blackbook"
)

// ErrEmpty is returned by Book when no materials have been stored.
var ErrEmpty = errors.New("store: material table is empty")

// timeFormat is fixed width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a SQLite-backed material table and run log.
type Store struct {
	db      *sql.DB
	entropy *rand.Rand
}

// Run is one recorded compilation.
type Run struct {
	ID        string
	Input     string
	Post      string
	Lines     int
	Warnings  int
	Errors    int
	CreatedAt time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS materials (
		name       TEXT PRIMARY KEY,
		category   TEXT NOT NULL,
		body       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_materials_category ON materials(category);

	CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		input      TEXT NOT NULL,
		post       TEXT NOT NULL,
		lines      INTEGER NOT NULL DEFAULT 0,
		warnings   INTEGER NOT NULL DEFAULT 0,
		errors     INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ---------------------------------------------------------------------------
// Materials
// ---------------------------------------------------------------------------

// SeedMaterials inserts every material not already present and returns how
// many were added. Existing rows are left alone so local edits survive a
// reseed.
func (s *Store) SeedMaterials(ctx context.Context, ms []*blackbook.Material) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	added := 0
	for _, m := range ms {
		body, err := json.Marshal(m)
		if err != nil {
			return 0, fmt.Errorf("encode %s: %w", m.Name, err)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO materials (name, category, body, updated_at) VALUES (?, ?, ?, ?)`,
			m.Name, m.Category.String(), string(body), now)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", m.Name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// PutMaterial inserts or replaces one material.
func (s *Store) PutMaterial(ctx context.Context, m *blackbook.Material) error {
	if m == nil || m.Name == "" {
		return errors.New("store: material needs a name")
	}
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.Name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO materials (name, category, body, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET category = excluded.category, body = excluded.body, updated_at = excluded.updated_at`,
		m.Name, m.Category.String(), string(body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put material %s: %w", m.Name, err)
	}
	return nil
}

// Materials lists stored materials sorted by name. A non-empty category
// restricts the listing to that category.
func (s *Store) Materials(ctx context.Context, category string) ([]*blackbook.Material, error) {
	q := `SELECT body FROM materials`
	var args []any
	if category != "" {
		c, err := blackbook.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		q += ` WHERE category = ?`
		args = append(args, c.String())
	}
	q += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	var out []*blackbook.Material
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		m := new(blackbook.Material)
		if err := json.Unmarshal([]byte(body), m); err != nil {
			return nil, fmt.Errorf("decode material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Book builds a material book from the stored table.
func (s *Store) Book(ctx context.Context) (*blackbook.Book, error) {
	ms, err := s.Materials(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return nil, ErrEmpty
	}
	return blackbook.NewFromMaterials(ms), nil
}

// ---------------------------------------------------------------------------
// Runs
// ---------------------------------------------------------------------------

// RecordRun stores a compile run, assigning its ID and timestamp.
func (s *Store) RecordRun(ctx context.Context, r Run) (Run, error) {
	r.ID = s.newID()
	r.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input, post, lines, warnings, errors, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Input, r.Post, r.Lines, r.Warnings, r.Errors, r.CreatedAt.Format(timeFormat))
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return r, nil
}

// Runs returns the most recent runs, newest first. A limit of zero or
// less returns all of them.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT id, input, post, lines, warnings, errors, created_at FROM runs ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Input, &r.Post, &r.Lines, &r.Warnings, &r.Errors, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(timeFormat, created)
		out = append(out, r)
	}
	return out, rows.Err()
}
