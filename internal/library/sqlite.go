package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/example/papers/internal/shape"
)

// SQLite persists the library in a single sqlite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS folders (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			folder_id TEXT NOT NULL REFERENCES folders(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			shapes TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS papers_folder ON papers(folder_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load reads every folder and paper.
func (s *SQLite) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM folders ORDER BY created_at`)
	if err != nil {
		return snap, fmt.Errorf("query folders: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f Folder
		var created, updated string
		if err := rows.Scan(&f.ID, &f.Name, &created, &updated); err != nil {
			return snap, fmt.Errorf("scan folder: %w", err)
		}
		if f.CreatedAt, err = parseTime(created); err != nil {
			return snap, err
		}
		if f.UpdatedAt, err = parseTime(updated); err != nil {
			return snap, err
		}
		snap.Folders = append(snap.Folders, f)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("read folders: %w", err)
	}

	prows, err := s.db.QueryContext(ctx, `SELECT id, folder_id, name, shapes, created_at, updated_at FROM papers ORDER BY created_at`)
	if err != nil {
		return snap, fmt.Errorf("query papers: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var p Paper
		var raw, created, updated string
		if err := prows.Scan(&p.ID, &p.FolderID, &p.Name, &raw, &created, &updated); err != nil {
			return snap, fmt.Errorf("scan paper: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &p.Shapes); err != nil {
			return snap, fmt.Errorf("decode shapes of %s: %w", p.ID, err)
		}
		if p.Shapes == nil {
			p.Shapes = []shape.Shape{}
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return snap, err
		}
		if p.UpdatedAt, err = parseTime(updated); err != nil {
			return snap, err
		}
		snap.Papers = append(snap.Papers, p)
	}
	if err := prows.Err(); err != nil {
		return snap, fmt.Errorf("read papers: %w", err)
	}
	return snap, nil
}

// Save replaces the stored library with snap in one transaction.
func (s *SQLite) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM papers`); err != nil {
		return fmt.Errorf("clear papers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM folders`); err != nil {
		return fmt.Errorf("clear folders: %w", err)
	}
	for _, f := range snap.Folders {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO folders (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			f.ID, f.Name, formatTime(f.CreatedAt), formatTime(f.UpdatedAt)); err != nil {
			return fmt.Errorf("insert folder %s: %w", f.ID, err)
		}
	}
	for _, p := range snap.Papers {
		shapes := p.Shapes
		if shapes == nil {
			shapes = []shape.Shape{}
		}
		raw, err := json.Marshal(shapes)
		if err != nil {
			return fmt.Errorf("encode shapes of %s: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO papers (id, folder_id, name, shapes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.FolderID, p.Name, string(raw), formatTime(p.CreatedAt), formatTime(p.UpdatedAt)); err != nil {
			return fmt.Errorf("insert paper %s: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
