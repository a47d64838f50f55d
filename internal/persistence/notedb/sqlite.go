package notedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"voxelcraft.ai/areas/internal/notes"
)

// SQLiteStore keeps note records in a single sqlite file. It implements
// notes.Store.
type SQLiteStore struct {
	db   *sql.DB
	once sync.Once
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS notes (
			name TEXT PRIMARY KEY,
			frame TEXT NOT NULL,
			encoding TEXT NOT NULL,
			flags_json TEXT NOT NULL DEFAULT '{}',
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_frame ON notes(frame);`,
		`INSERT OR IGNORE INTO meta(key, value) VALUES ('schema_version', '1');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	var err error
	s.once.Do(func() {
		err = s.db.Close()
	})
	return err
}

func frameOf(encoding string) string {
	for i := 0; i < len(encoding); i++ {
		if encoding[i] == ',' {
			return encoding[:i]
		}
	}
	return encoding
}

func (s *SQLiteStore) SaveNote(ctx context.Context, rec notes.Record) error {
	flags := string(rec.Flags)
	if flags == "" {
		flags = "{}"
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO notes(name, frame, encoding, flags_json, updated_at)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			frame=excluded.frame,
			encoding=excluded.encoding,
			flags_json=excluded.flags_json,
			updated_at=excluded.updated_at`,
		rec.Name, frameOf(rec.Encoding), rec.Encoding, flags, updated.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) DeleteNote(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE name=?`, name)
	return err
}

func (s *SQLiteStore) LoadNotes(ctx context.Context) ([]notes.Record, error) {
	return s.query(ctx, `SELECT name, encoding, flags_json, updated_at FROM notes ORDER BY name`)
}

// NotesInFrame lists the records whose areas live in frame.
func (s *SQLiteStore) NotesInFrame(ctx context.Context, frame string) ([]notes.Record, error) {
	return s.query(ctx, `SELECT name, encoding, flags_json, updated_at FROM notes WHERE frame=? ORDER BY name`, frame)
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]notes.Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []notes.Record
	for rows.Next() {
		var (
			rec     notes.Record
			flags   string
			updated string
		)
		if err := rows.Scan(&rec.Name, &rec.Encoding, &flags, &updated); err != nil {
			return nil, err
		}
		rec.Flags = []byte(flags)
		if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
			rec.UpdatedAt = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
