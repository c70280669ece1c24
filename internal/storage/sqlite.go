package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

// SQLiteStore keeps one JSON document row per board context.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultDBPath resolves the on-disk database location. WHITEBOARD_DB
// overrides it.
func DefaultDBPath() string {
	if p := os.Getenv("WHITEBOARD_DB"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "whiteboard.sqlite"
	}
	return filepath.Join(home, ".jobzai", "whiteboard.sqlite")
}

// OpenSQLite opens (creating if needed) the board database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness with a second process.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS boards (
			context_key TEXT PRIMARY KEY,
			objects_json TEXT NOT NULL,
			canvas_json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		// Legacy tables from the note-list era. Created if absent so the
		// migration query below never fails on a fresh install.
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			context_key TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			x REAL,
			y REAL,
			color TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS note_connections (
			context_key TEXT NOT NULL,
			from_id TEXT NOT NULL,
			to_id TEXT NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := s.db.Exec(st); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Load returns the board for contextKey, or (nil, nil) when none exists.
// When only legacy note-list data exists it is migrated once, persisted,
// and the migrated board returned.
func (s *SQLiteStore) Load(ctx context.Context, contextKey string) (*BoardData, error) {
	var objectsJSON, canvasJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT objects_json, canvas_json FROM boards WHERE context_key = ?`,
		contextKey).Scan(&objectsJSON, &canvasJSON)
	switch {
	case err == nil:
		var data BoardData
		if err := json.Unmarshal([]byte(objectsJSON), &data.Objects); err != nil {
			return nil, fmt.Errorf("decode objects: %w", err)
		}
		if err := json.Unmarshal([]byte(canvasJSON), &data.Canvas); err != nil {
			return nil, fmt.Errorf("decode canvas: %w", err)
		}
		data.Canvas = data.Canvas.Clamped()
		return &data, nil
	case errors.Is(err, sql.ErrNoRows):
		return s.loadLegacy(ctx, contextKey)
	default:
		return nil, fmt.Errorf("load board: %w", err)
	}
}

// loadLegacy runs the one-time note-list migration. It only runs when no
// BoardData-format row exists yet; its result is saved immediately so the
// migration never re-runs for the context.
func (s *SQLiteStore) loadLegacy(ctx context.Context, contextKey string) (*BoardData, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, x, y, color FROM notes WHERE context_key = ? ORDER BY rowid`,
		contextKey)
	if err != nil {
		return nil, fmt.Errorf("load legacy notes: %w", err)
	}
	defer rows.Close()

	var notes []LegacyNote
	for rows.Next() {
		var n LegacyNote
		var x, y sql.NullFloat64
		var color sql.NullString
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &x, &y, &color); err != nil {
			return nil, fmt.Errorf("scan legacy note: %w", err)
		}
		if x.Valid {
			v := float32(x.Float64)
			n.X = &v
		}
		if y.Valid {
			v := float32(y.Float64)
			n.Y = &v
		}
		n.Color = color.String
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, nil
	}

	connRows, err := s.db.QueryContext(ctx,
		`SELECT from_id, to_id FROM note_connections WHERE context_key = ?`, contextKey)
	if err != nil {
		return nil, fmt.Errorf("load legacy connections: %w", err)
	}
	defer connRows.Close()
	var conns []LegacyConnection
	for connRows.Next() {
		var c LegacyConnection
		if err := connRows.Scan(&c.FromID, &c.ToID); err != nil {
			return nil, fmt.Errorf("scan legacy connection: %w", err)
		}
		conns = append(conns, c)
	}
	if err := connRows.Err(); err != nil {
		return nil, err
	}

	data := &BoardData{
		Objects: MigrateLegacy(notes, conns),
		Canvas:  geom.DefaultCanvas(),
	}
	log.Printf("[storage] migrated %d legacy notes, %d connections for %q",
		len(notes), len(conns), contextKey)
	if err := s.Save(ctx, contextKey, *data); err != nil {
		return nil, fmt.Errorf("persist migration: %w", err)
	}
	return data, nil
}

// Save upserts the whole board document. Idempotent and overwrite-whole.
func (s *SQLiteStore) Save(ctx context.Context, contextKey string, data BoardData) error {
	if data.Objects == nil {
		data.Objects = []state.Object{}
	}
	objectsJSON, err := json.Marshal(data.Objects)
	if err != nil {
		return fmt.Errorf("encode objects: %w", err)
	}
	canvasJSON, err := json.Marshal(data.Canvas)
	if err != nil {
		return fmt.Errorf("encode canvas: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO boards (context_key, objects_json, canvas_json, updated_at_unixms)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(context_key) DO UPDATE SET
			objects_json = excluded.objects_json,
			canvas_json = excluded.canvas_json,
			updated_at_unixms = excluded.updated_at_unixms`,
		contextKey, string(objectsJSON), string(canvasJSON), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
