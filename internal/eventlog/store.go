// Package eventlog persists recognized and rejected gestures to SQLite
// for the web UI history view and for threshold tuning.
package eventlog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry kinds.
const (
	KindGesture  = "gesture"
	KindRejected = "rejected"
)

// Entry is one row of the gesture history.
type Entry struct {
	ID               string `json:"id"`
	CreatedAt        int64  `json:"created_at"`
	TimeMS           int64  `json:"time_ms"`
	Kind             string `json:"kind"`
	Gesture          string `json:"gesture,omitempty"`
	Reason           string `json:"reason,omitempty"`
	DurationMS       int64  `json:"duration_ms,omitempty"`
	Samples          int    `json:"samples,omitempty"`
	MaxSwingMM       int    `json:"max_swing_mm,omitempty"`
	PeakVelocityMMPS int    `json:"peak_velocity_mmps,omitempty"`
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	time_ms INTEGER NOT NULL,
	kind TEXT NOT NULL,
	gesture TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	samples INTEGER NOT NULL DEFAULT 0,
	max_swing_mm INTEGER NOT NULL DEFAULT 0,
	peak_velocity_mmps INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at DESC);
`

// Open opens (creating if needed) the event database at path. Use
// ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open event log %q: %w", path, err)
	}
	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY on concurrent inserts.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("event log schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Insert writes one entry. CreatedAt is stamped here if unset.
func (s *Store) Insert(e Entry) error {
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UnixMilli()
	}
	_, err := s.db.Exec(`
		INSERT INTO events (id, created_at, time_ms, kind, gesture, reason,
			duration_ms, samples, max_swing_mm, peak_velocity_mmps)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt, e.TimeMS, e.Kind, e.Gesture, e.Reason,
		e.DurationMS, e.Samples, e.MaxSwingMM, e.PeakVelocityMMPS)
	if err != nil {
		return fmt.Errorf("event log insert: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, time_ms, kind, gesture, reason,
			duration_ms, samples, max_swing_mm, peak_velocity_mmps
		FROM events ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("event log query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.TimeMS, &e.Kind, &e.Gesture,
			&e.Reason, &e.DurationMS, &e.Samples, &e.MaxSwingMM, &e.PeakVelocityMMPS); err != nil {
			return nil, fmt.Errorf("event log scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("event log rows: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
