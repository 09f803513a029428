// Package store handles SQLite persistence of the reading history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/fltrdr/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for reading sessions.
type Store struct {
	db *sql.DB
}

// busyTimeoutMs lets a second reader process finish its history write
// instead of failing with SQLITE_BUSY.
const busyTimeoutMs = 5000

// Open creates the database directory and file when missing and brings the
// schema up to date.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", path, busyTimeoutMs)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	st := &Store{db: db}
	if err := st.migrate(context.Background()); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return st, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrations holds one statement list per schema version; the stored
// PRAGMA user_version counts the applied entries.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			file TEXT NOT NULL,
			words INTEGER NOT NULL,
			active_ms INTEGER NOT NULL,
			average_wpm INTEGER NOT NULL,
			progress INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_file ON sessions(file);`,
	},
}

// migrate applies every migration step newer than the stored user_version.
func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("schema version %d is newer than supported %d", version, len(migrations))
	}
	for v := version; v < len(migrations); v++ {
		for _, stmt := range migrations[v] {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, v+1)); err != nil {
			return fmt.Errorf("failed to store schema version: %w", err)
		}
	}
	return nil
}

// InsertSession stores a finished reading session.
func (s *Store) InsertSession(ctx context.Context, rs model.ReadingSession) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, file, words, active_ms, average_wpm, progress)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rs.StartedAt.Format(time.RFC3339Nano),
		rs.EndedAt.Format(time.RFC3339Nano),
		rs.File,
		rs.Words,
		rs.ActiveMs,
		rs.AverageWPM,
		rs.Progress,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessions returns sessions matching the filter, oldest first. With a
// positive Last only the most recent sessions are returned.
func (s *Store) ListSessions(ctx context.Context, filter model.HistoryFilter) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.File != "" {
		clauses = append(clauses, "file = ?")
		args = append(args, filter.File)
	}
	limit := ""
	if filter.Last > 0 {
		limit = "LIMIT ?"
		args = append(args, filter.Last)
	}
	query := fmt.Sprintf(`SELECT id, ended_at, file, words, active_ms, average_wpm, progress FROM (
		SELECT * FROM sessions
		WHERE %s
		ORDER BY ended_at DESC, id DESC
		%s
	) ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "), limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.File, &agg.Words, &agg.ActiveMs, &agg.AverageWPM, &agg.Progress); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListFiles returns per-file totals across all sessions, most recent first.
func (s *Store) ListFiles(ctx context.Context) ([]model.FileAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file, COUNT(*), SUM(words), SUM(active_ms), MAX(progress), MAX(ended_at)
		 FROM sessions
		 GROUP BY file
		 ORDER BY MAX(ended_at) DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.FileAggregate
	for rows.Next() {
		var agg model.FileAggregate
		var lastRead string
		if err := rows.Scan(&agg.File, &agg.Sessions, &agg.Words, &agg.ActiveMs, &agg.Progress, &lastRead); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, lastRead)
		if err != nil {
			return nil, err
		}
		agg.LastRead = parsed
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
