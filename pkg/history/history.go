// Package history persists conversation transcripts per chat so the reply
// provider can see recent context across restarts.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nkval/teleclaw/pkg/providers"
)

// Store is a SQLite-backed transcript store. Methods are safe for sequential
// use from a single goroutine; database/sql handles its own pooling.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the transcript database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS transcript (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id    INTEGER NOT NULL,
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_transcript_chat ON transcript(chat_id, id);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Append records one transcript turn for a chat.
func (s *Store) Append(chatID int64, role, content string) error {
	_, err := s.db.Exec(
		`INSERT INTO transcript (chat_id, role, content) VALUES (?, ?, ?)`,
		chatID, role, content,
	)
	if err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}

// Recent returns up to limit most recent turns for a chat, oldest first.
func (s *Store) Recent(chatID int64, limit int) ([]providers.Turn, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT role, content FROM (
			SELECT id, role, content FROM transcript
			WHERE chat_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		chatID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	defer rows.Close()

	var turns []providers.Turn
	for rows.Next() {
		var t providers.Turn
		if err := rows.Scan(&t.Role, &t.Content); err != nil {
			return nil, fmt.Errorf("scan transcript row: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Clear removes all turns for a chat.
func (s *Store) Clear(chatID int64) error {
	if _, err := s.db.Exec(`DELETE FROM transcript WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
