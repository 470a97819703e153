package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
}

// New opens the SQLite database at the given path.
// Use ":memory:" for an in-memory database (tests).
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer. A single pooled connection avoids
	// SQLITE_BUSY under concurrent handlers and keeps :memory: databases
	// from being split across connections.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

// Initialize creates all required tables
func (db *DB) Initialize() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS callers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			phone TEXT,
			name TEXT,
			metadata TEXT
		);

		CREATE TABLE IF NOT EXISTS help_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			caller_id INTEGER,
			question_text TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			timeout_at DATETIME,
			supervisor_id TEXT,
			resolution_text TEXT,
			FOREIGN KEY (caller_id) REFERENCES callers(id)
		);

		CREATE INDEX IF NOT EXISTS idx_help_requests_status ON help_requests(status);

		CREATE TABLE IF NOT EXISTS knowledge_base (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question_pattern TEXT,
			answer_text TEXT,
			created_from_request_id INTEGER,
			created_at DATETIME,
			FOREIGN KEY (created_from_request_id) REFERENCES help_requests(id)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Println("✅ Database initialized")
	return nil
}
