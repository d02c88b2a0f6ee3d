package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// The store is single-writer, single-reader per process run.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS diary_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			day INTEGER NOT NULL,
			content TEXT NOT NULL,
			entry_type TEXT NOT NULL,
			word_count INTEGER NOT NULL,
			file_source TEXT NOT NULL,
			summary TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (date, entry_type)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_diary_entries_year_month ON diary_entries (year, month);`,
		`CREATE INDEX IF NOT EXISTS idx_diary_entries_type ON diary_entries (entry_type);`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS diary_fts USING fts5(
			date UNINDEXED,
			content,
			file_source
		);`,
		`CREATE TABLE IF NOT EXISTS yearly_stats (
			year INTEGER PRIMARY KEY,
			total_entries INTEGER NOT NULL,
			total_words INTEGER NOT NULL,
			first_entry_date TEXT NOT NULL,
			last_entry_date TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
