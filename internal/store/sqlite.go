// Package store maintains a queryable SQLite index of the entry keys in
// the local BibTeX files. The files stay the source of truth; the index
// is an ephemeral cache rebuilt with `citefetch index`.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Entry is one indexed BibTeX entry key.
type Entry struct {
	Key      string `json:"key"`
	Provider string `json:"provider"`
	File     string `json:"file"`
}

// DB wraps the SQLite key-index connection.
type DB struct {
	db *sql.DB
}

// Open opens or creates the key index at path, creating parent
// directories as needed.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening key index: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the index.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS keys (
			key TEXT PRIMARY KEY,
			provider TEXT NOT NULL,
			file TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_keys_provider ON keys(provider);
	`
	_, err := db.Exec(schema)
	return err
}

// Rebuild clears the index and inserts the given entries in one
// transaction. Returns the number of entries inserted.
func (d *DB) Rebuild(entries []Entry) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM keys"); err != nil {
		return 0, fmt.Errorf("clearing keys table: %w", err)
	}

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO keys (key, provider, file) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, e := range entries {
		if _, err := stmt.Exec(e.Key, e.Provider, e.File); err != nil {
			return 0, fmt.Errorf("inserting %s: %w", e.Key, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return count, nil
}

// List returns indexed entries, optionally filtered by provider name,
// ordered by key.
func (d *DB) List(providerName string) ([]Entry, error) {
	query := "SELECT key, provider, file FROM keys ORDER BY key"
	args := []interface{}{}
	if providerName != "" {
		query = "SELECT key, provider, file FROM keys WHERE provider = ? ORDER BY key"
		args = append(args, providerName)
	}
	return d.queryEntries(query, args...)
}

// Search returns entries whose key contains the given substring, ordered
// by key.
func (d *DB) Search(substr string) ([]Entry, error) {
	pattern := "%" + escapeLike(substr) + "%"
	return d.queryEntries(
		`SELECT key, provider, file FROM keys WHERE key LIKE ? ESCAPE '\' ORDER BY key`,
		pattern,
	)
}

// Count returns the number of indexed keys.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM keys").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting keys: %w", err)
	}
	return n, nil
}

func (d *DB) queryEntries(query string, args ...interface{}) ([]Entry, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Provider, &e.File); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// escapeLike escapes LIKE metacharacters in a user-supplied substring.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
