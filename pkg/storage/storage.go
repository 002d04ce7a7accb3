package storage

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

// Backend is a key-value store holding serialized snapshots.
type Backend interface {
	// Get returns the value under key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put overwrites the value under key.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// DB is a Backend persisted in a SQLite file.
type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
    `); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

func (d *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := d.sql.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// Put replaces the value under key in a single statement, so a snapshot is
// either fully written or not at all.
func (d *DB) Put(ctx context.Context, key string, value []byte) error {
	_, err := d.sql.ExecContext(ctx, `INSERT INTO kv(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, key, string(value))
	return err
}
