package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists cache entries across process restarts. Use ":memory:"
// for an ephemeral store in tests.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS parse_cache (
		key    TEXT PRIMARY KEY,
		value  BLOB NOT NULL,
		expiry INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string) ([]byte, time.Time, error) {
	var value []byte
	var expiryUnix int64
	err := s.db.QueryRow(`SELECT value, expiry FROM parse_cache WHERE key = ?`, key).Scan(&value, &expiryUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, fmt.Errorf("cache key not found: %s", key)
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return value, time.Unix(expiryUnix, 0), nil
}

func (s *SQLiteStore) Put(key string, value []byte, expiry time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO parse_cache (key, value, expiry) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expiry = excluded.expiry`,
		key, value, expiry.Unix(),
	)
	return err
}

func (s *SQLiteStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM parse_cache WHERE key = ?`, key)
	return err
}

// Prune removes expired rows; callers may run it periodically.
func (s *SQLiteStore) Prune() error {
	_, err := s.db.Exec(`DELETE FROM parse_cache WHERE expiry < ?`, time.Now().Unix())
	return err
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
