package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNoSnapshot is returned when nothing was cached under a name.
var ErrNoSnapshot = errors.New("no snapshot")

// PutSnapshot caches the JSON encoding of v under name.
func (db *DB) PutSnapshot(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", name, err)
	}
	_, err = db.Exec(`
		INSERT INTO snapshots (name, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		name, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", name, err)
	}
	return nil
}

// GetSnapshot decodes the cached value into v and returns when it was fetched.
func (db *DB) GetSnapshot(name string, v interface{}) (time.Time, error) {
	var payload, fetched string
	err := db.QueryRow(`SELECT payload, fetched_at FROM snapshots WHERE name = ?`, name).Scan(&payload, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode snapshot %s: %w", name, err)
	}
	at, _ := time.Parse(time.RFC3339, fetched)
	return at, nil
}
