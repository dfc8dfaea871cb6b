package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Document keys. The _v1 suffix is part of the stored key, not a schema version.
const (
	KeyBoards  = "prod_boards_v1"
	KeyTeams   = "prod_teams_v1"
	KeyRewards = "prod_rewards_v1"
)

// Keys lists every document key
var Keys = []string{KeyBoards, KeyTeams, KeyRewards}

// Get returns the raw stored value for key. ok is false when the key is missing.
func (db *DB) Get(key string) (value string, ok bool, err error) {
	err = db.QueryRow(`SELECT value FROM documents WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read document %s: %w", key, err)
	}
	return value, true, nil
}

// ErrNoDocument is returned by Dump for keys that were never written
var ErrNoDocument = errors.New("no such document")

// Dump returns the raw JSON stored under key
func (db *DB) Dump(key string) (string, error) {
	value, ok, err := db.Get(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%s: %w", key, ErrNoDocument)
	}
	return value, nil
}

// Put overwrites the raw value stored under key
func (db *DB) Put(key, value string) error {
	return put(db.DB, key, value)
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func put(e execer, key, value string) error {
	_, err := e.Exec(`
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", key, err)
	}
	return nil
}

// SaveDocument serializes value and overwrites the document stored under key
func SaveDocument[T any](db *DB, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", key, err)
	}
	return db.Put(key, string(data))
}

// SaveDocuments overwrites several documents in one transaction
func (db *DB) SaveDocuments(docs map[string]any) error {
	encoded := make(map[string]string, len(docs))
	for key, value := range docs {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode document %s: %w", key, err)
		}
		encoded[key] = string(data)
	}

	return db.Transaction(func(tx *sql.Tx) error {
		for key, value := range encoded {
			if err := put(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadDocument reads and decodes the document stored under key.
//
// A missing document is replaced by seed() which is persisted before being
// returned. A document that cannot be read or decoded yields the zero value
// and is left untouched in storage. LoadDocument never fails.
func LoadDocument[T any](db *DB, key string, seed func() T) T {
	var zero T

	raw, ok, err := db.Get(key)
	if err != nil {
		db.log.Warn().Err(err).Str("key", key).Msg("document read failed, using default")
		return zero
	}

	if !ok {
		value := seed()
		if err := SaveDocument(db, key, value); err != nil {
			db.log.Warn().Err(err).Str("key", key).Msg("failed to persist seed")
		}
		return value
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		db.log.Warn().Err(err).Str("key", key).Msg("malformed document, using default")
		return zero
	}
	return value
}
