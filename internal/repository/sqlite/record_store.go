package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// RecordStore implements repository.RecordStore on the records table
type RecordStore struct {
	db *DB
}

// NewRecordStore creates a new RecordStore
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

// Open opens the database at path, migrates it and returns the store
func Open(path string) (*RecordStore, error) {
	db, err := New(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return NewRecordStore(db), nil
}

// Get retrieves a record by key. A missing key is not an error.
func (s *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM records WHERE key = ?`
	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set replaces or creates a record
func (s *RecordStore) Set(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO records (key, value, updated_at, version) VALUES (?, ?, CURRENT_TIMESTAMP, 1)
			  ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP, version = records.version + 1`
	_, err := s.db.ExecContext(ctx, query, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to set record %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database
func (s *RecordStore) Close() error {
	return s.db.Close()
}
