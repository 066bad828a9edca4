// Package memory provides an in-process record store for tests and demos
package memory

import (
	"context"
	"sync"
)

// RecordStore keeps records in a map. Values are copied on the way in and out.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewRecordStore creates an empty store
func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[string][]byte)}
}

func (s *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *RecordStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = append([]byte(nil), value...)
	return nil
}

func (s *RecordStore) Close() error { return nil }
