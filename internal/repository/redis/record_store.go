// Package redis provides a Redis backed record store
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Options configures the Redis connection
type Options struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RecordStore keeps each record under "<prefix><key>" with no expiry
type RecordStore struct {
	rdb    *goredis.Client
	prefix string
}

// Open connects to Redis and verifies the connection
func Open(ctx context.Context, opts Options) (*RecordStore, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return NewRecordStore(rdb, opts.KeyPrefix), nil
}

// NewRecordStore wraps an existing client
func NewRecordStore(rdb *goredis.Client, prefix string) *RecordStore {
	return &RecordStore{rdb: rdb, prefix: prefix}
}

func (s *RecordStore) key(k string) string { return s.prefix + k }

func (s *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", key, err)
	}
	return b, nil
}

func (s *RecordStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set record %s: %w", key, err)
	}
	return nil
}

func (s *RecordStore) Close() error {
	return s.rdb.Close()
}
