// Package kv implements the repositories on top of a RecordStore. Each
// collection is one JSON array stored under its key and rewritten whole.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"garagepro/internal/repository"
)

// collection serializes every read-modify-write of one key
type collection[T any] struct {
	store repository.RecordStore
	key   string
	idOf  func(*T) string
	mu    sync.Mutex
}

func newCollection[T any](store repository.RecordStore, key string, idOf func(*T) string) *collection[T] {
	return &collection[T]{store: store, key: key, idOf: idOf}
}

// load must be called with mu held
func (c *collection[T]) load(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// save must be called with mu held
func (c *collection[T]) save(ctx context.Context, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	return c.store.Set(ctx, c.key, raw)
}

// all returns a snapshot of the collection
func (c *collection[T]) all(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// find returns the item with id, or nil
func (c *collection[T]) find(ctx context.Context, id string) (*T, error) {
	items, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if c.idOf(&items[i]) == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

// update loads the collection, applies fn and saves the result unless fn fails
func (c *collection[T]) update(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return c.save(ctx, items)
}

func (c *collection[T]) ids(items []T) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = c.idOf(&items[i])
	}
	return out
}

func (c *collection[T]) indexOf(items []T, id string) int {
	for i := range items {
		if c.idOf(&items[i]) == id {
			return i
		}
	}
	return -1
}
