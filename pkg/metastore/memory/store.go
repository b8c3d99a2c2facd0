// Package memory provides an in-process metastore.Store.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/goliatone/go-posttypes/pkg/metastore"
)

type entryKey struct {
	postID int64
	key    string
}

// Store is a mutex-guarded map implementation of metastore.Store.
type Store struct {
	mu     sync.RWMutex
	values map[entryKey][]string
}

var _ metastore.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[entryKey][]string)}
}

// Get returns a copy of the values stored under key.
func (s *Store) Get(ctx context.Context, postID int64, key string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, metastore.ErrInvalidKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.values[entryKey{postID, key}]), nil
}

// Set replaces the values stored under key.
func (s *Store) Set(ctx context.Context, postID int64, key string, values ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return metastore.ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(values) == 0 {
		delete(s.values, entryKey{postID, key})
		return nil
	}
	s.values[entryKey{postID, key}] = slices.Clone(values)
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, postID int64, key string) error {
	return s.Set(ctx, postID, key)
}

// Keys lists the keys stored for postID.
func (s *Store) Keys(ctx context.Context, postID int64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.values {
		if k.postID == postID {
			keys = append(keys, k.key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}
