// Package metastore defines the persistence contract behind host meta
// storage. Implementations live in sub-packages: memory, sqlite, postgres.
package metastore

import (
	"context"
	"errors"
)

// ErrInvalidKey is returned for empty meta keys.
var ErrInvalidKey = errors.New("metastore: meta key is required")

// Store keeps ordered string values per (post, key). A missing key reads as
// no values.
type Store interface {
	Get(ctx context.Context, postID int64, key string) ([]string, error)
	// Set replaces every value stored under key. Setting no values deletes
	// the key.
	Set(ctx context.Context, postID int64, key string, values ...string) error
	Delete(ctx context.Context, postID int64, key string) error
	// Keys lists the keys stored for postID in sorted order.
	Keys(ctx context.Context, postID int64) ([]string, error)
}
