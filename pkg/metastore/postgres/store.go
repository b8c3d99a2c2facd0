// Package postgres implements metastore.Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goliatone/go-posttypes/pkg/metastore"
)

// Schema creates the post_meta table.
const Schema = `
CREATE TABLE IF NOT EXISTS post_meta (
	post_id    BIGINT  NOT NULL,
	meta_key   TEXT    NOT NULL,
	position   INTEGER NOT NULL,
	meta_value TEXT    NOT NULL,
	PRIMARY KEY (post_id, meta_key, position)
)`

// DBTX is the subset of pgxpool.Pool the store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ DBTX = (*pgxpool.Pool)(nil)

// Store persists meta values in a post_meta table.
type Store struct {
	db DBTX
}

var _ metastore.Store = (*Store)(nil)

// Connect opens a pool for connString and applies Schema.
func Connect(ctx context.Context, connString string) (*Store, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, nil, fmt.Errorf("metastore/postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("metastore/postgres: ping: %w", err)
	}
	store := New(pool)
	if err := store.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool, nil
}

// New wraps db without touching the schema.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("metastore/postgres: apply schema: %w", err)
	}
	return nil
}

// Get returns the values stored under key in insertion order.
func (s *Store) Get(ctx context.Context, postID int64, key string) ([]string, error) {
	if key == "" {
		return nil, metastore.ErrInvalidKey
	}
	rows, err := s.db.Query(ctx,
		`SELECT meta_value FROM post_meta WHERE post_id = $1 AND meta_key = $2 ORDER BY position`,
		postID, key)
	if err != nil {
		return nil, fmt.Errorf("metastore/postgres: get %s: %w", key, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("metastore/postgres: scan %s: %w", key, err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

// Set replaces the values stored under key in one transaction.
func (s *Store) Set(ctx context.Context, postID int64, key string, values ...string) error {
	if key == "" {
		return metastore.ErrInvalidKey
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("metastore/postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM post_meta WHERE post_id = $1 AND meta_key = $2`, postID, key); err != nil {
		return fmt.Errorf("metastore/postgres: clear %s: %w", key, err)
	}
	if len(values) > 0 {
		rows := make([][]any, 0, len(values))
		for position, value := range values {
			rows = append(rows, []any{postID, key, position, value})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"post_meta"},
			[]string{"post_id", "meta_key", "position", "meta_value"},
			pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("metastore/postgres: insert %s: %w", key, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("metastore/postgres: commit: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, postID int64, key string) error {
	return s.Set(ctx, postID, key)
}

// Keys lists the keys stored for postID.
func (s *Store) Keys(ctx context.Context, postID int64) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT DISTINCT meta_key FROM post_meta WHERE post_id = $1 ORDER BY meta_key`, postID)
	if err != nil {
		return nil, fmt.Errorf("metastore/postgres: keys: %w", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("metastore/postgres: scan keys: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	return keys, nil
}
