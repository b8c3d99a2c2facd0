// Package sqlite implements metastore.Store on SQLite through
// modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-posttypes/pkg/metastore"
)

//go:embed schema.sql
var schemaSQL string

// Store persists meta values in a post_meta table.
type Store struct {
	db *sql.DB
}

var _ metastore.Store = (*Store)(nil)

// Open opens (or creates) the database at path and applies the schema. Use
// ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("metastore/sqlite: open %s: %w", path, err)
	}
	// A :memory: database lives per connection.
	db.SetMaxOpenConns(1)

	store, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing handle and applies the schema.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("metastore/sqlite: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the values stored under key in insertion order.
func (s *Store) Get(ctx context.Context, postID int64, key string) ([]string, error) {
	if key == "" {
		return nil, metastore.ErrInvalidKey
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT meta_value FROM post_meta WHERE post_id = ? AND meta_key = ? ORDER BY position`,
		postID, key)
	if err != nil {
		return nil, fmt.Errorf("metastore/sqlite: get %s: %w", key, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("metastore/sqlite: scan %s: %w", key, err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

// Set replaces the values stored under key in one transaction.
func (s *Store) Set(ctx context.Context, postID int64, key string, values ...string) error {
	if key == "" {
		return metastore.ErrInvalidKey
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("metastore/sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM post_meta WHERE post_id = ? AND meta_key = ?`, postID, key); err != nil {
		return fmt.Errorf("metastore/sqlite: clear %s: %w", key, err)
	}
	for position, value := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_meta (post_id, meta_key, position, meta_value) VALUES (?, ?, ?, ?)`,
			postID, key, position, value); err != nil {
			return fmt.Errorf("metastore/sqlite: insert %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("metastore/sqlite: commit: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, postID int64, key string) error {
	return s.Set(ctx, postID, key)
}

// Keys lists the keys stored for postID.
func (s *Store) Keys(ctx context.Context, postID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT meta_key FROM post_meta WHERE post_id = ? ORDER BY meta_key`, postID)
	if err != nil {
		return nil, fmt.Errorf("metastore/sqlite: keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("metastore/sqlite: scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
