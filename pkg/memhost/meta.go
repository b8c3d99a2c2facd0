package memhost

import (
	"context"
	"fmt"
)

// PostMeta reads every value stored under key for postID.
func (s *Site) PostMeta(ctx context.Context, postID int64, key string) ([]string, error) {
	values, err := s.store.Get(ctx, postID, key)
	if err != nil {
		return nil, fmt.Errorf("memhost: read meta %q for post %d: %w", key, postID, err)
	}
	return values, nil
}

// UpdatePostMeta replaces the values stored under key for postID.
func (s *Site) UpdatePostMeta(ctx context.Context, postID int64, key string, values ...string) error {
	if err := s.store.Set(ctx, postID, key, values...); err != nil {
		return fmt.Errorf("memhost: update meta %q for post %d: %w", key, postID, err)
	}
	s.logger.DebugContext(ctx, "post meta updated", "post_id", postID, "key", key, "values", len(values))
	return nil
}
