package memhost

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-posttypes/pkg/host"
)

// HookAddMetaBoxes is fired, suffixed with "_<type>", while an edit screen is
// prepared.
const HookAddMetaBoxes = "add_meta_boxes"

type action struct {
	id string
	fn host.Hook
}

// AddAction registers fn under handlerID for hook. An existing handler with
// the same id keeps its position and is replaced.
func (s *Site) AddAction(hook, handlerID string, fn host.Hook) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	handlers := s.actions[hook]
	for i := range handlers {
		if handlers[i].id == handlerID {
			handlers[i].fn = fn
			return
		}
	}
	s.actions[hook] = append(handlers, action{id: handlerID, fn: fn})
}

// RemoveAction drops the handler registered under handlerID for hook.
func (s *Site) RemoveAction(hook, handlerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handlers := slices.DeleteFunc(s.actions[hook], func(a action) bool { return a.id == handlerID })
	if len(handlers) == 0 {
		delete(s.actions, hook)
		return
	}
	s.actions[hook] = handlers
}

// HasAction reports whether handlerID is registered for hook.
func (s *Site) HasAction(hook, handlerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.actions[hook], func(a action) bool { return a.id == handlerID })
}

// Actions lists the handler ids registered for hook in call order.
func (s *Site) Actions(hook string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.actions[hook]))
	for _, a := range s.actions[hook] {
		ids = append(ids, a.id)
	}
	return ids
}

// DoAction runs every handler registered for event.Hook in registration
// order. Handlers added or removed while running take effect on the next
// call. Every handler runs; their errors are joined.
func (s *Site) DoAction(ctx context.Context, event host.Event) error {
	s.mu.RLock()
	handlers := slices.Clone(s.actions[event.Hook])
	s.mu.RUnlock()

	var errs []error
	for _, a := range handlers {
		if err := a.fn(ctx, event); err != nil {
			s.logger.ErrorContext(ctx, "action handler failed", "hook", event.Hook, "handler", a.id, "error", err)
			errs = append(errs, fmt.Errorf("%s/%s: %w", event.Hook, a.id, err))
		}
	}
	return errors.Join(errs...)
}

// Init fires the init hook, which is where post types register themselves.
func (s *Site) Init(ctx context.Context) error {
	return s.DoAction(ctx, host.Event{Hook: host.HookInit})
}

// InsertPost stores post, assigning the next ID when post.ID is zero, and
// returns the stored copy.
func (s *Site) InsertPost(post host.Post) (host.Post, error) {
	post.Type = strings.TrimSpace(post.Type)
	if post.Type == "" {
		return host.Post{}, fmt.Errorf("memhost: post type is required")
	}
	if post.Status == "" {
		post.Status = "draft"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == 0 {
		s.nextPost++
		post.ID = s.nextPost
	} else if post.ID > s.nextPost {
		s.nextPost = post.ID
	}
	s.posts[post.ID] = post
	return post, nil
}

// Post returns the stored post.
func (s *Site) Post(id int64) (host.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[id]
	return post, ok
}

// SavePost fires the type scoped save hook followed by the global one for a
// stored post. Request data and the acting user travel on ctx.
func (s *Site) SavePost(ctx context.Context, postID int64) error {
	post, ok := s.Post(postID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPost, postID)
	}

	scoped := s.DoAction(ctx, host.Event{Hook: host.SaveHook(post.Type), PostID: post.ID, Post: &post})
	global := s.DoAction(ctx, host.Event{Hook: host.SaveHook(""), PostID: post.ID, Post: &post})
	return errors.Join(scoped, global)
}
