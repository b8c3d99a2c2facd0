package metabox_test

import (
	"context"
	"slices"

	"github.com/goliatone/go-posttypes/pkg/host"
)

// fakeHost records the calls a meta box makes.
type fakeHost struct {
	boxes    []host.Box
	removed  []string
	meta     map[string][]string
	request  map[string][]string
	caps     map[string]bool
	nonces   map[string]string
	verified []string
	actions  map[string]map[string]host.Hook
	updates  int
	writeErr error
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		meta:    make(map[string][]string),
		request: make(map[string][]string),
		caps:    make(map[string]bool),
		nonces:  make(map[string]string),
		actions: make(map[string]map[string]host.Hook),
	}
}

func (f *fakeHost) AddMetaBox(box host.Box) { f.boxes = append(f.boxes, box) }

func (f *fakeHost) RemoveMetaBox(id, screen, context string) {
	f.removed = append(f.removed, id+"@"+screen+"/"+context)
}

func (f *fakeHost) PostMeta(_ context.Context, _ int64, key string) ([]string, error) {
	return slices.Clone(f.meta[key]), nil
}

func (f *fakeHost) UpdatePostMeta(_ context.Context, _ int64, key string, values ...string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.updates++
	f.meta[key] = slices.Clone(values)
	return nil
}

func (f *fakeHost) CreateNonce(_ context.Context, action string) string {
	token := "tok-" + action
	f.nonces[token] = action
	return token
}

func (f *fakeHost) VerifyNonce(_ context.Context, nonce, action string) bool {
	f.verified = append(f.verified, action)
	return f.nonces[nonce] == action
}

func (f *fakeHost) CurrentUserCan(_ context.Context, capability string, _ int64) bool {
	return f.caps[capability]
}

func (f *fakeHost) PostValue(_ context.Context, key string) ([]string, bool) {
	values, ok := f.request[key]
	return values, ok
}

func (f *fakeHost) RegisterPostType(context.Context, string, host.TypeArgs) error { return nil }

func (f *fakeHost) UnregisterPostType(context.Context, string) error { return nil }

func (f *fakeHost) PostTypeObject(string) (*host.TypeObject, bool) { return nil, false }

func (f *fakeHost) PostTypeLabels(*host.TypeObject) map[string]string { return nil }

func (f *fakeHost) AddAction(hook, handlerID string, fn host.Hook) {
	if f.actions[hook] == nil {
		f.actions[hook] = make(map[string]host.Hook)
	}
	f.actions[hook][handlerID] = fn
}

func (f *fakeHost) RemoveAction(hook, handlerID string) {
	delete(f.actions[hook], handlerID)
}

func (f *fakeHost) hooks() []string {
	var out []string
	for hook, handlers := range f.actions {
		for id := range handlers {
			out = append(out, hook+":"+id)
		}
	}
	slices.Sort(out)
	return out
}
