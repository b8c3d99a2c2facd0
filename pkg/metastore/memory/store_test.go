package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-posttypes/pkg/metastore"
	"github.com/goliatone/go-posttypes/pkg/metastore/memory"
)

func TestStoreSetGetReplace(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	if got, err := store.Get(ctx, 1, "_isbn"); err != nil || got != nil {
		t.Fatalf("expected empty read, got %v (err %v)", got, err)
	}

	if err := store.Set(ctx, 1, "_isbn", "a", "b"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, 1, "_isbn", "c"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := store.Set(ctx, 2, "_isbn", "other"); err != nil {
		t.Fatalf("set other post: %v", err)
	}

	got, err := store.Get(ctx, 1, "_isbn")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff([]string{"c"}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	got[0] = "mutated"
	again, _ := store.Get(ctx, 1, "_isbn")
	if again[0] != "c" {
		t.Fatalf("store leaked internal slice")
	}
}

func TestStoreDeleteAndKeys(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	_ = store.Set(ctx, 7, "_b", "1")
	_ = store.Set(ctx, 7, "_a", "1")
	_ = store.Set(ctx, 8, "_c", "1")

	keys, err := store.Keys(ctx, 7)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if diff := cmp.Diff([]string{"_a", "_b"}, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	if err := store.Delete(ctx, 7, "_a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	keys, _ = store.Keys(ctx, 7)
	if diff := cmp.Diff([]string{"_b"}, keys); diff != "" {
		t.Fatalf("keys after delete mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreRejectsEmptyKey(t *testing.T) {
	store := memory.New()
	if err := store.Set(context.Background(), 1, "", "x"); !errors.Is(err, metastore.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
