package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-posttypes/pkg/metastore/sqlite"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "meta.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTripsOrderedValues(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	if err := store.Set(ctx, 3, "_authors", "Ada", "Grace", "Barbara"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, 3, "_authors")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff([]string{"Ada", "Grace", "Barbara"}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if err := store.Set(ctx, 3, "_authors", "Edsger"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, _ = store.Get(ctx, 3, "_authors")
	if diff := cmp.Diff([]string{"Edsger"}, got); diff != "" {
		t.Fatalf("replaced values mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreKeysAndDelete(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	_ = store.Set(ctx, 1, "_b", "x")
	_ = store.Set(ctx, 1, "_a", "y")
	_ = store.Set(ctx, 2, "_c", "z")

	keys, err := store.Keys(ctx, 1)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if diff := cmp.Diff([]string{"_a", "_b"}, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	if err := store.Delete(ctx, 1, "_a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := store.Get(ctx, 1, "_a")
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no values after delete, got %v", got)
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "meta.db")

	first, err := sqlite.Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(ctx, 9, "_isbn", "978-0"); err != nil {
		t.Fatalf("set: %v", err)
	}
	first.Close()

	second, err := sqlite.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	got, err := second.Get(ctx, 9, "_isbn")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff([]string{"978-0"}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}
