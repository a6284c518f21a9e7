package testutil

import (
	"context"
	"testing"

	"github.com/nhle/todo/internal/store"
)

// NewTestStore creates an in-memory SQLStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	ctx := context.Background()
	s, err := store.Open(ctx, "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrating test store: %v", err)
	}

	return s
}

// NewUninitializedStore creates an in-memory SQLStore with no schema.
func NewUninitializedStore(t *testing.T) *store.SQLStore {
	t.Helper()

	s, err := store.Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s
}
