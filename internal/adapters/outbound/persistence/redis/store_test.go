//go:build !integration

package redis

import (
	"context"
	"testing"
	"time"
)

func TestNewRequiresAddress(t *testing.T) {
	_, err := New(Config{}, time.Hour, nil)
	if err == nil {
		t.Fatal("expected error for missing redis address")
	}
}

func TestListRecentNonPositiveLimitReturnsNothing(t *testing.T) {
	store := &Store{window: time.Hour}

	for _, limit := range []int{0, -1} {
		records, appErr := store.ListRecent(context.Background(), limit)
		if appErr != nil {
			t.Fatalf("limit %d: unexpected error: %+v", limit, appErr)
		}
		if len(records) != 0 {
			t.Fatalf("limit %d: expected no records, got %d", limit, len(records))
		}
	}
}
