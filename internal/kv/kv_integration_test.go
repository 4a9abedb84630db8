//go:build integration

package kv

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/0xHy0kR1/LF-backend/internal/testutil"
)

func newTestStore(t *testing.T) (context.Context, *Store) {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "REDIS_URL")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	store, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := testutil.FlushRedis(ctx, store.Client()); err != nil {
		t.Fatalf("FlushRedis failed: %v", err)
	}
	return ctx, store
}

func TestIntegrationRateLimit_BurstThenDeny(t *testing.T) {
	ctx, store := newTestStore(t)

	for i := 0; i < 3; i++ {
		res, err := store.CheckIPRateLimit(ctx, "login", "203.0.113.7", 1, 3)
		if err != nil {
			t.Fatalf("CheckIPRateLimit failed: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	res, err := store.CheckIPRateLimit(ctx, "login", "203.0.113.7", 1, 3)
	if err != nil {
		t.Fatalf("CheckIPRateLimit failed: %v", err)
	}
	if res.Allowed {
		t.Error("request beyond burst should be denied")
	}
	if res.RetryAfter <= 0 {
		t.Error("expected positive RetryAfter")
	}

	other, err := store.CheckIPRateLimit(ctx, "answer", "203.0.113.7", 1, 3)
	if err != nil {
		t.Fatalf("CheckIPRateLimit failed: %v", err)
	}
	if !other.Allowed {
		t.Error("a different scope should have its own bucket")
	}
}

func TestIntegrationOrphans_RecordAndPop(t *testing.T) {
	ctx, store := newTestStore(t)

	for _, k := range []string{"a", "b", "a"} {
		if err := store.RecordOrphan(ctx, k); err != nil {
			t.Fatalf("RecordOrphan failed: %v", err)
		}
	}

	n, err := store.CountOrphans(ctx)
	if err != nil {
		t.Fatalf("CountOrphans failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 queued orphans, got %d", n)
	}

	keys, err := store.PopOrphans(ctx, 10)
	if err != nil {
		t.Fatalf("PopOrphans failed: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("unexpected keys: %v", keys)
	}

	keys, err = store.PopOrphans(ctx, 10)
	if err != nil {
		t.Fatalf("PopOrphans failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected empty queue, got %v", keys)
	}
}
