package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*red.Client, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := red.NewClient(&red.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})

	return client, server
}

func TestRateLimitStore_AdmitsUntilLimit(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRateLimitStore(client, SlidingWindowConfig{KeyPrefix: "photos:rate-limit:test", TTL: time.Minute})

	ctx := context.Background()
	now := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		allowed, _, err := store.TryConsume(ctx, "alice", 3, time.Minute, now.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatalf("TryConsume returned error: %v", err)
		}
		if !allowed {
			t.Fatalf("expected attempt %d admitted", i)
		}
	}

	allowed, oldest, err := store.TryConsume(ctx, "alice", 3, time.Minute, now.Add(3*time.Second))
	if err != nil {
		t.Fatalf("TryConsume returned error: %v", err)
	}
	if allowed {
		t.Fatal("expected fourth attempt denied")
	}
	if !oldest.Equal(now) {
		t.Fatalf("expected oldest attempt %s, got %s", now, oldest)
	}

	// Identifiers hold independent allowances.
	allowed, _, err = store.TryConsume(ctx, "bob", 3, time.Minute, now.Add(3*time.Second))
	if err != nil {
		t.Fatalf("TryConsume returned error: %v", err)
	}
	if !allowed {
		t.Fatal("expected bob admitted on a fresh window")
	}
}

func TestRateLimitStore_ExpiredAttemptsFreeTheWindow(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRateLimitStore(client, SlidingWindowConfig{KeyPrefix: "photos:rate-limit:test", TTL: 10 * time.Minute})

	ctx := context.Background()
	now := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	if allowed, _, err := store.TryConsume(ctx, "alice", 1, time.Minute, now.Add(-2*time.Minute)); err != nil || !allowed {
		t.Fatalf("expected old attempt admitted, allowed=%v err=%v", allowed, err)
	}

	// The attempt from two minutes ago fell out of the window.
	allowed, _, err := store.TryConsume(ctx, "alice", 1, time.Minute, now)
	if err != nil {
		t.Fatalf("TryConsume returned error: %v", err)
	}
	if !allowed {
		t.Fatal("expected admission after the earlier attempt expired")
	}
}

func TestRateLimitStore_DeniedConsumesNothing(t *testing.T) {
	client, server := newTestRedis(t)
	store := NewRateLimitStore(client, SlidingWindowConfig{KeyPrefix: "photos:rate-limit:test", TTL: time.Minute})

	ctx := context.Background()
	now := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	if allowed, _, err := store.TryConsume(ctx, "alice", 1, time.Minute, now); err != nil || !allowed {
		t.Fatalf("expected first attempt admitted, allowed=%v err=%v", allowed, err)
	}
	for i := 1; i <= 2; i++ {
		allowed, _, err := store.TryConsume(ctx, "alice", 1, time.Minute, now.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatalf("TryConsume returned error: %v", err)
		}
		if allowed {
			t.Fatalf("expected attempt %d denied", i)
		}
	}

	members, err := server.ZMembers("photos:rate-limit:test:alice")
	if err != nil {
		t.Fatalf("failed to read window members: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("expected denied attempts left unrecorded, got %d members", len(members))
	}
}

func TestRateLimitStore_ConcurrentConsumesRespectLimit(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRateLimitStore(client, SlidingWindowConfig{KeyPrefix: "photos:rate-limit:test", TTL: time.Minute})

	ctx := context.Background()
	base := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	const attempts = 16
	const limit = 4

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			allowed, _, err := store.TryConsume(ctx, "alice", limit, time.Minute, base.Add(time.Duration(i)*time.Millisecond))
			if err != nil {
				t.Errorf("TryConsume returned error: %v", err)
				return
			}
			if allowed {
				admitted.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if got := admitted.Load(); got != limit {
		t.Fatalf("expected exactly %d admitted under concurrency, got %d", limit, got)
	}
}

func TestRateLimitStore_RejectsNonPositiveBounds(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRateLimitStore(client, SlidingWindowConfig{})

	ctx := context.Background()
	now := time.Now()

	if _, _, err := store.TryConsume(ctx, "alice", 0, time.Minute, now); err == nil {
		t.Fatal("expected error for zero limit")
	}
	if _, _, err := store.TryConsume(ctx, "alice", 1, 0, now); err == nil {
		t.Fatal("expected error for zero window")
	}
}

func TestRateLimitStore_KeyExpiry(t *testing.T) {
	client, server := newTestRedis(t)
	store := NewRateLimitStore(client, SlidingWindowConfig{KeyPrefix: "photos:rate-limit:test", TTL: time.Minute})

	ctx := context.Background()
	now := time.Now().UTC()

	if allowed, _, err := store.TryConsume(ctx, "alice", 5, time.Minute, now); err != nil || !allowed {
		t.Fatalf("expected attempt admitted, allowed=%v err=%v", allowed, err)
	}

	if !server.Exists("photos:rate-limit:test:alice") {
		t.Fatal("expected window key to exist")
	}

	server.FastForward(2 * time.Minute)

	if server.Exists("photos:rate-limit:test:alice") {
		t.Fatal("expected window key to expire")
	}
}
