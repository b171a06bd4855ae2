package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"forex-signal-bot/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryStoreGetAfterPut(t *testing.T) {
	clock := newClock()
	store := NewMemoryStore(clock.Now)
	ctx := context.Background()

	if err := store.Put(ctx, "RSI-USDTRY-daily-14-close", domain.Payload(`{"a":1}`), DefaultTTL); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}

	got, ok, err := store.Get(ctx, "RSI-USDTRY-daily-14-close")
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if string(got) != `{"a":1}` {
		t.Fatalf("unexpected payload %s", got)
	}
}

func TestMemoryStoreExpiresAtInstant(t *testing.T) {
	clock := newClock()
	store := NewMemoryStore(clock.Now)
	ctx := context.Background()

	if err := store.Put(ctx, "k", domain.Payload("v"), DefaultTTL); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}

	clock.Advance(DefaultTTL - time.Nanosecond)
	if _, ok, _ := store.Get(ctx, "k"); !ok {
		t.Fatal("expected entry just before expiry")
	}

	clock.Advance(time.Nanosecond)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expected entry to be absent at the expiry instant")
	}

	// Get does not delete the expired entry.
	if n := store.Len(); n != 1 {
		t.Fatalf("expected expired entry to remain, len=%d", n)
	}
}

func TestMemoryStorePutOverwritesExpiredEntry(t *testing.T) {
	clock := newClock()
	store := NewMemoryStore(clock.Now)
	ctx := context.Background()

	if err := store.Put(ctx, "k", domain.Payload("old"), time.Minute); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}
	clock.Advance(2 * time.Minute)
	if err := store.Put(ctx, "k", domain.Payload("new"), time.Minute); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}

	got, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || string(got) != "new" {
		t.Fatalf("expected new payload, got=%s ok=%v err=%v", got, ok, err)
	}
	if n := store.Len(); n != 1 {
		t.Fatalf("expected one entry, len=%d", n)
	}
}

func TestMemoryStoreCopiesPayload(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	buf := []byte("abc")
	if err := store.Put(ctx, "k", buf, time.Minute); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}
	buf[0] = 'x'

	if got, _, _ := store.Get(ctx, "k"); string(got) != "abc" {
		t.Fatalf("expected stored copy abc, got %s", got)
	}
}

func TestMemoryStorePurge(t *testing.T) {
	clock := newClock()
	store := NewMemoryStore(clock.Now)
	ctx := context.Background()

	_ = store.Put(ctx, "short", domain.Payload("1"), time.Minute)
	_ = store.Put(ctx, "long", domain.Payload("2"), time.Hour)
	clock.Advance(5 * time.Minute)

	removed, err := store.Purge(ctx)
	if err != nil {
		t.Fatalf("unexpected purge error: %v", err)
	}
	if removed != 1 || store.Len() != 1 {
		t.Fatalf("expected one removal, removed=%d len=%d", removed, store.Len())
	}
	if _, ok, _ := store.Get(ctx, "long"); !ok {
		t.Fatal("expected long-lived entry to survive purge")
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Put(ctx, "shared", domain.Payload("v"), time.Minute)
			_, _, _ = store.Get(ctx, "shared")
		}()
	}
	wg.Wait()
	if n := store.Len(); n != 1 {
		t.Fatalf("expected one entry, len=%d", n)
	}
}
