package cacheinfra

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		FreshFor:         5 * time.Minute,
		RetainFor:        10 * time.Minute,
		EvictionInterval: time.Hour, // janitor stays quiet; tests call evict directly
		Capacity:         100,
	}
}

func newTestCache(t *testing.T) *QueryCache {
	t.Helper()
	c := NewQueryCache(testConfig())
	t.Cleanup(c.Stop)
	return c
}

// advance shifts the cache's clock forward by d.
func advance(c *QueryCache, d time.Duration) {
	base := c.now()
	c.now = func() time.Time { return base.Add(d) }
}

func countingFetch(calls *atomic.Int64, value any) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		calls.Add(1)
		return value, nil
	}
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestQueryCache_FreshServedWithoutRefetch(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int64

	for i := 0; i < 3; i++ {
		view, err := c.Get(context.Background(), "products::page=1", countingFetch(&calls, "page-1"))
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if view.Data != "page-1" {
			t.Errorf("Get() data = %v, want page-1", view.Data)
		}
		if view.Stale {
			t.Error("fresh entry reported stale")
		}
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
}

func TestQueryCache_ConcurrentGetsShareOneFetch(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int64
	release := make(chan struct{})

	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			view, err := c.Get(context.Background(), "products::page=1", fetch)
			if err != nil {
				t.Errorf("Get() error = %v", err)
				return
			}
			if view.Data != "shared" {
				t.Errorf("Get() data = %v, want shared", view.Data)
			}
		}()
	}

	// Give every goroutine a chance to reach the fetch path before the
	// single in-flight request completes.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want exactly 1 in-flight request per key", got)
	}
}

func TestQueryCache_StaleWhileRevalidate(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int64
	values := []any{"old", "new"}

	fetch := func(ctx context.Context) (any, error) {
		n := calls.Add(1)
		return values[n-1], nil
	}

	if _, err := c.Get(context.Background(), "products::page=1", fetch); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	advance(c, 6*time.Minute)

	// Aged entry serves its last value immediately and revalidates behind
	// the caller's back.
	view, err := c.Get(context.Background(), "products::page=1", fetch)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if view.Data != "old" {
		t.Errorf("stale read data = %v, want old", view.Data)
	}
	if !view.Stale {
		t.Error("aged entry not reported stale")
	}
	if !view.Fetching {
		t.Error("stale read should report an in-flight revalidation")
	}

	waitFor(t, func() bool { return calls.Load() == 2 })
	waitFor(t, func() bool {
		view, err := c.Get(context.Background(), "products::page=1", fetch)
		return err == nil && view.Data == "new" && !view.Stale
	})
}

func TestQueryCache_StaleWhileError(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int64

	fetch := func(ctx context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return "good", nil
		}
		return nil, errors.New("backend down")
	}

	if _, err := c.Get(context.Background(), "orders::page=1", fetch); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	advance(c, 6*time.Minute)

	view, err := c.Get(context.Background(), "orders::page=1", fetch)
	if err != nil {
		t.Fatalf("stale read must not fail, got %v", err)
	}
	if view.Data != "good" {
		t.Errorf("stale read data = %v, want good", view.Data)
	}

	waitFor(t, func() bool { return calls.Load() >= 2 })

	// Failed revalidation keeps the last-known value in place.
	view, err = c.Get(context.Background(), "orders::page=1", fetch)
	if err != nil {
		t.Fatalf("Get() after failed refresh error = %v", err)
	}
	if view.Data != "good" {
		t.Errorf("data after failed refresh = %v, want good", view.Data)
	}
}

func TestQueryCache_FetchErrorOnEmptyEntry(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int64

	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, errors.New("boom")
	}

	if _, err := c.Get(context.Background(), "users", fetch); err == nil {
		t.Fatal("expected error for empty entry with failing fetch")
	}

	// The failure is not cached; the next access retries.
	if _, err := c.Get(context.Background(), "users", fetch); err == nil {
		t.Fatal("expected error on retry")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("fetch calls = %d, want 2", got)
	}
}

func TestQueryCache_InvalidateMarksFamilyStale(t *testing.T) {
	c := newTestCache(t)
	var productCalls, brandCalls atomic.Int64

	for _, key := range []string{"products::page=1", "products::page=2"} {
		if _, err := c.Get(context.Background(), key, countingFetch(&productCalls, key)); err != nil {
			t.Fatalf("Get(%s) error = %v", key, err)
		}
	}
	if _, err := c.Get(context.Background(), "brands::page=1", countingFetch(&brandCalls, "brands")); err != nil {
		t.Fatalf("Get(brands) error = %v", err)
	}

	touched := c.Invalidate(func(key string) bool {
		return key == "products::page=1" || key == "products::page=2"
	})
	if touched != 2 {
		t.Errorf("Invalidate() touched = %d, want 2", touched)
	}

	// Invalidated entries serve the old value and refetch; the unrelated
	// family stays fresh and silent.
	view, err := c.Get(context.Background(), "products::page=1", countingFetch(&productCalls, "refetched"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !view.Stale {
		t.Error("invalidated entry not reported stale")
	}

	waitFor(t, func() bool { return productCalls.Load() == 3 })

	if _, err := c.Get(context.Background(), "brands::page=1", countingFetch(&brandCalls, "brands")); err != nil {
		t.Fatalf("Get(brands) error = %v", err)
	}
	if got := brandCalls.Load(); got != 1 {
		t.Errorf("unrelated family fetch calls = %d, want 1", got)
	}
}

func TestQueryCache_InvalidateDoesNotRefetchIdleEntries(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int64

	if _, err := c.Get(context.Background(), "products::page=1", countingFetch(&calls, "v1")); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	c.Invalidate(func(string) bool { return true })

	// No access, no refetch.
	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("fetch calls after idle invalidation = %d, want 1", got)
	}
}

func TestQueryCache_PrefetchWarmsWithoutSubscriber(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int64

	c.Prefetch(context.Background(), "products::page=2", countingFetch(&calls, "page-2"))
	waitFor(t, func() bool { return calls.Load() == 1 })

	// The warmed entry is served without another fetch.
	view, err := c.Get(context.Background(), "products::page=2", countingFetch(&calls, "page-2"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if view.Data != "page-2" {
		t.Errorf("Get() data = %v, want page-2", view.Data)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
}

func TestQueryCache_PrefetchSkipsFreshEntries(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int64

	if _, err := c.Get(context.Background(), "products::page=1", countingFetch(&calls, "v1")); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	c.Prefetch(context.Background(), "products::page=1", countingFetch(&calls, "v1"))
	time.Sleep(50 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1 (fresh entry must not be refetched)", got)
	}
}

func TestQueryCache_EvictionRespectsSubscribers(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int64

	if _, err := c.Get(context.Background(), "products::page=1", countingFetch(&calls, "v1")); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := c.Get(context.Background(), "products::page=2", countingFetch(&calls, "v2")); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	release := c.Subscribe("products::page=1")
	defer release()

	advance(c, 11*time.Minute)
	c.evict()

	if got := c.Len(); got != 1 {
		t.Errorf("Len() after eviction = %d, want 1 (subscribed entry pinned)", got)
	}
	if _, ok := c.entries.Load("products::page=1"); !ok {
		t.Error("subscribed entry was evicted")
	}
	if _, ok := c.entries.Load("products::page=2"); ok {
		t.Error("idle entry past retention window survived eviction")
	}
}

func TestQueryCache_ReleaseMakesEntryEvictable(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int64

	if _, err := c.Get(context.Background(), "products::page=1", countingFetch(&calls, "v1")); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	release := c.Subscribe("products::page=1")
	release()
	release() // idempotent

	advance(c, 11*time.Minute)
	c.evict()

	if got := c.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0 after release and retention window", got)
	}
}

func TestQueryCache_CapacityTrimsOldestIdle(t *testing.T) {
	cfg := testConfig()
	cfg.Capacity = 2
	c := NewQueryCache(cfg)
	defer c.Stop()

	var calls atomic.Int64
	keys := []string{"products::page=1", "products::page=2", "products::page=3"}
	for _, key := range keys {
		if _, err := c.Get(context.Background(), key, countingFetch(&calls, key)); err != nil {
			t.Fatalf("Get(%s) error = %v", key, err)
		}
		advance(c, time.Second)
	}

	c.evict()

	if got := c.Len(); got != 2 {
		t.Errorf("Len() = %d, want capacity 2", got)
	}
	if _, ok := c.entries.Load("products::page=1"); ok {
		t.Error("least recently accessed entry survived capacity trim")
	}
}

func TestQueryCache_RefreshFetchesStaleEntrySynchronously(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int64
	key := "products::page=1"

	if _, err := c.Get(context.Background(), key, countingFetch(&calls, "v1")); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	c.Invalidate(func(string) bool { return true })

	view, err := c.Refresh(context.Background(), key, countingFetch(&calls, "v2"))
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if view.Stale {
		t.Error("entry still stale after Refresh")
	}
	if view.Data != "v2" {
		t.Errorf("Data = %v, want v2", view.Data)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("fetch calls = %d, want 2", got)
	}
}

func TestQueryCache_RefreshServesFreshWithoutFetch(t *testing.T) {
	c := newTestCache(t)
	var calls atomic.Int64
	key := "products::page=1"

	if _, err := c.Get(context.Background(), key, countingFetch(&calls, "v1")); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	view, err := c.Refresh(context.Background(), key, countingFetch(&calls, "v2"))
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if view.Data != "v1" {
		t.Errorf("Data = %v, want the cached v1", view.Data)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
}

func TestQueryCache_RefreshJoinsInFlightFetch(t *testing.T) {
	c := newTestCache(t)
	key := "products::page=1"

	var calls atomic.Int64
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "joined", nil
	}

	started := make(chan struct{})
	go func() {
		close(started)
		_, _ = c.Get(context.Background(), key, fetch)
	}()
	<-started
	waitFor(t, func() bool { return calls.Load() == 1 })

	done := make(chan EntryView, 1)
	go func() {
		view, _ := c.Refresh(context.Background(), key, fetch)
		done <- view
	}()

	time.Sleep(10 * time.Millisecond)
	close(release)

	view := <-done
	if view.Data != "joined" {
		t.Errorf("Data = %v, want joined", view.Data)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1 shared flight", got)
	}
}
