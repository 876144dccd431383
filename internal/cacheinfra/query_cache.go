package cacheinfra

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/singleflight"
)

// Config holds the query cache engine settings. Validation happens in the
// public cache package before the engine is constructed.
type Config struct {
	// FreshFor is the window after a successful fetch during which an
	// entry is served without revalidation.
	FreshFor time.Duration

	// RetainFor is how long an entry with zero subscribers survives
	// before the janitor evicts it.
	RetainFor time.Duration

	// EvictionInterval is the janitor scan period.
	EvictionInterval time.Duration

	// Capacity caps resident entries; unsubscribed entries are evicted
	// least-recently-accessed first when the cap is exceeded.
	Capacity int
}

// EntryView is a point-in-time snapshot of one cache slot.
type EntryView struct {
	Data      any
	FetchedAt time.Time
	Stale     bool
	Fetching  bool
}

type entry struct {
	mu          sync.Mutex
	data        any
	fetchedAt   time.Time
	lastAccess  time.Time
	stale       bool
	fetching    bool
	populated   bool
	subscribers int
}

func (e *entry) view() EntryView {
	return EntryView{
		Data:      e.data,
		FetchedAt: e.fetchedAt,
		Stale:     e.stale,
		Fetching:  e.fetching,
	}
}

// QueryCache is the engine behind cache.Service: a concurrent entry table
// with request coalescing, stale-while-revalidate reads and a retention
// janitor. All policy windows come from Config.
type QueryCache struct {
	cfg     Config
	entries *xsync.MapOf[string, *entry]
	group   singleflight.Group
	now     func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewQueryCache constructs the engine and starts its eviction janitor.
func NewQueryCache(cfg Config) *QueryCache {
	c := &QueryCache{
		cfg:     cfg,
		entries: xsync.NewMapOf[string, *entry](),
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Get returns the entry for key, fetching when absent. A populated entry past
// its fresh window (or marked stale by invalidation) is returned immediately
// while a single background revalidation runs.
func (c *QueryCache) Get(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (EntryView, error) {
	e := c.loadOrCreate(key)
	now := c.now()

	e.mu.Lock()
	e.lastAccess = now
	if e.populated {
		if !e.stale && now.Sub(e.fetchedAt) >= c.cfg.FreshFor {
			e.stale = true
		}
		if !e.stale {
			view := e.view()
			e.mu.Unlock()
			return view, nil
		}

		// Serve the last-known value and revalidate off the caller's
		// goroutine. The caller's context may end before the refresh
		// does, so the refresh detaches from its cancellation.
		alreadyFetching := e.fetching
		view := e.view()
		view.Fetching = true
		e.mu.Unlock()

		if !alreadyFetching {
			refreshCtx := context.WithoutCancel(ctx)
			go func() { _, _ = c.fetchInto(refreshCtx, key, e, fetch) }()
		}
		return view, nil
	}
	e.mu.Unlock()

	return c.fetchInto(ctx, key, e, fetch)
}

// Refresh revalidates the entry for key synchronously, joining any in-flight
// fetch for it. A fresh entry is returned as-is without fetching. Callers use
// it to pick up the revalidated value after serving a stale render.
func (c *QueryCache) Refresh(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (EntryView, error) {
	e := c.loadOrCreate(key)
	now := c.now()

	e.mu.Lock()
	e.lastAccess = now
	if e.populated && !e.stale && now.Sub(e.fetchedAt) < c.cfg.FreshFor {
		view := e.view()
		e.mu.Unlock()
		return view, nil
	}
	e.mu.Unlock()

	return c.fetchInto(ctx, key, e, fetch)
}

// Prefetch warms the entry for key without blocking and without registering
// a subscriber. Fresh entries are left alone.
func (c *QueryCache) Prefetch(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) {
	e := c.loadOrCreate(key)
	now := c.now()

	e.mu.Lock()
	fresh := e.populated && !e.stale && now.Sub(e.fetchedAt) < c.cfg.FreshFor
	inFlight := e.fetching
	e.mu.Unlock()

	if fresh || inFlight {
		return
	}

	warmCtx := context.WithoutCancel(ctx)
	go func() { _, _ = c.fetchInto(warmCtx, key, e, fetch) }()
}

// Invalidate marks every entry whose key satisfies match as stale and
// reports the count. Values are retained; refetch happens on next access.
func (c *QueryCache) Invalidate(match func(key string) bool) int {
	count := 0
	c.entries.Range(func(key string, e *entry) bool {
		if !match(key) {
			return true
		}
		e.mu.Lock()
		if e.populated && !e.stale {
			e.stale = true
		}
		e.mu.Unlock()
		count++
		return true
	})
	return count
}

// Subscribe pins the entry for key against retention eviction. The returned
// release is idempotent.
func (c *QueryCache) Subscribe(key string) func() {
	e := c.loadOrCreate(key)
	e.mu.Lock()
	e.subscribers++
	e.lastAccess = c.now()
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			if e.subscribers > 0 {
				e.subscribers--
			}
			e.lastAccess = c.now()
			e.mu.Unlock()
		})
	}
}

// Len reports the number of resident entries.
func (c *QueryCache) Len() int {
	return c.entries.Size()
}

// Stop halts the janitor. Resident entries stay readable.
func (c *QueryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *QueryCache) loadOrCreate(key string) *entry {
	e, _ := c.entries.LoadOrStore(key, &entry{lastAccess: c.now()})
	return e
}

// fetchInto runs fetch through the singleflight group so concurrent calls for
// the same key share one request, then records the outcome on the entry. A
// failed refresh of a populated entry keeps serving the old value.
func (c *QueryCache) fetchInto(ctx context.Context, key string, e *entry, fetch func(ctx context.Context) (any, error)) (EntryView, error) {
	_, err, _ := c.group.Do(key, func() (any, error) {
		e.mu.Lock()
		// Another flight may have refreshed the entry between scheduling
		// and execution; a fresh entry needs no fetch.
		if e.populated && !e.stale && c.now().Sub(e.fetchedAt) < c.cfg.FreshFor {
			data := e.data
			e.mu.Unlock()
			return data, nil
		}
		e.fetching = true
		e.mu.Unlock()

		data, err := fetch(ctx)

		now := c.now()
		e.mu.Lock()
		e.fetching = false
		if err == nil {
			e.data = data
			e.fetchedAt = now
			e.stale = false
			e.populated = true
		}
		e.mu.Unlock()
		return data, err
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil && !e.populated {
		return EntryView{}, err
	}
	return e.view(), nil
}

func (c *QueryCache) janitor() {
	ticker := time.NewTicker(c.cfg.EvictionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.evict()
		}
	}
}

type evictable struct {
	key        string
	lastAccess time.Time
}

// evict drops unsubscribed entries past the retention window, then trims the
// oldest unsubscribed entries if capacity is still exceeded. An in-flight
// fetch is never cancelled; its result lands on the detached entry and is
// simply not resident anymore.
func (c *QueryCache) evict() {
	now := c.now()
	var candidates []evictable

	c.entries.Range(func(key string, e *entry) bool {
		e.mu.Lock()
		idle := e.subscribers == 0
		last := e.lastAccess
		e.mu.Unlock()

		if !idle {
			return true
		}
		if now.Sub(last) >= c.cfg.RetainFor {
			c.entries.Delete(key)
			return true
		}
		candidates = append(candidates, evictable{key: key, lastAccess: last})
		return true
	})

	over := c.entries.Size() - c.cfg.Capacity
	if over <= 0 {
		return
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].lastAccess.Before(candidates[j].lastAccess)
	})
	for i := 0; i < len(candidates) && over > 0; i++ {
		c.entries.Delete(candidates[i].key)
		over--
	}
}
