package cacheinfra

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func newTestRecordCache(t *testing.T) *RecordCache {
	t.Helper()

	cache, err := NewRecordCache(DefaultRecordConfig())
	if err != nil {
		t.Fatalf("NewRecordCache() error = %v", err)
	}
	return cache
}

func TestRecordConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RecordConfig)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*RecordConfig) {}},
		{name: "zero capacity", mutate: func(c *RecordConfig) { c.Capacity = 0 }, wantErr: true},
		{name: "zero shards", mutate: func(c *RecordConfig) { c.NumShards = 0 }, wantErr: true},
		{name: "zero ttl", mutate: func(c *RecordConfig) { c.TTL = 0 }, wantErr: true},
		{name: "eviction percentage too high", mutate: func(c *RecordConfig) { c.EvictionPercentage = 101 }, wantErr: true},
		{name: "negative early refresh delay", mutate: func(c *RecordConfig) {
			c.EarlyRefresh.RetryBaseDelay = -time.Second
		}, wantErr: true},
		{name: "nil early refresh", mutate: func(c *RecordConfig) { c.EarlyRefresh = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRecordConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecordCache_GetOrFetchReadsThrough(t *testing.T) {
	cache := newTestRecordCache(t)
	ctx := context.Background()

	var calls atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "record-1", nil
	}

	for i := 0; i < 3; i++ {
		value, err := cache.GetOrFetch(ctx, "products::id=1", fetch)
		if err != nil {
			t.Fatalf("GetOrFetch() error = %v", err)
		}
		if value != "record-1" {
			t.Fatalf("value = %v, want record-1", value)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
}

func TestRecordCache_DeleteForcesRefetch(t *testing.T) {
	cache := newTestRecordCache(t)
	ctx := context.Background()

	var calls atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "record", nil
	}

	if _, err := cache.GetOrFetch(ctx, "orders::id=7", fetch); err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}
	cache.Delete("orders::id=7")
	if _, err := cache.GetOrFetch(ctx, "orders::id=7", fetch); err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}

	if got := calls.Load(); got != 2 {
		t.Errorf("fetch calls = %d, want 2 after delete", got)
	}
}

func TestRecordCache_DeletePrefixScopedToFamily(t *testing.T) {
	cache := newTestRecordCache(t)
	ctx := context.Background()

	fetch := func(value string) func(ctx context.Context) (any, error) {
		return func(ctx context.Context) (any, error) { return value, nil }
	}

	keys := []string{"products::id=1", "products::id=2", "orders::id=1"}
	for _, key := range keys {
		if _, err := cache.GetOrFetch(ctx, key, fetch(key)); err != nil {
			t.Fatalf("GetOrFetch(%s) error = %v", key, err)
		}
	}

	if got := cache.DeletePrefix("products::"); got != 2 {
		t.Errorf("DeletePrefix() = %d, want 2", got)
	}

	// The other family's record is still served from the cache.
	var calls atomic.Int32
	_, err := cache.GetOrFetch(ctx, "orders::id=1", func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "orders::id=1", nil
	})
	if err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("fetch calls = %d, want 0 for untouched family", got)
	}
}
