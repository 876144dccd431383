package cacheinfra

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// RecordConfig sizes and tunes the sturdyc client behind the get-by-id
// record cache.
type RecordConfig struct {
	// Capacity caps resident records. Required, positive.
	Capacity int

	// NumShards splits the store for concurrent access. Required, positive.
	NumShards int

	// TTL is how long a record stays resident after its last write.
	// Required, positive.
	TTL time.Duration

	// EvictionPercentage is the share of records dropped when the cache is
	// full, between 1 and 100.
	EvictionPercentage int

	// EarlyRefresh, when set, refreshes hot records before they expire. Nil
	// disables early refreshes.
	EarlyRefresh *EarlyRefreshConfig

	// MissingRecordStorage remembers ids that returned no record, so the
	// backend is not re-queried for entities that do not exist.
	MissingRecordStorage bool

	// EvictionInterval is the expiry scan period. Zero keeps the sturdyc
	// default.
	EvictionInterval time.Duration
}

// EarlyRefreshConfig carries the sturdyc early refresh windows. A hot record
// is refreshed in the background somewhere between the min and max times; a
// record older than the sync time refreshes on the read itself.
type EarlyRefreshConfig struct {
	// MinAsyncRefreshTime is the earliest a background refresh may run.
	MinAsyncRefreshTime time.Duration

	// MaxAsyncRefreshTime is the latest a background refresh may run.
	MaxAsyncRefreshTime time.Duration

	// SyncRefreshTime is the record age past which the refresh blocks the
	// read instead of running in the background.
	SyncRefreshTime time.Duration

	// RetryBaseDelay seeds the backoff when a refresh fetch fails.
	RetryBaseDelay time.Duration
}

// DefaultRecordConfig returns the settings the admin client ships with:
// a five minute TTL to match the list cache's fresh window, early refreshes
// for hot records, and negative caching for ids that do not exist.
func DefaultRecordConfig() RecordConfig {
	return RecordConfig{
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
		EarlyRefresh: &EarlyRefreshConfig{
			MinAsyncRefreshTime: 10 * time.Second,
			MaxAsyncRefreshTime: 20 * time.Second,
			SyncRefreshTime:     30 * time.Second,
			RetryBaseDelay:      100 * time.Millisecond,
		},
		MissingRecordStorage: true,
		EvictionInterval:     0,
	}
}

// ToSturdycOptions renders the optional settings as sturdyc options. The
// required sizing fields travel through the sturdyc.New arguments instead.
func (c RecordConfig) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EarlyRefresh != nil {
		options = append(options, sturdyc.WithEarlyRefreshes(
			c.EarlyRefresh.MinAsyncRefreshTime,
			c.EarlyRefresh.MaxAsyncRefreshTime,
			c.EarlyRefresh.SyncRefreshTime,
			c.EarlyRefresh.RetryBaseDelay,
		))
	}

	if c.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks the sizing fields and the refresh windows.
func (c RecordConfig) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EarlyRefresh != nil {
		if c.EarlyRefresh.MinAsyncRefreshTime < 0 {
			return &ConfigError{Field: "EarlyRefresh.MinAsyncRefreshTime", Message: "must be non-negative"}
		}
		if c.EarlyRefresh.MaxAsyncRefreshTime < 0 {
			return &ConfigError{Field: "EarlyRefresh.MaxAsyncRefreshTime", Message: "must be non-negative"}
		}
		if c.EarlyRefresh.SyncRefreshTime < 0 {
			return &ConfigError{Field: "EarlyRefresh.SyncRefreshTime", Message: "must be non-negative"}
		}
		if c.EarlyRefresh.RetryBaseDelay < 0 {
			return &ConfigError{Field: "EarlyRefresh.RetryBaseDelay", Message: "must be non-negative"}
		}
	}

	return nil
}

// ConfigError reports which RecordConfig field failed validation.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// RecordCache is a read-through cache for single-record lookups. List queries
// live in QueryCache with its subscriber-driven retention; records do not
// need any of that, so they ride on sturdyc directly.
type RecordCache struct {
	client *sturdyc.Client[any]
}

// NewRecordCache validates the configuration and initializes the sturdyc
// client behind the record cache.
func NewRecordCache(cfg RecordConfig) (*RecordCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &RecordCache{client: client}, nil
}

// GetOrFetch returns the cached record for key or fetches it from the
// backend, storing the result. Concurrent callers for one key share the
// fetch.
func (r *RecordCache) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error) {
	return r.client.GetOrFetch(ctx, key, fetch)
}

// Delete removes a single record from the cache so the next read refetches.
func (r *RecordCache) Delete(key string) {
	r.client.Delete(key)
}

// DeletePrefix removes every record whose key starts with prefix and reports
// how many were dropped. Used for family-wide invalidation after mutations.
func (r *RecordCache) DeletePrefix(prefix string) int {
	count := 0
	for _, key := range r.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			r.client.Delete(key)
			count++
		}
	}
	return count
}
