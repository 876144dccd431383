package cache

import (
	"context"
	"errors"
	"time"
)

// FetchFn loads a query's data from the source of truth (the REST backend).
type FetchFn func(ctx context.Context) (any, error)

// Entry is a snapshot of one cache slot at read time.
type Entry struct {
	// Data is the last value fetched for the key. May be stale.
	Data any
	// FetchedAt is when Data finished fetching.
	FetchedAt time.Time
	// Stale is true once the entry aged past the fresh window or was
	// invalidated; the entry keeps serving Data while a refetch runs.
	Stale bool
	// Fetching is true while a background revalidation is in flight.
	Fetching bool
}

// ErrInvalidResultType is returned when a cached value does not match the
// type the caller asked for.
var ErrInvalidResultType = errors.New("cache: cached value has unexpected type")

// Service is the query cache consumed by list controllers.
//
// The contract, per key: at most one network fetch in flight at any time;
// fresh entries are served without fetching; stale entries are served
// immediately while a revalidation runs in the background (stale while
// revalidate); invalidation marks whole families stale without dropping
// their last-known values.
type Service interface {
	// Get returns the entry for key, fetching if it is absent. A stale
	// entry is returned as-is and revalidated in the background.
	Get(ctx context.Context, key QueryKey, fetch FetchFn) (Entry, error)

	// Refresh revalidates the entry for key, blocking until it is fresh
	// and joining any fetch already in flight. A fresh entry is returned
	// without fetching.
	Refresh(ctx context.Context, key QueryKey, fetch FetchFn) (Entry, error)

	// Prefetch warms the entry for key without attaching a subscriber.
	// It never blocks the caller.
	Prefetch(ctx context.Context, key QueryKey, fetch FetchFn)

	// Invalidate marks every entry in the family stale and reports how
	// many were touched. Entries without subscribers are not refetched
	// until next access.
	Invalidate(family Family) int

	// Subscribe registers interest in a key, keeping its entry out of
	// retention eviction. The returned release func drops the interest.
	Subscribe(key QueryKey) (release func())

	// Len reports the number of resident entries.
	Len() int

	// Stop halts the background eviction janitor.
	Stop()
}

// GetAs is the type-safe read path over Service. The fetch result and the
// cached value are both asserted to T.
func GetAs[T any](ctx context.Context, s Service, key QueryKey, fetch func(ctx context.Context) (T, error)) (T, Entry, error) {
	entry, err := s.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, entry, err
	}

	if entry.Data == nil {
		var zero T
		return zero, entry, nil
	}

	value, ok := entry.Data.(T)
	if !ok {
		var zero T
		return zero, entry, ErrInvalidResultType
	}
	return value, entry, nil
}
