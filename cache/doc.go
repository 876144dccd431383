// Package cache provides the query cache consumed by the admin list pages.
//
// # Overview
//
// The package exports the pieces the list controllers work against:
//
//   - QueryKey: canonical identity of one list query (family + parameters)
//   - Service: keyed cache with request coalescing, stale-while-revalidate
//     and family-wide invalidation
//   - GetAs: type-safe read helper over Service
//
// # Query keys
//
// A QueryKey is built from a resource family tag and a flat parameter bag:
//
//	key := cache.NewQueryKey("products", cache.Params{
//		"page":  2,
//		"limit": 10,
//		"sort":  "asc",
//	})
//
// Parameters are serialized in sorted name order, so two bags that are deeply
// equal produce the same key regardless of assembly order. A parameter that
// is absent (nil) and a parameter that is an empty string produce different
// keys; list pages rely on that distinction.
//
// # Caching behavior
//
// Entries are fresh for a fixed window after fetching (five minutes by
// default). Past that window, or after an Invalidate for their family, they
// are stale: reads still return the last-known value immediately while a
// single background revalidation runs. At most one fetch per key is ever in
// flight; concurrent reads for the same key share it.
//
// Entries with no subscribers are evicted after the retention window (ten
// minutes by default). Subscribing is how a visible list page pins its entry:
//
//	release := service.Subscribe(key)
//	defer release()
//
// # Family invalidation
//
// Mutations invalidate by family, not by key: creating a brand marks every
// cached brands query stale, whatever its page or filters. Extra families can
// ride along on the context via WithInvalidateFamilies when a mutation has
// cross-family side effects.
package cache
