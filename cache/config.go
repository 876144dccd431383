package cache

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-catalog-admin/internal/cacheinfra"
)

// Config exposes query cache tuning knobs.
type Config struct {
	// FreshFor is how long a fetched entry is served without revalidation.
	FreshFor time.Duration
	// RetainFor is how long an entry with no subscribers stays resident
	// before the janitor evicts it.
	RetainFor time.Duration
	// EvictionInterval sets how often the janitor scans for evictable
	// entries.
	EvictionInterval time.Duration
	// Capacity caps resident entries. When exceeded, the janitor evicts
	// the least recently used unsubscribed entries first.
	Capacity int
}

// DefaultConfig returns the windows the admin application runs with:
// five minutes fresh, ten minutes retention.
func DefaultConfig() Config {
	return Config{
		FreshFor:         5 * time.Minute,
		RetainFor:        10 * time.Minute,
		EvictionInterval: time.Minute,
		Capacity:         10000,
	}
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.FreshFor, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.RetainFor, validation.Required, validation.Min(c.FreshFor)),
		validation.Field(&c.EvictionInterval, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
	)
}

// New constructs the default query cache implementation using the provided
// configuration.
func New(cfg Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &queryService{eng: cacheinfra.NewQueryCache(cfg.toInternal())}, nil
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		FreshFor:         c.FreshFor,
		RetainFor:        c.RetainFor,
		EvictionInterval: c.EvictionInterval,
		Capacity:         c.Capacity,
	}
}

// queryService adapts the cacheinfra engine, which works on canonical key
// strings, to the QueryKey-typed Service interface.
type queryService struct {
	eng *cacheinfra.QueryCache
}

func (s *queryService) Get(ctx context.Context, key QueryKey, fetch FetchFn) (Entry, error) {
	view, err := s.eng.Get(ctx, key.String(), fetch)
	return entryFromView(view), err
}

func (s *queryService) Refresh(ctx context.Context, key QueryKey, fetch FetchFn) (Entry, error) {
	view, err := s.eng.Refresh(ctx, key.String(), fetch)
	return entryFromView(view), err
}

func (s *queryService) Prefetch(ctx context.Context, key QueryKey, fetch FetchFn) {
	s.eng.Prefetch(ctx, key.String(), fetch)
}

func (s *queryService) Invalidate(family Family) int {
	return s.eng.Invalidate(func(key string) bool {
		return InFamily(key, family)
	})
}

func (s *queryService) Subscribe(key QueryKey) func() {
	return s.eng.Subscribe(key.String())
}

func (s *queryService) Len() int { return s.eng.Len() }

func (s *queryService) Stop() { s.eng.Stop() }

func entryFromView(view cacheinfra.EntryView) Entry {
	return Entry{
		Data:      view.Data,
		FetchedAt: view.FetchedAt,
		Stale:     view.Stale,
		Fetching:  view.Fetching,
	}
}

