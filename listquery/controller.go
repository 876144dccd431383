package listquery

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-catalog-admin/cache"
	"github.com/goliatone/go-catalog-admin/catalog"
)

// DefaultDebounce is the quiet period a search keystroke must survive before
// it commits.
const DefaultDebounce = 500 * time.Millisecond

// DefaultLimit is the page size used when the config leaves it zero.
const DefaultLimit = 10

// FetchFunc loads one page for the given parameters from the backend.
type FetchFunc[T any] func(ctx context.Context, p Params) (catalog.Page[T], error)

// Params is the full parameter bag one list render is keyed by.
type Params struct {
	Page   int
	Limit  int
	Search string
	Sort   string
	// Filters holds the committed structured filters, field name to value.
	Filters map[string]string
}

// queryParams flattens the bag for key derivation. Empty search, sort and
// filter values are absent, not empty strings, so an untouched control and a
// cleared one produce the same key.
func (p Params) queryParams() cache.Params {
	params := cache.Params{
		"page":  p.Page,
		"limit": p.Limit,
	}
	if p.Search != "" {
		params["search"] = p.Search
	}
	if p.Sort != "" {
		params["sort"] = p.Sort
	}
	for field, value := range p.Filters {
		if value != "" {
			params[field] = value
		}
	}
	return params
}

func (p Params) clone() Params {
	out := p
	if p.Filters != nil {
		out.Filters = make(map[string]string, len(p.Filters))
		for k, v := range p.Filters {
			out.Filters[k] = v
		}
	}
	return out
}

// View is the render snapshot a controller exposes after each applied fetch.
type View[T any] struct {
	Items      []T
	Pagination catalog.Pagination
	// Stale marks a last-known value served while revalidation runs.
	Stale bool
	// Fetching is true from the moment a key changes until its result lands.
	Fetching bool
	// Err holds the last fetch failure for the current key, if any.
	Err error
}

// Config configures one list controller.
type Config[T any] struct {
	// Family tags the resource so mutations can invalidate every page of it.
	Family cache.Family
	// Cache is the shared query cache service.
	Cache cache.Service
	// Fetch loads a page from the backend.
	Fetch FetchFunc[T]
	// Debounce overrides the search quiet period. Zero means DefaultDebounce.
	Debounce time.Duration
	// Limit is the initial page size. Zero means DefaultLimit.
	Limit int
	// Sort is the initial sort direction, if any.
	Sort string
	// OnUpdate, when set, runs after every applied view change.
	OnUpdate func(View[T])
}

// Validate checks whether the configuration is usable.
func (cfg Config[T]) Validate() error {
	if cfg.Fetch == nil {
		return errors.New("listquery: config requires a fetch function")
	}
	return validation.ValidateStruct(&cfg,
		validation.Field(&cfg.Family, validation.Required),
		validation.Field(&cfg.Cache, validation.Required),
		validation.Field(&cfg.Debounce, validation.Min(time.Duration(0))),
		validation.Field(&cfg.Limit, validation.Min(0)),
	)
}

// Controller drives one list page. All state transitions go through its
// mutex; fetches resolve on background goroutines and are applied only when
// the key they were issued for is still the current one.
type Controller[T any] struct {
	family   cache.Family
	cache    cache.Service
	fetch    FetchFunc[T]
	debounce time.Duration
	onUpdate func(View[T])

	mu      sync.Mutex
	params  Params
	typed   string
	timer   *time.Timer
	key     cache.QueryKey
	release func()
	view    View[T]
}

// NewController builds a controller positioned on page 1. No fetch happens
// until Load or the first state change.
func NewController[T any](cfg Config[T]) (*Controller[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	limit := cfg.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	return &Controller[T]{
		family:   cfg.Family,
		cache:    cfg.Cache,
		fetch:    cfg.Fetch,
		debounce: debounce,
		onUpdate: cfg.OnUpdate,
		params: Params{
			Page:  1,
			Limit: limit,
			Sort:  cfg.Sort,
		},
	}, nil
}

// Family returns the controller's resource family.
func (c *Controller[T]) Family() cache.Family { return c.family }

// Params returns a copy of the committed parameter bag.
func (c *Controller[T]) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params.clone()
}

// View returns the current render snapshot.
func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Typed returns the search text as typed, ahead of the debounce commit.
func (c *Controller[T]) Typed() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typed
}

// Load issues the fetch for the current parameters.
func (c *Controller[T]) Load(ctx context.Context) {
	c.mu.Lock()
	c.refreshLocked(ctx)
	c.mu.Unlock()
}

// SetPage moves to page n. Search, sort and filters are untouched.
func (c *Controller[T]) SetPage(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	c.mu.Lock()
	c.params.Page = n
	c.refreshLocked(ctx)
	c.mu.Unlock()
}

// ChangeLimit updates the page size and resets to page 1.
func (c *Controller[T]) ChangeLimit(ctx context.Context, n int) {
	if n < 1 {
		n = DefaultLimit
	}
	c.mu.Lock()
	c.params.Limit = n
	c.params.Page = 1
	c.refreshLocked(ctx)
	c.mu.Unlock()
}

// SetSort updates the sort direction and refetches the current page.
func (c *Controller[T]) SetSort(ctx context.Context, sort string) {
	c.mu.Lock()
	c.params.Sort = sort
	c.refreshLocked(ctx)
	c.mu.Unlock()
}

// SetSearch records a keystroke. The typed value is visible immediately via
// Typed; the committed search only changes once the debounce window passes
// with no further keystrokes. Each call stops and restarts the single pending
// timer, so a burst of keystrokes commits exactly once, with the final text.
func (c *Controller[T]) SetSearch(ctx context.Context, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.typed = text
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.commitSearch(ctx, text)
	})
}

// FlushSearch commits any pending search immediately, skipping the remainder
// of the debounce window. A no-op when nothing is pending.
func (c *Controller[T]) FlushSearch(ctx context.Context) {
	c.mu.Lock()
	if c.timer == nil {
		c.mu.Unlock()
		return
	}
	c.timer.Stop()
	c.timer = nil
	text := c.typed
	c.mu.Unlock()

	c.commitSearch(ctx, text)
}

func (c *Controller[T]) commitSearch(ctx context.Context, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer keystroke restarted the timer after this one fired.
	if c.typed != text {
		return
	}
	c.timer = nil
	if c.params.Search == text {
		return
	}
	c.params.Search = text
	c.params.Page = 1
	c.refreshLocked(ctx)
}

// BeginFilters opens a draft over the committed filters. Edits to the draft
// do not touch the active list until CommitFilters.
func (c *Controller[T]) BeginFilters() *FilterDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return newFilterDraft(c.params.Filters)
}

// CommitFilters applies a draft: the staged values replace the committed
// filters, page resets to 1 and the list refetches. Dropping a draft without
// committing leaves the committed filters as they were.
func (c *Controller[T]) CommitFilters(ctx context.Context, draft *FilterDraft) {
	if draft == nil {
		return
	}
	c.mu.Lock()
	c.params.Filters = draft.Values()
	c.params.Page = 1
	c.refreshLocked(ctx)
	c.mu.Unlock()
}

// State mirrors the navigable list position: page always, search when set.
// Every list page persists the same subset, so restored and shared URLs
// behave identically across resources.
func (c *Controller[T]) State() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := url.Values{}
	q.Set("page", strconv.Itoa(c.params.Page))
	if c.params.Search != "" {
		q.Set("search", c.params.Search)
	}
	return q
}

// Restore positions the controller from a mirrored URL state and fetches.
// The search is committed directly; restoring is not typing.
func (c *Controller[T]) Restore(ctx context.Context, q url.Values) {
	c.mu.Lock()
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page >= 1 {
		c.params.Page = page
	}
	if q.Has("search") {
		c.params.Search = q.Get("search")
		c.typed = c.params.Search
	}
	c.refreshLocked(ctx)
	c.mu.Unlock()
}

// Close releases the cache subscription and stops any pending debounce.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.release != nil {
		c.release()
		c.release = nil
	}
}

// refreshLocked swaps the subscription to the key for the current parameters
// and resolves it on a background goroutine. Callers hold c.mu.
func (c *Controller[T]) refreshLocked(ctx context.Context) {
	p := c.params.clone()
	key := cache.NewQueryKey(c.family, p.queryParams())

	if c.release != nil {
		c.release()
	}
	c.release = c.cache.Subscribe(key)
	c.key = key
	c.view.Fetching = true

	go c.resolve(ctx, key, p)
}

// resolve waits for the fetch and applies the result, unless the controller
// has moved to another key in the meantime. A superseded result still lands
// in the cache; only the controller ignores it.
func (c *Controller[T]) resolve(ctx context.Context, key cache.QueryKey, p Params) {
	page, entry, err := cache.GetAs(ctx, c.cache, key, func(ctx context.Context) (catalog.Page[T], error) {
		return c.fetch(ctx, p)
	})

	c.mu.Lock()
	if c.key.String() != key.String() {
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.view.Fetching = false
		c.view.Err = err
	} else {
		c.view = View[T]{
			Items:      page.Items,
			Pagination: page.Pagination,
			Stale:      entry.Stale,
			Fetching:   entry.Stale,
		}
	}
	view := c.view
	onUpdate := c.onUpdate
	c.mu.Unlock()

	if onUpdate != nil {
		onUpdate(view)
	}

	// A stale render keeps the old rows on screen while the cache
	// revalidates. Join that revalidation and swap in the fresh page once
	// it lands, unless the controller moved on meanwhile.
	if err == nil && entry.Stale {
		c.applyRefresh(ctx, key, p)
		return
	}

	if err == nil && page.Pagination.HasNextPage {
		c.prefetchNext(ctx, p)
	}
}

// applyRefresh blocks on the revalidation for key and swaps the fresh page
// into the view. When the fetch failed the cache kept the old value; the view
// then stays on it, still marked stale.
func (c *Controller[T]) applyRefresh(ctx context.Context, key cache.QueryKey, p Params) {
	entry, err := c.cache.Refresh(ctx, key, func(ctx context.Context) (any, error) {
		return c.fetch(ctx, p)
	})

	c.mu.Lock()
	if c.key.String() != key.String() {
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.view.Fetching = false
		c.view.Err = err
	} else if page, ok := entry.Data.(catalog.Page[T]); ok {
		c.view = View[T]{
			Items:      page.Items,
			Pagination: page.Pagination,
			Stale:      entry.Stale,
		}
	} else {
		c.view.Fetching = false
		c.view.Err = cache.ErrInvalidResultType
	}
	view := c.view
	onUpdate := c.onUpdate
	c.mu.Unlock()

	if onUpdate != nil {
		onUpdate(view)
	}

	if view.Err == nil && view.Pagination.HasNextPage && !view.Stale {
		c.prefetchNext(ctx, p)
	}
}

// prefetchNext warms page+1 with otherwise identical parameters so advancing
// is served from the cache.
func (c *Controller[T]) prefetchNext(ctx context.Context, p Params) {
	next := p.clone()
	next.Page = p.Page + 1
	nextKey := cache.NewQueryKey(c.family, next.queryParams())
	c.cache.Prefetch(ctx, nextKey, func(ctx context.Context) (any, error) {
		return c.fetch(ctx, next)
	})
}
