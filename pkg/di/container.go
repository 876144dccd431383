// Package di wires the cache service, record cache, REST client and list
// controllers into one container so pages share a single set of instances.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-catalog-admin/cache"
	"github.com/goliatone/go-catalog-admin/catalog"
	"github.com/goliatone/go-catalog-admin/client"
	"github.com/goliatone/go-catalog-admin/internal/cacheinfra"
	"github.com/goliatone/go-catalog-admin/listquery"
)

// Resource family tags shared by controllers, mutations and invalidation.
const (
	FamilyProducts          cache.Family = "products"
	FamilyOrders            cache.Family = "orders"
	FamilyBrands            cache.Family = "brands"
	FamilyBlogCategories    cache.Family = "blog_categories"
	FamilyBlogKeywords      cache.Family = "blog_keywords"
	FamilyProductCategories cache.Family = "product_categories"
	FamilyUsers             cache.Family = "users"
)

// Config collects the settings for every component the container manages.
type Config struct {
	// Client configures the REST transport.
	Client client.Config
	// Cache configures the list query cache.
	Cache cache.Config
	// Records configures the get-by-id record cache.
	Records cacheinfra.RecordConfig
	// Confirm gates destructive mutations. Nil declines them all.
	Confirm listquery.ConfirmFunc
	// Notify receives mutation outcomes. Nil discards them.
	Notify listquery.Notifier
}

// Container holds the shared singletons: one cache service, one record
// cache, one REST client and one mutation runner.
type Container struct {
	client  *client.Client
	cache   cache.Service
	records *cacheinfra.RecordCache
	runner  *listquery.Runner
}

// NewContainer constructs and wires all components from the configuration.
func NewContainer(cfg Config) (*Container, error) {
	apiClient, err := client.New(cfg.Client)
	if err != nil {
		return nil, fmt.Errorf("build client: %w", err)
	}

	queryCache, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("build query cache: %w", err)
	}

	records, err := cacheinfra.NewRecordCache(cfg.Records)
	if err != nil {
		queryCache.Stop()
		return nil, fmt.Errorf("build record cache: %w", err)
	}

	runner, err := listquery.NewRunner(listquery.RunnerConfig{
		Cache:   queryCache,
		Records: recordInvalidator{records: records},
		Confirm: cfg.Confirm,
		Notify:  cfg.Notify,
	})
	if err != nil {
		queryCache.Stop()
		return nil, fmt.Errorf("build mutation runner: %w", err)
	}

	return &Container{
		client:  apiClient,
		cache:   queryCache,
		records: records,
		runner:  runner,
	}, nil
}

// NewContainerWithDefaults builds a container with default cache settings
// for the given API base URL and auth token.
func NewContainerWithDefaults(baseURL, token string) (*Container, error) {
	return NewContainer(Config{
		Client:  client.Config{BaseURL: baseURL, AuthToken: token},
		Cache:   cache.DefaultConfig(),
		Records: cacheinfra.DefaultRecordConfig(),
	})
}

// Client returns the shared REST client.
func (c *Container) Client() *client.Client { return c.client }

// Cache returns the shared query cache service.
func (c *Container) Cache() cache.Service { return c.cache }

// Runner returns the shared mutation runner.
func (c *Container) Runner() *listquery.Runner { return c.runner }

// Close stops the cache janitor. Call it when the application shuts down.
func (c *Container) Close() {
	c.cache.Stop()
}

// recordInvalidator adapts the record cache to the runner's invalidation
// hook: dropping a family means deleting every record keyed under it.
type recordInvalidator struct {
	records *cacheinfra.RecordCache
}

func (r recordInvalidator) InvalidateFamily(family cache.Family) {
	r.records.DeletePrefix(string(family) + cache.KeySeparator)
}

func recordKey(family cache.Family, id string) string {
	return string(family) + cache.KeySeparator + "id=" + id
}

// Product reads one product through the record cache.
func (c *Container) Product(ctx context.Context, id string) (catalog.Product, error) {
	value, err := c.records.GetOrFetch(ctx, recordKey(FamilyProducts, id), func(ctx context.Context) (any, error) {
		return c.client.Products.Get(ctx, id)
	})
	if err != nil {
		return catalog.Product{}, err
	}
	product, ok := value.(catalog.Product)
	if !ok {
		return catalog.Product{}, cache.ErrInvalidResultType
	}
	return product, nil
}

// Order reads one order through the record cache.
func (c *Container) Order(ctx context.Context, id string) (catalog.Order, error) {
	value, err := c.records.GetOrFetch(ctx, recordKey(FamilyOrders, id), func(ctx context.Context) (any, error) {
		return c.client.Orders.Get(ctx, id)
	})
	if err != nil {
		return catalog.Order{}, err
	}
	order, ok := value.(catalog.Order)
	if !ok {
		return catalog.Order{}, cache.ErrInvalidResultType
	}
	return order, nil
}

// NewListController builds a controller over the container's cache for an
// arbitrary family and fetch function. Methods cannot carry type parameters,
// so the controller factories live at package level.
func NewListController[T any](c *Container, family cache.Family, fetch listquery.FetchFunc[T]) (*listquery.Controller[T], error) {
	return listquery.NewController(listquery.Config[T]{
		Family: family,
		Cache:  c.cache,
		Fetch:  fetch,
	})
}

// ProductsController builds the product list controller. The structured
// filter fields map onto the product endpoint's slug and flag filters.
func ProductsController(c *Container) (*listquery.Controller[catalog.Product], error) {
	return NewListController(c, FamilyProducts, func(ctx context.Context, p listquery.Params) (catalog.Page[catalog.Product], error) {
		q := client.ProductListQuery{
			Page:         p.Page,
			Limit:        p.Limit,
			Search:       p.Search,
			Sort:         p.Sort,
			BrandSlug:    p.Filters["brand_slug"],
			CategorySlug: p.Filters["category_slug"],
			IsEvent:      filterFlag(p.Filters, "is_event"),
			IsAvailable:  filterFlag(p.Filters, "is_available"),
			IsVisible:    filterFlag(p.Filters, "is_visible"),
		}
		return c.client.Products.List(ctx, q)
	})
}

// OrdersController builds the order list controller. Date range filters use
// the "from" and "to" fields in RFC 3339.
func OrdersController(c *Container) (*listquery.Controller[catalog.Order], error) {
	return NewListController(c, FamilyOrders, func(ctx context.Context, p listquery.Params) (catalog.Page[catalog.Order], error) {
		q := client.OrderListQuery{
			Page:   p.Page,
			Limit:  p.Limit,
			Search: p.Search,
		}
		if raw := p.Filters["from"]; raw != "" {
			q.From = parseFilterTime(raw)
		}
		if raw := p.Filters["to"]; raw != "" {
			q.To = parseFilterTime(raw)
		}
		return c.client.Orders.List(ctx, q)
	})
}

// BrandsController builds the brand list controller.
func BrandsController(c *Container) (*listquery.Controller[catalog.Brand], error) {
	return NewListController(c, FamilyBrands, func(ctx context.Context, p listquery.Params) (catalog.Page[catalog.Brand], error) {
		return c.client.Brands.List(ctx, basicQuery(p))
	})
}

// BlogCategoriesController builds the blog category list controller.
func BlogCategoriesController(c *Container) (*listquery.Controller[catalog.BlogCategory], error) {
	return NewListController(c, FamilyBlogCategories, func(ctx context.Context, p listquery.Params) (catalog.Page[catalog.BlogCategory], error) {
		return c.client.BlogCategories.List(ctx, basicQuery(p))
	})
}

// BlogKeywordsController builds the blog keyword list controller.
func BlogKeywordsController(c *Container) (*listquery.Controller[catalog.BlogKeyword], error) {
	return NewListController(c, FamilyBlogKeywords, func(ctx context.Context, p listquery.Params) (catalog.Page[catalog.BlogKeyword], error) {
		return c.client.BlogKeywords.List(ctx, basicQuery(p))
	})
}

// ProductCategoriesController builds the product category list controller.
func ProductCategoriesController(c *Container) (*listquery.Controller[catalog.ProductCategory], error) {
	return NewListController(c, FamilyProductCategories, func(ctx context.Context, p listquery.Params) (catalog.Page[catalog.ProductCategory], error) {
		return c.client.ProductCategories.List(ctx, basicQuery(p))
	})
}

// UsersController builds the admin user list controller.
func UsersController(c *Container) (*listquery.Controller[catalog.User], error) {
	return NewListController(c, FamilyUsers, func(ctx context.Context, p listquery.Params) (catalog.Page[catalog.User], error) {
		return c.client.Users.List(ctx, basicQuery(p))
	})
}

func basicQuery(p listquery.Params) client.BasicListQuery {
	return client.BasicListQuery{
		Page:   p.Page,
		Limit:  p.Limit,
		Search: p.Search,
		Sort:   p.Sort,
	}
}

// parseFilterTime decodes an RFC 3339 filter value; malformed input means
// "no bound" rather than a failed fetch.
func parseFilterTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func filterFlag(filters map[string]string, field string) *bool {
	switch filters[field] {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}
