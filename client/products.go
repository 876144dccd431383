package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goliatone/go-catalog-admin/catalog"
)

// ProductListQuery carries the product list parameters. Slug filters travel
// in the request body; everything else goes on the query string.
type ProductListQuery struct {
	Page   int
	Limit  int
	Search string
	Sort   string

	BrandSlug    string
	CategorySlug string

	IsEvent     *bool
	IsAvailable *bool
	IsVisible   *bool
}

type productListBody struct {
	BrandSlug    string `json:"brandSlug,omitempty"`
	CategorySlug string `json:"categorySlug,omitempty"`
}

// ProductsService talks to the /products endpoints.
type ProductsService struct {
	core *core
}

// List fetches one page of products.
func (s *ProductsService) List(ctx context.Context, q ProductListQuery) (catalog.Page[catalog.Product], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}
	setFlag(query, "is_event", q.IsEvent)
	setFlag(query, "is_available", q.IsAvailable)
	setFlag(query, "is_visible", q.IsVisible)

	body := productListBody{BrandSlug: q.BrandSlug, CategorySlug: q.CategorySlug}

	env, err := s.core.read(ctx, http.MethodPost, "/products/all", query, body)
	if err != nil {
		return catalog.Page[catalog.Product]{}, err
	}
	return decodeItems[catalog.Product](env)
}

// Get fetches a single product by id.
func (s *ProductsService) Get(ctx context.Context, id string) (catalog.Product, error) {
	query := url.Values{"product_id": {id}}
	env, err := s.core.read(ctx, http.MethodGet, "/products", query, nil)
	if err != nil {
		return catalog.Product{}, err
	}
	return decodeData[catalog.Product](env)
}

// Create adds a product.
func (s *ProductsService) Create(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	env, err := s.core.mutate(ctx, http.MethodPost, "/products", p)
	if err != nil {
		return catalog.Product{}, err
	}
	return decodeData[catalog.Product](env)
}

// Update patches a product by id.
func (s *ProductsService) Update(ctx context.Context, id string, p catalog.Product) (catalog.Product, error) {
	env, err := s.core.mutate(ctx, http.MethodPatch, "/products/"+url.PathEscape(id), p)
	if err != nil {
		return catalog.Product{}, err
	}
	return decodeData[catalog.Product](env)
}

// Delete removes a product by id.
func (s *ProductsService) Delete(ctx context.Context, id string) error {
	_, err := s.core.mutate(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil)
	return err
}

type bulkDeleteBody struct {
	IDs []string `json:"ids"`
}

// BulkDelete removes every product in ids in one request.
func (s *ProductsService) BulkDelete(ctx context.Context, ids []string) error {
	_, err := s.core.mutate(ctx, http.MethodPost, "/products/delete/bulk", bulkDeleteBody{IDs: ids})
	return err
}

func setFlag(query url.Values, name string, value *bool) {
	if value != nil {
		query.Set(name, strconv.FormatBool(*value))
	}
}
