package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goliatone/go-catalog-admin/catalog"
)

// BasicListQuery is the shared page/limit/search/sort bag used by the simple
// list endpoints (brands, blog entities, users).
type BasicListQuery struct {
	Page   int
	Limit  int
	Search string
	Sort   string
}

func (q BasicListQuery) values() url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}
	return query
}

// BrandsService talks to the /brands endpoints.
type BrandsService struct {
	core *core
}

// List fetches one page of brands.
func (s *BrandsService) List(ctx context.Context, q BasicListQuery) (catalog.Page[catalog.Brand], error) {
	env, err := s.core.read(ctx, http.MethodGet, "/brands", q.values(), nil)
	if err != nil {
		return catalog.Page[catalog.Brand]{}, err
	}
	return decodeItems[catalog.Brand](env)
}

// Create adds a brand.
func (s *BrandsService) Create(ctx context.Context, b catalog.Brand) (catalog.Brand, error) {
	env, err := s.core.mutate(ctx, http.MethodPost, "/brands", b)
	if err != nil {
		return catalog.Brand{}, err
	}
	return decodeData[catalog.Brand](env)
}

// Update patches a brand by id.
func (s *BrandsService) Update(ctx context.Context, id string, b catalog.Brand) (catalog.Brand, error) {
	env, err := s.core.mutate(ctx, http.MethodPatch, "/brands/"+url.PathEscape(id), b)
	if err != nil {
		return catalog.Brand{}, err
	}
	return decodeData[catalog.Brand](env)
}

// Delete removes a brand by id.
func (s *BrandsService) Delete(ctx context.Context, id string) error {
	_, err := s.core.mutate(ctx, http.MethodDelete, "/brands/"+url.PathEscape(id), nil)
	return err
}

// SetVisibility toggles whether the brand shows on the storefront.
func (s *BrandsService) SetVisibility(ctx context.Context, id string, visible bool) error {
	_, err := s.core.mutate(ctx, http.MethodPatch, "/brands/visibility/"+url.PathEscape(id), flagBody{Value: visible})
	return err
}
