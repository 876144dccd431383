package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goliatone/go-catalog-admin/catalog"
)

// ProductCategoriesService talks to the /product-categories endpoints. The
// list endpoint returns top-level categories with their sub-categories
// nested under Children.
type ProductCategoriesService struct {
	core *core
}

// List fetches one page of product categories, sub-categories included.
func (s *ProductCategoriesService) List(ctx context.Context, q BasicListQuery) (catalog.Page[catalog.ProductCategory], error) {
	env, err := s.core.read(ctx, http.MethodGet, "/product-categories/sub-categories", q.values(), nil)
	if err != nil {
		return catalog.Page[catalog.ProductCategory]{}, err
	}
	return decodeItems[catalog.ProductCategory](env)
}

// Create adds a product category. Set ParentID to create a sub-category.
func (s *ProductCategoriesService) Create(ctx context.Context, c catalog.ProductCategory) (catalog.ProductCategory, error) {
	env, err := s.core.mutate(ctx, http.MethodPost, "/product-categories", c)
	if err != nil {
		return catalog.ProductCategory{}, err
	}
	return decodeData[catalog.ProductCategory](env)
}

// Update replaces a product category by id.
func (s *ProductCategoriesService) Update(ctx context.Context, id string, c catalog.ProductCategory) (catalog.ProductCategory, error) {
	env, err := s.core.mutate(ctx, http.MethodPut, "/product-categories/"+url.PathEscape(id), c)
	if err != nil {
		return catalog.ProductCategory{}, err
	}
	return decodeData[catalog.ProductCategory](env)
}

// Delete removes a product category by id.
func (s *ProductCategoriesService) Delete(ctx context.Context, id string) error {
	_, err := s.core.mutate(ctx, http.MethodDelete, "/product-categories/"+url.PathEscape(id), nil)
	return err
}
