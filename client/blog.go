package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goliatone/go-catalog-admin/catalog"
)

// BlogCategoriesService talks to the /blog-categories endpoints.
type BlogCategoriesService struct {
	core *core
}

// List fetches one page of blog categories.
func (s *BlogCategoriesService) List(ctx context.Context, q BasicListQuery) (catalog.Page[catalog.BlogCategory], error) {
	env, err := s.core.read(ctx, http.MethodGet, "/blog-categories", q.values(), nil)
	if err != nil {
		return catalog.Page[catalog.BlogCategory]{}, err
	}
	return decodeItems[catalog.BlogCategory](env)
}

// Create adds a blog category.
func (s *BlogCategoriesService) Create(ctx context.Context, c catalog.BlogCategory) (catalog.BlogCategory, error) {
	env, err := s.core.mutate(ctx, http.MethodPost, "/blog-categories", c)
	if err != nil {
		return catalog.BlogCategory{}, err
	}
	return decodeData[catalog.BlogCategory](env)
}

// Update patches a blog category by id.
func (s *BlogCategoriesService) Update(ctx context.Context, id string, c catalog.BlogCategory) (catalog.BlogCategory, error) {
	env, err := s.core.mutate(ctx, http.MethodPatch, "/blog-categories/"+url.PathEscape(id), c)
	if err != nil {
		return catalog.BlogCategory{}, err
	}
	return decodeData[catalog.BlogCategory](env)
}

// Delete removes a blog category by id.
func (s *BlogCategoriesService) Delete(ctx context.Context, id string) error {
	_, err := s.core.mutate(ctx, http.MethodDelete, "/blog-categories/"+url.PathEscape(id), nil)
	return err
}

// BlogKeywordsService talks to the /blog-keywords endpoints.
type BlogKeywordsService struct {
	core *core
}

// List fetches one page of blog keywords.
func (s *BlogKeywordsService) List(ctx context.Context, q BasicListQuery) (catalog.Page[catalog.BlogKeyword], error) {
	env, err := s.core.read(ctx, http.MethodGet, "/blog-keywords", q.values(), nil)
	if err != nil {
		return catalog.Page[catalog.BlogKeyword]{}, err
	}
	return decodeItems[catalog.BlogKeyword](env)
}

// Create adds a blog keyword.
func (s *BlogKeywordsService) Create(ctx context.Context, k catalog.BlogKeyword) (catalog.BlogKeyword, error) {
	env, err := s.core.mutate(ctx, http.MethodPost, "/blog-keywords", k)
	if err != nil {
		return catalog.BlogKeyword{}, err
	}
	return decodeData[catalog.BlogKeyword](env)
}

// Update patches a blog keyword by id.
func (s *BlogKeywordsService) Update(ctx context.Context, id string, k catalog.BlogKeyword) (catalog.BlogKeyword, error) {
	env, err := s.core.mutate(ctx, http.MethodPatch, "/blog-keywords/"+url.PathEscape(id), k)
	if err != nil {
		return catalog.BlogKeyword{}, err
	}
	return decodeData[catalog.BlogKeyword](env)
}

// Delete removes a blog keyword by id.
func (s *BlogKeywordsService) Delete(ctx context.Context, id string) error {
	_, err := s.core.mutate(ctx, http.MethodDelete, "/blog-keywords/"+url.PathEscape(id), nil)
	return err
}
