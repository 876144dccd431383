package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goliatone/go-catalog-admin/catalog"
)

// UsersService talks to the /users endpoints. Only super admins reach these;
// the backend rejects everyone else.
type UsersService struct {
	core *core
}

// List fetches one page of admin users.
func (s *UsersService) List(ctx context.Context, q BasicListQuery) (catalog.Page[catalog.User], error) {
	env, err := s.core.read(ctx, http.MethodGet, "/users", q.values(), nil)
	if err != nil {
		return catalog.Page[catalog.User]{}, err
	}
	return decodeItems[catalog.User](env)
}

// Create adds an admin user.
func (s *UsersService) Create(ctx context.Context, u catalog.User) (catalog.User, error) {
	env, err := s.core.mutate(ctx, http.MethodPost, "/users", u)
	if err != nil {
		return catalog.User{}, err
	}
	return decodeData[catalog.User](env)
}

// Update replaces an admin user's profile and role by id.
func (s *UsersService) Update(ctx context.Context, id string, u catalog.User) (catalog.User, error) {
	env, err := s.core.mutate(ctx, http.MethodPut, "/users/manage/"+url.PathEscape(id), u)
	if err != nil {
		return catalog.User{}, err
	}
	return decodeData[catalog.User](env)
}

// Delete removes an admin user by id.
func (s *UsersService) Delete(ctx context.Context, id string) error {
	_, err := s.core.mutate(ctx, http.MethodDelete, "/users/manage/"+url.PathEscape(id), nil)
	return err
}
