package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goliatone/go-catalog-admin/catalog"
)

// OrderListQuery carries the order list parameters. The date range travels in
// the request body.
type OrderListQuery struct {
	Page   int
	Limit  int
	Search string

	From time.Time
	To   time.Time
}

type orderListBody struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// OrdersService talks to the /orders endpoints. Orders are never created or
// deleted from the admin; only their flags change.
type OrdersService struct {
	core *core
}

// List fetches one page of orders.
func (s *OrdersService) List(ctx context.Context, q OrderListQuery) (catalog.Page[catalog.Order], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	var body orderListBody
	if !q.From.IsZero() {
		body.From = q.From.Format(time.RFC3339)
	}
	if !q.To.IsZero() {
		body.To = q.To.Format(time.RFC3339)
	}

	env, err := s.core.read(ctx, http.MethodPost, "/orders/all", query, body)
	if err != nil {
		return catalog.Page[catalog.Order]{}, err
	}
	return decodeItems[catalog.Order](env)
}

// Get fetches a single order by id.
func (s *OrdersService) Get(ctx context.Context, id string) (catalog.Order, error) {
	query := url.Values{"order_id": {id}}
	env, err := s.core.read(ctx, http.MethodGet, "/orders", query, nil)
	if err != nil {
		return catalog.Order{}, err
	}
	return decodeData[catalog.Order](env)
}

type flagBody struct {
	Value bool `json:"value"`
}

// SetCompleted toggles the completion flag on an order.
func (s *OrdersService) SetCompleted(ctx context.Context, id string, completed bool) error {
	_, err := s.core.mutate(ctx, http.MethodPatch, "/orders/is-completed/"+url.PathEscape(id), flagBody{Value: completed})
	return err
}

// SetUserVerified toggles the user verification flag on an order.
func (s *OrdersService) SetUserVerified(ctx context.Context, id string, verified bool) error {
	_, err := s.core.mutate(ctx, http.MethodPatch, "/orders/user-verified/"+url.PathEscape(id), flagBody{Value: verified})
	return err
}
