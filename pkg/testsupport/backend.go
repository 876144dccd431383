package testsupport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goliatone/go-catalog-admin/catalog"
	"github.com/goliatone/go-catalog-admin/client"
	"github.com/goliatone/go-catalog-admin/internal/backend"
)

// TestToken is the auth cookie value test clients send. The backend only
// checks presence, so any non-empty value passes the gate.
const TestToken = "test-token"

// StartBackend boots the reference API on an httptest server and returns the
// store for direct seeding plus the base URL. Everything is torn down with
// the test.
func StartBackend(t *testing.T) (*backend.Store, string) {
	t.Helper()

	store, err := backend.NewStore(context.Background())
	if err != nil {
		t.Fatalf("backend.NewStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(backend.NewServer(store, logger).Handler())
	t.Cleanup(srv.Close)

	return store, srv.URL
}

// NewClient builds a REST client against the given base URL, authenticated
// with TestToken.
func NewClient(t *testing.T, baseURL string) *client.Client {
	t.Helper()

	c, err := client.New(client.Config{BaseURL: baseURL, AuthToken: TestToken})
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	return c
}

// SeedProducts inserts n products named "Product 1".."Product n" with
// ascending creation times, so ascending sort matches the numbering.
func SeedProducts(t *testing.T, store *backend.Store, n int) []catalog.Product {
	t.Helper()

	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	products := make([]catalog.Product, n)
	for i := range products {
		products[i] = catalog.Product{
			ID:          fmt.Sprintf("p%02d", i+1),
			Name:        fmt.Sprintf("Product %d", i+1),
			Slug:        fmt.Sprintf("product-%d", i+1),
			Price:       int64(10000 * (i + 1)),
			BrandSlug:   "acme",
			IsAvailable: true,
			IsVisible:   true,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			UpdatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
	}
	if err := store.SeedProducts(context.Background(), products...); err != nil {
		t.Fatalf("SeedProducts() error = %v", err)
	}
	return products
}

// SeedOrders inserts n orders with ascending creation times.
func SeedOrders(t *testing.T, store *backend.Store, n int) []catalog.Order {
	t.Helper()

	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	orders := make([]catalog.Order, n)
	for i := range orders {
		orders[i] = catalog.Order{
			ID:        fmt.Sprintf("o%02d", i+1),
			UserID:    fmt.Sprintf("u%02d", i+1),
			Total:     int64(25000 * (i + 1)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	if err := store.SeedOrders(context.Background(), orders...); err != nil {
		t.Fatalf("SeedOrders() error = %v", err)
	}
	return orders
}
