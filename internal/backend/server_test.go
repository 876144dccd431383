package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goliatone/go-catalog-admin/catalog"
)

func newTestServer(t *testing.T) (*Store, *httptest.Server) {
	t.Helper()

	store, err := NewStore(context.Background())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewServer(store, logger).Handler())
	t.Cleanup(srv.Close)
	return store, srv
}

func authedRequest(t *testing.T, method, url string, body io.Reader) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: "token"})
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func doJSON(t *testing.T, req *http.Request, wantStatus int) envelope {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, wantStatus, raw)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func decodeInto(t *testing.T, data any, into any) {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func seedProducts(t *testing.T, store *Store, n int) {
	t.Helper()
	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		p := catalog.Product{
			ID:          fmt.Sprintf("p%02d", i+1),
			Name:        fmt.Sprintf("Product %d", i+1),
			Slug:        fmt.Sprintf("product-%d", i+1),
			Price:       int64(1000 * (i + 1)),
			BrandSlug:   "acme",
			IsAvailable: true,
			IsVisible:   i%2 == 0,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			UpdatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.SeedProducts(context.Background(), p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestMissingCookieRejected(t *testing.T) {
	_, srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/brands", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestProductListPaginationEnvelope(t *testing.T) {
	store, srv := newTestServer(t)
	seedProducts(t, store, 25)

	env := doJSON(t, authedRequest(t, http.MethodPost,
		srv.URL+"/products/all?page=1&limit=10&sort=asc", bytes.NewReader([]byte("{}"))),
		http.StatusOK)

	var products []catalog.Product
	decodeInto(t, env.Data, &products)
	if len(products) != 10 {
		t.Fatalf("items = %d, want 10", len(products))
	}
	if products[0].Name != "Product 1" {
		t.Errorf("first = %q, want Product 1", products[0].Name)
	}

	want := catalog.Pagination{CurrentPage: 1, TotalPages: 3, TotalData: 25, HasNextPage: true}
	if env.Pagination == nil || *env.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", env.Pagination, want)
	}

	env = doJSON(t, authedRequest(t, http.MethodPost,
		srv.URL+"/products/all?page=3&limit=10&sort=asc", bytes.NewReader([]byte("{}"))),
		http.StatusOK)
	decodeInto(t, env.Data, &products)
	if len(products) != 5 {
		t.Errorf("page 3 items = %d, want 5", len(products))
	}
	if env.Pagination.HasNextPage {
		t.Error("HasNextPage = true on the last page")
	}
}

func TestProductListFlagAndSlugFilters(t *testing.T) {
	store, srv := newTestServer(t)
	seedProducts(t, store, 10)

	env := doJSON(t, authedRequest(t, http.MethodPost,
		srv.URL+"/products/all?page=1&limit=50&is_visible=true",
		bytes.NewReader([]byte(`{"brandSlug":"acme"}`))),
		http.StatusOK)

	var products []catalog.Product
	decodeInto(t, env.Data, &products)
	if len(products) != 5 {
		t.Fatalf("visible acme products = %d, want 5", len(products))
	}
	for _, p := range products {
		if !p.IsVisible || p.BrandSlug != "acme" {
			t.Errorf("filter leak: %+v", p)
		}
	}

	env = doJSON(t, authedRequest(t, http.MethodPost,
		srv.URL+"/products/all?page=1&limit=50",
		bytes.NewReader([]byte(`{"brandSlug":"nothing"}`))),
		http.StatusOK)
	decodeInto(t, env.Data, &products)
	if len(products) != 0 {
		t.Errorf("unknown brand matched %d products", len(products))
	}
}

func TestProductSearch(t *testing.T) {
	store, srv := newTestServer(t)
	seedProducts(t, store, 12)

	env := doJSON(t, authedRequest(t, http.MethodPost,
		srv.URL+"/products/all?page=1&limit=50&search=Product+1", bytes.NewReader([]byte("{}"))),
		http.StatusOK)

	var products []catalog.Product
	decodeInto(t, env.Data, &products)
	// Product 1, 10, 11, 12 contain the substring.
	if len(products) != 4 {
		t.Errorf("search hits = %d, want 4", len(products))
	}
}

func TestOrderDateRangeAndFlags(t *testing.T) {
	store, srv := newTestServer(t)

	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := store.SeedOrders(context.Background(), catalog.Order{
			ID:        fmt.Sprintf("o%02d", i+1),
			UserID:    "u01",
			Total:     1000,
			CreatedAt: base.AddDate(0, 0, i),
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	body := fmt.Sprintf(`{"from":%q,"to":%q}`,
		base.AddDate(0, 0, 1).Format(time.RFC3339),
		base.AddDate(0, 0, 3).Format(time.RFC3339))
	env := doJSON(t, authedRequest(t, http.MethodPost,
		srv.URL+"/orders/all?page=1&limit=10", bytes.NewReader([]byte(body))),
		http.StatusOK)

	var orders []catalog.Order
	decodeInto(t, env.Data, &orders)
	if len(orders) != 3 {
		t.Fatalf("orders in range = %d, want 3", len(orders))
	}
	if orders[0].ID == "" || orders[0].UserID != "u01" || orders[0].Total != 1000 {
		t.Errorf("order fields = %q/%q/%d, want id/u01/1000", orders[0].ID, orders[0].UserID, orders[0].Total)
	}

	doJSON(t, authedRequest(t, http.MethodPatch,
		srv.URL+"/orders/is-completed/o02", bytes.NewReader([]byte(`{"value":true}`))),
		http.StatusOK)

	got, err := store.GetOrder(context.Background(), "o02")
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if !got.IsCompleted {
		t.Error("order o02 not marked completed")
	}
}

func TestBrandLifecycle(t *testing.T) {
	_, srv := newTestServer(t)

	env := doJSON(t, authedRequest(t, http.MethodPost, srv.URL+"/brands",
		bytes.NewReader([]byte(`{"name":"Acme","slug":"acme","isVisible":true}`))),
		http.StatusCreated)

	var brand catalog.Brand
	decodeInto(t, env.Data, &brand)
	if brand.ID == "" {
		t.Fatal("created brand has no id")
	}

	doJSON(t, authedRequest(t, http.MethodPatch, srv.URL+"/brands/visibility/"+brand.ID,
		bytes.NewReader([]byte(`{"value":false}`))), http.StatusOK)

	env = doJSON(t, authedRequest(t, http.MethodGet, srv.URL+"/brands?page=1&limit=10", nil), http.StatusOK)
	var brands []catalog.Brand
	decodeInto(t, env.Data, &brands)
	if len(brands) != 1 || brands[0].IsVisible {
		t.Errorf("brands = %+v, want one hidden brand", brands)
	}

	doJSON(t, authedRequest(t, http.MethodDelete, srv.URL+"/brands/"+brand.ID, nil), http.StatusOK)
	env = doJSON(t, authedRequest(t, http.MethodGet, srv.URL+"/brands?page=1&limit=10", nil), http.StatusOK)
	decodeInto(t, env.Data, &brands)
	if len(brands) != 0 {
		t.Errorf("brands after delete = %d, want 0", len(brands))
	}
}

func TestProductCategoryNesting(t *testing.T) {
	_, srv := newTestServer(t)

	env := doJSON(t, authedRequest(t, http.MethodPost, srv.URL+"/product-categories",
		bytes.NewReader([]byte(`{"name":"Electronics","slug":"electronics"}`))),
		http.StatusCreated)
	var parent catalog.ProductCategory
	decodeInto(t, env.Data, &parent)

	child := fmt.Sprintf(`{"name":"Phones","slug":"phones","parentId":%q}`, parent.ID)
	doJSON(t, authedRequest(t, http.MethodPost, srv.URL+"/product-categories",
		bytes.NewReader([]byte(child))), http.StatusCreated)

	env = doJSON(t, authedRequest(t, http.MethodGet,
		srv.URL+"/product-categories/sub-categories?page=1&limit=10", nil), http.StatusOK)

	var categories []catalog.ProductCategory
	decodeInto(t, env.Data, &categories)
	if len(categories) != 1 {
		t.Fatalf("top-level categories = %d, want 1", len(categories))
	}
	if len(categories[0].Children) != 1 || categories[0].Children[0].Slug != "phones" {
		t.Errorf("children = %+v, want the phones node", categories[0].Children)
	}
}

func TestUnknownRoleRejected(t *testing.T) {
	_, srv := newTestServer(t)

	doJSON(t, authedRequest(t, http.MethodPost, srv.URL+"/users",
		bytes.NewReader([]byte(`{"name":"Eve","email":"eve@example.com","role":"owner"}`))),
		http.StatusBadRequest)
}

func TestUploadRoundTrip(t *testing.T) {
	_, srv := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "logo.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	req := authedRequest(t, http.MethodPost, srv.URL+"/upload-image/brand", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	env := doJSON(t, req, http.StatusCreated)

	var out struct {
		FileURL string `json:"fileUrl"`
	}
	decodeInto(t, env.Data, &out)
	if out.FileURL == "" {
		t.Fatal("no fileUrl returned")
	}

	resp, err := http.DefaultClient.Do(authedRequest(t, http.MethodGet, srv.URL+out.FileURL, nil))
	if err != nil {
		t.Fatalf("fetch upload: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if string(data) != "png-bytes" {
		t.Errorf("served upload = %q", data)
	}

	doJSON(t, authedRequest(t, http.MethodPost, srv.URL+"/upload-image/banana", &bytes.Buffer{}),
		http.StatusBadRequest)
}

func TestMissingProductIs404(t *testing.T) {
	_, srv := newTestServer(t)

	doJSON(t, authedRequest(t, http.MethodGet, srv.URL+"/products?product_id=missing", nil),
		http.StatusNotFound)
	doJSON(t, authedRequest(t, http.MethodDelete, srv.URL+"/products/missing", nil),
		http.StatusNotFound)
}
