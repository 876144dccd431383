package cache

import (
	"context"
	"errors"
	"testing"
)

// mockService returns a canned entry for every key.
type mockService struct {
	entry Entry
	err   error
}

func (m *mockService) Get(ctx context.Context, key QueryKey, fetch FetchFn) (Entry, error) {
	return m.entry, m.err
}

func (m *mockService) Refresh(ctx context.Context, key QueryKey, fetch FetchFn) (Entry, error) {
	return m.entry, m.err
}

func (m *mockService) Prefetch(ctx context.Context, key QueryKey, fetch FetchFn) {}

func (m *mockService) Invalidate(family Family) int { return 0 }

func (m *mockService) Subscribe(key QueryKey) func() { return func() {} }

func (m *mockService) Len() int { return 0 }

func (m *mockService) Stop() {}

func TestGetAs_ValidResult(t *testing.T) {
	mock := &mockService{entry: Entry{Data: "cached-value"}}

	key := NewQueryKey("products", Params{"page": 1})
	value, entry, err := GetAs(context.Background(), mock, key, func(ctx context.Context) (string, error) {
		return "cached-value", nil
	})
	if err != nil {
		t.Fatalf("GetAs() error = %v", err)
	}
	if value != "cached-value" {
		t.Errorf("GetAs() = %q, want %q", value, "cached-value")
	}
	if entry.Data != "cached-value" {
		t.Errorf("entry data = %v, want %q", entry.Data, "cached-value")
	}
}

func TestGetAs_TypeMismatch(t *testing.T) {
	mock := &mockService{entry: Entry{Data: "wrong-type"}}

	key := NewQueryKey("products", Params{"page": 1})
	value, _, err := GetAs(context.Background(), mock, key, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if !errors.Is(err, ErrInvalidResultType) {
		t.Errorf("expected ErrInvalidResultType, got %v", err)
	}
	if value != 0 {
		t.Errorf("expected zero value, got %v", value)
	}
}

func TestGetAs_NilData(t *testing.T) {
	mock := &mockService{entry: Entry{Data: nil}}

	key := NewQueryKey("products", Params{"page": 1})
	value, _, err := GetAs(context.Background(), mock, key, func(ctx context.Context) (*string, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("GetAs() error = %v", err)
	}
	if value != nil {
		t.Errorf("expected nil value, got %v", value)
	}
}

func TestGetAs_FetchError(t *testing.T) {
	wantErr := errors.New("backend down")
	mock := &mockService{err: wantErr}

	key := NewQueryKey("products", Params{"page": 1})
	if _, _, err := GetAs(context.Background(), mock, key, func(ctx context.Context) (string, error) {
		return "", wantErr
	}); !errors.Is(err, wantErr) {
		t.Errorf("expected fetch error to propagate, got %v", err)
	}
}

func TestWithInvalidateFamilies(t *testing.T) {
	ctx := WithInvalidateFamilies(context.Background(), "products", "ProductCategories", "products")

	families := InvalidateFamiliesFromContext(ctx)
	if len(families) != 2 {
		t.Fatalf("expected 2 deduped families, got %v", families)
	}
	if families[0] != "products" || families[1] != "product_categories" {
		t.Errorf("families = %v, want [products product_categories]", families)
	}
}

func TestInvalidateFamiliesFromContext_Empty(t *testing.T) {
	if families := InvalidateFamiliesFromContext(context.Background()); families != nil {
		t.Errorf("expected nil, got %v", families)
	}
}
