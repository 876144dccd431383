package cache

import (
	"strings"
	"testing"
)

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestNewQueryKey_Canonical(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		params Params
		want   string
	}{
		{
			name:   "no params",
			family: "brands",
			params: nil,
			want:   "brands",
		},
		{
			name:   "standard bag",
			family: "products",
			params: Params{"page": 1, "limit": 10, "sort": "asc"},
			want:   joinWithSeparator("products", "limit=10", "page=1", "sort=asc"),
		},
		{
			name:   "bool and float values",
			family: "products",
			params: Params{"isEvent": true, "minPrice": 19.5},
			want:   joinWithSeparator("products", "isEvent=true", "minPrice=19.5"),
		},
		{
			name:   "family normalized to snake case",
			family: "BlogCategories",
			params: nil,
			want:   "blog_categories",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewQueryKey(tt.family, tt.params).String()
			if got != tt.want {
				t.Errorf("NewQueryKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewQueryKey_OrderIndependent(t *testing.T) {
	a := NewQueryKey("products", Params{"page": 2, "limit": 10, "sort": "asc", "search": "shoe"})
	b := NewQueryKey("products", Params{"search": "shoe", "sort": "asc", "limit": 10, "page": 2})

	if a != b {
		t.Errorf("keys differ for deeply equal bags: %q vs %q", a.String(), b.String())
	}
}

func TestNewQueryKey_AbsentVsEmptyString(t *testing.T) {
	absent := NewQueryKey("products", Params{"page": 1, "search": nil})
	empty := NewQueryKey("products", Params{"page": 1, "search": ""})

	if absent == empty {
		t.Errorf("absent and empty-string params must produce distinct keys, both %q", absent.String())
	}
	if absent.String() != joinWithSeparator("products", "page=1") {
		t.Errorf("absent param should be omitted, got %q", absent.String())
	}
	if empty.String() != joinWithSeparator("products", "page=1", "search=") {
		t.Errorf("empty-string param should be kept, got %q", empty.String())
	}
}

func TestNewQueryKey_SeparatorInValueDoesNotCollide(t *testing.T) {
	// Search text is arbitrary user input; a value spelling out the key
	// syntax must not fold two different bags into one key.
	a := NewQueryKey("products", Params{"a": "1::b=2"})
	b := NewQueryKey("products", Params{"a": "1", "b": "2"})
	if a == b {
		t.Fatalf("distinct bags collide on key %q", a.String())
	}

	c := NewQueryKey("products", Params{"search": "size=10::page"})
	d := NewQueryKey("products", Params{"search": "size=10::page"})
	if c != d {
		t.Errorf("equal bags with escaped text differ: %q vs %q", c.String(), d.String())
	}
}

func TestInFamily(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		family Family
		want   bool
	}{
		{name: "bare family key", key: "brands", family: "brands", want: true},
		{name: "parameterized key", key: joinWithSeparator("brands", "page=1"), family: "brands", want: true},
		{name: "other family", key: joinWithSeparator("products", "page=1"), family: "brands", want: false},
		{name: "prefix is not a segment", key: "brandsx", family: "brands", want: false},
		{name: "unnormalized family tag", key: joinWithSeparator("blog_categories", "page=1"), family: "BlogCategories", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InFamily(tt.key, tt.family); got != tt.want {
				t.Errorf("InFamily(%q, %q) = %v, want %v", tt.key, tt.family, got, tt.want)
			}
		})
	}
}

func TestQueryKey_Family(t *testing.T) {
	key := NewQueryKey("Product Categories", Params{"page": 1})
	if key.Family() != "product_categories" {
		t.Errorf("Family() = %q, want %q", key.Family(), "product_categories")
	}
}
