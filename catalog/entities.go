package catalog

import "time"

// Product is the wire representation of a catalog product as returned by the
// admin API. Prices are whole Rupiah.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	Price        int64     `json:"price"`
	Promo        *Promo    `json:"promo,omitempty"`
	BrandSlug    string    `json:"brandSlug,omitempty"`
	CategorySlug string    `json:"categorySlug,omitempty"`
	IsEvent      bool      `json:"isEvent"`
	IsAvailable  bool      `json:"isAvailable"`
	IsVisible    bool      `json:"isVisible"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Order represents a customer order in the admin list and detail views.
type Order struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Total        int64     `json:"total"`
	IsCompleted  bool      `json:"isCompleted"`
	UserVerified bool      `json:"userVerified"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Brand is a product brand. Visibility is toggled from the admin list.
type Brand struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	ImageURL  string `json:"imageUrl,omitempty"`
	IsVisible bool   `json:"isVisible"`
}

// ProductCategory is a category node. Top-level categories may carry
// sub-categories; products always reference the leaf slug.
type ProductCategory struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Slug     string            `json:"slug"`
	ParentID string            `json:"parentId,omitempty"`
	Children []ProductCategory `json:"children,omitempty"`
}

// BlogCategory groups blog posts.
type BlogCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// BlogKeyword tags blog posts for search.
type BlogKeyword struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is an admin-manageable account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
