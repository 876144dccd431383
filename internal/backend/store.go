// Package backend is the in-process reference implementation of the admin
// REST API. It exists so the client, cache and controller layers can be
// exercised end to end; it is test infrastructure, not a product backend.
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-catalog-admin/catalog"
)

type productModel struct {
	bun.BaseModel `bun:"table:products"`

	ID           string    `bun:"id,pk"`
	Name         string    `bun:"name,notnull"`
	Slug         string    `bun:"slug,notnull"`
	Description  string    `bun:"description"`
	Price        int64     `bun:"price,notnull"`
	PromoKind    string    `bun:"promo_kind"`
	PromoPercent int       `bun:"promo_percent"`
	PromoAmount  int64     `bun:"promo_amount"`
	PromoFinal   int64     `bun:"promo_final"`
	BrandSlug    string    `bun:"brand_slug"`
	CategorySlug string    `bun:"category_slug"`
	IsEvent      bool      `bun:"is_event,notnull"`
	IsAvailable  bool      `bun:"is_available,notnull"`
	IsVisible    bool      `bun:"is_visible,notnull"`
	ImageURL     string    `bun:"image_url"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}

type orderModel struct {
	bun.BaseModel `bun:"table:orders"`

	ID           string    `bun:"id,pk"`
	UserID       string    `bun:"user_id,notnull"`
	Total        int64     `bun:"total,notnull"`
	IsCompleted  bool      `bun:"is_completed,notnull"`
	UserVerified bool      `bun:"user_verified,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

type brandModel struct {
	bun.BaseModel `bun:"table:brands"`

	ID        string `bun:"id,pk"`
	Name      string `bun:"name,notnull"`
	Slug      string `bun:"slug,notnull"`
	ImageURL  string `bun:"image_url"`
	IsVisible bool   `bun:"is_visible,notnull"`
}

type productCategoryModel struct {
	bun.BaseModel `bun:"table:product_categories"`

	ID       string `bun:"id,pk"`
	Name     string `bun:"name,notnull"`
	Slug     string `bun:"slug,notnull"`
	ParentID string `bun:"parent_id"`
}

type blogCategoryModel struct {
	bun.BaseModel `bun:"table:blog_categories"`

	ID   string `bun:"id,pk"`
	Name string `bun:"name,notnull"`
	Slug string `bun:"slug,notnull"`
}

type blogKeywordModel struct {
	bun.BaseModel `bun:"table:blog_keywords"`

	ID   string `bun:"id,pk"`
	Name string `bun:"name,notnull"`
}

type userModel struct {
	bun.BaseModel `bun:"table:users"`

	ID    string `bun:"id,pk"`
	Name  string `bun:"name,notnull"`
	Email string `bun:"email,notnull"`
	Role  string `bun:"role,notnull"`
}

// ListQuery carries the common list parameters every family accepts.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	Sort   string
}

func (q ListQuery) normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	return q
}

func (q ListQuery) offset() int { return (q.Page - 1) * q.Limit }

// ProductFilter narrows the product list. Nil flags mean "don't care".
type ProductFilter struct {
	BrandSlug    string
	CategorySlug string
	IsEvent      *bool
	IsAvailable  *bool
	IsVisible    *bool
}

// OrderFilter narrows the order list to a creation date range.
type OrderFilter struct {
	From time.Time
	To   time.Time
}

// Store is the SQLite-backed data layer behind the reference API.
type Store struct {
	db  *bun.DB
	now func() time.Time
}

// NewStore opens an in-memory database and creates the schema.
func NewStore(ctx context.Context) (*Store, error) {
	// A named shared-cache database keeps stores isolated from each other
	// while letting the pool's connections see one schema.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The database lives only while a connection to it is open.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	s := &Store{db: db, now: time.Now}

	models := []any{
		(*productModel)(nil),
		(*orderModel)(nil),
		(*brandModel)(nil),
		(*productCategoryModel)(nil),
		(*blogCategoryModel)(nil),
		(*blogKeywordModel)(nil),
		(*userModel)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("create table: %w", err)
		}
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

func sortDirection(sort string) string {
	if strings.EqualFold(sort, "asc") {
		return "ASC"
	}
	return "DESC"
}

func newID() string { return uuid.NewString() }

// ListProducts applies search, filters, sort and pagination server-side and
// returns the page plus the unpaginated total.
func (s *Store) ListProducts(ctx context.Context, q ListQuery, f ProductFilter) ([]catalog.Product, int, error) {
	q = q.normalize()

	query := s.db.NewSelect().Model((*productModel)(nil))
	if q.Search != "" {
		query = query.Where("name LIKE ?", "%"+q.Search+"%")
	}
	if f.BrandSlug != "" {
		query = query.Where("brand_slug = ?", f.BrandSlug)
	}
	if f.CategorySlug != "" {
		query = query.Where("category_slug = ?", f.CategorySlug)
	}
	if f.IsEvent != nil {
		query = query.Where("is_event = ?", *f.IsEvent)
	}
	if f.IsAvailable != nil {
		query = query.Where("is_available = ?", *f.IsAvailable)
	}
	if f.IsVisible != nil {
		query = query.Where("is_visible = ?", *f.IsVisible)
	}

	var models []productModel
	total, err := query.Order("created_at "+sortDirection(q.Sort)).
		Limit(q.Limit).Offset(q.offset()).
		ScanAndCount(ctx, &models)
	if err != nil {
		return nil, 0, err
	}

	products := make([]catalog.Product, len(models))
	for i, m := range models {
		products[i] = productFromModel(m)
	}
	return products, total, nil
}

// GetProduct looks one product up by id.
func (s *Store) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	var m productModel
	err := s.db.NewSelect().Model(&m).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return catalog.Product{}, err
	}
	return productFromModel(m), nil
}

// CreateProduct stores a product, assigning id and timestamps.
func (s *Store) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	m := productToModel(p)
	if m.ID == "" {
		m.ID = newID()
	}
	now := s.now()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return catalog.Product{}, err
	}
	return productFromModel(m), nil
}

// UpdateProduct replaces the mutable product fields.
func (s *Store) UpdateProduct(ctx context.Context, id string, p catalog.Product) (catalog.Product, error) {
	m := productToModel(p)
	m.ID = id
	m.UpdatedAt = s.now()

	res, err := s.db.NewUpdate().Model(&m).
		Column("name", "slug", "description", "price",
			"promo_kind", "promo_percent", "promo_amount", "promo_final",
			"brand_slug", "category_slug",
			"is_event", "is_available", "is_visible",
			"image_url", "updated_at").
		WherePK().Exec(ctx)
	if err != nil {
		return catalog.Product{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.Product{}, sql.ErrNoRows
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes one product.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteByID(ctx, (*productModel)(nil), id)
}

// BulkDeleteProducts removes every listed product in one statement.
func (s *Store) BulkDeleteProducts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.NewDelete().Model((*productModel)(nil)).
		Where("id IN (?)", bun.In(ids)).Exec(ctx)
	return err
}

// ListOrders applies the date range, search and pagination server-side.
func (s *Store) ListOrders(ctx context.Context, q ListQuery, f OrderFilter) ([]catalog.Order, int, error) {
	q = q.normalize()

	query := s.db.NewSelect().Model((*orderModel)(nil))
	if q.Search != "" {
		query = query.Where("id LIKE ? OR user_id LIKE ?", "%"+q.Search+"%", "%"+q.Search+"%")
	}
	if !f.From.IsZero() {
		query = query.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		query = query.Where("created_at <= ?", f.To)
	}

	var models []orderModel
	total, err := query.Order("created_at DESC").
		Limit(q.Limit).Offset(q.offset()).
		ScanAndCount(ctx, &models)
	if err != nil {
		return nil, 0, err
	}

	orders := make([]catalog.Order, len(models))
	for i, m := range models {
		orders[i] = orderFromModel(m)
	}
	return orders, total, nil
}

// GetOrder looks one order up by id.
func (s *Store) GetOrder(ctx context.Context, id string) (catalog.Order, error) {
	var m orderModel
	err := s.db.NewSelect().Model(&m).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return catalog.Order{}, err
	}
	return orderFromModel(m), nil
}

// SetOrderCompleted flips the completion flag.
func (s *Store) SetOrderCompleted(ctx context.Context, id string, completed bool) error {
	return s.setOrderFlag(ctx, id, "is_completed", completed)
}

// SetOrderUserVerified flips the verification flag.
func (s *Store) SetOrderUserVerified(ctx context.Context, id string, verified bool) error {
	return s.setOrderFlag(ctx, id, "user_verified", verified)
}

func (s *Store) setOrderFlag(ctx context.Context, id, column string, value bool) error {
	res, err := s.db.NewUpdate().Model((*orderModel)(nil)).
		Set(column+" = ?", value).
		Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListBrands applies search, sort and pagination server-side.
func (s *Store) ListBrands(ctx context.Context, q ListQuery) ([]catalog.Brand, int, error) {
	q = q.normalize()

	query := s.db.NewSelect().Model((*brandModel)(nil))
	if q.Search != "" {
		query = query.Where("name LIKE ?", "%"+q.Search+"%")
	}

	var models []brandModel
	total, err := query.Order("name "+sortDirection(q.Sort)).
		Limit(q.Limit).Offset(q.offset()).
		ScanAndCount(ctx, &models)
	if err != nil {
		return nil, 0, err
	}

	brands := make([]catalog.Brand, len(models))
	for i, m := range models {
		brands[i] = catalog.Brand{ID: m.ID, Name: m.Name, Slug: m.Slug, ImageURL: m.ImageURL, IsVisible: m.IsVisible}
	}
	return brands, total, nil
}

// CreateBrand stores a brand.
func (s *Store) CreateBrand(ctx context.Context, b catalog.Brand) (catalog.Brand, error) {
	if b.ID == "" {
		b.ID = newID()
	}
	m := brandModel{ID: b.ID, Name: b.Name, Slug: b.Slug, ImageURL: b.ImageURL, IsVisible: b.IsVisible}
	if _, err := s.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return catalog.Brand{}, err
	}
	return b, nil
}

// UpdateBrand replaces a brand's fields.
func (s *Store) UpdateBrand(ctx context.Context, id string, b catalog.Brand) (catalog.Brand, error) {
	m := brandModel{ID: id, Name: b.Name, Slug: b.Slug, ImageURL: b.ImageURL, IsVisible: b.IsVisible}
	res, err := s.db.NewUpdate().Model(&m).
		Column("name", "slug", "image_url", "is_visible").
		WherePK().Exec(ctx)
	if err != nil {
		return catalog.Brand{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.Brand{}, sql.ErrNoRows
	}
	b.ID = id
	return b, nil
}

// DeleteBrand removes one brand.
func (s *Store) DeleteBrand(ctx context.Context, id string) error {
	return s.deleteByID(ctx, (*brandModel)(nil), id)
}

// SetBrandVisibility flips the storefront visibility flag.
func (s *Store) SetBrandVisibility(ctx context.Context, id string, visible bool) error {
	res, err := s.db.NewUpdate().Model((*brandModel)(nil)).
		Set("is_visible = ?", visible).
		Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListProductCategories returns top-level categories with their children
// nested, paginated over the top level only.
func (s *Store) ListProductCategories(ctx context.Context, q ListQuery) ([]catalog.ProductCategory, int, error) {
	q = q.normalize()

	query := s.db.NewSelect().Model((*productCategoryModel)(nil)).
		Where("parent_id = ''")
	if q.Search != "" {
		query = query.Where("name LIKE ?", "%"+q.Search+"%")
	}

	var parents []productCategoryModel
	total, err := query.Order("name "+sortDirection(q.Sort)).
		Limit(q.Limit).Offset(q.offset()).
		ScanAndCount(ctx, &parents)
	if err != nil {
		return nil, 0, err
	}

	categories := make([]catalog.ProductCategory, len(parents))
	for i, parent := range parents {
		var children []productCategoryModel
		err := s.db.NewSelect().Model(&children).
			Where("parent_id = ?", parent.ID).
			Order("name ASC").Scan(ctx)
		if err != nil {
			return nil, 0, err
		}

		node := catalog.ProductCategory{ID: parent.ID, Name: parent.Name, Slug: parent.Slug}
		for _, child := range children {
			node.Children = append(node.Children, catalog.ProductCategory{
				ID: child.ID, Name: child.Name, Slug: child.Slug, ParentID: child.ParentID,
			})
		}
		categories[i] = node
	}
	return categories, total, nil
}

// CreateProductCategory stores a category node.
func (s *Store) CreateProductCategory(ctx context.Context, c catalog.ProductCategory) (catalog.ProductCategory, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	m := productCategoryModel{ID: c.ID, Name: c.Name, Slug: c.Slug, ParentID: c.ParentID}
	if _, err := s.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return catalog.ProductCategory{}, err
	}
	return c, nil
}

// UpdateProductCategory replaces a category's fields.
func (s *Store) UpdateProductCategory(ctx context.Context, id string, c catalog.ProductCategory) (catalog.ProductCategory, error) {
	m := productCategoryModel{ID: id, Name: c.Name, Slug: c.Slug, ParentID: c.ParentID}
	res, err := s.db.NewUpdate().Model(&m).
		Column("name", "slug", "parent_id").
		WherePK().Exec(ctx)
	if err != nil {
		return catalog.ProductCategory{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ProductCategory{}, sql.ErrNoRows
	}
	c.ID = id
	return c, nil
}

// DeleteProductCategory removes a node and its direct children.
func (s *Store) DeleteProductCategory(ctx context.Context, id string) error {
	if _, err := s.db.NewDelete().Model((*productCategoryModel)(nil)).
		Where("parent_id = ?", id).Exec(ctx); err != nil {
		return err
	}
	return s.deleteByID(ctx, (*productCategoryModel)(nil), id)
}

// ListBlogCategories applies search and pagination server-side.
func (s *Store) ListBlogCategories(ctx context.Context, q ListQuery) ([]catalog.BlogCategory, int, error) {
	q = q.normalize()

	query := s.db.NewSelect().Model((*blogCategoryModel)(nil))
	if q.Search != "" {
		query = query.Where("name LIKE ?", "%"+q.Search+"%")
	}

	var models []blogCategoryModel
	total, err := query.Order("name "+sortDirection(q.Sort)).
		Limit(q.Limit).Offset(q.offset()).
		ScanAndCount(ctx, &models)
	if err != nil {
		return nil, 0, err
	}

	categories := make([]catalog.BlogCategory, len(models))
	for i, m := range models {
		categories[i] = catalog.BlogCategory{ID: m.ID, Name: m.Name, Slug: m.Slug}
	}
	return categories, total, nil
}

// CreateBlogCategory stores a blog category.
func (s *Store) CreateBlogCategory(ctx context.Context, c catalog.BlogCategory) (catalog.BlogCategory, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	m := blogCategoryModel{ID: c.ID, Name: c.Name, Slug: c.Slug}
	if _, err := s.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return catalog.BlogCategory{}, err
	}
	return c, nil
}

// UpdateBlogCategory replaces a blog category's fields.
func (s *Store) UpdateBlogCategory(ctx context.Context, id string, c catalog.BlogCategory) (catalog.BlogCategory, error) {
	m := blogCategoryModel{ID: id, Name: c.Name, Slug: c.Slug}
	res, err := s.db.NewUpdate().Model(&m).
		Column("name", "slug").
		WherePK().Exec(ctx)
	if err != nil {
		return catalog.BlogCategory{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.BlogCategory{}, sql.ErrNoRows
	}
	c.ID = id
	return c, nil
}

// DeleteBlogCategory removes one blog category.
func (s *Store) DeleteBlogCategory(ctx context.Context, id string) error {
	return s.deleteByID(ctx, (*blogCategoryModel)(nil), id)
}

// ListBlogKeywords applies search and pagination server-side.
func (s *Store) ListBlogKeywords(ctx context.Context, q ListQuery) ([]catalog.BlogKeyword, int, error) {
	q = q.normalize()

	query := s.db.NewSelect().Model((*blogKeywordModel)(nil))
	if q.Search != "" {
		query = query.Where("name LIKE ?", "%"+q.Search+"%")
	}

	var models []blogKeywordModel
	total, err := query.Order("name "+sortDirection(q.Sort)).
		Limit(q.Limit).Offset(q.offset()).
		ScanAndCount(ctx, &models)
	if err != nil {
		return nil, 0, err
	}

	keywords := make([]catalog.BlogKeyword, len(models))
	for i, m := range models {
		keywords[i] = catalog.BlogKeyword{ID: m.ID, Name: m.Name}
	}
	return keywords, total, nil
}

// CreateBlogKeyword stores a blog keyword.
func (s *Store) CreateBlogKeyword(ctx context.Context, k catalog.BlogKeyword) (catalog.BlogKeyword, error) {
	if k.ID == "" {
		k.ID = newID()
	}
	m := blogKeywordModel{ID: k.ID, Name: k.Name}
	if _, err := s.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return catalog.BlogKeyword{}, err
	}
	return k, nil
}

// UpdateBlogKeyword replaces a keyword's name.
func (s *Store) UpdateBlogKeyword(ctx context.Context, id string, k catalog.BlogKeyword) (catalog.BlogKeyword, error) {
	m := blogKeywordModel{ID: id, Name: k.Name}
	res, err := s.db.NewUpdate().Model(&m).Column("name").WherePK().Exec(ctx)
	if err != nil {
		return catalog.BlogKeyword{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.BlogKeyword{}, sql.ErrNoRows
	}
	k.ID = id
	return k, nil
}

// DeleteBlogKeyword removes one keyword.
func (s *Store) DeleteBlogKeyword(ctx context.Context, id string) error {
	return s.deleteByID(ctx, (*blogKeywordModel)(nil), id)
}

// ListUsers applies search and pagination server-side.
func (s *Store) ListUsers(ctx context.Context, q ListQuery) ([]catalog.User, int, error) {
	q = q.normalize()

	query := s.db.NewSelect().Model((*userModel)(nil))
	if q.Search != "" {
		query = query.Where("name LIKE ? OR email LIKE ?", "%"+q.Search+"%", "%"+q.Search+"%")
	}

	var models []userModel
	total, err := query.Order("name "+sortDirection(q.Sort)).
		Limit(q.Limit).Offset(q.offset()).
		ScanAndCount(ctx, &models)
	if err != nil {
		return nil, 0, err
	}

	users := make([]catalog.User, len(models))
	for i, m := range models {
		users[i] = catalog.User{ID: m.ID, Name: m.Name, Email: m.Email, Role: catalog.Role(m.Role)}
	}
	return users, total, nil
}

// CreateUser stores an admin user.
func (s *Store) CreateUser(ctx context.Context, u catalog.User) (catalog.User, error) {
	if u.ID == "" {
		u.ID = newID()
	}
	m := userModel{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
	if _, err := s.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return catalog.User{}, err
	}
	return u, nil
}

// UpdateUser replaces a user's profile and role.
func (s *Store) UpdateUser(ctx context.Context, id string, u catalog.User) (catalog.User, error) {
	m := userModel{ID: id, Name: u.Name, Email: u.Email, Role: string(u.Role)}
	res, err := s.db.NewUpdate().Model(&m).
		Column("name", "email", "role").
		WherePK().Exec(ctx)
	if err != nil {
		return catalog.User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.User{}, sql.ErrNoRows
	}
	u.ID = id
	return u, nil
}

// DeleteUser removes one admin user.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.deleteByID(ctx, (*userModel)(nil), id)
}

// SeedProducts inserts products as-is, keeping their ids and timestamps.
func (s *Store) SeedProducts(ctx context.Context, products ...catalog.Product) error {
	for _, p := range products {
		m := productToModel(p)
		if m.ID == "" {
			m.ID = newID()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = s.now()
			m.UpdatedAt = m.CreatedAt
		}
		if _, err := s.db.NewInsert().Model(&m).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// SeedOrders inserts orders directly; the API has no create endpoint for
// them.
func (s *Store) SeedOrders(ctx context.Context, orders ...catalog.Order) error {
	for _, o := range orders {
		m := orderModel{
			ID:           o.ID,
			UserID:       o.UserID,
			Total:        o.Total,
			IsCompleted:  o.IsCompleted,
			UserVerified: o.UserVerified,
			CreatedAt:    o.CreatedAt,
		}
		if m.ID == "" {
			m.ID = newID()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = s.now()
		}
		if _, err := s.db.NewInsert().Model(&m).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) deleteByID(ctx context.Context, model any, id string) error {
	res, err := s.db.NewDelete().Model(model).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func orderFromModel(m orderModel) catalog.Order {
	return catalog.Order{
		ID:           m.ID,
		UserID:       m.UserID,
		Total:        m.Total,
		IsCompleted:  m.IsCompleted,
		UserVerified: m.UserVerified,
		CreatedAt:    m.CreatedAt,
	}
}

func productFromModel(m productModel) catalog.Product {
	p := catalog.Product{
		ID:           m.ID,
		Name:         m.Name,
		Slug:         m.Slug,
		Description:  m.Description,
		Price:        m.Price,
		BrandSlug:    m.BrandSlug,
		CategorySlug: m.CategorySlug,
		IsEvent:      m.IsEvent,
		IsAvailable:  m.IsAvailable,
		IsVisible:    m.IsVisible,
		ImageURL:     m.ImageURL,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.PromoKind != "" {
		p.Promo = &catalog.Promo{
			Kind:       catalog.PromoKind(m.PromoKind),
			Percent:    m.PromoPercent,
			Amount:     m.PromoAmount,
			FinalPrice: m.PromoFinal,
		}
	}
	return p
}

func productToModel(p catalog.Product) productModel {
	m := productModel{
		ID:           p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		Price:        p.Price,
		BrandSlug:    p.BrandSlug,
		CategorySlug: p.CategorySlug,
		IsEvent:      p.IsEvent,
		IsAvailable:  p.IsAvailable,
		IsVisible:    p.IsVisible,
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.Promo != nil {
		m.PromoKind = string(p.Promo.Kind)
		m.PromoPercent = p.Promo.Percent
		m.PromoAmount = p.Promo.Amount
		m.PromoFinal = p.Promo.FinalPrice
	}
	return m
}
