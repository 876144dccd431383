package backend

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/goliatone/go-catalog-admin/catalog"
)

const authCookieName = "admin_token"

var allowedUploadKinds = map[string]bool{
	"blog":    true,
	"brand":   true,
	"product": true,
}

// Server exposes the admin REST API over a Store. Routes, parameter
// placement and the response envelope match what the client package expects.
type Server struct {
	store *Store
	log   *slog.Logger

	mu      sync.Mutex
	uploads map[string][]byte
}

// NewServer wires the routes over the given store. A nil logger falls back
// to slog's default.
func NewServer(store *Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:   store,
		log:     logger,
		uploads: make(map[string][]byte),
	}
}

// Handler returns the routed HTTP handler, auth gate and logging included.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/products/all", s.listProducts).Methods(http.MethodPost)
	r.HandleFunc("/products/delete/bulk", s.bulkDeleteProducts).Methods(http.MethodPost)
	r.HandleFunc("/products", s.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/products", s.createProduct).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}", s.updateProduct).Methods(http.MethodPatch)
	r.HandleFunc("/products/{id}", s.deleteProduct).Methods(http.MethodDelete)

	r.HandleFunc("/orders/all", s.listOrders).Methods(http.MethodPost)
	r.HandleFunc("/orders", s.getOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/is-completed/{id}", s.setOrderCompleted).Methods(http.MethodPatch)
	r.HandleFunc("/orders/user-verified/{id}", s.setOrderUserVerified).Methods(http.MethodPatch)

	r.HandleFunc("/brands", s.listBrands).Methods(http.MethodGet)
	r.HandleFunc("/brands", s.createBrand).Methods(http.MethodPost)
	r.HandleFunc("/brands/visibility/{id}", s.setBrandVisibility).Methods(http.MethodPatch)
	r.HandleFunc("/brands/{id}", s.updateBrand).Methods(http.MethodPatch)
	r.HandleFunc("/brands/{id}", s.deleteBrand).Methods(http.MethodDelete)

	r.HandleFunc("/blog-categories", s.listBlogCategories).Methods(http.MethodGet)
	r.HandleFunc("/blog-categories", s.createBlogCategory).Methods(http.MethodPost)
	r.HandleFunc("/blog-categories/{id}", s.updateBlogCategory).Methods(http.MethodPatch)
	r.HandleFunc("/blog-categories/{id}", s.deleteBlogCategory).Methods(http.MethodDelete)

	r.HandleFunc("/blog-keywords", s.listBlogKeywords).Methods(http.MethodGet)
	r.HandleFunc("/blog-keywords", s.createBlogKeyword).Methods(http.MethodPost)
	r.HandleFunc("/blog-keywords/{id}", s.updateBlogKeyword).Methods(http.MethodPatch)
	r.HandleFunc("/blog-keywords/{id}", s.deleteBlogKeyword).Methods(http.MethodDelete)

	r.HandleFunc("/product-categories/sub-categories", s.listProductCategories).Methods(http.MethodGet)
	r.HandleFunc("/product-categories", s.createProductCategory).Methods(http.MethodPost)
	r.HandleFunc("/product-categories/{id}", s.updateProductCategory).Methods(http.MethodPut)
	r.HandleFunc("/product-categories/{id}", s.deleteProductCategory).Methods(http.MethodDelete)

	r.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", s.createUser).Methods(http.MethodPost)
	r.HandleFunc("/users/manage/{id}", s.updateUser).Methods(http.MethodPut)
	r.HandleFunc("/users/manage/{id}", s.deleteUser).Methods(http.MethodDelete)

	r.HandleFunc("/upload-image/{kind}", s.uploadImage).Methods(http.MethodPost)
	r.HandleFunc("/uploads/{kind}/{name}", s.serveUpload).Methods(http.MethodGet)

	return s.logged(s.authed(r))
}

// authed gates every route on cookie presence. Token validation belongs to
// the real identity provider, not here.
func (s *Server) authed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(authCookieName); err != nil {
			writeError(w, http.StatusUnauthorized, "missing auth cookie")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type envelope struct {
	Data       any                 `json:"data,omitempty"`
	Pagination *catalog.Pagination `json:"pagination,omitempty"`
	Message    string              `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data})
}

func writeList(w http.ResponseWriter, items any, p catalog.Pagination) {
	writeJSON(w, http.StatusOK, envelope{Data: items, Pagination: &p})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Message: message})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func listQueryFrom(r *http.Request) ListQuery {
	q := r.URL.Query()
	var out ListQuery
	out.Page = atoiDefault(q.Get("page"), 1)
	out.Limit = atoiDefault(q.Get("limit"), 10)
	out.Search = q.Get("search")
	out.Sort = q.Get("sort")
	return out
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
	}
	if n < 1 {
		return def
	}
	return n
}

func parseFlag(s string) *bool {
	switch s {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}

type flagBody struct {
	Value bool `json:"value"`
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := listQueryFrom(r)
	query := r.URL.Query()

	var body struct {
		BrandSlug    string `json:"brandSlug"`
		CategorySlug string `json:"categorySlug"`
	}
	// The slug filters travel in the body; an empty body means no filters.
	_ = json.NewDecoder(r.Body).Decode(&body)

	filter := ProductFilter{
		BrandSlug:    body.BrandSlug,
		CategorySlug: body.CategorySlug,
		IsEvent:      parseFlag(query.Get("is_event")),
		IsAvailable:  parseFlag(query.Get("is_available")),
		IsVisible:    parseFlag(query.Get("is_visible")),
	}

	products, total, err := s.store.ListProducts(r.Context(), q, filter)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, products, catalog.Paginate(q.Page, q.Limit, total))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("product_id")
	product, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, product)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if !decodeBody(w, r, &p) {
		return
	}
	created, err := s.store.CreateProduct(r.Context(), p)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if !decodeBody(w, r, &p) {
		return
	}
	updated, err := s.store.UpdateProduct(r.Context(), mux.Vars(r)["id"], p)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "deleted"})
}

func (s *Server) bulkDeleteProducts(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.store.BulkDeleteProducts(r.Context(), body.IDs); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "deleted"})
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	q := listQueryFrom(r)

	var body struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	var filter OrderFilter
	if body.From != "" {
		if t, err := time.Parse(time.RFC3339, body.From); err == nil {
			filter.From = t
		}
	}
	if body.To != "" {
		if t, err := time.Parse(time.RFC3339, body.To); err == nil {
			filter.To = t
		}
	}

	orders, total, err := s.store.ListOrders(r.Context(), q, filter)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, orders, catalog.Paginate(q.Page, q.Limit, total))
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("order_id")
	order, err := s.store.GetOrder(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, order)
}

func (s *Server) setOrderCompleted(w http.ResponseWriter, r *http.Request) {
	var body flagBody
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.store.SetOrderCompleted(r.Context(), mux.Vars(r)["id"], body.Value); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "updated"})
}

func (s *Server) setOrderUserVerified(w http.ResponseWriter, r *http.Request) {
	var body flagBody
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.store.SetOrderUserVerified(r.Context(), mux.Vars(r)["id"], body.Value); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "updated"})
}

func (s *Server) listBrands(w http.ResponseWriter, r *http.Request) {
	q := listQueryFrom(r)
	brands, total, err := s.store.ListBrands(r.Context(), q)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, brands, catalog.Paginate(q.Page, q.Limit, total))
}

func (s *Server) createBrand(w http.ResponseWriter, r *http.Request) {
	var b catalog.Brand
	if !decodeBody(w, r, &b) {
		return
	}
	created, err := s.store.CreateBrand(r.Context(), b)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) updateBrand(w http.ResponseWriter, r *http.Request) {
	var b catalog.Brand
	if !decodeBody(w, r, &b) {
		return
	}
	updated, err := s.store.UpdateBrand(r.Context(), mux.Vars(r)["id"], b)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) deleteBrand(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBrand(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "deleted"})
}

func (s *Server) setBrandVisibility(w http.ResponseWriter, r *http.Request) {
	var body flagBody
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.store.SetBrandVisibility(r.Context(), mux.Vars(r)["id"], body.Value); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "updated"})
}

func (s *Server) listBlogCategories(w http.ResponseWriter, r *http.Request) {
	q := listQueryFrom(r)
	categories, total, err := s.store.ListBlogCategories(r.Context(), q)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, categories, catalog.Paginate(q.Page, q.Limit, total))
}

func (s *Server) createBlogCategory(w http.ResponseWriter, r *http.Request) {
	var c catalog.BlogCategory
	if !decodeBody(w, r, &c) {
		return
	}
	created, err := s.store.CreateBlogCategory(r.Context(), c)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) updateBlogCategory(w http.ResponseWriter, r *http.Request) {
	var c catalog.BlogCategory
	if !decodeBody(w, r, &c) {
		return
	}
	updated, err := s.store.UpdateBlogCategory(r.Context(), mux.Vars(r)["id"], c)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) deleteBlogCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBlogCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "deleted"})
}

func (s *Server) listBlogKeywords(w http.ResponseWriter, r *http.Request) {
	q := listQueryFrom(r)
	keywords, total, err := s.store.ListBlogKeywords(r.Context(), q)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, keywords, catalog.Paginate(q.Page, q.Limit, total))
}

func (s *Server) createBlogKeyword(w http.ResponseWriter, r *http.Request) {
	var k catalog.BlogKeyword
	if !decodeBody(w, r, &k) {
		return
	}
	created, err := s.store.CreateBlogKeyword(r.Context(), k)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) updateBlogKeyword(w http.ResponseWriter, r *http.Request) {
	var k catalog.BlogKeyword
	if !decodeBody(w, r, &k) {
		return
	}
	updated, err := s.store.UpdateBlogKeyword(r.Context(), mux.Vars(r)["id"], k)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) deleteBlogKeyword(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBlogKeyword(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "deleted"})
}

func (s *Server) listProductCategories(w http.ResponseWriter, r *http.Request) {
	q := listQueryFrom(r)
	categories, total, err := s.store.ListProductCategories(r.Context(), q)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, categories, catalog.Paginate(q.Page, q.Limit, total))
}

func (s *Server) createProductCategory(w http.ResponseWriter, r *http.Request) {
	var c catalog.ProductCategory
	if !decodeBody(w, r, &c) {
		return
	}
	created, err := s.store.CreateProductCategory(r.Context(), c)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) updateProductCategory(w http.ResponseWriter, r *http.Request) {
	var c catalog.ProductCategory
	if !decodeBody(w, r, &c) {
		return
	}
	updated, err := s.store.UpdateProductCategory(r.Context(), mux.Vars(r)["id"], c)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) deleteProductCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProductCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "deleted"})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := listQueryFrom(r)
	users, total, err := s.store.ListUsers(r.Context(), q)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, users, catalog.Paginate(q.Page, q.Limit, total))
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var u catalog.User
	if !decodeBody(w, r, &u) {
		return
	}
	if !u.Role.Valid() {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}
	created, err := s.store.CreateUser(r.Context(), u)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var u catalog.User
	if !decodeBody(w, r, &u) {
		return
	}
	if !u.Role.Valid() {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}
	updated, err := s.store.UpdateUser(r.Context(), mux.Vars(r)["id"], u)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteUser(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "deleted"})
}

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	if !allowedUploadKinds[kind] {
		writeError(w, http.StatusBadRequest, "unknown upload kind")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "read upload")
		return
	}

	name := uuid.NewString() + path.Ext(header.Filename)
	key := kind + "/" + name

	s.mu.Lock()
	s.uploads[key] = data
	s.mu.Unlock()

	writeData(w, http.StatusCreated, map[string]string{
		"fileUrl": "/uploads/" + key,
	})
}

func (s *Server) serveUpload(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key := vars["kind"] + "/" + vars["name"]

	s.mu.Lock()
	data, ok := s.uploads[key]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
