package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-catalog-admin/catalog"
)

// AuthCookieName is the cookie carrying the session token. The client only
// attaches it; validating it is the backend's concern.
const AuthCookieName = "admin_token"

// Config holds the REST client settings.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.example.com/admin".
	BaseURL string
	// AuthToken, when set, is sent as the auth cookie on every request.
	AuthToken string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the underlying transport; mainly for tests.
	HTTPClient *http.Client
}

// DefaultTimeout bounds a single request when Config.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// Validate checks whether the configuration is usable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// ErrNotFound wraps 404 responses so callers can branch without inspecting
// status codes.
var ErrNotFound = errors.New("client: not found")

// Client groups the per-resource services over one shared transport.
// Services are request/response mapping only; caching and invalidation live
// above this layer.
type Client struct {
	Products          *ProductsService
	Orders            *OrdersService
	Brands            *BrandsService
	BlogCategories    *BlogCategoriesService
	BlogKeywords      *BlogKeywordsService
	ProductCategories *ProductCategoriesService
	Users             *UsersService
	Uploads           *UploadService

	core *core
}

// New constructs a client for the given configuration.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	co := &core{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AuthToken,
	}

	return &Client{
		Products:          &ProductsService{core: co},
		Orders:            &OrdersService{core: co},
		Brands:            &BrandsService{core: co},
		BlogCategories:    &BlogCategoriesService{core: co},
		BlogKeywords:      &BlogKeywordsService{core: co},
		ProductCategories: &ProductCategoriesService{core: co},
		Users:             &UsersService{core: co},
		Uploads:           &UploadService{core: co},
		core:              co,
	}, nil
}

// envelope is the wire shape every endpoint responds with.
type envelope struct {
	Data       json.RawMessage     `json:"data"`
	Pagination *catalog.Pagination `json:"pagination,omitempty"`
	Message    string              `json:"message,omitempty"`
}

type core struct {
	http    *http.Client
	baseURL string
	token   string
}

// read performs a list/detail request. Reads get a single automatic retry on
// transport errors and 5xx responses; the backend treats them as idempotent.
func (c *core) read(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	env, err := c.do(ctx, method, path, query, body)
	if err != nil && retryable(ctx, err) {
		env, err = c.do(ctx, method, path, query, body)
	}
	return env, err
}

// mutate performs a write request. Mutations are never retried; a timed-out
// create may still have landed, and retrying would double it.
func (c *core) mutate(ctx context.Context, method, path string, body any) (*envelope, error) {
	return c.do(ctx, method, path, nil, body)
}

func (c *core) do(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.attachAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodeResponse(resp)
}

func (c *core) attachAuth(req *http.Request) {
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: c.token})
	}
}

func decodeResponse(resp *http.Response) (*envelope, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if len(raw) > 0 {
		// Error bodies share the envelope shape; a decode failure on
		// them only loses the message, not the status.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Message}
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, apiErr.Error())
		}
		return nil, apiErr
	}

	return &env, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	// Transport-level failure (connection refused, timeout, ...).
	return !errors.Is(err, ErrNotFound)
}

// decodeItems unmarshals the envelope data plus pagination into a Page.
func decodeItems[T any](env *envelope) (catalog.Page[T], error) {
	var page catalog.Page[T]
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &page.Items); err != nil {
			return page, fmt.Errorf("decode list payload: %w", err)
		}
	}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	}
	return page, nil
}

// decodeData unmarshals the envelope data into a single value.
func decodeData[T any](env *envelope) (T, error) {
	var value T
	if len(env.Data) == 0 {
		return value, nil
	}
	if err := json.Unmarshal(env.Data, &value); err != nil {
		return value, fmt.Errorf("decode payload: %w", err)
	}
	return value, nil
}
