// Package catalog is a read-only HTTP client for the product catalog
// API. The API wraps payloads in a {"data": ...} envelope and reports
// failures as {"message": ...}.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopcart/domain"
)

// HeaderRequestID is attached to every outgoing request so backend logs
// can be correlated with a single CLI invocation.
const HeaderRequestID = "X-Request-ID"

// APIError is a non-2xx response from the catalog API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog api: %d %s", e.StatusCode, e.Message)
}

// Client talks to the catalog API under a fixed base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient constructs a Client. A nil httpClient gets a default with a
// 10s timeout.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url %q: %w", baseURL, err)
	}
	// keep relative resolution from eating the last path segment
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: u, http: httpClient}, nil
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("catalog response: %w", err)
	}

	var env envelope
	_ = json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if env.Data == nil {
		return fmt.Errorf("catalog response missing data field")
	}
	return json.Unmarshal(env.Data, out)
}

// Get fetches a single product record by id.
func (c *Client) Get(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, domain.NewInvalidProductError("id", "cannot be empty", id)
	}
	var p domain.Product
	if err := c.get(ctx, "products/"+id, &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// List fetches all product records.
func (c *Client) List(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.get(ctx, "products", &out); err != nil {
		return nil, err
	}
	return out, nil
}
