package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const productJSON = `{
  "_id": "p1",
  "title": "Leather Bag",
  "description": "Hand stitched",
  "price": 100,
  "discount": 25,
  "countInStock": 12,
  "gallery": [{"url": "https://cdn.example.com/bag.jpg"}]
}`

func TestGetProduct(t *testing.T) {
	var gotPath, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get(HeaderRequestID)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": ` + productJSON + `}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/api/v1", srv.Client())
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	p, err := c.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if gotPath != "/api/v1/products/p1" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if gotRequestID == "" {
		t.Fatal("request id header not set")
	}
	if p.ID != "p1" || p.Title != "Leather Bag" || p.Price != 100 || p.Discount != 25 {
		t.Fatalf("unexpected product: %+v", p)
	}
	if p.CountInStock != 12 || len(p.Gallery) != 1 || p.Gallery[0].URL != "https://cdn.example.com/bag.jpg" {
		t.Fatalf("unexpected product detail: %+v", p)
	}
}

func TestGetProductNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "product not found"}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, srv.Client())
	_, err := c.Get(context.Background(), "missing")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "product not found" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestGetProductEmptyID(t *testing.T) {
	c, _ := NewClient("http://localhost:1", nil)
	if _, err := c.Get(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestGetProductMissingDataField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, srv.Client())
	if _, err := c.Get(context.Background(), "p1"); err == nil {
		t.Fatal("expected error for missing data field")
	}
}

func TestListProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/products" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"data": [` + productJSON + `, {"_id": "p2", "title": "Belt", "price": 20}]}`))
	}))
	defer srv.Close()

	// no trailing slash on purpose
	c, _ := NewClient(srv.URL+"/api/v1", srv.Client())
	out, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(out) != 2 || out[0].ID != "p1" || out[1].ID != "p2" {
		t.Fatalf("unexpected products: %+v", out)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	if _, err := NewClient("://bad", nil); err == nil {
		t.Fatal("expected error for invalid base url")
	}
}
