// Package catalog fetches product metadata from the remote product
// catalog API. The catalog is an external collaborator: a fetch failure
// surfaces as an error for the driver to handle, never as a panic.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the public catalog endpoint used when the config does
// not override it.
const DefaultBaseURL = "https://dummyjson.com"

// Product is the subset of catalog fields the pipeline cares about.
type Product struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
}

// Client talks to the product catalog API.
type Client struct {
	baseURL    string
	limit      int
	httpClient *http.Client
}

// NewClient creates a catalog client. An empty baseURL falls back to
// DefaultBaseURL, a non-positive limit to 100, and a non-positive timeout
// to 10 seconds.
func NewClient(baseURL string, limit int, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if limit <= 0 {
		limit = 100
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		limit:      limit,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchAll retrieves the product list from the catalog.
func (c *Client) FetchAll(ctx context.Context) ([]Product, error) {
	url := fmt.Sprintf("%s/products?limit=%d", c.baseURL, c.limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("FetchAll: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FetchAll: catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("FetchAll: catalog returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Products []Product `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("FetchAll: decode response: %w", err)
	}

	return payload.Products, nil
}

// Mapping indexes products by their numeric catalog id.
func Mapping(products []Product) map[int]Product {
	mapping := make(map[int]Product, len(products))
	for _, p := range products {
		mapping[p.ID] = p
	}
	return mapping
}
