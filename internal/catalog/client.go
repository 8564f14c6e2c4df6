package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public demo product API.
	DefaultBaseURL = "https://dummyjson.com"
	// AllCategories selects every product.
	AllCategories = "All"
	// PageStep is how many more products each "see more" reveals.
	PageStep = 9
)

// ErrUpstream is returned when the catalog API answers with a non-2xx status.
var ErrUpstream = errors.New("catalog upstream error")

// Product is the subset of the demo API product shape the storefront uses.
type Product struct {
	ID          int      `json:"id" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price" validate:"gte=0"`
	Brand       string   `json:"brand,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// Category is a product category.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Client talks to the catalog API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL. A nil httpClient gets a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Products lists products, optionally filtered by category slug. An empty
// category or AllCategories lists everything.
func (c *Client) Products(ctx context.Context, category string) ([]Product, error) {
	path := "/products"
	if category != "" && category != AllCategories {
		path = "/products/category/" + url.PathEscape(category)
	}
	var body struct {
		Products []Product `json:"products"`
	}
	if err := c.get(ctx, path, &body); err != nil {
		return nil, err
	}
	return body.Products, nil
}

// Categories lists product categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.get(ctx, "/products/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: get %s: status %d", ErrUpstream, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Page returns the first visible products and whether more remain.
// A non-positive visible shows one PageStep.
func Page(products []Product, visible int) ([]Product, bool) {
	if visible <= 0 {
		visible = PageStep
	}
	if visible >= len(products) {
		return products, false
	}
	return products[:visible], true
}
