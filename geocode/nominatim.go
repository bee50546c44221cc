// Package geocode resolves coordinates to place names, online through the
// Nominatim reverse endpoint and offline through a CSV gazetteer.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Address is the subset of the reverse-geocode response the enrichment
// analyses consume.
type Address struct {
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	State       string `json:"state"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Postcode    string `json:"postcode"`
	Road        string `json:"road"`
	Aeroway     string `json:"aeroway"`
	Tourism     string `json:"tourism"`
	Historic    string `json:"historic"`
	Leisure     string `json:"leisure"`
	Waterway    string `json:"waterway"`

	// DisplayName is the full formatted address line.
	DisplayName string `json:"-"`
}

type reverseResponse struct {
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
	Error       string  `json:"error"`
}

// Client talks to a Nominatim-compatible reverse geocoding service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different Nominatim instance.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each reverse lookup.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient builds a reverse geocoding client. Nominatim's usage policy
// requires an identifying User-Agent on every request.
func NewClient(userAgent string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		userAgent:  userAgent,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Reverse resolves a coordinate to an address.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Address, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("accept-language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build reverse request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reverse geocode read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocode: status %d", resp.StatusCode)
	}

	var rr reverseResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return nil, fmt.Errorf("reverse geocode decode: %w", err)
	}
	if rr.Error != "" {
		return nil, fmt.Errorf("reverse geocode: %s", rr.Error)
	}
	addr := rr.Address
	addr.DisplayName = rr.DisplayName
	return &addr, nil
}
