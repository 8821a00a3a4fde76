// Package geo adapts the mapping provider's geocoding endpoint. An
// address is geocoded before it is accepted onto a cart; selection and
// validation are sequential per address.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/swifteats/checkout/internal/checkout/core/ports"
)

var _ ports.Geocoder = (*Client)(nil)

// Client calls GET {base}/geocode?q=<address>.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a geocoder client rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
}

type geocodeResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocode resolves an address string to coordinates. A provider response
// of (0,0) is rejected: it is the provider's "no result" sentinel, not a
// deliverable location.
func (c *Client) Geocode(ctx context.Context, address string) (float64, float64, error) {
	u := fmt.Sprintf("%s/geocode?q=%s", c.baseURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("geo: build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geo: geocode %q: %w", address, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geo: geocode %q: status %d", address, res.StatusCode)
	}

	var out geocodeResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, 0, fmt.Errorf("geo: decode response: %w", err)
	}
	if out.Lat == 0 && out.Lng == 0 {
		return 0, 0, fmt.Errorf("geo: no location found for %q", address)
	}
	return out.Lat, out.Lng, nil
}
