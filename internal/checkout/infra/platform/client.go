// Package platform implements the checkout's ports against the backend
// platform REST API. All calls carry the request context, so an aborted
// checkout cancels its in-flight collaborator calls, and the transport is
// wrapped with otelhttp so each call shows up as a client span.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/swifteats/checkout/internal/checkout/core/ports"
)

// Client is the shared HTTP plumbing for the per-endpoint adapters.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a platform client rooted at baseURL
// (e.g. "http://platform-api:8080").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
}

// apiError is the platform's error envelope.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) get(ctx context.Context, path, customerID string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("platform: build request %s: %w", path, err)
	}
	if customerID != "" {
		req.Header.Set("X-Customer-Id", customerID)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("platform: encode request %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("platform: build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("platform: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var apiErr apiError
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		_ = json.Unmarshal(body, &apiErr)
		return &ports.CollaboratorError{Status: res.StatusCode, Code: apiErr.Error, Message: apiErr.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("platform: decode response %s: %w", req.URL.Path, err)
	}
	return nil
}
