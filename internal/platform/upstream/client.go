// Package upstream is the portal's client for the HR backend. Every
// non-2xx response becomes an *APIError carrying the raw status and
// body so callers can run permission translation on it.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// APIError is a failed backend call. It keeps the body verbatim; the
// permission translator decides what to make of it.
type APIError struct {
	Status    int
	Body      []byte
	RequestID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream: status %d", e.Status)
}

func (e *APIError) HTTPStatus() int      { return e.Status }
func (e *APIError) ResponseBody() []byte { return e.Body }

// GetJSON performs an authenticated GET and decodes the response into
// out. Pass an empty token for unauthenticated endpoints.
func (c *Client) GetJSON(ctx context.Context, token, path string, out any) error {
	return c.do(ctx, http.MethodGet, token, path, nil, out)
}

// PostJSON performs an authenticated POST with a JSON body.
func (c *Client) PostJSON(ctx context.Context, token, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("upstream: marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	return c.do(ctx, http.MethodPost, token, path, body, out)
}

func (c *Client) do(ctx context.Context, method, token, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	// Denial bodies are small; cap reads regardless.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("upstream: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Status:    resp.StatusCode,
			Body:      raw,
			RequestID: resp.Header.Get("X-Request-ID"),
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("upstream: decode response: %w", err)
	}
	return nil
}
