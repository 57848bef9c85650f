// Package transport performs single JSON request/response exchanges with
// upstream HTTP services.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds one exchange when the caller's context has no deadline.
const DefaultTimeout = 10 * time.Second

// max response body we are willing to buffer
const maxBodySize = 16 * 1024 * 1024

// Response is the raw outcome of one exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts JSON payloads and returns whatever the server answered.
// Non-2xx statuses are not errors at this level; only failures to reach
// the server or read its answer are.
type Client struct {
	http    Doer
	timeout time.Duration
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client used for exchanges.
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.http = doer
	}
}

// WithTimeout bounds each exchange.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a Client using http.DefaultClient and DefaultTimeout.
func NewClient(options ...ClientOption) *Client {
	c := &Client{
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// PostJSON marshals payload, sends it to url with the given headers and
// buffers the response.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// OK reports whether the HTTP status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
