package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const MethodGet = http.MethodGet

// ClientOption configures Client.
type ClientOption func(*Client)

// RequestOptions holds HTTP request parameters.
type RequestOptions struct {
	Method      string
	URL         string
	Headers     map[string]string
	QueryParams map[string][]string
}

// Client is a small JSON-oriented HTTP client.
type Client struct {
	timeout   time.Duration
	transport http.RoundTripper
	client    *http.Client
}

// StatusError is returned for any non-2xx response. Body holds the full raw response.
type StatusError struct {
	Status int
	Body   []byte
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.URL)
}

// NewClient creates a new HTTP client. A zero timeout leaves the deadline to the transport.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{Timeout: c.timeout, Transport: c.transport}
	return c
}

// SendRequest sends an HTTP request and returns the raw response.
// The body is left encoded as received.
func (c *Client) SendRequest(ctx context.Context, opts *RequestOptions) (*http.Response, error) {
	req, err := c.buildRequest(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// GetJSON sends the request and returns the body, which must be valid JSON.
// Non-2xx responses yield *StatusError carrying the full body; a body that
// cannot be decoded is passed on as received so the status still surfaces.
func (c *Client) GetJSON(ctx context.Context, opts *RequestOptions) (json.RawMessage, error) {
	resp, err := c.SendRequest(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	enc := contentEncoding(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := raw
		if decoded, derr := decodeBytes(enc, raw); derr == nil {
			body = decoded
		}
		return nil, &StatusError{Status: resp.StatusCode, Body: body, URL: resp.Request.URL.String()}
	}

	body, err := decodeBytes(enc, raw)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode json: invalid JSON body (%d bytes)", len(body))
	}
	return body, nil
}

func (c *Client) buildRequest(ctx context.Context, opts *RequestOptions) (*http.Request, error) {
	method := opts.Method
	if method == "" {
		method = MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	addQueryParams(req, opts.QueryParams)
	addHeaders(req, opts.Headers)

	return req, nil
}

// addQueryParams merges params into any query already present on the URL.
// Encoding is url.Values.Encode: keys sorted, values percent-encoded.
func addQueryParams(req *http.Request, params map[string][]string) {
	if len(params) == 0 {
		return
	}
	q := req.URL.Query()
	for key, values := range params {
		for _, value := range values {
			q.Add(key, value)
		}
	}
	req.URL.RawQuery = q.Encode()
}

func addHeaders(req *http.Request, headers map[string]string) {
	for key, value := range headers {
		req.Header.Set(key, value)
	}
}

// WithTimeout sets the overall client timeout (0 disables it).
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithTransport overrides the round tripper.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}
