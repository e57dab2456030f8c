package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// BasePath is the common prefix for all storage API endpoints.
const BasePath = "/api/v2"

// SessionHeader carries the session token on authenticated requests.
const SessionHeader = "X-Session-Token"

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithToken sets the session token added to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// Client issues requests against a storage API origin. It resolves
// relative API paths to absolute URLs, injects the session header and
// maps failures to the typed errors of this package.
type Client struct {
	origin     *url.URL
	httpClient *http.Client
	token      string
}

// NewClient creates a Client anchored to the given origin. An empty
// origin falls back to the FILEFERRY_ORIGIN environment variable.
func NewClient(origin string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(origin) == "" {
		origin = os.Getenv("FILEFERRY_ORIGIN")
	}
	if strings.TrimSpace(origin) == "" {
		return nil, errors.New("api: origin is required")
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("api: invalid origin %q: %w", origin, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: origin %q must include scheme and host", origin)
	}

	c := &Client{
		origin:     parsed,
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Token returns the session token configured on the client.
func (c *Client) Token() string {
	return c.token
}

// Resolve builds an absolute URL for a relative API path. The path is
// anchored to the configured origin so it bypasses any local routing
// prefix. Query values are appended when provided.
func (c *Client) Resolve(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	ref := &url.URL{Path: BasePath + path}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	return c.origin.ResolveReference(ref).String()
}

// Do executes an HTTP request against the API. Non-2xx responses are
// returned as *HTTPError, transport failures as *NetworkError. On
// success the caller owns the response body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body io.Reader, header http.Header) (*http.Response, error) {
	fullURL := c.Resolve(path, query)

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}

	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if c.token != "" {
		req.Header.Set(SessionHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: fullURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			raw = nil
		}
		return nil, newHTTPError(resp.StatusCode, raw)
	}

	return resp, nil
}

// DoJSON executes a request and decodes a JSON response body into out.
// A malformed success body is returned as *ParseError.
func (c *Client) DoJSON(ctx context.Context, method, path string, query url.Values, payload any, out any) error {
	var body io.Reader
	header := make(http.Header)

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: encode request body: %w", err)
		}
		body = bytes.NewReader(data)
		header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(ctx, method, path, query, body, header)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Err: err}
	}

	return nil
}
