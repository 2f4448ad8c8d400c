// Package client talks to the Scriptura backend: the two search
// endpoints, the upload form and the admin catalogue routes.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Client is a thin HTTP client for the backend. It never retries.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	logger      *zap.Logger
	adminSecret string
	now         func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the transport timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAdminSecret sets the shared secret used to sign admin requests.
func WithAdminSecret(secret string) Option {
	return func(c *Client) {
		c.adminSecret = secret
	}
}

// New builds a Client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q must use http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// URL resolves a backend path such as a work's url_download.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.BaseURL() + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, ulid.Make().String())
	return req, nil
}

// send issues req and logs the outcome. A transport failure is wrapped in
// ErrNetwork. The caller closes the body.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("request_id", req.Header.Get(RequestIDHeader)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	c.logger.Info("request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", req.Header.Get(RequestIDHeader)),
		zap.Duration("duration", c.now().Sub(start)),
	)
	return resp, nil
}

// do sends req and reads the whole body.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.send(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}
	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
