// Package api is the HTTP client for the wallet backend: login, profile,
// transfers, top-up card redemption, transaction history and the admin
// lookups. All payloads are JSON; authenticated calls carry the bearer token
// of the caller's session.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/billetera/pkg/logger"
)

// TokenSource supplies the bearer token for authenticated requests.
// *session.Session implements it.
type TokenSource interface {
	BearerToken() string
}

// StaticToken is a TokenSource over a fixed token string.
type StaticToken string

func (t StaticToken) BearerToken() string { return string(t) }

// Client talks to the wallet backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets the token source used for authenticated calls.
func WithToken(ts TokenSource) Option {
	return func(c *Client) {
		c.token = ts
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient returns a Client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend URL the client was built for.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if r.auth {
		token := ""
		if c.token != nil {
			token = c.token.BearerToken()
		}
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("sending backend request",
		zap.String("method", r.method),
		zap.String("path", r.path),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending %s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend responded",
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", r.path, err)
	}

	return nil
}
