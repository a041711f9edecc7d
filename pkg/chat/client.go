// Package chat is the streaming client for the wallet assistant.
//
// A question is POSTed to the chat endpoint and the answer arrives as a
// chunked body of "data: {json}" lines. Client.Ask returns a Stream that
// decodes those lines into text, done and error events as bytes arrive.
// Controller drives a Stream for a conversation and keeps the transcript.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/billetera/pkg/logger"
)

// DefaultPath is the chat endpoint path on the wallet backend.
const DefaultPath = "/api/ai-chat"

// TokenSource supplies the bearer token sent with each question.
type TokenSource interface {
	BearerToken() string
}

// StaticToken is a TokenSource over a fixed token string.
type StaticToken string

func (t StaticToken) BearerToken() string { return string(t) }

// Client asks questions to the chat endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	token      TokenSource
	recorder   io.Writer
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default http.Client. Its Timeout bounds the
// whole answer, not just the first byte.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets the token source for the Authorization header.
func WithToken(ts TokenSource) Option {
	return func(c *Client) {
		c.token = ts
	}
}

// WithRecorder tees every raw response byte of each answer to w.
func WithRecorder(w io.Writer) Option {
	return func(c *Client) {
		c.recorder = w
	}
}

// WithLogger sets the logger used for stream diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient returns a Client posting to baseURL+path.
func NewClient(baseURL, path string, opts ...Option) *Client {
	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	c := &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + path,
		httpClient: &http.Client{},
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the full URL questions are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type askRequest struct {
	Question string `json:"pregunta"`
}

// Ask sends question and returns the stream of its answer.
//
// The only error returned is ErrEmptyQuestion. Transport failures and
// non-2xx responses produce a stream holding a single error event with
// ConnectionFailureMessage; Stream.Err exposes the underlying
// *TransportError.
func (c *Client) Ask(ctx context.Context, question string) (*Stream, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	ctx, cancel := context.WithCancel(ctx)

	payload, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("marshaling question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.token != nil {
		if token := c.token.BearerToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug("asking assistant",
		zap.String("endpoint", c.endpoint),
		zap.Int("question_len", len(question)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("chat request failed", zap.Error(err))
		s := failedStream(&TransportError{Err: err}, cancel)
		if errors.Is(ctx.Err(), context.Canceled) {
			s.Cancel()
		}
		return s, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		c.logger.Debug("chat endpoint rejected question", zap.Int("status", resp.StatusCode))
		return failedStream(&TransportError{StatusCode: resp.StatusCode}, cancel), nil
	}

	return newStream(ctx, resp.Body, c.recorder, cancel, c.logger), nil
}
