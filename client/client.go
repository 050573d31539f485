// Package client talks to a FortressGuard API over HTTP. Every call is a
// GET whose JSON envelope is decoded into Envelope[T]; failures come back
// as *Error.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/fortressguard/fortress/config"
)

// Query keys whose values never reach the logs.
var sensitiveKeys = map[string]bool{
	"password":      true,
	"text":          true,
	"encryptedText": true,
}

// Client issues requests against one APIConfig.
type Client struct {
	cfg    config.APIConfig
	http   *http.Client
	logger *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client for cfg.
func New(cfg config.APIConfig, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg,
		http:   &http.Client{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the configuration the client was built with.
func (c *Client) Config() config.APIConfig {
	return c.cfg
}

// URL returns the full request URL for endpoint with params appended.
func (c *Client) URL(endpoint string, params Params) string {
	u := c.cfg.BuildAPIURL(endpoint)
	if q := params.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// Fetch performs GET endpoint?params and decodes the envelope. A 2xx
// envelope is returned untouched, including success=false; callers apply
// Envelope.Result. The request is bounded by the configured timeout.
func Fetch[T any](ctx context.Context, c *Client, endpoint string, params Params) (Envelope[T], error) {
	var env Envelope[T]

	if !c.cfg.Endpoints.Has(endpoint) {
		return env, transportError(fmt.Errorf("unknown endpoint %q", endpoint))
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	c.logger.Debug("api request", "method", http.MethodGet, "url", c.URL(endpoint, redact(params)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(endpoint, params), nil)
	if err != nil {
		return env, transportError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return env, classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return env, classify(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := statusError(resp.StatusCode, errorText(body))
		c.logger.Debug("api error response", "endpoint", endpoint, "status", resp.StatusCode, "message", apiErr.Message)
		return env, apiErr
	}

	if err := json.Unmarshal(body, &env); err != nil {
		return env, transportError(fmt.Errorf("malformed response body: %w", err))
	}

	c.logger.Debug("api response", "endpoint", endpoint, "status", resp.StatusCode, "success", env.Success, "has_data", env.Data != nil)
	return env, nil
}

// errorText pulls message, then error, out of a JSON error body.
func errorText(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func classify(err error) *Error {
	if apiErr, ok := AsError(err); ok {
		return apiErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return timeoutError(err)
	}
	if errors.Is(err, context.Canceled) {
		return transportError(fmt.Errorf("request canceled: %w", err))
	}
	return transportError(err)
}

func redact(params Params) Params {
	out := make(Params, 0, len(params))
	for _, p := range params {
		if _, present := render(p.Value); present && sensitiveKeys[p.Key] {
			p.Value = "redacted"
		}
		out = append(out, p)
	}
	return out
}
