// Package backend is the HTTP client of the Lotto Happy backend, which owns
// settlement, balances and sessions.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"lotto-happy/internal/metrics"
	"lotto-happy/internal/session"
)

type Config struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	// RPS caps outbound calls; 0 disables the limiter.
	RPS   float64
	Burst int
}

type Client struct {
	baseURL    string
	http       *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	log        *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		http:       &http.Client{Timeout: timeout},
		limiter:    limiter,
		maxRetries: cfg.MaxRetries,
		backoff:    backoff,
		log:        log.Named("backend"),
	}
}

type request struct {
	method string
	route  string // metrics label
	path   string
	query  url.Values
	body   any
	form   url.Values
}

func (c *Client) get(ctx context.Context, route, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, route: route, path: path, query: query}, out)
}

func (c *Client) send(ctx context.Context, method, route, path string, body, out any) error {
	return c.do(ctx, request{method: method, route: route, path: path, body: body}, out)
}

// do runs req, retrying GETs on network failures and 5xx responses.
func (c *Client) do(ctx context.Context, req request, out any) error {
	attempts := 1
	if req.method == http.MethodGet {
		attempts += c.maxRetries
	}
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return err
			case <-time.After(c.backoff * time.Duration(i)):
			}
			c.log.Debug("retrying backend call", zap.String("route", req.route), zap.Int("attempt", i+1), zap.Error(err))
		}
		err = c.once(ctx, req, out)
		if err == nil {
			return nil
		}
		var ae *APIError
		if !errors.As(err, &ae) || !ae.Retryable() {
			return err
		}
	}
	return err
}

func (c *Client) once(ctx context.Context, req request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &APIError{Code: CodeNetwork, Message: err.Error(), Err: err}
	}

	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.form != nil:
		body = strings.NewReader(req.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.body != nil:
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", req.route, err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", req.route, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if tok := session.Token(ctx); tok != "" {
		httpReq.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.ObserveBackend(req.method, req.route, 0, time.Since(start))
		return &APIError{Code: CodeNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()
	metrics.ObserveBackend(req.method, req.route, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Code: CodeNetwork, Message: err.Error(), Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := parseError(resp.StatusCode, raw)
		c.log.Info("backend error",
			zap.String("route", req.route),
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code))
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return decodeData(raw, out)
}

// decodeData unwraps a {"data": ...} envelope when present.
func decodeData(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if raw[0] == '{' && json.Unmarshal(raw, &env) == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}
