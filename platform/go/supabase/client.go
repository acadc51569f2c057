// Package supabase is a small PostgREST client for the hosted data gateway.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when the gateway URL or key is missing.
var ErrNotConfigured = errors.New("supabase: url and key are required")

// Config captures the connection settings.
type Config struct {
	URL        string
	APIKey     string
	Timeout    time.Duration
	RetryCount int
}

// Error is a non-2xx PostgREST response.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, e.Message)
}

// Client calls the REST and RPC endpoints with the configured key.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// New builds a client. The key is sent both as apikey and as bearer token.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" || cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("apikey", cfg.APIKey).
		SetAuthToken(cfg.APIKey)

	return &Client{http: client, logger: logger}, nil
}

// RPC posts args to /rest/v1/rpc/{fn} and decodes the response into out.
func (c *Client) RPC(ctx context.Context, fn string, args any, out any) error {
	if args == nil {
		args = map[string]any{}
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(args).
		SetResult(out).
		SetError(&Error{}).
		Post("/rest/v1/rpc/" + url.PathEscape(fn))
	if err != nil {
		return fmt.Errorf("supabase rpc %s: %w", fn, err)
	}
	return c.checkResponse(resp, "rpc "+fn)
}

// Select issues GET /rest/v1/{table} with PostgREST filters (e.g. "slug": "eq.acme")
// and decodes the JSON array into out.
func (c *Client) Select(ctx context.Context, table string, filters map[string]string, out any) error {
	req := c.http.R().
		SetContext(ctx).
		SetResult(out).
		SetError(&Error{}).
		SetQueryParam("select", "*")
	for column, filter := range filters {
		req.SetQueryParam(column, filter)
	}

	resp, err := req.Get("/rest/v1/" + url.PathEscape(table))
	if err != nil {
		return fmt.Errorf("supabase select %s: %w", table, err)
	}
	return c.checkResponse(resp, "select "+table)
}

func (c *Client) checkResponse(resp *resty.Response, op string) error {
	if !resp.IsError() {
		return nil
	}
	apiErr, ok := resp.Error().(*Error)
	if !ok || apiErr == nil {
		apiErr = &Error{}
	}
	apiErr.Status = resp.StatusCode()
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	c.logger.Debug("supabase request failed", zap.String("op", op), zap.Int("status", apiErr.Status), zap.String("code", apiErr.Code))
	return apiErr
}

// Eq builds an equality filter value.
func Eq(value string) string { return "eq." + value }

// IsUndefinedFunction reports whether err is PostgREST's "function not found" error.
func IsUndefinedFunction(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == "PGRST202" || apiErr.Code == "42883"
}
