// Package api is a client for HellaAPI, the read-only game data service the
// bot renders from. Every lookup is an idempotent GET; transient failures are
// retried with adaptive rate limiting.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hellabot/pkg/retrylimit"

	"github.com/rs/zerolog"
)

// Entity types served by HellaAPI.
const (
	EntityOperator = "operator"
	EntityCC       = "cc"
	EntityItem     = "item"
)

// ErrNotFound is returned when a lookup matched no record.
var ErrNotFound = errors.New("record not found")

// SingleQuery selects one record by key.
type SingleQuery struct {
	Query   string
	Include []string
	Exclude []string
}

// AllQuery selects a whole collection.
type AllQuery struct {
	Include []string
	Exclude []string
}

// SearchQuery selects records matching a field filter, e.g.
// {"data.itemType": {"in": ["MATERIAL"]}}.
type SearchQuery struct {
	Filter  map[string]any
	Include []string
	Exclude []string
}

// Source is the read interface handlers and the emoji warmer depend on.
// Results are decoded into out.
type Source interface {
	Single(ctx context.Context, entity string, q SingleQuery, out any) error
	All(ctx context.Context, entity string, q AllQuery, out any) error
	SearchV2(ctx context.Context, entity string, q SearchQuery, out any) error
}

// Client talks to HellaAPI over HTTP.
type Client struct {
	base  string
	http  *http.Client
	lim   *retrylimit.AdaptiveLimiter
	retry retrylimit.RetryConfig
	log   zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetryConfig replaces the default retry policy.
func WithRetryConfig(cfg retrylimit.RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// NewClient returns a client for the API rooted at base. A zero timeout
// leaves requests unbounded.
func NewClient(base string, timeout time.Duration, log zerolog.Logger, opts ...Option) *Client {
	retry := retrylimit.DefaultRetryConfig()
	retry.Logger = log

	c := &Client{
		base:  strings.TrimRight(base, "/"),
		http:  &http.Client{Timeout: timeout},
		lim:   retrylimit.NewAdaptiveLimiter(10, 2, 30, 1, 0.5),
		retry: retry,
		log:   log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Single fetches one record of entity matching q.Query.
func (c *Client) Single(ctx context.Context, entity string, q SingleQuery, out any) error {
	if strings.TrimSpace(q.Query) == "" {
		return ErrNotFound
	}
	params := url.Values{}
	setList(params, "include", q.Include)
	setList(params, "exclude", q.Exclude)
	return c.get(ctx, c.base+"/"+url.PathEscape(entity)+"/"+url.PathEscape(q.Query), params, out)
}

// All fetches every record of entity.
func (c *Client) All(ctx context.Context, entity string, q AllQuery, out any) error {
	params := url.Values{}
	setList(params, "include", q.Include)
	setList(params, "exclude", q.Exclude)
	return c.get(ctx, c.base+"/"+url.PathEscape(entity), params, out)
}

// SearchV2 fetches records of entity matching q.Filter.
func (c *Client) SearchV2(ctx context.Context, entity string, q SearchQuery, out any) error {
	params := url.Values{}
	if len(q.Filter) > 0 {
		filter, err := json.Marshal(q.Filter)
		if err != nil {
			return fmt.Errorf("encode filter: %w", err)
		}
		params.Set("filter", string(filter))
	}
	setList(params, "include", q.Include)
	setList(params, "exclude", q.Exclude)
	return c.get(ctx, c.base+"/searchV2/"+url.PathEscape(entity), params, out)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	start := time.Now()
	err := retrylimit.WithRetryConfig(ctx, func() error {
		return c.fetch(ctx, endpoint, out)
	}, c.lim, c.retry)

	ev := c.log.Debug()
	if err != nil && !errors.Is(err, ErrNotFound) {
		ev = c.log.Warn().Err(err)
	}
	ev.Str("url", endpoint).Dur("took", time.Since(start)).Msg("API request")
	return err
}

func (c *Client) fetch(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return retrylimit.Fatal(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return retrylimit.Fatal(ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return &StatusError{Code: resp.StatusCode, URL: endpoint}
	case resp.StatusCode >= 400:
		return retrylimit.Fatal(&StatusError{Code: resp.StatusCode, URL: endpoint})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return retrylimit.Fatal(fmt.Errorf("decode %s: %w", endpoint, err))
	}
	return nil
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string   { return fmt.Sprintf("%s: HTTP %d", e.URL, e.Code) }
func (e *StatusError) StatusCode() int { return e.Code }

func setList(params url.Values, key string, values []string) {
	if len(values) > 0 {
		params.Set(key, strings.Join(values, ","))
	}
}

// Single fetches one typed record.
func Single[T any](ctx context.Context, src Source, entity string, q SingleQuery) (*Document[T], error) {
	var doc Document[T]
	if err := src.Single(ctx, entity, q, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// All fetches a typed collection.
func All[T any](ctx context.Context, src Source, entity string, q AllQuery) ([]Document[T], error) {
	var docs []Document[T]
	if err := src.All(ctx, entity, q, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// SearchV2 fetches a typed, filtered collection.
func SearchV2[T any](ctx context.Context, src Source, entity string, q SearchQuery) ([]Document[T], error) {
	var docs []Document[T]
	if err := src.SearchV2(ctx, entity, q, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
