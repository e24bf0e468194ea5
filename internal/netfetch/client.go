// Package netfetch provides the HTTP client all resolver pipelines fetch
// through: resty on a retrying transport, with rate limiting and a circuit
// breaker guarding repeatedly failing upstreams.
package netfetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/dragonflyweb/dragonfly/internal/infrastructure/config"
)

// Client wraps resty with rate limiting and circuit breaker protection.
// Every request carries the browser's identifying User-Agent.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *breaker
}

// Result holds the outcome of a successful fetch.
type Result struct {
	Body        []byte
	ContentType string
	Status      int
}

// NewClient creates a fetch client from configuration.
func NewClient(cfg config.FetchConfig) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil

	rc := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(10 * time.Second).
		SetHeader("User-Agent", cfg.UserAgent).
		SetTransport(retryClient.HTTPClient.Transport)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), int(cfg.RateLimit)+1)
	}

	return &Client{
		resty:   rc,
		limiter: limiter,
		breaker: newBreaker(10, 30*time.Second),
	}
}

// Fetch retrieves url and returns its body. Non-2xx/3xx responses are
// reported as errors; the caller decides how the failure surfaces.
func (c *Client) Fetch(ctx context.Context, url string) (*Result, error) {
	if err := c.breaker.allow(); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	resp, err := c.resty.R().SetContext(ctx).Get(url)
	if err != nil {
		c.breaker.record(false)
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 400 {
		c.breaker.record(false)
		return nil, fmt.Errorf("fetch %s: HTTP %d", url, status)
	}

	c.breaker.record(true)
	return &Result{
		Body:        resp.Body(),
		ContentType: resp.Header().Get("Content-Type"),
		Status:      status,
	}, nil
}
