// Package fetcher is the transport layer shared by all source adapters.
//
// Public crypto endpoints fail constantly: mirrors go down, free tiers rate
// limit by IP, scraping targets block datacenter ranges. Get therefore tries
// a direct request first and falls back to a small random sample of proxies
// from a free pool. All transport errors degrade to an absent result; the
// adapters translate absence into a status string, never into a panic or a
// propagated error.
package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/samber/lo"
)

// maxProxyAttempts caps the random proxy sample per request. Free proxy
// lists are mostly dead, so trying the whole pool would blow the time
// budget for a marginal gain in success probability.
const maxProxyAttempts = 3

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client performs GET requests with an optional proxy fallback chain.
type Client struct {
	timeout time.Duration
	direct  *http.Client
	proxies []string
}

// New creates a Client with the given per-attempt timeout.
func New(timeout time.Duration) *Client {
	return &Client{
		timeout: timeout,
		direct:  &http.Client{Timeout: timeout},
	}
}

// WithProxies sets the proxy pool used for fallback attempts.
// The pool is treated as read-only and may be shared between adapters.
func (c *Client) WithProxies(pool []string) *Client {
	c.proxies = pool
	return c
}

// Do performs a single direct GET and returns the response regardless of
// status code. Keyed adapters use it to distinguish 429 from other failures.
func (c *Client) Do(ctx context.Context, rawURL string, params url.Values, headers map[string]string) (*Response, error) {
	return c.attempt(ctx, c.direct, rawURL, params, headers)
}

// Get performs a GET with the full fallback chain: one direct attempt, then
// up to three random distinct proxies from the pool, stopping at the first
// 200. Returns ok=false when every attempt failed. Never returns an error.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values, headers map[string]string) (*Response, bool) {
	res, err := c.attempt(ctx, c.direct, rawURL, params, headers)
	if err == nil && res.StatusCode == http.StatusOK {
		return res, true
	}

	if len(c.proxies) == 0 {
		return nil, false
	}

	for _, proxy := range lo.Samples(c.proxies, maxProxyAttempts) {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			continue
		}
		client := &http.Client{
			Timeout:   c.timeout,
			Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
		}
		res, err := c.attempt(ctx, client, rawURL, params, headers)
		if err == nil && res.StatusCode == http.StatusOK {
			return res, true
		}
	}

	return nil, false
}

func (c *Client) attempt(ctx context.Context, client *http.Client, rawURL string, params url.Values, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	if len(params) > 0 {
		q := req.URL.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode, Body: b}, nil
}
