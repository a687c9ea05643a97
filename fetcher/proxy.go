package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	proxyListURL = "https://api.proxyscrape.com/v2/?request=get&protocol=http&timeout=5000&country=all&ssl=all&anonymity=all"
	proxyPoolCap = 20
)

// FetchProxyPool fetches a pool of free HTTP proxies. The pool is fetched
// once per run and shared read-only between adapters. Returns nil when the
// list cannot be fetched: the fallback chain then degrades to direct-only.
func FetchProxyPool(ctx context.Context) []string {
	bf := backoff.NewExponentialBackOff()
	bf.InitialInterval = 2 * time.Second
	bf.MaxInterval = 10 * time.Second
	bf.MaxElapsedTime = 30 * time.Second

	pool, err := backoff.RetryWithData[[]string](func() ([]string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, proxyListURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func(body io.ReadCloser) {
			_ = body.Close()
		}(resp.Body)

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("proxy list returned status %d", resp.StatusCode)
		}

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		return parseProxyList(string(b)), nil
	}, backoff.WithContext(bf, ctx))
	if err != nil {
		return nil
	}

	return pool
}

func parseProxyList(body string) []string {
	var pool []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pool = append(pool, "http://"+line)
		if len(pool) == proxyPoolCap {
			break
		}
	}
	return pool
}
