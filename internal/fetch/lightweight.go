package fetch

import (
	"context"
	"fmt"
	"sync"

	"github.com/gocolly/colly/v2"

	"github.com/DawsonJay/jam-hot-project/internal/config"
)

// Lightweight fetches pages over plain HTTP through a shared colly
// collector. The collector's limit rule enforces the configured delay
// between requests across all clones, so every caller shares one rate
// budget.
type Lightweight struct {
	base *colly.Collector

	mu sync.Mutex
}

// NewLightweight builds the shared collector.
func NewLightweight(cfg config.Scraper) *Lightweight {
	base := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	base.SetRequestTimeout(cfg.RequestTimeout)

	// Limit rules live on the shared backend, so clones inherit the delay.
	if err := base.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      cfg.RateLimit,
	}); err != nil {
		// Only reachable with an invalid glob, and ours is constant.
		panic(fmt.Sprintf("invalid collector limit rule: %v", err))
	}

	return &Lightweight{base: base}
}

// Fetch retrieves the raw markup at url. Each call clones the base
// collector so response callbacks never leak between fetches, while the
// HTTP backend and its rate limit stay shared.
func (l *Lightweight) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.mu.Lock()
	c := l.base.Clone()
	l.mu.Unlock()

	var (
		body     []byte
		fetchErr error
	)

	c.OnResponse(func(resp *colly.Response) {
		body = resp.Body
	})
	c.OnError(func(resp *colly.Response, err error) {
		if resp != nil && resp.StatusCode != 0 {
			fetchErr = fmt.Errorf("request failed with status %d: %w", resp.StatusCode, err)
			return
		}
		fetchErr = err
	})

	if err := c.Visit(url); err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	c.Wait()

	if fetchErr != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, fetchErr)
	}

	return string(body), nil
}
