// Package images builds fruit training-image sets: resolve full-size image
// URLs from search result pages with a bounded worker pool, download them,
// and keep only the ones that pass quality validation.
package images

import (
	"context"
	"sync"
	"time"

	"github.com/DawsonJay/jam-hot-project/internal/domain"
	"github.com/DawsonJay/jam-hot-project/internal/fetch"
	"github.com/DawsonJay/jam-hot-project/internal/logger"
	"github.com/DawsonJay/jam-hot-project/internal/retry"
)

// Image search pages build their grids with scripts, so resolution always
// goes through the rendered fetch path.
const fetchModeForResolution = domain.FetchModeRendered

// PageFetcher retrieves page markup. Implemented by fetch.Dispatcher.
type PageFetcher interface {
	Fetch(ctx context.Context, req fetch.Request) (string, error)
}

// AssetExtractor pulls full-size asset URLs out of a fetched page.
type AssetExtractor interface {
	AssetURLs(pageHTML string, limit int) []string
}

// Resolver turns candidate search pages into full-size image URLs using a
// fixed worker pool with adaptive pacing. Workers share one success-rate
// estimate; each sleeps the tracker's current delay before taking its next
// job.
type Resolver struct {
	fetcher   PageFetcher
	extractor AssetExtractor
	workers   int
	perPage   int
	policy    retry.Policy
	log       logger.Interface
}

// NewResolver creates a resolver. perPage caps how many asset URLs one
// candidate page may contribute.
func NewResolver(fetcher PageFetcher, extractor AssetExtractor, workers, perPage int, policy retry.Policy, log logger.Interface) *Resolver {
	if workers < 1 {
		workers = 1
	}
	return &Resolver{
		fetcher:   fetcher,
		extractor: extractor,
		workers:   workers,
		perPage:   perPage,
		policy:    policy,
		log:       log.WithComponent("resolver"),
	}
}

// Resolve fetches each candidate page and collects extracted asset URLs in
// completion order until target URLs are gathered or the candidates run
// out. Remaining work is abandoned once the target is hit; the result never
// exceeds target.
func (r *Resolver) Resolve(ctx context.Context, candidates []string, target int) []string {
	if target <= 0 || len(candidates) == 0 {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan *domain.FetchJob)
	found := make(chan []string)
	tracker := newSuccessTracker()

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.work(runCtx, jobs, found, tracker)
		}()
	}

	go func() {
		defer close(jobs)
		for _, url := range candidates {
			select {
			case jobs <- domain.NewFetchJob(url, fetchModeForResolution):
			case <-runCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(found)
	}()

	var resolved []string
	seen := make(map[string]struct{})

	for urls := range found {
		for _, url := range urls {
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}
			resolved = append(resolved, url)
			if len(resolved) >= target {
				cancel()
				// Drain so workers pushing results can exit.
				go func() {
					for range found {
					}
				}()
				return resolved
			}
		}
	}

	return resolved
}

// work processes jobs until the channel closes or the run is cancelled.
func (r *Resolver) work(ctx context.Context, jobs <-chan *domain.FetchJob, found chan<- []string, tracker *successTracker) {
	for job := range jobs {
		if ctx.Err() != nil {
			return
		}

		pageHTML, err := retry.DoValue(ctx, r.policy, r.log, "resolve "+job.URL,
			func(ctx context.Context) (string, error) {
				job.Attempts++
				return r.fetcher.Fetch(ctx, fetch.Request{
					URL:    job.URL,
					Mode:   job.Mode,
					Scroll: true,
				})
			})
		if err != nil {
			tracker.RecordFailure()
			r.log.Warn("candidate page failed",
				"job", job.ID, "url", job.URL, "attempts", job.Attempts, "error", err)
		} else {
			tracker.RecordSuccess()
			urls := r.extractor.AssetURLs(pageHTML, r.perPage)
			select {
			case found <- urls:
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-time.After(tracker.Delay()):
		case <-ctx.Done():
			return
		}
	}
}
