package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/DawsonJay/jam-hot-project/internal/config"
	"github.com/DawsonJay/jam-hot-project/internal/logger"
)

// captureTimeout bounds the markup grab that runs after navigation. It is
// deliberately short and separate from the page load timeout so that a page
// which never finishes loading still yields whatever markup it produced.
const captureTimeout = 5 * time.Second

// Candidate selectors for "load more" style buttons, tried in order during
// the scroll loop.
var loadMoreSelectors = []string{
	`button[class*="load-more" i]`,
	`a[class*="load-more" i]`,
	`button[data-testid*="load-more" i]`,
}

// Rendered fetches pages through a headless browser so script-built markup
// and lazy-loaded content are present in the result. One browser process is
// shared; each fetch opens its own tab.
type Rendered struct {
	cfg config.Browser
	log logger.Interface

	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserStop context.CancelFunc

	mu sync.Mutex
}

// NewRendered starts the browser process and verifies it responds.
func NewRendered(cfg config.Browser, userAgent string, log logger.Interface) (*Rendered, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserStop := chromedp.NewContext(allocCtx)

	// Run a no-op to force browser startup now rather than on first fetch.
	if err := chromedp.Run(browserCtx); err != nil {
		browserStop()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Rendered{
		cfg:         cfg,
		log:         log.WithComponent("rendered"),
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		browserCtx:  browserCtx,
		browserStop: browserStop,
	}, nil
}

// Fetch navigates to the request URL in a fresh tab, waits for content,
// optionally scrolls to trigger lazy loading, and returns the resulting
// markup. When navigation or waiting exceeds the page load timeout the
// partial markup accumulated so far is returned instead of an error.
func (r *Rendered) Fetch(ctx context.Context, req Request) (string, error) {
	tabCtx, closeTab, err := r.newTab()
	if err != nil {
		return "", err
	}
	defer closeTab()

	loadCtx, cancelLoad := context.WithTimeout(tabCtx, r.cfg.PageLoadTimeout)
	defer cancelLoad()
	if stop := propagateCancel(ctx, cancelLoad); stop != nil {
		defer stop()
	}

	loadErr := chromedp.Run(loadCtx, r.loadActions(req)...)

	timedOut := errors.Is(loadErr, context.DeadlineExceeded)
	if loadErr != nil && !timedOut {
		return "", fmt.Errorf("failed to render %s: %w", req.URL, loadErr)
	}
	if timedOut {
		r.log.Warn("page load timed out, capturing partial markup", "url", req.URL)
	}

	// The capture runs on the tab context directly so the expired load
	// deadline does not apply to it.
	captureCtx, cancelCapture := context.WithTimeout(tabCtx, captureTimeout)
	defer cancelCapture()

	var html string
	if err := chromedp.Run(captureCtx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("failed to capture markup for %s: %w", req.URL, err)
	}

	return html, nil
}

// newTab opens a fresh tab on the shared browser. The lock covers only the
// closed check and tab creation; navigation runs outside it so concurrent
// fetches render in parallel tabs.
func (r *Rendered) newTab() (context.Context, context.CancelFunc, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserCtx == nil {
		return nil, nil, errors.New("rendered engine is closed")
	}

	tabCtx, closeTab := chromedp.NewContext(r.browserCtx)
	return tabCtx, closeTab, nil
}

// loadActions builds the navigation, wait, and scroll sequence for a request.
func (r *Rendered) loadActions(req Request) []chromedp.Action {
	actions := []chromedp.Action{chromedp.Navigate(req.URL)}

	if req.WaitSelector != "" {
		actions = append(actions, r.waitForSelector(req.WaitSelector))
	} else {
		actions = append(actions, chromedp.Sleep(r.cfg.SettleDelay))
	}

	if req.Scroll && r.cfg.MaxScrolls > 0 {
		actions = append(actions, r.scrollAction())
	}

	return actions
}

// waitForSelector waits for the selector under its own timeout so a missing
// element degrades to a settle delay instead of consuming the whole page
// load budget.
func (r *Rendered) waitForSelector(selector string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, r.cfg.SelectorTimeout)
		defer cancel()

		err := chromedp.WaitVisible(selector, chromedp.ByQuery).Do(waitCtx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			r.log.Debug("wait selector never appeared, settling instead", "selector", selector)
			return chromedp.Sleep(r.cfg.SettleDelay).Do(ctx)
		}
		return err
	})
}

// scrollAction scrolls to the bottom of the page up to MaxScrolls times,
// clicking any load-more control it finds between scrolls. It stops early
// when the scroll position no longer advances, which means no new content
// arrived.
func (r *Rendered) scrollAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var lastPos float64 = -1

		for i := 0; i < r.cfg.MaxScrolls; i++ {
			if err := r.clickLoadMore(ctx); err != nil {
				return err
			}

			var pos float64
			err := chromedp.Evaluate(
				`window.scrollTo(0, document.body.scrollHeight); window.scrollY;`,
				&pos,
			).Do(ctx)
			if err != nil {
				return fmt.Errorf("scroll %d failed: %w", i+1, err)
			}

			if err := chromedp.Sleep(r.cfg.ScrollDelay).Do(ctx); err != nil {
				return err
			}

			if pos == lastPos {
				r.log.Debug("scroll position stalled, stopping", "scrolls", i+1)
				return nil
			}
			lastPos = pos
		}

		return nil
	})
}

// clickLoadMore clicks the first visible load-more control, if any. Absence
// is not an error.
func (r *Rendered) clickLoadMore(ctx context.Context) error {
	selector := strings.Join(loadMoreSelectors, ", ")

	var clicked bool
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (el && el.offsetParent !== null) { el.click(); return true; }
		return false;
	})()`, selector)

	if err := chromedp.Evaluate(script, &clicked).Do(ctx); err != nil {
		return fmt.Errorf("load-more check failed: %w", err)
	}
	if clicked {
		return chromedp.Sleep(r.cfg.ScrollDelay).Do(ctx)
	}
	return nil
}

// Close shuts down the browser process. The engine cannot be reused after.
func (r *Rendered) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserCtx == nil {
		return nil
	}

	r.browserStop()
	r.allocCancel()
	r.browserCtx = nil
	return nil
}

// propagateCancel cancels the chromedp run when the caller's context ends.
// It returns a stop function for the watcher goroutine, or nil when the
// caller context can never be cancelled.
func propagateCancel(ctx context.Context, cancel context.CancelFunc) context.CancelFunc {
	if ctx.Done() == nil {
		return nil
	}

	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-stopped:
		}
	}()
	return func() { close(stopped) }
}
