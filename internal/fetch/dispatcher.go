// Package fetch routes page fetches to the cheapest capable strategy: a
// shared rate-limited HTTP collector for sources that serve static markup,
// and a lazily-started headless browser for sources that require script
// execution.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DawsonJay/jam-hot-project/internal/config"
	"github.com/DawsonJay/jam-hot-project/internal/domain"
	"github.com/DawsonJay/jam-hot-project/internal/logger"
)

// ErrUnknownFetchMode is returned when a request declares a mode the
// dispatcher does not implement.
var ErrUnknownFetchMode = errors.New("unknown fetch mode")

// Request describes one page fetch.
type Request struct {
	// URL is the page to fetch.
	URL string
	// Mode selects the fetch strategy.
	Mode domain.FetchMode
	// WaitSelector, when set, is the CSS selector the rendered path waits
	// for after navigation; empty means a fixed settle delay instead.
	WaitSelector string
	// Scroll enables bounded lazy-load scrolling on the rendered path.
	Scroll bool
}

// Dispatcher owns the fetch strategies. The rendered engine is constructed
// on first use and reused until Close; exactly one engine exists per
// dispatcher lifetime.
type Dispatcher struct {
	scraperCfg config.Scraper
	browserCfg config.Browser
	log        logger.Interface

	light *Lightweight

	mu       sync.Mutex
	rendered *Rendered
}

// NewDispatcher creates a dispatcher. The lightweight collector is cheap and
// built eagerly; the browser is not started until a rendered fetch arrives.
func NewDispatcher(scraperCfg config.Scraper, browserCfg config.Browser, log logger.Interface) *Dispatcher {
	return &Dispatcher{
		scraperCfg: scraperCfg,
		browserCfg: browserCfg,
		log:        log.WithComponent("dispatcher"),
		light:      NewLightweight(scraperCfg),
	}
}

// Fetch retrieves the page markup for the request.
func (d *Dispatcher) Fetch(ctx context.Context, req Request) (string, error) {
	switch req.Mode {
	case domain.FetchModeLightweight:
		return d.light.Fetch(ctx, req.URL)
	case domain.FetchModeRendered:
		engine, err := d.renderedEngine()
		if err != nil {
			return "", err
		}
		return engine.Fetch(ctx, req)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFetchMode, req.Mode)
	}
}

// renderedEngine returns the shared rendered engine, starting it on first
// use. Start failure is returned to the caller and aborts only sources that
// need rendering.
func (d *Dispatcher) renderedEngine() (*Rendered, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rendered != nil {
		return d.rendered, nil
	}

	d.log.Info("starting rendered fetch engine",
		"headless", d.browserCfg.Headless,
	)

	engine, err := NewRendered(d.browserCfg, d.scraperCfg.UserAgent, d.log)
	if err != nil {
		return nil, fmt.Errorf("failed to start rendered fetch engine: %w", err)
	}

	d.rendered = engine
	return engine, nil
}

// Close releases the rendered engine's browser process. Safe to call when
// the engine was never started, and safe to call more than once.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rendered == nil {
		return nil
	}

	err := d.rendered.Close()
	d.rendered = nil
	if err != nil {
		return fmt.Errorf("failed to close rendered fetch engine: %w", err)
	}

	d.log.Info("rendered fetch engine closed")
	return nil
}
