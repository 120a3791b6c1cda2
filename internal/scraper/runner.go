// Package scraper orchestrates recipe acquisition: search a site for a
// fruit, walk candidate detail pages, extract and validate recipes, tag
// them with taxonomy fruits, and persist the survivors.
package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/DawsonJay/jam-hot-project/internal/adapters"
	"github.com/DawsonJay/jam-hot-project/internal/domain"
	"github.com/DawsonJay/jam-hot-project/internal/fetch"
	"github.com/DawsonJay/jam-hot-project/internal/logger"
	"github.com/DawsonJay/jam-hot-project/internal/retry"
	"github.com/DawsonJay/jam-hot-project/internal/taxonomy"
	"github.com/DawsonJay/jam-hot-project/internal/validator"
)

// Fetcher retrieves page markup. Implemented by fetch.Dispatcher.
type Fetcher interface {
	Fetch(ctx context.Context, req fetch.Request) (string, error)
}

// RecipeStore persists recipes and their fruit relations.
type RecipeStore interface {
	// InsertIfAbsent stores the recipe unless one with the same source URL
	// or title exists. It returns the stored recipe's ID and whether a new
	// row was created.
	InsertIfAbsent(ctx context.Context, rec *domain.Recipe) (int64, bool, error)
	// FruitIDByIdentifier resolves a taxonomy identifier to its fruit row.
	FruitIDByIdentifier(ctx context.Context, identifier string) (int64, error)
	// UpsertFruitRelation records that a recipe contains a fruit.
	UpsertFruitRelation(ctx context.Context, rel domain.FruitRelation) error
}

// RunReport summarizes one adapter + fruit run.
type RunReport struct {
	Source     string
	Fruit      string
	Found      int // candidate links on the listing page
	Fetched    int // detail pages retrieved
	Validated  int // recipes that passed extraction and validation
	Rejected   int // pages extracted but not jam recipes
	Failed     int // fetch or extraction errors
	Inserted   int // new rows persisted
	Duplicates int // recipes already present
}

// Add accumulates another report's counts, for batch summaries.
func (r *RunReport) Add(other RunReport) {
	r.Found += other.Found
	r.Fetched += other.Fetched
	r.Validated += other.Validated
	r.Rejected += other.Rejected
	r.Failed += other.Failed
	r.Inserted += other.Inserted
	r.Duplicates += other.Duplicates
}

// Runner drives the scraping pipeline for one adapter + fruit at a time.
// Detail pages are fetched sequentially; the fetch layer owns pacing.
type Runner struct {
	fetcher Fetcher
	store   RecipeStore
	policy  retry.Policy
	log     logger.Interface

	// maxRecipes caps candidate detail pages per run.
	maxRecipes int
}

// NewRunner creates a runner.
func NewRunner(fetcher Fetcher, store RecipeStore, policy retry.Policy, maxRecipes int, log logger.Interface) *Runner {
	return &Runner{
		fetcher:    fetcher,
		store:      store,
		policy:     policy,
		maxRecipes: maxRecipes,
		log:        log.WithComponent("scraper"),
	}
}

// Run scrapes one fruit from one site. A listing-page failure aborts the
// run with an error so the caller can skip the source; individual detail
// page failures are counted and skipped.
func (r *Runner) Run(ctx context.Context, adapter adapters.Adapter, fruitIdentifier string) (RunReport, error) {
	report := RunReport{Source: adapter.Name(), Fruit: fruitIdentifier}
	log := r.log.WithSource(adapter.Name()).WithFruit(fruitIdentifier)

	query := fruitIdentifier + " jam"
	searchURL := adapter.SearchURL(query)

	listingHTML, err := r.fetchWithRetry(ctx, fetch.Request{
		URL:    searchURL,
		Mode:   adapter.FetchMode(),
		Scroll: true,
	}, log)
	if err != nil {
		return report, fmt.Errorf("failed to fetch search results from %s: %w", adapter.Name(), err)
	}

	links, err := adapter.RecipeLinks(listingHTML)
	if err != nil {
		return report, fmt.Errorf("failed to extract recipe links from %s: %w", adapter.Name(), err)
	}
	if len(links) > r.maxRecipes {
		links = links[:r.maxRecipes]
	}
	report.Found = len(links)

	log.Info("found candidate recipes", "count", len(links))

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		r.processDetail(ctx, adapter, link, &report, log)
	}

	log.Info("run complete",
		"found", report.Found,
		"validated", report.Validated,
		"rejected", report.Rejected,
		"failed", report.Failed,
		"inserted", report.Inserted,
		"duplicates", report.Duplicates,
	)

	return report, nil
}

// processDetail handles one candidate detail page end to end. Failures are
// recorded on the report, never propagated.
func (r *Runner) processDetail(ctx context.Context, adapter adapters.Adapter, link string, report *RunReport, log logger.Interface) {
	detailHTML, err := r.fetchWithRetry(ctx, fetch.Request{
		URL:          link,
		Mode:         adapter.FetchMode(),
		WaitSelector: "h1",
	}, log)
	if err != nil {
		report.Failed++
		log.Warn("detail fetch failed", "url", link, "error", err)
		return
	}
	report.Fetched++

	rec, err := adapter.ExtractRecipe(detailHTML, link)
	if err != nil {
		if errors.Is(err, validator.ErrNotTargetContent) {
			report.Rejected++
			log.Debug("recipe rejected", "url", link, "error", err)
			return
		}
		report.Failed++
		log.Warn("recipe extraction failed", "url", link, "error", err)
		return
	}
	report.Validated++

	if err := r.persist(ctx, adapter, rec, report); err != nil {
		report.Failed++
		log.Warn("failed to persist recipe", "title", rec.Title, "error", err)
	}
}

// persist stores the recipe and its fruit relations. An existing recipe is
// a silent skip.
func (r *Runner) persist(ctx context.Context, adapter adapters.Adapter, rec *domain.Recipe, report *RunReport) error {
	id, created, err := r.store.InsertIfAbsent(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to insert recipe %q: %w", rec.Title, err)
	}
	if !created {
		report.Duplicates++
		return nil
	}
	report.Inserted++

	fruits := adapter.ExtractFruits(rec.Ingredients)
	primary, secondary := taxonomy.ClassifyFruits(rec.Title, fruits)

	for _, set := range []struct {
		fruits    []string
		isPrimary bool
	}{
		{primary, true},
		{secondary, false},
	} {
		for _, fruit := range set.fruits {
			fruitID, err := r.store.FruitIDByIdentifier(ctx, fruit)
			if err != nil {
				return fmt.Errorf("failed to resolve fruit %q: %w", fruit, err)
			}
			rel := domain.FruitRelation{RecipeID: id, FruitID: fruitID, IsPrimary: set.isPrimary}
			if err := r.store.UpsertFruitRelation(ctx, rel); err != nil {
				return fmt.Errorf("failed to relate recipe %d to fruit %q: %w", id, fruit, err)
			}
		}
	}

	return nil
}

func (r *Runner) fetchWithRetry(ctx context.Context, req fetch.Request, log logger.Interface) (string, error) {
	return retry.DoValue(ctx, r.policy, log, "fetch "+req.URL,
		func(ctx context.Context) (string, error) {
			return r.fetcher.Fetch(ctx, req)
		})
}

// RunAll scrapes every fruit from every registered adapter, in registry
// order, and returns the per-run reports. Source-level failures are logged
// and skipped so one bad site never sinks a batch.
func (r *Runner) RunAll(ctx context.Context, registry *adapters.Registry, fruits []string) ([]RunReport, error) {
	var reports []RunReport

	for _, adapter := range registry.All() {
		for _, fruit := range fruits {
			if err := ctx.Err(); err != nil {
				return reports, err
			}

			report, err := r.Run(ctx, adapter, fruit)
			if err != nil {
				r.log.Error("source run failed, skipping",
					"source", adapter.Name(),
					"fruit", fruit,
					"error", err,
				)
			}
			reports = append(reports, report)
		}
	}

	return reports, nil
}
