// Package scrape implements the scrape command, which collects jam
// recipes from every registered source and persists them.
package scrape

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/DawsonJay/jam-hot-project/cmd/common"
	"github.com/DawsonJay/jam-hot-project/internal/adapters"
	"github.com/DawsonJay/jam-hot-project/internal/database"
	"github.com/DawsonJay/jam-hot-project/internal/fetch"
	"github.com/DawsonJay/jam-hot-project/internal/retry"
	"github.com/DawsonJay/jam-hot-project/internal/scraper"
	"github.com/DawsonJay/jam-hot-project/internal/taxonomy"
)

// Command returns the scrape command.
func Command() *cobra.Command {
	var (
		fruits  []string
		sources []string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Collect jam recipes from all configured sources",
		Long: `Search every recipe source for jam recipes, one query per
fruit, validate the results, and persist new recipes with their fruit
relations. Already-seen recipes are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd.Context(), fruits, sources)
		},
	}

	cmd.Flags().StringSliceVar(&fruits, "fruits", nil,
		"fruits to search for (default: all known fruits)")
	cmd.Flags().StringSliceVar(&sources, "sources", nil,
		"sources to scrape (default: all registered sources)")

	return cmd
}

func runScrape(ctx context.Context, fruits, sources []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to get dependencies: %w", err)
	}

	db, err := common.OpenDatabase(ctx, deps)
	if err != nil {
		return err
	}
	defer db.Close()

	if len(fruits) == 0 {
		fruits = taxonomy.Identifiers()
	}
	for _, fruit := range fruits {
		if !taxonomy.IsKnown(fruit) {
			return fmt.Errorf("unknown fruit %q", fruit)
		}
	}

	registry, err := selectSources(sources)
	if err != nil {
		return err
	}

	dispatcher := fetch.NewDispatcher(deps.Config.Scraper, deps.Config.Browser, deps.Logger)
	defer dispatcher.Close()

	runner := scraper.NewRunner(
		dispatcher,
		database.NewRecipeRepository(db),
		retry.DefaultPolicy(),
		deps.Config.Scraper.MaxRecipesPerSource,
		deps.Logger,
	)

	reports, err := runner.RunAll(ctx, registry, fruits)
	renderReports(reports)
	if err != nil {
		return fmt.Errorf("scrape interrupted: %w", err)
	}
	return nil
}

// selectSources narrows the default registry to the named sources, or
// returns it whole when none are named.
func selectSources(names []string) (*adapters.Registry, error) {
	registry := adapters.DefaultRegistry()
	if len(names) == 0 {
		return registry, nil
	}

	selected := adapters.NewRegistry()
	for _, name := range names {
		adapter, err := registry.Get(name)
		if err != nil {
			return nil, fmt.Errorf("unknown source %q (known: %v)", name, registry.Names())
		}
		if err := selected.Register(adapter); err != nil {
			return nil, err
		}
	}
	return selected, nil
}

// renderReports prints a per-run summary table plus a totals row.
func renderReports(reports []scraper.RunReport) {
	if len(reports) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{
		"Source", "Fruit", "Found", "Fetched", "Validated",
		"Rejected", "Failed", "Inserted", "Duplicates",
	})

	var total scraper.RunReport
	for _, r := range reports {
		total.Add(r)
		t.AppendRow(table.Row{
			r.Source, r.Fruit, r.Found, r.Fetched, r.Validated,
			r.Rejected, r.Failed, r.Inserted, r.Duplicates,
		})
	}
	t.AppendFooter(table.Row{
		"Total", "", total.Found, total.Fetched, total.Validated,
		total.Rejected, total.Failed, total.Inserted, total.Duplicates,
	})
	t.Render()
}
