// Package images implements the images command, which downloads and
// validates fruit photos for classifier training.
package images

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/DawsonJay/jam-hot-project/cmd/common"
	"github.com/DawsonJay/jam-hot-project/internal/fetch"
	"github.com/DawsonJay/jam-hot-project/internal/images"
	"github.com/DawsonJay/jam-hot-project/internal/retry"
	"github.com/DawsonJay/jam-hot-project/internal/taxonomy"
)

// Command returns the images command.
func Command() *cobra.Command {
	var (
		fruits     []string
		skipExotic bool
	)

	cmd := &cobra.Command{
		Use:   "images",
		Short: "Collect validated fruit images for classifier training",
		Long: `Search Google Images for each fruit, download candidate
photos, and keep the ones that pass quality validation. Known fruits
get their own class directory; exotic fruits all land in the shared
unknown class.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImages(cmd.Context(), fruits, skipExotic)
		},
	}

	cmd.Flags().StringSliceVar(&fruits, "fruits", nil,
		"fruits to collect (default: all known fruits)")
	cmd.Flags().BoolVar(&skipExotic, "skip-exotic", false,
		"skip the exotic fruits collected for the unknown class")

	return cmd
}

func runImages(ctx context.Context, fruits []string, skipExotic bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to get dependencies: %w", err)
	}
	cfg := deps.Config

	explicit := len(fruits) > 0
	if !explicit {
		fruits = taxonomy.Identifiers()
	}
	for _, fruit := range fruits {
		if !taxonomy.IsKnown(fruit) {
			return fmt.Errorf("unknown fruit %q", fruit)
		}
	}

	dispatcher := fetch.NewDispatcher(cfg.Scraper, cfg.Browser, deps.Logger)
	defer dispatcher.Close()

	source := images.NewGoogleImages()
	resolver := images.NewResolver(
		dispatcher,
		source,
		cfg.Images.Workers,
		cfg.Images.PerFruit,
		retry.DefaultPolicy(),
		deps.Logger,
	)
	downloader := images.NewDownloader(cfg.Images.FetchTimeout, cfg.Scraper.UserAgent)
	pipeline := images.NewPipeline(resolver, source, downloader, cfg.Images.OutputDir, deps.Logger)

	reports, err := pipeline.CollectAll(ctx, fruits, cfg.Images.PerFruit, false)
	if err == nil && !explicit && !skipExotic {
		var exoticReports []images.Report
		exoticReports, err = pipeline.CollectAll(
			ctx, images.ExoticFruits(), cfg.Images.ExoticPerFruit, true)
		reports = append(reports, exoticReports...)
	}

	renderReports(reports)
	if err != nil {
		return fmt.Errorf("image collection interrupted: %w", err)
	}
	return nil
}

func renderReports(reports []images.Report) {
	if len(reports) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{
		"Fruit", "Requested", "Found", "Downloaded", "Validated", "Rejected", "Failed",
	})

	var requested, validated int
	for _, r := range reports {
		requested += r.Requested
		validated += r.Validated
		t.AppendRow(table.Row{
			r.Fruit, r.Requested, r.Found, r.Downloaded, r.Validated, r.Rejected, r.Failed,
		})
	}
	t.AppendFooter(table.Row{"Total", requested, "", "", validated, "", ""})
	t.Render()
}
