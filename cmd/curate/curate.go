// Package curate implements the curate command, which prunes the
// recipe collection down to the best recipes per fruit combination.
package curate

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DawsonJay/jam-hot-project/cmd/common"
	"github.com/DawsonJay/jam-hot-project/internal/curator"
	"github.com/DawsonJay/jam-hot-project/internal/database"
)

// Command returns the curate command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "curate",
		Short: "Prune the recipe collection to the best recipes per fruit combination",
		Long: `Group recipes by their primary fruits, drop duplicates, and
keep only the highest scoring recipes in each group. Pruned recipes are
deleted together with their fruit relations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCurate(cmd.Context())
		},
	}
}

func runCurate(ctx context.Context) error {
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

	report, err := curator.New(database.NewRecipeRepository(db), deps.Logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("curation failed: %w", err)
	}

	fmt.Printf("Curated %d combinations: examined %d recipes, kept %d, "+
		"removed %d duplicates and %d low scorers\n",
		report.Combos, report.Examined, report.Kept, report.Duplicates, report.Pruned)
	return nil
}
