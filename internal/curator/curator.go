// Package curator prunes the persisted recipe collection down to the
// best recipes per fruit combination.
package curator

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/DawsonJay/jam-hot-project/internal/database"
	"github.com/DawsonJay/jam-hot-project/internal/logger"
)

// KeepPerCombo is how many recipes survive curation in each
// primary-fruit combination group.
const KeepPerCombo = 5

// Store is the persistence surface the curator needs.
type Store interface {
	RecipesByPrimaryFruits(ctx context.Context) (map[string][]database.RecipeRank, error)
	DeleteRecipes(ctx context.Context, ids []int64) error
}

// Report summarizes one curation run.
type Report struct {
	Combos     int
	Examined   int
	Duplicates int
	Pruned     int
	Kept       int
}

// Curator groups recipes by their primary-fruit combination and keeps
// only the highest scoring ones in each group.
type Curator struct {
	store Store
	keep  int
	log   logger.Interface
}

func New(store Store, log logger.Interface) *Curator {
	return &Curator{
		store: store,
		keep:  KeepPerCombo,
		log:   log.WithComponent("curator"),
	}
}

// Run curates every combination group and deletes the losers together
// with their fruit relations.
func (c *Curator) Run(ctx context.Context) (*Report, error) {
	groups, err := c.store.RecipesByPrimaryFruits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe groups: %w", err)
	}

	report := &Report{Combos: len(groups)}
	var doomed []int64

	combos := make([]string, 0, len(groups))
	for combo := range groups {
		combos = append(combos, combo)
	}
	sort.Strings(combos)

	for _, combo := range combos {
		recipes := groups[combo]
		report.Examined += len(recipes)

		unique, dupes := dropDuplicateTitles(recipes)
		report.Duplicates += len(dupes)
		doomed = append(doomed, dupes...)

		kept, pruned := rankAndCut(unique, c.keep)
		report.Kept += len(kept)
		report.Pruned += len(pruned)
		doomed = append(doomed, pruned...)

		c.log.Debug("Curated combination",
			"combo", combo,
			"examined", len(recipes),
			"kept", len(kept),
			"pruned", len(pruned)+len(dupes))
	}

	if len(doomed) > 0 {
		if err := c.store.DeleteRecipes(ctx, doomed); err != nil {
			return nil, fmt.Errorf("failed to delete pruned recipes: %w", err)
		}
	}

	c.log.Info("Curation complete",
		"combos", report.Combos,
		"examined", report.Examined,
		"duplicates", report.Duplicates,
		"pruned", report.Pruned,
		"kept", report.Kept)

	return report, nil
}

// dropDuplicateTitles removes recipes whose title exactly matches an
// earlier one in the group, keeping the copy with the highest
// rating x review_count weight. Returns the survivors and the ids to
// delete.
func dropDuplicateTitles(recipes []database.RecipeRank) ([]database.RecipeRank, []int64) {
	best := make(map[string]database.RecipeRank, len(recipes))
	var dupes []int64

	for _, rec := range recipes {
		cur, seen := best[rec.Title]
		if !seen {
			best[rec.Title] = rec
			continue
		}
		if weight(rec) > weight(cur) {
			dupes = append(dupes, cur.ID)
			best[rec.Title] = rec
		} else {
			dupes = append(dupes, rec.ID)
		}
	}

	unique := make([]database.RecipeRank, 0, len(best))
	for _, rec := range recipes {
		if kept, ok := best[rec.Title]; ok && kept.ID == rec.ID {
			unique = append(unique, rec)
		}
	}
	return unique, dupes
}

func weight(rec database.RecipeRank) float64 {
	return rec.Rating * float64(rec.ReviewCount)
}

// rankAndCut sorts a group by score and splits it into the recipes to
// keep and the ids to delete.
func rankAndCut(recipes []database.RecipeRank, keep int) ([]database.RecipeRank, []int64) {
	sorted := make([]database.RecipeRank, len(recipes))
	copy(sorted, recipes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Score(sorted[i]) > Score(sorted[j])
	})

	if len(sorted) <= keep {
		return sorted, nil
	}

	pruned := make([]int64, 0, len(sorted)-keep)
	for _, rec := range sorted[keep:] {
		pruned = append(pruned, rec.ID)
	}
	return sorted[:keep], pruned
}

// Score ranks a recipe by its rating squared, scaled by a review-count
// multiplier. Highly rated recipes gain from many reviews, poorly rated
// ones lose.
func Score(rec database.RecipeRank) float64 {
	reviews := float64(rec.ReviewCount)
	var multiplier float64
	switch {
	case rec.Rating >= 4.0:
		multiplier = 1 + math.Pow(reviews, 0.3)/10
	case rec.Rating >= 3.0:
		multiplier = 1 + math.Pow(reviews, 0.1)/50
	default:
		multiplier = 1 - math.Pow(reviews, 0.3)/20
	}
	return rec.Rating * rec.Rating * multiplier
}
