package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/DawsonJay/jam-hot-project/internal/domain"
)

// ErrFruitNotFound is returned when a taxonomy identifier has no row in the
// fruits table. Callers should check with errors.Is().
var ErrFruitNotFound = errors.New("fruit not found")

// recipeSelectColumns lists columns for SELECT queries on recipes.
const recipeSelectColumns = `id, title, description, ingredients, instructions, rating,
	review_count, source, source_url, image_url, servings,
	prep_time, cook_time, total_time, created_at, scraped_at`

// RecipeRank is the slice of a recipe the curator ranks on.
type RecipeRank struct {
	ID          int64   `db:"id"`
	Title       string  `db:"title"`
	Rating      float64 `db:"rating"`
	ReviewCount int     `db:"review_count"`
}

// RecipeRepository handles database operations for recipes and their fruit
// relations.
type RecipeRepository struct {
	db *sqlx.DB
}

// NewRecipeRepository creates a new recipe repository.
func NewRecipeRepository(db *sqlx.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// InsertIfAbsent stores the recipe unless a row with the same source URL or
// the same title already exists. It returns the row ID and whether a new
// row was created; finding an existing row is not an error.
func (r *RecipeRepository) InsertIfAbsent(ctx context.Context, rec *domain.Recipe) (int64, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin insert transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var existingID int64
	err = tx.GetContext(ctx, &existingID,
		`SELECT id FROM recipes WHERE source_url = $1 OR title = $2`,
		rec.SourceURL, rec.Title,
	)
	switch {
	case err == nil:
		return existingID, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, false, fmt.Errorf("failed to check for existing recipe: %w", err)
	}

	query := `
		INSERT INTO recipes (
			title, description, ingredients, instructions, rating,
			review_count, source, source_url, image_url, servings,
			prep_time, cook_time, total_time, scraped_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	var id int64
	err = tx.GetContext(ctx, &id, query,
		rec.Title, rec.Description, rec.Ingredients, rec.Instructions, rec.Rating,
		rec.ReviewCount, rec.Source, rec.SourceURL, rec.ImageURL, rec.Servings,
		rec.PrepTime, rec.CookTime, rec.TotalTime, rec.ScrapedAt,
	)
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert recipe %q: %w", rec.Title, err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return 0, false, fmt.Errorf("failed to commit recipe insert: %w", commitErr)
	}

	rec.ID = id
	return id, true, nil
}

// UpsertFruitRelation records that a recipe contains a fruit. A relation
// upgraded to primary stays primary.
func (r *RecipeRepository) UpsertFruitRelation(ctx context.Context, rel domain.FruitRelation) error {
	query := `
		INSERT INTO recipe_fruits (recipe_id, fruit_id, is_primary)
		VALUES ($1, $2, $3)
		ON CONFLICT (recipe_id, fruit_id) DO UPDATE SET
			is_primary = recipe_fruits.is_primary OR EXCLUDED.is_primary
	`

	_, err := r.db.ExecContext(ctx, query, rel.RecipeID, rel.FruitID, rel.IsPrimary)
	if err != nil {
		return fmt.Errorf("failed to upsert fruit relation (%d, %d): %w",
			rel.RecipeID, rel.FruitID, err)
	}
	return nil
}

// FruitIDByIdentifier resolves a taxonomy identifier to its fruits row.
func (r *RecipeRepository) FruitIDByIdentifier(ctx context.Context, identifier string) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id,
		`SELECT id FROM fruits WHERE identifier = $1`, identifier)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", ErrFruitNotFound, identifier)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up fruit %q: %w", identifier, err)
	}
	return id, nil
}

// RecipesByPrimaryFruits groups every recipe that has at least one primary
// fruit by its sorted primary-fruit combination. The map key joins the
// identifiers with "+", e.g. "raspberry+strawberry".
func (r *RecipeRepository) RecipesByPrimaryFruits(ctx context.Context) (map[string][]RecipeRank, error) {
	query := `
		SELECT r.id, r.title, r.rating, r.review_count,
			string_agg(f.identifier, '+' ORDER BY f.identifier) AS combo
		FROM recipes r
		JOIN recipe_fruits rf ON rf.recipe_id = r.id AND rf.is_primary
		JOIN fruits f ON f.id = rf.fruit_id
		GROUP BY r.id, r.title, r.rating, r.review_count
		ORDER BY r.id
	`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes by primary fruits: %w", err)
	}
	defer rows.Close()

	groups := make(map[string][]RecipeRank)
	for rows.Next() {
		var (
			rank  RecipeRank
			combo string
		)
		if scanErr := rows.Scan(&rank.ID, &rank.Title, &rank.Rating, &rank.ReviewCount, &combo); scanErr != nil {
			return nil, fmt.Errorf("failed to scan recipe group row: %w", scanErr)
		}
		groups[combo] = append(groups[combo], rank)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipe group rows: %w", err)
	}

	return groups, nil
}

// DeleteRecipes removes the recipes and their fruit relations in one
// transaction, relations first.
func (r *RecipeRepository) DeleteRecipes(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recipe_fruits WHERE recipe_id = ANY($1)`, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to delete fruit relations: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to delete recipes: %w", err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("failed to commit recipe delete: %w", commitErr)
	}
	return nil
}

// RecipeByID loads one full recipe row.
func (r *RecipeRepository) RecipeByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var rec domain.Recipe
	err := r.db.GetContext(ctx, &rec,
		`SELECT `+recipeSelectColumns+` FROM recipes WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe %d: %w", id, err)
	}
	return &rec, nil
}

// CountRecipes returns the number of stored recipes, optionally filtered by
// source.
func (r *RecipeRepository) CountRecipes(ctx context.Context, source string) (int, error) {
	query := `SELECT COUNT(*) FROM recipes`
	args := []any{}
	if source != "" {
		query += ` WHERE source = $1`
		args = append(args, source)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}

// ComboIdentifiers splits a RecipesByPrimaryFruits map key back into its
// fruit identifiers.
func ComboIdentifiers(combo string) []string {
	if combo == "" {
		return nil
	}
	return strings.Split(combo, "+")
}
