package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/DawsonJay/jam-hot-project/internal/taxonomy"
)

// SeedFruits inserts the fruit taxonomy into the fruits and
// fruit_variations tables. Existing rows are left untouched, so seeding is
// idempotent and safe to run at startup.
func SeedFruits(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, identifier := range taxonomy.Identifiers() {
		var fruitID int64
		err := tx.GetContext(ctx, &fruitID, `
			INSERT INTO fruits (identifier, display_name)
			VALUES ($1, $2)
			ON CONFLICT (identifier) DO UPDATE SET display_name = EXCLUDED.display_name
			RETURNING id
		`, identifier, taxonomy.DisplayName(identifier))
		if err != nil {
			return fmt.Errorf("failed to seed fruit %q: %w", identifier, err)
		}

		for _, variation := range taxonomy.Variations(identifier) {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO fruit_variations (fruit_id, variation)
				VALUES ($1, $2)
				ON CONFLICT (fruit_id, variation) DO NOTHING
			`, fruitID, variation); err != nil {
				return fmt.Errorf("failed to seed variation %q: %w", variation, err)
			}
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("failed to commit fruit seed: %w", commitErr)
	}
	return nil
}
