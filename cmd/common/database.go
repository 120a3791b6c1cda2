package common

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/DawsonJay/jam-hot-project/internal/database"
)

// OpenDatabase connects to PostgreSQL and ensures the fruit taxonomy is
// seeded. The caller owns the returned handle.
func OpenDatabase(ctx context.Context, deps CommandDeps) (*sqlx.DB, error) {
	db, err := database.NewPostgresConnection(deps.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.SeedFruits(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed fruit taxonomy: %w", err)
	}

	return db, nil
}
