package common

import (
	"fmt"

	"github.com/DawsonJay/jam-hot-project/internal/config"
	"github.com/DawsonJay/jam-hot-project/internal/logger"
)

// NewCommandDeps loads the configuration and builds the logger every
// command starts from.
func NewCommandDeps() (CommandDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return CommandDeps{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("failed to create logger: %w", err)
	}

	deps := CommandDeps{Logger: log, Config: cfg}
	if err := deps.Validate(); err != nil {
		return CommandDeps{}, err
	}
	return deps, nil
}
