// Package commands implements the storeapi subcommands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/warunglab/storeapi/internal/cli/config"
	"github.com/warunglab/storeapi/internal/store"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Store  *store.Store
}

// NewCommandContext loads the config from the command context and opens the
// database. Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return nil, nil, fmt.Errorf("configuration not loaded")
	}
	logger := config.GetLogger(cmd.Context())

	if err := cfg.ValidateDatabase(); err != nil {
		return nil, nil, err
	}

	st, err := store.Open(cmd.Context(), storeConfig(cfg), logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = st.Close()
	}

	return &CommandContext{Cfg: cfg, Logger: logger, Store: st}, cleanup, nil
}

func storeConfig(cfg *config.Config) store.Config {
	return store.Config{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		Params:   cfg.Database.Params,
	}
}
