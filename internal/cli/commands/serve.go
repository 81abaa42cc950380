package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/warunglab/storeapi/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the storeapi HTTP server.

The server checks the database connection on startup (with retries) and
shuts down gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := server.New(server.Config{
				Addr:     cc.Cfg.Server.Addr,
				Users:    cc.Store.Users,
				Products: cc.Store.Products,
				Pinger:   cc.Store.DB(),
				Logger:   cc.Logger,
			})
			return srv.Serve(ctx)
		},
	}
}
