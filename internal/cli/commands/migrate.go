package commands

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/warunglab/storeapi/internal/cli/config"
	"github.com/warunglab/storeapi/internal/store"
)

// NewMigrateCommand creates the migrate command tree.
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
		Long: `Manage versioned schema migrations.

Migrations ship inside the binary; 'migrate create' scaffolds a new SQL
file in the migrations directory for the configured dialect.`,
	}

	cmd.AddCommand(newMigrateUpCommand())
	cmd.AddCommand(newMigrateDownCommand())
	cmd.AddCommand(newMigrateCurrentCommand())
	cmd.AddCommand(newMigrateHistoryCommand())
	cmd.AddCommand(newMigrateStampCommand())
	cmd.AddCommand(newMigrateCreateCommand())
	cmd.AddCommand(newMigrateResetCommand())

	return cmd
}

// withMigrator opens the database, builds a Migrator, and runs fn.
func withMigrator(cmd *cobra.Command, fn func(cc *CommandContext, m *store.Migrator) error) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	m, err := store.NewMigrator(cc.Store.DB(), cc.Store.Dialect())
	if err != nil {
		return err
	}
	return fn(cc, m)
}

func newMigrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(cc *CommandContext, m *store.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				version, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied. Schema is at version %d.\n", version)
				return nil
			})
		},
	}
}

func newMigrateDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(cc *CommandContext, m *store.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				version, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back one migration. Schema is at version %d.\n", version)
				return nil
			})
		},
	}
}

func newMigrateCurrentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(cc *CommandContext, m *store.Migrator) error {
				version, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Current schema version: %d\n", version)
				return nil
			})
		},
	}
}

func newMigrateHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List all migrations and their applied state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(cc *CommandContext, m *store.Migrator) error {
				records, err := m.History(cmd.Context())
				if err != nil {
					return err
				}

				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)

				header := table.Row{"Version", "Name", "Applied", "Applied At"}
				if cc.Cfg.Verbose {
					header = append(header, "Source")
				}
				t.AppendHeader(header)

				for _, rec := range records {
					applied := "pending"
					appliedAt := ""
					if rec.Applied {
						applied = "yes"
						appliedAt = rec.AppliedAt.Format("2006-01-02 15:04:05")
					}
					row := table.Row{rec.Version, rec.Name, applied, appliedAt}
					if cc.Cfg.Verbose {
						row = append(row, rec.Source)
					}
					t.AppendRow(row)
				}

				t.Render()
				return nil
			})
		},
	}
}

func newMigrateStampCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stamp <version>",
		Short: "Record a migration version as applied without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid version %q: expected a migration version number", args[0])
			}
			return withMigrator(cmd, func(cc *CommandContext, m *store.Migrator) error {
				if err := m.Stamp(cmd.Context(), version); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stamped version %d as applied.\n", version)
				return nil
			})
		},
	}
}

func newMigrateCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <message>",
		Short: "Scaffold a new timestamped SQL migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			dir := cfg.MigrationsDirFor(cfg.Database.Driver)
			if err := store.CreateMigration(dir, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created new migration in %s\n", dir)
			return nil
		},
	}
}

func newMigrateResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Roll back to base, then reapply all migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(cc *CommandContext, m *store.Migrator) error {
				if err := m.Reset(); err != nil {
					return err
				}
				version, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Database reset. Schema is at version %d.\n", version)
				return nil
			})
		},
	}
}
