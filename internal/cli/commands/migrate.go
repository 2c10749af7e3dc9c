package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlkit/internal/cli/output"
	"github.com/leapstack-labs/sqlkit/pkg/migrate"
)

// NewMigrateCommand creates the migrate command and its subcommands.
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Generate and apply goose migrations",
		Long: `Generate goose SQL migrations from the tables file and apply them to the
configured target. One migration is written per table, in table name order,
creating the table and its indexes.`,
	}
	cmd.AddCommand(newMigrateWriteCommand(), newMigrateUpCommand(), newMigrateStatusCommand())
	return cmd
}

func newMigrateWriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "write",
		Short: "Write migration files to the migrations directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			migs, err := migrate.Generate(cmd.Context(), cmdCtx.Registry)
			if err != nil {
				return err
			}
			paths, err := migrate.Write(cmdCtx.Cfg.MigrationsDir, migs)
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(paths)
			}
			for _, p := range paths {
				r.Println("wrote " + p)
			}
			return nil
		},
	}
}

func newMigrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations to the configured target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutRegistry(cmd)
			a, cleanup, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			applied, err := migrate.Up(cmd.Context(), a.DB(), a.Dialect(), cmdCtx.Cfg.MigrationsDir, cmdCtx.Logger)
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{"applied": applied})
			}
			if len(applied) == 0 {
				r.Println("no pending migrations")
				return nil
			}
			for _, v := range applied {
				r.Println(fmt.Sprintf("applied %05d", v))
			}
			return nil
		},
	}
}

func newMigrateStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current migration version of the target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutRegistry(cmd)
			a, cleanup, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			v, err := migrate.Version(cmd.Context(), a.DB(), a.Dialect(), cmdCtx.Cfg.MigrationsDir)
			if err != nil {
				return err
			}
			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{"version": v})
			}
			r.Println(fmt.Sprintf("version %d", v))
			return nil
		},
	}
}
