package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlkit/internal/cli/output"
	"github.com/leapstack-labs/sqlkit/pkg/adapter"
)

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	var flags statementFlags

	cmd := &cobra.Command{
		Use:   "exec <table> <statement>",
		Short: "Execute a statement against the configured target",
		Long: `Build a statement exactly as render does and execute it against the target
database of the selected environment. Statements run in order and stop at the
first failure.`,
		Example: `  # Create a table in the dev target
  sqlkit exec users create

  # Create its indexes in production
  sqlkit exec users indexes -t prod`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeStatements,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			queries, err := flags.build(cmdCtx, args[0], args[1])
			if err != nil {
				return err
			}

			a, cleanup, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := adapter.Run(cmd.Context(), a, cmdCtx.Logger, queries...)
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{
					"run_id":      res.ID,
					"statements":  res.Statements,
					"duration_ms": res.Duration.Milliseconds(),
				})
			}
			r.Println(fmt.Sprintf("Executed %d statement(s) on %s target in %s (run %s)",
				res.Statements, a.Dialect(), res.Duration.Round(time.Millisecond), res.ID))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
