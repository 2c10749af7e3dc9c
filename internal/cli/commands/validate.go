package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlkit/internal/cli/output"
)

// ErrValidationFailed is returned when the tables file has problems.
var ErrValidationFailed = errors.New("validation failed")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the tables file",
		Long: `Check every table in the tables file: dialects, column names and types,
index columns, and dialect options. All problems are reported at once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			problems := collectProblems(cmdCtx, cmd)
			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				if err := r.JSON(map[string]any{
					"file":     cmdCtx.Cfg.Tables,
					"tables":   len(cmdCtx.Registry.ListTables()),
					"valid":    len(problems) == 0,
					"problems": problems,
				}); err != nil {
					return err
				}
			} else if len(problems) == 0 {
				r.Println(fmt.Sprintf("✓ %s: %d tables valid", cmdCtx.Cfg.Tables, len(cmdCtx.Registry.ListTables())))
			} else {
				r.Header(1, fmt.Sprintf("%s: %d problem(s)", cmdCtx.Cfg.Tables, len(problems)))
				for _, p := range problems {
					r.Println("- " + p)
				}
			}

			if len(problems) > 0 {
				return ErrValidationFailed
			}
			return nil
		},
	}
}

// collectProblems runs the schema checks, then builds every table so that
// dialect option errors surface as well.
func collectProblems(cmdCtx *CommandContext, cmd *cobra.Command) []string {
	problems := []string{}
	if err := cmdCtx.Registry.Config().Validate(); err != nil {
		return append(problems, splitJoined(err)...)
	}
	if _, err := cmdCtx.Registry.BuildAll(cmd.Context()); err != nil {
		problems = append(problems, splitJoined(err)...)
	}
	return problems
}

// splitJoined flattens errors.Join trees into their messages.
func splitJoined(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, splitJoined(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
