package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlkit/internal/cli/output"
	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// statementFlags are the flags shared by render and exec.
type statementFlags struct {
	args       []string
	vars       []string
	skipConfig bool
}

func (f *statementFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.args, "arg", "a", nil, "Statement argument as key=value (repeat a key to pass a list)")
	cmd.Flags().StringArrayVar(&f.vars, "var", nil, "Template variable as key=value, overriding configured vars")
	cmd.Flags().BoolVar(&f.skipConfig, "skip-config", false, "Ignore the table's dialect_methods configuration")
}

// build resolves the table and builds the named statement.
func (f *statementFlags) build(cmdCtx *CommandContext, tableName, stmt string) ([]table.Query, error) {
	m, err := cmdCtx.Registry.Table(tableName)
	if err != nil {
		return nil, err
	}
	args, err := parseArgs(f.args)
	if err != nil {
		return nil, err
	}
	vars, err := parseVars(f.vars)
	if err != nil {
		return nil, err
	}

	opts := []table.CallOption{table.WithVars(cmdCtx.Vars(vars))}
	if f.skipConfig {
		opts = append(opts, table.SkipConfig())
	}

	cmdCtx.Logger.Debug("building statement", "table", tableName, "statement", stmt, "args", len(args))
	return BuildStatement(m, stmt, StatementInput{Args: args, Opts: opts})
}

// completeStatements completes table names, then statement names.
func completeStatements(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	switch len(args) {
	case 0:
		return cmdCtx.Registry.ListTables(), cobra.ShellCompDirectiveNoFileComp
	case 1:
		m, err := cmdCtx.Registry.Table(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var names []string
		for _, s := range StatementsFor(m) {
			names = append(names, s.Name+"\t"+s.Short)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

type renderedStatement struct {
	SQL  string `json:"sql"`
	Args []any  `json:"args,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var flags statementFlags

	cmd := &cobra.Command{
		Use:   "render <table> <statement>",
		Short: "Render a statement for a table",
		Long: `Render the SQL of a statement for a configured table without executing it.

Statements include create, drop, truncate, indexes, select and insert for
every dialect, plus the dialect's own statements such as copy_from_s3 on
Redshift or load_data_infile on MySQL. Run 'sqlkit describe <table>' to see
the statements available for a table.

Dialect statements read their arguments from the table's dialect_methods
configuration; --arg values override them, and {{ placeholders }} are
expanded from the configured vars, the selected environment and --var.`,
		Example: `  # Render the CREATE TABLE statement
  sqlkit render users create

  # Render a Redshift COPY for a given date
  sqlkit render events copy_from_s3 --var date=2024-01-15

  # Override a configured argument
  sqlkit render events copy_from_s3 -a s3_path=s3://other/path/ --var date=2024-01-15`,
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
			return renderStatements(cmdCtx.Renderer, queries)
		},
	}
	flags.register(cmd)
	return cmd
}

func renderStatements(r *output.Renderer, queries []table.Query) error {
	rendered := make([]renderedStatement, 0, len(queries))
	for i, q := range queries {
		text, args, err := q.SQL()
		if err != nil {
			return fmt.Errorf("rendering statement %d: %w", i+1, err)
		}
		rendered = append(rendered, renderedStatement{SQL: text, Args: args})
	}

	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		return r.JSON(rendered)
	}
	if mode == output.ModeMarkdown {
		r.Println("```sql")
	}
	for _, s := range rendered {
		r.Println(strings.TrimRight(s.SQL, "; \n") + ";")
		if len(s.Args) > 0 {
			r.Println(fmt.Sprintf("-- args: %v", s.Args))
		}
	}
	if mode == output.ModeMarkdown {
		r.Println("```")
	}
	return nil
}
