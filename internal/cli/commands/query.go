package commands

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlkit/internal/cli/output"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var (
		args   []string
		format string
	)

	cmd := &cobra.Command{
		Use:   "query <table>",
		Short: "Select rows from a table in the configured target",
		Long: `Run the select statement of a table against the target and print the rows.

Arguments are those of 'render <table> select': columns, order_by and limit.`,
		Example: `  # First ten users
  sqlkit query users -a limit=10

  # Two columns as CSV
  sqlkit query users -a columns=id -a columns=email --format csv`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeStatements(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, positional []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			flags := statementFlags{args: args}
			queries, err := flags.build(cmdCtx, positional[0], "select")
			if err != nil {
				return err
			}
			text, qargs, err := queries[0].SQL()
			if err != nil {
				return err
			}

			a, cleanup, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			rows, err := a.Query(cmd.Context(), text, qargs...)
			if err != nil {
				return err
			}
			defer func() { _ = rows.Close() }()

			if format == "" {
				format = string(cmdCtx.Renderer.EffectiveMode())
			}
			return renderResults(cmd.OutOrStdout(), rows.Rows, format)
		},
	}

	cmd.Flags().StringArrayVarP(&args, "arg", "a", nil, "Select argument as key=value (columns, order_by, limit)")
	cmd.Flags().StringVar(&format, "format", "", "Result format (text|markdown|json|csv); defaults to --output")
	return cmd
}

func renderResults(w io.Writer, rows *sql.Rows, format string) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	// Collect all rows
	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return err
		}

		row := make(map[string]any)
		for i, col := range cols {
			val := values[i]
			// Convert []byte to string for readability
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[col] = val
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return err
	}

	switch format {
	case string(output.ModeJSON):
		return renderJSON(w, results)
	case "csv":
		return renderCSV(w, cols, results)
	case "md", string(output.ModeMarkdown):
		return renderMarkdown(w, cols, results)
	default:
		return renderTable(w, cols, results)
	}
}

func renderTable(w io.Writer, cols []string, results []map[string]any) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := resultWriter(cols, results)
	t.SetStyle(table.StyleLight)
	_, _ = fmt.Fprintln(w, t.Render())
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(results))
	return nil
}

// resultWriter loads rows into a go-pretty table in column order.
func resultWriter(cols []string, results []map[string]any) table.Writer {
	t := table.NewWriter()
	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, result := range results {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = formatValue(result[col])
		}
		t.AppendRow(row)
	}
	return t
}

func renderJSON(w io.Writer, results []map[string]any) error {
	if results == nil {
		results = []map[string]any{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func renderCSV(w io.Writer, cols []string, results []map[string]any) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	values := make([]string, len(cols))
	for _, result := range results {
		for i, col := range cols {
			values[i] = formatValue(result[col])
		}
		if err := cw.Write(values); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderMarkdown(w io.Writer, cols []string, results []map[string]any) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}
	_, _ = fmt.Fprintln(w, resultWriter(cols, results).RenderMarkdown())
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
