package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlkit/internal/cli/output"
)

// tableSummary is the JSON form of one row of the tables command.
type tableSummary struct {
	Name    string   `json:"name"`
	Dialect string   `json:"dialect"`
	Schema  string   `json:"schema,omitempty"`
	Columns int      `json:"columns"`
	Methods []string `json:"methods,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List configured tables",
		Long: `List every table in the tables file with its dialect, schema,
column count and configured dialect methods.

Output adapts to environment:
  - Terminal: box-drawn table
  - Piped/Scripted: Markdown table (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List tables
  sqlkit tables

  # List tables as JSON
  sqlkit tables -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runTables(cmdCtx)
		},
	}
}

func runTables(cmdCtx *CommandContext) error {
	var summaries []tableSummary
	for _, name := range cmdCtx.Registry.ListTables() {
		s := tableSummary{Name: name}
		m, err := cmdCtx.Registry.Table(name)
		if err != nil {
			s.Error = err.Error()
			summaries = append(summaries, s)
			continue
		}
		base := m.Base()
		s.Dialect = base.Dialect.Name()
		s.Schema = base.Schema
		s.Columns = len(base.Columns)
		s.Methods = base.MethodNames()
		summaries = append(summaries, s)
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(summaries)
	}

	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		if s.Error != "" {
			rows[i] = []string{s.Name, "error", "", "", s.Error}
			continue
		}
		rows[i] = []string{s.Name, s.Dialect, s.Schema, strconv.Itoa(s.Columns), strings.Join(s.Methods, ", ")}
	}
	r.Table([]string{"Table", "Dialect", "Schema", "Columns", "Methods"}, rows)
	return nil
}
