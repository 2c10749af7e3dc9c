package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlkit/internal/cli/output"
	"github.com/leapstack-labs/sqlkit/pkg/adapter"
	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// columnDrift lists the differences between configured and live columns.
type columnDrift struct {
	Missing []string `json:"missing,omitempty"`
	Extra   []string `json:"extra,omitempty"`
}

func (d columnDrift) empty() bool { return len(d.Missing) == 0 && len(d.Extra) == 0 }

// columnSet returns the lower-cased column names of t.
func columnSet(t *table.Table) map[string]bool {
	set := make(map[string]bool, len(t.Columns))
	for _, name := range t.ColumnNames() {
		set[strings.ToLower(name)] = true
	}
	return set
}

// compareColumns matches column names case-insensitively.
func compareColumns(configured *table.Table, live *adapter.Metadata) columnDrift {
	var d columnDrift
	known := columnSet(configured)
	seen := make(map[string]bool, len(live.Columns))
	for _, c := range live.Columns {
		seen[strings.ToLower(c.Name)] = true
		if !known[strings.ToLower(c.Name)] {
			d.Extra = append(d.Extra, c.Name)
		}
	}
	for _, name := range configured.ColumnNames() {
		if !seen[strings.ToLower(name)] {
			d.Missing = append(d.Missing, name)
		}
	}
	return d
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <table>",
		Short: "Compare a table with its live definition in the target",
		Long: `Read the columns and row count of a configured table from the target
database and report configured columns missing from it and live columns
absent from the configuration.`,
		Example: `  sqlkit inspect users -t prod`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			m, err := cmdCtx.Registry.Table(args[0])
			if err != nil {
				return err
			}
			base := m.Base()

			a, cleanup, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			meta, err := a.GetTableMetadata(cmd.Context(), displayName(base))
			if err != nil {
				return err
			}
			drift := compareColumns(base, meta)

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{
					"table":     meta,
					"drift":     drift,
					"in_sync":   drift.empty(),
					"row_count": meta.RowCount,
				})
			}

			r.Header(1, fmt.Sprintf("%s.%s (%d rows)", meta.Schema, meta.Name, meta.RowCount))
			known := columnSet(base)
			rows := make([][]string, len(meta.Columns))
			for i, c := range meta.Columns {
				configured := "yes"
				if !known[strings.ToLower(c.Name)] {
					configured = "no"
				}
				rows[i] = []string{strconv.Itoa(c.Position), c.Name, c.Type, strconv.FormatBool(c.Nullable), configured}
			}
			r.Table([]string{"#", "Column", "Type", "Nullable", "Configured"}, rows)

			if drift.empty() {
				r.Println("✓ columns match the configuration")
				return nil
			}
			if len(drift.Missing) > 0 {
				r.Println(output.FormatKeyValue("Missing", strings.Join(drift.Missing, ", ")))
			}
			if len(drift.Extra) > 0 {
				r.Println(output.FormatKeyValue("Not Configured", strings.Join(drift.Extra, ", ")))
			}
			return nil
		},
	}
}
