package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/sqlkit/internal/cli/output"
	"github.com/leapstack-labs/sqlkit/pkg/table"
)

type columnDescription struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Native   string `json:"native_type"`
	Nullable bool   `json:"nullable"`
	Default  string `json:"default,omitempty"`
	Key      string `json:"key,omitempty"`
}

type tableDescription struct {
	Name       string              `json:"name"`
	Qualified  string              `json:"qualified_name"`
	Dialect    string              `json:"dialect"`
	Columns    []columnDescription `json:"columns"`
	Indexes    []table.Index       `json:"indexes,omitempty"`
	Options    map[string]any      `json:"options,omitempty"`
	Methods    []string            `json:"methods,omitempty"`
	Statements []string            `json:"statements"`
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <table>",
		Short: "Show a table's columns, options and statements",
		Long: `Describe a configured table: its columns with the native column types of
its dialect, indexes, dialect options, configured methods and the statements
that render and exec accept for it.`,
		Example: `  sqlkit describe users
  sqlkit describe events -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runDescribe(cmdCtx, args[0])
		},
	}
}

// displayName is the unquoted schema.name of t.
func displayName(t *table.Table) string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

func describeTable(m table.Model) (*tableDescription, error) {
	base := m.Base()
	desc := &tableDescription{
		Name:      base.Name,
		Qualified: displayName(base),
		Dialect:   base.Dialect.Name(),
		Indexes:   base.Indexes,
		Options:   base.Options,
		Methods:   base.MethodNames(),
	}

	for _, c := range base.Columns {
		native, err := base.Dialect.FormatType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		cd := columnDescription{
			Name:     c.Name,
			Type:     c.Type.String(),
			Native:   native,
			Nullable: c.Nullable,
		}
		if c.HasDefault {
			cd.Default = fmt.Sprint(c.Default)
		}
		switch {
		case c.PrimaryKey:
			cd.Key = "primary"
		case c.Unique:
			cd.Key = "unique"
		}
		desc.Columns = append(desc.Columns, cd)
	}

	for _, s := range StatementsFor(m) {
		desc.Statements = append(desc.Statements, s.Name)
	}
	return desc, nil
}

func runDescribe(cmdCtx *CommandContext, name string) error {
	m, err := cmdCtx.Registry.Table(name)
	if err != nil {
		return err
	}
	desc, err := describeTable(m)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(desc)
	}

	r.Header(1, fmt.Sprintf("%s (%s)", desc.Qualified, desc.Dialect))

	rows := make([][]string, len(desc.Columns))
	for i, c := range desc.Columns {
		nullable := "NO"
		if c.Nullable {
			nullable = "YES"
		}
		rows[i] = []string{c.Name, c.Native, nullable, c.Default, c.Key}
	}
	r.Table([]string{"Column", "Type", "Nullable", "Default", "Key"}, rows)

	if len(desc.Indexes) > 0 {
		r.Header(2, "Indexes")
		idxRows := make([][]string, len(desc.Indexes))
		for i, idx := range desc.Indexes {
			idxRows[i] = []string{m.Base().IndexName(idx), strings.Join(idx.Columns, ", "), fmt.Sprint(idx.Unique)}
		}
		r.Table([]string{"Name", "Columns", "Unique"}, idxRows)
	}

	if len(desc.Options) > 0 {
		r.Header(2, "Options")
		titleCaser := cases.Title(language.English)
		keys := make([]string, 0, len(desc.Options))
		for k := range desc.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			label := titleCaser.String(strings.ReplaceAll(k, "_", " "))
			r.Println(output.FormatKeyValue(label, fmt.Sprint(desc.Options[k])))
		}
		r.Println("")
	}

	if len(desc.Methods) > 0 {
		r.Println(output.FormatKeyValue("Configured Methods", strings.Join(desc.Methods, ", ")))
	}
	r.Println(output.FormatKeyValue("Statements", strings.Join(desc.Statements, ", ")))
	return nil
}
