package postgres

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// Upsert renders INSERT ... ON CONFLICT (conflictColumns) DO UPDATE.
func (t *Table) Upsert(conflictColumns []string, values map[string]any) table.Query {
	if len(conflictColumns) == 0 {
		conflictColumns = t.PrimaryKey()
	}
	if err := t.CheckColumns(conflictColumns...); err != nil {
		return table.Failed(err)
	}
	return t.Insert(values).OnConflictDoUpdate(conflictColumns...)
}

// CopyOptions are the arguments of CopyFromCSV and CopyToCSV. Unset fields
// fall back to the copy_from_csv / copy_to_csv configuration blocks.
type CopyOptions struct {
	FilePath  string   `mapstructure:"file_path,omitempty"`
	Format    string   `mapstructure:"format,omitempty"`
	Delimiter string   `mapstructure:"delimiter,omitempty"`
	Header    *bool    `mapstructure:"header,omitempty"`
	Null      string   `mapstructure:"null,omitempty"`
	Columns   []string `mapstructure:"columns,omitempty"`
	// Query is only used by CopyToCSV; empty selects the whole table.
	Query string `mapstructure:"query,omitempty"`
}

func (o *CopyOptions) defaults(header bool) {
	if o.Format == "" {
		o.Format = "CSV"
	}
	if o.Delimiter == "" && strings.EqualFold(o.Format, "CSV") {
		o.Delimiter = ","
	}
	if o.Header == nil {
		o.Header = &header
	}
}

func (t *Table) withClause(o CopyOptions) string {
	opts := []string{"FORMAT " + strings.ToLower(o.Format)}
	if *o.Header {
		opts = append(opts, "HEADER true")
	}
	if o.Delimiter != "" {
		opts = append(opts, "DELIMITER "+t.QuoteString(o.Delimiter))
	}
	if o.Null != "" {
		opts = append(opts, "NULL "+t.QuoteString(o.Null))
	}
	return "WITH (" + strings.Join(opts, ", ") + ")"
}

// CopyFromCSV renders COPY ... FROM a server-side file. file_path is
// required. CSV input is read with a header row unless header is false.
func (t *Table) CopyFromCSV(args CopyOptions, opts ...table.CallOption) (table.Query, error) {
	const method = "copy_from_csv"

	var o CopyOptions
	if err := t.MergeOptions(method, args, &o, opts...); err != nil {
		return nil, err
	}
	if err := t.Require(method, "file_path", o.FilePath); err != nil {
		return nil, err
	}
	if err := t.CheckColumns(o.Columns...); err != nil {
		return nil, err
	}
	o.defaults(true)

	target := t.QualifiedName()
	if len(o.Columns) > 0 {
		target += " (" + t.IdentList(o.Columns...) + ")"
	}
	return table.Raw(fmt.Sprintf("COPY %s FROM %s %s", target, t.QuoteString(o.FilePath), t.withClause(o))), nil
}

// CopyToCSV renders COPY (query) TO a server-side file. file_path is
// required; the query defaults to every row of the table.
func (t *Table) CopyToCSV(args CopyOptions, opts ...table.CallOption) (table.Query, error) {
	const method = "copy_to_csv"

	var o CopyOptions
	if err := t.MergeOptions(method, args, &o, opts...); err != nil {
		return nil, err
	}
	if err := t.Require(method, "file_path", o.FilePath); err != nil {
		return nil, err
	}
	o.defaults(false)

	query := o.Query
	if query == "" {
		query = "SELECT * FROM " + t.QualifiedName()
	}
	return table.Raw(fmt.Sprintf("COPY (%s) TO %s %s", query, t.QuoteString(o.FilePath), t.withClause(o))), nil
}

// Analyze renders ANALYZE.
func (t *Table) Analyze() table.Query {
	return table.Raw("ANALYZE " + t.QualifiedName())
}

// Vacuum renders VACUUM, optionally FULL.
func (t *Table) Vacuum(full bool) table.Query {
	if full {
		return table.Raw("VACUUM FULL " + t.QualifiedName())
	}
	return table.Raw("VACUUM " + t.QualifiedName())
}
