package mysql

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// Options are the MySQL table options.
type Options struct {
	Engine    string `mapstructure:"engine"`
	Charset   string `mapstructure:"charset"`
	Collation string `mapstructure:"collation"`
}

// DefaultOptions returns InnoDB with utf8mb4.
func DefaultOptions() Options {
	return Options{
		Engine:    "InnoDB",
		Charset:   "utf8mb4",
		Collation: "utf8mb4_unicode_ci",
	}
}

// Table is a MySQL table.
type Table struct {
	*table.Table
	Options Options
}

// New wraps base, decoding its options over the defaults.
func New(base *table.Table) (table.Model, error) {
	opts := DefaultOptions()
	if err := table.DecodeOptions(base.Options, &opts); err != nil {
		return nil, err
	}
	return &Table{Table: base, Options: opts}, nil
}

// Create renders CREATE TABLE with ENGINE, CHARSET and COLLATE.
func (t *Table) Create(ifNotExists bool) table.Query {
	var opts []string
	if t.Options.Engine != "" {
		opts = append(opts, "ENGINE="+t.Options.Engine)
	}
	if t.Options.Charset != "" {
		opts = append(opts, "DEFAULT CHARSET="+t.Options.Charset)
	}
	if t.Options.Collation != "" {
		opts = append(opts, "COLLATE="+t.Options.Collation)
	}

	spec := table.CreateSpec{IfNotExists: ifNotExists}
	if len(opts) > 0 {
		spec.Trailer = []string{strings.Join(opts, " ")}
	}
	return t.CreateWith(spec)
}

// Replace renders REPLACE INTO ... SET.
func (t *Table) Replace(values map[string]any) table.Query {
	return t.setStatement("REPLACE INTO", values)
}

// InsertIgnore renders INSERT IGNORE INTO ... SET.
func (t *Table) InsertIgnore(values map[string]any) table.Query {
	return t.setStatement("INSERT IGNORE INTO", values)
}

func (t *Table) setStatement(verb string, values map[string]any) table.Query {
	set, err := t.Assignments(values)
	if err != nil {
		return table.Failed(err)
	}
	return table.Raw(fmt.Sprintf("%s %s SET %s", verb, t.QualifiedName(), set))
}

// ShowCreate renders SHOW CREATE TABLE.
func (t *Table) ShowCreate() table.Query {
	return table.Raw("SHOW CREATE TABLE " + t.QualifiedName())
}

// LoadDataOptions are the arguments of LoadDataInfile. Unset fields fall
// back to the load_data_infile configuration block.
type LoadDataOptions struct {
	FilePath           string   `mapstructure:"file_path,omitempty"`
	FieldsTerminatedBy string   `mapstructure:"fields_terminated_by,omitempty"`
	EnclosedBy         string   `mapstructure:"enclosed_by,omitempty"`
	LinesTerminatedBy  string   `mapstructure:"lines_terminated_by,omitempty"`
	IgnoreLines        int      `mapstructure:"ignore_lines,omitempty"`
	Local              *bool    `mapstructure:"local,omitempty"`
	Replace            *bool    `mapstructure:"replace,omitempty"`
	Ignore             *bool    `mapstructure:"ignore,omitempty"`
	Columns            []string `mapstructure:"columns,omitempty"`
}

// LoadDataInfile renders LOAD DATA INFILE. file_path is required, either
// as an argument or in configuration.
func (t *Table) LoadDataInfile(args LoadDataOptions, opts ...table.CallOption) (table.Query, error) {
	const method = "load_data_infile"

	var o LoadDataOptions
	if err := t.MergeOptions(method, args, &o, opts...); err != nil {
		return nil, err
	}
	if err := t.Require(method, "file_path", o.FilePath); err != nil {
		return nil, err
	}
	if o.Replace != nil && *o.Replace && o.Ignore != nil && *o.Ignore {
		return nil, fmt.Errorf("table %q method %q: replace and ignore are mutually exclusive", t.Name, method)
	}
	if err := t.CheckColumns(o.Columns...); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("LOAD DATA ")
	if isSet(o.Local) {
		b.WriteString("LOCAL ")
	}
	fmt.Fprintf(&b, "INFILE %s", t.QuoteString(o.FilePath))
	switch {
	case isSet(o.Replace):
		b.WriteString(" REPLACE")
	case isSet(o.Ignore):
		b.WriteString(" IGNORE")
	}
	fmt.Fprintf(&b, " INTO TABLE %s", t.QualifiedName())

	if o.FieldsTerminatedBy != "" || o.EnclosedBy != "" {
		b.WriteString(" FIELDS")
		if o.FieldsTerminatedBy != "" {
			fmt.Fprintf(&b, " TERMINATED BY %s", t.QuoteString(o.FieldsTerminatedBy))
		}
		if o.EnclosedBy != "" {
			fmt.Fprintf(&b, " ENCLOSED BY %s", t.QuoteString(o.EnclosedBy))
		}
	}
	if o.LinesTerminatedBy != "" {
		fmt.Fprintf(&b, " LINES TERMINATED BY %s", t.QuoteString(o.LinesTerminatedBy))
	}
	if o.IgnoreLines > 0 {
		fmt.Fprintf(&b, " IGNORE %d LINES", o.IgnoreLines)
	}
	if len(o.Columns) > 0 {
		fmt.Fprintf(&b, " (%s)", t.IdentList(o.Columns...))
	}
	return table.Raw(b.String()), nil
}

func isSet(b *bool) bool {
	return b != nil && *b
}
