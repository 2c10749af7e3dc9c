package redshift

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// Options are the Redshift table options.
type Options struct {
	SortKeys  []string `mapstructure:"sort_keys"`
	DistKey   string   `mapstructure:"dist_key"`
	DistStyle string   `mapstructure:"dist_style"`
	TableType string   `mapstructure:"table_type"`
}

// DefaultOptions returns AUTO distribution for a permanent table.
func DefaultOptions() Options {
	return Options{DistStyle: "AUTO", TableType: "PERMANENT"}
}

// Table is a Redshift table.
type Table struct {
	*table.Table
	Options Options
}

// New wraps base, decoding and validating its options.
func New(base *table.Table) (table.Model, error) {
	opts := DefaultOptions()
	if err := table.DecodeOptions(base.Options, &opts); err != nil {
		return nil, err
	}
	opts.DistStyle = strings.ToUpper(opts.DistStyle)
	opts.TableType = strings.ToUpper(opts.TableType)

	switch opts.TableType {
	case "PERMANENT", "TEMP", "TEMPORARY":
	default:
		return nil, fmt.Errorf("invalid table_type %q (want PERMANENT or TEMP)", opts.TableType)
	}
	switch opts.DistStyle {
	case "AUTO", "EVEN", "KEY", "ALL":
	default:
		return nil, fmt.Errorf("invalid dist_style %q (want AUTO, EVEN, KEY or ALL)", opts.DistStyle)
	}
	if opts.DistKey != "" {
		if err := base.CheckColumns(opts.DistKey); err != nil {
			return nil, err
		}
		if opts.DistStyle == "AUTO" {
			opts.DistStyle = "KEY"
		}
	}
	if opts.DistStyle == "KEY" && opts.DistKey == "" {
		return nil, fmt.Errorf("dist_style KEY requires dist_key")
	}
	if err := base.CheckColumns(opts.SortKeys...); err != nil {
		return nil, err
	}
	return &Table{Table: base, Options: opts}, nil
}

// Create renders CREATE TABLE with the distribution and sort keys.
func (t *Table) Create(ifNotExists bool) table.Query {
	spec := table.CreateSpec{IfNotExists: ifNotExists}
	if t.Options.TableType != "PERMANENT" {
		spec.Modifier = "TEMP"
	}
	spec.Trailer = append(spec.Trailer, "DISTSTYLE "+t.Options.DistStyle)
	if t.Options.DistKey != "" {
		spec.Trailer = append(spec.Trailer, "DISTKEY ("+t.Ident(t.Options.DistKey)+")")
	}
	if len(t.Options.SortKeys) > 0 {
		spec.Trailer = append(spec.Trailer, "SORTKEY ("+t.IdentList(t.Options.SortKeys...)+")")
	}
	return t.CreateWith(spec)
}

// S3Options are the arguments of CopyFromS3 and UnloadToS3. Unset fields
// fall back to the copy_from_s3 / unload_to_s3 configuration blocks.
type S3Options struct {
	S3Path      string `mapstructure:"s3_path,omitempty"`
	Credentials string `mapstructure:"credentials,omitempty"`
	IAMRole     string `mapstructure:"iam_role,omitempty"`
	Region      string `mapstructure:"region,omitempty"`
	Format      string `mapstructure:"format,omitempty"`
	// Delimiter applies to CSV input only.
	Delimiter    string `mapstructure:"delimiter,omitempty"`
	IgnoreHeader int    `mapstructure:"ignore_header,omitempty"`
	DateFormat   string `mapstructure:"date_format,omitempty"`
	Header       *bool  `mapstructure:"header,omitempty"`
	// Query is only used by UnloadToS3; empty selects the whole table.
	Query string `mapstructure:"query,omitempty"`
	// Extra clauses appended verbatim, e.g. "TRUNCATECOLUMNS".
	Extra []string `mapstructure:"options,omitempty"`
}

func (t *Table) s3Options(method string, args S3Options, opts []table.CallOption) (S3Options, error) {
	var o S3Options
	if err := t.MergeOptions(method, args, &o, opts...); err != nil {
		return o, err
	}
	if err := t.Require(method, "s3_path", o.S3Path); err != nil {
		return o, err
	}
	if o.Credentials != "" && o.IAMRole != "" {
		return o, fmt.Errorf("table %q method %q: credentials and iam_role are mutually exclusive", t.Name, method)
	}
	if o.Format == "" {
		o.Format = "CSV"
	}
	o.Format = strings.ToUpper(o.Format)
	return o, nil
}

func (t *Table) auth(o S3Options) []string {
	switch {
	case o.Credentials != "":
		return []string{"CREDENTIALS " + t.QuoteString(o.Credentials)}
	case o.IAMRole != "":
		return []string{"IAM_ROLE " + t.QuoteString(o.IAMRole)}
	}
	return nil
}

// CopyFromS3 renders COPY ... FROM an S3 prefix. s3_path is required.
func (t *Table) CopyFromS3(args S3Options, opts ...table.CallOption) (table.Query, error) {
	o, err := t.s3Options("copy_from_s3", args, opts)
	if err != nil {
		return nil, err
	}

	clauses := t.auth(o)
	if o.Region != "" {
		clauses = append(clauses, "REGION "+t.QuoteString(o.Region))
	}
	clauses = append(clauses, "FORMAT "+o.Format)
	if o.Format == "CSV" {
		if o.Delimiter == "" {
			o.Delimiter = ","
		}
		clauses = append(clauses, "DELIMITER "+t.QuoteString(o.Delimiter))
	}
	if o.IgnoreHeader > 0 {
		clauses = append(clauses, fmt.Sprintf("IGNOREHEADER %d", o.IgnoreHeader))
	}
	if o.DateFormat != "" {
		clauses = append(clauses, "DATEFORMAT "+t.QuoteString(o.DateFormat))
	}
	clauses = append(clauses, o.Extra...)

	return table.Raw(fmt.Sprintf("COPY %s FROM %s %s",
		t.QualifiedName(), t.QuoteString(o.S3Path), strings.Join(clauses, " "))), nil
}

// UnloadToS3 renders UNLOAD (query) TO an S3 prefix. s3_path is required;
// the query defaults to every row of the table.
func (t *Table) UnloadToS3(args S3Options, opts ...table.CallOption) (table.Query, error) {
	o, err := t.s3Options("unload_to_s3", args, opts)
	if err != nil {
		return nil, err
	}

	query := o.Query
	if query == "" {
		query = "SELECT * FROM " + t.QualifiedName()
	}

	clauses := t.auth(o)
	if o.Region != "" {
		clauses = append(clauses, "REGION "+t.QuoteString(o.Region))
	}
	clauses = append(clauses, "FORMAT "+o.Format)
	if o.Header != nil && *o.Header {
		clauses = append(clauses, "HEADER")
	}
	clauses = append(clauses, o.Extra...)

	return table.Raw(fmt.Sprintf("UNLOAD (%s) TO %s %s",
		t.QuoteString(query), t.QuoteString(o.S3Path), strings.Join(clauses, " "))), nil
}

// AnalyzeCompression renders ANALYZE COMPRESSION.
func (t *Table) AnalyzeCompression() table.Query {
	return table.Raw("ANALYZE COMPRESSION " + t.QualifiedName())
}

// VacuumReindex renders VACUUM REINDEX.
func (t *Table) VacuumReindex() table.Query {
	return table.Raw("VACUUM REINDEX " + t.QualifiedName())
}

// DeepCopy renders CREATE TABLE newName AS SELECT * FROM the table.
func (t *Table) DeepCopy(newName string) table.Query {
	return t.CreateAsSelect(nil, newName)
}
