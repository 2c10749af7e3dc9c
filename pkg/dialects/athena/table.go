package athena

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// Options are the Athena table options.
type Options struct {
	Location     string   `mapstructure:"location"`
	StoredAs     string   `mapstructure:"stored_as"`
	PartitionBy  []string `mapstructure:"partition_by"`
	TableType    string   `mapstructure:"table_type"`
	Serde        string   `mapstructure:"serde"`
	InputFormat  string   `mapstructure:"input_format"`
	OutputFormat string   `mapstructure:"output_format"`
	// TableProperties render as TBLPROPERTIES in key order.
	TableProperties map[string]string `mapstructure:"table_properties"`
}

// DefaultOptions returns an external Parquet table.
func DefaultOptions() Options {
	return Options{StoredAs: "PARQUET", TableType: "EXTERNAL"}
}

// Table is an Athena table.
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
	opts.TableType = strings.ToUpper(opts.TableType)
	if opts.TableType != "EXTERNAL" && opts.TableType != "MANAGED" {
		return nil, fmt.Errorf("invalid table_type %q (want EXTERNAL or MANAGED)", opts.TableType)
	}
	if err := base.CheckColumns(opts.PartitionBy...); err != nil {
		return nil, err
	}
	if len(base.Indexes) > 0 {
		return nil, fmt.Errorf("athena tables do not support indexes")
	}
	if (opts.InputFormat == "") != (opts.OutputFormat == "") {
		return nil, fmt.Errorf("input_format and output_format must be set together")
	}
	return &Table{Table: base, Options: opts}, nil
}

// Create renders CREATE [EXTERNAL] TABLE. Partition columns move from the
// column list to PARTITIONED BY; Hive DDL has no key or null constraints.
func (t *Table) Create(ifNotExists bool) table.Query {
	o := t.Options
	if o.TableType == "EXTERNAL" && o.Location == "" {
		return table.Failed(fmt.Errorf("table %q: external tables require a location", t.Name))
	}

	spec := table.CreateSpec{IfNotExists: ifNotExists, NoConstraints: true, Columns: []*table.Column{}}
	if o.TableType == "EXTERNAL" {
		spec.Modifier = "EXTERNAL"
	}

	var parts []string
	for _, c := range t.Columns {
		if !slices.Contains(o.PartitionBy, c.Name) {
			spec.Columns = append(spec.Columns, c)
		}
	}
	for _, name := range o.PartitionBy {
		typ, err := t.Dialect.FormatType(t.C(name).Type)
		if err != nil {
			return table.Failed(err)
		}
		parts = append(parts, t.Ident(name)+" "+typ)
	}

	if len(parts) > 0 {
		spec.Trailer = append(spec.Trailer, "PARTITIONED BY ("+strings.Join(parts, ", ")+")")
	}
	if o.Serde != "" {
		spec.Trailer = append(spec.Trailer, "ROW FORMAT SERDE "+t.QuoteString(o.Serde))
	}
	switch {
	case o.InputFormat != "":
		spec.Trailer = append(spec.Trailer, fmt.Sprintf("STORED AS INPUTFORMAT %s OUTPUTFORMAT %s",
			t.QuoteString(o.InputFormat), t.QuoteString(o.OutputFormat)))
	case o.StoredAs != "":
		spec.Trailer = append(spec.Trailer, "STORED AS "+strings.ToUpper(o.StoredAs))
	}
	if o.Location != "" {
		spec.Trailer = append(spec.Trailer, "LOCATION "+t.QuoteString(o.Location))
	}
	if len(o.TableProperties) > 0 {
		keys := make([]string, 0, len(o.TableProperties))
		for k := range o.TableProperties {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		props := make([]string, len(keys))
		for i, k := range keys {
			props[i] = t.QuoteString(k) + "=" + t.QuoteString(o.TableProperties[k])
		}
		spec.Trailer = append(spec.Trailer, "TBLPROPERTIES ("+strings.Join(props, ", ")+")")
	}
	return t.CreateWith(spec)
}

// CTASOptions are the arguments of CreateAsSelect. Unset fields fall back
// to the create_as_select configuration block.
type CTASOptions struct {
	TableName   string   `mapstructure:"table_name,omitempty"`
	Query       string   `mapstructure:"query,omitempty"`
	Location    string   `mapstructure:"location,omitempty"`
	Format      string   `mapstructure:"format,omitempty"`
	Compression string   `mapstructure:"compression,omitempty"`
	PartitionBy []string `mapstructure:"partition_by,omitempty"`
}

// CreateAsSelect renders an Athena CTAS statement. The new table defaults
// to the copy name in the same database and the query to every row of t.
func (t *Table) CreateAsSelect(args CTASOptions, opts ...table.CallOption) (table.Query, error) {
	const method = "create_as_select"

	var o CTASOptions
	if err := t.MergeOptions(method, args, &o, opts...); err != nil {
		return nil, err
	}
	if o.TableName == "" {
		o.TableName = t.CopyName()
	}
	if o.Query == "" {
		o.Query = "SELECT * FROM " + t.QualifiedName()
	}
	if o.Format == "" {
		o.Format = "PARQUET"
	}

	var props []string
	if o.Location != "" {
		props = append(props, "external_location = "+t.QuoteString(o.Location))
	}
	props = append(props, "format = "+t.QuoteString(strings.ToUpper(o.Format)))
	if o.Compression != "" {
		props = append(props, "write_compression = "+t.QuoteString(strings.ToUpper(o.Compression)))
	}
	if len(o.PartitionBy) > 0 {
		cols := make([]string, len(o.PartitionBy))
		for i, c := range o.PartitionBy {
			cols[i] = t.QuoteString(c)
		}
		props = append(props, "partitioned_by = ARRAY["+strings.Join(cols, ", ")+"]")
	}

	target := t.Ident(o.TableName)
	if t.Schema != "" {
		target = t.Ident(t.Schema) + "." + target
	}
	return table.Raw(fmt.Sprintf("CREATE TABLE %s WITH (%s) AS %s", target, strings.Join(props, ", "), o.Query)), nil
}

// Partition maps partition columns to their values.
type Partition map[string]any

// partitionSpec renders "col = value, ..." in partition_by order, followed
// by any other keys in sorted order.
func (t *Table) partitionSpec(p Partition) (string, error) {
	if len(p) == 0 {
		return "", fmt.Errorf("table %q: empty partition spec", t.Name)
	}
	keys := make([]string, 0, len(p))
	for _, name := range t.Options.PartitionBy {
		if _, ok := p[name]; ok {
			keys = append(keys, name)
		}
	}
	var rest []string
	for k := range p {
		if !slices.Contains(keys, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	keys = append(keys, rest...)

	if err := t.CheckColumns(keys...); err != nil {
		return "", err
	}
	if len(t.Options.PartitionBy) > 0 && len(rest) > 0 {
		return "", fmt.Errorf("table %q: %q is not a partition column", t.Name, rest[0])
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = t.Ident(k) + " = " + t.Literal(p[k])
	}
	return strings.Join(parts, ", "), nil
}

// AddPartition renders ALTER TABLE ... ADD PARTITION, with an optional
// LOCATION.
func (t *Table) AddPartition(p Partition, location string) table.Query {
	spec, err := t.partitionSpec(p)
	if err != nil {
		return table.Failed(err)
	}
	q := fmt.Sprintf("ALTER TABLE %s ADD PARTITION (%s)", t.QualifiedName(), spec)
	if location != "" {
		q += " LOCATION " + t.QuoteString(location)
	}
	return table.Raw(q)
}

// DropPartition renders ALTER TABLE ... DROP PARTITION.
func (t *Table) DropPartition(p Partition) table.Query {
	spec, err := t.partitionSpec(p)
	if err != nil {
		return table.Failed(err)
	}
	return table.Raw(fmt.Sprintf("ALTER TABLE %s DROP PARTITION (%s)", t.QualifiedName(), spec))
}

// RepairOptions are the arguments of MsckRepair.
type RepairOptions struct {
	// Database overrides the table schema as the qualifier.
	Database string `mapstructure:"database,omitempty"`
}

// MsckRepair renders MSCK REPAIR TABLE, reading the msck_repair
// configuration block.
func (t *Table) MsckRepair(args RepairOptions, opts ...table.CallOption) (table.Query, error) {
	var o RepairOptions
	if err := t.MergeOptions("msck_repair", args, &o, opts...); err != nil {
		return nil, err
	}
	target := t.QualifiedName()
	if o.Database != "" {
		target = t.Ident(o.Database) + "." + t.Ident(t.Name)
	}
	return table.Raw("MSCK REPAIR TABLE " + target), nil
}

// ShowPartitions renders SHOW PARTITIONS.
func (t *Table) ShowPartitions() table.Query {
	return table.Raw("SHOW PARTITIONS " + t.QualifiedName())
}
