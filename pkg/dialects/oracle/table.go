package oracle

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// Options are the Oracle table options.
type Options struct {
	Tablespace   string `mapstructure:"tablespace"`
	Organization string `mapstructure:"organization"`
	Compress     bool   `mapstructure:"compress"`
	Parallel     int    `mapstructure:"parallel"`
}

// DefaultOptions returns a heap-organized table.
func DefaultOptions() Options {
	return Options{Organization: "HEAP"}
}

// Table is an Oracle table.
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
	opts.Organization = strings.ToUpper(opts.Organization)
	switch opts.Organization {
	case "HEAP":
	case "INDEX":
		if len(base.PrimaryKey()) == 0 {
			return nil, fmt.Errorf("index-organized tables require a primary key")
		}
	default:
		return nil, fmt.Errorf("invalid organization %q (want HEAP or INDEX)", opts.Organization)
	}
	if opts.Parallel < 0 {
		return nil, fmt.Errorf("invalid parallel degree %d", opts.Parallel)
	}
	return &Table{Table: base, Options: opts}, nil
}

// Create renders CREATE TABLE with the physical properties. IF NOT EXISTS
// is not emitted; releases before 23ai reject it.
func (t *Table) Create(bool) table.Query {
	props := []string{"ORGANIZATION " + t.Options.Organization}
	if t.Options.Tablespace != "" {
		props = append(props, "TABLESPACE "+t.Options.Tablespace)
	}
	if t.Options.Compress {
		props = append(props, "COMPRESS")
	}
	if t.Options.Parallel > 0 {
		props = append(props, fmt.Sprintf("PARALLEL %d", t.Options.Parallel))
	}
	return t.CreateWith(table.CreateSpec{Trailer: []string{strings.Join(props, " ")}})
}

// Merge renders a MERGE that upserts the rows of sourceQuery, matching on
// the given columns (the primary key when empty). Matched rows update every
// other column; unmatched rows are inserted with every column.
func (t *Table) Merge(sourceQuery string, on []string) table.Query {
	if strings.TrimSpace(sourceQuery) == "" {
		return table.Failed(fmt.Errorf("table %q: merge requires a source query", t.Name))
	}
	if len(on) == 0 {
		on = t.PrimaryKey()
	}
	if len(on) == 0 {
		return table.Failed(fmt.Errorf("table %q: merge requires match columns or a primary key", t.Name))
	}
	if err := t.CheckColumns(on...); err != nil {
		return table.Failed(err)
	}

	ref := func(alias, col string) string { return alias + "." + t.Ident(col) }

	conds := make([]string, len(on))
	for i, c := range on {
		conds[i] = ref("target", c) + " = " + ref("source", c)
	}

	var sets []string
	cols := t.ColumnNames()
	vals := make([]string, len(cols))
	for i, c := range cols {
		vals[i] = ref("source", c)
		if !slices.Contains(on, c) {
			sets = append(sets, ref("target", c)+" = "+ref("source", c))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MERGE INTO %s target\nUSING (%s) source\nON (%s)", t.QualifiedName(), sourceQuery, strings.Join(conds, " AND "))
	if len(sets) > 0 {
		fmt.Fprintf(&b, "\nWHEN MATCHED THEN UPDATE SET %s", strings.Join(sets, ", "))
	}
	fmt.Fprintf(&b, "\nWHEN NOT MATCHED THEN INSERT (%s) VALUES (%s)", t.IdentList(cols...), strings.Join(vals, ", "))
	return table.Raw(b.String())
}

// Truncate renders TRUNCATE TABLE ... REUSE STORAGE.
func (t *Table) Truncate() table.Query {
	return t.TruncateStorage(true)
}

// TruncateStorage renders TRUNCATE TABLE with REUSE STORAGE or DROP STORAGE.
func (t *Table) TruncateStorage(reuse bool) table.Query {
	clause := "DROP STORAGE"
	if reuse {
		clause = "REUSE STORAGE"
	}
	return table.Raw(fmt.Sprintf("TRUNCATE TABLE %s %s", t.QualifiedName(), clause))
}

// AnalyzeOptions are the arguments of AnalyzeTable.
type AnalyzeOptions struct {
	// EstimatePercent samples the table when set; otherwise statistics
	// are computed exactly.
	EstimatePercent int
	// Method defaults to FOR ALL COLUMNS.
	Method string
}

// AnalyzeTable renders ANALYZE TABLE ... STATISTICS.
func (t *Table) AnalyzeTable(o AnalyzeOptions) table.Query {
	if o.EstimatePercent < 0 || o.EstimatePercent > 100 {
		return table.Failed(fmt.Errorf("estimate percent %d out of range", o.EstimatePercent))
	}
	if o.Method == "" {
		o.Method = "FOR ALL COLUMNS"
	}
	stats := "COMPUTE STATISTICS"
	if o.EstimatePercent > 0 {
		stats = fmt.Sprintf("ESTIMATE STATISTICS SAMPLE %d PERCENT", o.EstimatePercent)
	}
	return table.Raw(fmt.Sprintf("ANALYZE TABLE %s %s %s", t.QualifiedName(), stats, o.Method))
}

// IndexOptions are the storage options of CreateIndex.
type IndexOptions struct {
	Unique     bool
	Tablespace string
	Compress   bool
	Parallel   int
}

// CreateIndex renders CREATE INDEX with Oracle storage options. An empty
// name is derived from the table and columns.
func (t *Table) CreateIndex(name string, columns []string, o IndexOptions) table.Query {
	if len(columns) == 0 {
		return table.Failed(fmt.Errorf("table %q: index without columns", t.Name))
	}
	if err := t.CheckColumns(columns...); err != nil {
		return table.Failed(err)
	}
	name = t.IndexName(table.Index{Name: name, Columns: columns})

	var b strings.Builder
	b.WriteString("CREATE ")
	if o.Unique {
		b.WriteString("UNIQUE ")
	}
	fmt.Fprintf(&b, "INDEX %s ON %s (%s)", t.Ident(name), t.QualifiedName(), t.IdentList(columns...))
	if o.Tablespace != "" {
		b.WriteString(" TABLESPACE " + o.Tablespace)
	}
	if o.Compress {
		b.WriteString(" COMPRESS")
	}
	if o.Parallel > 0 {
		fmt.Fprintf(&b, " PARALLEL %d", o.Parallel)
	}
	return table.Raw(b.String())
}

// CreateSequence renders CREATE SEQUENCE. Zero values start at 1 and
// increment by 1.
func (t *Table) CreateSequence(name string, startWith, incrementBy int) table.Query {
	if name == "" {
		name = t.Name + "_seq"
	}
	if startWith == 0 {
		startWith = 1
	}
	if incrementBy == 0 {
		incrementBy = 1
	}
	seq := t.Ident(name)
	if t.Schema != "" {
		seq = t.Ident(t.Schema) + "." + seq
	}
	return table.Raw(fmt.Sprintf("CREATE SEQUENCE %s START WITH %d INCREMENT BY %d", seq, startWith, incrementBy))
}
