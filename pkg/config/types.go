// Package config loads and validates table definitions from YAML.
//
// A configuration file declares tables, their columns and indexes, dialect
// options, and per-method argument blocks (dialect_methods) whose string
// values may contain {{ variable }} placeholders expanded at call time.
package config

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/sqlkit/pkg/table"
	"github.com/leapstack-labs/sqlkit/pkg/template"
)

// Config is the root of a table configuration file.
type Config struct {
	Metadata Metadata                `koanf:"metadata"`
	Tables   map[string]*TableConfig `koanf:"tables"`

	// path is the file the configuration was loaded from, if any.
	path string
}

// Metadata holds defaults applied to every table.
type Metadata struct {
	DefaultDialect string `koanf:"default_dialect"`
	DefaultSchema  string `koanf:"default_schema"`
}

// TableConfig declares one table.
type TableConfig struct {
	Dialect        string                    `koanf:"dialect"`
	SchemaName     string                    `koanf:"schema_name"`
	Columns        []ColumnConfig            `koanf:"columns"`
	Indexes        []IndexConfig             `koanf:"indexes"`
	Options        map[string]any            `koanf:"options"`
	DialectMethods map[string]map[string]any `koanf:"dialect_methods"`
}

// ColumnConfig declares one column. Length, precision and scale are folded
// into the type string.
type ColumnConfig struct {
	Name          string `koanf:"name"`
	Type          string `koanf:"type"`
	Length        *int   `koanf:"length"`
	Precision     *int   `koanf:"precision"`
	Scale         *int   `koanf:"scale"`
	PrimaryKey    bool   `koanf:"primary_key"`
	Nullable      *bool  `koanf:"nullable"`
	Unique        bool   `koanf:"unique"`
	AutoIncrement bool   `koanf:"auto_increment"`
	Default       any    `koanf:"default"`
}

// IndexConfig declares a secondary index.
type IndexConfig struct {
	Name    string   `koanf:"name"`
	Columns []string `koanf:"columns"`
	Unique  bool     `koanf:"unique"`
}

// Path returns the file the configuration was loaded from, or "".
func (c *Config) Path() string { return c.path }

// TableNames returns the configured table names, sorted.
func (c *Config) TableNames() []string {
	names := make([]string, 0, len(c.Tables))
	for name := range c.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyDefaults fills each table's dialect and schema from the metadata
// when the table leaves them empty.
func (c *Config) ApplyDefaults() {
	for _, tc := range c.Tables {
		if tc == nil {
			continue
		}
		if tc.Dialect == "" {
			tc.Dialect = c.Metadata.DefaultDialect
		}
		if tc.SchemaName == "" {
			tc.SchemaName = c.Metadata.DefaultSchema
		}
	}
}

// TableConfig returns the configuration of the named table.
func (c *Config) TableConfig(name string) (*TableConfig, error) {
	tc, ok := c.Tables[name]
	if !ok || tc == nil {
		return nil, &UnknownTableError{Name: name, Available: c.TableNames()}
	}
	if tc.Dialect == "" {
		return nil, fmt.Errorf("table %q: %w", name, ErrNoDialect)
	}
	return tc, nil
}

// MethodConfig returns the expanded configuration block of a dialect
// method. ok is false when the table does not configure the method.
func (c *Config) MethodConfig(tableName, method string, vars template.Vars) (cfg map[string]any, ok bool, err error) {
	tc, err := c.TableConfig(tableName)
	if err != nil {
		return nil, false, err
	}
	raw, ok := tc.DialectMethods[method]
	if !ok {
		return nil, false, nil
	}
	cfg, err = template.ExpandTemplates(raw, vars)
	if err != nil {
		return nil, true, fmt.Errorf("table %q method %q: %w", tableName, method, err)
	}
	return cfg, true, nil
}

// TypeString returns the column type with length, or precision and scale,
// appended. Length wins when both are set.
func (cc ColumnConfig) TypeString() string {
	switch {
	case cc.Length != nil:
		return fmt.Sprintf("%s(%d)", cc.Type, *cc.Length)
	case cc.Precision != nil && cc.Scale != nil:
		return fmt.Sprintf("%s(%d,%d)", cc.Type, *cc.Precision, *cc.Scale)
	case cc.Precision != nil:
		return fmt.Sprintf("%s(%d)", cc.Type, *cc.Precision)
	default:
		return cc.Type
	}
}

// Column builds the table column. Columns are nullable unless nullable is
// false or the column is part of the primary key.
func (cc ColumnConfig) Column() (*table.Column, error) {
	var opts []table.ColumnOption
	if cc.Nullable != nil {
		opts = append(opts, table.Nullable(*cc.Nullable))
	}
	if cc.PrimaryKey {
		opts = append(opts, table.PrimaryKey())
	}
	if cc.Unique {
		opts = append(opts, table.Unique())
	}
	if cc.AutoIncrement {
		opts = append(opts, table.AutoIncrement())
	}
	if cc.Default != nil {
		opts = append(opts, table.Default(cc.Default))
	}

	typ := cc.TypeString()
	c, err := table.NewColumn(cc.Name, typ, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid column type specification %q: %w", typ, err)
	}
	return c, nil
}

// TableOptions returns the table.Options that carry the schema, indexes,
// dialect options and method blocks of tc.
func (tc *TableConfig) TableOptions() []table.Option {
	opts := []table.Option{
		table.WithSchema(tc.SchemaName),
		table.WithOptions(tc.Options),
		table.WithMethods(tc.DialectMethods),
	}
	for _, idx := range tc.Indexes {
		opts = append(opts, table.WithIndexes(table.Index{Name: idx.Name, Columns: idx.Columns, Unique: idx.Unique}))
	}
	return opts
}

// BuildColumns builds every column of tc.
func (tc *TableConfig) BuildColumns() ([]*table.Column, error) {
	cols := make([]*table.Column, 0, len(tc.Columns))
	for _, cc := range tc.Columns {
		c, err := cc.Column()
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}
