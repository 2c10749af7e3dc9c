// Package table provides the dialect-neutral table model and the SQL it
// renders: DDL through a small statement builder, and DML through the ent
// SQL builder.
//
// Dialect packages embed *Table and add their own options and statements.
package table

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/sqlkit/pkg/template"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

// Dialect describes how a table renders in one SQL dialect.
type Dialect interface {
	// Name is the registry name, e.g. "postgresql".
	Name() string
	// Builder is the ent builder dialect used for quoting and placeholders.
	Builder() string
	// FormatType renders a resolved type as a native column type.
	FormatType(types.TypeSpec) (string, error)
	// AutoIncrement is the column attribute for generated keys, or "".
	AutoIncrement() string
}

// Model is implemented by *Table and every dialect table embedding it.
type Model interface {
	Base() *Table
	Create(ifNotExists bool) Query
	Drop(ifExists bool) Query
	Truncate() Query
}

// Index is a secondary index declaration.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Table is a named set of columns bound to a dialect.
type Table struct {
	Name    string
	Schema  string
	Columns []*Column
	Indexes []Index
	Dialect Dialect

	// Options holds the raw dialect options block; dialect tables decode it.
	Options map[string]any
	// Methods holds per-method argument blocks that may contain placeholders.
	Methods map[string]map[string]any

	byName map[string]*Column
}

// Option configures a Table.
type Option func(*Table)

// WithSchema sets the table schema.
func WithSchema(schema string) Option {
	return func(t *Table) { t.Schema = schema }
}

// WithIndexes adds secondary indexes.
func WithIndexes(indexes ...Index) Option {
	return func(t *Table) { t.Indexes = append(t.Indexes, indexes...) }
}

// WithOptions sets the raw dialect options.
func WithOptions(opts map[string]any) Option {
	return func(t *Table) { t.Options = opts }
}

// WithMethods sets the dialect method configuration blocks.
func WithMethods(methods map[string]map[string]any) Option {
	return func(t *Table) { t.Methods = methods }
}

// New creates a table. A nil dialect selects Generic.
func New(name string, d Dialect, columns []*Column, opts ...Option) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("table name is required")
	}
	if d == nil {
		d = Generic
	}

	t := &Table{
		Name:    name,
		Dialect: d,
		Columns: columns,
		byName:  make(map[string]*Column, len(columns)),
	}
	for _, opt := range opts {
		opt(t)
	}

	for _, c := range columns {
		if c == nil {
			return nil, fmt.Errorf("table %q: nil column", name)
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, fmt.Errorf("table %q: duplicate column %q", name, c.Name)
		}
		t.byName[c.Name] = c
	}

	for _, idx := range t.Indexes {
		if len(idx.Columns) == 0 {
			return nil, fmt.Errorf("table %q: index %q has no columns", name, idx.Name)
		}
		for _, col := range idx.Columns {
			if _, ok := t.byName[col]; !ok {
				return nil, &UnknownColumnError{Table: name, Column: col, Available: t.ColumnNames()}
			}
		}
	}

	return t, nil
}

// Base returns t. Dialect tables inherit it through embedding.
func (t *Table) Base() *Table { return t }

// C returns the named column, or nil.
func (t *Table) C(name string) *Column {
	return t.byName[name]
}

// ColumnNames returns column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// PrimaryKey returns the primary key column names in declaration order.
func (t *Table) PrimaryKey() []string {
	var pk []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	return pk
}

// QualifiedName returns the quoted, schema-qualified table name.
func (t *Table) QualifiedName() string {
	return t.builder().table(t.Schema, t.Name).String()
}

// MethodNames returns the configured dialect method names, sorted.
func (t *Table) MethodNames() []string {
	names := make([]string, 0, len(t.Methods))
	for name := range t.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MethodConfig returns the expanded configuration block for method, or nil
// when the method has no configuration.
func (t *Table) MethodConfig(method string, vars template.Vars) (map[string]any, error) {
	raw, ok := t.Methods[method]
	if !ok {
		return nil, nil
	}
	cfg, err := template.ExpandTemplates(raw, vars)
	if err != nil {
		return nil, fmt.Errorf("table %q method %q: %w", t.Name, method, err)
	}
	return cfg, nil
}

// CheckColumns returns an *UnknownColumnError for the first name that is
// not a column of t.
func (t *Table) CheckColumns(names ...string) error {
	for _, n := range names {
		if _, ok := t.byName[n]; !ok {
			return &UnknownColumnError{Table: t.Name, Column: n, Available: t.ColumnNames()}
		}
	}
	return nil
}
