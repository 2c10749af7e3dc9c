package table

import (
	"fmt"

	"github.com/leapstack-labs/sqlkit/pkg/types"
)

// Column describes a single table column.
type Column struct {
	Name          string
	Type          types.TypeSpec
	PrimaryKey    bool
	Nullable      bool
	Unique        bool
	AutoIncrement bool
	Default       any
	HasDefault    bool
}

// ColumnOption configures a Column.
type ColumnOption func(*Column)

// PrimaryKey marks the column as part of the primary key. Primary key
// columns are never nullable.
func PrimaryKey() ColumnOption {
	return func(c *Column) {
		c.PrimaryKey = true
		c.Nullable = false
	}
}

// NotNull marks the column NOT NULL.
func NotNull() ColumnOption {
	return func(c *Column) { c.Nullable = false }
}

// Nullable sets whether the column accepts NULL.
func Nullable(v bool) ColumnOption {
	return func(c *Column) { c.Nullable = v }
}

// Unique adds a UNIQUE constraint.
func Unique() ColumnOption {
	return func(c *Column) { c.Unique = true }
}

// AutoIncrement marks the column as generated by the database.
func AutoIncrement() ColumnOption {
	return func(c *Column) { c.AutoIncrement = true }
}

// Default sets the column default. Strings are rendered as literals except
// for the CURRENT_* keywords.
func Default(v any) ColumnOption {
	return func(c *Column) {
		c.Default = v
		c.HasDefault = true
	}
}

// NewColumn creates a column, resolving typ (a type string or
// types.TypeSpec). Columns are nullable unless an option says otherwise.
func NewColumn(name string, typ any, opts ...ColumnOption) (*Column, error) {
	if name == "" {
		return nil, fmt.Errorf("column name is required")
	}

	spec, err := types.Resolve(typ)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", name, err)
	}

	c := &Column{Name: name, Type: spec, Nullable: true}
	for _, opt := range opts {
		opt(c)
	}
	if c.PrimaryKey {
		c.Nullable = false
	}
	return c, nil
}

// MustColumn is like NewColumn but panics on error.
func MustColumn(name string, typ any, opts ...ColumnOption) *Column {
	c, err := NewColumn(name, typ, opts...)
	if err != nil {
		panic(err)
	}
	return c
}
