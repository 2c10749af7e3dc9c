// Package adapter executes rendered statements against a live database.
//
// This package contains the contract that every database adapter implements.
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves from init.
package adapter

import (
	"context"
	"database/sql"
)

// Config holds the connection settings of an execution target.
type Config struct {
	Type     string            `koanf:"type"`
	Path     string            `koanf:"path"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	Username string            `koanf:"username"`
	Password string            `koanf:"password"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`
}

// Column describes a column as reported by the database catalog.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Position int
}

// Metadata describes a table as reported by the database catalog.
type Metadata struct {
	Schema   string
	Name     string
	Columns  []Column
	RowCount int64
}

// Rows wraps sql.Rows.
type Rows struct {
	*sql.Rows
}

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a statement that doesn't return rows.
	Exec(ctx context.Context, sql string, args ...any) error

	// Query executes a statement that returns rows.
	Query(ctx context.Context, sql string, args ...any) (*Rows, error)

	// GetTableMetadata retrieves catalog metadata for a table, optionally
	// qualified as schema.table.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// DB returns the underlying handle, or nil before Connect.
	DB() *sql.DB

	// Dialect returns the name of the SQL dialect statements for this
	// adapter must be rendered in, e.g. "postgresql".
	Dialect() string
}
