// Package sqlite provides a SQLite execution adapter built on the pure Go
// modernc.org/sqlite driver.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/sqlkit/pkg/adapters/sqlite"
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/sqlkit/pkg/adapter"
	sqlitedialect "github.com/leapstack-labs/sqlkit/pkg/dialects/sqlite"
)

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

func init() {
	adapter.Register("sqlite", func(logger *slog.Logger) adapter.Adapter { return New(logger) }, "sqlite3")
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter. If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// Dialect returns the SQL dialect for this adapter.
func (a *Adapter) Dialect() string {
	return sqlitedialect.Name
}

// Connect opens the database file at cfg.Path, or an in-memory database
// when the path is empty.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	if cfg.Path == "" {
		cfg.Path = Memory
	}

	a.Logger.Debug("opening sqlite database", slog.String("path", cfg.Path))

	db, err := sql.Open("sqlite", buildSQLiteDSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	if cfg.Path == Memory {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to open sqlite database %s: %w", cfg.Path, err)
	}

	a.Conn = db
	a.Cfg = cfg
	return nil
}

// buildSQLiteDSN appends connection pragmas and any options, in key order,
// to the database path.
func buildSQLiteDSN(cfg adapter.Config) string {
	params := []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)"}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		params = append(params, k+"="+cfg.Options[k])
	}

	return cfg.Path + "?" + strings.Join(params, "&")
}

// GetTableMetadata retrieves metadata for a table. The schema is an
// attached database name and defaults to main.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	if a.Conn == nil {
		return nil, adapter.ErrNotConnected
	}

	schema, name := adapter.ParseQualifiedName(table, "main")

	rows, err := a.Conn.QueryContext(ctx,
		`SELECT name, type, "notnull", cid FROM pragma_table_info(?, ?) ORDER BY cid`, name, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []adapter.Column
	for rows.Next() {
		var (
			col     adapter.Column
			notNull int
		)
		if err := rows.Scan(&col.Name, &col.Type, &notNull, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = notNull == 0
		col.Position++
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	return &adapter.Metadata{
		Schema:   schema,
		Name:     name,
		Columns:  columns,
		RowCount: a.CountRows(ctx, entsql.Table(name).Schema(schema), dialect.SQLite),
	}, nil
}
