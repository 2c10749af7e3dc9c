package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

// ErrNotConnected is returned by adapters used before Connect.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query and DB implementations.
type BaseSQLAdapter struct {
	Conn   *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// DB returns the underlying connection pool.
func (b *BaseSQLAdapter) DB() *sql.DB {
	return b.Conn
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.Conn == nil {
		return nil
	}
	if b.Logger != nil {
		b.Logger.Debug("closing database connection")
	}
	err := b.Conn.Close()
	b.Conn = nil
	return err
}

// Exec executes a statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string, args ...any) error {
	if b.Conn == nil {
		return ErrNotConnected
	}
	if _, err := b.Conn.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string, args ...any) (*Rows, error) {
	if b.Conn == nil {
		return nil, ErrNotConnected
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.Conn.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &Rows{Rows: rows}, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.Conn != nil
}

// ParseQualifiedName splits a table reference into schema and name, using
// defaultSchema when the reference is unqualified.
func ParseQualifiedName(table, defaultSchema string) (schema, name string) {
	if s, n, ok := strings.Cut(table, "."); ok {
		return s, n
	}
	return defaultSchema, table
}

// GetTableMetadataCommon reads column metadata from information_schema.
// builder is the ent dialect used for quoting and placeholders.
func (b *BaseSQLAdapter) GetTableMetadataCommon(ctx context.Context, table, defaultSchema, builder string) (*Metadata, error) {
	if b.Conn == nil {
		return nil, ErrNotConnected
	}

	schema, tableName := ParseQualifiedName(table, defaultSchema)

	query, args := entsql.Dialect(builder).
		Select("column_name", "data_type", "is_nullable", "ordinal_position").
		From(entsql.Table("columns").Schema("information_schema")).
		Where(entsql.And(
			entsql.EQ("table_schema", schema),
			entsql.EQ("table_name", tableName),
		)).
		OrderBy("ordinal_position").
		Query()

	rows, err := b.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var col Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	return &Metadata{
		Schema:   schema,
		Name:     tableName,
		Columns:  columns,
		RowCount: b.CountRows(ctx, entsql.Table(tableName).Schema(schema), builder),
	}, nil
}

// CountRows returns the number of rows in t, or 0 if counting fails.
func (b *BaseSQLAdapter) CountRows(ctx context.Context, t *entsql.SelectTable, builder string) int64 {
	query, args := entsql.Dialect(builder).Select(entsql.Count("*")).From(t).Query()
	var n int64
	if err := b.Conn.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0
	}
	return n
}
