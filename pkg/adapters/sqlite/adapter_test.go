package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlkit/internal/testutil"
	"github.com/leapstack-labs/sqlkit/pkg/adapter"
	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	sqlitedialect "github.com/leapstack-labs/sqlkit/pkg/dialects/sqlite"
	"github.com/leapstack-labs/sqlkit/pkg/table"
)

func connect(t *testing.T, cfg adapter.Config) *Adapter {
	t.Helper()
	a := New(testutil.NewTestLogger(t))
	require.NoError(t, a.Connect(context.Background(), cfg))
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func eventsTable(t *testing.T) *sqlitedialect.Table {
	t.Helper()
	cols := []*table.Column{
		table.MustColumn("id", "integer", table.PrimaryKey(), table.AutoIncrement()),
		table.MustColumn("kind", "varchar(32)", table.NotNull()),
		table.MustColumn("payload", "text"),
	}
	m, err := dialect.NewTable(sqlitedialect.Name, "events", cols)
	require.NoError(t, err)
	return m.(*sqlitedialect.Table)
}

func TestBuildSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		buildSQLiteDSN(adapter.Config{Path: Memory}))
	assert.Equal(t, "data.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate&mode=rwc",
		buildSQLiteDSN(adapter.Config{Path: "data.db", Options: map[string]string{"mode": "rwc", "_txlock": "immediate"}}))
}

func TestAdapter_RunStatements(t *testing.T) {
	ctx := context.Background()
	a := connect(t, adapter.Config{})
	events := eventsTable(t)

	res, err := adapter.Run(ctx, a, testutil.NewTestLogger(t),
		events.Create(true),
		events.Insert(map[string]any{"kind": "signup", "payload": `{"plan":"pro"}`}),
		events.Insert(map[string]any{"kind": "login", "payload": nil}),
		events.InsertOrReplace(map[string]any{"id": 1, "kind": "signup", "payload": "replaced"}),
	)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Statements)

	rows, err := a.Query(ctx, "SELECT kind, payload FROM events WHERE id = ?", 1)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	require.True(t, rows.Next())
	var kind, payload string
	require.NoError(t, rows.Scan(&kind, &payload))
	assert.Equal(t, "signup", kind)
	assert.Equal(t, "replaced", payload)
	require.NoError(t, rows.Err())
}

func TestAdapter_GetTableMetadata(t *testing.T) {
	ctx := context.Background()
	a := connect(t, adapter.Config{Path: filepath.Join(t.TempDir(), "meta.db")})
	events := eventsTable(t)

	_, err := adapter.Run(ctx, a, nil,
		events.Create(true),
		events.Insert(map[string]any{"kind": "a"}, map[string]any{"kind": "b"}),
	)
	require.NoError(t, err)

	meta, err := a.GetTableMetadata(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, "main", meta.Schema)
	assert.Equal(t, "events", meta.Name)
	assert.Equal(t, int64(2), meta.RowCount)
	require.Len(t, meta.Columns, 3)
	assert.Equal(t, adapter.Column{Name: "kind", Type: "varchar(32)", Nullable: false, Position: 2}, meta.Columns[1])
	assert.True(t, meta.Columns[2].Nullable)

	_, err = a.GetTableMetadata(ctx, "missing")
	assert.EqualError(t, err, "table missing not found")
}

func TestAdapter_ExecError(t *testing.T) {
	a := connect(t, adapter.Config{})
	err := a.Exec(context.Background(), "INSERT INTO nowhere VALUES (1)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute SQL")
}

func TestAdapter_Registry(t *testing.T) {
	a, err := adapter.NewAdapter(adapter.Config{Type: "sqlite"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", a.Dialect())

	_, err = a.GetTableMetadata(context.Background(), "events")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
}
