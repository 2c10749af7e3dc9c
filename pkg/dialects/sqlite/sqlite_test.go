package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	"github.com/leapstack-labs/sqlkit/pkg/table"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

func newEvents(t *testing.T) *Table {
	t.Helper()
	cols := []*table.Column{
		table.MustColumn("id", "integer", table.PrimaryKey(), table.AutoIncrement()),
		table.MustColumn("kind", "varchar(32)", table.NotNull()),
		table.MustColumn("payload", "text"),
		table.MustColumn("created_at", "datetime", table.Default("current_timestamp")),
	}
	m, err := dialect.NewTable("sqlite3", "events", cols)
	require.NoError(t, err)
	tbl, ok := m.(*Table)
	require.True(t, ok)
	return tbl
}

func TestFormatType(t *testing.T) {
	tests := map[string]string{
		"int":          "integer",
		"varchar(32)":  "varchar(32)",
		"str":          "varchar",
		"text":         "text",
		"text(100)":    "varchar(100)",
		"decimal(9,2)": "numeric(9,2)",
		"float":        "real",
		"bool":         "boolean",
		"timestamp":    "datetime",
	}
	for in, want := range tests {
		got, err := Dialect{}.FormatType(types.MustResolve(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestCreate(t *testing.T) {
	got, err := table.Render(newEvents(t).Create(true))
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS `events` (\n"+
		"  `id` integer PRIMARY KEY AUTOINCREMENT,\n"+
		"  `kind` varchar(32) NOT NULL,\n"+
		"  `payload` text,\n"+
		"  `created_at` datetime DEFAULT CURRENT_TIMESTAMP\n"+
		")", got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "DELETE FROM `events`", table.MustRender(newEvents(t).Truncate()))
}

func TestInsertOr(t *testing.T) {
	tbl := newEvents(t)

	assert.Equal(t, "INSERT OR REPLACE INTO `events` (`id`, `kind`) VALUES (7, 'click')",
		table.MustRender(tbl.InsertOrReplace(map[string]any{"kind": "click", "id": 7})))
	assert.Equal(t, "INSERT OR IGNORE INTO `events` (`kind`) VALUES ('it''s')",
		table.MustRender(tbl.InsertOrIgnore(map[string]any{"kind": "it's"})))

	_, err := table.Render(tbl.InsertOrIgnore(nil))
	assert.Error(t, err)
}

func TestAttachDetach(t *testing.T) {
	tbl := newEvents(t)

	assert.Equal(t, "ATTACH DATABASE '/tmp/archive.db' AS `archive`",
		table.MustRender(tbl.AttachDatabase("/tmp/archive.db", "archive")))
	assert.Equal(t, "DETACH DATABASE `archive`", table.MustRender(tbl.DetachDatabase("archive")))

	_, err := table.Render(tbl.AttachDatabase("/tmp/x.db", ""))
	assert.Error(t, err)
}

func TestPragma(t *testing.T) {
	tbl := newEvents(t)

	assert.Equal(t, "PRAGMA journal_mode = WAL", table.MustRender(tbl.Pragma("journal_mode", "WAL")))
	assert.Equal(t, "PRAGMA main.table_info", table.MustRender(tbl.Pragma("main.table_info", "")))

	_, err := table.Render(tbl.Pragma("x; DROP TABLE events", ""))
	assert.Error(t, err)
}
