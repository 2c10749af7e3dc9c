package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	"github.com/leapstack-labs/sqlkit/pkg/table"
	"github.com/leapstack-labs/sqlkit/pkg/template"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

func newOrders(t *testing.T, opts ...table.Option) *Table {
	t.Helper()
	cols := []*table.Column{
		table.MustColumn("id", "bigint", table.PrimaryKey()),
		table.MustColumn("customer", "varchar(100)", table.NotNull()),
		table.MustColumn("amount", "numeric(18,5)"),
		table.MustColumn("paid", "bool", table.Default(false)),
	}
	m, err := dialect.NewTable("postgres", "orders", cols, opts...)
	require.NoError(t, err)
	tbl, ok := m.(*Table)
	require.True(t, ok)
	return tbl
}

func TestRegistered(t *testing.T) {
	d, ok := dialect.Get("PostgreSQL")
	require.True(t, ok)
	assert.Equal(t, Name, d.Name())
	assert.True(t, dialect.IsRegistered("pg"))
}

func TestFormatType(t *testing.T) {
	format := func(s string) string {
		out, err := Dialect{}.FormatType(types.MustResolve(s))
		require.NoError(t, err, s)
		return out
	}

	assert.Equal(t, "integer", format("int"))
	assert.Regexp(t, `^(varchar|character varying)\(255\)$`, format("varchar(255)"))
	assert.Equal(t, "text", format("text"))
	assert.Regexp(t, `^(varchar|character varying)\(100\)$`, format("text(100)"))
	assert.Equal(t, "numeric(18,5)", format("numeric(18,5)"))
	assert.Equal(t, "boolean", format("bool"))
	assert.Contains(t, format("timestamp"), "timestamp")
	assert.Equal(t, "date", format("date"))
	assert.Contains(t, format("double"), "double")
}

func TestCreate(t *testing.T) {
	tbl := newOrders(t, table.WithSchema("sales"))

	got, err := table.Render(tbl.Create(true))
	require.NoError(t, err)
	assert.Contains(t, got, `CREATE TABLE IF NOT EXISTS "sales"."orders"`)
	assert.Contains(t, got, `"paid" boolean DEFAULT FALSE`)
	assert.Contains(t, got, `PRIMARY KEY ("id")`)
}

func TestUpsert(t *testing.T) {
	tbl := newOrders(t)

	text, args, err := tbl.Upsert([]string{"id"}, map[string]any{"id": 1, "customer": "acme"}).SQL()
	require.NoError(t, err)
	assert.Contains(t, text, `INSERT INTO "orders" ("customer", "id") VALUES ($1, $2)`)
	assert.Contains(t, text, `ON CONFLICT ("id") DO UPDATE SET`)
	assert.Equal(t, []any{"acme", 1}, args)

	text, _, err = tbl.Upsert(nil, map[string]any{"id": 1}).SQL()
	require.NoError(t, err)
	assert.Contains(t, text, `ON CONFLICT ("id")`)

	_, _, err = tbl.Upsert([]string{"bogus"}, map[string]any{"id": 1}).SQL()
	assert.Error(t, err)
}

func TestCopyFromCSV(t *testing.T) {
	tbl := newOrders(t, table.WithMethods(map[string]map[string]any{
		"copy_from_csv": {"file_path": "/imports/{{ day }}/orders.csv"},
	}))

	q, err := tbl.CopyFromCSV(CopyOptions{}, table.WithVars(template.Vars{"day": "2024-05-01"}))
	require.NoError(t, err)
	assert.Equal(t,
		`COPY "orders" FROM '/imports/2024-05-01/orders.csv' WITH (FORMAT csv, HEADER true, DELIMITER ',')`,
		table.MustRender(q))

	no := false
	q, err = tbl.CopyFromCSV(CopyOptions{
		FilePath:  "/tmp/o.tsv",
		Format:    "text",
		Delimiter: "|",
		Header:    &no,
		Columns:   []string{"id", "customer"},
	}, table.SkipConfig())
	require.NoError(t, err)
	assert.Equal(t,
		`COPY "orders" ("id", "customer") FROM '/tmp/o.tsv' WITH (FORMAT text, DELIMITER '|')`,
		table.MustRender(q))

	_, err = tbl.CopyFromCSV(CopyOptions{}, table.SkipConfig())
	assert.ErrorIs(t, err, table.ErrMissingParameter)
}

func TestCopyToCSV(t *testing.T) {
	tbl := newOrders(t)

	q, err := tbl.CopyToCSV(CopyOptions{FilePath: "/exports/o.csv"})
	require.NoError(t, err)
	assert.Equal(t,
		`COPY (SELECT * FROM "orders") TO '/exports/o.csv' WITH (FORMAT csv, DELIMITER ',')`,
		table.MustRender(q))

	yes := true
	q, err = tbl.CopyToCSV(CopyOptions{FilePath: "/e.csv", Query: "SELECT id FROM orders", Header: &yes})
	require.NoError(t, err)
	assert.Equal(t,
		`COPY (SELECT id FROM orders) TO '/e.csv' WITH (FORMAT csv, HEADER true, DELIMITER ',')`,
		table.MustRender(q))
}

func TestMaintenance(t *testing.T) {
	tbl := newOrders(t, table.WithSchema("public"))

	assert.Equal(t, `ANALYZE "public"."orders"`, table.MustRender(tbl.Analyze()))
	assert.Equal(t, `VACUUM "public"."orders"`, table.MustRender(tbl.Vacuum(false)))
	assert.Equal(t, `VACUUM FULL "public"."orders"`, table.MustRender(tbl.Vacuum(true)))
}
