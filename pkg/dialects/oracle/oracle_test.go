package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	"github.com/leapstack-labs/sqlkit/pkg/table"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

func newModel(opts ...table.Option) (table.Model, error) {
	cols := []*table.Column{
		table.MustColumn("id", "int", table.PrimaryKey(), table.AutoIncrement()),
		table.MustColumn("name", "str", table.NotNull()),
		table.MustColumn("balance", "numeric(12,2)"),
	}
	return dialect.NewTable("oracle", "accounts", cols, opts...)
}

func newAccounts(t *testing.T, opts ...table.Option) *Table {
	t.Helper()
	m, err := newModel(opts...)
	require.NoError(t, err)
	tbl, ok := m.(*Table)
	require.True(t, ok)
	return tbl
}

func TestCreate(t *testing.T) {
	tbl := newAccounts(t, table.WithSchema("bank"), table.WithOptions(map[string]any{
		"tablespace": "users",
		"compress":   "true",
		"parallel":   4,
	}))

	got, err := table.Render(tbl.Create(true))
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "bank"."accounts" (`+"\n"+
		`  "id" NUMBER(19) GENERATED BY DEFAULT AS IDENTITY NOT NULL,`+"\n"+
		`  "name" VARCHAR2(255) NOT NULL,`+"\n"+
		`  "balance" NUMBER(12,2),`+"\n"+
		`  PRIMARY KEY ("id")`+"\n"+
		`)`+"\n"+
		`ORGANIZATION HEAP TABLESPACE users COMPRESS PARALLEL 4`, got)
}

func TestNew_Invalid(t *testing.T) {
	_, err := newModel(table.WithOptions(map[string]any{"organization": "cluster"}))
	assert.Error(t, err)

	_, err = dialect.NewTable("oracle", "log", []*table.Column{table.MustColumn("line", "text")},
		table.WithOptions(map[string]any{"organization": "index"}))
	assert.ErrorContains(t, err, "primary key")
}

func TestMerge(t *testing.T) {
	tbl := newAccounts(t)

	got := table.MustRender(tbl.Merge("SELECT * FROM staging_accounts", nil))
	assert.Equal(t, `MERGE INTO "accounts" target`+"\n"+
		`USING (SELECT * FROM staging_accounts) source`+"\n"+
		`ON (target."id" = source."id")`+"\n"+
		`WHEN MATCHED THEN UPDATE SET target."name" = source."name", target."balance" = source."balance"`+"\n"+
		`WHEN NOT MATCHED THEN INSERT ("id", "name", "balance") VALUES (source."id", source."name", source."balance")`, got)

	got = table.MustRender(tbl.Merge("SELECT 1 id, 'a' name, 0 balance FROM dual", []string{"id", "name", "balance"}))
	assert.NotContains(t, got, "WHEN MATCHED")

	_, err := table.Render(tbl.Merge("", nil))
	assert.Error(t, err)
	_, err = table.Render(tbl.Merge("SELECT 1 FROM dual", []string{"nope"}))
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	tbl := newAccounts(t)

	assert.Equal(t, `TRUNCATE TABLE "accounts" REUSE STORAGE`, table.MustRender(tbl.Truncate()))
	assert.Equal(t, `TRUNCATE TABLE "accounts" DROP STORAGE`, table.MustRender(tbl.TruncateStorage(false)))
}

func TestAnalyzeTable(t *testing.T) {
	tbl := newAccounts(t)

	assert.Equal(t, `ANALYZE TABLE "accounts" COMPUTE STATISTICS FOR ALL COLUMNS`,
		table.MustRender(tbl.AnalyzeTable(AnalyzeOptions{})))
	assert.Equal(t, `ANALYZE TABLE "accounts" ESTIMATE STATISTICS SAMPLE 20 PERCENT FOR TABLE`,
		table.MustRender(tbl.AnalyzeTable(AnalyzeOptions{EstimatePercent: 20, Method: "FOR TABLE"})))

	_, err := table.Render(tbl.AnalyzeTable(AnalyzeOptions{EstimatePercent: 101}))
	assert.Error(t, err)
}

func TestCreateIndex(t *testing.T) {
	tbl := newAccounts(t)

	assert.Equal(t, `CREATE INDEX "ix_name" ON "accounts" ("name") TABLESPACE idx PARALLEL 2`,
		table.MustRender(tbl.CreateIndex("ix_name", []string{"name"}, IndexOptions{Tablespace: "idx", Parallel: 2})))
	assert.Equal(t, `CREATE UNIQUE INDEX "idx_accounts_name_balance" ON "accounts" ("name", "balance") COMPRESS`,
		table.MustRender(tbl.CreateIndex("", []string{"name", "balance"}, IndexOptions{Unique: true, Compress: true})))

	_, err := table.Render(tbl.CreateIndex("x", nil, IndexOptions{}))
	assert.Error(t, err)
}

func TestCreateSequence(t *testing.T) {
	tbl := newAccounts(t, table.WithSchema("bank"))

	assert.Equal(t, `CREATE SEQUENCE "bank"."accounts_seq" START WITH 1 INCREMENT BY 1`,
		table.MustRender(tbl.CreateSequence("", 0, 0)))
	assert.Equal(t, `CREATE SEQUENCE "bank"."acct_ids" START WITH 1000 INCREMENT BY 10`,
		table.MustRender(tbl.CreateSequence("acct_ids", 1000, 10)))
}

func TestFormatType_Text(t *testing.T) {
	got, err := Dialect{}.FormatType(types.MustResolve("text"))
	require.NoError(t, err)
	assert.Equal(t, "CLOB", got)

	got, err = Dialect{}.FormatType(types.MustResolve("text(4000)"))
	require.NoError(t, err)
	assert.Equal(t, "VARCHAR2(4000)", got)
}
