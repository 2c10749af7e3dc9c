package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	"github.com/leapstack-labs/sqlkit/pkg/table"
	"github.com/leapstack-labs/sqlkit/pkg/template"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

func newUsers(t *testing.T, opts ...table.Option) *Table {
	t.Helper()
	cols := []*table.Column{
		table.MustColumn("id", "int", table.PrimaryKey(), table.AutoIncrement()),
		table.MustColumn("name", "str"),
		table.MustColumn("bio", "text"),
	}
	m, err := dialect.NewTable("mysql", "users", cols, opts...)
	require.NoError(t, err)
	tbl, ok := m.(*Table)
	require.True(t, ok)
	return tbl
}

func TestRegistered(t *testing.T) {
	assert.True(t, dialect.IsRegistered("mysql"))
	assert.True(t, dialect.IsRegistered("MariaDB"))
}

func TestFormatType(t *testing.T) {
	tests := map[string]string{
		"int":           "int",
		"varchar(64)":   "varchar(64)",
		"str":           "varchar(255)",
		"text":          "text",
		"text(100)":     "varchar(100)",
		"numeric(18,5)": "decimal(18,5)",
		"datetime":      "datetime",
		"date":          "date",
		"time":          "time",
	}
	for in, want := range tests {
		got, err := Dialect{}.FormatType(types.MustResolve(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	got, err := Dialect{}.FormatType(types.MustResolve("float(10)"))
	require.NoError(t, err)
	assert.Equal(t, "float", got)

	got, err = Dialect{}.FormatType(types.MustResolve("double"))
	require.NoError(t, err)
	assert.Equal(t, "double", got)
}

func TestCreate(t *testing.T) {
	tbl := newUsers(t)
	assert.Equal(t, DefaultOptions(), tbl.Options)

	got, err := table.Render(tbl.Create(true))
	require.NoError(t, err)
	assert.Contains(t, got, "CREATE TABLE IF NOT EXISTS `users`")
	assert.Contains(t, got, "`id` int AUTO_INCREMENT NOT NULL")
	assert.Contains(t, got, "`name` varchar(255)")
	assert.Contains(t, got, "PRIMARY KEY (`id`)")
	assert.Contains(t, got, "\n)\nENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci")
}

func TestCreate_CustomOptions(t *testing.T) {
	tbl := newUsers(t, table.WithOptions(map[string]any{"engine": "MyISAM", "charset": "latin1", "collation": ""}))

	got, err := table.Render(tbl.Create(false))
	require.NoError(t, err)
	assert.Contains(t, got, "ENGINE=MyISAM DEFAULT CHARSET=latin1")
	assert.NotContains(t, got, "COLLATE")
}

func TestReplaceAndInsertIgnore(t *testing.T) {
	tbl := newUsers(t, table.WithSchema("app"))

	assert.Equal(t, "REPLACE INTO `app`.`users` SET `id` = 1, `name` = 'O''Brien'",
		table.MustRender(tbl.Replace(map[string]any{"name": "O'Brien", "id": 1})))
	assert.Equal(t, "INSERT IGNORE INTO `app`.`users` SET `name` = 'a\\\\b'",
		table.MustRender(tbl.InsertIgnore(map[string]any{"name": `a\b`})))

	_, err := table.Render(tbl.Replace(map[string]any{"nope": 1}))
	var uce *table.UnknownColumnError
	assert.ErrorAs(t, err, &uce)
}

func TestShowCreate(t *testing.T) {
	assert.Equal(t, "SHOW CREATE TABLE `users`", table.MustRender(newUsers(t).ShowCreate()))
}

func TestLoadDataInfile(t *testing.T) {
	methods := map[string]map[string]any{
		"load_data_infile": {
			"file_path":            "/data/{{ env }}/users.csv",
			"fields_terminated_by": ",",
			"ignore_lines":         1,
			"local":                true,
		},
	}
	tbl := newUsers(t, table.WithMethods(methods))

	t.Run("from config", func(t *testing.T) {
		q, err := tbl.LoadDataInfile(LoadDataOptions{}, table.WithVars(template.Vars{"env": "prod"}))
		require.NoError(t, err)
		assert.Equal(t,
			"LOAD DATA LOCAL INFILE '/data/prod/users.csv' INTO TABLE `users` FIELDS TERMINATED BY ',' IGNORE 1 LINES",
			table.MustRender(q))
	})

	t.Run("arguments override config", func(t *testing.T) {
		no, yes := false, true
		q, err := tbl.LoadDataInfile(LoadDataOptions{
			FilePath:           "/tmp/x.tsv",
			FieldsTerminatedBy: "\t",
			Local:              &no,
			Replace:            &yes,
			Columns:            []string{"id", "name"},
		}, table.WithVars(template.Vars{"env": "prod"}))
		require.NoError(t, err)
		assert.Equal(t,
			"LOAD DATA INFILE '/tmp/x.tsv' REPLACE INTO TABLE `users` FIELDS TERMINATED BY '\t' IGNORE 1 LINES (`id`, `name`)",
			table.MustRender(q))
	})

	t.Run("skip config requires path", func(t *testing.T) {
		_, err := tbl.LoadDataInfile(LoadDataOptions{}, table.SkipConfig())
		assert.ErrorIs(t, err, table.ErrMissingParameter)
	})

	t.Run("missing template variable", func(t *testing.T) {
		_, err := tbl.LoadDataInfile(LoadDataOptions{})
		assert.ErrorIs(t, err, template.ErrMissingVariable)
	})

	t.Run("replace and ignore conflict", func(t *testing.T) {
		yes := true
		_, err := tbl.LoadDataInfile(LoadDataOptions{FilePath: "/x", Replace: &yes, Ignore: &yes}, table.SkipConfig())
		assert.ErrorContains(t, err, "mutually exclusive")
	})
}
