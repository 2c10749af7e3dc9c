package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlkit/internal/cli/config"
	"github.com/leapstack-labs/sqlkit/internal/cli/output"
	clitest "github.com/leapstack-labs/sqlkit/internal/cli/testutil"
	"github.com/leapstack-labs/sqlkit/internal/testutil"
	"github.com/leapstack-labs/sqlkit/pkg/table"

	_ "github.com/leapstack-labs/sqlkit/pkg/adapters/sqlite"
)

// run executes cmd in project dir with the given output mode and returns
// its standard output.
func run(t *testing.T, dir, mode string, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	cfg, err := config.LoadConfigWithTarget(filepath.Join(dir, "sqlkit.yaml"), "", nil)
	require.NoError(t, err)
	cfg.OutputFormat = mode

	ctx := config.WithConfig(context.Background(), cfg)
	ctx = config.WithLogger(ctx, testutil.NewTestLogger(t))

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestCommandMetadata(t *testing.T) {
	cmds := map[string]*cobra.Command{
		"tables":                     NewTablesCommand(),
		"describe <table>":           NewDescribeCommand(),
		"render <table> <statement>": NewRenderCommand(),
		"exec <table> <statement>":   NewExecCommand(),
		"query <table>":              NewQueryCommand(),
		"inspect <table>":            NewInspectCommand(),
		"validate":                   NewValidateCommand(),
		"expand [file]":              NewExpandCommand(),
		"migrate":                    NewMigrateCommand(),
	}
	for use, cmd := range cmds {
		assert.Equal(t, use, cmd.Use)
		assert.NotEmpty(t, cmd.Short, "%s: Short should not be empty", use)
	}

	for _, name := range []string{"arg", "var", "skip-config"} {
		assert.NotNil(t, NewRenderCommand().Flags().Lookup(name), "render flag %q", name)
		assert.NotNil(t, NewExecCommand().Flags().Lookup(name), "exec flag %q", name)
	}
}

func TestTablesCommand(t *testing.T) {
	dir := clitest.SetupTestProject(t)

	out, err := run(t, dir, "markdown", NewTablesCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "| Table | Dialect | Schema | Columns | Methods |")
	assert.Contains(t, out, "| events | redshift | analytics | 2 | copy_from_s3 |")
	assert.Contains(t, out, "| users | sqlite |")
	clitest.AssertNoANSI(t, out)

	out, err = run(t, dir, "json", NewTablesCommand())
	require.NoError(t, err)
	var summaries []tableSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "events", summaries[0].Name)
	assert.Equal(t, []string{"copy_from_s3"}, summaries[0].Methods)
}

func TestDescribeCommand(t *testing.T) {
	dir := clitest.SetupTestProject(t)

	out, err := run(t, dir, "markdown", NewDescribeCommand(), "users")
	require.NoError(t, err)
	clitest.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# users (sqlite)")
	assert.Contains(t, out, "| id | integer | NO |")
	assert.Contains(t, out, "| email | varchar(255) | NO |")
	assert.Contains(t, out, "idx_users_email")
	assert.Contains(t, out, "pragma")

	out, err = run(t, dir, "markdown", NewDescribeCommand(), "events")
	require.NoError(t, err)
	assert.Contains(t, out, "- **Dist Key:** id")
	assert.Contains(t, out, "copy_from_s3")

	out, err = run(t, dir, "json", NewDescribeCommand(), "events")
	require.NoError(t, err)
	var desc tableDescription
	require.NoError(t, json.Unmarshal([]byte(out), &desc))
	assert.Equal(t, "redshift", desc.Dialect)
	assert.Equal(t, "primary", desc.Columns[0].Key)
	assert.Contains(t, desc.Statements, "unload_to_s3")

	_, err = run(t, dir, "markdown", NewDescribeCommand(), "nope")
	assert.ErrorContains(t, err, "nope")
}

func TestRenderCommand(t *testing.T) {
	dir := clitest.SetupTestProject(t)

	out, err := run(t, dir, "text", NewRenderCommand(), "events", "copy_from_s3")
	require.NoError(t, err)
	assert.Equal(t, `COPY "analytics"."events" FROM 's3://bucket/dev/2024-01-01/' FORMAT CSV DELIMITER ',';`+"\n", out)

	out, err = run(t, dir, "text", NewRenderCommand(), "events", "copy_from_s3", "--var", "date=2024-01-15")
	require.NoError(t, err)
	assert.Contains(t, out, "s3://bucket/dev/2024-01-15/")

	out, err = run(t, dir, "markdown", NewRenderCommand(), "users", "create")
	require.NoError(t, err)
	clitest.AssertValidMarkdown(t, out)
	assert.True(t, strings.HasPrefix(out, "```sql\nCREATE TABLE IF NOT EXISTS `users`"), out)

	out, err = run(t, dir, "json", NewRenderCommand(), "users", "insert", "-a", "id=1", "-a", "email=a@example.com")
	require.NoError(t, err)
	var rendered []renderedStatement
	require.NoError(t, json.Unmarshal([]byte(out), &rendered))
	require.Len(t, rendered, 1)
	assert.Contains(t, rendered[0].SQL, "INSERT INTO `users`")
	assert.Len(t, rendered[0].Args, 2)

	_, err = run(t, dir, "text", NewRenderCommand(), "users", "copy_from_s3")
	var use *UnknownStatementError
	assert.ErrorAs(t, err, &use)

	_, err = run(t, dir, "text", NewRenderCommand(), "events", "copy_from_s3", "--skip-config")
	assert.ErrorIs(t, err, table.ErrMissingParameter)
}

func TestRenderStatements_Markdown(t *testing.T) {
	tr := clitest.NewTestRenderer(output.ModeMarkdown, false)
	require.NoError(t, renderStatements(tr.Renderer, []table.Query{table.Raw("SELECT 1"), table.Raw("SELECT ?", 2)}))
	assert.Equal(t, "```sql\nSELECT 1;\nSELECT ?;\n-- args: [2]\n```\n", tr.Output())
}

func TestExecQueryInspect(t *testing.T) {
	dir := clitest.SetupTestProject(t)

	out, err := run(t, dir, "text", NewExecCommand(), "users", "create")
	require.NoError(t, err)
	assert.Contains(t, out, "Executed 1 statement(s) on sqlite target")

	_, err = run(t, dir, "text", NewExecCommand(), "users", "indexes")
	require.NoError(t, err)
	_, err = run(t, dir, "text", NewExecCommand(), "users", "insert", "-a", "id=1", "-a", "email=a@example.com")
	require.NoError(t, err)
	_, err = run(t, dir, "text", NewExecCommand(), "users", "insert", "-a", "id=2", "-a", "email=a@example.com")
	assert.ErrorContains(t, err, "statement 1", "unique index rejects duplicate email")

	assert.FileExists(t, filepath.Join(dir, "app.db"))

	out, err = run(t, dir, "text", NewQueryCommand(), "users", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "id,email\n1,a@example.com\n", out)

	out, err = run(t, dir, "json", NewInspectCommand(), "users")
	require.NoError(t, err)
	var report struct {
		InSync   bool  `json:"in_sync"`
		RowCount int64 `json:"row_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.InSync)
	assert.Equal(t, int64(1), report.RowCount)
}

func TestExec_NoTarget(t *testing.T) {
	dir := clitest.WriteProject(t, "tables: tables.yaml\n", clitest.ProjectTables)
	_, err := run(t, dir, "text", NewExecCommand(), "users", "create")
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestValidateCommand(t *testing.T) {
	dir := clitest.SetupTestProject(t)
	out, err := run(t, dir, "text", NewValidateCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "2 tables valid")

	broken := clitest.WriteProject(t, clitest.ProjectConfig, `
tables:
  a:
    dialect: sqlite
    columns: [{name: x, type: widget}]
  b:
    dialect: cobol
    columns: [{name: y, type: int}]
`)
	out, err = run(t, broken, "json", NewValidateCommand())
	assert.ErrorIs(t, err, ErrValidationFailed)
	var report struct {
		Valid    bool     `json:"valid"`
		Problems []string `json:"problems"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)
	assert.Len(t, report.Problems, 2)
}

func TestExpandCommand(t *testing.T) {
	dir := clitest.SetupTestProject(t)
	jobs := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(jobs, []byte("# nightly\npath: s3://bucket/{{ env }}/{{ date }}/\nretries: 3\n"), 0o600))

	out, err := run(t, dir, "text", NewExpandCommand(), jobs, "--var", "date=2024-02-02")
	require.NoError(t, err)
	assert.Contains(t, out, "# nightly")
	assert.Contains(t, out, "path: s3://bucket/dev/2024-02-02/")
	assert.Contains(t, out, "retries: 3")

	out, err = run(t, dir, "text", NewExpandCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "s3://bucket/dev/2024-01-01/")

	require.NoError(t, os.WriteFile(jobs, []byte("path: \"{{ missing }}\"\n"), 0o600))
	_, err = run(t, dir, "text", NewExpandCommand(), jobs)
	assert.ErrorContains(t, err, "missing")
}

const sqliteOnlyTables = `metadata:
  default_dialect: sqlite
tables:
  accounts:
    columns:
      - {name: id, type: int, primary_key: true}
      - {name: owner, type: text}
  users:
    columns:
      - {name: id, type: int, primary_key: true}
      - {name: email, type: string, length: 255, nullable: false}
    indexes:
      - {name: idx_users_email, columns: [email], unique: true}
`

func TestMigrateCommands(t *testing.T) {
	dir := clitest.WriteProject(t, clitest.ProjectConfig, sqliteOnlyTables)

	out, err := run(t, dir, "text", NewMigrateCommand(), "write")
	require.NoError(t, err)
	assert.Contains(t, out, "00001_create_accounts.sql")
	assert.Contains(t, out, "00002_create_users.sql")

	out, err = run(t, dir, "text", NewMigrateCommand(), "up")
	require.NoError(t, err)
	assert.Equal(t, "applied 00001\napplied 00002\n", out)

	out, err = run(t, dir, "text", NewMigrateCommand(), "up")
	require.NoError(t, err)
	assert.Equal(t, "no pending migrations\n", out)

	out, err = run(t, dir, "json", NewMigrateCommand(), "status")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version": 2}`, out)
}
