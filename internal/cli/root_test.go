package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitest "github.com/leapstack-labs/sqlkit/internal/cli/testutil"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_TablesWithConfigFlag(t *testing.T) {
	dir := clitest.SetupTestProject(t)

	out, _, err := execute(t, "--config", filepath.Join(dir, "sqlkit.yaml"), "tables", "-o", "json")
	require.NoError(t, err)

	var tables []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	require.Len(t, tables, 2)
	assert.Equal(t, "events", tables[0]["name"])
}

func TestRoot_TablesFlagOverridesConfig(t *testing.T) {
	dir := clitest.SetupTestProject(t)
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("tables:\n  solo:\n    dialect: mysql\n    columns: [{name: a, type: int}]\n"), 0o600))

	out, _, err := execute(t, "--config", filepath.Join(dir, "sqlkit.yaml"), "--tables", other, "render", "solo", "create", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE IF NOT EXISTS `solo`")
}

func TestRoot_TargetSelectsEnvironment(t *testing.T) {
	dir := clitest.SetupTestProject(t)
	cfg := filepath.Join(dir, "sqlkit.yaml")

	out, _, err := execute(t, "--config", cfg, "-t", "prod", "render", "events", "copy_from_s3", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "s3://bucket/prod/2024-06-30/")
}

func TestRoot_VerboseLogsToStderr(t *testing.T) {
	dir := clitest.SetupTestProject(t)

	_, errOut, err := execute(t, "--config", filepath.Join(dir, "sqlkit.yaml"), "-v", "validate")
	require.NoError(t, err)
	assert.Contains(t, errOut, "configuration loaded")
}

func TestRoot_InvalidConfig(t *testing.T) {
	dir := clitest.WriteProject(t, "target: {type: snowflake}\n", clitest.ProjectTables)

	_, _, err := execute(t, "--config", filepath.Join(dir, "sqlkit.yaml"), "tables")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snowflake")
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlkit")

	_, _, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}
