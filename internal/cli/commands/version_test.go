package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlkit/internal/cli/config"
)

func TestVersionCommand(t *testing.T) {
	info := BuildInfo{Version: "1.2.3", BuildDate: "2024-01-15", GitCommit: "abc123"}

	cmd := NewVersionCommand(info)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "sqlkit v1.2.3\n")
	assert.Contains(t, out, "SQL table toolkit")
	assert.Contains(t, out, "commit:   abc123 (2024-01-15)")
	assert.Contains(t, out, "redshift")
	assert.Contains(t, out, "sqlite")
}

func TestVersionCommand_JSON(t *testing.T) {
	cmd := NewVersionCommand(BuildInfo{Version: "dev"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})
	cfg := &config.Config{OutputFormat: "json"}
	require.NoError(t, cmd.ExecuteContext(config.WithConfig(context.Background(), cfg)))

	var got versionReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "dev", got.Version)
	assert.Contains(t, got.Dialects, "postgresql")
	assert.Contains(t, got.Adapters, "sqlite")
	assert.NotEmpty(t, got.Go)
}
