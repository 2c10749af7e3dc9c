// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlkit/internal/cli/output"
)

// ProjectConfig is the sqlkit.yaml of SetupTestProject. The target is a
// SQLite file inside the project directory.
const ProjectConfig = `tables: tables.yaml
migrations_dir: migrations
target:
  type: sqlite
  path: app.db
vars:
  date: "2024-01-01"
environments:
  prod:
    vars:
      date: "2024-06-30"
`

// ProjectTables is the tables.yaml of SetupTestProject.
const ProjectTables = `metadata:
  default_dialect: sqlite
tables:
  users:
    columns:
      - {name: id, type: int, primary_key: true}
      - {name: email, type: string, length: 255, nullable: false}
    indexes:
      - {name: idx_users_email, columns: [email], unique: true}
  events:
    dialect: redshift
    schema_name: analytics
    columns:
      - {name: id, type: bigint, primary_key: true}
      - {name: kind, type: varchar(32)}
    options:
      dist_key: id
    dialect_methods:
      copy_from_s3:
        s3_path: "s3://bucket/{{ env }}/{{ date }}/"
`

// SetupTestProject creates a temporary project with the default config
// and tables files and returns its directory.
func SetupTestProject(t *testing.T) string {
	t.Helper()
	return WriteProject(t, ProjectConfig, ProjectTables)
}

// WriteProject creates a temporary project from the given sqlkit.yaml and
// tables.yaml contents.
func WriteProject(t *testing.T, config, tables string) string {
	t.Helper()

	tmpDir := t.TempDir()
	files := map[string]string{
		"sqlkit.yaml": config,
		"tables.yaml": tables,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, isTTY, mode),
		Out:      out,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and basic structure.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	// Check for balanced code fences
	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	// Check that headers have content
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
