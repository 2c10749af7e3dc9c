package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseNode(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return &doc
}

func encodeNode(t *testing.T, n *yaml.Node) string {
	t.Helper()
	out, err := yaml.Marshal(n)
	require.NoError(t, err)
	return string(out)
}

func TestExpand_PreservesOrder(t *testing.T) {
	doc := parseNode(t, `
zeta: "{{ env }}"
alpha: 1
mid:
  - "x-{{ env }}"
  - plain
`)

	got, err := Expand(doc, Vars{"env": "prod"})
	require.NoError(t, err)

	require.Equal(t, yaml.DocumentNode, got.Kind)
	m := got.Content[0]
	require.Len(t, m.Content, 6)
	assert.Equal(t, "zeta", m.Content[0].Value)
	assert.Equal(t, "prod", m.Content[1].Value)
	assert.Equal(t, "alpha", m.Content[2].Value)
	assert.Equal(t, "mid", m.Content[4].Value)
	assert.Equal(t, "x-prod", m.Content[5].Content[0].Value)
	assert.Equal(t, "plain", m.Content[5].Content[1].Value)
}

func TestExpand_DoesNotMutate(t *testing.T) {
	src := "a: \"{{ v }}\"\n"
	doc := parseNode(t, src)
	before := encodeNode(t, doc)

	_, err := Expand(doc, Vars{"v": "x"})
	require.NoError(t, err)
	assert.Equal(t, before, encodeNode(t, doc))
}

func TestExpand_WholeValueBecomesStructure(t *testing.T) {
	doc := parseNode(t, "sort_keys: \"{{ keys }}\"\n")

	got, err := Expand(doc, Vars{"keys": []string{"id", "created_at"}})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, got.Decode(&decoded))
	assert.Equal(t, []any{"id", "created_at"}, decoded["sort_keys"])
}

func TestExpand_AliasesAreResolved(t *testing.T) {
	doc := parseNode(t, `
base: &base
  path: "s3://{{ bucket }}"
copy: *base
`)

	got, err := Expand(doc, Vars{"bucket": "b"})
	require.NoError(t, err)

	var decoded map[string]map[string]string
	require.NoError(t, got.Decode(&decoded))
	assert.Equal(t, "s3://b", decoded["base"]["path"])
	assert.Equal(t, "s3://b", decoded["copy"]["path"])
	assert.NotContains(t, encodeNode(t, got), "&base")
}

func TestExpand_KeysAreNotExpanded(t *testing.T) {
	doc := parseNode(t, "\"{{ k }}\": v\n")

	got, err := Expand(doc, Vars{})
	require.NoError(t, err)
	assert.Contains(t, encodeNode(t, got), "{{ k }}")
}

func TestExpand_MissingVariablePath(t *testing.T) {
	doc := parseNode(t, `
tables:
  users:
    dialect_methods:
      copy_from_s3:
        s3_path: "s3://{{ bucket }}/{{ date }}"
`)

	_, err := Expand(doc, Vars{"bucket": "b"})
	require.Error(t, err)

	var mve *MissingVariableError
	require.ErrorAs(t, err, &mve)
	assert.Equal(t, "date", mve.Name)
	assert.Equal(t, []any{"tables", "users", "dialect_methods", "copy_from_s3", "s3_path"}, mve.Path)
}

func TestExpand_NonStringScalarsUntouched(t *testing.T) {
	doc := parseNode(t, "n: 5\nb: true\n")

	got, err := Expand(doc, Vars{})
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, got.Decode(&decoded))
	assert.Equal(t, map[string]any{"n": 5, "b": true}, decoded)
}

func TestExpand_Nil(t *testing.T) {
	got, err := Expand(nil, Vars{})
	require.NoError(t, err)
	assert.Nil(t, got)
}
