package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode(t *testing.T) {
	tests := map[string]OutputMode{
		"":         ModeAuto,
		"auto":     ModeAuto,
		"TEXT":     ModeText,
		"markdown": ModeMarkdown,
		"md":       ModeMarkdown,
		"json":     ModeJSON,
		"yaml":     ModeAuto,
	}
	for in, want := range tests {
		assert.Equal(t, want, Mode(in), in)
	}
}

func TestEffectiveMode(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ModeText, NewRendererWithTTY(&buf, true, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeMarkdown, NewRendererWithTTY(&buf, false, ModeAuto).EffectiveMode())
	assert.Equal(t, ModeJSON, NewRendererWithTTY(&buf, true, ModeJSON).EffectiveMode())

	// A buffer is never a terminal.
	assert.Equal(t, ModeMarkdown, NewRenderer(&buf, ModeAuto).EffectiveMode())
}

func TestTable(t *testing.T) {
	header := []string{"Name", "Dialect"}
	rows := [][]string{{"users", "postgresql"}, {"events", "redshift"}}

	var md bytes.Buffer
	NewRendererWithTTY(&md, false, ModeMarkdown).Table(header, rows)
	assert.Contains(t, md.String(), "| Name | Dialect |")
	assert.Contains(t, md.String(), "| users | postgresql |")

	var text bytes.Buffer
	NewRendererWithTTY(&text, true, ModeText).Table(header, rows)
	assert.Contains(t, text.String(), "┌")
	assert.Contains(t, text.String(), "events")
}

func TestHeaderAndJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithTTY(&buf, false, ModeMarkdown)
	r.Header(2, "Columns")
	assert.True(t, strings.HasPrefix(buf.String(), "## Columns\n"))

	buf.Reset()
	r = NewRendererWithTTY(&buf, true, ModeText)
	r.Header(1, "Tables")
	assert.Equal(t, "Tables\n======\n", buf.String())

	buf.Reset()
	require.NoError(t, r.JSON(map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a": 1}`, buf.String())

	assert.Equal(t, "- **File:** x.yaml", FormatKeyValue("File", "x.yaml"))
}
