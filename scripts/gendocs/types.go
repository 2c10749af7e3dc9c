package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sqlkit/internal/cli/commands"
	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	_ "github.com/leapstack-labs/sqlkit/pkg/dialects/all"
	"github.com/leapstack-labs/sqlkit/pkg/table"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

// sampleTypes are the configuration types shown in the native type matrix.
var sampleTypes = []string{
	"int",
	"string(255)",
	"string",
	"text",
	"numeric(18,5)",
	"float",
	"bool",
	"datetime",
	"date",
	"time",
}

// generateTypeDocs writes the type alias reference, the per-dialect native
// type matrix and the statements available for each dialect.
func generateTypeDocs(outDir string) error {
	log.Printf("Generating type docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Types and Dialects", "Column types, native type mapping and dialect statements")
	w.GeneratedMarker()

	w.Header(1, "Types and Dialects")
	w.Paragraph("Column types in tables.yaml are written as an alias with optional arguments, e.g. `varchar(255)` or `numeric(18,5)`. Aliases are case-insensitive.")

	w.Header(2, "Type Aliases")
	byKind := make(map[types.Kind][]string)
	var kinds []types.Kind
	for _, alias := range types.Aliases() {
		k, _ := types.KindOf(alias)
		if _, seen := byKind[k]; !seen {
			kinds = append(kinds, k)
		}
		byKind[k] = append(byKind[k], InlineCode(alias))
	}
	var aliasRows [][]string
	for _, k := range kinds {
		aliasRows = append(aliasRows, []string{k.String(), strings.Join(byKind[k], ", ")})
	}
	w.Table([]string{"Kind", "Aliases"}, aliasRows)

	names := dialect.List()

	w.Header(2, "Native Types")
	headers := append([]string{"Type"}, names...)
	var typeRows [][]string
	for _, raw := range sampleTypes {
		spec, err := types.Parse(raw)
		if err != nil {
			return fmt.Errorf("sample type %q: %w", raw, err)
		}
		row := []string{InlineCode(raw)}
		for _, name := range names {
			def, err := dialect.Lookup(name)
			if err != nil {
				return err
			}
			native, err := def.FormatType(spec)
			if err != nil {
				row = append(row, "unsupported")
				continue
			}
			row = append(row, InlineCode(native))
		}
		typeRows = append(typeRows, row)
	}
	w.Table(headers, typeRows)

	w.Header(2, "Statements")
	w.Paragraph("Statements are rendered with `sqlkit render <table> <statement>` and run with `sqlkit exec`.")
	for _, name := range names {
		m, err := dialect.NewTable(name, "example", []*table.Column{
			table.MustColumn("id", "int"),
		})
		if err != nil {
			return fmt.Errorf("sample %s table: %w", name, err)
		}
		w.Header(3, name)
		var rows [][]string
		for _, s := range commands.StatementsFor(m) {
			rows = append(rows, []string{InlineCode(s.Name), cleanDescription(s.Short)})
		}
		w.Table([]string{"Statement", "Description"}, rows)
	}

	filename := filepath.Join(outDir, "types.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated types.md")
	return nil
}
