package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/sqlkit/internal/cli"
	"github.com/leapstack-labs/sqlkit/internal/cli/config"
)

// generateCLIDocs writes an index page plus one page per command. Nested
// commands get their own page named after the full path, e.g. migrate_up.md.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	if err := writePage(filepath.Join(outDir, "index.md"), cliIndex(root)); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, cmd := range documented(root) {
		if err := walkCommands(cmd, func(c *cobra.Command) error {
			name := pageName(c)
			if err := writePage(filepath.Join(outDir, name+".md"), commandPage(c)); err != nil {
				return fmt.Errorf("failed to generate page for %s: %w", c.CommandPath(), err)
			}
			log.Printf("  Generated %s.md", name)
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func writePage(path string, w *MarkdownWriter) error {
	return os.WriteFile(path, w.Bytes(), 0600)
}

// documented returns the visible subcommands of cmd.
func documented(cmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, c := range cmd.Commands() {
		if c.Hidden || c.Name() == "help" || strings.HasPrefix(c.Name(), "__") {
			continue
		}
		out = append(out, c)
	}
	return out
}

func walkCommands(cmd *cobra.Command, fn func(*cobra.Command) error) error {
	if err := fn(cmd); err != nil {
		return err
	}
	for _, sub := range documented(cmd) {
		if err := walkCommands(sub, fn); err != nil {
			return err
		}
	}
	return nil
}

// pageName is the command path without the binary name, joined by "_".
func pageName(cmd *cobra.Command) string {
	parts := strings.Fields(cmd.CommandPath())
	return strings.Join(parts[1:], "_")
}

func pageLink(cmd *cobra.Command) string {
	label := strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" ")
	return fmt.Sprintf("[%s](/cli/%s)", InlineCode(label), pageName(cmd))
}

func cliIndex(root *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for sqlkit")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("sqlkit renders and runs dialect-specific SQL for the tables declared in a YAML configuration file.")

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/sqlkit/cmd/sqlkit@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documented(root) {
		_ = walkCommands(cmd, func(c *cobra.Command) error {
			rows = append(rows, []string{pageLink(c), cleanDescription(c.Short)})
			return nil
		})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	flagsTable(w, root.PersistentFlags())

	w.Header(2, "Configuration")
	w.Paragraph(fmt.Sprintf("Settings are read from %s in the working directory, then from %s environment variables, then from flags. Later sources win. A double underscore separates nested keys.",
		InlineCode(config.ConfigFileNames[0]), InlineCode(config.EnvPrefix+"*")))
	w.Table([]string{"Variable", "Setting"}, [][]string{
		{InlineCode(config.EnvPrefix + "TABLES"), InlineCode("tables")},
		{InlineCode(config.EnvPrefix + "MIGRATIONS_DIR"), InlineCode("migrations_dir")},
		{InlineCode(config.EnvPrefix + "OUTPUT"), InlineCode("output")},
		{InlineCode(config.EnvPrefix + "TARGET__TYPE"), InlineCode("target.type")},
		{InlineCode(config.EnvPrefix + "TARGET__HOST"), InlineCode("target.host")},
		{InlineCode(config.EnvPrefix + "TARGET__DATABASE"), InlineCode("target.database")},
		{InlineCode(config.EnvPrefix + "VARS__<NAME>"), InlineCode("vars.<name>")},
	})

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Error (details on stderr)"},
	})
	return w
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.CommandPath(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" "))
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	if cmd.HasAvailableSubCommands() {
		w.CodeBlock("bash", cmd.CommandPath()+" <subcommand> [options]")
	} else {
		w.CodeBlock("bash", cmd.UseLine())
	}

	if len(cmd.Aliases) > 0 {
		w.Header(2, "Aliases")
		aliases := make([]string, len(cmd.Aliases))
		for i, a := range cmd.Aliases {
			aliases[i] = InlineCode(a)
		}
		w.BulletList(aliases)
	}

	if subs := documented(cmd); len(subs) > 0 {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, sub := range subs {
			rows = append(rows, []string{pageLink(sub), cleanDescription(sub.Short)})
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		flagsTable(w, cmd.LocalFlags())
	}
	if cmd.HasAvailableInheritedFlags() {
		w.Header(2, "Global Options")
		flagsTable(w, cmd.InheritedFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
	return w
}

func flagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		def := f.DefValue
		switch f.Value.Type() {
		case "bool":
		case "stringArray", "stringSlice":
			if def == "[]" {
				def = ""
			}
		default:
			if def != "" {
				def = InlineCode(def)
			}
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// dedent removes the indentation shared by every non-blank line.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent > 0 {
		for i, line := range lines {
			if len(line) >= indent {
				lines[i] = line[indent:]
			} else {
				lines[i] = strings.TrimLeft(line, " \t")
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
