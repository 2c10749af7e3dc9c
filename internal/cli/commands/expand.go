package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqlkit/pkg/template"
)

// NewExpandCommand creates the expand command.
func NewExpandCommand() *cobra.Command {
	var vars []string

	cmd := &cobra.Command{
		Use:   "expand [file]",
		Short: "Expand {{ placeholders }} in a YAML file",
		Long: `Print a YAML document with every {{ placeholder }} replaced by its variable.
Key order and comments are kept. Without a file the tables file is expanded.

Variables come from the configured vars, the selected environment (env) and
--var, in increasing precedence.`,
		Example: `  sqlkit expand --var date=2024-01-15
  sqlkit expand copy_jobs.yaml -t prod`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutRegistry(cmd)
			path := cmdCtx.Cfg.Tables
			if len(args) == 1 {
				path = args[0]
			}

			overrides, err := parseVars(vars)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			var doc yaml.Node
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}

			expanded, err := template.Expand(&doc, cmdCtx.Vars(overrides))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if expanded == nil || len(expanded.Content) == 0 {
				return nil
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(expanded); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringArrayVar(&vars, "var", nil, "Template variable as key=value, overriding configured vars")
	return cmd
}
