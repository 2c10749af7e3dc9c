// Package cli provides the command-line interface for sqlkit.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlkit/internal/cli/commands"
	"github.com/leapstack-labs/sqlkit/internal/cli/config"
	"github.com/leapstack-labs/sqlkit/internal/cli/output"

	// Register execution adapters.
	_ "github.com/leapstack-labs/sqlkit/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/sqlkit/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/sqlkit/pkg/adapters/redshift"
	_ "github.com/leapstack-labs/sqlkit/pkg/adapters/sqlite"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile    string
		targetFlag string
	)

	rootCmd := &cobra.Command{
		Use:   "sqlkit",
		Short: "sqlkit - configuration-driven SQL tables",
		Long: `sqlkit renders and runs dialect-specific SQL for tables declared in YAML.

Tables are declared once in tables.yaml with portable column types. sqlkit
renders their DDL, DML and dialect statements (COPY, UNLOAD, LOAD DATA, MSCK
REPAIR, ...) for PostgreSQL, Redshift, MySQL, SQLite, Athena and Oracle,
executes them against a configured target and generates goose migrations.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfigWithTarget(cfgFile, targetFlag, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)

			if cfg.ConfigFile != "" {
				logger.Debug("using config file", "path", cfg.ConfigFile)
			}
			logger.Debug("configuration loaded", "environment", cfg.Environment, "tables", cfg.Tables)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}}\nbuilt %s (%s)\n", BuildDate, GitCommit))

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sqlkit.yaml, searched upward)")
	rootCmd.PersistentFlags().StringVarP(&targetFlag, "target", "t", "", "Environment to use (e.g., dev, staging, prod)")
	rootCmd.PersistentFlags().String("tables", "", "Path to the tables file")
	rootCmd.PersistentFlags().String("migrations-dir", "", "Path to the migrations directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("target", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		cfg, err := config.LoadConfig(cfgFile, nil)
		if err != nil || len(cfg.Environments) == 0 {
			return []string{"dev", "staging", "prod"}, cobra.ShellCompDirectiveNoFileComp
		}
		envs := make([]string, 0, len(cfg.Environments))
		for name := range cfg.Environments {
			envs = append(envs, name)
		}
		return envs, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(commands.BuildInfo{Version: Version, BuildDate: BuildDate, GitCommit: GitCommit}))
	rootCmd.AddCommand(commands.NewTablesCommand())
	rootCmd.AddCommand(commands.NewDescribeCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewExecCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewExpandCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sqlkit.

To load completions:

Bash:
  $ source <(sqlkit completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sqlkit completion bash > /etc/bash_completion.d/sqlkit
  # macOS:
  $ sqlkit completion bash > $(brew --prefix)/etc/bash_completion.d/sqlkit

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sqlkit completion zsh > "${fpath[1]}/_sqlkit"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sqlkit completion fish | source

  # To load completions for each session, execute once:
  $ sqlkit completion fish > ~/.config/fish/completions/sqlkit.fish

PowerShell:
  PS> sqlkit completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sqlkit completion powershell > sqlkit.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
