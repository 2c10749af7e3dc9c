package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlkit/internal/cli/config"
	"github.com/leapstack-labs/sqlkit/internal/cli/output"
	"github.com/leapstack-labs/sqlkit/pkg/adapter"
	"github.com/leapstack-labs/sqlkit/pkg/registry"
	"github.com/leapstack-labs/sqlkit/pkg/template"
)

// ErrNoTarget is returned by commands that need a database when no target
// is configured.
var ErrNoTarget = errors.New("no target configured; add a target section to sqlkit.yaml or set SQLKIT_TARGET__TYPE")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Registry *registry.Registry
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with the table registry
// loaded from the configured tables file.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cmdCtx := NewCommandContextWithoutRegistry(cmd)

	reg, err := registry.FromFile(cmdCtx.Cfg.Tables, registry.WithLogger(cmdCtx.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to load tables: %w", err)
	}
	cmdCtx.Registry = reg
	return cmdCtx, nil
}

// NewCommandContextWithoutRegistry creates a CommandContext without
// loading the tables file.
func NewCommandContextWithoutRegistry(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := getConfig(ctx)
	logger := config.GetLogger(ctx)
	r := output.NewRenderer(cmd.OutOrStdout(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Connect opens the configured target. The returned cleanup closes it.
func (c *CommandContext) Connect(ctx context.Context) (adapter.Adapter, func(), error) {
	if c.Cfg.Target == nil {
		return nil, nil, ErrNoTarget
	}
	a, err := adapter.NewAdapter(*c.Cfg.Target, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	if err := a.Connect(ctx, *c.Cfg.Target); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s target: %w", c.Cfg.Target.Type, err)
	}
	c.Logger.Debug("connected to target", "type", c.Cfg.Target.Type, "environment", c.Cfg.Environment)
	return a, func() { _ = a.Close() }, nil
}

// Vars returns the configured template variables overlaid with overrides.
func (c *CommandContext) Vars(overrides map[string]string) template.Vars {
	vars := c.Cfg.TemplateVars()
	for k, v := range overrides {
		vars[k] = v
	}
	return vars
}

// getConfig returns the configuration stored by the root command, or the
// defaults when none was loaded.
func getConfig(ctx context.Context) *config.Config {
	if cfg, ok := config.FromContext(ctx); ok && cfg != nil {
		return cfg
	}
	return &config.Config{
		Tables:        config.DefaultTablesFile,
		MigrationsDir: config.DefaultMigrationsDir,
		Environment:   config.DefaultEnv,
		OutputFormat:  config.DefaultOutput,
	}
}

// parseArgs turns repeated key=value flags into a map. A key given more
// than once collects its values into a list.
func parseArgs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", pair)
		}
		switch prev := out[key].(type) {
		case nil:
			out[key] = value
		case []any:
			out[key] = append(prev, value)
		default:
			out[key] = []any{prev, value}
		}
	}
	return out, nil
}

// parseVars parses --var key=value flags.
func parseVars(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q: expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}
