// Package config provides configuration management for the sqlkit CLI.
//
// Settings are layered from defaults, sqlkit.yaml, SQLKIT_ environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"github.com/leapstack-labs/sqlkit/pkg/adapter"
	"github.com/leapstack-labs/sqlkit/pkg/template"
)

// TargetConfig is the connection configuration of an execution target.
type TargetConfig = adapter.Config

// Config holds all CLI configuration options.
type Config struct {
	Tables        string               `koanf:"tables"`
	MigrationsDir string               `koanf:"migrations_dir"`
	Environment   string               `koanf:"environment"`
	Verbose       bool                 `koanf:"verbose"`
	OutputFormat  string               `koanf:"output"`
	Vars          map[string]string    `koanf:"vars"`
	Target        *TargetConfig        `koanf:"target"`
	Environments  map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the sqlkit.yaml that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// EnvConfig holds environment-specific overrides.
type EnvConfig struct {
	Target *TargetConfig     `koanf:"target"`
	Vars   map[string]string `koanf:"vars"`
}

// TemplateVars returns the variables available to table method templates:
// the configured vars plus env, the selected environment.
func (c *Config) TemplateVars() template.Vars {
	vars := make(template.Vars, len(c.Vars)+1)
	vars["env"] = c.Environment
	for k, v := range c.Vars {
		vars[k] = v
	}
	return vars
}
