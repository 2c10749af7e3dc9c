package config

import "github.com/leapstack-labs/sqlkit/pkg/adapter"

// Default configuration values.
const (
	DefaultTablesFile    = "tables.yaml"
	DefaultMigrationsDir = "migrations"
	DefaultEnv           = "dev"
	DefaultOutput        = "auto"
)

// ConfigFileNames are the file names searched for, in order.
var ConfigFileNames = []string{"sqlkit.yaml", "sqlkit.yml"}

var defaultPorts = map[string]int{
	"postgres": 5432,
	"mysql":    3306,
	"redshift": 5439,
}

var defaultSchemas = map[string]string{
	"postgres": "public",
	"redshift": "public",
	"sqlite":   "main",
}

// DefaultSchemaForType returns the default schema for an adapter type or
// alias, or "" when the type has none.
func DefaultSchemaForType(dbType string) string {
	return defaultSchemas[adapter.Canonical(dbType)]
}

// ApplyTargetDefaults applies default values to a target based on its type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Type = adapter.Canonical(t.Type)

	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	if t.Port == 0 {
		t.Port = defaultPorts[t.Type]
	}
	if t.Type == "sqlite" && t.Path == "" {
		t.Path = t.Database
	}
}
