package config

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/sqlkit/pkg/adapter"
)

// ValidateTarget checks that the target names a registered adapter.
// Adapters must be registered before calling it.
func ValidateTarget(t *TargetConfig) error {
	if t == nil {
		return nil
	}
	if t.Type == "" {
		return errors.New("target type is required")
	}
	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{Type: t.Type, Available: adapter.ListAdapters()}
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Tables == "" {
		return fmt.Errorf("tables is required")
	}
	if err := ValidateTarget(c.Target); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	return nil
}
