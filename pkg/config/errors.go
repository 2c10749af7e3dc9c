package config

import (
	"errors"
	"fmt"
)

// ErrNoDialect is returned for a table that names no dialect when the
// metadata has no default_dialect either.
var ErrNoDialect = errors.New("no dialect specified and no metadata.default_dialect")

// UnknownTableError is returned when a table is not configured.
type UnknownTableError struct {
	Name      string
	Available []string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("table %q not found in configuration\nAvailable tables: %v\nHint: Check the tables section of the configuration file", e.Name, e.Available)
}
