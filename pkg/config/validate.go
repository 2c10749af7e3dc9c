package config

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

// Validate checks the whole configuration and reports every problem found.
// Dialects must be registered before calling it.
func (c *Config) Validate() error {
	if len(c.Tables) == 0 {
		return errors.New("no tables configured")
	}

	var errs []error
	for _, name := range c.TableNames() {
		if err := c.validateTable(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Config) validateTable(name string) error {
	tc := c.Tables[name]
	if tc == nil {
		return fmt.Errorf("table %q: empty definition", name)
	}

	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("table %q: "+format, append([]any{name}, args...)...))
	}

	if tc.Dialect == "" {
		add("%w", ErrNoDialect)
	} else if _, err := dialect.Lookup(tc.Dialect); err != nil {
		add("%w", err)
	}

	if len(tc.Columns) == 0 {
		add("no columns")
	}
	seen := make(map[string]bool, len(tc.Columns))
	for i, cc := range tc.Columns {
		switch {
		case cc.Name == "":
			add("column %d has no name", i)
			continue
		case seen[cc.Name]:
			add("duplicate column %q", cc.Name)
		}
		seen[cc.Name] = true

		if cc.Type == "" {
			add("column %q has no type", cc.Name)
			continue
		}
		if _, err := types.Resolve(cc.TypeString()); err != nil {
			add("column %q: %w", cc.Name, err)
		}
	}

	for i, idx := range tc.Indexes {
		if len(idx.Columns) == 0 {
			add("index %d (%s) has no columns", i, idx.Name)
		}
		for _, col := range idx.Columns {
			if !seen[col] {
				add("index %q references unknown column %q", idx.Name, col)
			}
		}
	}

	return errors.Join(errs...)
}
