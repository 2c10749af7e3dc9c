package dialect

import (
	"fmt"

	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// NewTable builds a table bound to the named dialect. An empty dialect name
// yields a generic table.
func NewTable(dialectName, name string, columns []*table.Column, opts ...table.Option) (table.Model, error) {
	if dialectName == "" {
		return table.New(name, table.Generic, columns, opts...)
	}

	def, err := Lookup(dialectName)
	if err != nil {
		return nil, err
	}

	base, err := table.New(name, def.Dialect, columns, opts...)
	if err != nil {
		return nil, err
	}
	if def.New == nil {
		return base, nil
	}

	m, err := def.New(base)
	if err != nil {
		return nil, fmt.Errorf("%s table %q: %w", def.Name(), name, err)
	}
	return m, nil
}
