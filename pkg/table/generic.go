package table

import (
	"fmt"

	"entgo.io/ent/dialect"

	"github.com/leapstack-labs/sqlkit/pkg/types"
)

// Generic renders ANSI SQL types with double-quoted identifiers. It is used
// for tables that name no dialect.
var Generic Dialect = genericDialect{}

type genericDialect struct{}

func (genericDialect) Name() string          { return "generic" }
func (genericDialect) Builder() string       { return dialect.Postgres }
func (genericDialect) AutoIncrement() string { return "GENERATED BY DEFAULT AS IDENTITY" }

func (genericDialect) FormatType(t types.TypeSpec) (string, error) {
	return FormatANSI(t)
}

// FormatANSI renders t using standard SQL type names.
func FormatANSI(t types.TypeSpec) (string, error) {
	switch t.Kind {
	case types.Integer:
		return "INTEGER", nil
	case types.String:
		if n, ok := t.Length.Get(); ok {
			return fmt.Sprintf("VARCHAR(%d)", n), nil
		}
		return "VARCHAR", nil
	case types.Text:
		return "TEXT", nil
	case types.Numeric:
		return WithPrecision("NUMERIC", t), nil
	case types.Float:
		if p, ok := t.Precision.Get(); ok {
			return fmt.Sprintf("FLOAT(%d)", p), nil
		}
		return "FLOAT", nil
	case types.Boolean:
		return "BOOLEAN", nil
	case types.DateTime:
		return "TIMESTAMP", nil
	case types.Date:
		return "DATE", nil
	case types.Time:
		return "TIME", nil
	default:
		return "", fmt.Errorf("unsupported type kind %s", t.Kind)
	}
}

// WithPrecision appends "(p)" or "(p,s)" to name when the precision is set.
func WithPrecision(name string, t types.TypeSpec) string {
	p, ok := t.Precision.Get()
	if !ok {
		return name
	}
	if s, ok := t.Scale.Get(); ok {
		return fmt.Sprintf("%s(%d,%d)", name, p, s)
	}
	return fmt.Sprintf("%s(%d)", name, p)
}
