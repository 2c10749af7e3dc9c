// Package oracle provides the Oracle dialect: storage options, MERGE,
// statistics, indexes and sequences.
package oracle

import (
	"fmt"

	entdialect "entgo.io/ent/dialect"

	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	"github.com/leapstack-labs/sqlkit/pkg/table"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

// Name is the registry name of the dialect.
const Name = "oracle"

func init() {
	dialect.Register(&dialect.Definition{
		Dialect: Dialect{},
		New:     New,
	})
}

// Dialect implements table.Dialect for Oracle.
type Dialect struct{}

func (Dialect) Name() string          { return Name }
func (Dialect) Builder() string       { return entdialect.Postgres }
func (Dialect) AutoIncrement() string { return "GENERATED BY DEFAULT AS IDENTITY" }

// FormatType renders t as an Oracle column type.
func (Dialect) FormatType(t types.TypeSpec) (string, error) {
	switch t.Kind {
	case types.Integer:
		return "NUMBER(19)", nil
	case types.String:
		n, ok := t.Length.Get()
		if !ok {
			n = 255
		}
		return fmt.Sprintf("VARCHAR2(%d)", n), nil
	case types.Text:
		if n, ok := t.Length.Get(); ok {
			return fmt.Sprintf("VARCHAR2(%d)", n), nil
		}
		return "CLOB", nil
	case types.Numeric:
		return table.WithPrecision("NUMBER", t), nil
	case types.Float:
		if p, ok := t.Precision.Get(); ok && p <= 24 {
			return "BINARY_FLOAT", nil
		}
		return "BINARY_DOUBLE", nil
	case types.Boolean:
		return "NUMBER(1)", nil
	case types.DateTime, types.Time:
		// Oracle has no TIME type.
		return "TIMESTAMP", nil
	case types.Date:
		return "DATE", nil
	default:
		return "", fmt.Errorf("oracle: unsupported type kind %s", t.Kind)
	}
}
