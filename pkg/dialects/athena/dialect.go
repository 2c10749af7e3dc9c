// Package athena provides the Amazon Athena dialect: external tables over
// S3, CTAS, and partition management.
package athena

import (
	"fmt"

	entdialect "entgo.io/ent/dialect"

	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	"github.com/leapstack-labs/sqlkit/pkg/table"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

// Name is the registry name of the dialect.
const Name = "athena"

func init() {
	dialect.Register(&dialect.Definition{
		Dialect: Dialect{},
		New:     New,
	})
}

// Dialect implements table.Dialect for Athena DDL, which quotes
// identifiers with backticks.
type Dialect struct{}

func (Dialect) Name() string          { return Name }
func (Dialect) Builder() string       { return entdialect.MySQL }
func (Dialect) AutoIncrement() string { return "" }

// FormatType renders t as a Hive column type. Athena has no TIME type, so
// times are stored as strings.
func (Dialect) FormatType(t types.TypeSpec) (string, error) {
	switch t.Kind {
	case types.Integer:
		return "int", nil
	case types.String, types.Text:
		if n, ok := t.Length.Get(); ok {
			return fmt.Sprintf("varchar(%d)", n), nil
		}
		return "string", nil
	case types.Time:
		return "string", nil
	case types.Numeric:
		return table.WithPrecision("decimal", t), nil
	case types.Float:
		if p, ok := t.Precision.Get(); ok && p <= 24 {
			return "float", nil
		}
		return "double", nil
	case types.Boolean:
		return "boolean", nil
	case types.DateTime:
		return "timestamp", nil
	case types.Date:
		return "date", nil
	default:
		return "", fmt.Errorf("athena: unsupported type kind %s", t.Kind)
	}
}
