// Package sqlite provides the SQLite dialect.
package sqlite

import (
	"fmt"

	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"
	entdialect "entgo.io/ent/dialect"

	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	"github.com/leapstack-labs/sqlkit/pkg/table"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

// Name is the registry name of the dialect.
const Name = "sqlite"

func init() {
	dialect.Register(&dialect.Definition{
		Dialect: Dialect{},
		Aliases: []string{"sqlite3"},
		New:     New,
	})
}

// Dialect implements table.Dialect for SQLite.
type Dialect struct{}

func (Dialect) Name() string          { return Name }
func (Dialect) Builder() string       { return entdialect.SQLite }
func (Dialect) AutoIncrement() string { return "AUTOINCREMENT" }

// FormatType renders t as a SQLite column type. SQLite keeps declared
// lengths as written, so they are part of the type name.
func (Dialect) FormatType(t types.TypeSpec) (string, error) {
	var st schema.Type
	switch t.Kind {
	case types.Integer:
		st = &schema.IntegerType{T: "integer"}
	case types.String:
		name := "varchar"
		if n, ok := t.Length.Get(); ok {
			name = fmt.Sprintf("varchar(%d)", n)
		}
		st = &schema.StringType{T: name}
	case types.Text:
		name := "text"
		if n, ok := t.Length.Get(); ok {
			name = fmt.Sprintf("varchar(%d)", n)
		}
		st = &schema.StringType{T: name}
	case types.Numeric:
		st = &schema.DecimalType{T: table.WithPrecision("numeric", t)}
	case types.Float:
		st = &schema.FloatType{T: "real"}
	case types.Boolean:
		st = &schema.BoolType{T: "boolean"}
	case types.DateTime:
		st = &schema.TimeType{T: "datetime"}
	case types.Date:
		st = &schema.TimeType{T: "date"}
	case types.Time:
		st = &schema.TimeType{T: "time"}
	default:
		return "", fmt.Errorf("sqlite: unsupported type kind %s", t.Kind)
	}
	return sqlite.FormatType(st)
}
