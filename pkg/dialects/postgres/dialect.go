// Package postgres provides the PostgreSQL dialect: upserts, COPY to and
// from CSV files, ANALYZE and VACUUM.
package postgres

import (
	"fmt"

	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	entdialect "entgo.io/ent/dialect"

	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	"github.com/leapstack-labs/sqlkit/pkg/table"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

// Name is the registry name of the dialect.
const Name = "postgresql"

func init() {
	dialect.Register(&dialect.Definition{
		Dialect: Dialect{},
		Aliases: []string{"postgres", "pg"},
		New:     New,
	})
}

// Dialect implements table.Dialect for PostgreSQL.
type Dialect struct{}

func (Dialect) Name() string          { return Name }
func (Dialect) Builder() string       { return entdialect.Postgres }
func (Dialect) AutoIncrement() string { return "GENERATED BY DEFAULT AS IDENTITY" }

// FormatType renders t as a PostgreSQL column type.
func (Dialect) FormatType(t types.TypeSpec) (string, error) {
	st, err := AtlasType(t)
	if err != nil {
		return "", err
	}
	return postgres.FormatType(st)
}

// AtlasType maps t to the atlas schema type used for PostgreSQL. Redshift
// shares it.
func AtlasType(t types.TypeSpec) (schema.Type, error) {
	switch t.Kind {
	case types.Integer:
		return &schema.IntegerType{T: postgres.TypeInteger}, nil
	case types.String:
		n, _ := t.Length.Get()
		return &schema.StringType{T: postgres.TypeVarChar, Size: n}, nil
	case types.Text:
		if n, ok := t.Length.Get(); ok {
			return &schema.StringType{T: postgres.TypeVarChar, Size: n}, nil
		}
		return &schema.StringType{T: postgres.TypeText}, nil
	case types.Numeric:
		p, _ := t.Precision.Get()
		s, _ := t.Scale.Get()
		return &schema.DecimalType{T: postgres.TypeNumeric, Precision: p, Scale: s}, nil
	case types.Float:
		if p, ok := t.Precision.Get(); ok && p <= 24 {
			return &schema.FloatType{T: postgres.TypeReal, Precision: p}, nil
		}
		return &schema.FloatType{T: postgres.TypeDouble}, nil
	case types.Boolean:
		return &schema.BoolType{T: postgres.TypeBoolean}, nil
	case types.DateTime:
		return &schema.TimeType{T: postgres.TypeTimestamp}, nil
	case types.Date:
		return &schema.TimeType{T: postgres.TypeDate}, nil
	case types.Time:
		return &schema.TimeType{T: postgres.TypeTime}, nil
	default:
		return nil, fmt.Errorf("postgres: unsupported type kind %s", t.Kind)
	}
}

// Table is a PostgreSQL table.
type Table struct {
	*table.Table
}

// New wraps base.
func New(base *table.Table) (table.Model, error) {
	return &Table{Table: base}, nil
}
