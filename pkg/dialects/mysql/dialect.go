// Package mysql provides the MySQL dialect: InnoDB table options, REPLACE,
// INSERT IGNORE and LOAD DATA INFILE.
package mysql

import (
	"fmt"

	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/schema"
	entdialect "entgo.io/ent/dialect"

	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

// Name is the registry name of the dialect.
const Name = "mysql"

// defaultVarcharSize is used for strings without a length; MySQL requires one.
const defaultVarcharSize = 255

func init() {
	dialect.Register(&dialect.Definition{
		Dialect: Dialect{},
		Aliases: []string{"mariadb"},
		New:     New,
	})
}

// Dialect implements table.Dialect for MySQL.
type Dialect struct{}

func (Dialect) Name() string          { return Name }
func (Dialect) Builder() string       { return entdialect.MySQL }
func (Dialect) AutoIncrement() string { return "AUTO_INCREMENT" }

// EscapeBackslash reports that MySQL string literals treat '\' as an escape.
func (Dialect) EscapeBackslash() bool { return true }

// FormatType renders t as a MySQL column type.
func (Dialect) FormatType(t types.TypeSpec) (string, error) {
	st, err := atlasType(t)
	if err != nil {
		return "", err
	}
	return mysql.FormatType(st)
}

func atlasType(t types.TypeSpec) (schema.Type, error) {
	switch t.Kind {
	case types.Integer:
		return &schema.IntegerType{T: mysql.TypeInt}, nil
	case types.String:
		size := defaultVarcharSize
		if n, ok := t.Length.Get(); ok {
			size = n
		}
		return &schema.StringType{T: mysql.TypeVarchar, Size: size}, nil
	case types.Text:
		if n, ok := t.Length.Get(); ok {
			return &schema.StringType{T: mysql.TypeVarchar, Size: n}, nil
		}
		return &schema.StringType{T: mysql.TypeText}, nil
	case types.Numeric:
		p, _ := t.Precision.Get()
		s, _ := t.Scale.Get()
		return &schema.DecimalType{T: mysql.TypeDecimal, Precision: p, Scale: s}, nil
	case types.Float:
		if p, ok := t.Precision.Get(); ok && p <= 24 {
			return &schema.FloatType{T: mysql.TypeFloat}, nil
		}
		return &schema.FloatType{T: mysql.TypeDouble}, nil
	case types.Boolean:
		return &schema.BoolType{T: mysql.TypeBool}, nil
	case types.DateTime:
		return &schema.TimeType{T: mysql.TypeDateTime}, nil
	case types.Date:
		return &schema.TimeType{T: mysql.TypeDate}, nil
	case types.Time:
		return &schema.TimeType{T: mysql.TypeTime}, nil
	default:
		return nil, fmt.Errorf("mysql: unsupported type kind %s", t.Kind)
	}
}
