// Package redshift provides the Amazon Redshift dialect: distribution and
// sort keys, COPY and UNLOAD through S3, and table maintenance.
package redshift

import (
	"ariga.io/atlas/sql/postgres"
	entdialect "entgo.io/ent/dialect"

	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	pgdialect "github.com/leapstack-labs/sqlkit/pkg/dialects/postgres"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

// Name is the registry name of the dialect.
const Name = "redshift"

func init() {
	dialect.Register(&dialect.Definition{
		Dialect: Dialect{},
		New:     New,
	})
}

// Dialect implements table.Dialect for Redshift. Identifiers and types
// follow PostgreSQL.
type Dialect struct{}

func (Dialect) Name() string          { return Name }
func (Dialect) Builder() string       { return entdialect.Postgres }
func (Dialect) AutoIncrement() string { return "IDENTITY(1,1)" }

// FormatType renders t as a Redshift column type. Unbounded text maps to
// VARCHAR(MAX); Redshift would otherwise truncate TEXT to 256 bytes.
func (Dialect) FormatType(t types.TypeSpec) (string, error) {
	if _, sized := t.Length.Get(); t.Kind == types.Text && !sized {
		return "varchar(max)", nil
	}
	st, err := pgdialect.AtlasType(t)
	if err != nil {
		return "", err
	}
	return postgres.FormatType(st)
}
