package dialect

import (
	"errors"
	"testing"

	entdialect "entgo.io/ent/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlkit/pkg/table"
	"github.com/leapstack-labs/sqlkit/pkg/types"
)

type fakeDialect struct{ name string }

func (d fakeDialect) Name() string          { return d.name }
func (fakeDialect) Builder() string         { return entdialect.MySQL }
func (fakeDialect) AutoIncrement() string   { return "AUTO_INCREMENT" }
func (fakeDialect) FormatType(t types.TypeSpec) (string, error) {
	return table.FormatANSI(t)
}

type fakeTable struct {
	*table.Table
	engine string
}

func init() {
	Register(&Definition{
		Dialect: fakeDialect{name: "Fake"},
		Aliases: []string{"fk"},
		New: func(base *table.Table) (table.Model, error) {
			var opts struct {
				Engine string `mapstructure:"engine"`
			}
			if err := table.DecodeOptions(base.Options, &opts); err != nil {
				return nil, err
			}
			if opts.Engine == "bad" {
				return nil, errors.New("bad engine")
			}
			return &fakeTable{Table: base, engine: opts.Engine}, nil
		},
	})
}

func TestRegistry_GetAndAliases(t *testing.T) {
	d, ok := Get("fake")
	require.True(t, ok)
	assert.Equal(t, "Fake", d.Name())

	d, ok = Get(" FK ")
	require.True(t, ok)
	assert.Equal(t, "Fake", d.Name())

	assert.True(t, IsRegistered("FAKE"))
	assert.False(t, IsRegistered("nope"))
	assert.Contains(t, List(), "fake")
}

func TestLookup(t *testing.T) {
	_, err := Lookup("")
	assert.ErrorIs(t, err, ErrDialectRequired)

	_, err = Lookup("cobol")
	var ude *UnknownDialectError
	require.ErrorAs(t, err, &ude)
	assert.Equal(t, "cobol", ude.Name)
	assert.Contains(t, ude.Available, "fake")
	assert.Contains(t, err.Error(), "Available dialects")
}

func TestNewTable(t *testing.T) {
	cols := []*table.Column{table.MustColumn("id", "int", table.PrimaryKey())}

	m, err := NewTable("fake", "t", cols, table.WithOptions(map[string]any{"engine": "x"}))
	require.NoError(t, err)
	ft, ok := m.(*fakeTable)
	require.True(t, ok)
	assert.Equal(t, "x", ft.engine)
	assert.Equal(t, "`t`", ft.QualifiedName())

	m, err = NewTable("", "t", cols)
	require.NoError(t, err)
	assert.Equal(t, "generic", m.Base().Dialect.Name())

	_, err = NewTable("fake", "t", cols, table.WithOptions(map[string]any{"engine": "bad"}))
	assert.ErrorContains(t, err, "bad engine")

	_, err = NewTable("nope", "t", cols)
	var ude *UnknownDialectError
	assert.ErrorAs(t, err, &ude)
}
