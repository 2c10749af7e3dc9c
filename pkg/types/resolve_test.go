package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  TypeSpec
	}{
		{"int", "int", TypeSpec{Kind: Integer}},
		{"bigint", "bigint", TypeSpec{Kind: Integer}},
		{"str", "str", TypeSpec{Kind: String}},
		{"varchar with length", "varchar(255)", TypeSpec{Kind: String, Length: Size(255)}},
		{"upper case", "VARCHAR(255)", TypeSpec{Kind: String, Length: Size(255)}},
		{"mixed case", "VarChar(10)", TypeSpec{Kind: String, Length: Size(10)}},
		{"text", "text", TypeSpec{Kind: Text}},
		{"numeric precision and scale", "numeric(18,5)", TypeSpec{Kind: Numeric, Precision: Size(18), Scale: Size(5)}},
		{"decimal precision only", "decimal(10)", TypeSpec{Kind: Numeric, Precision: Size(10)}},
		{"number", "number", TypeSpec{Kind: Numeric}},
		{"float", "float", TypeSpec{Kind: Float}},
		{"double with precision", "double(53)", TypeSpec{Kind: Float, Precision: Size(53)}},
		{"bool", "bool", TypeSpec{Kind: Boolean}},
		{"boolean upper", "BOOLEAN", TypeSpec{Kind: Boolean}},
		{"timestamp", "timestamp", TypeSpec{Kind: DateTime}},
		{"datetime", "datetime", TypeSpec{Kind: DateTime}},
		{"date", "date", TypeSpec{Kind: Date}},
		{"time", "time", TypeSpec{Kind: Time}},
		{"surrounding whitespace", "  numeric ( 18 , 5 )  ", TypeSpec{Kind: Numeric, Precision: Size(18), Scale: Size(5)}},
		{"empty parens", "varchar()", TypeSpec{Kind: String}},
		{"empty parens with space", "int( )", TypeSpec{Kind: Integer}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_UnknownType(t *testing.T) {
	for _, input := range []string{"", "   ", "uuid", "geometry(4326)", "(255)", "var char"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnknownType)

			var ute *UnknownTypeError
			require.ErrorAs(t, err, &ute)
			assert.Equal(t, input, ute.Raw)
		})
	}
}

func TestParse_InvalidArguments(t *testing.T) {
	tests := []struct {
		input    string
		kind     Kind
		contains string
	}{
		{"varchar(abc)", String, "length"},
		{"varchar(1,2)", String, "length"},
		{"numeric(1,2,3)", Numeric, "precision"},
		{"numeric(-1)", Numeric, "precision"},
		{"numeric(1.5)", Numeric, "precision"},
		{"numeric(,2)", Numeric, "precision"},
		{"varchar(255", String, "length"},
		{"varchar)", String, "length"},
		{"varchar(255))", String, "length"},
		{"varchar(255) x", String, "length"},
		{"int(11)", Integer, "no arguments"},
		{"bool(1)", Boolean, "no arguments"},
		{"date(3)", Date, "no arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTypeArguments)
			assert.NotErrorIs(t, err, ErrUnknownType)

			var ite *InvalidTypeArgumentsError
			require.ErrorAs(t, err, &ite)
			assert.Equal(t, tt.kind, ite.Kind)
			assert.Contains(t, err.Error(), tt.input)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("typespec passes through", func(t *testing.T) {
		in := TypeSpec{Kind: Numeric, Precision: Size(18), Scale: Size(5)}
		got, err := Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("pointer typespec", func(t *testing.T) {
		in := &TypeSpec{Kind: String, Length: Size(20)}
		got, err := Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, *in, got)
	})

	t.Run("string", func(t *testing.T) {
		got, err := Resolve("Str")
		require.NoError(t, err)
		assert.Equal(t, TypeSpec{Kind: String}, got)
	})

	t.Run("unsupported value", func(t *testing.T) {
		_, err := Resolve(42)
		assert.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var in *TypeSpec
		_, err := Resolve(in)
		assert.ErrorIs(t, err, ErrUnknownType)
	})
}

func TestResolve_CaseInsensitive(t *testing.T) {
	for _, alias := range Aliases() {
		lower, err := Resolve(alias)
		require.NoError(t, err)

		upper, err := Resolve(strings.ToUpper(alias))
		require.NoError(t, err, alias)
		assert.Equal(t, lower, upper, alias)
	}
}

func TestTypeSpec_StringRoundTrip(t *testing.T) {
	for _, input := range []string{"int", "varchar(255)", "text(100)", "numeric(18,5)", "numeric(10)", "float(24)", "timestamp", "date", "time", "bool"} {
		t.Run(input, func(t *testing.T) {
			spec, err := Parse(input)
			require.NoError(t, err)

			again, err := Parse(spec.String())
			require.NoError(t, err)
			assert.Equal(t, spec, again)
		})
	}
}

func TestTypeSpec_String(t *testing.T) {
	assert.Equal(t, "numeric(18,5)", MustResolve("decimal(18, 5)").String())
	assert.Equal(t, "string(255)", MustResolve("varchar(255)").String())
	assert.Equal(t, "integer", MustResolve("bigint").String())
	assert.True(t, TypeSpec{}.IsZero())
}

func TestMustResolve_Panics(t *testing.T) {
	assert.Panics(t, func() { MustResolve("nope") })
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf(" Timestamp ")
	require.True(t, ok)
	assert.Equal(t, DateTime, k)

	_, ok = KindOf("jsonb")
	assert.False(t, ok)
}
