// Package types resolves column type strings such as "varchar(255)" or
// "numeric(18,5)" into canonical TypeSpec values.
//
// Aliases are matched case-insensitively. Each alias maps to exactly one
// Kind; the arguments in parentheses become the kind's parameters.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies an abstract column type.
type Kind int

// Kind constants. The set is closed; dialects map each kind to a native type.
const (
	Integer Kind = iota + 1
	String
	Text
	Numeric
	Float
	Boolean
	DateTime
	Date
	Time
)

// String returns the canonical lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case String:
		return "string"
	case Text:
		return "text"
	case Numeric:
		return "numeric"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case DateTime:
		return "datetime"
	case Date:
		return "date"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// Param is an optional non-negative integer type parameter.
type Param struct {
	Value int
	Valid bool
}

// Size returns a set parameter.
func Size(n int) Param {
	return Param{Value: n, Valid: true}
}

// Get returns the value and whether it is set.
func (p Param) Get() (int, bool) {
	return p.Value, p.Valid
}

// TypeSpec is a resolved column type. The zero value is invalid.
//
// Length is used by String and Text, Precision by Numeric and Float,
// Scale by Numeric only.
type TypeSpec struct {
	Kind      Kind
	Length    Param
	Precision Param
	Scale     Param
}

// IsZero reports whether t has not been resolved.
func (t TypeSpec) IsZero() bool {
	return t.Kind == 0
}

// Args returns the set parameters in declaration order.
func (t TypeSpec) Args() []int {
	var args []int
	switch t.Kind {
	case String, Text:
		if t.Length.Valid {
			args = append(args, t.Length.Value)
		}
	case Numeric, Float:
		if t.Precision.Valid {
			args = append(args, t.Precision.Value)
			if t.Scale.Valid {
				args = append(args, t.Scale.Value)
			}
		}
	}
	return args
}

// String renders t in a form Parse accepts, e.g. "numeric(18,5)".
func (t TypeSpec) String() string {
	args := t.Args()
	if len(args) == 0 {
		return t.Kind.String()
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return fmt.Sprintf("%s(%s)", t.Kind, strings.Join(parts, ","))
}

// aliases maps lowercase alias names to kinds. Read-only after init.
var aliases = map[string]Kind{
	"int":       Integer,
	"integer":   Integer,
	"bigint":    Integer,
	"smallint":  Integer,
	"str":       String,
	"string":    String,
	"varchar":   String,
	"char":      String,
	"text":      Text,
	"numeric":   Numeric,
	"decimal":   Numeric,
	"number":    Numeric,
	"float":     Float,
	"real":      Float,
	"double":    Float,
	"bool":      Boolean,
	"boolean":   Boolean,
	"datetime":  DateTime,
	"timestamp": DateTime,
	"date":      Date,
	"time":      Time,
}

// KindOf looks up an alias, ignoring case and surrounding whitespace.
func KindOf(alias string) (Kind, bool) {
	k, ok := aliases[strings.ToLower(strings.TrimSpace(alias))]
	return k, ok
}

// Aliases returns every known alias in sorted order.
func Aliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// arity returns the minimum and maximum number of arguments a kind accepts.
func arity(k Kind) (minArgs, maxArgs int) {
	switch k {
	case String, Text, Float:
		return 0, 1
	case Numeric:
		return 0, 2
	default:
		return 0, 0
	}
}

// expected describes the accepted arguments of a kind for error messages.
func expected(k Kind) string {
	switch k {
	case String, Text:
		return "at most one length argument"
	case Float:
		return "at most one precision argument"
	case Numeric:
		return "one or two arguments (precision[, scale])"
	default:
		return "no arguments"
	}
}
