package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolve converts raw into a TypeSpec. A TypeSpec (or non-nil *TypeSpec)
// is returned unchanged; a string is parsed with Parse. Any other value is
// rejected with an *UnknownTypeError.
func Resolve(raw any) (TypeSpec, error) {
	switch v := raw.(type) {
	case TypeSpec:
		return v, nil
	case *TypeSpec:
		if v == nil {
			return TypeSpec{}, &UnknownTypeError{Raw: "<nil>"}
		}
		return *v, nil
	case string:
		return Parse(v)
	case fmt.Stringer:
		return Parse(v.String())
	default:
		return TypeSpec{}, &UnknownTypeError{Raw: fmt.Sprintf("%v", raw)}
	}
}

// MustResolve is like Resolve but panics on error. Intended for static
// table definitions.
func MustResolve(raw any) TypeSpec {
	t, err := Resolve(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse parses a type string of the form name or name(arg1[,arg2]).
//
// The name is matched case-insensitively against the alias table.
// Arguments must be unsigned decimal integers; whitespace around the name,
// the parentheses and each argument is ignored. "name()" means no arguments.
func Parse(raw string) (TypeSpec, error) {
	s := strings.TrimSpace(raw)

	nameEnd := strings.IndexAny(s, "()")
	name := s
	if nameEnd >= 0 {
		name = strings.TrimSpace(s[:nameEnd])
	}

	kind, ok := KindOf(name)
	if !ok || name == "" {
		return TypeSpec{}, &UnknownTypeError{Raw: raw}
	}

	spec := TypeSpec{Kind: kind}
	if nameEnd < 0 {
		return spec, nil
	}

	invalid := func(reason string) error {
		return &InvalidTypeArgumentsError{Raw: raw, Kind: kind, Expected: expected(kind), Reason: reason}
	}

	rest := s[nameEnd:]
	if rest[0] != '(' || !strings.HasSuffix(rest, ")") {
		return TypeSpec{}, invalid("unbalanced parentheses")
	}
	inner := rest[1 : len(rest)-1]
	if strings.ContainsAny(inner, "()") {
		return TypeSpec{}, invalid("unbalanced parentheses")
	}

	args, err := parseArgs(inner)
	if err != nil {
		return TypeSpec{}, invalid(err.Error())
	}

	minArgs, maxArgs := arity(kind)
	if len(args) < minArgs || len(args) > maxArgs {
		return TypeSpec{}, invalid(fmt.Sprintf("got %d", len(args)))
	}

	switch kind {
	case String, Text:
		if len(args) == 1 {
			spec.Length = Size(args[0])
		}
	case Numeric, Float:
		if len(args) >= 1 {
			spec.Precision = Size(args[0])
		}
		if len(args) == 2 {
			spec.Scale = Size(args[1])
		}
	}

	return spec, nil
}

// parseArgs splits a comma-separated argument list. An empty or
// whitespace-only list yields no arguments.
func parseArgs(inner string) ([]int, error) {
	if strings.TrimSpace(inner) == "" {
		return nil, nil
	}

	parts := strings.Split(inner, ",")
	args := make([]int, 0, len(parts))
	for _, p := range parts {
		tok := strings.TrimSpace(p)
		if tok == "" {
			return nil, fmt.Errorf("empty argument")
		}
		for _, r := range tok {
			if r < '0' || r > '9' {
				return nil, fmt.Errorf("argument %q is not an unsigned integer", tok)
			}
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("argument %q out of range", tok)
		}
		args = append(args, n)
	}
	return args, nil
}
