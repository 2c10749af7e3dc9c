package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched with errors.Is.
var (
	ErrUnknownType          = errors.New("unknown type")
	ErrInvalidTypeArguments = errors.New("invalid type arguments")
)

// UnknownTypeError is returned when a type name is not a known alias.
type UnknownTypeError struct {
	Raw string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %q (available: %s)", e.Raw, strings.Join(Aliases(), ", "))
}

// Is reports whether target is ErrUnknownType.
func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}

// InvalidTypeArgumentsError is returned when the parenthesized arguments of
// a type string are malformed or have the wrong arity for the kind.
type InvalidTypeArgumentsError struct {
	Raw      string
	Kind     Kind
	Expected string
	Reason   string
}

func (e *InvalidTypeArgumentsError) Error() string {
	msg := fmt.Sprintf("invalid arguments in type %q: %s expects %s", e.Raw, e.Kind, e.Expected)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// Is reports whether target is ErrInvalidTypeArguments.
func (e *InvalidTypeArgumentsError) Is(target error) bool {
	return target == ErrInvalidTypeArguments
}
