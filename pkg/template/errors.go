package template

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingVariable is matched by every *MissingVariableError.
var ErrMissingVariable = errors.New("missing template variable")

// MissingVariableError is returned when a placeholder names a variable that
// is not in the context.
type MissingVariableError struct {
	Name      string
	Path      []any // mapping keys (string) and sequence indexes (int) to the scalar
	Pos       Position
	Available []string
}

func (e *MissingVariableError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "missing template variable %q", e.Name)
	if len(e.Path) > 0 {
		fmt.Fprintf(&b, " at %s", FormatPath(e.Path))
	}
	if len(e.Available) > 0 {
		fmt.Fprintf(&b, " (available: %s)", strings.Join(e.Available, ", "))
	} else {
		b.WriteString(" (no variables provided)")
	}
	return b.String()
}

// Is reports whether target is ErrMissingVariable.
func (e *MissingVariableError) Is(target error) bool {
	return target == ErrMissingVariable
}

// FormatPath renders a key/index path as "tables.users.columns[0].name".
func FormatPath(path []any) string {
	var b strings.Builder
	for _, p := range path {
		switch v := p.(type) {
		case int:
			b.WriteString("[" + strconv.Itoa(v) + "]")
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}
