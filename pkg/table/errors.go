package table

import (
	"fmt"
	"strings"
)

// UnknownColumnError is returned when a statement names a column the table
// does not have.
type UnknownColumnError struct {
	Table     string
	Column    string
	Available []string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("table %q has no column %q (columns: %s)", e.Table, e.Column, strings.Join(e.Available, ", "))
}
