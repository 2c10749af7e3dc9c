// Package dialect is the registry of SQL dialects a table can be bound to.
//
// Concrete dialects live in pkg/dialects/* and register themselves from
// init(); import pkg/dialects/all to register every one of them.
package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// Factory wraps a base table into the dialect's table type, decoding the
// dialect options from base.Options.
type Factory func(base *table.Table) (table.Model, error)

// Definition describes a registered dialect.
type Definition struct {
	table.Dialect

	// Aliases are alternative names accepted by Get, e.g. "postgres".
	Aliases []string
	New     Factory
}

var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Definition)
	aliases    = make(map[string]string)
)

// ErrDialectRequired is returned when a dialect is required but not provided.
var ErrDialectRequired = errors.New("dialect is required")

// Register registers a dialect in the global registry.
// Called by dialect implementations in their init() functions.
func Register(def *Definition) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	name := strings.ToLower(def.Name())
	dialects[name] = def
	for _, a := range def.Aliases {
		aliases[strings.ToLower(a)] = name
	}
}

// Get returns a dialect by name or alias, ignoring case.
func Get(name string) (*Definition, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	d, ok := dialects[key]
	return d, ok
}

// Lookup is like Get but returns an *UnknownDialectError when the dialect
// is not registered.
func Lookup(name string) (*Definition, error) {
	if name == "" {
		return nil, ErrDialectRequired
	}
	d, ok := Get(name)
	if !ok {
		return nil, &UnknownDialectError{Name: name, Available: List()}
	}
	return d, nil
}

// List returns all registered dialect names (sorted).
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a dialect name or alias is registered.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// UnknownDialectError is returned when an unregistered dialect is requested.
type UnknownDialectError struct {
	Name      string
	Available []string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown dialect %q\nAvailable dialects: %v\nHint: Check the dialect of the table or metadata.default_dialect", e.Name, e.Available)
}
