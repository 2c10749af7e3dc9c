package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// ErrNoType is returned by NewAdapter when the config names no adapter.
var ErrNoType = errors.New("adapter type not specified")

// Factory creates an unconnected adapter. A nil logger discards output.
type Factory func(*slog.Logger) Adapter

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
	aliases    = make(map[string]string)
)

// Register adds an adapter factory under name and any aliases, e.g.
// Register("postgres", f, "postgresql", "pg"). Names are case-insensitive.
// Called by adapter implementations in their init() functions.
func Register(name string, factory Factory, alias ...string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	name = strings.ToLower(name)
	registry[name] = factory
	for _, a := range alias {
		aliases[strings.ToLower(a)] = name
	}
}

// Canonical returns the registered name for an adapter name or alias. Names
// that are not registered are returned lowercased.
func Canonical(name string) string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	key := strings.ToLower(strings.TrimSpace(name))
	if c, ok := aliases[key]; ok {
		return c
	}
	return key
}

// Get retrieves an adapter factory by name or alias.
func Get(name string) (Factory, bool) {
	key := Canonical(name)
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[key]
	return f, ok
}

// NewAdapter creates an adapter for cfg.Type. The logger is passed to the
// adapter constructor.
func NewAdapter(cfg Config, logger *slog.Logger) (Adapter, error) {
	if cfg.Type == "" {
		return nil, ErrNoType
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{
			Type:      cfg.Type,
			Available: ListAdapters(),
		}
	}
	return factory(logger), nil
}

// ListAdapters returns the registered adapter names, sorted. Aliases are
// not listed.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether name or alias has an adapter.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// UnknownAdapterError is returned when an unknown adapter type is requested.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q\nAvailable adapters: %s\nHint: Check target.type in sqlkit.yaml", e.Type, strings.Join(e.Available, ", "))
}
