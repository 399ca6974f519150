package adapter

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownDialect is returned by Lookup when no adapter is registered
// under the requested name.
var ErrUnknownDialect = errors.New("unknown dialect")

// Factory constructs a fresh Adapter.
type Factory func() Adapter

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		"sqlite3":    func() Adapter { return NewSQLite3() },
		"sqlite":     func() Adapter { return NewSQLite() },
		"postgres":   func() Adapter { return NewPostgres() },
		"postgresql": func() Adapter { return NewPostgres() },
		"mysql":      func() Adapter { return NewMySQL() },
	}
)

// Register adds a dialect to the registry.
// Registering an empty name, a nil factory, or an existing name is an error.
func Register(dialect string, factory Factory) error {
	if dialect == "" {
		return fmt.Errorf("register adapter: empty dialect name")
	}
	if factory == nil {
		return fmt.Errorf("register adapter %q: nil factory", dialect)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[dialect]; exists {
		return fmt.Errorf("register adapter %q: already registered", dialect)
	}
	registry[dialect] = factory
	return nil
}

// Unregister removes a dialect. It reports whether the dialect was present.
func Unregister(dialect string) bool {
	registryMu.Lock()
	defer registryMu.Unlock()
	_, ok := registry[dialect]
	delete(registry, dialect)
	return ok
}

// Lookup returns a new adapter for dialect.
func Lookup(dialect string) (Adapter, error) {
	registryMu.RLock()
	factory, ok := registry[dialect]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q: must be one of %v", ErrUnknownDialect, dialect, Dialects())
	}
	return factory(), nil
}

// Dialects returns the registered dialect names in sorted order.
func Dialects() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DialectOf extracts the dialect from a connection locator: the text before
// the first ':'.
func DialectOf(locator string) (string, error) {
	i := strings.IndexByte(locator, ':')
	if i <= 0 {
		return "", fmt.Errorf("locator %q has no dialect scheme", locator)
	}
	return locator[:i], nil
}
