// Package seeds holds the registry of named initial patterns.
package seeds

import (
	"sort"

	"lifestream/pkg/core"
)

// Factory returns the live coordinates of a pattern on a rows x cols grid
// using an optional configuration map.
type Factory func(rows, cols int, cfg map[string]string) []core.Coord

var factories = map[string]Factory{}

// Register adds a pattern factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	factories[name] = f
}

// All exposes the registry of available patterns.
func All() map[string]Factory {
	return factories
}

// Names returns the registered pattern names in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	f, ok := factories[name]
	return f, ok
}
