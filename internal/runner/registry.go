package runner

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/chr1sbest/rerun/internal/command"
	"github.com/chr1sbest/rerun/internal/runner/units"
)

// UnitRegistry maps unit type names to the factories that build them.
type UnitRegistry struct {
	mu        sync.RWMutex
	factories map[string]units.Factory
}

// NewUnitRegistry creates an empty registry.
func NewUnitRegistry() *UnitRegistry {
	return &UnitRegistry{
		factories: make(map[string]units.Factory),
	}
}

// NewDefaultRegistry creates a registry holding every built-in unit type.
func NewDefaultRegistry() *UnitRegistry {
	r := NewUnitRegistry()
	for name, f := range units.Builtin() {
		r.Register(name, f)
	}
	return r
}

// Register adds a factory for unitType, replacing any previous one.
func (r *UnitRegistry) Register(unitType string, factory units.Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[unitType] = factory
}

// Build creates the body for a unit of unitType from its raw config.
func (r *UnitRegistry) Build(unitType string, raw json.RawMessage) (command.Body, error) {
	r.mu.RLock()
	factory, ok := r.factories[unitType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown unit type: %s", unitType)
	}
	return factory(raw)
}

// RegisteredTypes returns the registered unit types, sorted.
func (r *UnitRegistry) RegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
