// Package registry holds the process-wide catalogs of registered SUTs
// and cases. Registration happens once at startup (from an init-style
// call in each SUT/case package); lookups happen concurrently from
// worker goroutines, so both registries are mutex-guarded maps keyed by
// stable id.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/justapithecus/graphbench/types"
)

// SutRegistry maps SUT ids to their spec and factory. Safe for
// concurrent use.
type SutRegistry struct {
	mu    sync.Mutex
	specs map[string]types.SutSpec
	facts map[string]types.SutFactory
}

// NewSutRegistry creates an empty SUT registry.
func NewSutRegistry() *SutRegistry {
	return &SutRegistry{
		specs: make(map[string]types.SutSpec),
		facts: make(map[string]types.SutFactory),
	}
}

// Register adds a SUT spec and its factory. Returns an error if the
// spec fails validation or its id is already registered.
func (r *SutRegistry) Register(spec types.SutSpec, factory types.SutFactory) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("registry: sut registration failed: %w", err)
	}
	if factory == nil {
		return fmt.Errorf("registry: sut %q: factory must be non-nil", spec.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[spec.ID]; exists {
		return fmt.Errorf("registry: sut %q already registered", spec.ID)
	}
	r.specs[spec.ID] = spec
	r.facts[spec.ID] = factory
	return nil
}

// Spec returns the registered spec for id.
func (r *SutRegistry) Spec(id string) (types.SutSpec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	spec, ok := r.specs[id]
	if !ok {
		return types.SutSpec{}, fmt.Errorf("registry: sut %q not found", id)
	}
	return spec, nil
}

// New constructs a fresh SUT instance for id, applying configOverride
// over the spec's defaults.
func (r *SutRegistry) New(id string, configOverride map[string]any) (types.SutInstance, error) {
	r.mu.Lock()
	factory, ok := r.facts[id]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("registry: sut %q not found", id)
	}
	instance, err := factory(configOverride)
	if err != nil {
		return nil, fmt.Errorf("registry: sut %q: factory failed: %w", id, err)
	}
	return instance, nil
}

// IDs returns all registered SUT ids in sorted order.
func (r *SutRegistry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.specs))
	for id := range r.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
