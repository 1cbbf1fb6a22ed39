package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/justapithecus/graphbench/types"
)

// CaseRegistry maps case ids to their definitions. Safe for concurrent
// use; GetInput is expected to memoize its own heavyweight resource
// load, so the registry itself does no caching.
type CaseRegistry struct {
	mu   sync.Mutex
	defs map[string]types.CaseDefinition
}

// NewCaseRegistry creates an empty case registry.
func NewCaseRegistry() *CaseRegistry {
	return &CaseRegistry{defs: make(map[string]types.CaseDefinition)}
}

// Register adds a case definition. Returns an error if the case spec
// fails validation or its id is already registered.
func (r *CaseRegistry) Register(def types.CaseDefinition) error {
	if err := def.Case.Validate(); err != nil {
		return fmt.Errorf("registry: case registration failed: %w", err)
	}
	if def.GetInput == nil || def.GetInputs == nil {
		return fmt.Errorf("registry: case %q: GetInput and GetInputs must be non-nil", def.Case.CaseID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Case.CaseID]; exists {
		return fmt.Errorf("registry: case %q already registered", def.Case.CaseID)
	}
	r.defs[def.Case.CaseID] = def
	return nil
}

// Get returns the registered definition for id.
func (r *CaseRegistry) Get(id string) (types.CaseDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.defs[id]
	if !ok {
		return types.CaseDefinition{}, fmt.Errorf("registry: case %q not found", id)
	}
	return def, nil
}

// IDs returns all registered case ids in sorted order.
func (r *CaseRegistry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Filter returns the ids of cases tagged with tag.
func (r *CaseRegistry) Filter(tag string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for id, def := range r.defs {
		if def.Case.HasTag(tag) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
