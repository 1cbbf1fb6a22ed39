package types

import "fmt"

// ExperimentSpec is the top-level YAML-loadable document describing one
// experiment: the SUTs and cases to cross, repetition count, and the
// claims to evaluate against the resulting results.
type ExperimentSpec struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Suts        []SutSpec         `yaml:"suts" json:"suts"`
	Cases       []string          `yaml:"cases" json:"cases"`
	Repetitions int               `yaml:"repetitions" json:"repetitions"`
	Seed        int64             `yaml:"seed,omitempty" json:"seed,omitempty"`
	Timeout     string            `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Workers     int               `yaml:"workers,omitempty" json:"workers,omitempty"`
	Claims      []EvaluationClaim `yaml:"claims,omitempty" json:"claims,omitempty"`
}

// Validate checks structural invariants of the experiment document:
// a name, at least one SUT and case, a positive repetition count, valid
// and unique SUT ids, and claims that validate and reference declared
// SUTs. SUT roles are not checked against the claims that use them.
func (e *ExperimentSpec) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("experiment spec: name must be non-empty")
	}
	if len(e.Suts) == 0 {
		return fmt.Errorf("experiment %q: at least one sut is required", e.Name)
	}
	if len(e.Cases) == 0 {
		return fmt.Errorf("experiment %q: at least one case is required", e.Name)
	}
	if e.Repetitions < 1 {
		return fmt.Errorf("experiment %q: repetitions must be >= 1, got %d", e.Name, e.Repetitions)
	}
	seen := make(map[string]struct{}, len(e.Suts))
	for i := range e.Suts {
		if err := e.Suts[i].Validate(); err != nil {
			return fmt.Errorf("experiment %q: %w", e.Name, err)
		}
		if _, dup := seen[e.Suts[i].ID]; dup {
			return fmt.Errorf("experiment %q: duplicate sut id %q", e.Name, e.Suts[i].ID)
		}
		seen[e.Suts[i].ID] = struct{}{}
	}
	for i := range e.Claims {
		if err := e.Claims[i].Validate(); err != nil {
			return fmt.Errorf("experiment %q: %w", e.Name, err)
		}
		if _, ok := seen[e.Claims[i].Sut]; !ok {
			return fmt.Errorf("experiment %q: claim %q references unknown sut %q", e.Name, e.Claims[i].ClaimID, e.Claims[i].Sut)
		}
		if _, ok := seen[e.Claims[i].Baseline]; !ok {
			return fmt.Errorf("experiment %q: claim %q references unknown baseline %q", e.Name, e.Claims[i].ClaimID, e.Claims[i].Baseline)
		}
	}
	return nil
}
