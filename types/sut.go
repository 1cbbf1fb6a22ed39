package types

import (
	"context"
	"fmt"
)

// SutRole classifies a SUT's place in a claim comparison.
type SutRole string

const (
	// RolePrimary is the system whose behavior a claim makes assertions about.
	RolePrimary SutRole = "primary"
	// RoleBaseline is the system a primary is compared against.
	RoleBaseline SutRole = "baseline"
)

// Validate reports whether r is one of the closed set of roles.
func (r SutRole) Validate() error {
	switch r {
	case RolePrimary, RoleBaseline:
		return nil
	default:
		return fmt.Errorf("invalid sut role %q: must be %q or %q", r, RolePrimary, RoleBaseline)
	}
}

// SutSpec describes a registered system under test. ID encodes
// name-vMAJOR.MINOR.PATCH and is the stable key across runs.
type SutSpec struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Version        string         `json:"version"`
	Role           SutRole        `json:"role"`
	ConfigDefaults map[string]any `json:"config_defaults,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
}

// Validate checks the spec's required fields and role enum.
func (s *SutSpec) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("sut spec: id must be non-empty")
	}
	if s.Name == "" {
		return fmt.Errorf("sut spec %q: name must be non-empty", s.ID)
	}
	if s.Version == "" {
		return fmt.Errorf("sut spec %q: version must be non-empty", s.ID)
	}
	if err := s.Role.Validate(); err != nil {
		return fmt.Errorf("sut spec %q: %w", s.ID, err)
	}
	return nil
}

// SutOutput is the opaque result a SUT instance produces. The kernel only
// requires the flat numeric metrics map; everything else travels as an
// opaque payload for downstream adapters.
type SutOutput struct {
	// Valid is true when the SUT believes it produced a usable answer.
	Valid bool `json:"valid"`
	// MatchesExpected is set when the case carries a known-correct answer.
	MatchesExpected *bool `json:"matches_expected,omitempty"`
	// Metrics is the flat numeric measurement map required by the kernel.
	Metrics map[string]float64 `json:"metrics"`
	// Outputs is an opaque, SUT-family-specific payload.
	Outputs map[string]any `json:"outputs,omitempty"`
}

// SutInvocation bundles the two pieces of input a case contributes to a
// single run: the lazily-loaded heavyweight resource (a graph, cached and
// shared across runs within one worker) and the per-run argument structure a case's
// GetInputs returns fresh for every invocation.
type SutInvocation struct {
	Resource any
	Args     any
}

// SutInstance is anything that implements the run(inputs) -> result contract.
// Implementations must not retain shared mutable state across concurrent
// instances produced by the same factory.
type SutInstance interface {
	// ID returns the same stable identifier as the spec that created it.
	ID() string
	// Run executes the SUT against inputs and returns its output. Run must
	// respect ctx cancellation/deadline for timeout enforcement.
	Run(ctx context.Context, inputs any) (SutOutput, error)
}

// SutFactory constructs an executable SUT instance from an optional config
// overlay. Factories must not retain mutable state shared across instances.
type SutFactory func(configOverride map[string]any) (SutInstance, error)
