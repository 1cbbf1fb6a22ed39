// Package execplan computes the deterministic set of run descriptors for
// an experiment and assigns each to a worker shard. Planning is pure:
// the same experiment spec always produces the same plan, in the same
// order, regardless of which process computes it.
package execplan

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/justapithecus/graphbench/internal/runid"
	"github.com/justapithecus/graphbench/types"
)

// Plan is the full deterministic run set for one experiment.
type Plan struct {
	// PlanID is an ephemeral, random correlation id for this in-memory
	// plan instance — useful for tying log lines and dashboard updates
	// back to one Build() call. It is never persisted and plays no part
	// in run id derivation, which must stay a pure function of spec
	// content so resumed runs recompute identical ids.
	PlanID      string
	ConfigHash  string
	Descriptors []types.RunDescriptor
}

// Build enumerates |suts|·|cases|·repetitions run descriptors in
// deterministic order (sorted by sutId, then caseId, then repetition),
// each carrying its computed run id.
func Build(spec *types.ExperimentSpec) (*Plan, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("execplan: invalid experiment spec: %w", err)
	}

	configHash, err := runid.GenerateConfigHash(spec)
	if err != nil {
		return nil, fmt.Errorf("execplan: %w", err)
	}

	sutIDs := make([]string, len(spec.Suts))
	for i, s := range spec.Suts {
		sutIDs[i] = s.ID
	}
	sort.Strings(sutIDs)

	caseIDs := make([]string, len(spec.Cases))
	copy(caseIDs, spec.Cases)
	sort.Strings(caseIDs)

	descriptors := make([]types.RunDescriptor, 0, len(sutIDs)*len(caseIDs)*spec.Repetitions)
	for _, sutID := range sutIDs {
		for _, caseID := range caseIDs {
			for rep := 1; rep <= spec.Repetitions; rep++ {
				seed := spec.Seed ^ int64(rep)
				runID, err := runid.GenerateRunID(sutID, caseID, rep, seed, configHash)
				if err != nil {
					return nil, fmt.Errorf("execplan: %w", err)
				}
				descriptors = append(descriptors, types.RunDescriptor{
					RunID:      runID,
					SutID:      sutID,
					CaseID:     caseID,
					Repetition: rep,
					Seed:       seed,
					ConfigHash: configHash,
				})
			}
		}
	}

	return &Plan{PlanID: uuid.NewString(), ConfigHash: configHash, Descriptors: descriptors}, nil
}

// ShardAssignments groups the plan's descriptors into worker buckets of
// size workers, keyed by hash(runId) mod workers.
func (p *Plan) ShardAssignments(workers int) (map[uint32][]types.RunDescriptor, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("execplan: workers must be positive, got %d", workers)
	}
	shards := make(map[uint32][]types.RunDescriptor, workers)
	for _, d := range p.Descriptors {
		idx, err := runid.ShardOf(d.RunID, workers)
		if err != nil {
			return nil, fmt.Errorf("execplan: %w", err)
		}
		shards[idx] = append(shards[idx], d)
	}
	return shards, nil
}
