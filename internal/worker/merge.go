package worker

import (
	"fmt"

	"github.com/justapithecus/graphbench/internal/checkpoint"
	"github.com/justapithecus/graphbench/internal/execplan"
	"github.com/justapithecus/graphbench/types"
)

// MergeResult is the union of every worker shard's results plus any
// planned runs that never completed.
type MergeResult struct {
	Results       []types.EvaluationResult
	SkippedRunIDs []string
}

// Merge reads every checkpoint shard for plan's config hash, verifies
// they agree on config hash and share no run id, and unions their
// results. Any descriptor in plan with no corresponding result is
// reported as skipped rather than treated as an error, since a worker
// may have stopped early on cancellation or memory pressure.
func Merge(dir string, plan *execplan.Plan) (*MergeResult, error) {
	shards, err := checkpoint.FindShards(dir, plan.ConfigHash)
	if err != nil {
		return nil, fmt.Errorf("worker: merge: %w", err)
	}

	merged := make(map[string]types.EvaluationResult)
	for _, shard := range shards {
		for runID, result := range shard.Results {
			if existing, dup := merged[runID]; dup {
				return nil, fmt.Errorf("worker: merge: run id %q present in more than one shard (worker %d and a duplicate) — sharding bug", runID, existing.Provenance.WorkerIndex)
			}
			merged[runID] = result
		}
	}

	results := make([]types.EvaluationResult, 0, len(merged))
	for _, r := range merged {
		results = append(results, r)
	}

	var skipped []string
	for _, desc := range plan.Descriptors {
		if _, ok := merged[desc.RunID]; !ok {
			skipped = append(skipped, desc.RunID)
		}
	}

	return &MergeResult{Results: results, SkippedRunIDs: skipped}, nil
}
