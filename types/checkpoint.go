package types

import "fmt"

// CheckpointShard is one worker's durable record of completed runs,
// persisted as a single JSON document at
// <dir>/checkpoint-worker-NN.json.
type CheckpointShard struct {
	ConfigHash      string                      `json:"configHash"`
	CreatedAt       string                      `json:"createdAt"`
	UpdatedAt       string                      `json:"updatedAt"`
	CompletedRunIDs []string                    `json:"completedRunIds"`
	Results         map[string]EvaluationResult `json:"results"`
	TotalPlanned    uint64                      `json:"totalPlanned"`
	WorkerIndex     uint32                      `json:"workerIndex"`
	TotalWorkers    uint32                      `json:"totalWorkers"`
}

// Validate checks the shard invariants: every completed run id has a
// corresponding result, and the worker index is within range.
func (s *CheckpointShard) Validate() error {
	if s.WorkerIndex >= s.TotalWorkers {
		return fmt.Errorf("checkpoint shard: workerIndex %d out of range [0, %d)", s.WorkerIndex, s.TotalWorkers)
	}
	seen := make(map[string]struct{}, len(s.CompletedRunIDs))
	for _, id := range s.CompletedRunIDs {
		if _, ok := s.Results[id]; !ok {
			return fmt.Errorf("checkpoint shard: completed run %q has no result entry", id)
		}
		seen[id] = struct{}{}
	}
	for id := range s.Results {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("checkpoint shard: result %q is not listed in completedRunIds", id)
		}
	}
	return nil
}

// HasCompleted reports whether runID is already recorded in the shard.
func (s *CheckpointShard) HasCompleted(runID string) bool {
	_, ok := s.Results[runID]
	return ok
}
