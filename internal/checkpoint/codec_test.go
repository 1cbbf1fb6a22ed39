package checkpoint

import (
	"testing"
	"time"

	"github.com/justapithecus/graphbench/types"
)

func sampleShard() types.CheckpointShard {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC).Format(time.RFC3339Nano)
	return types.CheckpointShard{
		ConfigHash:      "abc123def4567890",
		CreatedAt:       now,
		UpdatedAt:       now,
		CompletedRunIDs: []string{"run-1"},
		Results: map[string]types.EvaluationResult{
			"run-1": {Run: types.RunDescriptor{RunID: "run-1", SutID: "dijkstra", CaseID: "small-sparse", Repetition: 1}},
		},
		TotalPlanned: 10,
		WorkerIndex:  0,
		TotalWorkers: 4,
	}
}

func TestEncodeDecodeMsgpack_Roundtrip(t *testing.T) {
	shard := sampleShard()

	encoded, err := EncodeMsgpack(shard)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(encoded) == 0 {
		t.Fatal("expected non-empty encoded payload")
	}

	decoded, err := DecodeMsgpack(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.ConfigHash != shard.ConfigHash {
		t.Errorf("config hash mismatch: got %s, want %s", decoded.ConfigHash, shard.ConfigHash)
	}
	if len(decoded.CompletedRunIDs) != len(shard.CompletedRunIDs) {
		t.Errorf("completed run count mismatch: got %d, want %d", len(decoded.CompletedRunIDs), len(shard.CompletedRunIDs))
	}
	if decoded.TotalPlanned != shard.TotalPlanned {
		t.Errorf("total planned mismatch: got %d, want %d", decoded.TotalPlanned, shard.TotalPlanned)
	}
	got, ok := decoded.Results["run-1"]
	if len(decoded.Results) != 1 || !ok || got.Run.RunID != "run-1" {
		t.Errorf("results did not roundtrip, got %+v", decoded.Results)
	}
}

func TestStore_SnapshotBinary(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, "abc123def4567890", 0, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	result := types.EvaluationResult{Run: types.RunDescriptor{RunID: "run-1", SutID: "dijkstra", CaseID: "small-sparse", Repetition: 1}}
	if err := store.Record(result); err != nil {
		t.Fatalf("record: %v", err)
	}

	encoded, err := store.SnapshotBinary()
	if err != nil {
		t.Fatalf("snapshot binary: %v", err)
	}

	decoded, err := DecodeMsgpack(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.HasCompleted("run-1") {
		t.Error("expected decoded snapshot to report run-1 completed")
	}
}
