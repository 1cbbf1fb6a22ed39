package checkpoint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/justapithecus/graphbench/types"
)

func sampleResult(runID string) types.EvaluationResult {
	return types.EvaluationResult{
		Run:     types.RunDescriptor{RunID: runID, SutID: "sut-a", CaseID: "case-1", Repetition: 1},
		SutRole: types.RolePrimary,
		Metrics: types.Metrics{Numeric: map[string]float64{"duration_ms": 12.5}},
	}
}

func TestStore_RecordAndReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, "cfg-hash", 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.HasCompleted("r1") {
		t.Error("expected fresh store to have no completed runs")
	}
	if err := s.Record(sampleResult("r1")); err != nil {
		t.Fatalf("unexpected error recording result: %v", err)
	}
	if !s.HasCompleted("r1") {
		t.Error("expected r1 to be recorded as completed")
	}

	reopened, err := Open(dir, "cfg-hash", 0, 2)
	if err != nil {
		t.Fatalf("unexpected error reopening store: %v", err)
	}
	if !reopened.HasCompleted("r1") {
		t.Error("expected reopened store to recall completed run across restart")
	}
}

func TestStore_RejectsMismatchedConfigHash(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, "cfg-hash-1", 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Record(sampleResult("r1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := Open(dir, "cfg-hash-2", 0, 1); err == nil {
		t.Error("expected error opening shard under a different config hash")
	}
}

func TestStore_Snapshot(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "cfg-hash", 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = s.Record(sampleResult("r1"))
	_ = s.Record(sampleResult("r2"))

	snap := s.Snapshot()
	if len(snap.CompletedRunIDs) != 2 {
		t.Errorf("expected 2 completed runs, got %d", len(snap.CompletedRunIDs))
	}
	if err := snap.Validate(); err != nil {
		t.Errorf("snapshot failed validation: %v", err)
	}
}

func TestFindShards_LoadsMatchingShardsSortedByWorkerIndex(t *testing.T) {
	dir := t.TempDir()

	s0, _ := Open(dir, "cfg-match", 0, 2)
	_ = s0.Record(sampleResult("r1"))
	s1, _ := Open(dir, "cfg-match", 1, 2)
	_ = s1.Record(sampleResult("r2"))

	other, _ := Open(t.TempDir(), "cfg-other", 0, 1)
	_ = other.Record(sampleResult("r3"))

	shards, err := FindShards(dir, "cfg-match")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shards) != 2 {
		t.Fatalf("expected 2 shards, got %d", len(shards))
	}
	if shards[0].WorkerIndex != 0 || shards[1].WorkerIndex != 1 {
		t.Errorf("expected shards sorted by worker index, got %d then %d", shards[0].WorkerIndex, shards[1].WorkerIndex)
	}
}

func TestFindShards_FatalOnMismatchedShardInSameDir(t *testing.T) {
	dir := t.TempDir()

	s0, _ := Open(dir, "cfg-match", 0, 2)
	_ = s0.Record(sampleResult("r1"))
	s1, _ := Open(dir, "cfg-drifted", 1, 2)
	_ = s1.Record(sampleResult("r2"))

	_, err := FindShards(dir, "cfg-match")
	if err == nil {
		t.Fatal("expected a fatal error for a mismatched shard sharing the checkpoint directory")
	}
	if !errors.Is(err, ErrCheckpointIncompatible) {
		t.Errorf("expected ErrCheckpointIncompatible, got %v", err)
	}
}

func TestFindShards_IgnoresNonShardFiles(t *testing.T) {
	dir := t.TempDir()

	s0, _ := Open(dir, "cfg-match", 0, 1)
	_ = s0.Record(sampleResult("r1"))

	if err := os.WriteFile(filepath.Join(dir, "checkpoint-worker-00.json.tmp"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("unrelated"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shards, err := FindShards(dir, "cfg-match")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shards) != 1 {
		t.Fatalf("expected 1 shard, got %d", len(shards))
	}
}

func TestClear_RemovesAllShards(t *testing.T) {
	dir := t.TempDir()
	s, _ := Open(dir, "cfg-hash", 0, 1)
	_ = s.Record(sampleResult("r1"))

	if err := Clear(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shards, err := FindShards(dir, "cfg-hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shards) != 0 {
		t.Errorf("expected no shards after Clear, got %d", len(shards))
	}
}
