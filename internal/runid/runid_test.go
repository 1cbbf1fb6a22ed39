package runid

import (
	"testing"

	"github.com/justapithecus/graphbench/types"
)

func TestGenerateRunID_Deterministic(t *testing.T) {
	id1, err := GenerateRunID("sut-a", "case-1", 1, 42, "abcd1234abcd1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id2, err := GenerateRunID("sut-a", "case-1", 1, 42, "abcd1234abcd1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id1 != id2 {
		t.Errorf("expected deterministic run id, got %q and %q", id1, id2)
	}
	if err := Validate(id1); err != nil {
		t.Errorf("generated id failed validation: %v", err)
	}
}

func TestGenerateRunID_DiffersByField(t *testing.T) {
	base, _ := GenerateRunID("sut-a", "case-1", 1, 42, "abcd1234abcd1234")
	cases := []string{
		mustID(t, "sut-b", "case-1", 1, 42, "abcd1234abcd1234"),
		mustID(t, "sut-a", "case-2", 1, 42, "abcd1234abcd1234"),
		mustID(t, "sut-a", "case-1", 2, 42, "abcd1234abcd1234"),
		mustID(t, "sut-a", "case-1", 1, 7, "abcd1234abcd1234"),
		mustID(t, "sut-a", "case-1", 1, 42, "ffff1234abcd1234"),
	}
	for _, c := range cases {
		if c == base {
			t.Errorf("expected differing field to change run id, got collision %q", c)
		}
	}
}

func mustID(t *testing.T, sutID, caseID string, rep int, seed int64, cfg string) string {
	t.Helper()
	id, err := GenerateRunID(sutID, caseID, rep, seed, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return id
}

func TestGenerateConfigHash_StableAcrossFieldOrder(t *testing.T) {
	spec1 := &types.ExperimentSpec{
		Suts:        []types.SutSpec{{ID: "a", Name: "A", Version: "1.0.0", Role: types.RolePrimary}},
		Cases:       []string{"c1", "c2"},
		Repetitions: 5,
		Seed:        1,
	}
	spec2 := &types.ExperimentSpec{
		Suts:        []types.SutSpec{{ID: "a", Name: "A", Version: "1.0.0", Role: types.RolePrimary}},
		Cases:       []string{"c1", "c2"},
		Repetitions: 5,
		Seed:        1,
	}
	h1, err := GenerateConfigHash(spec1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h2, err := GenerateConfigHash(spec2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h1 != h2 {
		t.Errorf("expected identical config hash, got %q and %q", h1, h2)
	}
}

func TestValidate_RejectsMalformed(t *testing.T) {
	bad := []string{"", "too-short", "ZZZZ1234ZZZZ1234", "abcd1234abcd123"}
	for _, id := range bad {
		if err := Validate(id); err == nil {
			t.Errorf("expected Validate(%q) to fail", id)
		}
	}
}

func TestShardOf_DeterministicAndInRange(t *testing.T) {
	id, err := GenerateRunID("sut-a", "case-1", 1, 42, "abcd1234abcd1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const workers = 4
	shard1, err := ShardOf(id, workers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	shard2, err := ShardOf(id, workers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shard1 != shard2 {
		t.Errorf("expected deterministic shard assignment, got %d and %d", shard1, shard2)
	}
	if shard1 >= workers {
		t.Errorf("shard %d out of range [0, %d)", shard1, workers)
	}
}

func TestShardOf_RejectsNonPositiveWorkers(t *testing.T) {
	id, _ := GenerateRunID("sut-a", "case-1", 1, 42, "abcd1234abcd1234")
	if _, err := ShardOf(id, 0); err == nil {
		t.Error("expected error for zero workers")
	}
}

func TestGenerateConfigHash_IsEightHex(t *testing.T) {
	spec := &types.ExperimentSpec{
		Suts:        []types.SutSpec{{ID: "a", Name: "A", Version: "1.0.0", Role: types.RolePrimary}},
		Cases:       []string{"c1"},
		Repetitions: 1,
		Seed:        1,
	}
	h, err := GenerateConfigHash(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h) != 8 {
		t.Errorf("expected 8-hex config hash, got %q (len %d)", h, len(h))
	}
	if err := ValidateConfigHash(h); err != nil {
		t.Errorf("generated config hash failed validation: %v", err)
	}
}

func TestValidateRunID_AcceptsMatchingInputs(t *testing.T) {
	id, err := GenerateRunID("sut-a", "case-1", 1, 42, "abcd1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateRunID(id, "sut-a", "case-1", 1, 42, "abcd1234"); err != nil {
		t.Errorf("expected matching inputs to validate, got %v", err)
	}
}

func TestValidateRunID_RejectsMismatchedInputs(t *testing.T) {
	id, err := GenerateRunID("sut-a", "case-1", 1, 42, "abcd1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateRunID(id, "sut-a", "case-2", 1, 42, "abcd1234"); err == nil {
		t.Error("expected mismatched inputs to fail validation")
	}
}

func TestParseRunID(t *testing.T) {
	id, _ := GenerateRunID("sut-a", "case-1", 1, 42, "abcd1234")
	if p := ParseRunID(id); !p.Valid || p.Length != 16 {
		t.Errorf("expected valid 16-length parse, got %+v", p)
	}
	if p := ParseRunID("too-short"); p.Valid {
		t.Errorf("expected malformed id to be invalid, got %+v", p)
	}
}

func TestValidateConfigHash_RejectsMalformed(t *testing.T) {
	bad := []string{"", "abcd123", "abcd12345", "zzzzzzzz"}
	for _, h := range bad {
		if err := ValidateConfigHash(h); err == nil {
			t.Errorf("expected ValidateConfigHash(%q) to fail", h)
		}
	}
}
