// Package runid derives deterministic identifiers for runs and
// experiment configurations. A run_id is a pure function of
// (sutId, caseId, repetition, seed, configHash) so that re-planning the
// same experiment always reproduces the same identifiers, which is what
// makes checkpoint shards resumable across process restarts.
package runid

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/justapithecus/graphbench/types"
)

// runIDPattern matches the canonical lowercase-hex run_id shape.
var runIDPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

// configHashPattern matches the canonical lowercase-hex config_hash shape.
var configHashPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

// GenerateConfigHash derives a stable hash for an experiment's
// configuration surface (everything that, if it changed, would make
// previously recorded results no longer comparable to new ones).
func GenerateConfigHash(spec *types.ExperimentSpec) (string, error) {
	canon := struct {
		Suts        []types.SutSpec `json:"suts"`
		Cases       []string        `json:"cases"`
		Repetitions int             `json:"repetitions"`
		Seed        int64           `json:"seed"`
	}{
		Suts:        spec.Suts,
		Cases:       spec.Cases,
		Repetitions: spec.Repetitions,
		Seed:        spec.Seed,
	}
	return hashJSONTruncated(canon, 8)
}

// GenerateRunID derives the stable identifier for one (sut, case,
// repetition) triple. Two descriptors with identical fields (other than
// RunID itself) always produce the same id.
func GenerateRunID(sutID, caseID string, repetition int, seed int64, configHash string) (string, error) {
	canon := runIDCanon(sutID, caseID, repetition, seed, configHash)
	return hashJSONTruncated(canon, 16)
}

// runIDCanon builds the canonical value that GenerateRunID and
// ValidateRunID both hash (hashJSONTruncated sorts its keys) — kept as a
// single function so
// the two can never drift apart on field set or ordering.
func runIDCanon(sutID, caseID string, repetition int, seed int64, configHash string) any {
	return struct {
		SutID      string `json:"sut_id"`
		CaseID     string `json:"case_id"`
		Repetition int    `json:"repetition"`
		Seed       int64  `json:"seed"`
		ConfigHash string `json:"config_hash"`
	}{
		SutID:      sutID,
		CaseID:     caseID,
		Repetition: repetition,
		Seed:       seed,
		ConfigHash: configHash,
	}
}

// ValidateRunID recomputes the run id from inputs and compares it against
// s. This is strictly stronger than Validate's shape check: a string that
// merely looks like a run id but was not derived from inputs is rejected.
func ValidateRunID(s, sutID, caseID string, repetition int, seed int64, configHash string) error {
	want, err := GenerateRunID(sutID, caseID, repetition, seed, configHash)
	if err != nil {
		return err
	}
	if s != want {
		return fmt.Errorf("runid: %q does not match the id derived from its inputs (want %q)", s, want)
	}
	return nil
}

// ParsedRunID reports the outcome of parsing a candidate run id string.
type ParsedRunID struct {
	Valid  bool
	Length int
}

// ParseRunID reports whether s has the canonical run_id shape, without
// recomputing it from any inputs. Use ValidateRunID when inputs are
// available; ParseRunID is the shape-only check for contexts (e.g. CLI
// flags) where they are not.
func ParseRunID(s string) ParsedRunID {
	return ParsedRunID{Valid: runIDPattern.MatchString(s), Length: len(s)}
}

// hashJSONTruncated marshals v to its canonical JSON form and returns the
// first n hex characters of its SHA-256 digest. v is marshaled, decoded
// into generic maps (numbers kept as json.Number, so nothing is rounded)
// and marshaled again; encoding/json writes map keys in sorted order, so
// the hashed form has lexicographically sorted keys at every nesting
// level regardless of struct field order.
func hashJSONTruncated(v any, n int) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("runid: marshal canonical form: %w", err)
	}
	var generic any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return "", fmt.Errorf("runid: decode canonical form: %w", err)
	}
	if b, err = json.Marshal(generic); err != nil {
		return "", fmt.Errorf("runid: marshal canonical form: %w", err)
	}
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])[:n], nil
}

// Validate reports whether id has the canonical 16-hex run_id shape.
func Validate(id string) error {
	if !runIDPattern.MatchString(id) {
		return fmt.Errorf("runid: %q is not a valid run id (want 16 lowercase hex chars)", id)
	}
	return nil
}

// ValidateConfigHash reports whether hash has the canonical 8-hex
// config_hash shape.
func ValidateConfigHash(hash string) error {
	if !configHashPattern.MatchString(hash) {
		return fmt.Errorf("runid: %q is not a valid config hash (want 8 lowercase hex chars)", hash)
	}
	return nil
}

// ShardOf maps a run_id to a worker shard index via hash(runId) mod
// workers, giving a deterministic, stable assignment independent of
// enumeration order.
func ShardOf(runID string, workers int) (uint32, error) {
	if workers <= 0 {
		return 0, fmt.Errorf("runid: workers must be positive, got %d", workers)
	}
	if err := Validate(runID); err != nil {
		return 0, err
	}
	h := sha256.Sum256([]byte(runID))
	// Fold the first 8 bytes of the digest into a uint64 before the
	// modulo so the distribution doesn't depend on the hex encoding.
	var acc uint64
	for _, b := range h[:8] {
		acc = acc<<8 | uint64(b)
	}
	return uint32(acc % uint64(workers)), nil
}
