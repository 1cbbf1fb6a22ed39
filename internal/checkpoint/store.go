// Package checkpoint persists per-worker execution progress so a crashed
// or interrupted run can resume without re-executing completed work.
// Each worker owns exactly one shard file; shards are written with a
// temp-file-then-rename so a reader never observes a partially written
// checkpoint.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/justapithecus/graphbench/internal/iox"
	"github.com/justapithecus/graphbench/types"
)

func shardFileName(workerIndex uint32) string {
	return fmt.Sprintf("checkpoint-worker-%02d.json", workerIndex)
}

// shardFilePattern recognizes shard files among whatever else a
// checkpoint directory may contain (stray temp files from an
// interrupted persistLocked, unrelated files a caller dropped in).
var shardFilePattern = regexp.MustCompile(`^checkpoint-worker-\d+\.json$`)

// ErrCheckpointIncompatible is returned by FindShards when a shard file
// present in dir cannot be reconciled with the requested configHash:
// either it fails to decode, or it was recorded under a different
// config hash. Both are fatal per the config-hash guard — a silent skip
// would hide a configuration change that invalidates prior results.
var ErrCheckpointIncompatible = errors.New("checkpoint: incompatible shard")

// Store manages one worker's checkpoint shard on disk. It is safe for
// concurrent use by the single worker goroutine that owns it; callers
// must not share a Store across workers.
type Store struct {
	mu    sync.Mutex
	dir   string
	shard types.CheckpointShard
}

// Open loads the existing shard for workerIndex from dir, or initializes
// an empty one if no shard file exists yet.
func Open(dir string, configHash string, workerIndex, totalWorkers uint32) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("checkpoint: create dir %q: %w", dir, err)
	}

	s := &Store{
		dir: dir,
		shard: types.CheckpointShard{
			ConfigHash:      configHash,
			CompletedRunIDs: []string{},
			Results:         make(map[string]types.EvaluationResult),
			WorkerIndex:     workerIndex,
			TotalWorkers:    totalWorkers,
		},
	}

	path := filepath.Join(dir, shardFileName(workerIndex))
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open shard %q: %w", path, err)
	}
	defer iox.DiscardClose(f)

	var loaded types.CheckpointShard
	if err := json.NewDecoder(f).Decode(&loaded); err != nil {
		return nil, fmt.Errorf("checkpoint: decode shard %q: %w", path, err)
	}
	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("checkpoint: shard %q failed validation: %w", path, err)
	}
	if loaded.ConfigHash != configHash {
		return nil, fmt.Errorf("checkpoint: shard %q was recorded under config hash %q, current run uses %q — results are not resumable across configuration changes", path, loaded.ConfigHash, configHash)
	}

	s.shard = loaded
	return s, nil
}

// HasCompleted reports whether runID already has a recorded result.
func (s *Store) HasCompleted(runID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shard.HasCompleted(runID)
}

// Record appends result for a newly completed run and persists the
// shard to disk.
func (s *Store) Record(result types.EvaluationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := result.Run.RunID
	if _, exists := s.shard.Results[runID]; !exists {
		s.shard.CompletedRunIDs = append(s.shard.CompletedRunIDs, runID)
	}
	s.shard.Results[runID] = result
	s.shard.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	if s.shard.CreatedAt == "" {
		s.shard.CreatedAt = s.shard.UpdatedAt
	}

	return s.persistLocked()
}

// SetTotalPlanned records how many runs this worker's shard is expected
// to complete, for progress reporting.
func (s *Store) SetTotalPlanned(n uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shard.TotalPlanned = n
	return s.persistLocked()
}

// Snapshot returns a copy of the current shard state.
func (s *Store) Snapshot() types.CheckpointShard {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make(map[string]types.EvaluationResult, len(s.shard.Results))
	for k, v := range s.shard.Results {
		results[k] = v
	}
	completed := make([]string, len(s.shard.CompletedRunIDs))
	copy(completed, s.shard.CompletedRunIDs)

	return types.CheckpointShard{
		ConfigHash:      s.shard.ConfigHash,
		CreatedAt:       s.shard.CreatedAt,
		UpdatedAt:       s.shard.UpdatedAt,
		CompletedRunIDs: completed,
		Results:         results,
		TotalPlanned:    s.shard.TotalPlanned,
		WorkerIndex:     s.shard.WorkerIndex,
		TotalWorkers:    s.shard.TotalWorkers,
	}
}

// persistLocked writes the shard to disk via a temp file followed by an
// atomic rename, so a crash mid-write never corrupts the prior shard.
func (s *Store) persistLocked() error {
	path := filepath.Join(s.dir, shardFileName(s.shard.WorkerIndex))
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("checkpoint: create tmp shard: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.shard); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("checkpoint: encode shard: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("checkpoint: close tmp shard: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("checkpoint: rename shard into place: %w", err)
	}
	return nil
}

// FindShards loads every worker shard file present in dir, sorted by
// worker index. Files whose names do not match the shard pattern, and
// shard files that cannot be opened, are skipped. A shard file that fails
// to decode or was recorded under a config hash other than configHash is
// not skipped: FindShards returns an error wrapping
// ErrCheckpointIncompatible. A missing dir yields no shards and no error.
func FindShards(dir, configHash string) ([]types.CheckpointShard, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checkpoint: read dir %q: %w", dir, err)
	}

	var shards []types.CheckpointShard
	for _, entry := range entries {
		if entry.IsDir() || !shardFilePattern.MatchString(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		var shard types.CheckpointShard
		decodeErr := json.NewDecoder(f).Decode(&shard)
		iox.DiscardClose(f)
		if decodeErr != nil {
			return nil, fmt.Errorf("checkpoint: %w: shard %q failed to decode: %v", ErrCheckpointIncompatible, path, decodeErr)
		}
		if shard.ConfigHash != configHash {
			return nil, fmt.Errorf("checkpoint: %w: shard %q was recorded under config hash %q, current merge uses %q", ErrCheckpointIncompatible, path, shard.ConfigHash, configHash)
		}
		shards = append(shards, shard)
	}

	sort.Slice(shards, func(i, j int) bool { return shards[i].WorkerIndex < shards[j].WorkerIndex })
	return shards, nil
}

// Clear removes every checkpoint shard file in dir, discarding all
// recorded progress.
func Clear(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checkpoint: read dir %q: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !shardFilePattern.MatchString(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("checkpoint: remove %q: %w", entry.Name(), err)
		}
	}
	return nil
}
