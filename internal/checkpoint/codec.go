package checkpoint

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/justapithecus/graphbench/types"
)

// EncodeMsgpack serializes a shard with a compact binary codec. This is an
// in-process fast path for callers that want a compact snapshot of a
// large shard, and never replaces persistLocked's JSON file format, which
// remains the documented on-disk and wire representation. The `run --tui`
// dashboard does not use it; it reads the JSON shard files via FindShards.
func EncodeMsgpack(shard types.CheckpointShard) ([]byte, error) {
	return msgpack.Marshal(shard)
}

// DecodeMsgpack is the inverse of EncodeMsgpack.
func DecodeMsgpack(data []byte) (types.CheckpointShard, error) {
	var shard types.CheckpointShard
	err := msgpack.Unmarshal(data, &shard)
	return shard, err
}

// SnapshotBinary returns the current shard state encoded with the compact
// binary codec, for callers that poll progress frequently and want to
// avoid JSON's reencoding cost on every tick.
func (s *Store) SnapshotBinary() ([]byte, error) {
	return EncodeMsgpack(s.Snapshot())
}
