// Package types defines the core domain types of the evaluation kernel:
// SUTs, cases, run descriptors, evaluation results, checkpoint shards, and
// claims. Types favor explicit optional fields (pointers) over sentinel
// values and closed enumerations with a Validate method, matching the
// shape of the wire contracts they describe.
package types

// Version is the canonical schema version, stamped on every serialized
// ResultBatch and reported by the CLI's version output. Checkpoint shards
// and claim summaries carry no version field.
const Version = "1.0.0"
