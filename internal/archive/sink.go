// Package archive persists experiment results and claim evaluations to
// Hive-partitioned storage via Lode, and writes the final aggregate report
// as a sidecar file alongside the partitioned records.
package archive

import (
	"context"
	"time"

	"github.com/justapithecus/graphbench/types"
)

// DeriveDay computes the partition day from an experiment's start time.
// Format: YYYY-MM-DD in UTC.
func DeriveDay(startTime time.Time) string {
	return startTime.UTC().Format("2006-01-02")
}

// DefaultDataset is the default Lode dataset name.
const DefaultDataset = "graphbench"

// Config holds archive partition configuration. Experiment, ConfigHash
// and Day are the partition keys of the underlying Hive layout; Dataset
// names the Lode dataset, and NewSink fills an empty one with
// DefaultDataset.
type Config struct {
	// Dataset is the Lode dataset ID (default: "graphbench").
	Dataset string
	// Experiment is the partition key for the experiment name.
	Experiment string
	// ConfigHash is the partition key for the experiment's config hash.
	ConfigHash string
	// Day is the partition key derived from the experiment's start time.
	Day string
}

// Client abstracts the Lode storage client used to persist experiment
// records. Real implementations connect to filesystem or S3-backed Lode
// datasets; stubs are used for testing.
type Client interface {
	// WriteResults writes a batch of evaluation results.
	WriteResults(ctx context.Context, dataset string, batch types.ResultBatch) error
	// WriteClaims writes a batch of claim evaluations.
	WriteClaims(ctx context.Context, dataset string, evals []types.ClaimEvaluation) error
	// Close releases client resources.
	Close() error
}

// Sink is a Lode-backed archive of one experiment's results and claims.
type Sink struct {
	config Config
	client Client
}

// NewSink creates a new archive sink.
func NewSink(config Config, client Client) *Sink {
	if config.Dataset == "" {
		config.Dataset = DefaultDataset
	}
	return &Sink{config: config, client: client}
}

// WriteResults archives a result batch.
func (s *Sink) WriteResults(ctx context.Context, batch types.ResultBatch) error {
	return s.client.WriteResults(ctx, s.config.Dataset, batch)
}

// WriteClaims archives claim evaluations.
func (s *Sink) WriteClaims(ctx context.Context, evals []types.ClaimEvaluation) error {
	return s.client.WriteClaims(ctx, s.config.Dataset, evals)
}

// Close releases the underlying client.
func (s *Sink) Close() error {
	return s.client.Close()
}

// StubClient is a test client that accepts writes without persisting.
type StubClient struct {
	Results []StubResultRecord
	Claims  []StubClaimRecord
	Closed  bool
}

// StubResultRecord is a recorded result write for testing.
type StubResultRecord struct {
	Dataset string
	Batch   types.ResultBatch
}

// StubClaimRecord is a recorded claim write for testing.
type StubClaimRecord struct {
	Dataset string
	Evals   []types.ClaimEvaluation
}

// NewStubClient creates a new stub client.
func NewStubClient() *StubClient {
	return &StubClient{}
}

// WriteResults implements Client.
func (c *StubClient) WriteResults(_ context.Context, dataset string, batch types.ResultBatch) error {
	c.Results = append(c.Results, StubResultRecord{Dataset: dataset, Batch: batch})
	return nil
}

// WriteClaims implements Client.
func (c *StubClient) WriteClaims(_ context.Context, dataset string, evals []types.ClaimEvaluation) error {
	c.Claims = append(c.Claims, StubClaimRecord{Dataset: dataset, Evals: evals})
	return nil
}

// Close implements Client.
func (c *StubClient) Close() error {
	c.Closed = true
	return nil
}

var _ Client = (*StubClient)(nil)
