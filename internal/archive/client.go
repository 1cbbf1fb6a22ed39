package archive

import (
	"context"
	"sync"

	"github.com/justapithecus/lode/lode"

	"github.com/justapithecus/graphbench/types"
)

// LodeClient is a real Lode-backed implementation of Client. Uses Lode's
// HiveLayout with partition keys: experiment/config_hash/day/record_kind.
type LodeClient struct {
	dataset lode.Dataset
	config  Config

	storeOnce sync.Once
	store     lode.Store
	storeErr  error
	storeFact lode.StoreFactory
}

// NewLodeClient creates a new Lode client with filesystem storage. root is
// the base directory for Hive-partitioned storage.
func NewLodeClient(cfg Config, root string) (*LodeClient, error) {
	return NewLodeClientWithFactory(cfg, lode.NewFSFactory(root))
}

// NewLodeClientWithFactory creates a new Lode client with a custom store
// factory. Use lode.NewMemoryFactory() for testing.
func NewLodeClientWithFactory(cfg Config, factory lode.StoreFactory) (*LodeClient, error) {
	ds, err := lode.NewDataset(
		lode.DatasetID(cfg.Dataset),
		factory,
		lode.WithHiveLayout("experiment", "config_hash", "day", "record_kind"),
		lode.WithCodec(lode.NewJSONLCodec()),
	)
	if err != nil {
		return nil, err
	}

	return &LodeClient{dataset: ds, config: cfg, storeFact: factory}, nil
}

// WriteResults writes a batch of evaluation results to the
// record_kind=result partition.
func (c *LodeClient) WriteResults(ctx context.Context, dataset string, batch types.ResultBatch) error {
	if len(batch.Results) == 0 {
		return nil
	}

	records := make([]any, 0, len(batch.Results))
	for _, r := range batch.Results {
		records = append(records, toResultRecordMap(r, c.config))
	}

	_, err := c.dataset.Write(ctx, records, lode.Metadata{})
	return WrapWriteError(err, c.config.Dataset)
}

// WriteClaims writes a batch of claim evaluations to the
// record_kind=claim partition.
func (c *LodeClient) WriteClaims(ctx context.Context, dataset string, evals []types.ClaimEvaluation) error {
	if len(evals) == 0 {
		return nil
	}

	records := make([]any, 0, len(evals))
	for _, e := range evals {
		records = append(records, toClaimRecordMap(e, c.config))
	}

	_, err := c.dataset.Write(ctx, records, lode.Metadata{})
	return WrapWriteError(err, c.config.Dataset)
}

// Close releases client resources.
func (c *LodeClient) Close() error {
	return nil
}

func toResultRecordMap(r types.EvaluationResult, cfg Config) map[string]any {
	return map[string]any{
		"experiment":   cfg.Experiment,
		"config_hash":  cfg.ConfigHash,
		"day":          cfg.Day,
		"record_kind":  "result",
		"run_id":       r.Run.RunID,
		"sut_id":       r.Run.SutID,
		"case_id":      r.Run.CaseID,
		"repetition":   r.Run.Repetition,
		"sut_role":     string(r.SutRole),
		"case_class":   r.CaseClass,
		"valid":        r.Correctness.Valid,
		"metrics":      r.Metrics.Numeric,
		"provenance":   r.Provenance,
	}
}

func toClaimRecordMap(e types.ClaimEvaluation, cfg Config) map[string]any {
	return map[string]any{
		"experiment":  cfg.Experiment,
		"config_hash": cfg.ConfigHash,
		"day":         cfg.Day,
		"record_kind": "claim",
		"claim_id":    e.Claim.ClaimID,
		"status":      string(e.Status),
		"evidence":    e.Evidence,
		"reason":      e.InconclusiveReason,
	}
}

var _ Client = (*LodeClient)(nil)
