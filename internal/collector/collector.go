// Package collector buffers and validates EvaluationResult values after
// the merge phase, and supports the queries the aggregator and claim
// evaluator need over them.
package collector

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/justapithecus/graphbench/types"
)

// ValidationError describes one failed required field on a result.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Collector buffers validated results in insertion order. Not safe for
// concurrent writers; the merge phase is single-threaded by design.
type Collector struct {
	results []types.EvaluationResult
}

// New creates an empty Collector.
func New() *Collector {
	return &Collector{}
}

// Record validates r and appends it. On validation failure the result
// is not added and the first ValidationError encountered is returned.
func (c *Collector) Record(r types.EvaluationResult) error {
	if err := validate(r); err != nil {
		return err
	}
	c.results = append(c.results, r)
	return nil
}

// RecordBatch records each result in order, stopping at the first
// invalid one. Results recorded before the failure remain in the
// collector.
func (c *Collector) RecordBatch(rs []types.EvaluationResult) error {
	for i, r := range rs {
		if err := c.Record(r); err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
	}
	return nil
}

func validate(r types.EvaluationResult) error {
	if r.Run.RunID == "" {
		return ValidationError{"run.runId", "must be present"}
	}
	if r.Run.SutID == "" {
		return ValidationError{"run.sutId", "must be present"}
	}
	if r.SutRole == "" {
		return ValidationError{"run.sutRole", "must be present"}
	}
	if r.Run.CaseID == "" {
		return ValidationError{"run.caseId", "must be present"}
	}
	if r.Metrics.Numeric == nil {
		return ValidationError{"metrics.numeric", "must be present"}
	}
	for metric, v := range r.Metrics.Numeric {
		if math.IsNaN(v) {
			return ValidationError{fmt.Sprintf("metrics.numeric.%s", metric), "must not be NaN"}
		}
	}
	return nil
}

// Filter selects results matching every non-zero field of f.
type Filter struct {
	Sut       string
	SutRole   types.SutRole
	CaseID    string
	CaseClass string
	Valid     *bool
	HasMetric string
	Predicate func(types.EvaluationResult) bool
}

// Query returns every recorded result matching f.
func (c *Collector) Query(f Filter) []types.EvaluationResult {
	var out []types.EvaluationResult
	for _, r := range c.results {
		if f.Sut != "" && r.Run.SutID != f.Sut {
			continue
		}
		if f.SutRole != "" && r.SutRole != f.SutRole {
			continue
		}
		if f.CaseID != "" && r.Run.CaseID != f.CaseID {
			continue
		}
		if f.CaseClass != "" && r.CaseClass != f.CaseClass {
			continue
		}
		if f.Valid != nil && r.Correctness.Valid != *f.Valid {
			continue
		}
		if f.HasMetric != "" {
			if _, ok := r.Metrics.Numeric[f.HasMetric]; !ok {
				continue
			}
		}
		if f.Predicate != nil && !f.Predicate(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// All returns every recorded result.
func (c *Collector) All() []types.EvaluationResult {
	out := make([]types.EvaluationResult, len(c.results))
	copy(out, c.results)
	return out
}

// UniqueSuts returns every distinct sut id recorded, in first-seen order.
func (c *Collector) UniqueSuts() []string {
	return uniqueBy(c.results, func(r types.EvaluationResult) string { return r.Run.SutID })
}

// UniqueCaseClasses returns every distinct case class recorded, in
// first-seen order.
func (c *Collector) UniqueCaseClasses() []string {
	return uniqueBy(c.results, func(r types.EvaluationResult) string { return r.CaseClass })
}

// UniqueMetrics returns every distinct metric name recorded, in
// first-seen order.
func (c *Collector) UniqueMetrics() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range c.results {
		for metric := range r.Metrics.Numeric {
			if _, ok := seen[metric]; !ok {
				seen[metric] = struct{}{}
				out = append(out, metric)
			}
		}
	}
	return out
}

func uniqueBy(results []types.EvaluationResult, key func(types.EvaluationResult) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range results {
		k := key(r)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

// MetricValues returns the recorded values of metric for sut, in
// recording order, skipping results where the metric is absent.
func (c *Collector) MetricValues(sut, metric string) []float64 {
	var out []float64
	for _, r := range c.results {
		if sut != "" && r.Run.SutID != sut {
			continue
		}
		if v, ok := r.Metrics.Numeric[metric]; ok {
			out = append(out, v)
		}
	}
	return out
}

// ExtractMetric returns every recorded value of metric across all SUTs.
func (c *Collector) ExtractMetric(metric string) []float64 {
	return c.MetricValues("", metric)
}

// Serialize snapshots the collector as a ResultBatch.
func (c *Collector) Serialize(metadata map[string]any) ([]byte, error) {
	batch := types.ResultBatch{
		Version:   types.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Results:   c.All(),
		Metadata:  metadata,
	}
	b, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("collector: serialize: %w", err)
	}
	return b, nil
}

// Load decodes a ResultBatch and records its results. When append is
// false the collector is cleared first.
func (c *Collector) Load(data []byte, appendResults bool) error {
	var batch types.ResultBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return fmt.Errorf("collector: load: %w", err)
	}
	if !appendResults {
		c.results = nil
	}
	return c.RecordBatch(batch.Results)
}
