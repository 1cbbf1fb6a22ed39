package collector

import (
	"math"
	"testing"

	"github.com/justapithecus/graphbench/types"
)

func validResult(sut, caseID, caseClass string, metric float64) types.EvaluationResult {
	return types.EvaluationResult{
		Run:         types.RunDescriptor{RunID: "abcd1234abcd1234", SutID: sut, CaseID: caseID},
		SutRole:     types.RolePrimary,
		CaseClass:   caseClass,
		Correctness: types.Correctness{ProducedOutput: true, Valid: true},
		Metrics:     types.Metrics{Numeric: map[string]float64{"duration_ms": metric}},
	}
}

func TestCollector_RecordRejectsMissingFields(t *testing.T) {
	c := New()
	if err := c.Record(types.EvaluationResult{}); err == nil {
		t.Error("expected validation error for empty result")
	}
}

func TestCollector_RecordRejectsNaN(t *testing.T) {
	c := New()
	r := validResult("a", "c1", "small", 1)
	r.Metrics.Numeric["duration_ms"] = math.NaN()
	if err := c.Record(r); err == nil {
		t.Error("expected validation error for NaN metric")
	}
}

func TestCollector_RecordBatchStopsOnFirstInvalid(t *testing.T) {
	c := New()
	batch := []types.EvaluationResult{
		validResult("a", "c1", "small", 1),
		{},
		validResult("b", "c1", "small", 2),
	}
	if err := c.RecordBatch(batch); err == nil {
		t.Fatal("expected error from invalid entry")
	}
	if len(c.All()) != 1 {
		t.Errorf("expected 1 already-recorded entry to remain, got %d", len(c.All()))
	}
}

func TestCollector_QueryFilters(t *testing.T) {
	c := New()
	_ = c.Record(validResult("a", "c1", "small", 1))
	_ = c.Record(validResult("b", "c1", "small", 2))
	_ = c.Record(validResult("a", "c2", "large", 3))

	bySut := c.Query(Filter{Sut: "a"})
	if len(bySut) != 2 {
		t.Errorf("expected 2 results for sut a, got %d", len(bySut))
	}

	byClass := c.Query(Filter{CaseClass: "large"})
	if len(byClass) != 1 {
		t.Errorf("expected 1 result for case class large, got %d", len(byClass))
	}
}

func TestCollector_UniqueAndExtract(t *testing.T) {
	c := New()
	_ = c.Record(validResult("a", "c1", "small", 1))
	_ = c.Record(validResult("b", "c1", "small", 2))

	if suts := c.UniqueSuts(); len(suts) != 2 {
		t.Errorf("expected 2 unique suts, got %d", len(suts))
	}
	if classes := c.UniqueCaseClasses(); len(classes) != 1 {
		t.Errorf("expected 1 unique case class, got %d", len(classes))
	}
	if vals := c.ExtractMetric("duration_ms"); len(vals) != 2 {
		t.Errorf("expected 2 metric values, got %d", len(vals))
	}
}

func TestCollector_SerializeRoundTrip(t *testing.T) {
	c := New()
	_ = c.Record(validResult("a", "c1", "small", 1))
	_ = c.Record(validResult("b", "c1", "small", 2))

	data, err := c.Serialize(map[string]any{"experiment": "t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := New()
	if err := loaded.Load(data, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded.All()) != len(c.All()) {
		t.Errorf("expected round trip to preserve %d results, got %d", len(c.All()), len(loaded.All()))
	}
}

func TestCollector_LoadAppendVsReplace(t *testing.T) {
	c := New()
	_ = c.Record(validResult("a", "c1", "small", 1))
	data, err := c.Serialize(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target := New()
	_ = target.Record(validResult("b", "c1", "small", 2))
	if err := target.Load(data, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(target.All()) != 2 {
		t.Errorf("expected append to preserve existing + loaded results, got %d", len(target.All()))
	}

	target2 := New()
	_ = target2.Record(validResult("b", "c1", "small", 2))
	if err := target2.Load(data, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(target2.All()) != 1 {
		t.Errorf("expected replace to discard existing results, got %d", len(target2.All()))
	}
}
