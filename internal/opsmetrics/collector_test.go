package opsmetrics

import "testing"

func TestCollector_IncrementAndSnapshot(t *testing.T) {
	c := NewCollector()
	c.IncRunStarted()
	c.IncRunStarted()
	c.IncRunCompleted()
	c.IncRunFailed()
	c.IncMemoryWarning()

	snap := c.Snapshot()
	if snap.RunsStarted != 2 {
		t.Errorf("expected 2 runs started, got %d", snap.RunsStarted)
	}
	if snap.RunsCompleted != 1 {
		t.Errorf("expected 1 run completed, got %d", snap.RunsCompleted)
	}
	if snap.RunsFailed != 1 {
		t.Errorf("expected 1 run failed, got %d", snap.RunsFailed)
	}
	if snap.MemoryWarnings != 1 {
		t.Errorf("expected 1 memory warning, got %d", snap.MemoryWarnings)
	}
}

func TestCollector_NilReceiverSafe(t *testing.T) {
	var c *Collector
	c.IncRunStarted()
	c.IncRunCompleted()
	if snap := c.Snapshot(); snap.RunsStarted != 0 {
		t.Errorf("expected zero-value snapshot from nil collector, got %+v", snap)
	}
}
