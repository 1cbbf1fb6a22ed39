package archive

import (
	"context"
	"testing"
	"time"

	"github.com/justapithecus/graphbench/types"
)

func TestDeriveDay(t *testing.T) {
	tests := []struct {
		name      string
		startTime time.Time
		want      string
	}{
		{
			name:      "UTC time",
			startTime: time.Date(2026, 2, 3, 14, 30, 0, 0, time.UTC),
			want:      "2026-02-03",
		},
		{
			name:      "Non-UTC time converts to UTC",
			startTime: time.Date(2026, 2, 3, 22, 0, 0, 0, time.FixedZone("EST", -5*3600)),
			want:      "2026-02-04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveDay(tt.startTime)
			if got != tt.want {
				t.Errorf("DeriveDay() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSink_WriteResultsAndClaims(t *testing.T) {
	client := NewStubClient()
	sink := NewSink(Config{Experiment: "exp-1", ConfigHash: "abc123"}, client)

	batch := types.ResultBatch{
		Version: "1",
		Results: []types.EvaluationResult{
			{Run: types.RunDescriptor{RunID: "r1", SutID: "s1", CaseID: "c1", Repetition: 1}},
		},
	}
	if err := sink.WriteResults(context.Background(), batch); err != nil {
		t.Fatalf("WriteResults failed: %v", err)
	}
	if len(client.Results) != 1 {
		t.Fatalf("expected 1 recorded result batch, got %d", len(client.Results))
	}
	if client.Results[0].Dataset != DefaultDataset {
		t.Errorf("expected default dataset, got %q", client.Results[0].Dataset)
	}

	evals := []types.ClaimEvaluation{{Status: types.StatusSatisfied}}
	if err := sink.WriteClaims(context.Background(), evals); err != nil {
		t.Fatalf("WriteClaims failed: %v", err)
	}
	if len(client.Claims) != 1 {
		t.Fatalf("expected 1 recorded claim batch, got %d", len(client.Claims))
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !client.Closed {
		t.Error("expected client to be closed")
	}
}

func TestStubFileWriter_RecordsPuts(t *testing.T) {
	w := NewStubFileWriter()
	if err := w.PutFile(context.Background(), "report.json", "application/json", []byte("{}")); err != nil {
		t.Fatalf("PutFile failed: %v", err)
	}
	if len(w.Files) != 1 || w.Files[0].Filename != "report.json" {
		t.Fatalf("unexpected recorded files: %+v", w.Files)
	}
}
