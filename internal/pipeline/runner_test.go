package pipeline

import (
	"context"
	"testing"

	"restaurantops/internal/pipelineerr"
)

type fakeStage struct {
	name string
	fn   func(pc *Context) *pipelineerr.Error
}

func (f fakeStage) Name() string { return f.name }
func (f fakeStage) Run(_ context.Context, pc *Context) *pipelineerr.Error {
	return f.fn(pc)
}

func TestRunnerExecutesStagesInOrder(t *testing.T) {
	var order []string
	r := NewRunner(
		fakeStage{"a", func(pc *Context) *pipelineerr.Error { order = append(order, "a"); return nil }},
		fakeStage{"b", func(pc *Context) *pipelineerr.Error { order = append(order, "b"); return nil }},
	)
	pc := NewContext("store-1", "2026-07-01", "/data", nil)
	if err := r.Run(context.Background(), pc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected execution order: %v", order)
	}
	if got := pc.CompletedStages(); len(got) != 2 {
		t.Fatalf("expected 2 completed stages, got %v", got)
	}
}

func TestRunnerStopsOnFatalError(t *testing.T) {
	var ran []string
	r := NewRunner(
		fakeStage{"ingestion", func(pc *Context) *pipelineerr.Error {
			ran = append(ran, "ingestion")
			return pipelineerr.New(pipelineerr.MissingFile, "labor.csv missing")
		}},
		fakeStage{"categorization", func(pc *Context) *pipelineerr.Error {
			ran = append(ran, "categorization")
			return nil
		}},
	)
	pc := NewContext("store-1", "2026-07-01", "/data", nil)
	err := r.Run(context.Background(), pc)
	if err == nil {
		t.Fatal("expected fatal error to propagate")
	}
	if err.Kind != pipelineerr.MissingFile {
		t.Fatalf("expected MissingFile, got %s", err.Kind)
	}
	if err.Stage != "ingestion" {
		t.Fatalf("expected stage annotation, got %q", err.Stage)
	}
	if len(ran) != 1 {
		t.Fatalf("expected runner to stop after fatal error, ran=%v", ran)
	}
}

func TestRunnerContinuesOnNonFatalError(t *testing.T) {
	r := NewRunner(
		fakeStage{"categorization", func(pc *Context) *pipelineerr.Error {
			return pipelineerr.New(pipelineerr.CategorizationError, "bad row", pipelineerr.WithStage("categorization"))
		}},
		fakeStage{"grading", func(pc *Context) *pipelineerr.Error { return nil }},
	)
	pc := NewContext("store-1", "2026-07-01", "/data", nil)
	if err := r.Run(context.Background(), pc); err != nil {
		t.Fatalf("non-fatal error should not propagate: %v", err)
	}
	if _, ok := pc.Metadata("stage_warning:categorization"); !ok {
		t.Fatal("expected non-fatal error to be recorded as metadata")
	}
}

func TestRunnerObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	r := NewRunner(fakeStage{"ingestion", func(pc *Context) *pipelineerr.Error {
		ran = true
		return nil
	}})
	pc := NewContext("store-1", "2026-07-01", "/data", nil)
	err := r.Run(ctx, pc)
	if err == nil || err.Kind != pipelineerr.Cancelled {
		t.Fatalf("expected Cancelled error, got %v", err)
	}
	if ran {
		t.Fatal("stage should not have run after cancellation")
	}
}
