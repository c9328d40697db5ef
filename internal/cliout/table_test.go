package cliout

import (
	"bytes"
	"strings"
	"testing"

	"restaurantops/internal/domain"
)

func TestWriteRunResultSuccess(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(&buf)

	r := domain.PipelineRunResult{
		Restaurant: "SDR", Date: "2026-03-02", Success: true,
		TotalSales:   1000,
		LaborMetrics: domain.LaborMetrics{LaborPercentage: 25, Grade: "B"},
	}
	if err := f.WriteRunResult(r); err != nil {
		t.Fatalf("WriteRunResult() failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "SDR") || !strings.Contains(out, "OK") {
		t.Errorf("expected rendered row with restaurant and OK status, got %q", out)
	}
}

func TestWriteBatchSummaryCountsAndFailureLines(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(&buf)

	results := []domain.PipelineRunResult{
		{Restaurant: "SDR", Date: "2026-03-02", Success: true, TotalSales: 500},
		{
			Restaurant: "SDR", Date: "2026-03-03", Success: false,
			Error: &domain.RunError{Stage: "ingestion", Kind: "MISSING_FILE", Message: "labor.csv not found"},
		},
	}
	if err := f.WriteBatchSummary(results); err != nil {
		t.Fatalf("WriteBatchSummary() failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "1 succeeded, 1 failed") {
		t.Errorf("expected summary line, got %q", out)
	}
	if !strings.Contains(out, "ingestion") || !strings.Contains(out, "MISSING_FILE") {
		t.Errorf("expected per-failure line with stage and kind, got %q", out)
	}
}
