package cliout

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONFormatterWriteSuccess(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewJSONFormatter(&buf)

	if err := formatter.WriteSuccess("run", map[string]any{"restaurant": "SDR"}, "run completed"); err != nil {
		t.Fatalf("WriteSuccess() failed: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out["success"] != true {
		t.Errorf("expected success=true, got %v", out["success"])
	}
	if out["command"] != "run" {
		t.Errorf("expected command=run, got %v", out["command"])
	}
}

func TestJSONFormatterWriteError(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewJSONFormatter(&buf)

	if err := formatter.WriteError("run", "labor.csv not found", "MISSING_FILE", "check the data directory"); err != nil {
		t.Fatalf("WriteError() failed: %v", err)
	}

	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Success {
		t.Error("expected success=false")
	}
	if out.Error == nil || out.Error.Code != "MISSING_FILE" {
		t.Fatalf("expected error code MISSING_FILE, got %+v", out.Error)
	}
}
