package pipelineerr

import (
	"errors"
	"testing"
	"time"
)

func TestNewAndOptions(t *testing.T) {
	cause := errors.New("boom")
	e := New(StorageError, "write failed",
		WithStage("storage"),
		WithDetail("table=daily_operations"),
		WithElapsed(2*time.Second),
		WithCause(cause),
	)

	if e.Kind != StorageError {
		t.Fatalf("expected StorageError, got %s", e.Kind)
	}
	if e.Stage != "storage" {
		t.Fatalf("expected stage storage, got %s", e.Stage)
	}
	if !errors.Is(e, cause) {
		t.Fatalf("expected Unwrap to expose cause")
	}
	want := "[storage] STORAGE_ERROR: write failed: table=daily_operations"
	if e.Error() != want {
		t.Fatalf("got %q want %q", e.Error(), want)
	}
}

func TestFatalClassification(t *testing.T) {
	cases := []struct {
		kind  Kind
		fatal bool
	}{
		{ConfigError, true},
		{MissingFile, true},
		{ValidationError, true},
		{QualityWarning, false},
		{CategorizationError, false},
		{GradingError, true},
		{PatternError, false},
		{StorageError, true},
		{Timeout, true},
		{Cancelled, true},
	}
	for _, c := range cases {
		if c.kind.Fatal() != c.fatal {
			t.Errorf("%s: expected Fatal()=%v", c.kind, c.fatal)
		}
	}
}

func TestFrom(t *testing.T) {
	if From(StorageError, "s", nil) != nil {
		t.Fatalf("From(nil) must return nil")
	}
	plain := errors.New("disk full")
	wrapped := From(StorageError, "storage", plain)
	if wrapped.Kind != StorageError || wrapped.Stage != "storage" {
		t.Fatalf("unexpected wrap: %+v", wrapped)
	}

	already := New(Timeout, "slow run")
	if From(StorageError, "storage", already) != already {
		t.Fatalf("From must pass through an existing *Error unchanged")
	}
}
