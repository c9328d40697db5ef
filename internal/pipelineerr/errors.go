// Package pipelineerr defines the structured error taxonomy shared across
// every pipeline stage and the batch orchestrator. It plays the role the
// source system gave a Result[T] monad: stages return a value or an *Error,
// never a panic, and callers branch on Kind rather than type-asserting.
package pipelineerr

import (
	"fmt"
	"time"
)

// Kind is a coarse category of failure. It is not a Go error type hierarchy;
// it is the thing operators and the batch artifact actually branch on.
type Kind string

const (
	// ConfigError marks a missing or malformed configuration key. Fatal at startup.
	ConfigError Kind = "CONFIG_ERROR"
	// MissingFile marks a required CSV absent from the data source. Fatal for one run.
	MissingFile Kind = "MISSING_FILE"
	// ValidationError marks a required column missing or an unparseable critical value.
	ValidationError Kind = "VALIDATION_ERROR"
	// QualityWarning marks an L2 quality metric below threshold. Never fatal.
	QualityWarning Kind = "QUALITY_WARNING"
	// CategorizationError marks a malformed per-order row. Never fatal; the order is skipped.
	CategorizationError Kind = "CATEGORIZATION_ERROR"
	// GradingError marks an unrecoverable grading inconsistency (e.g. a window index out of range).
	GradingError Kind = "GRADING_ERROR"
	// PatternError marks an invalid pattern key or update value. Never fatal; the update is skipped.
	PatternError Kind = "PATTERN_ERROR"
	// StorageError marks a failed database write. Fatal for the run; triggers rollback.
	StorageError Kind = "STORAGE_ERROR"
	// Timeout marks a run that exceeded its soft timeout.
	Timeout Kind = "TIMEOUT"
	// Cancelled marks a run whose cancellation signal was observed.
	Cancelled Kind = "CANCELLED"
)

// fatalKinds are the kinds that abort the run they occurred in. Everything
// else is recorded as metadata and the stage continues.
var fatalKinds = map[Kind]bool{
	ConfigError:     true,
	MissingFile:     true,
	ValidationError: true,
	GradingError:    true,
	StorageError:    true,
	Timeout:         true,
	Cancelled:       true,
}

// Fatal reports whether errors of this kind abort the current run.
func (k Kind) Fatal() bool {
	return fatalKinds[k]
}

// Error is the structured error value every stage returns on failure.
type Error struct {
	Kind      Kind
	Stage     string
	Message   string
	Detail    string
	Elapsed   time.Duration
	Timestamp time.Time
	cause     error
}

// Option mutates an Error during construction.
type Option func(*Error)

// New constructs an Error of the given kind.
func New(kind Kind, message string, opts ...Option) *Error {
	e := &Error{
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithStage attaches the stage name that produced the error.
func WithStage(stage string) Option {
	return func(e *Error) { e.Stage = stage }
}

// WithDetail attaches a free-form detail string.
func WithDetail(detail string) Option {
	return func(e *Error) { e.Detail = detail }
}

// WithElapsed attaches the duration the stage ran before failing.
func WithElapsed(d time.Duration) Option {
	return func(e *Error) { e.Elapsed = d }
}

// WithCause wraps an underlying Go error for %w-style unwrapping.
func WithCause(err error) Option {
	return func(e *Error) { e.cause = err }
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Stage != "" {
		msg = fmt.Sprintf("[%s] %s", e.Stage, msg)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Fatal reports whether this error aborts the run it occurred in.
func (e *Error) Fatal() bool {
	return e.Kind.Fatal()
}

// From coerces any error into a *Error so upstream code always has a Kind
// to branch on: an existing *Error is returned unchanged, and any other
// error is wrapped in a new Error of the given kind and stage.
func From(kind Kind, stage string, err error) *Error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*Error); ok {
		return pe
	}
	return New(kind, err.Error(), WithStage(stage), WithCause(err))
}
