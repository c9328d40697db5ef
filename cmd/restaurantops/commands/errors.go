package commands

import "fmt"

// CLIError is a structured command failure carrying an exit code, grounded
// in admin-cli's internal/errors.CLIError: spec.md §6 fixes the exit code
// contract (0 success, 1 partial failure, 2 configuration/I/O failure), so
// this type exists purely to carry that code through cobra's RunE return
// path to main's os.Exit call.
type CLIError struct {
	Message    string
	Suggestion string
	ExitCode   int
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	msg := e.Message
	if e.Suggestion != "" {
		msg += "\n\nSuggestion: " + e.Suggestion
	}
	return msg
}

// NewConfigError builds a CLIError for configuration/I/O setup failures
// (exit code 2).
func NewConfigError(format string, args ...any) *CLIError {
	return &CLIError{
		Message:    fmt.Sprintf(format, args...),
		Suggestion: "Verify the --config directory contains base.yaml and that any referenced environment overlay exists.",
		ExitCode:   2,
	}
}

// NewPartialFailureError builds a CLIError for a batch with at least one
// failed run (exit code 1).
func NewPartialFailureError(succeeded, failed int) *CLIError {
	return &CLIError{
		Message:    fmt.Sprintf("%d run(s) failed out of %d", failed, succeeded+failed),
		Suggestion: "Inspect the per-failure lines above for the failing stage and kind.",
		ExitCode:   1,
	}
}
