// Package cliout renders restaurantops CLI results as JSON or as aligned
// tables, grounded in admin-cli's internal/output package: the same
// envelope shape (success flag, timestamp, command name, error block), the
// same tabwriter-based table renderer, generalized to this pipeline's
// batch and single-run result types instead of admin-cli's generic
// interface{} payloads.
package cliout

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output is the JSON envelope every command emits in --format json mode.
type Output struct {
	Success   bool         `json:"success"`
	Timestamp string       `json:"timestamp"`
	Command   string       `json:"command"`
	Data      any          `json:"data,omitempty"`
	Error     *ErrorOutput `json:"error,omitempty"`
	Summary   string       `json:"summary,omitempty"`
}

// ErrorOutput carries a machine-readable code alongside the operator-facing
// message and suggestion.
type ErrorOutput struct {
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// JSONFormatter writes Output envelopes as indented JSON to writer.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter builds a JSONFormatter.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// WriteSuccess emits a successful Output envelope.
func (f *JSONFormatter) WriteSuccess(command string, data any, summary string) error {
	return f.Write(Output{
		Success:   true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
		Data:      data,
		Summary:   summary,
	})
}

// WriteError emits a failed Output envelope.
func (f *JSONFormatter) WriteError(command, message, code, suggestion string) error {
	return f.Write(Output{
		Success:   false,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
		Error: &ErrorOutput{
			Message:    message,
			Code:       code,
			Suggestion: suggestion,
		},
	})
}

// Write emits an already-built Output envelope.
func (f *JSONFormatter) Write(out Output) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encode cli output: %w", err)
	}
	return nil
}
