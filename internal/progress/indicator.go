// Package progress displays progress for the run-range batch command,
// grounded in admin-cli's internal/progress/indicator.go: the same
// 30-second display threshold, the same table/json dual format, emitting
// progress events suitable for CI logs and monitoring systems.
package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Indicator displays progress for a batch of (restaurant, date) runs.
type Indicator struct {
	writer      io.Writer
	minDuration time.Duration
	format      string // "table" or "json"
	enabled     bool
}

// NewIndicator creates a progress indicator writing to w. A nil w defaults
// to os.Stderr so progress never pollutes a JSON result on stdout.
func NewIndicator(w io.Writer, format string) *Indicator {
	if w == nil {
		w = os.Stderr
	}
	return &Indicator{
		writer:      w,
		minDuration: 30 * time.Second,
		format:      format,
		enabled:     true,
	}
}

// Event is one progress update, suitable for a monitoring system or CI log.
type Event struct {
	Timestamp       string  `json:"timestamp"`
	Operation       string  `json:"operation"`
	PercentComplete float64 `json:"percent_complete"`
	RunsProcessed   int     `json:"runs_processed,omitempty"`
	TotalRuns       int     `json:"total_runs,omitempty"`
	Elapsed         string  `json:"elapsed"`
	Remaining       string  `json:"remaining,omitempty"`
}

// Update reports progress through a batch of total runs.
func (p *Indicator) Update(op string, processed, total int, elapsed time.Duration) error {
	if !p.enabled || total == 0 {
		return nil
	}

	percent := float64(processed) / float64(total) * 100
	var remaining time.Duration
	if processed > 0 {
		avgPerRun := elapsed / time.Duration(processed)
		remaining = avgPerRun * time.Duration(total-processed)
	}

	if p.format == "json" {
		event := Event{
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
			Operation:       op,
			PercentComplete: percent,
			RunsProcessed:   processed,
			TotalRuns:       total,
			Elapsed:         elapsed.String(),
			Remaining:       remaining.String(),
		}
		return json.NewEncoder(p.writer).Encode(event)
	}

	fmt.Fprintf(p.writer, "\r%s: %.1f%% (%d/%d runs) [elapsed: %s, remaining: %s]",
		op, percent, processed, total, elapsed.Round(time.Second), remaining.Round(time.Second))
	return nil
}

// Complete marks the batch as finished.
func (p *Indicator) Complete(op string, total int, elapsed time.Duration) error {
	if !p.enabled {
		return nil
	}

	if p.format == "json" {
		event := Event{
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
			Operation:       op,
			PercentComplete: 100,
			RunsProcessed:   total,
			TotalRuns:       total,
			Elapsed:         elapsed.String(),
			Remaining:       "0s",
		}
		return json.NewEncoder(p.writer).Encode(event)
	}

	fmt.Fprintf(p.writer, "\r%s: 100.0%% (%d/%d runs) [completed in %s]\n",
		op, total, total, elapsed.Round(time.Second))
	return nil
}

// ShouldShow reports whether progress is worth displaying yet: only once
// elapsed is strictly more than 30 seconds.
func (p *Indicator) ShouldShow(elapsed time.Duration) bool {
	return p.enabled && elapsed > p.minDuration
}
