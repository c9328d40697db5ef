package cliout

import (
	"fmt"
	"io"
	"text/tabwriter"

	"restaurantops/internal/domain"
)

// TableFormatter writes aligned, human-readable tables using text/tabwriter,
// matching admin-cli's table output style.
type TableFormatter struct {
	writer *tabwriter.Writer
}

// NewTableFormatter builds a TableFormatter writing to w.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
}

// WriteHeader writes a header row.
func (f *TableFormatter) WriteHeader(columns ...string) {
	for i, c := range columns {
		if i > 0 {
			fmt.Fprint(f.writer, "\t")
		}
		fmt.Fprint(f.writer, c)
	}
	fmt.Fprintln(f.writer)
}

// WriteRow writes a single data row.
func (f *TableFormatter) WriteRow(cells ...string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(f.writer, "\t")
		}
		fmt.Fprint(f.writer, c)
	}
	fmt.Fprintln(f.writer)
}

// Flush flushes buffered output to the underlying writer.
func (f *TableFormatter) Flush() error {
	return f.writer.Flush()
}

// WriteRunResult renders one PipelineRunResult as a single table row of
// restaurant, date and status plus its headline metrics, with "-" in
// place of the metrics when the run did not succeed.
func (f *TableFormatter) WriteRunResult(r domain.PipelineRunResult) error {
	f.WriteHeader("RESTAURANT", "DATE", "STATUS", "SALES", "LABOR%", "GRADE", "NET_CASH")
	if !r.Success {
		f.WriteRow(r.Restaurant, r.Date, "FAILED", "-", "-", "-", "-")
		return f.Flush()
	}
	f.WriteRow(
		r.Restaurant,
		r.Date,
		"OK",
		fmt.Sprintf("%.2f", r.TotalSales),
		fmt.Sprintf("%.1f%%", r.LaborMetrics.LaborPercentage),
		r.LaborMetrics.Grade,
		fmt.Sprintf("%.2f", r.CashFlow.Total().NetCash),
	)
	return f.Flush()
}

// WriteBatchSummary renders a batch's per-run outcomes followed by a
// compact per-failure breakdown, matching spec.md's "X succeeded, Y
// failed" CLI summary requirement.
func (f *TableFormatter) WriteBatchSummary(results []domain.PipelineRunResult) error {
	f.WriteHeader("RESTAURANT", "DATE", "STATUS", "SALES", "LABOR%", "GRADE")
	succeeded, failed := 0, 0
	for _, r := range results {
		if r.Success {
			succeeded++
			f.WriteRow(
				r.Restaurant,
				r.Date,
				"OK",
				fmt.Sprintf("%.2f", r.TotalSales),
				fmt.Sprintf("%.1f%%", r.LaborMetrics.LaborPercentage),
				r.LaborMetrics.Grade,
			)
			continue
		}
		failed++
		f.WriteRow(r.Restaurant, r.Date, "FAILED", "-", "-", "-")
	}
	if err := f.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(f.writer, "\n%d succeeded, %d failed\n", succeeded, failed)
	for _, r := range results {
		if r.Success || r.Error == nil {
			continue
		}
		fmt.Fprintf(f.writer, "  %s %s: %s failed (%s) - %s\n",
			r.Restaurant, r.Date, r.Error.Stage, r.Error.Kind, r.Error.Message)
	}
	return f.Flush()
}
