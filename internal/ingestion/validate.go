package ingestion

import (
	"fmt"

	"restaurantops/internal/domain"
)

// requiredColumns lists the L1-fatal column requirements per spec.md
// §4.2. "Net sales" is deliberately the literal column name with a space.
var requiredColumns = map[string][]string{
	"labor":  {"Employee", "Job Title", "In Date", "Out Date", "Total Hours", "Payable Hours"},
	"sales":  {"Net sales"},
	"orders": {"Order #", "Opened", "Server", "Amount"},
}

// validateRequiredFile checks L1 fatal conditions: the file exists,
// is non-empty, and has every required column in its header.
func validateRequiredFile(logicalName string, rows []map[string]string, ok bool) error {
	if !ok {
		return fmt.Errorf("required file %q is missing", logicalName)
	}
	if len(rows) == 0 {
		return fmt.Errorf("required file %q is empty", logicalName)
	}
	for _, col := range requiredColumns[logicalName] {
		if _, present := rows[0][col]; !present {
			return fmt.Errorf("required file %q is missing column %q", logicalName, col)
		}
	}
	return nil
}

// computeQualityMetrics derives L2 quality metrics for the required files.
// It never fails; low scores are surfaced as QualityWarning metadata by
// the caller, not as an error return.
func computeQualityMetrics(tables map[string][]map[string]string) domain.QualityMetrics {
	qm := domain.QualityMetrics{
		RowCounts:    make(map[string]int),
		NonNullRates: make(map[string]map[string]float64),
	}

	minRate := 1.0
	for logicalName, cols := range requiredColumns {
		rows, ok := tables[logicalName]
		qm.RowCounts[logicalName] = len(rows)
		if !ok || len(rows) == 0 {
			continue
		}
		rates := make(map[string]float64, len(cols))
		for _, col := range cols {
			nonNull := 0
			for _, row := range rows {
				if row[col] != "" {
					nonNull++
				}
			}
			rate := float64(nonNull) / float64(len(rows))
			rates[col] = rate
			if rate < minRate {
				minRate = rate
			}
		}
		qm.NonNullRates[logicalName] = rates
	}

	qm.TimestampParseRate = timestampParseRate(tables["labor"])
	if qm.TimestampParseRate < minRate {
		minRate = qm.TimestampParseRate
	}
	qm.OverallScore = minRate
	return qm
}

func timestampParseRate(laborRows []map[string]string) float64 {
	if len(laborRows) == 0 {
		return 1.0
	}
	parsed := 0
	total := 0
	for _, row := range laborRows {
		for _, col := range []string{"In Date", "Out Date"} {
			total++
			if _, ok := parseTimestamp(row[col]); ok {
				parsed++
			}
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(parsed) / float64(total)
}
