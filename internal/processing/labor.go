// Package processing implements spec.md §4.5: daily labor metrics,
// the morning/evening shift split, auto-clockout correction, and weekly
// overtime.
package processing

import (
	"fmt"

	"restaurantops/internal/config"
	"restaurantops/internal/domain"
)

// ComputeLaborMetrics derives the labor percentage, status, grade, and
// templated warnings/recommendations for one run, per spec.md §4.5 and
// §8's "sales==0 -> 0%, not NaN" boundary rule.
func ComputeLaborMetrics(sales, laborCost float64, thresholds config.Thresholds) domain.LaborMetrics {
	var pct float64
	if sales != 0 {
		pct = 100 * laborCost / sales
	}

	status := thresholds.StatusFor(pct)
	grade := thresholds.GradeFor(pct)
	if sales == 0 {
		// sales==0 forces the SEVERE/F boundary regardless of where a
		// zero cost would otherwise land on the threshold table.
		status = "SEVERE"
		grade = "F"
	}

	return domain.LaborMetrics{
		LaborPercentage: pct,
		Status:          status,
		Grade:           grade,
		Warnings:        warningsFor(status, pct),
		Recommendations: recommendationsFor(status),
	}
}

func warningsFor(status string, pct float64) []string {
	switch status {
	case "EXCELLENT", "GOOD":
		return nil
	case "WARNING":
		return []string{fmt.Sprintf("labor cost is %.1f%% of sales, above the 25%% comfort band", pct)}
	case "CRITICAL":
		return []string{fmt.Sprintf("labor cost is %.1f%% of sales, in the critical range", pct)}
	default: // SEVERE
		return []string{fmt.Sprintf("labor cost is %.1f%% of sales, severely over budget", pct)}
	}
}

func recommendationsFor(status string) []string {
	switch status {
	case "EXCELLENT":
		return nil
	case "GOOD":
		return []string{"monitor staffing levels; no action required"}
	case "WARNING":
		return []string{"review shift schedules for overstaffed windows"}
	case "CRITICAL":
		return []string{"reduce scheduled hours for the next comparable shift", "review overtime authorizations"}
	default: // SEVERE
		return []string{"escalate to the general manager", "audit clock-in/out records for errors", "reduce scheduled hours immediately"}
	}
}
