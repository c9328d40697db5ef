package processing

import (
	"sort"

	"restaurantops/internal/config"
	"restaurantops/internal/domain"
)

// ComputeOvertime implements spec.md §4.5's weekly overtime computation.
// total_weekly_hours sums each employee's payable hours already accumulated
// earlier in the week (from weekly, which may be nil for a standalone run
// or the first run of a week) with the payable hours worked on this run's
// date. Employees at or under the threshold produce no record; records are
// returned sorted by employee name for stable output.
func ComputeOvertime(entries []domain.TimeEntry, weekly domain.WeeklyHoursLookup, cfg config.Overtime, defaultRate float64) []domain.OvertimeRecord {
	todayHours := make(map[string]float64)
	rates := make(map[string]float64)
	var order []string
	for _, e := range entries {
		if _, seen := todayHours[e.EmployeeName]; !seen {
			order = append(order, e.EmployeeName)
		}
		todayHours[e.EmployeeName] += e.PayableHours
		rate := defaultRate
		if e.HasRate {
			rate = e.HourlyRate
		}
		rates[e.EmployeeName] = rate
	}
	sort.Strings(order)

	var out []domain.OvertimeRecord
	for _, name := range order {
		prior := 0.0
		if weekly != nil {
			prior = weekly.PriorHours(name)
		}
		total := prior + todayHours[name]
		if total <= cfg.WeeklyThresholdHours {
			continue
		}

		overtimeHours := total - cfg.WeeklyThresholdHours
		rate := rates[name]
		out = append(out, domain.OvertimeRecord{
			EmployeeName:     name,
			TotalWeeklyHours: total,
			OvertimeHours:    overtimeHours,
			HourlyRate:       rate,
			OvertimeCost:     overtimeHours * rate * cfg.Multiplier,
			Severity:         overtimeSeverity(overtimeHours),
		})
	}
	return out
}

// overtimeSeverity classifies overtime hours per spec.md §4.5: under 10
// hours over is normal, 10 up to 20 is a warning, 20 or more is critical.
func overtimeSeverity(overtimeHours float64) domain.OvertimeSeverity {
	switch {
	case overtimeHours >= 20:
		return domain.OvertimeCritical
	case overtimeHours >= 10:
		return domain.OvertimeWarning
	default:
		return domain.OvertimeNormal
	}
}
