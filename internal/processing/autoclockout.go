package processing

import (
	"strings"
	"time"

	"restaurantops/internal/config"
	"restaurantops/internal/domain"
)

// ComputeAutoClockout implements spec.md §4.5's auto-clockout correction.
// isSunday selects the Sunday schedule column instead of the weekday one;
// entries whose job title matches an excluded keyword (system, cashier)
// are skipped entirely, since those clock-outs are not employee-driven.
func ComputeAutoClockout(entries []domain.TimeEntry, restaurant string, isSunday bool, cfg config.AutoClockout) domain.AutoClockoutSummary {
	var summary domain.AutoClockoutSummary

	for _, e := range entries {
		if !e.AutoClockout {
			continue
		}
		if matchesAny(e.JobTitle, cfg.ExcludedJobKeywords) {
			continue
		}

		role := "FOH"
		if matchesAny(e.JobTitle, cfg.BOHJobKeywords) {
			role = "BOH"
		}

		schedule, ok := cfg.ShiftSchedules[restaurant][role]
		if !ok {
			continue
		}
		expectedEndStr := schedule.Weekday
		if isSunday && schedule.Sunday != "" {
			expectedEndStr = schedule.Sunday
		}
		expectedEnd, ok := parseExpectedEnd(e.ClockIn, expectedEndStr)
		if !ok {
			continue
		}

		suggestedHours := expectedEnd.Sub(e.ClockIn).Hours()
		if suggestedHours < 0 {
			suggestedHours = 0
		}
		diff := e.TotalHours - suggestedHours
		if diff < 0 {
			diff = 0
		}
		cost := diff * cfg.DefaultHourlyRate

		alert := domain.AutoClockoutAlert{
			EmployeeName:    e.EmployeeName,
			Role:            role,
			ClockIn:         e.ClockIn,
			RecordedHours:   e.TotalHours,
			SuggestedHours:  suggestedHours,
			HoursDifference: diff,
			CostImpact:      cost,
		}
		summary.Alerts = append(summary.Alerts, alert)
		summary.TotalHoursFlagged += diff
		summary.TotalCostImpact += cost
	}

	return summary
}

func matchesAny(title string, keywords []string) bool {
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// parseExpectedEnd combines the "HH:MM" expected-end-of-shift time from the
// schedule table with the clock-in's calendar date.
func parseExpectedEnd(clockIn time.Time, hhmm string) (time.Time, bool) {
	if hhmm == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(clockIn.Year(), clockIn.Month(), clockIn.Day(), t.Hour(), t.Minute(), 0, 0, clockIn.Location()), true
}
