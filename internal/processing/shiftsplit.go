package processing

import (
	"strings"

	"restaurantops/internal/config"
	"restaurantops/internal/domain"
)

const (
	fallbackMorningRatio = 0.35
	fallbackEveningRatio = 0.65
)

// SplitShifts implements spec.md §4.5's shift-split algorithm: bin orders
// by hour, using each order's timestamp (categorization resolves this to
// the kitchen row's "Fire Time" when present, falling back to the order
// row's "Opened" time), and split sales/labor by the resulting
// morning/evening ratio. If no order carries a usable timestamp, fall
// back to the fixed 0.35/0.65 ratio.
func SplitShifts(orders []domain.OrderRecord, sales, laborCost float64, entries []domain.TimeEntry, cfg config.Shifts) domain.ShiftMetrics {
	morningCount, eveningCount := 0, 0
	for _, o := range orders {
		if !o.HasOrderTime {
			continue
		}
		if o.OrderTime.Hour() < cfg.CutoffHour {
			morningCount++
		} else {
			eveningCount++
		}
	}

	total := morningCount + eveningCount
	var morningRatio float64
	method := "timestamp"
	if total == 0 {
		morningRatio = fallbackMorningRatio
		method = "fixed_ratio"
	} else {
		morningRatio = float64(morningCount) / float64(total)
	}
	eveningRatio := 1 - morningRatio

	morningManager := pickManager(entries, cfg.CutoffHour, true, cfg.ManagerJobKeywords)
	eveningManager := pickManager(entries, cfg.CutoffHour, false, cfg.ManagerJobKeywords)

	return domain.ShiftMetrics{
		SplitMethod: method,
		Morning: domain.ShiftHalf{
			Sales:      sales * morningRatio,
			Labor:      laborCost * morningRatio,
			Manager:    morningManager,
			OrderCount: morningCount,
		},
		Evening: domain.ShiftHalf{
			Sales:      sales * eveningRatio,
			Labor:      laborCost * eveningRatio,
			Manager:    eveningManager,
			OrderCount: eveningCount,
		},
	}
}

// pickManager finds the manager whose clock-in/out interval overlaps the
// requested half of the day, earliest clock-in wins ties, per spec.md
// §4.5. Returns "Not Assigned" if none match.
func pickManager(entries []domain.TimeEntry, cutoffHour int, morning bool, keywords []string) string {
	var best *domain.TimeEntry
	for i := range entries {
		e := &entries[i]
		if !isManagerTitle(e.JobTitle, keywords) {
			continue
		}
		if !overlapsHalf(e, cutoffHour, morning) {
			continue
		}
		if best == nil || e.ClockIn.Before(best.ClockIn) {
			best = e
		}
	}
	if best == nil {
		return "Not Assigned"
	}
	return best.EmployeeName
}

func isManagerTitle(title string, keywords []string) bool {
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// overlapsHalf reports whether a time entry's clock-in/out interval
// overlaps the given half of the business day (morning is [0,cutoff),
// evening is [cutoff,24)), compared purely by hour-of-day.
func overlapsHalf(e *domain.TimeEntry, cutoffHour int, morning bool) bool {
	inHour, outHour := e.ClockIn.Hour(), e.ClockOut.Hour()
	if e.ClockOut.Before(e.ClockIn) {
		outHour = 24 // overnight shift: treat clock-out as end of day
	}
	if morning {
		return inHour < cutoffHour
	}
	return outHour >= cutoffHour || inHour >= cutoffHour
}
